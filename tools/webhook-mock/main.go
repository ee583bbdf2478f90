package main

import (
	"encoding/json"
	"log"
	"net/http"
)

// A simple struct to capture the incoming chat message
type ChatMessage struct {
	Text  string            `json:"text,omitempty"`
	Cards []json.RawMessage `json:"cards,omitempty"`
}

func webhookHandler(w http.ResponseWriter, r *http.Request) {
	var msg ChatMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	if msg.Text != "" {
		log.Printf("Received webhook message: %s", msg.Text)
	} else {
		log.Printf("Received webhook card message (%d cards)", len(msg.Cards))
	}
	w.WriteHeader(http.StatusOK)
}

func main() {
	http.HandleFunc("/", webhookHandler)
	log.Println("Chat webhook mock server starting on port 8082...")
	log.Fatal(http.ListenAndServe(":8082", nil))
}
