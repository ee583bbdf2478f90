package chat

import "strings"

// Google Chat event types the bot reacts to. Anything else falls through to
// an empty acknowledgement.
const (
	TypeAddedToSpace = "ADDED_TO_SPACE"
	TypeMessage      = "MESSAGE"
)

// Slash-command tokens, matched exactly with no argument parsing.
const (
	CmdCheckIn    = "/출근"
	CmdCheckOut   = "/퇴근"
	CmdBreakStart = "/휴식"
)

// Event is the inbound payload Google Chat posts to the bot endpoint.
type Event struct {
	Type    string          `json:"type"`
	Message *InboundMessage `json:"message,omitempty"`
	Space   *Space          `json:"space,omitempty"`
}

type InboundMessage struct {
	Text         string        `json:"text,omitempty"`
	SlashCommand *SlashCommand `json:"slashCommand,omitempty"`
	Sender       Sender        `json:"sender"`
}

type SlashCommand struct {
	CommandID   string `json:"commandId,omitempty"`
	CommandName string `json:"commandName,omitempty"`
}

type Sender struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

type Space struct {
	Name string `json:"name"`
}

// Command extracts the slash-command token from the message, preferring the
// structured slashCommand field over raw message text.
func (m *InboundMessage) Command() string {
	if m == nil {
		return ""
	}
	if m.SlashCommand != nil && m.SlashCommand.CommandName != "" {
		return strings.TrimSpace(m.SlashCommand.CommandName)
	}
	return strings.TrimSpace(m.Text)
}
