package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Response modes for the bot endpoint. Inline answers in the HTTP response
// body; webhook re-sends the reply through the attendance webhook via the
// notify queue.
const (
	RespondInline     = "inline"
	RespondViaWebhook = "webhook"
	RespondBoth       = "both"
)

type Config struct {
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	ServerPort string `mapstructure:"SERVER_PORT"`

	AWSRegion         string `mapstructure:"AWS_REGION"`
	AWSEndpoint       string `mapstructure:"AWS_ENDPOINT"`
	NotifySQSQueueURL string `mapstructure:"NOTIFY_SQS_QUEUE_URL"`

	// Webhook URLs are secrets and have no defaults; they must come from the
	// environment.
	AttendanceWebhookURL string `mapstructure:"ATTENDANCE_WEBHOOK_URL"`
	DailyScrumWebhookURL string `mapstructure:"DAILY_SCRUM_WEBHOOK_URL"`

	ResponseMode       string `mapstructure:"RESPONSE_MODE"`
	AttendanceTimezone string `mapstructure:"ATTENDANCE_TIMEZONE"`

	IsLocalDev bool `mapstructure:"IS_LOCAL_DEV"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (config Config, err error) {
	viper.SetDefault("DB_HOST", "db")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "attendance_db")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("AWS_ENDPOINT", "http://localstack:4566")
	viper.SetDefault("NOTIFY_SQS_QUEUE_URL", "http://localstack:4566/000000000000/notify-queue")
	viper.SetDefault("RESPONSE_MODE", RespondBoth)
	viper.SetDefault("ATTENDANCE_TIMEZONE", "Asia/Seoul")
	viper.SetDefault("IS_LOCAL_DEV", false)

	// Read in environment variables that match the keys.
	viper.AutomaticEnv()

	// The webhook URLs have no defaults, and Unmarshal only resolves keys
	// viper already knows about, so they need an explicit binding.
	for _, key := range []string{"ATTENDANCE_WEBHOOK_URL", "DAILY_SCRUM_WEBHOOK_URL"} {
		if err = viper.BindEnv(key); err != nil {
			return
		}
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	switch config.ResponseMode {
	case RespondInline, RespondViaWebhook, RespondBoth:
	default:
		err = fmt.Errorf("invalid RESPONSE_MODE %q", config.ResponseMode)
		return
	}

	if config.NotifyEnabled() && config.AttendanceWebhookURL == "" {
		err = fmt.Errorf("ATTENDANCE_WEBHOOK_URL is required when RESPONSE_MODE is %q", config.ResponseMode)
	}
	return
}

// Location resolves the configured attendance timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.AttendanceTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_TIMEZONE %q: %w", c.AttendanceTimezone, err)
	}
	return loc, nil
}

// NotifyEnabled reports whether replies are re-sent through the webhook.
func (c Config) NotifyEnabled() bool {
	return c.ResponseMode != RespondInline
}

// InlineEnabled reports whether replies are returned in the HTTP response body.
func (c Config) InlineEnabled() bool {
	return c.ResponseMode != RespondViaWebhook
}
