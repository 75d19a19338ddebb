package config

import (
	"os"
	"strconv"
	"strings"
)

const DefaultPaystackBaseURL = "https://api.paystack.co"

// Config holds everything the service reads from the environment. main.go
// loads it once and hands it to the pieces that need it; nothing else touches
// os.Getenv for these values.
type Config struct {
	Port   string
	DBPath string

	PaystackSecretKey string
	PaystackBaseURL   string

	NotifyWebhookURL string

	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
	FromEmail string

	AdminSetupSecret string

	SuccessLogPath   string
	FailureLogPath   string
	SentEmailLogPath string
}

func Load() *Config {
	smtpPort, _ := strconv.Atoi(strings.TrimSpace(os.Getenv("SMTP_PORT")))

	return &Config{
		Port:   getenv("PORT", "4242"),
		DBPath: getenv("DB_PATH", "snow.db"),

		PaystackSecretKey: strings.TrimSpace(os.Getenv("PAYSTACK_SECRET_KEY")),
		PaystackBaseURL:   getenv("PAYSTACK_BASE_URL", DefaultPaystackBaseURL),

		NotifyWebhookURL: strings.TrimSpace(os.Getenv("NOTIFY_WEBHOOK_URL")),

		SMTPHost:  strings.TrimSpace(os.Getenv("SMTP_HOST")),
		SMTPPort:  smtpPort,
		SMTPUser:  strings.TrimSpace(os.Getenv("SMTP_USER")),
		SMTPPass:  strings.TrimSpace(os.Getenv("SMTP_PASS")),
		FromEmail: strings.TrimSpace(os.Getenv("FROM_EMAIL")),

		AdminSetupSecret: strings.TrimSpace(os.Getenv("ADMIN_SETUP_SECRET")),

		SuccessLogPath:   getenv("SUCCESS_LOG_PATH", "successful-verifications.log"),
		FailureLogPath:   getenv("FAILURE_LOG_PATH", "failed-verifications.log"),
		SentEmailLogPath: getenv("SENT_EMAIL_LOG_PATH", "sent-emails.log"),
	}
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
