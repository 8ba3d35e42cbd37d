package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	// Auth for the chat gateway calling the HTTP API
	APIKey string

	// FAQ documents, merged in this order
	FAQDocuments []string
	FAQWatch     bool

	// Static texts; empty means the embedded catalog
	ContentFile string

	// Broadcast subscriptions
	StorePath       string
	BroadcastHour   int
	BroadcastMinute int
	BroadcastTZ     string
	BroadcastTick   time.Duration

	// Outbound delivery to the chat gateway
	OutboxURL    string
	OutboxAPIKey string

	// Per-user state
	SessionTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("FAQBOT_API_KEY"),

		FAQDocuments: envList("FAQ_DOCUMENTS", []string{
			"Banco_Preguntas_Decreto_255.docx",
			"Banco_Preguntas_Acuerdo_196.docx",
		}),
		FAQWatch: envBool("FAQ_WATCH", false),

		ContentFile: os.Getenv("CONTENT_FILE"),

		StorePath:       envOr("STORE_PATH", "faqbot.db"),
		BroadcastHour:   envInt("BROADCAST_HOUR", 9),
		BroadcastMinute: envInt("BROADCAST_MINUTE", 0),
		BroadcastTZ:     envOr("BROADCAST_TZ", "America/Guayaquil"),
		BroadcastTick:   envDuration("BROADCAST_TICK", 30*time.Second),

		OutboxURL:    os.Getenv("OUTBOX_URL"),
		OutboxAPIKey: os.Getenv("OUTBOX_API_KEY"),

		SessionTTL: envDuration("SESSION_TTL", 24*time.Hour),
	}

	if cfg.BroadcastHour < 0 || cfg.BroadcastHour > 23 {
		cfg.BroadcastHour = 9
	}
	if cfg.BroadcastMinute < 0 || cfg.BroadcastMinute > 59 {
		cfg.BroadcastMinute = 0
	}
	if cfg.BroadcastTick <= 0 {
		cfg.BroadcastTick = 30 * time.Second
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}

	return cfg
}

// Validate checks the settings the HTTP service cannot run without.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("FAQBOT_API_KEY is required")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("BROADCAST_TZ: %w", err)
	}
	return nil
}

// Location resolves BroadcastTZ.
func (c Config) Location() (*time.Location, error) {
	if c.BroadcastTZ == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.BroadcastTZ)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envList splits a comma-separated variable, keeping order and dropping blanks.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
