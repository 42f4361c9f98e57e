package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// YelpCredentials holds the four secret fields the search API requires.
type YelpCredentials struct {
	ConsumerKey    string
	ConsumerSecret string
	Token          string
	TokenSecret    string
}

// Config aggregates application-wide configuration values.
type Config struct {
	Port               string
	Yelp               YelpCredentials
	YelpBaseURL        string
	SlackBotToken      string
	SlackSigningSecret string
	SlackBaseURL       string
	RedisAddr          string
	RateLimitEvents    RateLimitConfig
	MaxReprompts       int
	DialogueTTL        time.Duration
	JWTSecret          string
	TokenTTL           time.Duration
	AdminEmail         string
	AdminPasswordHash  string
}

// Load reads configuration from environment variables. Missing search or
// platform credentials are a startup error; everything else has defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnv("PORT", "3001"),
		Yelp: YelpCredentials{
			ConsumerKey:    os.Getenv("YELP_CONSUMER_KEY"),
			ConsumerSecret: os.Getenv("YELP_CONSUMER_SECRET"),
			Token:          os.Getenv("YELP_TOKEN"),
			TokenSecret:    os.Getenv("YELP_TOKEN_SECRET"),
		},
		YelpBaseURL:        getEnv("YELP_BASE_URL", "https://api.yelp.com/v2"),
		SlackBotToken:      os.Getenv("SLACK_BOT_TOKEN"),
		SlackSigningSecret: os.Getenv("SLACK_SIGNING_SECRET"),
		SlackBaseURL:       getEnv("SLACK_BASE_URL", "https://slack.com/api"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		MaxReprompts:       parseInt(getEnv("DIALOGUE_MAX_REPROMPTS", "5")),
		DialogueTTL:        parseDuration(getEnv("DIALOGUE_TTL", "15m"), 15*time.Minute),
		JWTSecret:          getEnv("JWT_SECRET", "dev-secret"),
		TokenTTL:           parseDuration(getEnv("JWT_TTL", "24h"), 24*time.Hour),
		AdminEmail:         os.Getenv("ADMIN_EMAIL"),
		AdminPasswordHash:  os.Getenv("ADMIN_PASSWORD_HASH"),
	}

	if missing := cfg.missingCredentials(); len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_EVENTS", "30/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_EVENTS value: %w", err)
	}
	cfg.RateLimitEvents = rl

	return cfg, nil
}

// AdminEnabled reports whether the admin surface can issue tokens.
func (c *Config) AdminEnabled() bool {
	return c.AdminEmail != "" && c.AdminPasswordHash != ""
}

func (c *Config) missingCredentials() []string {
	required := []struct {
		key   string
		value string
	}{
		{"YELP_CONSUMER_KEY", c.Yelp.ConsumerKey},
		{"YELP_CONSUMER_SECRET", c.Yelp.ConsumerSecret},
		{"YELP_TOKEN", c.Yelp.Token},
		{"YELP_TOKEN_SECRET", c.Yelp.TokenSecret},
		{"SLACK_BOT_TOKEN", c.SlackBotToken},
	}

	missing := make([]string, 0)
	for _, entry := range required {
		if strings.TrimSpace(entry.value) == "" {
			missing = append(missing, entry.key)
		}
	}
	return missing
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseInt(input string) int {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil {
		return fallback
	}
	return d
}
