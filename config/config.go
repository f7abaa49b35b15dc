package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"

	"bitbucket.org/fieldfocus/punchlist_backend/utils"
)

// Config is built once at startup and handed to every component. Business
// logic never reads the environment directly.
type Config struct {
	Port string
	Env  string

	// Hosted relational store (REST interface). The service credential is
	// attached to every outbound call as both the apikey header and a
	// bearer token.
	BackendURL        string
	BackendServiceKey string

	// Branding fallbacks used by the report renderer when neither the
	// request nor the work order supplies them.
	CompanyName    string
	CompanyTagline string
	CompanyAddress string
	CompanyPhone   string
	CompanyLogoURL string

	// Optional local OpenAI-compatible model server for the chat
	// pass-through endpoint. Empty disables the endpoint.
	ChatCompletionsURL string
	ChatModel          string

	CORSAllowedOrigins []string
}

// Load reads the environment (.env first, real env wins) and validates the
// keys the service cannot run without.
func Load() (*Config, error) {
	// .env is a developer convenience; production sets env vars directly.
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                os.Getenv("GO_ENV"),
		BackendURL:         strings.TrimRight(strings.TrimSpace(os.Getenv("BACKEND_URL")), "/"),
		BackendServiceKey:  strings.TrimSpace(os.Getenv("BACKEND_SERVICE_KEY")),
		CompanyName:        os.Getenv("COMPANY_NAME"),
		CompanyTagline:     os.Getenv("COMPANY_TAGLINE"),
		CompanyAddress:     os.Getenv("COMPANY_ADDRESS"),
		CompanyPhone:       os.Getenv("COMPANY_PHONE"),
		CompanyLogoURL:     os.Getenv("COMPANY_LOGO_URL"),
		ChatCompletionsURL: strings.TrimSpace(os.Getenv("CHAT_COMPLETIONS_URL")),
		ChatModel:          strings.TrimSpace(os.Getenv("CHAT_MODEL")),
		CORSAllowedOrigins: splitAndTrim(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}

	var missing []string
	if cfg.BackendURL == "" {
		missing = append(missing, "BACKEND_URL")
	}
	if cfg.BackendServiceKey == "" {
		missing = append(missing, "BACKEND_SERVICE_KEY")
	}
	if len(missing) > 0 {
		return nil, &utils.ConfigError{Missing: missing}
	}
	return cfg, nil
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
