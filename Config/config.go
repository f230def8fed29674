package Config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"chat-summariser/Models"

	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	StorePostgres = "postgres"
	StoreSqlite   = "sqlite"
)

// Config is the process configuration, loaded once at startup.
type Config struct {
	Port string

	SlackBotToken      string
	SlackUserToken     string
	SlackSigningSecret string

	CompletionProvider string
	CompletionModel    string
	GeminiApiKey       string
	OpenAIApiKey       string
	OpenAIBaseURL      string

	StoreDriver string
	DatabaseUrl string
	SqlitePath  string

	DeploymentBaseURI string
	KeepAliveSchedule string
	LogLevel          slog.Level
}

// Load reads the optional .env file and then the environment.
func Load() (*Config, error) {
	dotEnvError := godotenv.Load()
	if dotEnvError != nil && !errors.Is(dotEnvError, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", dotEnvError)
	}

	config := &Config{
		Port:               getEnv("PORT", "8080"),
		SlackBotToken:      os.Getenv("SLACK_BOT_TOKEN"),
		SlackUserToken:     os.Getenv("SLACK_USER_TOKEN"),
		SlackSigningSecret: os.Getenv("SLACK_SIGNING_SECRET"),
		CompletionProvider: strings.ToLower(getEnv("COMPLETION_PROVIDER", ProviderGemini)),
		CompletionModel:    os.Getenv("COMPLETION_MODEL"),
		GeminiApiKey:       os.Getenv("GEMINI_API_KEY"),
		OpenAIApiKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:      os.Getenv("OPENAI_BASE_URL"),
		StoreDriver:        strings.ToLower(getEnv("STORE_DRIVER", StoreSqlite)),
		DatabaseUrl:        os.Getenv("DATABASE_URL"),
		SqlitePath:         getEnv("SQLITE_PATH", "chat-summary.sqlite"),
		DeploymentBaseURI:  os.Getenv("DEPLOYMENT_BASE_URI"),
		KeepAliveSchedule:  getEnv("KEEPALIVE_SCHEDULE", "*/5 * * * *"),
	}

	if levelError := config.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); levelError != nil {
		return nil, fmt.Errorf("parse LOG_LEVEL: %w", levelError)
	}

	if validateError := config.validate(); validateError != nil {
		return nil, validateError
	}
	return config, nil
}

func (c *Config) validate() error {
	if c.SlackBotToken == "" {
		return errors.New("SLACK_BOT_TOKEN is required")
	}
	if c.SlackSigningSecret == "" {
		return errors.New("SLACK_SIGNING_SECRET is required")
	}

	switch c.CompletionProvider {
	case ProviderGemini:
		if c.GeminiApiKey == "" {
			return errors.New("GEMINI_API_KEY is required for the gemini provider")
		}
	case ProviderOpenAI:
		if c.OpenAIApiKey == "" && c.OpenAIBaseURL == "" {
			return errors.New("OPENAI_API_KEY or OPENAI_BASE_URL is required for the openai provider")
		}
	default:
		return fmt.Errorf("unknown COMPLETION_PROVIDER %q", c.CompletionProvider)
	}

	switch c.StoreDriver {
	case StorePostgres:
		if c.DatabaseUrl == "" {
			return errors.New("DATABASE_URL is required for the postgres store")
		}
	case StoreSqlite:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}

// EnvSettings re-reads the add-on settings from the environment each time
// they are asked for, so a changed setting applies to the next invocation.
type EnvSettings struct{}

func (EnvSettings) Settings() Models.Settings {
	return Models.Settings{
		AddOns:    ParseAddOns(os.Getenv("ADD_ONS")),
		AuthToken: os.Getenv("X_AUTH_TOKEN"),
		UserID:    os.Getenv("X_USER_ID"),
	}
}

// ParseAddOns parses a comma separated add-on list. Unknown names are logged
// and skipped.
func ParseAddOns(raw string) Models.AddOnSet {
	var set Models.AddOnSet
	for _, name := range strings.Split(raw, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		addOn, ok := Models.ParseAddOn(name)
		if !ok {
			slog.Warn("Config:ParseAddOns#unknown add-on", "name", name)
			continue
		}
		set |= Models.NewAddOnSet(addOn)
	}
	return set
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
