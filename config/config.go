package config

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"macrofeed/models"
)

const (
	DefaultPort               = "3000"
	DefaultMacroEnvPrefix     = "MACRO_"
	DefaultMaxUpdatesPerMacro = 100
)

type SlackConfig struct {
	AlertWebhookURL string
}

// IsConfigured returns true if Slack error alerts can be sent
func (c SlackConfig) IsConfigured() bool {
	return c.AlertWebhookURL != ""
}

type DiscordConfig struct {
	BotToken string
}

// IsConfigured returns true if the Discord relay can be started
func (c DiscordConfig) IsConfigured() bool {
	return c.BotToken != ""
}

type AppConfig struct {
	Port               string
	CORSAllowedOrigins string
	Environment        string
	ServerLogsURL      string
	MaxUpdatesPerMacro int
	MacroEnvPrefix     string

	// Read once at startup, never modified afterwards
	ConfiguredMacros []models.ConfiguredMacro

	SlackConfig   SlackConfig
	DiscordConfig DiscordConfig
}

// LoadConfig reads the application configuration from the environment.
// envFiles are loaded first with godotenv; a missing file is not an error.
func LoadConfig(envFiles ...string) (*AppConfig, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		fmt.Println("⚠️ Could not load .env file, continuing with system env vars")
	}

	maxUpdates, err := getEnvPositiveInt("MAX_UPDATES_PER_MACRO", DefaultMaxUpdatesPerMacro)
	if err != nil {
		return nil, err
	}

	macroPrefix := getEnvWithDefault("MACRO_ENV_PREFIX", DefaultMacroEnvPrefix)

	config := &AppConfig{
		Port:               getEnvWithDefault("PORT", DefaultPort),
		CORSAllowedOrigins: getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"),
		Environment:        getEnvWithDefault("ENVIRONMENT", "dev"),
		ServerLogsURL:      getEnvWithDefault("SERVER_LOGS_URL", ""),
		MaxUpdatesPerMacro: maxUpdates,
		MacroEnvPrefix:     macroPrefix,
		ConfiguredMacros:   ParseConfiguredMacros(os.Environ(), macroPrefix),

		SlackConfig: SlackConfig{
			AlertWebhookURL: os.Getenv("SLACK_ALERT_WEBHOOK_URL"),
		},
		DiscordConfig: DiscordConfig{
			BotToken: os.Getenv("DISCORD_BOT_TOKEN"),
		},
	}

	log.Printf("✅ Loaded %d configured macro(s)", len(config.ConfiguredMacros))

	if config.SlackConfig.IsConfigured() {
		log.Printf("✅ Slack error alerts configured")
	} else {
		log.Printf("⚠️ Slack error alerts not configured - alerts will be disabled")
	}

	if config.DiscordConfig.IsConfigured() {
		log.Printf("✅ Discord relay configured")
	} else {
		log.Printf("⚠️ Discord relay not configured - only the HTTP webhook will receive updates")
	}

	return config, nil
}

// ParseConfiguredMacros picks the macro declarations out of KEY=VALUE pairs.
// A declaration is a key starting with prefix whose value parses as an integer;
// anything else is skipped silently. The result is sorted by name.
func ParseConfiguredMacros(environ []string, prefix string) []models.ConfiguredMacro {
	macros := []models.ConfiguredMacro{}
	if prefix == "" {
		return macros
	}

	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(key, prefix) {
			continue
		}

		name := strings.TrimPrefix(key, prefix)
		if name == "" {
			continue
		}

		parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			continue
		}

		macros = append(macros, models.ConfiguredMacro{Name: name, Value: parsed})
	}

	sort.Slice(macros, func(i, j int) bool { return macros[i].Name < macros[j].Name })
	return macros
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvPositiveInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, value)
	}
	return parsed, nil
}
