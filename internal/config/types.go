package config

// Config represents the complete issuerelay configuration.
//
// All values are resolved once at startup (file, then environment overrides)
// and treated as immutable afterwards; core packages receive the values they
// need at construction and never reach back into ambient state.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	State    StateConfig    `yaml:"state"`
	Webhook  WebhookConfig  `yaml:"webhook"`
	Telegram TelegramConfig `yaml:"telegram"`

	// Repositories is the monitored-repository allow-list ("owner/name").
	Repositories []string `yaml:"repositories"`
}

// ServiceConfig defines core service settings.
type ServiceConfig struct {
	Listen    string `yaml:"listen"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// StateConfig defines ledger storage settings.
type StateConfig struct {
	Path string `yaml:"path"`
}

// WebhookConfig defines webhook verification settings.
type WebhookConfig struct {
	// Secret is the GitHub webhook shared secret. Empty means open mode:
	// signature verification is skipped (logged as a warning at startup).
	Secret string `yaml:"secret"`
}

// TelegramConfig defines the notification destination.
type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

// defaultRepositories is the CNCF project set monitored when no explicit
// list is configured.
var defaultRepositories = []string{
	"open-telemetry/opentelemetry.io",
	"open-telemetry/opentelemetry-collector-contrib",
	"open-telemetry/opentelemetry-demo",
	"open-telemetry/opentelemetry-specification",
	"open-telemetry/community",
	"meshery/meshery",
	"meshery/meshery.io",
	"layer5io/docs",
	"kubernetes/website",
	"kubernetes/community",
	"kubernetes-sigs/contributor-playground",
	"kubernetes/enhancements",
}

// Defaults returns a Config with sensible defaults.
func Defaults() *Config {
	return &Config{
		Service: ServiceConfig{
			Listen:    ":8080",
			LogLevel:  "INFO",
			LogFormat: "json",
		},
		State: StateConfig{
			Path: "issues.db",
		},
		Repositories: append([]string(nil), defaultRepositories...),
	}
}
