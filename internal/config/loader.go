package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads configuration from an optional YAML file and applies environment
// overrides on top. An empty path skips the file entirely and configures from
// defaults plus environment only.
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file %q: %w", configPath, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %q: %w", configPath, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides layers environment variables over file values. Environment
// wins, matching the deployment model where secrets arrive via the platform
// environment rather than the config file.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("GITHUB_WEBHOOK_SECRET"); v != "" {
		cfg.Webhook.Secret = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("TELEGRAM_CHAT_ID %q is not an integer: %w", v, err)
		}
		cfg.Telegram.ChatID = id
	}
	if v := os.Getenv("PORT"); v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			return fmt.Errorf("PORT %q is not an integer: %w", v, err)
		}
		cfg.Service.Listen = ":" + v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.State.Path = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Service.LogLevel = v
	}
	if v := os.Getenv("ISSUERELAY_REPOS"); v != "" {
		var repos []string
		for _, r := range strings.Split(v, ",") {
			if r = strings.TrimSpace(r); r != "" {
				repos = append(repos, r)
			}
		}
		cfg.Repositories = repos
	}
	return nil
}

// validate checks settings the service cannot start without.
func validate(cfg *Config) error {
	if cfg.Telegram.BotToken == "" {
		return fmt.Errorf("telegram bot token is not configured (telegram.bot_token or TELEGRAM_BOT_TOKEN)")
	}
	if cfg.Telegram.ChatID == 0 {
		return fmt.Errorf("telegram chat id is not configured (telegram.chat_id or TELEGRAM_CHAT_ID)")
	}
	if len(cfg.Repositories) == 0 {
		return fmt.Errorf("no repositories configured")
	}
	for _, repo := range cfg.Repositories {
		if !strings.Contains(repo, "/") {
			return fmt.Errorf("repository %q is not in owner/name form", repo)
		}
	}
	if cfg.Service.Listen == "" {
		return fmt.Errorf("service.listen is empty")
	}
	if cfg.State.Path == "" {
		return fmt.Errorf("state.path is empty")
	}
	return nil
}
