// Package config содержит логику чтения конфигурации сервиса студии.
package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	defaultRunAddress = "localhost:8080"
	adminLoginPath    = "/admin/login"
)

// Config содержит параметры конфигурации сервиса студии.
type Config struct {
	RunAddress  string `env:"RUN_ADDRESS"`
	DatabaseURI string `env:"DATABASE_URI"`
	RedisAddr   string `env:"REDIS_ADDR"`

	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"studio:"`

	SessionSecret string `env:"SESSION_SECRET"`

	ChatAPIKey     string        `env:"CHAT_API_KEY"`
	ChatModel      string        `env:"CHAT_MODEL" envDefault:"gemini-3-pro-preview"`
	ChatBaseURL    string        `env:"CHAT_BASE_URL" envDefault:"https://generativelanguage.googleapis.com"`
	ChatSessionTTL time.Duration `env:"CHAT_SESSION_TTL" envDefault:"30m"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	LoginURL    string   `env:"LOGIN_URL"`
}

// AdminLoginURL возвращает адрес страницы входа SPA: LOGIN_URL, иначе первый origin из CORS_ORIGINS
// с путём /admin/login, иначе путь /admin/login на этом сервере.
func (c *Config) AdminLoginURL() string {
	if c.LoginURL != "" {
		return c.LoginURL
	}
	for _, origin := range c.CORSOrigins {
		if origin = strings.TrimRight(strings.TrimSpace(origin), "/"); origin != "" && origin != "*" {
			return origin + adminLoginPath
		}
	}
	return adminLoginPath
}

// ChatEnabled сообщает, задан ли ключ AI-сервиса.
func (c *Config) ChatEnabled() bool {
	return c.ChatAPIKey != ""
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI
	envRedisAddr := cfg.RedisAddr

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.RedisAddr, "r", "", "redis address")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envRedisAddr != "" {
		cfg.RedisAddr = envRedisAddr
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}

	return cfg, nil
}
