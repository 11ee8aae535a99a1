package server

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// AppConfig defines application configuration loaded from files and environment.
type AppConfig struct {
	Env      string       `koanf:"env"`
	Listen   string       `koanf:"listen"`
	Database DSNConfig    `koanf:"database"`
	Valkey   ValkeyConfig `koanf:"valkey"`
	Token    TokenConfig  `koanf:"token"`
}

type DSNConfig struct {
	DSN string `koanf:"dsn"`
}

type ValkeyConfig struct {
	Addr   string `koanf:"addr"`
	Prefix string `koanf:"prefix"`
}

type TokenConfig struct {
	Secret           string `koanf:"secret"`
	AccessTTLMinutes int    `koanf:"access_ttl_minutes"`
	RefreshTTLDays   int    `koanf:"refresh_ttl_days"`
}

// AccessTTL returns the configured access-token lifetime (default 60m).
func (t TokenConfig) AccessTTL() time.Duration {
	if t.AccessTTLMinutes <= 0 {
		return 60 * time.Minute
	}
	return time.Duration(t.AccessTTLMinutes) * time.Minute
}

// RefreshTTL returns the configured refresh-token lifetime (default 7d).
func (t TokenConfig) RefreshTTL() time.Duration {
	if t.RefreshTTLDays <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(t.RefreshTTLDays) * 24 * time.Hour
}

var (
	cfgOnce sync.Once
	cfgInst *AppConfig
)

// GetConfig loads and returns the singleton AppConfig. Loading order:
// 1) config/config.yaml (optional, enabled via APP_CONFIG_FILES)
// 2) config/config.<APP_ENV>.yaml (optional), APP_ENV defaults to "local"
// 3) Environment variables with prefix AUTH_ mapped using __ as nested
//    separator, e.g. AUTH_DATABASE__DSN, AUTH_TOKEN__SECRET
func GetConfig() *AppConfig {
	cfgOnce.Do(func() {
		k := koanf.New(".")
		configDir := os.Getenv("CONFIG_DIR")
		if configDir == "" {
			configDir = "config"
		}
		loadFiles := strings.EqualFold(os.Getenv("APP_CONFIG_FILES"), "1") || strings.EqualFold(os.Getenv("APP_CONFIG_FILES"), "true")
		if loadFiles {
			base := filepath.Join(configDir, "config.yaml")
			if _, err := os.Stat(base); err == nil {
				if err := k.Load(file.Provider(base), yaml.Parser()); err != nil {
					log.Printf("config: failed loading base: %v", err)
				}
			}
		}
		envName := os.Getenv("APP_ENV")
		if envName == "" {
			envName = "local"
		}
		if loadFiles {
			envFile := filepath.Join(configDir, "config."+envName+".yaml")
			if _, err := os.Stat(envFile); err == nil {
				if err := k.Load(file.Provider(envFile), yaml.Parser()); err != nil {
					log.Printf("config: failed loading env file: %v", err)
				}
			}
		}
		_ = k.Load(env.Provider("AUTH_", "__", func(s string) string {
			// AUTH_DATABASE__DSN -> database.dsn
			return s
		}), nil)

		var c AppConfig
		if err := k.Unmarshal("", &c); err != nil {
			log.Printf("config: unmarshal error: %v", err)
		}
		if c.Env == "" {
			c.Env = envName
		}
		if c.Listen == "" {
			c.Listen = ":8080"
		}
		cfgInst = &c
	})
	return cfgInst
}

// DBDSN returns the effective database DSN (config first, then env).
func (c *AppConfig) DBDSN() string {
	if c != nil && c.Database.DSN != "" {
		return strings.TrimSpace(c.Database.DSN)
	}
	dsn := strings.TrimSpace(os.Getenv("AUTH_DB_DSN"))
	if dsn == "" {
		dsn = strings.TrimSpace(os.Getenv("MIGRATE_DSN"))
	}
	return dsn
}

// ValkeyAddr returns the effective Valkey address (config first, then env).
func (c *AppConfig) ValkeyAddr() string {
	if c != nil && c.Valkey.Addr != "" {
		return strings.TrimSpace(c.Valkey.Addr)
	}
	return strings.TrimSpace(os.Getenv("VALKEY_ADDR"))
}

// TokenSecret returns the JWT signing secret (config first, then env).
func (c *AppConfig) TokenSecret() string {
	if c != nil && c.Token.Secret != "" {
		return c.Token.Secret
	}
	return os.Getenv("AUTH_TOKEN_SECRET")
}
