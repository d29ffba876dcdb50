package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DraftBackendSQLite = "sqlite"
	DraftBackendRedis  = "redis"
)

type Config struct {
	Addr       string        `mapstructure:"addr"`
	CORSOrigin string        `mapstructure:"cors_origin"`
	LogLevel   string        `mapstructure:"log_level"`
	API        APIConfig     `mapstructure:"api"`
	Drafts     DraftConfig   `mapstructure:"drafts"`
	Archive    ArchiveConfig `mapstructure:"archive"`
}

// APIConfig points at the remote CMVR service.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type DraftConfig struct {
	Backend    string `mapstructure:"backend"`
	SQLitePath string `mapstructure:"sqlite_path"`
	RedisURL   string `mapstructure:"redis_url"`
	Prefix     string `mapstructure:"prefix"`
}

// ArchiveConfig selects where downloaded documents are kept. A MinIO
// endpoint wins over Dir; both empty disables archiving.
type ArchiveConfig struct {
	Dir            string `mapstructure:"dir"`
	MinioEndpoint  string `mapstructure:"minio_endpoint"`
	MinioAccessKey string `mapstructure:"minio_access_key"`
	MinioSecretKey string `mapstructure:"minio_secret_key"`
	MinioBucket    string `mapstructure:"minio_bucket"`
	MinioUseSSL    bool   `mapstructure:"minio_use_ssl"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8787")
	v.SetDefault("cors_origin", "*")
	v.SetDefault("log_level", "info")
	v.SetDefault("api.base_url", "http://localhost:3000")
	v.SetDefault("api.token", "")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("drafts.backend", DraftBackendSQLite)
	v.SetDefault("drafts.sqlite_path", "./data/drafts.db")
	v.SetDefault("drafts.redis_url", "redis://localhost:6379/0")
	v.SetDefault("drafts.prefix", "cmvr_draft_")
	v.SetDefault("archive.dir", "")
	v.SetDefault("archive.minio_endpoint", "")
	v.SetDefault("archive.minio_access_key", "")
	v.SetDefault("archive.minio_secret_key", "")
	v.SetDefault("archive.minio_bucket", "cmvr-documents")
	v.SetDefault("archive.minio_use_ssl", false)
}

// Load reads defaults, then the optional config file, then CMVR_* environment
// variables (CMVR_API_BASE_URL, CMVR_DRAFTS_BACKEND, ...). An empty
// configFile falls back to CMVR_CONFIG.
func Load(configFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("CMVR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile == "" {
		configFile = v.GetString("config")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.Drafts.Backend = strings.ToLower(strings.TrimSpace(c.Drafts.Backend))
	switch c.Drafts.Backend {
	case DraftBackendSQLite, DraftBackendRedis:
	default:
		return fmt.Errorf("unknown draft backend %q", c.Drafts.Backend)
	}
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("api base url is required")
	}
	if c.Archive.MinioEndpoint != "" && c.Archive.MinioBucket == "" {
		return errors.New("archive minio bucket is required when an endpoint is set")
	}
	return nil
}
