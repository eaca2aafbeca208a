package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Addr           string `mapstructure:"addr"`
	UploadDir      string `mapstructure:"upload_dir"`
	ReportDir      string `mapstructure:"report_dir"`
	DBPath         string `mapstructure:"db_path"`
	RetentionHours int    `mapstructure:"retention_hours"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
	MaxRows        int    `mapstructure:"max_rows"`
	Model          string `mapstructure:"model"`
}

func Default() Config {
	return Config{
		Addr:           ":8080",
		UploadDir:      "data/uploads",
		ReportDir:      "data/reports",
		DBPath:         "ticketlens.db",
		RetentionHours: 24,
		MaxUploadBytes: 16 << 20,
		MaxRows:        100000,
	}
}

// Load reads an optional YAML config file. An empty path yields the
// defaults; a path that cannot be read or parsed is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return &cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Retention() time.Duration {
	return time.Duration(c.RetentionHours) * time.Hour
}
