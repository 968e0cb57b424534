package config

import (
	"context"
	"fmt"
	"reflect"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	// Logging
	LogLevel  string `mapstructure:"FILTERLAB_LOG_LEVEL" validate:"oneof=debug info warn warning error"`
	LogFormat string `mapstructure:"FILTERLAB_LOG_FORMAT" validate:"oneof=console json"`

	// Window
	WindowWidth  int `mapstructure:"FILTERLAB_WINDOW_WIDTH" validate:"gte=640"`
	WindowHeight int `mapstructure:"FILTERLAB_WINDOW_HEIGHT" validate:"gte=480"`

	// Files
	MaxUploadSize string `mapstructure:"FILTERLAB_MAX_UPLOAD_SIZE" validate:"required"`
	DownloadName  string `mapstructure:"FILTERLAB_DOWNLOAD_NAME" validate:"required,endswith=.png"`

	// MaxUploadBytes is MaxUploadSize parsed, e.g. "50MB" -> 50000000.
	MaxUploadBytes uint64 `mapstructure:"-"`
}

// use reflect to bind environment variables based on mapstructure tags
func bindEnv(c Config) {
	typ := reflect.TypeOf(c)

	for i := 0; i < typ.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("mapstructure")
		if tag != "" && tag != "-" {
			viper.BindEnv(tag)
		}
	}
}

func LoadConfig(ctx context.Context) (*Config, error) {
	bindEnv(Config{})
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("FILTERLAB_LOG_LEVEL", "info")
	viper.SetDefault("FILTERLAB_LOG_FORMAT", "console")
	viper.SetDefault("FILTERLAB_WINDOW_WIDTH", 1200)
	viper.SetDefault("FILTERLAB_WINDOW_HEIGHT", 800)
	viper.SetDefault("FILTERLAB_MAX_UPLOAD_SIZE", "50MB")
	viper.SetDefault("FILTERLAB_DOWNLOAD_NAME", "processed_image.png")

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	size, err := humanize.ParseBytes(cfg.MaxUploadSize)
	if err != nil {
		return nil, fmt.Errorf("parse FILTERLAB_MAX_UPLOAD_SIZE: %w", err)
	}
	if size == 0 {
		return nil, fmt.Errorf("FILTERLAB_MAX_UPLOAD_SIZE must be positive")
	}
	cfg.MaxUploadBytes = size

	return &cfg, nil
}

// Fields returns the configuration as structured log fields.
func (c *Config) Fields() map[string]interface{} {
	return map[string]interface{}{
		"log_level":       c.LogLevel,
		"log_format":      c.LogFormat,
		"window":          fmt.Sprintf("%dx%d", c.WindowWidth, c.WindowHeight),
		"max_upload_size": humanize.Bytes(c.MaxUploadBytes),
		"download_name":   c.DownloadName,
	}
}
