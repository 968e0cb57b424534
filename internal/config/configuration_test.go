package config

import (
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Success_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := LoadConfig(context.Background())
	require.NoError(t, err)
	require.NotNil(t, cfg)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "console", cfg.LogFormat)
	require.Equal(t, 1200, cfg.WindowWidth)
	require.Equal(t, 800, cfg.WindowHeight)
	require.Equal(t, uint64(50_000_000), cfg.MaxUploadBytes)
	require.Equal(t, "processed_image.png", cfg.DownloadName)
}

func TestLoadConfig_Overrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("FILTERLAB_LOG_LEVEL", "debug")
	t.Setenv("FILTERLAB_LOG_FORMAT", "json")
	t.Setenv("FILTERLAB_WINDOW_WIDTH", "1600")
	t.Setenv("FILTERLAB_MAX_UPLOAD_SIZE", "8 MiB")
	t.Setenv("FILTERLAB_DOWNLOAD_NAME", "result.png")

	cfg, err := LoadConfig(context.Background())
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, 1600, cfg.WindowWidth)
	require.Equal(t, uint64(8<<20), cfg.MaxUploadBytes)
	require.Equal(t, "result.png", cfg.DownloadName)
	require.Equal(t, "8.4 MB", cfg.Fields()["max_upload_size"])
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad level", "FILTERLAB_LOG_LEVEL", "verbose"},
		{"bad format", "FILTERLAB_LOG_FORMAT", "xml"},
		{"small window", "FILTERLAB_WINDOW_WIDTH", "320"},
		{"short window", "FILTERLAB_WINDOW_HEIGHT", "100"},
		{"non png download", "FILTERLAB_DOWNLOAD_NAME", "processed_image.jpg"},
		{"unparseable size", "FILTERLAB_MAX_UPLOAD_SIZE", "lots"},
		{"zero size", "FILTERLAB_MAX_UPLOAD_SIZE", "0B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)

			t.Setenv(tt.key, tt.val)

			cfg, err := LoadConfig(context.Background())
			require.Error(t, err)
			require.Nil(t, cfg)
		})
	}
}
