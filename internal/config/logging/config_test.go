package logging_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/planwatch/internal/config/logging"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  *logging.Config
		wantErr bool
	}{
		{
			name: "valid configuration",
			config: &logging.Config{
				Level:      "info",
				Encoding:   "json",
				MaxSize:    1,
				MaxBackups: 5,
				MaxAge:     30,
			},
			wantErr: false,
		},
		{
			name: "valid file configuration",
			config: &logging.Config{
				Level:      "info",
				Encoding:   "console",
				File:       "test.log",
				MaxSize:    1,
				MaxBackups: 5,
				MaxAge:     30,
			},
			wantErr: false,
		},
		{
			name:    "empty fields fall back to defaults",
			config:  &logging.Config{},
			wantErr: false,
		},
		{
			name: "invalid level",
			config: &logging.Config{
				Level:    "invalid",
				Encoding: "json",
			},
			wantErr: true,
		},
		{
			name: "invalid encoding",
			config: &logging.Config{
				Level:    "info",
				Encoding: "invalid",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := logging.NewConfig()
	require.Equal(t, "info", cfg.Level)
	require.Equal(t, "json", cfg.Encoding)
	require.Empty(t, cfg.File)
	require.Equal(t, 5, cfg.MaxBackups)
	require.True(t, cfg.Compress)
	require.NoError(t, cfg.Validate())
}
