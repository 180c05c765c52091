package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestLoadConfig_Defaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	for _, key := range []string{"STORE_DRIVER", "STORE_PATH", "DATABASE_URL", "HTTP_PORT", "LOW_STOCK_THRESHOLD"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := LoadConfig("", quietLogger())
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.StoreDriver)
	assert.Equal(t, "db.json", cfg.StorePath)
	assert.Equal(t, ":8081", cfg.HTTPPort)
	assert.Equal(t, ":50051", cfg.GrpcPort)
	assert.Equal(t, 5, cfg.LowStockThreshold)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "pos.env")
	require.NoError(t, os.WriteFile(envFile, []byte("STORE_DRIVER=BOLT\nSTORE_PATH=/tmp/pos.bolt\n"), 0o600))
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("STORE_PATH", "")
	os.Unsetenv("STORE_DRIVER")
	os.Unsetenv("STORE_PATH")

	cfg, err := LoadConfig(envFile, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, "bolt", cfg.StoreDriver)
	assert.Equal(t, "/tmp/pos.bolt", cfg.StorePath)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"file ok", Config{StoreDriver: "file", StorePath: "db.json"}, false},
		{"unknown driver", Config{StoreDriver: "mongo", StorePath: "x"}, true},
		{"postgres needs url", Config{StoreDriver: "postgres"}, true},
		{"postgres ok", Config{StoreDriver: "postgres", DatabaseURL: "postgres://localhost/pos"}, false},
		{"missing path", Config{StoreDriver: "sqlite"}, true},
		{"negative threshold", Config{StoreDriver: "file", StorePath: "db.json", LowStockThreshold: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
