package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/taskmaster?sslmode=disable")
	t.Setenv("ADMIN_CODE", "secret")
	t.Setenv("UPLOAD_DIR", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("S3_ENDPOINT", "")
	t.Setenv("S3_ACCESS_KEY_ID", "")
	t.Setenv("S3_SECRET_ACCESS_KEY", "")
	t.Setenv("S3_BUCKET", "")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/taskmaster?sslmode=disable", cfg.DatabaseURL)
	assert.Equal(t, "secret", cfg.AdminCode)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.False(t, cfg.S3Enabled())
}

func TestLoadRequiredVariables(t *testing.T) {
	t.Run("database url", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("DATABASE_URL", "")

		_, err := Load()
		assert.ErrorContains(t, err, "DATABASE_URL")
	})

	t.Run("admin code", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("ADMIN_CODE", "")

		_, err := Load()
		assert.ErrorContains(t, err, "ADMIN_CODE")
	})
}

func TestLoadServerPort(t *testing.T) {
	tests := []struct {
		name    string
		port    string
		want    int
		wantErr bool
	}{
		{"explicit", "9000", 9000, false},
		{"not a number", "http", 0, true},
		{"zero", "0", 0, true},
		{"too large", "70000", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv("SERVER_PORT", tt.port)

			cfg, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.ServerPort)
		})
	}
}

func TestLoadS3(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("S3_BUCKET", "submissions")
	t.Setenv("S3_ENDPOINT", "https://example.r2.cloudflarestorage.com")
	t.Setenv("S3_ACCESS_KEY_ID", "key")
	t.Setenv("S3_SECRET_ACCESS_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.S3Enabled())
	assert.Equal(t, "submissions", cfg.S3Bucket)

	// An incomplete S3 block is a configuration mistake, not a silent
	// fallback to local storage.
	t.Setenv("S3_ACCESS_KEY_ID", "")
	_, err = Load()
	assert.ErrorContains(t, err, "S3_BUCKET is set")
}
