package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"DB_URL", "DB_DRIVER", "PORT", "GRPC_ADDR", "JOBS_RESULT_TYPES", "JOBS_RESULT_POLICY"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, ":5000", cfg.Server.HTTPAddr)
	assert.Empty(t, cfg.Server.GRPCAddr)
	assert.Equal(t, []string{"Applied", "Interview", "Offer", "Rejected", "Ghosted"}, cfg.Records.ResultTypes)
	assert.Equal(t, "lenient", cfg.Records.ResultPolicy)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DB_URL", "postgres://jobs@localhost/jobs")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("PORT", "8081")
	t.Setenv("JOBS_RESULT_TYPES", "Applied, Offer")
	t.Setenv("JOBS_RESULT_POLICY", "STRICT")
	t.Setenv("DB_MAX_CONNS", "4")
	t.Setenv("DB_MIN_CONNS", "2")

	cfg := LoadConfig()
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, ":8081", cfg.Server.HTTPAddr)
	assert.Equal(t, []string{"Applied", "Offer"}, cfg.Records.ResultTypes)
	assert.Equal(t, "strict", cfg.Records.ResultPolicy)
	assert.EqualValues(t, 4, cfg.Database.MaxConns)
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Database: DatabaseConfig{Driver: "sqlite3", SQLitePath: "jobs.sqlite", MaxConns: 1},
			Server:   ServerConfig{HTTPAddr: ":5000"},
			Records:  RecordsConfig{ResultPolicy: "lenient"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"postgres without dsn", func(c *Config) { c.Database.Driver = "postgres" }, "DB_URL"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, "DB_DRIVER"},
		{"min above max", func(c *Config) { c.Database.MinConns = 5 }, "DB_MIN_CONNS"},
		{"bad policy", func(c *Config) { c.Records.ResultPolicy = "maybe" }, "JOBS_RESULT_POLICY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), CodeConfig)
		})
	}
}
