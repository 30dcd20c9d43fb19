package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tournevent/easytrans/pkg/easytrans"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "test", cfg.DefaultMode)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.False(t, cfg.WebhookFetchOrder)
	assert.Equal(t, "easytrans", cfg.ServiceName)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("EASYTRANS_SERVER_URL", "mytrans.nl")
	t.Setenv("EASYTRANS_ENVIRONMENT", "demo")
	t.Setenv("EASYTRANS_USERNAME", "api")
	t.Setenv("EASYTRANS_PASSWORD", "secret")
	t.Setenv("EASYTRANS_DEFAULT_MODE", "effect")
	t.Setenv("EASYTRANS_TIMEOUT", "5s")
	t.Setenv("WEBHOOK_API_KEY", "hook-key")
	t.Setenv("WEBHOOK_FETCH_ORDER", "true")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "hook-key", cfg.WebhookAPIKey)
	assert.True(t, cfg.WebhookFetchOrder)

	cc := cfg.ClientConfig(nil)
	assert.Equal(t, easytrans.ModeEffect, cc.DefaultMode)
	assert.Equal(t, 5*time.Second, cc.Timeout)
	assert.Equal(t, "https://mytrans.nl/demo/api/v1", cc.Credentials.RESTBaseURL())
	assert.Equal(t, "easytrans/0.0.1", cc.UserAgent)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("EASYTRANS_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		ServerURL: "mytrans.nl", Environment: "demo", Username: "api", Password: "secret",
		DefaultMode: "test", Timeout: time.Second,
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown mode", func(c *Config) { c.DefaultMode = "dry-run" }, "EASYTRANS_DEFAULT_MODE"},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, "EASYTRANS_TIMEOUT"},
		{"missing password", func(c *Config) { c.Password = "" }, "password"},
		{"mock needs no credentials", func(c *Config) { *c = Config{DefaultMode: "test", Timeout: time.Second, UseMock: true} }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAttributes(t *testing.T) {
	cfg := Config{ServiceName: "easytrans", Version: "1.2.3", Environment: "demo", UseMock: true}

	attrs := cfg.Attributes()
	assert.Contains(t, attrs, attribute.String("service.version", "1.2.3"))
	assert.Contains(t, attrs, attribute.Bool("easytrans.mock", true))
	for _, kv := range attrs {
		assert.NotContains(t, string(kv.Key), "password")
	}
}
