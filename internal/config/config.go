package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tournevent/easytrans/pkg/easytrans"
	"github.com/tournevent/easytrans/pkg/easytrans/client"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// EasyTrans
	ServerURL           string        `envconfig:"EASYTRANS_SERVER_URL"`
	Environment         string        `envconfig:"EASYTRANS_ENVIRONMENT"`
	Username            string        `envconfig:"EASYTRANS_USERNAME"`
	Password            string        `envconfig:"EASYTRANS_PASSWORD"`
	DefaultMode         string        `envconfig:"EASYTRANS_DEFAULT_MODE" default:"test"`
	Timeout             time.Duration `envconfig:"EASYTRANS_TIMEOUT" default:"30s"`
	InsecureSkipVerify  bool          `envconfig:"EASYTRANS_INSECURE_SKIP_VERIFY" default:"false"`
	EmptyListOnNotFound bool          `envconfig:"EASYTRANS_EMPTY_LIST_ON_NOT_FOUND" default:"false"`
	UseMock             bool          `envconfig:"EASYTRANS_USE_MOCK" default:"false"`

	// Webhook
	WebhookAPIKey     string `envconfig:"WEBHOOK_API_KEY"`
	WebhookFetchOrder bool   `envconfig:"WEBHOOK_FETCH_ORDER" default:"false"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"easytrans"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// Credentials returns the EasyTrans account the service talks to.
func (c *Config) Credentials() easytrans.Credentials {
	return easytrans.Credentials{
		ServerURL:   c.ServerURL,
		Environment: c.Environment,
		Username:    c.Username,
		Password:    c.Password,
	}
}

// Validate checks the settings a client cannot be built without. Credentials
// are not needed when the mock backend is used.
func (c *Config) Validate() error {
	if !easytrans.Mode(c.DefaultMode).Valid() {
		return fmt.Errorf("EASYTRANS_DEFAULT_MODE must be test or effect, got %q", c.DefaultMode)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("EASYTRANS_TIMEOUT must be positive, got %s", c.Timeout)
	}
	if c.UseMock {
		return nil
	}
	if err := c.Credentials().Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	return nil
}

// ClientConfig returns the EasyTrans client settings.
func (c *Config) ClientConfig(metrics easytrans.Recorder) client.Config {
	return client.Config{
		Credentials:         c.Credentials(),
		DefaultMode:         easytrans.Mode(c.DefaultMode),
		Timeout:             c.Timeout,
		InsecureSkipVerify:  c.InsecureSkipVerify,
		UserAgent:           c.ServiceName + "/" + c.Version,
		EmptyListOnNotFound: c.EmptyListOnNotFound,
		Metrics:             metrics,
		UseMock:             c.UseMock,
	}
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.String("easytrans.server", c.ServerURL),
		attribute.String("easytrans.environment", c.Environment),
		attribute.String("easytrans.default_mode", c.DefaultMode),
		attribute.Bool("easytrans.mock", c.UseMock),
	}
}
