package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the webhook server
type Config struct {
	// Server configuration
	Port         int    `env:"PORT" envDefault:"5000"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	MaxBodyBytes int64  `env:"MAX_BODY_BYTES" envDefault:"1048576"`

	// Kubeflow Pipelines configuration
	Kubeflow KubeflowConfig

	// Inbound webhook authentication
	Webhook WebhookConfig

	// Timeouts
	Timeouts TimeoutConfig
}

// KubeflowConfig holds the downstream pipelines API configuration
type KubeflowConfig struct {
	Endpoint   string `env:"KUBEFLOW_ENDPOINT" envDefault:"http://ml-pipeline.kubeflow.svc.cluster.local:8888"`
	PipelineID string `env:"KUBEFLOW_PIPELINE_ID"`
	TokenPath  string `env:"KF_PIPELINES_SA_TOKEN_PATH" envDefault:"/var/run/secrets/kubeflow/pipelines/token"`

	RequestTimeout time.Duration `env:"KUBEFLOW_REQUEST_TIMEOUT" envDefault:"30s"`
}

// WebhookConfig holds the shared secret used to authenticate callers
type WebhookConfig struct {
	Token string `env:"WEBHOOK_TOKEN"`

	// RejectEmptyToken refuses every trigger while Token is unset instead of
	// accepting a bare "Bearer " header.
	RejectEmptyToken bool `env:"WEBHOOK_REJECT_EMPTY_TOKEN" envDefault:"false"`
}

// TimeoutConfig holds server timeout configuration
type TimeoutConfig struct {
	ReadHeaderTimeout time.Duration `env:"TIMEOUT_READ_HEADER" envDefault:"10s"`
	ShutdownTimeout   time.Duration `env:"TIMEOUT_SHUTDOWN" envDefault:"30s"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	environ := environMap(os.Environ())

	if path := environ["ENV_FILE"]; path != "" {
		fileEnv, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
		}
		for k, v := range fileEnv {
			if _, ok := environ[k]; !ok {
				environ[k] = v
			}
		}
	}

	return Parse(environ)
}

// Parse builds a Config from the given variables instead of the process
// environment.
func Parse(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.Kubeflow.Endpoint = strings.TrimRight(cfg.Kubeflow.Endpoint, "/")

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	if c.MaxBodyBytes < 1 {
		return fmt.Errorf("max body size must be positive")
	}

	// Validate Kubeflow config
	u, err := url.Parse(c.Kubeflow.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid kubeflow endpoint: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid kubeflow endpoint: %q (must be an absolute http or https URL)", c.Kubeflow.Endpoint)
	}
	if c.Kubeflow.TokenPath == "" {
		return fmt.Errorf("kubeflow token path is required")
	}
	if c.Kubeflow.RequestTimeout <= 0 {
		return fmt.Errorf("kubeflow request timeout must be positive")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// DisplayPipelineID returns the configured default pipeline id, or
// "not set" when there is none.
func (c *Config) DisplayPipelineID() string {
	if c.Kubeflow.PipelineID == "" {
		return "not set"
	}
	return c.Kubeflow.PipelineID
}

func environMap(environ []string) map[string]string {
	m := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		m[k] = v
	}
	return m
}
