package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "http://ml-pipeline.kubeflow.svc.cluster.local:8888", cfg.Kubeflow.Endpoint)
	assert.Equal(t, "", cfg.Kubeflow.PipelineID)
	assert.Equal(t, "/var/run/secrets/kubeflow/pipelines/token", cfg.Kubeflow.TokenPath)
	assert.Equal(t, 30*time.Second, cfg.Kubeflow.RequestTimeout)
	assert.Equal(t, "", cfg.Webhook.Token)
	assert.False(t, cfg.Webhook.RejectEmptyToken)
	assert.Equal(t, ":5000", cfg.GetHTTPAddr())
	assert.Equal(t, "not set", cfg.DisplayPipelineID())
}

func TestParseOverrides(t *testing.T) {
	cfg, err := Parse(map[string]string{
		"PORT":                       "8081",
		"LOG_LEVEL":                  "debug",
		"KUBEFLOW_ENDPOINT":          "https://kfp.example.com/",
		"KUBEFLOW_PIPELINE_ID":       "pipe-1",
		"KF_PIPELINES_SA_TOKEN_PATH": "/tmp/token",
		"KUBEFLOW_REQUEST_TIMEOUT":   "5s",
		"WEBHOOK_TOKEN":              "s3cret",
		"WEBHOOK_REJECT_EMPTY_TOKEN": "true",
	})
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, "https://kfp.example.com", cfg.Kubeflow.Endpoint)
	assert.Equal(t, "pipe-1", cfg.DisplayPipelineID())
	assert.Equal(t, "/tmp/token", cfg.Kubeflow.TokenPath)
	assert.Equal(t, 5*time.Second, cfg.Kubeflow.RequestTimeout)
	assert.Equal(t, "s3cret", cfg.Webhook.Token)
	assert.True(t, cfg.Webhook.RejectEmptyToken)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
	}{
		{"port out of range", map[string]string{"PORT": "70000"}},
		{"port not a number", map[string]string{"PORT": "http"}},
		{"relative endpoint", map[string]string{"KUBEFLOW_ENDPOINT": "ml-pipeline:8888"}},
		{"unsupported scheme", map[string]string{"KUBEFLOW_ENDPOINT": "ftp://ml-pipeline"}},
		{"zero timeout", map[string]string{"KUBEFLOW_REQUEST_TIMEOUT": "0s"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "verbose"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.environ)
			assert.Error(t, err)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webhook.env")
	content := "KUBEFLOW_PIPELINE_ID=from-file\nKUBEFLOW_REQUEST_TIMEOUT=7s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("ENV_FILE", path)
	t.Setenv("KUBEFLOW_PIPELINE_ID", "from-env")

	cfg, err := Load()
	require.NoError(t, err)

	// process environment wins over the file
	assert.Equal(t, "from-env", cfg.Kubeflow.PipelineID)
	assert.Equal(t, 7*time.Second, cfg.Kubeflow.RequestTimeout)
}

func TestLoadMissingEnvFile(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	_, err := Load()
	assert.Error(t, err)
}
