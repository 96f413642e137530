package mock

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mocksmith/mocksmith/internal/core/domain"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
		"hostname": "127.0.0.1",
		"port": 9000,
		"responses": [
			{"method": "GET", "path": "/ping", "responseCode": 200, "body": "pong"}
		]
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", cfg.Hostname)
	assert.Equal(t, 9000, cfg.Port)
	require.Len(t, cfg.Responses, 1)
	assert.Equal(t, "pong", cfg.Responses[0].Body)
}

func TestLoadConfigEnvDefaults(t *testing.T) {
	t.Setenv("HOST", "10.0.0.5")
	t.Setenv("PORT", "8080")
	path := writeConfig(t, "config.json", `{"responses": []}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5", cfg.Hostname)
	assert.Equal(t, 8080, cfg.Port)
}

func TestLoadConfigFileWinsOverEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	path := writeConfig(t, "config.json", `{"port": 9999}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Port)
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
hostname: 0.0.0.0
port: 8000
responses:
  - method: POST
    path: /orders
    responseCode: 201
    body: created
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg.Responses, 1)
	assert.Equal(t, "POST", cfg.Responses[0].Method)
	assert.Equal(t, 201, cfg.Responses[0].ResponseCode)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadConfigMalformed(t *testing.T) {
	path := writeConfig(t, "config.json", `{"responses": [`)
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigInvalidPort(t *testing.T) {
	path := writeConfig(t, "config.json", `{"port": 123456}`)
	_, err := LoadConfig(path)

	var portErr *domain.InvalidPortError
	require.ErrorAs(t, err, &portErr)
	assert.Equal(t, 123456, portErr.Port)
}

func TestBuildIndexAppliesDefaults(t *testing.T) {
	cfg := &Config{Responses: []ResponseSpec{{Body: "hello"}}}

	index, err := buildIndex(cfg)
	require.NoError(t, err)
	spec, ok := index["GET"]["/"]
	require.True(t, ok)
	assert.Equal(t, 200, spec.ResponseCode)
	assert.Equal(t, "hello", spec.Body)
}

func TestBuildIndexRejectsUnknownMethod(t *testing.T) {
	cfg := &Config{Responses: []ResponseSpec{{Method: "PATCH", Path: "/x"}}}

	_, err := buildIndex(cfg)
	assert.Error(t, err)
}
