package mock

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mocksmith/mocksmith/internal/core/domain"
)

// DefaultConfigFile is the document the server reads from its working
// directory when no explicit file is given. The name is part of the image
// contract: it is staged next to the server at build time.
const DefaultConfigFile = "config.json"

// Config is the mock server's configuration document. HOST and PORT from the
// environment seed the defaults; keys present in the file win over them.
type Config struct {
	Hostname  string         `json:"hostname" yaml:"hostname"`
	Port      int            `json:"port" yaml:"port"`
	Responses []ResponseSpec `json:"responses" yaml:"responses"`
}

// ResponseSpec describes one canned response: where it is served, what it
// carries, and how long to stall before answering.
type ResponseSpec struct {
	Method       string              `json:"method" yaml:"method"`
	Path         string              `json:"path" yaml:"path"`
	ResponseCode int                 `json:"responseCode" yaml:"responseCode"`
	Headers      []map[string]string `json:"headers" yaml:"headers"`
	Body         string              `json:"body" yaml:"body"`
	Delay        float64             `json:"delay" yaml:"delay"` // seconds
}

// supported request methods, also the keys of the response index.
var methods = []string{"HEAD", "GET", "POST", "PUT", "DELETE"}

// LoadConfig reads and validates the configuration document. YAML documents
// are recognized by extension; everything else is decoded as JSON. An
// unreadable or undecodable document is a startup error, not something to
// serve around.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFile
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration %q: %w", path, err)
	}

	cfg := Config{
		Hostname: envOr("HOST", "0.0.0.0"),
		Port:     envIntOr("PORT", 8000),
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &cfg)
	default:
		err = json.Unmarshal(raw, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode configuration %q: %w", path, err)
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, &domain.InvalidPortError{Port: cfg.Port}
	}
	return &cfg, nil
}

// buildIndex arranges the responses into per-method path maps, applying the
// per-response defaults (GET, "/", 200). A method outside the supported set
// rejects the whole document.
func buildIndex(cfg *Config) (map[string]map[string]ResponseSpec, error) {
	index := make(map[string]map[string]ResponseSpec, len(methods))
	for _, m := range methods {
		index[m] = make(map[string]ResponseSpec)
	}

	for _, r := range cfg.Responses {
		if r.Method == "" {
			r.Method = "GET"
		}
		if r.Path == "" {
			r.Path = "/"
		}
		if r.ResponseCode == 0 {
			r.ResponseCode = 200
		}
		method := strings.ToUpper(r.Method)
		paths, ok := index[method]
		if !ok {
			return nil, fmt.Errorf("unsupported method %q in response for path %q", r.Method, r.Path)
		}
		paths[r.Path] = r
	}
	return index, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
