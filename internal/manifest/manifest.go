package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mocksmith/mocksmith/internal/core/domain"
)

// Defaults mirror the stock mock-server image: the python alpine base, /app
// as working directory, the server and its configuration document staged
// side by side, the server's conventional port and start command. A manifest
// only has to say what differs.
var defaults = domain.ImageSpec{
	BaseImage:   "python:3.12.0-alpine3.17",
	WorkDir:     "/app",
	ExposedPort: 8000,
	Staging: []domain.StagedFile{
		{Source: "src/server.py", Destination: "server.py"},
		{Source: "src/config.json", Destination: "config.json"},
	},
	Entrypoint: []string{"python", "server.py"},
}

// Load reads a YAML build manifest into an ImageSpec, filling unset fields
// from the defaults. Validation is the assembler's job; Load only decodes.
func Load(path string) (domain.ImageSpec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.ImageSpec{}, fmt.Errorf("failed to read manifest %q: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes manifest bytes, applying defaults for absent fields.
func Parse(raw []byte) (domain.ImageSpec, error) {
	spec := defaults
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return domain.ImageSpec{}, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return spec, nil
}
