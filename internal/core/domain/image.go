package domain

import "path"

// StagedFile is a single build-time copy instruction: a source path relative
// to the build context and a destination path inside the image filesystem.
type StagedFile struct {
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
}

// ResolveDestination returns the absolute in-image path of the staged file.
// Relative destinations land under the working directory.
func (f StagedFile) ResolveDestination(workDir string) string {
	if path.IsAbs(f.Destination) {
		return path.Clean(f.Destination)
	}
	dest := f.Destination
	if dest == "" {
		dest = path.Base(f.Source)
	}
	return path.Join(workDir, dest)
}

// ImageSpec describes everything the assembler needs to produce an image:
// the runtime foundation, the files staged into it, and the runtime contract
// (working directory, advisory port, start command).
type ImageSpec struct {
	BaseImage   string       `json:"base_image" yaml:"base_image"`
	WorkDir     string       `json:"workdir" yaml:"workdir"`
	Staging     []StagedFile `json:"staging" yaml:"staging"`
	ExposedPort int          `json:"exposed_port" yaml:"exposed_port"`
	Entrypoint  []string     `json:"entrypoint" yaml:"entrypoint"`
	Tag         string       `json:"tag" yaml:"tag"`
}

// BuildResult is what a successful assembly returns. ImageID is the daemon's
// content-addressed identifier. ContextDigest is a sha256 over the generated
// build context; identical inputs yield an identical digest, which is how
// callers can observe that a rebuild was a no-op.
type BuildResult struct {
	ImageID       string `json:"image_id"`
	Tag           string `json:"tag"`
	ContextDigest string `json:"context_digest"`
	Size          int64  `json:"size"`
}
