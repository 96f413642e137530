package assembler

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/opencontainers/go-digest"

	"github.com/mocksmith/mocksmith/internal/core/domain"
)

// validateSpec rejects malformed specs before any staging I/O happens, so an
// invalid port or entrypoint never touches the filesystem or the daemon.
func validateSpec(spec domain.ImageSpec) error {
	if spec.BaseImage == "" {
		return &domain.InvalidSpecError{Field: "base image", Reason: "must not be empty"}
	}
	if spec.ExposedPort < 1 || spec.ExposedPort > 65535 {
		return &domain.InvalidPortError{Port: spec.ExposedPort}
	}
	if len(spec.Entrypoint) == 0 || spec.Entrypoint[0] == "" {
		return &domain.InvalidSpecError{Field: "entrypoint", Reason: "must name an executable"}
	}
	if !path.IsAbs(spec.WorkDir) {
		return &domain.InvalidSpecError{Field: "workdir", Reason: "must be an absolute path"}
	}
	if spec.Tag == "" {
		return &domain.InvalidSpecError{Field: "tag", Reason: "must not be empty"}
	}
	for _, f := range spec.Staging {
		if f.Source == "" {
			return &domain.InvalidSpecError{Field: "staging", Reason: "has an entry with an empty source"}
		}
	}
	return nil
}

// prepareContext materializes the build context for a spec: the rendered
// Dockerfile plus every staged source copied out of contextDir under its
// source-relative path. It returns the context directory, a sha256 digest
// over the generated content (identical inputs give an identical digest),
// and a cleanup func. A missing source aborts before anything is sent to
// the daemon.
func prepareContext(contextDir string, spec domain.ImageSpec) (string, digest.Digest, func(), error) {
	tmpDir, err := os.MkdirTemp("", "mocksmith-build-*")
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to create context dir: %w", err)
	}
	cleanup := func() { os.RemoveAll(tmpDir) }

	digester := digest.SHA256.Digester()
	hash := digester.Hash()

	dockerfile := renderDockerfile(spec)
	if err := os.WriteFile(filepath.Join(tmpDir, dockerfileName), []byte(dockerfile), 0o644); err != nil {
		cleanup()
		return "", "", nil, fmt.Errorf("failed to write %s: %w", dockerfileName, err)
	}
	io.WriteString(hash, dockerfile)

	for _, f := range spec.Staging {
		src := filepath.Join(contextDir, filepath.FromSlash(f.Source))
		dst := filepath.Join(tmpDir, filepath.FromSlash(f.Source))
		io.WriteString(hash, "\x00"+f.ResolveDestination(spec.WorkDir)+"\x00")
		if err := copyFile(src, dst, hash); err != nil {
			cleanup()
			if os.IsNotExist(err) {
				return "", "", nil, &domain.MissingSourceError{Source: f.Source, Cause: err}
			}
			return "", "", nil, fmt.Errorf("failed to stage %q: %w", f.Source, err)
		}
	}

	return tmpDir, digester.Digest(), cleanup, nil
}

// copyFile copies src to dst, feeding the bytes to hash as well.
func copyFile(src, dst string, hash io.Writer) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(io.MultiWriter(out, hash), in); err != nil {
		return err
	}
	return out.Close()
}
