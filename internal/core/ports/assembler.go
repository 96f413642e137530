package ports

import (
	"context"

	"github.com/mocksmith/mocksmith/internal/core/domain"
)

// AssemblerService defines operations for assembling container images from a
// build context and an image spec.
type AssemblerService interface {
	// Assemble stages the spec's files out of contextDir, builds the image
	// and tags it with spec.Tag. The build is atomic: on any failure no
	// image is produced or retained.
	Assemble(ctx context.Context, contextDir string, spec domain.ImageSpec) (domain.BuildResult, error)

	// AssembleFromRepo clones a git repository and assembles the image from
	// the clone as build context.
	AssembleFromRepo(ctx context.Context, repoURL string, spec domain.ImageSpec) (domain.BuildResult, error)
}
