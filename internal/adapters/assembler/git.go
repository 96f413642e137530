package assembler

import (
	"context"
	"fmt"
	"os"

	git "github.com/go-git/go-git/v5"
	"go.uber.org/zap"

	"github.com/mocksmith/mocksmith/internal/core/domain"
)

// AssembleFromRepo clones a git repository and assembles the image with the
// clone as build context. The clone is shallow and always removed afterwards.
// The spec is validated up front so a malformed one never costs a clone.
func (a *Adapter) AssembleFromRepo(ctx context.Context, repoURL string, spec domain.ImageSpec) (domain.BuildResult, error) {
	if err := validateSpec(spec); err != nil {
		return domain.BuildResult{}, err
	}

	tmpDir, err := os.MkdirTemp("", "mocksmith-clone-*")
	if err != nil {
		return domain.BuildResult{}, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	a.log.Info("cloning repository", zap.String("url", repoURL))
	if _, err := git.PlainCloneContext(ctx, tmpDir, false, &git.CloneOptions{
		URL:   repoURL,
		Depth: 1, // Shallow clone for speed
	}); err != nil {
		return domain.BuildResult{}, fmt.Errorf("failed to clone repo: %w", err)
	}

	return a.Assemble(ctx, tmpDir, spec)
}
