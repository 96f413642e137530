package assembler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/archive"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/mocksmith/mocksmith/internal/core/domain"
	"github.com/mocksmith/mocksmith/internal/logging"
)

// BuildAPI is the slice of the Docker client the assembler needs.
type BuildAPI interface {
	ImageBuild(ctx context.Context, buildContext io.Reader, options types.ImageBuildOptions) (types.ImageBuildResponse, error)
	ImageInspectWithRaw(ctx context.Context, imageID string) (types.ImageInspect, []byte, error)
}

// Adapter implements ports.AssemblerService against the Docker Engine API.
type Adapter struct {
	cli BuildAPI
	log *zap.Logger
}

// NewAdapter creates an assembler backed by the local Docker daemon.
func NewAdapter() (*Adapter, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Adapter{cli: cli, log: logging.Component("assembler")}, nil
}

// NewAdapterWithClient creates an assembler on a caller-supplied client.
func NewAdapterWithClient(cli BuildAPI) *Adapter {
	return &Adapter{cli: cli, log: logging.Component("assembler")}
}

// Assemble validates the spec, stages its files out of contextDir and builds
// the image. Failures are atomic: validation and staging errors happen before
// the daemon sees anything, and a failed build stream leaves no tag behind.
func (a *Adapter) Assemble(ctx context.Context, contextDir string, spec domain.ImageSpec) (domain.BuildResult, error) {
	if err := validateSpec(spec); err != nil {
		return domain.BuildResult{}, err
	}

	buildDir, contextDigest, cleanup, err := prepareContext(contextDir, spec)
	if err != nil {
		return domain.BuildResult{}, err
	}
	defer cleanup()

	tar, err := archive.TarWithOptions(buildDir, &archive.TarOptions{})
	if err != nil {
		return domain.BuildResult{}, fmt.Errorf("failed to create build context: %w", err)
	}

	a.log.Info("building image",
		zap.String("tag", spec.Tag),
		zap.String("base_image", spec.BaseImage),
		zap.String("context_digest", contextDigest.String()))

	resp, err := a.cli.ImageBuild(ctx, tar, types.ImageBuildOptions{
		Tags:        []string{spec.Tag},
		Dockerfile:  dockerfileName,
		Remove:      true,
		ForceRemove: true,
	})
	if err != nil {
		return domain.BuildResult{}, fmt.Errorf("failed to build image: %w", err)
	}
	defer resp.Body.Close()

	imageID, err := a.drainBuildStream(resp.Body, spec.BaseImage)
	if err != nil {
		return domain.BuildResult{}, err
	}

	inspect, _, err := a.cli.ImageInspectWithRaw(ctx, spec.Tag)
	if err != nil {
		return domain.BuildResult{}, fmt.Errorf("failed to inspect built image: %w", err)
	}
	if imageID == "" {
		imageID = inspect.ID
	}

	a.log.Info("image built",
		zap.String("tag", spec.Tag),
		zap.String("image_id", imageID),
		zap.String("size", humanize.Bytes(uint64(inspect.Size))))

	return domain.BuildResult{
		ImageID:       imageID,
		Tag:           spec.Tag,
		ContextDigest: contextDigest.String(),
		Size:          inspect.Size,
	}, nil
}

// drainBuildStream consumes the daemon's build output until EOF, returning
// the built image ID when the daemon reports one. A stream error aborts the
// build; an error naming the base image means the FROM line could not be
// resolved.
func (a *Adapter) drainBuildStream(body io.Reader, baseImage string) (string, error) {
	var imageID string
	dec := json.NewDecoder(body)
	for {
		var msg jsonmessage.JSONMessage
		if err := dec.Decode(&msg); err != nil {
			if errors.Is(err, io.EOF) {
				return imageID, nil
			}
			return "", fmt.Errorf("failed to read build output: %w", err)
		}
		if msg.Error != nil {
			if strings.Contains(msg.Error.Message, baseImage) {
				return "", &domain.ResolutionError{BaseImage: baseImage, Cause: msg.Error}
			}
			return "", fmt.Errorf("build failed: %w", msg.Error)
		}
		if msg.Aux != nil {
			var result types.BuildResult
			if err := json.Unmarshal(*msg.Aux, &result); err == nil && result.ID != "" {
				imageID = result.ID
			}
		}
		if out := strings.TrimSpace(msg.Stream); out != "" {
			a.log.Debug("build output", zap.String("line", out))
		}
	}
}
