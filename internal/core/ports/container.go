package ports

import (
	"context"
	"io"

	"github.com/mocksmith/mocksmith/internal/core/domain"
)

// ContainerService defines the core operations for running built images.
// This interface allows us to switch between Docker, Podman, or Kubernetes
// without changing the business logic.
type ContainerService interface {
	ListContainers(ctx context.Context) ([]domain.Container, error)
	// StartContainer runs the image and publishes exposedPort on an
	// ephemeral host port. The port declaration is advisory: whether the
	// process inside actually binds it is the process's business.
	StartContainer(ctx context.Context, image string, exposedPort int) (domain.Container, error)
	StopContainer(ctx context.Context, id string) error
	GetContainerLogs(ctx context.Context, id string) (io.ReadCloser, error)
}
