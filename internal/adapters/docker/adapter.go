package docker

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mocksmith/mocksmith/internal/core/domain"
	"github.com/mocksmith/mocksmith/internal/logging"
)

// Adapter implements ports.ContainerService using the Docker SDK.
type Adapter struct {
	cli *client.Client
	log *zap.Logger
}

// NewAdapter creates a new Docker adapter instance.
func NewAdapter() (*Adapter, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Adapter{cli: cli, log: logging.Component("docker")}, nil
}

// ListContainers returns the running containers with their published ports.
func (a *Adapter) ListContainers(ctx context.Context) ([]domain.Container, error) {
	containers, err := a.cli.ContainerList(ctx, types.ContainerListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	var result []domain.Container
	for _, c := range containers {
		// Use the first name if available, remove slash
		name := ""
		if len(c.Names) > 0 {
			name = c.Names[0][1:]
		}

		var ports []domain.PortBinding
		for _, p := range c.Ports {
			binding := domain.PortBinding{ContainerPort: int(p.PrivatePort)}
			if p.PublicPort != 0 {
				binding.HostPort = strconv.Itoa(int(p.PublicPort))
			}
			ports = append(ports, binding)
		}

		ip := ""
		if c.NetworkSettings != nil {
			for _, n := range c.NetworkSettings.Networks {
				ip = n.IPAddress
				break
			}
		}

		result = append(result, domain.Container{
			ID:        c.ID[:12], // Short ID
			Name:      name,
			Image:     c.Image,
			Status:    c.Status,
			State:     c.State,
			IPAddress: ip,
			Ports:     ports,
		})
	}
	return result, nil
}

// StartContainer creates and starts a container from a built image,
// publishing exposedPort on an ephemeral host port. The working directory and
// entrypoint were baked into the image at build time, so the config here only
// wires up networking.
func (a *Adapter) StartContainer(ctx context.Context, image string, exposedPort int) (domain.Container, error) {
	if exposedPort < 1 || exposedPort > 65535 {
		return domain.Container{}, &domain.InvalidPortError{Port: exposedPort}
	}

	if err := a.pullIfAbsent(ctx, image); err != nil {
		return domain.Container{}, err
	}

	port, err := nat.NewPort("tcp", strconv.Itoa(exposedPort))
	if err != nil {
		return domain.Container{}, fmt.Errorf("failed to build port spec: %w", err)
	}

	name := "mocksmith-" + uuid.NewString()[:8]
	resp, err := a.cli.ContainerCreate(ctx,
		&container.Config{
			Image:        image,
			ExposedPorts: nat.PortSet{port: struct{}{}},
		},
		&container.HostConfig{
			PortBindings: nat.PortMap{port: []nat.PortBinding{{HostIP: "0.0.0.0"}}},
		},
		nil, nil, name)
	if err != nil {
		return domain.Container{}, fmt.Errorf("failed to create container: %w", err)
	}

	if err := a.cli.ContainerStart(ctx, resp.ID, types.ContainerStartOptions{}); err != nil {
		return domain.Container{}, &domain.EntrypointStartError{Image: image, Cause: err}
	}

	inspect, err := a.cli.ContainerInspect(ctx, resp.ID)
	if err != nil {
		return domain.Container{}, fmt.Errorf("failed to inspect container: %w", err)
	}

	result := domain.Container{
		ID:    resp.ID[:12],
		Name:  name,
		Image: image,
		State: inspect.State.Status,
		Ports: []domain.PortBinding{{ContainerPort: exposedPort}},
	}
	if inspect.NetworkSettings != nil {
		if bindings := inspect.NetworkSettings.Ports[port]; len(bindings) > 0 {
			result.Ports[0].HostPort = bindings[0].HostPort
		}
		for _, n := range inspect.NetworkSettings.Networks {
			result.IPAddress = n.IPAddress
			break
		}
	}

	a.log.Info("container started",
		zap.String("id", result.ID),
		zap.String("image", image),
		zap.String("host_port", result.Ports[0].HostPort))
	return result, nil
}

// pullIfAbsent pulls the image only when the daemon does not already have it,
// so locally assembled images never trigger a registry round trip.
func (a *Adapter) pullIfAbsent(ctx context.Context, image string) error {
	if _, _, err := a.cli.ImageInspectWithRaw(ctx, image); err == nil {
		return nil
	}

	reader, err := a.cli.ImagePull(ctx, image, types.ImagePullOptions{})
	if err != nil {
		return &domain.ResolutionError{BaseImage: image, Cause: err}
	}
	defer reader.Close()
	// The pull only completes once the stream is drained.
	_, err = io.Copy(io.Discard, reader)
	return err
}

// StopContainer stops a running container.
func (a *Adapter) StopContainer(ctx context.Context, id string) error {
	// Timeout can be configurable, but keeping it simple for now
	timeout := 10 * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return a.cli.ContainerStop(ctx, id, container.StopOptions{})
}

// GetContainerLogs returns a stream of container logs.
func (a *Adapter) GetContainerLogs(ctx context.Context, id string) (io.ReadCloser, error) {
	options := types.ContainerLogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     false, // Can be true for streaming
		Timestamps: true,
	}
	return a.cli.ContainerLogs(ctx, id, options)
}
