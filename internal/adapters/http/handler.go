package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mocksmith/mocksmith/internal/core/domain"
	"github.com/mocksmith/mocksmith/internal/core/ports"
)

// Handler exposes image assembly and container lifecycle over HTTP.
type Handler struct {
	containers ports.ContainerService
	assembler  ports.AssemblerService
}

// NewHandler wires the handler with its two services.
func NewHandler(containers ports.ContainerService, assembler ports.AssemblerService) *Handler {
	return &Handler{containers: containers, assembler: assembler}
}

// BuildImageRequest carries an image spec plus the build context: either a
// directory on the control plane host or a git repository to clone.
type BuildImageRequest struct {
	domain.ImageSpec
	ContextDir string `json:"context_dir"`
	RepoURL    string `json:"repo_url"`
}

// BuildImage assembles an image from the posted spec. Failure classes map to
// status codes: spec problems are the caller's fault, everything else is not.
func (h *Handler) BuildImage(c *fiber.Ctx) error {
	var req BuildImageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.RepoURL == "" && req.ContextDir == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Either context_dir or repo_url is required",
		})
	}
	if req.Tag == "" {
		req.Tag = "mocksmith-build-" + uuid.NewString()[:8]
	}

	var (
		result domain.BuildResult
		err    error
	)
	if req.RepoURL != "" {
		result, err = h.assembler.AssembleFromRepo(c.Context(), req.RepoURL, req.ImageSpec)
	} else {
		result, err = h.assembler.Assemble(c.Context(), req.ContextDir, req.ImageSpec)
	}
	if err != nil {
		return c.Status(buildFailureStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// buildFailureStatus distinguishes caller mistakes from build-side failures.
func buildFailureStatus(err error) int {
	var (
		invalidPort   *domain.InvalidPortError
		invalidSpec   *domain.InvalidSpecError
		missingSource *domain.MissingSourceError
	)
	switch {
	case errors.As(err, &invalidPort), errors.As(err, &invalidSpec):
		return fiber.StatusBadRequest
	case errors.As(err, &missingSource):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// ListContainers returns the running containers.
func (h *Handler) ListContainers(c *fiber.Ctx) error {
	containers, err := h.containers.ListContainers(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(containers)
}

// StartContainerRequest names the image to run and the advisory port to
// publish.
type StartContainerRequest struct {
	Image string `json:"image"`
	Port  int    `json:"port"`
}

// StartContainer runs a built image, publishing its declared port.
func (h *Handler) StartContainer(c *fiber.Ctx) error {
	var req StartContainerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Image == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Image name is required",
		})
	}
	if req.Port == 0 {
		req.Port = 8000
	}

	container, err := h.containers.StartContainer(c.Context(), req.Image, req.Port)
	if err != nil {
		var startErr *domain.EntrypointStartError
		status := fiber.StatusInternalServerError
		if errors.As(err, &startErr) {
			status = fiber.StatusUnprocessableEntity
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(container)
}

// StopContainer stops a running container.
func (h *Handler) StopContainer(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Container ID is required",
		})
	}

	if err := h.containers.StopContainer(c.Context(), id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

// GetContainerLogs streams a container's logs as plain text.
func (h *Handler) GetContainerLogs(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Container ID is required",
		})
	}

	logs, err := h.containers.GetContainerLogs(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set("Content-Type", "text/plain")
	return c.SendStream(logs)
}
