package mock

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/mocksmith/mocksmith/internal/logging"
)

// mockerPrefix is the introspection surface: GET lists the recorded calls,
// DELETE clears them. Requests under it are never recorded or mocked.
const mockerPrefix = "/mocker"

// Server serves the configured mock responses and records every other
// request it sees.
type Server struct {
	cfg      *Config
	index    map[string]map[string]ResponseSpec
	registry *Registry
	app      *fiber.App
	log      *zap.Logger
}

// NewServer wires a server for the given configuration.
func NewServer(cfg *Config) (*Server, error) {
	index, err := buildIndex(cfg)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		index:    index,
		registry: NewRegistry(),
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
		}),
		log: logging.Component("mockserver"),
	}
	s.app.Use(s.handle)
	return s, nil
}

// App exposes the underlying fiber app, mostly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Registry exposes the call registry.
func (s *Server) Registry() *Registry {
	return s.registry
}

// Listen binds the configured address and serves until Shutdown.
func (s *Server) Listen() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Hostname, s.cfg.Port)
	s.log.Info("server starts", zap.String("addr", addr))
	return s.app.Listen(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	s.log.Info("server stops")
	return s.app.Shutdown()
}

// handle is the single catch-all: introspection first, then record the call
// and answer from the response index.
func (s *Server) handle(c *fiber.Ctx) error {
	// Fiber reuses the request buffers backing these strings between
	// requests, so clone them before they outlive the handler (the body
	// below is copied for the same reason).
	method := strings.Clone(c.Method())
	// The raw URL, query string included, is the lookup key. Mocking an
	// endpoint that distinguishes ?page=1 from ?page=2 needs that.
	path := strings.Clone(c.OriginalURL())

	if strings.HasPrefix(c.Path(), mockerPrefix) {
		return s.handleMocker(c, method)
	}

	// A method with no response map cannot be mocked at all; refuse it
	// without recording, the way a handler without a do_PATCH would.
	paths, ok := s.index[method]
	if !ok {
		return c.Status(fiber.StatusNotImplemented).
			SendString(fmt.Sprintf("Unsupported method ('%s')", method))
	}

	var body []byte
	if raw := c.Body(); len(raw) > 0 {
		body = make([]byte, len(raw))
		copy(body, raw)
	}
	s.registry.Add(method, path, body)

	spec, ok := paths[path]
	if !ok {
		s.log.Info("no mocked response", zap.String("method", method), zap.String("path", path))
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("path '%s' not found", path),
		})
	}

	if spec.Delay > 0 {
		time.Sleep(time.Duration(spec.Delay * float64(time.Second)))
	}
	for _, header := range spec.Headers {
		for k, v := range header {
			c.Set(k, v)
		}
	}
	return c.Status(spec.ResponseCode).Send(spec.ResolveBody(s.log))
}

func (s *Server) handleMocker(c *fiber.Ctx, method string) error {
	switch method {
	case fiber.MethodGet:
		return c.JSON(s.registry.List())
	case fiber.MethodDelete:
		s.registry.Clear()
		return c.SendStatus(fiber.StatusNoContent)
	default:
		return c.Status(fiber.StatusInternalServerError).SendString("Unknown method")
	}
}
