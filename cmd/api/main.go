package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mocksmith/mocksmith/internal/adapters/assembler"
	"github.com/mocksmith/mocksmith/internal/adapters/docker"
	"github.com/mocksmith/mocksmith/internal/adapters/http"
	"github.com/mocksmith/mocksmith/internal/logging"
)

func main() {
	if err := logging.Init(os.Getenv("ENV") != "production"); err != nil {
		panic(err)
	}
	defer logging.Sync()
	log := logging.Component("api")

	// Infrastructure adapters
	dockerAdapter, err := docker.NewAdapter()
	if err != nil {
		log.Fatal("failed to initialize docker adapter", zap.Error(err))
	}
	assemblerAdapter, err := assembler.NewAdapter()
	if err != nil {
		log.Fatal("failed to initialize assembler adapter", zap.Error(err))
	}

	handler := http.NewHandler(dockerAdapter, assemblerAdapter)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	api := app.Group("/api")
	v1 := api.Group("/v1")

	images := v1.Group("/images")
	images.Post("/", handler.BuildImage)

	containers := v1.Group("/containers")
	containers.Get("/", handler.ListContainers)
	containers.Post("/", handler.StartContainer)
	containers.Delete("/:id", handler.StopContainer)
	containers.Get("/:id/logs", handler.GetContainerLogs)

	addr := ":3000"
	if v := os.Getenv("ADDR"); v != "" {
		addr = v
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting", zap.String("addr", addr))
		return app.Listen(addr)
	})
	g.Go(func() error {
		<-ctx.Done()
		return app.Shutdown()
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}
