package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/mocksmith/mocksmith/internal/logging"
	"github.com/mocksmith/mocksmith/internal/mock"
)

func main() {
	app := &cli.App{
		Name:  "mockserver",
		Usage: "serve configurable mocked HTTP responses",
		Description: "Responses come from the configuration document in the working\n" +
			"directory (config.json unless --file says otherwise). HOST and PORT\n" +
			"set the bind address; keys in the configuration file win over them.",
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Use a custom configuration file",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		logging.L().Fatal("mockserver failed", zap.Error(err))
	}
}

func run(c *cli.Context) error {
	if err := logging.Init(true); err != nil {
		return err
	}
	defer logging.Sync()

	cfg, err := mock.LoadConfig(c.Path("file"))
	if err != nil {
		return err
	}

	server, err := mock.NewServer(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		server.Shutdown()
	}()

	return server.Listen()
}
