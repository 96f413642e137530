package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/mocksmith/mocksmith/internal/adapters/assembler"
	"github.com/mocksmith/mocksmith/internal/core/domain"
	"github.com/mocksmith/mocksmith/internal/logging"
	"github.com/mocksmith/mocksmith/internal/manifest"
)

func main() {
	app := &cli.App{
		Name:  "mocksmith",
		Usage: "assemble and tag mock server container images",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "development-style logging",
			},
		},
		Before: func(c *cli.Context) error {
			return logging.Init(c.Bool("verbose"))
		},
		Commands: []*cli.Command{
			{
				Name:  "build",
				Usage: "Build an image from a build context and manifest",
				Flags: []cli.Flag{
					&cli.PathFlag{
						Name:  "context",
						Usage: "Build context directory",
						Value: ".",
					},
					&cli.PathFlag{
						Name:  "manifest",
						Usage: "YAML build manifest; defaults apply when omitted",
					},
					&cli.StringFlag{
						Name:  "tag",
						Usage: "Tag for the resulting image",
					},
					&cli.StringFlag{
						Name:  "repo",
						Usage: "Git repository to use as build context instead of --context",
					},
				},
				Action: build,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "mocksmith: %s: %v\n", failureClass(err), err)
		os.Exit(1)
	}
}

func build(c *cli.Context) error {
	spec, err := loadSpec(c)
	if err != nil {
		return err
	}

	adapter, err := assembler.NewAdapter()
	if err != nil {
		return err
	}

	var result domain.BuildResult
	if repo := c.String("repo"); repo != "" {
		result, err = adapter.AssembleFromRepo(c.Context, repo, spec)
	} else {
		result, err = adapter.Assemble(c.Context, c.Path("context"), spec)
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n", result.Tag, result.ImageID)
	return nil
}

func loadSpec(c *cli.Context) (domain.ImageSpec, error) {
	var (
		spec domain.ImageSpec
		err  error
	)
	if path := c.Path("manifest"); path != "" {
		spec, err = manifest.Load(path)
	} else {
		spec, err = manifest.Parse(nil)
	}
	if err != nil {
		return domain.ImageSpec{}, err
	}
	if tag := c.String("tag"); tag != "" {
		spec.Tag = tag
	}
	return spec, nil
}

// failureClass names the build failure for the exit message so scripts can
// tell validation mistakes from daemon-side trouble.
func failureClass(err error) string {
	var (
		resolution    *domain.ResolutionError
		missingSource *domain.MissingSourceError
		invalidPort   *domain.InvalidPortError
		invalidSpec   *domain.InvalidSpecError
	)
	switch {
	case errors.As(err, &resolution):
		return "resolution error"
	case errors.As(err, &missingSource):
		return "missing source"
	case errors.As(err, &invalidPort):
		return "invalid port"
	case errors.As(err, &invalidSpec):
		return "invalid spec"
	default:
		return "build error"
	}
}
