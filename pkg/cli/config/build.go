package config

import (
	"github.com/urfave/cli/v3"

	"github.com/acre-dev/stevedore/pkg/domain/types"
	"github.com/acre-dev/stevedore/pkg/usecase"
)

// Build holds the build pipeline configuration
type Build struct {
	BinaryName string
	OutputRoot string
	TagPrefix  string
	MatrixFile string
}

// Flags returns CLI flags for build configuration
func (c *Build) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "binary-name",
			Usage:       "Name of the binary to build and publish",
			Value:       types.DefaultBinaryName,
			Destination: &c.BinaryName,
			Sources:     cli.EnvVars("STEVEDORE_BINARY_NAME"),
		},
		&cli.StringFlag{
			Name:        "output-root",
			Usage:       "Toolchain output root directory",
			Value:       "target",
			Destination: &c.OutputRoot,
			Sources:     cli.EnvVars("STEVEDORE_OUTPUT_ROOT"),
		},
		&cli.StringFlag{
			Name:        "tag-prefix",
			Usage:       "Ref prefix marking release tags",
			Value:       types.DefaultTagPrefix,
			Destination: &c.TagPrefix,
			Sources:     cli.EnvVars("STEVEDORE_TAG_PREFIX"),
		},
		&cli.StringFlag{
			Name:        "platform-matrix",
			Usage:       "Path to a TOML platform matrix (default: built-in linux/macos matrix)",
			Destination: &c.MatrixFile,
			Sources:     cli.EnvVars("STEVEDORE_PLATFORM_MATRIX"),
		},
	}
}

// PipelineConfig resolves the pipeline configuration, loading the platform
// matrix from file when one is configured
func (c *Build) PipelineConfig() (usecase.PipelineConfig, error) {
	platforms := DefaultPlatforms
	if c.MatrixFile != "" {
		loaded, err := LoadMatrix(c.MatrixFile)
		if err != nil {
			return usecase.PipelineConfig{}, err
		}
		platforms = loaded
	}

	return usecase.PipelineConfig{
		TagPrefix:  c.TagPrefix,
		BinaryName: c.BinaryName,
		OutputRoot: c.OutputRoot,
		Platforms:  platforms,
	}, nil
}
