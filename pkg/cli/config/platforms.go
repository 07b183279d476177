package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/acre-dev/stevedore/pkg/domain/model"
)

// DefaultPlatforms is the built-in build matrix: linux cross-compiled against
// musl for portable binaries, macos built natively.
var DefaultPlatforms = []model.PlatformSpec{
	{
		Name:          "linux",
		OS:            "linux",
		TargetTriple:  "x86_64-unknown-linux-musl",
		RequiresCross: true,
	},
	{
		Name: "macos",
		OS:   "darwin",
	},
}

type matrixFile struct {
	Platforms []model.PlatformSpec `toml:"platforms"`
}

// LoadMatrix reads a platform matrix from a TOML file:
//
//	[[platforms]]
//	name = "linux"
//	os = "linux"
//	target = "x86_64-unknown-linux-musl"
//	cross = true
//
// Every entry is validated so config errors surface before any build runs.
func LoadMatrix(path string) ([]model.PlatformSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read platform matrix", goerr.V("path", path))
	}

	var f matrixFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, goerr.Wrap(err, "failed to parse platform matrix", goerr.V("path", path))
	}
	if len(f.Platforms) == 0 {
		return nil, goerr.New("platform matrix has no platforms", goerr.V("path", path))
	}

	for _, spec := range f.Platforms {
		if err := spec.Validate(); err != nil {
			return nil, err
		}
	}

	return f.Platforms, nil
}
