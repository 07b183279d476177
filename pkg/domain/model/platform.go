package model

import (
	"github.com/acre-dev/stevedore/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// PlatformSpec describes one build target. The set of platforms is static
// configuration fixed at deployment time, not discovered at runtime.
type PlatformSpec struct {
	Name          string `toml:"name"`
	OS            string `toml:"os"`
	TargetTriple  string `toml:"target"`
	RequiresCross bool   `toml:"cross"`

	// SkipStrip opts a platform out of symbol stripping. Stripping is the
	// default, so absence in a TOML matrix means "strip".
	SkipStrip bool `toml:"skip_strip"`
}

// Validate checks the invariants that must hold before any build is
// dispatched: a cross-compiled platform needs a target triple.
func (s PlatformSpec) Validate() error {
	if s.Name == "" {
		return goerr.New("platform name is required")
	}
	if s.RequiresCross && s.TargetTriple == "" {
		return goerr.New("cross-compiled platform has no target triple",
			goerr.T(types.ErrTagMissingTarget),
			goerr.V("platform", s.Name),
		)
	}
	return nil
}

// ToolchainPlan holds the parameters for one toolchain invocation. It is a
// pure value: computing a plan never touches the filesystem or environment.
type ToolchainPlan struct {
	Executable string
	Args       []string
	OutputDir  string
}
