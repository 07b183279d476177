package usecase

import (
	"path/filepath"

	"github.com/acre-dev/stevedore/pkg/domain/model"
)

const (
	nativeToolchain = "cargo"
	crossToolchain  = "cross"
)

// SelectToolchain computes the invocation parameters for one platform build.
// Cross-compiled platforms use the cross toolchain with a --target argument
// and an output directory nested under the target triple; native platforms
// use cargo with the fixed output root. The selection is deterministic and
// side-effect-free: it only computes parameters, never invokes a tool.
func SelectToolchain(spec model.PlatformSpec, outputRoot string) (*model.ToolchainPlan, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	if spec.RequiresCross {
		return &model.ToolchainPlan{
			Executable: crossToolchain,
			Args:       []string{"build", "--release", "--target", spec.TargetTriple},
			OutputDir:  filepath.Join(outputRoot, spec.TargetTriple),
		}, nil
	}

	return &model.ToolchainPlan{
		Executable: nativeToolchain,
		Args:       []string{"build", "--release"},
		OutputDir:  outputRoot,
	}, nil
}
