package usecase

import (
	"context"
	"os"
	"path/filepath"

	"github.com/acre-dev/stevedore/pkg/domain/interfaces"
	"github.com/acre-dev/stevedore/pkg/domain/model"
	"github.com/acre-dev/stevedore/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Build runs the toolchain for one platform and post-processes the binary
type Build struct {
	runner interfaces.CommandRunner
}

// NewBuild creates a new build job executor
func NewBuild(runner interfaces.CommandRunner) *Build {
	return &Build{runner: runner}
}

// Run invokes the plan's toolchain and returns the per-platform result.
// A nonzero exit or a missing output binary is build_failed; a successful
// compile followed by a failed strip is post_process_failed and invalidates
// the result even though compilation succeeded.
func (b *Build) Run(ctx context.Context, spec model.PlatformSpec, plan *model.ToolchainPlan, binaryName string) *model.BuildResult {
	logger := ctxlog.From(ctx)
	result := &model.BuildResult{Platform: spec.Name}

	logger.Info("Starting build",
		"platform", spec.Name,
		"executable", plan.Executable,
		"args", plan.Args,
	)

	if err := b.runner.Run(ctx, plan.Executable, plan.Args...); err != nil {
		result.Err = goerr.Wrap(err, "toolchain exited with failure",
			goerr.T(types.ErrTagBuildFailed),
			goerr.V("platform", spec.Name),
			goerr.V("executable", plan.Executable),
		)
		return result
	}

	binaryPath := filepath.Join(plan.OutputDir, "release", binaryName)
	if _, err := os.Stat(binaryPath); err != nil {
		result.Err = goerr.Wrap(err, "toolchain succeeded but produced no binary",
			goerr.T(types.ErrTagBuildFailed),
			goerr.V("platform", spec.Name),
			goerr.V("binary_path", binaryPath),
		)
		return result
	}
	result.BinaryPath = binaryPath

	if !spec.SkipStrip {
		if err := b.runner.Run(ctx, "strip", binaryPath); err != nil {
			result.Err = goerr.Wrap(err, "failed to strip binary",
				goerr.T(types.ErrTagPostProcessFailed),
				goerr.V("platform", spec.Name),
				goerr.V("binary_path", binaryPath),
			)
			return result
		}
	}

	logger.Info("Build completed",
		"platform", spec.Name,
		"binary_path", binaryPath,
	)

	return result
}
