package usecase

import (
	"context"

	"github.com/acre-dev/stevedore/pkg/domain/interfaces"
	"github.com/acre-dev/stevedore/pkg/domain/model"
	"github.com/acre-dev/stevedore/pkg/domain/types"
	"github.com/acre-dev/stevedore/pkg/utils/async"
	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// PipelineConfig is the static configuration of one deployment: the release
// tag pattern, the binary to build, and the platform matrix.
type PipelineConfig struct {
	TagPrefix  string
	BinaryName string
	OutputRoot string
	Platforms  []model.PlatformSpec
}

type pipeline struct {
	releases interfaces.ReleaseClient
	build    *Build
	cfg      PipelineConfig
}

// NewPipeline creates the release pipeline orchestrator
func NewPipeline(releases interfaces.ReleaseClient, runner interfaces.CommandRunner, cfg PipelineConfig) interfaces.Pipeline {
	if cfg.TagPrefix == "" {
		cfg.TagPrefix = types.DefaultTagPrefix
	}
	if cfg.BinaryName == "" {
		cfg.BinaryName = types.DefaultBinaryName
	}
	if cfg.OutputRoot == "" {
		cfg.OutputRoot = "target"
	}

	return &pipeline{
		releases: releases,
		build:    NewBuild(runner),
		cfg:      cfg,
	}
}

type branch struct {
	spec model.PlatformSpec
	plan *model.ToolchainPlan
}

// Run executes one release pipeline: resolve version, create the remote
// release, then fan out one build-then-upload branch per platform. Version
// resolution, matrix validation, and release creation abort the run before
// any build is dispatched; branch failures are collected and reported in
// aggregate after every branch has reached a terminal state.
func (uc *pipeline) Run(ctx context.Context, ref string) (*model.Report, error) {
	logger := ctxlog.From(ctx)
	runID := uuid.NewString()

	version, err := ResolveVersion(uc.cfg.TagPrefix, ref)
	if err != nil {
		return nil, err
	}

	logger.Info("Starting release pipeline",
		"run_id", runID,
		"ref", ref,
		"version", version,
		"platforms", len(uc.cfg.Platforms),
	)

	if len(uc.cfg.Platforms) == 0 {
		return nil, goerr.New("platform matrix is empty", goerr.V("run_id", runID))
	}

	// Compute every plan up front so config errors abort before any build
	branches := make([]branch, 0, len(uc.cfg.Platforms))
	for _, spec := range uc.cfg.Platforms {
		plan, err := SelectToolchain(spec, uc.cfg.OutputRoot)
		if err != nil {
			return nil, err
		}
		branches = append(branches, branch{spec: spec, plan: plan})
	}

	handle, err := uc.releases.CreateRelease(ctx, version)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create release",
			goerr.V("run_id", runID),
			goerr.V("version", version),
		)
	}

	logger.Info("Release created",
		"run_id", runID,
		"tag", handle.TagName,
		"release_id", handle.ID,
	)

	outcomes, errs := async.Gather(ctx, branches, func(ctx context.Context, b branch) (model.PlatformOutcome, error) {
		return uc.runBranch(ctx, b, handle), nil
	})
	for i, err := range errs {
		if err != nil && outcomes[i].Err == nil {
			outcomes[i] = model.PlatformOutcome{Platform: branches[i].spec.Name, Err: err}
		}
	}

	report := &model.Report{
		RunID:    runID,
		Version:  version,
		Release:  handle,
		Outcomes: outcomes,
	}

	if report.Failed() {
		var failed []string
		for _, o := range outcomes {
			if o.Err != nil {
				failed = append(failed, o.Platform)
			}
		}
		return report, goerr.New("release pipeline finished with failed platforms",
			goerr.V("run_id", runID),
			goerr.V("version", version),
			goerr.V("failed_platforms", failed),
		)
	}

	logger.Info("Release pipeline completed",
		"run_id", runID,
		"version", version,
		"uploaded", report.Uploaded(),
	)

	return report, nil
}

// runBranch builds, post-processes, and uploads one platform. Upload strictly
// follows a successful build within the branch; sibling branches are never
// cancelled by a failure here.
func (uc *pipeline) runBranch(ctx context.Context, b branch, handle *model.ReleaseHandle) model.PlatformOutcome {
	logger := ctxlog.From(ctx)
	outcome := model.PlatformOutcome{
		Platform:  b.spec.Name,
		AssetName: uc.cfg.BinaryName + "-" + b.spec.Name,
	}

	result := uc.build.Run(ctx, b.spec, b.plan, uc.cfg.BinaryName)
	if !result.OK() {
		outcome.Err = result.Err
		return outcome
	}

	asset := &model.Asset{
		Name:        outcome.AssetName,
		ContentType: types.AssetContentType,
		BinaryPath:  result.BinaryPath,
	}
	if err := uc.releases.UploadAsset(ctx, handle, asset); err != nil {
		outcome.Err = goerr.Wrap(err, "failed to upload asset",
			goerr.V("platform", b.spec.Name),
			goerr.V("asset", asset.Name),
		)
		return outcome
	}
	outcome.Uploaded = true

	logger.Info("Asset uploaded",
		"platform", b.spec.Name,
		"asset", asset.Name,
	)

	return outcome
}
