package usecase_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/acre-dev/stevedore/pkg/domain/model"
	"github.com/acre-dev/stevedore/pkg/domain/types"
	"github.com/acre-dev/stevedore/pkg/usecase"
)

// mockReleaseClient is a mock implementation of ReleaseClient
type mockReleaseClient struct {
	mu          sync.Mutex
	createFunc  func(ctx context.Context, version model.Version) (*model.ReleaseHandle, error)
	uploadFunc  func(ctx context.Context, handle *model.ReleaseHandle, asset *model.Asset) error
	createCalls []model.Version
	uploads     []uploadCall
}

type uploadCall struct {
	Handle *model.ReleaseHandle
	Asset  *model.Asset
}

func (m *mockReleaseClient) CreateRelease(ctx context.Context, version model.Version) (*model.ReleaseHandle, error) {
	m.mu.Lock()
	m.createCalls = append(m.createCalls, version)
	m.mu.Unlock()
	if m.createFunc != nil {
		return m.createFunc(ctx, version)
	}
	return &model.ReleaseHandle{ID: 42, TagName: string(version), UploadURL: "https://uploads.example.com/42"}, nil
}

func (m *mockReleaseClient) UploadAsset(ctx context.Context, handle *model.ReleaseHandle, asset *model.Asset) error {
	m.mu.Lock()
	m.uploads = append(m.uploads, uploadCall{Handle: handle, Asset: asset})
	m.mu.Unlock()
	if m.uploadFunc != nil {
		return m.uploadFunc(ctx, handle, asset)
	}
	return nil
}

func (m *mockReleaseClient) uploadedNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.uploads))
	for _, u := range m.uploads {
		names = append(names, u.Asset.Name)
	}
	slices.Sort(names)
	return names
}

func TestPipeline_Run_Success(t *testing.T) {
	ctx := context.Background()
	outputRoot := t.TempDir()

	releases := &mockReleaseClient{}
	runner := &mockRunner{
		runFunc: func(ctx context.Context, name string, args ...string) error {
			if name == "cargo" {
				writeBinary(t, outputRoot, "acre")
			}
			return nil
		},
	}

	pipeline := usecase.NewPipeline(releases, runner, usecase.PipelineConfig{
		BinaryName: "acre",
		OutputRoot: outputRoot,
		Platforms: []model.PlatformSpec{
			{Name: "linux", OS: "linux"},
			{Name: "macos", OS: "darwin"},
		},
	})

	report, err := pipeline.Run(ctx, "refs/tags/v0.9.0")
	gt.NoError(t, err)
	gt.NotNil(t, report)

	gt.Value(t, report.Version).Equal(model.Version("0.9.0"))
	gt.True(t, !report.Failed())
	gt.Number(t, report.Uploaded()).Equal(2)

	// Version derived exactly once and passed to release creation
	gt.Value(t, releases.createCalls).Equal([]model.Version{"0.9.0"})

	// Both assets uploaded to the same release handle
	gt.Value(t, releases.uploadedNames()).Equal([]string{"acre-linux", "acre-macos"})
	for _, u := range releases.uploads {
		gt.Value(t, u.Handle.ID).Equal(int64(42))
		gt.Value(t, u.Asset.ContentType).Equal("application/octet-stream")
	}
}

func TestPipeline_Run_PartialFailure(t *testing.T) {
	ctx := context.Background()
	outputRoot := t.TempDir()

	releases := &mockReleaseClient{}
	runner := &mockRunner{
		runFunc: func(ctx context.Context, name string, args ...string) error {
			// The macos cross build exits nonzero; the linux build succeeds
			if slices.Contains(args, "aarch64-apple-darwin") {
				return errors.New("exit status 101")
			}
			if name == "cargo" {
				writeBinary(t, outputRoot, "acre")
			}
			return nil
		},
	}

	pipeline := usecase.NewPipeline(releases, runner, usecase.PipelineConfig{
		BinaryName: "acre",
		OutputRoot: outputRoot,
		Platforms: []model.PlatformSpec{
			{Name: "linux", OS: "linux"},
			{Name: "macos", OS: "darwin", TargetTriple: "aarch64-apple-darwin", RequiresCross: true},
		},
	})

	report, err := pipeline.Run(ctx, "refs/tags/v0.9.0")

	// The run fails overall, but the report carries the partial result
	gt.Error(t, err)
	gt.NotNil(t, report)
	gt.True(t, report.Failed())

	// The linux asset is published and stays published
	gt.Value(t, releases.uploadedNames()).Equal([]string{"acre-linux"})

	var macos *model.PlatformOutcome
	for i := range report.Outcomes {
		if report.Outcomes[i].Platform == "macos" {
			macos = &report.Outcomes[i]
		}
	}
	gt.NotNil(t, macos)
	gt.True(t, goerr.HasTag(macos.Err, types.ErrTagBuildFailed))
	gt.True(t, !macos.Uploaded)
}

func TestPipeline_Run_UploadFailureDoesNotAbortSiblings(t *testing.T) {
	ctx := context.Background()
	outputRoot := t.TempDir()

	releases := &mockReleaseClient{
		uploadFunc: func(ctx context.Context, handle *model.ReleaseHandle, asset *model.Asset) error {
			if asset.Name == "acre-linux" {
				return goerr.New("remote rejected upload", goerr.T(types.ErrTagUploadFailed))
			}
			return nil
		},
	}
	runner := &mockRunner{
		runFunc: func(ctx context.Context, name string, args ...string) error {
			if name == "cargo" {
				writeBinary(t, outputRoot, "acre")
			}
			return nil
		},
	}

	pipeline := usecase.NewPipeline(releases, runner, usecase.PipelineConfig{
		BinaryName: "acre",
		OutputRoot: outputRoot,
		Platforms: []model.PlatformSpec{
			{Name: "linux", OS: "linux"},
			{Name: "macos", OS: "darwin"},
		},
	})

	report, err := pipeline.Run(ctx, "refs/tags/v1.0.0")
	gt.Error(t, err)
	gt.NotNil(t, report)
	gt.Number(t, report.Uploaded()).Equal(1)

	for _, o := range report.Outcomes {
		if o.Platform == "linux" {
			gt.True(t, goerr.HasTag(o.Err, types.ErrTagUploadFailed))
		}
		if o.Platform == "macos" {
			gt.True(t, o.Uploaded)
		}
	}
}

func TestPipeline_Run_InvalidTagAbortsBeforeRemoteCalls(t *testing.T) {
	ctx := context.Background()

	releases := &mockReleaseClient{}
	runner := &mockRunner{}

	pipeline := usecase.NewPipeline(releases, runner, usecase.PipelineConfig{
		Platforms: []model.PlatformSpec{{Name: "linux", OS: "linux"}},
	})

	report, err := pipeline.Run(ctx, "refs/heads/main")
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagInvalidTagFormat))
	gt.Value(t, report).Nil()

	// No remote calls, no builds
	gt.Number(t, len(releases.createCalls)).Equal(0)
	gt.Number(t, len(runner.commands())).Equal(0)
}

func TestPipeline_Run_MissingTargetAbortsBeforeRelease(t *testing.T) {
	ctx := context.Background()

	releases := &mockReleaseClient{}
	runner := &mockRunner{}

	pipeline := usecase.NewPipeline(releases, runner, usecase.PipelineConfig{
		Platforms: []model.PlatformSpec{
			{Name: "linux", OS: "linux", RequiresCross: true},
		},
	})

	_, err := pipeline.Run(ctx, "refs/tags/v1.0.0")
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagMissingTarget))
	gt.Number(t, len(releases.createCalls)).Equal(0)
}

func TestPipeline_Run_ReleaseCreationFailureAbortsBeforeBuilds(t *testing.T) {
	ctx := context.Background()

	releases := &mockReleaseClient{
		createFunc: func(ctx context.Context, version model.Version) (*model.ReleaseHandle, error) {
			// Same failure mode as re-running against an existing version
			return nil, goerr.New("release already exists",
				goerr.T(types.ErrTagReleaseCreationFailed),
				goerr.V("status", 422),
			)
		},
	}
	runner := &mockRunner{}

	pipeline := usecase.NewPipeline(releases, runner, usecase.PipelineConfig{
		Platforms: []model.PlatformSpec{{Name: "linux", OS: "linux"}},
	})

	report, err := pipeline.Run(ctx, "refs/tags/v1.0.0")
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.ErrTagReleaseCreationFailed))
	gt.Value(t, report).Nil()
	gt.Number(t, len(runner.commands())).Equal(0)
}
