package interfaces

import (
	"context"

	"github.com/acre-dev/stevedore/pkg/domain/model"
)

// ReleaseClient defines the hosting API operations the pipeline depends on
type ReleaseClient interface {
	// CreateRelease creates a remote release record for the version, using
	// the version as both the tag reference and the release name
	CreateRelease(ctx context.Context, version model.Version) (*model.ReleaseHandle, error)

	// UploadAsset streams the asset's file to the release identified by the
	// handle. No retries: a failure aborts only this asset's publication.
	UploadAsset(ctx context.Context, handle *model.ReleaseHandle, asset *model.Asset) error
}
