package github

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"

	"github.com/acre-dev/stevedore/pkg/domain/interfaces"
	"github.com/acre-dev/stevedore/pkg/domain/model"
	"github.com/acre-dev/stevedore/pkg/domain/types"
)

type client struct {
	gh    *github.Client
	owner string
	repo  string
}

// Option is a functional option for the GitHub client
type Option func(*client) error

// WithBaseURL points both the API and upload endpoints at the given base
// URL. Used for GitHub Enterprise and for tests against a local server.
func WithBaseURL(raw string) Option {
	return func(c *client) error {
		if !strings.HasSuffix(raw, "/") {
			raw += "/"
		}
		u, err := url.Parse(raw)
		if err != nil {
			return goerr.Wrap(err, "invalid base URL", goerr.V("url", raw))
		}
		c.gh.BaseURL = u
		c.gh.UploadURL = u
		return nil
	}
}

// NewClient creates a release client authenticated with a personal access or
// installation token
func NewClient(owner, repo, token string, opts ...Option) (interfaces.ReleaseClient, error) {
	c := &client{
		gh:    github.NewClient(nil).WithAuthToken(token),
		owner: owner,
		repo:  repo,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// NewAppClient creates a release client authenticated as a GitHub App
// installation
func NewAppClient(owner, repo string, appID, installationID int64, privateKey []byte, opts ...Option) (interfaces.ReleaseClient, error) {
	itr, err := ghinstallation.New(http.DefaultTransport, appID, installationID, privateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport")
	}

	c := &client{
		gh:    github.NewClient(&http.Client{Transport: itr}),
		owner: owner,
		repo:  repo,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// CreateRelease creates the remote release record, using the version as both
// the tag reference and the release name. Creating a release for a version
// that already exists fails here; the pipeline does not update in place.
func (c *client) CreateRelease(ctx context.Context, version model.Version) (*model.ReleaseHandle, error) {
	rel, resp, err := c.gh.Repositories.CreateRelease(ctx, c.owner, c.repo, &github.RepositoryRelease{
		TagName: github.String(string(version)),
		Name:    github.String(string(version)),
	})
	if err != nil {
		options := []goerr.Option{
			goerr.T(types.ErrTagReleaseCreationFailed),
			goerr.V("owner", c.owner),
			goerr.V("repo", c.repo),
			goerr.V("version", version),
		}
		if resp != nil {
			options = append(options, goerr.V("status", resp.StatusCode))
		}
		return nil, goerr.Wrap(err, "failed to create release", options...)
	}

	return &model.ReleaseHandle{
		ID:        rel.GetID(),
		TagName:   rel.GetTagName(),
		UploadURL: rel.GetUploadURL(),
		HTMLURL:   rel.GetHTMLURL(),
	}, nil
}

// UploadAsset streams the binary to the release. Not retried: a failure
// drops only this platform's asset from the release.
func (c *client) UploadAsset(ctx context.Context, handle *model.ReleaseHandle, asset *model.Asset) error {
	f, err := os.Open(asset.BinaryPath)
	if err != nil {
		return goerr.Wrap(err, "failed to open asset file",
			goerr.T(types.ErrTagUploadFailed),
			goerr.V("asset", asset.Name),
			goerr.V("binary_path", asset.BinaryPath),
		)
	}
	defer f.Close()

	_, resp, err := c.gh.Repositories.UploadReleaseAsset(ctx, c.owner, c.repo, handle.ID, &github.UploadOptions{
		Name:      asset.Name,
		MediaType: asset.ContentType,
	}, f)
	if err != nil {
		options := []goerr.Option{
			goerr.T(types.ErrTagUploadFailed),
			goerr.V("asset", asset.Name),
			goerr.V("release_id", handle.ID),
		}
		if resp != nil {
			options = append(options, goerr.V("status", resp.StatusCode))
		}
		return goerr.Wrap(err, "failed to upload release asset", options...)
	}

	return nil
}
