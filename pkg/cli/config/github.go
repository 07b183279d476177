package config

import (
	"os"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/acre-dev/stevedore/pkg/domain/interfaces"
	githubinfra "github.com/acre-dev/stevedore/pkg/infra/github"
)

// GitHub holds hosting API configuration. Either a token or GitHub App
// credentials (app ID, installation ID, private key) must be provided.
type GitHub struct {
	Owner          string
	Repo           string
	Token          string
	AppID          string
	InstallationID string
	PrivateKeyFile string
	WebhookSecret  string
	BaseURL        string
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-owner",
			Usage:       "Repository owner",
			Required:    true,
			Destination: &c.Owner,
			Sources:     cli.EnvVars("STEVEDORE_GITHUB_OWNER"),
		},
		&cli.StringFlag{
			Name:        "github-repo",
			Usage:       "Repository name",
			Required:    true,
			Destination: &c.Repo,
			Sources:     cli.EnvVars("STEVEDORE_GITHUB_REPO"),
		},
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub token used for release creation and asset upload",
			Destination: &c.Token,
			Sources:     cli.EnvVars("STEVEDORE_GITHUB_TOKEN", "GITHUB_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID (alternative to token auth)",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("STEVEDORE_GITHUB_APP_ID"),
		},
		&cli.StringFlag{
			Name:        "github-installation-id",
			Usage:       "GitHub App installation ID",
			Destination: &c.InstallationID,
			Sources:     cli.EnvVars("STEVEDORE_GITHUB_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-private-key",
			Usage:       "Path to the GitHub App private key file",
			Destination: &c.PrivateKeyFile,
			Sources:     cli.EnvVars("STEVEDORE_GITHUB_PRIVATE_KEY"),
		},
		&cli.StringFlag{
			Name:        "github-webhook-secret",
			Usage:       "GitHub webhook secret (serve mode)",
			Destination: &c.WebhookSecret,
			Sources:     cli.EnvVars("STEVEDORE_GITHUB_WEBHOOK_SECRET"),
		},
		&cli.StringFlag{
			Name:        "github-base-url",
			Usage:       "GitHub API base URL (for GitHub Enterprise)",
			Destination: &c.BaseURL,
			Sources:     cli.EnvVars("STEVEDORE_GITHUB_BASE_URL"),
		},
	}
}

// NewReleaseClient builds the release client from the configured credentials
func (c *GitHub) NewReleaseClient() (interfaces.ReleaseClient, error) {
	var opts []githubinfra.Option
	if c.BaseURL != "" {
		opts = append(opts, githubinfra.WithBaseURL(c.BaseURL))
	}

	if c.Token != "" {
		return githubinfra.NewClient(c.Owner, c.Repo, c.Token, opts...)
	}

	if c.AppID == "" || c.InstallationID == "" || c.PrivateKeyFile == "" {
		return nil, goerr.New("either a GitHub token or App credentials (app ID, installation ID, private key) are required")
	}

	appID, err := strconv.ParseInt(c.AppID, 10, 64)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid GitHub App ID", goerr.V("app_id", c.AppID))
	}
	installationID, err := strconv.ParseInt(c.InstallationID, 10, 64)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid GitHub installation ID", goerr.V("installation_id", c.InstallationID))
	}
	privateKey, err := os.ReadFile(c.PrivateKeyFile)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read GitHub App private key", goerr.V("path", c.PrivateKeyFile))
	}

	return githubinfra.NewAppClient(c.Owner, c.Repo, appID, installationID, privateKey, opts...)
}
