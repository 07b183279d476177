package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"

	"github.com/acre-dev/stevedore/pkg/cli/config"
	"github.com/acre-dev/stevedore/pkg/domain/model"
	execinfra "github.com/acre-dev/stevedore/pkg/infra/exec"
	"github.com/acre-dev/stevedore/pkg/usecase"
)

func cmdRun() *cli.Command {
	var (
		githubCfg config.GitHub
		buildCfg  config.Build
		notifyCfg config.Notify
		sentryCfg config.Sentry
		ref       string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "ref",
			Usage:       "Pushed tag ref (e.g. refs/tags/v1.2.3)",
			Required:    true,
			Destination: &ref,
			Sources:     cli.EnvVars("STEVEDORE_REF", "GITHUB_REF"),
		},
	}
	flags = append(flags, githubCfg.Flags()...)
	flags = append(flags, buildCfg.Flags()...)
	flags = append(flags, notifyCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Run one release pipeline for a pushed tag",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if err := sentryCfg.Init(); err != nil {
				return err
			}
			if sentryCfg.Enabled() {
				defer sentry.Flush(2 * time.Second)
			}

			releaseClient, err := githubCfg.NewReleaseClient()
			if err != nil {
				return err
			}
			pipelineCfg, err := buildCfg.PipelineConfig()
			if err != nil {
				return err
			}

			pipeline := usecase.NewPipeline(releaseClient, execinfra.NewRunner(), pipelineCfg)

			report, runErr := pipeline.Run(ctx, ref)
			if report != nil {
				printReport(report)

				if notifier := notifyCfg.Notifier(); notifier != nil {
					if err := notifier.NotifyReport(ctx, report); err != nil {
						logger.Warn("Failed to send notification", "error", err)
					}
				}
			}

			if runErr != nil {
				sentry.CaptureException(runErr)
				return runErr
			}
			return nil
		},
	}
}

func printReport(report *model.Report) {
	ok := color.New(color.FgGreen).Sprint("✓")
	ng := color.New(color.FgRed).Sprint("✗")

	fmt.Printf("release %s (run %s)\n", report.Version, report.RunID)
	for _, o := range report.Outcomes {
		if o.Uploaded {
			fmt.Printf("  %s %-10s uploaded %s\n", ok, o.Platform, o.AssetName)
		} else {
			fmt.Printf("  %s %-10s %v\n", ng, o.Platform, o.Err)
		}
	}
	if report.Release != nil && report.Release.HTMLURL != "" {
		fmt.Println(report.Release.HTMLURL)
	}
}
