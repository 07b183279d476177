package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/acre-dev/stevedore/pkg/cli/config"
	githubctrl "github.com/acre-dev/stevedore/pkg/controller/github"
	controller "github.com/acre-dev/stevedore/pkg/controller/http"
	execinfra "github.com/acre-dev/stevedore/pkg/infra/exec"
	"github.com/acre-dev/stevedore/pkg/usecase"
)

func cmdServe() *cli.Command {
	var (
		serverCfg config.Server
		githubCfg config.GitHub
		buildCfg  config.Build
		notifyCfg config.Notify
	)

	flags := append(serverCfg.Flags(), githubCfg.Flags()...)
	flags = append(flags, buildCfg.Flags()...)
	flags = append(flags, notifyCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the webhook server that triggers release pipelines",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting stevedore server",
				slog.String("addr", serverCfg.Addr),
			)

			releaseClient, err := githubCfg.NewReleaseClient()
			if err != nil {
				return err
			}
			pipelineCfg, err := buildCfg.PipelineConfig()
			if err != nil {
				return err
			}

			pipeline := usecase.NewPipeline(releaseClient, execinfra.NewRunner(), pipelineCfg)
			processor := githubctrl.NewEventProcessor(pipeline, notifyCfg.Notifier())

			server, err := controller.NewServer(
				ctx,
				processor,
				controller.WithAddr(serverCfg.Addr),
				controller.WithWebhookSecret(githubCfg.WebhookSecret),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
