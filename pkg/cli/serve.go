package cli

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/secmon-lab/introbridge/pkg/cli/config"
	httpctrl "github.com/secmon-lab/introbridge/pkg/controller/http"
	"github.com/secmon-lab/introbridge/pkg/usecase"
	"github.com/secmon-lab/introbridge/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var port string
	var enableMetrics bool
	var appCfg config.App
	var repoCfg config.Repository
	var slackCfg config.Slack

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("INTROBRIDGE_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "port",
			Usage:       "HTTP server port, overrides the port of --addr",
			Sources:     cli.EnvVars("PORT"),
			Destination: &port,
		},
		&cli.BoolFlag{
			Name:        "metrics",
			Usage:       "Expose Prometheus metrics on /metrics",
			Value:       true,
			Sources:     cli.EnvVars("INTROBRIDGE_METRICS"),
			Destination: &enableMetrics,
		},
	}

	// Add shared config flags
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server receiving Slack events",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()
			logger.Info("serve configuration",
				"app", appCfg,
				"repository", repoCfg,
				"slack", slackCfg,
			)

			if err := slackCfg.ValidateWebhook(); err != nil {
				return err
			}

			replyCfg, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load configuration")
			}

			slackSvc, err := slackCfg.Configure()
			if err != nil {
				return err
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("failed to close repository", "error", err.Error())
				}
			}()

			uc := usecase.New(repo,
				usecase.WithSlackService(slackSvc),
				usecase.WithReplyConfig(replyCfg),
			)

			httpHandler, err := httpctrl.New(
				httpctrl.WithSlackService(slackSvc),
				httpctrl.WithSlackWebhook(httpctrl.NewSlackWebhookHandler(uc.Intro), slackCfg.SigningSecret()),
				httpctrl.WithMetrics(enableMetrics),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create http server")
			}

			listenAddr := resolveAddr(addr, port)
			server := &http.Server{
				Addr:              listenAddr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Starting HTTP server", "addr", listenAddr, "reply", replyCfg.Enabled)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down")
			case sig := <-sigCh:
				logger.Info("Received shutdown signal", "signal", sig)
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown completed")
			return nil
		},
	}
}

// resolveAddr replaces the port of addr when port is set
func resolveAddr(addr, port string) string {
	if port == "" {
		return addr
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = ""
	}
	return net.JoinHostPort(host, port)
}
