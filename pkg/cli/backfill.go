package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/introbridge/pkg/cli/config"
	"github.com/secmon-lab/introbridge/pkg/domain/types"
	slacksvc "github.com/secmon-lab/introbridge/pkg/service/slack"
	"github.com/secmon-lab/introbridge/pkg/usecase"
	"github.com/secmon-lab/introbridge/pkg/utils/logging"
	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"
)

func cmdBackfill() *cli.Command {
	var channelID string
	var pageSize int64
	var concurrency int64
	var rateLimit float64
	var dryRun bool
	var repoCfg config.Repository
	var slackCfg config.Slack

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "channel",
			Usage:       "Channel ID to replay",
			Required:    true,
			Sources:     cli.EnvVars("INTROBRIDGE_BACKFILL_CHANNEL"),
			Destination: &channelID,
		},
		&cli.Int64Flag{
			Name:        "limit",
			Usage:       "conversations.history page size",
			Value:       slacksvc.DefaultHistoryPageSize,
			Destination: &pageSize,
		},
		&cli.Int64Flag{
			Name:        "concurrency",
			Usage:       "Parallel users.info lookups",
			Value:       4,
			Destination: &concurrency,
		},
		&cli.Float64Flag{
			Name:        "rate",
			Usage:       "Maximum users.info calls per second (0 for unlimited)",
			Value:       1,
			Destination: &rateLimit,
		},
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Resolve and report without appending",
			Destination: &dryRun,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:  "backfill",
		Usage: "Record the first message of every user in a channel's history",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			runID := uuid.NewString()
			logger := logging.Default().With("run_id", runID)
			ctx = logging.With(ctx, logger)

			logger.Info("backfill configuration",
				"channel_id", channelID,
				"limit", pageSize,
				"dry_run", dryRun,
				"repository", repoCfg,
				"slack", slackCfg,
			)

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

			uc := usecase.New(repo, usecase.WithSlackService(slackSvc))
			result, err := uc.Backfill.Run(ctx, channelID, usecase.BackfillOptions{
				PageSize:    int(pageSize),
				Concurrency: int(concurrency),
				RateLimit:   rate.Limit(rateLimit),
				DryRun:      dryRun,
			})
			if err != nil {
				return goerr.Wrap(err, "backfill failed", goerr.V("run_id", runID))
			}

			printBackfillSummary(os.Stdout, runID, channelID, result)
			return nil
		},
	}
}

func printBackfillSummary(w io.Writer, runID, channelID string, result *usecase.BackfillResult) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	bold.Fprintf(w, "Backfill %s (run %s)\n", channelID, runID)
	fmt.Fprintf(w, "  scanned:      %d\n", result.Scanned)
	fmt.Fprintf(w, "  qualified:    %d\n", result.Qualified)
	green.Fprintf(w, "  recorded:     %d\n", result.Recorded)
	yellow.Fprintf(w, "  duplicates:   %d\n", result.Duplicates)
	yellow.Fprintf(w, "  placeholders: %d\n", result.Placeholders)
	if result.Failed > 0 {
		red.Fprintf(w, "  failed:       %d\n", result.Failed)
	} else {
		fmt.Fprintf(w, "  failed:       %d\n", result.Failed)
	}

	for _, outcome := range result.Outcomes {
		if outcome.Profile == nil {
			continue
		}
		line := fmt.Sprintf("  %-18s %-12s %s\n", outcome.Status, outcome.Profile.UserID, outcome.Profile.DisplayName)
		switch {
		case outcome.Status.IsFailure():
			red.Fprint(w, line)
		case outcome.Status == types.RecordStatusDryRun:
			yellow.Fprint(w, line)
		default:
			fmt.Fprint(w, line)
		}
	}
}
