package usecase

import (
	"context"
	"slices"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/introbridge/pkg/domain/interfaces"
	"github.com/secmon-lab/introbridge/pkg/domain/model"
	slackmodel "github.com/secmon-lab/introbridge/pkg/domain/model/slack"
	"github.com/secmon-lab/introbridge/pkg/domain/types"
	slacksvc "github.com/secmon-lab/introbridge/pkg/service/slack"
	"github.com/secmon-lab/introbridge/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const defaultBackfillConcurrency = 4

// BackfillOptions tunes a backfill run
type BackfillOptions struct {
	// PageSize is the conversations.history page size
	PageSize int
	// Concurrency bounds parallel profile lookups
	Concurrency int
	// RateLimit caps profile lookups per second. Zero means unlimited.
	RateLimit rate.Limit
	// DryRun resolves profiles and reports what would be appended
	DryRun bool
}

// BackfillResult counts what a run did. Outcomes are in oldest-first order.
type BackfillResult struct {
	Scanned      int
	Qualified    int
	Duplicates   int
	Recorded     int
	Failed       int
	Placeholders int
	Outcomes     []*RecordOutcome
}

// BackfillUseCase replays channel history into the contact log
type BackfillUseCase struct {
	repo         interfaces.Repository
	slackService slacksvc.Service
	contact      *ContactUseCase
}

func NewBackfillUseCase(repo interfaces.Repository, slackService slacksvc.Service, contact *ContactUseCase) *BackfillUseCase {
	return &BackfillUseCase{
		repo:         repo,
		slackService: slackService,
		contact:      contact,
	}
}

// Run reads the recorded user IDs once, then walks the channel history
// oldest to newest and records the first qualifying message of every user
// not yet in the log. There is no checkpoint; re-running is safe because
// recorded users are skipped.
func (uc *BackfillUseCase) Run(ctx context.Context, channelID string, opts BackfillOptions) (*BackfillResult, error) {
	if channelID == "" {
		return nil, goerr.Wrap(ErrChannelRequired, "backfill requires a channel")
	}
	if uc.slackService == nil {
		return nil, goerr.Wrap(ErrSlackNotConfigured, "backfill requires slack service")
	}

	logger := logging.From(ctx).With("channel_id", channelID)

	events, err := uc.slackService.ListHistory(ctx, channelID, opts.PageSize)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list channel history", goerr.V(ChannelIDKey, channelID))
	}
	// History arrives newest first
	slices.Reverse(events)
	logger.Info("pulled channel history", "count", len(events))

	ids, err := uc.repo.Contact().ListUserIDs(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read recorded user IDs")
	}
	existing := model.NewUserIDSet(ids)
	logger.Info("loaded recorded user IDs", "count", len(existing))

	result := &BackfillResult{Scanned: len(events)}

	var pending []*slackmodel.Event
	for _, ev := range events {
		if !ev.Qualifies() {
			continue
		}
		result.Qualified++

		if existing.Has(ev.UserID()) {
			logger.Debug("skipping duplicate user", "user_id", ev.UserID())
			result.Duplicates++
			continue
		}
		existing.Add(ev.UserID())
		pending = append(pending, ev)
	}

	profiles, err := uc.resolveProfiles(ctx, pending, opts)
	if err != nil {
		return nil, err
	}

	for i, ev := range pending {
		profile := profiles[i]
		if profile.Placeholder {
			result.Placeholders++
		}

		var outcome *RecordOutcome
		if opts.DryRun {
			outcome = &RecordOutcome{
				Status:  types.RecordStatusDryRun,
				Profile: profile,
				Record:  model.NewContactRecord(profile, ev.Text(), uc.contact.now()),
			}
		} else {
			outcome = uc.contact.commit(ctx, profile, ev.Text())
		}

		switch outcome.Status {
		case types.RecordStatusRecorded, types.RecordStatusDryRun:
			result.Recorded++
		case types.RecordStatusSkippedDuplicate:
			result.Duplicates++
		default:
			result.Failed++
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	logger.Info("backfill completed",
		"scanned", result.Scanned,
		"qualified", result.Qualified,
		"recorded", result.Recorded,
		"duplicates", result.Duplicates,
		"failed", result.Failed,
		"dry_run", opts.DryRun,
	)
	return result, nil
}

// resolveProfiles looks up the author of every pending event in parallel.
// Lookup failures become placeholders; only context cancellation aborts.
func (uc *BackfillUseCase) resolveProfiles(ctx context.Context, pending []*slackmodel.Event, opts BackfillOptions) ([]*model.UserProfile, error) {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = defaultBackfillConcurrency
	}

	limit := opts.RateLimit
	if limit <= 0 {
		limit = rate.Inf
	}
	limiter := rate.NewLimiter(limit, 1)

	profiles := make([]*model.UserProfile, len(pending))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)

	for i, ev := range pending {
		eg.Go(func() error {
			if err := limiter.Wait(egCtx); err != nil {
				return goerr.Wrap(err, "profile lookup cancelled", goerr.V(UserIDKey, ev.UserID()))
			}
			profiles[i] = uc.contact.ResolveProfile(egCtx, ev.UserID())
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return profiles, nil
}
