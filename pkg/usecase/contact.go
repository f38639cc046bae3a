package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/introbridge/pkg/domain/interfaces"
	"github.com/secmon-lab/introbridge/pkg/domain/model"
	slackmodel "github.com/secmon-lab/introbridge/pkg/domain/model/slack"
	"github.com/secmon-lab/introbridge/pkg/domain/types"
	slacksvc "github.com/secmon-lab/introbridge/pkg/service/slack"
	"github.com/secmon-lab/introbridge/pkg/utils/errutil"
	"github.com/secmon-lab/introbridge/pkg/utils/logging"
)

// RecordOutcome is the result of one record attempt. Err is set for the
// failure statuses only; it has already been logged.
type RecordOutcome struct {
	Status  types.RecordStatus
	Profile *model.UserProfile
	Record  *model.ContactRecord
	Err     error
}

// ContactUseCase resolves user profiles and appends contact records.
//
// The duplicate check and the append are two separate calls against a sink
// that offers no transaction, so two concurrent first messages from the same
// user can both be appended.
type ContactUseCase struct {
	repo         interfaces.Repository
	slackService slacksvc.Service
	now          func() time.Time
}

func NewContactUseCase(repo interfaces.Repository, slackService slacksvc.Service, now func() time.Time) *ContactUseCase {
	if now == nil {
		now = time.Now
	}
	return &ContactUseCase{
		repo:         repo,
		slackService: slackService,
		now:          now,
	}
}

// Record resolves the author of ev, skips it if the author is already in
// the log, and appends a new row otherwise.
func (uc *ContactUseCase) Record(ctx context.Context, ev *slackmodel.Event) *RecordOutcome {
	logger := logging.From(ctx).With("user_id", ev.UserID(), "channel_id", ev.ChannelID())

	profile := uc.ResolveProfile(ctx, ev.UserID())

	ids, err := uc.repo.Contact().ListUserIDs(ctx)
	if err != nil {
		err = goerr.Wrap(err, "failed to read recorded user IDs", goerr.V(UserIDKey, ev.UserID()))
		errutil.Handle(ctx, err, "contact lookup failed, message not recorded")
		return &RecordOutcome{Status: types.RecordStatusLookupFailed, Profile: profile, Err: err}
	}

	if model.NewUserIDSet(ids).Has(ev.UserID()) {
		logger.Info("user already recorded, skipping")
		return &RecordOutcome{Status: types.RecordStatusSkippedDuplicate, Profile: profile}
	}

	return uc.commit(ctx, profile, ev.Text())
}

// ResolveProfile looks up the user's profile. Any failure yields a
// placeholder profile so the record is still written.
func (uc *ContactUseCase) ResolveProfile(ctx context.Context, userID string) *model.UserProfile {
	if uc.slackService == nil {
		errutil.Handle(ctx, goerr.Wrap(ErrSlackNotConfigured, "cannot resolve profile", goerr.V(UserIDKey, userID)),
			"profile resolution failed, using placeholder")
		return model.NewPlaceholderProfile(userID)
	}

	profile, err := uc.slackService.GetUserProfile(ctx, userID)
	if err != nil {
		errutil.Handle(ctx, err, "profile resolution failed, using placeholder")
		return model.NewPlaceholderProfile(userID)
	}
	if profile.UserID == "" {
		profile.UserID = userID
	}
	return profile
}

// commit appends a record for profile without any duplicate check
func (uc *ContactUseCase) commit(ctx context.Context, profile *model.UserProfile, text string) *RecordOutcome {
	record := model.NewContactRecord(profile, text, uc.now())

	if err := uc.repo.Contact().Append(ctx, record); err != nil {
		if errors.Is(err, model.ErrContactExists) {
			logging.From(ctx).Info("user already recorded by sink, skipping", "user_id", profile.UserID)
			return &RecordOutcome{Status: types.RecordStatusSkippedDuplicate, Profile: profile}
		}

		err = goerr.Wrap(err, "failed to append contact record", goerr.V(UserIDKey, profile.UserID))
		errutil.Handle(ctx, err, "contact append failed")
		return &RecordOutcome{Status: types.RecordStatusAppendFailed, Profile: profile, Err: err}
	}

	logging.From(ctx).Info("contact recorded",
		"user_id", record.UserID,
		"display_name", record.DisplayName,
		"placeholder", profile.Placeholder,
	)
	return &RecordOutcome{Status: types.RecordStatusRecorded, Profile: profile, Record: record}
}
