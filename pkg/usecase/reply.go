package usecase

import (
	"context"

	"github.com/secmon-lab/introbridge/pkg/domain/model"
	slackmodel "github.com/secmon-lab/introbridge/pkg/domain/model/slack"
	"github.com/secmon-lab/introbridge/pkg/domain/types"
	slacksvc "github.com/secmon-lab/introbridge/pkg/service/slack"
	"github.com/secmon-lab/introbridge/pkg/utils/logging"
)

// ReplyUseCase posts the courtesy reply. Delivery is best effort.
type ReplyUseCase struct {
	slackService slacksvc.Service
	config       *model.ReplyConfig
}

func NewReplyUseCase(slackService slacksvc.Service, cfg *model.ReplyConfig) *ReplyUseCase {
	if cfg == nil {
		cfg = model.DefaultReplyConfig()
	}
	return &ReplyUseCase{
		slackService: slackService,
		config:       cfg,
	}
}

// Send replies in the thread of ev. Failures are logged and reported as
// ReplyStatusFailed, never returned.
func (uc *ReplyUseCase) Send(ctx context.Context, ev *slackmodel.Event) types.ReplyStatus {
	logger := logging.From(ctx)

	if !uc.config.Enabled || uc.slackService == nil {
		return types.ReplyStatusDisabled
	}

	text := uc.config.Compose(ev.UserID(), ev.Text())
	ts, err := uc.slackService.PostThreadReply(ctx, ev.ChannelID(), ev.Timestamp(), text)
	if err != nil {
		logger.Warn("failed to post reply",
			"error", err.Error(),
			"channel_id", ev.ChannelID(),
			"thread_ts", ev.Timestamp(),
		)
		return types.ReplyStatusFailed
	}

	logger.Info("reply posted",
		"channel_id", ev.ChannelID(),
		"thread_ts", ev.Timestamp(),
		"ts", ts,
		"intro", uc.config.Matches(ev.Text()),
	)
	return types.ReplyStatusSent
}
