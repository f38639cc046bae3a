package usecase

import (
	"context"

	slackmodel "github.com/secmon-lab/introbridge/pkg/domain/model/slack"
	"github.com/secmon-lab/introbridge/pkg/domain/types"
	slacksvc "github.com/secmon-lab/introbridge/pkg/service/slack"
	"github.com/secmon-lab/introbridge/pkg/utils/logging"
)

// IntroResult summarizes how one inbound event was handled
type IntroResult struct {
	Qualified bool
	Join      types.JoinStatus
	Record    *RecordOutcome
	Reply     types.ReplyStatus
}

// IntroUseCase drives a qualifying message through channel admission,
// recording and the courtesy reply.
type IntroUseCase struct {
	slackService slacksvc.Service
	contact      *ContactUseCase
	reply        *ReplyUseCase
}

func NewIntroUseCase(slackService slacksvc.Service, contact *ContactUseCase, reply *ReplyUseCase) *IntroUseCase {
	return &IntroUseCase{
		slackService: slackService,
		contact:      contact,
		reply:        reply,
	}
}

// HandleEvent processes ev. A Slack retry of an already recorded event gets
// no second reply. Non-qualifying events (subtypes, bot messages,
// anything but a plain message) are ignored without side effects. No step
// returns an error: failures are logged and reflected in the result.
func (uc *IntroUseCase) HandleEvent(ctx context.Context, ev *slackmodel.Event) *IntroResult {
	if ev == nil || !ev.Qualifies() {
		return &IntroResult{Qualified: false}
	}

	logger := logging.From(ctx).With(
		"user_id", ev.UserID(),
		"channel_id", ev.ChannelID(),
		"channel_type", ev.ChannelType(),
		"ts", ev.Timestamp(),
	)
	ctx = logging.With(ctx, logger)

	result := &IntroResult{Qualified: true}
	result.Join = uc.admit(ctx, ev)
	result.Record = uc.contact.Record(ctx, ev)
	if ev.IsRetry() && result.Record.Status == types.RecordStatusSkippedDuplicate {
		logger.Info("reply skipped for redelivered event", "retry_num", ev.RetryNum())
		result.Reply = types.ReplyStatusRedelivered
	} else {
		result.Reply = uc.reply.Send(ctx, ev)
	}

	logger.Info("intro handled",
		"join", result.Join,
		"record", result.Record.Status,
		"reply", result.Reply,
	)
	return result
}

// admit makes sure the bot is a member of the event's channel. Channel types
// the bot cannot join by itself are skipped.
func (uc *IntroUseCase) admit(ctx context.Context, ev *slackmodel.Event) types.JoinStatus {
	logger := logging.From(ctx)

	if !ev.ChannelType().CanSelfJoin() {
		logger.Info("channel join skipped for channel type")
		return types.JoinStatusSkipped
	}
	if uc.slackService == nil {
		logger.Warn("channel join skipped, slack service not configured")
		return types.JoinStatusSkipped
	}

	if err := uc.slackService.JoinChannel(ctx, ev.ChannelID()); err != nil {
		// Usually harmless: the bot may already be a member
		logger.Warn("channel join failed", "error", err.Error())
		return types.JoinStatusFailed
	}
	return types.JoinStatusJoined
}
