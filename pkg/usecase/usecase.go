package usecase

import (
	"time"

	"github.com/secmon-lab/introbridge/pkg/domain/interfaces"
	"github.com/secmon-lab/introbridge/pkg/domain/model"
	slacksvc "github.com/secmon-lab/introbridge/pkg/service/slack"
)

type UseCases struct {
	repo         interfaces.Repository
	slackService slacksvc.Service
	replyConfig  *model.ReplyConfig
	now          func() time.Time

	Contact  *ContactUseCase
	Reply    *ReplyUseCase
	Intro    *IntroUseCase
	Backfill *BackfillUseCase
}

type Option func(*UseCases)

// WithSlackService sets the Slack Web API client
func WithSlackService(svc slacksvc.Service) Option {
	return func(uc *UseCases) {
		uc.slackService = svc
	}
}

// WithReplyConfig overrides the default reply settings
func WithReplyConfig(cfg *model.ReplyConfig) Option {
	return func(uc *UseCases) {
		uc.replyConfig = cfg
	}
}

// WithClock overrides the clock used for recorded_at
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:        repo,
		replyConfig: model.DefaultReplyConfig(),
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Contact = NewContactUseCase(repo, uc.slackService, uc.now)
	uc.Reply = NewReplyUseCase(uc.slackService, uc.replyConfig)
	uc.Intro = NewIntroUseCase(uc.slackService, uc.Contact, uc.Reply)
	uc.Backfill = NewBackfillUseCase(repo, uc.slackService, uc.Contact)

	return uc
}
