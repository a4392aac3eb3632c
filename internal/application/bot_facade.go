package application

import (
	"context"
	"errors"

	"telegram-captcha-gate/internal/domain"
	"telegram-captcha-gate/internal/domain/ports/adapter"
	"telegram-captcha-gate/internal/infra/logging"
	"telegram-captcha-gate/internal/infra/metrics"
	"telegram-captcha-gate/internal/usecase"

	"github.com/rs/zerolog"
)

// BotFacade composes usecases into high-level bot commands.
// Methods return ready-to-send replies so the Telegram adapter only forwards them.
type BotFacade struct {
	VerificationUC usecase.VerificationUseCase
	LinkUC         usecase.LinkUseCase
	ChannelUC      usecase.ChannelUseCase
	Captcha        adapter.CaptchaRenderer

	dev bool
	log *zerolog.Logger
}

func NewBotFacade(
	verificationUC usecase.VerificationUseCase,
	linkUC usecase.LinkUseCase,
	channelUC usecase.ChannelUseCase,
	captcha adapter.CaptchaRenderer,
	dev bool,
	logger *zerolog.Logger,
) *BotFacade {
	l := logger.With().Str("component", "BotFacade").Logger()
	return &BotFacade{
		VerificationUC: verificationUC,
		LinkUC:         linkUC,
		ChannelUC:      channelUC,
		Captcha:        captcha,
		dev:            dev,
		log:            &l,
	}
}

// HandleStart shows the request button, or explains that no channel is registered.
func (b *BotFacade) HandleStart(ctx context.Context, tgID int64) Reply {
	if !b.ChannelUC.Current().Configured() {
		return Reply{Text: msgNotAdmin}
	}
	return Reply{
		Text: msgWelcome,
		Buttons: [][]adapter.InlineButton{
			{{Text: msgRequestButton, Data: CallbackRequestLink}},
		},
	}
}

func (b *BotFacade) HandleHelp(ctx context.Context) Reply {
	return Reply{Text: msgHelp}
}

// HandleRequestLink renders a new captcha and opens (or replaces) the user's session.
func (b *BotFacade) HandleRequestLink(ctx context.Context, tgID int64) Reply {
	if !b.ChannelUC.Current().Configured() {
		return Reply{Text: msgNotSetUp}
	}
	text, img, err := b.Captcha.Render()
	if err != nil {
		logging.With(ctx, b.log).Error().Err(err).Msg("captcha render failed")
		return Reply{Text: msgCaptchaFailed}
	}
	b.VerificationUC.Begin(ctx, tgID, text)
	metrics.IncChallengeIssued()
	metrics.SetActiveSessions(b.VerificationUC.ActiveSessions())
	return Reply{Text: msgCaptchaCaption, Image: img}
}

// HandleAnswer treats text as a captcha answer. Users without an open session get an empty reply.
func (b *BotFacade) HandleAnswer(ctx context.Context, tgID int64, text string) Reply {
	outcome := b.VerificationUC.Submit(ctx, tgID, text)
	if outcome.Kind == usecase.OutcomeNoSession {
		return Reply{}
	}
	metrics.IncCaptchaOutcome(outcome.Kind.String())
	metrics.SetActiveSessions(b.VerificationUC.ActiveSessions())

	switch outcome.Kind {
	case usecase.OutcomeExpired:
		return Reply{Text: msgSessionExpired}
	case usecase.OutcomeIncorrect:
		return Reply{Text: msgWrongCode(outcome.Remaining)}
	case usecase.OutcomeExhausted:
		return Reply{Text: msgAttemptsExhausted}
	case usecase.OutcomeCorrect:
		return Reply{Text: b.issueLink(ctx)}
	default:
		return Reply{}
	}
}

func (b *BotFacade) issueLink(ctx context.Context) string {
	l := logging.With(ctx, b.log)
	url, err := b.LinkUC.Issue(ctx, b.ChannelUC.Current())
	switch {
	case err == nil:
		metrics.IncInviteLink("issued")
		l.Info().Str("invite", logging.Redact(url, b.dev)).Msg("invite link handed out")
		return msgInvite(url)
	case errors.Is(err, domain.ErrChannelNotConfigured):
		metrics.IncInviteLink("not_configured")
		l.Info().Msg("captcha solved but no channel is configured")
		return msgChannelNotSet
	default:
		metrics.IncInviteLink("failed")
		l.Warn().Err(err).Msg("invite link issuance failed")
		return msgLinkFailed
	}
}

// HandleAdminGranted registers the chat and returns the one-time confirmation for it.
func (b *BotFacade) HandleAdminGranted(ctx context.Context, chatID int64, chatType string) Reply {
	if !b.ChannelUC.OnAdminGranted(ctx, chatID, chatType) {
		return Reply{}
	}
	metrics.IncChannelRegistered()
	return Reply{Text: msgChannelReady}
}
