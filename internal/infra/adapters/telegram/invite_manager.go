package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-captcha-gate/internal/domain/model"
	"telegram-captcha-gate/internal/domain/ports/adapter"
)

var _ adapter.ChannelManager = (*InviteManager)(nil)

// requester is the slice of *tgbotapi.BotAPI needed to manage invite links.
type requester interface {
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// InviteManager creates channel invite links through the Bot API.
type InviteManager struct {
	bot requester
	now func() time.Time
}

func NewInviteManager(bot requester) *InviteManager {
	return &InviteManager{bot: bot, now: time.Now}
}

// CreateSingleUseInvite creates a link admitting exactly one member that stops
// working after ttl. The call is abandoned when ctx is done.
func (m *InviteManager) CreateSingleUseInvite(ctx context.Context, channelID int64, ttl time.Duration) (string, error) {
	if m.bot == nil {
		return "", errors.New("bot api is nil")
	}
	cfg := tgbotapi.CreateChatInviteLinkConfig{
		ChatConfig:  tgbotapi.ChatConfig{ChatID: channelID},
		ExpireDate:  int(m.now().Add(ttl).Unix()),
		MemberLimit: model.InviteMemberLimit,
	}

	type result struct {
		resp *tgbotapi.APIResponse
		err  error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := m.bot.Request(cfg)
		done <- result{resp, err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res = <-done:
	}
	if res.err != nil {
		return "", res.err
	}
	if res.resp == nil || !res.resp.Ok {
		return "", errors.New("telegram rejected invite link request")
	}

	var link tgbotapi.ChatInviteLink
	if err := json.Unmarshal(res.resp.Result, &link); err != nil {
		return "", fmt.Errorf("decode invite link: %w", err)
	}
	if link.InviteLink == "" {
		return "", errors.New("telegram returned an empty invite link")
	}
	return link.InviteLink, nil
}
