package application_test

import (
	"context"
	"testing"

	"telegram-captcha-gate/internal/application"
	"telegram-captcha-gate/internal/domain/ports/adapter"
)

type recordingBot struct {
	calls []string
}

func (r *recordingBot) SendMessage(ctx context.Context, id int64, text string) error {
	r.calls = append(r.calls, "text")
	return nil
}

func (r *recordingBot) SendButtons(ctx context.Context, id int64, text string, rows [][]adapter.InlineButton) error {
	r.calls = append(r.calls, "buttons")
	return nil
}

func (r *recordingBot) SendPhoto(ctx context.Context, id int64, image []byte, caption string) error {
	r.calls = append(r.calls, "photo")
	return nil
}

func TestDeliver(t *testing.T) {
	cases := []struct {
		name  string
		reply application.Reply
		want  string
	}{
		{"photo wins", application.Reply{Text: "caption", Image: []byte{1}, Buttons: [][]adapter.InlineButton{{{Text: "x"}}}}, "photo"},
		{"buttons", application.Reply{Text: "hi", Buttons: [][]adapter.InlineButton{{{Text: "x", Data: "y"}}}}, "buttons"},
		{"text", application.Reply{Text: "hi"}, "text"},
		{"silent", application.Reply{}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bot := &recordingBot{}
			if err := application.Deliver(context.Background(), bot, 1, tc.reply); err != nil {
				t.Fatalf("Deliver failed: %v", err)
			}
			got := ""
			if len(bot.calls) == 1 {
				got = bot.calls[0]
			} else if len(bot.calls) > 1 {
				t.Fatalf("expected at most one send, got %v", bot.calls)
			}
			if got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
