package transport

import (
	"context"
	"errors"
	"testing"
)

type recordingSender struct {
	to   ChatTarget
	text string
	opt  *SendOptions
	err  error
}

func (r *recordingSender) SendText(_ context.Context, to ChatTarget, text string, opt *SendOptions) (MessageRef, error) {
	r.to, r.text, r.opt = to, text, opt
	return MessageRef{ChatID: to.ChatID, MessageID: 1}, r.err
}

func TestChatNotifierTargetsFixedChat(t *testing.T) {
	s := &recordingSender{}
	n := NewChatNotifier(s, ChatTarget{ChatID: "@hw", ThreadID: 3})
	if err := n.Notify(context.Background(), "status changed"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if s.to.ChatID != "@hw" || s.to.ThreadID != 3 || s.text != "status changed" {
		t.Fatalf("unexpected send %+v %q", s.to, s.text)
	}
	if s.opt == nil || !s.opt.DisablePreview {
		t.Fatalf("link previews should be disabled")
	}
}

func TestChatNotifierReturnsSendError(t *testing.T) {
	want := errors.New("forbidden: bot was blocked by the user")
	n := NewChatNotifier(&recordingSender{err: want}, ChatTarget{ChatID: "1"})
	if err := n.Notify(context.Background(), "x"); !errors.Is(err, want) {
		t.Fatalf("got %v, want %v", err, want)
	}
}
