package transport

import "context"

// ChatNotifier delivers every message to one fixed chat.
type ChatNotifier struct {
	Sender  Sender
	Target  ChatTarget
	Options *SendOptions
}

func NewChatNotifier(s Sender, to ChatTarget) *ChatNotifier {
	return &ChatNotifier{Sender: s, Target: to, Options: &SendOptions{DisablePreview: true}}
}

func (n *ChatNotifier) Notify(ctx context.Context, text string) error {
	_, err := n.Sender.SendText(ctx, n.Target, text, n.Options)
	return err
}
