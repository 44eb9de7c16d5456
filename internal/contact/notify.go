package contact

import (
	"context"
	"fmt"

	"github.com/westmarkadvisory/website/internal/email"
)

// EmailNotifier sends a plain-text notification email for each submission.
type EmailNotifier struct {
	sender *email.Sender
	to     []string
}

// NewEmailNotifier creates a notifier that delivers to the given addresses.
func NewEmailNotifier(sender *email.Sender, to []string) *EmailNotifier {
	return &EmailNotifier{sender: sender, to: to}
}

var _ Notifier = (*EmailNotifier)(nil)

func (n *EmailNotifier) Notify(ctx context.Context, sub *Submission) error {
	body := fmt.Sprintf(
		"New contact form submission\n\nFrom:    %s\nWhen:    %s\nID:      %s\n\n%s\n",
		sub.Email,
		sub.CreatedAt.Format("2006-01-02 15:04:05 MST"),
		sub.ID,
		sub.Message,
	)
	return n.sender.Send(ctx, email.Message{
		To:       n.to,
		Subject:  "New contact form submission from " + sub.Email,
		TextBody: body,
		ReplyTo:  sub.Email,
	})
}
