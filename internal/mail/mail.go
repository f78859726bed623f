package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"go-query-batch/internal/config"
	"go-query-batch/internal/model"
)

// Sender delivers a run notification
type Sender interface {
	Send(ctx context.Context, n model.Notification) error
}

// SMTPSender sends notifications through the configured mail relay
type SMTPSender struct {
	SMTP config.SMTP
}

// NewSMTPSender creates a sender for the given relay settings
func NewSMTPSender(smtp config.SMTP) *SMTPSender {
	return &SMTPSender{SMTP: smtp}
}

// Send builds the message with the archive attached and delivers it.
// Optional port, TLS and credentials are applied only when configured.
func (s *SMTPSender) Send(ctx context.Context, n model.Notification) error {
	msg, err := BuildMessage(n)
	if err != nil {
		return err
	}

	opts := []gomail.Option{}
	if s.SMTP.Port != 0 {
		opts = append(opts, gomail.WithPort(s.SMTP.Port))
	}
	if s.SMTP.TLS {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}
	if s.SMTP.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.SMTP.Username),
			gomail.WithPassword(s.SMTP.Password),
		)
	}

	client, err := gomail.NewClient(s.SMTP.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}

// BuildMessage assembles the notification email with its attachment
func BuildMessage(n model.Notification) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(n.Sender); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", n.Sender, err)
	}
	if err := msg.To(n.Recipients...); err != nil {
		return nil, fmt.Errorf("invalid recipients %v: %w", n.Recipients, err)
	}
	msg.Subject(n.Subject)
	msg.SetBodyString(gomail.TypeTextPlain, n.Body)
	if n.Attachment != "" {
		msg.AttachFile(n.Attachment)
	}
	return msg, nil
}
