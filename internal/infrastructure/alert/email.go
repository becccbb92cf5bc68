package alert

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"licentia/internal/shared/config"
)

// EmailNotifier delivers events over SMTP to the operator mailbox.
type EmailNotifier struct {
	dialer *gomail.Dialer
	from   string
	to     string
}

func NewEmailNotifier(cfg config.EmailConfig, to string) *EmailNotifier {
	return &EmailNotifier{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.FromAddress,
		to:     to,
	}
}

func (n *EmailNotifier) Notify(event Event) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.to)
	m.SetHeader("Subject", fmt.Sprintf("[security alert] %s", event.Type))
	m.SetBody("text/plain", formatEventBody(event))

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}
	return nil
}

func formatEventBody(event Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Event:    %s\n", event.Type)
	fmt.Fprintf(&b, "Time:     %s\n", event.OccurredAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "Message:  %s\n", event.Message)
	if event.Subject != "" {
		fmt.Fprintf(&b, "Subject:  %s\n", event.Subject)
	}
	if event.LicenseSID != "" {
		fmt.Fprintf(&b, "License:  %s\n", event.LicenseSID)
	}
	if event.IPAddress != "" {
		fmt.Fprintf(&b, "IP:       %s\n", event.IPAddress)
	}
	for k, v := range event.Details {
		fmt.Fprintf(&b, "%s: %s\n", k, v)
	}
	return b.String()
}
