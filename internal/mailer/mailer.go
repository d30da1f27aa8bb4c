// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package mailer sends transactional notification email over SMTP. Email is
// strictly a side effect in this system: every caller treats a send failure
// as loggable, never as a reason to fail or roll back the primary operation.
package mailer

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/wneessen/go-mail"

	"flowsite/internal/models"
)

// Mailer delivers notification email. Implementations must be safe for
// concurrent use.
type Mailer interface {
	SendDownloadLink(toEmail string, tmpl *models.Template) error
	SendPurchaseConfirmation(toEmail string, tmpl *models.Template) error
	SendContactNotification(to string, sub *models.ContactSubmission) error
}

// SMTPMailer sends mail through a configured SMTP relay.
type SMTPMailer struct {
	client *mail.Client
	from   string
}

// NewSMTP creates an SMTP mailer. Port is the usual submission port (587).
func NewSMTP(host, port, user, password, from string) (*SMTPMailer, error) {
	p, err := strconv.Atoi(port)
	if err != nil {
		return nil, fmt.Errorf("smtp port: %w", err)
	}

	opts := []mail.Option{
		mail.WithPort(p),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if user != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(user),
			mail.WithPassword(password),
		)
	}

	client, err := mail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	return &SMTPMailer{client: client, from: from}, nil
}

func (m *SMTPMailer) send(to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := m.client.DialAndSend(msg); err != nil {
		return fmt.Errorf("mail send: %w", err)
	}
	return nil
}

// SendDownloadLink notifies the requester that their free template is ready.
func (m *SMTPMailer) SendDownloadLink(toEmail string, tmpl *models.Template) error {
	body := fmt.Sprintf(
		"Hi,\n\nThanks for downloading %q. Your template is attached to your account "+
			"and ready to import.\n\n— Flowsite",
		tmpl.Title,
	)
	return m.send(toEmail, "Your template: "+tmpl.Title, body)
}

// SendPurchaseConfirmation confirms a completed paid purchase.
func (m *SMTPMailer) SendPurchaseConfirmation(toEmail string, tmpl *models.Template) error {
	body := fmt.Sprintf(
		"Hi,\n\nYour purchase of %q ($%.2f) is confirmed. The template is now "+
			"available in your downloads.\n\n— Flowsite",
		tmpl.Title, tmpl.Price,
	)
	return m.send(toEmail, "Purchase confirmed: "+tmpl.Title, body)
}

// SendContactNotification forwards an inbound submission to the site owner.
func (m *SMTPMailer) SendContactNotification(to string, sub *models.ContactSubmission) error {
	body := fmt.Sprintf(
		"New %s submission\n\nFrom: %s <%s>\n\n%s",
		sub.FormType, sub.Name, sub.Email, sub.Message,
	)
	return m.send(to, "New contact submission from "+sub.Name, body)
}

// LogMailer is the no-op fallback used when SMTP is not configured. It logs
// what would have been sent, like a development mailbox.
type LogMailer struct{}

// NewLog creates a logging mailer.
func NewLog() *LogMailer { return &LogMailer{} }

func (LogMailer) SendDownloadLink(toEmail string, tmpl *models.Template) error {
	slog.Info("mail (not configured): download link", "to", toEmail, "template", tmpl.Title)
	return nil
}

func (LogMailer) SendPurchaseConfirmation(toEmail string, tmpl *models.Template) error {
	slog.Info("mail (not configured): purchase confirmation", "to", toEmail, "template", tmpl.Title)
	return nil
}

func (LogMailer) SendContactNotification(to string, sub *models.ContactSubmission) error {
	slog.Info("mail (not configured): contact notification", "to", to, "from", sub.Email)
	return nil
}
