package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	gomail "github.com/wneessen/go-mail"

	"socialstories/internal/config"
)

var ErrMailNotConfigured = errors.New("mail delivery is not configured")

// MailSender delivers the contact-form message to the site admin.
type MailSender interface {
	SendContact(ctx context.Context, fromName, fromEmail, subject, body string) error
}

// SMTPMailService sends mail over authenticated SMTP with STARTTLS.
type SMTPMailService struct {
	host     string
	port     int
	useTLS   bool
	username string
	password string
	admin    string
}

// NewMailService returns nil when the SMTP settings are incomplete; callers
// treat a nil sender as mail disabled.
func NewMailService(cfg *config.Config) *SMTPMailService {
	if cfg.MailServer == "" || cfg.MailUsername == "" || cfg.AdminEmail == "" {
		return nil
	}
	return &SMTPMailService{
		host:     cfg.MailServer,
		port:     cfg.MailPort,
		useTLS:   cfg.MailUseTLS,
		username: cfg.MailUsername,
		password: cfg.MailPassword,
		admin:    cfg.AdminEmail,
	}
}

// SendContact forwards a contact-form submission to the admin address, with
// the visitor's address as Reply-To.
func (s *SMTPMailService) SendContact(ctx context.Context, fromName, fromEmail, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.username); err != nil {
		return fmt.Errorf("set mail from: %w", err)
	}
	if err := msg.To(s.admin); err != nil {
		return fmt.Errorf("set mail to: %w", err)
	}
	if err := msg.ReplyTo(fromEmail); err != nil {
		return fmt.Errorf("set mail reply-to: %w", err)
	}
	msg.Subject(fmt.Sprintf("[Contact] %s", subject))
	msg.SetBodyString(gomail.TypeTextPlain, fmt.Sprintf("From: %s <%s>\n\n%s", fromName, fromEmail, body))

	tlsPolicy := gomail.TLSOpportunistic
	if s.useTLS {
		tlsPolicy = gomail.TLSMandatory
	}

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithTLSPolicy(tlsPolicy),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
	)
	if err != nil {
		return fmt.Errorf("build mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send contact mail: %w", err)
	}

	log.Printf("[Mail] contact message forwarded: from=%s subject=%q", fromEmail, subject)
	return nil
}
