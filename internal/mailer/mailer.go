package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/devevents-app/devevents/config"
	"github.com/devevents-app/devevents/internal/entity"
)

// Mailer sends booking lifecycle notifications to attendees.
type Mailer interface {
	SendBookingConfirmation(email string, event *entity.Event) error
	SendBookingCancellation(email string, event *entity.Event) error
}

// SMTPMailer delivers mail over plain SMTP with optional auth. When the
// email channel is disabled in config every send is a logged no-op, so the
// booking flow behaves identically in environments without an SMTP relay.
type SMTPMailer struct {
	cfg     *config.EmailConfig
	baseURL string
}

// NewSMTPMailer creates a new SMTPMailer.
func NewSMTPMailer(cfg *config.EmailConfig, baseURL string) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, baseURL: baseURL}
}

func (m *SMTPMailer) SendBookingConfirmation(email string, event *entity.Event) error {
	subject := fmt.Sprintf("Booking confirmed: %s", event.Title)
	body := m.buildBody(event,
		"Your spot is confirmed. See you there!",
		"You can view the event details and manage your booking here:")
	return m.send(email, subject, body)
}

func (m *SMTPMailer) SendBookingCancellation(email string, event *entity.Event) error {
	subject := fmt.Sprintf("Booking cancelled: %s", event.Title)
	body := m.buildBody(event,
		"Your booking has been cancelled.",
		"If this was a mistake you can register again here:")
	return m.send(email, subject, body)
}

func (m *SMTPMailer) buildBody(event *entity.Event, lead, linkLead string) string {
	var b strings.Builder
	b.WriteString(lead)
	b.WriteString("\r\n\r\n")
	fmt.Fprintf(&b, "Event:    %s\r\n", event.Title)
	fmt.Fprintf(&b, "Date:     %s\r\n", event.Date)
	fmt.Fprintf(&b, "Time:     %s\r\n", event.Time)
	fmt.Fprintf(&b, "Mode:     %s\r\n", event.Mode)
	if event.Venue != "" {
		fmt.Fprintf(&b, "Venue:    %s\r\n", event.Venue)
	}
	if event.Location != "" {
		fmt.Fprintf(&b, "Location: %s\r\n", event.Location)
	}
	b.WriteString("\r\n")
	b.WriteString(linkLead)
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "%s/events/%s\r\n", strings.TrimRight(m.baseURL, "/"), event.Slug)
	return b.String()
}

func (m *SMTPMailer) send(to, subject, body string) error {
	if !m.cfg.Enabled {
		logrus.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("Email channel disabled, skipping send")
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s",
		m.cfg.From, to, subject, body)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	logrus.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
	}).Info("Email sent")
	return nil
}
