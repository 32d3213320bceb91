package mail

import (
	"fmt"
	"os"
	"strconv"

	"pbl-review/logger"

	"gopkg.in/gomail.v2"
)

// Mailer delivers plain-text mail to a single recipient.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends through the SMTP relay configured in the environment.
type SMTPMailer struct {
	host string
	port int
	user string
	pass string
	from string
}

// NewSMTPMailer reads SMTP_HOST/SMTP_PORT/SMTP_USER/SMTP_PASS/SMTP_FROM.
func NewSMTPMailer() *SMTPMailer {
	port := 587
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil {
			port = p
		}
	}

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = os.Getenv("SMTP_USER")
	}

	return &SMTPMailer{
		host: os.Getenv("SMTP_HOST"),
		port: port,
		user: os.Getenv("SMTP_USER"),
		pass: os.Getenv("SMTP_PASS"),
		from: from,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

// ConsoleMailer logs instead of sending. Used in local development and
// tests where no SMTP relay is reachable.
type ConsoleMailer struct{}

func (ConsoleMailer) Send(to, subject, body string) error {
	logger.Info(fmt.Sprintf("mail to=%s subject=%q body=%q", to, subject, body))
	return nil
}

// FromEnv picks the SMTP mailer when a host is configured, otherwise the
// console fallback.
func FromEnv() Mailer {
	if os.Getenv("SMTP_HOST") == "" {
		logger.Warning("SMTP_HOST not set, OTP mail goes to the log only")
		return ConsoleMailer{}
	}
	return NewSMTPMailer()
}
