package service

import (
	"errors"

	"gopkg.in/gomail.v2"
)

// Email is a single transactional message
type Email struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers an email synchronously
type Sender interface {
	Send(e Email) error
}

type MailerConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends mail over SMTP
type Mailer struct {
	from   string
	dialer *gomail.Dialer
}

func NewMailer(cfg MailerConfig) *Mailer {
	return &Mailer{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (m *Mailer) Send(e Email) error {
	if e.To == "" {
		return errors.New("no recipient specified")
	}

	if e.To == m.from {
		return errors.New("refusing to mail the sender address")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", e.To)
	msg.SetHeader("Subject", e.Subject)

	if e.HTML != "" {
		msg.SetBody("text/html", e.HTML)
		if e.Text != "" {
			msg.AddAlternative("text/plain", e.Text)
		}
	} else {
		msg.SetBody("text/plain", e.Text)
	}

	return m.dialer.DialAndSend(msg)
}
