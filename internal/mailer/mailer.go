package mailer

import (
	"inbox_service/internal/models"

	"gopkg.in/gomail.v2"
)

type Mailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (m *Mailer) from() string {
	if m.From != "" {
		return m.From
	}
	return m.Username
}

func (m *Mailer) Build(email models.EmailMessage) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("To", email.Email)
	msg.SetHeader("From", m.from())
	msg.SetHeader("Subject", email.Subject)

	msg.SetBody("text/plain", email.Body)

	return msg
}

func (m *Mailer) Send(email models.EmailMessage) error {
	dialer := gomail.NewDialer(m.Host, m.Port, m.Username, m.Password)
	return dialer.DialAndSend(m.Build(email))
}
