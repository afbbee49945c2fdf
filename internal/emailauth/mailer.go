package emailauth

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
)

type Mailer interface {
	SendCode(ctx context.Context, to, code string) error
}

// SMTPMailer sends the confirmation code over plain-auth SMTP.
type SMTPMailer struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

func (m *SMTPMailer) SendCode(_ context.Context, to, code string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Email confirmation code\r\n\r\n"+
		"Your confirmation code is %s. It expires in 3 minutes.\r\n", m.From, to, code)
	addr := m.Host + ":" + m.Port
	auth := smtp.PlainAuth("", m.User, m.Pass, m.Host)
	if err := smtp.SendMail(addr, auth, m.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send confirmation mail: %w", err)
	}
	return nil
}

// LogMailer is the fallback when no SMTP host is configured; it keeps local
// development working without a mail relay.
type LogMailer struct{}

func (LogMailer) SendCode(_ context.Context, to, code string) error {
	log.Printf("email confirmation code for %s: %s", to, code)
	return nil
}
