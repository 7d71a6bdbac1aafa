package mailer

import (
	"fmt"

	"github.com/wneessen/go-mail"
)

type Mailer struct {
	host     string
	port     int
	user     string
	password string
	from     string
}

func New(host string, port int, user, password, from string) *Mailer {
	if host == "" {
		return nil
	}
	return &Mailer{host: host, port: port, user: user, password: password, from: from}
}

// Send delivers a plain-text notification. A nil mailer means email is
// not configured and sending is a no-op.
func (m *Mailer) Send(to, subject, body string) error {
	if m == nil {
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(m.user),
		mail.WithPassword(m.password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("mail client: %w", err)
	}
	return client.DialAndSend(msg)
}
