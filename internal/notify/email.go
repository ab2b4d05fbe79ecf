package notify

import (
	"errors"
	"io"

	gomail "gopkg.in/gomail.v2"
)

// Mailer sends HTML mail through SMTP with STARTTLS.
type Mailer struct {
	host     string
	port     int
	username string
	password string
}

func NewMailer(host string, port int, username, password string) *Mailer {
	return &Mailer{host: host, port: port, username: username, password: password}
}

// Send delivers an HTML mail, optionally attaching PDF bytes under
// attachmentName.
func (m *Mailer) Send(to, subject, htmlBody string, attachment []byte, attachmentName string) error {
	if m.host == "" || m.username == "" || m.password == "" {
		return errors.New("email credentials not configured")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.username)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	if len(attachment) > 0 {
		msg.Attach(attachmentName, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(attachment)
			return err
		}))
	}

	return gomail.NewDialer(m.host, m.port, m.username, m.password).DialAndSend(msg)
}
