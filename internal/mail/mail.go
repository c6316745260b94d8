// Package mail sends transactional email for the portal. Two backends are
// provided: an SMTP backend for production and a console backend that writes
// messages to a writer for development.
package mail

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/smtp"
	"strings"
	"time"
)

// Message is a single outbound email.
type Message struct {
	To      []string
	Subject string
	Text    string // plain-text body
	HTML    string // optional HTML alternative
}

// Mailer sends messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// ConsoleMailer writes messages to Out instead of delivering them.
type ConsoleMailer struct {
	Out io.Writer
}

func (m ConsoleMailer) Send(_ context.Context, msg Message) error {
	_, err := fmt.Fprintf(m.Out,
		"--- mail ---\nTo: %s\nSubject: %s\n\n%s\n------------\n",
		strings.Join(msg.To, ", "), msg.Subject, msg.Text)
	return err
}

// SMTPMailer delivers messages through an SMTP relay.
type SMTPMailer struct {
	Addr     string // host:port
	From     string
	Username string
	Password string
}

func (m SMTPMailer) Send(_ context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("message has no recipients")
	}

	var auth smtp.Auth
	if m.Username != "" {
		host := m.Addr
		if i := strings.LastIndex(host, ":"); i >= 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", m.Username, m.Password, host)
	}

	body := encode(m.From, msg)
	if err := smtp.SendMail(m.Addr, auth, m.From, msg.To, body); err != nil {
		return fmt.Errorf("sending mail via %s: %w", m.Addr, err)
	}
	return nil
}

// encode builds the RFC 5322 message. When an HTML body is present the
// message is multipart/alternative with the plain-text part first.
func encode(from string, msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")

	if msg.HTML == "" {
		b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		b.WriteString(msg.Text)
		return []byte(b.String())
	}

	const boundary = "jobgrid-mail-boundary"
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(msg.Text)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(msg.HTML)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}
