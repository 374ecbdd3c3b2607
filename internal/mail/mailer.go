package mail

import (
	"encoding/base64"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"
)

// Attachment carries a file as base64 so the message schema stays a plain
// JSON-able struct at the boundary.
type Attachment struct {
	Filename string `json:"filename"`
	Content  string `json:"content"` // base64
}

// Message is the notifier request schema.
type Message struct {
	To         string      `json:"to"`
	Subject    string      `json:"subject"`
	Body       string      `json:"body"`
	Attachment *Attachment `json:"attachment,omitempty"`
}

// EncodeAttachment wraps raw bytes into the base64 attachment schema.
func EncodeAttachment(filename string, content []byte) *Attachment {
	return &Attachment{
		Filename: filename,
		Content:  base64.StdEncoding.EncodeToString(content),
	}
}

// Mailer sends plain-text mail with optional attachments over SMTP.
// Best-effort: no retries, no delivery confirmation.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(host string, port int, username, password, from string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (m *Mailer) Send(msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("mail: missing recipient")
	}

	message := gomail.NewMessage()
	message.SetHeader("From", m.from)
	message.SetHeader("To", msg.To)
	message.SetHeader("Subject", msg.Subject)
	message.SetBody("text/plain", msg.Body)

	if msg.Attachment != nil {
		raw, err := base64.StdEncoding.DecodeString(msg.Attachment.Content)
		if err != nil {
			return fmt.Errorf("mail: decode attachment: %w", err)
		}
		message.Attach(msg.Attachment.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(raw)
			return err
		}))
	}

	return m.dialer.DialAndSend(message)
}
