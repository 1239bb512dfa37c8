package infra

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"

	"github.com/dario-aloisi/gestionale-ordini/internal/config"
)

// Mailer wraps SMTP configuration for sending the order summary PDF.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// SendRiepilogo mails a single PDF attachment under the given attachment name.
// The body is intentionally empty: the document is the message.
func (m *Mailer) SendRiepilogo(to, subject, pdfPath, attachmentName string) error {
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte("")

	att, err := e.AttachFile(pdfPath)
	if err != nil {
		return fmt.Errorf("mailer: attach PDF: %w", err)
	}
	if attachmentName != "" {
		att.Filename = attachmentName
	}

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return e.Send(m.addr, auth)
}
