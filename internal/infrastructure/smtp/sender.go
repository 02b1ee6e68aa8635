// Package smtp delivers digest emails over an authenticated SMTP relay.
package smtp

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"NewsDigest/internal/domain"
)

// Sender sends multipart emails through one SMTP account.
type Sender struct {
	host     string
	port     int
	username string
	password string
	from     string
	logger   *slog.Logger
}

// NewSender constructs the SMTP transport.
func NewSender(host string, port int, username, password, from string, logger *slog.Logger) *Sender {
	return &Sender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		logger:   logger.With("component", "smtp"),
	}
}

// Send delivers one message. The plain and HTML bodies go out as a
// multipart/alternative payload.
func (s *Sender) Send(ctx context.Context, msg domain.Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.To == "" {
		return fmt.Errorf("send email: recipient is empty")
	}

	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	var body strings.Builder
	body.WriteString(fmt.Sprintf("From: %s\r\n", s.from))
	body.WriteString(fmt.Sprintf("To: %s\r\n", msg.To))
	body.WriteString(fmt.Sprintf("Subject: %s\r\n", headerValue(msg.Subject)))
	body.WriteString("MIME-Version: 1.0\r\n")
	body.WriteString("Content-Type: multipart/alternative; boundary=\"boundary42\"\r\n")
	body.WriteString("\r\n")

	body.WriteString("--boundary42\r\n")
	body.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	body.WriteString("\r\n")
	body.WriteString(msg.PlainBody)
	body.WriteString("\r\n")

	body.WriteString("--boundary42\r\n")
	body.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	body.WriteString("\r\n")
	body.WriteString(msg.HTMLBody)
	body.WriteString("\r\n")

	body.WriteString("--boundary42--\r\n")

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := smtp.SendMail(addr, auth, s.from, []string{msg.To}, []byte(body.String())); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	s.logger.Info("email delivered", "to", msg.To, "subject", msg.Subject)
	return nil
}

// headerValue strips line breaks so model-drafted text cannot inject
// extra headers.
func headerValue(value string) string {
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\n", " ")
	return strings.TrimSpace(value)
}
