package mail

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"
	"sync"
	"time"
)

type Sender interface {
	Send(ctx context.Context, recipients []string, subject, body string) error
}

type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
}

// NewSender returns an SMTP sender, or a sender that only logs when no host or
// from address is configured.
func NewSender(cfg SMTPConfig, logger *slog.Logger) Sender {
	cfg.Host = strings.TrimSpace(cfg.Host)
	cfg.Port = strings.TrimSpace(cfg.Port)
	cfg.From = strings.TrimSpace(cfg.From)
	if cfg.Host == "" || cfg.From == "" {
		logger.Info("mailer_disabled", "reason", "SMTP_HOST or MAIL_FROM missing")
		return &Noop{Logger: logger}
	}
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	logger.Info("mailer_enabled", "host", cfg.Host, "port", cfg.Port, "user", maskForLog(cfg.User))
	return &SMTP{cfg: cfg}
}

type SMTP struct {
	cfg SMTPConfig
}

// Send uses STARTTLS whenever the server offers it.
func (m *SMTP) Send(_ context.Context, recipients []string, subject, body string) error {
	if len(recipients) == 0 {
		return nil
	}
	var auth smtp.Auth
	if m.cfg.User != "" && m.cfg.Password != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}
	msg := message(m.cfg.From, recipients, subject, body)
	if err := smtp.SendMail(net.JoinHostPort(m.cfg.Host, m.cfg.Port), auth, m.cfg.From, recipients, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

type Noop struct {
	Logger *slog.Logger
}

func (n *Noop) Send(_ context.Context, recipients []string, subject, _ string) error {
	if n.Logger != nil {
		n.Logger.Info("mail_skipped", "recipients", len(recipients), "subject", subject)
	}
	return nil
}

// Background hands messages to Next on their own goroutine so request handlers
// never wait on the mail server. Failures are logged.
type Background struct {
	Next    Sender
	Logger  *slog.Logger
	Timeout time.Duration

	wg sync.WaitGroup
}

func (b *Background) Send(_ context.Context, recipients []string, subject, body string) error {
	timeout := b.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := b.Next.Send(ctx, recipients, subject, body); err != nil && b.Logger != nil {
			b.Logger.Error("mail_send_failed", "subject", subject, "recipients", len(recipients), "error", err)
		}
	}()
	return nil
}

// Wait blocks until every queued message was handed to Next.
func (b *Background) Wait() {
	b.wg.Wait()
}

func message(from string, to []string, subject, body string) []byte {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("From: %s\r\n", from))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(to, ", ")))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	buf.WriteString("\r\n")
	return buf.Bytes()
}

func maskForLog(s string) string {
	if s == "" {
		return "(none)"
	}
	if len(s) <= 2 {
		return "***"
	}
	return s[:1] + "***" + s[len(s)-1:]
}
