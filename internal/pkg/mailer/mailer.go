// Package mailer sends transactional email over SMTP with STARTTLS.
package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Mailer delivers a plain-text message to one recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Client is the subset of *smtp.Client used to deliver a message.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// Dialer opens an authenticated SMTP session.
type Dialer interface {
	Dial(ctx context.Context) (Client, error)
}

// Config holds SMTP server settings
type Config struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// SMTPMailer sends mail through a Dialer.
type SMTPMailer struct {
	dialer Dialer
	from   string
	log    *zap.Logger
}

// New returns an SMTP mailer, or a logging no-op when no host is configured.
func New(cfg Config, log *zap.Logger) Mailer {
	if cfg.Host == "" {
		return &LogMailer{log: log}
	}
	return NewSMTPMailer(&TLSDialer{cfg: cfg}, cfg.From, log)
}

// NewSMTPMailer creates a mailer over an explicit dialer
func NewSMTPMailer(d Dialer, from string, log *zap.Logger) *SMTPMailer {
	return &SMTPMailer{dialer: d, from: from, log: log}
}

// Send delivers one message
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	const op = "mailer.Send"

	client, err := m.dialer.Dial(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			m.log.Debug("smtp close", zap.Error(cerr))
		}
	}()

	if err := client.Mail(envelopeAddress(m.from)); err != nil {
		return fmt.Errorf("%s: mail from: %w", op, err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("%s: rcpt: %w", op, err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("%s: data: %w", op, err)
	}
	if _, err := io.WriteString(w, buildMessage(m.from, to, subject, body)); err != nil {
		_ = w.Close()
		return fmt.Errorf("%s: write: %w", op, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%s: close data: %w", op, err)
	}

	if err := client.Quit(); err != nil {
		return fmt.Errorf("%s: quit: %w", op, err)
	}

	m.log.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func buildMessage(from, to, subject, body string) string {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return b.String()
}

// envelopeAddress extracts addr from "Name <addr>".
func envelopeAddress(from string) string {
	if i := strings.LastIndex(from, "<"); i >= 0 {
		if j := strings.LastIndex(from, ">"); j > i {
			return from[i+1 : j]
		}
	}
	return strings.TrimSpace(from)
}

// TLSDialer connects with STARTTLS and PLAIN auth.
type TLSDialer struct {
	cfg Config
}

// Dial opens the SMTP session
func (d *TLSDialer) Dial(ctx context.Context) (Client, error) {
	addr := net.JoinHostPort(d.cfg.Host, d.cfg.Port)

	nd := net.Dialer{Timeout: 10 * time.Second}
	conn, err := nd.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial smtp server: %w", err)
	}

	client, err := smtp.NewClient(conn, d.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	if ok, _ := client.Extension("STARTTLS"); !ok {
		_ = client.Close()
		return nil, fmt.Errorf("smtp server does not support STARTTLS")
	}
	if err := client.StartTLS(&tls.Config{ServerName: d.cfg.Host, MinVersion: tls.VersionTLS12}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("start tls: %w", err)
	}

	if d.cfg.User != "" {
		if err := client.Auth(smtp.PlainAuth("", d.cfg.User, d.cfg.Pass, d.cfg.Host)); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("smtp auth: %w", err)
		}
	}

	return client, nil
}

// LogMailer records messages in the log instead of sending them.
type LogMailer struct {
	log *zap.Logger
}

// Send logs the message
func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.log.Info("email not sent (SMTP disabled)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("body_len", len(body)),
	)
	return nil
}
