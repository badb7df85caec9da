package service

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"sync"
	"time"

	"github.com/jordan-wright/email"

	"github.com/sandeepkv93/edumeet-backend/internal/observability"
)

type CodeKind string

const (
	CodeKindVerification CodeKind = "verification"
	CodeKindReset        CodeKind = "reset"
)

// CodeNotifier delivers a verification or reset code to a mailbox.
type CodeNotifier interface {
	SendCode(ctx context.Context, to, code string, kind CodeKind) error
}

type LogCodeNotifier struct {
	logger *slog.Logger
}

func NewLogCodeNotifier(logger *slog.Logger) *LogCodeNotifier {
	return &LogCodeNotifier{logger: logger}
}

func (n *LogCodeNotifier) SendCode(ctx context.Context, to, code string, kind CodeKind) error {
	n.logger.InfoContext(ctx, "code issued",
		"kind", string(kind),
		"email", to,
		"code", code,
	)
	return nil
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTPCodeNotifier struct {
	cfg    SMTPConfig
	dialer net.Dialer
}

func NewSMTPCodeNotifier(cfg SMTPConfig) *SMTPCodeNotifier {
	return &SMTPCodeNotifier{cfg: cfg}
}

func (n *SMTPCodeNotifier) SendCode(ctx context.Context, to, code string, kind CodeKind) error {
	msg, err := buildCodeEmail(n.cfg.From, to, code, kind).Bytes()
	if err != nil {
		return fmt.Errorf("build email: %w", err)
	}
	addr := net.JoinHostPort(n.cfg.Host, strconv.Itoa(n.cfg.Port))
	conn, err := n.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	client, err := smtp.NewClient(conn, n.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: n.cfg.Host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}
	if n.cfg.Username != "" {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)); err != nil {
				return fmt.Errorf("smtp auth: %w", err)
			}
		}
	}
	if err := client.Mail(n.cfg.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}
	return client.Quit()
}

func buildCodeEmail(from, to, code string, kind CodeKind) *email.Email {
	e := email.NewEmail()
	e.From = from
	e.To = []string{to}
	switch kind {
	case CodeKindReset:
		e.Subject = "Your edumeet password reset code"
		e.Text = []byte(fmt.Sprintf("Use this code to reset your password: %s\nIt expires in one hour.\n", code))
	default:
		e.Subject = "Verify your edumeet account"
		e.Text = []byte(fmt.Sprintf("Your verification code is: %s\nIt expires in ten minutes.\n", code))
	}
	return e
}

// AsyncCodeDispatcher sends codes on a background goroutine with its own
// timeout. Callers never observe delivery errors. Every code is logged: at
// debug level once delivered, at warn level when delivery fails.
type AsyncCodeDispatcher struct {
	notifier CodeNotifier
	timeout  time.Duration
	logger   *slog.Logger
	wg       sync.WaitGroup
}

func NewAsyncCodeDispatcher(notifier CodeNotifier, timeout time.Duration, logger *slog.Logger) *AsyncCodeDispatcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &AsyncCodeDispatcher{notifier: notifier, timeout: timeout, logger: logger}
}

func (d *AsyncCodeDispatcher) Dispatch(ctx context.Context, to, code string, kind CodeKind) {
	// Detach from request cancellation but keep trace values.
	base := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		sendCtx, cancel := context.WithTimeout(base, d.timeout)
		defer cancel()

		start := time.Now()
		err := d.send(sendCtx, to, code, kind)
		if err != nil {
			observability.RecordEmailDispatch(base, string(kind), "failed", time.Since(start))
			d.logger.WarnContext(base, "code email delivery failed, use logged code",
				"kind", string(kind),
				"email", to,
				"code", code,
				"error", err,
			)
			return
		}
		observability.RecordEmailDispatch(base, string(kind), "sent", time.Since(start))
		d.logger.DebugContext(base, "code email sent",
			"kind", string(kind),
			"email", to,
			"code", code,
		)
	}()
}

func (d *AsyncCodeDispatcher) send(ctx context.Context, to, code string, kind CodeKind) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("notifier panic: %v", r)
		}
	}()
	return d.notifier.SendCode(ctx, to, code, kind)
}

// Wait blocks until in-flight deliveries finish or ctx is done.
func (d *AsyncCodeDispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
