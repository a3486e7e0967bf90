// Package mailer dispatches rendered payslips over SMTP.
package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"time"

	"go.uber.org/zap"

	"github.com/arudra/payslipgen/pkg/utils"
)

// Dispatch failures come in two kinds. Transient ones (network, timeout,
// 4xx replies) leave the ledger at generated and are retried next run;
// permanent ones (bad address, 5xx rejection) exclude the employee from
// dispatch.
var (
	ErrTransient = errors.New("transient dispatch failure")
	ErrPermanent = errors.New("permanent dispatch failure")
)

// Config holds the SMTP connection settings.
type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	// StartTLS upgrades a plain connection; otherwise the connection is
	// opened as implicit TLS.
	StartTLS bool
	// Timeout bounds one complete send, so one unreachable mailbox cannot
	// stall the whole batch.
	Timeout time.Duration
}

// Message is one outbound payslip email.
type Message struct {
	To             string
	Subject        string
	Body           string
	AttachmentName string
	Attachment     []byte
}

// SMTPMailer sends messages through a single SMTP account.
type SMTPMailer struct {
	cfg    Config
	logger *zap.Logger
}

// New creates a mailer. A zero timeout defaults to 30 seconds.
func New(cfg Config, logger *zap.Logger) *SMTPMailer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// Send delivers one message. The returned error wraps ErrTransient or
// ErrPermanent so the caller can decide whether to retry on a later run.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := utils.ValidateEmail(msg.To); err != nil {
		return fmt.Errorf("%w: %v", ErrPermanent, err)
	}

	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	dialer := net.Dialer{Timeout: m.cfg.Timeout}

	var (
		conn net.Conn
		err  error
	)
	if m.cfg.StartTLS {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	} else {
		tlsDialer := tls.Dialer{NetDialer: &dialer, Config: &tls.Config{ServerName: m.cfg.Host}}
		conn, err = tlsDialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("%w: dialing %s: %v", ErrTransient, addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return classify(err)
	}
	defer client.Close()

	if m.cfg.StartTLS {
		if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			return classify(err)
		}
	}

	if m.cfg.Username != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return classify(err)
		}
	}

	if err := client.Mail(m.cfg.FromEmail); err != nil {
		return classify(err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return classify(err)
	}

	w, err := client.Data()
	if err != nil {
		return classify(err)
	}
	payload, err := m.buildMessage(msg)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPermanent, err)
	}
	if _, err := w.Write(payload); err != nil {
		_ = w.Close()
		return classify(err)
	}
	if err := w.Close(); err != nil {
		return classify(err)
	}

	if err := client.Quit(); err != nil {
		// Delivery was accepted at DATA; a failed QUIT is not a resend.
		m.logger.Debug("SMTP quit failed after accepted delivery", zap.Error(err))
	}

	m.logger.Info("Email sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}

// classify maps an SMTP-level error onto the retry taxonomy: 5xx replies
// are permanent, everything else is worth retrying next run.
func classify(err error) error {
	var proto *textproto.Error
	if errors.As(err, &proto) && proto.Code >= 500 {
		return fmt.Errorf("%w: %v", ErrPermanent, err)
	}
	return fmt.Errorf("%w: %v", ErrTransient, err)
}

// buildMessage assembles a multipart/mixed MIME message with the payslip
// attached.
func (m *SMTPMailer) buildMessage(msg Message) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s <%s>\r\n", m.cfg.FromName, m.cfg.FromEmail)
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n", mw.Boundary())
	fmt.Fprintf(&buf, "\r\n")

	text, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=\"UTF-8\""},
	})
	if err != nil {
		return nil, err
	}
	if _, err := text.Write([]byte(msg.Body)); err != nil {
		return nil, err
	}

	if len(msg.Attachment) > 0 {
		part, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {"application/pdf"},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", msg.AttachmentName)},
		})
		if err != nil {
			return nil, err
		}
		if err := writeBase64(part, msg.Attachment); err != nil {
			return nil, err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeBase64 encodes data wrapped at 76 characters per RFC 2045.
func writeBase64(w interface{ Write([]byte) (int, error) }, data []byte) error {
	encoded := base64.StdEncoding.EncodeToString(data)
	for len(encoded) > 0 {
		n := 76
		if len(encoded) < n {
			n = len(encoded)
		}
		if _, err := w.Write([]byte(encoded[:n] + "\r\n")); err != nil {
			return err
		}
		encoded = encoded[n:]
	}
	return nil
}
