package output

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"os"
	"path/filepath"

	"trade-analyst/internal/config"
)

// SMTPMailer sends each investor their snapshot log as an attachment.
type SMTPMailer struct {
	cfg config.EmailConfig
}

// NewSMTPMailer creates a new SMTPMailer.
func NewSMTPMailer(cfg config.EmailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Enabled reports whether the mailer has enough configuration to send.
func (m *SMTPMailer) Enabled() bool {
	return m.cfg.Enabled && m.cfg.SMTPHost != "" && m.cfg.From != ""
}

// SendSnapshot mails one investor their snapshot log for the completed day.
func (m *SMTPMailer) SendSnapshot(ctx context.Context, inv config.Investor, date, logPath string) error {
	if !m.Enabled() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	subject := fmt.Sprintf("%s Daily Snapshot", date)
	body := fmt.Sprintf("Daily snapshot for %s attached.", date)

	msg, err := buildMessage(m.cfg.From, inv.Email, subject, body, logPath)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)

	var auth smtp.Auth
	if m.cfg.Username != "" && m.cfg.Password != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.SMTPHost)
	}

	// Implicit TLS on 465, STARTTLS or plain otherwise.
	if m.cfg.SMTPPort == 465 {
		return m.sendWithTLS(addr, auth, inv.Email, msg)
	}
	return smtp.SendMail(addr, auth, m.cfg.From, []string{inv.Email}, msg)
}

// buildMessage assembles a multipart MIME message with the log attached.
func buildMessage(from, to, subject, body, attachmentPath string) ([]byte, error) {
	data, err := os.ReadFile(attachmentPath)
	if err != nil {
		return nil, fmt.Errorf("reading attachment: %w", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", writer.Boundary())

	textHeader := textproto.MIMEHeader{}
	textHeader.Set("Content-Type", "text/plain; charset=UTF-8")
	part, err := writer.CreatePart(textHeader)
	if err != nil {
		return nil, fmt.Errorf("creating text part: %w", err)
	}
	fmt.Fprintf(part, "%s\r\n", body)

	fileHeader := textproto.MIMEHeader{}
	fileHeader.Set("Content-Type", "application/octet-stream")
	fileHeader.Set("Content-Transfer-Encoding", "base64")
	fileHeader.Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filepath.Base(attachmentPath)))
	part, err = writer.CreatePart(fileHeader)
	if err != nil {
		return nil, fmt.Errorf("creating attachment part: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	// 76-character lines per RFC 2045.
	for len(encoded) > 0 {
		n := 76
		if n > len(encoded) {
			n = len(encoded)
		}
		fmt.Fprintf(part, "%s\r\n", encoded[:n])
		encoded = encoded[n:]
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing message: %w", err)
	}

	return buf.Bytes(), nil
}

// sendWithTLS sends email using implicit TLS (port 465).
func (m *SMTPMailer) sendWithTLS(addr string, auth smtp.Auth, to string, msg []byte) error {
	tlsConfig := &tls.Config{
		ServerName: m.cfg.SMTPHost,
	}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return fmt.Errorf("TLS dial failed: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.cfg.SMTPHost)
	if err != nil {
		return fmt.Errorf("creating SMTP client: %w", err)
	}
	defer client.Close()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP auth failed: %w", err)
		}
	}

	if err := client.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("SMTP MAIL command failed: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("SMTP RCPT command failed: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("SMTP DATA command failed: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("writing email body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing email body: %w", err)
	}

	return client.Quit()
}
