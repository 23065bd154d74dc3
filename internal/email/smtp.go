package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"follohjelp/pkg/types"
)

// SMTPMailer sends plain text mail. Port 465 uses implicit TLS; any other port
// upgrades with STARTTLS when the server offers it.
type SMTPMailer struct {
	host string
	port int
	from string
	auth smtp.Auth
}

func NewSMTPMailer(config *types.Config) *SMTPMailer {
	return &SMTPMailer{
		host: config.SMTPHost,
		port: config.SMTPPort,
		from: config.MailFrom(),
		auth: smtp.PlainAuth("", config.SMTPUser, config.SMTPPass, config.SMTPHost),
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before sending email: %w", err)
	}

	addr := net.JoinHostPort(m.host, strconv.Itoa(m.port))
	body := buildMessage(m.from, msg)

	if m.port != 465 {
		if err := smtp.SendMail(addr, m.auth, m.from, msg.To, body); err != nil {
			return fmt.Errorf("failed to send email via smtp: %w", err)
		}
		return nil
	}

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.host})
	if err != nil {
		return fmt.Errorf("failed to connect to smtp server: %w", err)
	}

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to start smtp session: %w", err)
	}
	defer client.Close()

	if err = client.Auth(m.auth); err != nil {
		return fmt.Errorf("smtp authentication failed: %w", err)
	}

	if err = client.Mail(m.from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	for _, to := range msg.To {
		if err = client.Rcpt(to); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", to, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open message body: %w", err)
	}

	if _, err = w.Write(body); err != nil {
		return fmt.Errorf("failed to write message body: %w", err)
	}

	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close message body: %w", err)
	}

	return client.Quit()
}

func buildMessage(from string, msg *Message) []byte {
	var b strings.Builder

	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(msg.To, ", ") + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Text, "\n", "\r\n"))

	return []byte(b.String())
}
