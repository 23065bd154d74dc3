// Package email delivers notification emails through SES, SMTP or, when
// neither is configured, the log.
package email

import (
	"context"
	"fmt"
	"strings"

	"follohjelp/internal/instrument"
	"follohjelp/pkg/types"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/sirupsen/logrus"
)

const (
	TransportLog  = "log"
	TransportSMTP = "smtp"
	TransportSES  = "ses"
)

type Message struct {
	To      []string
	Subject string
	Text    string
}

type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// New picks the transport named by EMAIL_TRANSPORT. SMTP is also used when it
// is fully configured and no transport was named. Anything else logs the
// message instead of sending it.
func New(ctx context.Context, config *types.Config, logger *logrus.Logger) (Mailer, error) {
	transport := strings.ToLower(strings.TrimSpace(config.EmailTransport))

	switch {
	case transport == TransportSES:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(config.SESRegion))
		if err != nil {
			return nil, fmt.Errorf("failed to load aws config for ses: %w", err)
		}
		return instrumented(TransportSES, NewSESMailer(ses.NewFromConfig(awsCfg), config.MailFrom())), nil
	case transport == TransportSMTP || (transport == "" && smtpConfigured(config)):
		if !smtpConfigured(config) {
			return nil, &types.ConfigurationError{Setting: "SMTP_HOST"}
		}
		return instrumented(TransportSMTP, NewSMTPMailer(config)), nil
	default:
		return instrumented(TransportLog, NewLogMailer(logger)), nil
	}
}

func smtpConfigured(config *types.Config) bool {
	return config.SMTPHost != "" && config.SMTPPort > 0 && config.SMTPUser != "" && config.SMTPPass != "" && config.MailFrom() != ""
}

type instrumentedMailer struct {
	transport string
	next      Mailer
}

func instrumented(transport string, next Mailer) Mailer {
	return &instrumentedMailer{transport: transport, next: next}
}

func (m *instrumentedMailer) Send(ctx context.Context, msg *Message) error {
	err := m.next.Send(ctx, msg)
	instrument.EmailsSent.WithLabelValues(m.transport, instrument.Outcome(err)).Inc()
	return err
}
