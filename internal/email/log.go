package email

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogMailer is the dry-run transport.
type LogMailer struct {
	logger *logrus.Logger
}

func NewLogMailer(logger *logrus.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, msg *Message) error {
	m.logger.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
		"text":    msg.Text,
	}).Info("email dry-run")
	return nil
}
