package mailer

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"kemea.backend/internal/domain/entities"
	"kemea.backend/pkg/logger"
)

// Sender hands a rendered email to a delivery transport.
type Sender interface {
	Send(ctx context.Context, msg entities.EmailMessage) error
	Close()
}

// LogSender writes emails to the log instead of delivering them. Used in
// development and whenever no transport is configured.
type LogSender struct {
	from string
}

func NewLogSender(from string) *LogSender {
	return &LogSender{from: from}
}

func (s *LogSender) Send(ctx context.Context, msg entities.EmailMessage) error {
	logger.Info(ctx, "Email delivered to log",
		zap.String("from", s.from),
		zap.String("to", strings.Join(msg.Recipients, ",")),
		zap.String("subject", msg.Subject),
		zap.String("template", msg.Template),
	)
	logger.Debug(ctx, "Email body", zap.String("body", msg.Body))
	return nil
}

func (s *LogSender) Close() {}
