package notify

import (
	"context"

	"go.uber.org/zap"
)

// Notifier is the outbound notification port. Delivery is best-effort: a
// failed send must never fail the operation that triggered it.
type Notifier interface {
	SendEmail(ctx context.Context, to, subject, message string) error
	SendSMS(ctx context.Context, phone, message string) error
}

// LogNotifier is a mock transport that records notifications in the log.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier builds the mock notifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// SendEmail logs the email instead of delivering it.
func (n *LogNotifier) SendEmail(ctx context.Context, to, subject, message string) error {
	n.logger.Info("email notification",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("message", message),
	)
	return nil
}

// SendSMS logs the SMS instead of delivering it.
func (n *LogNotifier) SendSMS(ctx context.Context, phone, message string) error {
	n.logger.Info("sms notification",
		zap.String("phone", phone),
		zap.String("message", message),
	)
	return nil
}
