package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/opencampus/records-api/internal/notify"
	"github.com/opencampus/records-api/pkg/jobs"
)

const jobTypeAbsenceAlert = "absence_alert"

// AbsenceAlert is the payload for an absence notification job.
type AbsenceAlert struct {
	Email       string
	StudentName string
	SubjectName string
	Date        string
}

// NotificationService dispatches outbound notifications through a background
// worker queue so request handlers never block on the transport.
type NotificationService struct {
	queue    *jobs.Queue
	notifier notify.Notifier
	logger   *zap.Logger
}

func NewNotificationService(notifier notify.Notifier, cfg jobs.QueueConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotificationService{notifier: notifier, logger: logger}
	cfg.Logger = logger
	s.queue = jobs.NewQueue("notifications", s.handle, cfg)
	return s
}

// Start launches the worker pool.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the worker pool.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// NotifyAbsence queues an absence alert. Failures are logged only; marking
// attendance must not fail because a notification could not be queued.
func (s *NotificationService) NotifyAbsence(alert AbsenceAlert) {
	err := s.queue.Enqueue(jobs.Job{
		ID:       uuid.NewString(),
		Type:     jobTypeAbsenceAlert,
		Payload:  alert,
		Enqueued: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn("failed to queue absence alert", zap.Error(err))
	}
}

func (s *NotificationService) handle(ctx context.Context, job jobs.Job) error {
	switch job.Type {
	case jobTypeAbsenceAlert:
		alert, ok := job.Payload.(AbsenceAlert)
		if !ok {
			return fmt.Errorf("unexpected payload type %T", job.Payload)
		}
		subject := "Absence Notification"
		message := fmt.Sprintf("%s was marked absent in %s on %s.", alert.StudentName, alert.SubjectName, alert.Date)
		return s.notifier.SendEmail(ctx, alert.Email, subject, message)
	default:
		return fmt.Errorf("unknown job type %s", job.Type)
	}
}
