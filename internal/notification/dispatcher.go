package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"school-management-api/internal/logger"
	"school-management-api/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	statusSent = "SENT"

	// maxListedFailures caps the failed rows quoted in an import summary.
	maxListedFailures = 10
)

type Enqueuer interface {
	EnqueueEmail(ctx context.Context, job model.EmailJob) error
}

type Store interface {
	CreateNotification(ctx context.Context, n *model.Notification) error
}

// Dispatcher queues outgoing email and keeps the notification log.
type Dispatcher struct {
	queue Enqueuer
	store Store
	now   func() time.Time
	log   zerolog.Logger
}

func NewDispatcher(queue Enqueuer, store Store) *Dispatcher {
	return &Dispatcher{
		queue: queue,
		store: store,
		now:   time.Now,
		log:   logger.Get(),
	}
}

// SendEmail enqueues the email and, when the recipient is a known user of a
// school, records it in the notification log.
func (d *Dispatcher) SendEmail(ctx context.Context, req model.EmailRequest) error {
	job := model.EmailJob{
		ID:         uuid.NewString(),
		To:         req.To,
		Subject:    req.Subject,
		Text:       req.Text,
		HTML:       req.HTML,
		EnqueuedAt: d.now().UTC(),
	}
	if err := d.queue.EnqueueEmail(ctx, job); err != nil {
		return fmt.Errorf("failed to enqueue email: %w", err)
	}

	d.log.Debug().Str("job_id", job.ID).Str("to", job.To).Msg("Email queued")

	if req.UserID == 0 || req.SchoolID == 0 {
		return nil
	}
	return d.record(ctx, req.SchoolID, req.UserID, req.Subject, req.Text, model.NotificationEmail)
}

func (d *Dispatcher) SendInApp(ctx context.Context, schoolID, userID int64, title, message string) error {
	return d.record(ctx, schoolID, userID, title, message, model.NotificationInApp)
}

func (d *Dispatcher) record(ctx context.Context, schoolID, userID int64, title, message string, typ model.NotificationType) error {
	err := d.store.CreateNotification(ctx, &model.Notification{
		SchoolID: schoolID,
		UserID:   userID,
		Title:    title,
		Message:  message,
		Type:     typ,
		Status:   statusSent,
	})
	if err != nil {
		return fmt.Errorf("failed to record notification: %w", err)
	}
	return nil
}

// NotifyImport tells the uploader how an import went, by email and in-app.
func (d *Dispatcher) NotifyImport(ctx context.Context, p model.Principal, schoolID int64, kind model.ImportKind, fileName string, outcome model.ImportOutcome) error {
	title, body := ImportSummary(kind, fileName, outcome)

	if err := d.SendEmail(ctx, model.EmailRequest{
		To:       p.Email,
		Subject:  title,
		Text:     body,
		SchoolID: schoolID,
		UserID:   p.UserID,
	}); err != nil {
		return err
	}
	return d.SendInApp(ctx, schoolID, p.UserID, title, body)
}

func ImportSummary(kind model.ImportKind, fileName string, outcome model.ImportOutcome) (string, string) {
	title := fmt.Sprintf("Bulk upload finished: %s", kind)

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d rows processed, %d succeeded, %d failed.", fileName, outcome.Total, outcome.Success, outcome.Failed)
	for i, f := range outcome.Errors {
		if i == maxListedFailures {
			fmt.Fprintf(&b, "\n... and %d more", len(outcome.Errors)-maxListedFailures)
			break
		}
		fmt.Fprintf(&b, "\nRow %d: %s", f.Row, f.Message)
	}
	return title, b.String()
}
