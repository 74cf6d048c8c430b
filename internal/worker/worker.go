// Package worker drains the reminder email queue. It runs in-process next to
// the API server and standalone via cmd/worker.
package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/prompt-future/backend/internal/models"
	"github.com/prompt-future/backend/pkg/queue"
)

// RegistrationStore looks up and flags registrants.
type RegistrationStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Registration, error)
	MarkEmailSent(ctx context.Context, id uuid.UUID) error
}

// ControlStore reads the email kill switch and the seminar settings used in
// the email body.
type ControlStore interface {
	EmailControl(ctx context.Context) (*models.EmailControl, error)
	Settings(ctx context.Context) (*models.SeminarSettings, error)
}

// ReminderMailer delivers reminder emails.
type ReminderMailer interface {
	SendReminder(ctx context.Context, reg *models.Registration, settings *models.SeminarSettings) error
}

// JobQueue is the queue surface the processor consumes.
type JobQueue interface {
	Dequeue(ctx context.Context) (*queue.Job, error)
	Retry(ctx context.Context, job *queue.Job) error
}

// EmailProcessor consumes reminder jobs from the queue.
type EmailProcessor struct {
	queue    JobQueue
	store    RegistrationStore
	controls ControlStore
	mailer   ReminderMailer
	backoff  time.Duration
	logger   *zap.Logger
}

// NewEmailProcessor creates a reminder email processor.
func NewEmailProcessor(q JobQueue, store RegistrationStore, controls ControlStore, mailer ReminderMailer, logger *zap.Logger) *EmailProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailProcessor{
		queue:    q,
		store:    store,
		controls: controls,
		mailer:   mailer,
		backoff:  queue.RetryBackoff,
		logger:   logger,
	}
}

// Run consumes jobs until ctx is cancelled.
func (p *EmailProcessor) Run(ctx context.Context) {
	p.logger.Info("email worker started")
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("email worker stopped")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				p.logger.Info("email worker stopped")
				return
			}
			p.logger.Error("dequeue failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			continue
		}

		if err := p.process(ctx, job); err != nil {
			p.logger.Warn("job failed",
				zap.String("job_id", job.ID),
				zap.Int("attempt", job.Attempt),
				zap.Error(err))
			if err := p.queue.Retry(ctx, job); err != nil {
				p.logger.Error("retry failed", zap.String("job_id", job.ID), zap.Error(err))
			}
			// The retried job is back on the same list; without this pause
			// it would be redelivered instantly and burn all attempts at once.
			select {
			case <-ctx.Done():
			case <-time.After(p.backoff):
			}
		}
	}
}

// process handles one job. The email switch is re-checked at delivery time,
// so disabling it drains the queue without sending.
func (p *EmailProcessor) process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeReminderEmail {
		p.logger.Warn("unknown job type dropped", zap.String("type", string(job.Type)))
		return nil
	}
	var payload queue.ReminderEmailPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		p.logger.Warn("invalid job payload dropped", zap.String("job_id", job.ID), zap.Error(err))
		return nil
	}

	control, err := p.controls.EmailControl(ctx)
	if err != nil {
		return err
	}
	if control != nil && !control.Enabled {
		p.logger.Info("email service disabled, dropping job",
			zap.String("job_id", job.ID))
		return nil
	}

	reg, err := p.store.GetByID(ctx, payload.RegistrationID)
	if err != nil {
		return err
	}
	if reg == nil || reg.Status != models.StatusActive {
		p.logger.Info("registrant gone, dropping job",
			zap.String("registration_id", payload.RegistrationID.String()))
		return nil
	}

	settings, err := p.controls.Settings(ctx)
	if err != nil {
		return err
	}
	if err := p.mailer.SendReminder(ctx, reg, settings); err != nil {
		return err
	}
	return p.store.MarkEmailSent(ctx, reg.ID)
}
