// Package notify delivers registration emails over SMTP. The welcome email
// goes out synchronously at admission; reminders flow through the Redis
// queue and the worker.
package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/prompt-future/backend/config"
	"github.com/prompt-future/backend/internal/models"
)

// Mailer sends registration emails via SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

// NewMailer creates an SMTP mailer from config.
func NewMailer(cfg config.EmailConfig, logger *zap.Logger) *Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &Mailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password),
		from:   from,
		logger: logger,
	}
}

// send performs one SMTP delivery, honoring ctx cancellation.
func (m *Mailer) send(ctx context.Context, msg *gomail.Message) error {
	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(msg)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func seminarLine(settings *models.SeminarSettings) (title, when, where string) {
	title = "the seminar"
	when = "the scheduled date"
	where = "the announced venue"
	if settings == nil {
		return
	}
	if settings.Title != "" {
		title = settings.Title
	}
	if settings.Date != "" {
		when = settings.Date
		if settings.Time != "" {
			when += " at " + settings.Time
		}
	}
	if settings.Location != "" {
		where = settings.Location
	}
	return
}

// SendWelcome delivers the registration confirmation.
func (m *Mailer) SendWelcome(ctx context.Context, reg *models.Registration, settings *models.SeminarSettings) error {
	title, when, where := seminarLine(settings)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", reg.Email)
	msg.SetHeader("Subject", "Registration Confirmed: "+title)
	msg.SetBody("text/html", fmt.Sprintf(`
		<h2>You're registered!</h2>
		<p>Hi %s,</p>
		<p>Your seat for <strong>%s</strong> is confirmed.</p>
		<ul>
			<li><strong>When:</strong> %s</li>
			<li><strong>Where:</strong> %s</li>
		</ul>
		<p>See you there!</p>`,
		reg.FullName, title, when, where))

	if err := m.send(ctx, msg); err != nil {
		return fmt.Errorf("send welcome email: %w", err)
	}
	m.logger.Info("welcome email sent", zap.String("email", reg.Email))
	return nil
}

// SendReminder delivers the pre-seminar reminder.
func (m *Mailer) SendReminder(ctx context.Context, reg *models.Registration, settings *models.SeminarSettings) error {
	title, when, where := seminarLine(settings)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", reg.Email)
	msg.SetHeader("Subject", "Reminder: "+title)
	msg.SetBody("text/html", fmt.Sprintf(`
		<h2>See you soon!</h2>
		<p>Hi %s,</p>
		<p>A quick reminder that <strong>%s</strong> is coming up.</p>
		<ul>
			<li><strong>When:</strong> %s</li>
			<li><strong>Where:</strong> %s</li>
		</ul>`,
		reg.FullName, title, when, where))

	if err := m.send(ctx, msg); err != nil {
		return fmt.Errorf("send reminder email: %w", err)
	}
	m.logger.Info("reminder email sent", zap.String("email", reg.Email))
	return nil
}
