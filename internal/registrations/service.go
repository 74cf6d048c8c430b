package registrations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/prompt-future/backend/internal/models"
	"github.com/prompt-future/backend/pkg/response"
)

// ErrMaintenance rejects submissions while the registration switch is off.
// The wrapped message is shown to the caller.
type ErrMaintenance struct {
	Message string
}

func (e *ErrMaintenance) Error() string { return e.Message }

// ErrValidation carries the per-field failures of a rejected submission.
type ErrValidation struct {
	Fields []response.FieldError
}

func (e *ErrValidation) Error() string { return "validation failed" }

// ControlStore reads the admission gates.
type ControlStore interface {
	RegistrationControl(ctx context.Context) (*models.RegistrationControl, error)
	EmailControl(ctx context.Context) (*models.EmailControl, error)
}

// SettingsStore reads the capacity ceiling.
type SettingsStore interface {
	Settings(ctx context.Context) (*models.SeminarSettings, error)
}

// Store persists admitted registrations.
type Store interface {
	InsertWithinCapacity(ctx context.Context, reg *models.Registration, maxParticipants int) error
	GetByEmail(ctx context.Context, email string) (*models.Registration, error)
	CountActive(ctx context.Context) (int, error)
	MarkEmailSent(ctx context.Context, id uuid.UUID) error
}

// BotVerifier checks the captcha token.
type BotVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

// WelcomeMailer delivers the confirmation email.
type WelcomeMailer interface {
	SendWelcome(ctx context.Context, reg *models.Registration, settings *models.SeminarSettings) error
}

// Service runs the admission pipeline: maintenance gate, bot check,
// capacity-gated insert, then the welcome email. Gate order is fixed so a
// closed seminar rejects before any external call.
type Service struct {
	store    Store
	controls ControlStore
	settings SettingsStore
	verifier BotVerifier
	mailer   WelcomeMailer
	logger   *zap.Logger
}

// NewService creates the admission service.
func NewService(store Store, controls ControlStore, settings SettingsStore, verifier BotVerifier, mailer WelcomeMailer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		controls: controls,
		settings: settings,
		verifier: verifier,
		mailer:   mailer,
		logger:   logger,
	}
}

// Submit admits one registration. Gates run in a fixed order: maintenance,
// advisory capacity, field validation, captcha, advisory duplicate, then the
// count-gated insert, which is the capacity and uniqueness authority. Returns
// ErrMaintenance, ErrValidation, captcha.ErrVerificationFailed,
// ErrCapacityFull or ErrDuplicateEmail for the expected rejections.
func (s *Service) Submit(ctx context.Context, req *SubmitRequest, ip, userAgent string) (*models.Registration, error) {
	control, err := s.controls.RegistrationControl(ctx)
	if err != nil {
		return nil, fmt.Errorf("read registration control: %w", err)
	}
	if control != nil && !control.Enabled {
		message := control.MaintenanceMessage
		if message == "" {
			message = "Registration is temporarily closed."
		}
		return nil, &ErrMaintenance{Message: message}
	}

	settings, err := s.settings.Settings(ctx)
	if err != nil {
		return nil, fmt.Errorf("read seminar settings: %w", err)
	}
	maxParticipants := 100
	if settings != nil {
		maxParticipants = settings.MaxParticipants
	}

	active, err := s.store.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}
	if active >= maxParticipants {
		return nil, ErrCapacityFull
	}

	req.Normalize()
	if errs := req.Validate(); len(errs) > 0 {
		return nil, &ErrValidation{Fields: errs}
	}

	if err := s.verifier.Verify(ctx, req.RecaptchaToken, ip); err != nil {
		return nil, err
	}

	if existing, err := s.store.GetByEmail(ctx, req.Email); err != nil {
		return nil, fmt.Errorf("check existing email: %w", err)
	} else if existing != nil {
		return nil, ErrDuplicateEmail
	}

	reg := &models.Registration{
		ID:                 uuid.New(),
		FullName:           req.FullName,
		Email:              req.Email,
		Phone:              req.Phone,
		Branch:             req.Branch,
		YearOfStudy:        req.YearOfStudy,
		WorkshopAttendance: req.WorkshopAttendance,
		GitHubUsername:     req.GitHubUsername,
		Consent:            req.Consent,
		IPAddress:          ip,
		UserAgent:          userAgent,
	}
	if err := s.store.InsertWithinCapacity(ctx, reg, maxParticipants); err != nil {
		return nil, err
	}

	s.sendWelcome(ctx, reg, settings)
	return reg, nil
}

// welcomeSendTimeout bounds the synchronous welcome delivery so a stalled
// SMTP conversation cannot hold the registration response open.
const welcomeSendTimeout = 10 * time.Second

// sendWelcome makes a single delivery attempt. Failure never unwinds an
// admitted registration; emailSent stays false until a send is confirmed.
func (s *Service) sendWelcome(ctx context.Context, reg *models.Registration, settings *models.SeminarSettings) {
	if s.mailer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, welcomeSendTimeout)
	defer cancel()
	emailControl, err := s.controls.EmailControl(ctx)
	if err != nil {
		s.logger.Warn("read email control failed", zap.Error(err))
		return
	}
	if emailControl != nil && !emailControl.Enabled {
		return
	}
	if err := s.mailer.SendWelcome(ctx, reg, settings); err != nil {
		s.logger.Warn("welcome email failed",
			zap.String("registration_id", reg.ID.String()),
			zap.Error(err))
		return
	}
	if err := s.store.MarkEmailSent(ctx, reg.ID); err != nil {
		s.logger.Warn("mark email sent failed",
			zap.String("registration_id", reg.ID.String()),
			zap.Error(err))
		return
	}
	reg.EmailSent = true
}

// IsMaintenance reports whether err is a maintenance rejection.
func IsMaintenance(err error) (*ErrMaintenance, bool) {
	var m *ErrMaintenance
	if errors.As(err, &m) {
		return m, true
	}
	return nil, false
}
