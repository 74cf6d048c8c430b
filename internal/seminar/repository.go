// Package seminar owns the singleton configuration records: the seminar
// settings and the registration/email kill switches. Each lives in a one-row
// table keyed to id=1, so every write is an idempotent upsert against the
// single authoritative row. The admission path re-reads these on every
// request; nothing is cached in process.
package seminar

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prompt-future/backend/config"
	"github.com/prompt-future/backend/internal/models"
)

// Repository handles the settings and control singletons.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a seminar repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Settings returns the active seminar settings, or nil when none exist.
func (r *Repository) Settings(ctx context.Context) (*models.SeminarSettings, error) {
	const q = `SELECT title, date, time, location, duration, COALESCE(description,''),
		instructor_name, instructor_email, max_participants,
		COALESCE(registration_deadline,''), COALESCE(whatsapp_number,''),
		COALESCE(whatsapp_group_link,''), is_active, created_at, updated_at
		FROM seminar_settings WHERE id = 1 AND is_active`
	var s models.SeminarSettings
	err := r.pool.QueryRow(ctx, q).Scan(&s.Title, &s.Date, &s.Time, &s.Location, &s.Duration,
		&s.Description, &s.InstructorName, &s.InstructorEmail, &s.MaxParticipants,
		&s.RegistrationDeadline, &s.WhatsAppNumber, &s.WhatsAppGroupLink,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateSettings upserts the settings singleton.
func (r *Repository) UpdateSettings(ctx context.Context, s *models.SeminarSettings) error {
	const q = `INSERT INTO seminar_settings
		(id, title, date, time, location, duration, description, instructor_name,
		 instructor_email, max_participants, registration_deadline, whatsapp_number,
		 whatsapp_group_link)
		VALUES (1, $1, $2, $3, $4, $5, NULLIF($6,''), $7, $8, $9, NULLIF($10,''), NULLIF($11,''), NULLIF($12,''))
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title, date = EXCLUDED.date, time = EXCLUDED.time,
			location = EXCLUDED.location, duration = EXCLUDED.duration,
			description = EXCLUDED.description, instructor_name = EXCLUDED.instructor_name,
			instructor_email = EXCLUDED.instructor_email,
			max_participants = EXCLUDED.max_participants,
			registration_deadline = EXCLUDED.registration_deadline,
			whatsapp_number = EXCLUDED.whatsapp_number,
			whatsapp_group_link = EXCLUDED.whatsapp_group_link,
			updated_at = NOW()`
	_, err := r.pool.Exec(ctx, q, s.Title, s.Date, s.Time, s.Location, s.Duration,
		s.Description, s.InstructorName, s.InstructorEmail, s.MaxParticipants,
		s.RegistrationDeadline, s.WhatsAppNumber, s.WhatsAppGroupLink)
	return err
}

// RegistrationControl returns the registration kill switch, or nil when the
// row has never been created.
func (r *Repository) RegistrationControl(ctx context.Context) (*models.RegistrationControl, error) {
	const q = `SELECT enabled, maintenance_message, updated_by, created_at, updated_at
		FROM registration_control WHERE id = 1`
	var c models.RegistrationControl
	err := r.pool.QueryRow(ctx, q).Scan(&c.Enabled, &c.MaintenanceMessage, &c.UpdatedBy, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SetRegistrationControl upserts the registration kill switch. Repeated calls
// with the same value leave the single row unchanged apart from timestamps.
func (r *Repository) SetRegistrationControl(ctx context.Context, enabled bool, message string, actor uuid.UUID) error {
	const q = `INSERT INTO registration_control (id, enabled, maintenance_message, updated_by)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			maintenance_message = EXCLUDED.maintenance_message,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()`
	_, err := r.pool.Exec(ctx, q, enabled, message, nullableUUID(actor))
	return err
}

func nullableUUID(id uuid.UUID) interface{} {
	if id == uuid.Nil {
		return nil
	}
	return id
}

// EmailControl returns the email kill switch, or nil when absent.
func (r *Repository) EmailControl(ctx context.Context) (*models.EmailControl, error) {
	const q = `SELECT enabled, updated_by, created_at, updated_at FROM email_control WHERE id = 1`
	var c models.EmailControl
	err := r.pool.QueryRow(ctx, q).Scan(&c.Enabled, &c.UpdatedBy, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SetEmailControl upserts the email kill switch.
func (r *Repository) SetEmailControl(ctx context.Context, enabled bool, actor uuid.UUID) error {
	const q = `INSERT INTO email_control (id, enabled, updated_by)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()`
	_, err := r.pool.Exec(ctx, q, enabled, nullableUUID(actor))
	return err
}

// EnsureDefaults seeds the three singletons when missing. Runs at startup.
func (r *Repository) EnsureDefaults(ctx context.Context, cfg config.SeminarConfig) error {
	const settings = `INSERT INTO seminar_settings
		(id, title, date, time, location, duration, description, instructor_name,
		 instructor_email, max_participants, whatsapp_number)
		VALUES (1, $1, $2, $3, $4, $5,
			'Join us for an exciting seminar on Prompt Engineering and build your first AI portfolio.',
			'Harshad Nikam', 'nikamharshadshivaji@gmail.com', 100, $6)
		ON CONFLICT (id) DO NOTHING`
	if _, err := r.pool.Exec(ctx, settings, cfg.Title, cfg.Date, cfg.Time, cfg.Location, cfg.Duration, cfg.WhatsAppNumber); err != nil {
		return err
	}
	if _, err := r.pool.Exec(ctx,
		`INSERT INTO registration_control (id) VALUES (1) ON CONFLICT (id) DO NOTHING`); err != nil {
		return err
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO email_control (id) VALUES (1) ON CONFLICT (id) DO NOTHING`)
	return err
}
