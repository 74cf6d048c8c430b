package registrations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prompt-future/backend/internal/models"
)

// Admission failures the handler maps to dedicated status codes.
var (
	ErrCapacityFull   = errors.New("seminar capacity reached")
	ErrDuplicateEmail = errors.New("email already registered")
)

const registrationColumns = `
	id, full_name, email, phone, branch, year_of_study, workshop_attendance,
	COALESCE(github_username, ''), consent, registration_date,
	COALESCE(ip_address, ''), COALESCE(user_agent, ''), status,
	email_sent, email_sent_date, updated_at`

// Repository persists registrations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a registration repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func scanRegistration(row pgx.Row) (*models.Registration, error) {
	var r models.Registration
	err := row.Scan(
		&r.ID, &r.FullName, &r.Email, &r.Phone, &r.Branch, &r.YearOfStudy,
		&r.WorkshopAttendance, &r.GitHubUsername, &r.Consent, &r.RegistrationDate,
		&r.IPAddress, &r.UserAgent, &r.Status, &r.EmailSent, &r.EmailSentDate,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// advisory lock key serializing admission inserts
const admissionLockKey = 874611

// InsertWithinCapacity admits a registration only while the active count is
// below maxParticipants. The advisory lock and the count-gated insert run in
// one transaction, so concurrent submissions can never overshoot the
// ceiling. Returns ErrCapacityFull when the seminar is full and
// ErrDuplicateEmail when the email already has an active registration.
func (r *Repository) InsertWithinCapacity(ctx context.Context, reg *models.Registration, maxParticipants int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin admission tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, admissionLockKey); err != nil {
		return fmt.Errorf("acquire admission lock: %w", err)
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO registrations (
			id, full_name, email, phone, branch, year_of_study,
			workshop_attendance, github_username, consent, ip_address, user_agent
		)
		SELECT $1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, NULLIF($10, ''), NULLIF($11, '')
		WHERE (SELECT COUNT(*) FROM registrations WHERE status = 'active') < $12
		RETURNING registration_date, status, email_sent, updated_at`,
		reg.ID, reg.FullName, reg.Email, reg.Phone, reg.Branch, reg.YearOfStudy,
		reg.WorkshopAttendance, reg.GitHubUsername, reg.Consent,
		reg.IPAddress, reg.UserAgent, maxParticipants,
	)
	if err := row.Scan(&reg.RegistrationDate, &reg.Status, &reg.EmailSent, &reg.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrCapacityFull
		}
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert registration: %w", err)
	}

	return tx.Commit(ctx)
}

// GetByEmail returns the active registration for an email, nil when absent.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.Registration, error) {
	reg, err := scanRegistration(r.db.QueryRow(ctx, `
		SELECT `+registrationColumns+`
		FROM registrations
		WHERE lower(email) = lower($1) AND status = 'active'`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return reg, err
}

// GetByID returns a registration in any status, nil when absent.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Registration, error) {
	reg, err := scanRegistration(r.db.QueryRow(ctx, `
		SELECT `+registrationColumns+`
		FROM registrations
		WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return reg, err
}

// CountActive returns the number of active registrations.
func (r *Repository) CountActive(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM registrations WHERE status = 'active'`).Scan(&n)
	return n, err
}

var sortColumns = map[string]string{
	"registrationDate": "registration_date",
	"fullName":         "full_name",
	"email":            "email",
	"branch":           "branch",
	"yearOfStudy":      "year_of_study",
}

// ListParams control the admin listing. Sort keys outside the whitelist fall
// back to registration date.
type ListParams struct {
	Search    string
	SortBy    string
	SortDesc  bool
	Limit     int
	Offset    int
}

// List returns active registrations matching the params plus the total match
// count for pagination.
func (r *Repository) List(ctx context.Context, p ListParams) ([]models.Registration, int, error) {
	column, ok := sortColumns[p.SortBy]
	if !ok {
		column = "registration_date"
	}
	direction := "ASC"
	if p.SortDesc {
		direction = "DESC"
	}
	if p.Limit <= 0 || p.Limit > 200 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}

	where := `status = 'active'`
	args := []interface{}{}
	if p.Search != "" {
		where += ` AND (full_name ILIKE $1 OR email ILIKE $1 OR phone ILIKE $1 OR branch ILIKE $1)`
		args = append(args, "%"+strings.TrimSpace(p.Search)+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM registrations WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM registrations
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d`,
		registrationColumns, where, column, direction, len(args)+1, len(args)+2)
	args = append(args, p.Limit, p.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []models.Registration{}
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *reg)
	}
	return out, total, rows.Err()
}

// ListActive returns every active registration ordered by signup time. Backs
// the CSV export and the reminder fan-out.
func (r *Repository) ListActive(ctx context.Context) ([]models.Registration, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+registrationColumns+`
		FROM registrations
		WHERE status = 'active'
		ORDER BY registration_date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Registration{}
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *reg)
	}
	return out, rows.Err()
}

// Update applies the non-empty fields of req to an active registration and
// returns the updated row, nil when the registration does not exist.
// Returns ErrDuplicateEmail when the new email collides with another active
// registration.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, req *UpdateRequest) (*models.Registration, error) {
	var github interface{}
	if req.GitHubUsername != nil {
		github = strings.TrimSpace(*req.GitHubUsername)
	}
	reg, err := scanRegistration(r.db.QueryRow(ctx, `
		UPDATE registrations SET
			full_name = COALESCE(NULLIF($2, ''), full_name),
			email = COALESCE(NULLIF(lower($3), ''), email),
			phone = COALESCE(NULLIF($4, ''), phone),
			branch = COALESCE(NULLIF($5, ''), branch),
			year_of_study = COALESCE(NULLIF($6, ''), year_of_study),
			workshop_attendance = COALESCE(NULLIF($7, ''), workshop_attendance),
			github_username = CASE WHEN $8::text IS NULL THEN github_username ELSE NULLIF($8, '') END,
			updated_at = NOW()
		WHERE id = $1 AND status = 'active'
		RETURNING `+registrationColumns,
		id, strings.TrimSpace(req.FullName), strings.TrimSpace(req.Email),
		strings.TrimSpace(req.Phone), req.Branch, req.YearOfStudy,
		req.WorkshopAttendance, github))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if isUniqueViolation(err) {
		return nil, ErrDuplicateEmail
	}
	return reg, err
}

// SoftDelete flips an active registration to removed, freeing its slot and
// its email. Reports whether a row was affected.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE registrations
		SET status = 'removed', updated_at = NOW()
		WHERE id = $1 AND status = 'active'`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// MarkEmailSent records a confirmed delivery.
func (r *Repository) MarkEmailSent(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		UPDATE registrations
		SET email_sent = TRUE, email_sent_date = NOW(), updated_at = NOW()
		WHERE id = $1`, id)
	return err
}

// ListPendingReminder returns active registrations that never got an email.
func (r *Repository) ListPendingReminder(ctx context.Context) ([]models.Registration, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+registrationColumns+`
		FROM registrations
		WHERE status = 'active' AND NOT email_sent
		ORDER BY registration_date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Registration{}
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *reg)
	}
	return out, rows.Err()
}
