package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/prompt-future/backend/internal/models"
)

// TempSecretTTL bounds how long a 2FA setup session stays valid.
const TempSecretTTL = 10 * time.Minute

const adminColumns = `id, username, email, password_hash, role, is_active,
	two_factor_enabled, COALESCE(two_factor_secret,''), COALESCE(backup_codes,'[]'::jsonb),
	two_factor_last_used, COALESCE(temp_secret,''), temp_secret_expires, created_at, last_login`

// Repository handles admin account persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an auth repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanAdmin(row interface{ Scan(...any) error }) (*models.AdminUser, error) {
	var a models.AdminUser
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Role, &a.IsActive,
		&a.TwoFactorEnabled, &a.TwoFactorSecret, &a.BackupCodes,
		&a.TwoFactorLastUsed, &a.TempSecret, &a.TempSecretExpires, &a.CreatedAt, &a.LastLogin)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByID returns an active admin by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	q := `SELECT ` + adminColumns + ` FROM admin_users WHERE id = $1 AND is_active`
	return scanAdmin(r.pool.QueryRow(ctx, q, id))
}

// GetByUsername returns an active admin by username.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	q := `SELECT ` + adminColumns + ` FROM admin_users WHERE username = $1 AND is_active`
	return scanAdmin(r.pool.QueryRow(ctx, q, username))
}

// EnsureDefaultAdmin creates the bootstrap admin account when no account with
// the given username exists. Safe to run at every startup.
func (r *Repository) EnsureDefaultAdmin(ctx context.Context, username, passwordHash, email string, logger *zap.Logger) error {
	const q = `INSERT INTO admin_users (username, email, password_hash, role)
		VALUES ($1, $2, $3, 'admin')
		ON CONFLICT (username) DO NOTHING`
	tag, err := r.pool.Exec(ctx, q, username, email, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		logger.Info("default admin account created", zap.String("username", username))
	}
	return nil
}

// UpdateLastLogin stamps last_login.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE admin_users SET last_login = NOW() WHERE id = $1`, id)
	return err
}

// UpdateProfile changes username and email.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, username, email string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE admin_users SET username = $2, email = $3 WHERE id = $1`, id, username, email)
	return err
}

// UsernameTaken reports whether another account already uses the username.
func (r *Repository) UsernameTaken(ctx context.Context, username string, excludeID uuid.UUID) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM admin_users WHERE username = $1 AND id <> $2)`,
		username, excludeID).Scan(&taken)
	return taken, err
}

// EmailTaken reports whether another account already uses the email.
func (r *Repository) EmailTaken(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM admin_users WHERE email = $1 AND id <> $2)`,
		email, excludeID).Scan(&taken)
	return taken, err
}

// UpdatePassword replaces the password hash.
func (r *Repository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE admin_users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	return err
}

// StoreTempSecret saves a pending 2FA secret with a 10-minute expiry.
func (r *Repository) StoreTempSecret(ctx context.Context, id uuid.UUID, secret string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE admin_users SET temp_secret = $2, temp_secret_expires = NOW() + $3::interval WHERE id = $1`,
		id, secret, TempSecretTTL.String())
	return err
}

// TempSecret returns the pending 2FA secret, or "" when none exists or the
// setup window has expired.
func (r *Repository) TempSecret(ctx context.Context, id uuid.UUID) (string, error) {
	var secret string
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(temp_secret,'') FROM admin_users
		 WHERE id = $1 AND temp_secret_expires > NOW()`, id).Scan(&secret)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return secret, nil
}

// Enable2FA promotes the verified secret and stores backup codes, clearing
// the temporary setup state.
func (r *Repository) Enable2FA(ctx context.Context, id uuid.UUID, secret string, backupCodes []string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE admin_users SET two_factor_enabled = TRUE, two_factor_secret = $2,
			backup_codes = $3, temp_secret = NULL, temp_secret_expires = NULL
		 WHERE id = $1`, id, secret, backupCodes)
	return err
}

// Disable2FA clears all second-factor state.
func (r *Repository) Disable2FA(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE admin_users SET two_factor_enabled = FALSE, two_factor_secret = NULL,
			backup_codes = NULL, two_factor_last_used = NULL,
			temp_secret = NULL, temp_secret_expires = NULL
		 WHERE id = $1`, id)
	return err
}

// UpdateBackupCodes replaces the recovery code set.
func (r *Repository) UpdateBackupCodes(ctx context.Context, id uuid.UUID, codes []string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE admin_users SET backup_codes = $2 WHERE id = $1`, id, codes)
	return err
}

// Record2FAUsage stamps the last successful second-factor login.
func (r *Repository) Record2FAUsage(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE admin_users SET two_factor_last_used = NOW(), last_login = NOW() WHERE id = $1`, id)
	return err
}
