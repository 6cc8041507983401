package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"rentalguru/internal/domain"
)

const userColumns = `id, email, first_name, last_name, phone_number, password_hash, salt, email_verified, banned, created_at, updated_at`

type userRepository struct {
	DB *sql.DB
}

// NewUserRepository returns a domain.UserRepository backed by Postgres.
func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (email, first_name, last_name, phone_number, password_hash, salt, email_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRowContext(ctx, query,
		u.Email, u.FirstName, u.LastName, u.PhoneNumber, u.PasswordHash, u.Salt, u.EmailVerified,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, email))
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *userRepository) SetEmailVerified(ctx context.Context, id int64, verified bool) error {
	query := `UPDATE users SET email_verified = $1, updated_at = NOW() WHERE id = $2`
	return r.execExpectingRow(ctx, query, verified, id)
}

func (r *userRepository) SetBannedByEmail(ctx context.Context, email string, banned bool) error {
	// Callers tolerate a missing account; rows affected is not checked.
	query := `UPDATE users SET banned = $1, updated_at = NOW() WHERE email = $2`
	_, err := r.DB.ExecContext(ctx, query, banned, email)
	return err
}

func (r *userRepository) DeleteByEmail(ctx context.Context, email string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE email = $1`, email)
	return err
}

func (r *userRepository) SetOTP(ctx context.Context, id int64, otpHash string, expiresAt time.Time) error {
	query := `UPDATE users SET otp_hash = $1, otp_expires_at = $2, updated_at = NOW() WHERE id = $3`
	return r.execExpectingRow(ctx, query, otpHash, expiresAt, id)
}

func (r *userRepository) ConsumeOTP(ctx context.Context, email, otpHash string) (bool, error) {
	query := `
		UPDATE users
		SET otp_hash = NULL, otp_expires_at = NULL, updated_at = NOW()
		WHERE email = $1 AND otp_hash = $2 AND otp_expires_at > NOW()
	`
	result, err := r.DB.ExecContext(ctx, query, email, otpHash)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, salt, passwordHash string) error {
	query := `UPDATE users SET salt = $1, password_hash = $2, updated_at = NOW() WHERE id = $3`
	return r.execExpectingRow(ctx, query, salt, passwordHash, id)
}

func (r *userRepository) AssignRole(ctx context.Context, userID, roleID int64) error {
	query := `
		INSERT INTO user_roles (user_id, role_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role_id) DO NOTHING
	`
	_, err := r.DB.ExecContext(ctx, query, userID, roleID)
	return err
}

func (r *userRepository) execExpectingRow(ctx context.Context, query string, args ...any) error {
	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) scanOne(row *sql.Row) (*domain.User, error) {
	u := &domain.User{}
	var phone sql.NullString
	err := row.Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &phone,
		&u.PasswordHash, &u.Salt, &u.EmailVerified, &u.Banned, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if phone.Valid {
		u.PhoneNumber = &phone.String
	}
	return u, nil
}
