package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"rentalguru/internal/domain"
)

const vendorInvitationColumns = `id, sender_id, first_name, last_name, email, role, accepted, blocked, created_at, updated_at, expired_at`

type vendorInvitationRepository struct {
	DB *sql.DB
}

// NewVendorInvitationRepository returns a domain.VendorInvitationRepository backed by Postgres.
func NewVendorInvitationRepository(db *sql.DB) domain.VendorInvitationRepository {
	return &vendorInvitationRepository{DB: db}
}

func (r *vendorInvitationRepository) Create(ctx context.Context, inv *domain.VendorInvitation) error {
	query := `
		INSERT INTO vendor_invitations (sender_id, first_name, last_name, email, role, expired_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRowContext(ctx, query,
		inv.SenderID, inv.FirstName, inv.LastName, inv.Email, inv.Role, inv.ExpiredAt,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrInvitationAlreadySent
		}
		return err
	}
	return nil
}

func (r *vendorInvitationRepository) GetByID(ctx context.Context, id int64) (*domain.VendorInvitation, error) {
	query := `SELECT ` + vendorInvitationColumns + ` FROM vendor_invitations WHERE id = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *vendorInvitationRepository) GetBySenderAndID(ctx context.Context, senderID, id int64) (*domain.VendorInvitation, error) {
	query := `SELECT ` + vendorInvitationColumns + ` FROM vendor_invitations WHERE id = $1 AND sender_id = $2`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id, senderID))
}

func (r *vendorInvitationRepository) GetByKey(ctx context.Context, key domain.VendorInvitationKey) (*domain.VendorInvitation, error) {
	query := `
		SELECT ` + vendorInvitationColumns + `
		FROM vendor_invitations
		WHERE email = $1 AND role = $2 AND sender_id = $3
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, key.Email, key.Role, key.SenderID))
}

func (r *vendorInvitationRepository) GetAcceptedByEmail(ctx context.Context, email string) (*domain.VendorInvitation, error) {
	query := `
		SELECT ` + vendorInvitationColumns + `
		FROM vendor_invitations
		WHERE email = $1 AND accepted = TRUE
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, email))
}

func (r *vendorInvitationRepository) List(ctx context.Context, senderID int64, filter domain.VendorInvitationFilter, p domain.PaginationParams) ([]*domain.VendorInvitation, int, error) {
	where := []string{"sender_id = $1"}
	args := []any{senderID}
	n := 2
	if filter.Role != nil {
		where = append(where, fmt.Sprintf("role = $%d", n))
		args = append(args, *filter.Role)
		n++
	}
	if filter.Accepted != nil {
		where = append(where, fmt.Sprintf("accepted = $%d", n))
		args = append(args, *filter.Accepted)
		n++
	}
	if filter.Blocked != nil {
		where = append(where, fmt.Sprintf("blocked = $%d", n))
		args = append(args, *filter.Blocked)
		n++
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		where = append(where, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d OR role ILIKE $%d)", n, n, n, n))
		args = append(args, "%"+s+"%")
		n++
	}
	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM vendor_invitations WHERE ` + whereClause
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM vendor_invitations
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, vendorInvitationColumns, whereClause, n, n+1)
	args = append(args, p.Limit(), p.Offset())

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	invs := make([]*domain.VendorInvitation, 0)
	for rows.Next() {
		inv := &domain.VendorInvitation{}
		if err := rows.Scan(
			&inv.ID, &inv.SenderID, &inv.FirstName, &inv.LastName, &inv.Email, &inv.Role,
			&inv.Accepted, &inv.Blocked, &inv.CreatedAt, &inv.UpdatedAt, &inv.ExpiredAt,
		); err != nil {
			return nil, 0, err
		}
		invs = append(invs, inv)
	}
	return invs, total, rows.Err()
}

func (r *vendorInvitationRepository) SetBlocked(ctx context.Context, id int64, blocked bool) error {
	query := `UPDATE vendor_invitations SET blocked = $1, updated_at = NOW() WHERE id = $2`
	return r.execExpectingRow(ctx, query, blocked, id)
}

func (r *vendorInvitationRepository) SetAccepted(ctx context.Context, id int64, accepted bool) error {
	query := `UPDATE vendor_invitations SET accepted = $1, updated_at = NOW() WHERE id = $2`
	return r.execExpectingRow(ctx, query, accepted, id)
}

func (r *vendorInvitationRepository) RefreshExpiry(ctx context.Context, id int64, expiredAt time.Time) error {
	query := `UPDATE vendor_invitations SET expired_at = $1, updated_at = NOW() WHERE id = $2`
	return r.execExpectingRow(ctx, query, expiredAt, id)
}

func (r *vendorInvitationRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM vendor_invitations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvitationNotFound
	}
	return nil
}

func (r *vendorInvitationRepository) execExpectingRow(ctx context.Context, query string, args ...any) error {
	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvitationNotFound
	}
	return nil
}

func (r *vendorInvitationRepository) scanOne(row *sql.Row) (*domain.VendorInvitation, error) {
	inv := &domain.VendorInvitation{}
	err := row.Scan(
		&inv.ID, &inv.SenderID, &inv.FirstName, &inv.LastName, &inv.Email, &inv.Role,
		&inv.Accepted, &inv.Blocked, &inv.CreatedAt, &inv.UpdatedAt, &inv.ExpiredAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, err
	}
	return inv, nil
}
