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

const tenantInvitationColumns = `id, sender_id, first_name, last_name, email, assignment_type, assignment_id,
	tenant_type, lease_amount, security_deposit, lease_start_date, lease_end_date,
	accepted, blocked, agreed, created_at, updated_at, expired_at`

type tenantInvitationRepository struct {
	DB *sql.DB
}

// NewTenantInvitationRepository returns a domain.TenantInvitationRepository backed by Postgres.
func NewTenantInvitationRepository(db *sql.DB) domain.TenantInvitationRepository {
	return &tenantInvitationRepository{DB: db}
}

func (r *tenantInvitationRepository) CreateWithAgreement(ctx context.Context, inv *domain.TenantInvitation, agreementKey string) (*domain.Agreement, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	insertInvitation := `
		INSERT INTO tenant_invitations (sender_id, first_name, last_name, email, assignment_type, assignment_id,
			tenant_type, lease_amount, security_deposit, lease_start_date, lease_end_date, expired_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRowContext(ctx, insertInvitation,
		inv.SenderID, inv.FirstName, inv.LastName, inv.Email, inv.Assignment.Type, inv.Assignment.ID,
		inv.TenantType, inv.LeaseAmount, inv.SecurityDeposit, inv.LeaseStartDate, inv.LeaseEndDate, inv.ExpiredAt,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, domain.ErrInvitationAlreadySent
		}
		return nil, err
	}

	agreement := &domain.Agreement{InvitationID: inv.ID, LeaseAgreementKey: agreementKey}
	insertAgreement := `
		INSERT INTO agreements (invitation_id, lease_agreement_key)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`
	if err := tx.QueryRowContext(ctx, insertAgreement, agreement.InvitationID, agreement.LeaseAgreementKey).
		Scan(&agreement.ID, &agreement.CreatedAt, &agreement.UpdatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return agreement, nil
}

func (r *tenantInvitationRepository) GetByID(ctx context.Context, id int64) (*domain.TenantInvitation, error) {
	query := `SELECT ` + tenantInvitationColumns + ` FROM tenant_invitations WHERE id = $1`
	return scanTenantInvitation(r.DB.QueryRowContext(ctx, query, id))
}

func (r *tenantInvitationRepository) GetBySenderAndID(ctx context.Context, senderID, id int64) (*domain.TenantInvitation, error) {
	query := `SELECT ` + tenantInvitationColumns + ` FROM tenant_invitations WHERE id = $1 AND sender_id = $2`
	return scanTenantInvitation(r.DB.QueryRowContext(ctx, query, id, senderID))
}

func (r *tenantInvitationRepository) GetByKey(ctx context.Context, key domain.TenantInvitationKey) (*domain.TenantInvitation, error) {
	query := `
		SELECT ` + tenantInvitationColumns + `
		FROM tenant_invitations
		WHERE email = $1 AND tenant_type = $2 AND sender_id = $3 AND assignment_type = $4 AND assignment_id = $5
	`
	return scanTenantInvitation(r.DB.QueryRowContext(ctx, query,
		key.Email, key.TenantType, key.SenderID, key.Assignment.Type, key.Assignment.ID))
}

func (r *tenantInvitationRepository) GetAcceptedByEmail(ctx context.Context, email string) (*domain.TenantInvitation, error) {
	query := `
		SELECT ` + tenantInvitationColumns + `
		FROM tenant_invitations
		WHERE email = $1 AND accepted = TRUE
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanTenantInvitation(r.DB.QueryRowContext(ctx, query, email))
}

func (r *tenantInvitationRepository) List(ctx context.Context, senderID int64, filter domain.TenantInvitationFilter, p domain.PaginationParams) ([]*domain.TenantInvitation, int, error) {
	where := []string{"sender_id = $1"}
	args := []any{senderID}
	n := 2
	if filter.TenantType != nil {
		where = append(where, fmt.Sprintf("tenant_type = $%d", n))
		args = append(args, *filter.TenantType)
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
	if filter.AssignmentType != nil {
		where = append(where, fmt.Sprintf("assignment_type = $%d", n))
		args = append(args, *filter.AssignmentType)
		n++
	}
	if filter.AssignmentID != nil {
		where = append(where, fmt.Sprintf("assignment_id = $%d", n))
		args = append(args, *filter.AssignmentID)
		n++
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		where = append(where, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d OR tenant_type ILIKE $%d)", n, n, n, n))
		args = append(args, "%"+s+"%")
		n++
	}
	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM tenant_invitations WHERE ` + whereClause
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM tenant_invitations
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, tenantInvitationColumns, whereClause, n, n+1)
	args = append(args, p.Limit(), p.Offset())

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	invs := make([]*domain.TenantInvitation, 0)
	for rows.Next() {
		inv, err := scanTenantInvitationRow(rows)
		if err != nil {
			return nil, 0, err
		}
		invs = append(invs, inv)
	}
	return invs, total, rows.Err()
}

func (r *tenantInvitationRepository) SetAccepted(ctx context.Context, id int64, accepted bool) error {
	query := `UPDATE tenant_invitations SET accepted = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.DB.ExecContext(ctx, query, accepted, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvitationNotFound
	}
	return nil
}

func (r *tenantInvitationRepository) RefreshExpiry(ctx context.Context, id int64, expiredAt time.Time) error {
	query := `UPDATE tenant_invitations SET expired_at = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.DB.ExecContext(ctx, query, expiredAt, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvitationNotFound
	}
	return nil
}

func (r *tenantInvitationRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM tenant_invitations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvitationNotFound
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTenantInvitation(row *sql.Row) (*domain.TenantInvitation, error) {
	inv, err := scanTenantInvitationRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, err
	}
	return inv, nil
}

func scanTenantInvitationRow(s scanner) (*domain.TenantInvitation, error) {
	inv := &domain.TenantInvitation{}
	var deposit sql.NullInt64
	err := s.Scan(
		&inv.ID, &inv.SenderID, &inv.FirstName, &inv.LastName, &inv.Email,
		&inv.Assignment.Type, &inv.Assignment.ID,
		&inv.TenantType, &inv.LeaseAmount, &deposit, &inv.LeaseStartDate, &inv.LeaseEndDate,
		&inv.Accepted, &inv.Blocked, &inv.Agreed, &inv.CreatedAt, &inv.UpdatedAt, &inv.ExpiredAt,
	)
	if err != nil {
		return nil, err
	}
	if deposit.Valid {
		inv.SecurityDeposit = &deposit.Int64
	}
	return inv, nil
}
