package postgres

import (
	"context"
	"database/sql"
	"time"

	"rentalguru/internal/domain"
)

type leaseRepository struct {
	DB *sql.DB
}

// NewLeaseRepository returns a domain.LeaseRepository backed by Postgres.
// Every method runs its writes in one transaction.
func NewLeaseRepository(db *sql.DB) domain.LeaseRepository {
	return &leaseRepository{DB: db}
}

func (r *leaseRepository) EndLease(ctx context.Context, invitationID int64, endDate time.Time, assignment *domain.Assignment) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	blockQuery := `
		UPDATE tenant_invitations
		SET blocked = TRUE, lease_end_date = $1, updated_at = NOW()
		WHERE id = $2
	`
	result, err := tx.ExecContext(ctx, blockQuery, endDate, invitationID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvitationNotFound
	}

	if assignment != nil {
		vacateQuery := `UPDATE ` + assignmentTable(assignment.Type) + ` SET status = 'vacant', updated_at = NOW() WHERE id = $1`
		// A vanished target is tolerated: zero rows affected is fine here.
		if _, err := tx.ExecContext(ctx, vacateQuery, assignment.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *leaseRepository) RenewLease(ctx context.Context, invitationID int64, renewal domain.LeaseRenewal, agreementKey string) (*domain.Agreement, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	updateQuery := `
		UPDATE tenant_invitations
		SET lease_start_date = $1, lease_end_date = $2, lease_amount = $3,
			security_deposit = COALESCE($4, security_deposit),
			agreed = FALSE, updated_at = NOW()
		WHERE id = $5
	`
	result, err := tx.ExecContext(ctx, updateQuery,
		renewal.LeaseStartDate, renewal.LeaseEndDate, renewal.LeaseAmount, renewal.SecurityDeposit, invitationID)
	if err != nil {
		return nil, err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, domain.ErrInvitationNotFound
	}

	agreement := &domain.Agreement{InvitationID: invitationID, LeaseAgreementKey: agreementKey}
	insertQuery := `
		INSERT INTO agreements (invitation_id, lease_agreement_key)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`
	if err := tx.QueryRowContext(ctx, insertQuery, invitationID, agreementKey).
		Scan(&agreement.ID, &agreement.CreatedAt, &agreement.UpdatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return agreement, nil
}

func (r *leaseRepository) Countersign(ctx context.Context, invitationID, agreementID int64, agreed bool, signedKey string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	agreeQuery := `UPDATE tenant_invitations SET agreed = $1, updated_at = NOW() WHERE id = $2`
	result, err := tx.ExecContext(ctx, agreeQuery, agreed, invitationID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvitationNotFound
	}

	signQuery := `UPDATE agreements SET signed_agreement_key = $1, updated_at = NOW() WHERE id = $2`
	result, err = tx.ExecContext(ctx, signQuery, signedKey, agreementID)
	if err != nil {
		return err
	}
	rows, _ = result.RowsAffected()
	if rows == 0 {
		return domain.ErrAgreementNotFound
	}

	return tx.Commit()
}

func assignmentTable(t domain.AssignmentType) string {
	if t == domain.AssignProperty {
		return "properties"
	}
	return "units"
}
