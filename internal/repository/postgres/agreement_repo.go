package postgres

import (
	"context"
	"database/sql"
	"errors"

	"rentalguru/internal/domain"
)

type agreementRepository struct {
	DB *sql.DB
}

// NewAgreementRepository returns a domain.AgreementRepository backed by Postgres.
func NewAgreementRepository(db *sql.DB) domain.AgreementRepository {
	return &agreementRepository{DB: db}
}

func (r *agreementRepository) Create(ctx context.Context, a *domain.Agreement) error {
	query := `
		INSERT INTO agreements (invitation_id, lease_agreement_key)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRowContext(ctx, query, a.InvitationID, a.LeaseAgreementKey).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *agreementRepository) LatestByInvitationID(ctx context.Context, invitationID int64) (*domain.Agreement, error) {
	query := `
		SELECT id, invitation_id, lease_agreement_key, signed_agreement_key, created_at, updated_at
		FROM agreements
		WHERE invitation_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	a := &domain.Agreement{}
	var signed sql.NullString
	err := r.DB.QueryRowContext(ctx, query, invitationID).
		Scan(&a.ID, &a.InvitationID, &a.LeaseAgreementKey, &signed, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAgreementNotFound
		}
		return nil, err
	}
	if signed.Valid {
		a.SignedAgreementKey = &signed.String
	}
	return a, nil
}

func (r *agreementRepository) ListByInvitationID(ctx context.Context, invitationID int64) ([]*domain.Agreement, error) {
	query := `
		SELECT id, invitation_id, lease_agreement_key, signed_agreement_key, created_at, updated_at
		FROM agreements
		WHERE invitation_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, invitationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	agreements := make([]*domain.Agreement, 0)
	for rows.Next() {
		a := &domain.Agreement{}
		var signed sql.NullString
		if err := rows.Scan(&a.ID, &a.InvitationID, &a.LeaseAgreementKey, &signed, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		if signed.Valid {
			a.SignedAgreementKey = &signed.String
		}
		agreements = append(agreements, a)
	}
	return agreements, rows.Err()
}
