package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"rentalguru/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestLeaseRepository_EndLease(t *testing.T) {
	ctx := context.Background()
	endDate := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	assignment := &domain.Assignment{Type: domain.AssignUnit, ID: 11}

	t.Run("blocks invitation and vacates unit in one transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE tenant_invitations\s+SET blocked = TRUE, lease_end_date = \$1, updated_at = NOW\(\)`).
			WithArgs(endDate, int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE units SET status = 'vacant', updated_at = NOW\(\) WHERE id = \$1`).
			WithArgs(int64(11)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		repo := NewLeaseRepository(db)
		require.NoError(t, repo.EndLease(ctx, 4, endDate, assignment))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing invitation rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE tenant_invitations`).
			WithArgs(endDate, int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		repo := NewLeaseRepository(db)
		require.ErrorIs(t, repo.EndLease(ctx, 4, endDate, assignment), domain.ErrInvitationNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("vanished assignment target is tolerated", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE tenant_invitations`).
			WithArgs(endDate, int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE units SET status = 'vacant'`).
			WithArgs(int64(11)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		repo := NewLeaseRepository(db)
		require.NoError(t, repo.EndLease(ctx, 4, endDate, assignment))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("vacate failure rolls everything back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE tenant_invitations`).
			WithArgs(endDate, int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE units SET status = 'vacant'`).
			WithArgs(int64(11)).
			WillReturnError(sql.ErrConnDone)
		mock.ExpectRollback()

		repo := NewLeaseRepository(db)
		require.ErrorIs(t, repo.EndLease(ctx, 4, endDate, assignment), sql.ErrConnDone)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLeaseRepository_RenewLease(t *testing.T) {
	ctx := context.Background()
	renewal := domain.LeaseRenewal{
		LeaseStartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		LeaseEndDate:   time.Date(2027, 8, 31, 0, 0, 0, 0, time.UTC),
		LeaseAmount:    150000,
	}

	t.Run("updates terms and appends agreement", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE tenant_invitations\s+SET lease_start_date = \$1, lease_end_date = \$2, lease_amount = \$3,\s+security_deposit = COALESCE\(\$4, security_deposit\),\s+agreed = FALSE`).
			WithArgs(renewal.LeaseStartDate, renewal.LeaseEndDate, renewal.LeaseAmount, nil, int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO agreements \(invitation_id, lease_agreement_key\)`).
			WithArgs(int64(4), "tenant_agreements/new.pdf").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(int64(9), time.Now(), time.Now()))
		mock.ExpectCommit()

		repo := NewLeaseRepository(db)
		agreement, err := repo.RenewLease(ctx, 4, renewal, "tenant_agreements/new.pdf")
		require.NoError(t, err)
		require.Equal(t, int64(9), agreement.ID)
		require.Equal(t, int64(4), agreement.InvitationID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("agreement insert failure rolls back the term update", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE tenant_invitations`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO agreements`).
			WillReturnError(sql.ErrConnDone)
		mock.ExpectRollback()

		repo := NewLeaseRepository(db)
		_, err = repo.RenewLease(ctx, 4, renewal, "tenant_agreements/new.pdf")
		require.ErrorIs(t, err, sql.ErrConnDone)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLeaseRepository_Countersign(t *testing.T) {
	ctx := context.Background()

	t.Run("records consent and attaches the signed document", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE tenant_invitations SET agreed = \$1, updated_at = NOW\(\) WHERE id = \$2`).
			WithArgs(true, int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE agreements SET signed_agreement_key = \$1, updated_at = NOW\(\) WHERE id = \$2`).
			WithArgs("tenant_signed_agreements/signed.pdf", int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		repo := NewLeaseRepository(db)
		require.NoError(t, repo.Countersign(ctx, 4, 9, true, "tenant_signed_agreements/signed.pdf"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing agreement rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE tenant_invitations SET agreed`).
			WithArgs(true, int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE agreements SET signed_agreement_key`).
			WithArgs("key", int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		repo := NewLeaseRepository(db)
		require.ErrorIs(t, repo.Countersign(ctx, 4, 9, true, "key"), domain.ErrAgreementNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
