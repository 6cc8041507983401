package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"rentalguru/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func vendorRows(inv *domain.VendorInvitation) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "sender_id", "first_name", "last_name", "email", "role",
		"accepted", "blocked", "created_at", "updated_at", "expired_at",
	}).AddRow(
		inv.ID, inv.SenderID, inv.FirstName, inv.LastName, inv.Email, inv.Role,
		inv.Accepted, inv.Blocked, inv.CreatedAt, inv.UpdatedAt, inv.ExpiredAt,
	)
}

func TestVendorInvitationRepository_Create(t *testing.T) {
	ctx := context.Background()
	expiry := time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		inv     *domain.VendorInvitation
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			inv: &domain.VendorInvitation{
				SenderID:  7,
				FirstName: "Pat",
				LastName:  "Miller",
				Email:     "pat@example.com",
				Role:      "plumber",
				ExpiredAt: expiry,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO vendor_invitations \(sender_id, first_name, last_name, email, role, expired_at\)`).
					WithArgs(int64(7), "Pat", "Miller", "pat@example.com", domain.VendorRole("plumber"), expiry).
					WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
						AddRow(int64(42), time.Now(), time.Now()))
			},
		},
		{
			name: "duplicate key maps to already sent",
			inv: &domain.VendorInvitation{
				SenderID: 7, FirstName: "Pat", Email: "pat@example.com", Role: "plumber", ExpiredAt: expiry,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO vendor_invitations`).
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: domain.ErrInvitationAlreadySent,
		},
		{
			name: "db error passes through",
			inv: &domain.VendorInvitation{
				SenderID: 7, Email: "pat@example.com", Role: "plumber", ExpiredAt: expiry,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO vendor_invitations`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewVendorInvitationRepository(db)
			err = repo.Create(ctx, tt.inv)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, int64(42), tt.inv.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestVendorInvitationRepository_GetByKey(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	stored := &domain.VendorInvitation{
		ID: 3, SenderID: 7, FirstName: "Pat", LastName: "Miller",
		Email: "pat@example.com", Role: "plumber",
		CreatedAt: now, UpdatedAt: now, ExpiredAt: now.Add(5 * 24 * time.Hour),
	}

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, sender_id, first_name, last_name, email, role, accepted, blocked, created_at, updated_at, expired_at`).
		WithArgs("pat@example.com", domain.VendorRole("plumber"), int64(7)).
		WillReturnRows(vendorRows(stored))

	repo := NewVendorInvitationRepository(db)
	got, err := repo.GetByKey(ctx, domain.VendorInvitationKey{
		Email: "pat@example.com", Role: "plumber", SenderID: 7,
	})
	require.NoError(t, err)
	require.Equal(t, stored.ID, got.ID)
	require.Equal(t, stored.Email, got.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorInvitationRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, sender_id, first_name, last_name, email, role`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	repo := NewVendorInvitationRepository(db)
	_, err = repo.GetByID(context.Background(), 99)
	require.ErrorIs(t, err, domain.ErrInvitationNotFound)
}

func TestVendorInvitationRepository_SetAccepted(t *testing.T) {
	tests := []struct {
		name    string
		rows    int64
		wantErr error
	}{
		{"success", 1, nil},
		{"missing invitation", 0, domain.ErrInvitationNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectExec(`UPDATE vendor_invitations SET accepted = \$1, updated_at = NOW\(\) WHERE id = \$2`).
				WithArgs(true, int64(5)).
				WillReturnResult(sqlmock.NewResult(0, tt.rows))

			repo := NewVendorInvitationRepository(db)
			err = repo.SetAccepted(context.Background(), 5, true)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestVendorInvitationRepository_List_Filters(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)
	role := domain.VendorRole("plumber")
	accepted := false

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM vendor_invitations WHERE sender_id = \$1 AND role = \$2 AND accepted = \$3`).
		WithArgs(int64(7), role, accepted).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT .+ FROM vendor_invitations\s+WHERE sender_id = \$1 AND role = \$2 AND accepted = \$3\s+ORDER BY created_at DESC`).
		WithArgs(int64(7), role, accepted, 20, 0).
		WillReturnRows(vendorRows(&domain.VendorInvitation{
			ID: 3, SenderID: 7, FirstName: "Pat", Email: "pat@example.com", Role: role,
			CreatedAt: now, UpdatedAt: now, ExpiredAt: now.Add(24 * time.Hour),
		}))

	repo := NewVendorInvitationRepository(db)
	invs, total, err := repo.List(ctx, 7, domain.VendorInvitationFilter{
		Role: &role, Accepted: &accepted,
	}, domain.PaginationParams{Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, invs, 1)
	require.Equal(t, int64(3), invs[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
