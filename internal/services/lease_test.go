package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"rentalguru/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaseService_End(t *testing.T) {
	ctx := context.Background()
	assignment := domain.Assignment{Type: domain.AssignUnit, ID: 9}

	newSvc := func(inv *domain.TenantInvitation) (domain.LeaseService, *fakeLeaseRepo) {
		invitations := newFakeTenantInvitationRepo()
		invitations.byID[inv.ID] = inv
		leases := newFakeLeaseRepo()
		return NewLeaseService(invitations, leases, &fakeFileStore{}), leases
	}

	t.Run("success", func(t *testing.T) {
		inv := &domain.TenantInvitation{
			ID: 1, SenderID: 10, Accepted: true, Assignment: assignment,
			LeaseEndDate: time.Now().AddDate(0, 6, 0),
		}
		svc, leases := newSvc(inv)
		require.NoError(t, svc.End(ctx, 10, 1))
		assert.Equal(t, []int64{1}, leases.ended)
	})

	t.Run("on the final lease day", func(t *testing.T) {
		inv := &domain.TenantInvitation{
			ID: 1, SenderID: 10, Accepted: true, Assignment: assignment,
			LeaseEndDate: time.Now(),
		}
		svc, leases := newSvc(inv)
		require.NoError(t, svc.End(ctx, 10, 1))
		assert.Equal(t, []int64{1}, leases.ended)
	})

	t.Run("never accepted", func(t *testing.T) {
		inv := &domain.TenantInvitation{ID: 1, SenderID: 10, LeaseEndDate: time.Now().AddDate(0, 6, 0)}
		svc, leases := newSvc(inv)
		err := svc.End(ctx, 10, 1)
		assert.ErrorIs(t, err, domain.ErrLeaseNotActive)
		assert.Empty(t, leases.ended)
	})

	t.Run("already ended", func(t *testing.T) {
		inv := &domain.TenantInvitation{
			ID: 1, SenderID: 10, Accepted: true, Assignment: assignment,
			LeaseEndDate: time.Now().AddDate(0, 0, -1),
		}
		svc, leases := newSvc(inv)
		err := svc.End(ctx, 10, 1)
		assert.ErrorIs(t, err, domain.ErrLeaseAlreadyEnded)
		assert.Empty(t, leases.ended)
	})

	t.Run("another sender's invitation", func(t *testing.T) {
		inv := &domain.TenantInvitation{ID: 1, SenderID: 99, Accepted: true, LeaseEndDate: time.Now().AddDate(0, 6, 0)}
		svc, _ := newSvc(inv)
		err := svc.End(ctx, 10, 1)
		assert.ErrorIs(t, err, domain.ErrInvitationNotFound)
	})

	t.Run("repo failure surfaces", func(t *testing.T) {
		inv := &domain.TenantInvitation{
			ID: 1, SenderID: 10, Accepted: true, Assignment: assignment,
			LeaseEndDate: time.Now().AddDate(0, 6, 0),
		}
		svc, leases := newSvc(inv)
		leases.endErr = errors.New("db down")
		require.Error(t, svc.End(ctx, 10, 1))
	})
}

func TestLeaseService_Renew(t *testing.T) {
	ctx := context.Background()
	renewal := domain.LeaseRenewal{
		LeaseStartDate: time.Now().AddDate(0, 0, 1),
		LeaseEndDate:   time.Now().AddDate(1, 0, 1),
		LeaseAmount:    300000,
	}
	agreement := domain.FileUpload{Filename: "renewal.pdf", Content: strings.NewReader("pdf"), Size: 3}

	t.Run("success", func(t *testing.T) {
		invitations := newFakeTenantInvitationRepo()
		invitations.byID[2] = &domain.TenantInvitation{ID: 2, SenderID: 10, Accepted: true}
		leases := newFakeLeaseRepo()
		files := &fakeFileStore{}
		svc := NewLeaseService(invitations, leases, files)

		require.NoError(t, svc.Renew(ctx, 10, 2, renewal, agreement))
		assert.Equal(t, []int64{2}, leases.renewed)
		require.Len(t, files.uploads, 1)
		assert.True(t, strings.HasPrefix(files.uploads[0], "tenant_agreements/"))
	})

	t.Run("inactive lease", func(t *testing.T) {
		invitations := newFakeTenantInvitationRepo()
		invitations.byID[2] = &domain.TenantInvitation{ID: 2, SenderID: 10}
		leases := newFakeLeaseRepo()
		files := &fakeFileStore{}
		svc := NewLeaseService(invitations, leases, files)

		err := svc.Renew(ctx, 10, 2, renewal, agreement)
		assert.ErrorIs(t, err, domain.ErrLeaseNotActive)
		assert.Empty(t, files.uploads)
	})

	t.Run("upload failure", func(t *testing.T) {
		invitations := newFakeTenantInvitationRepo()
		invitations.byID[2] = &domain.TenantInvitation{ID: 2, SenderID: 10, Accepted: true}
		leases := newFakeLeaseRepo()
		svc := NewLeaseService(invitations, leases, &fakeFileStore{uploadErr: errors.New("s3 down")})

		require.Error(t, svc.Renew(ctx, 10, 2, renewal, agreement))
		assert.Empty(t, leases.renewed)
	})
}
