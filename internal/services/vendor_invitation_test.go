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

// fakeVendorInvitationRepo is an in-memory VendorInvitationRepository for tests.
type fakeVendorInvitationRepo struct {
	byID      map[int64]*domain.VendorInvitation
	nextID    int64
	createErr error
	deleteErr error
}

func newFakeVendorInvitationRepo() *fakeVendorInvitationRepo {
	return &fakeVendorInvitationRepo{byID: make(map[int64]*domain.VendorInvitation), nextID: 1}
}

func (f *fakeVendorInvitationRepo) Create(ctx context.Context, inv *domain.VendorInvitation) error {
	if f.createErr != nil {
		return f.createErr
	}
	inv.ID = f.nextID
	f.nextID++
	inv.CreatedAt = time.Now()
	inv.UpdatedAt = inv.CreatedAt
	f.byID[inv.ID] = inv
	return nil
}

func (f *fakeVendorInvitationRepo) GetByID(ctx context.Context, id int64) (*domain.VendorInvitation, error) {
	if inv, ok := f.byID[id]; ok {
		return inv, nil
	}
	return nil, domain.ErrInvitationNotFound
}

func (f *fakeVendorInvitationRepo) GetBySenderAndID(ctx context.Context, senderID, id int64) (*domain.VendorInvitation, error) {
	if inv, ok := f.byID[id]; ok && inv.SenderID == senderID {
		return inv, nil
	}
	return nil, domain.ErrInvitationNotFound
}

func (f *fakeVendorInvitationRepo) GetByKey(ctx context.Context, key domain.VendorInvitationKey) (*domain.VendorInvitation, error) {
	for _, inv := range f.byID {
		if inv.Email == key.Email && inv.Role == key.Role && inv.SenderID == key.SenderID {
			return inv, nil
		}
	}
	return nil, domain.ErrInvitationNotFound
}

func (f *fakeVendorInvitationRepo) GetAcceptedByEmail(ctx context.Context, email string) (*domain.VendorInvitation, error) {
	for _, inv := range f.byID {
		if inv.Email == email && inv.Accepted {
			return inv, nil
		}
	}
	return nil, domain.ErrInvitationNotFound
}

func (f *fakeVendorInvitationRepo) List(ctx context.Context, senderID int64, filter domain.VendorInvitationFilter, p domain.PaginationParams) ([]*domain.VendorInvitation, int, error) {
	var out []*domain.VendorInvitation
	for _, inv := range f.byID {
		if inv.SenderID != senderID {
			continue
		}
		if filter.Role != nil && inv.Role != *filter.Role {
			continue
		}
		if filter.Accepted != nil && inv.Accepted != *filter.Accepted {
			continue
		}
		if filter.Blocked != nil && inv.Blocked != *filter.Blocked {
			continue
		}
		if filter.Search != "" && !strings.Contains(inv.Email, filter.Search) {
			continue
		}
		out = append(out, inv)
	}
	return out, len(out), nil
}

func (f *fakeVendorInvitationRepo) SetBlocked(ctx context.Context, id int64, blocked bool) error {
	inv, ok := f.byID[id]
	if !ok {
		return domain.ErrInvitationNotFound
	}
	inv.Blocked = blocked
	return nil
}

func (f *fakeVendorInvitationRepo) SetAccepted(ctx context.Context, id int64, accepted bool) error {
	inv, ok := f.byID[id]
	if !ok {
		return domain.ErrInvitationNotFound
	}
	inv.Accepted = accepted
	return nil
}

func (f *fakeVendorInvitationRepo) RefreshExpiry(ctx context.Context, id int64, expiredAt time.Time) error {
	inv, ok := f.byID[id]
	if !ok {
		return domain.ErrInvitationNotFound
	}
	inv.ExpiredAt = expiredAt
	return nil
}

func (f *fakeVendorInvitationRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrInvitationNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	byID       map[int64]*domain.User
	byEmail    map[string]*domain.User
	roles      map[int64][]int64 // userID -> roleIDs
	otpHash    map[int64]string
	nextID     int64
	createErr  error
	consumeErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[int64]*domain.User),
		byEmail: make(map[string]*domain.User),
		roles:   make(map[int64][]int64),
		otpHash: make(map[int64]string),
		nextID:  1,
	}
}

func (f *fakeUserRepo) add(u *domain.User) {
	if u.ID == 0 {
		u.ID = f.nextID
		f.nextID++
	}
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byEmail[user.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	f.add(user)
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) SetEmailVerified(ctx context.Context, id int64, verified bool) error {
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.EmailVerified = verified
	return nil
}

func (f *fakeUserRepo) SetBannedByEmail(ctx context.Context, email string, banned bool) error {
	if u, ok := f.byEmail[email]; ok {
		u.Banned = banned
	}
	return nil
}

func (f *fakeUserRepo) DeleteByEmail(ctx context.Context, email string) error {
	if u, ok := f.byEmail[email]; ok {
		delete(f.byID, u.ID)
		delete(f.byEmail, email)
	}
	return nil
}

func (f *fakeUserRepo) SetOTP(ctx context.Context, id int64, otpHash string, expiresAt time.Time) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	f.otpHash[id] = otpHash
	return nil
}

func (f *fakeUserRepo) ConsumeOTP(ctx context.Context, email, otpHash string) (bool, error) {
	if f.consumeErr != nil {
		return false, f.consumeErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return false, nil
	}
	if f.otpHash[u.ID] != otpHash {
		return false, nil
	}
	delete(f.otpHash, u.ID)
	return true, nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id int64, salt, passwordHash string) error {
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Salt = salt
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeUserRepo) AssignRole(ctx context.Context, userID, roleID int64) error {
	f.roles[userID] = append(f.roles[userID], roleID)
	return nil
}

// fakeRoleRepo is an in-memory RoleRepository for tests.
type fakeRoleRepo struct {
	byCode    map[string]*domain.Role
	listByUID map[int64][]*domain.Role
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{
		byCode: map[string]*domain.Role{
			domain.RolePropertyOwner: {ID: 1, Code: domain.RolePropertyOwner},
			domain.RoleVendor:        {ID: 2, Code: domain.RoleVendor},
			domain.RoleTenant:        {ID: 3, Code: domain.RoleTenant},
		},
		listByUID: make(map[int64][]*domain.Role),
	}
}

func (f *fakeRoleRepo) GetByCode(ctx context.Context, code string) (*domain.Role, error) {
	if r, ok := f.byCode[code]; ok {
		return r, nil
	}
	return nil, errors.New("role not found")
}

func (f *fakeRoleRepo) ListByUserID(ctx context.Context, userID int64) ([]*domain.Role, error) {
	return f.listByUID[userID], nil
}

// fakeEmailService records the domain emails it was asked to send.
type fakeEmailService struct {
	vendorInvites []*domain.VendorInviteEmailData
	tenantInvites []*domain.TenantInviteEmailData
	otps          []*domain.SignupOTPEmailData
	resets        []*domain.PasswordResetEmailData
	err           error
}

func (f *fakeEmailService) SendVendorInvite(ctx context.Context, data *domain.VendorInviteEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.vendorInvites = append(f.vendorInvites, data)
	return nil
}

func (f *fakeEmailService) SendTenantInvite(ctx context.Context, data *domain.TenantInviteEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.tenantInvites = append(f.tenantInvites, data)
	return nil
}

func (f *fakeEmailService) SendSignupOTP(ctx context.Context, data *domain.SignupOTPEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.otps = append(f.otps, data)
	return nil
}

func (f *fakeEmailService) SendPasswordReset(ctx context.Context, data *domain.PasswordResetEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.resets = append(f.resets, data)
	return nil
}

func TestVendorInvitationService_Invite(t *testing.T) {
	ctx := context.Background()
	const senderID = int64(10)

	tests := []struct {
		name    string
		setup   func(repo *fakeVendorInvitationRepo, users *fakeUserRepo, roles *fakeRoleRepo)
		input   domain.VendorInviteInput
		wantErr error
		assert  func(t *testing.T, repo *fakeVendorInvitationRepo, emails *fakeEmailService, inv *domain.VendorInvitation)
	}{
		{
			name:  "success",
			setup: func(_ *fakeVendorInvitationRepo, _ *fakeUserRepo, _ *fakeRoleRepo) {},
			input: domain.VendorInviteInput{FirstName: "Dana", LastName: "Lee", Email: "Dana.Lee@Example.com", Role: "home_cleaning"},
			assert: func(t *testing.T, repo *fakeVendorInvitationRepo, emails *fakeEmailService, inv *domain.VendorInvitation) {
				require.NotZero(t, inv.ID)
				assert.Equal(t, "dana.lee@example.com", inv.Email)
				assert.Equal(t, senderID, inv.SenderID)
				assert.WithinDuration(t, time.Now().Add(domain.ExpiryWindow), inv.ExpiredAt, time.Minute)
				require.Len(t, emails.vendorInvites, 1)
				assert.Equal(t, "dana.lee@example.com", emails.vendorInvites[0].Email)
				assert.Contains(t, emails.vendorInvites[0].SetupLink, "vendor=true")
			},
		},
		{
			name:    "invalid email",
			setup:   func(_ *fakeVendorInvitationRepo, _ *fakeUserRepo, _ *fakeRoleRepo) {},
			input:   domain.VendorInviteInput{Email: "not-an-email", Role: "home_cleaning"},
			wantErr: errors.New("invalid email format"),
		},
		{
			name:    "unknown role",
			setup:   func(_ *fakeVendorInvitationRepo, _ *fakeUserRepo, _ *fakeRoleRepo) {},
			input:   domain.VendorInviteInput{Email: "dana@example.com", Role: "dog_walking"},
			wantErr: errors.New("unknown vendor role"),
		},
		{
			name: "invitee already a vendor",
			setup: func(_ *fakeVendorInvitationRepo, users *fakeUserRepo, roles *fakeRoleRepo) {
				users.add(&domain.User{Email: "dana@example.com"})
				roles.listByUID[1] = []*domain.Role{{ID: 2, Code: domain.RoleVendor}}
			},
			input:   domain.VendorInviteInput{Email: "dana@example.com", Role: "home_cleaning"},
			wantErr: domain.ErrVendorExists,
		},
		{
			name: "existing account without the vendor role is fine",
			setup: func(_ *fakeVendorInvitationRepo, users *fakeUserRepo, roles *fakeRoleRepo) {
				users.add(&domain.User{Email: "dana@example.com"})
				roles.listByUID[1] = []*domain.Role{{ID: 1, Code: domain.RolePropertyOwner}}
			},
			input: domain.VendorInviteInput{Email: "dana@example.com", Role: "home_cleaning"},
			assert: func(t *testing.T, repo *fakeVendorInvitationRepo, emails *fakeEmailService, inv *domain.VendorInvitation) {
				require.NotZero(t, inv.ID)
				assert.Len(t, emails.vendorInvites, 1)
			},
		},
		{
			name: "live duplicate",
			setup: func(repo *fakeVendorInvitationRepo, _ *fakeUserRepo, _ *fakeRoleRepo) {
				repo.byID[5] = &domain.VendorInvitation{
					ID: 5, SenderID: senderID, Email: "dana@example.com",
					Role: "home_cleaning", ExpiredAt: time.Now().Add(time.Hour),
				}
			},
			input:   domain.VendorInviteInput{Email: "dana@example.com", Role: "home_cleaning"},
			wantErr: domain.ErrInvitationAlreadySent,
		},
		{
			name: "accepted duplicate",
			setup: func(repo *fakeVendorInvitationRepo, _ *fakeUserRepo, _ *fakeRoleRepo) {
				repo.byID[5] = &domain.VendorInvitation{
					ID: 5, SenderID: senderID, Email: "dana@example.com",
					Role: "home_cleaning", Accepted: true, ExpiredAt: time.Now().Add(-time.Hour),
				}
			},
			input:   domain.VendorInviteInput{Email: "dana@example.com", Role: "home_cleaning"},
			wantErr: domain.ErrInvitationAccepted,
		},
		{
			name: "expired duplicate is replaced",
			setup: func(repo *fakeVendorInvitationRepo, _ *fakeUserRepo, _ *fakeRoleRepo) {
				repo.byID[5] = &domain.VendorInvitation{
					ID: 5, SenderID: senderID, Email: "dana@example.com",
					Role: "home_cleaning", ExpiredAt: time.Now().Add(-time.Hour),
				}
				repo.nextID = 6
			},
			input: domain.VendorInviteInput{Email: "dana@example.com", Role: "home_cleaning"},
			assert: func(t *testing.T, repo *fakeVendorInvitationRepo, emails *fakeEmailService, inv *domain.VendorInvitation) {
				_, stale := repo.byID[5]
				assert.False(t, stale)
				require.NotZero(t, inv.ID)
				assert.True(t, inv.ExpiredAt.After(time.Now()))
			},
		},
		{
			name: "same email different role is a fresh invite",
			setup: func(repo *fakeVendorInvitationRepo, _ *fakeUserRepo, _ *fakeRoleRepo) {
				repo.byID[5] = &domain.VendorInvitation{
					ID: 5, SenderID: senderID, Email: "dana@example.com",
					Role: "landscaping", ExpiredAt: time.Now().Add(time.Hour),
				}
				repo.nextID = 6
			},
			input: domain.VendorInviteInput{Email: "dana@example.com", Role: "home_cleaning"},
			assert: func(t *testing.T, repo *fakeVendorInvitationRepo, emails *fakeEmailService, inv *domain.VendorInvitation) {
				assert.Len(t, repo.byID, 2)
			},
		},
		{
			name: "invitation accepted under another sender",
			setup: func(repo *fakeVendorInvitationRepo, _ *fakeUserRepo, _ *fakeRoleRepo) {
				repo.byID[7] = &domain.VendorInvitation{
					ID: 7, SenderID: 99, Email: "dana@example.com",
					Role: "landscaping", Accepted: true,
					ExpiredAt: time.Now().Add(-time.Hour),
				}
				repo.nextID = 8
			},
			input:   domain.VendorInviteInput{FirstName: "Dana", Email: "dana@example.com", Role: "home_cleaning"},
			wantErr: domain.ErrVendorExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeVendorInvitationRepo()
			users := newFakeUserRepo()
			roles := newFakeRoleRepo()
			emails := &fakeEmailService{}
			tt.setup(repo, users, roles)
			svc := NewVendorInvitationService(repo, users, roles, emails, "https://app.example.com")

			inv, err := svc.Invite(ctx, senderID, tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, domain.ErrVendorExists) ||
					errors.Is(tt.wantErr, domain.ErrInvitationAlreadySent) ||
					errors.Is(tt.wantErr, domain.ErrInvitationAccepted) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.Contains(t, err.Error(), tt.wantErr.Error())
				}
				return
			}
			require.NoError(t, err)
			require.NotNil(t, inv)
			if tt.assert != nil {
				tt.assert(t, repo, emails, inv)
			}
		})
	}
}

func TestVendorInvitationService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := newFakeVendorInvitationRepo()
	users := newFakeUserRepo()
	users.add(&domain.User{Email: "gone@example.com"})
	repo.byID[7] = &domain.VendorInvitation{ID: 7, SenderID: 10, Email: "gone@example.com", Role: "landscaping"}
	svc := NewVendorInvitationService(repo, users, newFakeRoleRepo(), &fakeEmailService{}, "https://app.example.com")

	email, err := svc.Delete(ctx, 10, 7)
	require.NoError(t, err)
	assert.Equal(t, "gone@example.com", email)
	assert.Empty(t, repo.byID)
	_, err = users.GetByEmail(ctx, "gone@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	// Another sender's invitation is invisible.
	repo.byID[8] = &domain.VendorInvitation{ID: 8, SenderID: 99, Email: "other@example.com", Role: "landscaping"}
	_, err = svc.Delete(ctx, 10, 8)
	assert.ErrorIs(t, err, domain.ErrInvitationNotFound)
}

func TestVendorInvitationService_SetBlocked(t *testing.T) {
	ctx := context.Background()
	repo := newFakeVendorInvitationRepo()
	users := newFakeUserRepo()
	users.add(&domain.User{Email: "v@example.com"})
	repo.byID[3] = &domain.VendorInvitation{ID: 3, SenderID: 10, Email: "v@example.com", Role: "pest_control"}
	svc := NewVendorInvitationService(repo, users, newFakeRoleRepo(), &fakeEmailService{}, "https://app.example.com")

	inv, err := svc.SetBlocked(ctx, 10, 3, true)
	require.NoError(t, err)
	assert.True(t, inv.Blocked)
	u, err := users.GetByEmail(ctx, "v@example.com")
	require.NoError(t, err)
	assert.True(t, u.Banned, "blocking the invitation bans the registered account")

	inv, err = svc.SetBlocked(ctx, 10, 3, false)
	require.NoError(t, err)
	assert.False(t, inv.Blocked)
	u, _ = users.GetByEmail(ctx, "v@example.com")
	assert.False(t, u.Banned)
}
