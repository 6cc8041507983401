package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"rentalguru/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type vendorInvitationService struct {
	invitationRepo domain.VendorInvitationRepository
	userRepo       domain.UserRepository
	roleRepo       domain.RoleRepository
	emailService   domain.EmailService
	frontendDomain string
}

// NewVendorInvitationService builds the vendor invitation lifecycle service.
func NewVendorInvitationService(
	invitationRepo domain.VendorInvitationRepository,
	userRepo domain.UserRepository,
	roleRepo domain.RoleRepository,
	emailService domain.EmailService,
	frontendDomain string,
) domain.VendorInvitationService {
	return &vendorInvitationService{
		invitationRepo: invitationRepo,
		userRepo:       userRepo,
		roleRepo:       roleRepo,
		emailService:   emailService,
		frontendDomain: frontendDomain,
	}
}

func (s *vendorInvitationService) Invite(ctx context.Context, senderID int64, in domain.VendorInviteInput) (*domain.VendorInvitation, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("invalid email format")
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("unknown vendor role %q", in.Role)
	}

	if err := ensureNoRoleHolder(ctx, s.userRepo, s.roleRepo, email, domain.RoleVendor, domain.ErrVendorExists); err != nil {
		return nil, err
	}

	now := time.Now()
	key := domain.VendorInvitationKey{Email: email, Role: in.Role, SenderID: senderID}
	existing, err := s.invitationRepo.GetByKey(ctx, key)
	if err != nil && !errors.Is(err, domain.ErrInvitationNotFound) {
		return nil, fmt.Errorf("failed to check existing invitation: %w", err)
	}
	if existing != nil {
		switch {
		case existing.Accepted:
			return nil, domain.ErrInvitationAccepted
		case existing.ExpiredAt.After(now):
			return nil, domain.ErrInvitationAlreadySent
		default:
			// Expired and unaccepted: make room for a fresh invite.
			if err := s.invitationRepo.Delete(ctx, existing.ID); err != nil {
				return nil, fmt.Errorf("failed to replace expired invitation: %w", err)
			}
		}
	}
	// An invitation accepted under another sender or role means the invitee
	// is already a vendor, even before they finish signing up.
	if _, err := s.invitationRepo.GetAcceptedByEmail(ctx, email); err == nil {
		return nil, domain.ErrVendorExists
	} else if !errors.Is(err, domain.ErrInvitationNotFound) {
		return nil, fmt.Errorf("failed to check accepted invitations: %w", err)
	}

	inv := &domain.VendorInvitation{
		SenderID:  senderID,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     email,
		Role:      in.Role,
		ExpiredAt: domain.NextExpiry(now),
	}
	if err := s.invitationRepo.Create(ctx, inv); err != nil {
		return nil, err
	}

	data := &domain.VendorInviteEmailData{
		Email:     inv.Email,
		FirstName: inv.FirstName,
		LastName:  inv.LastName,
		Role:      string(inv.Role),
		SetupLink: vendorSetupLink(s.frontendDomain, inv.ID),
	}
	if err := s.emailService.SendVendorInvite(ctx, data); err != nil {
		return nil, fmt.Errorf("failed to send invitation email: %w", err)
	}
	return inv, nil
}

func (s *vendorInvitationService) List(ctx context.Context, senderID int64, filter domain.VendorInvitationFilter, p domain.PaginationParams) ([]*domain.VendorInvitation, int, error) {
	return s.invitationRepo.List(ctx, senderID, filter, p)
}

func (s *vendorInvitationService) Delete(ctx context.Context, senderID, invitationID int64) (string, error) {
	inv, err := s.invitationRepo.GetBySenderAndID(ctx, senderID, invitationID)
	if err != nil {
		return "", err
	}
	// An invited vendor who already registered is deregistered along with
	// the invitation.
	if err := s.userRepo.DeleteByEmail(ctx, inv.Email); err != nil {
		return "", fmt.Errorf("failed to delete vendor account: %w", err)
	}
	if err := s.invitationRepo.Delete(ctx, inv.ID); err != nil {
		return "", fmt.Errorf("failed to delete invitation: %w", err)
	}
	return inv.Email, nil
}

func (s *vendorInvitationService) SetBlocked(ctx context.Context, senderID, invitationID int64, blocked bool) (*domain.VendorInvitation, error) {
	inv, err := s.invitationRepo.GetBySenderAndID(ctx, senderID, invitationID)
	if err != nil {
		return nil, err
	}
	if err := s.invitationRepo.SetBlocked(ctx, inv.ID, blocked); err != nil {
		return nil, fmt.Errorf("failed to update invitation: %w", err)
	}
	if err := s.userRepo.SetBannedByEmail(ctx, inv.Email, blocked); err != nil {
		return nil, fmt.Errorf("failed to sync account ban: %w", err)
	}
	inv.Blocked = blocked
	return inv, nil
}

// ensureNoRoleHolder fails with roleErr when an account with the email
// already holds the given role.
func ensureNoRoleHolder(ctx context.Context, userRepo domain.UserRepository, roleRepo domain.RoleRepository, email, roleCode string, roleErr error) error {
	user, err := userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up invitee: %w", err)
	}
	roles, err := roleRepo.ListByUserID(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to load invitee roles: %w", err)
	}
	for _, r := range roles {
		if r.Code == roleCode {
			return roleErr
		}
	}
	return nil
}

func vendorSetupLink(frontendDomain string, invitationID int64) string {
	return fmt.Sprintf("%s/auth/signup?vendor=true&invitation_id=%d", frontendDomain, invitationID)
}

func tenantSetupLink(frontendDomain string, invitationID int64) string {
	return fmt.Sprintf("%s/auth/signup?tenant=true&invitation_id=%d", frontendDomain, invitationID)
}
