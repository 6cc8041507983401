package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rentalguru/internal/domain"
)

type invitationService struct {
	vendorRepo     domain.VendorInvitationRepository
	tenantRepo     domain.TenantInvitationRepository
	resolver       domain.AssignmentResolver
	userRepo       domain.UserRepository
	emailService   domain.EmailService
	frontendDomain string
}

// NewInvitationService builds the public invitation service: lookup,
// accept/reject, and resend across both invitation kinds.
func NewInvitationService(
	vendorRepo domain.VendorInvitationRepository,
	tenantRepo domain.TenantInvitationRepository,
	resolver domain.AssignmentResolver,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	frontendDomain string,
) domain.InvitationService {
	return &invitationService{
		vendorRepo:     vendorRepo,
		tenantRepo:     tenantRepo,
		resolver:       resolver,
		userRepo:       userRepo,
		emailService:   emailService,
		frontendDomain: frontendDomain,
	}
}

func (s *invitationService) Details(ctx context.Context, id int64, vendor, tenant bool) (*domain.InvitationDetails, error) {
	if !vendor && !tenant {
		return nil, fmt.Errorf("either vendor or tenant must be set")
	}
	now := time.Now()

	if vendor {
		inv, err := s.vendorRepo.GetByID(ctx, id)
		if err == nil {
			if err := domain.CanReject(inv.ExpiredAt, now); err != nil {
				return nil, err
			}
			details := &domain.InvitationDetails{
				ID:         inv.ID,
				Kind:       "vendor",
				FirstName:  inv.FirstName,
				LastName:   inv.LastName,
				Email:      inv.Email,
				SenderName: s.senderName(ctx, inv.SenderID),
				Role:       &inv.Role,
				ExpiredAt:  inv.ExpiredAt,
			}
			return details, nil
		}
		if !tenant {
			return nil, err
		}
	}

	inv, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := domain.CanReject(inv.ExpiredAt, now); err != nil {
		return nil, err
	}
	return &domain.InvitationDetails{
		ID:         inv.ID,
		Kind:       "tenant",
		FirstName:  inv.FirstName,
		LastName:   inv.LastName,
		Email:      inv.Email,
		SenderName: s.senderName(ctx, inv.SenderID),
		TenantType: &inv.TenantType,
		Assignment: &inv.Assignment,
		LeaseStart: &inv.LeaseStartDate,
		LeaseEnd:   &inv.LeaseEndDate,
		ExpiredAt:  inv.ExpiredAt,
	}, nil
}

func (s *invitationService) Respond(ctx context.Context, id int64, accept, vendor, tenant bool) error {
	if vendor == tenant {
		return fmt.Errorf("exactly one of vendor or tenant must be set")
	}
	now := time.Now()

	if vendor {
		inv, err := s.vendorRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := respondGuard(inv.Accepted, inv.ExpiredAt, now, accept); err != nil {
			return err
		}
		return s.vendorRepo.SetAccepted(ctx, inv.ID, accept)
	}

	inv, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := respondGuard(inv.Accepted, inv.ExpiredAt, now, accept); err != nil {
		return err
	}
	if accept {
		// Claim occupancy before flipping acceptance so a lost race leaves
		// the invitation untouched.
		if err := s.resolver.Claim(ctx, inv.Assignment); err != nil {
			if errors.Is(err, domain.ErrResourceNotVacant) {
				return domain.ErrResourceOccupied
			}
			return fmt.Errorf("failed to claim assignment: %w", err)
		}
	}
	return s.tenantRepo.SetAccepted(ctx, inv.ID, accept)
}

func (s *invitationService) Resend(ctx context.Context, id int64, role string) error {
	now := time.Now()
	switch role {
	case domain.RoleVendor:
		inv, err := s.vendorRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := domain.CanResend(inv.Accepted); err != nil {
			return err
		}
		data := &domain.VendorInviteEmailData{
			Email:     inv.Email,
			FirstName: inv.FirstName,
			LastName:  inv.LastName,
			Role:      string(inv.Role),
			SetupLink: vendorSetupLink(s.frontendDomain, inv.ID),
		}
		if err := s.emailService.SendVendorInvite(ctx, data); err != nil {
			return fmt.Errorf("failed to resend invitation email: %w", err)
		}
		return s.vendorRepo.RefreshExpiry(ctx, inv.ID, domain.NextExpiry(now))
	case domain.RoleTenant:
		inv, err := s.tenantRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := domain.CanResend(inv.Accepted); err != nil {
			return err
		}
		data := &domain.TenantInviteEmailData{
			Email:     inv.Email,
			FirstName: inv.FirstName,
			OwnerName: s.senderName(ctx, inv.SenderID),
			SetupLink: tenantSetupLink(s.frontendDomain, inv.ID),
		}
		if err := s.emailService.SendTenantInvite(ctx, data); err != nil {
			return fmt.Errorf("failed to resend invitation email: %w", err)
		}
		return s.tenantRepo.RefreshExpiry(ctx, inv.ID, domain.NextExpiry(now))
	default:
		return fmt.Errorf("role must be %q or %q", domain.RoleVendor, domain.RoleTenant)
	}
}

func (s *invitationService) senderName(ctx context.Context, senderID int64) string {
	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return ""
	}
	return sender.FullName()
}

func respondGuard(accepted bool, expiredAt, now time.Time, accept bool) error {
	if accept {
		return domain.CanAccept(accepted, expiredAt, now)
	}
	return domain.CanReject(expiredAt, now)
}
