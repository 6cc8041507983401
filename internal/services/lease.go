package services

import (
	"context"
	"fmt"
	"time"

	"rentalguru/internal/domain"
)

type leaseService struct {
	invitationRepo domain.TenantInvitationRepository
	leaseRepo      domain.LeaseRepository
	fileStore      domain.FileStore
}

// NewLeaseService builds the lease lifecycle service layered on accepted
// tenant invitations.
func NewLeaseService(
	invitationRepo domain.TenantInvitationRepository,
	leaseRepo domain.LeaseRepository,
	fileStore domain.FileStore,
) domain.LeaseService {
	return &leaseService{
		invitationRepo: invitationRepo,
		leaseRepo:      leaseRepo,
		fileStore:      fileStore,
	}
}

func (s *leaseService) End(ctx context.Context, senderID, invitationID int64) error {
	inv, err := s.invitationRepo.GetBySenderAndID(ctx, senderID, invitationID)
	if err != nil {
		return err
	}
	now := time.Now()
	if !inv.Accepted {
		return domain.ErrLeaseNotActive
	}
	if inv.LeaseEndInPast(now) {
		return domain.ErrLeaseAlreadyEnded
	}
	assignment := inv.Assignment
	if err := s.leaseRepo.EndLease(ctx, inv.ID, now, &assignment); err != nil {
		return fmt.Errorf("failed to end lease: %w", err)
	}
	return nil
}

func (s *leaseService) Renew(ctx context.Context, senderID, invitationID int64, renewal domain.LeaseRenewal, agreement domain.FileUpload) error {
	inv, err := s.invitationRepo.GetBySenderAndID(ctx, senderID, invitationID)
	if err != nil {
		return err
	}
	if !inv.Accepted {
		return domain.ErrLeaseNotActive
	}
	key, err := s.fileStore.Upload(ctx, "tenant_agreements", agreement)
	if err != nil {
		return fmt.Errorf("failed to store lease agreement: %w", err)
	}
	if _, err := s.leaseRepo.RenewLease(ctx, inv.ID, renewal, key); err != nil {
		return fmt.Errorf("failed to renew lease: %w", err)
	}
	return nil
}
