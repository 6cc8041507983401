package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"rentalguru/internal/domain"
)

type tenantInvitationService struct {
	invitationRepo domain.TenantInvitationRepository
	agreementRepo  domain.AgreementRepository
	leaseRepo      domain.LeaseRepository
	resolver       domain.AssignmentResolver
	userRepo       domain.UserRepository
	roleRepo       domain.RoleRepository
	fileStore      domain.FileStore
	emailService   domain.EmailService
	logger         *slog.Logger
	frontendDomain string
}

// NewTenantInvitationService builds the tenant invitation lifecycle service.
func NewTenantInvitationService(
	invitationRepo domain.TenantInvitationRepository,
	agreementRepo domain.AgreementRepository,
	leaseRepo domain.LeaseRepository,
	resolver domain.AssignmentResolver,
	userRepo domain.UserRepository,
	roleRepo domain.RoleRepository,
	fileStore domain.FileStore,
	emailService domain.EmailService,
	logger *slog.Logger,
	frontendDomain string,
) domain.TenantInvitationService {
	return &tenantInvitationService{
		invitationRepo: invitationRepo,
		agreementRepo:  agreementRepo,
		leaseRepo:      leaseRepo,
		resolver:       resolver,
		userRepo:       userRepo,
		roleRepo:       roleRepo,
		fileStore:      fileStore,
		emailService:   emailService,
		logger:         logger,
		frontendDomain: frontendDomain,
	}
}

func (s *tenantInvitationService) Invite(ctx context.Context, senderID int64, in domain.TenantInviteInput) (*domain.TenantInvitationView, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("invalid email format")
	}
	if !in.TenantType.Valid() {
		return nil, fmt.Errorf("unknown tenant type %q", in.TenantType)
	}
	if !in.Assignment.Type.Valid() {
		return nil, fmt.Errorf("assignment_type must be either %q or %q", domain.AssignUnit, domain.AssignProperty)
	}

	if err := ensureNoRoleHolder(ctx, s.userRepo, s.roleRepo, email, domain.RoleTenant, domain.ErrTenantExists); err != nil {
		return nil, err
	}

	resource, err := s.resolver.Resolve(ctx, in.Assignment)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve assignment: %w", err)
	}
	if resource == nil || resource.OwnerID != senderID {
		// Ownership mismatch reads as not found so existence is not leaked.
		return nil, assignmentNotFound(in.Assignment.Type)
	}
	if resource.Status == domain.StatusOccupied {
		return nil, domain.ErrResourceOccupied
	}

	now := time.Now()
	key := domain.TenantInvitationKey{Email: email, TenantType: in.TenantType, SenderID: senderID, Assignment: in.Assignment}
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
			if err := s.invitationRepo.Delete(ctx, existing.ID); err != nil {
				return nil, fmt.Errorf("failed to replace expired invitation: %w", err)
			}
		}
	}
	// An invitation accepted under another sender or assignment means the
	// invitee is already a tenant, even before they finish signing up.
	if _, err := s.invitationRepo.GetAcceptedByEmail(ctx, email); err == nil {
		return nil, domain.ErrTenantExists
	} else if !errors.Is(err, domain.ErrInvitationNotFound) {
		return nil, fmt.Errorf("failed to check accepted invitations: %w", err)
	}

	agreementKey, err := s.fileStore.Upload(ctx, "tenant_agreements", in.LeaseAgreement)
	if err != nil {
		return nil, fmt.Errorf("failed to store lease agreement: %w", err)
	}

	inv := &domain.TenantInvitation{
		SenderID:        senderID,
		FirstName:       strings.TrimSpace(in.FirstName),
		LastName:        strings.TrimSpace(in.LastName),
		Email:           email,
		Assignment:      in.Assignment,
		TenantType:      in.TenantType,
		LeaseAmount:     in.LeaseAmount,
		SecurityDeposit: in.SecurityDeposit,
		LeaseStartDate:  in.LeaseStartDate,
		LeaseEndDate:    in.LeaseEndDate,
		ExpiredAt:       domain.NextExpiry(now),
	}
	agreement, err := s.invitationRepo.CreateWithAgreement(ctx, inv, agreementKey)
	if err != nil {
		return nil, err
	}

	ownerName := ""
	if sender, err := s.userRepo.GetByID(ctx, senderID); err == nil {
		ownerName = sender.FullName()
	}
	data := &domain.TenantInviteEmailData{
		Email:     inv.Email,
		FirstName: inv.FirstName,
		OwnerName: ownerName,
		SetupLink: tenantSetupLink(s.frontendDomain, inv.ID),
	}
	if err := s.emailService.SendTenantInvite(ctx, data); err != nil {
		return nil, fmt.Errorf("failed to send invitation email: %w", err)
	}

	view := &domain.TenantInvitationView{
		TenantInvitation: inv,
		AssignmentName:   resource.Name,
		LeaseEnded:       inv.LeaseEnded(now),
	}
	if url, err := s.fileStore.PresignURL(ctx, agreement.LeaseAgreementKey); err == nil {
		view.LeaseAgreementURL = url
	} else {
		s.logger.Warn("failed to presign lease agreement", "invitation_id", inv.ID, "err", err)
	}
	return view, nil
}

func (s *tenantInvitationService) List(ctx context.Context, senderID int64, filter domain.TenantInvitationFilter, p domain.PaginationParams) ([]*domain.TenantInvitationView, int, error) {
	invs, total, err := s.invitationRepo.List(ctx, senderID, filter, p)
	if err != nil {
		return nil, 0, err
	}
	now := time.Now()
	views := make([]*domain.TenantInvitationView, 0, len(invs))
	for _, inv := range invs {
		view := &domain.TenantInvitationView{
			TenantInvitation: inv,
			LeaseEnded:       inv.LeaseEnded(now),
		}
		resource, err := s.resolver.Resolve(ctx, inv.Assignment)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to resolve assignment: %w", err)
		}
		if resource != nil {
			view.AssignmentName = resource.Name
		}
		views = append(views, view)
	}
	return views, total, nil
}

func (s *tenantInvitationService) Countersign(ctx context.Context, in domain.CountersignInput) error {
	inv, err := s.invitationRepo.GetByID(ctx, in.InvitationID)
	if err != nil {
		return err
	}
	agreement, err := s.agreementRepo.LatestByInvitationID(ctx, inv.ID)
	if err != nil {
		return err
	}
	if err := domain.CanReject(inv.ExpiredAt, time.Now()); err != nil {
		return err
	}

	signedKey, err := s.fileStore.Upload(ctx, "tenant_signed_agreements", in.SignedAgreement)
	if err != nil {
		return fmt.Errorf("failed to store signed agreement: %w", err)
	}
	return s.leaseRepo.Countersign(ctx, inv.ID, agreement.ID, in.Agreed, signedKey)
}

func assignmentNotFound(t domain.AssignmentType) error {
	if t == domain.AssignProperty {
		return domain.ErrPropertyNotFound
	}
	return domain.ErrUnitNotFound
}
