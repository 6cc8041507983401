package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"rentalguru/internal/domain"
)

const (
	otpDigits     = 4
	otpExpiryMins = 10
)

type userService struct {
	userRepo     domain.UserRepository
	roleRepo     domain.RoleRepository
	vendorRepo   domain.VendorInvitationRepository
	tenantRepo   domain.TenantInvitationRepository
	resolver     domain.AssignmentResolver
	hasher       domain.PasswordHasher
	tokenIssuer  domain.TokenIssuer
	tokenExpiry  time.Duration
	emailService domain.EmailService
	logger       *slog.Logger
}

// NewUserService builds the registration and authentication service. Signup
// with an invitation id accepts that invitation in the same flow.
func NewUserService(
	userRepo domain.UserRepository,
	roleRepo domain.RoleRepository,
	vendorRepo domain.VendorInvitationRepository,
	tenantRepo domain.TenantInvitationRepository,
	resolver domain.AssignmentResolver,
	hasher domain.PasswordHasher,
	tokenIssuer domain.TokenIssuer,
	tokenExpiry time.Duration,
	emailService domain.EmailService,
	logger *slog.Logger,
) domain.UserService {
	return &userService{
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		vendorRepo:   vendorRepo,
		tenantRepo:   tenantRepo,
		resolver:     resolver,
		hasher:       hasher,
		tokenIssuer:  tokenIssuer,
		tokenExpiry:  tokenExpiry,
		emailService: emailService,
		logger:       logger,
	}
}

func (s *userService) SignUp(ctx context.Context, in domain.SignupInput) (*domain.AuthResult, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("invalid email format")
	}
	if len(in.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	invited := in.InvitationID != nil && in.InvitationRole != ""
	if invited && in.InvitationRole != domain.RoleVendor && in.InvitationRole != domain.RoleTenant {
		return nil, fmt.Errorf("invitation_role must be %q or %q", domain.RoleVendor, domain.RoleTenant)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PhoneNumber:  in.PhoneNumber,
		PasswordHash: hash,
		Salt:         salt,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	roleCode := domain.RolePropertyOwner
	if invited {
		roleCode = in.InvitationRole
		accepted, err := s.acceptInvitationOnSignup(ctx, user, *in.InvitationID, in.InvitationRole)
		if err != nil {
			return nil, err
		}
		if accepted {
			if err := s.userRepo.SetEmailVerified(ctx, user.ID, true); err != nil {
				return nil, fmt.Errorf("failed to mark email verified: %w", err)
			}
			user.EmailVerified = true
		}
	}
	if role, err := s.roleRepo.GetByCode(ctx, roleCode); err == nil {
		if err := s.userRepo.AssignRole(ctx, user.ID, role.ID); err != nil {
			return nil, fmt.Errorf("failed to assign role: %w", err)
		}
	}

	if invited {
		// Invited users skip OTP verification and get a token right away.
		token, err := s.issueToken(ctx, user)
		if err != nil {
			return nil, err
		}
		return &domain.AuthResult{Token: token, User: user}, nil
	}

	if err := s.sendSignupOTP(ctx, user); err != nil {
		return nil, err
	}
	return &domain.AuthResult{User: user, OTPSent: true}, nil
}

// acceptInvitationOnSignup accepts the invitation tied to a fresh signup.
// A missing invitation is tolerated; guard violations are not.
func (s *userService) acceptInvitationOnSignup(ctx context.Context, user *domain.User, invitationID int64, role string) (bool, error) {
	now := time.Now()
	if role == domain.RoleVendor {
		inv, err := s.vendorRepo.GetByID(ctx, invitationID)
		if err != nil {
			if errors.Is(err, domain.ErrInvitationNotFound) {
				s.logger.Warn("signup referenced missing vendor invitation", "invitation_id", invitationID)
				return false, nil
			}
			return false, err
		}
		if err := domain.CanAccept(inv.Accepted, inv.ExpiredAt, now); err != nil {
			return false, err
		}
		if user.Email != inv.Email {
			return false, domain.ErrEmailMismatch
		}
		if err := s.vendorRepo.SetAccepted(ctx, inv.ID, true); err != nil {
			return false, fmt.Errorf("failed to accept invitation: %w", err)
		}
		return true, nil
	}

	inv, err := s.tenantRepo.GetByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, domain.ErrInvitationNotFound) {
			s.logger.Warn("signup referenced missing tenant invitation", "invitation_id", invitationID)
			return false, nil
		}
		return false, err
	}
	if err := domain.CanAccept(inv.Accepted, inv.ExpiredAt, now); err != nil {
		return false, err
	}
	if user.Email != inv.Email {
		return false, domain.ErrEmailMismatch
	}
	if err := s.resolver.Claim(ctx, inv.Assignment); err != nil {
		if errors.Is(err, domain.ErrResourceNotVacant) {
			return false, domain.ErrResourceOccupied
		}
		return false, fmt.Errorf("failed to claim assignment: %w", err)
	}
	if err := s.tenantRepo.SetAccepted(ctx, inv.ID, true); err != nil {
		return false, fmt.Errorf("failed to accept invitation: %w", err)
	}
	return true, nil
}

func (s *userService) VerifyOTP(ctx context.Context, email, code string) (*domain.AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	code = strings.TrimSpace(code)
	consumed, err := s.userRepo.ConsumeOTP(ctx, email, hashOTP(code))
	if err != nil {
		return nil, fmt.Errorf("failed to verify code: %w", err)
	}
	if !consumed {
		return nil, domain.ErrInvalidOTP
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if err := s.userRepo.SetEmailVerified(ctx, user.ID, true); err != nil {
		return nil, fmt.Errorf("failed to mark email verified: %w", err)
	}
	user.EmailVerified = true
	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResult{Token: token, User: user}, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if user.Banned {
		return nil, domain.ErrUserBanned
	}
	if !user.EmailVerified {
		return nil, domain.ErrEmailNotVerified
	}
	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResult{Token: token, User: user}, nil
}

func (s *userService) GetProfile(ctx context.Context, userID int64) (*domain.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	roles, err := s.roleRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}
	codes := make([]string, len(roles))
	for i, r := range roles {
		codes[i] = r.Code
	}
	return &domain.Profile{User: user, Roles: codes}, nil
}

func (s *userService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	code, err := generateOTP(otpDigits)
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	expiresAt := time.Now().Add(otpExpiryMins * time.Minute)
	if err := s.userRepo.SetOTP(ctx, user.ID, hashOTP(code), expiresAt); err != nil {
		return fmt.Errorf("failed to store code: %w", err)
	}
	data := &domain.PasswordResetEmailData{
		Email:            user.Email,
		FirstName:        user.FirstName,
		Code:             code,
		ExpiresInMinutes: otpExpiryMins,
	}
	if err := s.emailService.SendPasswordReset(ctx, data); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}

func (s *userService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if len(newPassword) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	consumed, err := s.userRepo.ConsumeOTP(ctx, email, hashOTP(strings.TrimSpace(code)))
	if err != nil {
		return fmt.Errorf("failed to verify code: %w", err)
	}
	if !consumed {
		return domain.ErrInvalidOTP
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, salt, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *userService) sendSignupOTP(ctx context.Context, user *domain.User) error {
	code, err := generateOTP(otpDigits)
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	expiresAt := time.Now().Add(otpExpiryMins * time.Minute)
	if err := s.userRepo.SetOTP(ctx, user.ID, hashOTP(code), expiresAt); err != nil {
		return fmt.Errorf("failed to store code: %w", err)
	}
	data := &domain.SignupOTPEmailData{
		Email:            user.Email,
		FirstName:        user.FirstName,
		Code:             code,
		ExpiresInMinutes: otpExpiryMins,
	}
	if err := s.emailService.SendSignupOTP(ctx, data); err != nil {
		return fmt.Errorf("failed to send signup code email: %w", err)
	}
	return nil
}

func (s *userService) issueToken(ctx context.Context, user *domain.User) (string, error) {
	roles, err := s.roleRepo.ListByUserID(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to load roles: %w", err)
	}
	codes := make([]string, len(roles))
	for i, r := range roles {
		codes[i] = r.Code
	}
	token, err := s.tokenIssuer.Issue(user.ID, user.Email, codes, s.tokenExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

func generateOTP(digits int) (string, error) {
	const digitspace = "0123456789"
	b := make([]byte, digits)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = digitspace[int(b[i])%len(digitspace)]
	}
	return string(b), nil
}

func hashOTP(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
