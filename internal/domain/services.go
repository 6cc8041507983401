package domain

import (
	"context"
	"time"
)

// VendorInviteInput carries the fields for a new vendor invitation.
type VendorInviteInput struct {
	FirstName string
	LastName  string
	Email     string
	Role      VendorRole
}

// VendorInvitationService governs the vendor invitation lifecycle.
type VendorInvitationService interface {
	Invite(ctx context.Context, senderID int64, in VendorInviteInput) (*VendorInvitation, error)
	List(ctx context.Context, senderID int64, filter VendorInvitationFilter, p PaginationParams) ([]*VendorInvitation, int, error)
	// Delete removes the invitation and, when the invitee has since
	// registered, their account too. Returns the invitee email.
	Delete(ctx context.Context, senderID, invitationID int64) (string, error)
	// SetBlocked flips the blocked flag and syncs the invitee's ban flag
	// when an account exists.
	SetBlocked(ctx context.Context, senderID, invitationID int64, blocked bool) (*VendorInvitation, error)
}

// TenantInviteInput carries the fields for a new tenant invitation.
type TenantInviteInput struct {
	FirstName       string
	LastName        string
	Email           string
	Assignment      Assignment
	TenantType      TenantType
	LeaseAmount     int64
	SecurityDeposit *int64
	LeaseStartDate  time.Time
	LeaseEndDate    time.Time
	LeaseAgreement  FileUpload
}

// TenantInvitationView is a tenant invitation decorated with its resolved
// assignment for list and create responses. AssignmentName is empty when the
// target no longer exists.
// swagger:model TenantInvitationView
type TenantInvitationView struct {
	*TenantInvitation
	AssignmentName    string `json:"assignment_name"`
	LeaseEnded        bool   `json:"lease_ended"`
	LeaseAgreementURL string `json:"lease_agreement_url,omitempty"`
}

// CountersignInput carries the tenant's countersignature upload.
type CountersignInput struct {
	InvitationID    int64
	Agreed          bool
	SignedAgreement FileUpload
}

// TenantInvitationService governs the tenant invitation lifecycle.
type TenantInvitationService interface {
	Invite(ctx context.Context, senderID int64, in TenantInviteInput) (*TenantInvitationView, error)
	List(ctx context.Context, senderID int64, filter TenantInvitationFilter, p PaginationParams) ([]*TenantInvitationView, int, error)
	Countersign(ctx context.Context, in CountersignInput) error
}

// InvitationDetails is the public view of an invitation returned to an
// invitee before they hold an account.
// swagger:model InvitationDetails
type InvitationDetails struct {
	ID         int64       `json:"id"`
	Kind       string      `json:"kind"` // "vendor" or "tenant"
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name"`
	Email      string      `json:"email"`
	SenderName string      `json:"sender_name"`
	Role       *VendorRole `json:"role,omitempty"`
	TenantType *TenantType `json:"tenant_type,omitempty"`
	Assignment *Assignment `json:"assignment,omitempty"`
	LeaseStart *time.Time  `json:"lease_start_date,omitempty"`
	LeaseEnd   *time.Time  `json:"lease_end_date,omitempty"`
	ExpiredAt  time.Time   `json:"expired_at"`
}

// InvitationService handles the public (unauthenticated) invitation
// endpoints: lookup, accept/reject, and resend.
type InvitationService interface {
	Details(ctx context.Context, id int64, vendor, tenant bool) (*InvitationDetails, error)
	// Respond accepts or rejects the invitation. Accepting a tenant
	// invitation claims its assignment as occupied.
	Respond(ctx context.Context, id int64, accept, vendor, tenant bool) error
	Resend(ctx context.Context, id int64, role string) error
}

// LeaseService layers lease end/renew on top of an accepted tenant invitation.
type LeaseService interface {
	End(ctx context.Context, senderID, invitationID int64) error
	Renew(ctx context.Context, senderID, invitationID int64, renewal LeaseRenewal, agreement FileUpload) error
}

// AuthResult is what signup, OTP verification, and login yield.
type AuthResult struct {
	Token   string `json:"token,omitempty"`
	User    *User  `json:"user"`
	OTPSent bool   `json:"otp_sent,omitempty"`
}

// SignupInput carries the registration fields. InvitationID and
// InvitationRole tie the new account to an outstanding invitation.
type SignupInput struct {
	Email          string
	Password       string
	FirstName      string
	LastName       string
	PhoneNumber    *string
	InvitationID   *int64
	InvitationRole string
}

// Profile is the authenticated user's own view.
// swagger:model Profile
type Profile struct {
	User  *User    `json:"user"`
	Roles []string `json:"roles"`
}

// UserService defines registration, verification, and authentication.
type UserService interface {
	// SignUp registers an account. With an invitation pair it also accepts
	// the invitation, marks the email verified, and returns a token
	// immediately; otherwise an OTP email is sent and no token is issued.
	SignUp(ctx context.Context, in SignupInput) (*AuthResult, error)
	VerifyOTP(ctx context.Context, email, code string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	// ForgotPassword emails a verification code to an existing account.
	ForgotPassword(ctx context.Context, email string) error
	// ResetPassword consumes the emailed code and replaces the password.
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}

// PropertyService manages the owner's properties and units.
type PropertyService interface {
	CreateProperty(ctx context.Context, ownerID int64, p *Property) error
	GetProperty(ctx context.Context, ownerID, id int64) (*Property, error)
	ListProperties(ctx context.Context, ownerID int64, page PaginationParams) ([]*Property, int, error)
	CreateUnit(ctx context.Context, ownerID int64, u *Unit) error
	ListUnits(ctx context.Context, ownerID, propertyID int64) ([]*Unit, error)
}
