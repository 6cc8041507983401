package domain

import (
	"context"
	"errors"
	"sort"
	"time"
)

// ExpiryWindow is how long an invitation stays live after creation or resend.
const ExpiryWindow = 5 * 24 * time.Hour

// NextExpiry returns the expiry timestamp for an invitation created or resent at now.
func NextExpiry(now time.Time) time.Time {
	return now.Add(ExpiryWindow)
}

// Sentinel errors for invitation operations.
var (
	ErrInvitationNotFound    = errors.New("invitation not found")
	ErrInvitationExpired     = errors.New("invitation has expired")
	ErrInvitationAccepted    = errors.New("invitation already accepted")
	ErrInvitationAlreadySent = errors.New("invitation already sent")
	ErrVendorExists          = errors.New("vendor already exists")
	ErrTenantExists          = errors.New("tenant already exists")
	ErrEmailMismatch         = errors.New("email does not match invitation")
)

// InvitationStatus is the derived lifecycle state of an invitation.
type InvitationStatus string

const (
	StatusPending  InvitationStatus = "pending"
	StatusAccepted InvitationStatus = "accepted"
	StatusExpired  InvitationStatus = "expired"
	StatusBlocked  InvitationStatus = "blocked"
)

// DeriveStatus computes the lifecycle state from the persisted flags.
// Blocked wins over accepted so a suspended tenant or vendor reads as blocked
// without losing acceptance history.
func DeriveStatus(accepted, blocked bool, expiredAt, now time.Time) InvitationStatus {
	switch {
	case blocked:
		return StatusBlocked
	case accepted:
		return StatusAccepted
	case !expiredAt.IsZero() && expiredAt.Before(now):
		return StatusExpired
	default:
		return StatusPending
	}
}

// CanAccept reports whether an invitation in the given state may be accepted.
// Expiry is checked before acceptance so a stale accepted row still reads as accepted.
func CanAccept(accepted bool, expiredAt, now time.Time) error {
	if !expiredAt.IsZero() && expiredAt.Before(now) && !accepted {
		return ErrInvitationExpired
	}
	if accepted {
		return ErrInvitationAccepted
	}
	return nil
}

// CanReject reports whether an invitation may be rejected (only expiry blocks it).
func CanReject(expiredAt, now time.Time) error {
	if !expiredAt.IsZero() && expiredAt.Before(now) {
		return ErrInvitationExpired
	}
	return nil
}

// CanResend reports whether an invitation may be resent. Expired invitations
// are resendable; accepted ones are not.
func CanResend(accepted bool) error {
	if accepted {
		return ErrInvitationAccepted
	}
	return nil
}

// VendorRole is a vendor service category.
type VendorRole string

// VendorRoles lists every service category a vendor can be invited for,
// keyed by role code with its display name.
var VendorRoles = map[VendorRole]string{
	"personal_training":     "Personal Training",
	"home_cleaning":         "Home Cleaning",
	"personal_chef":         "Personal Chef",
	"yoga_instruction":      "Yoga Instruction",
	"electrical_services":   "Electrical Services",
	"hvac_technician":       "HVAC Technician",
	"landscaping":           "Landscaping",
	"pest_control":          "Pest Control",
	"appliance_repair":      "Appliance Repair",
	"security_services":     "Security Services",
	"painting_renovation":   "Painting & Renovation",
	"general_handyman":      "General Handyman",
	"moving_services":       "Moving Services",
	"it_network_setup":      "IT & Network Setup",
	"furniture_assembly":    "Furniture Assembly",
	"window_cleaning":       "Window Cleaning",
	"pool_maintenance":      "Pool Maintenance",
	"carpet_cleaning":       "Carpet Cleaning",
	"elderly_care_services": "Elderly Care Services",
}

// Valid reports whether the role is a known vendor service category.
func (r VendorRole) Valid() bool {
	_, ok := VendorRoles[r]
	return ok
}

// CatalogOption is a code with its display name, as served to invite forms.
type CatalogOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// VendorRoleOptions returns the vendor role catalog sorted by code.
func VendorRoleOptions() []CatalogOption {
	return catalogOptions(VendorRoles)
}

// TenantTypeOptions returns the tenant type catalog sorted by code.
func TenantTypeOptions() []CatalogOption {
	return catalogOptions(TenantTypes)
}

func catalogOptions[K ~string](m map[K]string) []CatalogOption {
	out := make([]CatalogOption, 0, len(m))
	for value, label := range m {
		out = append(out, CatalogOption{Value: string(value), Label: label})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

// Display returns the human-readable name for the role, falling back to the code.
func (r VendorRole) Display() string {
	if name, ok := VendorRoles[r]; ok {
		return name
	}
	return string(r)
}

// TenantType classifies the kind of tenancy an invitation offers.
type TenantType string

// TenantTypes maps tenant type codes to display names.
var TenantTypes = map[TenantType]string{
	"individual":       "Individual",
	"family":           "Family",
	"shared_housing":   "Shared Housing",
	"small_business":   "Small Business",
	"corporate_office": "Corporate Office",
	"retail_store":     "Retail Store",
	"restaurant":       "Restaurant",
	"warehouse":        "Warehouse",
}

// Valid reports whether the tenant type is known.
func (t TenantType) Valid() bool {
	_, ok := TenantTypes[t]
	return ok
}

// Display returns the human-readable name for the tenant type.
func (t TenantType) Display() string {
	if name, ok := TenantTypes[t]; ok {
		return name
	}
	return string(t)
}

// VendorInvitation is an offer from a property owner to a service vendor.
// swagger:model VendorInvitation
type VendorInvitation struct {
	ID        int64      `json:"id"`
	SenderID  int64      `json:"-"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Role      VendorRole `json:"role"`
	Accepted  bool       `json:"accepted"`
	Blocked   bool       `json:"blocked"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ExpiredAt time.Time  `json:"expired_at"`
}

// Status derives the lifecycle state of the invitation at now.
func (v *VendorInvitation) Status(now time.Time) InvitationStatus {
	return DeriveStatus(v.Accepted, v.Blocked, v.ExpiredAt, now)
}

// TenantInvitation is an offer from a property owner to a prospective tenant,
// bound to a property or unit with its lease terms.
// swagger:model TenantInvitation
type TenantInvitation struct {
	ID              int64      `json:"id"`
	SenderID        int64      `json:"-"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Email           string     `json:"email"`
	Assignment      Assignment `json:"assignment"`
	TenantType      TenantType `json:"tenant_type"`
	LeaseAmount     int64      `json:"lease_amount"`
	SecurityDeposit *int64     `json:"security_deposit"`
	LeaseStartDate  time.Time  `json:"lease_start_date"`
	LeaseEndDate    time.Time  `json:"lease_end_date"`
	Accepted        bool       `json:"accepted"`
	Blocked         bool       `json:"blocked"`
	Agreed          bool       `json:"agreed"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	ExpiredAt       time.Time  `json:"expired_at"`
}

// Status derives the lifecycle state of the invitation at now.
func (t *TenantInvitation) Status(now time.Time) InvitationStatus {
	return DeriveStatus(t.Accepted, t.Blocked, t.ExpiredAt, now)
}

// LeaseEnded reports whether the lease end date has passed as of today.
// The final day itself counts as ended for listing purposes.
func (t *TenantInvitation) LeaseEnded(now time.Time) bool {
	return !t.LeaseEndDate.After(startOfDay(now))
}

// LeaseEndInPast reports whether the lease end date is strictly before
// today. A lease can still be ended on its final day.
func (t *TenantInvitation) LeaseEndInPast(now time.Time) bool {
	return t.LeaseEndDate.Before(startOfDay(now))
}

func startOfDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// VendorInvitationKey is the uniqueness key for vendor invitations.
type VendorInvitationKey struct {
	Email    string
	Role     VendorRole
	SenderID int64
}

// TenantInvitationKey is the uniqueness key for tenant invitations.
type TenantInvitationKey struct {
	Email      string
	TenantType TenantType
	SenderID   int64
	Assignment Assignment
}

// VendorInvitationFilter narrows vendor invitation list queries.
type VendorInvitationFilter struct {
	Role     *VendorRole
	Accepted *bool
	Blocked  *bool
	Search   string
}

// TenantInvitationFilter narrows tenant invitation list queries.
type TenantInvitationFilter struct {
	TenantType     *TenantType
	Accepted       *bool
	Blocked        *bool
	AssignmentType *AssignmentType
	AssignmentID   *int64
	Search         string
}

// VendorInvitationRepository defines storage operations for vendor invitations.
type VendorInvitationRepository interface {
	Create(ctx context.Context, inv *VendorInvitation) error
	GetByID(ctx context.Context, id int64) (*VendorInvitation, error)
	GetBySenderAndID(ctx context.Context, senderID, id int64) (*VendorInvitation, error)
	GetByKey(ctx context.Context, key VendorInvitationKey) (*VendorInvitation, error)
	GetAcceptedByEmail(ctx context.Context, email string) (*VendorInvitation, error)
	List(ctx context.Context, senderID int64, filter VendorInvitationFilter, p PaginationParams) ([]*VendorInvitation, int, error)
	SetBlocked(ctx context.Context, id int64, blocked bool) error
	SetAccepted(ctx context.Context, id int64, accepted bool) error
	RefreshExpiry(ctx context.Context, id int64, expiredAt time.Time) error
	Delete(ctx context.Context, id int64) error
}

// TenantInvitationRepository defines storage operations for tenant invitations.
// CreateWithAgreement inserts the invitation and its first agreement atomically.
type TenantInvitationRepository interface {
	CreateWithAgreement(ctx context.Context, inv *TenantInvitation, agreementKey string) (*Agreement, error)
	GetByID(ctx context.Context, id int64) (*TenantInvitation, error)
	GetBySenderAndID(ctx context.Context, senderID, id int64) (*TenantInvitation, error)
	GetByKey(ctx context.Context, key TenantInvitationKey) (*TenantInvitation, error)
	GetAcceptedByEmail(ctx context.Context, email string) (*TenantInvitation, error)
	List(ctx context.Context, senderID int64, filter TenantInvitationFilter, p PaginationParams) ([]*TenantInvitation, int, error)
	SetAccepted(ctx context.Context, id int64, accepted bool) error
	RefreshExpiry(ctx context.Context, id int64, expiredAt time.Time) error
	Delete(ctx context.Context, id int64) error
}
