package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for agreement and lease operations.
var (
	ErrAgreementNotFound = errors.New("agreement not found")
	ErrLeaseNotActive    = errors.New("lease is not active")
	ErrLeaseAlreadyEnded = errors.New("lease already ended")
)

// Agreement is one lease document attached to a tenant invitation. A new row
// is appended on every lease initiation or renewal; earlier rows are history.
// swagger:model Agreement
type Agreement struct {
	ID                 int64     `json:"id"`
	InvitationID       int64     `json:"invitation_id"`
	LeaseAgreementKey  string    `json:"-"`
	SignedAgreementKey *string   `json:"-"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// AgreementRepository defines storage operations for lease agreements.
type AgreementRepository interface {
	Create(ctx context.Context, a *Agreement) error
	LatestByInvitationID(ctx context.Context, invitationID int64) (*Agreement, error)
	ListByInvitationID(ctx context.Context, invitationID int64) ([]*Agreement, error)
}

// LeaseRenewal carries the fields a lease renewal replaces on the invitation.
type LeaseRenewal struct {
	LeaseStartDate  time.Time
	LeaseEndDate    time.Time
	LeaseAmount     int64
	SecurityDeposit *int64
}

// LeaseRepository groups the multi-write lease operations. Each method is a
// single transaction: either every write lands or none do.
type LeaseRepository interface {
	// EndLease blocks the invitation, stamps its lease end date, and vacates
	// the assignment when one is given.
	EndLease(ctx context.Context, invitationID int64, endDate time.Time, assignment *Assignment) error
	// RenewLease replaces the lease fields, clears the countersignature, and
	// appends a fresh agreement carrying the new document key.
	RenewLease(ctx context.Context, invitationID int64, renewal LeaseRenewal, agreementKey string) (*Agreement, error)
	// Countersign sets agreed on the invitation and attaches the signed
	// document to the given agreement.
	Countersign(ctx context.Context, invitationID, agreementID int64, agreed bool, signedKey string) error
}
