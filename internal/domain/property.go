package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for property and unit operations.
var (
	ErrPropertyNotFound  = errors.New("property not found")
	ErrUnitNotFound      = errors.New("unit not found")
	ErrResourceOccupied  = errors.New("resource is already occupied")
	ErrResourceNotVacant = errors.New("resource is not vacant")
)

// ResourceStatus is the occupancy state of a property or unit.
type ResourceStatus string

const (
	StatusVacant   ResourceStatus = "vacant"
	StatusOccupied ResourceStatus = "occupied"
)

// PropertyType classifies a property listing.
type PropertyType string

// PropertyTypes maps property type codes to display names.
var PropertyTypes = map[PropertyType]string{
	"single_family_home": "Single-Family Home",
	"apartment_unit":     "Apartment Unit",
	"multi_family":       "Multi-Family",
	"student_housing":    "Student Housing",
	"senior_living":      "Senior Living",
	"university_housing": "University Housing",
}

// Valid reports whether the property type is known.
func (t PropertyType) Valid() bool {
	_, ok := PropertyTypes[t]
	return ok
}

// Property is a rental property owned by a user.
// swagger:model Property
type Property struct {
	ID            int64          `json:"id"`
	OwnerID       int64          `json:"-"`
	Name          string         `json:"name"`
	PropertyType  PropertyType   `json:"property_type"`
	StreetAddress string         `json:"street_address"`
	City          string         `json:"city"`
	State         string         `json:"state"`
	ZipCode       string         `json:"zip_code"`
	Status        ResourceStatus `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Unit is a rentable unit inside a property.
// swagger:model Unit
type Unit struct {
	ID         int64          `json:"id"`
	PropertyID int64          `json:"property_id"`
	Number     string         `json:"number"`
	Bedrooms   int            `json:"bedrooms"`
	Bathrooms  int            `json:"bathrooms"`
	RentAmount int64          `json:"rent_amount"`
	Status     ResourceStatus `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// AssignmentType discriminates what a tenant invitation is bound to.
type AssignmentType string

const (
	AssignProperty AssignmentType = "property"
	AssignUnit     AssignmentType = "unit"
)

// Valid reports whether the assignment type is known.
func (t AssignmentType) Valid() bool {
	return t == AssignProperty || t == AssignUnit
}

// Assignment names the property or unit a tenant invitation is bound to.
// The id is resolved at read time; the target may have been deleted since.
type Assignment struct {
	Type AssignmentType `json:"assignment_type"`
	ID   int64          `json:"assignment_id"`
}

// AssignedResource is the resolved target of an assignment.
type AssignedResource struct {
	Type    AssignmentType
	ID      int64
	OwnerID int64
	Name    string
	Status  ResourceStatus
}

// AssignmentResolver resolves assignments to their current resource and
// mutates occupancy. Resolve returns (nil, nil) when the target no longer
// exists; callers must treat that as nothing to mutate, not an error.
type AssignmentResolver interface {
	Resolve(ctx context.Context, a Assignment) (*AssignedResource, error)
	// Claim conditionally flips the resource from vacant to occupied and
	// returns ErrResourceNotVacant when it was already taken. A missing
	// target is a silent no-op.
	Claim(ctx context.Context, a Assignment) error
	// Release sets the resource back to vacant. A missing target is a no-op.
	Release(ctx context.Context, a Assignment) error
}

// PropertyRepository defines storage operations for properties.
type PropertyRepository interface {
	Create(ctx context.Context, p *Property) error
	GetByID(ctx context.Context, id int64) (*Property, error)
	GetByOwnerAndID(ctx context.Context, ownerID, id int64) (*Property, error)
	ListByOwnerID(ctx context.Context, ownerID int64, p PaginationParams) ([]*Property, int, error)
}

// UnitRepository defines storage operations for units. Ownership is resolved
// through the parent property.
type UnitRepository interface {
	Create(ctx context.Context, u *Unit) error
	GetByID(ctx context.Context, id int64) (*Unit, error)
	GetByOwnerAndID(ctx context.Context, ownerID, id int64) (*Unit, error)
	ListByPropertyID(ctx context.Context, propertyID int64) ([]*Unit, error)
}
