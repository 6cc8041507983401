package services

import (
	"context"
	"fmt"
	"strings"

	"rentalguru/internal/domain"
)

type propertyService struct {
	propertyRepo domain.PropertyRepository
	unitRepo     domain.UnitRepository
}

// NewPropertyService builds the owner-facing property and unit service.
func NewPropertyService(propertyRepo domain.PropertyRepository, unitRepo domain.UnitRepository) domain.PropertyService {
	return &propertyService{propertyRepo: propertyRepo, unitRepo: unitRepo}
}

func (s *propertyService) CreateProperty(ctx context.Context, ownerID int64, p *domain.Property) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("property name is required")
	}
	if !p.PropertyType.Valid() {
		return fmt.Errorf("invalid property type %q", p.PropertyType)
	}
	p.OwnerID = ownerID
	p.Status = domain.StatusVacant
	return s.propertyRepo.Create(ctx, p)
}

func (s *propertyService) GetProperty(ctx context.Context, ownerID, id int64) (*domain.Property, error) {
	return s.propertyRepo.GetByOwnerAndID(ctx, ownerID, id)
}

func (s *propertyService) ListProperties(ctx context.Context, ownerID int64, page domain.PaginationParams) ([]*domain.Property, int, error) {
	return s.propertyRepo.ListByOwnerID(ctx, ownerID, page)
}

func (s *propertyService) CreateUnit(ctx context.Context, ownerID int64, u *domain.Unit) error {
	u.Number = strings.TrimSpace(u.Number)
	if u.Number == "" {
		return fmt.Errorf("unit number is required")
	}
	// Ownership of the parent property gates unit creation.
	if _, err := s.propertyRepo.GetByOwnerAndID(ctx, ownerID, u.PropertyID); err != nil {
		return err
	}
	u.Status = domain.StatusVacant
	return s.unitRepo.Create(ctx, u)
}

func (s *propertyService) ListUnits(ctx context.Context, ownerID, propertyID int64) ([]*domain.Unit, error) {
	if _, err := s.propertyRepo.GetByOwnerAndID(ctx, ownerID, propertyID); err != nil {
		return nil, err
	}
	return s.unitRepo.ListByPropertyID(ctx, propertyID)
}
