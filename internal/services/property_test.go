package services

import (
	"context"
	"testing"

	"rentalguru/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePropertyRepo is an in-memory PropertyRepository for tests.
type fakePropertyRepo struct {
	byID   map[int64]*domain.Property
	nextID int64
}

func newFakePropertyRepo() *fakePropertyRepo {
	return &fakePropertyRepo{byID: make(map[int64]*domain.Property), nextID: 1}
}

func (f *fakePropertyRepo) Create(ctx context.Context, p *domain.Property) error {
	p.ID = f.nextID
	f.nextID++
	f.byID[p.ID] = p
	return nil
}

func (f *fakePropertyRepo) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPropertyNotFound
}

func (f *fakePropertyRepo) GetByOwnerAndID(ctx context.Context, ownerID, id int64) (*domain.Property, error) {
	if p, ok := f.byID[id]; ok && p.OwnerID == ownerID {
		return p, nil
	}
	return nil, domain.ErrPropertyNotFound
}

func (f *fakePropertyRepo) ListByOwnerID(ctx context.Context, ownerID int64, p domain.PaginationParams) ([]*domain.Property, int, error) {
	var out []*domain.Property
	for _, prop := range f.byID {
		if prop.OwnerID == ownerID {
			out = append(out, prop)
		}
	}
	return out, len(out), nil
}

// fakeUnitRepo is an in-memory UnitRepository for tests.
type fakeUnitRepo struct {
	byID   map[int64]*domain.Unit
	nextID int64
}

func newFakeUnitRepo() *fakeUnitRepo {
	return &fakeUnitRepo{byID: make(map[int64]*domain.Unit), nextID: 1}
}

func (f *fakeUnitRepo) Create(ctx context.Context, u *domain.Unit) error {
	u.ID = f.nextID
	f.nextID++
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUnitRepo) GetByID(ctx context.Context, id int64) (*domain.Unit, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUnitNotFound
}

func (f *fakeUnitRepo) GetByOwnerAndID(ctx context.Context, ownerID, id int64) (*domain.Unit, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUnitNotFound
}

func (f *fakeUnitRepo) ListByPropertyID(ctx context.Context, propertyID int64) ([]*domain.Unit, error) {
	var out []*domain.Unit
	for _, u := range f.byID {
		if u.PropertyID == propertyID {
			out = append(out, u)
		}
	}
	return out, nil
}

func TestPropertyService_CreateProperty(t *testing.T) {
	ctx := context.Background()
	svc := NewPropertyService(newFakePropertyRepo(), newFakeUnitRepo())

	p := &domain.Property{Name: "  Elm Court  ", PropertyType: "multi_family", City: "Austin"}
	require.NoError(t, svc.CreateProperty(ctx, 10, p))
	assert.Equal(t, "Elm Court", p.Name)
	assert.Equal(t, int64(10), p.OwnerID)
	assert.Equal(t, domain.StatusVacant, p.Status)

	require.Error(t, svc.CreateProperty(ctx, 10, &domain.Property{PropertyType: "multi_family"}))
	require.Error(t, svc.CreateProperty(ctx, 10, &domain.Property{Name: "X", PropertyType: "castle"}))
}

func TestPropertyService_Units(t *testing.T) {
	ctx := context.Background()
	properties := newFakePropertyRepo()
	units := newFakeUnitRepo()
	properties.byID[4] = &domain.Property{ID: 4, OwnerID: 10, Name: "Elm Court", PropertyType: "multi_family"}
	svc := NewPropertyService(properties, units)

	u := &domain.Unit{PropertyID: 4, Number: "12B", Bedrooms: 2, RentAmount: 250000}
	require.NoError(t, svc.CreateUnit(ctx, 10, u))
	assert.Equal(t, domain.StatusVacant, u.Status)

	err := svc.CreateUnit(ctx, 99, &domain.Unit{PropertyID: 4, Number: "12C"})
	assert.ErrorIs(t, err, domain.ErrPropertyNotFound, "only the owner can add units")

	listed, err := svc.ListUnits(ctx, 10, 4)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	_, err = svc.ListUnits(ctx, 99, 4)
	assert.ErrorIs(t, err, domain.ErrPropertyNotFound)
}
