package postgres

import (
	"context"
	"database/sql"
	"errors"

	"rentalguru/internal/domain"
)

const unitColumns = `u.id, u.property_id, u.number, u.bedrooms, u.bathrooms, u.rent_amount, u.status, u.created_at, u.updated_at`

type unitRepository struct {
	DB *sql.DB
}

// NewUnitRepository returns a domain.UnitRepository backed by Postgres.
func NewUnitRepository(db *sql.DB) domain.UnitRepository {
	return &unitRepository{DB: db}
}

func (r *unitRepository) Create(ctx context.Context, u *domain.Unit) error {
	query := `
		INSERT INTO units (property_id, number, bedrooms, bathrooms, rent_amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, status, created_at, updated_at
	`
	return r.DB.QueryRowContext(ctx, query,
		u.PropertyID, u.Number, u.Bedrooms, u.Bathrooms, u.RentAmount,
	).Scan(&u.ID, &u.Status, &u.CreatedAt, &u.UpdatedAt)
}

func (r *unitRepository) GetByID(ctx context.Context, id int64) (*domain.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units u WHERE u.id = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *unitRepository) GetByOwnerAndID(ctx context.Context, ownerID, id int64) (*domain.Unit, error) {
	query := `
		SELECT ` + unitColumns + `
		FROM units u
		INNER JOIN properties p ON p.id = u.property_id
		WHERE u.id = $1 AND p.owner_id = $2
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id, ownerID))
}

func (r *unitRepository) ListByPropertyID(ctx context.Context, propertyID int64) ([]*domain.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units u WHERE u.property_id = $1 ORDER BY u.number ASC`
	rows, err := r.DB.QueryContext(ctx, query, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	units := make([]*domain.Unit, 0)
	for rows.Next() {
		u := &domain.Unit{}
		if err := rows.Scan(
			&u.ID, &u.PropertyID, &u.Number, &u.Bedrooms, &u.Bathrooms,
			&u.RentAmount, &u.Status, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

func (r *unitRepository) scanOne(row *sql.Row) (*domain.Unit, error) {
	u := &domain.Unit{}
	err := row.Scan(
		&u.ID, &u.PropertyID, &u.Number, &u.Bedrooms, &u.Bathrooms,
		&u.RentAmount, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUnitNotFound
		}
		return nil, err
	}
	return u, nil
}
