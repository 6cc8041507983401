package postgres

import (
	"context"
	"database/sql"
	"errors"

	"rentalguru/internal/domain"
)

const propertyColumns = `id, owner_id, name, property_type, street_address, city, state, zip_code, status, created_at, updated_at`

type propertyRepository struct {
	DB *sql.DB
}

// NewPropertyRepository returns a domain.PropertyRepository backed by Postgres.
func NewPropertyRepository(db *sql.DB) domain.PropertyRepository {
	return &propertyRepository{DB: db}
}

func (r *propertyRepository) Create(ctx context.Context, p *domain.Property) error {
	query := `
		INSERT INTO properties (owner_id, name, property_type, street_address, city, state, zip_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, status, created_at, updated_at
	`
	return r.DB.QueryRowContext(ctx, query,
		p.OwnerID, p.Name, p.PropertyType, p.StreetAddress, p.City, p.State, p.ZipCode,
	).Scan(&p.ID, &p.Status, &p.CreatedAt, &p.UpdatedAt)
}

func (r *propertyRepository) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *propertyRepository) GetByOwnerAndID(ctx context.Context, ownerID, id int64) (*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1 AND owner_id = $2`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id, ownerID))
}

func (r *propertyRepository) ListByOwnerID(ctx context.Context, ownerID int64, p domain.PaginationParams) ([]*domain.Property, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM properties WHERE owner_id = $1`, ownerID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, ownerID, p.Limit(), p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	properties := make([]*domain.Property, 0)
	for rows.Next() {
		prop := &domain.Property{}
		if err := rows.Scan(
			&prop.ID, &prop.OwnerID, &prop.Name, &prop.PropertyType, &prop.StreetAddress,
			&prop.City, &prop.State, &prop.ZipCode, &prop.Status, &prop.CreatedAt, &prop.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		properties = append(properties, prop)
	}
	return properties, total, rows.Err()
}

func (r *propertyRepository) scanOne(row *sql.Row) (*domain.Property, error) {
	p := &domain.Property{}
	err := row.Scan(
		&p.ID, &p.OwnerID, &p.Name, &p.PropertyType, &p.StreetAddress,
		&p.City, &p.State, &p.ZipCode, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPropertyNotFound
		}
		return nil, err
	}
	return p, nil
}
