package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rentalguru/internal/domain"
)

type assignmentResolver struct {
	DB *sql.DB
}

// NewAssignmentResolver returns a domain.AssignmentResolver that resolves
// tenant invitation assignments against the properties and units tables.
func NewAssignmentResolver(db *sql.DB) domain.AssignmentResolver {
	return &assignmentResolver{DB: db}
}

func (r *assignmentResolver) Resolve(ctx context.Context, a domain.Assignment) (*domain.AssignedResource, error) {
	res := &domain.AssignedResource{Type: a.Type, ID: a.ID}
	var err error
	switch a.Type {
	case domain.AssignProperty:
		query := `SELECT name, owner_id, status FROM properties WHERE id = $1`
		err = r.DB.QueryRowContext(ctx, query, a.ID).Scan(&res.Name, &res.OwnerID, &res.Status)
	case domain.AssignUnit:
		// Unit names read as "<number> - <property name>"; ownership comes
		// from the parent property.
		query := `
			SELECT u.number || ' - ' || p.name, p.owner_id, u.status
			FROM units u
			INNER JOIN properties p ON p.id = u.property_id
			WHERE u.id = $1
		`
		err = r.DB.QueryRowContext(ctx, query, a.ID).Scan(&res.Name, &res.OwnerID, &res.Status)
	default:
		return nil, fmt.Errorf("unknown assignment type %q", a.Type)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Historical invitations may outlive their target.
			return nil, nil
		}
		return nil, err
	}
	return res, nil
}

func (r *assignmentResolver) Claim(ctx context.Context, a domain.Assignment) error {
	query := `UPDATE ` + assignmentTable(a.Type) + ` SET status = 'occupied', updated_at = NOW() WHERE id = $1 AND status = 'vacant'`
	result, err := r.DB.ExecContext(ctx, query, a.ID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		// Distinguish a lost race from a vanished target.
		var exists bool
		checkQuery := `SELECT EXISTS (SELECT 1 FROM ` + assignmentTable(a.Type) + ` WHERE id = $1)`
		if err := r.DB.QueryRowContext(ctx, checkQuery, a.ID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return domain.ErrResourceNotVacant
		}
	}
	return nil
}

func (r *assignmentResolver) Release(ctx context.Context, a domain.Assignment) error {
	query := `UPDATE ` + assignmentTable(a.Type) + ` SET status = 'vacant', updated_at = NOW() WHERE id = $1`
	_, err := r.DB.ExecContext(ctx, query, a.ID)
	return err
}
