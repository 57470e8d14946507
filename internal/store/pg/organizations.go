package pg

import (
	"context"
	"database/sql"
	"errors"

	"taskhub.org/internal/auth"
)

// Organizations implements auth.OrganizationStore.
type Organizations struct {
	db *sql.DB
}

var _ auth.OrganizationStore = (*Organizations)(nil)

// Organizations returns the tenant store backed by this handle.
func (s *Store) Organizations() *Organizations {
	return &Organizations{db: s.db}
}

func (o *Organizations) Create(ctx context.Context, org *auth.Organization) error {
	row := o.db.QueryRowContext(ctx, `
		insert into organizations (id, name)
		values ($1,$2)
		returning created_at, updated_at
	`, org.ID, org.Name)
	return row.Scan(&org.CreatedAt, &org.UpdatedAt)
}

func (o *Organizations) Find(ctx context.Context, id string) (*auth.Organization, error) {
	var org auth.Organization
	err := o.db.QueryRowContext(ctx, `
		select id, name, created_at, updated_at from organizations where id=$1
	`, id).Scan(&org.ID, &org.Name, &org.CreatedAt, &org.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}
