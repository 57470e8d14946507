package pg

import (
	"context"
	"database/sql"
	"errors"

	"taskhub.org/internal/auth"
)

// Directory implements auth.Directory. The unique constraint on
// identities.email makes registration's existence check and insert a single
// atomic unit; concurrent registrations of the same email cannot both win.
type Directory struct {
	db *sql.DB
}

var _ auth.Directory = (*Directory)(nil)

// Directory returns the identity store backed by this handle.
func (s *Store) Directory() *Directory {
	return &Directory{db: s.db}
}

const identityColumns = `id, email, password_hash, first_name, last_name, role, organization_id, created_at, updated_at`

func scanIdentity(row interface{ Scan(...any) error }) (*auth.Identity, error) {
	var identity auth.Identity
	err := row.Scan(
		&identity.ID,
		&identity.Email,
		&identity.PasswordHash,
		&identity.FirstName,
		&identity.LastName,
		&identity.Role,
		&identity.OrganizationID,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrNotFound
		}
		return nil, err
	}
	return &identity, nil
}

func (d *Directory) FindByEmail(ctx context.Context, email string) (*auth.Identity, error) {
	row := d.db.QueryRowContext(ctx,
		`select `+identityColumns+` from identities where email=$1`, email)
	return scanIdentity(row)
}

func (d *Directory) FindByID(ctx context.Context, id string) (*auth.Identity, error) {
	row := d.db.QueryRowContext(ctx,
		`select `+identityColumns+` from identities where id=$1`, id)
	return scanIdentity(row)
}

func (d *Directory) Create(ctx context.Context, identity *auth.Identity) error {
	row := d.db.QueryRowContext(ctx, `
		insert into identities (id, email, password_hash, first_name, last_name, role, organization_id)
		values ($1,$2,$3,$4,$5,$6,$7)
		returning created_at, updated_at
	`, identity.ID, identity.Email, identity.PasswordHash, identity.FirstName,
		identity.LastName, identity.Role, identity.OrganizationID)
	if err := row.Scan(&identity.CreatedAt, &identity.UpdatedAt); err != nil {
		if pgErr, ok := maybePgError(err); ok {
			switch pgErr.Code {
			case pgErrUniqueViolation:
				return auth.ErrDuplicateIdentity
			case pgErrForeignKeyViolation:
				return auth.ErrNotFound
			}
		}
		return err
	}
	return nil
}

func (d *Directory) Save(ctx context.Context, identity *auth.Identity) error {
	row := d.db.QueryRowContext(ctx, `
		update identities
		set email=$2, password_hash=$3, first_name=$4, last_name=$5, role=$6, updated_at=now()
		where id=$1
		returning updated_at
	`, identity.ID, identity.Email, identity.PasswordHash, identity.FirstName,
		identity.LastName, identity.Role)
	if err := row.Scan(&identity.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.ErrNotFound
		}
		return err
	}
	return nil
}

func (d *Directory) ListByOrganization(ctx context.Context, orgID string) ([]*auth.Identity, error) {
	rows, err := d.db.QueryContext(ctx,
		`select `+identityColumns+` from identities where organization_id=$1 order by created_at`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var identities []*auth.Identity
	for rows.Next() {
		identity, err := scanIdentity(rows)
		if err != nil {
			return nil, err
		}
		identities = append(identities, identity)
	}
	return identities, rows.Err()
}
