package pg

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"taskhub.org/internal/auth"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db), mock
}

func identityRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "first_name", "last_name", "role", "organization_id", "created_at", "updated_at",
	}).AddRow("id-1", "alice@example.com", "$2a$10$hash", "Alice", "Smith", "viewer", "org-1", now, now)
}

func TestDirectoryFindByEmail(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("select .* from identities where email=").
		WithArgs("alice@example.com").
		WillReturnRows(identityRows())

	identity, err := store.Directory().FindByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if identity.ID != "id-1" || identity.Role != auth.RoleViewer {
		t.Fatalf("unexpected identity: %+v", identity)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDirectoryFindByEmailNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("select .* from identities where email=").
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := store.Directory().FindByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, auth.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDirectoryCreate(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery("insert into identities").
		WithArgs("id-1", "alice@example.com", "$2a$10$hash", "Alice", "Smith", auth.RoleViewer, "org-1").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	identity := &auth.Identity{
		ID:             "id-1",
		Email:          "alice@example.com",
		PasswordHash:   "$2a$10$hash",
		FirstName:      "Alice",
		LastName:       "Smith",
		Role:           auth.RoleViewer,
		OrganizationID: "org-1",
	}
	if err := store.Directory().Create(context.Background(), identity); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if identity.CreatedAt.IsZero() {
		t.Fatal("created_at not populated")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDirectoryCreateDuplicate(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("insert into identities").
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: "identities_email_key"})

	err := store.Directory().Create(context.Background(), &auth.Identity{ID: "id-1", Email: "dup@example.com"})
	if !errors.Is(err, auth.ErrDuplicateIdentity) {
		t.Fatalf("expected ErrDuplicateIdentity, got %v", err)
	}
}

func TestDirectoryCreateUnknownOrganization(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("insert into identities").
		WillReturnError(&pgconn.PgError{Code: pgErrForeignKeyViolation})

	err := store.Directory().Create(context.Background(), &auth.Identity{ID: "id-1", OrganizationID: "missing"})
	if !errors.Is(err, auth.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDirectorySaveMissing(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("update identities").
		WillReturnError(sql.ErrNoRows)

	err := store.Directory().Save(context.Background(), &auth.Identity{ID: "ghost"})
	if !errors.Is(err, auth.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOrganizationsFindNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("select id, name, created_at, updated_at from organizations").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := store.Organizations().Find(context.Background(), "missing")
	if !errors.Is(err, auth.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAuditAppend(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("insert into audit_log").
		WithArgs("evt-1", "id-1", "alice@example.com", "auth.login", "session", "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.AuditLog().Append(context.Background(), &auth.Event{
		ID:            "evt-1",
		IdentityID:    "id-1",
		IdentityEmail: "alice@example.com",
		Action:        "auth.login",
		ResourceType:  "session",
		OccurredAt:    time.Now(),
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
