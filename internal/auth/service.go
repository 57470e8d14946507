package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskhub.org/internal/obs"
)

// Service orchestrates registration, login and session authentication on top
// of the directory, token service and audit sink. It holds no mutable state;
// every request is independent.
type Service struct {
	dir    Directory
	orgs   OrganizationStore
	tokens *TokenService
	hasher *Hasher
	sink   Recorder
	now    func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithHasher overrides the credential hasher.
func WithHasher(h *Hasher) ServiceOption {
	return func(s *Service) {
		if h != nil {
			s.hasher = h
		}
	}
}

// WithRecorder wires the audit sink.
func WithRecorder(r Recorder) ServiceOption {
	return func(s *Service) {
		if r != nil {
			s.sink = r
		}
	}
}

// WithServiceClock overrides the time source.
func WithServiceClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService constructs the auth service.
func NewService(dir Directory, orgs OrganizationStore, tokens *TokenService, opts ...ServiceOption) (*Service, error) {
	if dir == nil {
		return nil, errors.New("auth: directory is required")
	}
	if orgs == nil {
		return nil, errors.New("auth: organization store is required")
	}
	if tokens == nil {
		return nil, errors.New("auth: token service is required")
	}
	s := &Service{
		dir:    dir,
		orgs:   orgs,
		tokens: tokens,
		hasher: NewHasher(0),
		sink:   nopRecorder{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, Event) {}

// Register creates an identity with the lowest role. Email uniqueness is
// enforced by the directory's storage constraint, not by a lookup here; the
// check and the write are a single atomic unit.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (PublicIdentity, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return PublicIdentity{}, fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	if len(req.Password) < MinPasswordLength {
		return PublicIdentity{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
	}
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		return PublicIdentity{}, fmt.Errorf("%w: first and last name are required", ErrInvalidInput)
	}
	orgID := strings.TrimSpace(req.OrganizationID)
	if orgID == "" {
		return PublicIdentity{}, fmt.Errorf("%w: organization_id is required", ErrInvalidInput)
	}
	if _, err := s.orgs.Find(ctx, orgID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return PublicIdentity{}, fmt.Errorf("%w: organization does not exist", ErrInvalidInput)
		}
		return PublicIdentity{}, directoryFault(err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return PublicIdentity{}, err
	}

	identity := &Identity{
		ID:             uuid.NewString(),
		Email:          email,
		PasswordHash:   hash,
		FirstName:      firstName,
		LastName:       lastName,
		Role:           RoleViewer,
		OrganizationID: orgID,
	}
	if err := s.dir.Create(ctx, identity); err != nil {
		if errors.Is(err, ErrDuplicateIdentity) {
			return PublicIdentity{}, ErrDuplicateIdentity
		}
		return PublicIdentity{}, directoryFault(err)
	}

	s.sink.Record(ctx, Event{
		IdentityID:    identity.ID,
		IdentityEmail: identity.Email,
		Action:        "auth.register",
		ResourceType:  "identity",
		ResourceID:    identity.ID,
		OccurredAt:    s.now().UTC(),
	})
	return identity.Public(), nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password are indistinguishable to the caller; the unknown-email path
// still burns a hash comparison so the two reject in comparable time.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}
	identity, err := s.dir.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			compareDummy(password)
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, directoryFault(err)
	}
	if !s.hasher.Verify(password, identity.PasswordHash) {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(*identity)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}

	s.sink.Record(ctx, Event{
		IdentityID:    identity.ID,
		IdentityEmail: identity.Email,
		Action:        "auth.login",
		ResourceType:  "session",
		OccurredAt:    s.now().UTC(),
	})
	return LoginResult{Token: token, ExpiresAt: expiresAt, Identity: identity.Public()}, nil
}

// Authenticate resolves a raw bearer token to a live identity. Every failure
// mode surfaces as ErrUnauthenticated: signature, expiry and a deleted
// subject must be indistinguishable to an attacker. The distinction is kept
// for the logs only. Directory faults are the one exception and propagate as
// ErrDirectoryUnavailable.
func (s *Service) Authenticate(ctx context.Context, rawToken string) (Identity, error) {
	claims, err := s.tokens.Verify(rawToken)
	if err != nil {
		reason := "token_invalid"
		if errors.Is(err, ErrTokenExpired) {
			reason = "token_expired"
		}
		logAuthReject(reason)
		return Identity{}, ErrUnauthenticated
	}
	identity, err := s.dir.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// A token for a deleted identity is left to expire naturally;
			// there is no denylist. Treated exactly like a bad token.
			logAuthReject("identity_missing")
			return Identity{}, ErrUnauthenticated
		}
		return Identity{}, directoryFault(err)
	}
	obs.CountAuthDecision("authenticate", "ok")
	return *identity, nil
}

// UpdateRole changes an identity's role. Only an Owner may do so, and only
// for identities inside their own organization.
func (s *Service) UpdateRole(ctx context.Context, actor Identity, targetID string, newRole Role) (PublicIdentity, error) {
	if actor.Role != RoleOwner {
		return PublicIdentity{}, ErrForbidden
	}
	if !newRole.Known() {
		return PublicIdentity{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, newRole)
	}
	target, err := s.dir.FindByID(ctx, strings.TrimSpace(targetID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return PublicIdentity{}, ErrNotFound
		}
		return PublicIdentity{}, directoryFault(err)
	}
	if target.OrganizationID != actor.OrganizationID {
		return PublicIdentity{}, ErrForbidden
	}
	target.Role = newRole
	if err := s.dir.Save(ctx, target); err != nil {
		return PublicIdentity{}, directoryFault(err)
	}

	s.sink.Record(ctx, Event{
		IdentityID:    actor.ID,
		IdentityEmail: actor.Email,
		Action:        "user.role_update",
		ResourceType:  "identity",
		ResourceID:    target.ID,
		OccurredAt:    s.now().UTC(),
	})
	return target.Public(), nil
}

// GetIdentity returns the public view of an identity.
func (s *Service) GetIdentity(ctx context.Context, id string) (PublicIdentity, error) {
	identity, err := s.dir.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return PublicIdentity{}, ErrNotFound
		}
		return PublicIdentity{}, directoryFault(err)
	}
	return identity.Public(), nil
}

// ListOrganizationIdentities lists the actor's organization. Viewers are
// denied.
func (s *Service) ListOrganizationIdentities(ctx context.Context, actor Identity) ([]PublicIdentity, error) {
	if actor.Role.Rank() < RoleAdmin.Rank() {
		return nil, ErrForbidden
	}
	identities, err := s.dir.ListByOrganization(ctx, actor.OrganizationID)
	if err != nil {
		return nil, directoryFault(err)
	}
	out := make([]PublicIdentity, 0, len(identities))
	for _, identity := range identities {
		out = append(out, identity.Public())
	}
	return out, nil
}

// CreateOrganization registers a tenant.
func (s *Service) CreateOrganization(ctx context.Context, name string) (Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Organization{}, fmt.Errorf("%w: organization name is required", ErrInvalidInput)
	}
	org := &Organization{ID: uuid.NewString(), Name: name}
	if err := s.orgs.Create(ctx, org); err != nil {
		return Organization{}, directoryFault(err)
	}
	return *org, nil
}

// GetOrganization looks a tenant up by id.
func (s *Service) GetOrganization(ctx context.Context, id string) (Organization, error) {
	org, err := s.orgs.Find(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Organization{}, ErrNotFound
		}
		return Organization{}, directoryFault(err)
	}
	return *org, nil
}

// directoryFault translates a storage error into the taxonomy. Context
// deadlines and transport faults become ErrDirectoryUnavailable so they are
// never mistaken for an auth failure.
func directoryFault(err error) error {
	return fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
}

func logAuthReject(reason string) {
	obs.CountAuthDecision("authenticate", reason)
	obs.LogRequest(map[string]any{
		"ts":     time.Now().UTC().Format(time.RFC3339Nano),
		"type":   "auth",
		"event":  "authenticate_rejected",
		"reason": reason,
	})
}
