package auth

import "time"

// Organization is the tenant boundary. Identities and every resource they
// touch belong to exactly one organization.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Identity is a registered account. PasswordHash is write-only from the
// outside: it is read for verification and never serialized in a response.
type Identity struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Role           Role      `json:"role"`
	OrganizationID string    `json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PublicIdentity is the wire shape returned to callers. The credential field
// does not exist here at all.
type PublicIdentity struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Role           Role   `json:"role"`
	OrganizationID string `json:"organization_id"`
}

// Public strips the identity down to its response shape.
func (i Identity) Public() PublicIdentity {
	return PublicIdentity{
		ID:             i.ID,
		Email:          i.Email,
		FirstName:      i.FirstName,
		LastName:       i.LastName,
		Role:           i.Role,
		OrganizationID: i.OrganizationID,
	}
}

// RegisterRequest carries the fields needed to create an identity.
type RegisterRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	OrganizationID string `json:"organization_id"`
}

// LoginResult pairs a session token with the public view of its subject.
type LoginResult struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	Identity  PublicIdentity `json:"identity"`
}
