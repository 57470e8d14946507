package httpapi

import (
	"context"
	"net/http"
	"testing"
	"time"

	"taskhub.org/internal/auth"
)

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"plain", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"lowercase scheme", "bearer abc.def.ghi", "abc.def.ghi", false},
		{"padded", "  Bearer abc  ", "abc", false},
		{"empty", "", "", true},
		{"wrong scheme", "Basic dXNlcjpwYXNz", "", true},
		{"scheme only", "Bearer ", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extractBearerToken(tc.header)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPublicPaths(t *testing.T) {
	public := []string{"/healthz", "/readyz", "/metrics", "/v1/info", "/v1/auth/register", "/v1/auth/login"}
	for _, p := range public {
		if !isPublicPath(p) {
			t.Fatalf("%s should be public", p)
		}
	}
	protected := []string{"/v1/users", "/v1/users/abc", "/v1/organizations/abc", "/v1/audit/stream"}
	for _, p := range protected {
		if isPublicPath(p) {
			t.Fatalf("%s should require a token", p)
		}
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	c := newTestAPI(t)
	orgID := c.createOrg("Acme")
	alice := c.register("alice@example.com", orgID)

	// Same secret, clock pinned two days back so the token is already stale.
	past := time.Now().Add(-48 * time.Hour)
	stale, err := auth.NewTokenService(
		auth.TokenConfig{Secret: []byte("test-secret"), TTL: time.Hour},
		auth.WithClock(func() time.Time { return past }),
	)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	identity, err := c.dir.FindByID(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	token, _, err := stale.Issue(*identity)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	resp := c.do(http.MethodGet, "/v1/users/"+alice.ID, nil, token)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expired token: status %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestDeletedIdentityTokenRejected(t *testing.T) {
	c := newTestAPI(t)
	orgID := c.createOrg("Acme")
	alice := c.register("alice@example.com", orgID)

	identity, err := c.dir.FindByID(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	token, _, err := c.tokens.Issue(*identity)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// A token minted for an identity the directory no longer knows is refused
	// with the same response as any other bad token.
	fresh := newTestAPI(t)
	resp := fresh.do(http.MethodGet, "/v1/users/"+alice.ID, nil, token)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("orphaned token: status %d", resp.StatusCode)
	}
	resp.Body.Close()
}
