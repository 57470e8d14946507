package httpapi

import (
	"bufio"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"taskhub.org/internal/auth"
)

// The audit tail must deliver events through the full middleware chain as
// they happen, not when the connection's write buffer fills.
func TestAuditStreamDeliversEvents(t *testing.T) {
	c := newTestAPI(t)
	orgID := c.createOrg("Acme")
	owner := c.register("owner@example.com", orgID)
	c.promote(owner.ID, auth.RoleOwner)
	token, _ := c.login("owner@example.com")

	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/v1/audit/stream", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := c.client.Do(req)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("open stream: status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type %q", ct)
	}

	lines := make(chan string, 16)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	waitLine := func(prefix string) string {
		t.Helper()
		deadline := time.After(5 * time.Second)
		for {
			select {
			case line, ok := <-lines:
				if !ok {
					t.Fatal("stream closed before the expected line")
				}
				if strings.HasPrefix(line, prefix) {
					return line
				}
			case <-deadline:
				t.Fatalf("no %q line within deadline", prefix)
			}
		}
	}

	// The opening comment proves headers and the preamble were flushed.
	waitLine(": stream started")

	// An audited operation elsewhere must show up on the tail promptly.
	c.register("alice@example.com", orgID)

	line := waitLine("data: ")
	var event auth.Event
	if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event); err != nil {
		t.Fatalf("decode event %q: %v", line, err)
	}
	if event.Action != "auth.register" {
		t.Fatalf("event action %q, want auth.register", event.Action)
	}
	if event.IdentityEmail != "alice@example.com" {
		t.Fatalf("event email %q", event.IdentityEmail)
	}
}
