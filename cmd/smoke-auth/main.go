package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"
)

// Smoke test against a running taskhub-api: creates an organization,
// registers two identities, logs in and verifies the role guard end to end.
func main() {
	base := os.Getenv("TASKHUB_API_URL")
	if base == "" {
		base = "http://localhost:8080"
	}

	client := &http.Client{Timeout: 10 * time.Second}
	suffix := rand.New(rand.NewSource(time.Now().UnixNano())).Int63()

	var org struct {
		ID string `json:"id"`
	}
	post(client, base+"/v1/organizations", map[string]string{
		"name": fmt.Sprintf("smoke-org-%d", suffix),
	}, "", http.StatusCreated, &org)

	email := fmt.Sprintf("smoke-%d@example.com", suffix)
	var identity struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	}
	post(client, base+"/v1/auth/register", map[string]string{
		"email":           email,
		"password":        "smoke-pass-1",
		"first_name":      "Smoke",
		"last_name":       "Test",
		"organization_id": org.ID,
	}, "", http.StatusCreated, &identity)
	if identity.Role != "viewer" {
		log.Fatalf("new identity role = %q, want viewer", identity.Role)
	}

	var login struct {
		Token string `json:"token"`
	}
	post(client, base+"/v1/auth/login", map[string]string{
		"email":    email,
		"password": "smoke-pass-1",
	}, "", http.StatusOK, &login)
	if login.Token == "" {
		log.Fatal("login returned an empty token")
	}

	// Authenticated read works for any role.
	get(client, base+"/v1/users/"+identity.ID, login.Token, http.StatusOK)

	// A viewer must be refused the member listing and the audit tail.
	get(client, base+"/v1/users", login.Token, http.StatusForbidden)
	get(client, base+"/v1/audit/stream", login.Token, http.StatusForbidden)

	// No token at all is refused outright.
	get(client, base+"/v1/users/"+identity.ID, "", http.StatusUnauthorized)

	fmt.Printf("✅ taskhub-api smoke test passed: org=%s identity=%s\n", org.ID, identity.ID)
}

func post(client *http.Client, url string, body any, token string, wantStatus int, out any) {
	payload, err := json.Marshal(body)
	if err != nil {
		log.Fatalf("marshal %s: %v", url, err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		log.Fatalf("request %s: %v", url, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	do(client, req, wantStatus, out)
}

func get(client *http.Client, url, token string, wantStatus int) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		log.Fatalf("request %s: %v", url, err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	do(client, req, wantStatus, nil)
}

func do(client *http.Client, req *http.Request, wantStatus int, out any) {
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", req.Method, req.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		log.Fatalf("%s %s: status %d, want %d", req.Method, req.URL, resp.StatusCode, wantStatus)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			log.Fatalf("decode %s: %v", req.URL, err)
		}
	}
}
