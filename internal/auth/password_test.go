package auth

import "testing"

func TestHashAndVerify(t *testing.T) {
	h := NewHasher(4) // low cost keeps the test fast

	hash, err := h.Hash("correct horse")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "correct horse" {
		t.Fatal("hash equals plaintext")
	}
	if !h.Verify("correct horse", hash) {
		t.Fatal("expected matching password to verify")
	}
	if h.Verify("battery staple", hash) {
		t.Fatal("expected different password to fail")
	}
}

func TestHashEmptyPassword(t *testing.T) {
	h := NewHasher(4)
	if _, err := h.Hash(""); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	h := NewHasher(4)
	// A corrupted stored hash must read as a mismatch, not a crash.
	for _, stored := range []string{"", "not-a-bcrypt-hash", "$2a$garbage"} {
		if h.Verify("anything", stored) {
			t.Fatalf("malformed hash %q verified", stored)
		}
	}
}

func TestHasherCostFallback(t *testing.T) {
	h := NewHasher(99)
	hash, err := h.Hash("secret-pass")
	if err != nil {
		t.Fatalf("Hash with out-of-range cost: %v", err)
	}
	if !h.Verify("secret-pass", hash) {
		t.Fatal("verify failed after cost fallback")
	}
}
