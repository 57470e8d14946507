package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is enforced by request validation, not by the hasher.
const MinPasswordLength = 6

// Hasher wraps bcrypt with a tunable cost factor.
type Hasher struct {
	cost int
}

// NewHasher constructs a Hasher. Costs outside bcrypt's range fall back to
// the library default.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash derives a salted one-way hash of the plaintext.
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: password is empty", ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether the plaintext matches the stored hash. A malformed
// stored hash yields false, never an error: a corrupted record must not turn
// into an authentication bypass or a crash.
func (h *Hasher) Verify(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// dummyHash is compared against when a login targets an unknown email so the
// two rejection paths cost roughly the same.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("taskhub-timing-pad"), bcrypt.DefaultCost)

func compareDummy(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
