package password

import (
	"golang.org/x/crypto/bcrypt"
)

const MinCost = 10

// Hasher wraps bcrypt with a work factor fixed at construction time.
type Hasher struct {
	cost int
}

func NewHasher(cost int) Hasher {
	if cost < MinCost {
		cost = MinCost
	}
	return Hasher{cost: cost}
}

func (h Hasher) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether plain matches hash. A malformed hash is treated
// as a mismatch, never as an error.
func (h Hasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
