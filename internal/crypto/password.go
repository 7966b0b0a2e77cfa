package crypto

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes plaintext using bcrypt. A cost of zero selects the
// bcrypt default; higher values slow the hash down for hostile guessing.
func HashPassword(plain string, cost int) ([]byte, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return bcrypt.GenerateFromPassword([]byte(plain), cost)
}

// VerifyPassword reports whether plaintext matches the stored hash.
// A mismatch is not an error condition.
func VerifyPassword(hash []byte, plain string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(plain)) == nil
}
