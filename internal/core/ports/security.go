package ports

import "time"

// PasswordHasher hashes and verifies credentials.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify returns false, nil on a mismatch and an error wrapping
	// domain.ErrHashing when the stored hash cannot be evaluated.
	Verify(plaintext, hash string) (bool, error)
}

// TokenClaims is what a verified token asserts.
type TokenClaims struct {
	AccountID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies bearer tokens.
type TokenIssuer interface {
	Issue(accountID string) (string, error)
	Parse(token string) (*TokenClaims, error)
}
