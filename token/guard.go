package token

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"
)

// Guard hashes refresh tokens for storage and judges presented tokens against
// the stored hash. A deterministic digest is deliberate: the token already
// carries high entropy from its signature, and determinism lets the store
// rotate sessions with a compare-and-set on the hash column. The raw token is
// never recoverable from the stored value.
type Guard struct {
	sessionTTL time.Duration
}

// NewGuard creates a Guard whose stored-hash validity window is sessionTTL.
// This window is independent of the refresh token's own embedded expiry.
func NewGuard(sessionTTL time.Duration) Guard {
	if sessionTTL == 0 {
		sessionTTL = 7 * 24 * time.Hour
	}
	return Guard{sessionTTL: sessionTTL}
}

// HashForStorage returns the one-way transform of rawToken persisted on the
// user row.
func (g Guard) HashForStorage(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}

// Matches reports whether rawToken hashes to storedHash. Returns false, never
// an error, on mismatch or when no hash is stored.
func (g Guard) Matches(rawToken, storedHash string) bool {
	if storedHash == "" {
		return false
	}
	computed := g.HashForStorage(rawToken)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}

// SessionExpiryFrom returns how long the stored hash remains eligible for
// matching, counted from now.
func (g Guard) SessionExpiryFrom(now time.Time) time.Time {
	return now.Add(g.sessionTTL)
}
