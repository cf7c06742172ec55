package session

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultExpiryWarning is how close to expiry a token may get before the
// console starts flagging it during navigation checks.
const DefaultExpiryWarning = 5 * time.Minute

// DecodeClaims extracts the claims from the payload segment of a bearer
// token without verifying the signature. The token is untrusted
// client-side metadata; the server remains the authority on validity.
func DecodeClaims(token string) (jwt.MapClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, jwt.ErrTokenMalformed
	}

	payload, err := jwt.NewParser().DecodeSegment(parts[1])
	if err != nil {
		return nil, err
	}

	var claims jwt.MapClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, err
	}

	return claims, nil
}

// IsExpired reports whether a token's exp claim is in the past. It is
// total over all string inputs: malformed tokens, undecodable payloads
// and missing or non-numeric exp claims are all treated as expired.
func IsExpired(token string) bool {
	exp, ok := expiresAt(token)
	if !ok {
		return true
	}
	return !time.Now().Before(exp)
}

// ExpiresWithin reports whether the token's remaining lifetime is below
// threshold. Undecodable tokens count as imminently expiring.
func ExpiresWithin(token string, threshold time.Duration) bool {
	exp, ok := expiresAt(token)
	if !ok {
		return true
	}
	return time.Until(exp) < threshold
}

func expiresAt(token string) (time.Time, bool) {
	claims, err := DecodeClaims(token)
	if err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}

	return exp.Time, true
}
