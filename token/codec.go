// Package token decodes bearer token payloads without verifying signatures.
// Trust in a token comes from transport security and server issuance; the
// client only needs the claims to know who is logged in and until when.
package token

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// NowFunc returns the current time. It can be overridden in tests.
var NowFunc = time.Now

var (
	ErrMalformedToken = errors.New("malformed token")
	ErrMissingClaims  = errors.New("token missing exp or iat claim")
)

// Payload holds the claims extracted from a token's middle segment.
type Payload struct {
	Sub       string // user's unique ID
	Email     string
	SubDomain string // tenant the token was issued for
	Exp       int64  // expiry, unix seconds
	Iat       int64  // issued at, unix seconds

	// Claims keeps the full decoded claim set so callers can read
	// fields this struct does not model.
	Claims map[string]any
}

// Decode splits a bearer token into its three dot-separated segments and
// decodes the middle one as a base64url JSON object. No signature
// verification is performed.
func Decode(raw string) (*Payload, error) {
	parsed, _, err := jwtlib.NewParser().ParseUnverified(raw, jwtlib.MapClaims{})
	if err != nil {
		return nil, ErrMalformedToken
	}

	claims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, ErrMalformedToken
	}

	exp, expOK := numericClaim(claims, "exp")
	iat, iatOK := numericClaim(claims, "iat")
	if !expOK || !iatOK {
		return nil, ErrMissingClaims
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	subDomain, _ := claims["sub-domain"].(string)

	return &Payload{
		Sub:       sub,
		Email:     email,
		SubDomain: subDomain,
		Exp:       exp,
		Iat:       iat,
		Claims:    claims,
	}, nil
}

// IsExpired reports whether a token with the given expiry is no longer
// valid. A token expiring exactly now counts as expired.
func IsExpired(exp int64) bool {
	return NowFunc().Unix() >= exp
}

// Expired is a convenience over Decode for callers that only hold the raw
// token. A token that cannot be decoded is treated as expired.
func Expired(raw string) bool {
	payload, err := Decode(raw)
	if err != nil {
		return true
	}
	return IsExpired(payload.Exp)
}

func numericClaim(claims jwtlib.MapClaims, name string) (int64, bool) {
	v, ok := claims[name]
	if !ok {
		return 0, false
	}
	// JSON numbers decode as float64
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}
