package session

import (
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// The client cannot verify server signatures; claims are only read to show
// the user id and expiry when the server does not send expires_in.
var claimsParser = jwt.NewParser()

func parseClaims(raw string) (*jwt.RegisteredClaims, bool) {
	if raw == "" {
		return nil, false
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := claimsParser.ParseUnverified(raw, claims); err != nil {
		return nil, false
	}
	return claims, true
}

func subjectOf(raw string) string {
	claims, ok := parseClaims(raw)
	if !ok {
		return ""
	}
	return claims.Subject
}

// fillExpiry returns a copy of tok with Expiry taken from the JWT exp claim
// when the token itself does not carry one.
func fillExpiry(tok *oauth2.Token) *oauth2.Token {
	cp := *tok
	if !cp.Expiry.IsZero() {
		return &cp
	}
	if claims, ok := parseClaims(cp.AccessToken); ok && claims.ExpiresAt != nil {
		cp.Expiry = claims.ExpiresAt.Time
	}
	return &cp
}
