package auth

import "github.com/golang-jwt/jwt/v5"

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims is the only claim shape services on this platform accept.
// Subject is an opaque principal identifier: services must not parse it back
// into a numeric ID. Any extra claims a future issuer adds ride along in the
// encoded token untouched; verification looks only at the fields below.
type Claims struct {
	jwt.RegisteredClaims

	TokenType TokenType `json:"token_type"`
}
