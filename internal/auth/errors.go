package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failure taxonomy. These are the only errors Verify returns;
// callers match them with errors.Is. The HTTP boundary must collapse all of
// them into a single 401 response (see RequireAccessToken) and keep the
// distinction for logs only.
var (
	// ErrMalformed: the token cannot be parsed into header/payload/signature.
	ErrMalformed = errors.New("auth: malformed token")

	// ErrSignatureMismatch: the signature does not match the recomputed value.
	// Also the result of verifying with a different secret than the issuer's.
	ErrSignatureMismatch = errors.New("auth: signature mismatch")

	// ErrAlgorithmMismatch: the token self-declares an algorithm other than
	// the one this deployment is configured for. Includes alg=none.
	ErrAlgorithmMismatch = errors.New("auth: algorithm not allowed")

	// ErrExpired: past expires_at (after any configured leeway).
	ErrExpired = errors.New("auth: token expired")

	// ErrWrongType: token_type does not match the expected use, e.g. a
	// refresh token presented against a protected endpoint.
	ErrWrongType = errors.New("auth: wrong token type")

	// ErrMissingSubject: no usable subject claim.
	ErrMissingSubject = errors.New("auth: missing subject")
)

// classify maps golang-jwt parse/validation errors onto the platform
// taxonomy. Signature problems take precedence over time-based ones: claims
// from an unauthenticated payload must not influence the reported reason.
func classify(err error) error {
	switch {
	case errors.Is(err, ErrAlgorithmMismatch):
		return ErrAlgorithmMismatch
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrSignatureMismatch
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	default:
		// Registered-claim failures (issuer, audience, missing iat) have no
		// dedicated category; they are rejected as malformed claim sets.
		return ErrMalformed
	}
}
