package auth

import (
	"context"
	"errors"
)

type ctxKey int

const ctxSubject ctxKey = iota

// WithSubject stores the authenticated principal in the request context.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, ctxSubject, subject)
}

// Subject returns the authenticated principal, or an error when the request
// never passed through RequireAccessToken.
func Subject(ctx context.Context) (string, error) {
	v := ctx.Value(ctxSubject)
	if s, ok := v.(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("subject not in context")
}
