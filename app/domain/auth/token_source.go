package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"repairshop.dev/photo-gateway/config/environment_variables"
)

var ErrNoToken = errors.New("auth: no backend token available")

// TokenSource supplies the bearer token sent to the photo backend. Scope names
// whose credentials Token returns for ctx; answers fetched under different
// scopes must not be shared. The empty scope is the service identity.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Scope(ctx context.Context) string
}

type StaticTokenSource string

func (s StaticTokenSource) Token(context.Context) (string, error) {
	if s == "" {
		return "", ErrNoToken
	}
	return string(s), nil
}

func (s StaticTokenSource) Scope(context.Context) string { return "" }

type bearerKey struct{}

type identityKey struct{}

// WithBearer stores the caller's bearer token so backend calls made on its
// behalf can forward it.
func WithBearer(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerKey{}, token)
}

func BearerFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(bearerKey{}).(string)
	return token, ok && token != ""
}

// WithIdentity stores who the bearer token belongs to.
func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

func IdentityFromContext(ctx context.Context) (string, bool) {
	identity, ok := ctx.Value(identityKey{}).(string)
	return identity, ok && identity != ""
}

// ForwardingTokenSource uses the caller's bearer token and falls back to a static one.
type ForwardingTokenSource struct {
	Fallback StaticTokenSource
}

func (s ForwardingTokenSource) Token(ctx context.Context) (string, error) {
	if token, ok := BearerFromContext(ctx); ok {
		return token, nil
	}
	return s.Fallback.Token(ctx)
}

// Scope is the caller's identity whenever the caller's token is forwarded. A
// token without an identity is scoped by its digest.
func (s ForwardingTokenSource) Scope(ctx context.Context) string {
	token, ok := BearerFromContext(ctx)
	if !ok {
		return s.Fallback.Scope(ctx)
	}
	if identity, ok := IdentityFromContext(ctx); ok {
		return "user:" + identity
	}
	sum := sha256.Sum256([]byte(token))
	return "token:" + hex.EncodeToString(sum[:8])
}

// NewTokenSource prefers the service token in BACKEND_API_TOKEN; without one
// the caller's own token is forwarded.
func NewTokenSource() TokenSource {
	static := StaticTokenSource(strings.TrimSpace(environment_variables.EnvironmentVariables.BACKEND_API_TOKEN))
	if static != "" {
		return static
	}
	return ForwardingTokenSource{}
}
