package databricks

import (
	"context"
	"fmt"
	"os"
)

// TokenProvider supplies the bearer credential for lineage API calls. The
// hosting environment decides where the token comes from; everything else
// treats it as a black box.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// TokenProviderFunc adapts a function to the TokenProvider interface.
type TokenProviderFunc func(ctx context.Context) (string, error)

func (f TokenProviderFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// StaticToken returns the same token on every call. An empty token fails at
// call time so misconfiguration surfaces as an auth error, not a 401.
func StaticToken(token string) TokenProvider {
	return TokenProviderFunc(func(context.Context) (string, error) {
		if token == "" {
			return "", fmt.Errorf("no token configured")
		}
		return token, nil
	})
}

// EnvToken reads the token from the named environment variable on every call.
func EnvToken(name string) TokenProvider {
	return TokenProviderFunc(func(context.Context) (string, error) {
		token := os.Getenv(name)
		if token == "" {
			return "", fmt.Errorf("environment variable %s is empty", name)
		}
		return token, nil
	})
}

type requestTokenKey struct{}

// WithRequestToken returns a context carrying a caller-supplied bearer token
// that takes precedence over any configured provider.
func WithRequestToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, requestTokenKey{}, token)
}

// PassthroughToken prefers a request-scoped token from the context and falls
// back to the wrapped provider. It lets a relay forward each caller's own
// credential while still working with a single configured service token.
func PassthroughToken(fallback TokenProvider) TokenProvider {
	return TokenProviderFunc(func(ctx context.Context) (string, error) {
		if token, ok := ctx.Value(requestTokenKey{}).(string); ok && token != "" {
			return token, nil
		}
		return fallback.Token(ctx)
	})
}
