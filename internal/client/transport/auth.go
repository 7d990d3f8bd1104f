package transport

import (
	"context"
	"net/http"
	"strings"
)

const (
	headerAuthorization = "Authorization"
	bearerPrefix        = "Bearer "
)

// TokenSource yields the bearer token to attach, or "" for none.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

type tokenKey struct{}
type anonymousKey struct{}

// WithToken scopes token to calls made with the returned context. It takes
// precedence over the TokenSource, which lets a caller use a token that is
// not yet part of shared state.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// Anonymous marks calls made with the returned context as unauthenticated.
func Anonymous(ctx context.Context) context.Context {
	return context.WithValue(ctx, anonymousKey{}, true)
}

// TokenFromContext returns the token scoped by WithToken, if any.
func TokenFromContext(ctx context.Context) (string, bool) {
	tok, ok := ctx.Value(tokenKey{}).(string)
	return tok, ok
}

func tokenFor(ctx context.Context, src TokenSource) string {
	if anon, _ := ctx.Value(anonymousKey{}).(bool); anon {
		return ""
	}
	if tok, ok := TokenFromContext(ctx); ok {
		return tok
	}
	if src == nil {
		return ""
	}
	return src.Token()
}

// Bearer attaches "Authorization: Bearer <token>" when a token is available.
func Bearer(src TokenSource) Middleware {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			if tok := tokenFor(req.Context(), src); tok != "" {
				req = req.Clone(req.Context())
				req.Header.Set(headerAuthorization, bearerPrefix+tok)
			}
			return next.Do(req)
		})
	}
}

// AttachedToken returns the bearer token carried by req, or "".
func AttachedToken(req *http.Request) string {
	h := req.Header.Get(headerAuthorization)
	if !strings.HasPrefix(h, bearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(h, bearerPrefix)
}
