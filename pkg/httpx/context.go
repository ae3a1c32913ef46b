package httpx

import (
	"context"

	"github.com/harborcrest/authgate/pkg/jwtx"
)

type principalKey struct{}

// WithPrincipal attaches a verified Principal to the context. Only the
// authentication gate should call this.
func WithPrincipal(ctx context.Context, p jwtx.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the Principal attached by the gate, if any.
// Handlers behind AuthGate on a protected path can rely on ok being true.
func PrincipalFromContext(ctx context.Context) (jwtx.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(jwtx.Principal)
	return p, ok
}
