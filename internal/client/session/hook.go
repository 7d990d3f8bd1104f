package session

import (
	"context"

	"github.com/dmitrijs2005/flashcards/internal/client/transport"
)

// Invalidator is the force-clear capability of a Store.
type Invalidator interface {
	Invalidate(ctx context.Context, token string) bool
}

// Navigator is the part of the router the forced logout needs.
type Navigator interface {
	Location() string
	Navigate(route string)
}

// ForcedLogout returns the transport's 401 handler: clear the session that
// owned the rejected token and send the user to loginRoute. Concurrent 401s
// for the same session clear and redirect once.
func ForcedLogout(inv Invalidator, nav Navigator, loginRoute string) transport.UnauthorizedFunc {
	return func(ctx context.Context, token string) {
		if !inv.Invalidate(ctx, token) {
			return
		}
		if nav == nil || nav.Location() == loginRoute {
			return
		}
		nav.Navigate(loginRoute)
	}
}
