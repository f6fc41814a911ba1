package auth

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
)

const sessionContextKey = "brightfeed.session"

// Middleware resolves an optional bearer token into a Session on the request
// context. An absent or invalid token is not an error here; handlers that
// require a user enforce that themselves. The first request carrying a given
// token counts as a sign-in and is published to the broker, which reloads the
// user's favorite set. A nil broker disables the events.
func Middleware(verifier Verifier, broker *Broker) echo.MiddlewareFunc {
	var seen sync.Map

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if ok && token != "" {
				session, err := verifier.Verify(c.Request().Context(), token)
				if err != nil {
					slog.Debug("Ignoring unverifiable session token", "error", err)
				} else {
					c.Set(sessionContextKey, session)
					if broker != nil {
						if _, loaded := seen.LoadOrStore(token, struct{}{}); !loaded {
							broker.Publish(Event{Kind: SignedIn, Session: session})
						}
					}
				}
			}
			return next(c)
		}
	}
}

// SessionFrom returns the request's session, or nil for anonymous requests.
func SessionFrom(c echo.Context) *Session {
	s, _ := c.Get(sessionContextKey).(*Session)
	return s
}
