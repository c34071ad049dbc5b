package middleware

import (
	"github.com/gin-gonic/gin"

	"medicare/internal/auth"
	"medicare/internal/clinic"
	"medicare/internal/model"
)

const (
	// SessionCookie carries the signed session token.
	SessionCookie = "session"
	userKey       = "currentUser"
)

// Session resolves the session cookie to a user and threads it through
// the request context. The cookie is re-issued with a fresh expiry on
// every hit, so an active session never ages out. A missing or bad
// cookie just leaves the request anonymous.
func Session(svc *clinic.Service, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(SessionCookie)
		if err != nil || raw == "" {
			c.Next()
			return
		}

		claims, err := auth.ParseSessionToken(raw, secret)
		if err != nil {
			c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
			c.Next()
			return
		}

		u, err := svc.UserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
			c.Next()
			return
		}

		// sliding "permanent" session
		if tok, err := auth.MakeSessionToken(u.ID, u.Role, secret); err == nil {
			c.SetCookie(SessionCookie, tok, int(auth.SessionTTL.Seconds()), "/", "", false, true)
		}

		c.Set(userKey, u)
		c.Next()
	}
}

// CurrentUser returns the user resolved by Session, or nil.
func CurrentUser(c *gin.Context) *model.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*model.User); ok {
			return u
		}
	}
	return nil
}
