package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medicare/internal/clinic"
	"medicare/internal/middleware"
)

type Handler struct {
	svc    *clinic.Service
	secret string
}

func New(svc *clinic.Service, secret string) *Handler {
	return &Handler{svc: svc, secret: secret}
}

// RequireLogin gates the mutating routes: anonymous requests bounce back
// to the landing page with a flash notice.
func (h *Handler) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if middleware.CurrentUser(c) == nil {
			setFlash(c, "error", "Please log in to access this page.")
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}
