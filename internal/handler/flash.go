package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const flashCookie = "flash"

// Flash is a one-time notice shown on the next rendered page.
type Flash struct {
	Kind    string // success, info, error
	Message string
}

func setFlash(c *gin.Context, kind, message string) {
	c.SetCookie(flashCookie, kind+"|"+message, 300, "/", "", false, true)
}

// popFlash reads and clears the flash cookie.
func popFlash(c *gin.Context) *Flash {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	kind, message, found := strings.Cut(raw, "|")
	if !found {
		kind, message = "info", raw
	}
	return &Flash{Kind: kind, Message: message}
}
