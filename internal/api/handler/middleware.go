package handler

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/loanwise/internal/auth"
)

// RequireSession only lets requests with a live session through.
// Everyone else is sent to the login page.
func (h *Handler) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := sessions.Default(c)
		info, err := h.auth.RequireSession(c.Request.Context(), sessionToken(s))
		if err != nil {
			if !errors.Is(err, auth.ErrUnauthenticated) {
				log.Error("Failed to look up session", "error", err)
			}
			s.Delete(SessionTokenKey)
			s.AddFlash(MsgLoginRequired)
			if err := s.Save(); err != nil {
				log.Error("Failed to save session", "error", err)
			}
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set(contextSessionKey, info)
		c.Next()
	}
}
