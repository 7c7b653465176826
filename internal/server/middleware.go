package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"booktracker/internal/session"
)

func tokenFrom(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	token, _ := c.Cookie(sessionCookie)
	return token
}

// requireSession rejects requests without a live session and stores the
// session on the context for the handlers.
func (srv *Server) requireSession(c *gin.Context) {
	s, err := srv.sessions.Lookup(tokenFrom(c))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not signed in", "redirect": "/"})
		return
	}
	c.Set(sessionKey, s)
	c.Next()
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}

func (srv *Server) setSessionCookie(c *gin.Context, s *session.Session) {
	maxAge := int(srv.sessions.TTL().Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, s.Token, maxAge, "/", "", srv.secureCookie, true)
}

func (srv *Server) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", srv.secureCookie, true)
}
