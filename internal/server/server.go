// Package server exposes the book tracker over HTTP.
package server

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"booktracker/internal/identity"
	"booktracker/internal/session"
	"booktracker/internal/store"
)

const (
	sessionCookie = "session"
	sessionKey    = "session"
	pingTimeout   = 5 * time.Second
)

// Server holds the collaborators the handlers need.
type Server struct {
	store        store.DocumentStore
	gateway      identity.Gateway
	sessions     *session.Registry
	log          *logrus.Logger
	logWriter    *io.PipeWriter
	secureCookie bool
}

// New creates a Server. secureCookie marks the session cookie HTTPS only.
func New(s store.DocumentStore, g identity.Gateway, reg *session.Registry, l *logrus.Logger, secureCookie bool) *Server {
	return &Server{store: s, gateway: g, sessions: reg, log: l, logWriter: l.Writer(), secureCookie: secureCookie}
}

// Close releases the request log writer. Call it once the HTTP server has stopped.
func (srv *Server) Close() error {
	return srv.logWriter.Close()
}

// Router builds the gin engine with every route registered.
func (srv *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.LoggerWithWriter(srv.logWriter), gin.Recovery())

	r.GET("/", index)
	r.GET("/health", srv.health)

	auth := r.Group("/auth")
	auth.POST("/signin", srv.signIn)
	auth.POST("/signup", srv.signUp)
	auth.POST("/logout", srv.logout)

	books := r.Group("/", srv.requireSession)
	books.GET("/books", srv.listBooks)
	books.POST("/books", srv.addBook)
	books.POST("/books/:id/edit", srv.startEdit)
	books.GET("/books/:id/complete", confirmCompletion)
	books.POST("/books/:id/complete", srv.completeBook)
	books.GET("/edits/:wid", srv.showEdit)
	books.POST("/edits/:wid", srv.answerEdit)

	return r
}

func index(c *gin.Context) {
	host, _ := os.Hostname()
	c.JSON(http.StatusOK, gin.H{"hostname": host})
}

func (srv *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	if err := store.Ping(ctx, srv.store); err != nil {
		srv.log.WithError(err).Error("Health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"healthy": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"healthy": true})
}
