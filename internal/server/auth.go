package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"booktracker/internal/identity"
	"booktracker/internal/validation"
)

func (srv *Server) signIn(c *gin.Context) {
	var creds identity.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := creds.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.(validation.Errors)})
		return
	}

	id, err := srv.gateway.SignIn(c.Request.Context(), creds.Email, creds.Password)
	if err != nil {
		srv.authFailure(c, err)
		return
	}

	s, err := srv.sessions.Open(id)
	if err != nil {
		srv.log.WithError(err).Error("Failed to open session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not open session"})
		return
	}
	srv.setSessionCookie(c, s)
	srv.log.WithField("email", s.Email).Info("User signed in")
	c.JSON(http.StatusOK, gin.H{"token": s.Token, "email": s.Email, "redirect": "/home"})
}

func (srv *Server) signUp(c *gin.Context) {
	var reg identity.Registration
	if err := c.ShouldBindJSON(&reg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := reg.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": err.(validation.Errors)})
		return
	}

	id, err := srv.gateway.SignUp(c.Request.Context(), reg.Email, reg.Password)
	if err != nil {
		if aerr, ok := identity.AsAuthError(err); ok && aerr.Code == identity.CodeEmailExists {
			c.JSON(http.StatusConflict, gin.H{"title": "Signup Failed", "text": "Email already in use.", "code": aerr.Code})
			return
		}
		srv.authFailure(c, err)
		return
	}

	srv.log.WithFields(log.Fields{"email": id.Email, "user_id": id.UserID}).Info("User signed up")
	c.JSON(http.StatusCreated, gin.H{
		"title":    "Signup Successful",
		"text":     "You have successfully signed up!",
		"redirect": "/",
	})
}

func (srv *Server) logout(c *gin.Context) {
	if token := tokenFrom(c); token != "" {
		srv.sessions.Close(token)
	}
	srv.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"redirect": "/"})
}

// authFailure answers a provider error. Wrong credentials get one generic
// acknowledgment; anything else is an upstream failure.
func (srv *Server) authFailure(c *gin.Context, err error) {
	if aerr, ok := identity.AsAuthError(err); ok && aerr.IsWrongCredentials() {
		c.JSON(http.StatusUnauthorized, gin.H{"title": "Login Failed", "text": "Incorrect email or password."})
		return
	}
	srv.log.WithError(err).Error("Identity provider call failed")
	c.JSON(http.StatusBadGateway, gin.H{"title": "Error", "text": err.Error()})
}
