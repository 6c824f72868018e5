package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jhontaff/JWT-Authentication/internal/common"
	"github.com/jhontaff/JWT-Authentication/internal/server/users"
)

type registerRequest struct {
	Email           string   `json:"email" binding:"required,email"`
	Username        string   `json:"username" binding:"required"`
	Lastname        string   `json:"lastname"`
	Address         string   `json:"address"`
	Password        string   `json:"password" binding:"required"`
	ConfirmPassword string   `json:"confirmPassword" binding:"required"`
	Roles           []string `json:"roles"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// authResponse carries just the issued session token.
type authResponse struct {
	Token string `json:"token"`
}

type profileResponse struct {
	Email    string   `json:"email"`
	Username string   `json:"username"`
	Lastname string   `json:"lastname"`
	Address  string   `json:"address"`
	Roles    []string `json:"roles"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_INPUT", "message": err.Error()})
		return
	}

	token, err := s.users.Register(c.Request.Context(), users.RegisterRequest{
		Email:           req.Email,
		Username:        req.Username,
		Lastname:        req.Lastname,
		Address:         req.Address,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Roles:           req.Roles,
	})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrPasswordMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"code": "PASSWORD_MISMATCH", "message": "password does not match"})
		case errors.Is(err, common.ErrDuplicateEmail):
			c.JSON(http.StatusConflict, gin.H{"code": "DUPLICATE_EMAIL", "message": "email already exists"})
		default:
			s.logger.Error(c.Request.Context(), "registration failed", "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL", "message": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, authResponse{Token: token})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_INPUT", "message": err.Error()})
		return
	}

	token, err := s.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrAuthenticationFailed) {
			c.JSON(http.StatusUnauthorized, gin.H{"code": "INVALID_CREDENTIALS", "message": "invalid credentials"})
			return
		}
		s.logger.Error(c.Request.Context(), "login failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL", "message": "internal error"})
		return
	}

	c.JSON(http.StatusOK, authResponse{Token: token})
}

func (s *Server) handleMe(c *gin.Context) {
	account, ok := CurrentAccount(c)
	if !ok {
		// The filter always runs first on this group; a missing identity
		// here means the route was wired without it.
		c.JSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHORIZED", "message": "no authenticated identity"})
		return
	}

	c.JSON(http.StatusOK, profileResponse{
		Email:    account.Email,
		Username: account.Username,
		Lastname: account.Lastname,
		Address:  account.Address,
		Roles:    account.RoleNames(),
	})
}
