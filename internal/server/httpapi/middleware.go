package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jhontaff/JWT-Authentication/internal/common"
	"github.com/jhontaff/JWT-Authentication/internal/server/models"
)

const (
	authHeaderName = "Authorization"
	bearerScheme   = "Bearer"

	// contextAccountKey is where the filter stores the authenticated
	// identity for downstream handlers.
	contextAccountKey = "auth.account"
)

// authRequired is the request authentication filter. It runs once per
// request, before any business handler on the protected groups: it extracts
// the bearer token, validates it, loads the account behind the subject, and
// attaches the identity to the request context. Every failure ends in a
// well-formed 401 here; token errors never reach generic error handling.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(authHeaderName)
		if header == "" {
			s.reject(c, "MISSING_TOKEN", "authorization header required")
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || scheme != bearerScheme || token == "" {
			s.reject(c, "INVALID_AUTH_HEADER", "expected 'Bearer <token>'")
			return
		}

		claims, err := s.codec.Decode(token)
		if err != nil {
			s.reject(c, rejectionCode(err), "invalid or expired token")
			return
		}

		subject, err := claims.GetSubject()
		if err != nil || subject == "" {
			s.reject(c, "MALFORMED_TOKEN", "token has no subject")
			return
		}

		account, err := s.accounts.GetByEmail(c.Request.Context(), subject)
		if err != nil {
			if !errors.Is(err, common.ErrNotFound) {
				s.logger.Error(c.Request.Context(), "account lookup failed", "error", err.Error())
			}
			s.reject(c, "UNKNOWN_SUBJECT", "no account for token subject")
			return
		}

		c.Set(contextAccountKey, account)
		c.Next()
	}
}

func (s *Server) reject(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": code, "message": message})
}

// rejectionCode maps each token failure kind to its response code. The
// kinds stay distinguishable for clients; nothing is ever collapsed into
// a silent pass.
func rejectionCode(err error) string {
	switch {
	case errors.Is(err, common.ErrTokenExpired):
		return "TOKEN_EXPIRED"
	case errors.Is(err, common.ErrTokenUnsupported):
		return "TOKEN_UNSUPPORTED"
	case errors.Is(err, common.ErrInvalidArgument):
		return "EMPTY_CLAIMS"
	default:
		return "MALFORMED_TOKEN"
	}
}

// CurrentAccount returns the identity attached by the authentication
// filter, if any.
func CurrentAccount(c *gin.Context) (*models.Account, bool) {
	v, ok := c.Get(contextAccountKey)
	if !ok {
		return nil, false
	}
	account, ok := v.(*models.Account)
	return account, ok
}
