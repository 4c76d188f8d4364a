package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/mrlokans/bookshelf/internal/errors"
	"github.com/mrlokans/bookshelf/internal/identity"
)

// ContextKeyIdentity holds the identity.Identity resolved for the request.
const ContextKeyIdentity = "auth_identity"

// TokenParser turns a bearer token into an identity.
type TokenParser interface {
	Parse(token string) (identity.Identity, error)
}

// Middleware resolves bearer tokens into identities.
type Middleware struct {
	tokens TokenParser
}

func NewMiddleware(tokens TokenParser) *Middleware {
	return &Middleware{tokens: tokens}
}

// Handler authenticates requests carrying an Authorization header. Requests
// without one continue as anonymous; a malformed or invalid token is rejected.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Set(ContextKeyIdentity, identity.Identity{})
			c.Next()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			abort(c, apperrors.Unauthorized("bearer token malformed"))
			return
		}

		id, err := m.tokens.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			abort(c, ErrInvalidToken)
			return
		}

		c.Set(ContextKeyIdentity, id)
		c.Next()
	}
}

// RequireUser rejects anonymous requests.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := IdentityFrom(c).RequireUser(); err != nil {
			abort(c, err)
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the caller set by Handler, or an anonymous identity.
func IdentityFrom(c *gin.Context) identity.Identity {
	if v, ok := c.Get(ContextKeyIdentity); ok {
		if id, ok := v.(identity.Identity); ok {
			return id
		}
	}
	return identity.Identity{}
}

func abort(c *gin.Context, err error) {
	var domainErr *apperrors.Error
	if !apperrors.As(err, &domainErr) {
		domainErr = apperrors.ErrUnauthorized
	}
	c.AbortWithStatusJSON(domainErr.HTTPStatus(), gin.H{"error": domainErr})
}
