package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"angeles-backend/internal/shared"
	"angeles-backend/internal/shared/apperror"
	"angeles-backend/internal/shared/response"
)

const principalKey = "principal"

// TokenVerifier validates a bearer token and returns its subject
type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

// PrincipalResolver loads the identity a token was issued for
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, id uuid.UUID) (*shared.Principal, error)
}

var errUnauthenticated = apperror.Unauthenticated("authentication required")

// Authenticate rejects the request unless it carries a valid bearer token
// for an existing identity. The principal is attached to the context.
func Authenticate(verifier TokenVerifier, resolver PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := authenticate(c, verifier, resolver)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		SetPrincipal(c, principal)
		c.Next()
	}
}

// OptionalAuthenticate attaches a principal when a valid token is presented
// and otherwise lets the request continue anonymously
func OptionalAuthenticate(verifier TokenVerifier, resolver PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			if principal, err := authenticate(c, verifier, resolver); err == nil {
				SetPrincipal(c, principal)
			}
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, verifier TokenVerifier, resolver PrincipalResolver) (*shared.Principal, error) {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		return nil, errUnauthenticated
	}

	userID, err := verifier.Verify(token)
	if err != nil {
		return nil, errUnauthenticated
	}

	principal, err := resolver.ResolvePrincipal(c.Request.Context(), userID)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindNotFound {
			return nil, errUnauthenticated
		}
		// Store failure, not a credential problem
		log.Error().Err(err).Str("request_id", c.GetString(RequestIDKey)).Msg("Failed to resolve principal")
		return nil, err
	}

	return principal, nil
}

// bearerToken extracts <token> from "Bearer <token>"
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// CurrentPrincipal returns the authenticated caller, or nil for anonymous requests
func CurrentPrincipal(c *gin.Context) *shared.Principal {
	v, exists := c.Get(principalKey)
	if !exists {
		return nil
	}
	principal, _ := v.(*shared.Principal)
	return principal
}

// SetPrincipal attaches a principal to the context
func SetPrincipal(c *gin.Context, principal *shared.Principal) {
	c.Set(principalKey, principal)
}
