package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	jwtpkg "github.com/pulsefeed-app/backend/internal/jwt"
)

const userIDKey = "auth.userID"

// NewAuthorizationMiddleware rejects requests without a valid bearer token
// and records the authenticated user ID on the request context.
func NewAuthorizationMiddleware(logger *zap.Logger, jwt *jwtpkg.JWT) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := bearerUserID(c, jwt)
		if err != nil {
			logger.Error("rejected request token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing or invalid token",
			})
			return
		}

		c.Set(userIDKey, id)
		c.Next()
	}
}

// NewViewerMiddleware resolves the viewer from a bearer token when one is
// present. Absent or invalid tokens leave the request anonymous instead of
// failing it; feeds render without viewer flags in that case.
func NewViewerMiddleware(jwt *jwtpkg.JWT) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := bearerUserID(c, jwt); err == nil {
			c.Set(userIDKey, id)
		}
		c.Next()
	}
}

// GetUserUUID returns the authenticated user recorded by the authorization
// middleware.
func GetUserUUID(c *gin.Context) (uuid.UUID, error) {
	value, ok := c.Get(userIDKey)
	if !ok {
		return uuid.Nil, errors.New("no user in request context")
	}
	id, ok := value.(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.New("unexpected user id type in request context")
	}
	return id, nil
}

// ViewerUUID returns the viewer when the request carried a valid token, nil
// otherwise.
func ViewerUUID(c *gin.Context) *uuid.UUID {
	id, err := GetUserUUID(c)
	if err != nil {
		return nil
	}
	return &id
}

func bearerUserID(c *gin.Context, jwt *jwtpkg.JWT) (uuid.UUID, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return uuid.Nil, errors.New("missing authorization header")
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return uuid.Nil, errors.New("missing bearer prefix")
	}

	return jwt.ParseToken(strings.TrimPrefix(header, "Bearer "))
}
