package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/polkiloo/p2pdesk/internal/pkg/auth"
)

const (
	// ViewerIDContextKey is a gin context key for the authenticated viewer identifier.
	ViewerIDContextKey = "viewerID"
	// CredentialContextKey holds the exchange credential forwarded upstream.
	CredentialContextKey = "exchangeCredential"

	authCookieName   = "p2pdesk_token"
	credentialHeader = "X-Exchange-Token"
)

// TokenParser resolves a bearer token to a viewer identifier.
type TokenParser interface {
	ParseToken(token string) (string, error)
}

// AuthRequired ensures the viewer is authenticated before accessing handler.
func AuthRequired(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		viewerID, err := parser.ParseToken(token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Set(ViewerIDContextKey, viewerID)
		c.Set(CredentialContextKey, extractCredential(c))
		c.Next()
	}
}

// Browsers cannot set headers on websocket upgrades, so query parameters are
// accepted as a last resort.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return c.Query("access_token")
}

func extractCredential(c *gin.Context) string {
	if credential := strings.TrimSpace(c.GetHeader(credentialHeader)); credential != "" {
		return credential
	}
	return c.Query("exchange_token")
}
