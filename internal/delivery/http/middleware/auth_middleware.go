package middleware

import (
	"errors"
	"strings"

	"leadgen-backend/pkg/apperror"
	"leadgen-backend/pkg/auth"
	"leadgen-backend/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AdminSubjectKey holds the token subject of an authenticated operator
const AdminSubjectKey = "AdminSubject"

// AdminAuthMiddleware accepts bearer tokens whose "role" claim is "admin".
// Tokens are HS256 signed with secret, or RS256 signed with a key published
// by jwks. Either source may be left empty.
func AdminAuthMiddleware(secret string, jwks *auth.Provider, secLog *security.SecurityLogger) gin.HandlerFunc {
	var methods []string
	if secret != "" {
		methods = append(methods, jwt.SigningMethodHS256.Alg())
	}
	if jwks != nil {
		methods = append(methods, jwt.SigningMethodRS256.Alg())
	}

	keyFunc := func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); ok && jwks != nil {
			return jwks.KeyFunc(token)
		}
		return []byte(secret), nil
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenString == "" {
			denyAdmin(c, secLog, apperror.Unauthorized("Authorization header required"), "missing_token")
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, keyFunc,
			jwt.WithValidMethods(methods), jwt.WithExpirationRequired())
		if err != nil || !token.Valid {
			reason := "invalid_token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				reason = "expired_token"
			}
			denyAdmin(c, secLog, apperror.Unauthorized("Invalid token"), reason)
			return
		}

		if role, _ := claims["role"].(string); role != "admin" {
			denyAdmin(c, secLog, apperror.Forbidden("Admin access required"), "not_admin")
			return
		}

		sub, _ := claims.GetSubject()
		c.Set(AdminSubjectKey, sub)
		c.Next()
	}
}

func denyAdmin(c *gin.Context, secLog *security.SecurityLogger, appErr *apperror.AppError, reason string) {
	secLog.Log(c.Request.Context(), security.SecurityEvent{
		Event:     security.EventUnauthorizedAccess,
		IP:        c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
		RequestID: c.GetString(RequestIDKey),
		Details:   map[string]interface{}{"reason": reason, "path": c.FullPath()},
	})
	_ = c.Error(appErr)
	c.Abort()
}
