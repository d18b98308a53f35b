package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const actorKey = "auth.actor"

// Claims is the token payload issued at login: subject plus the display
// name recorded as the approver on waiver grants.
type Claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// JWTAuth validates the bearer token and stores the actor's display name
// on the request context.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			}

			name := claims.Name
			if name == "" {
				name = claims.Subject
			}
			c.Set(actorKey, name)
			return next(c)
		}
	}
}

// ActorName returns the authenticated actor's display name, or "System"
// when the request carried no identity (internal or pre-auth flows).
func ActorName(c echo.Context) string {
	if v, ok := c.Get(actorKey).(string); ok && v != "" {
		return v
	}
	return "System"
}
