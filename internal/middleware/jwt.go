package middleware // middleware provides shared request processing for handlers

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for header splitting

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/driveaway/car-rental-api/internal/utils"
)

// Context keys under which JWTAuth stores the authenticated identity.
const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's subject id and email into the request context.
// The provided secret must match the one used when issuing tokens. Every
// rental endpoint is wrapped by this middleware; handlers read the
// identity via c.Get and never re-parse the token themselves.
//
// A missing header and a header that is not exactly "Bearer <token>" are
// both rejected with 401; a token that fails verification (bad signature,
// malformed, or expired — not distinguished) is rejected with 403.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if auth == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Access denied, no token provided"})
			}
			// Format must be "Bearer <token>": two space-separated parts,
			// the first literally "Bearer".
			parts := strings.Split(auth, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid token format"})
			}
			ident, err := utils.ParseAccessToken(secret, parts[1])
			if err != nil {
				return c.JSON(http.StatusForbidden, echo.Map{"message": "Invalid token"})
			}
			c.Set(CtxUserID, ident.UserID)
			c.Set(CtxEmail, ident.Email)
			return next(c)
		}
	}
}
