package middleware

import (
	"errors"
	"strings"

	"github.com/go-arcade/portal/pkg/http"
	"github.com/go-arcade/portal/pkg/http/jwt"
	"github.com/go-arcade/portal/pkg/log"
	"github.com/gofiber/fiber/v2"
	goJwt "github.com/golang-jwt/jwt/v5"
)

// ClaimsKey is the fiber.Locals key under which parsed auth claims are stored.
const ClaimsKey = "claims"

// AuthorizationMiddleware 认证中间件
// secretKey: 用于验证 JWT 的密钥
// This function is used as the middleware of fiber.
func AuthorizationMiddleware(secretKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		aToken := c.Get("Authorization")
		if aToken == "" {
			return http.WithRepErrMsg(c, http.TokenBeEmpty.Code, http.TokenBeEmpty.Msg, c.Path())
		}

		// 按空格分割
		parts := strings.SplitN(aToken, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return http.WithRepErrMsg(c, http.TokenBeEmpty.Code, http.TokenBeEmpty.Msg, c.Path())
		}

		claims, err := jwt.ParseToken(parts[1], secretKey)
		if err != nil {
			if errors.Is(err, goJwt.ErrTokenExpired) {
				return http.WithRepErrMsg(c, http.TokenExpired.Code, http.TokenExpired.Msg, c.Path())
			}
			log.Errorf("parse token failed: %v", err)
			return http.WithRepErrMsg(c, http.InvalidToken.Code, http.InvalidToken.Msg, c.Path())
		}

		c.Locals(ClaimsKey, claims)
		return c.Next()
	}
}

// UserIdFromCtx returns the authenticated user id, or "" when unauthenticated.
func UserIdFromCtx(c *fiber.Ctx) string {
	claims, ok := c.Locals(ClaimsKey).(*jwt.AuthClaims)
	if !ok || claims == nil {
		return ""
	}
	return claims.UserId
}
