package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// BusinessIDKey is the fiber.Locals key holding the authenticated member's business id
const BusinessIDKey = "business_id"

// MemberClaims are the claims of a business member token
type MemberClaims struct {
	BusinessID uint `json:"business_id"`
	jwt.RegisteredClaims
}

// JWTBusinessMember rejects requests without a valid HS256 bearer token naming a business
func JWTBusinessMember(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get(fiber.HeaderAuthorization)
		if auth == "" || !strings.HasPrefix(strings.ToLower(auth), "bearer ") {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		if len(secret) == 0 {
			return fiber.NewError(fiber.StatusUnauthorized, "missing JWT_SECRET")
		}

		tokenStr := strings.TrimSpace(auth[7:])
		var claims MemberClaims

		token, err := jwt.ParseWithClaims(
			tokenStr,
			&claims,
			func(t *jwt.Token) (any, error) {
				return secret, nil
			},
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		)
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		businessID := claims.BusinessID
		// tokens issued by the account service carry the business in sub
		if businessID == 0 && claims.Subject != "" {
			if v, err := strconv.ParseUint(claims.Subject, 10, 64); err == nil {
				businessID = uint(v)
			}
		}
		if businessID == 0 {
			return fiber.NewError(fiber.StatusUnauthorized, "missing business_id")
		}

		c.Locals(BusinessIDKey, businessID)
		return c.Next()
	}
}

// BusinessID returns the business id stored by JWTBusinessMember
func BusinessID(c *fiber.Ctx) uint {
	id, _ := c.Locals(BusinessIDKey).(uint)
	return id
}
