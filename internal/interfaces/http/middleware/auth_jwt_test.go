package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func TestJWTBusinessMember(t *testing.T) {
	secret := []byte("secret")
	app := fiber.New()
	app.Get("/me", JWTBusinessMember(secret), func(c *fiber.Ctx) error {
		return c.SendString(strconv.FormatUint(uint64(BusinessID(c)), 10))
	})

	sign := func(claims jwt.Claims, key []byte) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", fiber.StatusUnauthorized},
		{"not bearer", "Basic abc", fiber.StatusUnauthorized},
		{"wrong key", "Bearer " + sign(MemberClaims{BusinessID: 7}, []byte("other")), fiber.StatusUnauthorized},
		{"no business", "Bearer " + sign(MemberClaims{}, secret), fiber.StatusUnauthorized},
		{"expired", "Bearer " + sign(MemberClaims{
			BusinessID:       7,
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
		}, secret), fiber.StatusUnauthorized},
		{"valid", "Bearer " + sign(MemberClaims{BusinessID: 7}, secret), fiber.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			if resp.StatusCode != tc.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tc.want)
			}
		})
	}
}

func TestJWTRejectsOtherSigningMethods(t *testing.T) {
	secret := []byte("secret")
	app := fiber.New()
	app.Get("/me", JWTBusinessMember(secret), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, MemberClaims{BusinessID: 7}).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+signed)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}
