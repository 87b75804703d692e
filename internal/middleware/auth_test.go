package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func TestIssueAndParseToken(t *testing.T) {
	userID := uuid.New()
	raw, issued, err := IssueToken(testSecret, userID, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, issued.ID, "jti must be set for revocation")

	claims, err := ParseToken(testSecret, raw)
	require.NoError(t, err)
	got, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, userID, got)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestParseToken_Rejects(t *testing.T) {
	sign := func(claims jwt.Claims, secret string) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}
	valid := func() jwt.RegisteredClaims {
		return jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    TokenIssuer,
			Audience:  jwt.ClaimStrings{TokenAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
	}

	expired := valid()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	wrongIssuer := valid()
	wrongIssuer.Issuer = "someone-else"
	wrongAudience := valid()
	wrongAudience.Audience = jwt.ClaimStrings{"other-client"}
	numericSubject := valid()
	numericSubject.Subject = "42"
	noExpiry := valid()
	noExpiry.ExpiresAt = nil

	tests := map[string]string{
		"expired":         sign(expired, testSecret),
		"wrong issuer":    sign(wrongIssuer, testSecret),
		"wrong audience":  sign(wrongAudience, testSecret),
		"numeric subject": sign(numericSubject, testSecret),
		"no expiry":       sign(noExpiry, testSecret),
		"wrong secret":    sign(valid(), "another-secret-another-secret-000"),
		"garbage":         "not-a-token",
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseToken(testSecret, raw)
			assert.Error(t, err)
		})
	}
}

func TestTokenFromRequest(t *testing.T) {
	app := fiber.New()
	app.Get("/t", func(c *fiber.Ctx) error {
		tok, err := TokenFromRequest(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).SendString(err.Error())
		}
		return c.SendString(tok)
	})

	tests := []struct {
		name       string
		header     string
		cookie     string
		wantStatus int
		wantBody   string
	}{
		{"bearer header", "Bearer abc", "", http.StatusOK, "abc"},
		{"cookie fallback", "", "from-cookie", http.StatusOK, "from-cookie"},
		{"header wins over cookie", "Bearer hdr", "from-cookie", http.StatusOK, "hdr"},
		{"basic auth rejected", "Basic dXNlcjpwYXNz", "", http.StatusUnauthorized, ""},
		{"nothing", "", "", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/t", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: tt.cookie})
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantBody != "" {
				buf := make([]byte, 64)
				n, _ := resp.Body.Read(buf)
				assert.Equal(t, tt.wantBody, string(buf[:n]))
			}
		})
	}
}

func TestSetAuthCookie_IsHTTPOnly(t *testing.T) {
	app := fiber.New()
	app.Get("/login", func(c *fiber.Ctx) error {
		SetAuthCookie(c, "tok", time.Now().Add(time.Hour), true)
		return c.SendStatus(fiber.StatusOK)
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/login", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var found *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == AuthCookieName {
			found = ck
		}
	}
	require.NotNil(t, found)
	assert.True(t, found.HttpOnly)
	assert.True(t, found.Secure)
	assert.Equal(t, "tok", found.Value)
}
