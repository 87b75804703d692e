package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCSRFApp() *fiber.App {
	app := fiber.New()
	app.Use(CSRF(false, "/api/auth/login"))
	app.Get("/api/auth/csrf-token", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"csrf_token": CSRFToken(c)})
	})
	app.Post("/api/things", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})
	app.Post("/api/auth/login", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func fetchCSRF(t *testing.T, app *fiber.App) (string, *http.Cookie) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/auth/csrf-token", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Token string `json:"csrf_token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	for _, ck := range resp.Cookies() {
		if ck.Name == CSRFCookieName {
			return body.Token, ck
		}
	}
	t.Fatal("csrf cookie not set")
	return "", nil
}

func TestCSRF_MissingTokenIsForbidden(t *testing.T) {
	app := newCSRFApp()
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/things", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "CSRF_INVALID", body["code"])
}

func TestCSRF_DoubleSubmitPasses(t *testing.T) {
	app := newCSRFApp()
	token, cookie := fetchCSRF(t, app)
	require.NotEmpty(t, token)

	req := httptest.NewRequest(http.MethodPost, "/api/things", nil)
	req.Header.Set(CSRFHeader, token)
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestCSRF_MismatchedHeaderIsForbidden(t *testing.T) {
	app := newCSRFApp()
	_, cookie := fetchCSRF(t, app)

	req := httptest.NewRequest(http.MethodPost, "/api/things", nil)
	req.Header.Set(CSRFHeader, "forged")
	req.AddCookie(cookie)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCSRF_ExemptPathSkipsCheck(t *testing.T) {
	app := newCSRFApp()
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
