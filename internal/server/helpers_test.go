package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		limit  int
		offset int
	}{
		{"defaults", "", defaultPageLimit, 0},
		{"custom", "?limit=10&offset=30", 10, 30},
		{"page number", "?page=3&limit=10", 10, 20},
		{"limit capped", "?limit=1000", maxPageLimit, 0},
		{"zero limit", "?limit=0", defaultPageLimit, 0},
		{"negative offset", "?offset=-5", defaultPageLimit, 0},
		{"garbage", "?limit=abc&offset=xyz", defaultPageLimit, 0},
	}

	app := fiber.New()
	app.Get("/items", func(c *fiber.Ctx) error {
		p := parsePagination(c)
		return c.JSON(fiber.Map{"limit": p.Limit, "offset": p.Offset})
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items"+tt.query, nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			var body map[string]int
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.limit, body["limit"])
			assert.Equal(t, tt.offset, body["offset"])
		})
	}
}

func TestParseUUID_WritesValidationError(t *testing.T) {
	app := fiber.New()
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		id, err := parseUUID(c, "id", "item")
		if err != nil {
			return nil
		}
		return c.SendString(id.String())
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items/nope", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Invalid item ID", body["error"])
}
