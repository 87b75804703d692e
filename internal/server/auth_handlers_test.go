package server

import (
	"net/http"
	"testing"

	"nightlife/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionBody struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func TestAuth_RegisterLoginLogout(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(http.MethodPost, "/api/auth/register", map[string]any{
		"pseudonym":    "night_owl",
		"email":        "Owl@Example.com",
		"password":     "Night-Owl-2026!",
		"account_type": "establishment_owner",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var registered sessionBody
	decode(t, resp, &registered)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "owl@example.com", registered.User.Email)
	assert.Equal(t, models.AccountEstablishmentOwner, registered.User.AccountType)
	assert.Equal(t, models.RoleUser, registered.User.Role)

	t.Run("duplicate email conflicts", func(t *testing.T) {
		resp := env.request(http.MethodPost, "/api/auth/register", map[string]any{
			"pseudonym": "other_owl",
			"email":     "owl@example.com",
			"password":  "Night-Owl-2026!",
		}, "")
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("weak password rejected", func(t *testing.T) {
		resp := env.request(http.MethodPost, "/api/auth/register", map[string]any{
			"pseudonym": "weak_owl",
			"email":     "weak@example.com",
			"password":  "short",
		}, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, models.CodeValidation, errorBody(t, resp).Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := env.request(http.MethodPost, "/api/auth/login", map[string]any{
			"email":    "owl@example.com",
			"password": "Wrong-Password-1!",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, models.CodeUnauthorized, errorBody(t, resp).Code)
	})

	resp = env.request(http.MethodPost, "/api/auth/login", map[string]any{
		"email":    "OWL@example.com",
		"password": "Night-Owl-2026!",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login sessionBody
	decode(t, resp, &login)
	require.NotEmpty(t, login.Token)

	resp = env.request(http.MethodGet, "/api/auth/me", nil, login.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me models.User
	decodeField(t, resp, "user", &me)
	assert.Equal(t, registered.User.ID, me.ID)

	resp = env.request(http.MethodPost, "/api/auth/logout", nil, login.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.request(http.MethodGet, "/api/auth/me", nil, login.Token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuth_DisabledAccount(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(models.RoleUser, models.AccountRegular)
	require.NoError(t, env.db.Model(user).Update("is_active", false).Error)

	resp := env.request(http.MethodGet, "/api/auth/me", nil, token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAuth_InvalidToken(t *testing.T) {
	env := newTestEnv(t)
	resp := env.request(http.MethodGet, "/api/auth/me", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
