package endpoints

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/salawat/internal/db"
	"github.com/Nixie-Tech-LLC/salawat/internal/http/api"
	"github.com/Nixie-Tech-LLC/salawat/internal/http/api/admin/auth/packets"
)

const jwtSecret = "supersecret"

func setupRouter(store db.Store) *gin.Engine {
	return setupRouterWithSignup(store, true)
}

func setupRouterWithSignup(store db.Store, allowSignup bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api.MountGroup(r, api.GroupConfig{Prefix: "/api/admin"}, AuthPublicModule(jwtSecret, store, allowSignup))
	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: jwtSecret,
		Users:     store,
	}, AuthSessionModule(jwtSecret, store))
	return r
}

func do(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSignupLoginAndProfile(t *testing.T) {
	router := setupRouter(db.NewMemoryStore())

	w := do(t, router, http.MethodPost, "/api/admin/auth/signup", "", map[string]any{
		"email":    "Imam@Example.com",
		"password": "12345678",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var signup packets.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &signup))
	assert.NotEmpty(t, signup.Token)
	assert.Equal(t, "imam@example.com", signup.Profile.Email)

	w = do(t, router, http.MethodGet, "/api/admin/auth/current_profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, router, http.MethodPost, "/api/admin/auth/login", "", map[string]any{
		"email":    "imam@example.com",
		"password": "12345678",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login packets.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	w = do(t, router, http.MethodGet, "/api/admin/auth/current_profile", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var prof packets.ProfileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &prof))
	assert.Equal(t, signup.Profile.ID, prof.ID)

	name := "Sheikh"
	w = do(t, router, http.MethodPut, "/api/admin/auth/current_profile", login.Token, map[string]any{
		"email": "sheikh@example.com",
		"name":  name,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &prof))
	assert.Equal(t, "sheikh@example.com", prof.Email)
	require.NotNil(t, prof.Name)
	assert.Equal(t, name, *prof.Name)
}

func TestSignup_Validation(t *testing.T) {
	store := db.NewMemoryStore()
	router := setupRouter(store)

	w := do(t, router, http.MethodPost, "/api/admin/auth/signup", "", map[string]any{
		"email":    "not-an-email",
		"password": "12345678",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPost, "/api/admin/auth/signup", "", map[string]any{
		"email":    "imam@example.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, err := store.CreateUser("imam@example.com", "hash", nil)
	require.NoError(t, err)
	w = do(t, router, http.MethodPost, "/api/admin/auth/signup", "", map[string]any{
		"email":    "imam@example.com",
		"password": "12345678",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"email already registered"}`, w.Body.String())
}

func TestLogin_WrongPassword(t *testing.T) {
	router := setupRouter(db.NewMemoryStore())
	do(t, router, http.MethodPost, "/api/admin/auth/signup", "", map[string]any{
		"email":    "imam@example.com",
		"password": "12345678",
	})

	w := do(t, router, http.MethodPost, "/api/admin/auth/login", "", map[string]any{
		"email":    "imam@example.com",
		"password": "wrongpass",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, router, http.MethodPost, "/api/admin/auth/login", "", map[string]any{
		"email":    "nobody@example.com",
		"password": "12345678",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignup_ClosedAfterFirstAdmin(t *testing.T) {
	router := setupRouterWithSignup(db.NewMemoryStore(), false)

	w := do(t, router, http.MethodPost, "/api/admin/auth/signup", "", map[string]any{
		"email":    "imam@example.com",
		"password": "12345678",
	})
	require.Equal(t, http.StatusCreated, w.Code, "first admin can always sign up")

	w = do(t, router, http.MethodPost, "/api/admin/auth/signup", "", map[string]any{
		"email":    "stranger@example.com",
		"password": "12345678",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"signup is closed"}`, w.Body.String())

	w = do(t, router, http.MethodPost, "/api/admin/auth/login", "", map[string]any{
		"email":    "imam@example.com",
		"password": "12345678",
	})
	assert.Equal(t, http.StatusOK, w.Code, "login stays open")
}

func TestSignup_AllowedWhenEnabled(t *testing.T) {
	store := db.NewMemoryStore()
	_, err := store.CreateUser("imam@example.com", "hash", nil)
	require.NoError(t, err)
	router := setupRouterWithSignup(store, true)

	w := do(t, router, http.MethodPost, "/api/admin/auth/signup", "", map[string]any{
		"email":    "muezzin@example.com",
		"password": "12345678",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}
