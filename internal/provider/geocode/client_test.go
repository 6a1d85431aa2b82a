package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/reverse-geocode-client", r.URL.Path)
		assert.Equal(t, "en", r.URL.Query().Get("localityLanguage"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCity_PrefersCity(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"city": "Damanhur", "locality": "Damanhur Qism"}`)

	city, err := NewClient(srv.URL, 600).City(context.Background(), 31.0341, 30.4685)
	require.NoError(t, err)
	assert.Equal(t, "Damanhur", city)
}

func TestCity_FallsBackToLocality(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"city": "", "locality": "Kafr El Dawar"}`)

	city, err := NewClient(srv.URL, 600).City(context.Background(), 31.1, 30.1)
	require.NoError(t, err)
	assert.Equal(t, "Kafr El Dawar", city)
}

func TestCity_Unknown(t *testing.T) {
	srv := serve(t, http.StatusOK, `{}`)

	city, err := NewClient(srv.URL, 600).City(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, city)
}

func TestCity_Error(t *testing.T) {
	srv := serve(t, http.StatusTooManyRequests, `{}`)

	_, err := NewClient(srv.URL, 600).City(context.Background(), 0, 0)
	assert.Error(t, err)
}
