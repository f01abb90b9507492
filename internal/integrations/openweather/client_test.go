package openweather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"travel-assistant/internal/integrations/paramstore"
)

func TestCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/weather", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "35.6812", q.Get("lat"))
		require.Equal(t, "139.7671", q.Get("lon"))
		require.Equal(t, "ow-key", q.Get("appid"))
		require.Equal(t, Units, q.Get("units"))
		require.Equal(t, Language, q.Get("lang"))
		_, _ = w.Write([]byte(`{"name":"Tokyo","weather":[{"main":"Clouds","description":"多雲"}],"main":{"temp":18.5,"feels_like":17.9,"humidity":62}}`))
	}))
	defer srv.Close()

	c, err := New(paramstore.Static("ow-key"), WithBaseURL(srv.URL))
	require.NoError(t, err)

	cur, err := c.Current(context.Background(), 35.6812, 139.7671)
	require.NoError(t, err)
	require.Equal(t, "多雲", cur.Description())
	require.InDelta(t, 18.5, cur.Main.Temp, 0.001)
	require.InDelta(t, 17.9, cur.Main.FeelsLike, 0.001)
	require.Equal(t, 62, cur.Main.Humidity)
}

func TestCurrent_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"cod":401,"message":"Invalid API key"}`))
	}))
	defer srv.Close()

	c, err := New(paramstore.Static("bad"), WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = c.Current(context.Background(), 1, 2)
	require.Error(t, err)
	require.Contains(t, err.Error(), "401")
	require.NotContains(t, err.Error(), "appid=bad")
}

func TestDescription_Empty(t *testing.T) {
	require.Equal(t, "", Current{}.Description())
}

func TestNew_NilKey(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}
