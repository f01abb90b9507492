package googlemaps

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"travel-assistant/internal/integrations/paramstore"
	"travel-assistant/internal/integrations/vendorhttp"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(paramstore.Static("test-key"), WithBaseURL(srv.URL+"/"))
	require.NoError(t, err)
	return c
}

func TestDirections_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/directions/json", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "台北車站", q.Get("origin"))
		require.Equal(t, "台北101", q.Get("destination"))
		require.Equal(t, "transit", q.Get("mode"))
		require.Equal(t, "test-key", q.Get("key"))
		require.Equal(t, Language, q.Get("language"))
		_, _ = w.Write([]byte(`{"status":"OK","routes":[{"summary":"信義路","legs":[{"distance":{"text":"5.2 公里","value":5200},"duration":{"text":"18 分鐘","value":1080}}]}]}`))
	})

	routes, err := c.Directions(context.Background(), "台北車站", "台北101", "transit")
	require.NoError(t, err)
	require.Len(t, routes, 1)
	require.Equal(t, "信義路", routes[0].Summary)
	require.Equal(t, "5.2 公里", routes[0].Legs[0].Distance.Text)
	require.Equal(t, "18 分鐘", routes[0].Legs[0].Duration.Text)
}

func TestDirections_ZeroResultsIsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","routes":[]}`))
	})
	routes, err := c.Directions(context.Background(), "a", "b", "driving")
	require.NoError(t, err)
	require.Empty(t, routes)
}

func TestDirections_VendorStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"The provided API key is invalid."}`))
	})
	_, err := c.Directions(context.Background(), "a", "b", "driving")
	require.Error(t, err)
	require.True(t, IsStatus(err, "REQUEST_DENIED"))
	require.False(t, IsStatus(err, StatusNotFound))
	require.Contains(t, err.Error(), "API key is invalid")
}

func TestTextSearch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/place/textsearch/json", r.URL.Path)
		require.Equal(t, "京都 拉麵", r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"place_id":"p1","name":"一蘭","rating":4.3,"formatted_address":"京都市"},{"place_id":"p2","name":"天下一品"}]}`))
	})
	places, err := c.TextSearch(context.Background(), "京都 拉麵")
	require.NoError(t, err)
	require.Len(t, places, 2)
	require.Equal(t, "p1", places[0].PlaceID)
	require.NotNil(t, places[0].Rating)
	require.InDelta(t, 4.3, *places[0].Rating, 0.0001)
	require.Nil(t, places[1].Rating)
}

func TestPlaceDetails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/place/details/json", r.URL.Path)
		require.Equal(t, "p1", r.URL.Query().Get("place_id"))
		require.Equal(t, detailFields, r.URL.Query().Get("fields"))
		_, _ = w.Write([]byte(`{"status":"OK","result":{"name":"一蘭","formatted_phone_number":"075-000-0000","opening_hours":{"open_now":true},"url":"https://maps.google.com/?cid=1"}}`))
	})
	d, err := c.PlaceDetails(context.Background(), "p1")
	require.NoError(t, err)
	require.Equal(t, "一蘭", d.Name)
	require.NotNil(t, d.OpeningHours)
	require.True(t, d.OpeningHours.OpenNow)
	require.Empty(t, d.FormattedAddress)
}

func TestPlaceDetails_ZeroResultsIsError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"NOT_FOUND"}`))
	})
	_, err := c.PlaceDetails(context.Background(), "missing")
	require.True(t, IsStatus(err, StatusNotFound))
}

func TestGeocode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/geocode/json", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"formatted_address":"日本東京都千代田區丸之內","geometry":{"location":{"lat":35.68,"lng":139.76}}}]}`))
	})
	res, err := c.Geocode(context.Background(), "東京車站")
	require.NoError(t, err)
	require.Len(t, res, 1)
	require.InDelta(t, 35.68, res[0].Geometry.Location.Lat, 0.0001)
	require.InDelta(t, 139.76, res[0].Geometry.Location.Lng, 0.0001)
}

func TestGeocode_ZeroResultsIsError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	})
	_, err := c.Geocode(context.Background(), "nowhere")
	require.True(t, IsStatus(err, StatusZeroResults))
}

func TestHTTPFailureKeepsKeyOutOfError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	})
	_, err := c.TextSearch(context.Background(), "x")
	require.Error(t, err)
	code, ok := vendorhttp.StatusCode(err)
	require.True(t, ok)
	require.Equal(t, http.StatusTooManyRequests, code)
	require.NotContains(t, err.Error(), "test-key")
}

func TestKeyResolutionFailure(t *testing.T) {
	c, err := New(paramstore.Static(""))
	require.NoError(t, err)
	_, err = c.Geocode(context.Background(), "x")
	require.Error(t, err)
	require.Contains(t, err.Error(), "resolve api key")
}

func TestNew_NilKey(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
	var se *StatusError
	require.False(t, errors.As(err, &se))
}

func TestLinks(t *testing.T) {
	require.Equal(t,
		"https://www.google.com/maps/dir/?api=1&origin=A+B&destination=C&travelmode=walking",
		DirectionsLink("A B", "C", "walking"))
	require.Equal(t, "https://www.google.com/maps/search/?api=1&query=%E4%B8%80%E8%98%AD&query_place_id=p1", SearchLink("一蘭", "p1"))
	require.Equal(t, "https://www.google.com/maps/search/?api=1&query=x", SearchLink("x", ""))
}
