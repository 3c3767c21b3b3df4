package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New("test-key", maps.WithBaseURL(srv.URL))
	require.NoError(t, err)
	return c
}

func TestGeocode_Found(t *testing.T) {
	var gotAddress string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAddress = r.URL.Query().Get("address")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"formatted_address": "Golden Gate Park, San Francisco, CA, USA",
				"geometry": {"location": {"lat": 37.7694, "lng": -122.4862}}
			}]
		}`))
	})

	loc, err := c.Geocode(context.Background(), " golden gate park ")
	require.NoError(t, err)
	assert.Equal(t, "golden gate park", gotAddress)
	assert.Equal(t, "Golden Gate Park, San Francisco, CA, USA", loc.Address)
	assert.InDelta(t, 37.7694, loc.Latitude, 1e-6)
	assert.InDelta(t, -122.4862, loc.Longitude, 1e-6)
}

func TestGeocode_NoResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	})

	_, err := c.Geocode(context.Background(), "nowhere at all")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGeocode_BlankAddress(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("blank address must not reach the API")
	})

	_, err := c.Geocode(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}
