package nominatim

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"double-paws/internal/domain/geocoding"
	"double-paws/internal/platform/httpclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	hc, err := httpclient.NewWithBaseURL(srv.URL, time.Second)
	require.NoError(t, err)
	hc.UserAgent = "double-paws-test/1.0"
	return NewClient(hc, 0)
}

func TestSearch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "double-paws-test/1.0", r.Header.Get("User-Agent"))
		assert.Equal(t, "portland", r.URL.Query().Get("q"))
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		_, _ = io.WriteString(w, `[
			{"lat":"45.5152","lon":"-122.6784","display_name":"Portland, Multnomah County, Oregon, USA",
			 "address":{"city":"Portland","state":"Oregon","country":"United States","postcode":"97201"}},
			{"lat":"43.6615","lon":"-70.2553","display_name":"Portland, Maine","address":{"town":"Portland"}}
		]`)
	})

	out, err := c.Search(context.Background(), "portland", 3)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 45.5152, out[0].Latitude)
	assert.Equal(t, -122.6784, out[0].Longitude)
	assert.Equal(t, "Portland", out[0].City)
	assert.Equal(t, "97201", out[0].PostalCode)
	assert.Equal(t, "Portland", out[1].City)
}

func TestSearch_MalformedCoordinates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"lat":"north","lon":"1"}]`)
	})
	_, err := c.Search(context.Background(), "x", 1)
	assert.ErrorIs(t, err, geocoding.ErrUpstream)
}

func TestSearch_HTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	_, err := c.Search(context.Background(), "x", 1)
	assert.ErrorIs(t, err, geocoding.ErrUpstream)
	assert.Equal(t, http.StatusTooManyRequests, httpclient.StatusCode(err))
}

func TestReverse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		if r.URL.Query().Get("lat") == "0" {
			_, _ = io.WriteString(w, `{"error":"Unable to geocode"}`)
			return
		}
		assert.Equal(t, "-122.68", r.URL.Query().Get("lon"))
		_, _ = io.WriteString(w, `{"lat":"45.52","lon":"-122.68","display_name":"SW Main St","address":{"city":"Portland"}}`)
	})

	p, err := c.Reverse(context.Background(), 45.52, -122.68)
	require.NoError(t, err)
	assert.Equal(t, "SW Main St", p.DisplayName)

	_, err = c.Reverse(context.Background(), 0, 0)
	assert.ErrorIs(t, err, geocoding.ErrNotFound)
}

func TestRateLimiterHonoursContext(t *testing.T) {
	hc, err := httpclient.NewWithBaseURL("http://127.0.0.1:1", time.Second)
	require.NoError(t, err)
	c := NewClient(hc, 0.001)
	// Consume el único token del burst.
	require.True(t, c.limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = c.Search(ctx, "x", 1)
	assert.Error(t, err)
}
