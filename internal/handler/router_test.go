package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"geodistance-api/internal/config"
	"geodistance-api/internal/geocoder"
	"geodistance-api/internal/repository"
	"geodistance-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upstreamPlaces maps the address query parameter to a canned upstream reply.
var upstreamPlaces = map[string]string{
	"beverly center":        `{"status":"OK","results":[{"formatted_address":"8500 Beverly Blvd, Los Angeles, CA 90048, USA","geometry":{"location":{"lat":34.07362,"lng":-118.376068}}}]}`,
	"8500 beverly blvd":     `{"status":"OK","results":[{"formatted_address":"8500 Beverly Blvd, Los Angeles, CA 90048, USA","geometry":{"location":{"lat":34.0736,"lng":-118.3760}}}]}`,
	"central park new york": `{"status":"OK","results":[{"formatted_address":"New York, NY, USA","geometry":{"location":{"lat":40.785091,"lng":-73.968285}}}]}`,
}

type testServer struct {
	router *gin.Engine
	repo   *repository.MemoryRepository
	calls  *atomic.Int32
}

func newTestServer(t *testing.T, configured bool) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var calls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		body, ok := upstreamPlaces[r.URL.Query().Get("address")]
		if !ok {
			body = `{"status":"ZERO_RESULTS","results":[]}`
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(upstream.Close)

	cfg := config.GeocoderConfig{}
	if configured {
		cfg = config.GeocoderConfig{URL: upstream.URL, APIKey: "test-key"}
	}

	repo := repository.NewMemoryRepository()
	resolver := service.NewGeocodeResolver(service.NewLocationCache(repo), geocoder.NewClient(cfg), cfg)
	router := NewRouter(
		NewGeoCodeHandler(resolver),
		NewDistanceHandler(service.NewDistanceService(resolver)),
	)

	return &testServer{router: router, repo: repo, calls: &calls}
}

func (s *testServer) get(t *testing.T, path string, params url.Values) (int, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path+"?"+params.Encode(), nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestRouter_GeocodeIsCached(t *testing.T) {
	srv := newTestServer(t, true)
	want := map[string]interface{}{
		"formatted_address": "8500 Beverly Blvd, Los Angeles, CA 90048, USA",
		"latitude":          34.07362,
		"longitude":         -118.376068,
	}

	status, body := srv.get(t, "/geocode/", url.Values{"address": {"beverly center"}})
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, want, body)

	status, body = srv.get(t, "/geocode/", url.Values{"address": {"beverly center"}})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, want, body)

	status, _ = srv.get(t, "/geocode", url.Values{"address": {"BEVERLY CENTER"}})
	assert.Equal(t, http.StatusOK, status)

	assert.Equal(t, int32(1), srv.calls.Load())
}

func TestRouter_GeocodeAliasOfKnownPlace(t *testing.T) {
	srv := newTestServer(t, true)

	status, _ := srv.get(t, "/geocode/", url.Values{"address": {"beverly center"}})
	require.Equal(t, http.StatusCreated, status)

	status, body := srv.get(t, "/geocode/", url.Values{"address": {"8500 Beverly Blvd"}})
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 34.07362, body["latitude"], "the first stored coordinates win")

	counts, err := srv.repo.Count(t.Context())
	require.NoError(t, err)
	assert.Equal(t, repository.Counts{Locations: 1, Aliases: 2}, counts)
}

func TestRouter_GeocodeErrors(t *testing.T) {
	t.Run("zero results", func(t *testing.T) {
		srv := newTestServer(t, true)

		status, body := srv.get(t, "/geocode/", url.Values{"address": {"Nonexistent Address"}})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, map[string]interface{}{"error": "Geocode API error: ZERO_RESULTS"}, body)
	})

	t.Run("missing configuration", func(t *testing.T) {
		srv := newTestServer(t, false)

		status, body := srv.get(t, "/geocode/", url.Values{"address": {"beverly center"}})
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, map[string]interface{}{"error": "Environment variables are not set"}, body)
		assert.Zero(t, srv.calls.Load())
	})

	t.Run("missing address", func(t *testing.T) {
		srv := newTestServer(t, true)

		status, body := srv.get(t, "/geocode/", url.Values{})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, map[string]interface{}{"error": "Address is required"}, body)
	})
}

func TestRouter_Distance(t *testing.T) {
	t.Run("distinct places", func(t *testing.T) {
		srv := newTestServer(t, true)

		status, body := srv.get(t, "/distance/", url.Values{
			"start_address": {"beverly center"},
			"end_address":   {"Central Park New York"},
		})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "beverly center", body["start_location"])
		assert.Equal(t, "central park new york", body["end_location"])

		distance, ok := body["distance"].(float64)
		require.True(t, ok)
		assert.Greater(t, distance, 0.0)
		assert.InDelta(t, 3948.5, distance, 5)
	})

	t.Run("same address", func(t *testing.T) {
		srv := newTestServer(t, true)

		status, body := srv.get(t, "/distance/", url.Values{
			"start_address": {"beverly center"},
			"end_address":   {"beverly center"},
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, map[string]interface{}{"error": "Both of these places have same address"}, body)
		assert.Equal(t, int32(1), srv.calls.Load())
	})

	t.Run("unknown end address", func(t *testing.T) {
		srv := newTestServer(t, true)

		status, body := srv.get(t, "/distance", url.Values{
			"start_address": {"beverly center"},
			"end_address":   {"Nonexistent Address"},
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, map[string]interface{}{"error": "Could not fetch geocode for end address: nonexistent address"}, body)
	})

	t.Run("missing configuration", func(t *testing.T) {
		srv := newTestServer(t, false)

		status, body := srv.get(t, "/distance/", url.Values{
			"start_address": {"beverly center"},
			"end_address":   {"Central Park New York"},
		})
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, map[string]interface{}{"error": "Environment variables are not set"}, body)
	})
}

func TestRouter_HealthAndRequestID(t *testing.T) {
	srv := newTestServer(t, true)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36, "a uuid is generated when none is sent")
}

func TestRouter_SwaggerDoc(t *testing.T) {
	srv := newTestServer(t, true)

	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/distance/")
	assert.Contains(t, w.Body.String(), "/geocode/")
}
