package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kuanb/gosm-geo/geom"
	"kuanb/gosm-geo/guard"
)

func newTestRouter(t *testing.T, strict bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zerolog.Nop()
	s := NewServer(&logger, Options{
		DefaultUnit:        geom.NauticalMile,
		Strict:             strict,
		MaxPolygonVertices: 100,
		Metrics:            true,
	})
	return s.Router()
}

func post(t *testing.T, router *gin.Engine, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postJSON(t *testing.T, router *gin.Engine, path string, v any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	return post(t, router, path, body)
}

func TestHealthAndMetrics(t *testing.T) {
	router := newTestRouter(t, true)

	for _, path := range []string{"/health", "/metrics"} {
		req, err := http.NewRequest(http.MethodGet, path, nil)
		require.NoError(t, err)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestDistance(t *testing.T) {
	router := newTestRouter(t, true)
	london := &Coordinate{Lat: 51.511166949, Lon: -0.090245415}
	leeds := &Coordinate{Lat: 53.798939970, Lon: -1.547843151}

	tests := []struct {
		name     string
		req      DistanceRequest
		unit     string
		method   string
		expected float64
	}{
		{"haversine miles", DistanceRequest{From: london, To: leeds, Unit: "mi"}, "mi", "haversine",
			geom.Haversine(london.Lat, london.Lon, leeds.Lat, leeds.Lon, geom.StatuteMile)},
		{"simplified km", DistanceRequest{From: london, To: leeds, Unit: "km", Method: "Simplified"}, "km", "simplified",
			geom.SimplifiedDistance(london.Lat, london.Lon, leeds.Lat, leeds.Lon, geom.Kilometer)},
		{"default unit", DistanceRequest{From: london, To: leeds}, "nm", "haversine",
			geom.Haversine(london.Lat, london.Lon, leeds.Lat, leeds.Lon, geom.NauticalMile)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, router, "/v1/distance", tt.req)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var resp DistanceResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.unit, resp.Unit)
			assert.Equal(t, tt.method, resp.Method)
			assert.InDelta(t, tt.expected, resp.Distance, 1e-9)
		})
	}
}

func TestDistanceRejectsBadInput(t *testing.T) {
	strict := newTestRouter(t, true)
	ok := &Coordinate{Lat: 10, Lon: 10}
	outOfRange := &Coordinate{Lat: 95, Lon: 10}

	tests := []struct {
		name string
		body any
	}{
		{"missing to", map[string]any{"from": ok}},
		{"unknown unit", DistanceRequest{From: ok, To: ok, Unit: "furlong"}},
		{"unknown method", DistanceRequest{From: ok, To: ok, Method: "vincenty"}},
		{"latitude out of range", DistanceRequest{From: outOfRange, To: ok}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, strict, "/v1/distance", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "error")
		})
	}
}

func TestDistanceLenientComputesOutOfRange(t *testing.T) {
	lenient := newTestRouter(t, false)
	w := postJSON(t, lenient, "/v1/distance", DistanceRequest{
		From: &Coordinate{Lat: 95, Lon: 10},
		To:   &Coordinate{Lat: 10, Lon: 10},
		Unit: "km",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp DistanceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, geom.Haversine(95, 10, 10, 10, geom.Kilometer), resp.Distance, 1e-9)
}

func TestNonFiniteResultIsUnprocessable(t *testing.T) {
	coincident := &Coordinate{Lat: -83.49994, Lon: -173.5}

	tests := []struct {
		name   string
		strict bool
		path   string
		body   any
		op     string
	}{
		{"strict simplified coincident", true, "/v1/distance",
			DistanceRequest{From: coincident, To: coincident, Unit: "km", Method: "simplified"}, "distance"},
		{"lenient simplified coincident", false, "/v1/distance",
			DistanceRequest{From: coincident, To: coincident, Unit: "nm", Method: "simplified"}, "distance"},
		{"convert overflow", true, "/v1/convert",
			map[string]any{"value": 1.7e308, "from": "mi", "to": "km"}, "convert"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, tt.strict)
			failures := requestsTotal.WithLabelValues(tt.op, http.StatusText(http.StatusUnprocessableEntity))
			oks := requestsTotal.WithLabelValues(tt.op, "ok")
			failedBefore, okBefore := testutil.ToFloat64(failures), testutil.ToFloat64(oks)

			w := postJSON(t, router, tt.path, tt.body)
			require.Equal(t, http.StatusUnprocessableEntity, w.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Contains(t, resp["error"], "not a finite number")

			assert.Equal(t, failedBefore+1, testutil.ToFloat64(failures))
			assert.Equal(t, okBefore, testutil.ToFloat64(oks))
		})
	}

	// the same pair is fine under haversine
	w := postJSON(t, newTestRouter(t, true), "/v1/distance",
		DistanceRequest{From: coincident, To: coincident, Unit: "km"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp DistanceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0.0, resp.Distance)
}

func TestStatusFor(t *testing.T) {
	_, guardErr := guard.Point(95, 0)
	_, unitErr := geom.ParseDistanceUnit("furlong")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"bind error", badRequest(io.ErrUnexpectedEOF), http.StatusBadRequest},
		{"guard rejection", fmt.Errorf("from: %w", guardErr), http.StatusBadRequest},
		{"unknown unit", unitErr, http.StatusBadRequest},
		{"no polygon", fmt.Errorf("decode: %w", geom.ErrNoPolygon), http.StatusBadRequest},
		{"not finite", finite(math.NaN()), http.StatusUnprocessableEntity},
		{"infinite", finite(math.Inf(-1)), http.StatusUnprocessableEntity},
		{"anything else", errors.New("marshal failed"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.err)
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}

	assert.NoError(t, finite(42))
}

func TestConvertEndpoint(t *testing.T) {
	router := newTestRouter(t, true)

	w := postJSON(t, router, "/v1/convert", map[string]any{"value": 80, "from": "km", "to": "nm"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp ConvertResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 43.196, resp.Value, 0.001)
	assert.Equal(t, "nm", resp.Unit)

	w = postJSON(t, router, "/v1/convert", map[string]any{"value": 0, "from": "km", "to": "mi"})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, router, "/v1/convert", map[string]any{"from": "km", "to": "mi"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, router, "/v1/convert", map[string]any{"value": 1, "from": "km", "to": "parsec"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConvert(t *testing.T) {
	v, unit, err := Convert(180, "deg", "rad")
	require.NoError(t, err)
	assert.InDelta(t, math.Pi, v, 1e-12)
	assert.Equal(t, "rad", unit)

	v, unit, err = Convert(math.Pi, "RAD", "deg")
	require.NoError(t, err)
	assert.InDelta(t, 180, v, 1e-12)
	assert.Equal(t, "deg", unit)

	v, unit, err = Convert(1, "nm", "km")
	require.NoError(t, err)
	assert.Equal(t, geom.KmPerNauticalMile, v)
	assert.Equal(t, "km", unit)

	_, _, err = Convert(1, "deg", "km")
	assert.ErrorIs(t, err, geom.ErrUnknownUnit)
}

const containsBody = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {},
     "geometry": {"type": "Polygon", "coordinates": [[[0, 0], [0, 1], [1, 1], [1, 0], [0, 0]]]}},
    {"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [0.5, 0.5]}},
    {"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [2, 2]}}
  ]
}`

func TestContains(t *testing.T) {
	router := newTestRouter(t, true)

	w := post(t, router, "/v1/contains", []byte(containsBody))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var doc struct {
		Features []struct {
			Properties struct {
				Inside bool `json:"inside"`
			} `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	require.Len(t, doc.Features, 2)
	assert.True(t, doc.Features[0].Properties.Inside)
	assert.False(t, doc.Features[1].Properties.Inside)
}

func TestContainsRejectsBadInput(t *testing.T) {
	router := newTestRouter(t, true)

	tests := map[string]string{
		"not json":   `{`,
		"no polygon": `{"type": "Point", "coordinates": [1, 2]}`,
		"no points":  `{"type": "Polygon", "coordinates": [[[0, 0], [0, 1], [1, 1], [0, 0]]]}`,
		"degenerate polygon": `{"type": "FeatureCollection", "features": [
		  {"type": "Feature", "properties": {}, "geometry": {"type": "Polygon", "coordinates": [[[0, 0], [1, 1]]]}},
		  {"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [0.5, 0.5]}}]}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			w := post(t, router, "/v1/contains", []byte(body))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
