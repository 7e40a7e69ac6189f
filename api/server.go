package api

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"kuanb/gosm-geo/geom"
	"kuanb/gosm-geo/guard"
)

var (
	// errBadRequest marks malformed bodies and parameters
	errBadRequest = errors.New("bad request")
	// errNotFinite is returned when a computation yields NaN or ±Inf, which JSON cannot carry
	errNotFinite = errors.New("result is not a finite number")
)

func badRequest(err error) error {
	return fmt.Errorf("%w: %w", errBadRequest, err)
}

func finite(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %v", errNotFinite, v)
	}
	return nil
}

// statusFor maps an operation error to its HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, errNotFinite):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errBadRequest),
		errors.Is(err, guard.ErrInvalidArgument),
		errors.Is(err, geom.ErrUnknownUnit),
		errors.Is(err, geom.ErrNoPolygon):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Options configure a Server
type Options struct {
	DefaultUnit geom.DistanceUnit
	// Strict routes every request through package guard.
	Strict             bool
	MaxPolygonVertices int
	Metrics            bool
}

// Server answers distance, conversion and point-in-polygon requests over HTTP
type Server struct {
	logger *zerolog.Logger
	opts   Options
	guard  guard.Guard
}

// NewServer creates a new Server
func NewServer(logger *zerolog.Logger, opts Options) *Server {
	return &Server{
		logger: logger,
		opts:   opts,
		guard:  guard.Guard{MaxPolygonVertices: opts.MaxPolygonVertices},
	}
}

// Router builds the gin engine with every route registered
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	if s.opts.Metrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	v1 := router.Group("/v1")
	v1.POST("/distance", s.handleDistance)
	v1.POST("/convert", s.handleConvert)
	v1.POST("/contains", s.handleContains)

	return router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("HTTP request")
	}
}

// Coordinate is the JSON form of a point
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (c Coordinate) point() geom.GeoPoint {
	return geom.NewPoint(c.Lat, c.Lon)
}

// DistanceRequest asks for the distance between two points
type DistanceRequest struct {
	From   *Coordinate `json:"from" binding:"required"`
	To     *Coordinate `json:"to" binding:"required"`
	Unit   string      `json:"unit"`
	Method string      `json:"method"`
}

// DistanceResponse carries the computed distance
type DistanceResponse struct {
	Distance float64 `json:"distance"`
	Unit     string  `json:"unit"`
	Method   string  `json:"method"`
}

const (
	methodHaversine  = "haversine"
	methodSimplified = "simplified"
)

func (s *Server) unit(name string) (geom.DistanceUnit, error) {
	if name == "" {
		return s.opts.DefaultUnit, nil
	}
	return geom.ParseDistanceUnit(name)
}

func (s *Server) handleDistance(c *gin.Context) {
	start := time.Now()

	var req DistanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, "distance", start, badRequest(err))
		return
	}
	unit, err := s.unit(req.Unit)
	if err != nil {
		s.fail(c, "distance", start, err)
		return
	}

	method := strings.ToLower(req.Method)
	if method == "" {
		method = methodHaversine
	}

	from, to := req.From.point(), req.To.point()
	var distance float64
	switch method {
	case methodHaversine:
		if s.opts.Strict {
			distance, err = s.guard.Haversine(from, to, unit)
		} else {
			distance = geom.HaversineBetween(from, to, unit)
		}
	case methodSimplified:
		if s.opts.Strict {
			distance, err = s.guard.SimplifiedDistance(from, to, unit)
		} else {
			distance = geom.SimplifiedDistanceBetween(from, to, unit)
		}
	default:
		err = badRequest(fmt.Errorf("method %q must be haversine or simplified", req.Method))
	}
	if err == nil {
		err = finite(distance)
	}
	if err != nil {
		s.fail(c, "distance", start, err)
		return
	}

	observe("distance", start, "ok")
	c.JSON(http.StatusOK, DistanceResponse{
		Distance: distance,
		Unit:     unit.Symbol(),
		Method:   method,
	})
}

// ConvertRequest converts value between distance units, or between "deg" and "rad"
type ConvertRequest struct {
	Value *float64 `json:"value" binding:"required"`
	From  string   `json:"from" binding:"required"`
	To    string   `json:"to" binding:"required"`
}

// ConvertResponse carries the converted value
type ConvertResponse struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

func (s *Server) handleConvert(c *gin.Context) {
	start := time.Now()

	var req ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, "convert", start, badRequest(err))
		return
	}

	value, unit, err := Convert(*req.Value, req.From, req.To)
	if err == nil {
		err = finite(value)
	}
	if err != nil {
		s.fail(c, "convert", start, err)
		return
	}

	observe("convert", start, "ok")
	c.JSON(http.StatusOK, ConvertResponse{Value: value, Unit: unit})
}

// Convert converts value between two distance units, or between "deg" and "rad".
// It returns the converted value and the symbol of the target unit
func Convert(value float64, from, to string) (float64, string, error) {
	from, to = strings.ToLower(from), strings.ToLower(to)
	switch {
	case from == "deg" && to == "rad":
		return geom.DegreesToRadians(value), "rad", nil
	case from == "rad" && to == "deg":
		return geom.RadiansToDegrees(value), "deg", nil
	case from == to && (from == "deg" || from == "rad"):
		return value, to, nil
	}

	fromUnit, err := geom.ParseDistanceUnit(from)
	if err != nil {
		return 0, "", err
	}
	toUnit, err := geom.ParseDistanceUnit(to)
	if err != nil {
		return 0, "", err
	}
	return geom.Convert(value, fromUnit, toUnit), toUnit.Symbol(), nil
}

// handleContains takes a GeoJSON document holding one polygon and any number of
// points, and answers with the points tagged inside true or false
func (s *Server) handleContains(c *gin.Context) {
	start := time.Now()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		s.fail(c, "contains", start, badRequest(err))
		return
	}

	polygon, err := geom.DecodePolygon(body)
	if err != nil {
		s.fail(c, "contains", start, badRequest(err))
		return
	}
	points, err := geom.DecodePoints(body)
	if err != nil {
		s.fail(c, "contains", start, badRequest(err))
		return
	}
	if len(points) == 0 {
		s.fail(c, "contains", start, badRequest(errors.New("no points found in GeoJSON")))
		return
	}
	polygonVertices.Observe(float64(len(polygon)))

	inside := make([]bool, len(points))
	for i, p := range points {
		if s.opts.Strict {
			inside[i], err = s.guard.PointInPolygon(p, polygon)
			if err != nil {
				s.fail(c, "contains", start, err)
				return
			}
		} else {
			inside[i] = geom.PointInGeoPolygon(p, polygon)
		}
	}

	s.logger.Debug().
		Int("points", len(points)).
		Int("vertices", len(polygon)).
		Msg("Processed contains request")

	fc := geom.PointsCollection(points, func(i int) map[string]any {
		return map[string]any{"inside": inside[i]}
	})
	data, err := fc.MarshalJSON()
	if err != nil {
		s.fail(c, "contains", start, err)
		return
	}

	observe("contains", start, "ok")
	c.Data(http.StatusOK, "application/geo+json", data)
}

func (s *Server) fail(c *gin.Context, operation string, start time.Time, err error) {
	status := statusFor(err)
	observe(operation, start, http.StatusText(status))
	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("operation", operation).Msg("Request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
