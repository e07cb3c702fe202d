// Package server exposes one world engine over HTTP/JSON.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/samdwyer/endlessutopia/internal/config"
	"github.com/samdwyer/endlessutopia/internal/world"
)

const shutdownTimeout = 5 * time.Second

// Server serves one engine. Engine calls are serialized by mu.
type Server struct {
	router  *gin.Engine
	mu      sync.Mutex
	engine  *world.Engine
	limits  config.ServerConfig
	metrics *Metrics
}

// New builds the router around engine. Metrics are registered in registry.
func New(engine *world.Engine, limits config.ServerConfig, registry *prometheus.Registry) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("endlessutopia"))
	router.Use(requestLogger())

	s := &Server{
		router:  router,
		engine:  engine,
		limits:  limits,
		metrics: NewMetrics(registry),
	}
	router.Use(s.metrics.Handler())
	s.metrics.RegisterEndpoint(router)
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	v1 := s.router.Group("/v1")
	v1.GET("/tile", s.handleTile)
	v1.GET("/region", s.handleRegion)
	v1.GET("/render", s.handleRender)
	v1.GET("/landmark/check", s.handleLandmarkCheck)
	v1.GET("/landmark/near", s.handleLandmarkNear)
	v1.GET("/engine", s.handleEngine)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type regionResponse struct {
	X      int32          `json:"x"`
	Y      int32          `json:"y"`
	Width  int            `json:"width"`
	Height int            `json:"height"`
	Rows   [][]world.Tile `json:"rows"`
}

type nearResponse struct {
	Coordinates []world.Coord `json:"coordinates"`
}

type engineResponse struct {
	ID       string        `json:"id"`
	Landmark *world.Coord  `json:"landmark,omitempty"`
	Visited  []world.Coord `json:"visited"`
}

func (s *Server) handleTile(c *gin.Context) {
	x, y, ok := coordParams(c)
	if !ok {
		return
	}

	s.mu.Lock()
	tile := s.engine.GetTile(x, y)
	s.mu.Unlock()

	s.metrics.ObserveTile(tile)
	c.JSON(http.StatusOK, tile)
}

func (s *Server) handleRegion(c *gin.Context) {
	x, y, w, h, ok := s.regionParams(c)
	if !ok {
		return
	}

	s.mu.Lock()
	rows := s.engine.GetRegion(c.Request.Context(), x, y, w, h)
	s.mu.Unlock()

	for _, row := range rows {
		for _, tile := range row {
			s.metrics.ObserveTile(tile)
		}
	}
	if len(rows) == 0 {
		w, h = 0, 0
	}
	c.JSON(http.StatusOK, regionResponse{X: x, Y: y, Width: w, Height: h, Rows: rows})
}

func (s *Server) handleRender(c *gin.Context) {
	x, y, w, h, ok := s.regionParams(c)
	if !ok {
		return
	}

	s.mu.Lock()
	text := s.engine.RenderRegion(c.Request.Context(), x, y, w, h)
	s.mu.Unlock()

	c.String(http.StatusOK, text)
}

func (s *Server) handleLandmarkCheck(c *gin.Context) {
	x, y, ok := coordParams(c)
	if !ok {
		return
	}
	// IsLandmark reads only immutable state.
	c.JSON(http.StatusOK, gin.H{"landmark": s.engine.IsLandmark(x, y)})
}

func (s *Server) handleLandmarkNear(c *gin.Context) {
	x, y, ok := coordParams(c)
	if !ok {
		return
	}
	r, ok := intParam(c, "r", 0)
	if !ok {
		return
	}
	if r < 0 {
		badRequest(c, "r must not be negative")
		return
	}
	r = min(r, s.limits.MaxSearchRadius)

	coords := s.engine.FindLandmarkNear(c.Request.Context(), x, y, int32(r))
	c.JSON(http.StatusOK, nearResponse{Coordinates: coords})
}

func (s *Server) handleEngine(c *gin.Context) {
	s.mu.Lock()
	resp := engineResponse{ID: s.engine.ID(), Visited: s.engine.Visited()}
	s.mu.Unlock()

	// The landmark is only revealed once it has been found.
	if len(resp.Visited) > 0 {
		lm := s.engine.Landmark()
		resp.Landmark = &lm
	}
	c.JSON(http.StatusOK, resp)
}

// regionParams reads x, y, w, h and clamps the extent to the configured limits.
func (s *Server) regionParams(c *gin.Context) (x, y int32, w, h int, ok bool) {
	if x, y, ok = coordParams(c); !ok {
		return
	}
	if w, ok = intParam(c, "w", 0); !ok {
		return
	}
	if h, ok = intParam(c, "h", 0); !ok {
		return
	}
	w = min(w, s.limits.MaxRegionWidth)
	h = min(h, s.limits.MaxRegionHeight)
	return x, y, w, h, true
}

func coordParams(c *gin.Context) (x, y int32, ok bool) {
	if x, ok = int32Param(c, "x"); !ok {
		return
	}
	if y, ok = int32Param(c, "y"); !ok {
		return
	}
	return x, y, true
}

func int32Param(c *gin.Context, name string) (int32, bool) {
	raw := c.DefaultQuery(name, "0")
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		badRequest(c, fmt.Sprintf("invalid %s: %q", name, raw))
		return 0, false
	}
	return int32(v), true
}

func intParam(c *gin.Context, name string, def int) (int, bool) {
	raw, present := c.GetQuery(name)
	if !present {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(c, fmt.Sprintf("invalid %s: %q", name, raw))
		return 0, false
	}
	return v, true
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}
