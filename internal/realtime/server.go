package realtime

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/graceful"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"bimcloud/internal/pipeline"
)

// State tracks the latest progress snapshot of the current run so HTTP
// clients joining mid-run can catch up without replaying the event stream.
type State struct {
	mu     sync.RWMutex
	latest pipeline.Progress
	seen   bool
}

func NewState() *State {
	return &State{}
}

// Sink returns a progress callback that records each event as the latest
// snapshot.
func (s *State) Sink() pipeline.ProgressFunc {
	return func(p pipeline.Progress) {
		s.mu.Lock()
		s.latest = p
		s.seen = true
		s.mu.Unlock()
	}
}

// Snapshot returns the latest recorded progress event.
func (s *State) Snapshot() (pipeline.Progress, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.seen
}

// Server exposes run status over HTTP and streams progress over WebSocket.
type Server struct {
	hub    *Hub
	state  *State
	census map[string]int
	input  string
	logger zerolog.Logger
}

func NewServer(hub *Hub, state *State, input string, census map[string]int, logger zerolog.Logger) *Server {
	return &Server{
		hub:    hub,
		state:  state,
		census: census,
		input:  input,
		logger: logger,
	}
}

// Serve runs the HTTP surface until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	gin.SetMode(gin.ReleaseMode)

	router, err := graceful.Default(graceful.WithAddr(addr))
	if err != nil {
		return err
	}
	defer router.Close()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	api := router.Group("/api")
	{
		api.GET("/status", s.handleStatus)
		api.GET("/census", s.handleCensus)
	}

	router.GET("/ws", func(c *gin.Context) {
		ServeWS(s.hub, c.Writer, c.Request)
	})

	s.logger.Info().Str("addr", addr).Msg("Status server listening")
	return router.RunWithContext(ctx)
}

func (s *Server) handleStatus(c *gin.Context) {
	p, ok := s.state.Snapshot()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"input": s.input, "status": "pending"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"input": s.input, "progress": p})
}

func (s *Server) handleCensus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"input": s.input, "counts": s.census})
}
