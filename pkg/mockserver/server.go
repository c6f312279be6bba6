package mockserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultPort is the port the mock API listens on unless configured.
const DefaultPort = 2345

// ErrNotRunning is returned when stopping a server that was never started.
var ErrNotRunning = errors.New("mockserver: server is not running")

// Option configures a Server.
type Option func(*Server)

// WithPort sets the listening port. Port 0 picks a free port.
func WithPort(port int) Option {
	return func(s *Server) {
		s.port = port
	}
}

// WithHost sets the listening host, 127.0.0.1 by default.
func WithHost(host string) Option {
	return func(s *Server) {
		if host != "" {
			s.host = host
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRegistry sets the Prometheus registry the server's counters are
// registered with and served from.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		if reg != nil {
			s.registry = reg
		}
	}
}

// LoggedRequest is a request seen by the server.
type LoggedRequest struct {
	Method    string      `json:"method"`
	Path      string      `json:"path"`
	Query     string      `json:"query,omitempty"`
	Headers   http.Header `json:"headers,omitempty"`
	Body      string      `json:"body,omitempty"`
	Matched   string      `json:"matched,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Server is an HTTP stub server. Stubs added later take precedence over
// earlier ones matching the same request.
type Server struct {
	host     string
	port     int
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics

	mu       sync.RWMutex
	stubs    []Stub
	journal  []LoggedRequest
	echo     *echo.Echo
	listener net.Listener
	done     chan struct{}
}

func New(opts ...Option) *Server {
	s := &Server{
		host:   "127.0.0.1",
		port:   DefaultPort,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.metrics = newMetrics(s.registry, s.logger)
	return s
}

// StubFor registers stub.
func (s *Server) StubFor(stub Stub) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stubs = append(s.stubs, stub)
	s.metrics.stubs.Set(float64(len(s.stubs)))
	s.logger.Debug("mock stub registered", "stub", stub.label())
}

// Stubs returns the registered stubs in registration order.
func (s *Server) Stubs() []Stub {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Stub(nil), s.stubs...)
}

// Requests returns the request journal.
func (s *Server) Requests() []LoggedRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]LoggedRequest(nil), s.journal...)
}

// ResetAll removes every stub and clears the journal.
func (s *Server) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stubs = nil
	s.journal = nil
	s.metrics.stubs.Set(0)
}

// Start binds the listener and serves in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.echo != nil {
		return errors.New("mockserver: server already started")
	}

	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("mockserver: listen %s: %w", addr, err)
	}

	e := s.routes()
	e.Listener = ln
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := e.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("mock server stopped", "error", err)
		}
	}()

	s.echo = e
	s.listener = ln
	s.done = done
	s.logger.Info("mock server started", "addr", ln.Addr().String())
	return nil
}

// Stop shuts the server down, waiting for in-flight requests until ctx
// expires. Stubs and journal survive a stop.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	e, done := s.echo, s.done
	s.echo, s.listener, s.done = nil, nil, nil
	s.mu.Unlock()

	if e == nil {
		return ErrNotRunning
	}
	err := e.Shutdown(ctx)
	<-done
	s.logger.Info("mock server stopped")
	if err != nil {
		return fmt.Errorf("mockserver: shutdown: %w", err)
	}
	return nil
}

// BaseURL returns http://host:port of the running server, or of the
// configured address when not running.
func (s *Server) BaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return "http://" + s.listener.Addr().String()
	}
	return "http://" + net.JoinHostPort(s.host, strconv.Itoa(s.port))
}

func (s *Server) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	admin := e.Group("/__admin")
	admin.GET("/mappings", s.handleMappings)
	admin.DELETE("/mappings", s.handleReset)
	admin.GET("/requests", s.handleRequests)
	admin.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	e.Any("/*", s.handleStub)
	return e
}

func (s *Server) handleMappings(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"mappings": s.Stubs()})
}

func (s *Server) handleReset(c echo.Context) error {
	s.ResetAll()
	return c.NoContent(http.StatusOK)
}

func (s *Server) handleRequests(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"requests": s.Requests()})
}

func (s *Server) handleStub(c echo.Context) error {
	req := c.Request()
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	stub, ok := s.match(req)
	entry := LoggedRequest{
		Method:    req.Method,
		Path:      req.URL.Path,
		Query:     req.URL.RawQuery,
		Headers:   req.Header.Clone(),
		Body:      string(body),
		Timestamp: time.Now().UTC(),
	}
	if ok {
		entry.Matched = stub.label()
	}
	s.record(entry)

	if !ok {
		s.metrics.requests.WithLabelValues(req.Method, outcomeUnmatched).Inc()
		s.logger.Debug("mock request unmatched", "method", req.Method, "path", req.URL.Path)
		return c.JSON(http.StatusNotFound, s.unmatched(req))
	}

	s.metrics.requests.WithLabelValues(req.Method, outcomeMatched).Inc()
	s.logger.Debug("mock request matched", "method", req.Method, "path", req.URL.Path, "stub", stub.label())
	for k, v := range stub.Response.Headers {
		c.Response().Header().Set(k, v)
	}
	contentType := stub.Response.Headers[echo.HeaderContentType]
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	return c.Blob(stub.Response.Status, contentType, stub.Response.Body)
}

func (s *Server) match(req *http.Request) (Stub, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.stubs) - 1; i >= 0; i-- {
		if s.stubs[i].matches(req) {
			return s.stubs[i], true
		}
	}
	return Stub{}, false
}

func (s *Server) record(entry LoggedRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journal = append(s.journal, entry)
}

func (s *Server) unmatched(req *http.Request) map[string]any {
	stubs := s.Stubs()
	names := make([]string, 0, len(stubs))
	for _, stub := range stubs {
		names = append(names, stub.label())
	}
	return map[string]any{
		"message": "no stub matched the request",
		"request": map[string]string{"method": req.Method, "path": req.URL.Path},
		"stubs":   names,
	}
}
