// Package server is a development relay backend implementing the attendance
// wire contract: batched login, batched check-in and the scraped history
// page. Successful logins are cached with an expiring session, and check-ins
// are appended to a record log served back through /api/history.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/existflow/onescan/internal/logger"
	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// sessionTTL matches the upstream's 30 minute session window.
const sessionTTL = 30 * time.Minute

// Server is the relay backend
type Server struct {
	echo     *echo.Echo
	verifier Verifier
	sessions *ttlcache.Cache[string, string]
	records  RecordLog
}

// New creates a server. With a DATABASE_URL the record log is persisted to
// postgres, otherwise it stays in memory.
func New(dbURL string, verifier Verifier) (*Server, error) {
	if verifier == nil {
		verifier = DevVerifier{}
	}

	records, err := newRecordLog(dbURL)
	if err != nil {
		return nil, err
	}

	s := &Server{
		verifier: verifier,
		sessions: ttlcache.New(
			ttlcache.WithTTL[string, string](sessionTTL),
			ttlcache.WithDisableTouchOnHit[string, string](),
		),
		records: records,
	}
	go s.sessions.Start()

	s.setupEcho()
	return s, nil
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true

	// Custom logging middleware
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			err := next(c)

			res := c.Response()
			logger.Info("HTTP request",
				logger.F("method", req.Method),
				logger.F("uri", req.RequestURI),
				logger.F("status", res.Status),
				logger.F("duration", time.Since(start).String()))

			fmt.Printf("REQUEST: %s %s  status=%d  duration=%s\n",
				req.Method, req.RequestURI, res.Status, time.Since(start))

			return err
		}
	})

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	// Health check
	e.GET("/health", s.handleHealth)

	e.POST("/api/login_batch", s.handleLoginBatch)
	e.POST("/api/checkin_batch", s.handleCheckinBatch)
	e.POST("/api/history", s.handleHistory)

	s.echo = e
}

// Close releases the session cache and record log.
func (s *Server) Close() error {
	s.sessions.Stop()
	return s.records.Close()
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// cacheSession stores a fresh session token for a verified account.
func (s *Server) cacheSession(id string) {
	s.sessions.Set(id, uuid.New().String(), sessionTTL)
}

// hasSession reports whether a non-expired session exists for the account.
func (s *Server) hasSession(id string) bool {
	return s.sessions.Get(id) != nil
}
