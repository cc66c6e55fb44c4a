// Package httpapi exposes the sharing coordinator over HTTP. Routing,
// parsing, and status mapping live here; all custody decisions stay in the
// services layer.
package httpapi

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mzarins/filedepot/internal/logging"
	"github.com/mzarins/filedepot/internal/server/models"
	"github.com/mzarins/filedepot/internal/server/notify"
)

// Coordinator is the slice of the sharing service the edge consumes.
type Coordinator interface {
	ListFiles(ctx context.Context, ownerID int64) ([]*models.FileRecord, error)
	Upload(ctx context.Context, ownerID int64, content io.Reader, displayName string) (*models.FileRecord, error)
	Download(ctx context.Context, ownerID, fileID int64) (io.ReadCloser, *models.FileRecord, error)
	Delete(ctx context.Context, ownerID, fileID int64) error
	OfferShare(ctx context.Context, senderID int64, recipientEmail, displayName, blobRef string) (*models.PendingShare, error)
	AcceptShare(ctx context.Context, shareID int64) (*models.FileRecord, error)
	RefuseShare(ctx context.Context, shareID int64) error
	GetPendingShares(ctx context.Context, recipientID int64) ([]*models.PendingShare, error)
}

// UserResolver resolves a verified identity to a ledger user.
type UserResolver interface {
	GetOrCreate(ctx context.Context, identityKey, email, displayName string) (*models.User, error)
}

// Server is the HTTP edge.
type Server struct {
	echo      *echo.Echo
	addr      string
	logger    logging.Logger
	users     UserResolver
	sharing   Coordinator
	hub       *notify.Hub
	db        *sql.DB
	jwtSecret []byte
}

// New wires routes and middleware. db is used by the health endpoint only.
func New(addr string, l logging.Logger, users UserResolver, sharing Coordinator, hub *notify.Hub, db *sql.DB, secretKey string) *Server {
	s := &Server{
		addr:      addr,
		logger:    l.With("module", "http_server"),
		users:     users,
		sharing:   sharing,
		hub:       hub,
		db:        db,
		jwtSecret: []byte(secretKey),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s.echo = e
	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/api/healthz", s.healthz)

	api := s.echo.Group("/api", s.requireIdentity)
	api.GET("/files", s.listFiles)
	api.POST("/files/upload", s.uploadFile)
	api.GET("/files/download/:id", s.downloadFile)
	api.DELETE("/files/delete/:id", s.deleteFile)
	api.POST("/shares", s.offerShare)
	api.GET("/shares/pending", s.pendingShares)
	api.POST("/shares/:id/accept", s.acceptShare)
	api.POST("/shares/:id/refuse", s.refuseShare)
	api.GET("/events", s.events)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.addr)

	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) healthz(c echo.Context) error {
	if s.db != nil {
		if err := s.db.PingContext(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "db unreachable"})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
