package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"webnote/pkg/log"
	"webnote/pkg/store"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const shutdownTimeout = 10

// Storage is the persistence surface the server needs: note bodies plus
// the upload area next to them.
type Storage interface {
	store.NoteStore
	store.UploadStore
}

// NoteServer serves the note editor, raw note bodies, uploads, and the
// static assets behind the editor page.
type NoteServer struct {
	saveDir    string
	staticRoot string
	echo       *echo.Echo
	version    string
	store      Storage
	startedAt  time.Time
}

func NewNoteServer(saveDir, staticRoot, version string, storeImpl Storage) *NoteServer {
	return &NoteServer{
		saveDir:    saveDir,
		staticRoot: staticRoot,
		echo:       echo.New(),
		version:    version,
		store:      storeImpl,
		startedAt:  time.Now(),
	}
}

func (ns *NoteServer) Start(addr string) error {
	ns.setupRoutes()

	// Start server in a goroutine
	go func() {
		log.Info().
			Str("addr", addr).
			Str("save_dir", ns.saveDir).
			Str("static_root", ns.staticRoot).
			Str("version", ns.version).
			Msg("Starting note server")

		if err := ns.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server startup failed")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	return ns.Shutdown()
}

func (ns *NoteServer) Shutdown() error {
	log.Info().Msg("Shutting down server...")

	// Gracefully shutdown Echo with a timeout of 10 seconds
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout*time.Second)
	defer cancel()

	if err := ns.echo.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
		return err
	}

	log.Info().Msg("Server gracefully stopped")
	return nil
}

func (ns *NoteServer) setupRoutes() {
	// Echo configuration
	ns.echo.HideBanner = true
	ns.echo.HidePort = true
	// Setup middleware with custom logger
	ns.echo.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} ${status} ${method} ${uri} (${latency_human})\n",
	}))
	ns.echo.Use(middleware.Recover())
	ns.echo.Use(middleware.CORS())

	// Setup routes. Fixed paths win over the :note parameter, so /upload,
	// /status, and the asset names can never be shadowed by a note slug.
	ns.echo.GET("/", ns.newNote)
	ns.echo.GET("/status", ns.getStatus)
	ns.echo.POST("/upload", ns.uploadFile)
	ns.echo.GET("/_tmp/:file", ns.serveTmpFile)
	for _, name := range staticAssets {
		ns.echo.GET("/"+name, ns.serveAsset(name))
	}
	ns.echo.GET("/js/:file", ns.servePublicJS)
	ns.echo.GET("/:note", ns.getNote)
	ns.echo.POST("/:note", ns.postNote)
}
