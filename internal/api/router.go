package api

import (
	"time"

	"github.com/Project-Sylos/Courier/internal/api/handlers"
	"github.com/Project-Sylos/Courier/internal/logging"
	"github.com/Project-Sylos/Courier/internal/sandbox"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Router represents the HTTP API router
type Router struct {
	sb  *sandbox.Sandbox
	log *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(sb *sandbox.Sandbox, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{sb: sb, log: logger}
}

// SetupRoutes configures the gofile-compatible routes
func (r *Router) SetupRoutes() *chi.Mux {
	router := chi.NewRouter()

	// Standard middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logging.Middleware(r.log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	uploadHandler := handlers.NewUploadHandler(r.sb, r.log)
	contentHandler := handlers.NewContentHandler(r.sb, r.log)
	accountHandler := handlers.NewAccountHandler(r.sb, r.log)
	systemHandler := handlers.NewSystemHandler(r.sb, r.log)

	// Health check
	router.Get("/health", healthHandler.HealthCheck)

	// Upload
	router.Get("/getServer", uploadHandler.GetServer)
	router.Post("/servers/{server}/uploadFile", uploadHandler.UploadFile)

	// Contents
	router.Get("/getContent", contentHandler.GetContent)
	router.Put("/createFolder", contentHandler.CreateFolder)
	router.Put("/setFolderOption", contentHandler.SetFolderOption)
	router.Put("/copyContent", contentHandler.CopyContent)
	router.Delete("/deleteContent", contentHandler.DeleteContent)

	// Account
	router.Get("/getAccountDetails", accountHandler.GetAccountDetails)

	// Sandbox maintenance
	router.Post("/reset", systemHandler.Reset)

	return router
}
