package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/assettrack/apiserver/config"
	"github.com/assettrack/apiserver/internal/events"
	"github.com/assettrack/apiserver/internal/handlers"
	"github.com/assettrack/apiserver/internal/logger"
	"github.com/assettrack/apiserver/internal/metrics"
	"github.com/assettrack/apiserver/internal/rowstore"
	"github.com/assettrack/apiserver/internal/services"
	"github.com/assettrack/apiserver/internal/storage"
	"github.com/assettrack/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	publisher  *events.Publisher
}

// New constructs a Server with basic middleware and defaults.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	backend, err := newRowStoreBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	rs := rowstore.New(backend)

	if err := store.EnsureTables(ctx, rs); err != nil {
		return nil, fmt.Errorf("ensure tables: %w", err)
	}

	userRepo := store.NewUserRepository(rs)
	locationRepo := store.NewLocationRepository(rs)
	categoryRepo := store.NewCategoryRepository(rs)
	subcategoryRepo := store.NewSubcategoryRepository(rs)
	brandRepo := store.NewBrandRepository(rs)
	assetTypeRepo := store.NewAssetTypeRepository(rs)
	assetRepo := store.NewAssetRepository(rs)
	movementRepo := store.NewMovementRepository(rs)

	attachments, err := newAttachments(ctx, cfg)
	if err != nil {
		return nil, err
	}

	publisher, err := newPublisher(ctx, cfg)
	if err != nil {
		return nil, err
	}

	userService := services.NewUserService(userRepo)
	catalogService := services.NewCatalogService(locationRepo, categoryRepo, subcategoryRepo, brandRepo, assetTypeRepo)
	assetService := services.NewAssetService(assetRepo, movementRepo, categoryRepo, subcategoryRepo, publisher)
	dashboardService := services.NewDashboardService(assetRepo, locationRepo, movementRepo)

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		_ = publisher.Close()
		return nil, errors.New("JWT_SECRET is required")
	}

	authMiddleware := handlers.RequireAuth(jwtSecret)
	adminOnly := handlers.RequireAdmin(userService)

	catalogHandler := handlers.NewCatalogHandler(catalogService)
	assetHandler := handlers.NewAssetHandler(assetService, attachments)
	movementHandler := handlers.NewMovementHandler(assetService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
		metrics.Middleware,
	)
	router.Get("/healthz", handlers.Healthz)
	router.Handle("/metrics", promhttp.Handler())
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, userService, jwtSecret)
	})
	router.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Route("/locations", func(r chi.Router) {
			handlers.LocationsRouter(r, catalogHandler, adminOnly)
		})
		r.Route("/categories", func(r chi.Router) {
			handlers.CategoriesRouter(r, catalogHandler, adminOnly)
		})
		r.Route("/subcategories", func(r chi.Router) {
			handlers.SubcategoriesRouter(r, catalogHandler, adminOnly)
		})
		r.Route("/brands", func(r chi.Router) {
			handlers.BrandsRouter(r, catalogHandler, adminOnly)
		})
		r.Route("/asset-types", func(r chi.Router) {
			handlers.AssetTypesRouter(r, catalogHandler, adminOnly)
		})
		r.Route("/assets", func(r chi.Router) {
			handlers.AssetRouter(r, assetHandler, adminOnly)
		})
		r.Route("/movements", func(r chi.Router) {
			handlers.MovementsRouter(r, movementHandler)
		})
		r.Route("/dashboard", func(r chi.Router) {
			handlers.DashboardRouter(r, dashboardHandler)
		})
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		publisher:  publisher,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	logger.Get().Info("server listening", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if err := s.publisher.Close(); err != nil {
		logger.Get().Warn("close publisher", zap.Error(err))
	}
	return s.httpServer.Close()
}

func newRowStoreBackend(ctx context.Context, cfg config.Config) (rowstore.Backend, error) {
	switch cfg.RowStore.Backend {
	case config.RowStoreMemory:
		logger.Get().Warn("using in-memory row store, data will not persist")
		return rowstore.NewMemoryBackend(), nil
	case config.RowStoreSheets:
		if cfg.Sheets.SpreadsheetID == "" {
			return nil, errors.New("SHEETS_SPREADSHEET_ID is required")
		}
		return rowstore.NewSheetsBackend(ctx, cfg.Sheets)
	default:
		return nil, fmt.Errorf("unknown row store backend %q", cfg.RowStore.Backend)
	}
}

// newAttachments builds the attachment store, or nil when no object
// storage backend is configured.
func newAttachments(ctx context.Context, cfg config.Config) (*storage.Attachments, error) {
	var backend storage.ObjectStorage
	switch cfg.Storage.Backend {
	case config.StorageNone:
		return nil, nil
	case config.StorageMinio:
		client, err := storage.NewMinioClient(cfg.Storage.Minio)
		if err != nil {
			return nil, fmt.Errorf("minio: %w", err)
		}
		backend = client
	case config.StorageGCS:
		client, err := storage.NewGCSClient(ctx, cfg.Storage.GCS)
		if err != nil {
			return nil, fmt.Errorf("gcs: %w", err)
		}
		backend = client
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	attachments := storage.NewAttachments(backend)
	if err := attachments.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}
	return attachments, nil
}

// newPublisher builds the event publisher. With no broker configured it
// returns a nil Publisher, which publishes nothing.
func newPublisher(ctx context.Context, cfg config.Config) (*events.Publisher, error) {
	switch cfg.Events.Backend {
	case config.EventsNone:
		return nil, nil
	case config.EventsPubSub:
		backend, err := events.NewPubSubBackend(ctx, cfg.Events.PubSub)
		if err != nil {
			return nil, fmt.Errorf("pubsub: %w", err)
		}
		return events.NewPublisher(backend, cfg.Events.Topic), nil
	case config.EventsRabbitMQ:
		backend, err := events.NewRabbitMQBackend(cfg.Events.RabbitMQ)
		if err != nil {
			return nil, fmt.Errorf("rabbitmq: %w", err)
		}
		return events.NewPublisher(backend, cfg.Events.Topic), nil
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Events.Backend)
	}
}
