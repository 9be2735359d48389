package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/pdf-studio/backend/internal/api"
	"github.com/pdf-studio/backend/internal/config"
	"github.com/pdf-studio/backend/internal/logging"
	"github.com/pdf-studio/backend/internal/pdf"
	"github.com/pdf-studio/backend/internal/preview"
	"github.com/pdf-studio/backend/internal/storage"
	"github.com/pdf-studio/backend/internal/web"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Get the executable's directory for config resolution
	exePath, err := os.Executable()
	if err != nil {
		fmt.Printf("Failed to get executable path: %v\n", err)
		os.Exit(1)
	}
	exeDir := filepath.Dir(exePath)

	configPath := filepath.Join(exeDir, "pdfstudio.yaml")
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Printf("Failed to create directories: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Printf("Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Check if running in embedded mode (frontend built into binary)
	embeddedMode := web.HasEmbeddedFiles()

	store, err := storage.NewLocalStore(cfg.Storage.UploadsDirectory, cfg.Storage.CatalogFile)
	if err != nil {
		log.Fatal("failed to initialize storage", zap.Error(err))
	}
	defer store.Close()

	processor := pdf.NewProcessor(cfg.Storage.TempDirectory, log)

	previews := preview.NewManager(func(fileID string) (int, int, error) {
		rec, err := store.Get(fileID)
		if err != nil {
			return 0, 0, err
		}
		if rec.PageCount > 0 {
			return rec.PageCount, rec.Revision, nil
		}
		path, err := store.FilePath(fileID)
		if err != nil {
			return 0, 0, err
		}
		n, err := processor.PageCount(path)
		if err != nil {
			return 0, 0, err
		}
		return n, rec.Revision, nil
	}, log)

	// Start background preview cleanup
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.Limits.CleanupIntervalMin) * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			previews.CleanupOld(time.Duration(cfg.Limits.PreviewTimeoutMinutes) * time.Minute)
		}
	}()

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			if !cfg.Logging.RequestLog {
				return true
			}
			return c.Request().URL.Path == "/api/health"
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
	}))

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Skipper: func(c echo.Context) bool {
			// Binary downloads compress poorly and break range handling.
			return strings.Contains(c.Request().URL.Path, "/content") ||
				strings.Contains(c.Request().URL.Path, "/export")
		},
	}))

	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	if cfg.Server.EnableCORS && !embeddedMode {
		origins := strings.Split(cfg.Server.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		}))
	}

	handlers := api.NewHandlers(&api.Dependencies{
		Store:       store,
		Processor:   processor,
		Previews:    previews,
		Log:         log,
		MaxUpload:   cfg.Limits.MaxUploadBytes,
		RecentLimit: cfg.Limits.RecentFilesLimit,
		Version:     Version,
	})
	api.RegisterRoutes(e, handlers)

	if embeddedMode {
		if err := web.RegisterStaticRoutes(e); err != nil {
			log.Fatal("failed to register static routes", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      e,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	log.Info("starting server",
		zap.String("addr", srv.Addr),
		zap.String("version", Version),
		zap.String("buildTime", BuildTime),
		zap.Bool("embeddedFrontend", embeddedMode))

	if err := e.StartServer(srv); err != nil && err != http.ErrServerClosed {
		log.Fatal("server stopped", zap.Error(err))
	}
}
