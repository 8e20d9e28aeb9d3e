package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docassist/backend/internal/api"
	"github.com/docassist/backend/internal/chat"
	"github.com/docassist/backend/internal/config"
	"github.com/docassist/backend/internal/storage"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
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

	// Load configuration
	configPath := filepath.Join(exeDir, "docassist.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Ensure all data directories exist
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Printf("Failed to create directories: %v\n", err)
		os.Exit(1)
	}

	// Initialize transient attachment storage
	fileStore, err := storage.NewLocalStore(cfg.GetUploadDir())
	if err != nil {
		fmt.Printf("Failed to initialize storage: %v\n", err)
		os.Exit(1)
	}

	// Start background sweep of orphaned attachment files
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.Storage.SweepIntervalMinutes) * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			maxAge := time.Duration(cfg.Storage.MaxAttachmentAgeMinutes) * time.Minute
			if n := fileStore.SweepOlderThan(maxAge); n > 0 {
				fmt.Printf("Swept %d orphaned attachment file(s)\n", n)
			}
		}
	}()

	// Initialize the model client. An unconfigured key is not fatal: the
	// server starts, /health reports configured=false, and /chat fails
	// with a configuration error.
	var model chat.ModelClient
	if cfg.IsConfigured() {
		gemini, err := chat.NewGeminiClient(context.Background(), cfg.Model.APIKey, cfg.Model.Name)
		if err != nil {
			fmt.Printf("Failed to initialize model client: %v\n", err)
			os.Exit(1)
		}
		defer gemini.Close()
		model = gemini
	} else {
		fmt.Println("Warning: no GEMINI_API_KEY configured; /chat will return a configuration error")
	}

	svc := chat.NewService(fileStore, model)

	handlers := api.NewHandlers(&api.Dependencies{
		Chat:    svc,
		Version: Version,
		DevMode: cfg.Advanced.DevelopmentMode,
	})

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = api.NewErrorHandler(cfg.Advanced.DevelopmentMode)

	// Configure middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			if !cfg.Advanced.EnableRequestLogging {
				return true
			}
			return c.Request().URL.Path == "/health"
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
	}))

	// Body limit middleware
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// CORS configuration for the add-in client
	if cfg.Server.EnableCORS {
		origins := strings.Split(cfg.Server.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	api.RegisterRoutes(e, handlers)

	// Configure server with settings from config
	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	modelName := cfg.Model.Name
	if !cfg.IsConfigured() {
		modelName = "(unconfigured)"
	}

	fmt.Printf("\n")
	fmt.Printf("DocAssist Server %s (built %s)\n", Version, BuildTime)
	fmt.Printf("  Config:  %s\n", configPath)
	fmt.Printf("  Listen:  http://%s\n", cfg.GetServerAddr())
	fmt.Printf("  Uploads: %s\n", cfg.GetUploadDir())
	fmt.Printf("  Model:   %s\n", modelName)
	fmt.Printf("\n")

	e.Logger.Fatal(e.StartServer(s))
}
