package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	_ "github.com/cortexsupport/backend-api/docs"
	"github.com/cortexsupport/backend-api/internal/config"
	"github.com/cortexsupport/backend-api/internal/handlers"
	"github.com/cortexsupport/backend-api/internal/jwt"
	"github.com/cortexsupport/backend-api/internal/logger"
	"github.com/cortexsupport/backend-api/internal/metrics"
	"github.com/cortexsupport/backend-api/internal/middlewares"
	"github.com/cortexsupport/backend-api/internal/repositories"
	"github.com/cortexsupport/backend-api/internal/services"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

const projectName = "CortexSupport API Backend"

// @title CortexSupport API Backend
// @version 1.0.0
// @description User registration, authentication and profile management over MongoDB
// @host localhost:8000
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// run initializes the logger, database, services, and HTTP server. It sets up
// routes, applies middleware, and handles graceful shutdown.
func run(ctx context.Context, cfg *config.Config) error {
	// Initialize logger
	appLog, err := logger.New(cfg.Log.Level)
	if err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer appLog.Sync()
	appLog.Infof("Logger initialized with level %s", cfg.Log.Level)

	// Connect to MongoDB
	appLog.Infof("Connecting to MongoDB: %s", cfg.Mongo.URL)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URL))
	if err != nil {
		return fmt.Errorf("mongodb connection error: %w", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			appLog.Errorw("MongoDB disconnect error", "error", err)
		}
	}()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongodb ping failed: %w", err)
	}
	db := client.Database(cfg.Mongo.Database)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	// Initialize token service
	tokenService := jwt.New(cfg.Auth.SecretKey, cfg.Auth.TokenTTL)

	// Initialize services
	userService := services.NewUserService(userRepo, tokenService)

	// Setup router
	r := chi.NewRouter()
	r.Use(middlewares.Logging(appLog))
	r.Use(middlewares.Recover(appLog))
	r.Use(middlewares.Metrics)
	r.Use(middlewares.CORS(cfg.CORS.OriginList()))

	r.Get("/", handlers.NewRootHandler(projectName))
	r.Get("/healthz", handlers.NewHealthHandler(client))
	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.Server.Host, cfg.Server.Port)),
	))

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", handlers.NewRegisterHandler(userService))
		r.Post("/auth/login/access-token", handlers.NewLoginHandler(userService))

		// Protected routes behind the auth chain
		r.Route("/users", func(r chi.Router) {
			r.Use(middlewares.Auth(tokenService, userRepo))
			r.Get("/", handlers.NewListUsersHandler(userService))
			r.Get("/me", handlers.NewGetMeHandler())
			r.Put("/me", handlers.NewUpdateMeHandler(userService))
			r.Delete("/me", handlers.NewDeleteMeHandler(userService))
			r.Get("/{id}", handlers.NewGetUserHandler(userService))
		})
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		appLog.Infof("HTTP server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		appLog.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Errorw("HTTP server shutdown error", "error", err)
	}

	appLog.Info("HTTP server stopped gracefully")
	return nil
}
