package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"amc-backend/internal/auth"
	"amc-backend/internal/cache"
	"amc-backend/internal/config"
	"amc-backend/internal/database"
	"amc-backend/internal/handlers"
	"amc-backend/internal/health"
	h "amc-backend/internal/http"
	"amc-backend/internal/middleware"
	"amc-backend/internal/navigation"
	"amc-backend/internal/notify"
	"amc-backend/internal/seed"
	"amc-backend/internal/services"
	"amc-backend/internal/upload"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newUploader(ctx context.Context, cfg *config.Config) (upload.Uploader, error) {
	switch cfg.Upload.Backend {
	case "simulated", "":
		log.Printf("[Upload] Using simulated uploader (%s delay)", cfg.Upload.Delay)
		return upload.SimulatedUploader{Delay: cfg.Upload.Delay}, nil
	case "s3":
		s3cfg := cfg.Upload.S3
		u, err := upload.NewS3Uploader(ctx, upload.S3Options{
			Endpoint:  s3cfg.Endpoint,
			Region:    s3cfg.Region,
			Bucket:    s3cfg.Bucket,
			AccessKey: s3cfg.AccessKey,
			SecretKey: s3cfg.SecretKey,
			Prefix:    s3cfg.Prefix,
		})
		if err != nil {
			return nil, err
		}
		log.Printf("[Upload] Storing service sheets in bucket %s", s3cfg.Bucket)
		return u, nil
	default:
		return nil, fmt.Errorf("unknown upload backend %q", cfg.Upload.Backend)
	}
}

func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "configs/config.yaml", "Path to the YAML config file")
	port := flag.Int("port", 0, "Server port (overrides config)")
	storage := flag.String("storage", "", "Storage driver: memory or postgres (overrides config)")
	seedData := flag.Bool("seed", false, "Load the sample AMC portfolio into an empty store")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	cfg.ConfigureLogging()
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *storage != "" {
		cfg.Storage.Driver = *storage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := database.Open(ctx, cfg, true)
	if err != nil {
		log.Fatalf("storage error: %v", err)
	}
	defer stores.Close()

	if *seedData || cfg.Storage.Seed {
		if _, err := seed.Load(ctx, stores.Customers, stores.Branches, stores.Breakdowns, seed.Options{
			Logo:     cfg.AMC.DefaultLogo,
			Password: cfg.AMC.DefaultPassword,
		}); err != nil {
			log.Fatalf("seed error: %v", err)
		}
	}

	// Redis is optional: every cache helper is a no-op without it.
	if cfg.Redis.Addr != "" {
		if err := cache.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
			log.Printf("[Redis] Unavailable at %s, running without cache: %v", cfg.Redis.Addr, err)
		} else {
			log.Printf("[Redis] Connected to %s", cfg.Redis.Addr)
			defer cache.Close()
		}
	}

	uploader, err := newUploader(ctx, cfg)
	if err != nil {
		log.Fatalf("upload error: %v", err)
	}

	// Notices: log, recent-feed and WebSocket sinks behind one async dispatcher.
	feed := notify.NewFeed(cfg.Notify.FeedSize)
	hub := notify.NewHub()
	dispatcher := notify.NewDispatcher(notify.Fanout{notify.LogSink{}, feed, hub}, cfg.Notify.Buffer)
	defer hub.Close()
	defer dispatcher.Close()

	policy, err := services.NewConfirmationPolicy(cfg.AMC.Confirmation, cfg.AMC.DefaultPassword)
	if err != nil {
		log.Fatalf("confirmation policy error: %v", err)
	}

	// Initialize services
	customerService := services.NewCustomerService(stores.Customers, policy, dispatcher, services.CustomerOptions{
		DefaultLogo:     cfg.AMC.DefaultLogo,
		DefaultPassword: cfg.AMC.DefaultPassword,
	})
	branchService := services.NewBranchService(stores.Customers, stores.Branches, policy, dispatcher, cfg.AMC.ConfirmBranchDelete)
	quarterService := services.NewQuarterService(stores.Customers, stores.Branches, stores.Breakdowns, uploader, dispatcher,
		services.QuarterOptions{UploadTimeout: cfg.Upload.Timeout})
	reportService := services.NewReportService(stores.Customers, stores.Breakdowns, nil)
	navigator := navigation.NewNavigator(stores.Customers, stores.Breakdowns, dispatcher)

	collector := services.NewPortfolioCollector(stores.Customers, 30*time.Second)
	collector.Start()
	defer collector.Stop()

	admins := auth.NewAdminDirectory(cfg.Admins)
	if admins.Len() == 0 {
		log.Printf("[Auth] No admin accounts configured; every /api route will refuse access")
	}
	jwtManager := auth.NewJWTManager(cfg)
	healthHandler := handlers.NewHealthHandler(health.NewHealthChecker(stores.Pinger, stores.Driver))

	router := h.NewRouter(
		handlers.NewAuthHandler(admins, jwtManager),
		handlers.NewCustomerHandler(customerService),
		handlers.NewBranchHandler(branchService),
		handlers.NewQuarterHandler(quarterService),
		handlers.NewNavigationHandler(navigator, navigation.NewSessions()),
		handlers.NewNoticeHandler(feed, hub),
		handlers.NewReportHandler(reportService),
		healthHandler,
		middleware.NewAuthMiddleware(jwtManager, admins),
	)

	apiServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           h.Wrap(router, middleware.NewCORS(cfg)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Server running on %s (storage: %s)", apiServer.Addr, stores.Driver)
		return serve(gctx, apiServer)
	})
	if cfg.Server.MetricsPort > 0 && cfg.Server.MetricsPort != cfg.Server.Port {
		metricsServer := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.MetricsPort),
			Handler:           h.NewMetricsRouter(healthHandler),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			log.Printf("Metrics server running on %s", metricsServer.Addr)
			return serve(gctx, metricsServer)
		})
	}

	if err := g.Wait(); err != nil {
		log.Errorf("Server stopped: %v", err)
		return
	}
	log.Printf("Server stopped")
}
