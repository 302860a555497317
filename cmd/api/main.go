package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/chaali03/KomplekKita-sub001/docs" // Swagger docs
	"github.com/chaali03/KomplekKita-sub001/internal/config"
	"github.com/chaali03/KomplekKita-sub001/internal/database"
	"github.com/chaali03/KomplekKita-sub001/internal/handlers"
	"github.com/chaali03/KomplekKita-sub001/internal/jobs"
	"github.com/chaali03/KomplekKita-sub001/internal/middleware"
	"github.com/chaali03/KomplekKita-sub001/internal/repository"
	"github.com/chaali03/KomplekKita-sub001/internal/services"
	"github.com/chaali03/KomplekKita-sub001/internal/storage"
	"github.com/chaali03/KomplekKita-sub001/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title KomplekKita API
// @version 1.0
// @description REST API for managing residential complex dues, payments and finances

// @contact.name API Support

// @license.name MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	// Run schema migrations
	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize storage
	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized local storage")

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, worker, cfg, db)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs, cfg)

	// Initialize handlers
	h := handlers.NewHandlers(svcs, store, worker)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Redirect root to swagger
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				admin.POST("/auth/register", h.Auth.Register)
				admin.PUT("/komplek", h.Komplek.Update)
				admin.DELETE("/warga/:warga_id", h.Warga.Delete)
				admin.DELETE("/iuran/:iuran_id", h.Iuran.Delete)
				admin.DELETE("/transaksi/:transaksi_id", h.Transaksi.Delete)
				admin.GET("/audit", h.Audit.Index)
				admin.GET("/jobs/stats", h.Job.Stats)
			}

			// Bendahara + Admin routes (money changes hands here)
			bendahara := protected.Group("")
			bendahara.Use(middleware.RequireBendahara())
			{
				bendahara.POST("/tagihan/generate", h.Tagihan.Generate)
				bendahara.POST("/tagihan/mark", h.Tagihan.Mark)
				bendahara.POST("/tagihan/bayar", h.Tagihan.Bayar)
				bendahara.POST("/tagihan/:tagihan_id/batal", h.Tagihan.Batal)
				bendahara.POST("/tagihan/:tagihan_id/bukti", h.Tagihan.UploadBukti)

				bendahara.POST("/transaksi", h.Transaksi.Create)
				bendahara.PUT("/transaksi/:transaksi_id", h.Transaksi.Update)

				bendahara.POST("/iuran", h.Iuran.Create)
				bendahara.PUT("/iuran/:iuran_id", h.Iuran.Update)
				bendahara.POST("/iuran/:iuran_id/nonaktif", h.Iuran.Nonaktifkan)

				bendahara.POST("/anggaran", h.Anggaran.Create)
				bendahara.PUT("/anggaran/:anggaran_id", h.Anggaran.Update)
				bendahara.DELETE("/anggaran/:anggaran_id", h.Anggaran.Delete)
			}

			// Komplek profile
			protected.GET("/komplek", h.Komplek.Show)
			protected.GET("/komplek/statistik", h.Komplek.Statistik)

			// Account
			protected.PUT("/auth/password", h.Auth.ChangePassword)

			// Warga
			protected.GET("/warga", h.Warga.Index)
			protected.GET("/warga/export", h.Warga.Export)
			protected.POST("/warga/import", h.Warga.Import)
			protected.GET("/warga/:warga_id", h.Warga.Show)
			protected.POST("/warga", h.Warga.Create)
			protected.PUT("/warga/:warga_id", h.Warga.Update)
			protected.POST("/warga/:warga_id/nonaktif", h.Warga.Nonaktifkan)
			protected.POST("/warga/:warga_id/aktif", h.Warga.Aktifkan)

			// Iuran catalog
			protected.GET("/iuran", h.Iuran.Index)
			protected.GET("/iuran/:iuran_id", h.Iuran.Show)

			// Tagihan
			protected.GET("/tagihan", h.Tagihan.Index)
			protected.GET("/tagihan/:tagihan_id", h.Tagihan.Show)
			protected.GET("/tagihan/:tagihan_id/bukti", h.Tagihan.DownloadBukti)

			// Cash book
			protected.GET("/transaksi", h.Transaksi.Index)
			protected.GET("/transaksi/:transaksi_id", h.Transaksi.Show)

			// Budget
			protected.GET("/anggaran", h.Anggaran.Index)
			protected.GET("/anggaran/realisasi", h.Anggaran.Realisasi)

			// Announcements
			protected.GET("/pengumuman", h.Pengumuman.Index)
			protected.GET("/pengumuman/:pengumuman_id", h.Pengumuman.Show)
			protected.POST("/pengumuman", h.Pengumuman.Create)
			protected.PUT("/pengumuman/:pengumuman_id", h.Pengumuman.Update)
			protected.DELETE("/pengumuman/:pengumuman_id", h.Pengumuman.Delete)

			// Community programs
			protected.GET("/program", h.Program.Index)
			protected.GET("/program/:program_id", h.Program.Show)
			protected.POST("/program", h.Program.Create)
			protected.PUT("/program/:program_id", h.Program.Update)
			protected.POST("/program/:program_id/selesai", h.Program.Selesaikan)
			protected.DELETE("/program/:program_id", h.Program.Delete)

			// Reports
			laporan := protected.Group("/laporan")
			{
				laporan.GET("/status", h.Laporan.Status)
				laporan.GET("/summary", h.Laporan.Summary)
				laporan.GET("/rekap", h.Laporan.Rekap)
				laporan.GET("/metode", h.Laporan.PerMetode)
				laporan.GET("/saldo", h.Laporan.Saldo)
				laporan.GET("/export", h.Laporan.Export)
			}

			// Notifications
			// Static route first so "baca-semua" is not matched as :notifikasi_id
			notifikasi := protected.Group("/notifikasi")
			{
				notifikasi.GET("", h.Notifikasi.Index)
				notifikasi.POST("/baca-semua", h.Notifikasi.MarkAllAsRead)
				notifikasi.POST("/:notifikasi_id/baca", h.Notifikasi.MarkAsRead)
			}
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services, cfg *config.Config) {
	// Recompute late fees on open tagihan once a day
	worker.ScheduleEveryImmediate(cfg.DendaRefreshInterval, func(ctx context.Context) error {
		logger.Info("[Job] Refreshing late fees...")
		return svcs.Tagihan.RefreshDenda(ctx)
	})

	// Generate the monthly billing run. The generator is idempotent, so
	// checking daily only does work on the first run of a new period.
	worker.ScheduleEvery(cfg.GenerateInterval, func(ctx context.Context) error {
		logger.Info("[Job] Running automatic billing...")
		return svcs.Tagihan.GenerateOtomatis(ctx)
	})

	// Purge expired refresh tokens
	worker.ScheduleEvery(cfg.TokenCleanupInterval, func(ctx context.Context) error {
		logger.Info("[Job] Cleaning up expired refresh tokens...")
		return svcs.Auth.CleanupExpiredTokens(ctx)
	})

	logger.Info("Scheduled recurring jobs")
}
