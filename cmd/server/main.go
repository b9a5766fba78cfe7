package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	appidentity "github.com/messhall/backend/internal/application/identity"
	appmess "github.com/messhall/backend/internal/application/mess"
	"github.com/messhall/backend/internal/domain/mess"
	"github.com/messhall/backend/internal/infrastructure/auth"
	"github.com/messhall/backend/internal/infrastructure/cache"
	"github.com/messhall/backend/internal/infrastructure/config"
	"github.com/messhall/backend/internal/infrastructure/event"
	"github.com/messhall/backend/internal/infrastructure/logger"
	"github.com/messhall/backend/internal/infrastructure/persistence"
	"github.com/messhall/backend/internal/infrastructure/printing"
	"github.com/messhall/backend/internal/infrastructure/scheduler"
	"github.com/messhall/backend/internal/infrastructure/storage"
	"github.com/messhall/backend/internal/infrastructure/telemetry"
	"github.com/messhall/backend/internal/interfaces/http/handler"
	"github.com/messhall/backend/internal/interfaces/http/middleware"
	"github.com/messhall/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Mess Hall Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Initialize OpenTelemetry providers (no-ops when disabled)
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()

	// Ship application logs to the collector alongside stdout
	if loggerProvider.IsEnabled() {
		otelCore := telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			LoggerProvider: loggerProvider,
			Level:          zapcore.InfoLevel,
		})
		log = telemetry.NewBridgedLogger(log.Core(), otelCore)
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Telemetry.ProfilingEnabled,
		ServerAddress:     cfg.Telemetry.PyroscopeEndpoint,
		ApplicationName:   cfg.Telemetry.ServiceName,
		ProfileCPU:        true,
		ProfileInuseSpace: true,
		ProfileGoroutines: true,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()
	if profiler.IsEnabled() && tracerProvider.IsEnabled() {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to enable span profiles", zap.Error(err))
		}
	}

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Attach query tracing to GORM
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	studentRepo := persistence.NewGormStudentRepository(db.DB)
	menuRepo := persistence.NewGormMenuRepository(db.DB)
	attendanceRepo := persistence.NewGormAttendanceRepository(db.DB)
	allergyRepo := persistence.NewGormAllergyReportRepository(db.DB)

	// Seed the default staff accounts (no-op when disabled or present)
	if err := persistence.SeedStaffAccounts(ctx, userRepo, cfg.Seed, log); err != nil {
		log.Fatal("Failed to seed staff accounts", zap.Error(err))
	}

	// Token blacklist: Redis-backed when available so logout revocation
	// is shared across instances, in-memory otherwise
	var blacklist auth.TokenBlacklist
	if cfg.Redis.Enabled {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn("Redis unavailable for token blacklist, falling back to in-memory", zap.Error(err))
			blacklist = auth.NewInMemoryTokenBlacklist()
		} else {
			defer func() {
				if err := redisBlacklist.Close(); err != nil {
					log.Error("Error closing token blacklist", zap.Error(err))
				}
			}()
			blacklist = redisBlacklist
		}
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewLoggingEventHandler(log))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Business metrics: counters from domain events, headcount gauges
	// from a periodic collector
	var messMetrics *telemetry.MessMetrics
	if meterProvider.IsEnabled() {
		mm, err := telemetry.NewMessMetrics(telemetry.MessMetricsConfig{
			Meter:  meterProvider.Meter("messhall"),
			Logger: log,
			HeadcountProvider: &repoHeadcountProvider{
				attendanceRepo: attendanceRepo,
				studentRepo:    studentRepo,
			},
		})
		if err != nil {
			log.Warn("Failed to initialize business metrics", zap.Error(err))
		} else {
			messMetrics = mm
			eventBus.Subscribe(event.NewMetricsEventHandler(messMetrics))
			messMetrics.StartPeriodicCollection(ctx, 5*time.Minute)
			defer messMetrics.Stop()
		}
	}

	// Today's-menu cache
	var menuCache mess.MenuCache
	if cfg.Cache.MenuEnabled {
		factory := cache.NewMenuCacheFactory(cfg.Redis, cache.WithLogger(log))
		menuCache, err = factory.CreateCache()
		if err != nil {
			log.Warn("Menu cache unavailable, serving menus without cache", zap.Error(err))
		} else if messMetrics != nil {
			menuCache = cache.NewInstrumentedMenuCache(menuCache, messMetrics)
		}
	}

	// Initialize application services
	authService := appidentity.NewAuthService(userRepo, studentRepo, jwtService, blacklist, log)
	studentService := appmess.NewStudentService(studentRepo, eventBus, log)
	menuService := appmess.NewMenuService(menuRepo, studentRepo, menuCache, eventBus, log)
	attendanceService := appmess.NewAttendanceService(attendanceRepo, studentRepo, eventBus, log)
	reportService := appmess.NewReportService(studentRepo, menuRepo, attendanceRepo, allergyRepo, eventBus, log)

	// Nightly recount of the denormalized days-present counters
	var recountScheduler *scheduler.RecountScheduler
	if cfg.Scheduler.RecountEnabled {
		recountScheduler = scheduler.NewRecountScheduler(scheduler.RecountSchedulerConfig{
			Enabled:    true,
			Interval:   cfg.Scheduler.RecountInterval,
			JobTimeout: cfg.Scheduler.JobTimeout,
		}, attendanceService, log)
		if err := recountScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start recount scheduler", zap.Error(err))
		}
		defer func() {
			if err := recountScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping recount scheduler", zap.Error(err))
			}
		}()
		log.Info("Recount scheduler started",
			zap.Duration("interval", cfg.Scheduler.RecountInterval),
			zap.Duration("job_timeout", cfg.Scheduler.JobTimeout),
		)
	}

	// PDF export of the daily food-count report
	var foodCountPrinter *printing.FoodCountPrinter
	if cfg.Printing.Enabled {
		renderer, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
			DefaultTimeout: cfg.Printing.RenderTimeout,
			ExecPath:       cfg.Printing.ChromePath,
			NoSandbox:      true,
			Logger:         log,
		})
		if err != nil {
			log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
		}
		defer func() {
			if err := renderer.Close(); err != nil {
				log.Error("Error closing PDF renderer", zap.Error(err))
			}
		}()

		foodCountPrinter, err = printing.NewFoodCountPrinter(renderer, log)
		if err != nil {
			log.Fatal("Failed to initialize food-count printer", zap.Error(err))
		}
		log.Info("PDF export enabled", zap.Duration("render_timeout", cfg.Printing.RenderTimeout))
	}

	// Object storage archive for rendered reports
	var reportArchive storage.ReportArchive
	if cfg.Storage.Enabled {
		s3Archive, err := storage.NewS3ReportArchive(cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize report archive", zap.Error(err))
		}
		reportArchive = s3Archive
		log.Info("Report archive enabled",
			zap.String("bucket", cfg.Storage.Bucket),
			zap.String("key_prefix", cfg.Storage.KeyPrefix),
		)
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService, cfg.Cookie.Secure)
	studentHandler := handler.NewStudentHandler(studentService)
	menuHandler := handler.NewMenuHandler(menuService)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService)
	reportHandler := handler.NewReportHandler(reportService, foodCountPrinter, reportArchive, log)
	systemHandler := handler.NewSystemHandler(recountScheduler)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. Tracing/Metrics - OpenTelemetry instrumentation
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
		engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			ServiceName:   cfg.Telemetry.ServiceName,
			Enabled:       true,
		}))
	}

	// Health check endpoint (outside API versioning, registered before
	// the JWT middleware)
	engine.GET("/health", healthHandler(db, log))
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// JWT authentication for API routes; public endpoints are skipped
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/health",
			"/api/v1/ping",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingAttributeInjector())
	}

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Auth routes; login and refresh are public, the rest require a token
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.RefreshToken)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.GetCurrentUser)
	authRoutes.PUT("/password", authHandler.ChangePassword)

	// Student roster management is staff-only
	studentRoutes := router.NewDomainGroup("students", "/students")
	studentRoutes.Use(middleware.RequireStaff())
	studentRoutes.POST("", studentHandler.Create)
	studentRoutes.GET("", studentHandler.List)
	studentRoutes.GET("/:id", studentHandler.GetByID)
	studentRoutes.PUT("/:id", studentHandler.Update)
	studentRoutes.DELETE("/:id", studentHandler.Delete)

	// Menu: any authenticated account can browse, staff manage entries,
	// students get their personalized view of today
	menuRoutes := router.NewDomainGroup("menu", "/menu")
	menuRoutes.GET("", menuHandler.List)
	menuRoutes.GET("/today", middleware.RequireStudent(), menuHandler.Today)
	menuRoutes.GET("/:id", menuHandler.GetByID)
	menuRoutes.POST("", middleware.RequireStaff(), menuHandler.Create)
	menuRoutes.DELETE("/:id", middleware.RequireStaff(), menuHandler.Delete)

	// Attendance: staff mark batches, students mark themselves
	attendanceRoutes := router.NewDomainGroup("attendance", "/attendance")
	attendanceRoutes.GET("", middleware.RequireStaff(), attendanceHandler.Roster)
	attendanceRoutes.POST("/mark", middleware.RequireStaff(), attendanceHandler.Mark)
	attendanceRoutes.POST("/self", middleware.RequireStudent(), attendanceHandler.MarkSelf)
	attendanceRoutes.GET("/status", middleware.RequireStudent(), attendanceHandler.Status)
	attendanceRoutes.GET("/count", middleware.RequireStaff(), attendanceHandler.Count)

	// Reports: staff read, students file allergy reports
	reportRoutes := router.NewDomainGroup("reports", "/reports")
	reportRoutes.GET("/food-count", middleware.RequireStaff(), reportHandler.FoodCount)
	reportRoutes.GET("/food-count/pdf", middleware.RequireStaff(), reportHandler.ExportFoodCountPDF)
	reportRoutes.GET("/food-count/archive", middleware.RequireStaff(), reportHandler.FoodCountArchiveURL)
	reportRoutes.GET("/dashboard", middleware.RequireStaff(), reportHandler.Dashboard)
	reportRoutes.POST("/allergies", middleware.RequireStudent(), reportHandler.FileAllergyReport)
	reportRoutes.GET("/allergies", middleware.RequireStaff(), reportHandler.ListAllergyReports)

	// System routes; scheduler controls are admin-only
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/scheduler", middleware.RequireAdmin(), systemHandler.GetSchedulerStatus)
	systemRoutes.POST("/scheduler/recount", middleware.RequireAdmin(), systemHandler.TriggerRecount)

	r.Register(authRoutes).
		Register(studentRoutes).
		Register(menuRoutes).
		Register(attendanceRoutes).
		Register(reportRoutes).
		Register(systemRoutes)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// repoHeadcountProvider adapts the repositories to the telemetry
// headcount interface
type repoHeadcountProvider struct {
	attendanceRepo mess.AttendanceRepository
	studentRepo    mess.StudentRepository
}

func (p *repoHeadcountProvider) CountPresentToday(ctx context.Context) (int64, error) {
	return p.attendanceRepo.CountByDate(ctx, time.Now())
}

func (p *repoHeadcountProvider) CountStudents(ctx context.Context) (int64, error) {
	return p.studentRepo.Count(ctx)
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
