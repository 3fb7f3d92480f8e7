package main

//go:generate swag init -g cmd/api/main.go -o api/swagger --parseDependency

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "dnaarchive/api/swagger" // swagger docs
	"dnaarchive/internal/access"
	"dnaarchive/internal/audit"
	"dnaarchive/internal/authenticator"
	"dnaarchive/internal/config"
	"dnaarchive/internal/database"
	"dnaarchive/internal/handler"
	"dnaarchive/internal/middleware"
	"dnaarchive/internal/obs"
	"dnaarchive/internal/repository"
	"dnaarchive/internal/service"
	"dnaarchive/internal/session"
	"dnaarchive/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           DNA Forensic Archive API
// @version         1.0
// @description     Evidence custody, report archive and audit trail API with role-based access control.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewConnection(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Live audit feed
	var notifier audit.Notifier
	var wsHub *websocket.Hub
	if cfg.AuditFeedEnabled {
		wsHub = websocket.NewHub(cfg.CORSOrigins)
		go wsHub.Run(ctx)
		notifier = wsHub
	}

	// Set up dependencies (Repository -> Service -> Handler)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	credRepo := repository.NewCredentialRepository(db)
	caseRepo := repository.NewCaseRepository(db)
	stationRepo := repository.NewStationRepository(db)
	sampleRepo := repository.NewSampleRepository(db)
	reportRepo := repository.NewReportRepository(db)
	storageRepo := repository.NewStorageRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	statsRepo := repository.NewStatisticsRepository(db)
	txManager := repository.NewTransactionManager(db)

	recorder := audit.NewRecorder(auditRepo, notifier)
	resolver := session.NewJWTResolver(cfg.JWTSecret)
	issuer := session.NewIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	directory := access.NewDirectory(userRepo)
	acc := middleware.NewAccess(resolver, directory, recorder)

	var provider authenticator.Provider
	if cfg.OIDCEnabled() {
		p, err := authenticator.NewOpenIDProvider(ctx, authenticator.OpenIDConfig{
			Name:         "oidc",
			IssuerURL:    cfg.OIDCIssuer,
			ClientID:     cfg.OIDCClientID,
			ClientSecret: cfg.OIDCClientSecret,
			CallbackURL:  cfg.OIDCCallbackURL,
		})
		if err != nil {
			log.Fatalf("OIDC provider setup failed: %v", err)
		}
		provider = p
	}

	roleService := service.NewRoleService(roleRepo)
	if err := roleService.EnsureDefaultRoles(ctx); err != nil {
		log.Fatalf("Failed to ensure roles: %v", err)
	}
	twoFactorService := service.NewTwoFactorService(credRepo)
	authService := service.NewAuthService(userRepo, roleRepo, credRepo, txManager, issuer, twoFactorService, recorder, provider)
	userService := service.NewUserService(userRepo, roleRepo)
	caseService := service.NewCaseService(caseRepo, stationRepo)
	sampleService := service.NewSampleService(sampleRepo, caseRepo, userRepo, storageRepo)
	reportService := service.NewReportService(reportRepo, caseRepo, userRepo, storageRepo)
	storageService := service.NewStorageService(storageRepo)
	movementService := service.NewMovementService(movementRepo, sampleRepo, reportRepo, txManager)
	auditService := service.NewAuditService(auditRepo)
	statisticsService := service.NewStatisticsService(statsRepo, auditRepo)

	// Initialize Handlers
	loginLimiter := middleware.NewIPRateLimiter(cfg.LoginRatePerSec, cfg.LoginBurst)
	handlers := []interface {
		RegisterRoutes(*gin.RouterGroup, *middleware.Access)
	}{
		handler.NewAuthHandler(authService, twoFactorService, loginLimiter, cfg.SecureCookies),
		handler.NewUserHandler(userService),
		handler.NewRoleHandler(roleService),
		handler.NewCaseHandler(caseService),
		handler.NewSampleHandler(sampleService),
		handler.NewReportHandler(reportService),
		handler.NewMovementHandler(movementService),
		handler.NewStorageHandler(storageService),
		handler.NewAuditHandler(auditService),
		handler.NewStatisticsHandler(statisticsService),
	}

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), middleware.RequestIDMiddleware(), obs.Instrument())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	obs.Init()
	router.GET("/metrics", gin.WrapH(obs.Handler()))

	// WebSocket endpoint; browsers cannot send headers on upgrade so ?token= is accepted here only
	if wsHub != nil {
		wsAccess := middleware.NewAccess(resolver.WithQueryToken(), directory, recorder)
		router.GET("/ws/audit", wsAccess.WithRole(access.AdminOnly...), wsHub.Handler())
	}

	// API Routing
	api := router.Group("/api")
	for _, h := range handlers {
		h.RegisterRoutes(api, acc)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
}
