package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"rentalguru/config"
	"rentalguru/internal/adapters/auth"
	"rentalguru/internal/adapters/email"
	"rentalguru/internal/adapters/storage"
	delivery "rentalguru/internal/delivery/http"
	"rentalguru/internal/delivery/http/controllers"
	"rentalguru/internal/delivery/http/middleware"
	"rentalguru/internal/repository/postgres"
	"rentalguru/internal/services"
)

// @title Rental Guru API
// @version 1.0
// @description Multi-tenant property-rental management backend: invitations, leases, properties.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := config.NewLogger(cfg)

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to reach database", "err", err)
		os.Exit(1)
	}
	if err := postgres.ApplyMigrations(db); err != nil {
		logger.Error("failed to apply migrations", "err", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	vendorRepo := postgres.NewVendorInvitationRepository(db)
	tenantRepo := postgres.NewTenantInvitationRepository(db)
	agreementRepo := postgres.NewAgreementRepository(db)
	leaseRepo := postgres.NewLeaseRepository(db)
	propertyRepo := postgres.NewPropertyRepository(db)
	unitRepo := postgres.NewUnitRepository(db)
	resolver := postgres.NewAssignmentResolver(db)

	// Adapters
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFrom,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.SES.Region,
			AccessKeyID:        cfg.SES.AccessKeyID,
			SecretAccessKey:    cfg.SES.SecretAccessKey,
			InsecureSkipVerify: cfg.SES.InsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}
	renderer := email.NewTemplateRenderer()
	fileStore := storage.NewS3Store(storage.S3Config{
		Region:          cfg.S3.Region,
		Bucket:          cfg.S3.Bucket,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
		Endpoint:        cfg.S3.Endpoint,
		PresignTTL:      cfg.S3.PresignTTL,
		UsePathStyle:    cfg.S3.UsePathStyle,
	})
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	tokens := auth.NewJWTIssuer(cfg.JWTSecret)

	// Services
	emailService := services.NewEmailService(mailer, renderer, logger)
	vendorService := services.NewVendorInvitationService(vendorRepo, userRepo, roleRepo, emailService, cfg.FrontendDomain)
	tenantService := services.NewTenantInvitationService(tenantRepo, agreementRepo, leaseRepo, resolver, userRepo, roleRepo, fileStore, emailService, logger, cfg.FrontendDomain)
	invitationService := services.NewInvitationService(vendorRepo, tenantRepo, resolver, userRepo, emailService, cfg.FrontendDomain)
	leaseService := services.NewLeaseService(tenantRepo, leaseRepo, fileStore)
	userService := services.NewUserService(userRepo, roleRepo, vendorRepo, tenantRepo, resolver, hasher, tokens, cfg.TokenExpiry, emailService, logger)
	propertyService := services.NewPropertyService(propertyRepo, unitRepo)

	// HTTP
	router := delivery.NewRouter(delivery.Controllers{
		Auth:             controllers.NewAuthController(logger, userService),
		VendorInvitation: controllers.NewVendorInvitationController(logger, vendorService),
		TenantInvitation: controllers.NewTenantInvitationController(logger, tenantService),
		Invitation:       controllers.NewInvitationController(logger, invitationService),
		Lease:            controllers.NewLeaseController(logger, leaseService),
		Property:         controllers.NewPropertyController(logger, propertyService),
		Catalog:          controllers.NewCatalogController(),
	}, tokens, logger)

	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.CORSOrigins, router))
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
	logger.Info("server stopped")
}
