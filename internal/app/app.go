package app

import (
	"fmt"
	"time"

	"clubreg_backend/database"
	"clubreg_backend/internal/config"
	"clubreg_backend/internal/email"
	"clubreg_backend/internal/gateway"
	"clubreg_backend/internal/geo"
	"clubreg_backend/internal/handlers"
	"clubreg_backend/internal/logger"
	"clubreg_backend/internal/middleware"
	"clubreg_backend/internal/models"
	"clubreg_backend/internal/repositories"
	"clubreg_backend/internal/routes"
	"clubreg_backend/internal/services"
	"clubreg_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	if err := cfg.ValidatePrices(); err != nil {
		logger.Fatal("Invalid price configuration", "error", err)
	}

	logger.Info("Connecting to database...")
	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	paymentGateway := gateway.NewStripeGateway(
		cfg.Stripe.SecretKey,
		cfg.Stripe.WebhookSecret,
		cfg.Stripe.Currency,
	)

	serviceContainer := initializeServices(cfg, gormDB, paymentGateway)
	appHandlers := initializeHandlers(serviceContainer, paymentGateway)

	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB, paymentGateway gateway.PaymentGateway) *services.ServiceContainer {
	emailProvider := email.NewSMTPProvider(&email.SMTPConfig{
		Host:            cfg.Email.SMTPHost,
		Port:            cfg.Email.SMTPPort,
		Username:        cfg.Email.SMTPUsername,
		Password:        cfg.Email.SMTPPassword,
		FromEmail:       cfg.Email.FromEmail,
		FromName:        cfg.Email.FromName,
		SandboxRedirect: cfg.Email.SandboxRedirect,
	}, email.NewTemplateManager())

	geoVerifier := geo.NewAllowlistVerifier(cfg.Geo.AllowedZipPrefixes)

	// Repositories
	tokenRepo := repositories.NewTokenRepository(gormDB)
	regRepo := repositories.NewRegistrationRepository(gormDB)
	parentRepo := repositories.NewParentRepository(gormDB)
	playerRepo := repositories.NewPlayerRepository(gormDB)
	paymentRepo := repositories.NewPaymentRepository(gormDB)

	// Services
	regCfg := services.RegistrationConfig{
		BaseURL:        cfg.Registration.BaseURL,
		AdminEmail:     cfg.Registration.AdminEmail,
		InviteTokenTTL: time.Duration(cfg.Registration.InviteTokenTTLHours) * time.Hour,
		AccessTokenTTL: time.Duration(cfg.Registration.AccessTokenTTLHours) * time.Hour,
		ResetTokenTTL:  time.Duration(cfg.Registration.ResetTokenTTLMins) * time.Minute,
	}
	checkoutCfg := services.CheckoutConfig{
		Prices: map[models.PaymentType]float64{
			models.PaymentTypeAnnual:    cfg.Prices.Annual,
			models.PaymentTypeMonthly:   cfg.Prices.Monthly,
			models.PaymentTypeQuarterly: cfg.Prices.Quarterly,
		},
		SuccessURL: cfg.Stripe.SuccessURL,
		CancelURL:  cfg.Stripe.CancelURL,
	}

	tokenService := services.NewTokenService(tokenRepo)
	registrationService := services.NewRegistrationService(regRepo, tokenService, geoVerifier, emailProvider, regCfg)
	accountService := services.NewAccountService(regRepo, parentRepo, playerRepo, tokenService, emailProvider, regCfg)
	checkoutService := services.NewCheckoutService(playerRepo, parentRepo, paymentRepo, tokenService, paymentGateway, checkoutCfg)
	paymentService := services.NewPaymentService(paymentRepo, playerRepo, parentRepo, paymentGateway, emailProvider)

	return &services.ServiceContainer{
		TokenService:        tokenService,
		RegistrationService: registrationService,
		AccountService:      accountService,
		CheckoutService:     checkoutService,
		PaymentService:      paymentService,
		EmailService:        emailProvider,
	}
}

func initializeHandlers(container *services.ServiceContainer, paymentGateway gateway.PaymentGateway) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		RegistrationHandler: handlers.NewRegistrationHandler(baseHandler, container.RegistrationService, container.AccountService),
		CheckoutHandler:     handlers.NewCheckoutHandler(baseHandler, container.CheckoutService, container.PaymentService),
		WebhookHandler:      handlers.NewWebhookHandler(baseHandler, paymentGateway, container.PaymentService),
	}
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())

	return router
}
