package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"invoicing-crm/internal/auth"
	"invoicing-crm/internal/calendar"
	"invoicing-crm/internal/config"
	"invoicing-crm/internal/customer"
	"invoicing-crm/internal/db"
	"invoicing-crm/internal/document"
	"invoicing-crm/internal/expense"
	"invoicing-crm/internal/logger"
	"invoicing-crm/internal/mail"
	"invoicing-crm/internal/middleware"
	"invoicing-crm/internal/page"
	"invoicing-crm/internal/payments"
	"invoicing-crm/internal/pdf"
	"invoicing-crm/internal/recurring"
	"invoicing-crm/internal/user"
	"invoicing-crm/internal/worker"
	"invoicing-crm/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	stripeclient "github.com/stripe/stripe-go/v74/client"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}

	// Connect to database
	database, err := db.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer func() {
		if err := db.Close(database); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()

	// Migrate database schema
	if err := db.Migrate(database); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}
	log.Info().Msg("database schema migrated successfully")

	// Shared infrastructure
	cache := redis.NewCache(cfg.RedisAddress, logger.WithComponent("redis"))
	defer cache.Close()

	pool := worker.NewPool(4, logger.WithComponent("worker"))
	defer pool.Shutdown()

	jwt := auth.NewJWT(cfg.JWTSecret)
	mailer := mail.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	renderer := pdf.NewRenderer(logger.WithComponent("pdf"))

	stripeAPI := &stripeclient.API{}
	stripeAPI.Init(cfg.StripeSecretKey, nil)

	// Initialize repositories
	userRepo := user.NewRepository(database)
	customerRepo := customer.NewRepository(database)
	docRepo := document.NewRepository(database)
	expenseRepo := expense.NewRepository(database)
	calendarRepo := calendar.NewRepository(database)
	pageRepo := page.NewRepository(database)

	// Initialize services
	userService := user.NewService(userRepo)
	customerService := customer.NewService(customerRepo, cache)
	docService := document.NewService(
		docRepo,
		userService,
		renderer,
		mailer,
		customerService,
		pool,
		cache,
		logger.WithComponent("document"),
	)
	expenseService := expense.NewService(expenseRepo)
	runner := recurring.NewRunner(docRepo, userService, renderer, mailer, logger.WithComponent("recurring"))
	paymentsService := payments.NewService(stripeAPI, userService, cfg.StripeRefreshURL, cfg.StripeReturnURL)

	// Initialize handlers
	userHandler := user.NewHandler(userService, jwt)
	customerHandler := customer.NewHandler(customerService)
	docHandler := document.NewHandler(docService)
	expenseHandler := expense.NewHandler(expenseService)
	calendarHandler := calendar.NewHandler(calendarRepo)
	pageHandler := page.NewHandler(pageRepo)
	recurringHandler := recurring.NewHandler(runner)
	paymentsHandler := payments.NewHandler(paymentsService)

	authMiddleware := &middleware.Auth{
		UserService:    userService,
		JWT:            jwt,
		InternalSecret: cfg.InternalSecret,
	}

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	// cors setting
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
	}
	if cfg.Environment == "development" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = []string{cfg.FrontendAddress}
	}
	router.Use(cors.New(corsConfig))

	authRequired := authMiddleware.AuthMiddleWare()

	// User routes
	router.POST("/register", userHandler.Register)
	router.POST("/login", userHandler.Login)
	router.DELETE("/logout", authRequired, userHandler.Logout)
	router.GET("/profile", authRequired, userHandler.GetProfile)
	router.PUT("/profile", authRequired, userHandler.UpdateProfile)

	// Customer routes
	router.POST("/customers", authRequired, customerHandler.Create)
	router.GET("/customers", authRequired, customerHandler.List)
	router.GET("/customers/:id", authRequired, customerHandler.Show)
	router.PUT("/customers/:id", authRequired, customerHandler.Update)
	router.DELETE("/customers/:id", authRequired, customerHandler.Delete)
	router.GET("/customers/:id/activity", authRequired, customerHandler.ShowActivity)

	// Document (invoice/quote) routes
	router.POST("/documents", authRequired, docHandler.Create)
	router.GET("/documents", authRequired, docHandler.List)
	router.GET("/documents/:id", authRequired, docHandler.Show)
	router.PUT("/documents/:id", authRequired, docHandler.Update)
	router.DELETE("/documents/:id", authRequired, docHandler.Delete)
	router.POST("/documents/:id/status", authRequired, docHandler.ChangeStatus)
	router.POST("/documents/:id/archive", authRequired, docHandler.Archive)
	router.GET("/documents/:id/pdf", authRequired, docHandler.DownloadPDF)
	router.POST("/documents/:id/send", authRequired, docHandler.Send)

	// Expense routes
	router.POST("/expenses", authRequired, expenseHandler.Create)
	router.GET("/expenses", authRequired, expenseHandler.List)
	router.PUT("/expenses/:id", authRequired, expenseHandler.Update)
	router.DELETE("/expenses/:id", authRequired, expenseHandler.Delete)

	// Calendar routes
	router.POST("/events", authRequired, calendarHandler.Create)
	router.GET("/events", authRequired, calendarHandler.List)
	router.PUT("/events/:id", authRequired, calendarHandler.Update)
	router.DELETE("/events/:id", authRequired, calendarHandler.Delete)

	// Notes / productivity pages
	router.POST("/pages", authRequired, pageHandler.Create)
	router.GET("/pages", authRequired, pageHandler.List)
	router.GET("/pages/:id", authRequired, pageHandler.Show)
	router.PUT("/pages/:id", authRequired, pageHandler.Update)
	router.DELETE("/pages/:id", authRequired, pageHandler.Delete)

	// Payment account linking
	router.POST("/payments/stripe/link", authRequired, paymentsHandler.Link)
	router.GET("/payments/stripe/status", authRequired, paymentsHandler.Status)

	// internal use routes, triggered by the scheduler
	router.POST("/internal/jobs/recurring-invoices",
		authMiddleware.InternalAuthMiddleware(), recurringHandler.Run)

	// Server configuration
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: router.Handler(),
	}

	// Start server
	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("server listening")
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server shutdown complete")
}
