package app

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"stellarone-api/config"
	"stellarone-api/db"
	"stellarone-api/handler"
	"stellarone-api/logger"
	"stellarone-api/repository"
	"stellarone-api/router"
	"stellarone-api/service"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations("file://db/migrations"); err != nil {
		logger.Log.Fatalf("Error running migrations: %v", err)
	}

	redisClient, err := db.ConnectRedis()
	if err != nil {
		logger.Log.Fatalf("Error connecting to redis: %v", err)
	}
	defer redisClient.Close()

	r := buildRouter(database, redisClient)

	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}

// buildRouter wires all layers together: repositories over the database,
// services over the repositories, handlers over the services.
func buildRouter(database *sql.DB, redisClient *redis.Client) http.Handler {
	userRepo := repository.NewUserRepository(database)
	accountRepo := repository.NewAccountRepository(database)
	transactionRepo := repository.NewTransactionRepository(database)
	loanRepo := repository.NewLoanRepository(database)
	notificationRepo := repository.NewNotificationRepository(database)
	currencyRepo := repository.NewCurrencyRepository(database)
	statementRepo := repository.NewStatementRepository(database)
	otpRepo := repository.NewOTPRepository(redisClient, "otp")
	resetRepo := repository.NewOTPRepository(redisClient, "pwreset")

	mailer := service.NewSMTPMailer()
	authService := service.NewAuthService(userRepo, accountRepo, otpRepo, resetRepo, mailer)
	userService := service.NewUserService(userRepo)
	accountService := service.NewAccountService(accountRepo, redisClient)
	transactionService := service.NewTransactionService(database, accountRepo, transactionRepo, currencyRepo)
	loanService := service.NewLoanService(database, loanRepo, accountRepo, transactionRepo)
	notificationService := service.NewNotificationService(notificationRepo)
	currencyService := service.NewCurrencyService(currencyRepo)
	statementService := service.NewStatementService(statementRepo, transactionRepo)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, accountService, transactionService)
	transactionHandler := handler.NewTransactionHandler(transactionService, accountService)
	loanHandler := handler.NewLoanHandler(loanService, accountService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	currencyHandler := handler.NewCurrencyHandler(currencyService)
	statementHandler := handler.NewStatementHandler(statementService)

	return router.NewRouter(authHandler, userHandler, transactionHandler,
		loanHandler, notificationHandler, currencyHandler, statementHandler)
}

// TestApp exposes the wired router for integration tests against a migrated
// test database and a dedicated redis DB.
type TestApp struct {
	Router http.Handler
}

func NewTestApp(database *sql.DB, redisClient *redis.Client) *TestApp {
	return &TestApp{Router: buildRouter(database, redisClient)}
}
