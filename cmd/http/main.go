package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dococlock-service/internal/app/config"
	"dococlock-service/internal/app/contracts"
	"dococlock-service/internal/app/delivery/http/controllers"
	"dococlock-service/internal/app/delivery/http/middlewares"
	"dococlock-service/internal/app/delivery/http/routers"
	"dococlock-service/internal/app/drivers/database"
	"dococlock-service/internal/app/drivers/logger"
	"dococlock-service/internal/app/drivers/messaging"
	storageDriver "dococlock-service/internal/app/drivers/storage"
	"dococlock-service/internal/app/models"
	"dococlock-service/internal/app/services/core/auth"
	"dococlock-service/internal/app/services/core/offlinesync"
	"dococlock-service/internal/app/services/core/payments"
	"dococlock-service/internal/app/services/core/registration"
	"dococlock-service/internal/app/services/core/roles"
	"dococlock-service/internal/app/services/core/sweeper"
	"dococlock-service/internal/app/services/core/twofactor"
	"dococlock-service/internal/app/services/shared/locker"
	"dococlock-service/internal/app/services/shared/messagequeue"
	"dococlock-service/internal/app/services/shared/network"
	"dococlock-service/internal/app/services/shared/offlinequeue"
	"dococlock-service/internal/app/services/shared/payment_gateway"
	"dococlock-service/internal/app/services/shared/ratelimiter"
	"dococlock-service/internal/app/services/shared/redis"
	"dococlock-service/internal/app/services/shared/storage"
	"dococlock-service/internal/app/services/shared/wallet"
	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env is optional outside local development
	_ = godotenv.Load()

	driverConfig := config.NewDriverConfig()
	internalConfig, err := config.NewInternalConfig()
	if err != nil {
		log.Fatalf("Error loading internal config: %v", err)
	}

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)

	mongoDB := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitMQ := messaging.NewRabbitMQ(driverConfig)
	minioClient := storageDriver.NewMinio(driverConfig, internalConfig.Minio.ReceiptBucketName)
	chiRouter := chi.NewRouter()

	bootstrap := &config.Bootstrap{
		Router:         chiRouter,
		MongoDB:        mongoDB,
		Redis:          redisClient,
		Logger:         zapLogger,
		RabbitMQ:       rabbitMQ,
		Minio:          minioClient,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}

	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	err = bootstrapingTheApp(appCtx, bootstrap)
	if err != nil {
		zapLogger.Fatal("Failed to bootstrap the app", zap.Error(err))
	}

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", internalConfig.App.Address, internalConfig.App.Port),
		Handler: chiRouter,
	}

	go func() {
		zapLogger.Info("Server started", zap.String("addr", server.Addr))
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	zapLogger.Info("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	cancelApp()

	err = bootstrap.Shutdown(shutdownCtx)
	if err != nil {
		log.Printf("Error during bootstrap shutdown: %v", err)
	}

	log.Println("Server exiting")
}

func bootstrapingTheApp(ctx context.Context, bootstrap *config.Bootstrap) error {
	cfg := bootstrap.InternalConfig
	log := bootstrap.Logger
	dbName := cfg.MongoDB.DBName

	// Shared infrastructure
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	lockerService := locker.NewLockService(redisRepository, log)

	messageQueue, err := messagequeue.NewService(bootstrap.RabbitMQ, log, cfg.RabbitMQ.OfflineActionDLQ, cfg.RabbitMQ.WalletCreditQueue)
	if err != nil {
		return err
	}

	walletService := wallet.NewWalletService(messageQueue, redisRepository, cfg.RabbitMQ.WalletCreditQueue, log)
	receiptStorage := storage.NewReceiptStorage(
		bootstrap.Minio,
		cfg.Minio.ReceiptBucketName,
		time.Duration(cfg.Minio.PreSignedUrlObjectExpiryTimeInHours)*time.Hour,
		log,
	)

	// Payments
	gatewayOptions := payment_gateway.Options{
		Timeout:            time.Duration(cfg.PaymentGateway.RequestTimeoutInSeconds) * time.Second,
		RateLimitPerSecond: cfg.PaymentGateway.RateLimitPerSecond,
		RateLimitBurst:     cfg.PaymentGateway.RateLimitBurst,
	}
	gateways := []contracts.PaymentGateway{
		payment_gateway.NewCardGateway(cfg.PaymentGateway.Card, gatewayOptions, log),
		payment_gateway.NewPayPalGateway(cfg.PaymentGateway.PayPal, gatewayOptions, log),
		payment_gateway.NewMobileMoneyGateway(cfg.PaymentGateway.MobileMoney, gatewayOptions, log),
	}

	paymentRepository := payments.NewPaymentMongoRepository(bootstrap.MongoDB, dbName)
	paymentLedger := payments.NewPaymentLedger(paymentRepository, log, payments.NewReceiptHook(receiptStorage, log))
	paymentUsecase := payments.NewPaymentUsecase(paymentLedger, gateways, lockerService, walletService, receiptStorage, cfg, log)

	// Offline queue and sync
	offlineQueue := offlinequeue.NewOfflineQueue(offlinequeue.NewRedisOfflineStore(redisRepository), log)
	err = offlineQueue.Load(ctx)
	if err != nil {
		return err
	}

	syncCoordinator := offlinesync.NewSyncCoordinator(
		offlineQueue,
		messageQueue,
		time.Duration(cfg.OfflineSync.HandlerTimeoutInSeconds)*time.Second,
		log,
	)
	offlinesync.NewMongoActionHandlers(bootstrap.MongoDB, dbName, log).RegisterAll(syncCoordinator)
	offlineUsecase := offlinesync.NewOfflineUsecase(offlineQueue, syncCoordinator, log)

	// Network
	networkMonitor := network.NewNetworkMonitor(log)
	networkMonitor.Subscribe(syncCoordinator.HandleNetworkEvent)
	networkMonitor.OnReconnect(func(ctx context.Context) {
		republished, err := walletService.RetryFailed(ctx)
		if err != nil {
			log.Error("Wallet credit replay after reconnect failed",
				zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
				zap.Error(err),
			)
			return
		}
		if republished > 0 {
			log.Info("Wallet credits replayed after reconnect", zap.Int("count", republished))
		}
	})
	networkUsecase := offlinesync.NewNetworkUsecase(networkMonitor)

	if cfg.Network.ProbeUrl != "" {
		prober := network.NewProber(networkMonitor, cfg.Network, log)
		bootstrap.ProberStop = prober.Start(ctx)
	} else {
		// without a prober the monitor only learns from client samples; assume online until told otherwise
		networkMonitor.Observe(ctx, models.NetworkSample{IsOnline: true, EffectiveType: models.EffectiveTypeUnknown})
	}

	sweepWorker := sweeper.NewWorker(log, cfg, lockerService, walletService, paymentUsecase, syncCoordinator, networkMonitor, offlineQueue)
	sweepWorker.Start(ctx)
	bootstrap.SweeperStop = sweepWorker.Stop

	bootstrap.SyncWait = func() {
		syncCoordinator.Wait()
		if err := messageQueue.Close(); err != nil {
			log.Error("Failed to close message queue channel", zap.Error(err))
		}
	}

	// Auth, two-factor and registration
	userRepository := auth.NewUserMongoRepository(bootstrap.MongoDB, dbName)
	userRoleRepository := auth.NewUserRoleMongoRepository(bootstrap.MongoDB, dbName)
	twoFactorUsecase := twofactor.NewTwoFactorUsecase(
		twofactor.NewTwoFactorMongoRepository(bootstrap.MongoDB, dbName),
		ratelimiter.NewAttemptLimiter(
			redisRepository,
			log,
			time.Duration(cfg.TwoFactor.AttemptWindowInSeconds)*time.Second,
			cfg.TwoFactor.MaxAttempts,
		),
		cfg,
		log,
	)
	authUsecase := auth.NewAuthUsecase(userRepository, userRoleRepository, twoFactorUsecase, cfg, log)
	registrationUsecase := registration.NewRegistrationUsecase(
		authUsecase,
		registration.NewProviderProfileMongoRepository(bootstrap.MongoDB, dbName),
		userRoleRepository,
		registration.NewInstitutionApplicationMongoRepository(bootstrap.MongoDB, dbName),
		log,
	)

	// Delivery
	enforcer, err := roles.NewEnforcer()
	if err != nil {
		return fmt.Errorf("failed to build rbac enforcer: %w", err)
	}
	middlewareInstance := middlewares.NewMiddlewares(log, cfg, enforcer)
	routers.SetupRoutes(bootstrap.Router, cfg, middlewareInstance, routers.Controllers{
		Payment:   controllers.NewPaymentController(log, paymentUsecase),
		Offline:   controllers.NewOfflineController(log, offlineUsecase),
		Network:   controllers.NewNetworkController(log, networkUsecase),
		TwoFactor: controllers.NewTwoFactorController(log, twoFactorUsecase),
		Auth:      controllers.NewAuthController(log, authUsecase, registrationUsecase),
	})

	return nil
}
