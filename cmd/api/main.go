// @title                       POS Backoffice API
// @version                     1.0
// @description                 Backoffice de punto de venta: catálogo, stock, ventas, compras y reportes por organización.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jhoicas/pos-backoffice/docs"
	"github.com/jhoicas/pos-backoffice/internal/application/analytics"
	"github.com/jhoicas/pos-backoffice/internal/application/auth"
	"github.com/jhoicas/pos-backoffice/internal/application/inventory"
	"github.com/jhoicas/pos-backoffice/internal/application/ports"
	"github.com/jhoicas/pos-backoffice/internal/application/transaction"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/excel"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/metrics"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/notify"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/pos-backoffice/internal/infrastructure/redis"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/pos-backoffice/internal/interfaces/http"
	"github.com/jhoicas/pos-backoffice/pkg/config"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, postgres.MigrateUp); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	// Lista negra de tokens: Redis si está configurado, si no en memoria (una sola instancia).
	var blacklist ports.TokenBlacklist
	if cfg.Redis.URL != "" {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer func() { _ = rdb.Close() }()
		blacklist = infraredis.NewTokenBlacklist(rdb)
	} else {
		log.Warn().Msg("REDIS_URL vacío: lista negra de tokens en memoria")
		blacklist = infraredis.NewMemoryTokenBlacklist()
	}

	// Fotos de perfil: S3/MinIO opcional.
	var objectStorage ports.ObjectStorage
	if cfg.Storage.Enabled() {
		s3, err := storage.NewS3Storage(ctx, cfg.Storage, log.Named("storage"))
		if err != nil {
			log.Fatal().Err(err).Msg("cliente S3")
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			log.Fatal().Err(err).Str("bucket", cfg.Storage.Bucket).Msg("bucket S3")
		}
		objectStorage = s3
	}

	m := metrics.New()

	organizationRepo := postgres.NewOrganizationRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	verificationRepo := postgres.NewVerificationRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	contactRepo := postgres.NewContactMessageRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	adjuster := inventory.NewStockAdjuster(cfg.Inventory.AllowNegativeStock, m, log.Named("inventory"))
	movementUC := inventory.NewMovementUseCase(txRunner, adjuster, productRepo, movementRepo)
	recorder := transaction.NewRecorder(txRunner, adjuster, productRepo, customerRepo, supplierRepo, m, log.Named("transaction"))

	authUC := auth.NewAuthUseCase(auth.Deps{
		Users:         userRepo,
		Organizations: organizationRepo,
		Verifications: verificationRepo,
		TxRunner:      txRunner,
		Blacklist:     blacklist,
		OTPSender:     notify.NewLogOTPSender(log.Named("otp")),
		Storage:       objectStorage,
		Metrics:       m,
		Log:           log.Named("auth"),
	}, auth.Config{
		Secret:            cfg.JWT.Secret,
		Issuer:            cfg.JWT.Issuer,
		ExpMinutes:        cfg.JWT.Expiration,
		RefreshExpMinutes: cfg.JWT.RefreshExpiration,
		OTPTTL:            cfg.Auth.OTPTTL,
		ResetTokenTTL:     cfg.Auth.ResetTokenTTL,
	})

	app := httpRouter.NewServer(httpRouter.ServerOptions{
		AppName:   cfg.App.Name,
		BodyLimit: cfg.HTTP.BodyLimit,
		Log:       log,
		Metrics:   m,
		HealthDB:  pool.Ping,
	}, httpRouter.RouterDeps{
		AuthUC:         authUC,
		OrganizationUC: usecase.NewOrganizationUseCase(organizationRepo),
		OperatorUC:     usecase.NewOperatorUseCase(userRepo),
		CategoryUC:     usecase.NewCategoryUseCase(categoryRepo),
		ProductUC:      usecase.NewProductUseCase(productRepo, categoryRepo, txRunner, adjuster),
		SupplierUC:     usecase.NewSupplierUseCase(supplierRepo),
		CustomerUC:     usecase.NewCustomerUseCase(customerRepo),
		ContactUC:      usecase.NewContactUseCase(contactRepo),
		MovementUC:     movementUC,
		Recorder:       recorder,
		QueryUC:        transaction.NewQueryUseCase(saleRepo, purchaseRepo),
		ReportUC:       analytics.NewReportUseCase(reportRepo, saleRepo, productRepo, excel.ReportWriter{}),
		DashboardUC:    analytics.NewDashboardUseCase(reportRepo, supplierRepo),
		JWTSecret:      cfg.JWT.Secret,
		Blacklist:      blacklist,
		AuthRateLimit:  cfg.Auth.LoginRateLimit,
		AuthRateWindow: cfg.Auth.LoginRateWindow,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
