package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Ventas-api/internal/application/ledger"
	"github.com/jhoicas/Ventas-api/internal/application/usecase"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/migration"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Ventas-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Ventas-api/internal/interfaces/http"
	"github.com/jhoicas/Ventas-api/pkg/config"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// storage agrupa lo que cada backend aporta al ledger.
type storage struct {
	tx       ledger.TxRunner
	repos    ledger.Repos
	notifier ledger.Notifier
	auditor  ledger.Auditor
	sink     ledger.EventSink
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	if cfg.Redis.Enabled() {
		client, err := infraredis.Connect(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer client.Close()
		store.sink = infraredis.NewEventPublisher(client, cfg.Redis.Channel)
	}

	dispatcher := ledger.NewDispatcher(store.notifier, store.auditor, store.sink,
		cfg.Ledger.SideEffectTimeout, log.Component("side-effects"))
	ledgerSvc := ledger.NewService(store.tx, dispatcher)

	defaults := ledger.Policy{
		ReturnsEnabled:       cfg.Ledger.ReturnsEnabled,
		ReturnWindowDays:     cfg.Ledger.ReturnWindowDays,
		DefaultIVA:           cfg.Ledger.DefaultIVA,
		CreditDaysDefault:    cfg.Ledger.CreditDays,
		StrictTransferSource: cfg.Ledger.StrictTransferSource,
		MaxItems:             cfg.Ledger.MaxItems,
		MaxLineQuantity:      cfg.Ledger.MaxLineQuantity,
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Ventas API",
		}))
	} else {
		log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:      ledgerSvc,
		CompanyUC:   usecase.NewCompanyUseCase(store.tx, store.repos.Companies()),
		WarehouseUC: usecase.NewWarehouseUseCase(store.repos.Warehouses()),
		ProductUC:   usecase.NewProductUseCase(store.repos.Products(), store.repos.Warehouses(), store.repos.Stock()),
		SettingsUC:  usecase.NewSettingsUseCase(store.repos.Settings(), defaults),
		QueryUC:     usecase.NewLedgerQueryUseCase(store.repos),
		JWTSecret:   cfg.JWT.Secret,
		JWTIssuer:   cfg.JWT.Issuer,
		Log:         log.Component("http"),
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
	dispatcher.Wait()

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		mem := memory.New()
		return &storage{
			tx:       mem,
			repos:    mem.Repos(),
			notifier: mem,
			auditor:  mem,
			sink:     mem,
			close:    func() {},
		}, nil
	}

	if cfg.Storage.MigrateOnStart {
		m, err := migration.New(cfg.DB.ConnectionString(), log.Component("migrate"))
		if err != nil {
			return nil, err
		}
		err = m.Up()
		if cerr := m.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, err
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	sinks := postgres.NewSinks(pool)
	return &storage{
		tx:       postgres.NewTxRunner(pool),
		repos:    postgres.NewRepos(pool),
		notifier: sinks,
		auditor:  sinks,
		close:    pool.Close,
	}, nil
}
