package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	"github.com/jhoicas/inventario-admin/internal/application/auth"
	"github.com/jhoicas/inventario-admin/internal/application/inventory"
	"github.com/jhoicas/inventario-admin/internal/application/usecase"
	"github.com/jhoicas/inventario-admin/internal/domain/repository"
	"github.com/jhoicas/inventario-admin/internal/infrastructure/cache"
	"github.com/jhoicas/inventario-admin/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-admin/internal/infrastructure/messaging"
	infrapdf "github.com/jhoicas/inventario-admin/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-admin/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/inventario-admin/internal/interfaces/http"
	"github.com/jhoicas/inventario-admin/pkg/config"
	"github.com/jhoicas/inventario-admin/pkg/logger"
	"github.com/jhoicas/inventario-admin/pkg/password"
)

const swaggerFile = "./docs/swagger.json"

// backend repositorios y runners de transacción del driver elegido.
type backend struct {
	accounts   usecase.AccountTxRunner
	stockTx    inventory.TxRunner
	users      repository.UserRepository
	stocks     repository.StockRepository
	products   repository.ProductRepository
	categories repository.CategoryRepository
	suppliers  repository.SupplierRepository
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		secret, err := ephemeralSecret()
		if err != nil {
			log.Fatal().Err(err).Msg("generar secreto JWT")
		}
		cfg.JWT.Secret = secret
		log.Warn().Msg("JWT_SECRET vacío: se usa un secreto efímero, los tokens no sobreviven un reinicio")
	}

	ctx := context.Background()
	be, err := openBackend(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar persistencia")
	}
	defer be.close()

	// Eventos de stock bajo: RabbitMQ si está configurado, si no se descartan.
	var notifier inventory.LowStockNotifier = inventory.NopNotifier{}
	if cfg.AMQP.URL != "" {
		pub, err := messaging.NewLowStockPublisher(cfg.AMQP.URL, cfg.AMQP.LowStockQueue, log)
		if err != nil {
			log.Warn().Err(err).Msg("RabbitMQ no disponible, eventos de stock bajo desactivados")
		} else {
			defer func() { _ = pub.Close() }()
			notifier = pub
		}
	}

	hasher := password.NewHasher(cfg.Password.BcryptCost)
	userUC := usecase.NewUserUseCase(be.accounts, be.users, hasher)
	stockUC := inventory.NewStockUseCase(
		be.stockTx, be.stocks, be.products, notifier,
		infrapdf.NewMarotoReportGenerator(cfg.App.Name), log,
	)
	productUC := usecase.NewProductUseCase(be.stockTx, be.products, be.stocks, be.categories, be.suppliers, cfg.Stock.DefaultMinimum)
	categoryUC := usecase.NewCategoryUseCase(be.categories)
	supplierUC := usecase.NewSupplierUseCase(be.suppliers)
	authUC := auth.NewAuthUseCase(be.users, hasher, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	if cfg.Bootstrap.Enabled {
		err := userUC.Bootstrap(ctx, log, usecase.BootstrapAccounts{
			SuperAdmin: usecase.AccountSeed{
				Username: cfg.Bootstrap.SuperAdminUsername,
				Email:    cfg.Bootstrap.SuperAdminEmail,
				FullName: "Super Administrador",
				Password: cfg.Bootstrap.SuperAdminPassword,
			},
			Admin: usecase.AccountSeed{
				Username: cfg.Bootstrap.AdminUsername,
				Email:    cfg.Bootstrap.AdminEmail,
				FullName: "Administrador",
				Password: cfg.Bootstrap.AdminPassword,
			},
		})
		if err != nil {
			log.Fatal().Err(err).Msg("sembrar cuentas por defecto")
		}
	}

	deps := httpRouter.RouterDeps{
		AuthUC:     authUC,
		UserUC:     userUC,
		StockUC:    stockUC,
		ProductUC:  productUC,
		CategoryUC: categoryUC,
		SupplierUC: supplierUC,
		JWTSecret:  cfg.JWT.Secret,
		Log:        log,
	}
	if cfg.RateLimit.Enabled {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("Redis no disponible, rate limiting del login desactivado")
		case rdb != nil:
			defer func() { _ = rdb.Close() }()
			deps.LoginLimiter = cache.NewTokenBucket(rdb, cache.BucketConfig{
				Capacity:       cfg.RateLimit.Capacity,
				RefillTokens:   cfg.RateLimit.RefillTokens,
				RefillInterval: cfg.RateLimit.RefillInterval,
				TTL:            cfg.RateLimit.TTL,
				Prefix:         cfg.RateLimit.Prefix,
			})
		}
	}

	app := httpRouter.NewApp(cfg.App.Name, log)

	// Swagger UI en local: http://localhost:<port>/docs (solo si existe el archivo generado)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Inventario Admin API",
		}))
	}

	httpRouter.Router(app, deps)

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

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	if cfg.DB.Driver == "memory" {
		store := memory.NewStore()
		return &backend{
			accounts:   store,
			stockTx:    store,
			users:      store.Users(),
			stocks:     store.Stocks(),
			products:   store.Products(),
			categories: store.Categories(),
			suppliers:  store.Suppliers(),
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	tx := postgres.NewTxRunner(pool)
	return &backend{
		accounts:   tx,
		stockTx:    tx,
		users:      postgres.NewUserRepository(pool),
		stocks:     postgres.NewStockRepository(pool),
		products:   postgres.NewProductRepository(pool),
		categories: postgres.NewCategoryRepository(pool),
		suppliers:  postgres.NewSupplierRepository(pool),
		close:      pool.Close,
	}, nil
}

// ephemeralSecret secreto aleatorio para desarrollo cuando JWT_SECRET no está definido.
func ephemeralSecret() (string, error) {
	var out string
	for i := 0; i < 4; i++ {
		part, err := password.Generate()
		if err != nil {
			return "", err
		}
		out += part
	}
	return out, nil
}
