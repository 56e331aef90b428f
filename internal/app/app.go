// Package app wires the catalog's store, services and HTTP layer together.
package app

import (
	"fmt"
	"log"

	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/handlers"
	"catalog/internal/metrics"
	"catalog/internal/middleware"
	"catalog/internal/repositories"
	"catalog/internal/services"
	"catalog/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// App owns every long-lived resource of a running catalog.
type App struct {
	Fiber   *fiber.App
	Metrics *metrics.Metrics

	cfg config.Config
	db  *gorm.DB
	mq  *rabbitmq.Client
}

// New builds the application described by cfg. The caller must call Shutdown.
func New(cfg config.Config) (*App, error) {
	a := &App{cfg: cfg, Metrics: metrics.New()}

	repo, err := a.openRepository()
	if err != nil {
		return nil, err
	}

	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			a.closeDB()
			return nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		a.mq = mq
		publisher = mq
	} else {
		log.Println("RABBITMQ_URL not set, product events are disabled")
	}

	productService := services.NewProductService(repo, publisher)
	a.Fiber = NewFiberApp(productService, cfg.ListEmptyNotFound, a.Metrics)
	return a, nil
}

func (a *App) openRepository() (repositories.ProductRepository, error) {
	dialect, err := database.Dialect(a.cfg.DatabaseURI)
	if err != nil {
		return nil, err
	}
	if dialect == database.DialectMemory {
		log.Println("Using in-memory product repository")
		return repositories.NewMemoryProductRepository(), nil
	}

	db, err := database.Open(a.cfg.DatabaseURI, a.cfg.DatabaseDebug)
	if err != nil {
		return nil, err
	}
	if err := database.Ping(db); err != nil {
		_ = database.Close(db)
		return nil, err
	}
	if a.cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			_ = database.Close(db)
			return nil, err
		}
	}
	a.db = db
	log.Printf("Connected to %s database", dialect)
	return repositories.NewGORMProductRepository(db), nil
}

// NewFiberApp creates the Fiber app with middleware and every route registered.
func NewFiberApp(productService *services.ProductService, listEmptyNotFound bool, m *metrics.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "catalog",
		ErrorHandler: middleware.ErrorHandler,
	})

	// metrics wraps recover so panics are counted as 500s
	app.Use(middleware.Metrics(m))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	handlers.NewHealthHandler().RegisterRoutes(app)
	app.Get("/metrics", m.Handler())
	handlers.NewProductHandler(productService, listEmptyNotFound).RegisterRoutes(app)

	return app
}

// Listen serves HTTP on the configured port until Shutdown is called.
func (a *App) Listen() error {
	log.Printf("Starting server on port %s", a.cfg.AppPort)
	return a.Fiber.Listen(a.cfg.AppPort)
}

// Shutdown stops the HTTP server and releases the broker and database connections.
func (a *App) Shutdown() error {
	var errs []error
	if a.Fiber != nil {
		if err := a.Fiber.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("fiber shutdown: %w", err))
		}
	}
	if a.mq != nil {
		if err := a.mq.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.closeDB(); err != nil {
		errs = append(errs, fmt.Errorf("database close: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}
	return nil
}

func (a *App) closeDB() error {
	if a.db == nil {
		return nil
	}
	err := database.Close(a.db)
	a.db = nil
	return err
}

// Migrate creates or updates the schema of the database named by cfg.
func Migrate(cfg config.Config) error {
	dialect, err := database.Dialect(cfg.DatabaseURI)
	if err != nil {
		return err
	}
	if dialect == database.DialectMemory {
		return fmt.Errorf("nothing to migrate for %s", cfg.DatabaseURI)
	}

	db, err := database.Open(cfg.DatabaseURI, cfg.DatabaseDebug)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		return err
	}
	log.Printf("Migrated %s database", dialect)
	return nil
}
