package v1

import (
	"github.com/gin-gonic/gin"

	"cajalibro/internal/domain/catalogs/cashier"
	"cajalibro/internal/domain/catalogs/category"
	"cajalibro/internal/domain/catalogs/provider"
	"cajalibro/internal/domain/ledger/account"
	"cajalibro/internal/domain/ledger/importer"
	"cajalibro/internal/domain/ledger/movement"
	"cajalibro/internal/infrastructure/http/v1/handlers"
	"cajalibro/internal/infrastructure/http/v1/middleware"
	"cajalibro/internal/infrastructure/storage/postgres"
	"cajalibro/internal/infrastructure/storage/postgres/catalog_repo"
	"cajalibro/internal/infrastructure/storage/postgres/ledger_repo"
	"cajalibro/pkg/logger"
)

// RouterConfig holds router configuration. Every repository and service is
// constructed here with explicit dependencies; nothing is resolved from
// process-wide state.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// TxManager coordinates transactions for all repositories
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	baseHandler := handlers.NewBaseHandler()

	// Repositories and services
	accountRepo := ledger_repo.NewAccountRepo(cfg.TxManager)
	accountService := account.NewService(accountRepo, cfg.TxManager)

	categoryRepo := catalog_repo.NewCategoryRepo(cfg.TxManager)
	categoryService := category.NewService(categoryRepo, cfg.TxManager)

	providerRepo := catalog_repo.NewProviderRepo(cfg.TxManager)
	providerService := provider.NewService(providerRepo, cfg.TxManager)

	cashierRepo := catalog_repo.NewCashierRepo(cfg.TxManager)
	cashierService := cashier.NewService(cashierRepo, cfg.TxManager)

	movementRepo := ledger_repo.NewMovementRepo(cfg.TxManager)
	movementService := movement.NewService(
		movementRepo,
		accountService,
		categoryService,
		providerService,
		cashierService,
		cfg.TxManager,
	)

	reconciler := importer.NewReconciler(
		importer.NewCSVRowProducer(),
		movementService,
		accountService,
		categoryService,
		providerService,
		cashierService,
		cfg.TxManager,
	)

	// API v1
	api := router.Group("/api/v1")
	{
		// Catalogs
		catalogs := api.Group("/catalog")
		RegisterCatalogRoutes(catalogs.Group("/categories"), handlers.NewCategoryHandler(baseHandler, categoryService))
		RegisterCatalogRoutes(catalogs.Group("/providers"), handlers.NewProviderHandler(baseHandler, providerService))
		RegisterCatalogRoutes(catalogs.Group("/cashiers"), handlers.NewCashierHandler(baseHandler, cashierService))

		// Accounts (balances change through movements only)
		accountHandler := handlers.NewAccountHandler(baseHandler, accountService)
		accounts := api.Group("/accounts")
		accounts.GET("", accountHandler.List)
		accounts.POST("", accountHandler.Create)
		accounts.GET("/:id", accountHandler.Get)

		// Movements
		movements := api.Group("/movements")
		RegisterMovementRoutes(movements.Group("/incomes"), handlers.NewIncomeHandler(baseHandler, movementService))
		RegisterMovementRoutes(movements.Group("/expenses"), handlers.NewExpenseHandler(baseHandler, movementService))
		RegisterMovementRoutes(movements.Group("/transfers"), handlers.NewTransferHandler(baseHandler, movementService))

		// Voucher set mutation across all movement kinds
		voucherHandler := handlers.NewVoucherHandler(baseHandler, movementService)
		movements.POST("/vouchers/:id", voucherHandler.Mutate)

		// Bulk import
		importHandler := handlers.NewImportHandler(baseHandler, reconciler)
		movements.POST("/import", importHandler.Upload)
	}

	return router
}
