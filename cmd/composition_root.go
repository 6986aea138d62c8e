package cmd

import (
	"log/slog"
	"time"

	httpserver "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/couriers"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/configrepo"
	"fulfillment/internal/adapters/out/postgres/historyrepo"
	"fulfillment/internal/adapters/out/rediscache"
	"fulfillment/internal/adapters/out/woocommerce"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"
	"fulfillment/internal/pkg/metrics"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// defaultRiskCacheTTL bounds risk profile staleness when the environment
// does not override it.
const defaultRiskCacheTTL = 15 * time.Minute

// CompositionRoot wires adapters, handlers, and jobs together. The sync
// handler is built once and shared, so the single-flight guard covers both
// the HTTP trigger and the cron tick.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	metrics    *metrics.Metrics
	logger     *slog.Logger

	configStore *configrepo.GormConfigStore
	adapters    *couriers.Registry
	storefront  *woocommerce.Client
	riskCache   *rediscache.RiskProfileCache

	syncHandler *commands.SyncOrdersCommandHandler
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, redisClient *redis.Client, logger *slog.Logger) CompositionRoot {
	configStore := configrepo.NewGormConfigStore(gormDB)
	m := metrics.New()

	root := CompositionRoot{
		gormDB:      gormDB,
		uowFactory:  postgres.NewGormUnitOfWorkFactory(gormDB),
		metrics:     m,
		logger:      logger,
		configStore: configStore,
		adapters: couriers.NewRegistry(
			couriers.NewPathaoAdapter(configStore, logger),
			couriers.NewRedXAdapter(configStore, logger),
			couriers.NewSteadfastAdapter(configStore, logger),
			couriers.NewPaperflyAdapter(configStore, logger),
			couriers.NewECourierAdapter(configStore, logger),
		),
		storefront: woocommerce.NewClient(configStore, logger),
		riskCache:  rediscache.NewRiskProfileCache(redisClient, riskCacheTTL(config), logger),
	}

	root.syncHandler = commands.NewSyncOrdersCommandHandler(
		root.storefront,
		root.orderUoWFactory(),
		m,
		logger,
	)
	return root
}

func (c *CompositionRoot) CreateSyncOrdersCommandHandler() *commands.SyncOrdersCommandHandler {
	return c.syncHandler
}

func (c *CompositionRoot) CreateAssignCourierCommandHandler() commands.AssignCourierCommandHandler {
	return commands.NewAssignCourierCommandHandler(c.orderUoWFactory(), c.adapters, c.metrics, c.logger)
}

func (c *CompositionRoot) CreateApplyCourierEventCommandHandler() commands.ApplyCourierEventCommandHandler {
	return commands.NewApplyCourierEventCommandHandler(c.orderUoWFactory(), c.metrics, c.logger)
}

func (c *CompositionRoot) CreateGetOrdersQueryHandler() queries.GetOrdersQueryHandler {
	return queries.NewGetOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCustomerRiskQueryHandler() queries.GetCustomerRiskQueryHandler {
	return queries.NewGetCustomerRiskQueryHandler(
		historyrepo.NewGormParcelHistoryProvider(c.gormDB),
		c.riskCache,
	)
}

func (c *CompositionRoot) CreateHTTPServer() *httpserver.Server {
	return httpserver.NewServer(
		c.CreateSyncOrdersCommandHandler(),
		c.CreateAssignCourierCommandHandler(),
		c.CreateApplyCourierEventCommandHandler(),
		c.CreateGetOrdersQueryHandler(),
		c.CreateGetCustomerRiskQueryHandler(),
		c.adapters,
		c.uowFactory,
		c.configStore,
		c.metrics.Handler(),
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateSyncOrdersCommandHandler(),
		c.CreateApplyCourierEventCommandHandler(),
		c.uowFactory,
		c.adapters,
		c.logger,
	)
}

// orderUoWFactory adapts the gorm factory to the command-side interface.
// The concrete factory returns ports.UnitOfWork, and Go interface method
// return types do not covary, so the command handlers need this bridge.
func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	var f ports.UnitOfWorkFactory = c.uowFactory
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return f.Create()
	})
}

func riskCacheTTL(config Config) time.Duration {
	if config.RiskCacheTTL == "" {
		return defaultRiskCacheTTL
	}
	ttl, err := time.ParseDuration(config.RiskCacheTTL)
	if err != nil {
		return defaultRiskCacheTTL
	}
	return ttl
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
