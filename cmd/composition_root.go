package cmd

import (
	"log/slog"

	"fulfillment/internal/adapters/in/catalogfile"
	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/events"
	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/outboxrepo"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/jobs"
	"fulfillment/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg         Config
	gormDB      *gorm.DB
	uowFactory  *postgres.GormUnitOfWorkFactory
	outboxRepo  *outboxrepo.GormOutboxRepository
	producer    *kafka.Producer
	metrics     *metrics.Metrics
	transitions fulfillment.TransitionTable
	logger      *slog.Logger
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) *CompositionRoot {
	return &CompositionRoot{
		cfg:         cfg,
		gormDB:      gormDB,
		uowFactory:  postgres.NewGormUnitOfWorkFactory(gormDB),
		outboxRepo:  outboxrepo.NewGormOutboxRepository(gormDB),
		producer:    kafka.NewProducer(kafka.DefaultConfig(cfg.KafkaBrokers), logger),
		metrics:     metrics.New(),
		transitions: fulfillment.DefaultTransitionTable(),
		logger:      logger,
	}
}

func (c *CompositionRoot) fulfillmentUoWFactory() commands.FulfillmentUoWFactory {
	return FuncFulfillmentUoWFactory(func() commands.FulfillmentUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) catalogUoWFactory() commands.CatalogUoWFactory {
	return FuncCatalogUoWFactory(func() commands.CatalogUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateFulfillmentCommandHandler() commands.CreateFulfillmentCommandHandler {
	return commands.NewCreateFulfillmentCommandHandler(c.fulfillmentUoWFactory())
}

func (c *CompositionRoot) CreateApplyFulfillmentActionCommandHandler() commands.ApplyFulfillmentActionCommandHandler {
	publisher := events.NewOutboxPublisher(c.outboxRepo, c.cfg.KafkaFulfillmentTopic, c.logger)
	return commands.NewApplyFulfillmentActionCommandHandler(
		c.fulfillmentUoWFactory(),
		publisher,
		c.transitions,
		c.logger,
		commands.WithActionObserver(c.metrics),
	)
}

func (c *CompositionRoot) CreatePickItemCommandHandler() commands.PickItemCommandHandler {
	return commands.NewPickItemCommandHandler(c.fulfillmentUoWFactory(), c.transitions)
}

func (c *CompositionRoot) CreatePackItemCommandHandler() commands.PackItemCommandHandler {
	return commands.NewPackItemCommandHandler(c.fulfillmentUoWFactory(), c.transitions)
}

func (c *CompositionRoot) CreateUpsertShippingZoneCommandHandler() commands.UpsertShippingZoneCommandHandler {
	return commands.NewUpsertShippingZoneCommandHandler(c.catalogUoWFactory())
}

func (c *CompositionRoot) CreateUpsertShippingMethodCommandHandler() commands.UpsertShippingMethodCommandHandler {
	return commands.NewUpsertShippingMethodCommandHandler(c.catalogUoWFactory())
}

func (c *CompositionRoot) CreateSaveShippingRateCommandHandler() commands.SaveShippingRateCommandHandler {
	return commands.NewSaveShippingRateCommandHandler(c.catalogUoWFactory())
}

func (c *CompositionRoot) CreateGetFulfillmentQueryHandler() queries.GetFulfillmentQueryHandler {
	return queries.NewGetFulfillmentQueryHandler(c.gormDB)
}

// CreatePriceDestinationQueryHandler reads the catalog outside any
// transaction: the unit of work is never begun, so its repositories use the
// base connection.
func (c *CompositionRoot) CreatePriceDestinationQueryHandler() (*queries.PriceDestinationQueryHandler, error) {
	uow := c.uowFactory.Create()
	return queries.NewPriceDestinationQueryHandler(
		uow.ShippingZoneRepository(),
		uow.ShippingMethodRepository(),
		uow.ShippingRateRepository(),
		c.cfg.OriginCountry,
		c.metrics,
	)
}

func (c *CompositionRoot) CreateCatalogSeeder() *catalogfile.Seeder {
	return catalogfile.NewSeeder(
		c.CreateUpsertShippingZoneCommandHandler(),
		c.CreateUpsertShippingMethodCommandHandler(),
		c.CreateSaveShippingRateCommandHandler(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateOutboxRelayJob() *jobs.OutboxRelayJob {
	return jobs.NewOutboxRelayJob(
		c.outboxRepo,
		c.producer,
		c.metrics,
		c.cfg.OutboxRelaySchedule,
		c.cfg.OutboxBatchSize,
		c.logger,
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateOutboxRelayJob())
}

func (c *CompositionRoot) CreateHTTPServer() (*echo.Echo, error) {
	quotes, err := c.CreatePriceDestinationQueryHandler()
	if err != nil {
		return nil, err
	}
	contract, err := httpin.LoadAPIContract()
	if err != nil {
		return nil, err
	}

	server := httpin.NewServer(httpin.Handlers{
		CreateFulfillment: c.CreateCreateFulfillmentCommandHandler(),
		ApplyAction:       c.CreateApplyFulfillmentActionCommandHandler(),
		PickItem:          c.CreatePickItemCommandHandler(),
		PackItem:          c.CreatePackItemCommandHandler(),
		UpsertZone:        c.CreateUpsertShippingZoneCommandHandler(),
		UpsertMethod:      c.CreateUpsertShippingMethodCommandHandler(),
		SaveRate:          c.CreateSaveShippingRateCommandHandler(),
		GetFulfillment:    c.CreateGetFulfillmentQueryHandler(),
		PriceDestination:  quotes,
	})
	return httpin.NewEcho(server, contract, c.metrics.Handler(), c.logger), nil
}

// Close releases the Kafka writers.
func (c *CompositionRoot) Close() error {
	return c.producer.Close()
}

type FuncFulfillmentUoWFactory func() commands.FulfillmentUoW

func (f FuncFulfillmentUoWFactory) Create() commands.FulfillmentUoW {
	return f()
}

type FuncCatalogUoWFactory func() commands.CatalogUoW

func (f FuncCatalogUoWFactory) Create() commands.CatalogUoW {
	return f()
}
