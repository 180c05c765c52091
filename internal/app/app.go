package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	"pos_service/config"
	"pos_service/internal/delivery"
	grpcdelivery "pos_service/internal/delivery/grpc"
	"pos_service/internal/dispatcher"
	"pos_service/internal/scheduler"
	"pos_service/internal/store"
	"pos_service/internal/usecase"
)

// Application owns the store and every component built on it. One process
// holds one Application; all surfaces share its dispatcher.
type Application struct {
	cfg   *config.Config
	log   *logrus.Logger
	store *store.Store

	Products    usecase.ProductUseCase
	Categories  usecase.CategoryUseCase
	Sales       usecase.SaleUseCase
	Reports     usecase.ReportUseCase
	Maintenance usecase.MaintenanceUseCase
	Dispatcher  *dispatcher.Dispatcher
}

// New opens the configured backend, loads the document and wires the use
// cases. The caller must Close the application.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Application, error) {
	backend, err := store.OpenBackend(ctx, store.BackendConfig{
		Driver:      cfg.StoreDriver,
		Path:        cfg.StorePath,
		DatabaseURL: cfg.DatabaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.StoreDriver, err)
	}
	logger.Infof("Store backend opened: %s", backend)

	s := store.New(backend, logger)
	s.Load(ctx)
	return newWithStore(cfg, s, logger), nil
}

func newWithStore(cfg *config.Config, s *store.Store, logger *logrus.Logger) *Application {
	a := &Application{cfg: cfg, log: logger, store: s}

	a.Products = usecase.NewProductUseCase(s, usecase.NewUUID, logger)
	a.Categories = usecase.NewCategoryUseCase(s, usecase.NewUUID, logger)
	a.Sales = usecase.NewSaleUseCase(s, usecase.NewUUID, cfg.LowStockThreshold, logger)
	a.Reports = usecase.NewReportUseCase(s, cfg.LowStockThreshold, logger)
	a.Maintenance = usecase.NewMaintenanceUseCase(s, a.Products, a.Categories, cfg.BackupDir, logger)
	logger.Info("Use cases initialized.")

	a.Dispatcher = dispatcher.New(a.Products, a.Categories, a.Sales, a.Reports, a.Maintenance, logger)
	return a
}

func (a *Application) Config() *config.Config {
	return a.cfg
}

func (a *Application) Logger() *logrus.Logger {
	return a.log
}

func (a *Application) Store() *store.Store {
	return a.store
}

// Router builds the HTTP surface.
func (a *Application) Router() *gin.Engine {
	return delivery.NewRouter(a.log,
		delivery.NewProductHandler(a.Products, a.log),
		delivery.NewCategoryHandler(a.Categories, a.log),
		delivery.NewSaleHandler(a.Sales, a.Reports, a.log),
		delivery.NewReportHandler(a.Reports, a.Maintenance, a.log),
		delivery.NewDispatchHandler(a.Dispatcher, a.log),
	)
}

// GRPCServer builds a server with pos.v1.Dispatcher registered.
func (a *Application) GRPCServer(opts ...grpc.ServerOption) *grpc.Server {
	server := grpc.NewServer(opts...)
	grpcdelivery.RegisterDispatcherServer(server, grpcdelivery.NewDispatcherHandler(a.Dispatcher, a.log))
	return server
}

// Scheduler returns the backup scheduler, or nil when BACKUP_SCHEDULE is empty.
func (a *Application) Scheduler() (*scheduler.BackupScheduler, error) {
	if a.cfg.BackupSchedule == "" {
		return nil, nil
	}
	return scheduler.NewBackupScheduler(a.cfg.BackupSchedule, a.Maintenance, a.log)
}

func (a *Application) Close() error {
	if err := a.store.Close(); err != nil {
		a.log.Errorf("Failed to close store: %v", err)
		return err
	}
	a.log.Info("Store closed.")
	return nil
}
