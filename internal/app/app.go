package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/smmpanel/internal/config"
	"github.com/fsdevblog/smmpanel/internal/repository/pgrepo"
	"github.com/fsdevblog/smmpanel/internal/repository/repoargs"
	"github.com/fsdevblog/smmpanel/internal/service"
	"github.com/fsdevblog/smmpanel/internal/transport/api"
	"github.com/fsdevblog/smmpanel/internal/transport/provider"
	"github.com/fsdevblog/smmpanel/internal/transport/provider/client"
	"github.com/fsdevblog/smmpanel/pkg/uow"

	// driver for migration applying postgres.
	_ "github.com/golang-migrate/migrate/v4/database/postgres" //nolint:revive
	// driver to get migrations from files (*.sql in our case).
	_ "github.com/golang-migrate/migrate/v4/source/file" //nolint:revive
	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	Config *config.Config
	Logger *logrus.Logger
}

func New(conf *config.Config, l *logrus.Logger) *App {
	return &App{
		Config: conf,
		Logger: l,
	}
}

func (a *App) Run() error {
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Logger.WithField("runAddress", a.Config.RunAddress).Info("Starting app")
	conn, connErr := pgrepo.Connect(notifyCtx, a.Config.MigrationsDir, a.Config.DatabaseDSN, a.Logger)
	if connErr != nil {
		return fmt.Errorf("app run: %s", connErr.Error())
	}
	defer conn.Close()

	unitOfWork, uowErr := initUOW(conn)
	if uowErr != nil {
		return fmt.Errorf("app run: %s", uowErr.Error())
	}

	markup, markupErr := parseMarkup(a.Config.MarkupPercent)
	if markupErr != nil {
		return fmt.Errorf("app run: %s", markupErr.Error())
	}

	apiClient := client.New(a.Config.ProviderAPIURL, a.Config.ProviderAPIKey)

	services, sErr := service.Factory(unitOfWork, service.FactoryArgs{
		JWTSecret:     []byte(a.Config.JWTSecret),
		Upstream:      apiClient,
		MarkupPercent: markup,
	})
	if sErr != nil {
		return fmt.Errorf("app run: %s", sErr.Error())
	}

	// Фоновая отправка заказов провайдеру. Очередь подключается к сервису заказов
	// до старта HTTP: заказы, созданные после коммита, уходят сюда.
	submitter := provider.NewSubmitter(services.OrderService, a.Logger)
	services.OrderService.SetSubmissionQueue(submitter)
	go submitter.Run(notifyCtx)

	processor := provider.NewProcessor(services.OrderService, apiClient, a.Logger)
	go processor.Run(notifyCtx)

	catalogSyncer := provider.NewCatalogSyncer(services.CatalogService, apiClient, a.Logger)
	go catalogSyncer.Run(notifyCtx)

	router := api.New(api.RouterArgs{
		Logger:         a.Logger,
		UserService:    services.UserService,
		OrderService:   services.OrderService,
		BalanceService: services.BalanceService,
		CatalogService: services.CatalogService,
		ProviderSync: &providerSync{
			processor: processor,
			catalog:   catalogSyncer,
		},
		JWTSecretKey: []byte(a.Config.JWTSecret),
	})

	errChan := make(chan error, 1)

	go func() {
		if runErr := router.Run(a.Config.RunAddress); runErr != nil {
			errChan <- runErr
		}
	}()

	select {
	case <-notifyCtx.Done():
		return notifyCtx.Err() //nolint:wrapcheck
	case err := <-errChan:
		return err
	}
}

// providerSync адаптер фоновых синхронизаций под админские триггеры API.
type providerSync struct {
	processor *provider.Processor
	catalog   *provider.CatalogSyncer
}

func (p *providerSync) SyncStatuses(ctx context.Context) error {
	return p.processor.SyncOnce(ctx) //nolint:wrapcheck
}

func (p *providerSync) SyncCatalog(ctx context.Context) error {
	return p.catalog.Sync(ctx) //nolint:wrapcheck
}

func parseMarkup(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	markup, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse markup percent: %s", err.Error())
	}
	if markup.IsNegative() {
		return decimal.Zero, fmt.Errorf("markup percent must not be negative, got %s", markup)
	}
	return markup, nil
}

func initUOW(conn *pgxpool.Pool) (*uow.UnitOfWork, error) {
	unitOfWork := uow.NewUnitOfWork(conn)

	// user repo
	userRepoFactoryFn := func(dbtx uow.DBTX) uow.Repository {
		return pgrepo.NewUserRepository(dbtx)
	}
	if regErr := unitOfWork.Register(uow.RepositoryName(repoargs.UserRepoName), userRepoFactoryFn); regErr != nil {
		return nil, fmt.Errorf("init UOW: %s", regErr.Error())
	}

	// order repo
	orderRepoFactoryFn := func(dbtx uow.DBTX) uow.Repository {
		return pgrepo.NewOrderRepository(dbtx)
	}
	if regErr := unitOfWork.Register(uow.RepositoryName(repoargs.OrderRepoName), orderRepoFactoryFn); regErr != nil {
		return nil, fmt.Errorf("init UOW: %s", regErr.Error())
	}

	// transaction repo
	transactionRepoFactoryFn := func(dbtx uow.DBTX) uow.Repository {
		return pgrepo.NewTransactionRepository(dbtx)
	}
	if regErr := unitOfWork.Register(
		uow.RepositoryName(repoargs.TransactionRepoName),
		transactionRepoFactoryFn,
	); regErr != nil {
		return nil, fmt.Errorf("init UOW: %s", regErr.Error())
	}

	// service repo
	serviceRepoFactoryFn := func(dbtx uow.DBTX) uow.Repository {
		return pgrepo.NewServiceRepository(dbtx)
	}
	if regErr := unitOfWork.Register(
		uow.RepositoryName(repoargs.ServiceRepoName),
		serviceRepoFactoryFn,
	); regErr != nil {
		return nil, fmt.Errorf("init UOW: %s", regErr.Error())
	}

	return unitOfWork, nil
}
