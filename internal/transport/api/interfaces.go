package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/smmpanel/internal/domain"
	"github.com/fsdevblog/smmpanel/internal/repository/repoargs"
	"github.com/fsdevblog/smmpanel/internal/service"
)

// UserServicer интерфейс исключительно для моков.
type UserServicer interface {
	Register(ctx context.Context, args service.RegisterUserArgs) (*domain.User, string, error)
	Login(ctx context.Context, args service.LoginUserArgs) (*domain.User, string, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error
	List(ctx context.Context, limit, offset uint) ([]domain.User, error)
	AdjustBalance(
		ctx context.Context,
		userID int64,
		amount decimal.Decimal,
		kind domain.TransactionKind,
		description string,
	) (*domain.Transaction, error)
}

type OrderServicer interface {
	Create(ctx context.Context, userID int64, args service.CreateOrderArgs) (*domain.Order, error)
	GetByID(ctx context.Context, orderID int64, requesterID int64, isAdmin bool) (*domain.Order, error)
	List(ctx context.Context, args repoargs.ListOrders) ([]domain.Order, error)
	Cancel(ctx context.Context, orderID int64) error
	ResubmitPending(ctx context.Context, limit uint) (*service.BatchResult, error)
	Stats(ctx context.Context) (map[domain.OrderStatusType]int64, error)
}

type BalanceServicer interface {
	GetBalance(ctx context.Context, userID int64) (*domain.User, error)
	GetHistory(ctx context.Context, userID int64, limit, offset uint) ([]domain.Transaction, error)
}

type CatalogServicer interface {
	ListActive(ctx context.Context) ([]domain.Service, error)
}

// ProviderSyncer ручные триггеры фоновых синхронизаций для админских роутов.
type ProviderSyncer interface {
	SyncStatuses(ctx context.Context) error
	SyncCatalog(ctx context.Context) error
}
