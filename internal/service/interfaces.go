package service

import (
	"context"

	"github.com/fsdevblog/smmpanel/internal/domain"
	"github.com/fsdevblog/smmpanel/internal/repository/repoargs"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type UserRepository interface {
	CreateUser(ctx context.Context, args repoargs.CreateUser) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindActiveForUpdate(ctx context.Context, id int64) (*domain.User, error)
	SetBalance(ctx context.Context, args repoargs.SetBalance) error
	UpdatePassword(ctx context.Context, id int64, password string) error
	TouchLastSeen(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset uint) ([]domain.User, error)
}

type OrderRepository interface {
	Create(ctx context.Context, args repoargs.CreateOrder) (*domain.Order, error)
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context, args repoargs.ListOrders) ([]domain.Order, error)
	GetUnsubmitted(ctx context.Context, limit uint) ([]domain.Order, error)
	GetForStatusSync(ctx context.Context, limit uint) ([]domain.Order, error)
	CountByStatus(ctx context.Context) (map[domain.OrderStatusType]int64, error)
	MarkSubmitted(ctx context.Context, args repoargs.MarkSubmitted) error
	SetNotes(ctx context.Context, args repoargs.SetNotes) error
	UpdateStatus(ctx context.Context, args repoargs.UpdateStatus) error
}

type TransactionRepository interface {
	Create(ctx context.Context, args repoargs.CreateTransaction) (*domain.Transaction, error)
	GetByUserID(ctx context.Context, userID int64, limit, offset uint) ([]domain.Transaction, error)
}

type ServiceRepository interface {
	FindActiveByServiceID(ctx context.Context, serviceID int64) (*domain.Service, error)
	GetActive(ctx context.Context) ([]domain.Service, error)
	Upsert(ctx context.Context, args repoargs.UpsertService) error
}

// UpstreamClient операция регистрации заказа у провайдера. Реализуется HTTP клиентом
// из transport/provider; сервисному слою важен только внешний id либо типизированная ошибка.
type UpstreamClient interface {
	AddOrder(ctx context.Context, serviceID int64, link string, quantity int) (string, error)
}

// SubmissionQueue очередь фоновой отправки заказов провайдеру. Enqueue не блокирует:
// при переполненной очереди заказ просто остается Pending и его подберет батч переотправки.
type SubmissionQueue interface {
	Enqueue(order domain.Order)
}
