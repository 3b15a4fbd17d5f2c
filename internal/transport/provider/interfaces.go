package provider

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/fsdevblog/smmpanel/internal/domain"
	"github.com/fsdevblog/smmpanel/internal/service"
	"github.com/fsdevblog/smmpanel/internal/transport/provider/client"
)

type Client interface {
	AddOrder(ctx context.Context, serviceID int64, link string, quantity int) (string, error)
	OrderStatus(ctx context.Context, externalID string) (*client.StatusResponse, error)
	Services(ctx context.Context) ([]client.ServiceItem, error)
}

// SubmitServicer сторона сервисного слоя, нужная воркерам очереди отправки.
type SubmitServicer interface {
	Submit(ctx context.Context, order domain.Order) (string, error)
}

// SyncServicer сторона сервисного слоя, нужная синхронизации статусов.
type SyncServicer interface {
	OrdersForStatusSync(ctx context.Context, limit uint) ([]domain.Order, error)
	ApplyStatusUpdates(ctx context.Context, updates []service.StatusUpdateArgs) error
}

// CatalogServicer сторона сервисного слоя, нужная синхронизации каталога.
type CatalogServicer interface {
	ApplyCatalog(ctx context.Context, items []service.CatalogItem) error
}
