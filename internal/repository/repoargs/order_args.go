package repoargs

import (
	"github.com/fsdevblog/smmpanel/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateOrder struct {
	UserID    int64
	ServiceID int64
	Link      string
	Quantity  int
	Charge    decimal.Decimal
	LocalRef  string
}

// MarkSubmitted результат успешной отправки провайдеру: заказ получает внешний id,
// статус "In progress" и очищенные заметки.
type MarkSubmitted struct {
	OrderID    int64
	ExternalID string
}

// SetNotes диагностическая заметка на заказе, статус не трогается.
type SetNotes struct {
	OrderID int64
	Notes   string
}

// UpdateStatus данные синхронизации статуса от провайдера. StartCount и Remains
// опциональны: nil оставляет прежнее значение.
type UpdateStatus struct {
	OrderID    int64
	Status     domain.OrderStatusType
	StartCount *int
	Remains    *int
}

// ListOrders параметры выборки заказов. UserID == 0 означает выборку по всем юзерам (админ).
type ListOrders struct {
	UserID int64
	Status domain.OrderStatusType
	Limit  uint
	Offset uint
}
