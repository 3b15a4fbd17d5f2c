package domain

import (
	"github.com/shopspring/decimal"

	"time"
)

// MoneyScale точность денежных значений: до сотых долей цента, как в колонках DECIMAL(10,4).
const MoneyScale = 4

type User struct {
	ID         int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Email      string
	Name       string
	Password   string
	Balance    decimal.Decimal
	Role       RoleType
	Status     UserStatusType
	LastSeenAt *time.Time
}

// Service кэшированная запись каталога услуг провайдера. FinalPrice пересчитывается при каждой
// синхронизации каталога, поэтому всегда согласован с Rate и MarkupPercent.
type Service struct {
	ID            int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ServiceID     int64
	Name          string
	Category      string
	Type          string
	Min           int
	Max           int
	Rate          decimal.Decimal
	MarkupPercent decimal.Decimal
	FinalPrice    decimal.Decimal
	Active        bool
}

// Order заказ юзера. Charge и Quantity неизменяемы после создания; ExternalID, Status,
// StartCount, Remains и Notes мутируются только воркфлоу отправки и синхронизацией статусов.
type Order struct {
	ID         int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
	UserID     int64
	ServiceID  int64
	Link       string
	Quantity   int
	Charge     decimal.Decimal
	LocalRef   string
	ExternalID *string
	Status     OrderStatusType
	StartCount *int
	Remains    *int
	Notes      *string
}

// Transaction запись журнала баланса. Append-only: после записи не изменяется и не удаляется.
type Transaction struct {
	ID            int64
	CreatedAt     time.Time
	UserID        int64
	Kind          TransactionKind
	Amount        decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	Description   string
	OrderID       *int64
	Status        string
}
