package domain

// OrderStatusType статусы заказов. Кроме OrderStatusPending и OrderStatusInProgress значения
// приходят от провайдера и записываются как есть.
type OrderStatusType string

const (
	OrderStatusPending    OrderStatusType = "Pending"
	OrderStatusInProgress OrderStatusType = "In progress"
	OrderStatusProcessing OrderStatusType = "Processing"
	OrderStatusCompleted  OrderStatusType = "Completed"
	OrderStatusPartial    OrderStatusType = "Partial"
	OrderStatusCanceled   OrderStatusType = "Canceled"
)

type TransactionKind string

const (
	TransactionKindCharge     TransactionKind = "charge"
	TransactionKindTopup      TransactionKind = "topup"
	TransactionKindAdjustment TransactionKind = "adjustment"
)

// TransactionStatusCompleted единственный статус записей журнала: запись создается уже завершенной.
const TransactionStatusCompleted = "completed"

type RoleType string

const (
	RoleUser  RoleType = "user"
	RoleAdmin RoleType = "admin"
)

type UserStatusType string

const (
	UserStatusActive    UserStatusType = "active"
	UserStatusSuspended UserStatusType = "suspended"
	UserStatusDeleted   UserStatusType = "deleted"
)
