package repoargs

import (
	"github.com/fsdevblog/smmpanel/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateTransaction struct {
	UserID        int64
	Kind          domain.TransactionKind
	Amount        decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	Description   string
	OrderID       *int64
}
