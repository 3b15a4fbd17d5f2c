package repoargs

import "github.com/shopspring/decimal"

type CreateUser struct {
	Email    string
	Name     string
	Password string
}

// SetBalance новое значение баланса. Вызывается только внутри транзакции, после блокировки
// строки юзера через FindActiveForUpdate.
type SetBalance struct {
	UserID  int64
	Balance decimal.Decimal
}
