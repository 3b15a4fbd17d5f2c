package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrUnknown           = errors.New("unknown error")
	ErrPasswordMissMatch = errors.New("password mismatch")

	ErrServiceNotFound    = errors.New("service not found or inactive")
	ErrAccountUnavailable = errors.New("account not found or inactive")
	ErrOwnerConflict      = errors.New("owner conflict")

	// ErrCancelDisabled отмена заказов отключена: возврат средств возможен только
	// административной корректировкой баланса.
	ErrCancelDisabled = errors.New("order cancellation is disabled")
)

// QuantityRangeError количество вне лимитов услуги. Нулевой Max означает, что верхняя
// граница неизвестна: проверка не дошла до лимитов каталога.
type QuantityRangeError struct {
	Min int
	Max int
	Got int
}

func NewQuantityRangeError(minQ, maxQ, got int) error {
	return &QuantityRangeError{Min: minQ, Max: maxQ, Got: got}
}

func (e *QuantityRangeError) Error() string {
	if e.Max == 0 {
		return fmt.Sprintf("quantity %d must be at least %d", e.Got, e.Min)
	}
	return fmt.Sprintf("quantity %d is out of range [%d, %d]", e.Got, e.Min, e.Max)
}

// InsufficientFundsError недостаточно средств на балансе. Несет и стоимость и текущий баланс,
// обе суммы нужны клиенту для показа юзеру.
type InsufficientFundsError struct {
	Cost    decimal.Decimal
	Balance decimal.Decimal
}

func NewInsufficientFundsError(cost, balance decimal.Decimal) error {
	return &InsufficientFundsError{Cost: cost, Balance: balance}
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf(
		"insufficient funds: need %s but have %s",
		e.Cost.StringFixed(MoneyScale),
		e.Balance.StringFixed(MoneyScale),
	)
}
