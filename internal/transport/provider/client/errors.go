package client

import "fmt"

// StatusCodeError ответ провайдера со статусом отличным от http.StatusOK.
type StatusCodeError struct {
	Code int
}

func NewStatusCodeError(code int) *StatusCodeError {
	return &StatusCodeError{Code: code}
}

func (e *StatusCodeError) Error() string {
	return fmt.Sprintf("unexpected status code %d", e.Code)
}

// APIError структурная ошибка из тела ответа провайдера (поле "error").
type APIError struct {
	Message string
}

func NewAPIError(message string) *APIError {
	return &APIError{Message: message}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider api error: %s", e.Message)
}

// NotEnoughFundsError на счете у провайдера не хватает средств. Ожидаемая операционная
// ситуация: заказ остается локально и переотправляется после пополнения счета.
type NotEnoughFundsError struct {
	Message string
}

func NewNotEnoughFundsError(message string) *NotEnoughFundsError {
	return &NotEnoughFundsError{Message: message}
}

func (e *NotEnoughFundsError) Error() string {
	return fmt.Sprintf("not enough funds on provider account: %s", e.Message)
}
