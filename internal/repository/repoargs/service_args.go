package repoargs

import "github.com/shopspring/decimal"

// UpsertService данные услуги из каталога провайдера. FinalPrice считается сервисным слоем
// из Rate и MarkupPercent непосредственно перед записью.
type UpsertService struct {
	ServiceID     int64
	Name          string
	Category      string
	Type          string
	Min           int
	Max           int
	Rate          decimal.Decimal
	MarkupPercent decimal.Decimal
	FinalPrice    decimal.Decimal
}
