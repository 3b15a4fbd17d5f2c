package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/smmpanel/internal/domain"
	"github.com/fsdevblog/smmpanel/internal/repository/repoargs"
	"github.com/fsdevblog/smmpanel/pkg/uow"
)

// DefaultMarkupPercent наценка по умолчанию на сырую цену провайдера.
var DefaultMarkupPercent = decimal.NewFromInt(20)

var oneHundred = decimal.NewFromInt(100)

type CatalogService struct {
	uow           uow.UOW
	serviceRepo   ServiceRepository
	markupPercent decimal.Decimal
}

func NewCatalogService(u uow.UOW, markupPercent decimal.Decimal) (*CatalogService, error) {
	serviceRepo, err := uow.GetRepositoryAs[ServiceRepository](u, uow.RepositoryName(repoargs.ServiceRepoName))
	if err != nil {
		return nil, err
	}
	if markupPercent.IsZero() {
		markupPercent = DefaultMarkupPercent
	}
	return &CatalogService{
		uow:           u,
		serviceRepo:   serviceRepo,
		markupPercent: markupPercent,
	}, nil
}

// GetService возвращает активную услугу каталога или domain.ErrServiceNotFound.
func (s *CatalogService) GetService(ctx context.Context, serviceID int64) (*domain.Service, error) {
	service, err := s.serviceRepo.FindActiveByServiceID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrServiceNotFound
		}
		return nil, err //nolint:wrapcheck
	}
	return service, nil
}

func (s *CatalogService) ListActive(ctx context.Context) ([]domain.Service, error) {
	services, err := s.serviceRepo.GetActive(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return services, nil
}

// CatalogItem услуга из выгрузки каталога провайдера.
type CatalogItem struct {
	ServiceID int64
	Name      string
	Category  string
	Type      string
	Min       int
	Max       int
	Rate      decimal.Decimal
}

// ApplyCatalog записывает выгрузку каталога провайдера в локальный кэш. Конечная цена
// пересчитывается из сырой цены и наценки при каждой записи, поэтому FinalPrice не может
// разойтись со своими составляющими. Ошибки отдельных услуг не прерывают синхронизацию.
func (s *CatalogService) ApplyCatalog(ctx context.Context, items []CatalogItem) error {
	var errs []error
	for _, item := range items {
		if upsertErr := s.serviceRepo.Upsert(ctx, repoargs.UpsertService{
			ServiceID:     item.ServiceID,
			Name:          item.Name,
			Category:      orDefault(item.Category, "General"),
			Type:          orDefault(item.Type, "Default"),
			Min:           item.Min,
			Max:           item.Max,
			Rate:          item.Rate,
			MarkupPercent: s.markupPercent,
			FinalPrice:    FinalPrice(item.Rate, s.markupPercent),
		}); upsertErr != nil {
			errs = append(errs, upsertErr)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("applying catalog: %w", errors.Join(errs...))
	}
	return nil
}

// FinalPrice цена для юзера: rate * (1 + markup/100), округление до domain.MoneyScale.
func FinalPrice(rate, markupPercent decimal.Decimal) decimal.Decimal {
	return rate.
		Mul(decimal.NewFromInt(1).Add(markupPercent.Div(oneHundred))).
		Round(domain.MoneyScale)
}

func orDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
