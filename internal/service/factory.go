package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/smmpanel/pkg/uow"
)

type AppServices struct {
	UserService    *UserService
	OrderService   *OrderService
	BalanceService *BalanceService
	CatalogService *CatalogService
}

type FactoryArgs struct {
	JWTSecret     []byte
	Upstream      UpstreamClient
	MarkupPercent decimal.Decimal
}

func Factory(unitOfWork uow.UOW, args FactoryArgs) (*AppServices, error) {
	userService, userServiceErr := NewUserService(unitOfWork, args.JWTSecret)
	if userServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", userServiceErr.Error())
	}

	orderService, orderServiceErr := NewOrderService(unitOfWork, args.Upstream)
	if orderServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", orderServiceErr.Error())
	}

	balanceService, balanceServiceErr := NewBalanceService(unitOfWork)
	if balanceServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", balanceServiceErr.Error())
	}

	catalogService, catalogServiceErr := NewCatalogService(unitOfWork, args.MarkupPercent)
	if catalogServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", catalogServiceErr.Error())
	}

	return &AppServices{
		UserService:    userService,
		OrderService:   orderService,
		BalanceService: balanceService,
		CatalogService: catalogService,
	}, nil
}
