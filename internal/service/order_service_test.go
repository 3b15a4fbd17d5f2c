package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/smmpanel/internal/domain"
	"github.com/fsdevblog/smmpanel/internal/repository/repoargs"
	"github.com/fsdevblog/smmpanel/internal/service/mocks"
	"github.com/fsdevblog/smmpanel/internal/transport/provider/client"
	"github.com/fsdevblog/smmpanel/pkg/uow"
	uowmocks "github.com/fsdevblog/smmpanel/pkg/uow/mocks"
)

type OrderServiceTestSuite struct {
	suite.Suite
	mockCtrl            *gomock.Controller
	mockUOW             *uowmocks.MockUOW
	mockTX              *uowmocks.MockTX
	mockOrderRepo       *mocks.MockOrderRepository
	mockUserRepo        *mocks.MockUserRepository
	mockServiceRepo     *mocks.MockServiceRepository
	mockTransactionRepo *mocks.MockTransactionRepository
	mockUpstream        *mocks.MockUpstreamClient
	mockQueue           *mocks.MockSubmissionQueue
	orderService        *OrderService
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func (s *OrderServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)
	s.mockOrderRepo = mocks.NewMockOrderRepository(s.mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(s.mockCtrl)
	s.mockServiceRepo = mocks.NewMockServiceRepository(s.mockCtrl)
	s.mockTransactionRepo = mocks.NewMockTransactionRepository(s.mockCtrl)
	s.mockUpstream = mocks.NewMockUpstreamClient(s.mockCtrl)
	s.mockQueue = mocks.NewMockSubmissionQueue(s.mockCtrl)

	// Мок получения репозитория из uow. Выполняется в инициализации сервиса.
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.OrderRepoName)).
		Return(s.mockOrderRepo, nil).AnyTimes()

	// Инициализация сервиса.
	orderService, servErr := NewOrderService(s.mockUOW, s.mockUpstream)
	s.Require().NoError(servErr)
	s.orderService = orderService.
		SetSubmissionQueue(s.mockQueue).
		SetResubmitDelay(time.Millisecond)
}

func (s *OrderServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

// expectTxRepos настраивает выдачу всех репозиториев из транзакции.
func (s *OrderServiceTestSuite) expectTxRepos() {
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.ServiceRepoName)).
		Return(s.mockServiceRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.OrderRepoName)).
		Return(s.mockOrderRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.TransactionRepoName)).
		Return(s.mockTransactionRepo, nil).AnyTimes()
}

// expectDo прогоняет транзакционную функцию через mockTX.
func (s *OrderServiceTestSuite) expectDo(times int) {
	s.mockUOW.EXPECT().Do(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(s.T().Context(), s.mockTX)
		},
	).Times(times)
}

func catalogService() *domain.Service {
	return &domain.Service{
		ID:         1,
		ServiceID:  101,
		Name:       "Followers",
		Min:        100,
		Max:        10000,
		FinalPrice: decimal.NewFromInt(8),
		Active:     true,
	}
}

func (s *OrderServiceTestSuite) TestCreate() {
	var userID int64 = 42
	service := catalogService()
	args := CreateOrderArgs{ServiceID: service.ServiceID, Link: "https://example.com/p/1", Quantity: 1000}

	// 1000 единиц по 8 за тысячу.
	cost := decimal.NewFromInt(8)
	balance := decimal.NewFromInt(10)

	s.expectTxRepos()
	s.expectDo(1)

	s.mockServiceRepo.EXPECT().FindActiveByServiceID(gomock.Any(), service.ServiceID).
		Return(service, nil)
	s.mockUserRepo.EXPECT().FindActiveForUpdate(gomock.Any(), userID).
		Return(&domain.User{ID: userID, Balance: balance, Status: domain.UserStatusActive}, nil)

	// списание баланса вычисляется внутри транзакции.
	s.mockUserRepo.EXPECT().SetBalance(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, balanceArgs repoargs.SetBalance) error {
			s.Equal(userID, balanceArgs.UserID)
			s.True(balance.Sub(cost).Equal(balanceArgs.Balance))
			return nil
		})

	createdOrder := &domain.Order{
		ID:        7,
		UserID:    userID,
		ServiceID: service.ServiceID,
		Link:      args.Link,
		Quantity:  args.Quantity,
		Charge:    cost,
		Status:    domain.OrderStatusPending,
	}
	s.mockOrderRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, createArgs repoargs.CreateOrder) (*domain.Order, error) {
			s.Equal(userID, createArgs.UserID)
			s.Equal(service.ServiceID, createArgs.ServiceID)
			s.Equal(args.Quantity, createArgs.Quantity)
			s.True(cost.Equal(createArgs.Charge))
			s.NotEmpty(createArgs.LocalRef)
			return createdOrder, nil
		})

	s.mockTransactionRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tArgs repoargs.CreateTransaction) (*domain.Transaction, error) {
			s.Equal(userID, tArgs.UserID)
			s.Equal(domain.TransactionKindCharge, tArgs.Kind)
			// в журнале списание отрицательное.
			s.True(cost.Neg().Equal(tArgs.Amount))
			s.True(balance.Equal(tArgs.BalanceBefore))
			s.True(balance.Sub(cost).Equal(tArgs.BalanceAfter))
			s.Require().NotNil(tArgs.OrderID)
			s.Equal(createdOrder.ID, *tArgs.OrderID)
			return &domain.Transaction{ID: 1}, nil
		})

	// заказ уходит в очередь отправки строго после коммита.
	s.mockQueue.EXPECT().Enqueue(*createdOrder)

	order, err := s.orderService.Create(s.T().Context(), userID, args)
	s.Require().NoError(err)
	s.Equal(createdOrder.ID, order.ID)
}

func (s *OrderServiceTestSuite) TestCreate_InsufficientFunds() {
	var userID int64 = 42
	service := catalogService()

	s.expectTxRepos()
	s.expectDo(1)

	s.mockServiceRepo.EXPECT().FindActiveByServiceID(gomock.Any(), service.ServiceID).
		Return(service, nil)
	// на балансе 1, стоимость заказа 2.
	s.mockUserRepo.EXPECT().FindActiveForUpdate(gomock.Any(), userID).
		Return(&domain.User{ID: userID, Balance: decimal.NewFromInt(1)}, nil)

	// списаний и записей быть не должно.
	s.mockUserRepo.EXPECT().SetBalance(gomock.Any(), gomock.Any()).Times(0)
	s.mockOrderRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
	s.mockTransactionRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
	s.mockQueue.EXPECT().Enqueue(gomock.Any()).Times(0)

	_, err := s.orderService.Create(s.T().Context(), userID, CreateOrderArgs{
		ServiceID: service.ServiceID,
		Link:      "https://example.com/p/1",
		Quantity:  250,
	})

	var fundsErr *domain.InsufficientFundsError
	s.Require().ErrorAs(err, &fundsErr)
	s.True(decimal.NewFromInt(2).Equal(fundsErr.Cost))
	s.True(decimal.NewFromInt(1).Equal(fundsErr.Balance))
}

func (s *OrderServiceTestSuite) TestCreate_QuantityOutOfRange() {
	var userID int64 = 42
	service := catalogService()

	s.expectTxRepos()
	s.expectDo(2)

	s.mockServiceRepo.EXPECT().FindActiveByServiceID(gomock.Any(), service.ServiceID).
		Return(service, nil).Times(2)
	s.mockUserRepo.EXPECT().FindActiveForUpdate(gomock.Any(), gomock.Any()).Times(0)

	for _, quantity := range []int{service.Min - 1, service.Max + 1} {
		_, err := s.orderService.Create(s.T().Context(), userID, CreateOrderArgs{
			ServiceID: service.ServiceID,
			Link:      "https://example.com/p/1",
			Quantity:  quantity,
		})

		var rangeErr *domain.QuantityRangeError
		s.Require().ErrorAs(err, &rangeErr)
		s.Equal(service.Min, rangeErr.Min)
		s.Equal(service.Max, rangeErr.Max)
		s.Equal(quantity, rangeErr.Got)
	}
}

func (s *OrderServiceTestSuite) TestCreate_NonPositiveQuantity() {
	// до транзакции дело не доходит.
	s.mockUOW.EXPECT().Do(gomock.Any(), gomock.Any()).Times(0)

	_, err := s.orderService.Create(s.T().Context(), 1, CreateOrderArgs{
		ServiceID: 101,
		Link:      "https://example.com/p/1",
		Quantity:  0,
	})

	var rangeErr *domain.QuantityRangeError
	s.Require().ErrorAs(err, &rangeErr)
	// верхней границы до чтения каталога нет, текст не должен показывать вывернутый диапазон.
	s.Equal(1, rangeErr.Min)
	s.Equal(0, rangeErr.Max)
	s.Equal("quantity 0 must be at least 1", err.Error())
}

func (s *OrderServiceTestSuite) TestCreate_PersistenceFailure() {
	var userID int64 = 42
	service := catalogService()
	persistErr := errors.New("storage unavailable")

	s.expectTxRepos()
	s.expectDo(1)

	s.mockServiceRepo.EXPECT().FindActiveByServiceID(gomock.Any(), service.ServiceID).
		Return(service, nil)
	s.mockUserRepo.EXPECT().FindActiveForUpdate(gomock.Any(), userID).
		Return(&domain.User{ID: userID, Balance: decimal.NewFromInt(10), Status: domain.UserStatusActive}, nil)

	// списание прошло, но вставка заказа упала: транзакция должна вернуть ошибку целиком.
	s.mockUserRepo.EXPECT().SetBalance(gomock.Any(), gomock.Any()).Return(nil)
	s.mockOrderRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, persistErr)

	// записи журнала и постановки в очередь быть не должно.
	s.mockTransactionRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
	s.mockQueue.EXPECT().Enqueue(gomock.Any()).Times(0)

	_, err := s.orderService.Create(s.T().Context(), userID, CreateOrderArgs{
		ServiceID: service.ServiceID,
		Link:      "https://example.com/p/1",
		Quantity:  1000,
	})
	s.Require().ErrorIs(err, persistErr)
}

func (s *OrderServiceTestSuite) TestCreate_ServiceNotFound() {
	s.expectTxRepos()
	s.expectDo(1)

	s.mockServiceRepo.EXPECT().FindActiveByServiceID(gomock.Any(), int64(999)).
		Return(nil, domain.ErrRecordNotFound)

	_, err := s.orderService.Create(s.T().Context(), 1, CreateOrderArgs{
		ServiceID: 999,
		Link:      "https://example.com/p/1",
		Quantity:  250,
	})
	s.Require().ErrorIs(err, domain.ErrServiceNotFound)
}

func (s *OrderServiceTestSuite) TestCalculateCharge() {
	cases := []struct {
		name       string
		finalPrice decimal.Decimal
		quantity   int
		want       decimal.Decimal
	}{
		{name: "whole thousand", finalPrice: decimal.NewFromInt(8), quantity: 1000, want: decimal.NewFromInt(8)},
		{name: "fraction", finalPrice: decimal.NewFromFloat(1.2), quantity: 250, want: decimal.NewFromFloat(0.3)},
		{
			name:       "exact at money scale",
			finalPrice: decimal.NewFromFloat(0.07),
			quantity:   750,
			want:       decimal.NewFromFloat(0.0525),
		},
		{
			// 0.0001 * 500 / 1000 = 0.00005: ровно половина последнего знака округляется вверх.
			name:       "tie rounds half up to money scale",
			finalPrice: decimal.NewFromFloat(0.0001),
			quantity:   500,
			want:       decimal.NewFromFloat(0.0001),
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			got := CalculateCharge(t.finalPrice, t.quantity)
			s.Truef(t.want.Equal(got), "want %s, got %s", t.want, got)
		})
	}
}

func (s *OrderServiceTestSuite) TestSubmit() {
	order := domain.Order{ID: 7, ServiceID: 101, Link: "https://example.com/p/1", Quantity: 1000}

	s.mockUpstream.EXPECT().AddOrder(gomock.Any(), order.ServiceID, order.Link, order.Quantity).
		Return("55501", nil)
	s.mockOrderRepo.EXPECT().MarkSubmitted(gomock.Any(), repoargs.MarkSubmitted{
		OrderID:    order.ID,
		ExternalID: "55501",
	}).Return(nil)

	externalID, err := s.orderService.Submit(s.T().Context(), order)
	s.Require().NoError(err)
	s.Equal("55501", externalID)
}

func (s *OrderServiceTestSuite) TestSubmit_UpstreamFailure() {
	order := domain.Order{ID: 7, ServiceID: 101, Link: "https://example.com/p/1", Quantity: 1000}

	s.mockUpstream.EXPECT().AddOrder(gomock.Any(), order.ServiceID, order.Link, order.Quantity).
		Return("", client.NewAPIError("temporarily unavailable"))
	// заказ остается Pending, ему лишь проставляется заметка.
	s.mockOrderRepo.EXPECT().SetNotes(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.SetNotes) error {
			s.Equal(order.ID, args.OrderID)
			s.Contains(args.Notes, "Submit failed")
			return nil
		})
	s.mockOrderRepo.EXPECT().MarkSubmitted(gomock.Any(), gomock.Any()).Times(0)

	_, err := s.orderService.Submit(s.T().Context(), order)
	s.Require().Error(err)
}

func (s *OrderServiceTestSuite) TestSubmit_NotEnoughProviderFunds() {
	order := domain.Order{ID: 7, ServiceID: 101, Link: "https://example.com/p/1", Quantity: 1000}

	s.mockUpstream.EXPECT().AddOrder(gomock.Any(), order.ServiceID, order.Link, order.Quantity).
		Return("", client.NewNotEnoughFundsError("not_enough_funds"))
	s.mockOrderRepo.EXPECT().SetNotes(gomock.Any(), repoargs.SetNotes{
		OrderID: order.ID,
		Notes:   "Awaiting resubmission: insufficient funds on provider account",
	}).Return(nil)

	_, err := s.orderService.Submit(s.T().Context(), order)
	s.Require().Error(err)
}

func (s *OrderServiceTestSuite) TestResubmitPending() {
	orders := []domain.Order{
		{ID: 1, ServiceID: 101, Link: "https://example.com/p/1", Quantity: 100},
		{ID: 2, ServiceID: 101, Link: "https://example.com/p/2", Quantity: 200},
		{ID: 3, ServiceID: 102, Link: "https://example.com/p/3", Quantity: 300},
	}

	s.mockOrderRepo.EXPECT().GetUnsubmitted(gomock.Any(), uint(10)).Return(orders, nil)

	// второй заказ падает, остальные два проходят.
	s.mockUpstream.EXPECT().AddOrder(gomock.Any(), int64(101), orders[0].Link, 100).Return("901", nil)
	s.mockUpstream.EXPECT().AddOrder(gomock.Any(), int64(101), orders[1].Link, 200).
		Return("", client.NewStatusCodeError(502))
	s.mockUpstream.EXPECT().AddOrder(gomock.Any(), int64(102), orders[2].Link, 300).Return("903", nil)

	s.mockOrderRepo.EXPECT().MarkSubmitted(gomock.Any(), repoargs.MarkSubmitted{OrderID: 1, ExternalID: "901"}).
		Return(nil)
	s.mockOrderRepo.EXPECT().SetNotes(gomock.Any(), gomock.Any()).Return(nil)
	s.mockOrderRepo.EXPECT().MarkSubmitted(gomock.Any(), repoargs.MarkSubmitted{OrderID: 3, ExternalID: "903"}).
		Return(nil)

	result, err := s.orderService.ResubmitPending(s.T().Context(), 10)
	s.Require().NoError(err)

	s.Equal(3, result.Total)
	s.Equal(2, result.Processed)
	s.Equal(1, result.Failed)
	s.Require().Len(result.Results, 3)
	s.True(result.Results[0].OK)
	s.False(result.Results[1].OK)
	s.True(result.Results[2].OK)
}

func (s *OrderServiceTestSuite) TestResubmitPending_Empty() {
	s.mockOrderRepo.EXPECT().GetUnsubmitted(gomock.Any(), uint(10)).Return([]domain.Order{}, nil)

	result, err := s.orderService.ResubmitPending(s.T().Context(), 10)
	s.Require().NoError(err)
	s.Equal(0, result.Total)
	s.Empty(result.Results)
}

func (s *OrderServiceTestSuite) TestApplyStatusUpdates() {
	startCount := 10
	updates := []StatusUpdateArgs{
		{OrderID: 1, Status: domain.OrderStatusCompleted, StartCount: &startCount},
		{OrderID: 2, Status: domain.OrderStatusPartial},
	}

	s.mockOrderRepo.EXPECT().UpdateStatus(gomock.Any(), repoargs.UpdateStatus{
		OrderID:    1,
		Status:     domain.OrderStatusCompleted,
		StartCount: &startCount,
	}).Return(nil)
	s.mockOrderRepo.EXPECT().UpdateStatus(gomock.Any(), repoargs.UpdateStatus{
		OrderID: 2,
		Status:  domain.OrderStatusPartial,
	}).Return(errors.New("boom"))

	// одна неудача не отменяет остальные обновления, но возвращается ошибкой.
	err := s.orderService.ApplyStatusUpdates(s.T().Context(), updates)
	s.Require().Error(err)
}

func (s *OrderServiceTestSuite) TestGetByID_Ownership() {
	order := &domain.Order{ID: 7, UserID: 42}
	s.mockOrderRepo.EXPECT().FindByID(gomock.Any(), order.ID).Return(order, nil).Times(3)

	// владелец видит свой заказ.
	got, err := s.orderService.GetByID(s.T().Context(), order.ID, 42, false)
	s.Require().NoError(err)
	s.Equal(order.ID, got.ID)

	// чужой заказ не-админу недоступен.
	_, err = s.orderService.GetByID(s.T().Context(), order.ID, 1, false)
	s.Require().ErrorIs(err, domain.ErrOwnerConflict)

	// админ видит любой заказ.
	_, err = s.orderService.GetByID(s.T().Context(), order.ID, 1, true)
	s.Require().NoError(err)
}

func (s *OrderServiceTestSuite) TestCancel() {
	err := s.orderService.Cancel(s.T().Context(), 7)
	s.Require().ErrorIs(err, domain.ErrCancelDisabled)
}

func (s *OrderServiceTestSuite) TestStats() {
	counts := map[domain.OrderStatusType]int64{
		domain.OrderStatusPending:   3,
		domain.OrderStatusCompleted: 10,
	}
	s.mockOrderRepo.EXPECT().CountByStatus(gomock.Any()).Return(counts, nil)

	got, err := s.orderService.Stats(s.T().Context())
	s.Require().NoError(err)
	s.Equal(counts, got)
}
