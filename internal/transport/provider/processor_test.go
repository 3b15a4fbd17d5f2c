package provider

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/fsdevblog/smmpanel/internal/domain"
	"github.com/fsdevblog/smmpanel/internal/service"
	"github.com/fsdevblog/smmpanel/internal/transport/provider/client"
	"github.com/fsdevblog/smmpanel/internal/transport/provider/mocks"
	"github.com/golang/mock/gomock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

type ProcessorTestSuite struct {
	suite.Suite
	processor  *Processor
	mockClient *mocks.MockClient
	mockSvs    *mocks.MockSyncServicer
	ctrl       *gomock.Controller
}

func (s *ProcessorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.mockClient = mocks.NewMockClient(s.ctrl)
	s.mockSvs = mocks.NewMockSyncServicer(s.ctrl)

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	s.processor = NewProcessor(s.mockSvs, s.mockClient, logger).SetSyncWorkers(2)
}

func (s *ProcessorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestProcessorSuite(t *testing.T) {
	suite.Run(t, new(ProcessorTestSuite))
}

func extID(v string) *string {
	return &v
}

// TestProcess_NoOrders Тест на случай, когда нет заказов для синхронизации.
func (s *ProcessorTestSuite) TestProcess_NoOrders() {
	s.mockSvs.EXPECT().
		OrdersForStatusSync(gomock.Any(), s.processor.limitPerIteration).
		Return([]domain.Order{}, nil)

	err := s.processor.process(s.T().Context())

	s.ErrorIs(err, ErrNoOrders)
}

// TestSyncOnce_NoOrders Тест на то, что внеплановая итерация без заказов не считается ошибкой.
func (s *ProcessorTestSuite) TestSyncOnce_NoOrders() {
	s.mockSvs.EXPECT().
		OrdersForStatusSync(gomock.Any(), s.processor.limitPerIteration).
		Return([]domain.Order{}, nil)

	s.NoError(s.processor.SyncOnce(s.T().Context()))
}

// TestProcess_Success Тест на запись изменившихся статусов.
func (s *ProcessorTestSuite) TestProcess_Success() {
	testOrders := []domain.Order{
		{ID: 1, UserID: 100, Status: domain.OrderStatusInProgress, ExternalID: extID("9001")},
		{ID: 2, UserID: 101, Status: domain.OrderStatusInProgress, ExternalID: extID("9002")},
	}

	startCount := 150
	remains := 0

	s.mockSvs.EXPECT().
		OrdersForStatusSync(gomock.Any(), s.processor.limitPerIteration).
		Return(testOrders, nil)

	s.mockClient.EXPECT().
		OrderStatus(gomock.Any(), "9001").
		Return(&client.StatusResponse{
			Status:     string(domain.OrderStatusCompleted),
			StartCount: &startCount,
			Remains:    &remains,
		}, nil)
	s.mockClient.EXPECT().
		OrderStatus(gomock.Any(), "9002").
		Return(&client.StatusResponse{Status: string(domain.OrderStatusPartial)}, nil)

	s.mockSvs.EXPECT().
		ApplyStatusUpdates(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, updates []service.StatusUpdateArgs) {
			s.Require().Len(updates, 2)

			var foundFirstUpdate bool
			var foundSecondUpdate bool

			for _, update := range updates {
				if update.OrderID == 1 {
					s.Equal(domain.OrderStatusCompleted, update.Status)
					s.Require().NotNil(update.StartCount)
					s.Equal(150, *update.StartCount)
					s.Require().NotNil(update.Remains)
					s.Equal(0, *update.Remains)
					foundFirstUpdate = true
				}

				if update.OrderID == 2 {
					s.Equal(domain.OrderStatusPartial, update.Status)
					s.Nil(update.StartCount)
					foundSecondUpdate = true
				}
			}

			s.Truef(foundFirstUpdate, "Не найдено обновление для заказа с ID=%d", 1)
			s.Truef(foundSecondUpdate, "Не найдено обновление для заказа с ID=%d", 2)
		}).
		Return(nil)

	ctx, cancel := context.WithTimeout(s.T().Context(), time.Second)
	defer cancel()
	err := s.processor.process(ctx)
	s.NoError(err)
}

// TestProcess_SkipsUnchangedAndErrored Тест на пропуск неизменившихся статусов и ошибок опроса.
func (s *ProcessorTestSuite) TestProcess_SkipsUnchangedAndErrored() {
	testOrders := []domain.Order{
		{ID: 1, Status: domain.OrderStatusInProgress, ExternalID: extID("9001")},
		{ID: 2, Status: domain.OrderStatusInProgress, ExternalID: extID("9002")},
		{ID: 3, Status: domain.OrderStatusInProgress, ExternalID: extID("9003")},
	}

	s.mockSvs.EXPECT().
		OrdersForStatusSync(gomock.Any(), s.processor.limitPerIteration).
		Return(testOrders, nil)

	// Статус не изменился.
	s.mockClient.EXPECT().
		OrderStatus(gomock.Any(), "9001").
		Return(&client.StatusResponse{Status: string(domain.OrderStatusInProgress)}, nil)
	// Ошибка опроса: заказ ждет следующей итерации.
	s.mockClient.EXPECT().
		OrderStatus(gomock.Any(), "9002").
		Return(nil, client.NewStatusCodeError(http.StatusBadGateway))
	s.mockClient.EXPECT().
		OrderStatus(gomock.Any(), "9003").
		Return(&client.StatusResponse{Status: string(domain.OrderStatusCompleted)}, nil)

	s.mockSvs.EXPECT().
		ApplyStatusUpdates(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, updates []service.StatusUpdateArgs) {
			s.Require().Len(updates, 1)
			s.Equal(int64(3), updates[0].OrderID)
			s.Equal(domain.OrderStatusCompleted, updates[0].Status)
		}).
		Return(nil)

	ctx, cancel := context.WithTimeout(s.T().Context(), time.Second)
	defer cancel()
	err := s.processor.process(ctx)
	s.NoError(err)
}

// TestProcess_ApplyUpdatesError Тест на то, что ошибка записи статусов доступна вызывающему
// через цепочку errors.Is.
func (s *ProcessorTestSuite) TestProcess_ApplyUpdatesError() {
	applyErr := errors.New("storage unavailable")

	testOrders := []domain.Order{
		{ID: 1, Status: domain.OrderStatusInProgress, ExternalID: extID("9001")},
	}

	s.mockSvs.EXPECT().
		OrdersForStatusSync(gomock.Any(), s.processor.limitPerIteration).
		Return(testOrders, nil)
	s.mockClient.EXPECT().
		OrderStatus(gomock.Any(), "9001").
		Return(&client.StatusResponse{Status: string(domain.OrderStatusCompleted)}, nil)
	s.mockSvs.EXPECT().
		ApplyStatusUpdates(gomock.Any(), gomock.Any()).
		Return(applyErr)

	ctx, cancel := context.WithTimeout(s.T().Context(), time.Second)
	defer cancel()
	err := s.processor.process(ctx)
	s.Require().ErrorIs(err, applyErr)
}

// TestProcess_NothingToUpdate Тест на итерацию без единого изменившегося статуса.
func (s *ProcessorTestSuite) TestProcess_NothingToUpdate() {
	testOrders := []domain.Order{
		{ID: 1, Status: domain.OrderStatusInProgress, ExternalID: extID("9001")},
	}

	s.mockSvs.EXPECT().
		OrdersForStatusSync(gomock.Any(), s.processor.limitPerIteration).
		Return(testOrders, nil)
	s.mockClient.EXPECT().
		OrderStatus(gomock.Any(), "9001").
		Return(&client.StatusResponse{Status: string(domain.OrderStatusInProgress)}, nil)
	s.mockSvs.EXPECT().
		ApplyStatusUpdates(gomock.Any(), gomock.Any()).
		Times(0)

	ctx, cancel := context.WithTimeout(s.T().Context(), time.Second)
	defer cancel()
	err := s.processor.process(ctx)
	s.NoError(err)
}

// TestProcess_MissingExternalID Тест на то, что заказ без внешнего id пропускается без обновления.
func (s *ProcessorTestSuite) TestProcess_MissingExternalID() {
	testOrders := []domain.Order{
		{ID: 1, Status: domain.OrderStatusInProgress},
	}

	s.mockSvs.EXPECT().
		OrdersForStatusSync(gomock.Any(), s.processor.limitPerIteration).
		Return(testOrders, nil)
	s.mockSvs.EXPECT().
		ApplyStatusUpdates(gomock.Any(), gomock.Any()).
		Times(0)

	ctx, cancel := context.WithTimeout(s.T().Context(), time.Second)
	defer cancel()
	err := s.processor.process(ctx)
	s.NoError(err)
}
