package provider

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/fsdevblog/smmpanel/internal/domain"
	"github.com/fsdevblog/smmpanel/internal/transport/provider/mocks"
	"github.com/golang/mock/gomock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

type SubmitterTestSuite struct {
	suite.Suite
	submitter *Submitter
	mockSvs   *mocks.MockSubmitServicer
	ctrl      *gomock.Controller
}

func (s *SubmitterTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockSvs = mocks.NewMockSubmitServicer(s.ctrl)

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	s.submitter = NewSubmitter(s.mockSvs, logger).SetWorkers(1)
}

func (s *SubmitterTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestSubmitterSuite(t *testing.T) {
	suite.Run(t, new(SubmitterTestSuite))
}

// TestRun_SubmitsQueuedOrder Тест на отправку заказа из очереди воркером.
func (s *SubmitterTestSuite) TestRun_SubmitsQueuedOrder() {
	order := domain.Order{ID: 1, UserID: 100, Status: domain.OrderStatusPending}

	submitted := make(chan struct{})
	s.mockSvs.EXPECT().
		Submit(gomock.Any(), order).
		DoAndReturn(func(_ context.Context, _ domain.Order) (string, error) {
			close(submitted)
			return "55501", nil
		})

	ctx, cancel := context.WithCancel(s.T().Context())
	done := make(chan struct{})
	go func() {
		s.submitter.Run(ctx)
		close(done)
	}()

	s.submitter.Enqueue(order)

	select {
	case <-submitted:
	case <-time.After(time.Second):
		s.Fail("order was not submitted in time")
	}

	cancel()
	<-done
}

// TestRun_AbsorbsSubmitError Тест на то, что ошибка отправки не останавливает воркера.
func (s *SubmitterTestSuite) TestRun_AbsorbsSubmitError() {
	failing := domain.Order{ID: 1, Status: domain.OrderStatusPending}
	next := domain.Order{ID: 2, Status: domain.OrderStatusPending}

	submitted := make(chan struct{})
	gomock.InOrder(
		s.mockSvs.EXPECT().
			Submit(gomock.Any(), failing).
			Return("", errors.New("provider unavailable")),
		s.mockSvs.EXPECT().
			Submit(gomock.Any(), next).
			DoAndReturn(func(_ context.Context, _ domain.Order) (string, error) {
				close(submitted)
				return "55502", nil
			}),
	)

	ctx, cancel := context.WithCancel(s.T().Context())
	done := make(chan struct{})
	go func() {
		s.submitter.Run(ctx)
		close(done)
	}()

	s.submitter.Enqueue(failing)
	s.submitter.Enqueue(next)

	select {
	case <-submitted:
	case <-time.After(time.Second):
		s.Fail("worker did not survive a failed submit")
	}

	cancel()
	<-done
}

// TestEnqueue_FullQueueDoesNotBlock Тест на неблокирующую постановку в переполненную очередь.
func (s *SubmitterTestSuite) TestEnqueue_FullQueueDoesNotBlock() {
	// Воркеры не запущены, очередь никто не разбирает.
	for i := range defaultSubmitQueueSize + 10 {
		s.submitter.Enqueue(domain.Order{ID: int64(i + 1)})
	}

	// Лишние заказы отброшены, в очереди ровно ее емкость.
	s.Len(s.submitter.queue, defaultSubmitQueueSize)
}
