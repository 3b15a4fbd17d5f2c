// Package provider содержит фоновые воркфлоу интеграции с API провайдера: очередь
// отправки новых заказов, синхронизацию статусов и синхронизацию каталога услуг.
package provider

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/smmpanel/internal/domain"
)

const (
	defaultSubmitQueueSize      = 256
	defaultSubmitWorkers   uint = 2
	defaultSubmitTimeout        = 20 * time.Second
)

// Submitter ограниченная очередь фоновой отправки заказов провайдеру. Одна постановка
// в очередь - одна попытка отправки; результат фиксируется сервисным слоем на самом
// заказе, ретраи делает батч переотправки.
type Submitter struct {
	svs           SubmitServicer
	l             *logrus.Entry
	queue         chan domain.Order
	workers       uint
	submitTimeout time.Duration
}

func NewSubmitter(svs SubmitServicer, l *logrus.Logger) *Submitter {
	return &Submitter{
		svs: svs,
		l: l.WithFields(logrus.Fields{
			"component": "provider",
			"module":    "submitter",
		}),
		queue:         make(chan domain.Order, defaultSubmitQueueSize),
		workers:       defaultSubmitWorkers,
		submitTimeout: defaultSubmitTimeout,
	}
}

// SetWorkers устанавливает кол-во воркеров, разбирающих очередь.
func (s *Submitter) SetWorkers(workers uint) *Submitter {
	s.workers = workers
	return s
}

// Enqueue ставит заказ в очередь отправки, никогда не блокируя вызывающего.
// Переполненная очередь - не ошибка: заказ остается Pending и его подберет
// батч переотправки.
func (s *Submitter) Enqueue(order domain.Order) {
	select {
	case s.queue <- order:
	default:
		s.l.WithField("orderID", order.ID).Warn("submission queue is full, order stays pending")
	}
}

// Run запускает воркеров и блокируется до отмены контекста.
func (s *Submitter) Run(ctx context.Context) {
	s.l.WithField("workers", s.workers).Info("Starting")

	wg := new(sync.WaitGroup)
	wg.Add(int(s.workers)) //nolint:gosec

	for i := range s.workers {
		go s.worker(ctx, wg, i+1)
	}
	wg.Wait()

	s.l.Info("Got stop signal, exiting...")
}

func (s *Submitter) worker(ctx context.Context, wg *sync.WaitGroup, workerID uint) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case order := <-s.queue:
			s.submit(ctx, workerID, order)
		}
	}
}

func (s *Submitter) submit(ctx context.Context, workerID uint, order domain.Order) {
	reqCtx, cancel := context.WithTimeout(ctx, s.submitTimeout)
	defer cancel()

	l := s.l.WithFields(logrus.Fields{
		"worker":  workerID,
		"orderID": order.ID,
	})

	externalID, err := s.svs.Submit(reqCtx, order)
	if err != nil {
		// Ошибка поглощается: покупка уже состоялась, заказ остался Pending с заметкой.
		l.WithError(err).Warn("submit attempt failed, order left pending")
		return
	}
	l.WithField("externalID", externalID).Info("order submitted")
}
