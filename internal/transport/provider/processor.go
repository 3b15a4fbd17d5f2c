package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/smmpanel/internal/domain"
	"github.com/fsdevblog/smmpanel/internal/service"
)

const (
	defaultServiceTimeout         = 3 * time.Second
	defaultAPITimeout             = 15 * time.Second
	defaultSyncInterval           = 30 * time.Second
	defaultLimitPerIteration uint = 100
	defaultSyncWorkers       uint = 5
)

var ErrNoOrders = errors.New("no orders")

// Processor синхронизация статусов: периодически опрашивает провайдера по заказам
// с известным внешним id и записывает изменившиеся статусы локально. Charge и баланс
// не трогает никогда.
type Processor struct {
	client            Client
	svs               SyncServicer
	l                 *logrus.Entry
	interval          time.Duration
	limitPerIteration uint
	syncWorkers       uint
}

func NewProcessor(svs SyncServicer, apiClient Client, l *logrus.Logger) *Processor {
	return &Processor{
		svs:    svs,
		client: apiClient,
		l: l.WithFields(logrus.Fields{
			"component": "provider",
			"module":    "processor",
		}),
		interval:          defaultSyncInterval,
		limitPerIteration: defaultLimitPerIteration,
		syncWorkers:       defaultSyncWorkers,
	}
}

// SetInterval устанавливает паузу между итерациями синхронизации.
func (p *Processor) SetInterval(interval time.Duration) *Processor {
	p.interval = interval
	return p
}

// SetLimitPerIteration устанавливает кол-во заказов, обрабатываемых за одну итерацию.
func (p *Processor) SetLimitPerIteration(limit uint) *Processor {
	p.limitPerIteration = limit
	return p
}

// SetSyncWorkers устанавливает кол-во воркеров, опрашивающих провайдера.
func (p *Processor) SetSyncWorkers(workers uint) *Processor {
	p.syncWorkers = workers
	return p
}

// Run запускает цикл синхронизации до отмены контекста.
func (p *Processor) Run(ctx context.Context) {
	p.l.WithFields(logrus.Fields{
		"interval":          p.interval.String(),
		"limitPerIteration": p.limitPerIteration,
		"syncWorkers":       p.syncWorkers,
	}).Info("Starting")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.l.Info("Got stop signal, exiting...")
			return
		case <-ticker.C:
			if err := p.process(ctx); err != nil && !errors.Is(err, ErrNoOrders) {
				p.l.WithError(err).Error("status sync iteration failed")
			}
		}
	}
}

// SyncOnce выполняет одну итерацию синхронизации вне расписания. Отсутствие заказов
// для синхронизации ошибкой не считается.
func (p *Processor) SyncOnce(ctx context.Context) error {
	if err := p.process(ctx); err != nil && !errors.Is(err, ErrNoOrders) {
		return err
	}
	return nil
}

// process одна итерация: выборка заказов, параллельный опрос провайдера, запись
// изменившихся статусов.
func (p *Processor) process(ctx context.Context) error {
	orders, ordersErr := p.produce(ctx)
	if ordersErr != nil {
		return fmt.Errorf("process: %w", ordersErr)
	}

	results := p.runWorkers(ctx, orders)

	var updates = make([]service.StatusUpdateArgs, 0, len(results))
	for _, result := range results {
		if result.Error != nil {
			// Опрос конкретного заказа не удался: пропускаем, следующая итерация повторит.
			continue
		}
		if result.Status == result.Order.Status {
			continue
		}
		updates = append(updates, service.StatusUpdateArgs{
			OrderID:    result.Order.ID,
			Status:     result.Status,
			StartCount: result.StartCount,
			Remains:    result.Remains,
		})
	}
	if len(updates) == 0 {
		return nil
	}

	reqCtx, cancel := context.WithTimeout(ctx, defaultServiceTimeout)
	defer cancel()

	if updErr := p.svs.ApplyStatusUpdates(reqCtx, updates); updErr != nil {
		return fmt.Errorf("process: %w", updErr)
	}
	return nil
}

type workerResult struct {
	WorkerID   uint
	Order      *domain.Order
	Error      error
	Status     domain.OrderStatusType
	StartCount *int
	Remains    *int
}

// runWorkers fan-out/fan-in: раздает заказы воркерам и собирает результаты опроса.
func (p *Processor) runWorkers(ctx context.Context, orders []domain.Order) []workerResult {
	var taskCh = make(chan *domain.Order, len(orders))
	for _, order := range orders {
		taskCh <- &order
	}
	close(taskCh)

	wg := new(sync.WaitGroup)
	wg.Add(int(p.syncWorkers)) //nolint:gosec

	var resultCh = make(chan *workerResult, len(orders))

	for i := range p.syncWorkers {
		go p.worker(ctx, wg, i+1, taskCh, resultCh)
	}
	wg.Wait()
	close(resultCh)

	var results = make([]workerResult, 0, len(orders))
	for result := range resultCh {
		l := p.l.WithFields(logrus.Fields{
			"worker":  result.WorkerID,
			"orderID": result.Order.ID,
		})
		if result.Error != nil {
			l.WithError(result.Error).Error("get order status")
		} else {
			l.WithField("status", result.Status).Debug("order status fetched")
		}
		results = append(results, *result)
	}
	return results
}

func (p *Processor) worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	workerID uint,
	taskCh <-chan *domain.Order,
	resultCh chan<- *workerResult,
) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-taskCh:
			if !ok {
				return
			}
			resultCh <- p.processWorkerTask(ctx, workerID, task)
		}
	}
}

func (p *Processor) processWorkerTask(ctx context.Context, workerID uint, task *domain.Order) *workerResult {
	result := workerResult{
		WorkerID: workerID,
		Order:    task,
	}

	if task.ExternalID == nil {
		result.Error = fmt.Errorf("order %d has no external id", task.ID)
		return &result
	}

	reqCtx, cancel := context.WithTimeout(ctx, defaultAPITimeout)
	defer cancel()

	resp, err := p.client.OrderStatus(reqCtx, *task.ExternalID)
	if err != nil {
		result.Error = err
		return &result
	}

	result.Status = domain.OrderStatusType(resp.Status)
	result.StartCount = resp.StartCount
	result.Remains = resp.Remains
	return &result
}

// produce выборка заказов для синхронизации. Возвращает ErrNoOrders, если заказов нет.
func (p *Processor) produce(ctx context.Context) ([]domain.Order, error) {
	produceCtx, cancel := context.WithTimeout(ctx, defaultServiceTimeout)
	defer cancel()

	orders, ordersErr := p.svs.OrdersForStatusSync(produceCtx, p.limitPerIteration)
	if ordersErr != nil {
		return nil, fmt.Errorf("produce: %w", ordersErr)
	}
	if len(orders) == 0 {
		return nil, ErrNoOrders
	}
	return orders, nil
}
