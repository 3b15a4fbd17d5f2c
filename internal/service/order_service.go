package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/smmpanel/internal/domain"
	"github.com/fsdevblog/smmpanel/internal/repository/repoargs"
	"github.com/fsdevblog/smmpanel/internal/transport/provider/client"
	"github.com/fsdevblog/smmpanel/pkg/uow"
)

// defaultResubmitDelay пауза между последовательными отправками в батче переотправки,
// чтобы не упереться в рейт-лимит провайдера.
const defaultResubmitDelay = 500 * time.Millisecond

var oneThousand = decimal.NewFromInt(1000)

type OrderService struct {
	uow           uow.UOW
	orderRepo     OrderRepository
	upstream      UpstreamClient
	submitQueue   SubmissionQueue
	resubmitDelay time.Duration
}

func NewOrderService(u uow.UOW, upstream UpstreamClient) (*OrderService, error) {
	orderRepo, err := uow.GetRepositoryAs[OrderRepository](u, uow.RepositoryName(repoargs.OrderRepoName))
	if err != nil {
		return nil, err
	}
	return &OrderService{
		uow:           u,
		orderRepo:     orderRepo,
		upstream:      upstream,
		resubmitDelay: defaultResubmitDelay,
	}, nil
}

// SetSubmissionQueue подключает очередь фоновой отправки. Вызывается один раз при сборке
// приложения; без очереди созданные заказы дожидаются батча переотправки.
func (o *OrderService) SetSubmissionQueue(q SubmissionQueue) *OrderService {
	o.submitQueue = q
	return o
}

// SetResubmitDelay меняет паузу между отправками в ResubmitPending.
func (o *OrderService) SetResubmitDelay(d time.Duration) *OrderService {
	o.resubmitDelay = d
	return o
}

type CreateOrderArgs struct {
	ServiceID int64
	Link      string
	Quantity  int
}

// Create проводит покупку: валидирует заказ против каталога и баланса, затем одной
// транзакцией БД списывает баланс, создает заказ и запись журнала.
//
// Порядок проверок (каждая - жесткий отказ без побочных эффектов):
//  1. услуга существует и активна;
//  2. количество в пределах [min, max] услуги;
//  3. аккаунт существует и активен;
//  4. баланса хватает на стоимость заказа.
//
// Снимок услуги и чтение баланса происходят внутри той же транзакции; строка юзера
// блокируется через SELECT FOR UPDATE, поэтому конкурентные заказы одного аккаунта
// не могут пройти проверку баланса по устаревшему значению.
//
// После коммита заказ передается в очередь отправки провайдеру, не дожидаясь результата:
// локальная покупка окончательна, недоступность провайдера не превращается в ошибку Create.
func (o *OrderService) Create(ctx context.Context, userID int64, args CreateOrderArgs) (*domain.Order, error) {
	if args.Quantity <= 0 {
		// лимиты каталога еще неизвестны, Max 0 означает отсутствие верхней границы.
		return nil, domain.NewQuantityRangeError(1, 0, args.Quantity)
	}

	var order *domain.Order

	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		serviceRepo, repoErr := uow.GetAs[ServiceRepository](tx, uow.RepositoryName(repoargs.ServiceRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}
		userRepo, repoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}
		orderRepo, repoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}
		transactionRepo, repoErr := uow.GetAs[TransactionRepository](tx, uow.RepositoryName(repoargs.TransactionRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}

		service, serviceErr := serviceRepo.FindActiveByServiceID(c, args.ServiceID)
		if serviceErr != nil {
			if errors.Is(serviceErr, domain.ErrRecordNotFound) {
				return domain.ErrServiceNotFound
			}
			return serviceErr //nolint:wrapcheck
		}

		if args.Quantity < service.Min || args.Quantity > service.Max {
			return domain.NewQuantityRangeError(service.Min, service.Max, args.Quantity)
		}

		// Блокировка строки юзера: конкурентные списания с одного аккаунта сериализуются здесь.
		user, userErr := userRepo.FindActiveForUpdate(c, userID)
		if userErr != nil {
			if errors.Is(userErr, domain.ErrRecordNotFound) {
				return domain.ErrAccountUnavailable
			}
			return userErr //nolint:wrapcheck
		}

		cost := CalculateCharge(service.FinalPrice, args.Quantity)
		if user.Balance.LessThan(cost) {
			return domain.NewInsufficientFundsError(cost, user.Balance)
		}
		newBalance := user.Balance.Sub(cost)

		if balanceErr := userRepo.SetBalance(c, repoargs.SetBalance{
			UserID:  userID,
			Balance: newBalance,
		}); balanceErr != nil {
			return balanceErr //nolint:wrapcheck
		}

		var createErr error
		order, createErr = orderRepo.Create(c, repoargs.CreateOrder{
			UserID:    userID,
			ServiceID: args.ServiceID,
			Link:      args.Link,
			Quantity:  args.Quantity,
			Charge:    cost,
			LocalRef:  newLocalRef(),
		})
		if createErr != nil {
			return createErr //nolint:wrapcheck
		}

		if _, tErr := transactionRepo.Create(c, repoargs.CreateTransaction{
			UserID:        userID,
			Kind:          domain.TransactionKindCharge,
			Amount:        cost.Neg(),
			BalanceBefore: user.Balance,
			BalanceAfter:  newBalance,
			Description:   fmt.Sprintf("Order #%d", order.ID),
			OrderID:       &order.ID,
		}); tErr != nil {
			return tErr //nolint:wrapcheck
		}

		return nil
	})

	if txErr != nil {
		return nil, fmt.Errorf("creating order: %w", txErr)
	}

	// Отправка провайдеру строго после коммита и без ожидания результата.
	if o.submitQueue != nil {
		o.submitQueue.Enqueue(*order)
	}

	return order, nil
}

// CalculateCharge стоимость заказа: (quantity / 1000) * finalPrice, округление
// half-up до domain.MoneyScale знаков.
func CalculateCharge(finalPrice decimal.Decimal, quantity int) decimal.Decimal {
	return finalPrice.
		Mul(decimal.NewFromInt(int64(quantity))).
		Div(oneThousand).
		Round(domain.MoneyScale)
}

// Submit регистрирует уже закоммиченный заказ у провайдера, одна попытка.
//
// Успех: заказ получает внешний id, статус "In progress" и очищенные заметки.
// Неудача: заказ остается Pending с диагностической заметкой и будет переотправлен позже.
// Локальный заказ и списанный баланс не откатываются ни в одном из случаев.
func (o *OrderService) Submit(ctx context.Context, order domain.Order) (string, error) {
	externalID, addErr := o.upstream.AddOrder(ctx, order.ServiceID, order.Link, order.Quantity)
	if addErr != nil {
		note := submitFailureNote(addErr)
		if notesErr := o.orderRepo.SetNotes(ctx, repoargs.SetNotes{
			OrderID: order.ID,
			Notes:   note,
		}); notesErr != nil {
			return "", errors.Join(addErr, notesErr)
		}
		return "", fmt.Errorf("submitting order %d: %w", order.ID, addErr)
	}

	if markErr := o.orderRepo.MarkSubmitted(ctx, repoargs.MarkSubmitted{
		OrderID:    order.ID,
		ExternalID: externalID,
	}); markErr != nil {
		return "", fmt.Errorf("submitting order %d: %w", order.ID, markErr)
	}
	return externalID, nil
}

// submitFailureNote текст заметки на заказе после неудачной отправки. Нехватка средств
// на счете у провайдера - ожидаемая операционная ситуация, для нее отдельная формулировка.
func submitFailureNote(err error) string {
	var notEnough *client.NotEnoughFundsError
	if errors.As(err, &notEnough) {
		return "Awaiting resubmission: insufficient funds on provider account"
	}
	return "Submit failed: " + err.Error()
}

type OrderSubmitResult struct {
	OrderID    int64  `json:"id"`
	ExternalID string `json:"external_id,omitempty"`
	OK         bool   `json:"ok"`
	Detail     string `json:"detail,omitempty"`
}

type BatchResult struct {
	Total     int                 `json:"total"`
	Processed int                 `json:"processed"`
	Failed    int                 `json:"failed"`
	Results   []OrderSubmitResult `json:"results"`
}

// ResubmitPending батч переотправки: до limit заказов со статусом Pending без внешнего id,
// старые первыми, последовательно с паузой между вызовами провайдера. Результат каждого
// заказа независим - ошибка одного не прерывает батч.
func (o *OrderService) ResubmitPending(ctx context.Context, limit uint) (*BatchResult, error) {
	orders, ordersErr := o.orderRepo.GetUnsubmitted(ctx, limit)
	if ordersErr != nil {
		return nil, fmt.Errorf("resubmitting pending orders: %w", ordersErr)
	}

	result := &BatchResult{
		Total:   len(orders),
		Results: make([]OrderSubmitResult, 0, len(orders)),
	}

	for i, order := range orders {
		externalID, submitErr := o.Submit(ctx, order)
		if submitErr != nil {
			result.Failed++
			result.Results = append(result.Results, OrderSubmitResult{
				OrderID: order.ID,
				OK:      false,
				Detail:  submitErr.Error(),
			})
		} else {
			result.Processed++
			result.Results = append(result.Results, OrderSubmitResult{
				OrderID:    order.ID,
				ExternalID: externalID,
				OK:         true,
			})
		}

		if i == len(orders)-1 {
			break
		}
		select {
		case <-ctx.Done():
			return result, ctx.Err() //nolint:wrapcheck
		case <-time.After(o.resubmitDelay):
		}
	}

	return result, nil
}

// OrdersForStatusSync возвращает заказы, подлежащие синхронизации статуса с провайдером.
func (o *OrderService) OrdersForStatusSync(ctx context.Context, limit uint) ([]domain.Order, error) {
	orders, err := o.orderRepo.GetForStatusSync(ctx, limit)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return orders, nil
}

type StatusUpdateArgs struct {
	OrderID    int64
	Status     domain.OrderStatusType
	StartCount *int
	Remains    *int
}

// ApplyStatusUpdates записывает статусы, полученные от провайдера, как есть. Каждое
// обновление независимо; ошибки собираются и возвращаются одной.
// Charge и баланс здесь не трогаются никогда.
func (o *OrderService) ApplyStatusUpdates(ctx context.Context, updates []StatusUpdateArgs) error {
	var errs []error
	for _, update := range updates {
		if err := o.orderRepo.UpdateStatus(ctx, repoargs.UpdateStatus{
			OrderID:    update.OrderID,
			Status:     update.Status,
			StartCount: update.StartCount,
			Remains:    update.Remains,
		}); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("applying status updates: %w", errors.Join(errs...))
	}
	return nil
}

// GetByID возвращает заказ. Не-админ видит только собственные заказы, чужой заказ
// возвращает domain.ErrOwnerConflict.
func (o *OrderService) GetByID(ctx context.Context, orderID int64, requesterID int64, isAdmin bool) (*domain.Order, error) {
	order, err := o.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if !isAdmin && order.UserID != requesterID {
		return nil, domain.ErrOwnerConflict
	}
	return order, nil
}

// List возвращает заказы юзера (или всех юзеров при args.UserID == 0, админский режим).
func (o *OrderService) List(ctx context.Context, args repoargs.ListOrders) ([]domain.Order, error) {
	orders, err := o.orderRepo.List(ctx, args)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return orders, nil
}

// Stats возвращает кол-во заказов по каждому статусу и общий итог.
func (o *OrderService) Stats(ctx context.Context) (map[domain.OrderStatusType]int64, error) {
	counts, err := o.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting order stats: %w", err)
	}
	return counts, nil
}

// Cancel отмена заказов отключена намеренно: возврат средств выполняется только
// административной корректировкой баланса.
func (o *OrderService) Cancel(_ context.Context, _ int64) error {
	return domain.ErrCancelDisabled
}
