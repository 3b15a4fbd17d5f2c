package pgrepo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/fsdevblog/smmpanel/internal/domain"
	"github.com/fsdevblog/smmpanel/internal/repository/repoargs"
	"github.com/fsdevblog/smmpanel/pkg/uow"
)

const orderColumns = `id, created_at, updated_at, user_id, service_id, link, quantity, charge,
	local_ref, external_id, status, start_count, remains, notes`

type OrderRepository struct {
	db uow.DBTX
}

func NewOrderRepository(db uow.DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

func (o *OrderRepository) Create(ctx context.Context, args repoargs.CreateOrder) (*domain.Order, error) {
	row := o.db.QueryRow(ctx, `
		INSERT INTO orders (user_id, service_id, link, quantity, charge, local_ref, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+orderColumns,
		args.UserID, args.ServiceID, args.Link, args.Quantity, args.Charge,
		args.LocalRef, domain.OrderStatusPending)

	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "creating order with local ref `%s`", args.LocalRef)
	}
	return order, nil
}

func (o *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	row := o.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)

	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "finding order by id %d", id)
	}
	return order, nil
}

// List возвращает заказы, отсортированные по дате создания по убыванию. Нулевой UserID
// означает выборку по всем юзерам, пустой Status - без фильтра по статусу.
func (o *OrderRepository) List(ctx context.Context, args repoargs.ListOrders) ([]domain.Order, error) {
	rows, err := o.db.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE ($1 = 0 OR user_id = $1)
		  AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`,
		args.UserID, string(args.Status), int64(args.Limit), int64(args.Offset))
	if err != nil {
		return nil, convertErr(err, "listing orders for user %d", args.UserID)
	}
	defer rows.Close()

	return collectOrders(rows)
}

// GetUnsubmitted возвращает заказы, так и не принятые провайдером: статус Pending
// и отсутствующий внешний id. Старые заказы идут первыми.
func (o *OrderRepository) GetUnsubmitted(ctx context.Context, limit uint) ([]domain.Order, error) {
	rows, err := o.db.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE status = $1 AND external_id IS NULL
		ORDER BY created_at ASC
		LIMIT $2`,
		domain.OrderStatusPending, int64(limit))
	if err != nil {
		return nil, convertErr(err, "getting unsubmitted orders")
	}
	defer rows.Close()

	return collectOrders(rows)
}

// GetForStatusSync возвращает заказы с известным внешним id в незавершенных статусах.
func (o *OrderRepository) GetForStatusSync(ctx context.Context, limit uint) ([]domain.Order, error) {
	rows, err := o.db.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE external_id IS NOT NULL AND status = ANY($1)
		ORDER BY created_at ASC
		LIMIT $2`,
		[]string{
			string(domain.OrderStatusPending),
			string(domain.OrderStatusInProgress),
			string(domain.OrderStatusProcessing),
		},
		int64(limit))
	if err != nil {
		return nil, convertErr(err, "getting orders for status sync")
	}
	defer rows.Close()

	return collectOrders(rows)
}

// CountByStatus возвращает кол-во заказов в разбивке по статусам.
func (o *OrderRepository) CountByStatus(ctx context.Context) (map[domain.OrderStatusType]int64, error) {
	rows, err := o.db.Query(ctx, `SELECT status, count(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, convertErr(err, "counting orders by status")
	}
	defer rows.Close()

	counts := make(map[domain.OrderStatusType]int64)
	for rows.Next() {
		var status string
		var count int64
		if scanErr := rows.Scan(&status, &count); scanErr != nil {
			return nil, convertErr(scanErr, "counting orders by status")
		}
		counts[domain.OrderStatusType(status)] = count
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "counting orders by status")
	}
	return counts, nil
}

// MarkSubmitted фиксирует успешную отправку провайдеру: внешний id, статус "In progress",
// очищенные заметки.
func (o *OrderRepository) MarkSubmitted(ctx context.Context, args repoargs.MarkSubmitted) error {
	tag, err := o.db.Exec(ctx, `
		UPDATE orders
		SET external_id = $1, status = $2, notes = NULL, updated_at = now()
		WHERE id = $3`,
		args.ExternalID, domain.OrderStatusInProgress, args.OrderID)
	if err != nil {
		return convertErr(err, "marking order %d submitted", args.OrderID)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "marking order %d submitted", args.OrderID)
	}
	return nil
}

func (o *OrderRepository) SetNotes(ctx context.Context, args repoargs.SetNotes) error {
	tag, err := o.db.Exec(ctx, `
		UPDATE orders SET notes = $1, updated_at = now()
		WHERE id = $2`,
		args.Notes, args.OrderID)
	if err != nil {
		return convertErr(err, "setting notes on order %d", args.OrderID)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "setting notes on order %d", args.OrderID)
	}
	return nil
}

// UpdateStatus записывает статус, полученный от провайдера, как есть. Нулевые StartCount
// и Remains оставляют прежние значения.
func (o *OrderRepository) UpdateStatus(ctx context.Context, args repoargs.UpdateStatus) error {
	tag, err := o.db.Exec(ctx, `
		UPDATE orders
		SET status      = $1,
		    start_count = COALESCE($2, start_count),
		    remains     = COALESCE($3, remains),
		    updated_at  = now()
		WHERE id = $4`,
		args.Status, args.StartCount, args.Remains, args.OrderID)
	if err != nil {
		return convertErr(err, "updating status of order %d", args.OrderID)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "updating status of order %d", args.OrderID)
	}
	return nil
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		order, scanErr := scanOrder(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning order row")
		}
		orders = append(orders, *order)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "iterating order rows")
	}
	return orders, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID,
		&order.CreatedAt,
		&order.UpdatedAt,
		&order.UserID,
		&order.ServiceID,
		&order.Link,
		&order.Quantity,
		&order.Charge,
		&order.LocalRef,
		&order.ExternalID,
		&order.Status,
		&order.StartCount,
		&order.Remains,
		&order.Notes,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &order, nil
}
