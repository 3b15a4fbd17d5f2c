package pgrepo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/fsdevblog/smmpanel/internal/domain"
	"github.com/fsdevblog/smmpanel/internal/repository/repoargs"
	"github.com/fsdevblog/smmpanel/pkg/uow"
)

const serviceColumns = `id, created_at, updated_at, service_id, name, category, type,
	min_quantity, max_quantity, rate, markup_percent, final_price, active`

type ServiceRepository struct {
	db uow.DBTX
}

func NewServiceRepository(db uow.DBTX) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (s *ServiceRepository) FindActiveByServiceID(ctx context.Context, serviceID int64) (*domain.Service, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+serviceColumns+` FROM services
		WHERE service_id = $1 AND active = TRUE`,
		serviceID)

	service, err := scanService(row)
	if err != nil {
		return nil, convertErr(err, "finding active service %d", serviceID)
	}
	return service, nil
}

func (s *ServiceRepository) GetActive(ctx context.Context) ([]domain.Service, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+serviceColumns+` FROM services
		WHERE active = TRUE
		ORDER BY category, name`)
	if err != nil {
		return nil, convertErr(err, "getting active services")
	}
	defer rows.Close()

	var services []domain.Service
	for rows.Next() {
		service, scanErr := scanService(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning service row")
		}
		services = append(services, *service)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "iterating service rows")
	}
	return services, nil
}

// Upsert вставляет услугу каталога или обновляет существующую по service_id.
// Обновленная услуга снова становится активной.
func (s *ServiceRepository) Upsert(ctx context.Context, args repoargs.UpsertService) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO services (service_id, name, category, type, min_quantity, max_quantity,
		                      rate, markup_percent, final_price, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE)
		ON CONFLICT (service_id) DO UPDATE
		SET name           = EXCLUDED.name,
		    category       = EXCLUDED.category,
		    type           = EXCLUDED.type,
		    min_quantity   = EXCLUDED.min_quantity,
		    max_quantity   = EXCLUDED.max_quantity,
		    rate           = EXCLUDED.rate,
		    markup_percent = EXCLUDED.markup_percent,
		    final_price    = EXCLUDED.final_price,
		    active         = TRUE,
		    updated_at     = now()`,
		args.ServiceID, args.Name, args.Category, args.Type, args.Min, args.Max,
		args.Rate, args.MarkupPercent, args.FinalPrice)
	if err != nil {
		return convertErr(err, "upserting service %d", args.ServiceID)
	}
	return nil
}

func scanService(row pgx.Row) (*domain.Service, error) {
	var service domain.Service
	err := row.Scan(
		&service.ID,
		&service.CreatedAt,
		&service.UpdatedAt,
		&service.ServiceID,
		&service.Name,
		&service.Category,
		&service.Type,
		&service.Min,
		&service.Max,
		&service.Rate,
		&service.MarkupPercent,
		&service.FinalPrice,
		&service.Active,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &service, nil
}
