package provider

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
	"github.com/m04kA/SMC-ConciergeService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConciergeService/pkg/psqlbuilder"
)

var providerColumns = []string{
	"id",
	"name",
	"timezone",
	"rating",
	"base_price",
	"procedures",
	"next_available_date",
	"next_available_time",
	"created_at",
	"updated_at",
}

// Repository репозиторий провайдеров и их ресурсов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория провайдеров
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает провайдера (используется сидером)
func (r *Repository) Create(ctx context.Context, p *domain.Provider) (*domain.Provider, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("providers").
		Columns("name", "timezone", "rating", "base_price", "procedures").
		Values(p.Name, p.Timezone, p.Rating, p.BasePrice, pq.Array(p.Procedures)).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&p.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return p, nil
}

// GetByID получает провайдера по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Provider, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(providerColumns...).
		From("providers").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	p, err := scanProvider(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProviderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan provider: %w", ErrScanRow, err)
	}

	return p, nil
}

// ListByProcedure получает провайдеров, выполняющих процедуру, в порядке ID
func (r *Repository) ListByProcedure(ctx context.Context, procedureSlug string) ([]*domain.Provider, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(providerColumns...).
		From("providers").
		Where(squirrel.Expr("? = ANY(procedures)", procedureSlug)).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByProcedure - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByProcedure - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	providers := make([]*domain.Provider, 0)
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByProcedure - scan provider: %v", ErrScanRow, err)
		}
		providers = append(providers, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByProcedure - rows error: %w", ErrScanRow, err)
	}

	return providers, nil
}

// ListIDs возвращает ID всех провайдеров
func (r *Repository) ListIDs(ctx context.Context) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From("providers").
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListIDs - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListIDs - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListIDs - rows error: %w", ErrScanRow, err)
	}

	return ids, nil
}

// UpdateNextAvailable записывает производные поля ближайшего свободного слота.
// next == nil обнуляет обе колонки.
func (r *Repository) UpdateNextAvailable(ctx context.Context, providerID int64, next *domain.NextAvailable) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("providers").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": providerID})

	if next == nil {
		updateBuilder = updateBuilder.
			Set("next_available_date", nil).
			Set("next_available_time", nil)
	} else {
		updateBuilder = updateBuilder.
			Set("next_available_date", next.Date.Format(domain.DateFormat)).
			Set("next_available_time", next.Time)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateNextAvailable - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateNextAvailable - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateNextAvailable - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrProviderNotFound
	}

	return nil
}

// ListResources получает ресурсы провайдера (ресурс по умолчанию первым)
func (r *Repository) ListResources(ctx context.Context, providerID int64) ([]*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "provider_id", "name", "is_default", "created_at").
		From("provider_resources").
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("is_default DESC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListResources - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListResources - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	resources := make([]*domain.Resource, 0)
	for rows.Next() {
		var res domain.Resource
		var createdAt sql.NullTime
		if err := rows.Scan(&res.ID, &res.ProviderID, &res.Name, &res.IsDefault, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListResources - scan resource: %v", ErrScanRow, err)
		}
		res.CreatedAt = createdAt.Time
		resources = append(resources, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListResources - rows error: %w", ErrScanRow, err)
	}

	return resources, nil
}

// GetResource получает ресурс по ID
func (r *Repository) GetResource(ctx context.Context, id int64) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "provider_id", "name", "is_default", "created_at").
		From("provider_resources").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetResource - build select query: %v", ErrBuildQuery, err)
	}

	var res domain.Resource
	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&res.ID, &res.ProviderID, &res.Name, &res.IsDefault, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetResource - scan resource: %w", ErrScanRow, err)
	}
	res.CreatedAt = createdAt.Time

	return &res, nil
}

// CreateResource создает ресурс провайдера
func (r *Repository) CreateResource(ctx context.Context, res *domain.Resource) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("provider_resources").
		Columns("provider_id", "name", "is_default").
		Values(res.ProviderID, res.Name, res.IsDefault).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateResource - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&res.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: CreateResource - execute insert: %w", ErrExecQuery, err)
	}
	res.CreatedAt = createdAt.Time

	return res, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProvider(row rowScanner) (*domain.Provider, error) {
	var p domain.Provider
	var nextDate sql.NullTime
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Timezone,
		&p.Rating,
		&p.BasePrice,
		pq.Array(&p.Procedures),
		&nextDate,
		&p.NextAvailableTime,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if nextDate.Valid {
		p.NextAvailableDate = &nextDate.Time
	}
	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return &p, nil
}
