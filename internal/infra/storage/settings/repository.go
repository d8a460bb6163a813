package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
	"github.com/m04kA/SMC-ConciergeService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConciergeService/pkg/psqlbuilder"
)

var settingsColumns = []string{
	"id",
	"provider_id",
	"resource_id",
	"offer_increment_minutes",
	"advance_booking_days",
	"created_at",
	"updated_at",
}

// Repository репозиторий настроек выдачи слотов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListByProvider получает все настройки провайдера (уровня провайдера и ресурсов)
func (r *Repository) ListByProvider(ctx context.Context, providerID int64) ([]*domain.SlotSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(settingsColumns...).
		From("provider_slot_settings").
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("resource_id ASC NULLS FIRST").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByProvider - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByProvider - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.SlotSettings, 0)
	for rows.Next() {
		s, err := scanSettings(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByProvider - scan settings: %v", ErrScanRow, err)
		}
		result = append(result, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByProvider - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

// Get получает настройки конкретного уровня иерархии:
// resourceID == nil - настройки провайдера целиком, иначе - конкретного ресурса.
func (r *Repository) Get(ctx context.Context, providerID int64, resourceID *int64) (*domain.SlotSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(settingsColumns...).
		From("provider_slot_settings").
		Where(squirrel.Eq{"provider_id": providerID})

	// Фильтрация по resource_id (NULL или конкретное значение)
	if resourceID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"resource_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"resource_id": *resourceID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanSettings(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan settings: %w", ErrScanRow, err)
	}

	return s, nil
}

// Upsert создает или обновляет настройки уровня (provider_id, resource_id)
func (r *Repository) Upsert(ctx context.Context, s *domain.SlotSettings) (*domain.SlotSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("provider_slot_settings").
		Columns(
			"provider_id",
			"resource_id",
			"offer_increment_minutes",
			"advance_booking_days",
		).
		Values(
			s.ProviderID,
			s.ResourceID,
			s.OfferIncrementMinutes,
			s.AdvanceBookingDays,
		).
		Suffix(`ON CONFLICT (provider_id, (COALESCE(resource_id, 0))) DO UPDATE SET
			offer_increment_minutes = EXCLUDED.offer_increment_minutes,
			advance_booking_days = EXCLUDED.advance_booking_days,
			updated_at = NOW()
			RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return s, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSettings(row rowScanner) (*domain.SlotSettings, error) {
	var s domain.SlotSettings
	var resourceID sql.NullInt64
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.ProviderID,
		&resourceID,
		&s.OfferIncrementMinutes,
		&s.AdvanceBookingDays,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if resourceID.Valid {
		s.ResourceID = &resourceID.Int64
	}
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}
