package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
	"github.com/m04kA/SMC-ConciergeService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConciergeService/pkg/psqlbuilder"
)

// exclusionViolation код postgres для нарушения EXCLUDE-ограничения
const exclusionViolation = "23P01"

var slotColumns = []string{
	"s.id",
	"s.provider_id",
	"s.resource_id",
	"s.start_at",
	"s.end_at",
	"s.kind",
	"s.block_reason",
	"s.block_note",
	"s.booking_id",
	"r.name",
	"s.created_at",
	"s.updated_at",
}

// Repository репозиторий для работы со слотами календаря
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый слот.
// Пересечение available/booked слотов на одном ресурсе отклоняется ограничением БД (ErrOverlap).
func (r *Repository) Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slots").
		Columns(
			"provider_id",
			"resource_id",
			"start_at",
			"end_at",
			"kind",
			"block_reason",
			"block_note",
			"booking_id",
		).
		Values(
			slot.ProviderID,
			slot.ResourceID,
			slot.StartAt,
			slot.EndAt,
			string(slot.Kind),
			blockReasonValue(slot.BlockReason),
			slot.BlockNote,
			slot.BookingID,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&slot.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isExclusionViolation(err) {
			return nil, ErrOverlap
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return slot, nil
}

// GetByID получает слот по ID.
// Внутри транзакции строка блокируется (FOR UPDATE) до конца транзакции.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := selectSlots().Where(squirrel.Eq{"s.id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF s")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %w", ErrScanRow, err)
	}

	return slot, nil
}

// List получает слоты провайдера по фильтру, упорядоченные по началу
func (r *Repository) List(ctx context.Context, filter domain.SlotFilter) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := selectSlots().
		Where(squirrel.Eq{"s.provider_id": filter.ProviderID}).
		OrderBy("s.start_at ASC", "s.id ASC")

	if filter.ResourceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"s.resource_id": *filter.ResourceID})
	}

	// Слоты, пересекающие видимый диапазон [From, To)
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"s.end_at": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"s.start_at": *filter.To})
	}

	if filter.StartFrom != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"s.start_at": *filter.StartFrom})
	}

	if len(filter.Kinds) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"s.kind": kindStrings(filter.Kinds)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// ListOverlapping получает слоты ресурса указанных типов, пересекающие [start, end).
// excludeID исключает редактируемый слот из проверки.
// Внутри транзакции найденные строки блокируются (FOR UPDATE) - используется редактором
// для проверки пересечений перед записью.
func (r *Repository) ListOverlapping(
	ctx context.Context,
	providerID int64,
	resourceID *int64,
	start, end time.Time,
	kinds []domain.SlotKind,
	excludeID *int64,
) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := selectSlots().
		Where(squirrel.Eq{"s.provider_id": providerID}).
		Where(squirrel.Lt{"s.start_at": end}).
		Where(squirrel.Gt{"s.end_at": start}).
		OrderBy("s.start_at ASC")

	// squirrel.Eq с nil превращается в IS NULL
	if resourceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"s.resource_id": *resourceID})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"s.resource_id": nil})
	}

	if len(kinds) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"s.kind": kindStrings(kinds)})
	}

	if excludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"s.id": *excludeID})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF s")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverlapping - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// EarliestAvailable возвращает минимальное начало среди available слотов провайдера
// (по всем ресурсам) с началом не раньше now. nil, если таких слотов нет.
func (r *Repository) EarliestAvailable(ctx context.Context, providerID int64, now time.Time) (*time.Time, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("MIN(start_at)").
		From("slots").
		Where(squirrel.Eq{"provider_id": providerID}).
		Where(squirrel.Eq{"kind": string(domain.SlotAvailable)}).
		Where(squirrel.GtOrEq{"start_at": now}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: EarliestAvailable - build select query: %v", ErrBuildQuery, err)
	}

	var earliest sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&earliest); err != nil {
		return nil, fmt.Errorf("%w: EarliestAvailable - scan min: %w", ErrScanRow, err)
	}

	if !earliest.Valid {
		return nil, nil
	}

	t := earliest.Time
	return &t, nil
}

// CountAvailable возвращает количество available слотов провайдера с началом не раньше from
func (r *Repository) CountAvailable(ctx context.Context, providerID int64, from time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("slots").
		Where(squirrel.Eq{"provider_id": providerID}).
		Where(squirrel.Eq{"kind": string(domain.SlotAvailable)}).
		Where(squirrel.GtOrEq{"start_at": from}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountAvailable - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountAvailable - scan count: %w", ErrScanRow, err)
	}

	return count, nil
}

// Update частично обновляет слот. Забронированные слоты не изменяются (ErrSlotNotFound).
// Если тип меняется на не-blocked, причина и заметка блокировки очищаются.
func (r *Repository) Update(ctx context.Context, id int64, update domain.SlotUpdate) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("slots").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"kind": string(domain.SlotBooked)})

	if update.ResourceID != nil {
		updateBuilder = updateBuilder.Set("resource_id", *update.ResourceID)
	}
	if update.StartAt != nil {
		updateBuilder = updateBuilder.Set("start_at", *update.StartAt)
	}
	if update.EndAt != nil {
		updateBuilder = updateBuilder.Set("end_at", *update.EndAt)
	}
	if update.BlockReason != nil {
		updateBuilder = updateBuilder.Set("block_reason", string(*update.BlockReason))
	}
	if update.BlockNote != nil {
		updateBuilder = updateBuilder.Set("block_note", *update.BlockNote)
	}
	if update.Kind != nil {
		updateBuilder = updateBuilder.Set("kind", string(*update.Kind))
		if *update.Kind != domain.SlotBlocked {
			updateBuilder = updateBuilder.
				Set("block_reason", nil).
				Set("block_note", nil)
		}
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isExclusionViolation(err) {
			return ErrOverlap
		}
		return fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// Delete удаляет слот. Забронированные слоты не удаляются (ErrSlotNotFound).
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("slots").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"kind": string(domain.SlotBooked)}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// MarkBooked переводит слот из available в booked одним условным UPDATE.
// Если слот уже не available (его забрало параллельное бронирование), ни одна строка
// не обновляется и возвращается ErrSlotNotAvailable.
// start/end сужают слот до забронированного отрезка.
func (r *Repository) MarkBooked(ctx context.Context, id, bookingID int64, start, end time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("kind", string(domain.SlotBooked)).
		Set("booking_id", bookingID).
		Set("start_at", start).
		Set("end_at", end).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"kind": string(domain.SlotAvailable)}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkBooked - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isExclusionViolation(err) {
			return ErrOverlap
		}
		return fmt.Errorf("%w: MarkBooked - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkBooked - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotAvailable
	}

	return nil
}

func selectSlots() squirrel.SelectBuilder {
	return psqlbuilder.Select(slotColumns...).
		From("slots s").
		LeftJoin("provider_resources r ON r.id = s.resource_id")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.Slot, error) {
	var slot domain.Slot
	var (
		kind                 string
		resourceID           sql.NullInt64
		bookingID            sql.NullInt64
		blockReason          sql.NullString
		blockNote            sql.NullString
		resourceName         sql.NullString
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&slot.ID,
		&slot.ProviderID,
		&resourceID,
		&slot.StartAt,
		&slot.EndAt,
		&kind,
		&blockReason,
		&blockNote,
		&bookingID,
		&resourceName,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	slot.Kind = domain.SlotKind(kind)
	if resourceID.Valid {
		slot.ResourceID = &resourceID.Int64
	}
	if bookingID.Valid {
		slot.BookingID = &bookingID.Int64
	}
	if blockReason.Valid {
		reason := domain.BlockReason(blockReason.String)
		slot.BlockReason = &reason
	}
	if blockNote.Valid {
		slot.BlockNote = &blockNote.String
	}
	if resourceName.Valid {
		slot.ResourceName = &resourceName.String
	}
	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return &slot, nil
}

func scanSlots(rows *sql.Rows) ([]*domain.Slot, error) {
	slots := make([]*domain.Slot, 0)
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan slot: %v", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %w", ErrScanRow, err)
	}

	return slots, nil
}

func kindStrings(kinds []domain.SlotKind) []string {
	result := make([]string, len(kinds))
	for i, k := range kinds {
		result[i] = string(k)
	}
	return result
}

func blockReasonValue(reason *domain.BlockReason) interface{} {
	if reason == nil {
		return nil
	}
	return string(*reason)
}

func isExclusionViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == exclusionViolation
	}
	return false
}
