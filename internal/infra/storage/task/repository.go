package task

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

// requiredTasksPerBooking сколько задач должно быть у каждого бронирования
const requiredTasksPerBooking = 2

// Repository репозиторий для работы с задачами после бронирования
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория задач
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает задачу. Уникальность (booking_id, type) делает вставку идемпотентной:
// если задача такого типа уже есть, возвращается ErrTaskExists.
func (r *Repository) Create(ctx context.Context, task *domain.FollowUpTask) (*domain.FollowUpTask, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("follow_up_tasks").
		Columns(
			"user_id",
			"booking_id",
			"type",
			"title",
			"description",
			"due_at",
			"status",
		).
		Values(
			task.UserID,
			task.BookingID,
			string(task.Type),
			task.Title,
			task.Description,
			task.DueAt,
			string(task.Status),
		).
		Suffix("ON CONFLICT (booking_id, type) DO NOTHING RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&task.ID, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTaskExists
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	task.CreatedAt = createdAt.Time

	return task, nil
}

// GetByBookingID получает задачи бронирования, упорядоченные по сроку
func (r *Repository) GetByBookingID(ctx context.Context, bookingID int64) ([]*domain.FollowUpTask, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"user_id",
		"booking_id",
		"type",
		"title",
		"description",
		"due_at",
		"status",
		"created_at",
	).
		From("follow_up_tasks").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("due_at ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	tasks := make([]*domain.FollowUpTask, 0, requiredTasksPerBooking)
	for rows.Next() {
		var task domain.FollowUpTask
		var taskType, status string
		var createdAt sql.NullTime

		if err := rows.Scan(
			&task.ID,
			&task.UserID,
			&task.BookingID,
			&taskType,
			&task.Title,
			&task.Description,
			&task.DueAt,
			&status,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("%w: GetByBookingID - scan task: %v", ErrScanRow, err)
		}

		task.Type = domain.TaskType(taskType)
		task.Status = domain.TaskStatus(status)
		task.CreatedAt = createdAt.Time
		tasks = append(tasks, &task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - rows error: %w", ErrScanRow, err)
	}

	return tasks, nil
}

// ListBookingIDsMissingTasks возвращает ID неотменённых бронирований, у которых меньше
// двух задач. Используется джобой сверки.
func (r *Repository) ListBookingIDsMissingTasks(ctx context.Context, limit uint64) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("b.id").
		From("bookings b").
		LeftJoin("follow_up_tasks t ON t.booking_id = b.id").
		Where(squirrel.NotEq{"b.status": string(domain.StatusCancelled)}).
		GroupBy("b.id").
		Having("COUNT(t.id) < ?", requiredTasksPerBooking).
		OrderBy("b.id ASC").
		Limit(limit).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListBookingIDsMissingTasks - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBookingIDsMissingTasks - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListBookingIDsMissingTasks - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBookingIDsMissingTasks - rows error: %w", ErrScanRow, err)
	}

	return ids, nil
}
