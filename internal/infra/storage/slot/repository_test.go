package slot

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
	"github.com/m04kA/SMC-ConciergeService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConciergeService/pkg/ptr"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db), mock
}

func slotRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "provider_id", "resource_id", "start_at", "end_at", "kind",
		"block_reason", "block_note", "booking_id", "name", "created_at", "updated_at",
	})
}

func TestCreate_ReturnsID(t *testing.T) {
	repo, mock := newRepo(t)
	start := time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO slots`).
		WithArgs(int64(7), int64(3), start, start.Add(time.Hour), "available", nil, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(42), now, now))

	created, err := repo.Create(context.Background(), &domain.Slot{
		ProviderID: 7,
		ResourceID: ptr.Ptr(int64(3)),
		StartAt:    start,
		EndAt:      start.Add(time.Hour),
		Kind:       domain.SlotAvailable,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_ExclusionViolationIsOverlap(t *testing.T) {
	repo, mock := newRepo(t)
	start := time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO slots`).
		WillReturnError(&pq.Error{Code: "23P01"})

	_, err := repo.Create(context.Background(), &domain.Slot{
		ProviderID: 7,
		StartAt:    start,
		EndAt:      start.Add(time.Hour),
		Kind:       domain.SlotAvailable,
	})

	assert.ErrorIs(t, err, ErrOverlap)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`SELECT .* FROM slots s LEFT JOIN provider_resources r`).
		WithArgs(int64(1)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestGetByID_ScansNullableColumns(t *testing.T) {
	repo, mock := newRepo(t)
	start := time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .* FROM slots s`).
		WithArgs(int64(5)).
		WillReturnRows(slotRow().AddRow(
			int64(5), int64(7), nil, start, start.Add(2*time.Hour), "blocked",
			"holiday", "Bank holiday", nil, nil, start, start,
		))

	slot, err := repo.GetByID(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, domain.SlotBlocked, slot.Kind)
	assert.Nil(t, slot.ResourceID)
	assert.Nil(t, slot.BookingID)
	require.NotNil(t, slot.BlockReason)
	assert.Equal(t, domain.BlockHoliday, *slot.BlockReason)
	require.NotNil(t, slot.BlockNote)
	assert.Equal(t, "Bank holiday", *slot.BlockNote)
}

func TestGetByID_LocksRowInsideTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	wrapped := dbmetrics.Wrap(db, nil)
	repo := NewRepository(wrapped)
	start := time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE OF s`).
		WithArgs(int64(5)).
		WillReturnRows(slotRow().AddRow(
			int64(5), int64(7), int64(3), start, start.Add(time.Hour), "available",
			nil, nil, nil, "Dr. Reyes", start, start,
		))

	tx, err := wrapped.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	slot, err := repo.GetByID(dbmetrics.WithTx(context.Background(), tx), 5)
	require.NoError(t, err)
	require.NotNil(t, slot.ResourceName)
	assert.Equal(t, "Dr. Reyes", *slot.ResourceName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkBooked_CompareAndSet(t *testing.T) {
	start := time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	t.Run("available slot is booked", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectExec(`UPDATE slots SET kind = \$1, booking_id = \$2, start_at = \$3, end_at = \$4, updated_at = NOW\(\) WHERE id = \$5 AND kind = \$6`).
			WithArgs("booked", int64(99), start, end, int64(5), "available").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.MarkBooked(context.Background(), 5, 99, start, end)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("slot already taken", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectExec(`UPDATE slots`).
			WithArgs("booked", int64(99), start, end, int64(5), "available").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.MarkBooked(context.Background(), 5, 99, start, end)
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
	})
}

func TestEarliestAvailable(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("no qualifying slots", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectQuery(`SELECT MIN\(start_at\) FROM slots`).
			WithArgs(int64(7), "available", now).
			WillReturnRows(sqlmock.NewRows([]string{"min"}).AddRow(nil))

		earliest, err := repo.EarliestAvailable(context.Background(), 7, now)
		require.NoError(t, err)
		assert.Nil(t, earliest)
	})

	t.Run("earliest slot found", func(t *testing.T) {
		repo, mock := newRepo(t)
		want := now.Add(26 * time.Hour)

		mock.ExpectQuery(`SELECT MIN\(start_at\) FROM slots`).
			WillReturnRows(sqlmock.NewRows([]string{"min"}).AddRow(want))

		earliest, err := repo.EarliestAvailable(context.Background(), 7, now)
		require.NoError(t, err)
		require.NotNil(t, earliest)
		assert.True(t, want.Equal(*earliest))
	})
}

func TestListOverlapping_NullResourceUsesIsNull(t *testing.T) {
	repo, mock := newRepo(t)
	start := time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`s.resource_id IS NULL AND s.kind IN \(\$4,\$5\) AND s.id <> \$6`).
		WithArgs(int64(7), start.Add(time.Hour), start, "available", "booked", int64(11)).
		WillReturnRows(slotRow())

	slots, err := repo.ListOverlapping(
		context.Background(), 7, nil, start, start.Add(time.Hour),
		domain.ActiveSlotKinds, ptr.Ptr(int64(11)),
	)

	require.NoError(t, err)
	assert.Empty(t, slots)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_BookedSlotIsNotDeleted(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(`DELETE FROM slots WHERE id = \$1 AND kind <> \$2`).
		WithArgs(int64(5), "booked").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 5)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}
