package booking

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
	"github.com/m04kA/SMC-ConciergeService/pkg/ptr"
	"github.com/m04kA/SMC-ConciergeService/pkg/types"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db), mock
}

func TestCreate(t *testing.T) {
	repo, mock := newRepo(t)
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	preferred, err := types.ParseClockLabel("2:00 PM")
	require.NoError(t, err)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO bookings`).
		WithArgs(
			int64(10), int64(7), "botox", "Botox", date, "14:00", int64(5),
			false, nil, nil, "premium", 450.0, 399.0, "pending",
		).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(1), now, now))

	created, err := repo.Create(context.Background(), &domain.Booking{
		UserID:          10,
		ProviderID:      7,
		ProcedureSlug:   "botox",
		ProcedureName:   "Botox",
		PreferredDate:   date,
		PreferredTime:   &preferred,
		SlotID:          ptr.Ptr(int64(5)),
		InvestmentLevel: "premium",
		MarketPrice:     ptr.Ptr(450.0),
		OfferedPrice:    ptr.Ptr(399.0),
		Status:          domain.StatusPending,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectQuery(`SELECT .* FROM bookings WHERE id = \$1`).
			WithArgs(int64(3)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), 3)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("null pricing and time", func(t *testing.T) {
		repo, mock := newRepo(t)
		date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(`SELECT .* FROM bookings WHERE id = \$1`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows(bookingColumns).AddRow(
				int64(3), int64(10), int64(7), "unknown", "Mystery", date, nil, nil,
				true, date, "10:30:00", "standard", nil, nil, "pending", date, date,
			))

		booking, err := repo.GetByID(context.Background(), 3)
		require.NoError(t, err)

		assert.Nil(t, booking.PreferredTime)
		assert.Nil(t, booking.SlotID)
		assert.Nil(t, booking.MarketPrice)
		assert.Nil(t, booking.OfferedPrice)
		require.NotNil(t, booking.ConsultTime)
		assert.Equal(t, "10:30", booking.ConsultTime.String())
		assert.Equal(t, domain.StatusPending, booking.Status)
	})
}

func TestGetByUserID_FiltersStatus(t *testing.T) {
	repo, mock := newRepo(t)
	status := domain.StatusConfirmed

	mock.ExpectQuery(`WHERE user_id = \$1 AND status = \$2 ORDER BY created_at DESC, id DESC`).
		WithArgs(int64(10), "confirmed").
		WillReturnRows(sqlmock.NewRows(bookingColumns))

	bookings, err := repo.GetByUserID(context.Background(), 10, &status)
	require.NoError(t, err)
	assert.Empty(t, bookings)
}
