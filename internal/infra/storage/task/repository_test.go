package task

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db), mock
}

func TestCreate_ConflictReturnsTaskExists(t *testing.T) {
	repo, mock := newRepo(t)
	due := time.Date(2025, 5, 21, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO follow_up_tasks .* ON CONFLICT \(booking_id, type\) DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}))

	_, err := repo.Create(context.Background(), &domain.FollowUpTask{
		UserID:    10,
		BookingID: 1,
		Type:      domain.TaskConfirmationCall,
		DueAt:     due,
		Status:    domain.TaskPending,
	})

	assert.ErrorIs(t, err, ErrTaskExists)
}

func TestCreate_Inserted(t *testing.T) {
	repo, mock := newRepo(t)
	due := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO follow_up_tasks`).
		WithArgs(int64(10), int64(1), "follow_up_call", "t", "d", due, "pending").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(8), time.Now()))

	task, err := repo.Create(context.Background(), &domain.FollowUpTask{
		UserID:      10,
		BookingID:   1,
		Type:        domain.TaskFollowUpCall,
		Title:       "t",
		Description: "d",
		DueAt:       due,
		Status:      domain.TaskPending,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(8), task.ID)
}

func TestListBookingIDsMissingTasks(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`GROUP BY b.id HAVING COUNT\(t.id\) < \$2 ORDER BY b.id ASC LIMIT 50`).
		WithArgs("cancelled", 2).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)).AddRow(int64(9)))

	ids, err := repo.ListBookingIDsMissingTasks(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 9}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
