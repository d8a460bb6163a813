package provider

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
	"github.com/m04kA/SMC-ConciergeService/pkg/types"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db), mock
}

func TestListByProcedure(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery(`WHERE \$1 = ANY\(procedures\) ORDER BY id ASC`).
		WithArgs("botox").
		WillReturnRows(sqlmock.NewRows(providerColumns).
			AddRow(int64(1), "Glow Clinic", "America/New_York", 4.8, 120.0, "{botox,fillers}", now, "09:00:00", now, now).
			AddRow(int64(2), "Lumi Med Spa", "", nil, nil, "{botox}", nil, nil, now, now))

	providers, err := repo.ListByProcedure(context.Background(), "botox")
	require.NoError(t, err)
	require.Len(t, providers, 2)

	assert.Equal(t, []string{"botox", "fillers"}, providers[0].Procedures)
	require.NotNil(t, providers[0].Rating)
	assert.Equal(t, 4.8, *providers[0].Rating)
	require.NotNil(t, providers[0].NextAvailableTime)
	assert.Equal(t, "09:00", providers[0].NextAvailableTime.String())

	assert.Nil(t, providers[1].Rating)
	assert.Nil(t, providers[1].BasePrice)
	assert.Nil(t, providers[1].NextAvailableDate)
	assert.Nil(t, providers[1].NextAvailableTime)
}

func TestUpdateNextAvailable(t *testing.T) {
	t.Run("clears both fields", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectExec(`UPDATE providers SET updated_at = NOW\(\), next_available_date = \$1, next_available_time = \$2 WHERE id = \$3`).
			WithArgs(nil, nil, int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateNextAvailable(context.Background(), 7, nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("writes date and time", func(t *testing.T) {
		repo, mock := newRepo(t)
		at, err := types.NewTimeStringFromString("14:30")
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE providers`).
			WithArgs("2025-06-02", "14:30", int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.UpdateNextAvailable(context.Background(), 7, &domain.NextAvailable{
			Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
			Time: at,
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown provider", func(t *testing.T) {
		repo, mock := newRepo(t)

		mock.ExpectExec(`UPDATE providers`).WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateNextAvailable(context.Background(), 7, nil)
		assert.ErrorIs(t, err, ErrProviderNotFound)
	})
}

func TestListResources_DefaultFirst(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`FROM provider_resources WHERE provider_id = \$1 ORDER BY is_default DESC, id ASC`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "provider_id", "name", "is_default", "created_at"}).
			AddRow(int64(3), int64(7), "Lead practitioner", true, time.Now()))

	resources, err := repo.ListResources(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.True(t, resources[0].IsDefault)
}
