package get_booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConciergeService/internal/api/middleware"
	"github.com/m04kA/SMC-ConciergeService/internal/service/bookings"
	"github.com/m04kA/SMC-ConciergeService/internal/service/bookings/models"
	"github.com/m04kA/SMC-ConciergeService/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	args := m.Called(ctx, id, userID)
	if resp, ok := args.Get(0).(*models.BookingResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func serve(svc *mockService, path string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.Handle("/api/v1/bookings/{bookingId}",
		middleware.Auth(http.HandlerFunc(NewHandler(svc, logger.NewNop()).Handle)))

	r := httptest.NewRequest(http.MethodGet, path, nil)
	r.Header.Set(middleware.HeaderUserID, "7")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestHandle_ReturnsBookingWithTasks(t *testing.T) {
	svc := &mockService{}
	svc.On("GetByID", mock.Anything, int64(42), int64(7)).Return(&models.BookingResponse{
		ID:            42,
		UserID:        7,
		ProcedureSlug: "botox",
		Status:        "pending",
		Tasks: []models.TaskResponse{
			{ID: 1, Type: "confirmation_call"},
			{ID: 2, Type: "follow_up_call"},
		},
	}, nil)

	w := serve(svc, "/api/v1/bookings/42")

	require.Equal(t, http.StatusOK, w.Code)
	var body models.BookingResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, int64(42), body.ID)
	require.Len(t, body.Tasks, 2)
	assert.Equal(t, "follow_up_call", body.Tasks[1].Type)
	svc.AssertExpectations(t)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		path string
		err  error
		want int
	}{
		{"not a number", "/api/v1/bookings/abc", nil, http.StatusBadRequest},
		{"non-positive id", "/api/v1/bookings/0", nil, http.StatusBadRequest},
		{"not found", "/api/v1/bookings/42", bookings.ErrBookingNotFound, http.StatusNotFound},
		{"another client", "/api/v1/bookings/42", bookings.ErrAccessDenied, http.StatusForbidden},
		{"storage failure", "/api/v1/bookings/42", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			if tt.err != nil {
				svc.On("GetByID", mock.Anything, int64(42), int64(7)).Return(nil, tt.err)
			}

			w := serve(svc, tt.path)

			assert.Equal(t, tt.want, w.Code)
			if tt.err == nil {
				svc.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}
