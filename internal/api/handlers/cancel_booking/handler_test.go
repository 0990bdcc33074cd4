package cancel_booking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ExperienceBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-ExperienceBookingService/internal/service/bookings/models"
)

type stubService struct {
	resp *models.BookingResponse
	err  error
}

func (s stubService) Cancel(context.Context, string) (*models.BookingResponse, error) {
	return s.resp, s.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(svc BookingService) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/bookings/{bookingRef}/cancel", NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodPatch)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/HUFAB12CD34/cancel", nil))
	return rec
}

func TestHandle(t *testing.T) {
	rec := serve(stubService{resp: &models.BookingResponse{BookingRef: "HUFAB12CD34", Quantity: 2, Status: "cancelled"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"cancelled"`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", bookings.ErrBookingNotFound, http.StatusNotFound},
		{"already cancelled", bookings.ErrCannotCancel, http.StatusConflict},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, serve(stubService{err: tt.err}).Code)
		})
	}
}
