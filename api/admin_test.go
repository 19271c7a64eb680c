package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"skywings/internal/domain"
	"skywings/internal/repository"
)

func TestAdminHandler_list(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewAdminHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET",
		"/admin/bookings?status=CONFIRMED&from=JFK&to=LAX&date=2026-10-01&limit=50", nil)

	mockService.On("List", c.Request.Context(), repository.ListFilter{
		Status:        "CONFIRMED",
		Origin:        "JFK",
		Destination:   "LAX",
		DepartureDate: "2026-10-01",
		Limit:         50,
	}).Return([]domain.Booking{*sampleBooking()}, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response, 1)
	assert.Equal(t, "SKY123456", response[0].Reference)

	mockService.AssertExpectations(t)
}

func TestAdminHandler_list_empty(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewAdminHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/admin/bookings", nil)

	mockService.On("List", c.Request.Context(), repository.ListFilter{}).
		Return([]domain.Booking{}, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestAdminHandler_searchByPassenger(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewAdminHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/admin/bookings/search?email=john@example.com", nil)

	mockService.On("SearchByPassenger", c.Request.Context(), repository.PassengerQuery{
		Email: "john@example.com",
	}).Return([]domain.Booking{*sampleBooking()}, nil)

	handler.searchByPassenger(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response, 1)
}

func TestAdminHandler_searchByPassenger_noCriteria(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewAdminHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/admin/bookings/search", nil)

	mockService.On("SearchByPassenger", c.Request.Context(), repository.PassengerQuery{}).
		Return(nil, domain.Validationf("at least one search criterion is required"))

	handler.searchByPassenger(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
