package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"skywings/internal/domain"
	"skywings/internal/repository"
	"skywings/internal/service/booking"
)

// AdminHandler backs the booking console: filtered listings and passenger
// lookup across all bookings.
type AdminHandler struct {
	service booking.BookingUseCase
}

func NewAdminHandler(service booking.BookingUseCase) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) Register(router *gin.RouterGroup) {
	router.GET("/bookings", h.list)
	router.GET("/bookings/search", h.searchByPassenger)
}

func (h *AdminHandler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	found, err := h.service.List(c.Request.Context(), repository.ListFilter{
		Status:            c.Query("status"),
		Origin:            c.Query("from"),
		Destination:       c.Query("to"),
		DepartureDate:     c.Query("date"),
		PassengerEmail:    c.Query("email"),
		PassengerLastName: c.Query("last_name"),
		Limit:             limit,
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingList(found))
}

func (h *AdminHandler) searchByPassenger(c *gin.Context) {
	found, err := h.service.SearchByPassenger(c.Request.Context(), repository.PassengerQuery{
		Email:    c.Query("email"),
		LastName: c.Query("last_name"),
		Phone:    c.Query("phone"),
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingList(found))
}

func toBookingList(bookings []domain.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}
	return out
}
