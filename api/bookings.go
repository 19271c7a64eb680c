package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"skywings/internal/domain"
	"skywings/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	OfferID    string                `json:"offer_id"`
	Passengers []passengerRequest    `json:"passengers"`
	Payment    booking.PaymentIntent `json:"payment"`
}

type passengerRequest struct {
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Gender      string     `json:"gender"`
	DateOfBirth *time.Time `json:"date_of_birth"`
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

type amendPassengersRequest struct {
	Passengers []passengerRequest `json:"passengers"`
}

type bookingResponse struct {
	Reference          string                `json:"reference"`
	Status             string                `json:"status"`
	CreatedAt          string                `json:"created_at"`
	CancelledAt        string                `json:"cancelled_at,omitempty"`
	CancellationReason string                `json:"cancellation_reason,omitempty"`
	Flight             domain.FlightSnapshot `json:"flight"`
	Passengers         []domain.Passenger    `json:"passengers"`
	TotalPrice         float64               `json:"total_price"`
	Currency           string                `json:"currency"`
	Payment            *domain.PaymentRecord `json:"payment,omitempty"`
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	resp := bookingResponse{
		Reference:          b.Reference.String(),
		Status:             string(b.Status),
		CreatedAt:          b.CreatedAt.Format(time.RFC3339),
		CancellationReason: b.CancellationReason,
		Flight:             b.Flight,
		Passengers:         b.Passengers,
		TotalPrice:         b.TotalPrice,
		Currency:           b.Currency,
		Payment:            b.Payment,
	}
	if b.CancelledAt != nil {
		resp.CancelledAt = b.CancelledAt.Format(time.RFC3339)
	}
	return resp
}

func toPassengers(reqs []passengerRequest) []domain.Passenger {
	passengers := make([]domain.Passenger, 0, len(reqs))
	for _, p := range reqs {
		passengers = append(passengers, domain.Passenger{
			FirstName:   p.FirstName,
			LastName:    p.LastName,
			Email:       p.Email,
			Phone:       p.Phone,
			Gender:      p.Gender,
			DateOfBirth: p.DateOfBirth,
		})
	}
	return passengers
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/:reference", h.get)
	router.DELETE("/:reference", h.cancel)
	router.PUT("/:reference/passengers", h.amendPassengers)
	router.POST("/:reference/resend-confirmation", h.resendConfirmation)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.Create(c.Request.Context(), booking.CreateInput{
		OfferID:    req.OfferID,
		Passengers: toPassengers(req.Passengers),
		Payment:    req.Payment,
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) get(c *gin.Context) {
	found, err := h.service.Get(c.Request.Context(), c.Param("reference"))
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(found))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	var req cancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cancelled, err := h.service.Cancel(c.Request.Context(), c.Param("reference"), req.Reason)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(cancelled))
}

func (h *BookingHandler) amendPassengers(c *gin.Context) {
	var req amendPassengersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amended, err := h.service.AmendPassengers(c.Request.Context(), c.Param("reference"), toPassengers(req.Passengers))
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(amended))
}

func (h *BookingHandler) resendConfirmation(c *gin.Context) {
	sentTo, err := h.service.ResendConfirmation(c.Request.Context(), c.Param("reference"))
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sent_to": sentTo})
}
