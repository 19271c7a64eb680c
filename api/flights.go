package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"skywings/internal/service/offers"
)

type FlightHandler struct {
	service offers.OfferUseCase
}

func NewFlightHandler(service offers.OfferUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/search", h.search)
	router.GET("/offers/:id", h.getOffer)
}

func (h *FlightHandler) search(c *gin.Context) {
	passengers, _ := strconv.Atoi(c.Query("passengers"))

	result, err := h.service.Search(c.Request.Context(), offers.SearchQuery{
		Origin:      c.Query("origin"),
		Destination: c.Query("destination"),
		Date:        c.Query("date"),
		ReturnDate:  c.Query("return_date"),
		Passengers:  passengers,
		TravelClass: c.Query("travel_class"),
		Airline:     c.Query("airline"),
		DirectOnly:  c.Query("direct_only") == "true",
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *FlightHandler) getOffer(c *gin.Context) {
	offer, err := h.service.GetOffer(c.Request.Context(), c.Param("id"))
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, offer)
}
