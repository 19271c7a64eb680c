package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"skywings/internal/domain"
)

// renderError translates the domain error taxonomy into HTTP statuses. Errors
// without a code are treated as internal.
func renderError(c *gin.Context, err error) {
	code := domain.CodeOf(err)

	status := http.StatusInternalServerError
	switch code {
	case domain.CodeValidation, domain.CodeAlreadyCancelled:
		status = http.StatusBadRequest
	case domain.CodeNotFound, domain.CodeOfferNotFound:
		status = http.StatusNotFound
	case domain.CodeUpstream:
		status = http.StatusBadGateway
	case domain.CodeConflict:
		status = http.StatusInternalServerError
	}

	message := err.Error()
	var de *domain.Error
	if errors.As(err, &de) {
		message = de.Message
	}
	if code == "" {
		c.JSON(status, gin.H{"error": message})
		return
	}
	c.JSON(status, gin.H{"error": message, "code": string(code)})
}
