package handlers

import (
	"errors"
	"net/http"

	"github.com/chaali03/KomplekKita-sub001/internal/services"
	"github.com/gin-gonic/gin"
)

// respondError maps service errors to HTTP responses. Unknown errors become
// 500 with the message hidden from the client.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrPeriodeInvalid),
		errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrSudahDibayar),
		errors.Is(err, services.ErrSudahDitagih),
		errors.Is(err, services.ErrIuranDipakai):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrTidakAdaIuranAktif),
		errors.Is(err, services.ErrTidakAdaWargaAktif):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidPassword),
		errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "terjadi kesalahan internal"})
	}
}
