package http

import (
	"errors"
	"net/http"

	covenantDomain "coven-backend/internal/domain/covenant"
	dnaDomain "coven-backend/internal/domain/dna"
	loanDomain "coven-backend/internal/domain/loan"
	"coven-backend/internal/infrastructure/ai"
	"coven-backend/internal/infrastructure/ocr"
	"coven-backend/internal/usecase/analysis"

	"github.com/labstack/echo/v4"
)

// writeError maps domain errors to HTTP responses so every handler fails
// the same way.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, loanDomain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "loan not found"})
	case errors.Is(err, covenantDomain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "covenant not found"})
	case errors.Is(err, dnaDomain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "loan DNA not found"})
	case errors.Is(err, dnaDomain.ErrDuplicate):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, analysis.ErrMissingInput):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, analysis.ErrUnprocessable):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.Is(err, ai.ErrUpstream), errors.Is(err, ocr.ErrUpstream):
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: "AI analysis failed: " + err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
