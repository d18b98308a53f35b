package http

import (
	"net/http"

	riskDomain "coven-backend/internal/domain/risk"
	"coven-backend/internal/usecase/risk"

	"github.com/labstack/echo/v4"
)

type RiskHandler struct{ uc *risk.Usecase }

func NewRiskHandler(uc *risk.Usecase) *RiskHandler { return &RiskHandler{uc: uc} }

type createPredictionReq struct {
	CovenantID          string `json:"covenant_id"           validate:"required,resourceid"`
	CurrentValue        string `json:"current_value"`
	Threshold           string `json:"threshold"`
	PredictedBreachDate string `json:"predicted_breach_date"`
	Probability         int    `json:"probability"           validate:"gte=0,lte=100"`
	Trend               string `json:"trend"`
	Explanation         string `json:"explanation"`
}

// CreatePrediction records an analyst-supplied prediction outside the
// automated AI refresh.
func (h *RiskHandler) CreatePrediction(c echo.Context) error {
	var req createPredictionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	trend := riskDomain.Trend(req.Trend)
	if req.Trend != "" && !riskDomain.ValidTrend(trend) {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error: "validation failed",
			Details: []FieldError{
				{Field: "trend", Message: "must be one of improving, stable, deteriorating"},
			},
		})
	}
	p, err := h.uc.Create(c.Request().Context(), c.Param("loan_id"), risk.CreateInput{
		CovenantID:          req.CovenantID,
		CurrentValue:        req.CurrentValue,
		Threshold:           req.Threshold,
		PredictedBreachDate: req.PredictedBreachDate,
		Probability:         req.Probability,
		Trend:               trend,
		Explanation:         req.Explanation,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *RiskHandler) ListPredictions(c echo.Context) error {
	preds, err := h.uc.ListByLoan(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, preds)
}
