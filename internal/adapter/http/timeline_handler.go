package http

import (
	"net/http"

	timelineDomain "coven-backend/internal/domain/timeline"
	"coven-backend/internal/usecase/timeline"

	"github.com/labstack/echo/v4"
)

type TimelineHandler struct{ uc *timeline.Usecase }

func NewTimelineHandler(uc *timeline.Usecase) *TimelineHandler { return &TimelineHandler{uc: uc} }

type createEventReq struct {
	Type              string  `json:"type"                validate:"required,eventtype"`
	Date              string  `json:"date"                validate:"omitempty,datetime=2006-01-02"`
	Title             string  `json:"title"               validate:"required"`
	Description       string  `json:"description"`
	RelatedCovenantID *string `json:"related_covenant_id" validate:"omitempty,resourceid"`
	Metadata          string  `json:"metadata"`
}

// CreateEvent appends a manual audit entry, e.g. a payment received or an
// amendment made outside the automated flows.
func (h *TimelineHandler) CreateEvent(c echo.Context) error {
	var req createEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	e, err := h.uc.Create(c.Request().Context(), timeline.CreateInput{
		LoanID:            c.Param("loan_id"),
		Type:              timelineDomain.EventType(req.Type),
		Date:              req.Date,
		Title:             req.Title,
		Description:       req.Description,
		RelatedCovenantID: req.RelatedCovenantID,
		Metadata:          req.Metadata,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *TimelineHandler) ListEvents(c echo.Context) error {
	events, err := h.uc.ListByLoan(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, events)
}
