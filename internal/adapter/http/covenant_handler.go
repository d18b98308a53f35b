package http

import (
	"net/http"

	covenantDomain "coven-backend/internal/domain/covenant"
	"coven-backend/internal/adapter/middleware"
	"coven-backend/internal/usecase/covenant"

	"github.com/labstack/echo/v4"
)

type CovenantHandler struct{ uc *covenant.Usecase }

func NewCovenantHandler(uc *covenant.Usecase) *CovenantHandler { return &CovenantHandler{uc: uc} }

type createCovenantReq struct {
	Title       string `json:"title"       validate:"required"`
	Type        string `json:"type"        validate:"required,covtype"`
	DueDate     string `json:"due_date"    validate:"required,datetime=2006-01-02"`
	Status      string `json:"status"      validate:"omitempty,covstatus"`
	Value       string `json:"value"`
	Threshold   string `json:"threshold"`
	Description string `json:"description"`
	Frequency   string `json:"frequency"`
}

func (h *CovenantHandler) CreateCovenant(c echo.Context) error {
	var req createCovenantReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	cov, err := h.uc.Create(c.Request().Context(), covenant.CreateInput{
		LoanID:      c.Param("loan_id"),
		Title:       req.Title,
		Type:        covenantDomain.Type(req.Type),
		DueDate:     req.DueDate,
		Status:      covenantDomain.ComplianceStatus(req.Status),
		Value:       req.Value,
		Threshold:   req.Threshold,
		Description: req.Description,
		Frequency:   req.Frequency,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, cov)
}

func (h *CovenantHandler) ListCovenants(c echo.Context) error {
	covs, err := h.uc.ListByLoan(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, covs)
}

func (h *CovenantHandler) GetCovenant(c echo.Context) error {
	cov, err := h.uc.Get(c.Request().Context(), c.Param("covenant_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cov)
}

type updateCovenantReq struct {
	Title       *string `json:"title"`
	Type        *string `json:"type"      validate:"omitempty,covtype"`
	DueDate     *string `json:"due_date"  validate:"omitempty,datetime=2006-01-02"`
	Value       *string `json:"value"`
	Threshold   *string `json:"threshold"`
	Description *string `json:"description"`
	Frequency   *string `json:"frequency"`
}

func (h *CovenantHandler) UpdateCovenant(c echo.Context) error {
	var req updateCovenantReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	in := covenant.UpdateInput{
		Title:       req.Title,
		DueDate:     req.DueDate,
		Value:       req.Value,
		Threshold:   req.Threshold,
		Description: req.Description,
		Frequency:   req.Frequency,
	}
	if req.Type != nil {
		t := covenantDomain.Type(*req.Type)
		in.Type = &t
	}
	cov, err := h.uc.Update(c.Request().Context(), c.Param("covenant_id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cov)
}

type updateStatusReq struct {
	Status       string `json:"status"        validate:"required,covstatus"`
	Value        string `json:"value"`
	WaiverReason string `json:"waiver_reason"`
}

// UpdateCovenantStatus drives the lifecycle transition; the acting user
// from the auth token becomes the waiver approver.
func (h *CovenantHandler) UpdateCovenantStatus(c echo.Context) error {
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	cov, err := h.uc.UpdateStatus(c.Request().Context(), c.Param("covenant_id"), covenant.UpdateStatusInput{
		Status:       covenantDomain.ComplianceStatus(req.Status),
		Value:        req.Value,
		WaiverReason: req.WaiverReason,
	}, middleware.ActorName(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cov)
}

func (h *CovenantHandler) DeleteCovenant(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), c.Param("covenant_id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
