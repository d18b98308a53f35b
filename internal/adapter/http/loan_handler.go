package http

import (
	"net/http"

	loanDomain "coven-backend/internal/domain/loan"
	"coven-backend/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type createLoanReq struct {
	Borrower        string  `json:"borrower"         validate:"required"`
	Amount          float64 `json:"amount"           validate:"required,gt=0"`
	Currency        string  `json:"currency"         validate:"omitempty,len=3"`
	InterestRate    float64 `json:"interest_rate"    validate:"gte=0,lte=100"`
	StartDate       string  `json:"start_date"       validate:"required,datetime=2006-01-02"`
	MaturityDate    string  `json:"maturity_date"    validate:"required,datetime=2006-01-02"`
	Status          string  `json:"status"`
	ComplianceScore *int    `json:"compliance_score" validate:"omitempty,gte=0,lte=100"`
	RiskSummary     string  `json:"risk_summary"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req createLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	l, err := h.uc.Create(c.Request().Context(), loan.CreateInput{
		Borrower:        req.Borrower,
		Amount:          req.Amount,
		Currency:        req.Currency,
		InterestRate:    req.InterestRate,
		StartDate:       req.StartDate,
		MaturityDate:    req.MaturityDate,
		Status:          loanDomain.Status(req.Status),
		ComplianceScore: req.ComplianceScore,
		RiskSummary:     req.RiskSummary,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, l)
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	items, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	detail, err := h.uc.GetDetail(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

type updateLoanReq struct {
	Borrower        *string  `json:"borrower"`
	Amount          *float64 `json:"amount"           validate:"omitempty,gt=0"`
	Currency        *string  `json:"currency"         validate:"omitempty,len=3"`
	InterestRate    *float64 `json:"interest_rate"    validate:"omitempty,gte=0,lte=100"`
	StartDate       *string  `json:"start_date"       validate:"omitempty,datetime=2006-01-02"`
	MaturityDate    *string  `json:"maturity_date"    validate:"omitempty,datetime=2006-01-02"`
	Status          *string  `json:"status"`
	ComplianceScore *int     `json:"compliance_score" validate:"omitempty,gte=0,lte=100"`
	RiskSummary     *string  `json:"risk_summary"`
}

func (h *LoanHandler) UpdateLoan(c echo.Context) error {
	var req updateLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	in := loan.UpdateInput{
		Borrower:        req.Borrower,
		Amount:          req.Amount,
		Currency:        req.Currency,
		InterestRate:    req.InterestRate,
		StartDate:       req.StartDate,
		MaturityDate:    req.MaturityDate,
		ComplianceScore: req.ComplianceScore,
		RiskSummary:     req.RiskSummary,
	}
	if req.Status != nil {
		s := loanDomain.Status(*req.Status)
		in.Status = &s
	}
	l, err := h.uc.Update(c.Request().Context(), c.Param("loan_id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *LoanHandler) DeleteLoan(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), c.Param("loan_id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *LoanHandler) LoanDashboard(c echo.Context) error {
	stats, err := h.uc.DashboardStats(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
