package http

import (
	"net/http"

	"coven-backend/internal/usecase/analysis"

	"github.com/labstack/echo/v4"
)

type DNAHandler struct{ uc *analysis.Usecase }

func NewDNAHandler(uc *analysis.Usecase) *DNAHandler { return &DNAHandler{uc: uc} }

type saveDNAReq struct {
	LoanID             string                       `json:"loan_id" validate:"required,resourceid"`
	ExtractedAt        string                       `json:"extractedAt" validate:"omitempty,datetime=2006-01-02"`
	SourceDocument     string                       `json:"sourceDocument"`
	Confidence         int                          `json:"confidence" validate:"gte=0,lte=100"`
	KeyTerms           analysis.KeyTerms            `json:"keyTerms"`
	ExtractedCovenants []analysis.ExtractedCovenant `json:"extractedCovenants"`
	RiskFactors        []string                     `json:"riskFactors"`
	Summary            string                       `json:"summary"`
}

// SaveDNA persists an extraction proposal; a loan may hold at most one
// DNA record.
func (h *DNAHandler) SaveDNA(c echo.Context) error {
	var req saveDNAReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	rec, err := h.uc.SaveDNA(c.Request().Context(), req.LoanID, analysis.DNAProposal{
		ExtractedAt:        req.ExtractedAt,
		SourceDocument:     req.SourceDocument,
		Confidence:         req.Confidence,
		KeyTerms:           req.KeyTerms,
		ExtractedCovenants: req.ExtractedCovenants,
		RiskFactors:        req.RiskFactors,
		Summary:            req.Summary,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *DNAHandler) GetDNA(c echo.Context) error {
	rec, err := h.uc.GetDNA(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}
