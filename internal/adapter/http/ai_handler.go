package http

import (
	"io"
	"net/http"

	"coven-backend/internal/usecase/analysis"
	"coven-backend/internal/usecase/scoring"

	"github.com/labstack/echo/v4"
)

// AIHandler exposes the AI-assisted analysis endpoints. All of them are
// POST: even the read-like ones recompute and persist compliance scores.
type AIHandler struct {
	uc     *analysis.Usecase
	scorer *scoring.Engine
}

func NewAIHandler(uc *analysis.Usecase, scorer *scoring.Engine) *AIHandler {
	return &AIHandler{uc: uc, scorer: scorer}
}

type loanRef struct {
	LoanID string `json:"loan_id" validate:"required,resourceid"`
}

type covenantRef struct {
	CovenantID string `json:"covenant_id" validate:"required,resourceid"`
}

func (h *AIHandler) bindLoanRef(c echo.Context) (string, error) {
	var req loanRef
	if err := c.Bind(&req); err != nil {
		return "", c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return "", c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return req.LoanID, nil
}

func (h *AIHandler) LoanSummary(c echo.Context) error {
	loanID, err := h.bindLoanRef(c)
	if err != nil {
		return err
	}
	out, err := h.uc.SummarizeLoan(c.Request().Context(), loanID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AIHandler) CovenantExplanation(c echo.Context) error {
	var req covenantRef
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	out, err := h.uc.ExplainCovenant(c.Request().Context(), req.CovenantID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AIHandler) RiskPredictions(c echo.Context) error {
	loanID, err := h.bindLoanRef(c)
	if err != nil {
		return err
	}
	out, err := h.uc.PredictRisks(c.Request().Context(), loanID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AIHandler) WhatChanged(c echo.Context) error {
	loanID, err := h.bindLoanRef(c)
	if err != nil {
		return err
	}
	out, err := h.uc.WhatChangedSummary(c.Request().Context(), loanID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// ExtractLoanDNA accepts either a multipart upload ("file" part plus a
// "loan_id" field) or a JSON body with loan_id and document_text.
func (h *AIHandler) ExtractLoanDNA(c echo.Context) error {
	in := analysis.ExtractInput{}

	if fh, err := c.FormFile("file"); err == nil {
		if fh.Size > maxUploadBytes {
			return c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "file too large"})
		}
		f, err := fh.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unreadable file"})
		}
		defer f.Close()
		content, err := io.ReadAll(f)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unreadable file"})
		}
		in.LoanID = c.FormValue("loan_id")
		in.Filename = fh.Filename
		in.FileContent = content
	} else {
		var req struct {
			LoanID       string `json:"loan_id"`
			DocumentText string `json:"document_text"`
			Filename     string `json:"filename"`
		}
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
		}
		in.LoanID = req.LoanID
		in.DocumentText = req.DocumentText
		in.Filename = req.Filename
	}
	if !reResourceID.MatchString(in.LoanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid loan_id"})
	}

	out, err := h.uc.ExtractLoanDNA(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// RecalculateScore recomputes the loan's status-derived compliance score
// without calling the model.
func (h *AIHandler) RecalculateScore(c echo.Context) error {
	loanID, err := h.bindLoanRef(c)
	if err != nil {
		return err
	}
	oldScore, newScore, err := h.scorer.Recalculate(c.Request().Context(), loanID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"loan_id":   loanID,
		"old_score": oldScore,
		"new_score": newScore,
	})
}
