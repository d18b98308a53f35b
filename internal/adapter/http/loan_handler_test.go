package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	loanDomain "coven-backend/internal/domain/loan"
	timelineDomain "coven-backend/internal/domain/timeline"
	"coven-backend/internal/domain/uow"
	"coven-backend/internal/testutil/loanmock"
	"coven-backend/internal/testutil/timelinemock"
	"coven-backend/internal/testutil/uowmock"
	loanuc "coven-backend/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

func newLoanServer(loans map[string]*loanDomain.Loan) (*echo.Echo, *LoanHandler) {
	repos := uow.Repos{
		Loans: &loanmock.Repo{
			CreateFn: func(_ context.Context, l *loanDomain.Loan) error {
				loans[l.ID] = l
				return nil
			},
			GetByIDFn: func(_ context.Context, id string) (*loanDomain.Loan, error) {
				l, ok := loans[id]
				if !ok {
					return nil, uowmock.NotFound
				}
				return l, nil
			},
			DeleteFn: func(_ context.Context, id string) error {
				if _, ok := loans[id]; !ok {
					return uowmock.NotFound
				}
				delete(loans, id)
				return nil
			},
		},
		Timeline: &timelinemock.Repo{
			CreateFn: func(_ context.Context, _ *timelineDomain.Event) error { return nil },
		},
	}
	h := NewLoanHandler(loanuc.NewUsecase(uowmock.Passthrough(repos)))

	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()
	e.POST("/api/loans", h.CreateLoan)
	e.DELETE("/api/loans/:loan_id", h.DeleteLoan)
	return e, h
}

func loanReq(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCreateLoan_Created(t *testing.T) {
	loans := map[string]*loanDomain.Loan{}
	e, _ := newLoanServer(loans)

	rec := loanReq(t, e, http.MethodPost, "/api/loans", `{
		"borrower": "Meridian Industrial Holdings",
		"amount": 25000000,
		"interest_rate": 6.5,
		"start_date": "2025-01-15",
		"maturity_date": "2030-01-15"
	}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}

	var got loanDomain.Loan
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(got.ID, "ln_") {
		t.Errorf("id=%q", got.ID)
	}
	if got.Currency != "USD" || got.ComplianceScore != 100 {
		t.Errorf("defaults not applied: %+v", got)
	}
	if len(loans) != 1 {
		t.Errorf("persisted loans=%d want=1", len(loans))
	}
}

func TestCreateLoan_InvalidBody(t *testing.T) {
	e, _ := newLoanServer(map[string]*loanDomain.Loan{})

	rec := loanReq(t, e, http.MethodPost, "/api/loans", `{"borrower": `)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=400", rec.Code)
	}
}

func TestCreateLoan_ValidationFailure(t *testing.T) {
	e, _ := newLoanServer(map[string]*loanDomain.Loan{})

	rec := loanReq(t, e, http.MethodPost, "/api/loans", `{
		"borrower": "",
		"amount": -5,
		"start_date": "15/01/2025",
		"maturity_date": "2030-01-15"
	}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d want=422 body=%s", rec.Code, rec.Body.String())
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "validation failed" {
		t.Errorf("error=%q", resp.Error)
	}
	if len(resp.Details) < 3 {
		t.Errorf("details=%d want >=3 (borrower, amount, start_date): %+v", len(resp.Details), resp.Details)
	}
}

func TestDeleteLoan(t *testing.T) {
	loans := map[string]*loanDomain.Loan{
		"ln_1a2b3c4d": {ID: "ln_1a2b3c4d", Borrower: "Meridian"},
	}
	e, _ := newLoanServer(loans)

	rec := loanReq(t, e, http.MethodDelete, "/api/loans/ln_1a2b3c4d", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status=%d want=204", rec.Code)
	}

	rec = loanReq(t, e, http.MethodDelete, "/api/loans/ln_1a2b3c4d", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status=%d want=404 on second delete", rec.Code)
	}
}
