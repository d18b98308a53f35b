package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	covenantDomain "coven-backend/internal/domain/covenant"
	dnaDomain "coven-backend/internal/domain/dna"
	loanDomain "coven-backend/internal/domain/loan"
	riskDomain "coven-backend/internal/domain/risk"
	timelineDomain "coven-backend/internal/domain/timeline"
	"coven-backend/internal/domain/uow"
	loanuc "coven-backend/internal/usecase/loan"
	"coven-backend/internal/usecase/scoring"
	"coven-backend/pkg/id"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Usecase orchestrates the AI-assisted flows: it shapes domain state into
// prompts, parses the collaborator's output defensively, and feeds results
// back into the scoring engine. Malformed model output never escapes this
// package as an error; it degrades to deterministic fallbacks.
type Usecase struct {
	uow       uow.UnitOfWork
	generator TextGenerator
	extractor TextExtractor
	log       *logrus.Logger
}

func NewUsecase(u uow.UnitOfWork, gen TextGenerator, ext TextExtractor, log *logrus.Logger) *Usecase {
	return &Usecase{uow: u, generator: gen, extractor: ext, log: log}
}

type Summary struct {
	Summary         string `json:"summary"`
	LoanID          string `json:"loan_id"`
	ComplianceScore int    `json:"compliance_score"`
}

type Explanation struct {
	Explanation     string                          `json:"explanation"`
	CovenantID      string                          `json:"covenant_id"`
	Status          covenantDomain.ComplianceStatus `json:"status"`
	ComplianceScore int                             `json:"compliance_score"`
}

type Prediction struct {
	CovenantID          string           `json:"covenantId"`
	CovenantTitle       string           `json:"covenantTitle"`
	CurrentValue        string           `json:"currentValue"`
	Threshold           string           `json:"threshold"`
	Probability         int              `json:"probability"`
	Trend               riskDomain.Trend `json:"trend"`
	PredictedBreachDate string           `json:"predictedBreachDate"`
	Explanation         string           `json:"explanation"`
}

type PredictionBatch struct {
	Predictions     []Prediction `json:"predictions"`
	LoanID          string       `json:"loan_id"`
	ComplianceScore int          `json:"compliance_score"`
	Message         string       `json:"message,omitempty"`
}

type WhatChanged struct {
	Explanation    string `json:"explanation"`
	LoanID         string `json:"loan_id"`
	EventsAnalyzed int    `json:"events_analyzed"`
}

type KeyTerms struct {
	FacilityType string `json:"facilityType"`
	Purpose      string `json:"purpose"`
	SecurityType string `json:"securityType"`
	GoverningLaw string `json:"governingLaw"`
}

type ExtractedCovenant struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	Threshold   string `json:"threshold"`
	Frequency   string `json:"frequency"`
	Description string `json:"description"`
}

// DNAProposal is the extraction result returned to the caller; persisting
// it as a LoanDNA record is a separate write with its own 1:1 guard.
type DNAProposal struct {
	ExtractedAt        string              `json:"extractedAt"`
	SourceDocument     string              `json:"sourceDocument"`
	Confidence         int                 `json:"confidence"`
	KeyTerms           KeyTerms            `json:"keyTerms"`
	ExtractedCovenants []ExtractedCovenant `json:"extractedCovenants"`
	RiskFactors        []string            `json:"riskFactors"`
	Summary            string              `json:"summary"`
}

// SummarizeLoan recomputes the loan's compliance score (committed before
// the AI call, and kept even if that call fails) and asks the collaborator
// for an executive summary.
func (u *Usecase) SummarizeLoan(ctx context.Context, loanID string) (*Summary, error) {
	var (
		l         loanDomain.Loan
		covenants []covenantDomain.Covenant
	)
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, locked *loanDomain.Loan) error {
		var err error
		if covenants, err = r.Covenants.ListByLoan(ctx, loanID); err != nil {
			return err
		}
		if _, err = scoring.Apply(ctx, r, locked); err != nil {
			return err
		}
		l = *locked
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	type covenantLine struct {
		Title     string                          `json:"title"`
		Type      covenantDomain.Type             `json:"type"`
		Status    covenantDomain.ComplianceStatus `json:"status"`
		Value     string                          `json:"value"`
		Threshold string                          `json:"threshold"`
	}
	lines := make([]covenantLine, 0, len(covenants))
	atRisk := 0
	for _, c := range covenants {
		lines = append(lines, covenantLine{Title: c.Title, Type: c.Type, Status: c.Status, Value: c.Value, Threshold: c.Threshold})
		if c.Status == covenantDomain.StatusAtRisk || c.Status == covenantDomain.StatusBreached {
			atRisk++
		}
	}
	covenantsJSON, _ := json.MarshalIndent(lines, "", "  ")

	prompt := fmt.Sprintf(`Analyze this loan and provide an executive summary:

Borrower: %s
Amount: %s %s
Interest Rate: %.2f%%
Status: %s
Compliance Score: %d/100
Start Date: %s
Maturity Date: %s

Covenants (%d total, %d at risk/breached):
%s

Provide a brief executive summary highlighting the loan's current standing and any concerns.`,
		l.Borrower, l.Currency, loanuc.FormatAmount(l.Amount), l.InterestRate, l.Status,
		l.ComplianceScore, l.StartDate, l.MaturityDate, len(lines), atRisk, covenantsJSON)

	summary, err := u.generator.Chat(ctx, prompt, summarySystemPrompt)
	if err != nil {
		return nil, err
	}
	return &Summary{Summary: summary, LoanID: loanID, ComplianceScore: l.ComplianceScore}, nil
}

// ExplainCovenant asks the collaborator for a status-tailored explanation
// of one covenant and recomputes the loan's score afterwards.
func (u *Usecase) ExplainCovenant(ctx context.Context, covenantID string) (*Explanation, error) {
	var (
		c covenantDomain.Covenant
		l loanDomain.Loan
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		got, err := r.Covenants.GetByID(ctx, covenantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return covenantDomain.ErrNotFound
			}
			return err
		}
		c = *got
		owner, err := r.Loans.GetByID(ctx, c.LoanID)
		if err != nil {
			return err
		}
		l = *owner
		return nil
	})
	if err != nil {
		return nil, err
	}

	waiverInfo := ""
	if c.Status == covenantDomain.StatusWaived && c.WaiverReason != nil {
		waiverInfo = fmt.Sprintf("\nWaiver Info: Granted on %s by %s. Reason: %s",
			deref(c.WaiverDate), deref(c.WaiverApprovedBy), *c.WaiverReason)
	}

	prompt := fmt.Sprintf(`Explain this covenant's current status and its significance:

Covenant: %s
Type: %s
Description: %s
Current Value: %s
Threshold: %s
Status: %s
Due Date: %s
Borrower: %s
Loan Compliance Score: %d

%s
%s

Provide a clear explanation (2-3 paragraphs) of this covenant's status and its implications.`,
		c.Title, c.Type, c.Description,
		orDefault(c.Value, "Not yet measured"), orDefault(c.Threshold, "Not specified"),
		c.Status, c.DueDate, l.Borrower, l.ComplianceScore,
		statusHints[c.Status], waiverInfo)

	explanation, err := u.generator.Chat(ctx, prompt, explanationSystemPrompt)
	if err != nil {
		return nil, err
	}

	// The explanation flow refreshes the score as a side effect.
	_, newScore, err := scoring.NewEngine(u.uow).Recalculate(ctx, c.LoanID)
	if err != nil {
		return nil, err
	}
	return &Explanation{Explanation: explanation, CovenantID: covenantID, Status: c.Status, ComplianceScore: newScore}, nil
}

// PredictRisks generates breach predictions for the loan's financial
// covenants, persists them, and blends the outcome into the compliance
// score. A loan without financial covenants yields an empty batch, not an
// error.
func (u *Usecase) PredictRisks(ctx context.Context, loanID string) (*PredictionBatch, error) {
	var (
		l          loanDomain.Loan
		financials []covenantDomain.Covenant
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		got, err := r.Loans.GetByID(ctx, loanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return loanDomain.ErrNotFound
			}
			return err
		}
		l = *got
		financials, err = r.Covenants.ListByLoanAndType(ctx, loanID, covenantDomain.TypeFinancial)
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(financials) == 0 {
		return &PredictionBatch{
			Predictions:     []Prediction{},
			LoanID:          loanID,
			ComplianceScore: l.ComplianceScore,
			Message:         "No financial covenants to analyze",
		}, nil
	}

	type covenantInfo struct {
		ID           string                          `json:"id"`
		Title        string                          `json:"title"`
		CurrentValue string                          `json:"current_value"`
		Threshold    string                          `json:"threshold"`
		Status       covenantDomain.ComplianceStatus `json:"status"`
		DueDate      string                          `json:"due_date"`
	}
	info := make([]covenantInfo, 0, len(financials))
	for _, c := range financials {
		info = append(info, covenantInfo{
			ID:           c.ID,
			Title:        c.Title,
			CurrentValue: orDefault(c.Value, "Unknown"),
			Threshold:    orDefault(c.Threshold, "Unknown"),
			Status:       c.Status,
			DueDate:      c.DueDate,
		})
	}
	infoJSON, _ := json.MarshalIndent(info, "", "  ")

	prompt := fmt.Sprintf(`Analyze breach risk for these financial covenants:

Loan: %s
Current Compliance Score: %d
Loan Status: %s

Covenants:
%s

For EACH covenant, analyze the risk and return a JSON array with predictions.
Each prediction must have: probability, trend, predicted_breach_date, explanation.

Return ONLY valid JSON array, no other text.`, l.Borrower, l.ComplianceScore, l.Status, infoJSON)

	raw, err := u.generator.Chat(ctx, prompt, predictionSystemPrompt)
	if err != nil {
		return nil, err
	}

	predictions := parsePredictions(raw, financials)
	if predictions == nil {
		u.log.WithField("loan_id", loanID).Warn("unparseable prediction response, using status heuristic")
		predictions = fallbackPredictions(financials, l.ComplianceScore)
	}

	totalProb := 0
	for _, p := range predictions {
		totalProb += p.Probability
	}
	avgRisk := float64(totalProb) / float64(len(predictions))

	var newScore int
	err = u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, locked *loanDomain.Loan) error {
		for _, p := range predictions {
			rec := &riskDomain.Prediction{
				ID:                  id.New(id.PrefixRiskPrediction),
				LoanID:              loanID,
				CovenantID:          p.CovenantID,
				CurrentValue:        p.CurrentValue,
				Threshold:           p.Threshold,
				PredictedBreachDate: p.PredictedBreachDate,
				Probability:         p.Probability,
				Trend:               p.Trend,
				Explanation:         p.Explanation,
			}
			if err := r.Predictions.Create(ctx, rec); err != nil {
				return err
			}
		}
		var err error
		newScore, err = scoring.ApplyBlended(ctx, r, locked, avgRisk)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &PredictionBatch{Predictions: predictions, LoanID: loanID, ComplianceScore: newScore}, nil
}

// fallbackPredictions is the deterministic status-derived heuristic used
// whenever the model response cannot be paired with the covenant batch.
func fallbackPredictions(covenants []covenantDomain.Covenant, loanScore int) []Prediction {
	out := make([]Prediction, 0, len(covenants))
	for _, c := range covenants {
		var base int
		switch c.Status {
		case covenantDomain.StatusCompliant:
			base = 15
		case covenantDomain.StatusAtRisk:
			base = 70
		case covenantDomain.StatusBreached:
			base = 100
		case covenantDomain.StatusUpcoming:
			base = 30
		case covenantDomain.StatusWaived:
			base = 5
		default:
			base = 30
		}

		trend := riskDomain.TrendStable
		switch {
		case c.Status == covenantDomain.StatusAtRisk || c.Status == covenantDomain.StatusBreached:
			trend = riskDomain.TrendDeteriorating
		case c.Status == covenantDomain.StatusCompliant && loanScore > 90:
			trend = riskDomain.TrendImproving
		}

		date := "N/A"
		if c.Status == covenantDomain.StatusBreached {
			date = "Already breached"
		} else if base > 50 {
			date = "Within 3 months"
		}

		out = append(out, Prediction{
			CovenantID:          c.ID,
			CovenantTitle:       c.Title,
			CurrentValue:        orDefault(c.Value, "Pending"),
			Threshold:           orDefault(c.Threshold, "N/A"),
			Probability:         base,
			Trend:               trend,
			PredictedBreachDate: date,
			Explanation: fmt.Sprintf("Based on current %s status and loan compliance score of %d%%.",
				strings.ToLower(string(c.Status)), loanScore),
		})
	}
	return out
}

// WhatChangedSummary summarizes the loan's recent audit activity.
func (u *Usecase) WhatChangedSummary(ctx context.Context, loanID string) (*WhatChanged, error) {
	var (
		l      loanDomain.Loan
		events []timelineDomain.Event
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		got, err := r.Loans.GetByID(ctx, loanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return loanDomain.ErrNotFound
			}
			return err
		}
		l = *got
		events, err = r.Timeline.ListByLoanLimit(ctx, loanID, 10)
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(events) == 0 {
		return &WhatChanged{Explanation: noChangesMessage, LoanID: loanID}, nil
	}

	type eventLine struct {
		Type        timelineDomain.EventType `json:"type"`
		Date        string                   `json:"date"`
		Title       string                   `json:"title"`
		Description string                   `json:"description"`
	}
	lines := make([]eventLine, 0, len(events))
	for _, e := range events {
		lines = append(lines, eventLine{Type: e.Type, Date: e.Date, Title: e.Title, Description: e.Description})
	}
	eventsJSON, _ := json.MarshalIndent(lines, "", "  ")

	prompt := fmt.Sprintf(`Summarize recent activity for this loan:

Borrower: %s
Current Compliance Score: %d
Loan Status: %s

Recent Events:
%s

Provide:
1. A summary of key changes
2. Current risk assessment
3. Recommended actions if any

Format with markdown headers and bullet points.`, l.Borrower, l.ComplianceScore, l.Status, eventsJSON)

	explanation, err := u.generator.Chat(ctx, prompt, whatChangedSystemPrompt)
	if err != nil {
		return nil, err
	}
	return &WhatChanged{Explanation: explanation, LoanID: loanID, EventsAnalyzed: len(lines)}, nil
}

type ExtractInput struct {
	LoanID       string
	FileContent  []byte
	Filename     string
	DocumentText string
}

// ExtractLoanDNA runs OCR (when given bytes) and the extraction prompt,
// returning a structured proposal. Once text is available the flow never
// hard-fails on model output: unparseable responses degrade to a fixed
// fallback with lower confidence.
func (u *Usecase) ExtractLoanDNA(ctx context.Context, in ExtractInput) (*DNAProposal, error) {
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Loans.GetByID(ctx, in.LoanID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return loanDomain.ErrNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	text := in.DocumentText
	filename := in.Filename
	if filename == "" {
		filename = "document.pdf"
	}
	if len(in.FileContent) > 0 {
		res, err := u.extractor.Extract(ctx, in.FileContent, filename, "eng")
		if err != nil {
			return nil, err
		}
		if !res.Success {
			return nil, fmt.Errorf("%w: %s", ErrUnprocessable, res.Error)
		}
		text = res.Text
	}
	if text == "" {
		return nil, ErrMissingInput
	}
	if len(text) > maxDocumentChars {
		text = text[:maxDocumentChars]
	}

	prompt := fmt.Sprintf(`Extract loan DNA from this document and return as JSON:

DOCUMENT TEXT:
%s

Return a JSON object with this exact structure:
{
  "keyTerms": {
    "facilityType": "string",
    "purpose": "string",
    "securityType": "string",
    "governingLaw": "string"
  },
  "extractedCovenants": [
    {
      "title": "string",
      "type": "Financial|Reporting|Affirmative|Negative",
      "threshold": "string",
      "frequency": "string",
      "description": "string"
    }
  ],
  "riskFactors": ["string"],
  "summary": "string (2-3 sentences)"
}

Return ONLY valid JSON, no other text.`, text)

	raw, err := u.generator.Chat(ctx, prompt, extractionSystemPrompt)
	if err != nil {
		return nil, err
	}

	today := time.Now().UTC().Format("2006-01-02")
	parsed := parseExtraction(raw)
	if parsed == nil {
		u.log.WithField("loan_id", in.LoanID).Warn("unparseable extraction response, using fallback structure")
		return fallbackProposal(today, filename, raw), nil
	}

	out := &DNAProposal{
		ExtractedAt:        today,
		SourceDocument:     filename,
		Confidence:         88,
		KeyTerms:           defaultKeyTerms(),
		ExtractedCovenants: parsed.ExtractedCovenants,
		RiskFactors:        parsed.RiskFactors,
		Summary:            orDefault(parsed.Summary, "Document analyzed successfully."),
	}
	if parsed.KeyTerms != nil {
		out.KeyTerms = KeyTerms(*parsed.KeyTerms)
	}
	if out.ExtractedCovenants == nil {
		out.ExtractedCovenants = []ExtractedCovenant{}
	}
	if out.RiskFactors == nil {
		out.RiskFactors = []string{}
	}
	return out, nil
}

func defaultKeyTerms() KeyTerms {
	return KeyTerms{
		FacilityType: "Term Loan",
		Purpose:      "General Corporate Purposes",
		SecurityType: "Senior Secured",
		GoverningLaw: "New York",
	}
}

func fallbackProposal(today, filename, raw string) *DNAProposal {
	summary := "Document analyzed."
	if raw != "" {
		if len(raw) > 500 {
			raw = raw[:500]
		}
		summary = raw
	}
	return &DNAProposal{
		ExtractedAt:    today,
		SourceDocument: filename,
		Confidence:     75,
		KeyTerms:       defaultKeyTerms(),
		ExtractedCovenants: []ExtractedCovenant{{
			Title:       "Maximum Leverage Ratio",
			Type:        "Financial",
			Threshold:   "< 4.0x",
			Frequency:   "Quarterly",
			Description: "Total Net Debt to EBITDA shall not exceed 4.0x",
		}},
		RiskFactors: []string{"Document parsing requires manual review"},
		Summary:     summary,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// SaveDNA persists an extraction proposal as the loan's DNA record,
// enforcing the one-per-loan rule at write time.
func (u *Usecase) SaveDNA(ctx context.Context, loanID string, p DNAProposal) (*dnaDomain.LoanDNA, error) {
	riskFactors, _ := json.Marshal(p.RiskFactors)
	rec := &dnaDomain.LoanDNA{
		ID:             id.New(id.PrefixLoanDNA),
		LoanID:         loanID,
		ExtractedAt:    orDefault(p.ExtractedAt, time.Now().UTC().Format("2006-01-02")),
		SourceDocument: p.SourceDocument,
		Confidence:     p.Confidence,
		Summary:        p.Summary,
		FacilityType:   p.KeyTerms.FacilityType,
		Purpose:        p.KeyTerms.Purpose,
		SecurityType:   p.KeyTerms.SecurityType,
		GoverningLaw:   p.KeyTerms.GoverningLaw,
		RiskFactors:    string(riskFactors),
	}
	for _, c := range p.ExtractedCovenants {
		rec.ExtractedCovenants = append(rec.ExtractedCovenants, dnaDomain.ExtractedCovenant{
			ID:          id.New(id.PrefixExtractedCovenant),
			Title:       c.Title,
			Type:        c.Type,
			Threshold:   c.Threshold,
			Frequency:   c.Frequency,
			Description: c.Description,
		})
	}

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Loans.GetByID(ctx, loanID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return loanDomain.ErrNotFound
			}
			return err
		}
		_, err := r.DNA.GetByLoanID(ctx, loanID)
		if err == nil {
			return dnaDomain.ErrDuplicate
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return r.DNA.Create(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// GetDNA loads the loan's DNA record.
func (u *Usecase) GetDNA(ctx context.Context, loanID string) (*dnaDomain.LoanDNA, error) {
	var out *dnaDomain.LoanDNA
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		d, err := r.DNA.GetByLoanID(ctx, loanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dnaDomain.ErrNotFound
			}
			return err
		}
		out = d
		return nil
	})
	return out, err
}
