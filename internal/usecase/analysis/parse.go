package analysis

import (
	"encoding/json"
	"strings"

	covenantDomain "coven-backend/internal/domain/covenant"
	riskDomain "coven-backend/internal/domain/risk"
)

// jsonSlice returns the widest substring of s delimited by open/close, the
// usual way to dig a JSON payload out of chatty model output.
func jsonSlice(s string, open, close byte) (string, bool) {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

type rawPrediction struct {
	Probability         *int    `json:"probability"`
	Trend               *string `json:"trend"`
	PredictedBreachDate *string `json:"predicted_breach_date"`
	Explanation         *string `json:"explanation"`
}

// parsePredictions maps the i-th parsed object onto the i-th covenant of
// the stable query order. Any parse failure, or fewer entries than
// covenants, rejects the whole batch (nil return) so the caller falls back
// to the deterministic heuristic; partial pairing is never attempted.
func parsePredictions(raw string, covenants []covenantDomain.Covenant) []Prediction {
	arr, ok := jsonSlice(raw, '[', ']')
	if !ok {
		return nil
	}
	var parsed []rawPrediction
	if err := json.Unmarshal([]byte(arr), &parsed); err != nil {
		return nil
	}
	if len(parsed) < len(covenants) {
		return nil
	}

	out := make([]Prediction, 0, len(covenants))
	for i, c := range covenants {
		p := parsed[i]
		pred := Prediction{
			CovenantID:          c.ID,
			CovenantTitle:       c.Title,
			CurrentValue:        orDefault(c.Value, "Pending"),
			Threshold:           orDefault(c.Threshold, "N/A"),
			Probability:         50,
			Trend:               riskDomain.TrendStable,
			PredictedBreachDate: "N/A",
			Explanation:         "Analysis pending.",
		}
		if p.Probability != nil {
			pred.Probability = clampProbability(*p.Probability)
		}
		if p.Trend != nil && riskDomain.ValidTrend(riskDomain.Trend(*p.Trend)) {
			pred.Trend = riskDomain.Trend(*p.Trend)
		}
		if p.PredictedBreachDate != nil && *p.PredictedBreachDate != "" {
			pred.PredictedBreachDate = *p.PredictedBreachDate
		}
		if p.Explanation != nil && *p.Explanation != "" {
			pred.Explanation = *p.Explanation
		}
		out = append(out, pred)
	}
	return out
}

func clampProbability(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

type rawKeyTerms struct {
	FacilityType string `json:"facilityType"`
	Purpose      string `json:"purpose"`
	SecurityType string `json:"securityType"`
	GoverningLaw string `json:"governingLaw"`
}

type rawExtraction struct {
	KeyTerms           *rawKeyTerms         `json:"keyTerms"`
	ExtractedCovenants []ExtractedCovenant  `json:"extractedCovenants"`
	RiskFactors        []string             `json:"riskFactors"`
	Summary            string               `json:"summary"`
}

// parseExtraction digs the DNA object out of the model response. A nil
// return means the caller must use the fixed fallback structure.
func parseExtraction(raw string) *rawExtraction {
	obj, ok := jsonSlice(raw, '{', '}')
	if !ok {
		return nil
	}
	var parsed rawExtraction
	if err := json.Unmarshal([]byte(obj), &parsed); err != nil {
		return nil
	}
	return &parsed
}
