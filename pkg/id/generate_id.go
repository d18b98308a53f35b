package id

import "github.com/google/uuid"

// Entity id prefixes. Every persisted record carries a human-readable,
// type-prefixed id, e.g. ln_3fa85f64.
const (
	PrefixLoan              = "ln"
	PrefixCovenant          = "cov"
	PrefixTimelineEvent     = "evt"
	PrefixRiskPrediction    = "rp"
	PrefixLoanDNA           = "dna"
	PrefixExtractedCovenant = "exc"
	PrefixDocument          = "doc"
)

// New returns "<prefix>_" followed by 8 lowercase hex characters.
func New(prefix string) string {
	return prefix + "_" + uuid.New().String()[:8]
}
