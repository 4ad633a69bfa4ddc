package domain

// QuoteResult is the outcome of one quote computation. An ineligible vehicle is
// a normal result, not an error: Eligible is false, RejectionReason explains
// why, and every price and ceiling field stays nil.
type QuoteResult struct {
	Eligible            bool     `json:"eligible"`
	RejectionReason     *string  `json:"motif_refus,omitempty"`
	PricePrimary        *float64 `json:"prix_3_mois,omitempty"`
	PriceExtended       *float64 `json:"prix_6_mois,omitempty"`
	CeilingMax          *float64 `json:"plafond_maximum,omitempty"`
	CeilingIntermediate *float64 `json:"plafond_intermediaire,omitempty"`
	CeilingCondition    *string  `json:"condition_plafond,omitempty"`
	RuleVersion         string   `json:"version_bareme"`
}

// Rejected builds an ineligible result carrying only the reason.
func Rejected(reason, ruleVersion string) QuoteResult {
	return QuoteResult{RejectionReason: &reason, RuleVersion: ruleVersion}
}
