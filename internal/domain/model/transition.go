package model

import "time"

// Signal names recognized by the extractors, the weights table and the scorer.
const (
	SignalAgency      = "agency_continuity"
	SignalTiming      = "timing_proximity"
	SignalCompetition = "competition_type"
	SignalPatent      = "patent_activity"
	SignalTechAlign   = "tech_alignment"
)

// Vendor resolution methods, in cascade priority order.
const (
	MatchUEIExact  = "uei_exact"
	MatchCAGEExact = "cage_exact"
	MatchDUNSExact = "duns_exact"
	MatchNameFuzzy = "name_fuzzy"
)

// VendorMatch records how an award recipient was resolved to a contract
// recipient. Ephemeral: recomputed each run, persisted only inside an
// EvidenceBundle.
type VendorMatch struct {
	Method     string  `json:"method"`
	Confidence float64 `json:"confidence"`
	Matched    string  `json:"matched"`
}

// Signal is one extractor's contribution to a candidate pair. Present
// distinguishes a genuinely low score from a signal whose data source was
// unavailable; absent signals always carry a zero score.
type Signal struct {
	Name    string         `json:"name"`
	Present bool           `json:"present"`
	Score   float64        `json:"score"`
	Facts   map[string]any `json:"facts,omitempty"`
}

// Absent builds the placeholder for a signal whose input data is missing.
func Absent(name string) Signal {
	return Signal{Name: name}
}

// Confidence bands derived from the likelihood score.
type Confidence string

const (
	ConfidenceHigh     Confidence = "High"
	ConfidenceLikely   Confidence = "Likely"
	ConfidencePossible Confidence = "Possible"
)

// Rank orders bands for floor comparisons; higher is stronger.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceLikely:
		return 2
	case ConfidencePossible:
		return 1
	}
	return 0
}

// ContractSummary is the slice of contract fields embedded in evidence.
type ContractSummary struct {
	PIID        string    `json:"piid"`
	Agency      string    `json:"agency"`
	Amount      float64   `json:"amount"`
	StartDate   time.Time `json:"start_date"`
	Competition string    `json:"competition"`
}

// EvidenceMeta is the fixed metadata block on every bundle.
type EvidenceMeta struct {
	RunID         string    `json:"run_id"`
	ConfigVersion string    `json:"config_version"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// EvidenceBundle is the append-only audit record for one detection.
// Never modified after creation; bounded in serialized size.
type EvidenceBundle struct {
	Match     VendorMatch     `json:"vendor_match"`
	Signals   []Signal        `json:"signals"`
	Contract  ContractSummary `json:"contract"`
	Meta      EvidenceMeta    `json:"meta"`
	Truncated bool            `json:"truncated,omitempty"`
}

// Transition is a detected candidate transition from an award to a
// contract. Identity is (AwardID, ContractPIID); reruns update score and
// evidence but preserve DetectedAt for an unchanged identity.
type Transition struct {
	AwardID       string         `json:"award_id"`
	ContractPIID  string         `json:"contract_piid"`
	CompanyKey    string         `json:"company_key"`
	Score         float64        `json:"score"`
	Confidence    Confidence     `json:"confidence"`
	DetectedAt    time.Time      `json:"detected_at"`
	ConfigVersion string         `json:"config_version"`
	Evidence      EvidenceBundle `json:"evidence"`
}

// TransitionProfile aggregates all transitions belonging to one company.
// Recomputed wholesale each analytics run.
type TransitionProfile struct {
	CompanyKey                 string  `json:"company_key"`
	CompanyName                string  `json:"company_name"`
	TotalAwards                int     `json:"total_awards"`
	TotalTransitions           int     `json:"total_transitions"`
	SuccessRate                float64 `json:"success_rate"`
	AvgScore                   float64 `json:"avg_score"`
	AvgMonthsToTransition      float64 `json:"avg_months_to_transition"`
	SustainedCommercialization bool    `json:"sustained_commercialization"`
}
