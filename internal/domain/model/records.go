// Package model contains domain records passed between layers.
//
// Award, Contract, Patent and Classification are inputs owned by the
// ingestion collaborators; this subsystem never mutates them.
package model

import "time"

// Competition types carried on federal contract records.
const (
	CompetitionSoleSource = "sole_source"
	CompetitionLimited    = "limited"
	CompetitionFull       = "full"
)

// Classification is a technology-area label with a confidence score,
// produced by the external CET classifier.
type Classification struct {
	TechArea   string  `json:"tech_area"`
	Confidence float64 `json:"confidence"`
}

// Award is a completed SBIR research award.
type Award struct {
	AwardID        string          `json:"award_id"`
	Phase          string          `json:"phase,omitempty"` // "I" or "II", may be empty
	RecipientName  string          `json:"recipient_name"`
	UEI            string          `json:"uei,omitempty"`
	CAGE           string          `json:"cage,omitempty"`
	DUNS           string          `json:"duns,omitempty"`
	Agency         string          `json:"agency"`
	CompletionDate time.Time       `json:"completion_date"`
	Abstract       string          `json:"abstract,omitempty"`
	Classification *Classification `json:"classification,omitempty"`
}

// Valid reports whether the award carries the fields detection requires.
// Invalid awards are skipped and counted, never fatal.
func (a Award) Valid() bool {
	return a.AwardID != "" && a.RecipientName != "" && !a.CompletionDate.IsZero()
}

// Contract is a federal contract record, the potential target of a transition.
type Contract struct {
	PIID            string    `json:"piid"`
	RecipientName   string    `json:"recipient_name"`
	UEI             string    `json:"uei,omitempty"`
	CAGE            string    `json:"cage,omitempty"`
	DUNS            string    `json:"duns,omitempty"`
	Agency          string    `json:"agency"`
	StartDate       time.Time `json:"start_date"`
	ObligatedAmount float64   `json:"obligated_amount"`
	Competition     string    `json:"competition"`
	TechArea        string    `json:"tech_area,omitempty"` // inferred, may be empty
}

// Valid reports whether the contract carries the fields detection requires.
func (c Contract) Valid() bool {
	return c.PIID != "" && c.RecipientName != "" && !c.StartDate.IsZero()
}

// Patent is a filing attributed to an assignee, supplied by the external
// patent-corpus collaborator.
type Patent struct {
	PatentID     string    `json:"patent_id"`
	AssigneeName string    `json:"assignee_name"`
	AssigneeUEI  string    `json:"assignee_uei,omitempty"`
	FilingDate   time.Time `json:"filing_date"`
	Abstract     string    `json:"abstract,omitempty"`
}
