package signal

import (
	"strings"

	"github.com/okian/phase3/internal/domain/model"
)

// Agency continuity sub-scores.
const (
	sameAgencyScore     = 1.0
	sameDepartmentScore = 0.5
)

// serviceDepartments maps service-level agencies to their parent
// department, so ARMY -> NAVY counts as same-department continuity.
var serviceDepartments = map[string]string{
	"DOD":    "DOD",
	"ARMY":   "DOD",
	"NAVY":   "DOD",
	"USAF":   "DOD",
	"AF":     "DOD",
	"USMC":   "DOD",
	"USSF":   "DOD",
	"DARPA":  "DOD",
	"MDA":    "DOD",
	"DTRA":   "DOD",
	"SOCOM":  "DOD",
	"DLA":    "DOD",
	"HHS":    "HHS",
	"NIH":    "HHS",
	"CDC":    "HHS",
	"FDA":    "HHS",
	"BARDA":  "HHS",
	"DOE":    "DOE",
	"ARPA-E": "DOE",
	"NNSA":   "DOE",
	"DHS":    "DHS",
	"CISA":   "DHS",
	"TSA":    "DHS",
	"USCG":   "DHS",
	"NASA":   "NASA",
	"NSF":    "NSF",
	"USDA":   "USDA",
	"DOT":    "DOT",
	"FAA":    "DOT",
	"DOC":    "DOC",
	"NOAA":   "DOC",
	"NIST":   "DOC",
	"ED":     "ED",
	"EPA":    "EPA",
	"VA":     "VA",
}

// AgencyExtractor scores funding-agency continuity between an award and a
// follow-on contract.
type AgencyExtractor struct{}

// NewAgencyExtractor creates the agency continuity extractor.
func NewAgencyExtractor() *AgencyExtractor { return &AgencyExtractor{} }

// Name implements Extractor.
func (e *AgencyExtractor) Name() string { return model.SignalAgency }

// Extract implements Extractor. Same agency scores full value; different
// services under the same department score half; unrelated scores zero.
func (e *AgencyExtractor) Extract(pair Pair) model.Signal {
	awardAgency := canonicalAgency(pair.Award.Agency)
	contractAgency := canonicalAgency(pair.Contract.Agency)
	if awardAgency == "" || contractAgency == "" {
		return model.Absent(e.Name())
	}

	score := 0.0
	sameAgency := awardAgency == contractAgency
	sameDepartment := false
	if sameAgency {
		score = sameAgencyScore
	} else if da, db := departmentOf(awardAgency), departmentOf(contractAgency); da != "" && da == db {
		sameDepartment = true
		score = sameDepartmentScore
	}

	return model.Signal{
		Name:    e.Name(),
		Present: true,
		Score:   score,
		Facts: map[string]any{
			"award_agency":    awardAgency,
			"contract_agency": contractAgency,
			"same_agency":     sameAgency,
			"same_department": sameDepartment,
		},
	}
}

func canonicalAgency(a string) string {
	return strings.ToUpper(strings.TrimSpace(a))
}

func departmentOf(agency string) string {
	return serviceDepartments[agency]
}
