package sink

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/okian/phase3/internal/domain/model"
)

// WriteJSONL streams transitions one JSON object per line, the hand-off
// format for the persistence collaborator.
func WriteJSONL(w io.Writer, transitions []model.Transition) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, t := range transitions {
		if err := enc.Encode(t); err != nil {
			return fmt.Errorf("encode transition %s/%s: %w", t.AwardID, t.ContractPIID, err)
		}
	}
	return bw.Flush()
}

// ReadJSONL loads transitions written by WriteJSONL, used to seed reruns
// with the prior detection set.
func ReadJSONL(r io.Reader) ([]model.Transition, error) {
	var out []model.Transition
	dec := json.NewDecoder(r)
	for dec.More() {
		var t model.Transition
		if err := dec.Decode(&t); err != nil {
			return nil, fmt.Errorf("decode transition: %w", err)
		}
		out = append(out, t)
	}
	return out, nil
}

// WriteProfiles serializes company profiles as a JSON array.
func WriteProfiles(w io.Writer, profiles []model.TransitionProfile) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(profiles); err != nil {
		return fmt.Errorf("encode profiles: %w", err)
	}
	return nil
}
