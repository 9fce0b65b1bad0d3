// Package dataset loads the collaborator-supplied input files. Records are
// already validated upstream; this layer only decodes JSON into typed
// records and loads everything fully before detection starts, so the
// pipeline has no mid-computation I/O.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/okian/phase3/internal/domain/model"
)

// LoadAwards reads a JSON array of awards.
func LoadAwards(path string) ([]model.Award, error) {
	var out []model.Award
	if err := loadJSON(path, &out); err != nil {
		return nil, fmt.Errorf("%w: awards: %v", ErrLoadDataset, err)
	}
	return out, nil
}

// LoadContracts reads a JSON array of contracts.
func LoadContracts(path string) ([]model.Contract, error) {
	var out []model.Contract
	if err := loadJSON(path, &out); err != nil {
		return nil, fmt.Errorf("%w: contracts: %v", ErrLoadDataset, err)
	}
	return out, nil
}

// LoadPatents reads a JSON array of patents. An empty path is allowed; the
// patent signal simply degrades to absent.
func LoadPatents(path string) ([]model.Patent, error) {
	if path == "" {
		return nil, nil
	}
	var out []model.Patent
	if err := loadJSON(path, &out); err != nil {
		return nil, fmt.Errorf("%w: patents: %v", ErrLoadDataset, err)
	}
	return out, nil
}

func loadJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	if err := dec.Decode(v); err != nil {
		return err
	}
	return nil
}
