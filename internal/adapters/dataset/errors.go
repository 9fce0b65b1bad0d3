package dataset

import "errors"

// Sentinel error kinds for this package.
var (
	ErrLoadDataset = errors.New("load dataset failed")
)
