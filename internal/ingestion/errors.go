package ingestion

import "errors"

// Pipeline failure taxonomy. All four abort the current run; none are
// retried. Row-level problems (missing fields, unparseable numbers,
// wrong category) are skipped data, not errors.
var (
	// ErrFetch is returned when the remote dataset cannot be downloaded.
	ErrFetch = errors.New("dataset fetch failed")

	// ErrDecode is returned when the compressed payload is corrupt or
	// truncated.
	ErrDecode = errors.New("dataset decompression failed")

	// ErrParse is returned when the decompressed payload is not valid
	// tabular data (missing header, inconsistent columns).
	ErrParse = errors.New("dataset parse failed")

	// ErrStore is returned when the warehouse store rejects the bulk
	// insert.
	ErrStore = errors.New("warehouse store insert failed")
)
