package serrors

import "fmt"

// RowReport describes the fate of a single ingested row.
type RowReport struct {
	Row     int    `json:"row"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BatchError carries the per-row outcome of a bulk operation that could not
// be committed. Applied counts the rows written before rollback.
type BatchError struct {
	Applied int         `json:"applied"`
	Reports []RowReport `json:"reports"`
	cause   error
}

func NewBatchError(applied int, reports []RowReport, cause error) *BatchError {
	return &BatchError{Applied: applied, Reports: reports, cause: cause}
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch failed after %d applied rows (%d row reports): %v", e.Applied, len(e.Reports), e.cause)
}

func (e *BatchError) Unwrap() error { return e.cause }
