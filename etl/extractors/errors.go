package extractors

import (
	"fmt"

	"github.com/Syed-Awais10/Airline-data-warehouse/etl/models"
)

// SourceError is a tagged extract failure. The run controller records the
// kind in the source report and continues with the remaining sources.
type SourceError struct {
	Kind models.FailureKind
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// unavailable wraps a connectivity or I/O failure.
func unavailable(format string, v ...interface{}) error {
	return &SourceError{Kind: models.FailureSourceUnavailable, Err: fmt.Errorf(format, v...)}
}

// mismatch wraps a missing-column or malformed-payload failure.
func mismatch(format string, v ...interface{}) error {
	return &SourceError{Kind: models.FailureSchemaMismatch, Err: fmt.Errorf(format, v...)}
}
