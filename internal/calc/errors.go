package calc

import (
	"errors"
	"fmt"
)

// CalculationError is returned when request data fails domain validation.
// The message is safe to surface to API clients. All calculation failures
// abort the whole request; there is no partial result.
type CalculationError struct {
	Detail string
}

func (e *CalculationError) Error() string {
	return e.Detail
}

// errorf builds a CalculationError with a formatted message.
func errorf(format string, args ...any) *CalculationError {
	return &CalculationError{Detail: fmt.Sprintf(format, args...)}
}

// LookupNotFoundError is returned when the external handover lookup has no
// value for a station type. It is a domain failure like CalculationError,
// kept distinct so the missing id stays observable.
type LookupNotFoundError struct {
	StationTypeID int
}

func (e *LookupNotFoundError) Error() string {
	return fmt.Sprintf("handover for station type %d not found", e.StationTypeID)
}

// IsDomainError reports whether err is part of the calculation error family
// that the API boundary maps to a rejected request. Transport failures from
// the external lookup are not domain errors and propagate unmodified.
func IsDomainError(err error) bool {
	var calcErr *CalculationError
	var notFound *LookupNotFoundError
	return errors.As(err, &calcErr) || errors.As(err, &notFound)
}
