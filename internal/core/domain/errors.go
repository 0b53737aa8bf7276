package domain

import "errors"

// ErrInvalidInput marks a malformed caller request
var ErrInvalidInput = errors.New("invalid input")

// Query errors
var (
	ErrScopeUnavailable   = errors.New("scope unavailable: principal or branch not resolved")
	ErrMissingTotalCount  = errors.New("search procedure returned rows without total_count")
	ErrUnsupportedFilter  = errors.New("filter not supported by search procedure")
	ErrInvalidPageRequest = errors.New("invalid page request")
	ErrScopeViolation     = errors.New("row outside of query scope")
)

// QueryError wraps a transport or remote failure of a repledge query.
// A QueryError never carries partial data.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewQueryError wraps err unless it already is a QueryError
func NewQueryError(op string, err error) error {
	var qe *QueryError
	if errors.As(err, &qe) {
		return err
	}
	return &QueryError{Op: op, Err: err}
}

// IsQueryError reports whether err is (or wraps) a QueryError
func IsQueryError(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe)
}
