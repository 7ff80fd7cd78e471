package postgrest

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingFilter is returned when Update or Delete executes without
	// at least one filter. Unfiltered mutations would touch every row.
	ErrMissingFilter = errors.New("at least one filter is required")

	// ErrNoRows is returned by Single() when the server returned no rows.
	ErrNoRows = errors.New("no rows returned")

	// ErrMultipleRows is returned by Single() when the server returned more
	// than one row.
	ErrMultipleRows = errors.New("multiple rows returned")

	// ErrServiceKeyRequired is returned when a privileged operation is
	// attempted over a client constructed without a service key.
	ErrServiceKeyRequired = errors.New("service key required")
)

// APIError is a non-2xx response from the server. Body holds the raw
// response text, which PostgREST fills with a JSON error description.
type APIError struct {
	Body   string
	Status int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("unexpected status code: %d, body: %s", e.Status, e.Body)
}

// IsStatus reports whether err is an *APIError with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
