package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingLocation means the map page was opened without usable
	// coordinates or a place to geocode.
	ErrMissingLocation = errors.New("impact location is missing")

	// ErrLocationUnresolved means a place name could not be geocoded.
	ErrLocationUnresolved = errors.New("impact location could not be resolved")

	// ErrNoFeedData means the feed held no entries for the requested date.
	ErrNoFeedData = errors.New("no asteroid data for date")
)

// StatusError reports a non-success HTTP status from an upstream service.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s API error: status %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s API error: status %d: %s", e.Service, e.StatusCode, e.Body)
}

// MalformedResponseError reports a success response from an upstream
// service that lacks fields every valid response carries.
type MalformedResponseError struct {
	Service string
	Missing []string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s API response missing %s", e.Service, strings.Join(e.Missing, ", "))
}

// ParamError reports a missing or invalid query parameter.
type ParamError struct {
	Param  string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("query parameter %q %s", e.Param, e.Reason)
}

// IsInputError reports whether err was caused by the request rather than by
// an upstream service.
func IsInputError(err error) bool {
	var pe *ParamError
	return errors.As(err, &pe) ||
		errors.Is(err, ErrMissingLocation) ||
		errors.Is(err, ErrLocationUnresolved)
}
