package domain

import "fmt"

type FetchErrorKind string

const (
	FetchNotFound  FetchErrorKind = "not_found"
	FetchBlocked   FetchErrorKind = "blocked"
	FetchTransient FetchErrorKind = "transient"
	FetchUnknown   FetchErrorKind = "unknown"
)

// FetchError classifies a failed page retrieval. Only FetchTransient is
// eligible for retry within a run.
type FetchError struct {
	Kind   FetchErrorKind
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s (status %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch %s (status %d)", e.Kind, e.Status)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
