package photo

import (
	"errors"
	"fmt"
)

var (
	// ErrNotApplicable means the reference says there is no photo. It is not a failure.
	ErrNotApplicable = errors.New("photo: no photo for reference")
	// ErrFetchFailed covers every failure while exchanging a reference for a URL.
	ErrFetchFailed = errors.New("photo: fetch failed")
	// ErrInvalidInput is a kind/id/reference combination no request can be built for.
	ErrInvalidInput = errors.New("photo: invalid input")
	ErrUnknownKind  = fmt.Errorf("%w: unknown resource kind", ErrInvalidInput)
)

// FetchError is the single error shape a Fetcher failure is normalized to.
type FetchError struct {
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("photo: fetch %s failed with status %d: %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("photo: fetch %s failed: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFetchFailed}
	}
	return []error{ErrFetchFailed, e.Err}
}

// normalizeFetchError wraps any error into a *FetchError for kind.
func normalizeFetchError(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr
	}
	return &FetchError{Kind: kind, Err: err}
}
