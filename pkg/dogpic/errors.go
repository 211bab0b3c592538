package dogpic

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

const (
	readErrorMessage  = "I could not find that file"
	writeErrorMessage = "I could not write that file"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrInvalidBody      = errors.New("response body is not valid JSON")
	ErrMissingField     = errors.New("field not found in response body")
	ErrUnknownStyle     = errors.New("unknown style")
	ErrUnknownVariant   = errors.New("unknown variant")
)

// ReadError is returned when the breed file cannot be read. The underlying cause is not kept.
type ReadError struct {
	Path string
}

func (e *ReadError) Error() string {
	return readErrorMessage
}

// WriteError is returned when the image file cannot be written. The underlying cause is not kept.
type WriteError struct {
	Path string
}

func (e *WriteError) Error() string {
	return writeErrorMessage
}

// FetchError is returned when the image URL cannot be fetched. Err is the underlying cause, untouched.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: %v (%d %s)", e.URL, e.Err, e.StatusCode, http.StatusText(e.StatusCode))
	}

	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// StageOf returns the stage err originates from, or StageNone when err is not a stage error.
func StageOf(err error) Stage {
	var (
		readErr  *ReadError
		fetchErr *FetchError
		writeErr *WriteError
	)

	switch {
	case errors.As(err, &readErr):
		return StageRead
	case errors.As(err, &fetchErr):
		return StageFetch
	case errors.As(err, &writeErr):
		return StageWrite
	}

	return StageNone
}
