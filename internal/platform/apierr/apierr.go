package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind sentinels. Match with errors.Is.
var (
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation error")
	ErrProvider         = errors.New("provider error")
	ErrAmbiguousMatch   = errors.New("ambiguous match")
)

type Error struct {
	Status int
	Code   string
	Kind   error
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Kind != nil {
		return e.Kind.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	if e == nil || e.Kind == nil {
		return false
	}
	return e.Kind == target
}

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func StoreUnavailable(err error) *Error {
	return &Error{Status: http.StatusServiceUnavailable, Code: "store_unavailable", Kind: ErrStoreUnavailable, Err: err}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Status: http.StatusNotFound, Code: "not_found", Kind: ErrNotFound, Err: fmt.Errorf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return &Error{Status: http.StatusBadRequest, Code: "validation_error", Kind: ErrValidation, Err: fmt.Errorf(format, args...)}
}

func Provider(err error) *Error {
	return &Error{Status: http.StatusServiceUnavailable, Code: "provider_error", Kind: ErrProvider, Err: err}
}

func AmbiguousMatch(format string, args ...any) *Error {
	return &Error{Status: http.StatusConflict, Code: "ambiguous_match", Kind: ErrAmbiguousMatch, Err: fmt.Errorf(format, args...)}
}

// As extracts the outermost *Error in err's chain.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) && ae != nil {
		return ae, true
	}
	return nil, false
}
