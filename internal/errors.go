package internal

import (
	"errors"
	"net/http"
)

var (
	ErrRouterSealed   = errors.New("router: routes cannot be added after the router is sealed")
	ErrInvalidPattern = errors.New("router: invalid route pattern")
	ErrPageNotFound   = errors.New("page: not found")
	ErrNoIndex        = errors.New("page: no index")
	ErrNoRenderer     = errors.New("page: no renderer configured")
)

// HTTPError is an error that carries the status code to answer with.
type HTTPError struct {
	// Err is the underlying cause, logged but never shown to users.
	Err error

	// Message is the user-facing message.
	Message string

	// RequestID is filled in by error handlers that report it.
	RequestID string

	Code int
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) StatusCode() int {
	return e.Code
}

func (e *HTTPError) StatusText() string {
	return http.StatusText(e.Code)
}

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

// NewHTTPError creates an HTTPError. An empty message defaults to the
// status text.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	if message == "" {
		message = http.StatusText(code)
	}
	e := &HTTPError{Code: code, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Err = err
	}
}

func WithRequestID(id string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.RequestID = id
	}
}

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, opts...)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusForbidden, message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message, opts...)
}

func ErrUnprocessable(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusUnprocessableEntity, message, opts...)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message, opts...)
}

// IsHTTPError reports whether err's chain contains an HTTPError.
func IsHTTPError(err error) bool {
	return AsHTTPError(err) != nil
}

// AsHTTPError returns the first HTTPError in err's chain, or nil.
func AsHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return nil
}

// Terminate ends request processing with a redirect. Handlers return it
// (usually from Base.Redirect or Base.RequireSSL); the App writes the
// redirect and nothing else runs, the renderer included.
type Terminate struct {
	URL  string
	Code int
}

func (t *Terminate) Error() string {
	return "terminate: redirect " + http.StatusText(t.Code) + " to " + t.URL
}

// IsTerminate reports whether err carries a Terminate.
func IsTerminate(err error) bool {
	return AsTerminate(err) != nil
}

// AsTerminate returns the Terminate in err's chain, or nil.
func AsTerminate(err error) *Terminate {
	var t *Terminate
	if errors.As(err, &t) {
		return t
	}
	return nil
}
