package validation

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/getmockd/reqguard/pkg/httputil"
)

// ErrRouteNotFound is returned when no registered route matches a path.
var ErrRouteNotFound = errors.New("no validation route matches the request path")

// ErrorKind classifies a failure. Its numeric value is also the priority:
// lower kinds are reported before higher ones.
type ErrorKind int

const (
	MandatoryField ErrorKind = iota + 1
	EmptyField
	Datatype
	Pattern
	MinMax
	Length
	AllowedValue
	ArrayDatatype
	// Custom is only produced by whole-input custom checks.
	Custom
)

var kindCodes = map[ErrorKind]string{
	MandatoryField: "mandatory_field",
	EmptyField:     "empty_field",
	Datatype:       "datatype",
	Pattern:        "pattern",
	MinMax:         "min_max",
	Length:         "length",
	AllowedValue:   "allowed_value",
	ArrayDatatype:  "array_datatype",
	Custom:         "custom",
}

// String returns the machine-readable code of the kind.
func (k ErrorKind) String() string {
	if code, ok := kindCodes[k]; ok {
		return code
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText encodes the kind as its code.
func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Failure is the single violation reported for a request.
type Failure struct {
	// Field is the dotted path of the offending field. Empty for custom checks
	// that are not tied to a field.
	Field   string    `json:"field,omitempty"`
	Kind    ErrorKind `json:"kind"`
	Context Context   `json:"-"`
	Message string    `json:"message"`
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return f.Message
}

// ErrorResponse is the HTTP response body for rejected requests.
// It follows RFC 7807 Problem Details format.
type ErrorResponse struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
	Field  string `json:"field,omitempty"`
	Kind   string `json:"kind,omitempty"`
}

// NewErrorResponse creates an ErrorResponse from a Failure.
func NewErrorResponse(f *Failure, status int) *ErrorResponse {
	if status == 0 {
		status = http.StatusBadRequest
	}
	return &ErrorResponse{
		Type:   "validation_error",
		Title:  "Request Validation Failed",
		Status: status,
		Detail: f.Message,
		Field:  f.Field,
		Kind:   f.Kind.String(),
	}
}

// newProblem creates an ErrorResponse for failures that happen before evaluation.
func newProblem(typ, title string, status int, detail string) *ErrorResponse {
	return &ErrorResponse{Type: typ, Title: title, Status: status, Detail: detail}
}

// WriteResponse writes the error response as JSON to the http.ResponseWriter
func (e *ErrorResponse) WriteResponse(w http.ResponseWriter) {
	httputil.WriteProblem(w, e.Status, e)
}

// Error implements the error interface
func (e *ErrorResponse) Error() string {
	return fmt.Sprintf("%s: %s", e.Title, e.Detail)
}
