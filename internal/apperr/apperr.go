// Package apperr defines the error values surfaced to API clients. Every
// error carries a Kind that decides its HTTP status and wire shape.
package apperr

import (
	"errors"
	"net/http"
)

type Kind uint8

const (
	KindBadRequest Kind = iota + 1
	KindNotAuthorized
	KindNotFound
	KindData
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindNotAuthorized:
		return "not_authorized"
	case KindNotFound:
		return "not_found"
	case KindData:
		return "data_error"
	case KindValidation:
		return "validation_error"
	default:
		return "unknown"
	}
}

type FieldError struct {
	Field   string
	Message string
}

// Detail is one entry of the `errors` array in an error response.
type Detail struct {
	Message    string `json:"message"`
	Field      string `json:"field,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
}

type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	// Status overrides the default status of a data error.
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindBadRequest, KindValidation:
		return http.StatusBadRequest
	case KindNotAuthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindData:
		if e.Status != 0 {
			return e.Status
		}
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func (e *Error) Serialize() []Detail {
	switch e.Kind {
	case KindValidation:
		details := make([]Detail, 0, len(e.Fields))
		for _, f := range e.Fields {
			details = append(details, Detail{Message: f.Message, Field: f.Field})
		}
		if len(details) == 0 {
			details = append(details, Detail{Message: e.Message})
		}
		return details
	case KindData:
		return []Detail{{Message: e.Message, StatusCode: e.HTTPStatus()}}
	default:
		return []Detail{{Message: e.Message}}
	}
}

func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message}
}

func NotAuthorized() *Error {
	return &Error{Kind: KindNotAuthorized, Message: "Not authorized"}
}

func NotFound() *Error {
	return &Error{Kind: KindNotFound, Message: "Route not found"}
}

func Data(message string, err error) *Error {
	return &Error{Kind: KindData, Message: message, Err: err}
}

func Validation(fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: "Invalid request parameters", Fields: fields}
}

// From extracts the first *Error in err's chain.
func From(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err carries an *Error of kind k.
func IsKind(err error, k Kind) bool {
	appErr, ok := From(err)
	return ok && appErr.Kind == k
}
