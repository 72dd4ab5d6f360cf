package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/liftlog/liftlog-go/internal/core/domain"
	"github.com/liftlog/liftlog-go/internal/telemetry/logger"
)

// fallbackBody is written when an envelope cannot be encoded.
const fallbackBody = `{"errors":[{"msg":"Internal server error."}]}`

// SingleError is one entry of the envelope's errors list.
type SingleError struct {
	Msg   string `json:"msg"`
	Field string `json:"field,omitempty"`
}

// Response is the uniform response envelope. Status is not serialized.
type Response struct {
	Message string        `json:"message,omitempty"`
	Data    any           `json:"data,omitempty"`
	Errors  []SingleError `json:"errors"`

	Status int `json:"-"`
}

// Success builds a success envelope.
func Success(message string, data any, status int) *Response {
	return &Response{
		Message: message,
		Data:    data,
		Errors:  []SingleError{},
		Status:  status,
	}
}

// Error builds an error envelope with a single entry.
func Error(message, field string, status int) *Response {
	return Empty(status).Add(message, field)
}

// Empty builds an error envelope with no entries yet.
func Empty(status int) *Response {
	return &Response{Errors: []SingleError{}, Status: status}
}

// Add appends an error entry and returns r.
func (r *Response) Add(message, field string) *Response {
	r.Errors = append(r.Errors, SingleError{Msg: message, Field: field})
	return r
}

// ValidationResponse converts collected field failures into a 400 envelope,
// one entry per field.
func ValidationResponse(v *domain.ValidationErrors) *Response {
	fields := v.Fields()
	if len(fields) == 0 {
		return Error("Validation failed without reported failures. This is a server bug.", "", http.StatusInternalServerError)
	}

	resp := Empty(http.StatusBadRequest)
	for _, f := range fields {
		msgs := make([]string, 0, len(f.Messages))
		for _, m := range f.Messages {
			if m == "" {
				m = "invalid input"
			}
			msgs = append(msgs, m)
		}
		resp.Add(fmt.Sprintf("Invalid input in `%s` field: %s.", f.Field, strings.Join(msgs, ", ")), f.Field)
	}
	return resp
}

// FromError converts an error into an envelope. Internal failures are
// reported with their generic message only.
func FromError(err error) *Response {
	var v *domain.ValidationErrors
	if errors.As(err, &v) {
		return ValidationResponse(v)
	}

	de := domain.AsDomainError(err)
	return Error(de.Message, de.Field, de.HTTPStatus())
}

// Write encodes r to w. The body is marshalled before any header is sent so
// an encoding failure can still produce a clean 500.
func (r *Response) Write(w http.ResponseWriter, req *http.Request) {
	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(r); err != nil {
		logger.L(req.Context()).Error("failed to encode response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(fallbackBody))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// WriteError logs err when it is a server failure and writes its envelope.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	resp := FromError(err)
	if resp.Status >= http.StatusInternalServerError {
		logger.L(r.Context()).Error("request failed",
			"code", domain.AsDomainError(err).Code,
			"error", err,
		)
	}
	resp.Write(w, r)
}
