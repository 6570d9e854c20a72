package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sheetwise/sheetwise/pkg/validator"
)

// Body is the standard JSON response envelope.
type Body struct {
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail contains error information returned to clients.
type ErrorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

// JSON writes data as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Body{Data: data})
}

// Raw writes data as a bare JSON document without the envelope.
func Raw(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Error writes an error as a JSON response. HTTPError values keep their
// status code and key; validation errors become 422 with a details map;
// everything else is reported as a generic internal error so upstream
// failure bodies never leak to the browser.
func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	detail := &ErrorDetail{
		Code:    "internal_error",
		Message: http.StatusText(http.StatusInternalServerError),
	}

	var httpErr HTTPError
	var valErrs validator.ValidationErrors
	switch {
	case errors.As(err, &valErrs):
		status = http.StatusUnprocessableEntity
		detail.Code = "validation_error"
		detail.Message = "validation failed"
		detail.Details = make(map[string][]string, len(valErrs.Fields()))
		for _, field := range valErrs.Fields() {
			detail.Details[field] = valErrs.Get(field)
		}
	case errors.As(err, &httpErr):
		status = httpErr.Code
		detail.Code = httpErr.Key
		if httpErr.Message != "" {
			detail.Message = httpErr.Message
		} else {
			detail.Message = http.StatusText(httpErr.Code)
		}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Body{Error: detail})
}
