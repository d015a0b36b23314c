package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrorKind tags the shape of an error response body
type ErrorKind int

const (
	// KindValidation is a structured per-field errors map
	KindValidation ErrorKind = iota
	// KindMessage is a single human-readable message
	KindMessage
	// KindOpaque is anything unparseable; only the status line remains
	KindOpaque
)

// APIError is a classified non-2xx response from the admin API
type APIError struct {
	Kind       ErrorKind
	Errors     map[string]string
	Text       string
	Status     int
	StatusText string
}

// Message renders the error the way the dashboard shows it: field errors
// joined as "field: reason" pairs, a plain message verbatim, or the
// status line when nothing better was extracted
func (e *APIError) Message() string {
	switch e.Kind {
	case KindValidation:
		keys := make([]string, 0, len(e.Errors))
		for k := range e.Errors {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+e.Errors[k])
		}
		return strings.Join(parts, ", ")
	case KindMessage:
		return e.Text
	default:
		return fmt.Sprintf("HTTP %d %s", e.Status, e.StatusText)
	}
}

func (e *APIError) Error() string {
	return e.Message()
}

// classifyErrorBody extracts the most specific error available from a
// non-2xx response body. Probe order: errors map, then message, error,
// detail, then fall back to the status line.
func classifyErrorBody(status int, body []byte) *APIError {
	statusText := http.StatusText(status)

	var probe struct {
		Errors  map[string]string `json:"errors"`
		Message string            `json:"message"`
		Err     json.RawMessage   `json:"error"`
		Detail  string            `json:"detail"`
	}

	if err := json.Unmarshal(body, &probe); err == nil {
		if len(probe.Errors) > 0 {
			return &APIError{
				Kind:       KindValidation,
				Errors:     probe.Errors,
				Status:     status,
				StatusText: statusText,
			}
		}
		if probe.Message != "" {
			return &APIError{Kind: KindMessage, Text: probe.Message, Status: status, StatusText: statusText}
		}
		if text := errorFieldText(probe.Err); text != "" {
			return &APIError{Kind: KindMessage, Text: text, Status: status, StatusText: statusText}
		}
		if probe.Detail != "" {
			return &APIError{Kind: KindMessage, Text: probe.Detail, Status: status, StatusText: statusText}
		}
	}

	return &APIError{Kind: KindOpaque, Status: status, StatusText: statusText}
}

// errorFieldText reads an "error" field that may be either a plain
// string or an object carrying a message
func errorFieldText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Message
	}

	return ""
}
