package client

import (
	"testing"
)

func TestClassifyErrorBody(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{
			"errors map sorted by field",
			400,
			`{"errors":{"title":"Title is required","due_date":"Due date is required"}}`,
			"due_date: Due date is required, title: Title is required",
		},
		{
			"errors map wins over message",
			400,
			`{"errors":{"title":"required"},"message":"validation failed"}`,
			"title: required",
		},
		{
			"message field",
			409,
			`{"message":"a challenge with this title already exists"}`,
			"a challenge with this title already exists",
		},
		{
			"error as string",
			500,
			`{"error":"database unavailable"}`,
			"database unavailable",
		},
		{
			"error as object",
			500,
			`{"error":{"message":"constraint violation","code":23505}}`,
			"constraint violation",
		},
		{
			"detail field",
			422,
			`{"detail":"payload too large"}`,
			"payload too large",
		},
		{
			"message wins over error and detail",
			400,
			`{"message":"top","error":"middle","detail":"bottom"}`,
			"top",
		},
		{
			"unparseable body falls back to status line",
			500,
			`<html>Internal Server Error</html>`,
			"HTTP 500 Internal Server Error",
		},
		{
			"empty json object falls back to status line",
			503,
			`{}`,
			"HTTP 503 Service Unavailable",
		},
		{
			"empty errors map is not a validation error",
			400,
			`{"errors":{},"message":"bad input"}`,
			"bad input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := classifyErrorBody(tt.status, []byte(tt.body))
			if got := apiErr.Message(); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
			if apiErr.Error() != apiErr.Message() {
				t.Error("Error() and Message() must agree")
			}
		})
	}
}

func TestClassifyErrorBodyKinds(t *testing.T) {
	if e := classifyErrorBody(400, []byte(`{"errors":{"a":"b"}}`)); e.Kind != KindValidation {
		t.Errorf("kind = %v, want KindValidation", e.Kind)
	}
	if e := classifyErrorBody(400, []byte(`{"message":"m"}`)); e.Kind != KindMessage {
		t.Errorf("kind = %v, want KindMessage", e.Kind)
	}
	if e := classifyErrorBody(502, []byte(`oops`)); e.Kind != KindOpaque {
		t.Errorf("kind = %v, want KindOpaque", e.Kind)
	}
}
