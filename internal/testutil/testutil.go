// Package testutil provides testing utilities and helpers.
package testutil

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/HammerMeetNail/planwise/internal/models"
)

// AssertStatusCode checks if the response has the expected status code.
func AssertStatusCode(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rr.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, rr.Code, rr.Body.String())
	}
}

// AssertJSONContains checks if the JSON response contains expected key-value pairs.
func AssertJSONContains(t *testing.T, body []byte, key string, expected interface{}) {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if result[key] != expected {
		t.Errorf("expected %s to be %v, got %v", key, expected, result[key])
	}
}

// NewTestRequestWithJSON creates a new HTTP request with JSON body.
func NewTestRequestWithJSON(t *testing.T, method, path string, data interface{}) *http.Request {
	t.Helper()
	body, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("failed to marshal JSON: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// MustDate parses a YYYY-MM-DD date and panics on failure.
func MustDate(s string) models.Date {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// NewVacation builds a saved vacation with a fresh ID.
func NewVacation(destination, start, end string) *models.Vacation {
	return &models.Vacation{
		ID:          uuid.New(),
		Destination: destination,
		StartDate:   MustDate(start),
		EndDate:     MustDate(end),
	}
}

// AssertErrorDocument checks that body is exactly {"error": ...} and that
// the message contains substr.
func AssertErrorDocument(t *testing.T, body []byte, substr string) {
	t.Helper()
	var doc map[string]interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		t.Fatalf("failed to parse error document %q: %v", body, err)
	}
	msg, ok := doc["error"].(string)
	if len(doc) != 1 || !ok {
		t.Fatalf("expected a single error key, got %v", doc)
	}
	if !strings.Contains(msg, substr) {
		t.Errorf("expected error to contain %q, got %q", substr, msg)
	}
}

// ParseJSONResponse parses a JSON response body into a map.
func ParseJSONResponse(t *testing.T, body []byte) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v", err)
	}
	return result
}
