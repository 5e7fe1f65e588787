package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"jobboard/internal/common"
)

func TestIDFromPath(t *testing.T) {
	id := common.NewUUID()
	req := httptest.NewRequest(http.MethodGet, "/applications/"+id.String()+"/status", nil)
	got, err := idFromPath(req, 1)
	if err != nil || got != id {
		t.Fatalf("expected %s, got %s (%v)", id, got, err)
	}
	if _, err := idFromPath(req, 2); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error for non-uuid segment, got %v", err)
	}
	if _, err := idFromPath(req, 5); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error for missing segment, got %v", err)
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Status string `json:"status"`
	}
	cases := map[string]string{
		"":                       "request body is required",
		"{":                      "invalid json",
		`{"status":"x","bad":1}`: "invalid json",
	}
	for body, want := range cases {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		err := decodeJSON(req, &dst)
		appErr, ok := common.AsError(err)
		if !ok || appErr.Message != want {
			t.Fatalf("body %q: expected %q, got %v", body, want, err)
		}
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"status":"approved"}`))
	if err := decodeJSON(req, &dst); err != nil || dst.Status != "approved" {
		t.Fatalf("unexpected decode result %q, %v", dst.Status, err)
	}
}

func TestRequireInternalAuth(t *testing.T) {
	cases := []struct {
		name   string
		key    string
		header string
		value  string
		ok     bool
	}{
		{"alt header", "k", "X-Internal-Key", "k", true},
		{"bearer", "k", "Authorization", "Bearer k", true},
		{"wrong key", "k", "X-Internal-Key", "other", false},
		{"unset key", "", "X-Internal-Key", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/internal/jobs/x/recount", nil)
			req.Header.Set(tc.header, tc.value)
			rec := httptest.NewRecorder()
			if got := requireInternalAuth(rec, req, tc.key); got != tc.ok {
				t.Fatalf("expected %v, got %v", tc.ok, got)
			}
			if !tc.ok && rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}
