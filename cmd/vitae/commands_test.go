package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
	Auth   string
}

type testServer struct {
	server   *httptest.Server
	requests []recordedRequest
}

func newTestServer(t *testing.T, responses map[string]string) *testServer {
	t.Helper()
	ts := &testServer{}

	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body bytes.Buffer
		body.ReadFrom(r.Body)

		ts.requests = append(ts.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.RequestURI(),
			Body:   body.String(),
			Auth:   r.Header.Get("Authorization"),
		})

		key := r.Method + " " + r.URL.Path
		if resp, ok := responses[key]; ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(resp))
			return
		}

		w.WriteHeader(404)
		w.Write([]byte(`{"error":{"message":"not found","type":"not_found"}}`))
	}))

	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) client(token string) *apiClient {
	return &apiClient{
		baseURL:    ts.server.URL,
		token:      token,
		httpClient: ts.server.Client(),
	}
}

var ctx = context.Background()

func TestReload_SendsBearerToken(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"POST /admin/reload": `{"status":"reloaded","notes":{}}`,
	})

	client := ts.client("admin-secret")

	resp, err := client.post(ctx, "/admin/reload", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var result map[string]any
	if err := decodeJSON(resp, &result); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if result["status"] != "reloaded" {
		t.Errorf("status = %v, want reloaded", result["status"])
	}

	if len(ts.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(ts.requests))
	}
	r := ts.requests[0]
	if r.Method != "POST" || r.Path != "/admin/reload" {
		t.Errorf("request = %s %s", r.Method, r.Path)
	}
	if r.Auth != "Bearer admin-secret" {
		t.Errorf("auth = %q, want Bearer admin-secret", r.Auth)
	}
}

func TestGet_NoTokenOmitsAuthHeader(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /api/languages": `{"languages":["en","pt"],"default":"en"}`,
	})

	client := ts.client("")

	resp, err := client.get(ctx, "/api/languages")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var langs struct {
		Languages []string `json:"languages"`
		Default   string   `json:"default"`
	}
	if err := decodeJSON(resp, &langs); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(langs.Languages) != 2 || langs.Default != "en" {
		t.Errorf("got %+v", langs)
	}

	if ts.requests[0].Auth != "" {
		t.Errorf("auth header = %q, want none", ts.requests[0].Auth)
	}
}

func TestDecodeJSON_ErrorStatus(t *testing.T) {
	ts := newTestServer(t, nil)

	client := ts.client("")

	resp, err := client.get(ctx, "/missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out any
	if err := decodeJSON(resp, &out); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestIsProjectsFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"content/projects.en.md", true},
		{"projects.pt.md", true},
		{"content/resume.en.md", false},
		{"notes/projects-draft.md", false},
	}
	for _, tt := range tests {
		if got := isProjectsFile(tt.path); got != tt.want {
			t.Errorf("isProjectsFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
