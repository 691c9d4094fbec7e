package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestExtractGitHubUsername(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://github.com/acme", "acme"},
		{"github.com/acme/repo", "acme"},
		{"acme", "acme"},
		{"acme.io", ""},
	}
	for _, tc := range cases {
		if got := extractGitHubUsername(tc.in); got != tc.want {
			t.Fatalf("%q: expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestGitHubFetchWithoutToken(t *testing.T) {
	fetcher := NewGitHubFetcher("")
	items, err := fetcher.Fetch(context.Background(), "acme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items without a token, got %d", len(items))
	}
}

func TestGitHubFetchParsesActivity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("missing auth header")
		}
		switch {
		case strings.HasPrefix(r.URL.Path, "/users/acme/events"):
			w.Write([]byte(`[
				{"type":"PushEvent","repo":{"name":"acme/widget"},"payload":{"commits":[{"message":"fix broken build"}]},"created_at":"2026-03-01T10:00:00Z"},
				{"type":"WatchEvent","repo":{"name":"acme/widget"},"created_at":"2026-03-01T11:00:00Z"},
				{"type":"PushEvent","repo":{"name":"acme/widget"},"payload":{},"created_at":"2026-03-01T12:00:00Z"}
			]`))
		case r.URL.Path == "/search/issues" && strings.Contains(r.URL.RawQuery, "is%3Aissue"):
			w.Write([]byte(`{"items":[{"title":"crash on startup","body":"stack trace attached","html_url":"https://github.com/acme/widget/issues/1","created_at":"2026-02-28T09:00:00Z"}]}`))
		case r.URL.Path == "/search/issues":
			w.Write([]byte(`{"items":[{"title":"add awesome feature","html_url":"https://github.com/acme/widget/pull/2","created_at":"2026-02-27T09:00:00Z"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	fetcher := NewGitHubFetcher("test-token")
	fetcher.baseURL = srv.URL
	fetcher.client = srv.Client()

	items, err := fetcher.Fetch(context.Background(), "https://github.com/acme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("expected 4 items (2 commits, 1 issue, 1 pr), got %d", len(items))
	}
	if items[0].Type != "commit" || items[0].Message != "fix broken build" {
		t.Fatalf("unexpected first commit: %+v", items[0])
	}
	if items[1].Message != "Commit" {
		t.Fatalf("expected placeholder message for empty push, got %q", items[1].Message)
	}
	if items[2].Type != "issue" || items[2].Message != "crash on startup" {
		t.Fatalf("unexpected issue item: %+v", items[2])
	}
	if items[3].Type != "pull_request" || items[3].Message != "add awesome feature" {
		t.Fatalf("unexpected pr item: %+v", items[3])
	}
}

func TestGitHubFetchSurvivesPartialFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/users/") {
			w.Write([]byte(`[{"type":"PushEvent","repo":{"name":"acme/widget"},"payload":{"commits":[{"message":"ship it"}]},"created_at":"2026-03-01T10:00:00Z"}]`))
			return
		}
		http.Error(w, "rate limited", http.StatusForbidden)
	}))
	defer srv.Close()

	fetcher := NewGitHubFetcher("test-token")
	fetcher.baseURL = srv.URL
	fetcher.client = srv.Client()

	items, err := fetcher.Fetch(context.Background(), "acme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Message != "ship it" {
		t.Fatalf("expected the surviving commit item, got %+v", items)
	}
}
