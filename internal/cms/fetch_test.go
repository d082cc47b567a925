package cms

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestNewFetcher_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     FetcherConfig
		wantErr string
	}{
		{name: "missing provider", cfg: FetcherConfig{BaseURL: "http://localhost"}, wantErr: "provider name"},
		{name: "bad scheme", cfg: FetcherConfig{Provider: "strapi", BaseURL: "ftp://cms"}, wantErr: "scheme"},
		{name: "missing host", cfg: FetcherConfig{Provider: "strapi", BaseURL: "http://"}, wantErr: "host"},
		{name: "ok", cfg: FetcherConfig{Provider: "strapi", BaseURL: "http://localhost:1337/"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFetcher(tt.cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestFetcher_GetJSON(t *testing.T) {
	var gotPath, gotQuery, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	f, err := NewFetcher(FetcherConfig{Provider: "strapi", BaseURL: srv.URL, APIPrefix: "/api/", Token: "secret"})
	if err != nil {
		t.Fatalf("NewFetcher: %v", err)
	}

	var out struct {
		OK bool `json:"ok"`
	}
	q := url.Values{}
	q.Set("filters[slug][$eq]", "hello")
	if err := f.GetJSON(context.Background(), "/articles", q, &out); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if !out.OK {
		t.Fatal("response not decoded")
	}
	if gotPath != "/api/articles" {
		t.Fatalf("path = %q, want /api/articles", gotPath)
	}
	if decoded, _ := url.QueryUnescape(gotQuery); decoded != "filters[slug][$eq]=hello" {
		t.Fatalf("query = %q", decoded)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
}

func TestFetcher_NoTokenNoAuthHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Errorf("unexpected Authorization header %q", r.Header.Get("Authorization"))
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	f, _ := NewFetcher(FetcherConfig{Provider: "payload", BaseURL: srv.URL})
	if err := f.GetJSON(context.Background(), "tags", nil, &map[string]any{}); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
}

func TestFetcher_SendJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": body["name"]})
	}))
	defer srv.Close()

	f, _ := NewFetcher(FetcherConfig{Provider: "payload", BaseURL: srv.URL, APIPrefix: "api"})
	var out map[string]string
	if err := f.SendJSON(context.Background(), http.MethodPost, "/contacts", map[string]string{"name": "Li"}, &out); err != nil {
		t.Fatalf("SendJSON: %v", err)
	}
	if out["echo"] != "Li" {
		t.Fatalf("echo = %q", out["echo"])
	}
}

func TestFetcher_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"down"}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f, _ := NewFetcher(FetcherConfig{Provider: "strapi", BaseURL: srv.URL})
	err := f.SendJSON(context.Background(), http.MethodPost, "/contacts", map[string]string{}, nil)

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	if se.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("StatusCode = %d", se.StatusCode)
	}
	if !strings.Contains(err.Error(), "503") || !strings.Contains(err.Error(), "strapi") {
		t.Fatalf("error text %q should name provider and status", err)
	}
	if !IsStatus(err, http.StatusServiceUnavailable) || IsStatus(err, http.StatusNotFound) {
		t.Fatal("IsStatus mismatch")
	}
}

func TestFetcher_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	f, _ := NewFetcher(FetcherConfig{Provider: "strapi", BaseURL: base, Timeout: time.Second})
	err := f.GetJSON(context.Background(), "/articles", nil, &map[string]any{})
	if err == nil {
		t.Fatal("expected error for closed server")
	}
	var se *StatusError
	if errors.As(err, &se) {
		t.Fatal("transport failure should not be a StatusError")
	}
}

func TestFetcher_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	f, _ := NewFetcher(FetcherConfig{Provider: "strapi", BaseURL: srv.URL})
	err := f.GetJSON(context.Background(), "/articles", nil, &map[string]any{})
	if err == nil || !strings.Contains(err.Error(), "decode") {
		t.Fatalf("error = %v, want decode error", err)
	}
}

func TestFlexibleID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"abc123"`, "abc123"},
		{`42`, "42"},
		{`null`, ""},
	}
	for _, tt := range tests {
		var id FlexibleID
		if err := json.Unmarshal([]byte(tt.in), &id); err != nil {
			t.Fatalf("Unmarshal(%s): %v", tt.in, err)
		}
		if id.String() != tt.want {
			t.Fatalf("Unmarshal(%s) = %q, want %q", tt.in, id, tt.want)
		}
	}

	var id FlexibleID
	if err := json.Unmarshal([]byte(`{"id":1}`), &id); err == nil {
		t.Fatal("expected error for object identifier")
	}
}
