package notification

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWebhookKindDetection(t *testing.T) {
	cases := map[string]string{
		"https://hooks.slack.com/services/T/B/X": "slack",
		"https://discord.com/api/webhooks/1/abc": "discord",
		"https://alerts.example.org/expenses":    "generic",
	}
	for url, want := range cases {
		if got := NewWebhook(url, "", 0).kind; got != want {
			t.Errorf("NewWebhook(%q).kind = %q, want %q", url, got, want)
		}
	}
	if got := NewWebhook("https://hooks.slack.com/x", "generic", 0).kind; got != "generic" {
		t.Errorf("explicit kind ignored: %q", got)
	}
}

func TestWebhookPostsPayload(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected content type %q", r.Header.Get("Content-Type"))
		}
		data, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(data, &got); err != nil {
			t.Errorf("payload not JSON: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewWebhook(srv.URL, "", 0)
	if err := n.Notify(context.Background(), "Expense summary", "Overall total expense: 5.00"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if got["subject"] != "Expense summary" || !strings.Contains(got["body"].(string), "5.00") {
		t.Errorf("unexpected payload: %v", got)
	}
}

func TestWebhookStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewWebhook(srv.URL, "discord", 0).Notify(context.Background(), "s", "b")
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Fatalf("expected status error, got %v", err)
	}
}
