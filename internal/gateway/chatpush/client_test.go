package chatpush

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error when base URL missing")
	}
	if _, err := NewClient(Config{BaseURL: "https://gate.example.com"}); err == nil {
		t.Fatal("expected error when token missing")
	}
}

func TestPushSendsEnvelope(t *testing.T) {
	var gotAuth string
	var gotBody pushRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL, Token: "tok", Timeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := client.Push(context.Background(), "ch-99", "PO PO-100 is ready"); err != nil {
		t.Fatalf("push failed: %v", err)
	}

	if gotAuth != "Bearer tok" {
		t.Fatalf("expected bearer auth header, got %q", gotAuth)
	}
	if gotBody.To != "ch-99" || gotBody.Text != "PO PO-100 is ready" {
		t.Fatalf("unexpected envelope: %+v", gotBody)
	}
}

func TestPushNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		if _, err := w.Write([]byte("upstream down")); err != nil {
			t.Errorf("write response: %v", err)
		}
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL, Token: "tok"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pushErr := client.Push(context.Background(), "ch-1", "hello")
	if pushErr == nil {
		t.Fatal("expected error for 502 response")
	}
	if !strings.Contains(pushErr.Error(), "upstream down") {
		t.Fatalf("expected gateway body in error, got %v", pushErr)
	}
}

func TestPushRequiresChannel(t *testing.T) {
	client, err := NewClient(Config{BaseURL: "https://gate.example.com", Token: "tok"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := client.Push(context.Background(), "", "hello"); err == nil {
		t.Fatal("expected error for empty channel id")
	}
}

func TestPushSingleAttempt(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL, Token: "tok"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := client.Push(context.Background(), "ch-1", "hello"); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected exactly one attempt, got %d", calls)
	}
}
