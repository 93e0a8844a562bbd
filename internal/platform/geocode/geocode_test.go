package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestReverseResolvesAddress(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse" {
			t.Fatalf("path = %s, want /reverse", r.URL.Path)
		}
		if r.URL.Query().Get("lat") != "12.971600" {
			t.Fatalf("lat = %s", r.URL.Query().Get("lat"))
		}
		w.Write([]byte(`{"display_name":"MG Road, Bengaluru"}`))
	}))
	defer server.Close()

	client := New(server.URL)
	addr, err := client.Reverse(context.Background(), 12.9716, 77.5946)
	if err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	if addr != "MG Road, Bengaluru" {
		t.Fatalf("addr = %s", addr)
	}
}

func TestReverseEmptyDisplayName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"display_name":""}`))
	}))
	defer server.Close()

	client := New(server.URL)
	if _, err := client.Reverse(context.Background(), 0, 0); err == nil {
		t.Fatal("expected error for empty display name")
	}
}

func TestReverseNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := New(server.URL)
	if _, err := client.Reverse(context.Background(), 1, 1); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestFallbackFormat(t *testing.T) {
	if got := Fallback(12.9716, 77.5946); got != "12.971600,77.594600" {
		t.Fatalf("fallback = %s", got)
	}
}

func TestDisabledResolver(t *testing.T) {
	client := New("")
	if _, err := client.Reverse(context.Background(), 1, 2); err == nil {
		t.Fatal("unconfigured resolver must refuse")
	}
}
