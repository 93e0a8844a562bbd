package media

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUploadSendsMultipartAndReturnsURL(t *testing.T) {
	var gotAuth string
	var gotFileName string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("FormFile: %v", err)
		}
		defer file.Close()
		gotFileName = header.Filename
		json.NewEncoder(w).Encode(map[string]string{"url": "https://cdn.example.com/abc.jpg"})
	}))
	defer server.Close()

	client := New(server.URL, "key-123")
	url, err := client.Upload(context.Background(), "selfie.jpg", "image/jpeg", []byte("jpegdata"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "https://cdn.example.com/abc.jpg" {
		t.Fatalf("url = %s", url)
	}
	if gotAuth != "Bearer key-123" {
		t.Fatalf("auth header = %q", gotAuth)
	}
	if gotFileName != "selfie.jpg" {
		t.Fatalf("file name = %q", gotFileName)
	}
}

func TestUploadErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := New(server.URL, "")
	_, err := client.Upload(context.Background(), "receipt.pdf", "application/pdf", []byte("pdf"))
	if err == nil {
		t.Fatal("expected error for 429 response")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Fatalf("error should carry the status: %v", err)
	}
}

func TestUploadMissingURLInResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	client := New(server.URL, "")
	if _, err := client.Upload(context.Background(), "a.png", "image/png", []byte("x")); err == nil {
		t.Fatal("expected error when host omits url")
	}
}

func TestDisabledUploader(t *testing.T) {
	client := New("", "")
	if _, err := client.Upload(context.Background(), "a.png", "image/png", []byte("x")); err == nil {
		t.Fatal("unconfigured uploader must refuse")
	}
}
