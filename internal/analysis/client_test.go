package analysis

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/treykane/carbon-blueprint/internal/blueprint"
)

func writeBlueprint(t *testing.T, name, content string) blueprint.Blueprint {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write blueprint: %v", err)
	}
	bp, err := blueprint.Open(path)
	if err != nil {
		t.Fatalf("open blueprint: %v", err)
	}
	return bp
}

func TestAnalyzeSendsMultipartFile(t *testing.T) {
	bp := writeBlueprint(t, "plan.ifc", "ISO-10303-21;\nDATA;")

	var gotName, gotContent, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/analyze" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		file, header, err := r.FormFile(FileField)
		if err != nil {
			t.Errorf("form file: %v", err)
			http.Error(w, "bad", http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		gotName = header.Filename
		gotContent = string(data)
		gotRequestID = r.Header.Get(RequestIDHeader)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"carbon_analysis":{"total_emissions":1,"materials":[]},"recommendations":[]}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/api/analyze", 5*time.Second)
	if client.Endpoint() != srv.URL+"/api/analyze" {
		t.Fatalf("unexpected endpoint %q", client.Endpoint())
	}
	resp, err := client.Analyze(context.Background(), bp)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.HasPrefix(string(resp.Raw()), `{"carbon_analysis"`) {
		t.Fatalf("expected raw body to be kept, got %s", resp.Raw())
	}
	if gotName != "plan.ifc" {
		t.Fatalf("expected filename plan.ifc, got %q", gotName)
	}
	if gotContent != "ISO-10303-21;\nDATA;" {
		t.Fatalf("unexpected uploaded content %q", gotContent)
	}
	if gotRequestID == "" {
		t.Fatal("expected request id header")
	}
	if _, soft := resp.SoftError(); soft {
		t.Fatal("expected no soft error")
	}
}

func TestAnalyzeReturnsSoftErrorPayloadAsSuccess(t *testing.T) {
	bp := writeBlueprint(t, "plan.pdf", "%PDF-1.7")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"error":"Unsupported drawing"}`)
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, 0).Analyze(context.Background(), bp)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	msg, ok := resp.SoftError()
	if !ok || msg != "Unsupported drawing" {
		t.Fatalf("expected soft error, got %q (%v)", msg, ok)
	}
}

func TestAnalyzeReturnsHTTPErrorForNon2xx(t *testing.T) {
	bp := writeBlueprint(t, "plan.pdf", "%PDF-1.7")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"An error occurred during analysis: boom"}`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 0).Analyze(context.Background(), bp)
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", httpErr.StatusCode)
	}
	if got := ErrorMessage(err); got != "An error occurred during analysis: boom" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestAnalyzeRejectsNonJSONSuccessBody(t *testing.T) {
	bp := writeBlueprint(t, "plan.pdf", "%PDF-1.7")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>proxy page</html>")
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 0).Analyze(context.Background(), bp)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
	if got := ErrorMessage(err); got != MalformedResponseMessage {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestAnalyzeHonorsContextCancellation(t *testing.T) {
	bp := writeBlueprint(t, "plan.pdf", "%PDF-1.7")
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient(srv.URL, 0).Analyze(ctx, bp)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if got := ErrorMessage(err); got != GenericErrorMessage {
		t.Fatalf("expected generic message, got %q", got)
	}
}

func TestAnalyzeFailsWhenFileDisappears(t *testing.T) {
	bp := writeBlueprint(t, "plan.pdf", "%PDF-1.7")
	if err := os.Remove(bp.Path); err != nil {
		t.Fatalf("remove: %v", err)
	}

	_, err := NewClient("http://127.0.0.1:1", 0).Analyze(context.Background(), bp)
	if err == nil || !strings.Contains(err.Error(), "open blueprint") {
		t.Fatalf("expected open error, got %v", err)
	}
}
