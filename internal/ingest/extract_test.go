package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const jobPostingHTML = `<!DOCTYPE html>
<html>
<head>
  <title>Senior Backend Engineer - Acme</title>
  <style>body { color: red }</style>
  <script>console.log("tracking")</script>
</head>
<body>
  <h1>Senior Backend Engineer</h1>
  <p>We need 2 senior backend engineers in Mumbai for our fintech platform.</p>
  <noscript>enable js</noscript>
</body>
</html>`

func TestFromHTML(t *testing.T) {
	doc, err := FromHTML(strings.NewReader(jobPostingHTML))
	if err != nil {
		t.Fatalf("FromHTML: %v", err)
	}
	if doc.Title != "Senior Backend Engineer - Acme" {
		t.Errorf("title = %q", doc.Title)
	}
	if !strings.Contains(doc.Text, "2 senior backend engineers in Mumbai") {
		t.Errorf("text = %q", doc.Text)
	}
	if strings.Contains(doc.Text, "tracking") || strings.Contains(doc.Text, "color: red") {
		t.Errorf("script/style leaked into text: %q", doc.Text)
	}
	if strings.Contains(doc.Text, "enable js") {
		t.Errorf("noscript leaked into text: %q", doc.Text)
	}
}

func TestFromHTMLEmptyPage(t *testing.T) {
	if _, err := FromHTML(strings.NewReader("<html><body></body></html>")); err == nil {
		t.Error("expected error for page with no text")
	}
}

func TestFromURLServesHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(jobPostingHTML))
	}))
	defer srv.Close()

	doc, err := FromURL(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("FromURL: %v", err)
	}
	if doc.Source != "html" {
		t.Errorf("source = %q, want html", doc.Source)
	}
	if !strings.Contains(doc.Text, "fintech platform") {
		t.Errorf("text = %q", doc.Text)
	}
}

func TestFromURLErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := FromURL(context.Background(), srv.Client(), srv.URL); err == nil {
		t.Error("expected error for 404 response")
	}
}

func TestFromPDFRejectsGarbage(t *testing.T) {
	if _, err := FromPDF([]byte("not a pdf")); err == nil {
		t.Error("expected error for invalid pdf bytes")
	}
}

func TestCollapseSpace(t *testing.T) {
	got := collapseSpace("  a   b \n\n\n c\n")
	if got != "a b\nc" {
		t.Errorf("collapseSpace = %q", got)
	}
}
