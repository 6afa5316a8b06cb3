// Package ingest turns uploaded job descriptions (PDF files, web pages,
// plain text) into text the requirements extractor can work with.
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"golang.org/x/net/html"
)

const (
	// MaxDocumentSize bounds uploaded document payloads.
	MaxDocumentSize = 10 << 20 // 10MB
	maxFetchSize    = 5 << 20  // 5MB
	fetchTimeout    = 10 * time.Second
)

// Document is one extracted job description.
type Document struct {
	Title  string `json:"title"`
	Text   string `json:"text"`
	Source string `json:"source"` // "pdf", "html" or "text"
}

// FromPDF extracts the plain text of a PDF document.
func FromPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}
	text, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(text); err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}
	out := collapseSpace(buf.String())
	if out == "" {
		return "", fmt.Errorf("pdf contains no extractable text")
	}
	return out, nil
}

// FromHTML extracts the visible text of an HTML page, with the page title
// when present. Script and style content is dropped.
func FromHTML(r io.Reader) (Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return Document{}, fmt.Errorf("parsing html: %w", err)
	}

	var (
		title string
		parts []string
		walk  func(*html.Node)
	)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			case "title":
				if n.FirstChild != nil && title == "" {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
				return
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	text := collapseSpace(strings.Join(parts, "\n"))
	if text == "" {
		return Document{}, fmt.Errorf("page contains no extractable text")
	}
	return Document{Title: title, Text: text, Source: "html"}, nil
}

// FromURL fetches a job posting and extracts its text. PDF responses go
// through the PDF extractor, everything else is treated as HTML.
func FromURL(ctx context.Context, client *http.Client, url string) (Document, error) {
	if client == nil {
		client = http.DefaultClient
	}
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Document{}, fmt.Errorf("invalid url: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return Document{}, fmt.Errorf("fetching url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Document{}, fmt.Errorf("url returned status %d", resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, maxFetchSize)
	if isPDF(resp.Header.Get("Content-Type")) {
		data, err := io.ReadAll(body)
		if err != nil {
			return Document{}, fmt.Errorf("reading response: %w", err)
		}
		text, err := FromPDF(data)
		if err != nil {
			return Document{}, err
		}
		return Document{Title: url, Text: text, Source: "pdf"}, nil
	}

	doc, err := FromHTML(body)
	if err != nil {
		return Document{}, err
	}
	if doc.Title == "" {
		doc.Title = url
	}
	return doc, nil
}

func isPDF(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/pdf"
}

// collapseSpace trims lines and squeezes runs of blank lines so the
// extractor sees compact prose.
func collapseSpace(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
