// Package api exposes the conversation service over HTTP and MCP.
package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/scout/internal/conversation"
	"github.com/kalambet/scout/internal/ingest"
)

const maxRequestBodySize = 1 << 20 // 1MB

// Deps holds dependencies for the HTTP API.
type Deps struct {
	Service    *conversation.Service
	Token      string // empty disables auth
	HTTPClient *http.Client
}

// NewHandler returns the REST API handler.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth)

	r.Group(func(r chi.Router) {
		if deps.Token != "" {
			r.Use(BearerAuth(deps.Token))
		}

		r.Post("/v1/conversations", handleStart(deps))
		r.Get("/v1/conversations/{id}", handleGetConversation(deps))
		r.Post("/v1/conversations/{id}/messages", handleSendMessage(deps))
		r.Post("/v1/conversations/{id}/reset", handleReset(deps))
		r.Post("/v1/conversations/{id}/documents", handleIngestDocument(deps))
		r.Get("/v1/catalog", handleCatalog(deps))
		r.Get("/v1/sessions", handleListSessions(deps))
		r.Get("/v1/analytics", handleAnalytics(deps))
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

type startRequest struct {
	InitialMessage string `json:"initial_message"`
}

func handleStart(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		// The body is optional; without one the client just gets the greeting.
		var req startRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		reply, err := deps.Service.Start(r.Context(), req.InitialMessage)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to start conversation: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(reply)
	}
}

type messageRequest struct {
	Message string `json:"message"`
}

func handleSendMessage(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req messageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Message == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "message is required")
			return
		}

		reply, err := deps.Service.HandleMessage(r.Context(), chi.URLParam(r, "id"), req.Message)
		if errors.Is(err, conversation.ErrSessionNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "Session not found. Please start a new conversation.")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to process message: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(reply)
	}
}

func handleGetConversation(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := deps.Service.Get(chi.URLParam(r, "id"))
		if errors.Is(err, conversation.ErrSessionNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "session not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get session: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sess)
	}
}

func handleReset(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := deps.Service.Reset(r.Context(), chi.URLParam(r, "id"))
		if errors.Is(err, conversation.ErrSessionNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "session not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to reset session: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"session_id": sess.ID,
			"stage":      sess.Stage,
			"status":     "reset",
		})
	}
}

type documentRequest struct {
	Type    string `json:"type"` // "pdf", "url" or "text"
	Title   string `json:"title"`
	Content string `json:"content"` // base64 for pdf, raw for text
	URL     string `json:"url"`
}

func handleIngestDocument(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, ingest.MaxDocumentSize)
		defer r.Body.Close()

		var req documentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		var (
			doc ingest.Document
			err error
		)
		switch req.Type {
		case "pdf":
			data, decErr := base64.StdEncoding.DecodeString(req.Content)
			if decErr != nil {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid base64 content")
				return
			}
			var text string
			text, err = ingest.FromPDF(data)
			doc = ingest.Document{Title: req.Title, Text: text, Source: "pdf"}
		case "url":
			if req.URL == "" {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "url is required")
				return
			}
			doc, err = ingest.FromURL(r.Context(), deps.HTTPClient, req.URL)
			if req.Title != "" {
				doc.Title = req.Title
			}
		case "text", "":
			if req.Content == "" {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "content is required")
				return
			}
			doc = ingest.Document{Title: req.Title, Text: req.Content, Source: "text"}
		default:
			httpError(w, http.StatusBadRequest, "invalid_request_error", "unsupported document type %q", req.Type)
			return
		}
		if err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "failed to extract document: %v", err)
			return
		}

		reply, err := deps.Service.IngestDocument(r.Context(), chi.URLParam(r, "id"), doc)
		if errors.Is(err, conversation.ErrSessionNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "session not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to ingest document: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(reply)
	}
}

func handleCatalog(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"packages": deps.Service.Catalog(),
		})
	}
}

func handleListSessions(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := parseIntParam(r, "days", 7, 365)
		limit := parseIntParam(r, "limit", 50, 500)

		since := time.Now().UTC().AddDate(0, 0, -days)
		sessions, err := deps.Service.ListSessions(since, limit)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list sessions: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"sessions": sessions,
			"count":    len(sessions),
		})
	}
}

func handleAnalytics(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := parseIntParam(r, "days", 7, 365)
		sessionID := r.URL.Query().Get("session_id")

		since := time.Now().UTC().AddDate(0, 0, -days)
		analytics, err := deps.Service.Analytics(since, sessionID)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get analytics: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(analytics)
	}
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
