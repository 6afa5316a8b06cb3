package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
	Auth   string
}

type testServer struct {
	server   *httptest.Server
	requests []recordedRequest
}

func newTestServer(t *testing.T, responses map[string]string) *testServer {
	t.Helper()
	ts := &testServer{}

	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body bytes.Buffer
		body.ReadFrom(r.Body)

		ts.requests = append(ts.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.RequestURI(),
			Body:   body.String(),
			Auth:   r.Header.Get("Authorization"),
		})

		key := r.Method + " " + r.URL.Path
		if resp, ok := responses[key]; ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(resp))
			return
		}

		w.WriteHeader(404)
		w.Write([]byte(`{"error":{"message":"not found","type":"not_found"}}`))
	}))

	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) client() *apiClient {
	return &apiClient{
		baseURL:    ts.server.URL,
		token:      "test-token",
		httpClient: ts.server.Client(),
	}
}

var ctx = context.Background()

func TestClientSendsBearerToken(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"POST /v1/conversations": `{"session_id":"s-1","stage":"greeting","response":"Hello!"}`,
	})

	resp, err := ts.client().post(ctx, "/v1/conversations", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()

	if len(ts.requests) != 1 {
		t.Fatalf("requests = %d, want 1", len(ts.requests))
	}
	if ts.requests[0].Auth != "Bearer test-token" {
		t.Errorf("auth header = %q", ts.requests[0].Auth)
	}
}

func TestSendMessageRequest(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"POST /v1/conversations/s-1/messages": `{"session_id":"s-1","response":"Got it!","agent":"extractor","stage":"inquiry"}`,
	})

	resp, err := ts.client().post(ctx, "/v1/conversations/s-1/messages",
		map[string]string{"message": "we need 2 backend engineers"})
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	var reply chatReply
	if err := decodeJSON(resp, &reply); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if reply.Agent != "extractor" {
		t.Errorf("agent = %q, want extractor", reply.Agent)
	}

	var sent map[string]string
	if err := json.Unmarshal([]byte(ts.requests[0].Body), &sent); err != nil {
		t.Fatalf("unmarshal sent body: %v", err)
	}
	if sent["message"] != "we need 2 backend engineers" {
		t.Errorf("sent message = %q", sent["message"])
	}
}

func TestDecodeJSONErrorResponse(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := ts.client().get(ctx, "/v1/conversations/unknown")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	var out map[string]any
	err = decodeJSON(resp, &out)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "server returned 404") {
		t.Errorf("error = %v", err)
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error should include server body, got %v", err)
	}
}

func TestSessionsQueryParams(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /v1/sessions": `{"sessions":[],"count":0}`,
	})

	resp, err := ts.client().get(ctx, "/v1/sessions?days=30&limit=10")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()

	if got := ts.requests[0].Path; got != "/v1/sessions?days=30&limit=10" {
		t.Errorf("path = %q", got)
	}
}

func TestServerNotReachable(t *testing.T) {
	client := &apiClient{
		baseURL:    "http://127.0.0.1:1",
		token:      "x",
		httpClient: &http.Client{},
	}

	_, err := client.get(ctx, "/health")
	if err == nil {
		t.Fatal("expected connection error")
	}
	if !strings.Contains(err.Error(), "is scout running?") {
		t.Errorf("error = %v", err)
	}
}
