// Package conversation orchestrates a full chat turn: routing, agent
// dispatch, session mutation and persistence.
package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kalambet/scout/internal/agents"
	"github.com/kalambet/scout/internal/catalog"
	"github.com/kalambet/scout/internal/ingest"
	"github.com/kalambet/scout/internal/proposal"
	"github.com/kalambet/scout/internal/router"
	"github.com/kalambet/scout/internal/session"
	"github.com/kalambet/scout/internal/storage"
)

// ErrSessionNotFound is returned for unknown session ids.
var ErrSessionNotFound = errors.New("session not found")

// ErrUnknownHandler indicates a routing decision with no registered agent.
// It signals a wiring bug, not a client error.
var ErrUnknownHandler = errors.New("no agent registered for handler")

// DefaultGreeting opens every new conversation.
const DefaultGreeting = "Hello! I'm here to help you with your recruitment needs. What positions are you looking to fill?"

// Reply is the outcome of one processed message.
type Reply struct {
	SessionID    string                   `json:"session_id"`
	Response     string                   `json:"response"`
	Agent        router.Handler           `json:"agent"`
	Stage        session.Stage            `json:"stage"`
	NextActions  []string                 `json:"next_actions,omitempty"`
	Questions    []string                 `json:"clarifying_questions,omitempty"`
	FollowUpType string                   `json:"follow_up_type,omitempty"`
	Proposal     *proposal.Proposal       `json:"proposal,omitempty"`
	Packages     []catalog.ServicePackage `json:"recommended_packages,omitempty"`
}

// Service ties the session manager, agent registry and store together.
type Service struct {
	manager  *session.Manager
	store    *storage.Store
	registry *agents.Registry
}

// NewService wires a conversation service.
func NewService(manager *session.Manager, store *storage.Store, registry *agents.Registry) *Service {
	return &Service{manager: manager, store: store, registry: registry}
}

// Start opens a new session. A non-empty initial message is processed as
// the first turn right away; otherwise the reply carries the default
// greeting and waits for the client.
func (s *Service) Start(ctx context.Context, initialMessage string) (Reply, error) {
	sess := s.manager.Create()
	now := s.manager.Now()
	msg := sess.Append("assistant", DefaultGreeting, now)

	if err := s.store.SaveSession(sess); err != nil {
		return Reply{}, fmt.Errorf("save session: %w", err)
	}
	if err := s.store.AppendMessage(sess.ID, msg); err != nil {
		return Reply{}, fmt.Errorf("save greeting: %w", err)
	}
	s.track(sess.ID, "session_created", nil)
	slog.Info("conversation started", "session", sess.ID)

	if initialMessage == "" {
		return Reply{SessionID: sess.ID, Response: DefaultGreeting, Stage: sess.Stage}, nil
	}

	var reply Reply
	err := s.manager.Do(sess.ID, func(sess *session.Session) error {
		var err error
		reply, err = s.turn(ctx, sess, initialMessage, "", nil)
		return err
	})
	if err != nil {
		return Reply{}, err
	}
	return reply, nil
}

// HandleMessage routes one client message through the agents and persists
// the turn. Sessions evicted from memory are restored from the store.
func (s *Service) HandleMessage(ctx context.Context, id, text string) (Reply, error) {
	var reply Reply
	run := func(sess *session.Session) error {
		var err error
		reply, err = s.turn(ctx, sess, text, "", nil)
		return err
	}

	err := s.manager.Do(id, run)
	if errors.Is(err, session.ErrNotFound) {
		if restoreErr := s.restore(id); restoreErr != nil {
			return Reply{}, restoreErr
		}
		err = s.manager.Do(id, run)
	}
	if errors.Is(err, session.ErrNotFound) {
		return Reply{}, ErrSessionNotFound
	}
	if err != nil {
		return Reply{}, err
	}
	return reply, nil
}

func (s *Service) turn(ctx context.Context, sess *session.Session, text string, forced router.Handler, meta map[string]string) (Reply, error) {
	now := s.manager.Now()
	userMsg := sess.Append("user", text, now)
	if len(meta) > 0 {
		userMsg.Metadata = meta
		sess.History[len(sess.History)-1].Metadata = meta
	}

	handler := forced
	if handler == "" {
		handler = router.Select(router.Input{
			Stage:              sess.Stage,
			Text:               text,
			HasRoles:           len(sess.Profile.Roles) > 0,
			HasRecommendations: len(sess.Recommendations) > 0,
		})
	}

	res, handler, err := s.dispatch(ctx, handler, sess, text)
	if err != nil {
		return Reply{}, err
	}

	asstMsg := sess.Append("assistant", res.Response, s.manager.Now())
	asstMsg.Metadata = map[string]string{"agent": string(handler)}
	sess.History[len(sess.History)-1].Metadata = asstMsg.Metadata

	if err := s.store.SaveSession(sess); err != nil {
		return Reply{}, fmt.Errorf("save session: %w", err)
	}
	if err := s.store.AppendMessage(sess.ID, userMsg); err != nil {
		return Reply{}, fmt.Errorf("save user message: %w", err)
	}
	if err := s.store.AppendMessage(sess.ID, asstMsg); err != nil {
		return Reply{}, fmt.Errorf("save reply: %w", err)
	}
	s.track(sess.ID, "message_processed", map[string]string{
		"agent": string(handler),
		"stage": string(sess.Stage),
	})

	slog.Info("message processed", "session", sess.ID, "agent", handler, "stage", sess.Stage)

	return Reply{
		SessionID:    sess.ID,
		Response:     res.Response,
		Agent:        handler,
		Stage:        sess.Stage,
		NextActions:  sess.NextActions,
		Questions:    res.Questions,
		FollowUpType: res.FollowUpType,
		Proposal:     res.Proposal,
		Packages:     sess.Recommendations,
	}, nil
}

// dispatch runs the selected agent, following at most one redirect hop.
func (s *Service) dispatch(ctx context.Context, handler router.Handler, sess *session.Session, text string) (agents.Result, router.Handler, error) {
	agent, ok := s.registry.Get(handler)
	if !ok {
		return agents.Result{}, handler, fmt.Errorf("%w: %q", ErrUnknownHandler, handler)
	}
	res := agent.Handle(ctx, sess, text)

	if res.Redirect != "" && res.Redirect != handler {
		next, ok := s.registry.Get(res.Redirect)
		if !ok {
			return agents.Result{}, handler, fmt.Errorf("%w: %q", ErrUnknownHandler, res.Redirect)
		}
		handler = res.Redirect
		res = next.Handle(ctx, sess, text)
	}
	return res, handler, nil
}

// IngestDocument feeds an extracted job description straight through the
// requirements extractor, bypassing keyword routing.
func (s *Service) IngestDocument(ctx context.Context, id string, doc ingest.Document) (Reply, error) {
	meta := map[string]string{"source": "document"}
	if doc.Title != "" {
		meta["title"] = doc.Title
	}

	var reply Reply
	run := func(sess *session.Session) error {
		var err error
		reply, err = s.turn(ctx, sess, doc.Text, router.Extractor, meta)
		return err
	}

	err := s.manager.Do(id, run)
	if errors.Is(err, session.ErrNotFound) {
		if restoreErr := s.restore(id); restoreErr != nil {
			return Reply{}, restoreErr
		}
		err = s.manager.Do(id, run)
	}
	if errors.Is(err, session.ErrNotFound) {
		return Reply{}, ErrSessionNotFound
	}
	if err != nil {
		return Reply{}, err
	}
	s.track(id, "document_ingested", map[string]string{"source": doc.Source})
	return reply, nil
}

// Reset clears a session back to the greeting stage, keeping its history.
func (s *Service) Reset(ctx context.Context, id string) (session.Session, error) {
	var snapshot session.Session
	run := func(sess *session.Session) error {
		now := s.manager.Now()
		sess.Reset(now)
		if err := s.store.SaveSession(sess); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		last := sess.History[len(sess.History)-1]
		if err := s.store.AppendMessage(sess.ID, last); err != nil {
			return fmt.Errorf("save reset marker: %w", err)
		}
		snapshot = *sess
		return nil
	}

	err := s.manager.Do(id, run)
	if errors.Is(err, session.ErrNotFound) {
		if restoreErr := s.restore(id); restoreErr != nil {
			return session.Session{}, restoreErr
		}
		err = s.manager.Do(id, run)
	}
	if errors.Is(err, session.ErrNotFound) {
		return session.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return session.Session{}, err
	}
	s.track(id, "session_reset", nil)
	return snapshot, nil
}

// Get returns a snapshot of a session, restoring it from storage when it is
// not in memory.
func (s *Service) Get(id string) (session.Session, error) {
	var snapshot session.Session
	run := func(sess *session.Session) error {
		snapshot = *sess
		return nil
	}

	err := s.manager.Do(id, run)
	if errors.Is(err, session.ErrNotFound) {
		if restoreErr := s.restore(id); restoreErr != nil {
			return session.Session{}, restoreErr
		}
		err = s.manager.Do(id, run)
	}
	if errors.Is(err, session.ErrNotFound) {
		return session.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return session.Session{}, err
	}
	return snapshot, nil
}

func (s *Service) restore(id string) error {
	sess, err := s.store.GetSession(id)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrSessionNotFound
	}
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	s.manager.Adopt(sess)
	return nil
}

// Catalog returns the service packages on offer.
func (s *Service) Catalog() []catalog.ServicePackage {
	return catalog.Packages()
}

// ListSessions returns recent session summaries from the store.
func (s *Service) ListSessions(since time.Time, limit int) ([]storage.SessionSummary, error) {
	return s.store.ListSessions(since, limit)
}

// Analytics aggregates tracked events, optionally scoped to one session.
func (s *Service) Analytics(since time.Time, sessionID string) (storage.Analytics, error) {
	return s.store.GetAnalytics(since, sessionID)
}

// CleanupOldSessions removes sessions idle for longer than the retention
// period from both the store and the in-memory registry.
func (s *Service) CleanupOldSessions(retentionDays int) (int, error) {
	cutoff := s.manager.Now().AddDate(0, 0, -retentionDays)

	n, err := s.store.DeleteSessionsBefore(cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old sessions: %w", err)
	}
	for _, sess := range s.manager.List() {
		if sess.UpdatedAt.Before(cutoff) {
			s.manager.Remove(sess.ID)
		}
	}
	if n > 0 {
		slog.Info("cleaned up old sessions", "deleted", n, "cutoff", cutoff)
	}
	return n, nil
}

func (s *Service) track(sessionID, eventType string, data map[string]string) {
	var payload string
	if len(data) > 0 {
		b, err := json.Marshal(data)
		if err == nil {
			payload = string(b)
		}
	}
	err := s.store.TrackEvent(storage.Event{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Type:      eventType,
		DataJSON:  payload,
		CreatedAt: s.manager.Now(),
	})
	if err != nil {
		slog.Warn("event tracking failed", "session", sessionID, "type", eventType, "error", err)
	}
}
