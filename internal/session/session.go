// Package session holds the conversation session model and the in-process
// manager that serializes turns per session.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/kalambet/scout/internal/catalog"
	"github.com/kalambet/scout/internal/requirements"
)

// Stage is where the conversation currently is in the sales funnel.
type Stage string

const (
	StageGreeting       Stage = "greeting"
	StageInquiry        Stage = "inquiry"
	StageRecommendation Stage = "recommendation"
	StageProposal       Stage = "proposal"
	StageFollowUp       Stage = "follow_up"
)

// Message is one turn in the conversation log.
type Message struct {
	ID        string            `json:"id"`
	Role      string            `json:"role"`
	Content   string            `json:"content"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Session is the full conversational state for one client.
type Session struct {
	ID              string                   `json:"session_id"`
	Stage           Stage                    `json:"stage"`
	Profile         requirements.Profile     `json:"profile"`
	Recommendations []catalog.ServicePackage `json:"recommendations,omitempty"`
	NextActions     []string                 `json:"next_actions,omitempty"`
	Context         map[string]string        `json:"context,omitempty"`
	History         []Message                `json:"history,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// New creates a fresh session at the greeting stage.
func New(now time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Stage:     StageGreeting,
		Context:   make(map[string]string),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Append adds a message to the history and bumps UpdatedAt.
func (s *Session) Append(role, content string, now time.Time) Message {
	msg := Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: now,
	}
	s.History = append(s.History, msg)
	s.UpdatedAt = now
	return msg
}

// Reset returns the session to the greeting stage. The id and message
// history survive; requirements, recommendations, and pending actions are
// cleared, and a system marker is appended to the log.
func (s *Session) Reset(now time.Time) {
	s.Stage = StageGreeting
	s.Profile = requirements.Profile{}
	s.Recommendations = nil
	s.NextActions = nil
	s.Context = make(map[string]string)
	s.Append("system", "Conversation reset", now)
}
