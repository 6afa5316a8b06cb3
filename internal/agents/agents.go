// Package agents implements the five conversational handlers the router
// dispatches to: greeter, extractor, recommender, writer and follow-up.
// Each agent mutates the session it is handed (stage, profile,
// recommendations, next actions) and returns the reply text for the turn.
package agents

import (
	"context"
	"time"

	"github.com/kalambet/scout/internal/extract"
	"github.com/kalambet/scout/internal/llm"
	"github.com/kalambet/scout/internal/match"
	"github.com/kalambet/scout/internal/proposal"
	"github.com/kalambet/scout/internal/router"
	"github.com/kalambet/scout/internal/session"
)

// generateTimeout bounds a single model call inside an agent turn.
const generateTimeout = 30 * time.Second

// Result is one agent turn. Redirect, when set, asks the dispatcher to
// re-route the same input to another handler (single hop).
type Result struct {
	Response     string
	Redirect     router.Handler
	FollowUpType string
	Questions    []string
	Proposal     *proposal.Proposal
}

// Agent handles one conversation turn against a locked session.
type Agent interface {
	Name() router.Handler
	Handle(ctx context.Context, sess *session.Session, input string) Result
}

// Registry holds the wired agent set.
type Registry struct {
	agents map[router.Handler]Agent
}

// NewRegistry wires the standard five agents.
func NewRegistry(gen llm.Generator, ex extract.Extractor, matcher *match.Matcher, proposals *proposal.Generator) *Registry {
	r := &Registry{agents: make(map[router.Handler]Agent)}
	for _, a := range []Agent{
		&Greeter{gen: gen},
		&Extractor{ex: ex},
		&Recommender{matcher: matcher},
		&Writer{proposals: proposals},
		&FollowUp{},
	} {
		r.agents[a.Name()] = a
	}
	return r
}

// Get returns the agent registered for a handler name.
func (r *Registry) Get(h router.Handler) (Agent, bool) {
	a, ok := r.agents[h]
	return a, ok
}

func withGenerateTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, generateTimeout)
}
