// Package router decides which agent handles the next turn. Routing is a
// fixed ordered rule table over the message text and conversation state;
// the first matching rule wins, so precedence lives in the table order, not
// in code paths.
package router

import (
	"strings"

	"github.com/kalambet/scout/internal/session"
)

// Handler names the agent a turn is dispatched to.
type Handler string

const (
	Greeter     Handler = "greeter"
	Extractor   Handler = "extractor"
	Recommender Handler = "recommender"
	Writer      Handler = "writer"
	FollowUp    Handler = "follow_up"
)

// Input is everything a routing decision may look at. Selection is a pure
// function of this value.
type Input struct {
	Stage              session.Stage
	Text               string
	HasRoles           bool
	HasRecommendations bool
}

type rule struct {
	name string
	pick func(Input) (Handler, bool)
}

// Keyword groups. Single words match whole lowercased tokens, so "hire"
// never triggers the greeting rule through its "hi" prefix; multi-word
// phrases match by substring. Sentence-final punctuation is stripped from
// tokens ("thanks!" still closes), but a trailing comma is kept: it marks
// an opener like "Hi, we need..." whose substance should drive routing.
var (
	selectionTokens = []string{"1", "2", "3", "option 1", "option 2", "option 3", "tech startup", "enterprise", "specialized"}
	closingWords    = []string{"goodbye", "bye", "thanks", "thank you", "that's all", "end chat", "finish", "done"}
	greetingWords   = []string{"hello", "hi", "hey", "start", "good morning", "good afternoon"}
	packageWords    = []string{"package", "packages", "service", "services", "options", "recommend", "show me", "what do you offer", "available"}
	pricingWords    = []string{"proposal", "quote", "pricing", "cost", "price", "how much", "budget", "investment", "detailed"}
	hiringWords     = []string{"need", "hire", "looking for", "want", "positions", "roles", "developers", "engineers"}
	clarifyWords    = []string{"call", "meeting", "schedule", "contact", "when", "how", "what", "why"}
)

var rules = []rule{
	{
		name: "package selection",
		pick: func(in Input) (Handler, bool) {
			if in.Stage == session.StageRecommendation && containsAny(in.Text, selectionTokens) {
				return Writer, true
			}
			return "", false
		},
	},
	{
		name: "closing",
		pick: func(in Input) (Handler, bool) {
			if containsAny(in.Text, closingWords) {
				return FollowUp, true
			}
			return "", false
		},
	},
	{
		name: "greeting",
		pick: func(in Input) (Handler, bool) {
			if containsAny(in.Text, greetingWords) {
				return Greeter, true
			}
			return "", false
		},
	},
	{
		name: "package inquiry",
		pick: func(in Input) (Handler, bool) {
			if containsAny(in.Text, packageWords) {
				return Recommender, true
			}
			return "", false
		},
	},
	{
		name: "pricing",
		pick: func(in Input) (Handler, bool) {
			if !containsAny(in.Text, pricingWords) {
				return "", false
			}
			if in.HasRecommendations {
				return Writer, true
			}
			return Recommender, true
		},
	},
	{
		name: "hiring needs",
		pick: func(in Input) (Handler, bool) {
			if !containsAny(in.Text, hiringWords) {
				return "", false
			}
			if in.Stage == session.StageGreeting || !in.HasRoles {
				return Extractor, true
			}
			return Recommender, true
		},
	},
	{
		name: "post-recommendation",
		pick: func(in Input) (Handler, bool) {
			if in.Stage != session.StageRecommendation || !in.HasRecommendations {
				return "", false
			}
			if containsAny(in.Text, clarifyWords) {
				return FollowUp, true
			}
			return Writer, true
		},
	},
	{
		name: "stage default",
		pick: func(in Input) (Handler, bool) {
			switch in.Stage {
			case session.StageGreeting:
				if len(strings.Fields(in.Text)) > 5 {
					return Extractor, true
				}
				return Greeter, true
			case session.StageInquiry:
				if in.HasRoles {
					return Recommender, true
				}
				return Extractor, true
			case session.StageRecommendation:
				if in.HasRecommendations {
					return Writer, true
				}
				return Recommender, true
			case session.StageProposal:
				return FollowUp, true
			}
			return "", false
		},
	},
	{
		name: "fallback",
		pick: func(Input) (Handler, bool) { return Greeter, true },
	},
}

// Select picks the handler for a turn.
func Select(in Input) Handler {
	in.Text = strings.ToLower(in.Text)
	for _, r := range rules {
		if h, ok := r.pick(in); ok {
			return h
		}
	}
	return Greeter
}

func containsAny(text string, words []string) bool {
	var tokens []string
	for _, w := range words {
		if strings.ContainsRune(w, ' ') {
			if strings.Contains(text, w) {
				return true
			}
			continue
		}
		if tokens == nil {
			for _, tok := range strings.Fields(text) {
				tokens = append(tokens, strings.Trim(tok, ".!?;:"))
			}
		}
		for _, tok := range tokens {
			if tok == w {
				return true
			}
		}
	}
	return false
}
