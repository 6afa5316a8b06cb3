package agents

import (
	"context"
	"log/slog"

	"github.com/kalambet/scout/internal/extract"
	"github.com/kalambet/scout/internal/requirements"
	"github.com/kalambet/scout/internal/router"
	"github.com/kalambet/scout/internal/session"
)

// Extractor pulls hiring requirements out of the message, merges them into
// the session profile and either asks clarifying questions or advances to
// recommendations.
type Extractor struct {
	ex extract.Extractor
}

func (e *Extractor) Name() router.Handler { return router.Extractor }

func (e *Extractor) Handle(ctx context.Context, sess *session.Session, input string) Result {
	res, err := e.ex.Extract(ctx, input)
	if err != nil {
		slog.Error("extraction failed", "session", sess.ID, "error", err)
		sess.Stage = session.StageInquiry
		sess.NextActions = []string{"Collect basic hiring requirements", "Clarify role details"}
		return Result{Response: requirements.FallbackResponse}
	}

	merged := requirements.Merge(sess.Profile, res.Profile)
	sess.Profile = merged

	questions := requirements.ClarifyingQuestions(merged)
	if requirements.IsComplete(merged) {
		sess.Stage = session.StageRecommendation
	} else {
		sess.Stage = session.StageInquiry
	}

	if len(questions) > 0 {
		sess.NextActions = []string{
			"Wait for answers to clarifying questions",
			"Continue extracting missing information",
			"Build complete client profile",
		}
	} else {
		sess.NextActions = []string{
			"Proceed to service recommendations",
			"Match client needs with service packages",
			"Prepare personalized proposals",
		}
	}

	return Result{
		Response:  requirements.BuildResponse(merged, questions),
		Questions: questions,
	}
}
