package agents

import (
	"context"
	"strings"
	"testing"

	"github.com/kalambet/scout/internal/catalog"
	"github.com/kalambet/scout/internal/match"
	"github.com/kalambet/scout/internal/requirements"
	"github.com/kalambet/scout/internal/session"
)

func fintechProfile() requirements.Profile {
	return requirements.Profile{
		Roles:           []string{"backend engineer"},
		RoleCounts:      map[string]int{"backend engineer": 2},
		Industry:        "fintech",
		Location:        "Mumbai",
		ExperienceLevel: "senior",
		Urgency:         requirements.UrgencyUrgent,
	}
}

func TestRecommenderRedirectsWithoutProfile(t *testing.T) {
	r := &Recommender{matcher: match.New()}
	sess := newSession()

	res := r.Handle(context.Background(), sess, "show me packages")

	if sess.Stage != session.StageInquiry {
		t.Errorf("stage = %s, want inquiry", sess.Stage)
	}
	if !strings.Contains(res.Response, "What positions are you looking to fill?") {
		t.Errorf("response = %q", res.Response)
	}
}

func TestRecommenderPresentsPackages(t *testing.T) {
	r := &Recommender{matcher: match.New()}
	sess := newSession()
	sess.Profile = fintechProfile()

	res := r.Handle(context.Background(), sess, "what do you recommend?")

	if sess.Stage != session.StageRecommendation {
		t.Errorf("stage = %s, want recommendation", sess.Stage)
	}
	if len(sess.Recommendations) == 0 {
		t.Fatal("no recommendations stored on session")
	}
	if sess.Recommendations[0].ID != "tech_startup_pack" {
		t.Errorf("top recommendation = %s, want tech_startup_pack for a fintech startup profile", sess.Recommendations[0].ID)
	}
	if !strings.Contains(res.Response, "Based on your need for backend engineer") {
		t.Errorf("response missing role acknowledgment: %q", res.Response)
	}
	if !strings.Contains(res.Response, "industry: fintech") {
		t.Errorf("response missing industry context: %q", res.Response)
	}
	if !strings.Contains(res.Response, "Tech Startup Hiring Pack") {
		t.Errorf("response missing package name: %q", res.Response)
	}
	if len(sess.Recommendations) > 1 && !strings.Contains(res.Response, "Which option interests you most?") {
		t.Errorf("multi-package response missing selection call to action: %q", res.Response)
	}
}

func TestRecommendationTextSinglePackageCTA(t *testing.T) {
	pkg, ok := catalog.ByID("tech_startup_pack")
	if !ok {
		t.Fatal("tech_startup_pack missing from catalog")
	}

	text := recommendationText(fintechProfile(), []catalog.ServicePackage{pkg})

	if !strings.Contains(text, "Would you like me to prepare a detailed proposal for the Tech Startup Hiring Pack?") {
		t.Errorf("single-package text missing direct call to action: %q", text)
	}
	if strings.Contains(text, "1. **") {
		t.Errorf("single-package text should not number the option: %q", text)
	}
}

func TestRecommenderNoMatchesOffersCustomSolution(t *testing.T) {
	r := &Recommender{matcher: &match.Matcher{Threshold: 2.0, TopK: 3}}
	sess := newSession()
	sess.Profile = fintechProfile()

	res := r.Handle(context.Background(), sess, "anything else?")

	if sess.Stage != session.StageFollowUp {
		t.Errorf("stage = %s, want follow_up", sess.Stage)
	}
	if sess.Context["custom_solution_needed"] != "true" {
		t.Errorf("context = %v, want custom_solution_needed flag", sess.Context)
	}
	if !strings.Contains(res.Response, "custom solution") {
		t.Errorf("response = %q", res.Response)
	}
}
