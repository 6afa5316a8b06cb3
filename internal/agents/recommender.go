package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/kalambet/scout/internal/catalog"
	"github.com/kalambet/scout/internal/match"
	"github.com/kalambet/scout/internal/requirements"
	"github.com/kalambet/scout/internal/router"
	"github.com/kalambet/scout/internal/session"
	"github.com/kalambet/scout/internal/textutil"
)

// Recommender scores the catalog against the client profile and presents
// the top packages.
type Recommender struct {
	matcher *match.Matcher
}

func (r *Recommender) Name() router.Handler { return router.Recommender }

func (r *Recommender) Handle(_ context.Context, sess *session.Session, _ string) Result {
	if sess.Profile.Empty() {
		sess.Stage = session.StageInquiry
		sess.NextActions = []string{"Collect hiring requirements", "Extract client needs"}
		return Result{Response: "I'd love to recommend the best solution for you! Could you first tell me about your hiring needs? What positions are you looking to fill?"}
	}

	recs := r.matcher.Recommend(sess.Profile, catalog.Packages())
	if len(recs) == 0 {
		return r.noMatches(sess)
	}

	sess.Recommendations = recs
	sess.Stage = session.StageRecommendation
	sess.NextActions = []string{
		"Wait for client to choose a package",
		"Answer questions about recommended packages",
		"Prepare detailed proposal for selected package",
		"Explain package features and benefits",
	}
	return Result{Response: recommendationText(sess.Profile, recs)}
}

func recommendationText(p requirements.Profile, recs []catalog.ServicePackage) string {
	var parts []string

	if len(p.Roles) > 0 {
		parts = append(parts, fmt.Sprintf("Based on your need for %s, I have the perfect solution!", strings.Join(p.Roles, ", ")))
	} else {
		parts = append(parts, "Based on your hiring requirements, I have great options for you!")
	}

	var context []string
	if p.Industry != "" && strings.ToLower(p.Industry) != "not specified" {
		context = append(context, fmt.Sprintf("industry: %s", p.Industry))
	}
	if p.Location != "" && strings.ToLower(p.Location) != "not specified" {
		context = append(context, fmt.Sprintf("location: %s", p.Location))
	}
	if u := strings.ToLower(string(p.Urgency)); u != "" && u != "not specified" && u != "flexible" {
		context = append(context, fmt.Sprintf("timeline: %s", p.Urgency))
	}
	if len(context) > 0 {
		parts = append(parts, fmt.Sprintf("Given your %s, here's what I recommend:", strings.Join(context, ", ")))
	}

	for i, pkg := range recs {
		if len(recs) > 1 {
			parts = append(parts, fmt.Sprintf("\n%d. **%s**", i+1, pkg.Name))
		} else {
			parts = append(parts, fmt.Sprintf("\n**%s**", pkg.Name))
		}
		parts = append(parts, fmt.Sprintf("   %s", pkg.Description))

		features := pkg.Features
		if len(features) > 3 {
			features = features[:3]
		}
		if len(features) > 0 {
			parts = append(parts, fmt.Sprintf("   Key features: %s", textutil.FormatList(features, 3)))
		}

		parts = append(parts, fmt.Sprintf("   Timeline: %s", pkg.Timeline))
		if pkg.SuccessRate != "" {
			parts = append(parts, fmt.Sprintf("   Success rate: %s", pkg.SuccessRate))
		}
		parts = append(parts, fmt.Sprintf("   Investment: %s", pkg.PriceRange))
	}

	if len(recs) == 1 {
		parts = append(parts, fmt.Sprintf("\nWould you like me to prepare a detailed proposal for the %s?", recs[0].Name))
	} else {
		parts = append(parts, "\nWhich option interests you most? I can prepare a detailed proposal for any of these packages.")
	}

	return strings.Join(parts, "\n")
}

func (r *Recommender) noMatches(sess *session.Session) Result {
	rolesText := "talent"
	if len(sess.Profile.Roles) > 0 {
		rolesText = textutil.FormatList(sess.Profile.Roles, 3)
	}
	response := fmt.Sprintf(`I understand you're looking for %s.
While I don't have a perfect package match in our standard offerings, we absolutely can create a custom solution for your needs.

Let me connect you with one of our senior consultants who can design a tailored recruitment strategy for your specific requirements.
Would you like me to schedule a call to discuss your custom hiring solution?`, rolesText)

	sess.Stage = session.StageFollowUp
	sess.NextActions = []string{"Schedule custom consultation", "Connect with senior consultant"}
	sess.Context["custom_solution_needed"] = "true"
	return Result{Response: response}
}
