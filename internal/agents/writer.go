package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/kalambet/scout/internal/catalog"
	"github.com/kalambet/scout/internal/proposal"
	"github.com/kalambet/scout/internal/router"
	"github.com/kalambet/scout/internal/session"
)

// Writer turns a chosen package into a full personalized proposal.
type Writer struct {
	proposals *proposal.Generator
}

func (w *Writer) Name() router.Handler { return router.Writer }

func (w *Writer) Handle(ctx context.Context, sess *session.Session, input string) Result {
	if sess.Profile.Empty() {
		sess.Stage = session.StageInquiry
		sess.NextActions = []string{"Collect hiring requirements"}
		return Result{Response: "I'd be happy to prepare a proposal for you! However, I need to understand your hiring needs first. Could you tell me what positions you're looking to fill?"}
	}

	if len(sess.Recommendations) == 0 {
		// Nothing to write a proposal about yet; hand the turn to the
		// recommender so the client sees the packages first.
		sess.Stage = session.StageRecommendation
		sess.NextActions = []string{"Generate service recommendations"}
		return Result{Redirect: router.Recommender}
	}

	selected := SelectPackage(input, sess.Recommendations, sess.Context)

	genCtx, cancel := withGenerateTimeout(ctx)
	defer cancel()
	prop := w.proposals.Generate(genCtx, sess.Profile, selected)

	sess.Context["selected_package_id"] = selected.ID
	sess.Stage = session.StageProposal
	sess.NextActions = []string{
		"Wait for client response to proposal",
		"Answer questions about the package",
		"Schedule follow-up call if requested",
		"Prepare contract or detailed quote",
		"Connect client with account manager",
	}
	return Result{
		Response: formatProposal(prop),
		Proposal: &prop,
	}
}

type selectionPattern struct {
	phrase string
	index  int
}

// selectionPatterns are checked in order; earlier entries take precedence
// when several phrases appear in the same message.
var selectionPatterns = []selectionPattern{
	{"1", 0}, {"2", 1}, {"3", 2}, {"4", 3}, {"5", 4},
	{"option 1", 0}, {"option 2", 1}, {"option 3", 2}, {"option 4", 3}, {"option 5", 4},
	{"option one", 0}, {"option two", 1}, {"option three", 2},
	{"first", 0}, {"second", 1}, {"third", 2}, {"fourth", 3}, {"fifth", 4},
	{"first option", 0}, {"second option", 1}, {"third option", 2},
	{"choose 1", 0}, {"choose 2", 1}, {"choose 3", 2},
	{"select 1", 0}, {"select 2", 1}, {"select 3", 2},
	{"go with 1", 0}, {"go with 2", 1}, {"go with 3", 2},
	{"pick 1", 0}, {"pick 2", 1}, {"pick 3", 2},
	{"i want 1", 0}, {"i want 2", 1}, {"i want 3", 2},
	{"i choose 1", 0}, {"i choose 2", 1}, {"i choose 3", 2},
	{"i select 1", 0}, {"i select 2", 1}, {"i select 3", 2},
	{"i pick 1", 0}, {"i pick 2", 1}, {"i pick 3", 2},
	{"i'll take 1", 0}, {"i'll take 2", 1}, {"i'll take 3", 2},
	{"let me go with 1", 0}, {"let me go with 2", 1}, {"let me go with 3", 2},
}

// familyKeywords expand a package name into the phrases clients actually
// use when referring to it.
var familyKeywords = map[string][]string{
	"startup":    {"startup", "tech startup", "small company", "new company"},
	"enterprise": {"enterprise", "large company", "big company", "corporation"},
	"volume":     {"volume", "bulk", "multiple", "many roles"},
	"executive":  {"executive", "leadership", "senior", "c-level"},
	"standard":   {"standard", "regular", "normal", "basic"},
}

// SelectPackage resolves which of the recommended packages the client
// means. Precedence: explicit number or ordinal, package name or family
// keyword, previously selected package from context, speed hints, then the
// top recommendation.
func SelectPackage(input string, packages []catalog.ServicePackage, context map[string]string) catalog.ServicePackage {
	low := strings.ToLower(strings.TrimSpace(input))

	for _, sp := range selectionPatterns {
		if strings.Contains(low, sp.phrase) && sp.index < len(packages) {
			return packages[sp.index]
		}
	}

	for _, pkg := range packages {
		keywords := []string{strings.ToLower(pkg.Name), strings.ToLower(pkg.ID)}
		for family, words := range familyKeywords {
			if strings.Contains(strings.ToLower(pkg.Name), family) {
				keywords = append(keywords, words...)
			}
		}
		for _, kw := range keywords {
			if strings.Contains(low, kw) {
				return pkg
			}
		}
	}

	if id := context["selected_package_id"]; id != "" {
		for _, pkg := range packages {
			if pkg.ID == id {
				return pkg
			}
		}
	}

	if strings.Contains(low, "fast") || strings.Contains(low, "quick") || strings.Contains(low, "urgent") {
		for _, pkg := range packages {
			name := strings.ToLower(pkg.Name)
			if strings.Contains(name, "expedited") || strings.Contains(name, "fast") {
				return pkg
			}
		}
	}

	return packages[0]
}

func formatProposal(prop proposal.Proposal) string {
	parts := []string{
		prop.Pitch,
		"\n**Package Summary:**",
		fmt.Sprintf("• **%s**", prop.Package.Name),
		fmt.Sprintf("• Timeline: %s", prop.EstimatedTimeline),
	}

	investment := prop.PriceEstimate
	if investment == "" {
		investment = prop.Package.PriceRange
	}
	parts = append(parts, fmt.Sprintf("• Investment: %s", investment))

	if len(prop.NextSteps) > 0 {
		parts = append(parts, "\n**Suggested Next Steps:**")
		for i, step := range prop.NextSteps {
			parts = append(parts, fmt.Sprintf("%d. %s", i+1, step))
		}
	}
	return strings.Join(parts, "\n")
}
