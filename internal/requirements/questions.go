package requirements

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kalambet/scout/internal/textutil"
)

// ClarifyingQuestions returns the questions still needed to complete the
// profile, in priority order, capped at two per turn.
func ClarifyingQuestions(p Profile) []string {
	var questions []string

	if len(p.Roles) == 0 {
		questions = append(questions, "What specific roles or positions are you looking to fill?")
	}

	if len(p.Roles) > 1 && len(p.RoleCounts) == 0 {
		questions = append(questions, "How many of each position do you need?")
	} else if len(p.Roles) == 1 && len(p.RoleCounts) == 0 {
		questions = append(questions, fmt.Sprintf("How many %ss do you need to hire?", p.Roles[0]))
	}

	if p.Location == "" {
		questions = append(questions, "What location should these candidates be based in?")
	}

	if p.Industry == "" || p.Industry == "it" {
		questions = append(questions, "What specific industry or business sector is your company in?")
	}

	if p.ExperienceLevel == "" {
		questions = append(questions, "What experience level are you looking for (junior, mid-level, senior)?")
	}

	if p.Urgency == "" || p.Urgency == UrgencyMedium {
		questions = append(questions, "What's your ideal timeline for these hires?")
	}

	if len(p.Roles) > 0 && p.Location != "" && p.AdditionalRequirements == "" {
		questions = append(questions, "Are there any specific technical skills or requirements for these roles?")
	}

	if len(questions) > 2 {
		questions = questions[:2]
	}
	return questions
}

// BuildResponse assembles the acknowledgment text for an extraction turn:
// what was understood, the known details, and either the clarifying
// questions or a ready-to-recommend confirmation.
func BuildResponse(p Profile, questions []string) string {
	var parts []string

	if len(p.Roles) > 0 {
		parts = append(parts, fmt.Sprintf("Perfect! I understand you need %s.", strings.Join(p.Roles, ", ")))

		if len(p.RoleCounts) > 0 {
			roles := make([]string, 0, len(p.RoleCounts))
			for role := range p.RoleCounts {
				roles = append(roles, role)
			}
			sort.Strings(roles)
			counts := make([]string, 0, len(roles))
			for _, role := range roles {
				counts = append(counts, fmt.Sprintf("%d %s(s)", p.RoleCounts[role], role))
			}
			parts = append(parts, fmt.Sprintf("Specifically, %s.", strings.Join(counts, ", ")))
		}
	}

	var details []string
	if p.Location != "" {
		details = append(details, fmt.Sprintf("in %s", p.Location))
	}
	if p.Industry != "" && p.Industry != "it" {
		details = append(details, fmt.Sprintf("for your %s company", p.Industry))
	}
	if p.ExperienceLevel != "" {
		details = append(details, fmt.Sprintf("at %s level", p.ExperienceLevel))
	}
	if len(details) > 0 {
		parts = append(parts, fmt.Sprintf("Based %s.", strings.Join(details, ", ")))
	}

	switch p.Urgency {
	case UrgencyUrgent:
		parts = append(parts, "I understand this is urgent.")
	case UrgencyHigh:
		parts = append(parts, "I see you need them quickly.")
	case UrgencyLow:
		parts = append(parts, "I understand you can be flexible with timing.")
	}

	if len(questions) > 0 {
		parts = append(parts, "To finalize the best recommendations, I just need:")
		for i, q := range questions {
			parts = append(parts, fmt.Sprintf("%d. %s", i+1, q))
		}
	} else {
		parts = append(parts, "Excellent! I have all the information needed to recommend the perfect service package for you.")
	}

	return strings.Join(parts, " ")
}

// FallbackResponse is the canned reply used when extraction fails entirely.
const FallbackResponse = `I'd love to help you find the right candidates! To get started, could you tell me:
• What positions are you looking to fill?
• How many of each role do you need?
• What's your timeline for these hires?`

// Summary renders the profile for display in session listings.
func Summary(p Profile) string {
	if p.Empty() {
		return "No requirements captured yet"
	}
	var b strings.Builder
	b.WriteString("Roles: " + textutil.FormatList(p.Roles, 4))
	if p.Location != "" {
		b.WriteString("; location: " + p.Location)
	}
	if p.Industry != "" {
		b.WriteString("; industry: " + p.Industry)
	}
	if p.Urgency != "" {
		b.WriteString("; urgency: " + string(p.Urgency))
	}
	return b.String()
}
