// Package proposal builds personalized recruitment proposals around a
// selected service package, with deterministic fallbacks when the model is
// unavailable.
package proposal

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/kalambet/scout/internal/catalog"
	"github.com/kalambet/scout/internal/llm"
	"github.com/kalambet/scout/internal/requirements"
	"github.com/kalambet/scout/internal/textutil"
)

// Proposal is a complete generated offer.
type Proposal struct {
	Summary           string                 `json:"summary"`
	Package           catalog.ServicePackage `json:"recommended_package"`
	Pitch             string                 `json:"personalized_pitch"`
	NextSteps         []string               `json:"next_steps"`
	EstimatedTimeline string                 `json:"estimated_timeline"`
	PriceEstimate     string                 `json:"price_estimate"`
}

// Generator produces proposals, preferring the LLM pitch and falling back
// to templated text when generation fails.
type Generator struct {
	gen llm.Generator
}

// NewGenerator returns a proposal generator. gen may be nil for a fully
// deterministic generator.
func NewGenerator(gen llm.Generator) *Generator {
	return &Generator{gen: gen}
}

// Generate builds a proposal for the profile and package. It never fails:
// model errors degrade to the fallback pitch and default next steps.
func (g *Generator) Generate(ctx context.Context, p requirements.Profile, pkg catalog.ServicePackage) Proposal {
	prop := Proposal{
		Summary:           summary(p, pkg),
		Package:           pkg,
		EstimatedTimeline: estimateTimeline(p, pkg),
		PriceEstimate:     estimatePrice(p, pkg),
	}

	pitch, steps, err := g.generatePitch(ctx, p, pkg)
	if err != nil {
		slog.Warn("proposal generation failed, using fallback pitch", "package", pkg.ID, "error", err)
		prop.Pitch = fallbackPitch(p, pkg)
		prop.NextSteps = defaultNextSteps
		return prop
	}
	prop.Pitch = pitch
	prop.NextSteps = steps
	return prop
}

func (g *Generator) generatePitch(ctx context.Context, p requirements.Profile, pkg catalog.ServicePackage) (string, []string, error) {
	if g.gen == nil {
		return "", nil, fmt.Errorf("no generator configured")
	}

	pitch, err := g.gen.Generate(ctx, pitchPrompt(p, pkg))
	if err != nil {
		return "", nil, fmt.Errorf("pitch: %w", err)
	}
	pitch = textutil.CleanResponse(pitch)
	if pitch == "" {
		return "", nil, fmt.Errorf("empty pitch")
	}

	stepsText, err := g.gen.Generate(ctx, followupPrompt(pitch, urgencyOr(p, requirements.UrgencyMedium)))
	if err != nil {
		// Pitch succeeded; fill in default steps rather than discarding it.
		return pitch, defaultNextSteps, nil
	}
	return pitch, ParseNextSteps(stepsText), nil
}

// managementKeywords pick the few-shot template: any management-flavored
// role switches from the technical example to the management one.
var managementKeywords = []string{"manager", "director", "lead", "head", "vp", "chief"}

func selectTemplate(p requirements.Profile) string {
	for _, role := range p.Roles {
		low := strings.ToLower(role)
		for _, kw := range managementKeywords {
			if strings.Contains(low, kw) {
				return managementTemplate
			}
		}
	}
	return technicalTemplate
}

func pitchPrompt(p requirements.Profile, pkg catalog.ServicePackage) string {
	rolesDisplay := "Various positions"
	if len(p.Roles) > 0 {
		rolesDisplay = textutil.FormatList(p.Roles, 4)
	}

	var counts []string
	for role, n := range p.RoleCounts {
		counts = append(counts, fmt.Sprintf("%d %s(s)", n, role))
	}

	features := "Comprehensive recruitment services"
	if len(pkg.Features) > 0 {
		top := pkg.Features
		if len(top) > 4 {
			top = top[:4]
		}
		features = strings.Join(top, ", ")
	}

	return fmt.Sprintf(`You are a senior recruitment consultant creating a professional proposal. Use these examples to understand the style and structure:

%s

Now create a similar proposal for this new inquiry:

**Client Inquiry Details:**
- Company: %s
- Industry: %s
- Location: %s
- Roles: %s
- Role Counts: %s
- Experience Level: %s
- Urgency: %s
- Budget: %s
- Requirements: %s

**Recommended Service Package:**
- Package Name: %s
- Description: %s
- Key Features: %s
- Timeline: %s
- Success Rate: %s
- Investment: %s

**Guidelines:**
1. Write a compelling 3-paragraph proposal
2. Paragraph 1: Acknowledge their specific needs and timeline urgency
3. Paragraph 2: Explain why this %s package is perfect (mention 2-3 key benefits)
4. Paragraph 3: Include success rate/timeline and clear next step
5. Customize the timeline based on urgency: %s
6. Use appropriate fee structure: %s
7. Tone: Professional, confident, results-focused
8. Length: 2-3 sentences per paragraph maximum
9. Use specific details from their requirements

Generate the proposal:`,
		selectTemplate(p),
		orText(p.CompanyName, "Not specified"),
		orText(p.Industry, "Not specified"),
		orText(p.Location, "Not specified"),
		rolesDisplay,
		strings.Join(counts, ", "),
		orText(p.ExperienceLevel, "Not specified"),
		string(urgencyOr(p, requirements.UrgencyMedium)),
		orText(p.BudgetRange, "Not specified"),
		orText(p.AdditionalRequirements, "Standard requirements"),
		pkg.Name, pkg.Description, features, pkg.Timeline, pkg.SuccessRate, pkg.PriceRange,
		pkg.Name,
		ResponseTimeline(urgencyOr(p, requirements.UrgencyMedium)),
		FeeStructure(p),
	)
}

func followupPrompt(pitch string, urgency requirements.Urgency) string {
	return fmt.Sprintf(`Provide 4 bullet next steps (no numbering) after the following proposal.
Urgency level: %s
Proposal:
---
%s
---
Bullets ONLY.`, urgency, pitch)
}

var bulletPrefixRe = regexp.MustCompile(`^[-•*\d.]+\s*`)

// ParseNextSteps turns a bulleted model response into a clean list, keeping
// at most five steps. Unparseable responses yield the default steps.
func ParseNextSteps(text string) []string {
	var steps []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		cleaned := bulletPrefixRe.ReplaceAllString(strings.TrimSpace(line), "")
		if len(cleaned) > 5 {
			steps = append(steps, cleaned)
		}
	}
	if len(steps) == 0 {
		return append([]string(nil), parseFailureSteps...)
	}
	if len(steps) > 5 {
		steps = steps[:5]
	}
	return steps
}

var parseFailureSteps = []string{
	"Schedule a 30-minute discovery call to discuss your specific needs",
	"Send detailed information about our recruitment process",
	"Provide case studies from similar successful placements",
	"Prepare a customized proposal with timeline and pricing",
}

var defaultNextSteps = []string{
	"Schedule a discovery call to discuss your specific requirements",
	"Send detailed package information and case studies",
	"Provide client references from similar industries",
	"Prepare a customized proposal with pricing",
}

func summary(p requirements.Profile, pkg catalog.ServicePackage) string {
	roleText := "multiple roles"
	if n := len(p.Roles); n == 1 {
		roleText = "1 role"
	} else if n > 1 {
		roleText = fmt.Sprintf("%d roles", n)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Recommended %s to help hire %s", pkg.Name, roleText)
	if p.CompanyName != "" {
		fmt.Fprintf(&b, " for %s", p.CompanyName)
	}
	if p.Industry != "" {
		fmt.Fprintf(&b, " in the %s industry", p.Industry)
	}
	if p.Location != "" {
		fmt.Fprintf(&b, " in %s", p.Location)
	}
	b.WriteString(".")

	if p.Urgency == requirements.UrgencyUrgent || p.Urgency == requirements.UrgencyHigh {
		fmt.Fprintf(&b, " Fast-track solution to meet %s timeline requirements.", p.Urgency)
	}
	return b.String()
}

var weeksRangeRe = regexp.MustCompile(`(\d+)-(\d+)\s*weeks`)

func estimateTimeline(p requirements.Profile, pkg catalog.ServicePackage) string {
	switch p.Urgency {
	case requirements.UrgencyUrgent:
		return fmt.Sprintf("Expedited: %s (prioritized processing)", pkg.Timeline)
	case requirements.UrgencyHigh:
		return fmt.Sprintf("Fast-track: %s", pkg.Timeline)
	}

	if len(p.Roles) > 3 {
		if m := weeksRangeRe.FindStringSubmatch(pkg.Timeline); m != nil {
			var lo, hi int
			fmt.Sscanf(m[1], "%d", &lo)
			fmt.Sscanf(m[2], "%d", &hi)
			return fmt.Sprintf("%d-%d weeks (multiple roles)", lo+1, hi+2)
		}
	}
	return pkg.Timeline
}

func estimatePrice(p requirements.Profile, pkg catalog.ServicePackage) string {
	if len(p.RoleCounts) > 0 {
		total := 0
		for _, n := range p.RoleCounts {
			total += n
		}
		if total > 1 {
			return fmt.Sprintf("%s per role (estimated total for %d roles)", pkg.PriceRange, total)
		}
	} else if len(p.Roles) > 1 {
		return fmt.Sprintf("%s per role (estimated total for %d roles)", pkg.PriceRange, len(p.Roles))
	}
	return pkg.PriceRange
}

// FeeStructure returns the fee line quoted in proposals, keyed off the
// required seniority.
func FeeStructure(p requirements.Profile) string {
	level := strings.ToLower(p.ExperienceLevel)
	switch {
	case strings.Contains(level, "junior"):
		return "12% of first year salary (junior rate)"
	case strings.Contains(level, "senior"):
		return "20% of first year salary (senior rate)"
	case strings.Contains(level, "lead"):
		return "22% of first year salary (leadership rate)"
	}
	return "18% of first year salary (standard rate)"
}

func fallbackPitch(p requirements.Profile, pkg catalog.ServicePackage) string {
	rolesText := "the positions"
	if len(p.Roles) > 0 {
		rolesText = textutil.FormatList(p.Roles, 4)
	}
	companyText := ""
	if p.CompanyName != "" {
		companyText = " at " + p.CompanyName
	}
	features := pkg.Features
	if len(features) > 3 {
		features = features[:3]
	}
	successRate := pkg.SuccessRate
	if successRate == "" {
		successRate = "high"
	}

	return fmt.Sprintf(`Thank you for your interest in our recruitment services. Based on your requirements for %s%s, I recommend our %s.

This package is specifically designed for companies like yours and includes %s. With our %s success rate and typical timeline of %s, we're confident we can help you find the right candidates.

I'd love to schedule a call to discuss how we can specifically help with your hiring needs. When would be a good time to connect?`,
		rolesText, companyText, pkg.Name,
		strings.Join(features, ", "), successRate, pkg.Timeline,
	)
}

func urgencyOr(p requirements.Profile, def requirements.Urgency) requirements.Urgency {
	if p.Urgency == "" {
		return def
	}
	return p.Urgency
}

func orText(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
