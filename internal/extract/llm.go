package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/kalambet/scout/internal/llm"
	"github.com/kalambet/scout/internal/requirements"
	"github.com/kalambet/scout/internal/textutil"
)

const extractionPrompt = `You are an expert at extracting hiring information from client messages.

Extract the following entities from this hiring request:

COMPANY_NAME: The client's company name if mentioned
INDUSTRY: The business sector (fintech, healthcare, e-commerce, SaaS, AI/ML, etc.)
LOCATION: City, state, country, or remote work preference
ROLES: Specific job titles and positions needed
ROLE_COUNTS: Number of hires needed per role
URGENCY: Hiring timeline urgency (urgent, high, medium, low)
BUDGET_RANGE: Salary range or hiring budget if mentioned
EXPERIENCE_LEVEL: Required seniority (junior, mid-level, senior, lead)
ADDITIONAL_REQUIREMENTS: Required technical skills or experience

User message: "%s"

Respond ONLY with a JSON object containing the extracted entities:
{
    "company_name": "extracted company or null",
    "industry": "extracted industry or null",
    "location": "extracted location or null",
    "roles": ["role1", "role2"],
    "role_counts": {"role1": 2},
    "urgency": "extracted urgency level",
    "budget_range": "extracted budget or null",
    "experience_level": "extracted level or null",
    "additional_requirements": "extracted skills or null"
}`

// LLM extracts entities by prompting a generator for JSON.
type LLM struct {
	gen llm.Generator
}

// NewLLM returns an extractor backed by the given generator.
func NewLLM(gen llm.Generator) *LLM {
	return &LLM{gen: gen}
}

// rawEntities mirrors the JSON the model is asked for. Null-prone string
// fields decode through *string so a literal null doesn't fail parsing.
type rawEntities struct {
	CompanyName            *string        `json:"company_name"`
	Industry               *string        `json:"industry"`
	Location               *string        `json:"location"`
	Roles                  []string       `json:"roles"`
	RoleCounts             map[string]int `json:"role_counts"`
	Urgency                *string        `json:"urgency"`
	BudgetRange            *string        `json:"budget_range"`
	ExperienceLevel        *string        `json:"experience_level"`
	AdditionalRequirements *string        `json:"additional_requirements"`
}

var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// Extract implements Extractor. The error is non-nil when the model call
// fails or the response carries no parseable JSON object.
func (l *LLM) Extract(ctx context.Context, text string) (Result, error) {
	resp, err := l.gen.Generate(ctx, fmt.Sprintf(extractionPrompt, text))
	if err != nil {
		return Result{}, fmt.Errorf("extraction call: %w", err)
	}

	cleaned := textutil.CleanResponse(resp)
	jsonStr := jsonObjectRe.FindString(cleaned)
	if jsonStr == "" {
		return Result{}, fmt.Errorf("no JSON object in extraction response")
	}

	var raw rawEntities
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return Result{}, fmt.Errorf("parsing extraction response: %w", err)
	}

	p := normalize(raw)
	return Result{
		Profile:    p,
		Confidence: score(p, text, MethodLLM),
		Method:     MethodLLM,
	}, nil
}

// normalize maps the model's loose phrasing onto the canonical vocabulary
// used by the matcher.
func normalize(raw rawEntities) requirements.Profile {
	p := requirements.Profile{
		CompanyName:            deref(raw.CompanyName),
		BudgetRange:            deref(raw.BudgetRange),
		ExperienceLevel:        deref(raw.ExperienceLevel),
		AdditionalRequirements: deref(raw.AdditionalRequirements),
		RoleCounts:             raw.RoleCounts,
	}

	if industry := strings.ToLower(deref(raw.Industry)); industry != "" {
		switch {
		case strings.Contains(industry, "fintech") || strings.Contains(industry, "financial tech"):
			p.Industry = "fintech"
		case strings.Contains(industry, "finance") || strings.Contains(industry, "banking"):
			p.Industry = "finance"
		case strings.Contains(industry, "tech") || strings.Contains(industry, "software"):
			p.Industry = "technology"
		case strings.Contains(industry, "health") || strings.Contains(industry, "medical"):
			p.Industry = "healthcare"
		case strings.Contains(industry, "ai") || strings.Contains(industry, "machine learning") || strings.Contains(industry, "ml"):
			p.Industry = "ai/ml"
		default:
			p.Industry = industry
		}
	}

	if location := deref(raw.Location); location != "" {
		low := strings.ToLower(location)
		switch {
		case strings.Contains(low, "mumbai") || strings.Contains(low, "bombay"):
			p.Location = "Mumbai"
		case strings.Contains(low, "bangalore") || strings.Contains(low, "bengaluru"):
			p.Location = "Bangalore"
		case strings.Contains(low, "delhi"):
			p.Location = "Delhi"
		case strings.Contains(low, "remote"):
			p.Location = "Remote"
		default:
			p.Location = titleCase(low)
		}
	}

	for _, role := range raw.Roles {
		low := strings.ToLower(role)
		switch {
		case strings.Contains(low, "backend") && (strings.Contains(low, "engineer") || strings.Contains(low, "developer")):
			p.Roles = append(p.Roles, "backend engineer")
		case strings.Contains(low, "frontend") && (strings.Contains(low, "engineer") || strings.Contains(low, "developer")):
			p.Roles = append(p.Roles, "frontend engineer")
		case strings.Contains(low, "fullstack") || strings.Contains(low, "full stack"):
			p.Roles = append(p.Roles, "fullstack developer")
		case strings.Contains(low, "ui") && strings.Contains(low, "ux"):
			p.Roles = append(p.Roles, "ui/ux designer")
		case strings.Contains(low, "ux") && strings.Contains(low, "design"):
			p.Roles = append(p.Roles, "ux designer")
		case strings.Contains(low, "ui") && strings.Contains(low, "design"):
			p.Roles = append(p.Roles, "ui designer")
		default:
			p.Roles = append(p.Roles, low)
		}
	}

	urgency := strings.ToLower(deref(raw.Urgency))
	switch {
	case strings.Contains(urgency, "urgent") || strings.Contains(urgency, "asap") || strings.Contains(urgency, "immediately"):
		p.Urgency = requirements.UrgencyUrgent
	case strings.Contains(urgency, "high"):
		p.Urgency = requirements.UrgencyHigh
	case strings.Contains(urgency, "low"):
		p.Urgency = requirements.UrgencyLow
	default:
		p.Urgency = requirements.UrgencyMedium
	}

	return p
}

func deref(s *string) string {
	if s == nil || strings.EqualFold(*s, "null") {
		return ""
	}
	return *s
}
