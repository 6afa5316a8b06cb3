// Package extract pulls structured hiring requirements out of free-form
// client messages. The hybrid extractor tries the LLM first and falls back
// to the regex rules, so a dead model never blocks a conversation.
package extract

import (
	"context"
	"strings"

	"github.com/kalambet/scout/internal/requirements"
)

// Method records which strategy produced a result.
type Method string

const (
	MethodLLM   Method = "llm"
	MethodRules Method = "rule_based"
	MethodEmpty Method = "empty"
)

// Result is one extraction outcome with per-field confidence.
type Result struct {
	Profile    requirements.Profile
	Confidence map[string]float64
	Method     Method
}

// Extractor turns a user message into a partial requirements profile.
type Extractor interface {
	Extract(ctx context.Context, text string) (Result, error)
}

// Empty returns the zero extraction with default-medium urgency.
func Empty() Result {
	return Result{
		Profile:    requirements.Profile{Urgency: requirements.UrgencyMedium},
		Confidence: map[string]float64{},
		Method:     MethodEmpty,
	}
}

// usable reports whether an extraction carries at least one meaningful
// signal: a role, a location, or an industry.
func usable(p requirements.Profile) bool {
	return len(p.Roles) > 0 || p.Location != "" || p.Industry != ""
}

// score assigns confidence per populated field: 0.9 when the value is
// literally present in the input, 0.8 for populated collections, otherwise
// a method-dependent base.
func score(p requirements.Profile, input string, method Method) map[string]float64 {
	base := 0.4
	if method == MethodLLM {
		base = 0.6
	}
	low := strings.ToLower(input)

	conf := make(map[string]float64)
	str := func(field, value string) {
		if value == "" {
			conf[field] = 0.0
			return
		}
		if strings.Contains(low, strings.ToLower(value)) {
			conf[field] = 0.9
			return
		}
		conf[field] = base
	}

	str("company_name", p.CompanyName)
	str("industry", p.Industry)
	str("location", p.Location)
	str("urgency", string(p.Urgency))
	str("budget_range", p.BudgetRange)
	str("experience_level", p.ExperienceLevel)
	str("additional_requirements", p.AdditionalRequirements)

	if len(p.Roles) > 0 {
		conf["roles"] = 0.8
	} else {
		conf["roles"] = 0.0
	}
	if len(p.RoleCounts) > 0 {
		conf["role_counts"] = 0.8
	} else {
		conf["role_counts"] = 0.0
	}
	return conf
}
