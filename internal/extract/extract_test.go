package extract

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/kalambet/scout/internal/requirements"
)

func TestRulesRolesWithCounts(t *testing.T) {
	r := NewRules()
	res, err := r.Extract(context.Background(), "Hi, we need to hire 2 backend engineers urgently")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if want := []string{"backend engineer"}; !reflect.DeepEqual(res.Profile.Roles, want) {
		t.Errorf("roles = %v, want %v", res.Profile.Roles, want)
	}
	if got := res.Profile.RoleCounts["backend engineer"]; got != 2 {
		t.Errorf("count = %d, want 2", got)
	}
	if res.Profile.Urgency != requirements.UrgencyUrgent {
		t.Errorf("urgency = %q, want urgent", res.Profile.Urgency)
	}
	if res.Method != MethodRules {
		t.Errorf("method = %q, want rule_based", res.Method)
	}
}

func TestRulesMultipleRoles(t *testing.T) {
	r := NewRules()
	res, _ := r.Extract(context.Background(), "looking for 3 frontend developers and a ux designer in bangalore, senior level, react and aws required")

	p := res.Profile
	if want := []string{"frontend engineer", "ux designer"}; !reflect.DeepEqual(p.Roles, want) {
		t.Errorf("roles = %v, want %v", p.Roles, want)
	}
	if p.RoleCounts["frontend engineer"] != 3 || p.RoleCounts["ux designer"] != 1 {
		t.Errorf("counts = %v", p.RoleCounts)
	}
	if p.Location != "Bangalore" {
		t.Errorf("location = %q, want Bangalore", p.Location)
	}
	if p.ExperienceLevel != "senior" {
		t.Errorf("experience = %q, want senior", p.ExperienceLevel)
	}
	if p.AdditionalRequirements != "react, aws" {
		t.Errorf("additional requirements = %q, want %q", p.AdditionalRequirements, "react, aws")
	}
}

func TestRulesDefaultsUrgencyMedium(t *testing.T) {
	r := NewRules()
	res, _ := r.Extract(context.Background(), "we want a data scientist")
	if res.Profile.Urgency != requirements.UrgencyMedium {
		t.Errorf("urgency = %q, want medium default", res.Profile.Urgency)
	}
}

func TestRulesIndustryAndBudget(t *testing.T) {
	r := NewRules()
	res, _ := r.Extract(context.Background(), "fintech startup in mumbai, budget $5,000 - $15,000")
	p := res.Profile
	if p.Industry != "fintech" {
		t.Errorf("industry = %q, want fintech", p.Industry)
	}
	if p.Location != "Mumbai" {
		t.Errorf("location = %q, want Mumbai", p.Location)
	}
	if p.BudgetRange == "" {
		t.Error("expected a budget range")
	}
}

func TestRulesConfidence(t *testing.T) {
	r := NewRules()
	res, _ := r.Extract(context.Background(), "need senior engineers in boston")
	if got := res.Confidence["location"]; got != 0.9 {
		t.Errorf("location confidence = %v, want 0.9 (literal value in input)", got)
	}
	if got := res.Confidence["company_name"]; got != 0.0 {
		t.Errorf("company confidence = %v, want 0.0", got)
	}
}

// stubExtractor lets hybrid tests script each strategy.
type stubExtractor struct {
	res   Result
	err   error
	calls int
}

func (s *stubExtractor) Extract(context.Context, string) (Result, error) {
	s.calls++
	return s.res, s.err
}

func TestHybridPrefersLLM(t *testing.T) {
	llmStub := &stubExtractor{res: Result{
		Profile: requirements.Profile{Roles: []string{"backend engineer"}},
		Method:  MethodLLM,
	}}
	rules := &stubExtractor{}

	h := NewHybrid(llmStub, rules)
	res, err := h.Extract(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Method != MethodLLM {
		t.Errorf("method = %q, want llm", res.Method)
	}
	if rules.calls != 0 {
		t.Errorf("rules called %d times, want 0", rules.calls)
	}
}

func TestHybridFallsBackOnError(t *testing.T) {
	llmStub := &stubExtractor{err: errors.New("model down")}
	rules := &stubExtractor{res: Result{
		Profile: requirements.Profile{Location: "Boston"},
		Method:  MethodRules,
	}}

	h := NewHybrid(llmStub, rules)
	res, _ := h.Extract(context.Background(), "anything")
	if res.Method != MethodRules {
		t.Errorf("method = %q, want rule_based", res.Method)
	}
}

func TestHybridFallsBackOnUnusableResult(t *testing.T) {
	llmStub := &stubExtractor{res: Result{Method: MethodLLM}} // nothing extracted
	rules := &stubExtractor{res: Result{
		Profile: requirements.Profile{Industry: "fintech"},
		Method:  MethodRules,
	}}

	h := NewHybrid(llmStub, rules)
	res, _ := h.Extract(context.Background(), "anything")
	if res.Method != MethodRules {
		t.Errorf("method = %q, want rule_based", res.Method)
	}
}

func TestHybridEmptyFallback(t *testing.T) {
	llmStub := &stubExtractor{err: errors.New("down")}
	rules := &stubExtractor{err: errors.New("also down")}

	h := NewHybrid(llmStub, rules)
	res, err := h.Extract(context.Background(), "anything")
	if err != nil {
		t.Fatalf("hybrid must not return errors, got %v", err)
	}
	if res.Method != MethodEmpty {
		t.Errorf("method = %q, want empty", res.Method)
	}
	if res.Profile.Urgency != requirements.UrgencyMedium {
		t.Errorf("urgency = %q, want medium default", res.Profile.Urgency)
	}
}

// scriptedGen returns a fixed response for the LLM extractor tests.
type scriptedGen struct {
	response string
	err      error
}

func (g *scriptedGen) Name() string { return "scripted" }
func (g *scriptedGen) Generate(context.Context, string) (string, error) {
	return g.response, g.err
}

func TestLLMExtractorParsesFencedJSON(t *testing.T) {
	gen := &scriptedGen{response: "```json\n" +
		`{"company_name": null, "industry": "Financial Technology", "location": "bombay", "roles": ["Backend Developer"], "role_counts": {"Backend Developer": 2}, "urgency": "ASAP", "budget_range": null, "experience_level": "senior", "additional_requirements": null}` +
		"\n```"}

	l := NewLLM(gen)
	res, err := l.Extract(context.Background(), "we need 2 backend developers in bombay asap")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	p := res.Profile
	if p.Industry != "fintech" {
		t.Errorf("industry = %q, want fintech", p.Industry)
	}
	if p.Location != "Mumbai" {
		t.Errorf("location = %q, want Mumbai", p.Location)
	}
	if len(p.Roles) != 1 || p.Roles[0] != "backend engineer" {
		t.Errorf("roles = %v, want [backend engineer]", p.Roles)
	}
	if p.Urgency != requirements.UrgencyUrgent {
		t.Errorf("urgency = %q, want urgent", p.Urgency)
	}
}

func TestLLMExtractorRejectsNonJSON(t *testing.T) {
	l := NewLLM(&scriptedGen{response: "I could not extract anything, sorry."})
	if _, err := l.Extract(context.Background(), "whatever"); err == nil {
		t.Fatal("expected an error for a response without JSON")
	}
}
