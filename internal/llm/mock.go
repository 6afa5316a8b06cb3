package llm

import (
	"context"
	"strings"
)

// Mock is a deterministic keyword-driven generator for offline runs and
// tests. It recognizes the prompt shapes the agents produce and answers
// with fixed text.
type Mock struct{}

// NewMock returns the offline generator.
func NewMock() *Mock { return &Mock{} }

// Name implements Generator.
func (m *Mock) Name() string { return "mock" }

// Generate implements Generator.
func (m *Mock) Generate(_ context.Context, prompt string) (string, error) {
	low := strings.ToLower(prompt)

	// Entity extraction prompts get JSON back.
	if strings.Contains(low, "extract") && strings.Contains(low, "json") && strings.Contains(low, "urgency") {
		switch {
		case strings.Contains(low, "urgent") || strings.Contains(low, "asap"):
			return `{"company_name": null, "industry": "technology", "location": null, "roles": ["developer"], "urgency": "urgent", "budget_range": null, "experience_level": null, "additional_requirements": null}`, nil
		case strings.Contains(low, "developer") || strings.Contains(low, "engineer"):
			return `{"company_name": null, "industry": "technology", "location": null, "roles": ["backend engineer"], "urgency": "medium", "budget_range": null, "experience_level": null, "additional_requirements": null}`, nil
		default:
			return `{"company_name": null, "industry": null, "location": null, "roles": [], "urgency": "medium", "budget_range": null, "experience_level": null, "additional_requirements": null}`, nil
		}
	}

	for _, k := range []string{"greeting", "hello", "hi", "hey"} {
		if strings.Contains(low, k) {
			return "Hello! I'm your recruiting assistant. What positions are you looking to fill?", nil
		}
	}

	if strings.Contains(low, "developer") || strings.Contains(low, "engineer") {
		return "Perfect! I understand you need technical talent. Could you share the specific tech stack, number of positions, and your timeline?", nil
	}

	if strings.Contains(low, "proposal") || strings.Contains(low, "quote") {
		return "I'd be happy to prepare a tailored proposal for you! Based on your needs, I recommend our Tech Startup Package with 2-4 week timeline and 92% success rate. Shall I prepare the detailed proposal?", nil
	}

	if strings.Contains(low, "yes") || strings.Contains(low, "sure") {
		return "Excellent! I'll prepare a comprehensive hiring package with timeline, pricing, and next steps. This will be perfect for your needs.", nil
	}

	return "I'd love to help you with your recruiting needs! Could you tell me about the roles you need to fill, including quantities and timeline?", nil
}
