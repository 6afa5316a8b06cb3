// Package requirements models what a client needs to hire and the merge,
// completeness, and clarification logic around it.
package requirements

import "strings"

// Urgency classifies how fast the client needs the hires.
type Urgency string

const (
	UrgencyUrgent Urgency = "urgent"
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

// Profile accumulates the client's hiring requirements across turns.
// Empty strings and nil collections mean "not provided yet".
type Profile struct {
	CompanyName            string            `json:"company_name,omitempty"`
	Industry               string            `json:"industry,omitempty"`
	Location               string            `json:"location,omitempty"`
	Roles                  []string          `json:"roles,omitempty"`
	RoleCounts             map[string]int    `json:"role_counts,omitempty"`
	Urgency                Urgency           `json:"urgency,omitempty"`
	BudgetRange            string            `json:"budget_range,omitempty"`
	ExperienceLevel        string            `json:"experience_level,omitempty"`
	AdditionalRequirements string            `json:"additional_requirements,omitempty"`
	ContactInfo            map[string]string `json:"contact_info,omitempty"`
}

// Empty reports whether nothing has been captured yet.
func (p Profile) Empty() bool {
	return p.CompanyName == "" && p.Industry == "" && p.Location == "" &&
		len(p.Roles) == 0 && len(p.RoleCounts) == 0 && p.Urgency == "" &&
		p.BudgetRange == "" && p.ExperienceLevel == "" &&
		p.AdditionalRequirements == "" && len(p.ContactInfo) == 0
}

// Merge folds newly extracted fields into the existing profile. Roles are a
// set union preserving first-seen order, role counts and contact info merge
// key by key with new values overwriting, and every other field takes the
// new value only when one was provided. Counts for roles no longer listed
// are kept; a later mention may restore the role.
func Merge(existing, extracted Profile) Profile {
	merged := existing

	if len(extracted.Roles) > 0 {
		seen := make(map[string]struct{}, len(merged.Roles))
		for _, r := range merged.Roles {
			seen[r] = struct{}{}
		}
		for _, r := range extracted.Roles {
			if _, ok := seen[r]; !ok {
				merged.Roles = append(merged.Roles, r)
				seen[r] = struct{}{}
			}
		}
	}

	if len(extracted.RoleCounts) > 0 {
		if merged.RoleCounts == nil {
			merged.RoleCounts = make(map[string]int, len(extracted.RoleCounts))
		}
		for role, n := range extracted.RoleCounts {
			merged.RoleCounts[role] = n
		}
	}

	if len(extracted.ContactInfo) > 0 {
		if merged.ContactInfo == nil {
			merged.ContactInfo = make(map[string]string, len(extracted.ContactInfo))
		}
		for k, v := range extracted.ContactInfo {
			merged.ContactInfo[k] = v
		}
	}

	if extracted.CompanyName != "" {
		merged.CompanyName = extracted.CompanyName
	}
	if extracted.Industry != "" {
		merged.Industry = extracted.Industry
	}
	if extracted.Location != "" {
		merged.Location = extracted.Location
	}
	if extracted.Urgency != "" {
		merged.Urgency = extracted.Urgency
	}
	if extracted.BudgetRange != "" {
		merged.BudgetRange = extracted.BudgetRange
	}
	if extracted.ExperienceLevel != "" {
		merged.ExperienceLevel = extracted.ExperienceLevel
	}
	if extracted.AdditionalRequirements != "" {
		merged.AdditionalRequirements = extracted.AdditionalRequirements
	}

	return merged
}

// IsComplete reports whether enough is known to recommend packages: at least
// one role, a location, an experience level, and a specific industry.
// "it" and "technology" alone are too generic to count.
func IsComplete(p Profile) bool {
	if len(p.Roles) == 0 {
		return false
	}
	if p.Location == "" {
		return false
	}
	if p.ExperienceLevel == "" {
		return false
	}
	if tooGenericIndustry(p.Industry) {
		return false
	}
	return true
}

func tooGenericIndustry(industry string) bool {
	switch strings.ToLower(industry) {
	case "", "it", "technology":
		return true
	}
	return false
}
