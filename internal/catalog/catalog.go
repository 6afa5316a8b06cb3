// Package catalog holds the built-in service package catalog and the
// synonym dictionaries used for matching client requirements against it.
package catalog

// ServicePackage describes one recruiting service offering.
type ServicePackage struct {
	ID          string   `json:"package_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Industries  []string `json:"target_industries"`
	Roles       []string `json:"typical_roles"`
	PriceRange  string   `json:"price_range"`
	Features    []string `json:"features"`
	Timeline    string   `json:"timeline"`
	SuccessRate string   `json:"success_rate"`
}

// Packages returns the full catalog. Callers receive a fresh slice each time
// so mutation cannot leak between sessions.
func Packages() []ServicePackage {
	out := make([]ServicePackage, len(packages))
	copy(out, packages)
	return out
}

// ByID returns the package with the given id, or false if none matches.
func ByID(id string) (ServicePackage, bool) {
	for _, p := range packages {
		if p.ID == id {
			return p, true
		}
	}
	return ServicePackage{}, false
}

var packages = []ServicePackage{
	{
		ID:          "tech_startup_pack",
		Name:        "Tech Startup Hiring Pack",
		Description: "Rapid hiring solution for fast-growing technology startups",
		Industries:  []string{"technology", "fintech", "edtech", "healthtech", "startup"},
		Roles: []string{
			"software engineer", "backend engineer", "frontend engineer",
			"full stack developer", "data scientist", "product manager",
			"ui/ux designer", "devops engineer",
		},
		PriceRange: "$5,000 - $15,000 per role",
		Features: []string{
			"Technical screening and coding assessments",
			"Cultural fit evaluation",
			"30-day replacement guarantee",
			"Dedicated account manager",
			"Fast turnaround (2-3 weeks average)",
		},
		Timeline:    "2-4 weeks",
		SuccessRate: "92%",
	},
	{
		ID:          "enterprise_pack",
		Name:        "Enterprise Hiring Solution",
		Description: "Comprehensive recruitment for established enterprises",
		Industries:  []string{"finance", "healthcare", "manufacturing", "consulting", "enterprise"},
		Roles: []string{
			"senior manager", "director", "vp", "executive",
			"specialist", "analyst",
		},
		PriceRange: "$10,000 - $25,000 per role",
		Features: []string{
			"Executive search and headhunting",
			"Comprehensive background checks",
			"90-day replacement guarantee",
			"Dedicated search consultant",
			"Market intelligence reports",
		},
		Timeline:    "4-8 weeks",
		SuccessRate: "89%",
	},
	{
		ID:          "bulk_hiring_pack",
		Name:        "Volume Hiring Package",
		Description: "Cost-effective solution for hiring multiple positions",
		Industries:  []string{"retail", "logistics", "customer service", "sales", "operations"},
		Roles: []string{
			"sales representative", "customer service", "operations",
			"coordinator", "associate", "specialist",
		},
		PriceRange: "$2,000 - $8,000 per role",
		Features: []string{
			"Streamlined screening process",
			"Group interviews and assessments",
			"Bulk pricing discounts",
			"Rapid deployment",
			"14-day replacement guarantee",
		},
		Timeline:    "1-3 weeks",
		SuccessRate: "85%",
	},
	{
		ID:          "specialized_roles_pack",
		Name:        "Specialized Roles Package",
		Description: "Expert recruitment for niche and specialized positions",
		Industries:  []string{"healthcare", "legal", "engineering", "research", "academia"},
		Roles: []string{
			"doctor", "lawyer", "engineer", "researcher",
			"scientist", "architect",
		},
		PriceRange: "$8,000 - $20,000 per role",
		Features: []string{
			"Industry-specific expertise",
			"Professional network access",
			"Credential verification",
			"60-day replacement guarantee",
			"Consultation on role requirements",
		},
		Timeline:    "3-6 weeks",
		SuccessRate: "87%",
	},
	{
		ID:          "remote_hiring_pack",
		Name:        "Remote Talent Acquisition",
		Description: "Global remote talent sourcing and onboarding",
		Industries:  []string{"technology", "marketing", "design", "content", "consulting"},
		Roles: []string{
			"remote developer", "digital marketer", "content writer",
			"designer", "virtual assistant", "consultant",
		},
		PriceRange: "$3,000 - $12,000 per role",
		Features: []string{
			"Global talent pool access",
			"Timezone compatibility matching",
			"Remote work assessment",
			"Cultural integration support",
			"45-day replacement guarantee",
		},
		Timeline:    "2-5 weeks",
		SuccessRate: "90%",
	},
}
