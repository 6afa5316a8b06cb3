package catalog

// RoleSynonyms maps a canonical role to the variants clients use for it.
var RoleSynonyms = map[string][]string{
	"software engineer":    {"developer", "programmer", "software developer", "backend engineer", "frontend engineer"},
	"ui/ux designer":       {"designer", "ux designer", "ui designer", "product designer"},
	"data scientist":       {"data analyst", "ml engineer", "ai engineer", "data engineer"},
	"product manager":      {"pm", "product owner", "product lead"},
	"sales representative": {"sales rep", "salesperson", "sales executive", "account executive"},
	"customer service":     {"customer support", "support agent", "help desk"},
	"devops engineer":      {"devops", "infrastructure engineer", "site reliability engineer", "sre"},
}

// IndustrySynonyms maps a canonical industry to its common aliases.
var IndustrySynonyms = map[string][]string{
	"technology": {"tech", "software", "it", "saas"},
	"finance":    {"financial services", "banking", "fintech"},
	"healthcare": {"medical", "health", "pharma", "healthtech"},
	"education":  {"edtech", "learning", "academic"},
	"retail":     {"e-commerce", "ecommerce", "consumer"},
}
