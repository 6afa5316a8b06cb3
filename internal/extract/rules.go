package extract

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/kalambet/scout/internal/requirements"
	"github.com/kalambet/scout/internal/textutil"
)

// Rules is the regex-table extractor. It needs no model and is the fallback
// when the LLM is unavailable or returns garbage.
type Rules struct{}

// NewRules returns the rule-based extractor.
func NewRules() *Rules { return &Rules{} }

type rolePattern struct {
	re   *regexp.Regexp
	role string
}

// Role patterns carry an optional leading count. Order matters: more
// specific patterns must come before the generic ones they overlap with.
var rolePatterns = []rolePattern{
	{regexp.MustCompile(`(?i)(\d+)?\s*(backend|back-end|back end)\s*(engineer|developer)s?`), "backend engineer"},
	{regexp.MustCompile(`(?i)(\d+)?\s*(frontend|front-end|front end)\s*(engineer|developer)s?`), "frontend engineer"},
	{regexp.MustCompile(`(?i)(\d+)?\s*(fullstack|full-stack|full stack)\s*(engineer|developer)s?`), "fullstack engineer"},
	{regexp.MustCompile(`(?i)(\d+)?\s*(software|dev)\s*(engineer|developer)s?`), "software engineer"},
	{regexp.MustCompile(`(?i)(\d+)?\s*(web)\s*(developer|engineer)s?`), "web developer"},
	{regexp.MustCompile(`(?i)(\d+)?\s*(mobile|ios|android)\s*(developer|engineer)s?`), "mobile developer"},
	{regexp.MustCompile(`(?i)(\d+)?\s*(devops|dev ops)\s*(engineer)s?`), "devops engineer"},
	{regexp.MustCompile(`(?i)(\d+)?\s*(data)\s*(scientist|engineer)s?`), "data scientist"},
	{regexp.MustCompile(`(?i)(\d+)?\s*(ml|machine learning)\s*(engineer)s?`), "ml engineer"},
	{regexp.MustCompile(`(?i)(\d+)?\s*(qa|quality assurance)\s*(engineer|tester)s?`), "qa engineer"},
	{regexp.MustCompile(`(?i)(\d+)?\s*(ui|ux|ui/ux|user experience|user interface)\s*(designer)s?`), "ux designer"},
	{regexp.MustCompile(`(?i)(\d+)?\s*(product)\s*(designer)s?`), "product designer"},
	{regexp.MustCompile(`(?i)(\d+)?\s*(graphic)\s*(designer)s?`), "graphic designer"},
	{regexp.MustCompile(`(?i)(\d+)?\s*(project)\s*(manager)s?`), "project manager"},
	{regexp.MustCompile(`(?i)(\d+)?\s*(product)\s*(manager)s?`), "product manager"},
	{regexp.MustCompile(`(?i)(\d+)?\s*(engineering)\s*(manager)s?`), "engineering manager"},
	{regexp.MustCompile(`(?i)(\d+)?\s*(tech|technical)\s*(lead)s?`), "tech lead"},
	{regexp.MustCompile(`(?i)(\d+)?\s*(business)\s*(analyst)s?`), "business analyst"},
	{regexp.MustCompile(`(?i)(\d+)?\s*(data)\s*(analyst)s?`), "data analyst"},
	{regexp.MustCompile(`(?i)(\d+)?\s*(marketing)\s*(specialist|manager)s?`), "marketing specialist"},
	{regexp.MustCompile(`(?i)(\d+)?\s*(sales)\s*(representative|manager)s?`), "sales representative"},
}

type valuePattern struct {
	re    *regexp.Regexp
	value string // empty means title-case the matched text
}

var locationPatterns = []valuePattern{
	{regexp.MustCompile(`\b(nyc|new york city|new york|ny)\b`), "New York City"},
	{regexp.MustCompile(`\b(sf|san francisco|san fran)\b`), "San Francisco"},
	{regexp.MustCompile(`\b(la|los angeles)\b`), "Los Angeles"},
	{regexp.MustCompile(`\b(boston|bos)\b`), "Boston"},
	{regexp.MustCompile(`\b(seattle|sea)\b`), "Seattle"},
	{regexp.MustCompile(`\b(chicago|chi)\b`), "Chicago"},
	{regexp.MustCompile(`\b(austin|atx)\b`), "Austin"},
	{regexp.MustCompile(`\b(denver|den)\b`), "Denver"},
	{regexp.MustCompile(`\b(remote|remotely|work from home|wfh)\b`), "Remote"},
	{regexp.MustCompile(`\b(mumbai|bangalore|delhi|hyderabad)\b`), ""},
	{regexp.MustCompile(`\b(london|toronto|vancouver)\b`), ""},
}

var industryPatterns = []valuePattern{
	{regexp.MustCompile(`\b(fintech|financial technology)\b`), "fintech"},
	{regexp.MustCompile(`\b(finance|financial services|banking)\b`), "finance"},
	{regexp.MustCompile(`\b(tech|technology|software)\b`), "technology"},
	{regexp.MustCompile(`\b(healthcare|medical|pharma|pharmaceutical)\b`), "healthcare"},
	{regexp.MustCompile(`\b(ecommerce|e-commerce|retail)\b`), "ecommerce"},
	{regexp.MustCompile(`\b(consulting|consultancy)\b`), "consulting"},
	{regexp.MustCompile(`\b(startup|start-up)\b`), "startup"},
	{regexp.MustCompile(`\b(saas|software as a service)\b`), "saas"},
	{regexp.MustCompile(`\b(ai|artificial intelligence|ml|machine learning)\b`), "ai/ml"},
	{regexp.MustCompile(`\b(blockchain|crypto|cryptocurrency)\b`), "blockchain"},
}

var experiencePatterns = []valuePattern{
	{regexp.MustCompile(`\b(junior|entry|entry-level|entry level|fresher|0-2 years?)\b`), "junior"},
	{regexp.MustCompile(`\b(mid|mid-level|mid level|middle|intermediate|2-5 years?|3-6 years?)\b`), "mid-level"},
	{regexp.MustCompile(`\b(senior|sr|experienced|5\+ years?|6\+ years?|7\+ years?)\b`), "senior"},
	{regexp.MustCompile(`\b(lead|principal|staff|10\+ years?|expert)\b`), "lead"},
}

var urgencyPatterns = []valuePattern{
	{regexp.MustCompile(`\b(urgent|asap|immediately|emergency|critical)\b`), "urgent"},
	{regexp.MustCompile(`\b(quickly|soon|fast|high priority|rush)\b`), "high"},
	{regexp.MustCompile(`\b(flexible|no rush|low priority|when possible|eventually)\b`), "low"},
	{regexp.MustCompile(`\b(standard|normal|regular|medium priority)\b`), "medium"},
}

var budgetPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\$(\d{1,3}(?:,\d{3})*(?:k|000)?)\s*-?\s*\$?(\d{1,3}(?:,\d{3})*(?:k|000)?)`),
	regexp.MustCompile(`(?i)\$(\d{1,3}(?:,\d{3})*(?:k|000)?)\s*(?:per|/)\s*(?:year|annum)`),
	regexp.MustCompile(`(?i)(\d{1,3}(?:,\d{3})*(?:k|000)?)\s*-\s*(\d{1,3}(?:,\d{3})*(?:k|000)?)\s*(?:range|budget)`),
}

var techKeywords = []string{
	"react", "node", "python", "java", "javascript", "typescript",
	"aws", "docker", "kubernetes", "sql", "mongodb", "postgresql",
}

var companyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bat\s+([A-Z][a-zA-Z\s]+?)(?:\s+(?:is|needs?|wants?|looking))`),
	regexp.MustCompile(`^([A-Z][a-zA-Z\s]+?)(?:\s+(?:is|needs?|wants?|looking))`),
	regexp.MustCompile(`(?:company|startup)\s+([A-Z][a-zA-Z\s]+)`),
}

// Extract implements Extractor.
func (r *Rules) Extract(_ context.Context, text string) (Result, error) {
	low := strings.ToLower(text)

	roles, counts := extractRoles(low)

	p := requirements.Profile{
		CompanyName:     extractCompany(text),
		Industry:        firstMatch(low, industryPatterns),
		Location:        firstMatch(low, locationPatterns),
		Roles:           roles,
		RoleCounts:      counts,
		Urgency:         requirements.Urgency(urgencyOf(low)),
		BudgetRange:     extractBudget(low),
		ExperienceLevel: firstMatch(low, experiencePatterns),
		ContactInfo:     textutil.ExtractContactInfo(text),
	}

	var reqs []string
	for _, tech := range techKeywords {
		if strings.Contains(low, tech) {
			reqs = append(reqs, tech)
		}
	}
	p.AdditionalRequirements = strings.Join(reqs, ", ")

	return Result{
		Profile:    p,
		Confidence: score(p, text, MethodRules),
		Method:     MethodRules,
	}, nil
}

func extractRoles(text string) ([]string, map[string]int) {
	var roles []string
	counts := make(map[string]int)

	for _, rp := range rolePatterns {
		for _, m := range rp.re.FindAllStringSubmatch(text, -1) {
			count := 1
			if m[1] != "" {
				if n, err := strconv.Atoi(m[1]); err == nil {
					count = n
				}
			}
			if _, seen := counts[rp.role]; !seen {
				roles = append(roles, rp.role)
				counts[rp.role] = count
			} else {
				counts[rp.role] += count
			}
		}
	}

	if len(roles) == 0 {
		return nil, nil
	}
	return roles, counts
}

func firstMatch(text string, patterns []valuePattern) string {
	for _, vp := range patterns {
		m := vp.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if vp.value != "" {
			return vp.value
		}
		return titleCase(m[1])
	}
	return ""
}

func urgencyOf(text string) string {
	if u := firstMatch(text, urgencyPatterns); u != "" {
		return u
	}
	return "medium"
}

func extractBudget(text string) string {
	for _, re := range budgetPatterns {
		if m := re.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

func extractCompany(text string) string {
	for _, re := range companyPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
