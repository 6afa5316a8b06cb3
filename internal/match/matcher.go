// Package match scores service packages against a requirements profile and
// picks the best candidates to recommend.
package match

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/kalambet/scout/internal/catalog"
	"github.com/kalambet/scout/internal/requirements"
	"github.com/kalambet/scout/internal/textutil"
)

const (
	weightIndustry = 0.3
	weightRole     = 0.4
	weightUrgency  = 0.1
	weightBudget   = 0.2
)

// Matcher ranks catalog packages for a profile. Scores are weighted over the
// profile fields that are actually present and renormalized, so a profile
// with only roles still scores on a 0..1 scale.
type Matcher struct {
	Threshold float64
	TopK      int
}

// New returns a matcher with the default threshold and result cap.
func New() *Matcher {
	return &Matcher{Threshold: 0.1, TopK: 3}
}

// Recommend returns up to TopK packages scoring strictly above Threshold,
// best first. Equal scores keep catalog order.
func (m *Matcher) Recommend(p requirements.Profile, pkgs []catalog.ServicePackage) []catalog.ServicePackage {
	type scored struct {
		pkg   catalog.ServicePackage
		score float64
	}
	ranked := make([]scored, 0, len(pkgs))
	for _, pkg := range pkgs {
		ranked = append(ranked, scored{pkg: pkg, score: m.Score(p, pkg)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	var out []catalog.ServicePackage
	for _, r := range ranked {
		if len(out) >= m.TopK {
			break
		}
		if r.score > m.Threshold {
			out = append(out, r.pkg)
		}
	}
	return out
}

// Score computes the weighted match score in [0, 1]. A profile with no
// scorable fields scores 0.
func (m *Matcher) Score(p requirements.Profile, pkg catalog.ServicePackage) float64 {
	total, weights := 0.0, 0.0

	if p.Industry != "" {
		total += industryScore(p.Industry, pkg.Industries) * weightIndustry
		weights += weightIndustry
	}
	if len(p.Roles) > 0 {
		total += roleScore(p.Roles, pkg.Roles) * weightRole
		weights += weightRole
	}
	if p.Urgency != "" {
		total += urgencyScore(p.Urgency, pkg.Timeline) * weightUrgency
		weights += weightUrgency
	}
	if p.BudgetRange != "" {
		total += budgetScore(p.BudgetRange, pkg.PriceRange) * weightBudget
		weights += weightBudget
	}

	if weights == 0 {
		return 0.0
	}
	return total / weights
}

func industryScore(clientIndustry string, pkgIndustries []string) float64 {
	client := textutil.Normalize(clientIndustry)

	for _, pi := range pkgIndustries {
		if client == textutil.Normalize(pi) {
			return 1.0
		}
	}

	for canonical, synonyms := range catalog.IndustrySynonyms {
		if client != canonical && !contains(synonyms, client) {
			continue
		}
		for _, pi := range pkgIndustries {
			if canonical == textutil.Normalize(pi) {
				return 0.9
			}
		}
	}

	best := 0.0
	for _, pi := range pkgIndustries {
		if s := textutil.Jaccard(clientIndustry, pi); s > best {
			best = s
		}
	}
	return best
}

func roleScore(clientRoles, pkgRoles []string) float64 {
	if len(clientRoles) == 0 || len(pkgRoles) == 0 {
		return 0.0
	}
	total := 0.0
	for _, cr := range clientRoles {
		total += bestRoleMatch(cr, pkgRoles)
	}
	return total / float64(len(clientRoles))
}

func bestRoleMatch(clientRole string, pkgRoles []string) float64 {
	client := textutil.Normalize(clientRole)
	for _, pr := range pkgRoles {
		if client == textutil.Normalize(pr) {
			return 1.0
		}
	}

	for canonical, synonyms := range catalog.RoleSynonyms {
		if client != canonical && !contains(synonyms, client) {
			continue
		}
		for _, pr := range pkgRoles {
			if canonical == textutil.Normalize(pr) {
				return 0.9
			}
		}
	}

	best := 0.0
	for _, pr := range pkgRoles {
		if s := textutil.Jaccard(clientRole, pr); s > best {
			best = s
		}
	}
	return best
}

// preferredWeeks is how soon each urgency level expects candidates.
var preferredWeeks = map[requirements.Urgency]int{
	requirements.UrgencyUrgent: 2,
	requirements.UrgencyHigh:   4,
	requirements.UrgencyMedium: 8,
	requirements.UrgencyLow:    12,
}

func urgencyScore(u requirements.Urgency, timeline string) float64 {
	preferred, ok := preferredWeeks[u]
	if !ok {
		preferred = 8
	}
	weeks := timelineWeeks(timeline)

	switch {
	case weeks <= preferred:
		return 1.0
	case float64(weeks) <= float64(preferred)*1.5:
		return 0.7
	case weeks <= preferred*2:
		return 0.4
	default:
		return 0.1
	}
}

var (
	weeksRe  = regexp.MustCompile(`(\d+)[-–]?(\d+)?\s*weeks?`)
	monthsRe = regexp.MustCompile(`(\d+)[-–]?(\d+)?\s*months?`)
)

// timelineWeeks reads "2-4 weeks" style strings as the midpoint in weeks.
// Months count as four weeks; anything unparseable defaults to 4.
func timelineWeeks(timeline string) int {
	s := strings.ToLower(timeline)
	if m := weeksRe.FindStringSubmatch(s); m != nil {
		return midpoint(m[1], m[2])
	}
	if m := monthsRe.FindStringSubmatch(s); m != nil {
		return midpoint(m[1], m[2]) * 4
	}
	return 4
}

func midpoint(lo, hi string) int {
	a, _ := strconv.Atoi(lo)
	if hi == "" {
		return a
	}
	b, _ := strconv.Atoi(hi)
	return (a + b) / 2
}

func budgetScore(clientBudget, pkgPrice string) float64 {
	clientRange := parseBudget(clientBudget)
	pkgRange := parseBudget(pkgPrice)
	if clientRange == nil || pkgRange == nil {
		return 0.5
	}

	clientMax := clientRange[len(clientRange)-1]
	pkgMin := pkgRange[0]
	pkgMax := pkgRange[len(pkgRange)-1]

	if clientMax >= pkgMin {
		switch {
		case clientMax <= pkgMax:
			return 1.0
		case clientMax <= pkgMax*1.5:
			return 0.8
		default:
			return 0.6
		}
	}
	if pkgMin == 0 {
		return 0.5
	}
	ratio := clientMax / pkgMin
	if ratio < 0.1 {
		return 0.1
	}
	return ratio
}

var (
	budgetRangeRe  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*k?[-–]\s*(\d+(?:\.\d+)?)\s*k?`)
	budgetSingleRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*k?`)
)

// parseBudget extracts numeric bounds from strings like "$5,000 - $15,000"
// or "80k-120k". Returns nil when no number is found.
func parseBudget(s string) []float64 {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(s)
	mult := 1.0
	if strings.Contains(strings.ToLower(s), "k") {
		mult = 1000
	}

	if m := budgetRangeRe.FindStringSubmatch(cleaned); m != nil {
		lo, _ := strconv.ParseFloat(m[1], 64)
		hi, _ := strconv.ParseFloat(m[2], 64)
		return []float64{lo * mult, hi * mult}
	}
	if m := budgetSingleRe.FindStringSubmatch(cleaned); m != nil {
		v, _ := strconv.ParseFloat(m[1], 64)
		return []float64{v * mult}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
