package match

import (
	"testing"

	"github.com/kalambet/scout/internal/catalog"
	"github.com/kalambet/scout/internal/requirements"
)

func fintechProfile() requirements.Profile {
	return requirements.Profile{
		Industry: "fintech",
		Location: "Mumbai",
		Roles:    []string{"backend engineer"},
		Urgency:  requirements.UrgencyUrgent,
	}
}

func TestScoreEmptyProfile(t *testing.T) {
	m := New()
	for _, pkg := range catalog.Packages() {
		if got := m.Score(requirements.Profile{}, pkg); got != 0.0 {
			t.Errorf("Score(empty, %s) = %v, want 0.0", pkg.ID, got)
		}
	}
}

func TestScoreBounds(t *testing.T) {
	m := New()
	profiles := []requirements.Profile{
		fintechProfile(),
		{Roles: []string{"astronaut"}},
		{Industry: "retail", BudgetRange: "$1,000 - $2,000"},
		{Urgency: requirements.UrgencyLow},
	}
	for _, p := range profiles {
		for _, pkg := range catalog.Packages() {
			got := m.Score(p, pkg)
			if got < 0 || got > 1 {
				t.Errorf("Score(%+v, %s) = %v out of [0,1]", p, pkg.ID, got)
			}
		}
	}
}

func TestScoreFintechStartup(t *testing.T) {
	m := New()
	pkg, _ := catalog.ByID("tech_startup_pack")
	got := m.Score(fintechProfile(), pkg)

	// industry 1.0*0.3 + role 1.0*0.4 + urgency 0.7*0.1 over weight 0.8
	want := (0.3 + 0.4 + 0.07) / 0.8
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("score = %v, want %v", got, want)
	}
}

func TestRecommendEmptyProfile(t *testing.T) {
	m := New()
	if got := m.Recommend(requirements.Profile{}, catalog.Packages()); len(got) != 0 {
		t.Errorf("expected no recommendations for empty profile, got %d", len(got))
	}
}

func TestRecommendTopThree(t *testing.T) {
	m := New()
	got := m.Recommend(fintechProfile(), catalog.Packages())
	if len(got) == 0 || len(got) > 3 {
		t.Fatalf("len(recommendations) = %d, want 1..3", len(got))
	}
	if got[0].ID != "tech_startup_pack" {
		t.Errorf("top recommendation = %s, want tech_startup_pack", got[0].ID)
	}
}

func TestRecommendDeterministic(t *testing.T) {
	m := New()
	first := m.Recommend(fintechProfile(), catalog.Packages())
	for i := 0; i < 10; i++ {
		again := m.Recommend(fintechProfile(), catalog.Packages())
		if len(again) != len(first) {
			t.Fatalf("run %d: len %d != %d", i, len(again), len(first))
		}
		for j := range first {
			if again[j].ID != first[j].ID {
				t.Fatalf("run %d: order differs at %d: %s != %s", i, j, again[j].ID, first[j].ID)
			}
		}
	}
}

func TestIndustrySynonymScore(t *testing.T) {
	pkg, _ := catalog.ByID("enterprise_pack")
	// "banking" is a synonym of finance, which enterprise_pack targets.
	if got := industryScore("banking", pkg.Industries); got != 0.9 {
		t.Errorf("industryScore(banking) = %v, want 0.9", got)
	}
	if got := industryScore("finance", pkg.Industries); got != 1.0 {
		t.Errorf("industryScore(finance) = %v, want 1.0", got)
	}
}

func TestTimelineWeeks(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"2-4 weeks", 3},
		{"1-3 weeks", 2},
		{"6 weeks", 6},
		{"2 months", 8},
		{"whenever", 4},
	}
	for _, tt := range tests {
		if got := timelineWeeks(tt.in); got != tt.want {
			t.Errorf("timelineWeeks(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestBudgetScore(t *testing.T) {
	tests := []struct {
		client, pkg string
		want        float64
	}{
		{"$5,000 - $15,000", "$5,000 - $15,000 per role", 1.0},
		{"$20,000", "$5,000 - $15,000 per role", 0.8},
		{"$1,000", "$5,000 - $15,000 per role", 0.2},
		{"no idea", "$5,000 - $15,000 per role", 0.5},
		{"80k-120k", "$10,000 - $25,000 per role", 0.6},
	}
	for _, tt := range tests {
		got := budgetScore(tt.client, tt.pkg)
		if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("budgetScore(%q, %q) = %v, want %v", tt.client, tt.pkg, got, tt.want)
		}
	}
}
