package requirements

import (
	"reflect"
	"strings"
	"testing"
)

func TestMergeRolesUnion(t *testing.T) {
	existing := Profile{Roles: []string{"backend engineer", "designer"}}
	extracted := Profile{Roles: []string{"designer", "qa engineer"}}

	merged := Merge(existing, extracted)
	want := []string{"backend engineer", "designer", "qa engineer"}
	if !reflect.DeepEqual(merged.Roles, want) {
		t.Errorf("roles = %v, want %v", merged.Roles, want)
	}
}

func TestMergeNewValueWins(t *testing.T) {
	existing := Profile{Location: "Boston", Urgency: UrgencyUrgent, Industry: "fintech"}
	extracted := Profile{Location: "Remote"}

	merged := Merge(existing, extracted)
	if merged.Location != "Remote" {
		t.Errorf("location = %q, want Remote", merged.Location)
	}
	if merged.Urgency != UrgencyUrgent {
		t.Errorf("urgency = %q, want urgent (absent field must not reset)", merged.Urgency)
	}
	if merged.Industry != "fintech" {
		t.Errorf("industry = %q, want fintech", merged.Industry)
	}
}

func TestMergeCounts(t *testing.T) {
	existing := Profile{RoleCounts: map[string]int{"backend engineer": 2, "designer": 1}}
	extracted := Profile{RoleCounts: map[string]int{"backend engineer": 3}}

	merged := Merge(existing, extracted)
	if merged.RoleCounts["backend engineer"] != 3 {
		t.Errorf("backend count = %d, want 3", merged.RoleCounts["backend engineer"])
	}
	if merged.RoleCounts["designer"] != 1 {
		t.Errorf("designer count = %d, want 1 (untouched keys survive)", merged.RoleCounts["designer"])
	}
}

func TestMergeIdempotent(t *testing.T) {
	extracted := Profile{
		Roles:      []string{"data scientist"},
		RoleCounts: map[string]int{"data scientist": 2},
		Location:   "London",
		Urgency:    UrgencyHigh,
	}
	once := Merge(Profile{}, extracted)
	twice := Merge(once, extracted)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("merge not idempotent: %+v vs %+v", once, twice)
	}
}

func TestIsComplete(t *testing.T) {
	p := Profile{
		Roles:           []string{"backend engineer"},
		Location:        "Mumbai",
		ExperienceLevel: "senior",
		Industry:        "fintech",
	}
	if !IsComplete(p) {
		t.Error("expected complete profile")
	}

	generic := p
	generic.Industry = "Technology"
	if IsComplete(generic) {
		t.Error("generic industry must not count as complete")
	}

	noLoc := p
	noLoc.Location = ""
	if IsComplete(noLoc) {
		t.Error("missing location must not count as complete")
	}
}

func TestCompletenessMonotonic(t *testing.T) {
	p := Profile{
		Roles:           []string{"backend engineer"},
		Location:        "Mumbai",
		ExperienceLevel: "senior",
		Industry:        "fintech",
	}
	if !IsComplete(p) {
		t.Fatal("precondition: profile complete")
	}
	merged := Merge(p, Profile{Roles: []string{"designer"}, BudgetRange: "$5k-$10k"})
	if !IsComplete(merged) {
		t.Error("merging more information must never lose completeness")
	}
}

func TestClarifyingQuestionsCapAndOrder(t *testing.T) {
	qs := ClarifyingQuestions(Profile{})
	if len(qs) != 2 {
		t.Fatalf("len(questions) = %d, want 2", len(qs))
	}
	if !strings.Contains(qs[0], "roles or positions") {
		t.Errorf("first question = %q, want roles question first", qs[0])
	}
}

func TestClarifyingQuestionsSingleRoleCount(t *testing.T) {
	qs := ClarifyingQuestions(Profile{Roles: []string{"backend engineer"}})
	if qs[0] != "How many backend engineers do you need to hire?" {
		t.Errorf("question = %q", qs[0])
	}
}

func TestBuildResponseComplete(t *testing.T) {
	p := Profile{
		Roles:           []string{"backend engineer"},
		RoleCounts:      map[string]int{"backend engineer": 2},
		Location:        "Mumbai",
		Industry:        "fintech",
		ExperienceLevel: "senior",
		Urgency:         UrgencyUrgent,
	}
	got := BuildResponse(p, nil)
	for _, want := range []string{
		"Perfect! I understand you need backend engineer.",
		"Specifically, 2 backend engineer(s).",
		"Based in Mumbai, for your fintech company, at senior level.",
		"I understand this is urgent.",
		"Excellent! I have all the information needed",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("response missing %q:\n%s", want, got)
		}
	}
}

func TestBuildResponseWithQuestions(t *testing.T) {
	p := Profile{Roles: []string{"designer"}}
	got := BuildResponse(p, []string{"How many designers do you need to hire?"})
	if !strings.Contains(got, "To finalize the best recommendations, I just need: 1. How many designers") {
		t.Errorf("unexpected response: %s", got)
	}
}
