package agents

import (
	"context"
	"strings"
	"testing"

	"github.com/kalambet/scout/internal/catalog"
	"github.com/kalambet/scout/internal/proposal"
	"github.com/kalambet/scout/internal/router"
	"github.com/kalambet/scout/internal/session"
)

func threePacks(t *testing.T) []catalog.ServicePackage {
	t.Helper()
	var pkgs []catalog.ServicePackage
	for _, id := range []string{"tech_startup_pack", "enterprise_pack", "bulk_hiring_pack"} {
		pkg, ok := catalog.ByID(id)
		if !ok {
			t.Fatalf("%s missing from catalog", id)
		}
		pkgs = append(pkgs, pkg)
	}
	return pkgs
}

func TestSelectPackage(t *testing.T) {
	pkgs := threePacks(t)
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare number", "2", "enterprise_pack"},
		{"option phrase", "let's go with option 3", "bulk_hiring_pack"},
		{"ordinal", "the first one sounds good", "tech_startup_pack"},
		{"spelled option", "option two please", "enterprise_pack"},
		{"choice phrase", "i'll take 2", "enterprise_pack"},
		{"package name", "the volume hiring package", "bulk_hiring_pack"},
		{"family keyword startup", "we're a small company", "tech_startup_pack"},
		{"family keyword enterprise", "we're a large company", "enterprise_pack"},
		{"family keyword bulk", "we have many roles to fill", "bulk_hiring_pack"},
		{"no signal defaults to top", "sounds interesting", "tech_startup_pack"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectPackage(tt.input, pkgs, nil)
			if got.ID != tt.want {
				t.Errorf("SelectPackage(%q) = %s, want %s", tt.input, got.ID, tt.want)
			}
		})
	}
}

func TestSelectPackageFromContext(t *testing.T) {
	pkgs := threePacks(t)
	ctx := map[string]string{"selected_package_id": "enterprise_pack"}
	got := SelectPackage("tell me more", pkgs, ctx)
	if got.ID != "enterprise_pack" {
		t.Errorf("got %s, want context-selected enterprise_pack", got.ID)
	}
}

func TestSelectPackageIndexOutOfRange(t *testing.T) {
	pkgs := threePacks(t)[:1]
	got := SelectPackage("option 3", pkgs, nil)
	if got.ID != "tech_startup_pack" {
		t.Errorf("out-of-range selection = %s, want default first package", got.ID)
	}
}

func TestWriterRedirectsWithoutRecommendations(t *testing.T) {
	w := &Writer{proposals: proposal.NewGenerator(nil)}
	sess := newSession()
	sess.Profile = fintechProfile()

	res := w.Handle(context.Background(), sess, "send me a proposal")

	if res.Redirect != router.Recommender {
		t.Errorf("redirect = %q, want recommender", res.Redirect)
	}
	if sess.Stage != session.StageRecommendation {
		t.Errorf("stage = %s, want recommendation", sess.Stage)
	}
}

func TestWriterAsksForRequirementsFirst(t *testing.T) {
	w := &Writer{proposals: proposal.NewGenerator(nil)}
	sess := newSession()

	res := w.Handle(context.Background(), sess, "proposal please")

	if sess.Stage != session.StageInquiry {
		t.Errorf("stage = %s, want inquiry", sess.Stage)
	}
	if !strings.Contains(res.Response, "Could you tell me what positions you're looking to fill?") {
		t.Errorf("response = %q", res.Response)
	}
}

func TestWriterGeneratesProposal(t *testing.T) {
	w := &Writer{proposals: proposal.NewGenerator(nil)}
	sess := newSession()
	sess.Profile = fintechProfile()
	sess.Recommendations = threePacks(t)

	res := w.Handle(context.Background(), sess, "option 1")

	if sess.Stage != session.StageProposal {
		t.Errorf("stage = %s, want proposal", sess.Stage)
	}
	if sess.Context["selected_package_id"] != "tech_startup_pack" {
		t.Errorf("selected package context = %v", sess.Context)
	}
	if res.Proposal == nil || res.Proposal.Package.ID != "tech_startup_pack" {
		t.Fatalf("proposal = %+v", res.Proposal)
	}
	if !strings.Contains(res.Response, "**Package Summary:**") {
		t.Errorf("response missing package summary: %q", res.Response)
	}
	if !strings.Contains(res.Response, "**Suggested Next Steps:**") {
		t.Errorf("response missing next steps: %q", res.Response)
	}
	if !strings.Contains(res.Response, "1. ") {
		t.Errorf("next steps not numbered: %q", res.Response)
	}
}
