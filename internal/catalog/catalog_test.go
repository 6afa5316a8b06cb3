package catalog

import "testing"

func TestPackagesReturnsCopy(t *testing.T) {
	a := Packages()
	if len(a) != 5 {
		t.Fatalf("len(Packages()) = %d, want 5", len(a))
	}
	a[0].Name = "mutated"
	b := Packages()
	if b[0].Name == "mutated" {
		t.Error("Packages() shares backing storage with callers")
	}
}

func TestByID(t *testing.T) {
	p, ok := ByID("tech_startup_pack")
	if !ok {
		t.Fatal("tech_startup_pack not found")
	}
	if p.Name != "Tech Startup Hiring Pack" {
		t.Errorf("name = %q, want %q", p.Name, "Tech Startup Hiring Pack")
	}
	if p.Timeline != "2-4 weeks" || p.SuccessRate != "92%" {
		t.Errorf("timeline/success = %q/%q", p.Timeline, p.SuccessRate)
	}

	if _, ok := ByID("nope"); ok {
		t.Error("expected lookup miss for unknown id")
	}
}
