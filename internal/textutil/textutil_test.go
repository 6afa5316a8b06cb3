package textutil

import "testing"

func TestNormalize(t *testing.T) {
	got := Normalize("  Hello,   WORLD\t again ")
	want := "hello, world again"
	if got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"backend engineer", "backend engineer", 1.0},
		{"backend engineer", "frontend engineer", 1.0 / 3.0},
		{"", "anything", 0},
		{"alpha beta", "gamma delta", 0},
	}
	for _, tt := range tests {
		if got := Jaccard(tt.a, tt.b); got != tt.want {
			t.Errorf("Jaccard(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestExtractContactInfo(t *testing.T) {
	info := ExtractContactInfo("reach me at jane@acme.io or +1 415 555 0133")
	if info["email"] != "jane@acme.io" {
		t.Errorf("email = %q, want %q", info["email"], "jane@acme.io")
	}
	if info["phone"] == "" {
		t.Error("expected a phone number, got none")
	}

	if got := ExtractContactInfo("no contact details here"); len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
}

func TestValidPhone(t *testing.T) {
	if !ValidPhone("+1 (415) 555-0133") {
		t.Error("expected valid phone")
	}
	if ValidPhone("12345") {
		t.Error("expected too-short number to be invalid")
	}
}

func TestFormatList(t *testing.T) {
	tests := []struct {
		items []string
		max   int
		want  string
	}{
		{nil, 3, "None specified"},
		{[]string{"go"}, 3, "go"},
		{[]string{"go", "rust"}, 3, "go and rust"},
		{[]string{"go", "rust", "zig"}, 3, "go, rust, and zig"},
		{[]string{"a", "b", "c", "d", "e"}, 3, "a, b, c, and 2 others"},
	}
	for _, tt := range tests {
		if got := FormatList(tt.items, tt.max); got != tt.want {
			t.Errorf("FormatList(%v, %d) = %q, want %q", tt.items, tt.max, got, tt.want)
		}
	}
}

func TestCleanResponse(t *testing.T) {
	in := "```json\n{\"a\":1}\n```\n\n\n\ndone"
	want := "{\"a\":1}\n\ndone"
	got := CleanResponse(in)
	if got != want {
		t.Errorf("CleanResponse() = %q, want %q", got, want)
	}
}
