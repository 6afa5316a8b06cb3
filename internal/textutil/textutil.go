// Package textutil contains the small text helpers shared by extraction,
// matching, and response formatting.
package textutil

import (
	"fmt"
	"regexp"
	"strings"
)

// Normalize lowercases s and collapses runs of whitespace to single spaces.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Jaccard computes word-set Jaccard similarity between two strings after
// normalization. Empty inputs score 0.
func Jaccard(a, b string) float64 {
	setA := wordSet(Normalize(a))
	setB := wordSet(Normalize(b))
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	inter := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	phoneRes = []*regexp.Regexp{
		regexp.MustCompile(`\+?\d{1,3}[-.\s]?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
		regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
		regexp.MustCompile(`\+?\d{10,15}`),
	}

	digitsRe = regexp.MustCompile(`\d`)
)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailRe.FindString(s) == s && s != ""
}

// ValidPhone reports whether s contains 10 to 15 digits.
func ValidPhone(s string) bool {
	n := len(digitsRe.FindAllString(s, -1))
	return n >= 10 && n <= 15
}

// ExtractContactInfo pulls email and phone out of free text. Missing pieces
// are absent from the returned map.
func ExtractContactInfo(text string) map[string]string {
	info := make(map[string]string)
	if email := emailRe.FindString(text); email != "" {
		info["email"] = email
	}
	for _, re := range phoneRes {
		if phone := re.FindString(text); phone != "" && ValidPhone(phone) {
			info["phone"] = strings.TrimSpace(phone)
			break
		}
	}
	return info
}

// FormatList renders items for display: "A", "A and B", "A, B, and C".
// Lists longer than max are truncated with an "...and N others" tail.
// An empty list renders as "None specified".
func FormatList(items []string, max int) string {
	switch {
	case len(items) == 0:
		return "None specified"
	case len(items) == 1:
		return items[0]
	}
	shown := items
	others := 0
	if max > 0 && len(items) > max {
		shown = items[:max]
		others = len(items) - max
	}
	var s string
	if len(shown) == 2 && others == 0 {
		s = shown[0] + " and " + shown[1]
	} else {
		s = strings.Join(shown[:len(shown)-1], ", ") + ", and " + shown[len(shown)-1]
	}
	if others > 0 {
		s = strings.Join(shown, ", ") + fmt.Sprintf(", and %d others", others)
	}
	return s
}

var (
	jsonFenceRe  = regexp.MustCompile("```(?:json)?")
	blankLinesRe = regexp.MustCompile(`\n{3,}`)
)

// CleanResponse strips markdown code fences and collapses excessive blank
// lines out of model output.
func CleanResponse(s string) string {
	s = jsonFenceRe.ReplaceAllString(s, "")
	s = blankLinesRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
