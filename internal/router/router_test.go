package router

import (
	"testing"

	"github.com/kalambet/scout/internal/session"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want Handler
	}{
		{
			name: "selection token at recommendation stage",
			in:   Input{Stage: session.StageRecommendation, Text: "2", HasRecommendations: true},
			want: Writer,
		},
		{
			name: "selection token outside recommendation stage falls through",
			in:   Input{Stage: session.StageGreeting, Text: "option 2"},
			want: Greeter,
		},
		{
			name: "closing beats greeting",
			in:   Input{Stage: session.StageInquiry, Text: "bye and hi"},
			want: FollowUp,
		},
		{
			name: "greeting",
			in:   Input{Stage: session.StageInquiry, Text: "good morning"},
			want: Greeter,
		},
		{
			name: "closing word with exclamation mark still closes",
			in:   Input{Stage: session.StageRecommendation, Text: "Thanks!", HasRecommendations: true},
			want: FollowUp,
		},
		{
			name: "closing word with trailing period still closes",
			in:   Input{Stage: session.StageRecommendation, Text: "bye.", HasRecommendations: true},
			want: FollowUp,
		},
		{
			name: "package keywords go to recommender",
			in:   Input{Stage: session.StageGreeting, Text: "show me your services"},
			want: Recommender,
		},
		{
			name: "pricing with recommendations",
			in:   Input{Stage: session.StageInquiry, Text: "can I get a quote", HasRecommendations: true},
			want: Writer,
		},
		{
			name: "pricing without recommendations",
			in:   Input{Stage: session.StageInquiry, Text: "can I get a quote"},
			want: Recommender,
		},
		{
			name: "hiring needs fresh session",
			in:   Input{Stage: session.StageGreeting, Text: "we must fill three positions"},
			want: Extractor,
		},
		{
			name: "hiring needs with known roles",
			in:   Input{Stage: session.StageInquiry, Text: "we must fill three positions", HasRoles: true},
			want: Recommender,
		},
		{
			name: "clarification after recommendation",
			in:   Input{Stage: session.StageRecommendation, Text: "could we schedule a meeting?", HasRecommendations: true},
			want: FollowUp,
		},
		{
			name: "anything else after recommendation goes to writer",
			in:   Input{Stage: session.StageRecommendation, Text: "sounds reasonable", HasRecommendations: true},
			want: Writer,
		},
		{
			name: "long greeting-stage message goes to extractor",
			in:   Input{Stage: session.StageGreeting, Text: "our clinic is searching urgently and also expanding the team"},
			want: Extractor,
		},
		{
			name: "short greeting-stage message stays with greeter",
			in:   Input{Stage: session.StageGreeting, Text: "um ok"},
			want: Greeter,
		},
		{
			name: "inquiry default with roles",
			in:   Input{Stage: session.StageInquiry, Text: "mumbai, senior level", HasRoles: true},
			want: Recommender,
		},
		{
			name: "inquiry default without roles",
			in:   Input{Stage: session.StageInquiry, Text: "mumbai, senior level"},
			want: Extractor,
		},
		{
			name: "recommendation default without recommendations",
			in:   Input{Stage: session.StageRecommendation, Text: "go on"},
			want: Recommender,
		},
		{
			name: "greeting token inside hiring word does not hijack routing",
			in:   Input{Stage: session.StageGreeting, Text: "Hi, we need to hire 2 backend engineers urgently"},
			want: Extractor,
		},
		{
			name: "bare greeting",
			in:   Input{Stage: session.StageGreeting, Text: "hi"},
			want: Greeter,
		},
		{
			name: "proposal stage defaults to follow up",
			in:   Input{Stage: session.StageProposal, Text: "interesting"},
			want: FollowUp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Select(tt.in); got != tt.want {
				t.Errorf("Select(%+v) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestSelectDeterministic(t *testing.T) {
	in := Input{Stage: session.StageInquiry, Text: "We need to hire 2 backend engineers urgently"}
	first := Select(in)
	for i := 0; i < 20; i++ {
		if got := Select(in); got != first {
			t.Fatalf("run %d: Select = %s, want %s", i, got, first)
		}
	}
}
