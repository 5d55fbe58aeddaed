package emotion

import "testing"

func TestDetect(t *testing.T) {
	cases := []struct {
		name string
		text string
		want Tone
	}{
		{"empathetic keyword", "I'm so sorry you're going through this.", Empathetic},
		{"encouraging keyword", "That's a great step forward!", Encouraging},
		{"supportive phrase", "I'm here for you whenever you need.", Supportive},
		{"no keyword", "Tell me more about your day.", Calm},
		{"case insensitive", "That is WONDERFUL news.", Encouraging},
		{"substring match", "Things have felt harder lately.", Empathetic},
		{"empathetic wins over encouraging", "It's hard, but you've made great progress.", Empathetic},
		{"encouraging wins over supportive", "Great work, I can help with the rest.", Encouraging},
		{"empty text", "", Calm},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Detect(tc.text); got != tc.want {
				t.Fatalf("Detect(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestKnown(t *testing.T) {
	for _, s := range []string{"calm", "empathetic", "encouraging", "supportive"} {
		if !Known(s) {
			t.Fatalf("Known(%q) = false, want true", s)
		}
	}
	if Known("cheerful") {
		t.Fatalf("Known(%q) = true, want false", "cheerful")
	}
}
