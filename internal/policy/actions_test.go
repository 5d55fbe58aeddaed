package policy

import "testing"

func actionTitles(actions []Action) map[string]bool {
	out := make(map[string]bool, len(actions))
	for _, a := range actions {
		out[a.Title] = true
	}
	return out
}

func TestRecommendActions(t *testing.T) {
	t.Run("empty conversation gets starter set", func(t *testing.T) {
		got := RecommendActions("   ")
		if len(got) != 3 {
			t.Fatalf("len = %d, want 3 starter actions", len(got))
		}
		titles := actionTitles(got)
		if !titles["Practice Deep Breathing"] || !titles["Journal Your Thoughts"] {
			t.Fatalf("starter set missing expected actions: %v", titles)
		}
	})

	t.Run("anxiety keywords select grounding actions", func(t *testing.T) {
		got := RecommendActions("I've been so ANXIOUS about work lately.")
		titles := actionTitles(got)
		if !titles["Anxiety Relief Exercise"] || !titles["Progressive Muscle Relaxation"] {
			t.Fatalf("anxiety actions missing: %v", titles)
		}
		if titles["Sleep Hygiene Review"] {
			t.Fatal("sleep actions selected without sleep keywords")
		}
	})

	t.Run("overlapping themes both contribute", func(t *testing.T) {
		// "tired" sits in both the depression and sleep keyword sets.
		got := RecommendActions("I'm tired all the time and can't rest.")
		titles := actionTitles(got)
		if !titles["Gratitude Practice"] || !titles["Sleep Hygiene Review"] {
			t.Fatalf("overlapping theme actions missing: %v", titles)
		}
	})

	t.Run("wellness pair always included for conversations", func(t *testing.T) {
		got := RecommendActions("I had a pleasant afternoon in the garden.")
		if len(got) != 2 {
			t.Fatalf("len = %d, want only the wellness pair", len(got))
		}
		titles := actionTitles(got)
		if !titles["Mindful Walking"] || !titles["Self-Compassion Break"] {
			t.Fatalf("wellness pair missing: %v", titles)
		}
	})
}
