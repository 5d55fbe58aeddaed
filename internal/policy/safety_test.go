package policy

import "testing"

func TestScreenMessage(t *testing.T) {
	cases := []struct {
		name       string
		text       string
		wantLevel  string
		wantCrisis bool
	}{
		{"crisis keyword", "Sometimes I think about suicide.", "crisis", true},
		{"crisis phrase", "I don't want to live anymore", "crisis", true},
		{"distress keyword", "Everything feels hopeless right now.", "distress", false},
		{"routine message", "I had an argument with my sister.", "routine", false},
		{"empty message", "", "routine", false},
		{"crisis outranks distress", "I feel worthless and want to end my life.", "crisis", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ScreenMessage(tc.text)
			if got.Level != tc.wantLevel {
				t.Fatalf("Level = %q, want %q", got.Level, tc.wantLevel)
			}
			if got.CrisisDetected != tc.wantCrisis {
				t.Fatalf("CrisisDetected = %v, want %v", got.CrisisDetected, tc.wantCrisis)
			}
			if tc.wantCrisis && got.Resources == "" {
				t.Fatal("crisis assessment missing resources")
			}
		})
	}
}
