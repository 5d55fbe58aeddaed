package policy

import "strings"

// Action is one recommended between-session activity.
type Action struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Difficulty  string `json:"difficulty"`
	Duration    string `json:"duration"`
}

// starterActions is the set offered before any conversation has happened.
var starterActions = []Action{
	{
		Title:       "Practice Deep Breathing",
		Description: "Take 5 minutes to practice deep breathing exercises",
		Category:    "relaxation",
		Difficulty:  "easy",
		Duration:    "5 minutes",
	},
	{
		Title:       "Mindfulness Meditation",
		Description: "Try a short mindfulness meditation session",
		Category:    "mindfulness",
		Difficulty:  "medium",
		Duration:    "10 minutes",
	},
	{
		Title:       "Journal Your Thoughts",
		Description: "Write down your thoughts and feelings in a journal",
		Category:    "reflection",
		Difficulty:  "easy",
		Duration:    "15 minutes",
	},
}

// wellnessActions are appended to every keyword-derived recommendation.
var wellnessActions = []Action{
	{
		Title:       "Mindful Walking",
		Description: "Take a short walk while focusing on your senses",
		Category:    "mindfulness",
		Difficulty:  "easy",
		Duration:    "10 minutes",
	},
	{
		Title:       "Self-Compassion Break",
		Description: "Practice being kind to yourself during difficult moments",
		Category:    "self-care",
		Difficulty:  "medium",
		Duration:    "5 minutes",
	},
}

// actionThemes map conversation keywords to targeted activities. A theme
// contributes its actions when any of its keywords appears.
var actionThemes = []struct {
	keywords []string
	actions  []Action
}{
	{
		keywords: []string{"anxiety", "anxious", "worry", "stress", "panic", "overwhelm"},
		actions: []Action{
			{
				Title:       "Anxiety Relief Exercise",
				Description: "Practice the 5-4-3-2-1 grounding technique to reduce anxiety",
				Category:    "anxiety",
				Difficulty:  "easy",
				Duration:    "5 minutes",
			},
			{
				Title:       "Progressive Muscle Relaxation",
				Description: "Tense and relax each muscle group to release physical tension",
				Category:    "anxiety",
				Difficulty:  "medium",
				Duration:    "15 minutes",
			},
		},
	},
	{
		keywords: []string{"sad", "depression", "depressed", "hopeless", "unmotivated", "tired"},
		actions: []Action{
			{
				Title:       "Mood Boosting Activity",
				Description: "Do one small activity that usually brings you joy",
				Category:    "depression",
				Difficulty:  "medium",
				Duration:    "20 minutes",
			},
			{
				Title:       "Gratitude Practice",
				Description: "Write down three things you're grateful for today",
				Category:    "depression",
				Difficulty:  "easy",
				Duration:    "5 minutes",
			},
		},
	},
	{
		keywords: []string{"sleep", "insomnia", "tired", "exhausted", "rest", "fatigue"},
		actions: []Action{
			{
				Title:       "Sleep Hygiene Review",
				Description: "Review and improve your bedtime routine for better sleep",
				Category:    "sleep",
				Difficulty:  "medium",
				Duration:    "30 minutes",
			},
			{
				Title:       "Evening Wind-Down",
				Description: "Practice a calming routine 1 hour before bedtime",
				Category:    "sleep",
				Difficulty:  "easy",
				Duration:    "15 minutes",
			},
		},
	},
}

// RecommendActions derives activity suggestions from the conversation so
// far. An empty conversation gets the starter set; otherwise keyword hits
// select theme-specific activities, always followed by the general
// wellness pair.
func RecommendActions(conversation string) []Action {
	in := strings.ToLower(strings.TrimSpace(conversation))
	if in == "" {
		return append([]Action(nil), starterActions...)
	}

	var out []Action
	for _, theme := range actionThemes {
		for _, kw := range theme.keywords {
			if strings.Contains(in, kw) {
				out = append(out, theme.actions...)
				break
			}
		}
	}
	return append(out, wellnessActions...)
}
