package policy

import "strings"

// SafetyAssessment classifies an inbound user message for escalation.
type SafetyAssessment struct {
	Level          string
	CrisisDetected bool
	Resources      string
}

const crisisResources = "If you're in crisis or thinking about harming yourself, please reach out right now: call or text 988 (Suicide & Crisis Lifeline) or contact your local emergency services."

var (
	crisisKeywords = []string{
		"kill myself", "end my life", "suicide", "suicidal",
		"hurt myself", "harm myself", "self harm", "self-harm",
		"don't want to live", "no reason to live", "better off dead",
	}
	distressKeywords = []string{
		"hopeless", "worthless", "can't go on", "give up",
		"panic attack", "can't breathe", "falling apart",
	}
)

// ScreenMessage checks a user message against ordered keyword tiers.
// Crisis outranks distress; anything else is routine. The assessment
// never blocks the conversation, it only tells the engine to prepend
// help resources to its reply.
func ScreenMessage(text string) SafetyAssessment {
	in := strings.ToLower(strings.TrimSpace(text))
	if in == "" {
		return SafetyAssessment{Level: "routine"}
	}

	for _, kw := range crisisKeywords {
		if strings.Contains(in, kw) {
			return SafetyAssessment{
				Level:          "crisis",
				CrisisDetected: true,
				Resources:      crisisResources,
			}
		}
	}

	for _, kw := range distressKeywords {
		if strings.Contains(in, kw) {
			return SafetyAssessment{Level: "distress"}
		}
	}

	return SafetyAssessment{Level: "routine"}
}
