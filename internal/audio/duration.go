package audio

import "strings"

// speechWordsPerMinute approximates a natural synthesized speaking pace.
const speechWordsPerMinute = 180

// EstimateSpeechDuration predicts how many seconds a synthesized reading
// of text will take, with a one-second floor. Clients use it to size
// playback progress indicators before the audio arrives.
func EstimateSpeechDuration(text string) float64 {
	words := len(strings.Fields(text))
	seconds := float64(words) / speechWordsPerMinute * 60
	if seconds < 1 {
		return 1
	}
	return seconds
}
