package conversation

import "strings"

// topicKeywords maps cue words to categorical topic tags. The table is
// deliberately small; unknown text tags as "general".
var topicKeywords = map[string]string{
	"cpu":         "system",
	"memory":      "system",
	"disk":        "system",
	"performance": "system",
	"status":      "system",
	"open":        "apps",
	"launch":      "apps",
	"close":       "apps",
	"start":       "apps",
	"application": "apps",
	"app":         "apps",
	"file":        "files",
	"folder":      "files",
	"directory":   "files",
	"copy":        "files",
	"move":        "files",
	"delete":      "files",
	"weather":     "weather",
	"temperature": "weather",
	"forecast":    "weather",
	"remind":      "reminders",
	"reminder":    "reminders",
	"schedule":    "reminders",
}

var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "can": true,
	"could": true, "do": true, "for": true, "i": true, "in": true,
	"is": true, "it": true, "me": true, "my": true, "of": true,
	"on": true, "please": true, "the": true, "to": true, "you": true,
	"what": true, "with": true, "would": true,
}

// tagTopic classifies one turn's text into a categorical topic tag by
// counting keyword hits per category.
func tagTopic(text string) string {
	counts := map[string]int{}
	for _, token := range tokenize(text) {
		if topic, ok := topicKeywords[token]; ok {
			counts[topic]++
		}
	}

	best, bestCount := "general", 0
	for topic, count := range counts {
		if count > bestCount {
			best, bestCount = topic, count
		}
	}
	return best
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	out := fields[:0]
	for _, f := range fields {
		if !stopwords[f] {
			out = append(out, f)
		}
	}
	return out
}
