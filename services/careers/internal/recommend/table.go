package recommend

import "strings"

// Rule lists the item categories and keywords relevant to one disability
// category.
type Rule struct {
	Categories []string
	Keywords   []string
}

// Table maps a disability category to its rule. Lookups are
// case-insensitive.
type Table map[string]Rule

// expand returns the lowercased relevant category set and the distinct
// keyword list for the declared categories. A declared category always
// counts as relevant to itself.
func (t Table) expand(declared []string) (map[string]bool, []string) {
	categories := make(map[string]bool)
	seen := make(map[string]bool)
	var keywords []string

	for _, d := range declared {
		key := strings.ToLower(strings.TrimSpace(d))
		if key == "" {
			continue
		}
		categories[key] = true

		rule, ok := t.lookup(key)
		if !ok {
			continue
		}
		for _, c := range rule.Categories {
			categories[strings.ToLower(c)] = true
		}
		for _, kw := range rule.Keywords {
			kw = strings.ToLower(kw)
			if !seen[kw] {
				seen[kw] = true
				keywords = append(keywords, kw)
			}
		}
	}
	return categories, keywords
}

func (t Table) lookup(key string) (Rule, bool) {
	if r, ok := t[key]; ok {
		return r, true
	}
	for k, r := range t {
		if strings.EqualFold(k, key) {
			return r, true
		}
	}
	return Rule{}, false
}

// Categories lists the disability categories the table knows about.
func (t Table) Categories() []string {
	out := make([]string, 0, len(t))
	for k := range t {
		out = append(out, k)
	}
	return out
}

var AssistiveTechTable = Table{
	"Vision impairment": {
		Categories: []string{"Visual Assistance", "Communication", "Smart Home"},
		Keywords:   []string{"screen reader", "magnifier", "braille", "text-to-speech", "voice", "audio description", "high contrast"},
	},
	"Hearing impairment": {
		Categories: []string{"Hearing Assistance", "Communication"},
		Keywords:   []string{"caption", "hearing aid", "sign language", "visual alert", "transcription", "vibration"},
	},
	"Mobility impairment": {
		Categories: []string{"Mobility", "Smart Home", "Computer Access"},
		Keywords:   []string{"wheelchair", "voice control", "switch", "eye tracking", "hands-free", "ergonomic"},
	},
	"Cognitive disability": {
		Categories: []string{"Cognitive Support", "Learning", "Communication"},
		Keywords:   []string{"reminder", "reading", "focus", "simplified", "planner", "word prediction"},
	},
	"Speech impairment": {
		Categories: []string{"Communication", "Speech Assistance"},
		Keywords:   []string{"aac", "text-to-speech", "speech generating", "symbol"},
	},
	"Learning disability": {
		Categories: []string{"Learning", "Cognitive Support"},
		Keywords:   []string{"dyslexia", "reading", "text-to-speech", "spell", "note-taking"},
	},
}

var JobTable = Table{
	"Vision impairment": {
		Categories: []string{"Customer Service", "Counseling", "Audio Production"},
		Keywords:   []string{"screen reader", "remote", "audio", "accessible", "voice"},
	},
	"Hearing impairment": {
		Categories: []string{"Design", "Data Entry", "Software Development"},
		Keywords:   []string{"captioning", "written communication", "remote", "sign language", "chat support"},
	},
	"Mobility impairment": {
		Categories: []string{"Software Development", "Data Entry", "Content Writing"},
		Keywords:   []string{"remote", "work from home", "wheelchair accessible", "flexible hours", "ergonomic"},
	},
	"Cognitive disability": {
		Categories: []string{"Data Entry", "Administrative", "Hospitality"},
		Keywords:   []string{"structured", "training provided", "flexible hours", "mentorship"},
	},
	"Speech impairment": {
		Categories: []string{"Design", "Software Development", "Data Entry"},
		Keywords:   []string{"written communication", "chat support", "remote", "email"},
	},
	"Learning disability": {
		Categories: []string{"Design", "Hospitality", "Administrative"},
		Keywords:   []string{"training provided", "mentorship", "hands-on", "flexible"},
	},
}
