package chat

import "regexp"

// Segment is a run of reply text with uniform emphasis.
type Segment struct {
	Text   string `json:"text"`
	Bold   bool   `json:"bold,omitempty"`
	Italic bool   `json:"italic,omitempty"`
}

var emphasisPattern = regexp.MustCompile(`\*\*([^*]+?)\*\*|\*([^*\s][^*]*?)\*`)

// Format splits text into segments, turning **bold** and *italic* markers
// into emphasis. Markers without a partner stay literal.
func Format(text string) []Segment {
	segments := []Segment{}
	plain := func(s string) {
		if s == "" {
			return
		}
		if n := len(segments); n > 0 && !segments[n-1].Bold && !segments[n-1].Italic {
			segments[n-1].Text += s
			return
		}
		segments = append(segments, Segment{Text: s})
	}

	last := 0
	for _, m := range emphasisPattern.FindAllStringSubmatchIndex(text, -1) {
		plain(text[last:m[0]])
		if m[2] >= 0 {
			segments = append(segments, Segment{Text: text[m[2]:m[3]], Bold: true})
		} else {
			segments = append(segments, Segment{Text: text[m[4]:m[5]], Italic: true})
		}
		last = m[1]
	}
	plain(text[last:])
	return segments
}
