// Package recommend ranks jobs and assistive-technology items for a user
// from their declared disability categories and skills.
//
// Scoring is additive. An item whose category is relevant to one of the
// user's disability categories earns CategoryBonus; every distinct mapped
// keyword or profile skill found in its text earns KeywordBonus; items added
// within RecencyWindow earn RecencyBonus and items flagged "Recommended" or
// "Popular" earn FlagBonus. With a personalization profile, zero-score items
// are dropped. Without one, or when nothing scores, the most recent items are
// returned and the result is marked as not personalized.
package recommend

import (
	"sort"
	"strings"
	"time"
)

const (
	CategoryBonus = 10
	KeywordBonus  = 3
	RecencyBonus  = 2
	FlagBonus     = 1

	RecencyWindow = 30 * 24 * time.Hour
)

var bonusFlags = []string{"recommended", "popular"}

// Candidate is the scoring view of a job or assistive-technology item.
type Candidate struct {
	ID       string
	Category string
	// Text is matched against keywords; it must already be lowercased.
	Text    string
	AddedAt time.Time
	Flags   []string
}

type Profile struct {
	DisabilityCategories []string
	Skills               []string
}

func (p Profile) Personalized() bool {
	return len(p.DisabilityCategories) > 0 || len(p.Skills) > 0
}

type Scored struct {
	Candidate
	Score           int
	CategoryMatch   bool
	MatchedKeywords []string
	Recent          bool
}

type Result struct {
	Items        []Scored
	Personalized bool
}

type Engine struct {
	table Table
	now   func() time.Time
}

func New(table Table, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{table: table, now: now}
}

// Score computes the relevance of a single candidate for the profile.
func (e *Engine) Score(p Profile, c Candidate) Scored {
	categories, keywords := e.table.expand(p.DisabilityCategories)
	return e.score(c, categories, withSkills(keywords, p.Skills), e.now())
}

// Recommend scores candidates, drops non-matches and returns at most limit
// items ordered by score.
func (e *Engine) Recommend(p Profile, candidates []Candidate, limit int) Result {
	now := e.now()
	if !p.Personalized() {
		return Result{Items: mostRecent(candidates, limit)}
	}

	categories, keywords := e.table.expand(p.DisabilityCategories)
	keywords = withSkills(keywords, p.Skills)

	scored := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		s := e.score(c, categories, keywords, now)
		if s.Score > 0 {
			scored = append(scored, s)
		}
	}
	if len(scored) == 0 {
		return Result{Items: mostRecent(candidates, limit)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return newer(scored[i].Candidate, scored[j].Candidate)
	})
	return Result{Items: truncate(scored, limit), Personalized: true}
}

func (e *Engine) score(c Candidate, categories map[string]bool, keywords []string, now time.Time) Scored {
	s := Scored{Candidate: c}

	if categories[strings.ToLower(strings.TrimSpace(c.Category))] {
		s.CategoryMatch = true
		s.Score += CategoryBonus
	}

	for _, kw := range keywords {
		if strings.Contains(c.Text, kw) {
			s.MatchedKeywords = append(s.MatchedKeywords, kw)
			s.Score += KeywordBonus
		}
	}

	if !c.AddedAt.IsZero() && now.Sub(c.AddedAt) <= RecencyWindow {
		s.Recent = true
		s.Score += RecencyBonus
	}

	if hasBonusFlag(c.Flags) {
		s.Score += FlagBonus
	}
	return s
}

// mostRecent is the unpersonalized fallback: newest first, unscored.
func mostRecent(candidates []Candidate, limit int) []Scored {
	items := make([]Scored, len(candidates))
	for i, c := range candidates {
		items[i] = Scored{Candidate: c}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return newer(items[i].Candidate, items[j].Candidate)
	})
	return truncate(items, limit)
}

func newer(a, b Candidate) bool {
	if !a.AddedAt.Equal(b.AddedAt) {
		return a.AddedAt.After(b.AddedAt)
	}
	return a.ID < b.ID
}

func truncate(items []Scored, limit int) []Scored {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func withSkills(keywords, skills []string) []string {
	seen := make(map[string]bool, len(keywords)+len(skills))
	out := make([]string, 0, len(keywords)+len(skills))
	for _, kw := range append(append([]string(nil), keywords...), skills...) {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		out = append(out, kw)
	}
	return out
}

func hasBonusFlag(flags []string) bool {
	for _, f := range flags {
		for _, b := range bonusFlags {
			if strings.EqualFold(strings.TrimSpace(f), b) {
				return true
			}
		}
	}
	return false
}
