// Package filter narrows job listings with independent predicates that are
// combined with AND. An empty predicate lets every job through.
package filter

import (
	"strings"

	"abletech/services/careers/internal/models"
)

type Criteria struct {
	Query            string
	City             string
	Categories       []string
	Types            []string
	ExperienceLevels []string
	Departments      []string
	Statuses         []models.JobStatus
}

// Predicate reports whether a job passes one filter.
type Predicate func(*models.Job) bool

// Predicates builds the non-empty predicates for c.
func (c Criteria) Predicates() []Predicate {
	var ps []Predicate

	if q := strings.ToLower(strings.TrimSpace(c.Query)); q != "" {
		ps = append(ps, func(j *models.Job) bool {
			return strings.Contains(strings.ToLower(j.Title), q)
		})
	}
	if city := strings.ToLower(strings.TrimSpace(c.City)); city != "" {
		ps = append(ps, func(j *models.Job) bool {
			return strings.Contains(strings.ToLower(j.Location), city)
		})
	}
	if set := lowerSet(c.Categories); len(set) > 0 {
		ps = append(ps, func(j *models.Job) bool {
			return set[strings.ToLower(j.Category)]
		})
	}
	if set := lowerSet(c.Types); len(set) > 0 {
		ps = append(ps, func(j *models.Job) bool {
			return set[strings.ToLower(j.Type)]
		})
	}
	if set := lowerSet(c.ExperienceLevels); len(set) > 0 {
		ps = append(ps, func(j *models.Job) bool {
			level := j.ExperienceLevel
			if level == "" {
				level = JobLevel(j)
			}
			return set[strings.ToLower(level)]
		})
	}
	if set := lowerSet(c.Departments); len(set) > 0 {
		ps = append(ps, func(j *models.Job) bool {
			return set[strings.ToLower(j.Department)]
		})
	}
	if len(c.Statuses) > 0 {
		statuses := make([]string, len(c.Statuses))
		for i, s := range c.Statuses {
			statuses[i] = string(s)
		}
		set := lowerSet(statuses)
		ps = append(ps, func(j *models.Job) bool {
			return set[strings.ToLower(string(j.Status))]
		})
	}
	return ps
}

// Apply returns the jobs matching every predicate, preserving order.
func Apply(jobs []models.Job, c Criteria) []models.Job {
	ps := c.Predicates()
	out := make([]models.Job, 0, len(jobs))
next:
	for i := range jobs {
		for _, p := range ps {
			if !p(&jobs[i]) {
				continue next
			}
		}
		out = append(out, jobs[i])
	}
	return out
}

// Page slices jobs for "load more" style paging. A non-positive limit means
// no upper bound.
func Page(jobs []models.Job, offset, limit int) []models.Job {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(jobs) {
		return []models.Job{}
	}
	end := len(jobs)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return jobs[offset:end]
}

func lowerSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
				set[part] = true
			}
		}
	}
	return set
}
