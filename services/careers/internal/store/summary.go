package store

import (
	"context"
	"strings"
)

// Summary aggregates recruiter dashboard counts.
type Summary struct {
	TotalJobs            int            `json:"totalJobs"`
	TotalApplications    int            `json:"totalApplications"`
	JobsByStatus         map[string]int `json:"jobsByStatus"`
	ApplicationsByStatus map[string]int `json:"applicationsByStatus"`
	JobsByDepartment     map[string]int `json:"jobsByDepartment"`
}

// Summarize counts jobs and applications, restricted to one recruiter's jobs
// when recruiterEmail is set.
func (s *Store) Summarize(ctx context.Context, recruiterEmail string) (*Summary, error) {
	sum := &Summary{
		JobsByStatus:         map[string]int{},
		ApplicationsByStatus: map[string]int{},
		JobsByDepartment:     map[string]int{},
	}

	jobWhere, appWhere := "", ""
	var args []any
	if recruiterEmail = strings.ToLower(strings.TrimSpace(recruiterEmail)); recruiterEmail != "" {
		jobWhere = " WHERE recruiter_email = ?"
		appWhere = " WHERE j.recruiter_email = ?"
		args = append(args, recruiterEmail)
	}

	queries := []struct {
		query string
		into  map[string]int
	}{
		{`SELECT status, COUNT(*) FROM jobs` + jobWhere + ` GROUP BY status`, sum.JobsByStatus},
		{`SELECT department, COUNT(*) FROM jobs` + jobWhere + ` GROUP BY department`, sum.JobsByDepartment},
		{`SELECT a.status, COUNT(*) FROM applications a JOIN jobs j ON j.id = a.job_id` + appWhere + ` GROUP BY a.status`, sum.ApplicationsByStatus},
	}
	for _, q := range queries {
		if err := s.countInto(ctx, q.into, q.query, args...); err != nil {
			return nil, err
		}
	}

	for _, n := range sum.JobsByStatus {
		sum.TotalJobs += n
	}
	for _, n := range sum.ApplicationsByStatus {
		sum.TotalApplications += n
	}
	return sum, nil
}

func (s *Store) countInto(ctx context.Context, into map[string]int, query string, args ...any) error {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key string
			n   int
		)
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		into[key] = n
	}
	return rows.Err()
}
