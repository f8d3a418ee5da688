package api

import (
	"net/http"

	"abletech/common/errors"
	"abletech/services/careers/internal/filter"
	"abletech/services/careers/internal/models"
	"abletech/services/careers/internal/service"
	"abletech/services/careers/internal/store"
)

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	statuses, err := parseJobStatuses(q["status"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", service.DefaultPageSize)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	page, err := s.svc.Jobs.List(r.Context(), service.JobListParams{
		Criteria: filter.Criteria{
			Query:            q.Get("q"),
			City:             q.Get("city"),
			Categories:       q["category"],
			Types:            q["type"],
			ExperienceLevels: q["experience"],
			Departments:      q["department"],
			Statuses:         statuses,
		},
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var job models.Job
	if err := decodeJSON(w, r, &job); err != nil {
		s.writeError(w, r, err)
		return
	}
	created, err := s.svc.Jobs.Create(r.Context(), &job)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := s.svc.Jobs.Departments(r.Context(), r.URL.Query().Get("recruiter"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, departments)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.svc.Jobs.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	var job models.Job
	if err := decodeJSON(w, r, &job); err != nil {
		s.writeError(w, r, err)
		return
	}
	updated, err := s.svc.Jobs.Update(r.Context(), r.PathValue("id"), &job)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Jobs.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseJobStatuses(values []string) ([]models.JobStatus, error) {
	var out []models.JobStatus
	for _, v := range splitValues(values) {
		status, ok := models.ParseJobStatus(v)
		if !ok {
			return nil, errors.InvalidInput("unknown job status "+v, nil)
		}
		out = append(out, status)
	}
	return out, nil
}

type statusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleSubmitApplication(w http.ResponseWriter, r *http.Request) {
	var a models.Application
	if err := decodeJSON(w, r, &a); err != nil {
		s.writeError(w, r, err)
		return
	}
	created, err := s.svc.Applications.Submit(r.Context(), &a)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	apps, err := s.svc.Applications.List(r.Context(), store.ApplicationQuery{
		JobID:          q.Get("jobId"),
		CandidateEmail: q.Get("email"),
		RecruiterEmail: q.Get("recruiter"),
		Status:         models.ApplicationStatus(q.Get("status")),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	a, err := s.svc.Applications.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleUpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	a, err := s.svc.Applications.UpdateStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleSendEmail(w http.ResponseWriter, r *http.Request) {
	var req service.EmailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	a, err := s.svc.Applications.SendEmail(r.Context(), r.PathValue("id"), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Applications.Templates(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
