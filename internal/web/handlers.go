package web

import (
	"fmt"
	"net/http"

	"github.com/JonMunkholm/jobinsights/internal/insights"
	"github.com/JonMunkholm/jobinsights/internal/jobs"
	"github.com/JonMunkholm/jobinsights/internal/logging"
)

// IndustriesResponse is returned by GET /api/industries.
type IndustriesResponse struct {
	Path       string   `json:"path"`
	Industries []string `json:"industries"`
	Count      int      `json:"count"`
}

// SalaryResponse is returned by GET /api/salary/max and /api/salary/min.
type SalaryResponse struct {
	Path      string `json:"path"`
	MaxSalary *int   `json:"max_salary,omitempty"`
	MinSalary *int   `json:"min_salary,omitempty"`
}

// SkippedJob describes a record excluded from a salary-range filter.
type SkippedJob struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// JobsResponse is returned by GET /api/jobs. Skipped indices refer to the
// records left after industry filtering.
type JobsResponse struct {
	Path    string        `json:"path"`
	Count   int           `json:"count"`
	Jobs    []jobs.Record `json:"jobs"`
	Skipped []SkippedJob  `json:"skipped"`
}

// datasetPath returns the ?path= parameter or the configured dataset.
func (s *Server) datasetPath(r *http.Request) string {
	if p := r.URL.Query().Get("path"); p != "" {
		return p
	}
	return s.cfg.Source.Path
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) handleIndustries(w http.ResponseWriter, r *http.Request) {
	path := s.datasetPath(r)

	industries, err := insights.UniqueIndustries(r.Context(), s.source, path)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	writeJSON(w, r, IndustriesResponse{Path: path, Industries: industries, Count: len(industries)})
}

func (s *Server) handleMaxSalary(w http.ResponseWriter, r *http.Request) {
	path := s.datasetPath(r)

	maxSalary, err := insights.MaxSalary(r.Context(), s.source, path)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	writeJSON(w, r, SalaryResponse{Path: path, MaxSalary: &maxSalary})
}

func (s *Server) handleMinSalary(w http.ResponseWriter, r *http.Request) {
	path := s.datasetPath(r)

	minSalary, err := insights.MinSalary(r.Context(), s.source, path)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	writeJSON(w, r, SalaryResponse{Path: path, MinSalary: &minSalary})
}

// listJobs reads the requested dataset and narrows it by ?industry= (exact
// match) and then by ?salary= (range containment).
func (s *Server) listJobs(r *http.Request) (JobsResponse, error) {
	path := s.datasetPath(r)
	query := r.URL.Query()

	var salary int
	filterSalary := query.Has("salary")
	if filterSalary {
		var err error
		if salary, err = insights.ParseSalary(query.Get("salary")); err != nil {
			return JobsResponse{}, err
		}
	}

	records, err := s.source.Read(r.Context(), path)
	if err != nil {
		return JobsResponse{}, fmt.Errorf("read %s: %w", path, err)
	}

	if query.Has("industry") {
		records = insights.FilterByIndustry(records, query.Get("industry"))
	}

	skipped := make([]SkippedJob, 0)
	if filterSalary {
		result := insights.FilterBySalaryRange(r.Context(), records, salary)
		records = result.Matches
		for _, sk := range result.Skipped {
			skipped = append(skipped, SkippedJob{Index: sk.Index, Error: sk.Err.Error()})
		}
	}

	logging.FromContext(r.Context()).Debug("jobs listed",
		"path", path,
		"matches", len(records),
		"skipped", len(skipped),
	)

	return JobsResponse{Path: path, Count: len(records), Jobs: records, Skipped: skipped}, nil
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	resp, err := s.listJobs(r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, r, resp)
}

// handleJobsPage renders the same listing as HTML. It sits outside /api so
// browser links and forms work when API keys are required.
func (s *Server) handleJobsPage(w http.ResponseWriter, r *http.Request) {
	resp, err := s.listJobs(r)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := jobsPage(resp).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render jobs", "error", err)
	}
}

// handleDashboard renders the HTML summary of a dataset.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sum := Summary{Path: s.datasetPath(r)}

	var err error
	if sum.Industries, err = insights.UniqueIndustries(ctx, s.source, sum.Path); err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	if sum.MaxSalary, err = insights.MaxSalary(ctx, s.source, sum.Path); err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	if sum.MinSalary, err = insights.MinSalary(ctx, s.source, sum.Path); err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardPage(sum).Render(ctx, w); err != nil {
		logging.FromContext(ctx).Error("render dashboard", "error", err)
	}
}
