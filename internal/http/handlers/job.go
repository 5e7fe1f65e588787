package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"jobboard/internal/app"
	"jobboard/internal/common"
	"jobboard/internal/domain/job"
	"jobboard/internal/domain/user"
	"jobboard/internal/http/middleware"
	"jobboard/internal/http/response"
)

type JobHandler struct {
	jobs *app.JobService
}

func NewJobHandler(jobs *app.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

type jobRequest struct {
	Title               string     `json:"title"`
	Company             string     `json:"company"`
	Description         string     `json:"description"`
	Location            string     `json:"location"`
	Type                string     `json:"type"`
	Skills              []string   `json:"skills"`
	Salary              string     `json:"salary"`
	Status              string     `json:"status"`
	ApplicationDeadline *time.Time `json:"application_deadline"`
}

type jobStatusRequest struct {
	Status string `json:"status"`
}

func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req jobRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.jobs.Create(r.Context(), principal, job.Job{
		Title:               strings.TrimSpace(req.Title),
		Company:             strings.TrimSpace(req.Company),
		Description:         req.Description,
		Location:            strings.TrimSpace(req.Location),
		Type:                strings.TrimSpace(req.Type),
		Skills:              req.Skills,
		Salary:              req.Salary,
		Status:              job.Status(req.Status),
		ApplicationDeadline: req.ApplicationDeadline,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *JobHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	items, err := h.jobs.ListActive(r.Context(), queryInt(r, "limit", 20), queryInt(r, "offset", 0))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	viewer, _ := middleware.PrincipalFromContext(r.Context())
	item, err := h.jobs.Get(r.Context(), id, viewer)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *JobHandler) ListByRecruiter(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.jobs.ListByRecruiter(r.Context(), principal)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *JobHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req jobStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if strings.TrimSpace(req.Status) == "" {
		response.Error(w, common.NewValidationError("status is required", map[string]string{"status": "status is required"}))
		return
	}
	updated, err := h.jobs.UpdateStatus(r.Context(), principal, id, job.Status(req.Status))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *JobHandler) Bookmark(w http.ResponseWriter, r *http.Request) {
	h.bookmark(w, r, h.jobs.Bookmark)
}

func (h *JobHandler) RemoveBookmark(w http.ResponseWriter, r *http.Request) {
	h.bookmark(w, r, h.jobs.RemoveBookmark)
}

func (h *JobHandler) bookmark(w http.ResponseWriter, r *http.Request, apply func(context.Context, user.Principal, common.UUID) error) {
	principal, err := principalFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := apply(r.Context(), principal, id); err != nil {
		response.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Recount rebuilds the denormalized counters of one job.
func (h *JobHandler) Recount(w http.ResponseWriter, r *http.Request) {
	h.recount(w, r, 1)
}

func (h *JobHandler) recount(w http.ResponseWriter, r *http.Request, index int) {
	id, err := idFromPath(r, index)
	if err != nil {
		response.Error(w, err)
		return
	}
	counters, err := h.jobs.RecomputeCounters(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, counters)
}
