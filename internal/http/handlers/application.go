package handlers

import (
	"net/http"
	"strings"
	"time"

	"jobboard/internal/app"
	"jobboard/internal/common"
	"jobboard/internal/domain/application"
	"jobboard/internal/http/metrics"
	"jobboard/internal/http/middleware"
	"jobboard/internal/http/response"
)

const (
	applyLimit  = 3
	applyWindow = time.Minute
)

type ApplicationHandler struct {
	applications *app.ApplicationService
	limiter      middleware.Limiter
	metrics      *metrics.Collector
}

func NewApplicationHandler(applications *app.ApplicationService, limiter middleware.Limiter, collector *metrics.Collector) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, limiter: limiter, metrics: collector}
}

type submitRequest struct {
	JobID       string               `json:"job_id"`
	CoverLetter string               `json:"cover_letter"`
	Answers     []application.Answer `json:"answers"`
	Resume      *application.Resume  `json:"resume"`
}

func (h *ApplicationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req submitRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if strings.TrimSpace(req.JobID) == "" {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"job_id": "job_id is required"}))
		return
	}
	jobID, err := common.ParseUUID(req.JobID)
	if err != nil {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"job_id": "invalid uuid"}))
		return
	}
	if h.limiter != nil {
		key := "apply:" + jobID.String() + ":" + principal.ID.String()
		if !h.limiter.Allow(key, applyLimit, applyWindow) {
			if h.metrics != nil {
				h.metrics.IncRateLimited()
			}
			response.Error(w, common.NewError(common.CodeRateLimited, "apply rate limit exceeded", nil))
			return
		}
	}
	created, err := h.applications.Submit(r.Context(), jobID, principal.ID, application.Submission{
		CoverLetter: req.CoverLetter,
		Answers:     req.Answers,
		Resume:      req.Resume,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.IncSubmissions()
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var filter application.Filter
	if value := strings.TrimSpace(r.URL.Query().Get("status")); value != "" {
		status, ok := application.ParseStatus(value)
		if !ok {
			response.Error(w, common.NewValidationErrorWithCode(common.CodeInvalidStatus, "invalid status", map[string]string{"status": "unknown status"}))
			return
		}
		filter.Status = status
	}
	if filter.JobID, err = optionalUUID(r, "job_id"); err != nil {
		response.Error(w, err)
		return
	}
	if filter.RecruiterID, err = optionalUUID(r, "recruiter_id"); err != nil {
		response.Error(w, err)
		return
	}
	page, err := h.applications.List(r.Context(), principal, filter, queryInt(r, "page", 1), queryInt(r, "limit", 0))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, page)
}

func (h *ApplicationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromRequest(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	recruiterID, err := optionalUUID(r, "recruiter_id")
	if err != nil {
		response.Error(w, err)
		return
	}
	stats, err := h.applications.Stats(r.Context(), principal, recruiterID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, stats)
}

func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	item, err := h.applications.Get(r.Context(), id, principal)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

type updateStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
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
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if strings.TrimSpace(req.Status) == "" {
		response.Error(w, common.NewValidationError("status is required", map[string]string{"status": "status is required"}))
		return
	}
	updated, err := h.applications.UpdateStatus(r.Context(), id, principal, application.Status(req.Status), req.Note)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

type interviewRequest struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Location string `json:"location"`
	Type     string `json:"type"`
	Notes    string `json:"notes"`
}

func (h *ApplicationHandler) ScheduleInterview(w http.ResponseWriter, r *http.Request) {
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
	var req interviewRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.applications.ScheduleInterview(r.Context(), id, principal, application.Interview{
		Date:     strings.TrimSpace(req.Date),
		Time:     strings.TrimSpace(req.Time),
		Location: strings.TrimSpace(req.Location),
		Type:     application.InterviewType(strings.ToLower(strings.TrimSpace(req.Type))),
		Notes:    req.Notes,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *ApplicationHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
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
	updated, err := h.applications.Withdraw(r.Context(), id, principal.ID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

type notesRequest struct {
	Notes string `json:"notes"`
}

func (h *ApplicationHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
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
	var req notesRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.applications.UpdateNotes(r.Context(), id, principal, req.Notes)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *ApplicationHandler) SetFeedback(w http.ResponseWriter, r *http.Request) {
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
	var req application.Feedback
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.applications.SetFeedback(r.Context(), id, principal, req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}
