package http

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"jobboard/internal/domain/user"
	"jobboard/internal/http/handlers"
	"jobboard/internal/http/metrics"
	httpmw "jobboard/internal/http/middleware"
)

type RouterDependencies struct {
	JobHandler         *handlers.JobHandler
	ApplicationHandler *handlers.ApplicationHandler
	InternalHandler    *handlers.InternalHandler
	AuthMiddleware     *httpmw.AuthMiddleware
	Metrics            *metrics.Collector
	Logger             *zap.Logger
	RequestTimeout     time.Duration
}

type Router struct {
	deps    RouterDependencies
	handler http.Handler
}

const maxBodyBytes = 1 << 20

var (
	recruiterOrAdmin = httpmw.RequireRole(user.RoleRecruiter, user.RoleAdmin)
	studentOnly      = httpmw.RequireRole(user.RoleStudent)
	adminOnly        = httpmw.RequireRole(user.RoleAdmin)
)

func NewRouter(deps RouterDependencies) http.Handler {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	r := &Router{deps: deps}
	r.handler = httpmw.Chain(http.HandlerFunc(r.route),
		httpmw.RequestID,
		httpmw.Logging(deps.Logger),
		httpmw.BodyLimit(maxBodyBytes),
		httpmw.Recover(deps.Logger),
		httpmw.Metrics(deps.Metrics),
		httpmw.Timeout(deps.RequestTimeout),
	)
	return r
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

func segments(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func (r *Router) route(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path
	parts := segments(path)

	switch {
	case req.Method == http.MethodGet && path == "/health":
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
		return
	case req.Method == http.MethodGet && path == "/metrics":
		metrics.NewHandler(r.deps.Metrics).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/jobs":
		r.deps.JobHandler.ListActive(w, req)
		return
	case req.Method == http.MethodGet && len(parts) == 2 && parts[0] == "jobs":
		r.deps.AuthMiddleware.OptionalAuthenticate(http.HandlerFunc(r.deps.JobHandler.Get)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && len(parts) == 4 && parts[0] == "internal" && parts[1] == "jobs" && parts[3] == "recount":
		r.deps.InternalHandler.RecountJob(w, req)
		return
	}

	if len(parts) > 0 && (parts[0] == "jobs" || parts[0] == "recruiters" || parts[0] == "applications") {
		r.deps.AuthMiddleware.Authenticate(http.HandlerFunc(r.handleProtected)).ServeHTTP(w, req)
		return
	}

	http.NotFound(w, req)
}

func (r *Router) handleProtected(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path
	parts := segments(path)
	jobs := r.deps.JobHandler
	apps := r.deps.ApplicationHandler

	switch {
	case req.Method == http.MethodPost && path == "/jobs":
		recruiterOrAdmin(http.HandlerFunc(jobs.Create)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/recruiters/jobs":
		recruiterOrAdmin(http.HandlerFunc(jobs.ListByRecruiter)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPatch && len(parts) == 3 && parts[0] == "jobs" && parts[2] == "status":
		recruiterOrAdmin(http.HandlerFunc(jobs.UpdateStatus)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && len(parts) == 3 && parts[0] == "jobs" && parts[2] == "bookmark":
		studentOnly(http.HandlerFunc(jobs.Bookmark)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodDelete && len(parts) == 3 && parts[0] == "jobs" && parts[2] == "bookmark":
		studentOnly(http.HandlerFunc(jobs.RemoveBookmark)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && len(parts) == 3 && parts[0] == "jobs" && parts[2] == "recount":
		adminOnly(http.HandlerFunc(jobs.Recount)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && path == "/applications":
		studentOnly(http.HandlerFunc(apps.Submit)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/applications":
		apps.List(w, req)
		return
	case req.Method == http.MethodGet && path == "/applications/stats":
		recruiterOrAdmin(http.HandlerFunc(apps.Stats)).ServeHTTP(w, req)
		return
	}

	if len(parts) < 2 || parts[0] != "applications" {
		http.NotFound(w, req)
		return
	}
	action := ""
	if len(parts) == 3 {
		action = parts[2]
	} else if len(parts) > 3 {
		http.NotFound(w, req)
		return
	}

	switch {
	case req.Method == http.MethodGet && action == "":
		apps.Get(w, req)
	case req.Method == http.MethodPatch && action == "status":
		recruiterOrAdmin(http.HandlerFunc(apps.UpdateStatus)).ServeHTTP(w, req)
	case req.Method == http.MethodPost && action == "interview":
		recruiterOrAdmin(http.HandlerFunc(apps.ScheduleInterview)).ServeHTTP(w, req)
	case req.Method == http.MethodPost && action == "withdraw":
		studentOnly(http.HandlerFunc(apps.Withdraw)).ServeHTTP(w, req)
	case req.Method == http.MethodPatch && action == "notes":
		apps.UpdateNotes(w, req)
	case req.Method == http.MethodPut && action == "feedback":
		recruiterOrAdmin(http.HandlerFunc(apps.SetFeedback)).ServeHTTP(w, req)
	default:
		http.NotFound(w, req)
	}
}
