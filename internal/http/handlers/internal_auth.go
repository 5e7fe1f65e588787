package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"jobboard/internal/http/response"
)

const (
	internalAuthHeader    = "Authorization"
	internalAuthAltHeader = "X-Internal-Key"
)

// InternalHandler serves service-to-service maintenance endpoints guarded by a
// shared key instead of a user token.
type InternalHandler struct {
	jobs        *JobHandler
	internalKey string
}

func NewInternalHandler(jobs *JobHandler, internalKey string) *InternalHandler {
	return &InternalHandler{jobs: jobs, internalKey: internalKey}
}

// RecountJob handles /internal/jobs/{id}/recount.
func (h *InternalHandler) RecountJob(w http.ResponseWriter, r *http.Request) {
	if !requireInternalAuth(w, r, h.internalKey) {
		return
	}
	h.jobs.recount(w, r, 2)
}

func requireInternalAuth(w http.ResponseWriter, r *http.Request, internalKey string) bool {
	key := strings.TrimSpace(internalKey)
	if key == "" {
		response.Error(w, errUnauthorized())
		return false
	}
	altValue := strings.TrimSpace(r.Header.Get(internalAuthAltHeader))
	value := strings.TrimSpace(r.Header.Get(internalAuthHeader))
	if secureEqual(altValue, key) || secureEqual(value, "Bearer "+key) {
		return true
	}
	response.Error(w, errUnauthorized())
	return false
}

func secureEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
