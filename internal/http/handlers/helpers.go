package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"jobboard/internal/common"
	"jobboard/internal/domain/user"
	"jobboard/internal/http/middleware"
)

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return common.NewValidationError("request body is required", nil)
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return common.NewValidationError("request body is too large", nil)
		}
		return common.NewValidationError("invalid json", nil)
	}
	return nil
}

// idFromPath parses the path segment at index, e.g. index 1 of /jobs/{id}.
func idFromPath(r *http.Request, index int) (common.UUID, error) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if index >= len(parts) {
		return "", common.NewValidationError("invalid path", map[string]string{"id": "id is required"})
	}
	id, err := common.ParseUUID(parts[index])
	if err != nil {
		return "", common.NewValidationError("invalid path", map[string]string{"id": "invalid uuid"})
	}
	return id, nil
}

func optionalUUID(r *http.Request, key string) (common.UUID, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return "", nil
	}
	id, err := common.ParseUUID(value)
	if err != nil {
		return "", common.NewValidationError("invalid "+key, map[string]string{key: "invalid uuid"})
	}
	return id, nil
}

func queryInt(r *http.Request, key string, fallback int) int {
	if value := r.URL.Query().Get(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func principalFromRequest(r *http.Request) (user.Principal, error) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		return user.Principal{}, errUnauthorized()
	}
	return principal, nil
}

func errUnauthorized() error {
	return common.NewError(common.CodeUnauthorized, "unauthorized", nil)
}
