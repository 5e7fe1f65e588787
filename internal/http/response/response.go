package response

import (
	"encoding/json"
	"net/http"

	"jobboard/internal/common"
)

// ErrorCounter is notified of every 5xx response.
type ErrorCounter interface {
	IncErrors()
}

var errorCounter ErrorCounter

func SetErrorCollector(counter ErrorCounter) {
	errorCounter = counter
}

type errorBody struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Code    common.Code       `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// Error renders err as the standard error body. Causes are never rendered.
func Error(w http.ResponseWriter, err error) {
	appErr, ok := common.AsError(err)
	if !ok {
		appErr = &common.Error{Code: common.CodeInternal, Message: "internal error"}
	}
	status := StatusFor(appErr.Code)
	if status >= http.StatusInternalServerError && errorCounter != nil {
		errorCounter.IncErrors()
	}
	message := appErr.Message
	if status >= http.StatusInternalServerError {
		message = "internal error"
	}
	JSON(w, status, errorBody{Error: errorPayload{Code: appErr.Code, Message: message, Fields: appErr.Fields}})
}

func StatusFor(code common.Code) int {
	switch code {
	case common.CodeNotFound:
		return http.StatusNotFound
	case common.CodeForbidden:
		return http.StatusForbidden
	case common.CodeUnauthorized:
		return http.StatusUnauthorized
	case common.CodeConflict:
		return http.StatusConflict
	case common.CodeInvalidState, common.CodeInvalidTransition:
		return http.StatusUnprocessableEntity
	case common.CodeExpired:
		return http.StatusGone
	case common.CodeInvalidStatus, common.CodeValidation:
		return http.StatusBadRequest
	case common.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
