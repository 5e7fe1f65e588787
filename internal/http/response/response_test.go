package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/common"
)

type countingCollector struct{ errors int }

func (c *countingCollector) IncErrors() { c.errors++ }

func TestErrorRendersCodeAndFields(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, common.NewValidationError("invalid request", map[string]string{"cover_letter": "too long"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Error struct {
			Code    string            `json:"code"`
			Message string            `json:"message"`
			Fields  map[string]string `json:"fields"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation", body.Error.Code)
	assert.Equal(t, "too long", body.Error.Fields["cover_letter"])
}

func TestErrorHidesInternalCauses(t *testing.T) {
	collector := &countingCollector{}
	SetErrorCollector(collector)
	t.Cleanup(func() { SetErrorCollector(nil) })

	rec := httptest.NewRecorder()
	Error(rec, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
	assert.Equal(t, 1, collector.errors)
}

func TestStatusFor(t *testing.T) {
	cases := map[common.Code]int{
		common.CodeNotFound:          http.StatusNotFound,
		common.CodeForbidden:         http.StatusForbidden,
		common.CodeUnauthorized:      http.StatusUnauthorized,
		common.CodeConflict:          http.StatusConflict,
		common.CodeInvalidState:      http.StatusUnprocessableEntity,
		common.CodeExpired:           http.StatusGone,
		common.CodeInvalidStatus:     http.StatusBadRequest,
		common.CodeInvalidTransition: http.StatusUnprocessableEntity,
		common.CodeValidation:        http.StatusBadRequest,
		common.CodeRateLimited:       http.StatusTooManyRequests,
		common.CodeInternal:          http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, StatusFor(code), code)
	}
}
