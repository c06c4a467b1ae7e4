package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/jagoanbunda/jagoanbunda-data/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestErrorWriter_Mapping(t *testing.T) {
	var events atomic.Int32
	tracker := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		events.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer tracker.Close()
	reporter := service.NewErrorReporter(service.ErrorReporterConfig{DSN: tracker.URL, SampleRate: 1}, zap.NewNop())
	errs := NewErrorWriter(reporter, zap.NewNop())

	tests := []struct {
		name    string
		err     error
		status  int
		message string
		code    string
	}{
		{"validation", service.Invalid("name", "Nama wajib diisi."), http.StatusUnprocessableEntity, "Nama wajib diisi.", ""},
		{"business", &service.BusinessError{Status: http.StatusForbidden, Message: service.MsgNakesWebOnly, Code: service.CodeNakesWebOnly}, http.StatusForbidden, service.MsgNakesWebOnly, service.CodeNakesWebOnly},
		{"typed not found", service.NotFound(service.MsgChildNotFound), http.StatusNotFound, service.MsgChildNotFound, ""},
		{"wrapped not found", fmt.Errorf("get food: %w", service.ErrNotFound), http.StatusNotFound, msgNotFound, ""},
		{"unauthenticated", service.ErrUnauthenticated, http.StatusUnauthorized, msgUnauthenticated, ""},
		{"malformed", errMalformedJSON, http.StatusBadRequest, msgMalformedJSON, ""},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, msgServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			errs.Write(rec, httptest.NewRequest(http.MethodGet, "/api/v1/children", nil), tt.err)
			assert.Equal(t, tt.status, rec.Code)
			var body ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body.Message)
			assert.Equal(t, tt.code, body.Code)
		})
	}
	require.True(t, reporter.Flush(context.Background()))
	assert.Equal(t, int32(1), events.Load(), "only the unexpected error is reported")
}

func TestErrorWriter_ValidationFields(t *testing.T) {
	v := &service.ValidationError{}
	v.Add("email", "Email wajib diisi.")
	v.Add("password", "Password minimal 8 karakter.")

	rec := httptest.NewRecorder()
	testErrors().Write(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", nil), v)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody[ErrorBody](t, rec)
	assert.Equal(t, "Email wajib diisi.", body.Message)
	assert.Equal(t, []string{"Password minimal 8 karakter."}, body.Errors["password"])
}
