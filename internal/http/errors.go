package httpapi

import (
	"errors"
	"net/http"

	"github.com/jagoanbunda/jagoanbunda-data/internal/service"

	"go.uber.org/zap"
)

const (
	msgUnauthenticated = "Unauthenticated."
	msgServerError     = "Terjadi kesalahan pada server."
	msgNotFound        = "Data tidak ditemukan."
	msgMalformedJSON   = "Format data tidak valid."
)

// ErrorWriter maps service errors onto responses and reports the unexpected
// ones.
type ErrorWriter struct {
	reporter *service.ErrorReporter
	logger   *zap.Logger
}

func NewErrorWriter(reporter *service.ErrorReporter, logger *zap.Logger) *ErrorWriter {
	return &ErrorWriter{reporter: reporter, logger: logger}
}

// Write sends the response for err.
func (e *ErrorWriter) Write(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *service.ValidationError
		be *service.BusinessError
		nf *service.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorBody{Message: ve.Message(), Errors: ve.Fields})
	case errors.As(err, &be):
		writeJSON(w, be.Status, ErrorBody{Message: be.Message, Code: be.Code})
	case errors.As(err, &nf):
		writeJSON(w, http.StatusNotFound, Fail(nf.Message))
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, Fail(msgNotFound))
	case errors.Is(err, service.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, Fail(msgUnauthenticated))
	case errors.Is(err, errMalformedJSON):
		writeJSON(w, http.StatusBadRequest, Fail(msgMalformedJSON))
	default:
		e.logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Error(err),
		)
		e.reporter.Enqueue(r.Context(), err, requestInfo(r))
		writeJSON(w, http.StatusInternalServerError, Fail(msgServerError))
	}
}

func requestInfo(r *http.Request) *service.RequestInfo {
	return &service.RequestInfo{Method: r.Method, URL: r.URL.String(), Headers: r.Header}
}
