package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// HandlerDeps are shared by every handler.
type HandlerDeps struct {
	Errors       *ErrorWriter
	Logger       *zap.Logger
	MaxBodyBytes int64
}

type handlerBase struct {
	errs    *ErrorWriter
	logger  *zap.Logger
	maxBody int64
}

func newBase(d HandlerDeps) handlerBase {
	maxBody := d.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}
	return handlerBase{errs: d.Errors, logger: d.Logger, maxBody: maxBody}
}

func (b handlerBase) fail(w http.ResponseWriter, r *http.Request, err error) {
	b.errs.Write(w, r, err)
}

// decode reads the JSON body into out, answering 400 itself on failure.
func (b handlerBase) decode(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := readBodyJSON(r, b.maxBody, out); err != nil {
		b.fail(w, r, err)
		return false
	}
	return true
}

// id reads a numeric path value, answering 404 itself when it is not one.
func (b handlerBase) id(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	v, ok := pathID(r, name)
	if !ok {
		writeJSON(w, http.StatusNotFound, Fail(msgNotFound))
	}
	return v, ok
}

// ids reads two path values.
func (b handlerBase) ids(w http.ResponseWriter, r *http.Request, a, c string) (int64, int64, bool) {
	x, ok := b.id(w, r, a)
	if !ok {
		return 0, 0, false
	}
	y, ok := b.id(w, r, c)
	return x, y, ok
}
