package service

import (
	"errors"
	"net/http"
	"sort"
	"strings"
	"unicode/utf8"
)

// ValidationError is a 422 with per-field messages.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Message is the first field message, used as the response's top-level message.
func (e *ValidationError) Message() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if len(e.Fields[k]) > 0 {
			return e.Fields[k][0]
		}
	}
	return "Data yang diberikan tidak valid."
}

// Add records msg for field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// OrNil returns e when it holds at least one message.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Invalid builds a single-field ValidationError.
func Invalid(field, msg string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, msg)
	return v
}

// chars counts characters, not bytes, for the "maksimal N karakter" limits.
func chars(s string) int {
	return utf8.RuneCountInString(s)
}

// BusinessError is a rule violation reported with a fixed user-facing message.
type BusinessError struct {
	Status  int
	Message string
	Code    string
}

func (e *BusinessError) Error() string { return e.Message }

func Forbidden(msg string) *BusinessError {
	return &BusinessError{Status: http.StatusForbidden, Message: msg}
}

func Unprocessable(msg string) *BusinessError {
	return &BusinessError{Status: http.StatusUnprocessableEntity, Message: msg}
}

// NotFoundError is a 404 with a user-facing message. It matches ErrNotFound.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ErrNotFound matches every NotFoundError.
var ErrNotFound = errors.New("not found")

func NotFound(msg string) *NotFoundError { return &NotFoundError{Message: msg} }

// ErrUnauthenticated is returned for missing, invalid or revoked credentials.
var ErrUnauthenticated = errors.New("unauthenticated")

// Fixed messages shared across services.
const (
	MsgChildForbidden       = "Anda tidak memiliki akses ke data anak ini"
	MsgChildNotFound        = "Data anak tidak ditemukan"
	MsgScreeningNotFound    = "Data screening tidak ditemukan"
	MsgScreeningCompleted   = "Screening sudah selesai dan tidak dapat diubah"
	MsgNoQuestionnaire      = "Tidak ada kuesioner yang sesuai untuk usia anak"
	MsgMeasurementNotFound  = "Data pengukuran tidak ditemukan"
	MsgFoodNotFound         = "Makanan tidak ditemukan"
	MsgFoodLogNotFound      = "Catatan makan tidak ditemukan"
	MsgPmtAlreadyLogged     = "PMT sudah tercatat untuk jadwal ini"
	MsgPmtLogNotFound       = "Log PMT tidak ditemukan"
	MsgPmtScheduleForbidden = "Anda tidak memiliki akses ke jadwal PMT ini"
	MsgPmtScheduleNotFound  = "Jadwal PMT tidak ditemukan"
	MsgPastDate             = "Tanggal tidak boleh di masa lalu."
	MsgActiveProgramExists  = "Anak ini sudah memiliki program PMT aktif."
	MsgProgramNotActive     = "Program ini tidak dalam status aktif."
	MsgProgramNotFound      = "Program PMT tidak ditemukan"
	MsgInterventionNotFound = "Intervensi tidak ditemukan"
	MsgNotificationNotFound = "Notifikasi tidak ditemukan"
	MsgUserNotFound         = "Pengguna tidak ditemukan"
	MsgBadCredentials       = "Email atau password salah."
	MsgNakesWebOnly         = "Akun tenaga kesehatan hanya dapat login melalui web."
	MsgParentAPIOnly        = "Akses ditolak. API hanya untuk orang tua."
	MsgParentMobileOnly     = "Akun orang tua hanya dapat login melalui aplikasi mobile."
	MsgNakesOnly            = "Akses ditolak. Halaman ini hanya untuk tenaga kesehatan."
)

// Error codes carried by cross-surface rejections.
const (
	CodeNakesWebOnly  = "NAKES_WEB_ONLY"
	CodeParentAPIOnly = "PARENT_API_ONLY"
)
