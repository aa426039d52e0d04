// Package handlers exposes the record store, the reports and the SQLite
// mirror as a small JSON API for front ends.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/lojf/kidsdesk/internal/db"
	"github.com/lojf/kidsdesk/internal/reports"
	"github.com/lojf/kidsdesk/internal/store"
)

type Handler struct {
	Store   *store.Store
	Reports *reports.Service
	Mirror  *db.Mirror // nil when the mirror is disabled
	BaseURL string     // public URL used in QR badges; request host when empty
	Log     *zap.Logger
}

func New(st *store.Store, rep *reports.Service, mirror *db.Mirror, baseURL string, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Store: st, Reports: rep, Mirror: mirror, BaseURL: strings.TrimRight(baseURL, "/"), Log: log}
}

func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	OK      bool               `json:"ok"`
	Error   string             `json:"error"`
	Message string             `json:"message"`
	Fields  []store.FieldError `json:"fields,omitempty"`
}

// statusOf maps a store error kind to an HTTP status.
func statusOf(k store.Kind) int {
	switch k {
	case store.KindNotFound:
		return http.StatusNotFound
	case store.KindValidation:
		return http.StatusUnprocessableEntity
	case store.KindAmbiguous, store.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// fail writes err as a JSON error body. Store errors keep their kind and
// human message; report parameter errors are 400s.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, reports.ErrUnknownReport):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not_found", Message: err.Error()})
		return
	case errors.Is(err, reports.ErrBadParam):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad_request", Message: err.Error()})
		return
	}

	k := store.KindOf(err)
	status := statusOf(k)
	kind := k.String()
	if k == 0 {
		kind = "internal"
	}
	if status >= 500 {
		h.Log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeJSON(w, status, errorBody{Error: kind, Message: store.Message(err), Fields: store.FieldsOf(err)})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad_request", Message: msg})
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
