package handlers

import (
	"net/http"
)

func (h *Handler) mirrorOff(w http.ResponseWriter) bool {
	if h.Mirror != nil {
		return false
	}
	writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "mirror_disabled", Message: "The SQLite mirror is not enabled."})
	return true
}

// POST /admin/mirror
func (h *Handler) SyncMirror(w http.ResponseWriter, r *http.Request) {
	if h.mirrorOff(w) {
		return
	}
	children, err := h.Store.List()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	events, err := h.Store.Events()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	st, err := h.Mirror.Sync(children, events)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "sync": st})
}

// GET /admin/occupancy
func (h *Handler) Occupancy(w http.ResponseWriter, r *http.Request) {
	if h.mirrorOff(w) {
		return
	}
	rows, err := h.Mirror.Occupancy()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var present, visits int64
	for _, o := range rows {
		present += o.Present
		visits += o.Visits
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"rooms":   rows,
		"present": present,
		"visits":  visits,
	})
}
