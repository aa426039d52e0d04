package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lojf/kidsdesk/internal/models"
)

func nameParam(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if s, err := url.PathUnescape(raw); err == nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(raw)
}

// GET /api/children?q=&phone=
func (h *Handler) ListChildren(w http.ResponseWriter, r *http.Request) {
	var (
		list []models.Child
		err  error
	)
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	phone := strings.TrimSpace(r.URL.Query().Get("phone"))
	switch {
	case phone != "":
		list, err = h.Store.FindByPhone(phone)
	case q != "":
		list, err = h.Store.Search(q)
	default:
		list, err = h.Store.List()
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "children": list})
}

// POST /api/children
func (h *Handler) CreateChild(w http.ResponseWriter, r *http.Request) {
	var c models.Child
	if err := decode(r, &c); err != nil {
		badRequest(w, "invalid JSON body: "+err.Error())
		return
	}
	saved, err := h.Store.Add(c)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "child": saved})
}

// POST /api/visitors
func (h *Handler) CreateVisitor(w http.ResponseWriter, r *http.Request) {
	var c models.Child
	if err := decode(r, &c); err != nil {
		badRequest(w, "invalid JSON body: "+err.Error())
		return
	}
	saved, err := h.Store.AddVisitor(c)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "child": saved})
}

// GET /api/children/{name}
func (h *Handler) GetChild(w http.ResponseWriter, r *http.Request) {
	c, err := h.Store.Get(nameParam(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	in, err := h.Store.IsCheckedIn(c.Name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "child": c, "checked_in": in})
}

// PUT /api/children/{name}
func (h *Handler) UpdateChild(w http.ResponseWriter, r *http.Request) {
	var c models.Child
	if err := decode(r, &c); err != nil {
		badRequest(w, "invalid JSON body: "+err.Error())
		return
	}
	saved, err := h.Store.Update(nameParam(r), c)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "child": saved})
}

// DELETE /api/children/{name}
func (h *Handler) DeleteChild(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Delete(nameParam(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// GET /api/children/{name}/matches
func (h *Handler) ChildMatches(w http.ResponseWriter, r *http.Request) {
	list, err := h.Store.FuzzyMatches(nameParam(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "candidates": list})
}

// POST /api/children/{name}/fuzzy-delete  {"confirm": "<exact name>"}
func (h *Handler) FuzzyDelete(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Confirm string `json:"confirm"`
	}
	if err := decode(r, &body); err != nil {
		badRequest(w, "invalid JSON body: "+err.Error())
		return
	}
	if strings.TrimSpace(body.Confirm) == "" {
		badRequest(w, "confirm must name the record to delete")
		return
	}
	if err := h.Store.DeleteFuzzy(nameParam(r), body.Confirm); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "deleted": body.Confirm})
}

// GET /api/children/{name}/checkins
func (h *Handler) ChildHistory(w http.ResponseWriter, r *http.Request) {
	name := nameParam(r)
	if _, err := h.Store.Get(name); err != nil {
		h.fail(w, r, err)
		return
	}
	events, err := h.Store.History(name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "checkins": events})
}
