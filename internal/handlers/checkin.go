package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/lojf/kidsdesk/internal/rooms"
)

type presentRow struct {
	Name     string `json:"name"`
	Age      string `json:"age"`
	Room     string `json:"room"`
	Since    string `json:"since"`
	Guardian string `json:"guardian"`
	Phone    string `json:"phone"`
	Allergy  string `json:"allergy,omitempty"`
}

// GET /api/checkins
func (h *Handler) CheckedIn(w http.ResponseWriter, r *http.Request) {
	present, err := h.Store.CheckedIn()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	room := strings.TrimSpace(r.URL.Query().Get("room"))

	rows := make([]presentRow, 0, len(present))
	for _, p := range present {
		if room != "" && !strings.EqualFold(p.Room, room) {
			continue
		}
		row := presentRow{
			Name:     p.Child.Name,
			Age:      p.Child.Age,
			Room:     p.Room,
			Since:    fmtTime(p.Since, h.Store.Location()),
			Guardian: p.Child.Guardian(),
			Phone:    p.Child.Phone,
		}
		// monitors need to see allergies at a glance
		if p.Child.HasAllergy() {
			row.Allergy = p.Child.Allergy
		}
		rows = append(rows, row)
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "count": len(rows), "children": rows})
}

// POST /api/checkins/{name}
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	e, err := h.Store.CheckIn(nameParam(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"ok":         true,
		"name":       e.ChildName,
		"room":       e.Room,
		"checked_in": fmtTime(e.CheckinAt, h.Store.Location()),
		"assigned":   e.Room != string(rooms.Unassigned),
	})
}

// DELETE /api/checkins/{name}
func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	e, err := h.Store.CheckOut(nameParam(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp := map[string]any{
		"ok":         true,
		"name":       e.ChildName,
		"room":       e.Room,
		"checked_in": fmtTime(e.CheckinAt, h.Store.Location()),
	}
	if e.CheckoutAt != nil {
		resp["checked_out"] = fmtTime(*e.CheckoutAt, h.Store.Location())
		if !e.CheckinAt.IsZero() {
			resp["minutes"] = int(e.CheckoutAt.Sub(e.CheckinAt) / time.Minute)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /api/rooms?age=
func (h *Handler) Rooms(w http.ResponseWriter, r *http.Request) {
	if age := r.URL.Query().Get("age"); age != "" {
		room, ok := rooms.ForAge(age)
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "age": age, "room": room, "assigned": ok})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "rooms": rooms.All()})
}
