package handlers

import (
	"net/http"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// GET /qr/{name}.png
//
// The badge encodes the check-in URL, so a scanner at the door can POST to it.
func (h *Handler) ChildQR(w http.ResponseWriter, r *http.Request) {
	// the suffix is stripped here because names may contain dots
	name, ok := strings.CutSuffix(nameParam(r), ".png")
	if !ok || name == "" {
		http.NotFound(w, r)
		return
	}
	// ensure the child exists
	c, err := h.Store.Get(name)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	base := h.BaseURL
	if base == "" {
		base = "http://" + r.Host
	}
	link := base + "/api/checkins/" + url.PathEscape(c.Name)

	png, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "failed to generate qr", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
