package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/lojf/kidsdesk/internal/reports"
)

// GET /api/reports
func (h *Handler) ReportNames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "reports": reports.Names()})
}

// GET /api/reports/{report}?date=YYYY-MM-DD&month=M&save=1
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	month, ok := parseMonth(q.Get("month"))
	if !ok {
		badRequest(w, "month must be a number from 1 to 12")
		return
	}
	res, err := h.Reports.Run(chi.URLParam(r, "report"), reports.Params{
		Date:  strings.TrimSpace(q.Get("date")),
		Month: month,
		Save:  truthy(q.Get("save")),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "result": res})
}

// GET /api/reports/{report}/history
func (h *Handler) ReportHistory(w http.ResponseWriter, r *http.Request) {
	t, err := h.Reports.HistoryTable(chi.URLParam(r, "report"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "history": t})
}

// GET /api/reports/{report}/history.csv
func (h *Handler) ReportHistoryCSV(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "report")
	t, err := h.Reports.HistoryTable(name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	filename := fmt.Sprintf("%s-history-%s.csv", name, h.Store.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	if err := reports.WriteCSV(w, t); err != nil {
		h.Log.Warn("csv export interrupted", zap.String("report", name), zap.Error(err))
	}
}

// GET /api/reports/{report}/history.xlsx
func (h *Handler) ReportHistoryXLSX(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "report")
	t, err := h.Reports.HistoryTable(name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	buf, err := reports.XLSX(name, t)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	filename := fmt.Sprintf("%s-history-%s.xlsx", name, h.Store.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	_, _ = w.Write(buf.Bytes())
}

// DELETE /api/reports/history
func (h *Handler) ClearReportHistory(w http.ResponseWriter, r *http.Request) {
	n, err := h.Reports.ClearHistory()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "removed": n})
}
