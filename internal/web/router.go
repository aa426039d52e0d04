package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lojf/kidsdesk/internal/handlers"
)

func Router(h *handlers.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handlers.Health)

	// Badge image
	r.Get("/qr/{name}", h.ChildQR)

	r.Route("/api", func(ar chi.Router) {
		// Registry
		ar.Get("/children", h.ListChildren)
		ar.Post("/children", h.CreateChild)
		ar.Post("/visitors", h.CreateVisitor)
		ar.Get("/children/{name}", h.GetChild)
		ar.Put("/children/{name}", h.UpdateChild)
		ar.Delete("/children/{name}", h.DeleteChild)
		ar.Get("/children/{name}/matches", h.ChildMatches)
		ar.Post("/children/{name}/fuzzy-delete", h.FuzzyDelete)
		ar.Get("/children/{name}/checkins", h.ChildHistory)

		// Ledger
		ar.Get("/checkins", h.CheckedIn)
		ar.Post("/checkins/{name}", h.CheckIn)
		ar.Delete("/checkins/{name}", h.CheckOut)

		ar.Get("/rooms", h.Rooms)

		// Reports
		ar.Get("/reports", h.ReportNames)
		ar.Delete("/reports/history", h.ClearReportHistory)
		ar.Get("/reports/{report}", h.Report)
		ar.Get("/reports/{report}/history", h.ReportHistory)
		ar.Get("/reports/{report}/history.csv", h.ReportHistoryCSV)
		ar.Get("/reports/{report}/history.xlsx", h.ReportHistoryXLSX)
	})

	r.Route("/admin", func(ad chi.Router) {
		ad.Post("/mirror", h.SyncMirror)
		ad.Get("/occupancy", h.Occupancy)
	})

	return r
}
