package handler

import (
	"net/http"
)

func NewRouter(app *AppContext) *http.ServeMux {
	mux := http.NewServeMux()

	// Error route
	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	// Align jobs
	mux.HandleFunc("POST /align", app.AlignSubmitHandler)
	mux.HandleFunc("GET /align/{job_id}", app.AlignStatusHandler)

	// Spots
	mux.HandleFunc("GET /spot/{spot_id}", app.SpotHandler)
	mux.HandleFunc("GET /spot/{spot_id}/identical", app.SpotIdenticalHandler)

	// Sequences
	mux.HandleFunc("GET /sequence/targets", app.GetTargetsHandler)
	mux.HandleFunc("GET /sequence/by-family", app.GetFamilySequenceHandler)

	// API routes
	mux.HandleFunc("GET /api/v1/health", app.HealthCheck)

	return mux
}
