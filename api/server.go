// Package api exposes the booking engine over HTTP for the local web UI.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/evdbrink/networth"
	"github.com/evdbrink/networth/store"
)

// Server serves the booking engine operations over HTTP.
type Server struct {
	store  *store.Store
	engine *networth.Engine
}

// NewServer creates the HTTP server on top of an open store.
func NewServer(st *store.Store) *Server {
	return &Server{
		store:  st,
		engine: networth.NewEngine(st, st, st),
	}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/rules", s.handleListRules)
		r.Get("/rules/conflicts", s.handleConflicts)
		r.Get("/bookings", s.handleListBookings)
		r.Get("/bookings/{id}", s.handleGetBooking)
		r.Post("/bookings", s.handleBuildBooking)
		r.Post("/bookings/{id}/resync", s.handleResyncBooking)
		r.Post("/bookings/{id}/review", s.handleReview)
		r.Post("/resync", s.handleResyncAll)
	})
	return r
}

func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.store.Rules()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, networth.RankRules(rules))
}

func (s *Server) handleConflicts(w http.ResponseWriter, r *http.Request) {
	rules, err := s.store.Rules()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, networth.DetectConflicts(rules))
}

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.store.Bookings()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	b, err := s.store.Booking(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// buildRequest is the payload for POST /api/bookings.
type buildRequest struct {
	LineID       string `json:"lineId"`
	OwnLedger    string `json:"ownLedger,omitempty"`
	ContraLedger string `json:"contraLedger,omitempty"`
}

func (s *Server) handleBuildBooking(w http.ResponseWriter, r *http.Request) {
	var req buildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	line, err := s.store.Line(req.LineID)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if _, exists, err := s.store.BookingForLine(line.ID); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	} else if exists {
		writeError(w, http.StatusConflict, errors.New("line already has a booking, use resync"))
		return
	}

	b, _, err := s.engine.BuildBooking(line, networth.BuildOptions{
		OwnLedger:    req.OwnLedger,
		ContraLedger: req.ContraLedger,
	})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if err := s.store.SaveBooking(b); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	bookingsBuilt.Inc()
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handleResyncBooking(w http.ResponseWriter, r *http.Request) {
	b, err := s.store.Booking(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if b.LineID == "" {
		writeError(w, http.StatusUnprocessableEntity, errors.New("booking has no source transaction line"))
		return
	}
	line, err := s.store.Line(b.LineID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	changed, err := s.engine.Resync(b, line)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if changed {
		if err := s.store.SaveBooking(b); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		bookingsResynced.Inc()
	}
	writeJSON(w, http.StatusOK, map[string]any{"changed": changed, "booking": b})
}

// resyncAllResponse reports a bulk resync run. Failures are isolated per
// line: the run continues past them.
type resyncAllResponse struct {
	Changed int               `json:"changed"`
	Errors  map[string]string `json:"errors,omitempty"` // line id -> error
}

func (s *Server) handleResyncAll(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.store.Bookings()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	var items []networth.ResyncItem
	resp := resyncAllResponse{Errors: map[string]string{}}
	for _, b := range bookings {
		if b.LineID == "" {
			continue
		}
		line, err := s.store.Line(b.LineID)
		if err != nil {
			resp.Errors[b.LineID] = err.Error()
			continue
		}
		items = append(items, networth.ResyncItem{Booking: b, Line: line})
	}

	changed, errs := s.engine.ResyncAll(items)
	for _, le := range errs {
		resp.Errors[le.LineID] = le.Err.Error()
	}
	for _, b := range changed {
		if err := s.store.SaveBooking(b); err != nil {
			resp.Errors[b.LineID] = err.Error()
			continue
		}
		resp.Changed++
		bookingsResynced.Inc()
	}
	if len(resp.Errors) == 0 {
		resp.Errors = nil
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	b, err := s.store.Booking(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	ok, reason := networth.CanMarkReviewed(b.Lines)
	if !ok {
		reviewRejections.Inc()
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"reviewed": false,
			"reason":   reason,
		})
		return
	}
	at := time.Now().UTC()
	if err := s.store.MarkReviewed(b.ID, at); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reviewed": true, "reviewedAt": at})
}

// statusFor maps engine errors to HTTP statuses: resolution and reference
// failures are the client's data to fix, not server faults.
func statusFor(err error) int {
	var resErr *networth.ResolutionError
	var refErr *networth.ReferenceError
	if errors.As(err, &resErr) || errors.As(err, &refErr) {
		return http.StatusUnprocessableEntity
	}
	if strings.Contains(err.Error(), "not found") {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
