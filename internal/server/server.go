// Package server exposes the section check over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/alexiusacademia/rccheck/internal/api"
	"github.com/alexiusacademia/rccheck/internal/batch"
	"github.com/alexiusacademia/rccheck/internal/config"
	"github.com/alexiusacademia/rccheck/internal/version"
)

const shutdownTimeout = 5 * time.Second

// Server serves the calc and report endpoints.
type Server struct {
	cfg       config.Config
	evaluator batch.Evaluator
	limiter   *IPRateLimiter
	router    *mux.Router
}

// New builds a server and its routes.
func New(cfg config.Config) *Server {
	s := &Server{
		cfg:       cfg,
		evaluator: batch.Evaluator{Workers: cfg.Workers},
		limiter:   NewIPRateLimiter(rate.Limit(cfg.Rate), cfg.Burst),
		router:    mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(requestLog)
	s.router.HandleFunc("/healthz", s.health).Methods("GET")

	beamAPI := s.router.PathPrefix("/api/beam").Subrouter()
	beamAPI.Use(s.limiter.LimitMiddleware)

	beamAPI.HandleFunc("", s.dispatch).Methods("POST")
	beamAPI.HandleFunc("/calc", s.calc).Methods("POST")
	beamAPI.HandleFunc("/report", s.report).Methods("POST")
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens on the configured address until ctx is done, then shuts
// down, giving active requests a few seconds to finish.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.limiter.cleanup(ctx, sweepInterval, clientIdle)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[rccheck] listening on %s", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("[rccheck] shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Println("[rccheck] server stopped")
	return <-errCh
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	req, ok := decode(w, r)
	if !ok {
		return
	}
	out, err := api.Handle(r.Context(), s.evaluator, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) calc(w http.ResponseWriter, r *http.Request) {
	req, ok := decode(w, r)
	if !ok {
		return
	}
	entries, err := api.Calc(r.Context(), s.evaluator, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if entries == nil {
		entries = []batch.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) report(w http.ResponseWriter, r *http.Request) {
	req, ok := decode(w, r)
	if !ok {
		return
	}
	bundle, err := api.Report(req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusServiceUnavailable
	}
	log.Printf("[rccheck] %s %s: %v", requestID(r), r.URL.Path, err)
	writeError(w, status, err.Error())
}

func decode(w http.ResponseWriter, r *http.Request) (api.Request, bool) {
	req, err := api.DecodeJSON(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return api.Request{}, false
	}
	return req, true
}

// writeJSON encodes v before sending the status; an encoding failure
// is answered with 500 and a JSON error body.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.Printf("[rccheck] failed to encode response: %v", err)
		buf.Reset()
		status = http.StatusInternalServerError
		json.NewEncoder(&buf).Encode(api.ErrorResponse{Error: "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("[rccheck] failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, api.ErrorResponse{Error: msg})
}

type ctxKey struct{}

// requestLog tags each request with an id and logs it once served.
func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, id))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		log.Printf("[rccheck] %s %s %s %d %s", id, r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond))
	})
}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(ctxKey{}).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
