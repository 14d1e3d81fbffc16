package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cruxstack/find-my-rep-go/internal/lookup"
	"github.com/cruxstack/find-my-rep-go/internal/sender"
	"github.com/cruxstack/find-my-rep-go/internal/transports"
	"github.com/cruxstack/find-my-rep-go/internal/types"
)

const maxBodyBytes = 1 << 20

const (
	msgBadRequest   = "Invalid request."
	msgSendInternal = "Unable to process your letter right now."
)

// RepresentativeFinder resolves a postcode to its representatives.
type RepresentativeFinder interface {
	Lookup(ctx context.Context, postcode string) ([]types.Representative, error)
}

// Server exposes the lookup and letter endpoints used by the widget.
type Server struct {
	Sender   *sender.Sender
	Finder   RepresentativeFinder
	Template string

	router  chi.Router
	adapter *httpadapter.HandlerAdapterV2
}

func New(s *sender.Sender, f RepresentativeFinder, letterTemplate string) *Server {
	srv := &Server{
		Sender:   s,
		Finder:   f,
		Template: letterTemplate,
	}
	srv.router = srv.routes()
	srv.adapter = httpadapter.NewV2(srv)
	return srv
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/template", s.handleTemplate)
		r.Post("/representatives", s.handleRepresentatives)
		r.Post("/letters", s.handleLetters)
	})

	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response mirrors the {success, data} envelope the widget expects.
type Response struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type MessageData struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
	Partial bool     `json:"partial,omitempty"`
}

type representativesRequest struct {
	Postcode string `json:"postcode"`
}

func (s *Server) handleRepresentatives(w http.ResponseWriter, r *http.Request) {
	var req representativesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Data: MessageData{Message: msgBadRequest}})
		return
	}

	reps, err := s.Finder.Lookup(r.Context(), req.Postcode)
	if err != nil {
		slog.InfoContext(r.Context(), "representative lookup rejected", "error", err)
		writeJSON(w, http.StatusOK, Response{Data: MessageData{Message: lookup.Message(err)}})
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Data: reps})
}

func (s *Server) handleLetters(w http.ResponseWriter, r *http.Request) {
	var req sender.LetterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Data: MessageData{Message: msgBadRequest}})
		return
	}

	outcome, err := s.Sender.SendLetter(r.Context(), req)
	if err != nil {
		if re, ok := sender.IsRequestError(err); ok {
			writeJSON(w, http.StatusOK, Response{Data: MessageData{Message: re.Message}})
			return
		}
		slog.ErrorContext(r.Context(), "letter submission failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, Response{Data: MessageData{Message: msgSendInternal}})
		return
	}

	writeJSON(w, http.StatusOK, letterResponse(outcome))
}

func letterResponse(o types.DispatchOutcome) Response {
	switch o.Status() {
	case types.StatusComplete:
		return Response{Success: true, Data: MessageData{Message: o.Summary()}}
	case types.StatusPartial:
		return Response{Success: true, Data: MessageData{Message: o.Summary(), Errors: o.Errors, Partial: true}}
	default:
		return Response{Data: MessageData{Message: o.Summary(), Errors: o.Errors}}
	}
}

type templateData struct {
	Template string `json:"template"`
}

func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: templateData{Template: s.Template}})
}

type healthData struct {
	Status    string `json:"status"`
	Transport string `json:"transport"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	t := s.Sender.Transport
	if hc, ok := t.(transports.HealthChecker); ok && !hc.IsHealthy(r.Context()) {
		writeJSON(w, http.StatusServiceUnavailable, healthData{Status: "unhealthy", Transport: t.Name()})
		return
	}
	writeJSON(w, http.StatusOK, healthData{Status: "healthy", Transport: t.Name()})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			slog.WarnContext(r.Context(), "request body too large", "limit", mbe.Limit)
		}
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.InfoContext(r.Context(), "request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
