package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"olympiad-service/internal/app"
	"olympiad-service/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter mounts the REST endpoints and the websocket attempt channel.
func NewRouter(service *app.OlympiadService, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	api := NewAPIHandler(service)
	r.Route("/api", func(ar chi.Router) {
		// REST calls are short; the websocket below is not.
		ar.Use(middleware.Timeout(15 * time.Second))
		ar.Get("/banks/{bankID}", api.GetBank)
		ar.Get("/attempts/{attemptID}", api.GetAttempt)
	})

	r.Get("/ws", NewWSHandler(service).ServeWS)
	return r
}

// APIHandler serves read-only JSON views.
type APIHandler struct {
	service *app.OlympiadService
}

func NewAPIHandler(service *app.OlympiadService) *APIHandler {
	return &APIHandler{service: service}
}

// GetBank returns the answer-free bank summary.
func (h *APIHandler) GetBank(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Describe(r.Context(), chi.URLParam(r, "bankID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

type attemptResponse struct {
	View   app.View       `json:"view"`
	Result *domain.Result `json:"result,omitempty"`
}

// GetAttempt returns the live view of an attempt and its result once completed.
func (h *APIHandler) GetAttempt(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Attempt(chi.URLParam(r, "attemptID"))
	if err != nil {
		respondError(w, err)
		return
	}
	resp := attemptResponse{View: session.View()}
	if result, ok := session.Result(); ok {
		resp.Result = &result
	}
	respondJSON(w, http.StatusOK, resp)
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}

func respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("request failed: %v", err)
	}
	respondJSON(w, status, errorPayload{Message: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrBankNotFound), errors.Is(err, domain.ErrAttemptNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidBank):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidOption), errors.Is(err, domain.ErrInvalidIndex):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
