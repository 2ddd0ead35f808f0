package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ctf-hub/ctfbot/internal/application/dispatch"
	appJournal "github.com/ctf-hub/ctfbot/internal/application/journal"
	"github.com/ctf-hub/ctfbot/internal/domain/journal"
	"github.com/ctf-hub/ctfbot/internal/domain/webhook"
)

const maxWebhookBody = 1 << 20

// Server holds dependencies for HTTP handlers.
type Server struct {
	dispatcher        *dispatch.Dispatcher
	journalSvc        *appJournal.Service
	verificationToken string
	logger            zerolog.Logger
}

// NewServer wires the HTTP surface. journalSvc may be nil when the journal
// is disabled.
func NewServer(
	dispatcher *dispatch.Dispatcher,
	journalSvc *appJournal.Service,
	verificationToken string,
	logger zerolog.Logger,
) *Server {
	return &Server{
		dispatcher:        dispatcher,
		journalSvc:        journalSvc,
		verificationToken: verificationToken,
		logger:            logger.With().Str("service", "http").Logger(),
	}
}

// Router builds the HTTP router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.healthz)
	r.Post("/webhook/event", s.webhookEvent)

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.requireToken)
		r.Get("/events", s.listEvents)
		r.Get("/journal", s.listJournal)
	})

	return r
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) webhookEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "failed to read body")
		return
	}
	res, err := s.dispatcher.Handle(r.Context(), body)
	if err != nil {
		status, code := webhookErrorStatus(err)
		logEvent := s.logger.Warn()
		if status >= http.StatusInternalServerError {
			logEvent = s.logger.Error()
		}
		logEvent.Err(err).
			Str("requestId", middleware.GetReqID(r.Context())).
			Int("status", status).
			Msg("webhook delivery rejected")
		respondError(w, status, code, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func webhookErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, webhook.ErrMissingToken), errors.Is(err, webhook.ErrInvalidToken):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, webhook.ErrUnsupportedEventType):
		return http.StatusBadRequest, "UNSUPPORTED_EVENT"
	case errors.Is(err, webhook.ErrMalformedPayload):
		return http.StatusBadRequest, "INVALID_PARAM"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "TIMEOUT"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"events": s.dispatcher.Snapshot(),
	})
}

func (s *Server) listJournal(w http.ResponseWriter, r *http.Request) {
	if s.journalSvc == nil {
		respondError(w, http.StatusServiceUnavailable, "JOURNAL_DISABLED", "command journal is not configured")
		return
	}
	limit, offset := parseLimitOffset(r, 50, 200)
	params := appJournal.ListParams{Limit: limit, Offset: offset}
	if v := r.URL.Query().Get("chatId"); v != "" {
		params.ChatID = &v
	}
	if v := r.URL.Query().Get("outcome"); v != "" {
		if !journal.Outcome(v).IsValid() {
			respondError(w, http.StatusBadRequest, "INVALID_PARAM", "unknown outcome")
			return
		}
		params.Outcome = &v
	}
	entries, err := s.journalSvc.List(r.Context(), params)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"limit":   limit,
		"offset":  offset,
	})
}

// Helpers
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":   code,
		"message": message,
	})
}

func parseLimitOffset(r *http.Request, defaultLimit, maxLimit int) (int, int) {
	limit := defaultLimit
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil {
			limit = l
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if o, err := strconv.Atoi(v); err == nil {
			offset = o
		}
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
