package server

import (
	"context"
	"mcsr-tracker/internal/config"
	"mcsr-tracker/internal/constants"
	"mcsr-tracker/internal/domain"
	"mcsr-tracker/internal/service"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Lookup is the chat lookup boundary. *service.LookupService implements it.
type Lookup interface {
	Rank(ctx context.Context, req service.Request) domain.Outcome
	Opponents(ctx context.Context, req service.Request) domain.Outcome
	Stats(ctx context.Context, req service.Request) domain.Outcome
}

type lookupFunc func(ctx context.Context, req service.Request) domain.Outcome

type endpoint struct {
	name         string
	lookup       lookupFunc
	cacheSummary string
}

// Handler serves the chat endpoints. Identical non-debug lookups that are
// in flight at the same time share one upstream exchange.
type Handler struct {
	defaultUser string
	logger      zerolog.Logger
	group       singleflight.Group
	mux         *http.ServeMux
}

func NewHandler(svc Lookup, cfg *config.Config, logger zerolog.Logger) *Handler {
	h := &Handler{
		defaultUser: cfg.DefaultUsername,
		logger:      logger,
		mux:         http.NewServeMux(),
	}

	rank := endpoint{name: "rank", lookup: svc.Rank, cacheSummary: constants.CacheRankSummary}
	opponents := endpoint{name: "opponents", lookup: svc.Opponents, cacheSummary: constants.CacheOpponentSummary}
	stats := endpoint{name: "stats", lookup: svc.Stats, cacheSummary: constants.CacheRankSummary}

	h.mux.Handle("GET /api/rank", h.serve(rank))
	h.mux.Handle("GET /api/opponents", h.serve(opponents))
	h.mux.Handle("GET /api/op", h.serve(opponents))
	h.mux.Handle("GET /api/stats", h.serve(stats))
	h.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeText(w, http.StatusOK, "ok")
	})
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) serve(ep endpoint) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		req := service.Request{
			Username: strings.TrimSpace(q.Get("user")),
			Debug:    isDebug(q.Get("debug")),
		}
		if req.Username == "" {
			req.Username = h.defaultUser
		}

		out := h.lookup(r.Context(), ep, req)
		h.requestLogger(r).Debug().
			Str("endpoint", ep.name).
			Str("username", req.Username).
			Str("outcome", out.Kind.String()).
			Msg("lookup served")

		switch out.Kind {
		case domain.OutcomeSummary:
			w.Header().Set("Cache-Control", ep.cacheSummary)
			writeText(w, http.StatusOK, out.Text)
		case domain.OutcomeNotFound:
			w.Header().Set("Cache-Control", constants.CacheMiss)
			writeText(w, http.StatusOK, out.Text)
		case domain.OutcomeDebug:
			w.Header().Set("Cache-Control", constants.CacheDebug)
			h.writeJSON(w, r, out.Debug)
		default:
			w.Header().Set("Cache-Control", constants.CacheMiss)
			writeText(w, http.StatusInternalServerError, out.Text)
		}
	}
}

// lookup detaches from the caller's cancellation so one client hanging up
// does not fail the others waiting on the same key. The service applies its
// own timeout.
func (h *Handler) lookup(ctx context.Context, ep endpoint, req service.Request) domain.Outcome {
	ctx = context.WithoutCancel(ctx)
	if req.Debug {
		return ep.lookup(ctx, req)
	}

	key := ep.name + "\x00" + req.Username
	v, _, shared := h.group.Do(key, func() (any, error) {
		return ep.lookup(ctx, req), nil
	})
	if shared {
		h.requestLogger(nil).Debug().Str("key", ep.name+":"+req.Username).Msg("lookup coalesced")
	}
	return v.(domain.Outcome)
}

func (h *Handler) requestLogger(r *http.Request) *zerolog.Logger {
	if r != nil {
		if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
			return l
		}
	}
	return &h.logger
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.requestLogger(r).Error().Err(err).Msg("failed to encode debug payload")
		writeText(w, http.StatusInternalServerError, "debug payload could not be encoded")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(text))
}

func isDebug(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes":
		return true
	}
	return false
}
