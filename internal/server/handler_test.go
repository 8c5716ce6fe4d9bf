package server

import (
	"context"
	"mcsr-tracker/internal/api"
	"mcsr-tracker/internal/config"
	"mcsr-tracker/internal/constants"
	"mcsr-tracker/internal/domain"
	"mcsr-tracker/internal/service"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLookup struct {
	mu   sync.Mutex
	out  domain.Outcome
	reqs []service.Request
}

func (f *fakeLookup) record(req service.Request) domain.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	return f.out
}

func (f *fakeLookup) Rank(_ context.Context, req service.Request) domain.Outcome {
	return f.record(req)
}

func (f *fakeLookup) Opponents(_ context.Context, req service.Request) domain.Outcome {
	return f.record(req)
}

func (f *fakeLookup) Stats(_ context.Context, req service.Request) domain.Outcome {
	return f.record(req)
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		RankedBaseURL:        baseURL,
		DefaultUsername:      "_parad0xx",
		RecentMatchesLimit:   10,
		OpponentDisplayLimit: 6,
	}
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandler_OutcomeMapping(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		out        domain.Outcome
		wantStatus int
		wantCache  string
		wantBody   string
	}{
		{
			name:       "rank summary",
			target:     "/api/rank?user=Feinberg",
			out:        domain.Summary("Elo: 1812 | Rank: Netherite II"),
			wantStatus: http.StatusOK,
			wantCache:  constants.CacheRankSummary,
			wantBody:   "Elo: 1812 | Rank: Netherite II",
		},
		{
			name:       "opponents summary",
			target:     "/api/opponents?user=Feinberg",
			out:        domain.Summary("Playing vs: Foo — 1210 Elo (Emerald I)"),
			wantStatus: http.StatusOK,
			wantCache:  constants.CacheOpponentSummary,
			wantBody:   "Playing vs: Foo — 1210 Elo (Emerald I)",
		},
		{
			name:       "short opponents route",
			target:     "/api/op?user=Feinberg",
			out:        domain.Summary("Playing vs: Bar — 600 Elo (Iron I)"),
			wantStatus: http.StatusOK,
			wantCache:  constants.CacheOpponentSummary,
			wantBody:   "Playing vs: Bar — 600 Elo (Iron I)",
		},
		{
			name:       "stats summary",
			target:     "/api/stats?user=Feinberg",
			out:        domain.Summary("Feinberg: 1812 Elo (Netherite II)"),
			wantStatus: http.StatusOK,
			wantCache:  constants.CacheRankSummary,
			wantBody:   "Feinberg: 1812 Elo (Netherite II)",
		},
		{
			name:       "not found is still a chat line",
			target:     "/api/rank?user=ghost",
			out:        domain.NotFound(service.RankNotFound),
			wantStatus: http.StatusOK,
			wantCache:  constants.CacheMiss,
			wantBody:   service.RankNotFound,
		},
		{
			name:       "error",
			target:     "/api/stats?user=x",
			out:        domain.Failure(service.StatsError),
			wantStatus: http.StatusInternalServerError,
			wantCache:  constants.CacheMiss,
			wantBody:   service.StatsError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeLookup{out: tt.out}, testConfig(""), zerolog.Nop())
			rec := get(t, h, tt.target)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCache, rec.Header().Get("Cache-Control"))
			assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestHandler_QueryParameters(t *testing.T) {
	tests := []struct {
		target string
		want   service.Request
	}{
		{target: "/api/rank", want: service.Request{Username: "_parad0xx"}},
		{target: "/api/rank?user=%20%20", want: service.Request{Username: "_parad0xx"}},
		{target: "/api/rank?user=%40Foo", want: service.Request{Username: "@Foo"}},
		{target: "/api/rank?user=Foo&debug=1", want: service.Request{Username: "Foo", Debug: true}},
		{target: "/api/rank?user=Foo&debug=true", want: service.Request{Username: "Foo", Debug: true}},
		{target: "/api/rank?user=Foo&debug=0", want: service.Request{Username: "Foo"}},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			f := &fakeLookup{out: domain.Summary("x")}
			if tt.want.Debug {
				f.out = domain.DebugPayload(map[string]string{"k": "v"})
			}
			get(t, NewHandler(f, testConfig(""), zerolog.Nop()), tt.target)

			require.Len(t, f.reqs, 1)
			assert.Equal(t, tt.want, f.reqs[0])
		})
	}
}

func TestHandler_HealthAndMethods(t *testing.T) {
	h := NewHandler(&fakeLookup{}, testConfig(""), zerolog.Nop())

	rec := get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/rank", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = get(t, h, "/api/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// End to end through the real upstream client against a fake ladder API.
func TestHandler_AgainstUpstream(t *testing.T) {
	var mu sync.Mutex
	var paths []string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()

		switch {
		case r.URL.Path == "/users/Feinberg":
			_, _ = w.Write([]byte(`{"status":"success","data":{"nickname":"Feinberg","uuid":"f1","eloRate":1812,"eloRank":3,` +
				`"currentMatch":{"id":5,"players":[{"nickname":"Feinberg","uuid":"f1"},{"nickname":"doogile","eloRate":1710}]}}}`))
		case r.URL.Path == "/users/_parad0xx":
			_, _ = w.Write([]byte(`{"status":"success","data":{"nickname":"_parad0xx","eloRate":1432}}`))
		case strings.HasPrefix(r.URL.Path, "/users/"):
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"status":"error","data":"User is not exists"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer upstream.Close()

	cfg := testConfig(upstream.URL)
	client := api.NewRankedClient(cfg, zerolog.Nop())
	resolver := service.NewMatchResolver(client, cfg, zerolog.Nop())
	h := NewHandler(service.NewLookupService(client, resolver, cfg, zerolog.Nop()), cfg, zerolog.Nop())

	rec := get(t, h, "/api/rank?user=Feinberg")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Elo: 1812 | Rank: Netherite II", rec.Body.String())

	rec = get(t, h, "/api/op?user=Feinberg")
	assert.Equal(t, "Playing vs: doogile — 1710 Elo (Netherite I)", rec.Body.String())

	rec = get(t, h, "/api/rank")
	assert.Equal(t, "Elo: 1432 | Rank: Diamond I", rec.Body.String())

	rec = get(t, h, "/api/stats?user=nobody")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.StatsNotFound, rec.Body.String())
	assert.Equal(t, constants.CacheMiss, rec.Header().Get("Cache-Control"))

	rec = get(t, h, "/api/rank?user=nobody&debug=1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, constants.CacheDebug, rec.Header().Get("Cache-Control"))

	var payload struct {
		UserURL   string `json:"userUrl"`
		UserFetch struct {
			OK     bool           `json:"ok"`
			Status int            `json:"status"`
			Parsed map[string]any `json:"parsed"`
		} `json:"userFetch"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, upstream.URL+"/users/nobody", payload.UserURL)
	assert.False(t, payload.UserFetch.OK)
	assert.Equal(t, http.StatusBadRequest, payload.UserFetch.Status)
	assert.Equal(t, "error", payload.UserFetch.Parsed["status"])

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, paths, "/users/_parad0xx")
}
