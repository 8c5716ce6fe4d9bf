package service

import (
	"context"
	"mcsr-tracker/internal/api"
	"mcsr-tracker/internal/config"
	"mcsr-tracker/internal/domain"
	"mcsr-tracker/internal/jsonvalue"
	"regexp"

	"github.com/rs/zerolog"
)

// Fetcher is the upstream surface the lookups need. Implementations must
// fold every failure into the returned result.
type Fetcher interface {
	GetUser(ctx context.Context, username string) api.FetchResult
	GetMatch(ctx context.Context, matchID string) api.FetchResult
	GetRecentMatches(ctx context.Context, limit int) api.FetchResult
}

var (
	matchRefPattern    = regexp.MustCompile(`(?i)match(id|_id)?$`)
	liveFlagPattern    = regexp.MustCompile(`(?i)(live|inmatch|in_match)`)
	matchListPattern   = regexp.MustCompile(`(?i)matches?$`)
	liveStatusPattern  = regexp.MustCompile(`(?i)live|in_progress|running`)
	explicitMatchKeys  = []string{"currentMatch", "match", "currentMatchId", "matchId"}
	embeddedRecentKeys = []string{"recentMatches", "matches"}
)

// Strategies, in the order they are tried.
const (
	StrategyEmbedded     = "embedded"
	StrategyByID         = "by_id"
	StrategyLiveFlag     = "live_flag"
	StrategyRecentLive   = "recent_live"
	StrategyRecentFirst  = "recent_first"
	StrategyRecentGlobal = "recent_global"
)

type Resolution struct {
	Match    *domain.Match
	Strategy string
	// MatchID is whatever identifier was found, even if fetching it failed.
	MatchID string
}

type MatchResolver struct {
	fetcher     Fetcher
	recentLimit int
	logger      zerolog.Logger
}

func NewMatchResolver(fetcher Fetcher, cfg *config.Config, logger zerolog.Logger) *MatchResolver {
	return &MatchResolver{fetcher: fetcher, recentLimit: cfg.RecentMatchesLimit, logger: logger}
}

// Resolve runs the cascade and returns nil when the user is not in a match.
// Upstream failures only end the step that made the call.
func (r *MatchResolver) Resolve(ctx context.Context, profile domain.Profile, username string) *Resolution {
	raw := profile.Raw

	candidate := raw.First(explicitMatchKeys...)
	if candidate.IsNull() {
		candidate, _ = jsonvalue.FindFunc(raw, matchRefPattern, jsonvalue.ScalarOrContainer)
	}

	if m, ok := domain.AsMatch(candidate); ok {
		return r.resolved(m, StrategyEmbedded, m.ID(), username)
	}

	var matchID string
	if candidate.IsScalar() {
		matchID, _ = candidate.Text()
	}

	if matchID == "" {
		flag, _ := jsonvalue.FindFunc(raw, liveFlagPattern, jsonvalue.ScalarOrContainer)
		if m, ok := domain.AsMatch(flag); ok {
			return r.resolved(m, StrategyLiveFlag, m.ID(), username)
		}
	}

	if matchID != "" {
		res := r.fetcher.GetMatch(ctx, matchID)
		if res.Usable() {
			if m, ok := asMatchEnveloped(res.Parsed); ok {
				return r.resolved(m, StrategyByID, matchID, username)
			}
		}
		r.logger.Debug().Str("match_id", matchID).Int("status", res.Status).Msg("match lookup by id gave nothing usable")
	}

	if m, strategy, ok := fromEmbeddedRecent(raw); ok {
		return r.resolved(m, strategy, matchID, username)
	}

	if m, ok := r.fromRecentGlobal(ctx, username); ok {
		return r.resolved(m, StrategyRecentGlobal, matchID, username)
	}

	r.logger.Debug().Str("username", username).Str("match_id", matchID).Msg("no active match")
	return nil
}

func (r *MatchResolver) resolved(m *domain.Match, strategy, matchID, username string) *Resolution {
	if matchID == "" {
		matchID = m.ID()
	}
	r.logger.Debug().
		Str("username", username).
		Str("strategy", strategy).
		Str("match_id", matchID).
		Int("players", len(m.Players)).
		Msg("match resolved")
	return &Resolution{Match: m, Strategy: strategy, MatchID: matchID}
}

// fromEmbeddedRecent prefers an entry whose status looks live, then the
// first entry with players. The second case may well be a finished match.
func fromEmbeddedRecent(raw jsonvalue.Value) (*domain.Match, string, bool) {
	list := raw.First(embeddedRecentKeys...)
	if list.IsNull() {
		list, _ = jsonvalue.FindFunc(raw, matchListPattern, jsonvalue.ScalarOrContainer)
	}
	entries := list.Items()
	if len(entries) == 0 {
		return nil, "", false
	}

	for _, e := range entries {
		status, _ := e.First("status", "state", "stage").Text()
		if status == "" || !liveStatusPattern.MatchString(status) {
			continue
		}
		if m, ok := domain.AsMatch(e); ok {
			return m, StrategyRecentLive, true
		}
	}
	for _, e := range entries {
		if m, ok := domain.AsMatch(e); ok {
			return m, StrategyRecentFirst, true
		}
	}
	return nil, "", false
}

func (r *MatchResolver) fromRecentGlobal(ctx context.Context, username string) (*domain.Match, bool) {
	res := r.fetcher.GetRecentMatches(ctx, r.recentLimit)
	if !res.Usable() {
		r.logger.Debug().Int("status", res.Status).Msg("recent matches unavailable")
		return nil, false
	}

	for _, e := range recentEntries(res.Parsed) {
		m, ok := domain.AsMatch(e)
		if ok && m.HasPlayerNamed(username) {
			return m, true
		}
	}
	return nil, false
}

// recentEntries accepts a bare list, {matches:[...]}, or either inside an
// envelope.
func recentEntries(v jsonvalue.Value) []jsonvalue.Value {
	if v.Kind() == jsonvalue.KindArray {
		return v.Items()
	}
	if list := v.Get("matches"); list.Kind() == jsonvalue.KindArray {
		return list.Items()
	}
	if inner := v.Get("data"); !inner.IsNull() {
		if inner.Kind() == jsonvalue.KindArray {
			return inner.Items()
		}
		return inner.Get("matches").Items()
	}
	return nil
}

func asMatchEnveloped(v jsonvalue.Value) (*domain.Match, bool) {
	if m, ok := domain.AsMatch(v); ok {
		return m, true
	}
	return domain.AsMatch(domain.Unwrap(v))
}
