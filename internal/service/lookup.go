package service

import (
	"context"
	"fmt"
	"mcsr-tracker/internal/api"
	"mcsr-tracker/internal/config"
	"mcsr-tracker/internal/constants"
	"mcsr-tracker/internal/domain"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Request struct {
	Username string
	Debug    bool
}

// DebugInfo is returned verbatim in debug mode, before any heuristics run.
type DebugInfo struct {
	UserURL   string             `json:"userUrl"`
	UserFetch api.FetchResult    `json:"userFetch"`
	RateLimit *api.RateLimitInfo `json:"rateLimit,omitempty"`
}

type rateLimitReporter interface {
	GetRateLimitInfo() api.RateLimitInfo
}

// LookupService is the boundary the HTTP layer calls. Every method returns
// an Outcome and never an error.
type LookupService struct {
	fetcher       Fetcher
	resolver      *MatchResolver
	opponentLimit int
	logger        zerolog.Logger
	now           func() time.Time
}

func NewLookupService(fetcher Fetcher, resolver *MatchResolver, cfg *config.Config, logger zerolog.Logger) *LookupService {
	return &LookupService{
		fetcher:       fetcher,
		resolver:      resolver,
		opponentLimit: cfg.OpponentDisplayLimit,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *LookupService) Rank(ctx context.Context, req Request) domain.Outcome {
	return s.run(ctx, "rank", req, RankNotFound, RankError, func(ctx context.Context, username string, profile domain.Profile) domain.Outcome {
		return domain.Summary(RankLine(profile))
	})
}

func (s *LookupService) Opponents(ctx context.Context, req Request) domain.Outcome {
	return s.run(ctx, "opponents", req, OpponentsNoUser, OpponentsError, func(ctx context.Context, username string, profile domain.Profile) domain.Outcome {
		res := s.resolver.Resolve(ctx, profile, username)
		if res == nil {
			return domain.NotFound(OpponentsNoMatch)
		}

		ident := IdentifyPlayers(res.Match, username, profile)
		s.logger.Debug().
			Str("username", username).
			Str("strategy", res.Strategy).
			Str("match_id", res.MatchID).
			Bool("self_found", ident.Self != nil).
			Str("self_by", ident.SelfBy).
			Int("opponents", len(ident.Opponents)).
			Msg("players identified")

		return domain.Summary(OpponentsLine(ident.Opponents, s.opponentLimit))
	})
}

func (s *LookupService) Stats(ctx context.Context, req Request) domain.Outcome {
	return s.run(ctx, "stats", req, StatsNotFound, StatsError, func(ctx context.Context, username string, profile domain.Profile) domain.Outcome {
		return domain.Summary(StatsLine(profile, username, s.now()))
	})
}

type summarize func(ctx context.Context, username string, profile domain.Profile) domain.Outcome

// run fetches the profile and hands it to fn. Panics below this point are
// logged and turned into the endpoint's generic error line.
func (s *LookupService) run(ctx context.Context, endpoint string, req Request, notFound, failure string, fn summarize) (out domain.Outcome) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	logger := s.logger.With().Str("endpoint", endpoint).Logger()
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Err(fmt.Errorf("panic: %v", r)).Str("username", req.Username).Msg("lookup failed")
			out = domain.Failure(failure)
		}
	}()

	username := strings.TrimSpace(req.Username)
	if username == "" {
		return domain.NotFound(notFound)
	}

	userFetch := s.fetcher.GetUser(ctx, username)
	if req.Debug {
		info := DebugInfo{UserURL: userFetch.URL, UserFetch: userFetch}
		if rl, ok := s.fetcher.(rateLimitReporter); ok {
			snapshot := rl.GetRateLimitInfo()
			info.RateLimit = &snapshot
		}
		return domain.DebugPayload(info)
	}

	if !userFetch.Usable() {
		logger.Info().Str("username", username).Int("status", userFetch.Status).Msg("profile not found")
		return domain.NotFound(notFound)
	}

	out = fn(ctx, username, domain.NewProfile(userFetch.Parsed))
	logger.Info().Str("username", username).Str("outcome", out.Kind.String()).Msg("lookup completed")
	return out
}
