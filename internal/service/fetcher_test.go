package service

import (
	"context"
	"mcsr-tracker/internal/api"
	"mcsr-tracker/internal/config"
	"mcsr-tracker/internal/domain"
	"mcsr-tracker/internal/jsonvalue"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	user    api.FetchResult
	matches map[string]api.FetchResult
	recent  api.FetchResult
	panics  bool
	calls   []string
}

func (f *fakeFetcher) GetUser(_ context.Context, username string) api.FetchResult {
	f.calls = append(f.calls, "user:"+username)
	if f.panics {
		panic("upstream exploded")
	}
	res := f.user
	res.URL = "https://ranked.test/users/" + username
	return res
}

func (f *fakeFetcher) GetMatch(_ context.Context, matchID string) api.FetchResult {
	f.calls = append(f.calls, "match:"+matchID)
	if res, ok := f.matches[matchID]; ok {
		return res
	}
	return api.FetchResult{Status: 404, Raw: `{"status":"error"}`}
}

func (f *fakeFetcher) GetRecentMatches(_ context.Context, _ int) api.FetchResult {
	f.calls = append(f.calls, "recent")
	return f.recent
}

func okJSON(t *testing.T, body string) api.FetchResult {
	t.Helper()
	v, err := jsonvalue.Parse([]byte(body))
	require.NoError(t, err)
	return api.FetchResult{OK: true, Status: 200, Raw: body, Parsed: v}
}

func failed(status int) api.FetchResult {
	return api.FetchResult{Status: status, Raw: "Service Unavailable"}
}

func profileOf(t *testing.T, body string) domain.Profile {
	t.Helper()
	return domain.NewProfile(okJSON(t, body).Parsed)
}

func testConfig() *config.Config {
	return &config.Config{RecentMatchesLimit: 10, OpponentDisplayLimit: 6}
}

func newTestResolver(f Fetcher) *MatchResolver {
	return NewMatchResolver(f, testConfig(), zerolog.Nop())
}

func playerNames(players []domain.Player) []string {
	names := make([]string, 0, len(players))
	for _, p := range players {
		names = append(names, p.Name())
	}
	return names
}
