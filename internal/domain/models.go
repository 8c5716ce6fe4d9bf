package domain

import (
	"math"
	"mcsr-tracker/internal/jsonvalue"
	"regexp"
	"strings"
)

var (
	// keys ending in "rank" are positions, not ratings
	RatingPattern   = regexp.MustCompile(`(?i)(elo|rating|mmr|skill)(rate)?$`)
	RankTextPattern = regexp.MustCompile(`(?i)rank|division|tier`)
)

var envelopeKeys = []string{"data", "user", "profile"}

// Unwrap strips a single-level envelope such as {"status":"success","data":{...}}.
func Unwrap(v jsonvalue.Value) jsonvalue.Value {
	for _, k := range envelopeKeys {
		if inner := v.Get(k); inner.Kind() == jsonvalue.KindObject {
			return inner
		}
	}
	return v
}

type Profile struct {
	Raw jsonvalue.Value
}

func NewProfile(v jsonvalue.Value) Profile {
	return Profile{Raw: Unwrap(v)}
}

func (p Profile) Nickname() string {
	return textOf(p.Raw.First("nickname", "name", "username"))
}

// Rating follows eloRate, elo, rating, then a pattern search.
func (p Profile) Rating() (float64, bool) {
	return ratingOf(p.Raw)
}

// RawRank is eloRank or rank as sent, which may be text or a global position.
func (p Profile) RawRank() jsonvalue.Value {
	return p.Raw.First("eloRank", "rank")
}

// IDs lists the external identifiers the profile carries.
func (p Profile) IDs() []string {
	var ids []string
	for _, k := range []string{"id", "uuid", "uuidRaw"} {
		if s := textOf(p.Raw.Get(k)); s != "" {
			ids = append(ids, s)
		}
	}
	return ids
}

// Stat looks a counter up in the places upstream has used for it over time.
func (p Profile) Stat(name string) (float64, bool) {
	candidates := []jsonvalue.Value{
		p.Raw.Path("statistics", "season", name),
		p.Raw.Path("statistics", "total", name),
		p.Raw.Path("statistics", name),
		p.Raw.Get(name),
	}
	for _, c := range candidates {
		if c.Kind() == jsonvalue.KindObject {
			c = c.First("ranked", "total")
		}
		if f, ok := c.Float(); ok {
			return f, true
		}
	}
	return 0, false
}

func (p Profile) PeakRating() (float64, bool) {
	return jsonvalue.Coalesce(
		p.Raw.Path("seasonResult", "highest"),
		p.Raw.Path("seasonResult", "peak"),
		p.Raw.Get("peakElo"),
	).Float()
}

func (p Profile) PhasePoints() (float64, bool) {
	return jsonvalue.Coalesce(
		p.Raw.Path("seasonResult", "last", "phasePoint"),
		p.Raw.Path("seasonResult", "phasePoint"),
		p.Raw.Get("phasePoint"),
	).Float()
}

func (p Profile) NextDecay() (float64, bool) {
	return jsonvalue.Coalesce(
		p.Raw.Path("timestamp", "nextDecay"),
		p.Raw.Get("nextDecay"),
	).Float()
}

type Match struct {
	Raw     jsonvalue.Value
	Players []Player
}

// AsMatch accepts a value only when it exposes a players array.
func AsMatch(v jsonvalue.Value) (*Match, bool) {
	players := v.Get("players")
	if players.Kind() != jsonvalue.KindArray {
		return nil, false
	}
	m := &Match{Raw: v}
	for _, p := range players.Items() {
		m.Players = append(m.Players, Player{Raw: p})
	}
	return m, true
}

func (m *Match) ID() string {
	return textOf(m.Raw.First("id", "matchId"))
}

// HasPlayerNamed compares every name field case-insensitively.
func (m *Match) HasPlayerNamed(name string) bool {
	for _, p := range m.Players {
		for _, n := range p.Names() {
			if strings.EqualFold(n, name) {
				return true
			}
		}
	}
	return false
}

type Player struct {
	Raw jsonvalue.Value
}

var nameKeys = []string{"name", "nickname", "username", "player"}

// Name is the first populated name field, or "" when there is none.
func (p Player) Name() string {
	for _, k := range nameKeys {
		if s := textOf(p.Raw.Get(k)); s != "" {
			return s
		}
	}
	return ""
}

func (p Player) Names() []string {
	var names []string
	for _, k := range nameKeys {
		if s := textOf(p.Raw.Get(k)); s != "" {
			names = append(names, s)
		}
	}
	return names
}

func (p Player) Team() (string, bool) {
	s := textOf(p.Raw.First("team", "side", "group"))
	return s, s != ""
}

func (p Player) IDs() []string {
	var ids []string
	for _, k := range []string{"id", "uuid", "playerId", "steamId"} {
		if s := textOf(p.Raw.Get(k)); s != "" {
			ids = append(ids, s)
		}
	}
	return ids
}

// Rating is rounded to a whole number.
func (p Player) Rating() (float64, bool) {
	f, ok := ratingOf(p.Raw)
	if !ok {
		return 0, false
	}
	return math.Round(f), true
}

// RankText returns a textual rank, or a small number that may be a
// division id. Larger numbers are global positions and are ignored.
func (p Player) RankText() (string, bool) {
	raw := p.Raw.First("rank", "rankText")
	if raw.IsNull() {
		raw, _ = jsonvalue.Find(p.Raw, RankTextPattern)
	}
	switch raw.Kind() {
	case jsonvalue.KindString:
		s, _ := raw.Text()
		if strings.TrimSpace(s) != "" {
			return s, true
		}
	case jsonvalue.KindNumber:
		if f, ok := raw.Float(); ok && f <= 50 {
			s, _ := raw.Text()
			return s, true
		}
	}
	return "", false
}

func ratingOf(v jsonvalue.Value) (float64, bool) {
	cand := v.First("eloRate", "elo", "rating")
	if cand.IsNull() {
		cand, _ = jsonvalue.Find(v, RatingPattern)
	}
	return cand.Float()
}

func textOf(v jsonvalue.Value) string {
	s, ok := v.Text()
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
