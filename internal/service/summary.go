package service

import (
	"fmt"
	"math"
	"mcsr-tracker/internal/domain"
	"mcsr-tracker/internal/format"
	"mcsr-tracker/internal/jsonvalue"
	"mcsr-tracker/internal/rating"
	"regexp"
	"strings"
	"time"
)

// Chat lines for outcomes that carry no data.
const (
	RankNotFound         = "Elo: — | Rank: User not found"
	RankError            = "Elo: — | Rank: —"
	OpponentsNoUser      = "Playing vs: — | Not in a live match or user not found"
	OpponentsNoMatch     = "Playing vs: — | Not in a live match"
	OpponentsNoOpponents = "Playing vs: — | Opponents not found"
	OpponentsError       = "Playing vs: — | Error"
	StatsNotFound        = "Stats: — | User not found"
	StatsError           = "Stats: — | Error"
)

var hasLetter = regexp.MustCompile(`[A-Za-z]`)

// maxDivisionID is the largest raw rank that could be a division id rather
// than a leaderboard position.
const maxDivisionID = 50

// RankLine renders "Elo: 1432 | Rank: Diamond II".
func RankLine(p domain.Profile) string {
	elo, eloOK := p.Rating()
	if eloOK {
		elo = math.Round(elo)
	}

	rankText := ""
	raw := p.RawRank()
	switch raw.Kind() {
	case jsonvalue.KindString:
		if s, _ := raw.Text(); hasLetter.MatchString(s) {
			rankText = s
		}
	case jsonvalue.KindNumber:
		if n, ok := raw.Float(); ok && n != 0 && n <= maxDivisionID && !eloOK {
			rankText, _ = raw.Text()
		}
	}

	if label, ok := rating.Label(elo, eloOK); ok {
		rankText = label
	}
	if rankText == "" {
		rankText = rating.Unranked
	}

	return fmt.Sprintf("Elo: %s | Rank: %s", ratingText(elo, eloOK), rankText)
}

// OpponentsLine renders up to limit opponents and a "+N more" tail.
func OpponentsLine(opponents []domain.Player, limit int) string {
	if len(opponents) == 0 {
		return OpponentsNoOpponents
	}

	parts := make([]string, 0, len(opponents))
	for _, o := range opponents {
		name := o.Name()
		if name == "" {
			name = "Unknown"
		}
		elo, eloOK := o.Rating()

		rankText, ok := o.RankText()
		if label, computed := rating.Label(elo, eloOK); computed {
			rankText, ok = label, true
		}
		if !ok {
			rankText = rating.Unranked
		}

		parts = append(parts, fmt.Sprintf("%s — %s Elo (%s)", name, ratingText(elo, eloOK), rankText))
	}

	more := ""
	if limit > 0 && len(parts) > limit {
		more = fmt.Sprintf(" +%d more", len(parts)-limit)
		parts = parts[:limit]
	}
	return "Playing vs: " + strings.Join(parts, ", ") + more
}

// StatsLine renders the season overview. Segments whose inputs are missing
// are left out.
func StatsLine(p domain.Profile, username string, now time.Time) string {
	name := p.Nickname()
	if name == "" {
		name = username
	}

	elo, eloOK := p.Rating()
	if eloOK {
		elo = math.Round(elo)
	}
	segments := []string{fmt.Sprintf("%s: %s Elo (%s)", name, ratingText(elo, eloOK), rating.LabelOrUnranked(elo, eloOK))}

	if raw := p.RawRank(); raw.Kind() == jsonvalue.KindNumber {
		if pos, ok := raw.Float(); ok && pos > 0 {
			segments = append(segments, "#"+format.Integer(pos))
		}
	}

	wins, winsOK := p.Stat("wins")
	losses, lossesOK := firstStat(p, "loses", "losses")
	if winsOK && lossesOK {
		seg := fmt.Sprintf("W/L %s/%s", format.Integer(wins), format.Integer(losses))
		if rate, ok := format.Percent(wins, wins+losses); ok {
			seg += " (" + rate + ")"
		}
		segments = append(segments, seg)
	}

	if forfeits, ok := p.Stat("forfeits"); ok {
		if played, ok := firstStat(p, "playedMatches", "played"); ok {
			if rate, ok := format.Percent(forfeits, played); ok {
				segments = append(segments, "FF "+rate)
			}
		}
	}

	if best, ok := p.Stat("bestTime"); ok {
		segments = append(segments, "PB "+format.Duration(best, true))
	}

	if total, ok := p.Stat("completionTime"); ok {
		completions, ok := p.Stat("completions")
		if !ok {
			completions, ok = wins, winsOK
		}
		if ok && completions > 0 {
			segments = append(segments, "Avg "+format.Duration(total/completions, false))
		}
	}

	if peak, ok := p.PeakRating(); ok {
		segments = append(segments, "Peak "+format.Integer(peak))
	}
	if points, ok := p.PhasePoints(); ok {
		segments = append(segments, "Phase "+format.Integer(points))
	}
	if decay, ok := p.NextDecay(); ok && decay > 0 {
		if left := format.Countdown(now, format.UnixTime(decay)); left == "now" {
			segments = append(segments, "Decay due")
		} else {
			segments = append(segments, "Decay in "+left)
		}
	}

	return strings.Join(segments, " | ")
}

func ratingText(elo float64, ok bool) string {
	if !ok {
		return format.Placeholder
	}
	return format.Integer(elo)
}

func firstStat(p domain.Profile, names ...string) (float64, bool) {
	for _, n := range names {
		if v, ok := p.Stat(n); ok {
			return v, true
		}
	}
	return 0, false
}
