package service

import (
	"mcsr-tracker/internal/domain"
	"strings"
)

// Identification is the self/opponent split of a match. Self is nil when no
// entry could be tied to the queried user.
type Identification struct {
	Self      *domain.Player
	SelfBy    string
	Opponents []domain.Player
}

const (
	SelfByName       = "name"
	SelfByNormalized = "normalized_name"
	SelfByID         = "id"
)

// IdentifyPlayers finds the queried user's entry and the entries they are
// playing against. It never fails; without a self entry every entry not
// named like the query counts as an opponent.
func IdentifyPlayers(m *domain.Match, username string, profile domain.Profile) Identification {
	selfIdx, by := findSelf(m.Players, username, profile.IDs())

	var id Identification
	if selfIdx >= 0 {
		self := m.Players[selfIdx]
		id.Self = &self
		id.SelfBy = by
	}
	id.Opponents = opponents(m.Players, selfIdx, username)
	return id
}

func findSelf(players []domain.Player, username string, profileIDs []string) (int, string) {
	for i, p := range players {
		for _, n := range p.Names() {
			if strings.EqualFold(n, username) {
				return i, SelfByName
			}
		}
	}

	query := normalizeName(username)
	for i, p := range players {
		for _, n := range p.Names() {
			if normalizeName(n) == query {
				return i, SelfByNormalized
			}
		}
	}

	for i, p := range players {
		for _, pid := range p.IDs() {
			for _, want := range profileIDs {
				if pid == want {
					return i, SelfByID
				}
			}
		}
	}

	return -1, ""
}

// normalizeName lowercases and strips either one leading "@" or a leading
// run of underscores, whichever is at the front.
func normalizeName(s string) string {
	s = strings.ToLower(s)
	if strings.HasPrefix(s, "@") {
		return s[1:]
	}
	return strings.TrimLeft(s, "_")
}

func opponents(players []domain.Player, selfIdx int, username string) []domain.Player {
	var out []domain.Player

	if selfIdx < 0 {
		for _, p := range players {
			name := p.Name()
			if name != "" && !strings.EqualFold(name, username) {
				out = append(out, p)
			}
		}
		return out
	}

	self := players[selfIdx]
	selfName := self.Name()
	selfTeam, hasTeam := self.Team()

	for i, p := range players {
		name := p.Name()
		if i == selfIdx || name == "" {
			continue
		}
		if selfName != "" && strings.EqualFold(name, selfName) {
			continue
		}
		if hasTeam {
			if team, ok := p.Team(); ok && team == selfTeam {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}
