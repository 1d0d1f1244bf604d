package internal

import (
	"sort"

	"github.com/google/uuid"
)

/* ===================== ATTENDANCE TALLY ===================== */

type Tally struct {
	Yes     int `json:"yes"`
	No      int `json:"no"`
	Maybe   int `json:"maybe"`
	Pending int `json:"pending"`
}

func (t Tally) Total() int {
	return t.Yes + t.No + t.Maybe + t.Pending
}

// Overrun reports whether confirmed attendees exceed the convocation
// capacity. Advisory only: nothing is truncated or waitlisted.
func (t Tally) Overrun(capacity int) bool {
	return capacity > 0 && t.Yes > capacity
}

// TallyResponses counts a convocation's responses per status. Statuses
// outside the known set count as pending, which is the state they were
// seeded in.
func TallyResponses(responses []ConvocationResponse) Tally {
	var t Tally
	for _, r := range responses {
		switch r.Status {
		case StatusYes:
			t.Yes++
		case StatusNo:
			t.No++
		case StatusMaybe:
			t.Maybe++
		default:
			t.Pending++
		}
	}
	return t
}

/* ===================== SEASON AGGREGATES ===================== */

type PlayerTotals struct {
	Goals      int `json:"goals"`
	Assists    int `json:"assists"`
	Mvps       int `json:"mvps"`
	Attendance int `json:"attendance"`
}

// AggregatePlayerStats folds the season's stat rows, MVP votes and
// attendance responses into per-player totals. Order-independent; rows for
// players outside the roster are ignored.
func AggregatePlayerStats(players []Profile, stats []MatchStat, votes []MvpVote, responses []ConvocationResponse) map[uuid.UUID]PlayerTotals {
	agg := make(map[uuid.UUID]PlayerTotals, len(players))
	for _, p := range players {
		agg[p.ID] = PlayerTotals{}
	}
	for _, s := range stats {
		if t, ok := agg[s.UserID]; ok {
			t.Goals += s.Goals
			t.Assists += s.Assists
			agg[s.UserID] = t
		}
	}
	for _, v := range votes {
		if t, ok := agg[v.VotedUserID]; ok {
			t.Mvps++
			agg[v.VotedUserID] = t
		}
	}
	for _, r := range responses {
		if r.Status != StatusYes {
			continue
		}
		if t, ok := agg[r.UserID]; ok {
			t.Attendance++
			agg[r.UserID] = t
		}
	}
	return agg
}

func (t PlayerTotals) metric(key string) (int, bool) {
	switch key {
	case "goals":
		return t.Goals, true
	case "assists":
		return t.Assists, true
	case "mvps":
		return t.Mvps, true
	case "attendance":
		return t.Attendance, true
	}
	return 0, false
}

type RankedPlayer struct {
	Profile
	Value int `json:"value"`
}

// RankPlayers orders the roster descending by the chosen metric, dropping
// zero-value entries. Ties break by ascending dorsal, then id, so equal
// players always list in shirt order. Returns false for an unknown metric.
func RankPlayers(players []Profile, totals map[uuid.UUID]PlayerTotals, metric string) ([]RankedPlayer, bool) {
	if _, ok := (PlayerTotals{}).metric(metric); !ok {
		return nil, false
	}
	ranked := make([]RankedPlayer, 0, len(players))
	for _, p := range players {
		v, _ := totals[p.ID].metric(metric)
		if v > 0 {
			ranked = append(ranked, RankedPlayer{Profile: p, Value: v})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Value != ranked[j].Value {
			return ranked[i].Value > ranked[j].Value
		}
		if ranked[i].Dorsal != ranked[j].Dorsal {
			return ranked[i].Dorsal < ranked[j].Dorsal
		}
		return ranked[i].ID.String() < ranked[j].ID.String()
	})
	return ranked, true
}

/* ===================== MVP ===================== */

type MvpTotal struct {
	Player Profile `json:"player"`
	Votes  int     `json:"votes"`
}

// MvpTotals groups a match's votes per candidate, most-voted first, same
// tie-break as RankPlayers. Candidates missing from the roster still count,
// with only their id filled in.
func MvpTotals(votes []MvpVote, players []Profile) []MvpTotal {
	byID := make(map[uuid.UUID]Profile, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}
	counts := map[uuid.UUID]int{}
	for _, v := range votes {
		counts[v.VotedUserID]++
	}
	totals := make([]MvpTotal, 0, len(counts))
	for id, n := range counts {
		p, ok := byID[id]
		if !ok {
			p = Profile{ID: id}
		}
		totals = append(totals, MvpTotal{Player: p, Votes: n})
	}
	sort.SliceStable(totals, func(i, j int) bool {
		if totals[i].Votes != totals[j].Votes {
			return totals[i].Votes > totals[j].Votes
		}
		if totals[i].Player.Dorsal != totals[j].Player.Dorsal {
			return totals[i].Player.Dorsal < totals[j].Player.Dorsal
		}
		return totals[i].Player.ID.String() < totals[j].Player.ID.String()
	})
	return totals
}

// ComputeMvpWinner returns the single most-voted player, or nil when no
// votes were cast.
func ComputeMvpWinner(votes []MvpVote, players []Profile) *MvpTotal {
	totals := MvpTotals(votes, players)
	if len(totals) == 0 {
		return nil
	}
	return &totals[0]
}
