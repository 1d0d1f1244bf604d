package internal

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func player(dorsal int, name string) Profile {
	return Profile{ID: uuid.New(), Username: name, DisplayName: name, Dorsal: dorsal, Role: RolePlayer}
}

func TestTallyResponses(t *testing.T) {
	rs := []ConvocationResponse{
		{Status: StatusYes}, {Status: StatusYes}, {Status: StatusYes},
		{Status: StatusNo},
		{Status: StatusMaybe}, {Status: StatusMaybe},
		{Status: StatusPending},
		{Status: "garbage"}, // unknown values count as pending
	}

	tally := TallyResponses(rs)

	assert.Equal(t, 3, tally.Yes)
	assert.Equal(t, 1, tally.No)
	assert.Equal(t, 2, tally.Maybe)
	assert.Equal(t, 2, tally.Pending)
	assert.Equal(t, len(rs), tally.Total())
}

func TestTallyOverrunIsAdvisory(t *testing.T) {
	tally := Tally{Yes: 12}
	assert.True(t, tally.Overrun(10))
	assert.False(t, tally.Overrun(12))
	// unset capacity never flags
	assert.False(t, tally.Overrun(0))
}

func TestAggregatePlayerStats(t *testing.T) {
	a := player(7, "ander")
	b := player(9, "borja")
	roster := []Profile{a, b}
	matchID := uuid.New()

	stats := []MatchStat{
		{MatchID: matchID, UserID: a.ID, Goals: 2, Assists: 1},
		{MatchID: uuid.New(), UserID: a.ID, Goals: 1},
		{MatchID: matchID, UserID: b.ID, Goals: 1, Assists: 3},
	}
	votes := []MvpVote{
		{MatchID: matchID, VoterUserID: b.ID, VotedUserID: a.ID},
	}
	responses := []ConvocationResponse{
		{UserID: a.ID, Status: StatusYes},
		{UserID: a.ID, Status: StatusYes},
		{UserID: b.ID, Status: StatusNo},
		{UserID: b.ID, Status: StatusMaybe},
	}

	agg := AggregatePlayerStats(roster, stats, votes, responses)

	assert.Equal(t, PlayerTotals{Goals: 3, Assists: 1, Mvps: 1, Attendance: 2}, agg[a.ID])
	assert.Equal(t, PlayerTotals{Goals: 1, Assists: 3, Mvps: 0, Attendance: 0}, agg[b.ID])
}

func TestAggregatePlayerStatsOrderIndependent(t *testing.T) {
	a := player(4, "carla")
	b := player(11, "dani")
	roster := []Profile{a, b}

	stats := []MatchStat{
		{UserID: a.ID, Goals: 1},
		{UserID: b.ID, Goals: 2, Assists: 1},
		{UserID: a.ID, Assists: 2},
	}
	reversed := []MatchStat{stats[2], stats[1], stats[0]}

	assert.Equal(t,
		AggregatePlayerStats(roster, stats, nil, nil),
		AggregatePlayerStats(roster, reversed, nil, nil),
	)
}

func TestAggregatePlayerStatsIgnoresUnknownPlayers(t *testing.T) {
	a := player(5, "edu")
	agg := AggregatePlayerStats([]Profile{a},
		[]MatchStat{{UserID: uuid.New(), Goals: 4}},
		[]MvpVote{{VotedUserID: uuid.New()}},
		[]ConvocationResponse{{UserID: uuid.New(), Status: StatusYes}},
	)

	require.Len(t, agg, 1)
	assert.Equal(t, PlayerTotals{}, agg[a.ID])
}

func TestRankPlayers(t *testing.T) {
	a := player(10, "fran")
	b := player(3, "gorka")
	c := player(8, "hugo")
	roster := []Profile{a, b, c}
	totals := map[uuid.UUID]PlayerTotals{
		a.ID: {Goals: 5},
		b.ID: {Goals: 5},
		c.ID: {Goals: 0}, // zero entries are dropped
	}

	ranked, ok := RankPlayers(roster, totals, "goals")
	require.True(t, ok)
	require.Len(t, ranked, 2)

	// equal goals: the lower dorsal lists first
	assert.Equal(t, b.ID, ranked[0].ID)
	assert.Equal(t, a.ID, ranked[1].ID)
}

func TestRankPlayersDescending(t *testing.T) {
	a := player(1, "iker")
	b := player(2, "jon")
	roster := []Profile{a, b}
	totals := map[uuid.UUID]PlayerTotals{
		a.ID: {Assists: 2},
		b.ID: {Assists: 7},
	}

	ranked, ok := RankPlayers(roster, totals, "assists")
	require.True(t, ok)
	require.Len(t, ranked, 2)
	assert.Equal(t, b.ID, ranked[0].ID)
	assert.Equal(t, 7, ranked[0].Value)
}

func TestRankPlayersUnknownMetric(t *testing.T) {
	_, ok := RankPlayers(nil, nil, "saves")
	assert.False(t, ok)
}

func TestComputeMvpWinner(t *testing.T) {
	a := player(6, "luka")
	b := player(2, "marc")
	roster := []Profile{a, b}
	matchID := uuid.New()

	assert.Nil(t, ComputeMvpWinner(nil, roster))

	votes := []MvpVote{
		{MatchID: matchID, VoterUserID: b.ID, VotedUserID: a.ID},
		{MatchID: matchID, VoterUserID: uuid.New(), VotedUserID: a.ID},
		{MatchID: matchID, VoterUserID: a.ID, VotedUserID: b.ID},
	}

	winner := ComputeMvpWinner(votes, roster)
	require.NotNil(t, winner)
	assert.Equal(t, a.ID, winner.Player.ID)
	assert.Equal(t, 2, winner.Votes)
}

func TestComputeMvpWinnerTieBreaksByDorsal(t *testing.T) {
	a := player(9, "nico")
	b := player(4, "oier")
	matchID := uuid.New()

	votes := []MvpVote{
		{MatchID: matchID, VoterUserID: uuid.New(), VotedUserID: a.ID},
		{MatchID: matchID, VoterUserID: uuid.New(), VotedUserID: b.ID},
	}

	winner := ComputeMvpWinner(votes, []Profile{a, b})
	require.NotNil(t, winner)
	assert.Equal(t, b.ID, winner.Player.ID)
}
