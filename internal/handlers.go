package internal

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const matchCols = "id, home_team, away_team, league_name, location_name, city, match_date, formation, result_text, highlights_note"

func scanMatch(row pgx.Row) (Match, error) {
	var m Match
	err := row.Scan(&m.ID, &m.HomeTeam, &m.AwayTeam, &m.LeagueName, &m.LocationName,
		&m.City, &m.MatchDate, &m.Formation, &m.ResultText, &m.HighlightsNote)
	return m, err
}

// ------------------- Matches -------------------

// GET /api/matches
func ListMatches(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := db.Query(context.Background(),
			"SELECT "+matchCols+" FROM matches ORDER BY match_date DESC LIMIT 200")
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		defer rows.Close()

		out := []Match{}
		for rows.Next() {
			m, err := scanMatch(rows)
			if err != nil {
				c.JSON(500, gin.H{"error": "scan"})
				return
			}
			out = append(out, m)
		}
		c.JSON(200, out)
	}
}

// GET /api/matches/next — the closest upcoming match, 404 when the calendar
// has nothing left.
func NextMatch(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, err := scanMatch(db.QueryRow(context.Background(),
			"SELECT "+matchCols+" FROM matches WHERE match_date >= now() ORDER BY match_date ASC LIMIT 1"))
		if err != nil {
			c.JSON(404, gin.H{"error": "no upcoming match"})
			return
		}
		c.JSON(200, m)
	}
}

// GET /api/matches/last — the most recently played match.
func LastMatch(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, err := scanMatch(db.QueryRow(context.Background(),
			"SELECT "+matchCols+" FROM matches WHERE match_date < now() ORDER BY match_date DESC LIMIT 1"))
		if err != nil {
			c.JSON(404, gin.H{"error": "no played match"})
			return
		}
		c.JSON(200, m)
	}
}

// GET /api/matches/:id
func GetMatch(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "bad id"})
			return
		}
		m, err := scanMatch(db.QueryRow(context.Background(),
			"SELECT "+matchCols+" FROM matches WHERE id=$1", id))
		if err != nil {
			c.JSON(404, gin.H{"error": "match not found"})
			return
		}
		c.JSON(200, m)
	}
}

// ------------------- Convocation -------------------

type respondentRow struct {
	ConvocationResponse
	DisplayName string `json:"display_name"`
	Dorsal      int    `json:"dorsal"`
}

// GET /api/matches/:id/convocation — convocation state plus every player's
// response, tallied, with an advisory overrun flag when confirmations exceed
// capacity.
func GetConvocation(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		matchID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "bad id"})
			return
		}
		ctx := context.Background()

		var cv Convocation
		err = db.QueryRow(ctx,
			"SELECT id, match_id, status, capacity, reset_at, last_reminder_sent_at FROM convocations WHERE match_id=$1",
			matchID,
		).Scan(&cv.ID, &cv.MatchID, &cv.Status, &cv.Capacity, &cv.ResetAt, &cv.LastReminderSentAt)
		if err != nil {
			c.JSON(404, gin.H{"error": "no convocation for this match"})
			return
		}

		rows, err := db.Query(ctx, `
			SELECT r.id, r.convocation_id, r.user_id, r.status, r.updated_at,
			       p.display_name, p.dorsal
			FROM convocation_responses r
			JOIN profiles p ON p.id = r.user_id
			WHERE r.convocation_id = $1
			ORDER BY p.dorsal ASC, p.id ASC`, cv.ID)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		defer rows.Close()

		responses := []respondentRow{}
		bare := []ConvocationResponse{}
		for rows.Next() {
			var r respondentRow
			if err := rows.Scan(&r.ID, &r.ConvocationID, &r.UserID, &r.Status, &r.UpdatedAt,
				&r.DisplayName, &r.Dorsal); err != nil {
				c.JSON(500, gin.H{"error": "scan"})
				return
			}
			responses = append(responses, r)
			bare = append(bare, r.ConvocationResponse)
		}

		tally := TallyResponses(bare)
		c.JSON(200, gin.H{
			"convocation": cv,
			"responses":   responses,
			"tally":       tally,
			"overrun":     tally.Overrun(cv.Capacity),
		})
	}
}

// POST /api/convocations/:id/respond  {"status":"yes|no|maybe"}
func Respond(db *pgxpool.Pool, engine *Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := uid(c)
		convocationID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "bad id"})
			return
		}

		var req struct {
			Status string `json:"status"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "bad json"})
			return
		}

		r, err := engine.RecordResponse(context.Background(), convocationID, userID, req.Status)
		if err != nil {
			if errors.Is(err, ErrBadStatus) {
				c.JSON(400, gin.H{"error": err.Error()})
				return
			}
			c.JSON(500, gin.H{"error": "db"})
			return
		}

		logAction(db, &userID, "respond", "convocation_id="+convocationID.String()+" status="+req.Status)
		c.JSON(200, r)
	}
}

// ------------------- MVP -------------------

// GET /api/matches/:id/mvp — totals, the current winner and whether the
// caller already voted.
func MvpResults(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := uid(c)
		matchID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "bad id"})
			return
		}
		ctx := context.Background()

		votes, err := loadVotes(ctx, db, &matchID)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		players, err := loadRoster(ctx, db)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}

		var myVote *uuid.UUID
		for _, v := range votes {
			if v.VoterUserID == userID {
				id := v.VotedUserID
				myVote = &id
				break
			}
		}

		c.JSON(200, gin.H{
			"totals":  MvpTotals(votes, players),
			"winner":  ComputeMvpWinner(votes, players),
			"my_vote": myVote,
		})
	}
}

// POST /api/matches/:id/mvp-vote  {"voted_user_id":"..."}
func VoteMvp(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := uid(c)
		matchID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "bad id"})
			return
		}

		var req struct {
			VotedUserID uuid.UUID `json:"voted_user_id"`
		}
		if err := c.BindJSON(&req); err != nil || req.VotedUserID == uuid.Nil {
			c.JSON(400, gin.H{"error": "bad request"})
			return
		}
		if req.VotedUserID == userID {
			c.JSON(400, gin.H{"error": "cannot vote for yourself"})
			return
		}

		_, err = db.Exec(context.Background(),
			"INSERT INTO mvp_votes(match_id, voter_user_id, voted_user_id) VALUES ($1,$2,$3)",
			matchID, userID, req.VotedUserID,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				c.JSON(http.StatusConflict, gin.H{"error": "already voted for this match"})
				return
			}
			c.JSON(500, gin.H{"error": "db"})
			return
		}

		logAction(db, &userID, "vote_mvp", "match_id="+matchID.String())
		c.JSON(200, gin.H{"ok": true})
	}
}

// ------------------- Lineup -------------------

// GET /api/matches/:id/lineup
func GetLineup(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		matchID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "bad id"})
			return
		}

		type slotRow struct {
			LineupSlot
			DisplayName string `json:"display_name"`
			Dorsal      int    `json:"dorsal"`
		}

		rows, err := db.Query(context.Background(), `
			SELECT l.position, l.user_id, p.display_name, p.dorsal
			FROM lineups l
			JOIN profiles p ON p.id = l.user_id
			WHERE l.match_id = $1
			ORDER BY l.position ASC`, matchID)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		defer rows.Close()

		out := []slotRow{}
		for rows.Next() {
			var s slotRow
			if err := rows.Scan(&s.Position, &s.UserID, &s.DisplayName, &s.Dorsal); err != nil {
				c.JSON(500, gin.H{"error": "scan"})
				return
			}
			out = append(out, s)
		}

		var formation *string
		_ = db.QueryRow(context.Background(),
			"SELECT formation FROM matches WHERE id=$1", matchID).Scan(&formation)

		c.JSON(200, gin.H{"formation": formation, "slots": out})
	}
}

// ------------------- Roster & season aggregates -------------------

type RosterEntry struct {
	Profile
	Totals PlayerTotals `json:"totals"`
}

func loadRoster(ctx context.Context, db *pgxpool.Pool) ([]Profile, error) {
	rows, err := db.Query(ctx,
		"SELECT id, username, display_name, dorsal, email, role FROM profiles ORDER BY dorsal ASC, id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.Username, &p.DisplayName, &p.Dorsal, &p.Email, &p.Role); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func loadVotes(ctx context.Context, db *pgxpool.Pool, matchID *uuid.UUID) ([]MvpVote, error) {
	sql := "SELECT match_id, voter_user_id, voted_user_id FROM mvp_votes"
	args := []any{}
	if matchID != nil {
		sql += " WHERE match_id=$1"
		args = append(args, *matchID)
	}
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MvpVote
	for rows.Next() {
		var v MvpVote
		if err := rows.Scan(&v.MatchID, &v.VoterUserID, &v.VotedUserID); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// seasonTotals recomputes every player's aggregates from the raw tables.
func seasonTotals(ctx context.Context, db *pgxpool.Pool) ([]Profile, map[uuid.UUID]PlayerTotals, error) {
	players, err := loadRoster(ctx, db)
	if err != nil {
		return nil, nil, err
	}

	rows, err := db.Query(ctx,
		"SELECT match_id, user_id, goals, assists, yellow_cards, red_cards FROM match_stats")
	if err != nil {
		return nil, nil, err
	}
	var stats []MatchStat
	for rows.Next() {
		var s MatchStat
		if err := rows.Scan(&s.MatchID, &s.UserID, &s.Goals, &s.Assists, &s.YellowCards, &s.RedCards); err != nil {
			rows.Close()
			return nil, nil, err
		}
		stats = append(stats, s)
	}
	rows.Close()

	votes, err := loadVotes(ctx, db, nil)
	if err != nil {
		return nil, nil, err
	}

	rows, err = db.Query(ctx,
		"SELECT id, convocation_id, user_id, status, updated_at FROM convocation_responses WHERE status='yes'")
	if err != nil {
		return nil, nil, err
	}
	var responses []ConvocationResponse
	for rows.Next() {
		var r ConvocationResponse
		if err := rows.Scan(&r.ID, &r.ConvocationID, &r.UserID, &r.Status, &r.UpdatedAt); err != nil {
			rows.Close()
			return nil, nil, err
		}
		responses = append(responses, r)
	}
	rows.Close()

	return players, AggregatePlayerStats(players, stats, votes, responses), nil
}

func rosterWithTotals(ctx context.Context, db *pgxpool.Pool, cache *Cache) ([]RosterEntry, error) {
	var out []RosterEntry
	if cache.Get(ctx, CacheKeySeasonTotals, &out) {
		return out, nil
	}

	players, totals, err := seasonTotals(ctx, db)
	if err != nil {
		return nil, err
	}
	out = make([]RosterEntry, 0, len(players))
	for _, p := range players {
		out = append(out, RosterEntry{Profile: p, Totals: totals[p.ID]})
	}

	cache.Set(ctx, CacheKeySeasonTotals, out)
	return out, nil
}

// GET /api/roster
func Roster(db *pgxpool.Pool, cache *Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := rosterWithTotals(context.Background(), db, cache)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		c.JSON(200, out)
	}
}

type perfRow struct {
	MatchStat
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	MatchDate string `json:"match_date"`
}

// playerHistory is the player's stat line per played match, newest first.
func playerHistory(ctx context.Context, db *pgxpool.Pool, id uuid.UUID) ([]perfRow, error) {
	rows, err := db.Query(ctx, `
		SELECT s.match_id, s.user_id, s.goals, s.assists, s.yellow_cards, s.red_cards,
		       m.home_team, m.away_team,
		       to_char(m.match_date, 'YYYY-MM-DD') AS match_date
		FROM match_stats s
		JOIN matches m ON m.id = s.match_id
		WHERE s.user_id = $1
		ORDER BY m.match_date DESC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []perfRow{}
	for rows.Next() {
		var r perfRow
		if err := rows.Scan(&r.MatchID, &r.UserID, &r.Goals, &r.Assists, &r.YellowCards, &r.RedCards,
			&r.HomeTeam, &r.AwayTeam, &r.MatchDate); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GET /api/players/:id — the player card: profile, season totals and
// per-match history.
func PlayerCard(db *pgxpool.Pool, cache *Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "bad id"})
			return
		}
		ctx := context.Background()

		roster, err := rosterWithTotals(ctx, db, cache)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		for _, e := range roster {
			if e.ID == id {
				history, err := playerHistory(ctx, db, id)
				if err != nil {
					c.JSON(500, gin.H{"error": "db"})
					return
				}
				c.JSON(200, gin.H{"player": e.Profile, "totals": e.Totals, "history": history})
				return
			}
		}
		c.JSON(404, gin.H{"error": "player not found"})
	}
}

// GET /api/performance — the caller's attendance rate over played matches
// plus season totals and per-match history.
func MyPerformance(db *pgxpool.Pool, cache *Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := uid(c)
		ctx := context.Background()

		var played int
		err := db.QueryRow(ctx, `
			SELECT count(*)
			FROM convocations cv
			JOIN matches m ON m.id = cv.match_id
			WHERE m.match_date < now()`).Scan(&played)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}

		var attended int
		err = db.QueryRow(ctx, `
			SELECT count(*)
			FROM convocation_responses r
			JOIN convocations cv ON cv.id = r.convocation_id
			JOIN matches m ON m.id = cv.match_id
			WHERE r.user_id = $1 AND r.status = 'yes' AND m.match_date < now()`,
			userID).Scan(&attended)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}

		pct := 0.0
		if played > 0 {
			pct = float64(attended) / float64(played) * 100
		}

		var totals PlayerTotals
		roster, err := rosterWithTotals(ctx, db, cache)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		for _, e := range roster {
			if e.ID == userID {
				totals = e.Totals
				break
			}
		}

		history, err := playerHistory(ctx, db, userID)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}

		c.JSON(200, gin.H{
			"played":         played,
			"attended":       attended,
			"missed":         played - attended,
			"attendance_pct": pct,
			"totals":         totals,
			"history":        history,
		})
	}
}

// GET /api/rankings?metric=goals|assists|mvps|attendance
func Rankings(db *pgxpool.Pool, cache *Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		metric := c.DefaultQuery("metric", "goals")

		roster, err := rosterWithTotals(context.Background(), db, cache)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}

		players := make([]Profile, 0, len(roster))
		totals := make(map[uuid.UUID]PlayerTotals, len(roster))
		for _, e := range roster {
			players = append(players, e.Profile)
			totals[e.ID] = e.Totals
		}

		ranked, ok := RankPlayers(players, totals, metric)
		if !ok {
			c.JSON(400, gin.H{"error": "unknown metric"})
			return
		}
		c.JSON(200, ranked)
	}
}

// ------------------- Videos / settings / payments -------------------

// GET /api/videos
func ListVideos(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := db.Query(context.Background(),
			"SELECT id, title, vimeo_url, match_id, date FROM videos ORDER BY date DESC LIMIT 200")
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		defer rows.Close()

		out := []Video{}
		for rows.Next() {
			var v Video
			if err := rows.Scan(&v.ID, &v.Title, &v.VimeoURL, &v.MatchID, &v.Date); err != nil {
				c.JSON(500, gin.H{"error": "scan"})
				return
			}
			out = append(out, v)
		}
		c.JSON(200, out)
	}
}

// GET /api/settings
func GetSettings(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var s AppSettings
		err := db.QueryRow(context.Background(),
			"SELECT default_capacity, payment_instructions, instagram_handle, league_url, team_url FROM app_settings LIMIT 1",
		).Scan(&s.DefaultCapacity, &s.PaymentInstructions, &s.InstagramHandle, &s.LeagueURL, &s.TeamURL)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		c.JSON(200, s)
	}
}

// GET /api/my/payments — the caller's payment row per cycle, newest month
// first.
func MyPayments(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := uid(c)

		type payRow struct {
			Payment
			MonthKey string `json:"month_key"`
			Amount   int    `json:"amount"`
		}

		rows, err := db.Query(context.Background(), `
			SELECT pm.id, pm.user_id, pm.status, pm.paid_at, pm.note, cy.month_key, cy.amount
			FROM payments pm
			JOIN payment_cycles cy ON cy.id = pm.cycle_id
			WHERE pm.user_id = $1
			ORDER BY cy.month_key DESC`, userID)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		defer rows.Close()

		out := []payRow{}
		for rows.Next() {
			var r payRow
			if err := rows.Scan(&r.ID, &r.UserID, &r.Status, &r.PaidAt, &r.Note, &r.MonthKey, &r.Amount); err != nil {
				c.JSON(500, gin.H{"error": "scan"})
				return
			}
			out = append(out, r)
		}
		c.JSON(200, out)
	}
}
