package internal

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ------------------- Admin: matches CRUD -------------------

type matchReq struct {
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
	LeagueName   string    `json:"league_name"`
	LocationName string    `json:"location_name"`
	City         string    `json:"city"`
	MatchDate    time.Time `json:"match_date"`
}

func AdminCreateMatch(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := uid(c)
		var req matchReq
		if err := c.BindJSON(&req); err != nil || req.HomeTeam == "" || req.AwayTeam == "" || req.MatchDate.IsZero() {
			c.JSON(400, gin.H{"error": "bad request"})
			return
		}
		var id uuid.UUID
		err := db.QueryRow(context.Background(), `
			INSERT INTO matches(home_team, away_team, league_name, location_name, city, match_date)
			VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
			req.HomeTeam, req.AwayTeam, req.LeagueName, req.LocationName, req.City, req.MatchDate,
		).Scan(&id)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		logAction(db, &actor, "admin_create_match", req.HomeTeam+" vs "+req.AwayTeam)
		c.JSON(200, gin.H{"ok": true, "id": id})
	}
}

func AdminUpdateMatch(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := uid(c)
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "bad id"})
			return
		}
		var req matchReq
		if err := c.BindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "bad request"})
			return
		}
		tag, err := db.Exec(context.Background(), `
			UPDATE matches
			SET home_team=$1, away_team=$2, league_name=$3, location_name=$4, city=$5, match_date=$6
			WHERE id=$7`,
			req.HomeTeam, req.AwayTeam, req.LeagueName, req.LocationName, req.City, req.MatchDate, id,
		)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		if tag.RowsAffected() == 0 {
			c.JSON(404, gin.H{"error": "match not found"})
			return
		}
		logAction(db, &actor, "admin_update_match", "match_id="+id.String())
		c.JSON(200, gin.H{"ok": true})
	}
}

func AdminDeleteMatch(db *pgxpool.Pool, cache *Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := uid(c)
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "bad id"})
			return
		}
		_, err = db.Exec(context.Background(), "DELETE FROM matches WHERE id=$1", id)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		cache.Invalidate(context.Background(), CacheKeySeasonTotals)
		logAction(db, &actor, "admin_delete_match", "match_id="+id.String())
		c.JSON(200, gin.H{"ok": true})
	}
}

// ------------------- Admin: convocation -------------------

// POST /api/admin/convocation/open — opens (or resets) the convocation for
// the next upcoming match. Capacity may be overridden in the body, otherwise
// the configured default applies.
func AdminOpenConvocation(db *pgxpool.Pool, engine *Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := uid(c)
		ctx := context.Background()

		var req struct {
			Capacity *int `json:"capacity"`
		}
		_ = c.BindJSON(&req)

		var matchID uuid.UUID
		err := db.QueryRow(ctx,
			"SELECT id FROM matches WHERE match_date >= now() ORDER BY match_date ASC LIMIT 1",
		).Scan(&matchID)
		if err != nil {
			c.JSON(400, gin.H{"error": "no upcoming match"})
			return
		}

		capacity := 0
		if req.Capacity != nil && *req.Capacity > 0 {
			capacity = *req.Capacity
		} else {
			if err := db.QueryRow(ctx,
				"SELECT default_capacity FROM app_settings LIMIT 1").Scan(&capacity); err != nil {
				c.JSON(500, gin.H{"error": "db"})
				return
			}
		}

		cv, err := engine.OpenConvocation(ctx, matchID, capacity)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}

		logAction(db, &actor, "admin_open_convocation", "match_id="+matchID.String())
		c.JSON(200, cv)
	}
}

// POST /api/admin/convocations/:id/remind — mails every player still on
// pending. Returns how many mails actually went out and stamps the
// convocation so the button shows when it was last used.
func AdminSendReminder(db *pgxpool.Pool, mailer Mailer, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := uid(c)
		convocationID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "bad id"})
			return
		}
		if mailer == nil {
			c.JSON(400, gin.H{"error": "mail is not configured"})
			return
		}
		ctx := context.Background()

		m, err := scanMatch(db.QueryRow(ctx, `
			SELECT `+matchCols+` FROM matches
			WHERE id = (SELECT match_id FROM convocations WHERE id=$1)`, convocationID))
		if err != nil {
			c.JSON(404, gin.H{"error": "convocation not found"})
			return
		}

		rows, err := db.Query(ctx, `
			SELECT p.email
			FROM convocation_responses r
			JOIN profiles p ON p.id = r.user_id
			WHERE r.convocation_id = $1 AND r.status = 'pending' AND p.email IS NOT NULL`,
			convocationID)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		var recipients []string
		for rows.Next() {
			var email string
			if err := rows.Scan(&email); err == nil && email != "" {
				recipients = append(recipients, email)
			}
		}
		rows.Close()

		sent := SendEach(ctx, mailer, recipients,
			"Convocatoria: confirma tu asistencia", ConvocationReminderHTML(m), log)

		_, _ = db.Exec(ctx,
			"UPDATE convocations SET last_reminder_sent_at=now() WHERE id=$1", convocationID)

		logAction(db, &actor, "admin_send_reminder", "convocation_id="+convocationID.String()+" sent="+strconv.Itoa(sent))
		c.JSON(200, gin.H{"sent": sent})
	}
}

// ------------------- Admin: lineup -------------------

// PUT /api/admin/matches/:id/lineup — wholesale replace: the saved lineup is
// exactly what the body says, nothing else survives.
func AdminSaveLineup(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := uid(c)
		matchID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "bad id"})
			return
		}

		var req struct {
			Formation string       `json:"formation"`
			Slots     []LineupSlot `json:"slots"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "bad request"})
			return
		}

		ctx := context.Background()
		tx, err := db.Begin(ctx)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		defer tx.Rollback(ctx)

		tag, err := tx.Exec(ctx, "UPDATE matches SET formation=$1 WHERE id=$2", req.Formation, matchID)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		if tag.RowsAffected() == 0 {
			c.JSON(404, gin.H{"error": "match not found"})
			return
		}

		if _, err := tx.Exec(ctx, "DELETE FROM lineups WHERE match_id=$1", matchID); err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		for _, s := range req.Slots {
			// empty slots are simply not saved
			if s.Position == "" || s.UserID == uuid.Nil {
				continue
			}
			if _, err := tx.Exec(ctx,
				"INSERT INTO lineups(match_id, position, user_id) VALUES ($1,$2,$3)",
				matchID, s.Position, s.UserID,
			); err != nil {
				var pgErr *pgconn.PgError
				if errors.As(err, &pgErr) && pgErr.Code == "23505" {
					c.JSON(400, gin.H{"error": "duplicate position " + s.Position})
					return
				}
				c.JSON(500, gin.H{"error": "db"})
				return
			}
		}

		if err := tx.Commit(ctx); err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		logAction(db, &actor, "admin_save_lineup", "match_id="+matchID.String())
		c.JSON(200, gin.H{"ok": true})
	}
}

// ------------------- Admin: match stats -------------------

// PUT /api/admin/matches/:id/stats — wholesale replace of the match's stat
// rows plus the result line and highlights note.
func AdminSaveStats(db *pgxpool.Pool, cache *Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := uid(c)
		matchID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "bad id"})
			return
		}

		type statReq struct {
			UserID      uuid.UUID `json:"user_id"`
			Goals       int       `json:"goals"`
			Assists     int       `json:"assists"`
			YellowCards int       `json:"yellow_cards"`
			RedCards    int       `json:"red_cards"`
		}
		var req struct {
			ResultText     *string   `json:"result_text"`
			HighlightsNote *string   `json:"highlights_note"`
			Stats          []statReq `json:"stats"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "bad request"})
			return
		}
		for _, s := range req.Stats {
			if s.UserID == uuid.Nil || s.Goals < 0 || s.Assists < 0 || s.YellowCards < 0 || s.RedCards < 0 {
				c.JSON(400, gin.H{"error": "bad stat row"})
				return
			}
		}

		ctx := context.Background()
		tx, err := db.Begin(ctx)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		defer tx.Rollback(ctx)

		tag, err := tx.Exec(ctx,
			"UPDATE matches SET result_text=$1, highlights_note=$2 WHERE id=$3",
			req.ResultText, req.HighlightsNote, matchID)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		if tag.RowsAffected() == 0 {
			c.JSON(404, gin.H{"error": "match not found"})
			return
		}

		if _, err := tx.Exec(ctx, "DELETE FROM match_stats WHERE match_id=$1", matchID); err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		for _, s := range req.Stats {
			// all-zero rows carry no information
			if s.Goals == 0 && s.Assists == 0 && s.YellowCards == 0 && s.RedCards == 0 {
				continue
			}
			if _, err := tx.Exec(ctx, `
				INSERT INTO match_stats(match_id, user_id, goals, assists, yellow_cards, red_cards)
				VALUES ($1,$2,$3,$4,$5,$6)`,
				matchID, s.UserID, s.Goals, s.Assists, s.YellowCards, s.RedCards,
			); err != nil {
				var pgErr *pgconn.PgError
				if errors.As(err, &pgErr) && pgErr.Code == "23505" {
					c.JSON(400, gin.H{"error": "duplicate player in stats"})
					return
				}
				c.JSON(500, gin.H{"error": "db"})
				return
			}
		}

		if err := tx.Commit(ctx); err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}

		cache.Invalidate(ctx, CacheKeySeasonTotals)
		logAction(db, &actor, "admin_save_stats", "match_id="+matchID.String())
		c.JSON(200, gin.H{"ok": true})
	}
}

// ------------------- Admin: payments -------------------

// POST /api/admin/payments/cycles {"month_key":"2026-09","amount":25} —
// ensures the cycle exists and that every roster player has a row in it.
// Re-posting an existing month only fills in players added since.
func AdminEnsureCycle(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := uid(c)
		var req struct {
			MonthKey string `json:"month_key"`
			Amount   *int   `json:"amount"`
		}
		if err := c.BindJSON(&req); err != nil || len(req.MonthKey) != 7 {
			c.JSON(400, gin.H{"error": "month_key must look like 2026-09"})
			return
		}

		ctx := context.Background()
		tx, err := db.Begin(ctx)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		defer tx.Rollback(ctx)

		amount := 25
		if req.Amount != nil && *req.Amount > 0 {
			amount = *req.Amount
		}

		var cycleID uuid.UUID
		err = tx.QueryRow(ctx, `
			INSERT INTO payment_cycles(month_key, amount)
			VALUES ($1,$2)
			ON CONFLICT (month_key) DO UPDATE SET amount = EXCLUDED.amount
			RETURNING id`,
			req.MonthKey, amount,
		).Scan(&cycleID)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO payments(cycle_id, user_id)
			SELECT $1, id FROM profiles
			ON CONFLICT (cycle_id, user_id) DO NOTHING`,
			cycleID,
		); err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}

		if err := tx.Commit(ctx); err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		logAction(db, &actor, "admin_ensure_cycle", "month="+req.MonthKey)
		c.JSON(200, gin.H{"ok": true, "cycle_id": cycleID})
	}
}

// GET /api/admin/payments?month=2026-09
func AdminListPayments(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		month := c.Query("month")
		if month == "" {
			c.JSON(400, gin.H{"error": "month is required"})
			return
		}
		ctx := context.Background()

		var cycle PaymentCycle
		err := db.QueryRow(ctx,
			"SELECT id, month_key, amount FROM payment_cycles WHERE month_key=$1", month,
		).Scan(&cycle.ID, &cycle.MonthKey, &cycle.Amount)
		if err != nil {
			c.JSON(404, gin.H{"error": "no cycle for this month"})
			return
		}

		type payRow struct {
			Payment
			DisplayName string `json:"display_name"`
			Dorsal      int    `json:"dorsal"`
		}

		rows, err := db.Query(ctx, `
			SELECT pm.id, pm.user_id, pm.status, pm.paid_at, pm.note, p.display_name, p.dorsal
			FROM payments pm
			JOIN profiles p ON p.id = pm.user_id
			WHERE pm.cycle_id = $1
			ORDER BY p.dorsal ASC, p.id ASC`, cycle.ID)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		defer rows.Close()

		out := []payRow{}
		for rows.Next() {
			var r payRow
			if err := rows.Scan(&r.ID, &r.UserID, &r.Status, &r.PaidAt, &r.Note, &r.DisplayName, &r.Dorsal); err != nil {
				c.JSON(500, gin.H{"error": "scan"})
				return
			}
			out = append(out, r)
		}
		c.JSON(200, gin.H{"cycle": cycle, "payments": out})
	}
}

// PUT /api/admin/payments/:id {"status":"paid|pending","note":"..."}
func AdminSetPayment(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := uid(c)
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "bad id"})
			return
		}
		var req struct {
			Status string  `json:"status"`
			Note   *string `json:"note"`
		}
		if err := c.BindJSON(&req); err != nil || (req.Status != "paid" && req.Status != "pending") {
			c.JSON(400, gin.H{"error": "status must be paid or pending"})
			return
		}

		var paidAt any
		if req.Status == "paid" {
			paidAt = time.Now()
		}
		tag, err := db.Exec(context.Background(),
			"UPDATE payments SET status=$1, paid_at=$2, note=$3, updated_at=now() WHERE id=$4",
			req.Status, paidAt, req.Note, id,
		)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		if tag.RowsAffected() == 0 {
			c.JSON(404, gin.H{"error": "payment not found"})
			return
		}
		logAction(db, &actor, "admin_set_payment", "payment_id="+id.String()+" status="+req.Status)
		c.JSON(200, gin.H{"ok": true})
	}
}

// POST /api/admin/payments/remind?month=2026-09 — mails everyone still
// pending for the month. The stamp lives on the current convocation so the
// dashboard can show when dues were last chased.
func AdminSendPaymentEmail(db *pgxpool.Pool, mailer Mailer, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := uid(c)
		month := c.Query("month")
		if month == "" {
			c.JSON(400, gin.H{"error": "month is required"})
			return
		}
		if mailer == nil {
			c.JSON(400, gin.H{"error": "mail is not configured"})
			return
		}
		ctx := context.Background()

		var cycleID uuid.UUID
		var amount int
		err := db.QueryRow(ctx,
			"SELECT id, amount FROM payment_cycles WHERE month_key=$1", month,
		).Scan(&cycleID, &amount)
		if err != nil {
			c.JSON(404, gin.H{"error": "no cycle for this month"})
			return
		}

		var instructions string
		_ = db.QueryRow(ctx,
			"SELECT COALESCE(payment_instructions,'') FROM app_settings LIMIT 1").Scan(&instructions)

		rows, err := db.Query(ctx, `
			SELECT p.email
			FROM payments pm
			JOIN profiles p ON p.id = pm.user_id
			WHERE pm.cycle_id = $1 AND pm.status = 'pending' AND p.email IS NOT NULL`,
			cycleID)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		var recipients []string
		for rows.Next() {
			var email string
			if err := rows.Scan(&email); err == nil && email != "" {
				recipients = append(recipients, email)
			}
		}
		rows.Close()

		sent := SendEach(ctx, mailer, recipients,
			"Cuota del mes "+month, PaymentRequestHTML(month, amount, instructions), log)

		_, _ = db.Exec(ctx, `
			UPDATE convocations SET last_payment_email_sent_at=now()
			WHERE match_id = (SELECT id FROM matches WHERE match_date >= now() ORDER BY match_date ASC LIMIT 1)`)

		logAction(db, &actor, "admin_payment_email", "month="+month+" sent="+strconv.Itoa(sent))
		c.JSON(200, gin.H{"sent": sent})
	}
}

// ------------------- Admin: players -------------------

func AdminCreatePlayer(db *pgxpool.Pool, cache *Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := uid(c)
		var req struct {
			Username    string  `json:"username"`
			Password    string  `json:"password"`
			DisplayName string  `json:"display_name"`
			Dorsal      int     `json:"dorsal"`
			Email       *string `json:"email"`
			Role        string  `json:"role"`
		}
		if err := c.BindJSON(&req); err != nil || req.Username == "" || len(req.Password) < 6 || req.DisplayName == "" {
			c.JSON(400, gin.H{"error": "bad request"})
			return
		}
		if req.Role == "" {
			req.Role = RolePlayer
		}
		if req.Role != RolePlayer && req.Role != RoleAdmin {
			c.JSON(400, gin.H{"error": "bad role"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(500, gin.H{"error": "hash"})
			return
		}

		var id uuid.UUID
		err = db.QueryRow(context.Background(), `
			INSERT INTO profiles(username, pass_hash, display_name, dorsal, email, role)
			VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
			req.Username, string(hash), req.DisplayName, req.Dorsal, req.Email, req.Role,
		).Scan(&id)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				c.JSON(http.StatusConflict, gin.H{"error": "username taken"})
				return
			}
			c.JSON(500, gin.H{"error": "db"})
			return
		}

		cache.Invalidate(context.Background(), CacheKeySeasonTotals)
		logAction(db, &actor, "admin_create_player", req.Username)
		c.JSON(200, gin.H{"ok": true, "id": id})
	}
}

func AdminUpdatePlayer(db *pgxpool.Pool, cache *Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := uid(c)
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "bad id"})
			return
		}
		var req struct {
			DisplayName string  `json:"display_name"`
			Dorsal      int     `json:"dorsal"`
			Email       *string `json:"email"`
		}
		if err := c.BindJSON(&req); err != nil || req.DisplayName == "" {
			c.JSON(400, gin.H{"error": "bad request"})
			return
		}
		tag, err := db.Exec(context.Background(),
			"UPDATE profiles SET display_name=$1, dorsal=$2, email=$3 WHERE id=$4",
			req.DisplayName, req.Dorsal, req.Email, id,
		)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		if tag.RowsAffected() == 0 {
			c.JSON(404, gin.H{"error": "player not found"})
			return
		}
		cache.Invalidate(context.Background(), CacheKeySeasonTotals)
		logAction(db, &actor, "admin_update_player", "user_id="+id.String())
		c.JSON(200, gin.H{"ok": true})
	}
}

func AdminDeletePlayer(db *pgxpool.Pool, cache *Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := uid(c)
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "bad id"})
			return
		}
		if id == actor {
			c.JSON(400, gin.H{"error": "cannot delete yourself"})
			return
		}
		_, err = db.Exec(context.Background(), "DELETE FROM profiles WHERE id=$1", id)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		cache.Invalidate(context.Background(), CacheKeySeasonTotals)
		logAction(db, &actor, "admin_delete_player", "user_id="+id.String())
		c.JSON(200, gin.H{"ok": true})
	}
}

// ------------------- Admin: videos -------------------

func AdminAddVideo(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := uid(c)
		var req struct {
			Title    string     `json:"title"`
			VimeoURL string     `json:"vimeo_url"`
			MatchID  *uuid.UUID `json:"match_id"`
			Date     *time.Time `json:"date"`
		}
		if err := c.BindJSON(&req); err != nil || req.Title == "" || req.VimeoURL == "" {
			c.JSON(400, gin.H{"error": "bad request"})
			return
		}
		date := time.Now()
		if req.Date != nil {
			date = *req.Date
		}
		var id uuid.UUID
		err := db.QueryRow(context.Background(),
			"INSERT INTO videos(title, vimeo_url, match_id, date) VALUES ($1,$2,$3,$4) RETURNING id",
			req.Title, req.VimeoURL, req.MatchID, date,
		).Scan(&id)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		logAction(db, &actor, "admin_add_video", req.Title)
		c.JSON(200, gin.H{"ok": true, "id": id})
	}
}

func AdminDeleteVideo(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := uid(c)
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(400, gin.H{"error": "bad id"})
			return
		}
		_, err = db.Exec(context.Background(), "DELETE FROM videos WHERE id=$1", id)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		logAction(db, &actor, "admin_delete_video", "video_id="+id.String())
		c.JSON(200, gin.H{"ok": true})
	}
}

// ------------------- Admin: settings / logs -------------------

func AdminUpdateSettings(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := uid(c)
		var req AppSettings
		if err := c.BindJSON(&req); err != nil || req.DefaultCapacity <= 0 {
			c.JSON(400, gin.H{"error": "bad request"})
			return
		}
		_, err := db.Exec(context.Background(), `
			UPDATE app_settings
			SET default_capacity=$1, payment_instructions=$2, instagram_handle=$3, league_url=$4, team_url=$5`,
			req.DefaultCapacity, req.PaymentInstructions, req.InstagramHandle, req.LeagueURL, req.TeamURL,
		)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		logAction(db, &actor, "admin_update_settings", "")
		c.JSON(200, gin.H{"ok": true})
	}
}

func AdminLogs(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := db.Query(context.Background(), `
			SELECT l.id,
			       to_char(l.created_at, 'YYYY-MM-DD HH24:MI:SS') AS created_at,
			       COALESCE(p.username,'(deleted)') AS actor,
			       l.action,
			       l.details
			FROM logs l
			LEFT JOIN profiles p ON p.id=l.actor_id
			ORDER BY l.id DESC LIMIT 200`)
		if err != nil {
			c.JSON(500, gin.H{"error": "db"})
			return
		}
		defer rows.Close()

		type row struct {
			ID        int64  `json:"id"`
			CreatedAt string `json:"created_at"`
			Actor     string `json:"actor"`
			Action    string `json:"action"`
			Details   string `json:"details"`
		}

		out := []row{}
		for rows.Next() {
			var r row
			if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Actor, &r.Action, &r.Details); err != nil {
				c.JSON(500, gin.H{"error": "scan"})
				return
			}
			out = append(out, r)
		}
		c.JSON(200, out)
	}
}
