package internal

import (
	"time"

	"github.com/google/uuid"
)

// Response statuses. A row is seeded as pending when a convocation opens
// and only returns to pending through a full reset.
const (
	StatusPending = "pending"
	StatusYes     = "yes"
	StatusNo      = "no"
	StatusMaybe   = "maybe"
)

const (
	RoleAdmin  = "admin"
	RolePlayer = "jugador"
)

type Profile struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Dorsal      int       `json:"dorsal"`
	Email       *string   `json:"email,omitempty"`
	Role        string    `json:"role"`
}

type Match struct {
	ID             uuid.UUID `json:"id"`
	HomeTeam       string    `json:"home_team"`
	AwayTeam       string    `json:"away_team"`
	LeagueName     string    `json:"league_name"`
	LocationName   string    `json:"location_name"`
	City           string    `json:"city"`
	MatchDate      time.Time `json:"match_date"`
	Formation      *string   `json:"formation,omitempty"`
	ResultText     *string   `json:"result_text,omitempty"`
	HighlightsNote *string   `json:"highlights_note,omitempty"`
}

type Convocation struct {
	ID                 uuid.UUID  `json:"id"`
	MatchID            uuid.UUID  `json:"match_id"`
	Status             string     `json:"status"`
	Capacity           int        `json:"capacity"`
	ResetAt            *time.Time `json:"reset_at,omitempty"`
	LastReminderSentAt *time.Time `json:"last_reminder_sent_at,omitempty"`
}

type ConvocationResponse struct {
	ID            uuid.UUID `json:"id"`
	ConvocationID uuid.UUID `json:"convocation_id"`
	UserID        uuid.UUID `json:"user_id"`
	Status        string    `json:"status"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type MatchStat struct {
	MatchID     uuid.UUID `json:"match_id"`
	UserID      uuid.UUID `json:"user_id"`
	Goals       int       `json:"goals"`
	Assists     int       `json:"assists"`
	YellowCards int       `json:"yellow_cards"`
	RedCards    int       `json:"red_cards"`
}

type MvpVote struct {
	MatchID     uuid.UUID `json:"match_id"`
	VoterUserID uuid.UUID `json:"voter_user_id"`
	VotedUserID uuid.UUID `json:"voted_user_id"`
}

type LineupSlot struct {
	Position string    `json:"position"`
	UserID   uuid.UUID `json:"user_id"`
}

type PaymentCycle struct {
	ID       uuid.UUID `json:"id"`
	MonthKey string    `json:"month_key"`
	Amount   int       `json:"amount"`
}

type Payment struct {
	ID     uuid.UUID  `json:"id"`
	UserID uuid.UUID  `json:"user_id"`
	Status string     `json:"status"`
	PaidAt *time.Time `json:"paid_at,omitempty"`
	Note   *string    `json:"note,omitempty"`
}

type Video struct {
	ID       uuid.UUID  `json:"id"`
	Title    string     `json:"title"`
	VimeoURL string     `json:"vimeo_url"`
	MatchID  *uuid.UUID `json:"match_id,omitempty"`
	Date     time.Time  `json:"date"`
}

type AppSettings struct {
	DefaultCapacity     int     `json:"default_capacity"`
	PaymentInstructions *string `json:"payment_instructions,omitempty"`
	InstagramHandle     *string `json:"instagram_handle,omitempty"`
	LeagueURL           *string `json:"league_url,omitempty"`
	TeamURL             *string `json:"team_url,omitempty"`
}
