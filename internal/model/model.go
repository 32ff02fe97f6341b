package model

import (
	"encoding/json"
	"time"
)

// User represents a registered user.
type User struct {
	ID          string    `json:"id"`
	Provider    string    `json:"provider"`
	ProviderID  string    `json:"provider_id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Game statuses.
const (
	GameActive   = "active"
	GameFinished = "finished"
)

// Game outcomes recorded when a game finishes.
const (
	ResultVictory  = "victory"
	ResultGameOver = "game_over"
	ResultTurnCap  = "turn_limit"
)

// Game is one campaign hosted by the server. The live engine state lives in
// the session cache; this row is the durable index.
type Game struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	CreatorID  string     `json:"creator_id"`
	Status     string     `json:"status"` // active, finished
	Seed       int64      `json:"seed"`
	Difficulty string     `json:"difficulty"`
	PlayerLord int        `json:"player_lord"`
	Turn       int        `json:"turn"`
	Result     string     `json:"result,omitempty"`
	Winner     string     `json:"winner,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// TurnRecord is the archived log and resulting state of one completed turn.
type TurnRecord struct {
	ID        string          `json:"id"`
	GameID    string          `json:"game_id"`
	Turn      int             `json:"turn"`
	Year      int             `json:"year"`
	Season    string          `json:"season"`
	Log       []string        `json:"log"`
	State     json.RawMessage `json:"state,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// BattleRecord is one resolved battle with its full report.
type BattleRecord struct {
	ID                string          `json:"id"`
	GameID            string          `json:"game_id"`
	Turn              int             `json:"turn"`
	Seq               int             `json:"seq"`
	AttackerLord      int             `json:"attacker_lord"`
	DefenderLord      int             `json:"defender_lord"`
	FromProvince      int             `json:"from_province"`
	ToProvince        int             `json:"to_province"`
	AttackerTroops    int             `json:"attacker_troops"`
	DefenderTroops    int             `json:"defender_troops"`
	AttackerRemaining int             `json:"attacker_remaining"`
	DefenderRemaining int             `json:"defender_remaining"`
	Captured          bool            `json:"captured"`
	Report            json.RawMessage `json:"report"`
	CreatedAt         time.Time       `json:"created_at"`
}

// EventRecord is one entry of a game's event history.
type EventRecord struct {
	ID         string          `json:"id"`
	GameID     string          `json:"game_id"`
	Turn       int             `json:"turn"`
	Season     string          `json:"season"`
	EventID    string          `json:"event_id"`
	ProvinceID int             `json:"province_id"`
	Choice     string          `json:"choice,omitempty"`
	Effects    json.RawMessage `json:"effects"`
	CreatedAt  time.Time       `json:"created_at"`
}
