package models

// Action name constants, appended to /p/{gameid}/
const (
	ActionAdd                = "add"
	ActionSelect             = "sel"
	ActionAdminSkip          = "adm_skip"
	ActionToggleDecisionMode = "toggle_dec_mode"
	ActionDelete             = "del"
	ActionAdminKick          = "adm_kick"
)

// OKText is the body the server sends when nothing went wrong.
// It is never treated as an error message, whatever the status code.
const OKText = "OK"

// ReloadText is the body of a /poll response that signals a game update.
const ReloadText = "reload"

// Request types

type AddOptionRequest struct {
	Option string `json:"option"`
}

// Option is zero-based; the page shows it one-based.
type DeleteOptionRequest struct {
	Option int `json:"option"`
}

type KickRequest struct {
	Target string `json:"target"`
}

// EmptyRequest encodes as {}
type EmptyRequest struct{}

type SetNameRequest struct {
	Name string `json:"name"`
}

// Domain types

// GameState is what a rendered game page tells a participant.
type GameState struct {
	GameID       string   `json:"game_id"`
	Username     string   `json:"username"`
	OptionCount  int      `json:"option_count"`
	Participants []string `json:"participants,omitempty"`
	CanAdd       bool     `json:"can_add"`
	CanSelect    bool     `json:"can_select"`
	CanRemove    bool     `json:"can_remove"`
	IsAdmin      bool     `json:"is_admin"`
}
