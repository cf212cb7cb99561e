package feud

import "strings"

// RoundMode is the scoring modifier stamped onto a question when it is
// published into a round. It travels with the question for the life of the
// round so a late-arriving event can never reinterpret an old question under
// a newer multiplier.
type RoundMode string

const (
	RoundModeNone      RoundMode = "none"
	RoundModeNormal    RoundMode = "normal"
	RoundModeDouble    RoundMode = "double"
	RoundModeTriple    RoundMode = "triple"
	RoundModeFastMoney RoundMode = "fastmoney"
)

// Music identifies a cue the picker can trigger on the board.
type Music string

const (
	MusicTheme         Music = "theme"
	MusicGunsmokeOpen  Music = "gunsmokeOpen"
	MusicGunsmokeEnd   Music = "gunsmokeEnd"
	MusicGunsmokeNext  Music = "gunsmokeNext"
	MusicNone          Music = ""
)

// TeamName selects one of the two fixed team slots in a Game.
type TeamName string

const (
	TeamOne TeamName = "teamOne"
	TeamTwo TeamName = "teamTwo"
)

// Answer is one row on the board. IsAnswered marks a correctly-revealed
// answer that counts toward the round score; ShowAnswer marks it flipped on
// the board. IsAnswered implies ShowAnswer.
type Answer struct {
	Text       string `json:"text"`
	Points     int    `json:"points"`
	IsAnswered bool   `json:"isAnswered"`
	ShowAnswer bool   `json:"showAnswer"`
}

// Question is a survey question with its ordered answers, highest points
// first.
type Question struct {
	Text    string   `json:"text"`
	Answers []Answer `json:"answers"`
	Tags    []string `json:"tags,omitempty"`
}

// RoundQuestion is a question plus the round mode attached at publish time.
type RoundQuestion struct {
	Question
	RoundMode RoundMode `json:"roundMode"`
}

// ListQuestion is a cart entry: a round question plus picker-local selection
// flags. At most one entry in a cart is Active.
type ListQuestion struct {
	RoundQuestion
	ShowAnswers bool `json:"showAnswers,omitempty"`
	Selected    bool `json:"selected,omitempty"`
	Active      bool `json:"active,omitempty"`
}

type Team struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// Game is the judge-owned authoritative game state. Strikes is clamped to
// [0,4]; four strikes is the steal state. RoundsPlayed never exceeds
// TotalRounds.
type Game struct {
	TeamOne      Team `json:"teamOne"`
	TeamTwo      Team `json:"teamTwo"`
	TotalRounds  int  `json:"totalRounds"`
	RoundsPlayed int  `json:"roundsPlayed"`
	Strikes      int  `json:"strikes"`
}

// Team returns a pointer to the named team slot, or nil for an unknown name.
func (g *Game) Team(name TeamName) *Team {
	switch name {
	case TeamOne:
		return &g.TeamOne
	case TeamTwo:
		return &g.TeamTwo
	}
	return nil
}

const channelSuffix = "status-updates"

// ChannelName maps a user-supplied game channel code to the logical pub/sub
// channel name shared by all four roles.
func ChannelName(code string) string {
	return strings.ToLower(code + "_" + channelSuffix)
}
