package feud

import "errors"

// Judge rule violations. These surface only to the judge client that issued
// the command; they never reach the game channel.
var (
	ErrNoGame        = errors.New("no game in progress")
	ErrGameActive    = errors.New("a game is already in progress")
	ErrGameOver      = errors.New("the game is over")
	ErrInvalidGame   = errors.New("invalid game setup")
	ErrNoQuestion    = errors.New("no active round question")
	ErrBadAnswer     = errors.New("answer index out of range")
	ErrBadTeam       = errors.New("unknown team")
	ErrHasWinner     = errors.New("round winner already recorded")
	ErrNoWinner      = errors.New("no round winner recorded")
	ErrWrongTeam     = errors.New("only the winning team's award can be undone")
	ErrNoOnDeck      = errors.New("no on-deck question")
)

// JudgeState is the coarse lifecycle state of the judge's round machine.
type JudgeState string

const (
	StateNoGame   JudgeState = "noGame"
	StateWaiting  JudgeState = "waiting"
	StateInRound  JudgeState = "inRound"
	StateGameOver JudgeState = "gameOver"
)

// Judge is the authoritative round state machine. Every command is a local,
// synchronous, in-memory transition that returns the events to broadcast;
// the machine never touches the transport, and a lost publish never rolls
// local state back.
type Judge struct {
	state    JudgeState
	game     *Game
	question *RoundQuestion
	onDeck   *RoundQuestion
	winner   TeamName
	awarded  int
	reveal   bool
	strikeFX bool
}

func NewJudge() *Judge {
	return &Judge{
		state:    StateNoGame,
		strikeFX: true,
	}
}

func (j *Judge) State() JudgeState        { return j.state }
func (j *Judge) Game() *Game              { return j.game }
func (j *Judge) Question() *RoundQuestion { return j.question }
func (j *Judge) OnDeck() *RoundQuestion   { return j.onDeck }
func (j *Judge) Winner() TeamName         { return j.winner }
func (j *Judge) Reveal() bool             { return j.reveal }

// Showing reports whether the machine is in reveal-only display mode:
// answers flipped from here on are shown without scoring credit. The mode
// engages on the manual reveal switch, on maxed-out strikes (steal lost),
// or once a round winner is recorded.
func (j *Judge) Showing() bool {
	if j.game == nil {
		return j.reveal
	}
	return j.reveal || j.game.Strikes >= maxStrikes || j.winner != ""
}

const maxStrikes = 4

// CreateGame starts a fresh game. Valid only when no game is running.
func (j *Judge) CreateGame(g Game) ([]Event, error) {
	if j.state != StateNoGame && j.state != StateGameOver {
		return nil, ErrGameActive
	}
	if g.TotalRounds < 1 || g.TeamOne.Name == "" || g.TeamTwo.Name == "" {
		return nil, ErrInvalidGame
	}

	g.RoundsPlayed = 0
	g.Strikes = 0

	j.game = &g
	j.state = StateWaiting
	j.resetRound()

	return []Event{NewEvent(EventNewGame, j.game)}, nil
}

// LoadCachedGame recovers a previously persisted game after a judge restart.
// The recovered snapshot is rebroadcast so the other roles resynchronize;
// competing live state is clobbered last-writer-wins.
func (j *Judge) LoadCachedGame(g Game) ([]Event, error) {
	if j.state != StateNoGame && j.state != StateGameOver {
		return nil, ErrGameActive
	}

	j.game = &g
	j.state = StateWaiting
	j.resetRound()

	return []Event{NewEvent(EventGameChange, j.game)}, nil
}

// ReceiveQuestion handles a question published by the host or picker. When a
// round is already in progress the incoming question is queued on deck
// instead of overwriting the live round; it is promoted at the next round
// advance, or explicitly via ForceLoadOnDeck.
func (j *Judge) ReceiveQuestion(q RoundQuestion) error {
	switch j.state {
	case StateNoGame:
		return ErrNoGame
	case StateGameOver:
		return ErrGameOver
	}

	if j.question == nil {
		j.question = &q
		j.state = StateInRound
		return nil
	}

	j.onDeck = &q

	return nil
}

// ForceLoadOnDeck discards the current round's progress and loads the
// queued question immediately.
func (j *Judge) ForceLoadOnDeck() ([]Event, error) {
	if j.onDeck == nil {
		return nil, ErrNoOnDeck
	}

	j.question = j.onDeck
	j.onDeck = nil
	j.winner = ""
	j.awarded = 0
	j.reveal = false
	j.game.Strikes = 0
	j.state = StateInRound

	return []Event{
		NewEvent(EventQuestionChange, j.question),
		NewEvent(EventGameChange, j.game),
	}, nil
}

// ToggleAnswer flips the answer at index. In answering mode a newly visible
// answer is credited and broadcast as a correct answer so the board dings;
// hiding an answer is a silent correction. In showing mode the flip only
// reveals, leaving scoring credit untouched.
func (j *Judge) ToggleAnswer(index int) ([]Event, error) {
	if j.game == nil {
		return nil, ErrNoGame
	}
	if j.question == nil {
		return nil, ErrNoQuestion
	}
	if index < 0 || index >= len(j.question.Answers) {
		return nil, ErrBadAnswer
	}

	a := &j.question.Answers[index]

	if j.Showing() {
		a.ShowAnswer = true

		return []Event{NewEvent(EventQuestionChange, j.question)}, nil
	}

	toggled := !a.ShowAnswer
	a.ShowAnswer = toggled
	a.IsAnswered = toggled

	name := EventQuestionChange
	if toggled {
		name = EventCorrectAnswer
	}

	return []Event{NewEvent(name, j.question)}, nil
}

// SetReveal switches the manual reveal-only mode on or off.
func (j *Judge) SetReveal(reveal bool) error {
	if j.question == nil {
		return ErrNoQuestion
	}
	j.reveal = reveal
	return nil
}

// SetStrikeAnimation enables or disables the board-side strike animation
// and buzzer. With it off, strikes degrade to silent game updates.
func (j *Judge) SetStrikeAnimation(enabled bool) {
	j.strikeFX = enabled
}

// AddStrike records a wrong answer, clamped at the steal threshold. The
// broadcast is a wrongAnswer event only when the strike animation is
// enabled, so the board can buzz; otherwise a plain game update.
func (j *Judge) AddStrike() ([]Event, error) {
	if j.game == nil {
		return nil, ErrNoGame
	}
	if j.state == StateGameOver {
		return nil, ErrGameOver
	}
	if j.game.Strikes >= maxStrikes {
		return nil, nil
	}

	j.game.Strikes++

	name := EventGameChange
	if j.strikeFX {
		name = EventWrongAnswer
	}

	return []Event{NewEvent(name, j.game)}, nil
}

// RemoveStrike undoes a strike. Never animated.
func (j *Judge) RemoveStrike() ([]Event, error) {
	if j.game == nil {
		return nil, ErrNoGame
	}
	if j.state == StateGameOver {
		return nil, ErrGameOver
	}
	if j.game.Strikes <= 0 {
		return nil, nil
	}

	j.game.Strikes--

	return []Event{NewEvent(EventGameChange, j.game)}, nil
}

// AwardRoundWinner adds the current answered points to the named team.
// Valid once per round. The awarded amount is captured so the undo remains
// an exact inverse even if answers mutate afterward.
func (j *Judge) AwardRoundWinner(team TeamName) ([]Event, error) {
	if j.game == nil {
		return nil, ErrNoGame
	}
	if j.question == nil {
		return nil, ErrNoQuestion
	}
	if j.winner != "" {
		return nil, ErrHasWinner
	}

	t := j.game.Team(team)
	if t == nil {
		return nil, ErrBadTeam
	}

	points := AnsweredPoints(j.question)
	t.Points += points
	j.winner = team
	j.awarded = points

	return []Event{NewEvent(EventGameChange, j.game)}, nil
}

// UndoRoundWinner reverses exactly the recorded award and clears the winner.
func (j *Judge) UndoRoundWinner(team TeamName) ([]Event, error) {
	if j.game == nil {
		return nil, ErrNoGame
	}
	if j.winner == "" {
		return nil, ErrNoWinner
	}
	if team != j.winner {
		return nil, ErrWrongTeam
	}

	t := j.game.Team(team)
	if t == nil {
		return nil, ErrBadTeam
	}

	t.Points -= j.awarded
	j.winner = ""
	j.awarded = 0

	return []Event{NewEvent(EventGameChange, j.game)}, nil
}

// AdvanceRound closes out the current round. On the final round the game
// ends; otherwise strikes and the winner reset and any on-deck question is
// promoted into the new round.
func (j *Judge) AdvanceRound() ([]Event, error) {
	if j.game == nil {
		return nil, ErrNoGame
	}
	if j.state == StateGameOver {
		return nil, ErrGameOver
	}
	if j.winner == "" {
		return nil, ErrNoWinner
	}

	next := j.game.RoundsPlayed + 1

	if next >= j.game.TotalRounds {
		j.game.RoundsPlayed = j.game.TotalRounds
		j.game.Strikes = 0
		j.state = StateGameOver
		j.question = nil
		j.onDeck = nil
		j.winner = ""
		j.awarded = 0
		j.reveal = false

		return []Event{NewEvent(EventGameOver, j.game)}, nil
	}

	j.game.RoundsPlayed = next
	j.game.Strikes = 0
	j.winner = ""
	j.awarded = 0
	j.reveal = false

	j.question = j.onDeck
	j.onDeck = nil

	events := []Event{NewEvent(EventNewRound, j.game)}

	if j.question != nil {
		j.state = StateInRound
		events = append(events, NewEvent(EventQuestionChange, j.question))
	} else {
		j.state = StateWaiting
	}

	return events, nil
}

// ShowQuestion toggles the board between strike view and question view.
func (j *Judge) ShowQuestion(show bool) ([]Event, error) {
	if j.question == nil {
		return nil, ErrNoQuestion
	}

	return []Event{NewEvent(EventShowQuestion, ShowQuestionPayload{Show: show})}, nil
}

// Republish rebroadcasts the current snapshots. This is the manual recovery
// path for a lost publish: the channel is fire-and-forget, so staleness in
// another role is only ever fixed by sending again.
func (j *Judge) Republish() []Event {
	var events []Event

	if j.game != nil {
		events = append(events, NewEvent(EventGameChange, j.game))
	}
	if j.question != nil {
		events = append(events, NewEvent(EventQuestionChange, j.question))
	}

	return events
}

func (j *Judge) resetRound() {
	j.question = nil
	j.onDeck = nil
	j.winner = ""
	j.awarded = 0
	j.reveal = false
}
