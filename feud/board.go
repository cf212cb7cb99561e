package feud

// EffectKind names a side effect requested by the board projection. The
// projection itself only reduces events into display state; timing and
// audio stay with the caller so replaying the same events is deterministic.
type EffectKind string

const (
	EffectPlayDing           EffectKind = "playDing"
	EffectPlayBuzzer         EffectKind = "playBuzzer"
	EffectClearStrikeLater   EffectKind = "clearStrikeLater"
	EffectShowQuestionLater  EffectKind = "showQuestionLater"
	EffectPlayMusic          EffectKind = "playMusic"
	EffectStopMusic          EffectKind = "stopMusic"
)

type Effect struct {
	Kind  EffectKind
	Music Music
}

// Board is the passive display projection. It holds no authority: any event
// may arrive in any order or twice, and each one simply overwrites the
// matching display signal.
type Board struct {
	Game         *Game          `json:"game,omitempty"`
	Question     *RoundQuestion `json:"question,omitempty"`
	ShowStrike   bool           `json:"showStrike"`
	ShowQuestion bool           `json:"showQuestion"`
	ShowScore    bool           `json:"showScore"`
	Music        Music          `json:"music,omitempty"`
}

func NewBoard() *Board {
	return &Board{}
}

// Apply reduces one event into the projection and returns the side effects
// the caller should run. Unknown events are ignored.
func (b *Board) Apply(e Event) []Effect {
	switch e.Name {
	case EventGameChange:
		game, err := e.GamePayload()
		if err != nil {
			return nil
		}
		b.Game = &game

	case EventQuestionChange, EventPublishQuestion:
		question, err := e.QuestionPayload()
		if err != nil {
			return nil
		}
		b.Question = &question
		b.ShowScore = false
		b.Music = MusicNone

		return []Effect{{Kind: EffectStopMusic}}

	case EventCorrectAnswer:
		question, err := e.QuestionPayload()
		if err != nil {
			return nil
		}
		b.Question = &question

		return []Effect{{Kind: EffectPlayDing}}

	case EventWrongAnswer:
		game, err := e.GamePayload()
		if err != nil {
			return nil
		}
		b.Game = &game
		b.ShowStrike = true
		b.ShowQuestion = false

		return []Effect{
			{Kind: EffectPlayBuzzer},
			{Kind: EffectClearStrikeLater},
			{Kind: EffectShowQuestionLater},
		}

	case EventNewGame, EventNewRound, EventGameOver:
		game, err := e.GamePayload()
		if err != nil {
			return nil
		}
		b.Game = &game
		b.Question = nil
		b.ShowScore = true
		b.ShowQuestion = false

	case EventShowQuestion:
		var payload ShowQuestionPayload
		if err := unmarshalPayload(e, &payload); err != nil {
			return nil
		}
		b.ShowQuestion = payload.Show

	case EventPlayMusic:
		var payload PlayMusicPayload
		if err := unmarshalPayload(e, &payload); err != nil {
			return nil
		}
		b.Music = payload.Music

		return []Effect{{Kind: EffectPlayMusic, Music: payload.Music}}

	case EventStopMusic:
		b.Music = MusicNone

		return []Effect{{Kind: EffectStopMusic}}
	}

	return nil
}

// ClearStrike ends the transient strike overlay. Called by the owner when
// the scheduled clear fires.
func (b *Board) ClearStrike() {
	b.ShowStrike = false
}

// RestoreQuestionView flips back to question view after the strike delay.
func (b *Board) RestoreQuestionView() {
	b.ShowQuestion = true
}
