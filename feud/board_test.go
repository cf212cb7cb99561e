package feud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func effectKinds(effects []Effect) []EffectKind {
	kinds := make([]EffectKind, 0, len(effects))
	for _, e := range effects {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

func TestBoardGameChange(t *testing.T) {
	b := NewBoard()

	game := testGame(3)
	game.TeamOne.Points = 40

	effects := b.Apply(NewEvent(EventGameChange, game))
	assert.Empty(t, effects)
	require.NotNil(t, b.Game)
	assert.Equal(t, 40, b.Game.TeamOne.Points)
}

func TestBoardPublishQuestion(t *testing.T) {
	b := NewBoard()
	b.ShowScore = true
	b.Music = MusicTheme

	effects := b.Apply(NewEvent(EventPublishQuestion, testQuestion(RoundModeDouble)))

	assert.Equal(t, []EffectKind{EffectStopMusic}, effectKinds(effects))
	require.NotNil(t, b.Question)
	assert.Equal(t, RoundModeDouble, b.Question.RoundMode)
	assert.False(t, b.ShowScore)
	assert.Equal(t, MusicNone, b.Music)
}

func TestBoardCorrectAnswer(t *testing.T) {
	b := NewBoard()

	q := testQuestion(RoundModeNormal)
	q.Answers[0].IsAnswered = true
	q.Answers[0].ShowAnswer = true

	effects := b.Apply(NewEvent(EventCorrectAnswer, q))

	assert.Equal(t, []EffectKind{EffectPlayDing}, effectKinds(effects))
	require.NotNil(t, b.Question)
	assert.True(t, b.Question.Answers[0].ShowAnswer)
}

func TestBoardWrongAnswer(t *testing.T) {
	b := NewBoard()
	b.ShowQuestion = true

	game := testGame(3)
	game.Strikes = 2

	effects := b.Apply(NewEvent(EventWrongAnswer, game))

	assert.Equal(t,
		[]EffectKind{EffectPlayBuzzer, EffectClearStrikeLater, EffectShowQuestionLater},
		effectKinds(effects),
	)
	assert.True(t, b.ShowStrike)
	assert.False(t, b.ShowQuestion)
	require.NotNil(t, b.Game)
	assert.Equal(t, 2, b.Game.Strikes)

	// The deferred callbacks restore the display.
	b.ClearStrike()
	b.RestoreQuestionView()
	assert.False(t, b.ShowStrike)
	assert.True(t, b.ShowQuestion)
}

func TestBoardRoundBoundaries(t *testing.T) {
	for _, name := range []EventName{EventNewGame, EventNewRound, EventGameOver} {
		t.Run(string(name), func(t *testing.T) {
			b := NewBoard()
			b.Apply(NewEvent(EventPublishQuestion, testQuestion(RoundModeNormal)))
			b.ShowQuestion = true

			effects := b.Apply(NewEvent(name, testGame(3)))

			assert.Empty(t, effects)
			assert.Nil(t, b.Question)
			assert.True(t, b.ShowScore)
			assert.False(t, b.ShowQuestion)
		})
	}
}

func TestBoardShowQuestion(t *testing.T) {
	b := NewBoard()

	b.Apply(NewEvent(EventShowQuestion, ShowQuestionPayload{Show: true}))
	assert.True(t, b.ShowQuestion)

	b.Apply(NewEvent(EventShowQuestion, ShowQuestionPayload{Show: false}))
	assert.False(t, b.ShowQuestion)
}

func TestBoardMusic(t *testing.T) {
	b := NewBoard()

	effects := b.Apply(NewEvent(EventPlayMusic, PlayMusicPayload{Music: MusicTheme}))
	require.Len(t, effects, 1)
	assert.Equal(t, EffectPlayMusic, effects[0].Kind)
	assert.Equal(t, MusicTheme, effects[0].Music)
	assert.Equal(t, MusicTheme, b.Music)

	effects = b.Apply(NewEvent(EventStopMusic, nil))
	assert.Equal(t, []EffectKind{EffectStopMusic}, effectKinds(effects))
	assert.Equal(t, MusicNone, b.Music)
}

func TestBoardUnknownEventIgnored(t *testing.T) {
	b := NewBoard()
	before := *b

	effects := b.Apply(Event{Name: "somethingElse"})

	assert.Empty(t, effects)
	assert.Equal(t, before, *b)
}

// Late joiners replay the republished event stream; reducing the same
// events twice must land on the same display state.
func TestBoardReplayConverges(t *testing.T) {
	events := []Event{
		NewEvent(EventNewGame, testGame(3)),
		NewEvent(EventPublishQuestion, testQuestion(RoundModeNormal)),
		NewEvent(EventGameChange, testGame(3)),
		NewEvent(EventShowQuestion, ShowQuestionPayload{Show: true}),
	}

	once := NewBoard()
	for _, e := range events {
		once.Apply(e)
	}

	twice := NewBoard()
	for i := 0; i < 2; i++ {
		for _, e := range events {
			twice.Apply(e)
		}
	}

	assert.Equal(t, once, twice)
}
