package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/post91/feudbox/cache"
	"github.com/post91/feudbox/feud"
)

func testCache(t *testing.T) *cache.Store {
	t.Helper()

	store, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestApplyJudgeCommand(t *testing.T) {
	judge := feud.NewJudge()
	store := testCache(t)

	_, err := applyJudgeCommand(judge, store, clientCommand{Type: "createGame"})
	assert.ErrorIs(t, err, errMissingField)

	game := feud.Game{
		TeamOne:     feud.Team{Name: "A"},
		TeamTwo:     feud.Team{Name: "B"},
		TotalRounds: 3,
	}

	events, err := applyJudgeCommand(judge, store, clientCommand{Type: "createGame", Game: &game})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, feud.EventNewGame, events[0].Name)
	assert.Equal(t, feud.StateWaiting, judge.State())

	require.NoError(t, judge.ReceiveQuestion(feud.RoundQuestion{
		Question: feud.Question{
			Text:    "Q",
			Answers: []feud.Answer{{Text: "a", Points: 60}},
		},
		RoundMode: feud.RoundModeNormal,
	}))

	_, err = applyJudgeCommand(judge, store, clientCommand{Type: "toggleAnswer"})
	assert.ErrorIs(t, err, errMissingField)

	events, err = applyJudgeCommand(judge, store, clientCommand{Type: "toggleAnswer", Index: intPtr(0)})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, feud.EventCorrectAnswer, events[0].Name)

	events, err = applyJudgeCommand(judge, store, clientCommand{Type: "addStrike"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, feud.EventWrongAnswer, events[0].Name)

	_, err = applyJudgeCommand(judge, store, clientCommand{Type: "awardWinner", Team: feud.TeamOne})
	require.NoError(t, err)
	assert.Equal(t, 60, judge.Game().TeamOne.Points)

	// Unknown commands are ignored rather than rejected.
	events, err = applyJudgeCommand(judge, store, clientCommand{Type: "doTheDishes"})
	assert.NoError(t, err)
	assert.Empty(t, events)
}

func TestApplyJudgeCommandCachedGame(t *testing.T) {
	judge := feud.NewJudge()
	store := testCache(t)

	_, err := applyJudgeCommand(judge, store, clientCommand{Type: "loadCachedGame"})
	assert.ErrorIs(t, err, cache.ErrNotFound)

	cached := feud.Game{
		TeamOne:      feud.Team{Name: "A", Points: 40},
		TeamTwo:      feud.Team{Name: "B"},
		TotalRounds:  3,
		RoundsPlayed: 1,
	}
	require.NoError(t, store.Set(cache.RoleJudge, cache.KeyGame, cached))

	events, err := applyJudgeCommand(judge, store, clientCommand{Type: "loadCachedGame"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, feud.EventGameChange, events[0].Name)
	assert.Equal(t, cached, *judge.Game())

	_, err = applyJudgeCommand(judge, store, clientCommand{Type: "dismissCachedGame"})
	require.NoError(t, err)
	assert.False(t, store.Has(cache.RoleJudge, cache.KeyGame))
}

func TestApplyJudgeCommandReveal(t *testing.T) {
	judge := feud.NewJudge()
	store := testCache(t)

	game := feud.Game{
		TeamOne:     feud.Team{Name: "A"},
		TeamTwo:     feud.Team{Name: "B"},
		TotalRounds: 3,
	}
	_, err := applyJudgeCommand(judge, store, clientCommand{Type: "createGame", Game: &game})
	require.NoError(t, err)

	require.NoError(t, judge.ReceiveQuestion(feud.RoundQuestion{
		Question: feud.Question{
			Text:    "Q",
			Answers: []feud.Answer{{Text: "a", Points: 60}},
		},
	}))

	_, err = applyJudgeCommand(judge, store, clientCommand{Type: "reveal"})
	assert.ErrorIs(t, err, errMissingField)

	_, err = applyJudgeCommand(judge, store, clientCommand{Type: "reveal", On: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, judge.Showing())
}

func TestDeferredEffectDelay(t *testing.T) {
	cfg := &Config{strikeDelay: 3 * time.Second}

	// The overlay clear is fixed; only the question re-show is tunable.
	assert.Equal(t, time.Second, deferredEffectDelay(cfg, feud.EffectClearStrikeLater))
	assert.Equal(t, 3*time.Second, deferredEffectDelay(cfg, feud.EffectShowQuestionLater))
}

func TestJudgeStateView(t *testing.T) {
	judge := feud.NewJudge()

	msg := judgeState(judge)
	assert.Equal(t, "state", msg.Type)
	assert.Equal(t, roleJudge, msg.Role)
	require.NotNil(t, msg.Judge)
	assert.Equal(t, feud.StateNoGame, msg.Judge.State)
	assert.Zero(t, msg.Judge.AnsweredPoints)
}
