package main

import (
	"errors"
	"time"

	"github.com/post91/feudbox/cache"
	"github.com/post91/feudbox/feud"
	"github.com/post91/feudbox/questions"
)

// runBoard drives the passive board projection. The board publishes nothing;
// it reduces whatever arrives, in whatever order, into display state and
// forwards the reducer's effect directives as one-shot client messages.
func runBoard(cfg *Config, hub *channelHub, c *client, cmds <-chan clientCommand) {
	board := feud.NewBoard()
	ticks := make(chan feud.EffectKind, 8)

	c.trySend(boardState(board))

	schedule := func(kind feud.EffectKind) {
		time.AfterFunc(deferredEffectDelay(cfg, kind), func() {
			select {
			case ticks <- kind:
			default:
			}
		})
	}

	for {
		select {
		case _, ok := <-cmds:
			if !ok {
				return
			}
			// The board accepts no commands.

		case e, ok := <-c.events:
			if !ok {
				return
			}

			for _, effect := range board.Apply(e) {
				switch effect.Kind {
				case feud.EffectClearStrikeLater, feud.EffectShowQuestionLater:
					schedule(effect.Kind)
				default:
					c.trySend(effectMessage{Type: "effect", Effect: effect.Kind, Music: effect.Music})
				}
			}

			c.trySend(boardState(board))

		case kind := <-ticks:
			switch kind {
			case feud.EffectClearStrikeLater:
				board.ClearStrike()
			case feud.EffectShowQuestionLater:
				board.RestoreQuestionView()
			}

			c.trySend(boardState(board))
		}
	}
}

// The strike overlay always lingers for one second; only the flip back to
// question view honors the configured strike delay.
const strikeOverlayDuration = time.Second

func deferredEffectDelay(cfg *Config, kind feud.EffectKind) time.Duration {
	if kind == feud.EffectClearStrikeLater {
		return strikeOverlayDuration
	}
	return cfg.strikeDelay
}

func boardState(board *feud.Board) stateMessage {
	return stateMessage{
		Type:  "state",
		Role:  roleBoard,
		Board: board,
	}
}

// runJudge drives the authoritative round state machine. Every accepted
// command updates local state first and then broadcasts; a failed broadcast
// leaves the other roles stale, never the judge wrong.
func runJudge(cfg *Config, hub *channelHub, store *cache.Store, c *client, cmds <-chan clientCommand) {
	judge := feud.NewJudge()

	c.trySend(cachedStateMessage{Type: "cachedGame", Present: store.Has(cache.RoleJudge, cache.KeyGame)})
	c.trySend(judgeState(judge))

	mirror := func() {
		if judge.Game() == nil || judge.State() == feud.StateGameOver {
			return
		}
		if err := store.Set(cache.RoleJudge, cache.KeyGame, judge.Game()); err != nil {
			logf(cfg, "FEUD: judge cache write failed: %v", err)
		}
	}

	for {
		select {
		case cmd, ok := <-cmds:
			if !ok {
				return
			}

			events, err := applyJudgeCommand(judge, store, cmd)
			if err != nil {
				c.sendError(err)
				continue
			}

			if len(events) > 0 {
				hub.publish(c, events...)
			}

			switch cmd.Type {
			case "createGame", "addStrike", "removeStrike", "awardWinner",
				"undoWinner", "advanceRound", "forceOnDeck", "loadCachedGame":
				mirror()
			}

			if judge.State() == feud.StateGameOver {
				if err := store.Delete(cache.RoleJudge, cache.KeyGame); err != nil {
					logf(cfg, "FEUD: judge cache clear failed: %v", err)
				}
			}

			c.trySend(judgeState(judge))

		case e, ok := <-c.events:
			if !ok {
				return
			}

			switch e.Name {
			case feud.EventPublishQuestion, feud.EventQuestionChange:
				question, err := e.QuestionPayload()
				if err != nil {
					continue
				}
				if err := judge.ReceiveQuestion(question); err != nil {
					c.sendError(err)
					continue
				}
				c.trySend(judgeState(judge))
			}
		}
	}
}

var errMissingField = errors.New("missing command field")

func applyJudgeCommand(judge *feud.Judge, store *cache.Store, cmd clientCommand) ([]feud.Event, error) {
	switch cmd.Type {
	case "createGame":
		if cmd.Game == nil {
			return nil, errMissingField
		}
		return judge.CreateGame(*cmd.Game)

	case "loadCachedGame":
		var game feud.Game
		if err := store.Get(cache.RoleJudge, cache.KeyGame, &game); err != nil {
			return nil, err
		}
		return judge.LoadCachedGame(game)

	case "dismissCachedGame":
		return nil, store.Delete(cache.RoleJudge, cache.KeyGame)

	case "toggleAnswer":
		if cmd.Index == nil {
			return nil, errMissingField
		}
		return judge.ToggleAnswer(*cmd.Index)

	case "reveal":
		if cmd.On == nil {
			return nil, errMissingField
		}
		return nil, judge.SetReveal(*cmd.On)

	case "strikeAnimation":
		if cmd.On == nil {
			return nil, errMissingField
		}
		judge.SetStrikeAnimation(*cmd.On)
		return nil, nil

	case "addStrike":
		return judge.AddStrike()

	case "removeStrike":
		return judge.RemoveStrike()

	case "awardWinner":
		return judge.AwardRoundWinner(cmd.Team)

	case "undoWinner":
		return judge.UndoRoundWinner(cmd.Team)

	case "advanceRound":
		return judge.AdvanceRound()

	case "forceOnDeck":
		return judge.ForceLoadOnDeck()

	case "showQuestion":
		if cmd.Show == nil {
			return nil, errMissingField
		}
		return judge.ShowQuestion(*cmd.Show)

	case "republish":
		return judge.Republish(), nil
	}

	// Ignore unknown types.
	return nil, nil
}

func judgeState(judge *feud.Judge) stateMessage {
	return stateMessage{
		Type: "state",
		Role: roleJudge,
		Judge: &judgeView{
			State:          judge.State(),
			Game:           judge.Game(),
			Question:       judge.Question(),
			HasOnDeck:      judge.OnDeck() != nil,
			Winner:         judge.Winner(),
			Reveal:         judge.Reveal(),
			Showing:        judge.Showing(),
			AnsweredPoints: feud.AnsweredPoints(judge.Question()),
		},
	}
}

// runPicker drives the question cart. The picker is a publisher except for
// one passive subscription: the judge's round advance consumes the active
// cart entry.
func runPicker(cfg *Config, hub *channelHub, c *client, cmds <-chan clientCommand) {
	cart := feud.NewCart()

	c.trySend(pickerState(cart))

	for {
		select {
		case cmd, ok := <-cmds:
			if !ok {
				return
			}

			switch cmd.Type {
			case "addToCart":
				cart.Add(cmd.Questions...)

			case "removeFromCart":
				if cmd.Index == nil {
					c.sendError(errMissingField)
					continue
				}
				if err := cart.Remove(*cmd.Index); err != nil {
					c.sendError(err)
					continue
				}

			case "publishQuestion":
				if cmd.Index == nil {
					c.sendError(errMissingField)
					continue
				}
				events, err := cart.Publish(*cmd.Index, cmd.RoundMode)
				if err != nil {
					c.sendError(err)
					continue
				}
				hub.publish(c, events...)

			case "republish":
				events, err := cart.Republish(cmd.RoundMode)
				if err != nil {
					c.sendError(err)
					continue
				}
				hub.publish(c, events...)

			case "playMusic":
				hub.publish(c, feud.NewEvent(feud.EventPlayMusic, feud.PlayMusicPayload{Music: cmd.Music}))
				continue

			case "stopMusic":
				hub.publish(c, feud.NewEvent(feud.EventStopMusic, nil))
				continue

			default:
				continue
			}

			c.trySend(pickerState(cart))

		case e, ok := <-c.events:
			if !ok {
				return
			}

			if e.Name == feud.EventNewRound {
				cart.HandleNewRound()
				c.trySend(pickerState(cart))
			}
		}
	}
}

func pickerState(cart *feud.Cart) stateMessage {
	return stateMessage{
		Type: "state",
		Role: rolePicker,
		Cart: cart.Questions(),
	}
}

// runHost drives the host's single staged question: fetched or manually
// entered, validated, published into the round, and mirrored for recovery.
func runHost(cfg *Config, hub *channelHub, store *cache.Store, c *client, cmds <-chan clientCommand) {
	var question *feud.Question

	c.trySend(cachedStateMessage{Type: "cachedQuestion", Present: store.Has(cache.RoleHost, cache.KeyQuestion)})
	c.trySend(hostState(question))

	publish := func() {
		hub.publish(c, feud.NewEvent(feud.EventQuestionChange, feud.RoundQuestion{
			Question:  *question,
			RoundMode: feud.RoundModeNormal,
		}))
	}

	for {
		select {
		case cmd, ok := <-cmds:
			if !ok {
				return
			}

			switch cmd.Type {
			case "startRound":
				if cmd.Question == nil {
					c.sendError(errMissingField)
					continue
				}
				if fieldErrs := questions.ValidateEntry(*cmd.Question); len(fieldErrs) > 0 {
					c.trySend(invalidEntryMessage{Type: "invalidEntry", Errors: fieldErrs})
					continue
				}

				question = cmd.Question
				if err := store.Set(cache.RoleHost, cache.KeyQuestion, question); err != nil {
					logf(cfg, "FEUD: host cache write failed: %v", err)
				}
				publish()

			case "loadCachedQuestion":
				var cached feud.Question
				if err := store.Get(cache.RoleHost, cache.KeyQuestion, &cached); err != nil {
					c.sendError(err)
					continue
				}
				question = &cached
				publish()

			case "republish":
				if question == nil {
					c.sendError(feud.ErrNoQuestion)
					continue
				}
				publish()

			case "reset", "dismissCachedQuestion":
				question = nil
				if err := store.Delete(cache.RoleHost, cache.KeyQuestion); err != nil {
					logf(cfg, "FEUD: host cache clear failed: %v", err)
				}

			default:
				continue
			}

			c.trySend(hostState(question))

		case _, ok := <-c.events:
			if !ok {
				return
			}
			// The host holds no projection of channel state.
		}
	}
}

func hostState(question *feud.Question) stateMessage {
	return stateMessage{
		Type:     "state",
		Role:     roleHost,
		Question: question,
	}
}
