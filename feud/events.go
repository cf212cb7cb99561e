package feud

import "encoding/json"

// EventName identifies one of the pub/sub topics shared by the four roles.
type EventName string

const (
	EventGameChange      EventName = "gameChange"
	EventNewGame         EventName = "newGame"
	EventNewRound        EventName = "newRound"
	EventGameOver        EventName = "gameOver"
	EventQuestionChange  EventName = "questionChange"
	EventPublishQuestion EventName = "publishQuestion"
	EventCorrectAnswer   EventName = "correctAnswer"
	EventWrongAnswer     EventName = "wrongAnswer"
	EventShowQuestion    EventName = "showQuestion"
	EventPlayMusic       EventName = "playMusic"
	EventStopMusic       EventName = "stopMusic"
)

// Event is the wire envelope exchanged over a game channel. Data is a whole
// snapshot of the named entity, never a delta; consumers overwrite rather
// than merge.
type Event struct {
	Name EventName       `json:"event"`
	Data json.RawMessage `json:"data,omitempty"`
}

// ShowQuestionPayload is the body of a showQuestion event.
type ShowQuestionPayload struct {
	Show bool `json:"show"`
}

// PlayMusicPayload is the body of a playMusic event.
type PlayMusicPayload struct {
	Music Music `json:"music"`
}

// NewEvent marshals payload into an event envelope. Marshal failures cannot
// happen for the snapshot types used here, so the payload is dropped rather
// than surfaced.
func NewEvent(name EventName, payload any) Event {
	if payload == nil {
		return Event{Name: name}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return Event{Name: name}
	}

	return Event{Name: name, Data: data}
}

// GamePayload decodes the event body as a Game snapshot.
func (e Event) GamePayload() (Game, error) {
	var g Game
	err := json.Unmarshal(e.Data, &g)
	return g, err
}

// QuestionPayload decodes the event body as a RoundQuestion snapshot.
func (e Event) QuestionPayload() (RoundQuestion, error) {
	var q RoundQuestion
	err := json.Unmarshal(e.Data, &q)
	return q, err
}

func unmarshalPayload(e Event, v any) error {
	if len(e.Data) == 0 {
		return nil
	}
	return json.Unmarshal(e.Data, v)
}
