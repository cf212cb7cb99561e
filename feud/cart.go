package feud

import "errors"

// MaxCartSize bounds the picker's working set of candidate questions.
const MaxCartSize = 5

var (
	ErrBadCartIndex = errors.New("cart index out of range")
	ErrNoActive     = errors.New("no active cart question")
)

// Cart is the picker's bounded working set. Adding never exceeds the bound:
// the oldest non-active entries are evicted first, and the currently
// published entry is always preserved at the front.
type Cart struct {
	questions []ListQuestion
}

func NewCart() *Cart {
	return &Cart{}
}

func (c *Cart) Len() int                  { return len(c.questions) }
func (c *Cart) Questions() []ListQuestion { return c.questions }

// Active returns the currently published entry, if any.
func (c *Cart) Active() *ListQuestion {
	for i := range c.questions {
		if c.questions[i].Active {
			return &c.questions[i]
		}
	}
	return nil
}

// Add appends candidate questions, skipping ones already carted (matched by
// question text), then trims to the size bound keeping the active entry.
func (c *Cart) Add(questions ...Question) {
	carted := make(map[string]bool, len(c.questions))
	for _, q := range c.questions {
		carted[q.Text] = true
	}

	next := append([]ListQuestion{}, c.questions...)

	for _, q := range questions {
		if carted[q.Text] {
			continue
		}
		carted[q.Text] = true
		next = append(next, ListQuestion{
			RoundQuestion: RoundQuestion{Question: q, RoundMode: RoundModeNormal},
		})
	}

	var active *ListQuestion
	rest := make([]ListQuestion, 0, len(next))
	for i := range next {
		if next[i].Active && active == nil {
			active = &next[i]
			continue
		}
		rest = append(rest, next[i])
	}

	if active != nil {
		if len(rest) > MaxCartSize-1 {
			rest = rest[len(rest)-(MaxCartSize-1):]
		}
		c.questions = append([]ListQuestion{*active}, rest...)
		return
	}

	if len(rest) > MaxCartSize {
		rest = rest[len(rest)-MaxCartSize:]
	}
	c.questions = rest
}

// Publish marks the entry at index as the single active question, stamps the
// round mode onto it, and returns the broadcast event. Publishing remaps the
// whole cart so at most one entry is ever active.
func (c *Cart) Publish(index int, mode RoundMode) ([]Event, error) {
	if index < 0 || index >= len(c.questions) {
		return nil, ErrBadCartIndex
	}

	for i := range c.questions {
		c.questions[i].Active = false
	}

	q := &c.questions[index]
	q.Active = true
	q.RoundMode = normalizeMode(mode)

	return []Event{NewEvent(EventPublishQuestion, q.RoundQuestion)}, nil
}

// Republish re-sends the active entry, restamped with the given mode. This
// is the picker's recovery path for a lost publish.
func (c *Cart) Republish(mode RoundMode) ([]Event, error) {
	active := c.Active()
	if active == nil {
		return nil, ErrNoActive
	}

	active.RoundMode = normalizeMode(mode)

	return []Event{NewEvent(EventPublishQuestion, active.RoundQuestion)}, nil
}

// Remove drops the entry at index.
func (c *Cart) Remove(index int) error {
	if index < 0 || index >= len(c.questions) {
		return ErrBadCartIndex
	}

	c.questions = append(c.questions[:index], c.questions[index+1:]...)

	return nil
}

// HandleNewRound reacts to the judge advancing the round: the active entry
// was consumed by that round, so it leaves the cart.
func (c *Cart) HandleNewRound() {
	for i := range c.questions {
		if c.questions[i].Active {
			c.questions = append(c.questions[:i], c.questions[i+1:]...)
			return
		}
	}
}

func normalizeMode(mode RoundMode) RoundMode {
	switch mode {
	case RoundModeDouble, RoundModeTriple, RoundModeFastMoney:
		return mode
	default:
		return RoundModeNormal
	}
}
