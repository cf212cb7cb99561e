package feud

// Multiplier returns the score multiplier for a round mode. Modes without a
// defined multiplier (none, fast money, unset) score normally.
func Multiplier(mode RoundMode) int {
	switch mode {
	case RoundModeDouble:
		return 2
	case RoundModeTriple:
		return 3
	default:
		return 1
	}
}

// AnsweredPoints sums points over the correctly-answered rows of a round
// question, scaled by the round multiplier. A nil or answerless question
// scores zero.
func AnsweredPoints(q *RoundQuestion) int {
	if q == nil || len(q.Answers) == 0 {
		return 0
	}

	multiplier := Multiplier(q.RoundMode)

	total := 0
	for _, a := range q.Answers {
		if a.IsAnswered {
			total += a.Points * multiplier
		}
	}

	return total
}
