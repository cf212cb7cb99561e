package questions

import (
	"hash/fnv"
	"math/rand"
	"strings"

	"github.com/post91/feudbox/feud"
)

// Lowercase words kept out of title case unless they lead the phrase.
var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true, "but": true,
	"by": true, "for": true, "from": true, "in": true, "nor": true,
	"of": true, "on": true, "or": true, "the": true, "to": true, "with": true,
}

var smartQuotes = strings.NewReplacer(
	"‘", "'",
	"’", "'",
	"“", `"`,
	"”", `"`,
	"–", "-",
	"—", "-",
)

// Normalize trims scraped text, replaces smart punctuation with ASCII, and
// title-cases it with a small stop-word list.
func Normalize(s string) string {
	s = smartQuotes.Replace(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	words := strings.Fields(s)
	for i, word := range words {
		lower := strings.ToLower(word)
		if i > 0 && stopWords[lower] {
			words[i] = lower
			continue
		}
		words[i] = capitalize(lower)
	}

	return strings.Join(words, " ")
}

func capitalize(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}

	for i, r := range runes {
		if r >= 'a' && r <= 'z' {
			runes[i] = r - ('a' - 'A')
			break
		}
		if r != '\'' && r != '"' && r != '(' {
			break
		}
	}

	return string(runes)
}

// Points below this aggregate make a board not worth playing as scraped.
const redistributeThreshold = 80

// Redistribute rebuilds a question's point spread when the scraped values
// sum too low. Replacement values descend and sum to exactly 100; the shape
// is jittered by a generator seeded from the question text, so repeated
// imports of the same question agree while different questions vary.
func Redistribute(q feud.Question) feud.Question {
	total := 0
	for _, a := range q.Answers {
		total += a.Points
	}

	if total > redistributeThreshold || len(q.Answers) == 0 {
		return q
	}

	rng := rand.New(rand.NewSource(int64(textSeed(q.Text))))

	n := len(q.Answers)
	weights := make([]float64, n)
	sum := 0.0
	for i := range weights {
		weights[i] = float64(n-i) + rng.Float64()*0.9
		sum += weights[i]
	}

	assigned := 0
	for i := range q.Answers {
		points := int(100 * weights[i] / sum)
		if points < 1 {
			points = 1
		}
		q.Answers[i].Points = points
		assigned += points
	}

	// Rounding slack lands on the top answer, keeping the order descending.
	q.Answers[0].Points += 100 - assigned

	return q
}

func textSeed(text string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(text))
	return h.Sum32()
}
