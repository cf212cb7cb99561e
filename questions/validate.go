package questions

import (
	"github.com/post91/feudbox/feud"
)

// FieldError points at a single bad answer row in a manual question entry.
type FieldError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// ValidateEntry checks a manually entered question before it may be
// published: non-empty text, at least one answer, every answer named, and
// point values positive and never increasing down the board. Returns the
// per-row problems; a nil slice means the entry is publishable.
func ValidateEntry(q feud.Question) []FieldError {
	var errs []FieldError

	if q.Text == "" {
		errs = append(errs, FieldError{Index: -1, Message: "question text is required"})
	}
	if len(q.Answers) == 0 {
		errs = append(errs, FieldError{Index: -1, Message: "at least one answer is required"})
	}

	prev := 0
	for i, a := range q.Answers {
		switch {
		case a.Text == "":
			errs = append(errs, FieldError{Index: i, Message: "answer text is required"})
		case a.Points <= 0:
			errs = append(errs, FieldError{Index: i, Message: "points must be a positive number"})
		case i > 0 && a.Points > prev:
			errs = append(errs, FieldError{Index: i, Message: "points are greater than a previous answer"})
		}
		prev = a.Points
	}

	return errs
}
