package questions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/post91/feudbox/feud"
)

func TestValidateEntry(t *testing.T) {
	tests := []struct {
		name    string
		q       feud.Question
		indexes []int
	}{
		{
			name: "valid",
			q: feud.Question{
				Text: "Q",
				Answers: []feud.Answer{
					{Text: "a", Points: 50},
					{Text: "b", Points: 30},
					{Text: "c", Points: 30},
				},
			},
		},
		{
			name:    "missing everything",
			q:       feud.Question{},
			indexes: []int{-1, -1},
		},
		{
			name: "unnamed answer",
			q: feud.Question{
				Text:    "Q",
				Answers: []feud.Answer{{Points: 50}},
			},
			indexes: []int{0},
		},
		{
			name: "non-positive points",
			q: feud.Question{
				Text: "Q",
				Answers: []feud.Answer{
					{Text: "a", Points: 50},
					{Text: "b", Points: 0},
				},
			},
			indexes: []int{1},
		},
		{
			name: "increasing points",
			q: feud.Question{
				Text: "Q",
				Answers: []feud.Answer{
					{Text: "a", Points: 20},
					{Text: "b", Points: 30},
				},
			},
			indexes: []int{1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateEntry(tt.q)
			require.Len(t, errs, len(tt.indexes))
			for i, fe := range errs {
				assert.Equal(t, tt.indexes[i], fe.Index)
				assert.NotEmpty(t, fe.Message)
			}
		})
	}
}
