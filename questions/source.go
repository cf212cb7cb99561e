// Package questions imports survey questions from an external feud-question
// site and prepares them for play: scraped rows are normalized and, when the
// source's point values are too thin to be worth playing, redistributed to a
// proper 100-point board.
package questions

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"github.com/post91/feudbox/feud"
)

const DefaultSourceURL = "https://www.familyfeudquestions.com/Index/question_vote"

// Query narrows a fetch. Zero values mean "any".
type Query struct {
	Term        string
	AnswerCount int
	Page        int
}

// Result is one page of imported questions.
type Result struct {
	Questions  []feud.Question `json:"questions"`
	Page       int             `json:"page"`
	TotalPages int             `json:"totalPages"`
}

// Client fetches and parses the external question source.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultSourceURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// Fetch retrieves one page of questions. The query term and answer count are
// applied as post-parse filters, since the source only paginates.
func (c *Client) Fetch(ctx context.Context, query Query) (Result, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}

	target := fmt.Sprintf("%s/p/%d", c.baseURL, page)
	if _, err := url.Parse(target); err != nil {
		return Result{}, fmt.Errorf("bad source url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Result{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("question source returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return Result{}, err
	}

	parsed := Parse(doc)

	// Never nil: an empty page serializes as [], matching the degraded
	// failure response.
	filtered := make([]feud.Question, 0, len(parsed))
	for _, q := range parsed {
		if query.AnswerCount > 0 && len(q.Answers) != query.AnswerCount {
			continue
		}
		if query.Term != "" && !strings.Contains(strings.ToLower(q.Text), strings.ToLower(query.Term)) {
			continue
		}
		filtered = append(filtered, q)
	}

	return Result{
		Questions:  filtered,
		Page:       page,
		TotalPages: totalPages(doc, page),
	}, nil
}

// Parse extracts questions from a source document. Rows without a readable
// point value are dropped, as are items with no answers at all.
func Parse(doc *goquery.Document) []feud.Question {
	var questions []feud.Question

	doc.Find(".row.display .item").Each(func(_ int, item *goquery.Selection) {
		text := Normalize(item.Find("h3").Text())

		var answers []feud.Answer

		item.Find(".answer span").Each(func(_ int, span *goquery.Selection) {
			answer, ok := parseAnswer(span.Text())
			if !ok {
				return
			}
			answers = append(answers, answer)
		})

		if text == "" || len(answers) == 0 {
			return
		}

		questions = append(questions, Redistribute(feud.Question{
			Text:    text,
			Answers: answers,
		}))
	})

	return questions
}

// parseAnswer splits a scraped "<answer text> <votes>" row at the first
// digit run.
func parseAnswer(raw string) (feud.Answer, bool) {
	raw = strings.TrimSpace(raw)

	digit := strings.IndexFunc(raw, unicode.IsDigit)
	if digit <= 0 {
		return feud.Answer{}, false
	}

	end := digit
	for end < len(raw) && end-digit < 9 && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}

	points, err := strconv.Atoi(raw[digit:end])
	if err != nil || points <= 0 {
		return feud.Answer{}, false
	}

	text := Normalize(raw[:digit])
	if text == "" {
		return feud.Answer{}, false
	}

	return feud.Answer{
		Text:   text,
		Points: points,
	}, true
}

// totalPages reads the source's pagination block; if it is missing or
// unreadable the current page is reported as the last one.
func totalPages(doc *goquery.Document, page int) int {
	last := page

	doc.Find(".pagination a").Each(func(_ int, a *goquery.Selection) {
		n, err := strconv.Atoi(strings.TrimSpace(a.Text()))
		if err != nil {
			return
		}
		if n > last {
			last = n
		}
	})

	return last
}
