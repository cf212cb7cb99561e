package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/post91/feudbox/feud"
	"github.com/post91/feudbox/questions"
)

// serveQuestions proxies the external question source. A source failure is
// not fatal to the caller: it degrades to an empty result set and the host
// falls back to manual entry.
func serveQuestions(cfg *Config, errs chan<- error) httprouter.Handle {
	client := questions.NewClient(cfg.questionsURL, &http.Client{Timeout: timeout})

	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		query := questions.Query{
			Term: r.URL.Query().Get("q"),
		}
		if count, err := strconv.Atoi(r.URL.Query().Get("answerCount")); err == nil {
			query.AnswerCount = count
		}
		if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
			query.Page = page
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		result, err := client.Fetch(ctx, query)
		if err != nil {
			logf(cfg, "QUESTIONS: Fetch failed: %v", err)
			result = questions.Result{
				Questions:  []feud.Question{},
				Page:       query.Page,
				TotalPages: 0,
			}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		securityHeaders(cfg, w)

		body, err := json.Marshal(result)
		if err != nil {
			errs <- err

			return
		}

		written, err := w.Write(body)
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: %d questions (%s) to %s in %s",
			len(result.Questions),
			humanReadableSize(int64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}
