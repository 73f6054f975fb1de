// Package report checks batches of sentence pairs and renders the results.
package report

import (
	"context"
	"errors"
	"sync"

	"github.com/f3rmion/pinyincheck/internal/logger"
	"github.com/f3rmion/pinyincheck/internal/verify"
)

// Checker verifies one pair. *verify.Verifier satisfies it.
type Checker interface {
	Check(pinyinText, hanziText string) error
}

// Entry is a pair to check together with where it came from.
type Entry struct {
	Source string // e.g. "pairs.tsv:12" or "note 1690000000"
	Pinyin string
	Hanzi  string
}

// Status classifies a Result.
type Status string

const (
	StatusOK         Status = "ok"
	StatusPhonetic   Status = "phonetic-mismatch"
	StatusErhua      Status = "erhua-mismatch"
	StatusStructural Status = "hanzi-exhausted"
	StatusParse      Status = "unparseable"
	StatusError      Status = "error"
)

// Result is the outcome of checking one entry.
type Result struct {
	Entry  Entry
	Status Status
	Err    error
}

// OK reports whether the entry verified.
func (r Result) OK() bool {
	return r.Status == StatusOK
}

// Classify maps a Check error to a Status.
func Classify(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, verify.ErrPhoneticMismatch):
		return StatusPhonetic
	case errors.Is(err, verify.ErrErhuaMismatch):
		return StatusErhua
	case errors.Is(err, verify.ErrHanziExhausted):
		return StatusStructural
	case errors.Is(err, verify.ErrSyllable):
		return StatusParse
	default:
		return StatusError
	}
}

// Run checks entries with up to workers goroutines. Results are in input
// order. If ctx is cancelled, no further entries are started and Run returns
// the results finished so far with ctx.Err().
func Run(ctx context.Context, c Checker, entries []Entry, workers int) ([]Result, error) {
	if workers < 1 {
		workers = 1
	}
	log := logger.Named("report")

	results := make([]Result, len(entries))
	done := make([]bool, len(entries))
	jobs := make(chan int, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				e := entries[i]
				err := c.Check(e.Pinyin, e.Hanzi)
				results[i] = Result{Entry: e, Status: Classify(err), Err: err}
				done[i] = true
				if err != nil {
					log.Debug().Str("source", e.Source).Str("status", string(results[i].Status)).Err(err).Msg("pair failed")
				}
			}
		}()
	}

	var runErr error
dispatch:
	for i := range entries {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if runErr != nil {
		finished := results[:0]
		for i, r := range results {
			if done[i] {
				finished = append(finished, r)
			}
		}
		log.Warn().Err(runErr).Int("checked", len(finished)).Int("total", len(entries)).Msg("check interrupted")
		return finished, runErr
	}
	return results, nil
}

// Summary counts results by status.
type Summary struct {
	Total      int `json:"total"`
	OK         int `json:"ok"`
	Mismatch   int `json:"mismatch"`
	Structural int `json:"structural"`
	Parse      int `json:"parse"`
	Other      int `json:"other"`
}

// Summarize counts results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case StatusOK:
			s.OK++
		case StatusPhonetic, StatusErhua:
			s.Mismatch++
		case StatusStructural:
			s.Structural++
		case StatusParse:
			s.Parse++
		default:
			s.Other++
		}
	}
	return s
}

// Failed reports whether any result is not OK.
func (s Summary) Failed() bool {
	return s.OK != s.Total
}
