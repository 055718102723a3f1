// Package insights asks a language model for a short weekly summary of the
// household's chore logs.
package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dukerupert/chorelog/internal/catalog"
	"github.com/dukerupert/chorelog/internal/model"
	"github.com/dukerupert/chorelog/internal/stats"
)

const (
	NotEnoughData = "Not enough data yet! Log some chores to get insights."
	Failure       = "Oops! I had trouble thinking about your chores. Please try again later."
)

// Window is how far back Analyze looks.
const Window = 7 * 24 * time.Hour

// ErrNotConfigured is returned by generators that have no credentials.
var ErrNotConfigured = errors.New("insights generator not configured")

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Outcome classifies one Analyze call.
type Outcome string

const (
	OutcomeOK     Outcome = "ok"
	OutcomeNoData Outcome = "no_data"
	OutcomeError  Outcome = "error"
)

type Option func(*Requester)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Requester) { r.now = now }
}

// WithLocation sets the zone used for the dates in the prompt.
func WithLocation(loc *time.Location) Option {
	return func(r *Requester) { r.loc = loc }
}

// WithObserver registers a callback invoked with the outcome of every Analyze call.
func WithObserver(fn func(Outcome)) Option {
	return func(r *Requester) { r.observe = fn }
}

type Requester struct {
	gen     Generator
	logger  *slog.Logger
	now     func() time.Time
	loc     *time.Location
	observe func(Outcome)
}

// NewRequester returns a Requester backed by gen. A nil gen behaves like a
// generator that always returns ErrNotConfigured.
func NewRequester(gen Generator, logger *slog.Logger, opts ...Option) *Requester {
	r := &Requester{
		gen:     gen,
		logger:  logger.With("component", "insights"),
		now:     time.Now,
		loc:     time.Local,
		observe: func(Outcome) {},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// record is one log as the model sees it.
type record struct {
	Member string `json:"member"`
	Chore  string `json:"chore"`
	Date   string `json:"date"`
}

// Analyze summarizes the logs of the trailing week. It never fails: with no
// recent logs it returns NotEnoughData without calling the generator, and
// any generator error becomes Failure.
func (r *Requester) Analyze(ctx context.Context, logs []model.ChoreLog, members []model.FamilyMember, chores []catalog.ChoreType) string {
	cutoff := r.now().Add(-Window).UnixMilli()
	idx := stats.IndexMembers(members)
	choreNames := make(map[string]string, len(chores))
	for _, c := range chores {
		choreNames[c.ID] = c.Name
	}

	var records []record
	for _, l := range logs {
		if l.Timestamp <= cutoff {
			continue
		}
		chore, ok := choreNames[l.ChoreID]
		if !ok {
			chore = catalog.UnknownChore.Name
		}
		records = append(records, record{
			Member: idx.Resolve(l.MemberID).Name,
			Chore:  chore,
			Date:   l.Time(r.loc).Format("1/2/2006"),
		})
	}

	if len(records) == 0 {
		r.observe(OutcomeNoData)
		return NotEnoughData
	}

	prompt, err := buildPrompt(records)
	if err != nil {
		r.logger.Error("build prompt", "error", err)
		r.observe(OutcomeError)
		return Failure
	}

	text, err := r.generate(ctx, prompt)
	if err != nil {
		r.logger.Error("generate insights", "error", err, "records", len(records))
		r.observe(OutcomeError)
		return Failure
	}

	r.logger.Info("generated insights", "records", len(records), "chars", len(text))
	r.observe(OutcomeOK)
	return text
}

func (r *Requester) generate(ctx context.Context, prompt string) (string, error) {
	if r.gen == nil {
		return "", ErrNotConfigured
	}
	text, err := r.gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("empty response")
	}
	return text, nil
}

const promptTemplate = `You are a friendly, witty and encouraging coach for a busy family.
These are the chores the family logged over the last 7 days:
%s

Write a short summary in Markdown, at most 200 words, with these three sections:
1. **🏆 MVP of the Week**: who did the most, or the toughest, chores?
2. **📊 Trends**: which chores come up most and which are being skipped?
3. **💡 Tip**: one gentle suggestion to share the load or a bit of fun motivation for anyone lagging behind.

Keep it light and kind.`

func buildPrompt(records []record) (string, error) {
	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("marshal records: %w", err)
	}
	return fmt.Sprintf(promptTemplate, data), nil
}
