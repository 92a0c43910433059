package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/unitechhub/examhub/internal/exam"
	"github.com/unitechhub/examhub/internal/model"
	"github.com/unitechhub/examhub/internal/response"
)

// ErrQuit is returned when the user abandons the exam view without
// submitting. The session stays active server-side until its deadline.
var ErrQuit = errors.New("exam view closed")

// ErrEmptyPaper is returned when a runner is handed a paper with no
// questions, e.g. a state file written by an older client version.
var ErrEmptyPaper = errors.New("session paper has no questions")

// ExamRunner drives one practice session in the terminal: renders
// questions, ticks the countdown, autosaves selections and submits the
// answer map exactly once, whether the trigger is the user or the timer.
type ExamRunner struct {
	client *Client
	out    io.Writer
	in     *bufio.Scanner

	paper *model.StartPracticeResponse
	guard *exam.SubmitGuard

	mu         sync.Mutex
	selections []exam.Selection
	current    int
	countdown  *exam.Countdown
}

// NewExamRunner prepares a runner for a freshly started session.
func NewExamRunner(client *Client, paper *model.StartPracticeResponse, in io.Reader, out io.Writer) *ExamRunner {
	selections := make([]exam.Selection, len(paper.Questions))
	for i, q := range paper.Questions {
		selections[i] = exam.Selection{
			QuestionID: q.ID.String(),
			Order:      exam.OptionOrder(q.Letters),
		}
	}
	return &ExamRunner{
		client:     client,
		out:        out,
		in:         bufio.NewScanner(in),
		paper:      paper,
		guard:      exam.NewSubmitGuard(),
		selections: selections,
		countdown:  exam.NewCountdown(paper.DurationSeconds),
	}
}

// Restore replays autosaved answers onto the selections, mapping each
// canonical letter back to its displayed position.
func (r *ExamRunner) Restore(state *model.SessionState) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.countdown = exam.NewCountdown(state.RemainingSeconds)
	for i := range r.selections {
		canonical, ok := state.AutosavedAnswers[r.selections[i].QuestionID]
		if !ok {
			continue
		}
		for pos, letter := range r.selections[i].Order {
			if letter == canonical {
				r.selections[i].Displayed = exam.Letters[pos]
				break
			}
		}
	}
}

// Run executes the exam loop until submission, expiry or quit.
func (r *ExamRunner) Run(ctx context.Context) (*model.PracticeResult, error) {
	if len(r.paper.Questions) == 0 {
		return nil, ErrEmptyPaper
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan submitOutcome, 1)

	go r.tickLoop(ctx, results)
	go r.inputLoop(ctx, results)

	outcome := <-results
	return outcome.result, outcome.err
}

type submitOutcome struct {
	result *model.PracticeResult
	err    error
}

// tickLoop drives the cosmetic countdown and fires the automatic
// submission when it reaches zero. The server would close the session
// anyway; submitting here just gets the user their result immediately.
func (r *ExamRunner) tickLoop(ctx context.Context, results chan<- submitOutcome) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.mu.Lock()
			_, expired := r.countdown.Tick()
			r.mu.Unlock()
			if expired {
				fmt.Fprintln(r.out, "\nTime is up. Submitting your answers...")
				r.trySubmit(ctx, results)
				return
			}
		}
	}
}

// inputLoop reads user commands until the context ends.
func (r *ExamRunner) inputLoop(ctx context.Context, results chan<- submitOutcome) {
	r.render()
	for r.in.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(r.in.Text())
		switch {
		case line == "":
			// Re-render on a bare enter.
		case strings.EqualFold(line, "submit"):
			r.trySubmit(ctx, results)
			return
		case strings.EqualFold(line, "quit"):
			select {
			case results <- submitOutcome{err: ErrQuit}:
			default:
			}
			return
		case strings.EqualFold(line, "n"):
			r.move(1)
		case strings.EqualFold(line, "p"):
			r.move(-1)
		default:
			if n, err := strconv.Atoi(line); err == nil {
				r.jump(n - 1)
			} else {
				r.answer(ctx, line)
			}
		}
		r.render()
	}
	select {
	case results <- submitOutcome{err: ErrQuit}:
	default:
	}
}

// answer records a selection for the current question and autosaves it.
func (r *ExamRunner) answer(ctx context.Context, input string) {
	displayed := strings.ToUpper(strings.TrimSpace(input))
	switch displayed {
	case "A", "B", "C", "D":
	default:
		fmt.Fprintf(r.out, "Unknown command %q. Use A-D, n, p, a question number, submit or quit.\n", input)
		return
	}

	r.mu.Lock()
	sel := &r.selections[r.current]
	sel.Displayed = displayed
	canonical := sel.Order.CanonicalLetter(displayed)
	questionID := r.paper.Questions[r.current].ID
	r.mu.Unlock()

	if canonical == "" {
		return
	}
	if err := r.client.SaveAnswer(ctx, r.paper.SessionID, questionID, canonical); err != nil {
		// Autosave failure is not fatal: the answer still rides along in
		// the final submission.
		fmt.Fprintf(r.out, "Autosave failed: %v\n", err)
	}
}

func (r *ExamRunner) move(delta int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := r.current + delta
	if next >= 0 && next < len(r.paper.Questions) {
		r.current = next
	}
}

func (r *ExamRunner) jump(index int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index >= 0 && index < len(r.paper.Questions) {
		r.current = index
	}
}

// trySubmit performs the exactly-once submission. Losing the guard race
// is silent: the winner's outcome is the session outcome. A failed
// attempt releases the guard so the user can retry, except when the
// server says the session is already over.
func (r *ExamRunner) trySubmit(ctx context.Context, results chan<- submitOutcome) {
	if !r.guard.Acquire() {
		return
	}

	r.mu.Lock()
	answers := exam.CollectAnswers(r.selections)
	r.mu.Unlock()

	result, err := r.client.SubmitPractice(ctx, r.paper.SessionID, answers)
	if err != nil {
		if IsCode(err, response.ErrSessionExpired) || IsCode(err, response.ErrSessionSubmitted) {
			// Terminal: the session is closed server-side.
			select {
			case results <- submitOutcome{err: err}:
			default:
			}
			return
		}
		fmt.Fprintf(r.out, "Submission failed: %v\nType submit to retry.\n", err)
		r.guard.Release()
		return
	}

	select {
	case results <- submitOutcome{result: result}:
	default:
	}
}

// render prints the current question with its timer and progress line.
func (r *ExamRunner) render() {
	r.mu.Lock()
	defer r.mu.Unlock()

	q := r.paper.Questions[r.current]
	sel := r.selections[r.current]

	answered := 0
	for _, s := range r.selections {
		if s.Displayed != "" {
			answered++
		}
	}

	fmt.Fprintf(r.out, "\n[%s]  Question %d/%d  (answered %d)\n",
		r.countdown.Display(), r.current+1, len(r.paper.Questions), answered)
	fmt.Fprintln(r.out, q.QuestionText)
	fmt.Fprintf(r.out, "  A) %s\n  B) %s\n  C) %s\n  D) %s\n", q.OptionA, q.OptionB, q.OptionC, q.OptionD)
	if sel.Displayed != "" {
		fmt.Fprintf(r.out, "Your answer: %s\n", sel.Displayed)
	}
	fmt.Fprint(r.out, "> ")
}
