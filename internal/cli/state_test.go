package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/unitechhub/examhub/internal/model"
)

func TestStateRoundTripKeepsPaper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "examhub", "state.json")

	qID := uuid.New()
	st := &State{
		Token: "tok123",
		CurrentSession: &SessionRef{
			ID:              uuid.New(),
			DurationSeconds: 600,
			Questions: []model.PaperQuestion{{
				ID: qID, QuestionText: "2+2?",
				OptionA: "4", OptionB: "5", OptionC: "6", OptionD: "7",
				Letters: [4]string{"C", "B", "A", "D"},
			}},
		},
	}
	if err := st.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadState(path)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if loaded.CurrentSession == nil {
		t.Fatal("current session not persisted")
	}

	paper := loaded.CurrentSession.Paper()
	if paper.SessionID != st.CurrentSession.ID || paper.DurationSeconds != 600 {
		t.Errorf("paper header = %v/%d", paper.SessionID, paper.DurationSeconds)
	}
	if len(paper.Questions) != 1 {
		t.Fatalf("paper has %d questions, want 1", len(paper.Questions))
	}
	q := paper.Questions[0]
	if q.ID != qID || q.QuestionText != "2+2?" || q.OptionA != "4" {
		t.Errorf("question not round-tripped: %+v", q)
	}
	if q.Letters != [4]string{"C", "B", "A", "D"} {
		t.Errorf("letters = %v, shuffle mapping must survive the state file", q.Letters)
	}
}

func TestLoadStateMissingAndCorrupt(t *testing.T) {
	dir := t.TempDir()

	st, err := LoadState(filepath.Join(dir, "absent.json"))
	if err != nil || st.Token != "" || st.CurrentSession != nil {
		t.Errorf("missing file: state = %+v, err = %v, want empty state", st, err)
	}

	corrupt := filepath.Join(dir, "corrupt.json")
	if err := os.WriteFile(corrupt, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	st, err = LoadState(corrupt)
	if err != nil || st.CurrentSession != nil {
		t.Errorf("corrupt file: state = %+v, err = %v, want empty state", st, err)
	}
}

// Resuming a session before any answer was autosaved must still render
// the full paper from the state file.
func TestResumeWithNoSavedAnswers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	st := &State{
		CurrentSession: &SessionRef{
			ID:              uuid.New(),
			DurationSeconds: 600,
			Questions: []model.PaperQuestion{{
				ID: uuid.New(), QuestionText: "2+2?",
				OptionA: "4", OptionB: "5", OptionC: "6", OptionD: "7",
				Letters: [4]string{"A", "B", "C", "D"},
			}},
		},
	}
	if err := st.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := LoadState(path)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}

	out := &strings.Builder{}
	runner := NewExamRunner(NewClient("http://unused"), loaded.CurrentSession.Paper(), strings.NewReader("quit\n"), out)
	runner.Restore(&model.SessionState{
		SessionID:        loaded.CurrentSession.ID,
		AutosavedAnswers: map[string]string{},
		RemainingSeconds: 120,
		Display:          "02:00",
	})

	if _, err := runner.Run(context.Background()); !errors.Is(err, ErrQuit) {
		t.Fatalf("Run = %v, want ErrQuit", err)
	}
	if !strings.Contains(out.String(), "2+2?") {
		t.Errorf("resumed view should show the question text, got %q", out.String())
	}
	if runner.countdown.Remaining() != 120 {
		t.Errorf("remaining = %d, want the server's 120", runner.countdown.Remaining())
	}
}

func TestRunRejectsEmptyPaper(t *testing.T) {
	paper := &model.StartPracticeResponse{SessionID: uuid.New(), DurationSeconds: 600}
	runner := NewExamRunner(NewClient("http://unused"), paper, strings.NewReader(""), &strings.Builder{})

	if _, err := runner.Run(context.Background()); !errors.Is(err, ErrEmptyPaper) {
		t.Fatalf("Run = %v, want ErrEmptyPaper", err)
	}
}
