package cli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/unitechhub/examhub/internal/model"
	"github.com/unitechhub/examhub/internal/response"
)

func TestDecodeEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Courses(context.Background())
	if err == nil {
		t.Fatal("expected error for empty body")
	}
	if !strings.Contains(err.Error(), "empty response") || !strings.Contains(err.Error(), "502") {
		t.Errorf("error = %q, want empty-response message with status", err)
	}
}

func TestDecodeNonJSONBodyIncludesExcerpt(t *testing.T) {
	long := "<html>" + strings.Repeat("x", 300) + "</html>"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(long))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Courses(context.Background())
	if err == nil {
		t.Fatal("expected error for non-JSON body")
	}
	msg := err.Error()
	if !strings.Contains(msg, "<html>") {
		t.Errorf("error should carry a body excerpt: %q", msg)
	}
	if strings.Contains(msg, long) {
		t.Errorf("error should truncate the body, got full %d bytes", len(long))
	}
	if !strings.Contains(msg, "...") {
		t.Errorf("truncated excerpt should end with ellipsis: %q", msg)
	}
}

func TestDecodeEnvelopeErrorSurfacesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"data":null,"error":{"code":"SESSION_EXPIRED","message":"Session expired"},"metadata":{"request_id":"r1","timestamp":"t"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.SubmitPractice(context.Background(), uuid.New(), map[string]string{})
	if err == nil {
		t.Fatal("expected envelope error")
	}
	if err.Error() != "Session expired" {
		t.Errorf("message = %q, want verbatim server message", err.Error())
	}
	if !IsCode(err, response.ErrSessionExpired) {
		t.Errorf("IsCode(SESSION_EXPIRED) = false for %v", err)
	}
}

func TestDecodeNon2xxWithoutEnvelopeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"data":null,"metadata":{"request_id":"r1","timestamp":"t"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Courses(context.Background())
	if err == nil {
		t.Fatal("expected error for bare non-2xx")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("error = %q, want HTTP status mention", err)
	}
}

func TestSubmitPracticeSuccess(t *testing.T) {
	sessionID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok123" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"session_id":"` + sessionID.String() + `","score":4,"total":5,"percentage":80,"advice":"Excellent! Keep up the good work.","review":[]},"metadata":{"request_id":"r1","timestamp":"t"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.Token = "tok123"

	result, err := c.SubmitPractice(context.Background(), sessionID, map[string]string{"q1": "A"})
	if err != nil {
		t.Fatalf("SubmitPractice: %v", err)
	}
	if result.Score != 4 || result.Total != 5 || result.Percentage != 80 {
		t.Errorf("result = %+v", result)
	}
}

func TestExamRunnerSubmitsExactlyOnce(t *testing.T) {
	var mu sync.Mutex
	submits := 0

	qID := uuid.New()
	sessionID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		submits++
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"session_id":"` + sessionID.String() + `","score":1,"total":1,"percentage":100,"advice":"Excellent! Keep up the good work.","review":[]},"metadata":{"request_id":"r1","timestamp":"t"}}`))
	}))
	defer srv.Close()

	paper := &model.StartPracticeResponse{
		SessionID:       sessionID,
		DurationSeconds: 60,
		Questions: []model.PaperQuestion{{
			ID: qID, QuestionText: "2+2?",
			OptionA: "4", OptionB: "5", OptionC: "6", OptionD: "7",
			Letters: [4]string{"A", "B", "C", "D"},
		}},
	}

	runner := NewExamRunner(NewClient(srv.URL), paper, strings.NewReader(""), &strings.Builder{})
	runner.selections[0].Displayed = "A"

	// Timer expiry and manual submit racing: only one request may land.
	results := make(chan submitOutcome, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runner.trySubmit(context.Background(), results)
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if submits != 1 {
		t.Errorf("server received %d submissions, want 1", submits)
	}

	outcome := <-results
	if outcome.err != nil {
		t.Fatalf("submit outcome error: %v", outcome.err)
	}
	if outcome.result.Score != 1 {
		t.Errorf("score = %d, want 1", outcome.result.Score)
	}
}

func TestExamRunnerReleasesGuardOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"data":null,"error":{"code":"INTERNAL_ERROR","message":"An internal server error occurred."},"metadata":{"request_id":"r1","timestamp":"t"}}`))
	}))
	defer srv.Close()

	paper := &model.StartPracticeResponse{
		SessionID:       uuid.New(),
		DurationSeconds: 60,
		Questions: []model.PaperQuestion{{
			ID: uuid.New(), QuestionText: "q",
			Letters: [4]string{"A", "B", "C", "D"},
		}},
	}

	runner := NewExamRunner(NewClient(srv.URL), paper, strings.NewReader(""), &strings.Builder{})
	results := make(chan submitOutcome, 1)
	runner.trySubmit(context.Background(), results)

	if runner.guard.Fired() {
		t.Error("guard should be released after a retryable failure")
	}
	select {
	case out := <-results:
		t.Errorf("retryable failure should not produce an outcome, got %+v", out)
	default:
	}
}

func TestExamRunnerTerminalErrorEndsRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"data":null,"error":{"code":"SESSION_ALREADY_SUBMITTED","message":"This practice session has already been submitted."},"metadata":{"request_id":"r1","timestamp":"t"}}`))
	}))
	defer srv.Close()

	paper := &model.StartPracticeResponse{
		SessionID:       uuid.New(),
		DurationSeconds: 60,
		Questions: []model.PaperQuestion{{
			ID: uuid.New(), QuestionText: "q",
			Letters: [4]string{"A", "B", "C", "D"},
		}},
	}

	runner := NewExamRunner(NewClient(srv.URL), paper, strings.NewReader(""), &strings.Builder{})
	results := make(chan submitOutcome, 1)
	runner.trySubmit(context.Background(), results)

	outcome := <-results
	if !IsCode(outcome.err, response.ErrSessionSubmitted) {
		t.Errorf("outcome error = %v, want SESSION_ALREADY_SUBMITTED", outcome.err)
	}
}

func TestRestoreMapsCanonicalBackToDisplayed(t *testing.T) {
	qID := uuid.New()
	paper := &model.StartPracticeResponse{
		SessionID:       uuid.New(),
		DurationSeconds: 60,
		Questions: []model.PaperQuestion{{
			ID: qID, QuestionText: "q",
			// Shuffled: position A shows canonical C, position C shows canonical A.
			Letters: [4]string{"C", "B", "A", "D"},
		}},
	}

	runner := NewExamRunner(NewClient("http://unused"), paper, strings.NewReader(""), &strings.Builder{})
	runner.Restore(&model.SessionState{
		SessionID:        paper.SessionID,
		AutosavedAnswers: map[string]string{qID.String(): "A"},
		RemainingSeconds: 30,
		Display:          "00:30",
	})

	if got := runner.selections[0].Displayed; got != "C" {
		t.Errorf("restored displayed letter = %q, want C (position showing canonical A)", got)
	}
	if runner.countdown.Remaining() != 30 {
		t.Errorf("remaining = %d, want 30", runner.countdown.Remaining())
	}
}
