package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus enumerates practice session states.
type SessionStatus string

const (
	SessionStatusInProgress SessionStatus = "IN_PROGRESS"
	SessionStatusCompleted  SessionStatus = "COMPLETED"
	SessionStatusExpired    SessionStatus = "EXPIRED"
)

// PracticeSession is one timed practice attempt.
type PracticeSession struct {
	ID            uuid.UUID     `json:"session_id"`
	UserID        int           `json:"user_id"`
	CourseID      int           `json:"course_id"`
	TopicID       int           `json:"topic_id"`
	QuestionCount int           `json:"question_count"`
	// DurationSeconds is the clamped timer bound, never the raw request.
	DurationSeconds int           `json:"duration_seconds"`
	StartedAt       time.Time     `json:"started_at"`
	ExpiresAt       time.Time     `json:"expires_at"`
	FinishedAt      *time.Time    `json:"finished_at,omitempty"`
	Status          SessionStatus `json:"status"`
	Score           *int          `json:"score,omitempty"`
	Total           *int          `json:"total,omitempty"`
	Percentage      *float64      `json:"percentage,omitempty"`
}

// PaperQuestion is a question as handed to the exam view: no correct
// answer, options already placed in display order. Letters holds the
// canonical letter behind each displayed position so a submission can
// always use the canonical key even when shuffling is on.
type PaperQuestion struct {
	ID           uuid.UUID `json:"id"`
	QuestionText string    `json:"question"`
	OptionA      string    `json:"option_a"`
	OptionB      string    `json:"option_b"`
	OptionC      string    `json:"option_c"`
	OptionD      string    `json:"option_d"`
	Letters      [4]string `json:"letters"`
}

// StartPracticeRequest is the payload for starting a practice session.
// Limits match the portal's setup page (5-45 questions, 5-30 minutes).
type StartPracticeRequest struct {
	CourseID        int `json:"course_id" binding:"required,min=1"`
	TopicID         int `json:"topic_id" binding:"required,min=1"`
	QuestionCount   int `json:"question_count" binding:"required,min=5,max=45"`
	DurationMinutes int `json:"duration_minutes" binding:"required,min=5,max=30"`
}

// StartPracticeResponse is the session descriptor handed to the exam view.
type StartPracticeResponse struct {
	SessionID       uuid.UUID       `json:"session_id"`
	DurationSeconds int             `json:"duration_seconds"`
	Questions       []PaperQuestion `json:"questions"`
}

// SubmitRequest carries the answer map: question id -> selected letter.
// Unanswered questions are simply absent.
type SubmitRequest struct {
	Answers map[string]string `json:"answers" binding:"required"`
}

// SaveAnswerRequest autosaves a single selection.
type SaveAnswerRequest struct {
	QuestionID uuid.UUID `json:"question_id" binding:"required"`
	Answer     string    `json:"answer" binding:"required,oneof=A B C D"`
}

// ReviewRow explains one graded question in the result payload.
type ReviewRow struct {
	QuestionID    uuid.UUID `json:"question_id"`
	Question      string    `json:"question"`
	YourAnswer    string    `json:"your_answer,omitempty"`
	CorrectAnswer string    `json:"correct_answer"`
	CorrectText   string    `json:"correct_text"`
	Correct       bool      `json:"correct"`
}

// PracticeResult is the submission outcome.
type PracticeResult struct {
	SessionID  uuid.UUID   `json:"session_id"`
	Score      int         `json:"score"`
	Total      int         `json:"total"`
	Percentage float64     `json:"percentage"`
	Advice     string      `json:"advice"`
	Review     []ReviewRow `json:"review"`
}

// SessionState is the page-reload recovery payload: what was answered
// so far plus the authoritative remaining time.
type SessionState struct {
	SessionID        uuid.UUID         `json:"session_id"`
	AutosavedAnswers map[string]string `json:"autosaved_answers"`
	RemainingSeconds int               `json:"remaining_seconds"`
	Display          string            `json:"display"`
}

// HistoryRow is one line of a user's practice history.
type HistoryRow struct {
	SessionID  uuid.UUID `json:"session_id"`
	Date       time.Time `json:"date"`
	CourseName string    `json:"course_name"`
	TopicName  string    `json:"topic_name"`
	Score      int       `json:"score"`
	Total      int       `json:"total"`
	Percentage float64   `json:"percentage"`
	Advice     string    `json:"advice"`
}

// LeaderboardRow is one ranked entry: average percentage across
// completed sessions plus the attempt count.
type LeaderboardRow struct {
	UserID        int     `json:"user_id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	AvgScore      float64 `json:"avg_score"`
	TotalAttempts int     `json:"total_attempts"`
}
