package model

import (
	"time"

	"github.com/google/uuid"
)

// Question is a four-option multiple choice question. CorrectOption is
// always a canonical letter A-D referring to OptionA..OptionD, never a
// display position.
type Question struct {
	ID            uuid.UUID `json:"id"`
	TopicID       int       `json:"topic_id"`
	QuestionText  string    `json:"question"`
	OptionA       string    `json:"option_a"`
	OptionB       string    `json:"option_b"`
	OptionC       string    `json:"option_c"`
	OptionD       string    `json:"option_d"`
	CorrectOption string    `json:"correct_option,omitempty"`
	Enabled       bool      `json:"enabled"`
	CreatedAt     time.Time `json:"created_at"`
}

// OptionText returns the option text for a canonical letter, or "" for
// anything outside A-D.
func (q *Question) OptionText(letter string) string {
	switch letter {
	case "A":
		return q.OptionA
	case "B":
		return q.OptionB
	case "C":
		return q.OptionC
	case "D":
		return q.OptionD
	}
	return ""
}

// AddQuestionRequest is the payload for adding a question to a topic.
type AddQuestionRequest struct {
	TopicID       int    `json:"topic_id" binding:"required,min=1"`
	QuestionText  string `json:"question" binding:"required,min=1,max=2000"`
	OptionA       string `json:"option_a" binding:"required,max=500"`
	OptionB       string `json:"option_b" binding:"required,max=500"`
	OptionC       string `json:"option_c" binding:"required,max=500"`
	OptionD       string `json:"option_d" binding:"required,max=500"`
	CorrectOption string `json:"correct_option" binding:"required,oneof=A B C D"`
}
