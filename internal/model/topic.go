package model

import "time"

// Topic is a practice unit within a course.
type Topic struct {
	ID        int       `json:"id"`
	CourseID  int       `json:"course_id"`
	TopicName string    `json:"topic_name"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateTopicRequest is the payload for adding a topic to a course.
type CreateTopicRequest struct {
	CourseID  int    `json:"course_id" binding:"required,min=1"`
	TopicName string `json:"topic_name" binding:"required,min=2,max=255"`
}
