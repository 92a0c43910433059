package model

import "time"

// Course is a top-level subject area (e.g. "Mathematics", "MTH101").
type Course struct {
	ID         int       `json:"id"`
	CourseName string    `json:"course_name"`
	CourseCode string    `json:"course_code,omitempty"`
	Enabled    bool      `json:"enabled"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateCourseRequest is the payload for adding a course.
type CreateCourseRequest struct {
	CourseName string `json:"course_name" binding:"required,min=2,max=255"`
	CourseCode string `json:"course_code" binding:"omitempty,max=20"`
}
