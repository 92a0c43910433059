package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/unitechhub/examhub/internal/model"
)

// CourseRepository handles course data access.
type CourseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

// List retrieves courses. When enabledOnly is set, disabled courses are
// filtered out (the student-facing listing).
func (r *CourseRepository) List(ctx context.Context, enabledOnly bool) ([]model.Course, error) {
	query := `SELECT id, course_name, course_code, enabled, created_at
		 FROM courses`
	if enabledOnly {
		query += ` WHERE enabled`
	}
	query += ` ORDER BY course_name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.CourseName, &c.CourseCode, &c.Enabled, &c.CreatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// GetByID retrieves a course by id.
func (r *CourseRepository) GetByID(ctx context.Context, id int) (*model.Course, error) {
	c := &model.Course{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, course_name, course_code, enabled, created_at
		 FROM courses
		 WHERE id = $1`, id,
	).Scan(&c.ID, &c.CourseName, &c.CourseCode, &c.Enabled, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts a new course, enabled by default.
func (r *CourseRepository) Create(ctx context.Context, c *model.Course) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO courses (course_name, course_code, enabled)
		 VALUES ($1, $2, TRUE)
		 RETURNING id, enabled, created_at`,
		c.CourseName, c.CourseCode,
	).Scan(&c.ID, &c.Enabled, &c.CreatedAt)
}

// Toggle flips a course's enabled flag and returns the new value.
func (r *CourseRepository) Toggle(ctx context.Context, id int) (bool, error) {
	var enabled bool
	err := r.pool.QueryRow(ctx,
		`UPDATE courses SET enabled = NOT enabled WHERE id = $1 RETURNING enabled`, id,
	).Scan(&enabled)
	return enabled, err
}
