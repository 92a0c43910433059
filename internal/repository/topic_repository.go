package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/unitechhub/examhub/internal/model"
)

// TopicRepository handles topic data access.
type TopicRepository struct {
	pool *pgxpool.Pool
}

// NewTopicRepository creates a new TopicRepository.
func NewTopicRepository(pool *pgxpool.Pool) *TopicRepository {
	return &TopicRepository{pool: pool}
}

// ListByCourse retrieves a course's topics, optionally enabled only.
func (r *TopicRepository) ListByCourse(ctx context.Context, courseID int, enabledOnly bool) ([]model.Topic, error) {
	query := `SELECT id, course_id, topic_name, enabled, created_at
		 FROM topics
		 WHERE course_id = $1`
	if enabledOnly {
		query += ` AND enabled`
	}
	query += ` ORDER BY topic_name ASC`

	rows, err := r.pool.Query(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []model.Topic
	for rows.Next() {
		var t model.Topic
		if err := rows.Scan(&t.ID, &t.CourseID, &t.TopicName, &t.Enabled, &t.CreatedAt); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// GetByID retrieves a topic by id.
func (r *TopicRepository) GetByID(ctx context.Context, id int) (*model.Topic, error) {
	t := &model.Topic{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, course_id, topic_name, enabled, created_at
		 FROM topics
		 WHERE id = $1`, id,
	).Scan(&t.ID, &t.CourseID, &t.TopicName, &t.Enabled, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Create inserts a new topic, enabled by default.
func (r *TopicRepository) Create(ctx context.Context, t *model.Topic) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO topics (course_id, topic_name, enabled)
		 VALUES ($1, $2, TRUE)
		 RETURNING id, enabled, created_at`,
		t.CourseID, t.TopicName,
	).Scan(&t.ID, &t.Enabled, &t.CreatedAt)
}

// Toggle flips a topic's enabled flag and returns the new value.
func (r *TopicRepository) Toggle(ctx context.Context, id int) (bool, error) {
	var enabled bool
	err := r.pool.QueryRow(ctx,
		`UPDATE topics SET enabled = NOT enabled WHERE id = $1 RETURNING enabled`, id,
	).Scan(&enabled)
	return enabled, err
}
