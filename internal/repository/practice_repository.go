package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/unitechhub/examhub/internal/model"
)

// PracticeRepository handles practice session data access.
type PracticeRepository struct {
	pool *pgxpool.Pool
}

// NewPracticeRepository creates a new PracticeRepository.
func NewPracticeRepository(pool *pgxpool.Pool) *PracticeRepository {
	return &PracticeRepository{pool: pool}
}

const sessionColumns = `id, user_id, course_id, topic_id, question_count, duration_seconds,
		started_at, expires_at, finished_at, status, score, total, percentage`

// Create inserts a session and its question set in one transaction.
// Question order within the session is the insertion position.
func (r *PracticeRepository) Create(ctx context.Context, s *model.PracticeSession, questionIDs []uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx,
		`INSERT INTO practice_sessions
			(user_id, course_id, topic_id, question_count, duration_seconds, expires_at, status)
		 VALUES ($1, $2, $3, $4, $5, NOW() + make_interval(secs => $5), $6)
		 RETURNING id, started_at, expires_at`,
		s.UserID, s.CourseID, s.TopicID, s.QuestionCount, s.DurationSeconds, model.SessionStatusInProgress,
	).Scan(&s.ID, &s.StartedAt, &s.ExpiresAt); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	s.Status = model.SessionStatusInProgress

	for pos, qid := range questionIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO practice_session_questions (session_id, question_id, position)
			 VALUES ($1, $2, $3)`,
			s.ID, qid, pos,
		); err != nil {
			return fmt.Errorf("insert session question: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// GetByID retrieves a session by id.
func (r *PracticeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.PracticeSession, error) {
	s := &model.PracticeSession{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+`
		 FROM practice_sessions
		 WHERE id = $1`, id,
	).Scan(&s.ID, &s.UserID, &s.CourseID, &s.TopicID, &s.QuestionCount, &s.DurationSeconds,
		&s.StartedAt, &s.ExpiresAt, &s.FinishedAt, &s.Status, &s.Score, &s.Total, &s.Percentage)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// QuestionIDs returns the session's question ids in session order.
func (r *PracticeRepository) QuestionIDs(ctx context.Context, sessionID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT question_id
		 FROM practice_session_questions
		 WHERE session_id = $1
		 ORDER BY position ASC`, sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CompleteOnce marks an IN_PROGRESS session finished with its result.
// The WHERE clause on status is the server-side single-fire guard:
// exactly one caller (manual submit or expiry sweep) wins, all others
// see false.
func (r *PracticeRepository) CompleteOnce(ctx context.Context, sessionID uuid.UUID, status model.SessionStatus, score, total int, percentage float64) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE practice_sessions
		 SET status = $1, score = $2, total = $3, percentage = $4, finished_at = NOW()
		 WHERE id = $5 AND status = $6`,
		status, score, total, percentage, sessionID, model.SessionStatusInProgress,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// SaveAnswer upserts one autosaved answer.
func (r *PracticeRepository) SaveAnswer(ctx context.Context, sessionID, questionID uuid.UUID, answer string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO practice_answers (session_id, question_id, answer)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (session_id, question_id) DO UPDATE
		 SET answer = EXCLUDED.answer, updated_at = NOW()`,
		sessionID, questionID, answer,
	)
	return err
}

// Answers returns a session's persisted answers: question id -> letter.
func (r *PracticeRepository) Answers(ctx context.Context, sessionID uuid.UUID) (map[string]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT question_id, answer
		 FROM practice_answers
		 WHERE session_id = $1`, sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := make(map[string]string)
	for rows.Next() {
		var qid uuid.UUID
		var answer string
		if err := rows.Scan(&qid, &answer); err != nil {
			return nil, err
		}
		answers[qid.String()] = answer
	}
	return answers, rows.Err()
}

// ListOverdue returns ids of IN_PROGRESS sessions whose deadline passed
// at or before now. Used by the expiry sweep.
func (r *PracticeRepository) ListOverdue(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id
		 FROM practice_sessions
		 WHERE status = $1 AND expires_at <= $2
		 ORDER BY expires_at ASC
		 LIMIT $3`, model.SessionStatusInProgress, now, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// History lists a user's finished sessions, newest first.
func (r *PracticeRepository) History(ctx context.Context, userID, limit int) ([]model.HistoryRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT ps.id, ps.finished_at, c.course_name, t.topic_name, ps.score, ps.total, ps.percentage
		 FROM practice_sessions ps
		 JOIN courses c ON ps.course_id = c.id
		 JOIN topics t ON ps.topic_id = t.id
		 WHERE ps.user_id = $1 AND ps.status <> $2
		 ORDER BY ps.finished_at DESC
		 LIMIT $3`, userID, model.SessionStatusInProgress, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []model.HistoryRow
	for rows.Next() {
		var h model.HistoryRow
		if err := rows.Scan(&h.SessionID, &h.Date, &h.CourseName, &h.TopicName, &h.Score, &h.Total, &h.Percentage); err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

// Leaderboard ranks users by average percentage over finished sessions.
func (r *PracticeRepository) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT u.id, u.name, u.email,
			ROUND(AVG(ps.percentage)::numeric, 2) AS avg_score,
			COUNT(*) AS total_attempts
		 FROM practice_sessions ps
		 JOIN users u ON ps.user_id = u.id
		 WHERE ps.status <> $1
		 GROUP BY u.id, u.name, u.email
		 ORDER BY avg_score DESC, total_attempts DESC
		 LIMIT $2`, model.SessionStatusInProgress, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var board []model.LeaderboardRow
	for rows.Next() {
		var row model.LeaderboardRow
		if err := rows.Scan(&row.UserID, &row.Name, &row.Email, &row.AvgScore, &row.TotalAttempts); err != nil {
			return nil, err
		}
		board = append(board, row)
	}
	return board, rows.Err()
}
