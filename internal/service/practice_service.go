package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/unitechhub/examhub/internal/config"
	"github.com/unitechhub/examhub/internal/exam"
	"github.com/unitechhub/examhub/internal/model"
	"github.com/unitechhub/examhub/internal/repository"
)

// Domain errors.
var (
	ErrSessionNotFound  = errors.New("practice session not found")
	ErrNotSessionOwner  = errors.New("practice session belongs to another user")
	ErrSessionSubmitted = errors.New("practice session already submitted")
	ErrSessionExpired   = errors.New("practice session expired")
	ErrNoQuestions      = errors.New("no questions available for this topic")
)

// cacheSlack keeps Redis entries alive a little past the session
// deadline so late submissions still hit the fast lane.
const cacheSlack = time.Hour

// AnswerPersistPayload is the queue item handed to the autosave worker.
type AnswerPersistPayload struct {
	SessionID  string `json:"session_id"`
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

// PracticeService drives the timed practice-session flow: start,
// autosave, state recovery, submission and the expiry sweep.
type PracticeService struct {
	practiceRepo *repository.PracticeRepository
	questionRepo *repository.QuestionRepository
	topicRepo    *repository.TopicRepository
	courseRepo   *repository.CourseRepository
	rdb          *redis.Client
	cfg          *config.Config
	log          zerolog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewPracticeService creates a new PracticeService.
func NewPracticeService(
	practiceRepo *repository.PracticeRepository,
	questionRepo *repository.QuestionRepository,
	topicRepo *repository.TopicRepository,
	courseRepo *repository.CourseRepository,
	rdb *redis.Client,
	cfg *config.Config,
	log zerolog.Logger,
) *PracticeService {
	return &PracticeService{
		practiceRepo: practiceRepo,
		questionRepo: questionRepo,
		topicRepo:    topicRepo,
		courseRepo:   courseRepo,
		rdb:          rdb,
		cfg:          cfg,
		log:          log.With().Str("component", "practice_service").Logger(),
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start creates a timed session: picks random enabled questions for the
// topic, clamps the requested duration to the timer bounds, persists
// the session and caches its deadline plus answer key in Redis.
func (s *PracticeService) Start(ctx context.Context, userID int, req *model.StartPracticeRequest) (*model.StartPracticeResponse, error) {
	topic, err := s.topicRepo.GetByID(ctx, req.TopicID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get topic: %w", err)
	}
	if topic.CourseID != req.CourseID || !topic.Enabled {
		return nil, ErrNotFound
	}
	course, err := s.courseRepo.GetByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}
	if !course.Enabled {
		return nil, ErrNotFound
	}

	questions, err := s.questionRepo.PickRandom(ctx, req.TopicID, req.QuestionCount)
	if err != nil {
		return nil, fmt.Errorf("pick questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	session := &model.PracticeSession{
		UserID:          userID,
		CourseID:        req.CourseID,
		TopicID:         req.TopicID,
		QuestionCount:   len(questions),
		DurationSeconds: exam.ClampDuration(req.DurationMinutes),
	}

	ids := make([]uuid.UUID, len(questions))
	for i := range questions {
		ids[i] = questions[i].ID
	}
	if err := s.practiceRepo.Create(ctx, session, ids); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	// Each rendered option carries its canonical letter, so clients always
	// submit canonical answers and the server never needs the display order.
	papers := make([]model.PaperQuestion, len(questions))
	for i := range questions {
		order := exam.IdentityOrder()
		if s.cfg.ShuffleOptions {
			s.mu.Lock()
			order = exam.ShuffledOrder(s.rng)
			s.mu.Unlock()
		}
		papers[i] = exam.BuildPaperQuestion(&questions[i], order)
	}

	s.warmSessionCache(ctx, session, questions)

	return &model.StartPracticeResponse{
		SessionID:       session.ID,
		DurationSeconds: session.DurationSeconds,
		Questions:       papers,
	}, nil
}

// warmSessionCache populates the Redis fast lane: deadline plus answer
// key. Failures are logged, not fatal — every read path falls back to
// PostgreSQL.
func (s *PracticeService) warmSessionCache(ctx context.Context, session *model.PracticeSession, questions []model.Question) {
	sid := session.ID.String()
	ttl := time.Duration(session.DurationSeconds)*time.Second + cacheSlack

	key := make(map[string]string, len(questions))
	for i := range questions {
		key[questions[i].ID.String()] = questions[i].CorrectOption
	}

	pipe := s.rdb.Pipeline()
	pipe.Set(ctx, config.CacheKey.PracticeDeadlineKey(sid), session.ExpiresAt.Unix(), ttl)
	pipe.HSet(ctx, config.CacheKey.PracticeAnswerKeyKey(sid), key)
	pipe.Expire(ctx, config.CacheKey.PracticeAnswerKeyKey(sid), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn().Err(err).Str("session_id", sid).Msg("Session cache warm failed")
	}
}

// loadSession fetches a session and checks ownership.
func (s *PracticeService) loadSession(ctx context.Context, sessionID uuid.UUID, userID int) (*model.PracticeSession, error) {
	session, err := s.practiceRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session.UserID != userID {
		return nil, ErrNotSessionOwner
	}
	return session, nil
}

// SaveAnswer autosaves one selection: Redis hash for fast recovery plus
// a queue item for the worker that upserts into PostgreSQL.
func (s *PracticeService) SaveAnswer(ctx context.Context, userID int, sessionID uuid.UUID, req *model.SaveAnswerRequest) error {
	session, err := s.loadSession(ctx, sessionID, userID)
	if err != nil {
		return err
	}
	switch session.Status {
	case model.SessionStatusCompleted:
		return ErrSessionSubmitted
	case model.SessionStatusExpired:
		return ErrSessionExpired
	}
	if time.Now().After(session.ExpiresAt) {
		return ErrSessionExpired
	}

	sid := sessionID.String()
	answersKey := config.CacheKey.PracticeAnswersKey(sid)
	ttl := time.Until(session.ExpiresAt) + cacheSlack

	pipe := s.rdb.Pipeline()
	pipe.HSet(ctx, answersKey, req.QuestionID.String(), req.Answer)
	pipe.Expire(ctx, answersKey, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("autosave answer: %w", err)
	}

	payload, _ := json.Marshal(AnswerPersistPayload{
		SessionID:  sid,
		QuestionID: req.QuestionID.String(),
		Answer:     req.Answer,
	})
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistAnswersQueue, payload).Err(); err != nil {
		// The Redis hash already holds the answer; queue loss only delays
		// the PostgreSQL copy.
		s.log.Warn().Err(err).Str("session_id", sid).Msg("Autosave enqueue failed")
	}
	return nil
}

// State returns the reload-recovery payload: autosaved answers plus the
// authoritative remaining time.
func (s *PracticeService) State(ctx context.Context, userID int, sessionID uuid.UUID) (*model.SessionState, error) {
	session, err := s.loadSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	switch session.Status {
	case model.SessionStatusCompleted:
		return nil, ErrSessionSubmitted
	case model.SessionStatusExpired:
		return nil, ErrSessionExpired
	}

	deadline, err := s.deadline(ctx, session)
	if err != nil {
		return nil, err
	}
	remaining := int(time.Until(deadline).Seconds())
	if remaining < 0 {
		remaining = 0
	}

	answers, err := s.autosavedAnswers(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return &model.SessionState{
		SessionID:        sessionID,
		AutosavedAnswers: answers,
		RemainingSeconds: remaining,
		Display:          exam.FormatRemaining(remaining),
	}, nil
}

// Remaining returns the authoritative remaining seconds for an active
// session (used by the countdown stream).
func (s *PracticeService) Remaining(ctx context.Context, userID int, sessionID uuid.UUID) (int, error) {
	state, err := s.State(ctx, userID, sessionID)
	if err != nil {
		return 0, err
	}
	return state.RemainingSeconds, nil
}

// deadline resolves the session deadline from Redis, self-healing from
// PostgreSQL on a cache miss (expires_at is the source of truth).
func (s *PracticeService) deadline(ctx context.Context, session *model.PracticeSession) (time.Time, error) {
	key := config.CacheKey.PracticeDeadlineKey(session.ID.String())

	val, err := s.rdb.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		_ = s.rdb.Set(ctx, key, session.ExpiresAt.Unix(), time.Until(session.ExpiresAt)+cacheSlack)
		return session.ExpiresAt, nil
	}
	if err != nil {
		// Redis down: the DB value is still authoritative.
		s.log.Warn().Err(err).Msg("Deadline cache read failed")
		return session.ExpiresAt, nil
	}
	return time.Unix(val, 0), nil
}

// autosavedAnswers reads the session's answer hash from Redis, falling
// back to the PostgreSQL copy written by the autosave worker.
func (s *PracticeService) autosavedAnswers(ctx context.Context, sessionID uuid.UUID) (map[string]string, error) {
	answers, err := s.rdb.HGetAll(ctx, config.CacheKey.PracticeAnswersKey(sessionID.String())).Result()
	if err == nil && len(answers) > 0 {
		return answers, nil
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("Answers cache read failed")
	}

	answers, err = s.practiceRepo.Answers(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}
	if answers == nil {
		answers = map[string]string{}
	}
	return answers, nil
}

// Submit grades the answer map and completes the session exactly once.
// Answers use canonical letters; unanswered questions are absent and
// score nothing.
func (s *PracticeService) Submit(ctx context.Context, userID int, sessionID uuid.UUID, answers map[string]string) (*model.PracticeResult, error) {
	session, err := s.loadSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	switch session.Status {
	case model.SessionStatusCompleted:
		return nil, ErrSessionSubmitted
	case model.SessionStatusExpired:
		return nil, ErrSessionExpired
	}

	ids, qmap, err := s.sessionQuestions(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	key, err := s.answerKey(ctx, sessionID, qmap)
	if err != nil {
		return nil, err
	}

	cleaned := normalizeAnswers(answers, key)
	score, total, percentage := exam.Grade(key, cleaned)

	won, err := s.practiceRepo.CompleteOnce(ctx, sessionID, model.SessionStatusCompleted, score, total, percentage)
	if err != nil {
		return nil, fmt.Errorf("complete session: %w", err)
	}
	if !won {
		// Someone beat us to it: the expiry sweep or a duplicate submit.
		current, err := s.practiceRepo.GetByID(ctx, sessionID)
		if err == nil && current.Status == model.SessionStatusExpired {
			return nil, ErrSessionExpired
		}
		return nil, ErrSessionSubmitted
	}

	s.clearSessionCache(ctx, sessionID)

	result := &model.PracticeResult{
		SessionID:  sessionID,
		Score:      score,
		Total:      total,
		Percentage: percentage,
		Advice:     exam.Advice(percentage),
		Review:     buildReview(ids, qmap, cleaned),
	}

	s.log.Info().
		Str("session_id", sessionID.String()).
		Int("score", score).
		Int("total", total).
		Msg("Practice submitted")

	return result, nil
}

// ExpireOverdue force-submits IN_PROGRESS sessions whose deadline has
// passed, grading whatever was autosaved. Returns how many sessions
// this sweep closed. The conditional UPDATE keeps it exactly-once even
// against a racing manual submit.
func (s *PracticeService) ExpireOverdue(ctx context.Context, limit int) (int, error) {
	ids, err := s.practiceRepo.ListOverdue(ctx, time.Now(), limit)
	if err != nil {
		return 0, fmt.Errorf("list overdue: %w", err)
	}

	expired := 0
	for _, id := range ids {
		won, err := s.forceSubmit(ctx, id)
		if err != nil {
			s.log.Error().Err(err).Str("session_id", id.String()).Msg("Force submit failed")
			continue
		}
		if won {
			expired++
		}
	}
	return expired, nil
}

func (s *PracticeService) forceSubmit(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	_, qmap, err := s.sessionQuestions(ctx, sessionID)
	if err != nil {
		return false, err
	}
	key, err := s.answerKey(ctx, sessionID, qmap)
	if err != nil {
		return false, err
	}
	answers, err := s.autosavedAnswers(ctx, sessionID)
	if err != nil {
		return false, err
	}

	score, total, percentage := exam.Grade(key, normalizeAnswers(answers, key))

	won, err := s.practiceRepo.CompleteOnce(ctx, sessionID, model.SessionStatusExpired, score, total, percentage)
	if err != nil {
		return false, err
	}
	if won {
		s.clearSessionCache(ctx, sessionID)
		s.log.Info().
			Str("session_id", sessionID.String()).
			Int("score", score).
			Int("total", total).
			Msg("Session expired, force submitted")
	}
	return won, nil
}

// History returns the user's finished sessions with advice recomputed
// from the stored percentage.
func (s *PracticeService) History(ctx context.Context, userID int) ([]model.HistoryRow, error) {
	rows, err := s.practiceRepo.History(ctx, userID, 100)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	for i := range rows {
		rows[i].Advice = exam.Advice(rows[i].Percentage)
	}
	return rows, nil
}

// Leaderboard returns the top users by average percentage.
func (s *PracticeService) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardRow, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.practiceRepo.Leaderboard(ctx, limit)
}

// sessionQuestions loads the session's question set in session order.
func (s *PracticeService) sessionQuestions(ctx context.Context, sessionID uuid.UUID) ([]uuid.UUID, map[uuid.UUID]*model.Question, error) {
	ids, err := s.practiceRepo.QuestionIDs(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("session questions: %w", err)
	}
	qmap, err := s.questionRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("load questions: %w", err)
	}
	return ids, qmap, nil
}

// answerKey resolves the canonical answer key, preferring the Redis
// copy and rebuilding it from the loaded questions on a miss.
func (s *PracticeService) answerKey(ctx context.Context, sessionID uuid.UUID, qmap map[uuid.UUID]*model.Question) (map[string]string, error) {
	cacheKey := config.CacheKey.PracticeAnswerKeyKey(sessionID.String())

	key, err := s.rdb.HGetAll(ctx, cacheKey).Result()
	if err == nil && len(key) == len(qmap) {
		return key, nil
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("Answer key cache read failed")
	}

	key = make(map[string]string, len(qmap))
	for id, q := range qmap {
		key[id.String()] = q.CorrectOption
	}
	_ = s.rdb.HSet(ctx, cacheKey, key).Err()
	return key, nil
}

func (s *PracticeService) clearSessionCache(ctx context.Context, sessionID uuid.UUID) {
	sid := sessionID.String()
	s.rdb.Del(ctx,
		config.CacheKey.PracticeDeadlineKey(sid),
		config.CacheKey.PracticeAnswerKeyKey(sid),
		config.CacheKey.PracticeAnswersKey(sid),
	)
}

// normalizeAnswers uppercases selections and drops anything that is not
// a letter A-D for a question actually in this session.
func normalizeAnswers(answers, key map[string]string) map[string]string {
	cleaned := make(map[string]string, len(answers))
	for qid, letter := range answers {
		if _, ok := key[qid]; !ok {
			continue
		}
		letter = strings.ToUpper(strings.TrimSpace(letter))
		switch letter {
		case "A", "B", "C", "D":
			cleaned[qid] = letter
		}
	}
	return cleaned
}

// buildReview explains each graded question in session order.
func buildReview(ids []uuid.UUID, qmap map[uuid.UUID]*model.Question, answers map[string]string) []model.ReviewRow {
	review := make([]model.ReviewRow, 0, len(ids))
	for _, id := range ids {
		q, ok := qmap[id]
		if !ok {
			continue
		}
		given := answers[id.String()]
		review = append(review, model.ReviewRow{
			QuestionID:    id,
			Question:      q.QuestionText,
			YourAnswer:    given,
			CorrectAnswer: q.CorrectOption,
			CorrectText:   q.OptionText(q.CorrectOption),
			Correct:       given != "" && given == q.CorrectOption,
		})
	}
	return review
}
