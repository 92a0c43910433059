package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/unitechhub/examhub/internal/model"
	"github.com/unitechhub/examhub/internal/repository"
)

// ErrNotFound marks a missing course or topic.
var ErrNotFound = errors.New("not found")

// CatalogService handles the course/topic hierarchy: the student-facing
// listings and the admin management operations.
type CatalogService struct {
	courseRepo *repository.CourseRepository
	topicRepo  *repository.TopicRepository
	log        zerolog.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(courseRepo *repository.CourseRepository, topicRepo *repository.TopicRepository, log zerolog.Logger) *CatalogService {
	return &CatalogService{
		courseRepo: courseRepo,
		topicRepo:  topicRepo,
		log:        log.With().Str("component", "catalog_service").Logger(),
	}
}

// ListCourses returns courses; students only see enabled ones.
func (s *CatalogService) ListCourses(ctx context.Context, includeDisabled bool) ([]model.Course, error) {
	return s.courseRepo.List(ctx, !includeDisabled)
}

// ListTopics returns a course's topics; students only see enabled ones.
func (s *CatalogService) ListTopics(ctx context.Context, courseID int, includeDisabled bool) ([]model.Topic, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}
	return s.topicRepo.ListByCourse(ctx, courseID, !includeDisabled)
}

// CreateCourse adds a course.
func (s *CatalogService) CreateCourse(ctx context.Context, req *model.CreateCourseRequest) (*model.Course, error) {
	course := &model.Course{CourseName: req.CourseName, CourseCode: req.CourseCode}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	s.log.Info().Int("course_id", course.ID).Str("name", course.CourseName).Msg("Course created")
	return course, nil
}

// ToggleCourse flips a course's enabled flag.
func (s *CatalogService) ToggleCourse(ctx context.Context, id int) (bool, error) {
	enabled, err := s.courseRepo.Toggle(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("toggle course: %w", err)
	}
	return enabled, nil
}

// CreateTopic adds a topic under an existing course.
func (s *CatalogService) CreateTopic(ctx context.Context, req *model.CreateTopicRequest) (*model.Topic, error) {
	if _, err := s.courseRepo.GetByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}

	topic := &model.Topic{CourseID: req.CourseID, TopicName: req.TopicName}
	if err := s.topicRepo.Create(ctx, topic); err != nil {
		return nil, fmt.Errorf("create topic: %w", err)
	}
	s.log.Info().Int("topic_id", topic.ID).Str("name", topic.TopicName).Msg("Topic created")
	return topic, nil
}

// ToggleTopic flips a topic's enabled flag.
func (s *CatalogService) ToggleTopic(ctx context.Context, id int) (bool, error) {
	enabled, err := s.topicRepo.Toggle(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("toggle topic: %w", err)
	}
	return enabled, nil
}
