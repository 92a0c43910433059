package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/unitechhub/examhub/internal/model"
	"github.com/unitechhub/examhub/internal/repository"
)

// ErrBadCSV marks an unparseable or semantically invalid import file.
var ErrBadCSV = errors.New("malformed csv")

// csvColumns is the expected import layout. A header row matching the
// first column name is skipped.
var csvColumns = []string{"question", "option_a", "option_b", "option_c", "option_d", "correct_option"}

// QuestionService handles question management and bulk import.
type QuestionService struct {
	questionRepo *repository.QuestionRepository
	topicRepo    *repository.TopicRepository
	log          zerolog.Logger
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questionRepo *repository.QuestionRepository, topicRepo *repository.TopicRepository, log zerolog.Logger) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		topicRepo:    topicRepo,
		log:          log.With().Str("component", "question_service").Logger(),
	}
}

// ListByTopic returns a topic's questions with pagination (admin view,
// correct answers included).
func (s *QuestionService) ListByTopic(ctx context.Context, topicID, page, perPage int) ([]model.Question, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	return s.questionRepo.ListByTopic(ctx, topicID, perPage, (page-1)*perPage)
}

// Add inserts a single question under an existing topic.
func (s *QuestionService) Add(ctx context.Context, req *model.AddQuestionRequest) (*model.Question, error) {
	if _, err := s.topicRepo.GetByID(ctx, req.TopicID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get topic: %w", err)
	}

	q := &model.Question{
		TopicID:       req.TopicID,
		QuestionText:  req.QuestionText,
		OptionA:       req.OptionA,
		OptionB:       req.OptionB,
		OptionC:       req.OptionC,
		OptionD:       req.OptionD,
		CorrectOption: strings.ToUpper(req.CorrectOption),
	}
	if err := s.questionRepo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	return q, nil
}

// ImportCSV bulk-loads questions for a topic from a CSV stream with
// columns question,option_a,option_b,option_c,option_d,correct_option.
// The whole file is validated before anything is written; any bad row
// aborts the import.
func (s *QuestionService) ImportCSV(ctx context.Context, topicID int, r io.Reader) (int, error) {
	if _, err := s.topicRepo.GetByID(ctx, topicID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("get topic: %w", err)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(csvColumns)
	reader.TrimLeadingSpace = true

	var questions []model.Question
	line := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("%w: line %d: %v", ErrBadCSV, line+1, err)
		}
		line++

		// Skip a header row.
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), csvColumns[0]) {
			continue
		}

		correct := strings.ToUpper(strings.TrimSpace(record[5]))
		if correct != "A" && correct != "B" && correct != "C" && correct != "D" {
			return 0, fmt.Errorf("%w: line %d: correct_option %q is not A-D", ErrBadCSV, line, record[5])
		}
		text := strings.TrimSpace(record[0])
		if text == "" {
			return 0, fmt.Errorf("%w: line %d: empty question", ErrBadCSV, line)
		}

		questions = append(questions, model.Question{
			TopicID:       topicID,
			QuestionText:  text,
			OptionA:       strings.TrimSpace(record[1]),
			OptionB:       strings.TrimSpace(record[2]),
			OptionC:       strings.TrimSpace(record[3]),
			OptionD:       strings.TrimSpace(record[4]),
			CorrectOption: correct,
		})
	}

	if len(questions) == 0 {
		return 0, fmt.Errorf("%w: no data rows", ErrBadCSV)
	}

	if err := s.questionRepo.CreateBatch(ctx, questions); err != nil {
		return 0, fmt.Errorf("import batch: %w", err)
	}

	s.log.Info().Int("topic_id", topicID).Int("count", len(questions)).Msg("Questions imported")
	return len(questions), nil
}
