package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/civicprep/quiz-engine/internal/events"
	"github.com/civicprep/quiz-engine/internal/models"
	"github.com/civicprep/quiz-engine/internal/repositories"
	"github.com/civicprep/quiz-engine/internal/validator"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ImportService loads question banks from CSV or XLSX files into an
// in-memory question source. Rows that fail validation are reported per row
// and skipped; the rest of the file still imports.
type ImportService interface {
	ImportQuestionsFromFile(ctx context.Context, reader io.Reader, filename string) (*ImportResult, error)
	ImportQuestionsFromCSV(ctx context.Context, reader io.Reader) (*ImportResult, error)
	ImportQuestionsFromExcel(ctx context.Context, reader io.Reader) (*ImportResult, error)

	ExportTopicResults(ctx context.Context, topicID string) ([]byte, error)
}

type importService struct {
	target    *repositories.MemoryQuestionSource
	results   repositories.ResultSink
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewImportService(
	target *repositories.MemoryQuestionSource,
	results repositories.ResultSink,
	publisher events.EventPublisher,
	logger *slog.Logger,
	v *validator.Validator,
) ImportService {
	return &importService{
		target:    target,
		results:   results,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

// ===== IMPORT OPERATIONS =====

type ImportResult struct {
	TotalRows     int                            `json:"total_rows"`
	ProcessedRows int                            `json:"processed_rows"`
	SuccessCount  int                            `json:"success_count"`
	ErrorCount    int                            `json:"error_count"`
	Errors        []models.ImportValidationError `json:"errors"`
	Questions     []*models.Question             `json:"questions,omitempty"`
	TopicIDs      []string                       `json:"topic_ids"`
}

func (s *importService) ImportQuestionsFromFile(ctx context.Context, reader io.Reader, filename string) (*ImportResult, error) {
	s.logger.Info("Starting file import", "filename", filename)

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv":
		return s.ImportQuestionsFromCSV(ctx, reader)
	case ".xlsx", ".xls":
		return s.ImportQuestionsFromExcel(ctx, reader)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func (s *importService) ImportQuestionsFromCSV(ctx context.Context, reader io.Reader) (*ImportResult, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	return s.importRows(ctx, records, "csv")
}

func (s *importService) ImportQuestionsFromExcel(ctx context.Context, reader io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyImport
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}

	return s.importRows(ctx, rows, "xlsx")
}

func (s *importService) importRows(ctx context.Context, records [][]string, format string) (*ImportResult, error) {
	if len(records) < 2 {
		return nil, ErrEmptyImport
	}

	headerMap := make(map[string]int)
	for i, header := range records[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}

	requiredColumns := []string{"topic_id", "kind", "prompt"}
	for _, col := range requiredColumns {
		if _, exists := headerMap[col]; !exists {
			return nil, NewValidationError("headers", fmt.Sprintf("missing required column: %s", col), col)
		}
	}

	result := &ImportResult{TotalRows: len(records) - 1}
	topicSeen := make(map[string]bool)

	for rowIndex, record := range records[1:] {
		question, rowErrors := s.parseRow(record, headerMap, rowIndex+2)
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			result.ErrorCount++
		} else {
			result.Questions = append(result.Questions, question)
			result.SuccessCount++
			if !topicSeen[question.TopicID] {
				topicSeen[question.TopicID] = true
				result.TopicIDs = append(result.TopicIDs, question.TopicID)
			}
		}
		result.ProcessedRows++
	}

	if len(result.Questions) > 0 {
		s.target.AddQuestions(result.Questions)
		s.publish(ctx, events.NewQuestionsImportedEvent(result.TopicIDs, result.SuccessCount, format))
	}

	s.logger.Info("Question import completed",
		"format", format,
		"total_rows", result.TotalRows,
		"success_count", result.SuccessCount,
		"error_count", result.ErrorCount)

	return result, nil
}

// ===== EXPORT OPERATIONS =====

// ExportTopicResults writes a topic's session history to an XLSX workbook.
func (s *importService) ExportTopicResults(ctx context.Context, topicID string) ([]byte, error) {
	results, _, err := s.results.ResultsByTopic(ctx, topicID, repositories.ResultFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to load results for topic %s: %w", topicID, err)
	}

	f := excelize.NewFile()
	sheetName := "Results"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{
		"Session ID", "Completed At", "Total Questions", "Correct", "Incorrect",
		"Score (%)", "Time Taken (seconds)",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, result := range results {
		row := []interface{}{
			result.SessionID,
			result.CompletedAt.Format("2006-01-02 15:04:05"),
			result.TotalQuestions,
			result.CorrectAnswers,
			result.IncorrectAnswers,
			result.ScorePercent,
			result.TimeTakenSeconds,
		}
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

// ===== HELPER FUNCTIONS =====

func (s *importService) parseRow(record []string, headerMap map[string]int, rowNum int) (*models.Question, []models.ImportValidationError) {
	var rowErrors []models.ImportValidationError

	getColumn := func(name string) string {
		if index, exists := headerMap[name]; exists && index < len(record) {
			return strings.TrimSpace(record[index])
		}
		return ""
	}

	kindStr := strings.ToLower(getColumn("kind"))
	kind := models.QuestionKind(kindStr)
	if !kind.Valid() {
		rowErrors = append(rowErrors, models.ImportValidationError{
			Row: rowNum, Column: "kind", Message: "unknown question kind", Value: kindStr,
		})
		return nil, rowErrors
	}

	question := &models.Question{
		ID:            getColumn("question_id"),
		TopicID:       getColumn("topic_id"),
		Kind:          kind,
		Prompt:        getColumn("prompt"),
		CorrectAnswer: getColumn("correct_answer"),
		Hint:          getColumn("hint"),
		Explanation:   getColumn("explanation"),
		Category:      getColumn("category"),
	}
	if question.ID == "" {
		question.ID = uuid.NewString()
	}

	if numberStr := getColumn("question_number"); numberStr != "" {
		number, err := strconv.Atoi(numberStr)
		if err != nil {
			rowErrors = append(rowErrors, models.ImportValidationError{
				Row: rowNum, Column: "question_number", Message: "must be an integer", Value: numberStr,
			})
			return nil, rowErrors
		}
		question.Number = number
	}

	for _, col := range []string{"option_a", "option_b", "option_c", "option_d"} {
		if option := getColumn(col); option != "" {
			question.Options = append(question.Options, option)
		}
	}

	if tagsStr := getColumn("tags"); tagsStr != "" {
		for _, tag := range strings.Split(tagsStr, ",") {
			question.Tags = append(question.Tags, strings.TrimSpace(tag))
		}
	}

	if pairsStr := getColumn("pairs"); pairsStr != "" {
		question.CorrectPairs = make(map[string]string)
		for _, segment := range strings.Split(pairsStr, ";") {
			left, right, found := strings.Cut(segment, "=")
			if !found {
				rowErrors = append(rowErrors, models.ImportValidationError{
					Row: rowNum, Column: "pairs", Message: "pairs must use left=right;left=right form", Value: segment,
				})
				return nil, rowErrors
			}
			question.CorrectPairs[strings.TrimSpace(left)] = strings.TrimSpace(right)
		}
	}

	if orderStr := getColumn("order"); orderStr != "" {
		for _, item := range strings.Split(orderStr, "|") {
			question.CorrectOrder = append(question.CorrectOrder, strings.TrimSpace(item))
		}
	}

	if crosswordStr := getColumn("crossword"); crosswordStr != "" {
		var spec models.CrosswordSpec
		if err := json.Unmarshal([]byte(crosswordStr), &spec); err != nil {
			rowErrors = append(rowErrors, models.ImportValidationError{
				Row: rowNum, Column: "crossword", Message: "invalid crossword JSON", Value: crosswordStr,
			})
			return nil, rowErrors
		}
		question.CrosswordSpec = &spec
	}

	if err := s.validator.Question().ValidateQuestion(question); err != nil {
		rowErrors = append(rowErrors, models.ImportValidationError{
			Row: rowNum, Column: "question", Message: err.Error(),
		})
		return nil, rowErrors
	}

	return question, nil
}

func (s *importService) publish(ctx context.Context, event *events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish import event",
			"event_type", event.Type,
			"error", err)
	}
}
