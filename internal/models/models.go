package models

import (
	"time"

	"github.com/google/uuid"
)

// QuestionType enumerates the supported question formats.
type QuestionType string

const (
	QuestionTypeMCQ     QuestionType = "MCQ"
	QuestionTypeShort   QuestionType = "Short"
	QuestionTypeWritten QuestionType = "Written"
)

// Valid reports whether t is one of the supported question types.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeMCQ, QuestionTypeShort, QuestionTypeWritten:
		return true
	}
	return false
}

// Difficulty enumerates the supported difficulty levels.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the supported difficulty levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// ExtractedQuestion is a single question produced by the extraction pipeline.
// An MCQ question always carries at least 2 options and a correct answer that
// is a member of Options; Written questions always carry word/time limits.
type ExtractedQuestion struct {
	Text          string       `json:"text"`
	Type          QuestionType `json:"type"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correctAnswer,omitempty"`
	Marks         int          `json:"marks"`
	Difficulty    Difficulty   `json:"difficulty"`
	WordLimit     int          `json:"wordLimit,omitempty"`
	TimeLimit     int          `json:"timeLimit,omitempty"`
}

// ImportResult is returned per file and per batch. Success is true when at
// least one question was extracted, or when extraction legitimately found
// nothing - distinct from a processing failure, which shows up in Errors.
type ImportResult struct {
	Success        bool                `json:"success"`
	Questions      []ExtractedQuestion `json:"questions"`
	Errors         []string            `json:"errors"`
	Warnings       []string            `json:"warnings,omitempty"`
	TotalProcessed int                 `json:"totalProcessed"`
}

// Quiz represents a quiz that questions are imported into.
type Quiz struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Questions     []Question `json:"questions,omitempty"`
	QuestionCount int64      `json:"question_count,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Question is a persisted question belonging to a quiz.
type Question struct {
	ID            uuid.UUID    `json:"id"`
	QuizID        uuid.UUID    `json:"quiz_id,omitempty"`
	Text          string       `json:"text"`
	Type          QuestionType `json:"type"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correct_answer,omitempty"`
	Marks         int32        `json:"marks"`
	Difficulty    Difficulty   `json:"difficulty"`
	WordLimit     int32        `json:"word_limit,omitempty"`
	TimeLimit     int32        `json:"time_limit,omitempty"`
	Position      int32        `json:"position"`
	CreatedAt     time.Time    `json:"created_at"`
}

// QuizListResponse represents the response for listing quizzes
type QuizListResponse struct {
	Quizzes []Quiz `json:"quizzes"`
	Total   int64  `json:"total"`
}

// ImportResponse is returned by the import endpoint: the aggregate pipeline
// result plus the IDs of the questions that were persisted.
type ImportResponse struct {
	QuizID      uuid.UUID    `json:"quiz_id"`
	Result      ImportResult `json:"result"`
	QuestionIDs []uuid.UUID  `json:"question_ids"`
	Message     string       `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}
