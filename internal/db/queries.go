package db

import (
	"context"
	"errors"
	"fmt"

	"quizimport/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// DBTX is the subset of pgx operations the queries need; satisfied by both
// *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Queries bundles the SQL operations used by the handlers.
type Queries struct {
	db DBTX
}

// New creates Queries over the given connection or transaction.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

const createQuizSQL = `
INSERT INTO quizzes (id, title, created_at, updated_at)
VALUES ($1, $2, now(), now())
RETURNING id, title, created_at, updated_at`

// CreateQuiz inserts a new quiz shell to import questions into.
func (q *Queries) CreateQuiz(ctx context.Context, title string) (models.Quiz, error) {
	var quiz models.Quiz
	row := q.db.QueryRow(ctx, createQuizSQL, uuid.New(), title)
	if err := row.Scan(&quiz.ID, &quiz.Title, &quiz.CreatedAt, &quiz.UpdatedAt); err != nil {
		return models.Quiz{}, fmt.Errorf("failed to create quiz: %w", err)
	}
	return quiz, nil
}

const getQuizSQL = `
SELECT id, title, created_at, updated_at FROM quizzes WHERE id = $1`

// GetQuiz fetches a quiz with its questions in insertion order.
func (q *Queries) GetQuiz(ctx context.Context, id uuid.UUID) (models.Quiz, error) {
	var quiz models.Quiz
	row := q.db.QueryRow(ctx, getQuizSQL, id)
	if err := row.Scan(&quiz.ID, &quiz.Title, &quiz.CreatedAt, &quiz.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Quiz{}, ErrNotFound
		}
		return models.Quiz{}, fmt.Errorf("failed to get quiz: %w", err)
	}

	questions, err := q.GetQuizQuestions(ctx, id)
	if err != nil {
		return models.Quiz{}, err
	}
	quiz.Questions = questions
	quiz.QuestionCount = int64(len(questions))
	return quiz, nil
}

const getQuizQuestionsSQL = `
SELECT id, quiz_id, text, type, options, correct_answer, marks, difficulty, word_limit, time_limit, position, created_at
FROM questions
WHERE quiz_id = $1
ORDER BY position`

// GetQuizQuestions returns the questions of a quiz ordered by position.
func (q *Queries) GetQuizQuestions(ctx context.Context, quizID uuid.UUID) ([]models.Question, error) {
	rows, err := q.db.Query(ctx, getQuizQuestionsSQL, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var (
			question      models.Question
			correctAnswer pgtype.Text
			wordLimit     pgtype.Int4
			timeLimit     pgtype.Int4
		)
		if err := rows.Scan(&question.ID, &question.QuizID, &question.Text, &question.Type,
			&question.Options, &correctAnswer, &question.Marks, &question.Difficulty,
			&wordLimit, &timeLimit, &question.Position, &question.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		question.CorrectAnswer = correctAnswer.String
		question.WordLimit = wordLimit.Int32
		question.TimeLimit = timeLimit.Int32
		questions = append(questions, question)
	}
	return questions, rows.Err()
}

const listQuizzesSQL = `
SELECT q.id, q.title, q.created_at, q.updated_at, count(que.id)
FROM quizzes q
LEFT JOIN questions que ON que.quiz_id = q.id
GROUP BY q.id
ORDER BY q.created_at DESC`

// ListQuizzes returns all quizzes with their question counts.
func (q *Queries) ListQuizzes(ctx context.Context) ([]models.Quiz, error) {
	rows, err := q.db.Query(ctx, listQuizzesSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []models.Quiz
	for rows.Next() {
		var quiz models.Quiz
		if err := rows.Scan(&quiz.ID, &quiz.Title, &quiz.CreatedAt, &quiz.UpdatedAt, &quiz.QuestionCount); err != nil {
			return nil, fmt.Errorf("failed to scan quiz: %w", err)
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, rows.Err()
}

const deleteQuizSQL = `DELETE FROM quizzes WHERE id = $1`

// DeleteQuiz removes a quiz and, via cascade, its questions.
func (q *Queries) DeleteQuiz(ctx context.Context, id uuid.UUID) error {
	tag, err := q.db.Exec(ctx, deleteQuizSQL, id)
	if err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const maxPositionSQL = `SELECT COALESCE(MAX(position), 0) FROM questions WHERE quiz_id = $1`

const insertQuestionSQL = `
INSERT INTO questions (id, quiz_id, text, type, options, correct_answer, marks, difficulty, word_limit, time_limit, position, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())`

// CreateQuestions appends extracted questions to a quiz in extraction order,
// using a single batched round trip. Returns the new question IDs in the
// same order.
func (q *Queries) CreateQuestions(ctx context.Context, quizID uuid.UUID, questions []models.ExtractedQuestion) ([]uuid.UUID, error) {
	if len(questions) == 0 {
		return nil, nil
	}

	var nextPos int32
	if err := q.db.QueryRow(ctx, maxPositionSQL, quizID).Scan(&nextPos); err != nil {
		return nil, fmt.Errorf("failed to determine question position: %w", err)
	}

	batch := &pgx.Batch{}
	ids := make([]uuid.UUID, 0, len(questions))
	for i, question := range questions {
		id := uuid.New()
		ids = append(ids, id)

		var options []string
		var correctAnswer pgtype.Text
		if question.Type == models.QuestionTypeMCQ {
			options = question.Options
		}
		if question.CorrectAnswer != "" {
			correctAnswer = pgtype.Text{String: question.CorrectAnswer, Valid: true}
		}

		var wordLimit, timeLimit pgtype.Int4
		if question.Type == models.QuestionTypeWritten {
			wordLimit = pgtype.Int4{Int32: int32(question.WordLimit), Valid: true}
			timeLimit = pgtype.Int4{Int32: int32(question.TimeLimit), Valid: true}
		}

		batch.Queue(insertQuestionSQL, id, quizID, question.Text, question.Type, options,
			correctAnswer, int32(question.Marks), question.Difficulty, wordLimit, timeLimit,
			nextPos+int32(i)+1)
	}

	results := q.db.SendBatch(ctx, batch)
	defer results.Close()

	for range questions {
		if _, err := results.Exec(); err != nil {
			return nil, fmt.Errorf("failed to insert question: %w", err)
		}
	}
	return ids, nil
}
