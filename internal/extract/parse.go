package extract

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"quizimport/internal/models"
)

// Written-question defaults applied when the model omits explicit limits.
const (
	defaultWordLimit = 50
	defaultTimeLimit = 30
)

// rawQuestion mirrors the model's loosely-typed output. Fields that the
// model regularly gets wrong (numbers as strings, missing keys) are decoded
// as json.RawMessage or any and normalized afterwards.
type rawQuestion struct {
	Text          any             `json:"text"`
	Type          string          `json:"type"`
	Options       []any           `json:"options"`
	CorrectAnswer any             `json:"correctAnswer"`
	Marks         json.RawMessage `json:"marks"`
	Difficulty    string          `json:"difficulty"`
	WordLimit     json.RawMessage `json:"wordLimit"`
	TimeLimit     json.RawMessage `json:"timeLimit"`
}

type rawResponse struct {
	Questions *[]rawQuestion `json:"questions"`
}

// ParseQuestions extracts and validates questions from a raw model
// completion. Malformed JSON or a missing questions array is a hard failure;
// individual malformed questions are dropped with a warning instead of
// failing the batch. Returns ErrNoQuestions when nothing survives.
func ParseQuestions(raw string) ([]models.ExtractedQuestion, []string, error) {
	jsonText, err := extractJSONObject(raw)
	if err != nil {
		return nil, nil, err
	}

	var resp rawResponse
	if err := json.Unmarshal([]byte(jsonText), &resp); err != nil {
		return nil, nil, fmt.Errorf("failed to parse AI response as JSON: %w", err)
	}
	if resp.Questions == nil {
		return nil, nil, fmt.Errorf("AI response is missing a questions array")
	}

	var questions []models.ExtractedQuestion
	var warnings []string

	for i, rq := range *resp.Questions {
		q, warns, ok := normalizeQuestion(i, rq)
		warnings = append(warnings, warns...)
		if !ok {
			continue
		}
		questions = append(questions, q)
	}

	if len(questions) == 0 {
		return nil, warnings, ErrNoQuestions
	}
	return questions, warnings, nil
}

// extractJSONObject strips markdown code fences and locates the outermost
// {...} span of the completion.
func extractJSONObject(raw string) (string, error) {
	text := strings.TrimSpace(raw)

	// Strip a ```json ... ``` (or plain ```) wrapper if present.
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("no valid JSON object found in AI response")
	}
	return text[start : end+1], nil
}

// normalizeQuestion applies the named normalization rules to one raw
// question. Coercions are lenient but never silent: every applied rule emits
// a warning so callers can choose strict handling.
func normalizeQuestion(index int, rq rawQuestion) (models.ExtractedQuestion, []string, bool) {
	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf("question %d: ", index+1)+fmt.Sprintf(format, args...))
	}

	text, ok := rq.Text.(string)
	text = strings.TrimSpace(text)
	if !ok || text == "" {
		warn("missing or non-string text, question skipped")
		return models.ExtractedQuestion{}, warnings, false
	}

	q := models.ExtractedQuestion{Text: text}

	q.Type = models.QuestionType(rq.Type)
	if !q.Type.Valid() {
		warn("invalid type %q, defaulting to MCQ", rq.Type)
		q.Type = models.QuestionTypeMCQ
	}

	q.Difficulty = models.Difficulty(strings.ToLower(rq.Difficulty))
	if !q.Difficulty.Valid() {
		warn("invalid difficulty %q, defaulting to medium", rq.Difficulty)
		q.Difficulty = models.DifficultyMedium
	}

	q.Marks = asPositiveInt(rq.Marks, 0)
	if q.Marks <= 0 {
		warn("missing or non-positive marks, defaulting to 1")
		q.Marks = 1
	}

	if q.Type == models.QuestionTypeMCQ {
		for _, opt := range rq.Options {
			s, ok := opt.(string)
			s = strings.TrimSpace(s)
			if !ok || s == "" {
				continue
			}
			q.Options = append(q.Options, s)
		}
		if len(q.Options) < 2 {
			warn("MCQ has fewer than 2 valid options, question skipped")
			return models.ExtractedQuestion{}, warnings, false
		}

		answer, _ := rq.CorrectAnswer.(string)
		answer = strings.TrimSpace(answer)
		if !containsString(q.Options, answer) {
			warn("correct answer %q is not among the options, using the first option", answer)
			answer = q.Options[0]
		}
		q.CorrectAnswer = answer
	} else {
		// Free-text answer is optional for Short/Written questions.
		if answer, ok := rq.CorrectAnswer.(string); ok {
			q.CorrectAnswer = strings.TrimSpace(answer)
		}
	}

	if q.Type == models.QuestionTypeWritten {
		q.WordLimit = asPositiveInt(rq.WordLimit, defaultWordLimit)
		q.TimeLimit = asPositiveInt(rq.TimeLimit, defaultTimeLimit)
	}

	return q, warnings, true
}

// asPositiveInt decodes a raw JSON value as a positive integer, accepting
// numbers and numeric strings; anything else yields the fallback.
func asPositiveInt(raw json.RawMessage, fallback int) int {
	if len(raw) == 0 {
		return fallback
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		if n := int(f); n > 0 {
			return n
		}
		return fallback
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func containsString(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
