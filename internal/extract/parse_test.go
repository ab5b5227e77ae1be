package extract

import (
	"testing"

	"quizimport/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuestionsValidMCQ(t *testing.T) {
	raw := `{"questions":[{"text":"What is 2+2?","type":"MCQ","options":["3","4","5","6"],"correctAnswer":"4","marks":2,"difficulty":"easy"}]}`

	questions, warnings, err := ParseQuestions(raw)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, questions, 1)

	q := questions[0]
	assert.Equal(t, "What is 2+2?", q.Text)
	assert.Equal(t, models.QuestionTypeMCQ, q.Type)
	assert.Equal(t, []string{"3", "4", "5", "6"}, q.Options)
	assert.Equal(t, "4", q.CorrectAnswer)
	assert.Equal(t, 2, q.Marks)
	assert.Equal(t, models.DifficultyEasy, q.Difficulty)
}

func TestParseQuestionsStripsCodeFences(t *testing.T) {
	raw := "```json\n{\"questions\":[{\"text\":\"Q?\",\"type\":\"Short\",\"marks\":1,\"difficulty\":\"medium\"}]}\n```"

	questions, _, err := ParseQuestions(raw)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, models.QuestionTypeShort, questions[0].Type)
}

func TestParseQuestionsFindsObjectInSurroundingProse(t *testing.T) {
	raw := `Here are the extracted questions:
{"questions":[{"text":"Q?","type":"Short","marks":1,"difficulty":"hard"}]}
Let me know if you need more.`

	questions, _, err := ParseQuestions(raw)
	require.NoError(t, err)
	require.Len(t, questions, 1)
}

func TestParseQuestionsNoJSONObject(t *testing.T) {
	_, _, err := ParseQuestions("Sorry, I could not find any questions in this document.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no valid JSON object")
}

func TestParseQuestionsMalformedJSON(t *testing.T) {
	_, _, err := ParseQuestions(`{"questions": [ {"text": "broken`)
	require.Error(t, err)
}

func TestParseQuestionsMissingQuestionsArray(t *testing.T) {
	_, _, err := ParseQuestions(`{"title":"A quiz"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "questions array")
}

func TestParseQuestionsCoercesInvalidTypeAndDifficulty(t *testing.T) {
	raw := `{"questions":[{"text":"Q?","type":"essay","options":["A","B"],"correctAnswer":"A","difficulty":"impossible"}]}`

	questions, warnings, err := ParseQuestions(raw)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, models.QuestionTypeMCQ, questions[0].Type)
	assert.Equal(t, models.DifficultyMedium, questions[0].Difficulty)
	assert.NotEmpty(t, warnings)
}

func TestParseQuestionsDefaultsMarks(t *testing.T) {
	raw := `{"questions":[
		{"text":"Missing","type":"Short"},
		{"text":"Negative","type":"Short","marks":-3},
		{"text":"String","type":"Short","marks":"5"}
	]}`

	questions, _, err := ParseQuestions(raw)
	require.NoError(t, err)
	require.Len(t, questions, 3)
	assert.Equal(t, 1, questions[0].Marks)
	assert.Equal(t, 1, questions[1].Marks)
	assert.Equal(t, 5, questions[2].Marks)
}

func TestParseQuestionsSkipsMCQWithTooFewOptions(t *testing.T) {
	raw := `{"questions":[{"text":"Q1","type":"MCQ","options":["A"],"correctAnswer":"A","marks":1,"difficulty":"easy"}]}`

	questions, warnings, err := ParseQuestions(raw)
	require.ErrorIs(t, err, ErrNoQuestions)
	assert.Empty(t, questions)
	assert.NotEmpty(t, warnings)
}

func TestParseQuestionsSkipsQuestionWithoutText(t *testing.T) {
	raw := `{"questions":[
		{"type":"Short","marks":1},
		{"text":"  ","type":"Short"},
		{"text":"Kept","type":"Short"}
	]}`

	questions, warnings, err := ParseQuestions(raw)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "Kept", questions[0].Text)
	assert.Len(t, warnings, 2)
}

func TestParseQuestionsCoercesCorrectAnswerToFirstOption(t *testing.T) {
	raw := `{"questions":[{"text":"Q?","type":"MCQ","options":["A","B","C"],"correctAnswer":"Z","marks":1,"difficulty":"easy"}]}`

	questions, warnings, err := ParseQuestions(raw)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "A", questions[0].CorrectAnswer)
	assert.NotEmpty(t, warnings)
}

func TestParseQuestionsMCQInvariantHolds(t *testing.T) {
	raw := `{"questions":[
		{"text":"Q1","type":"MCQ","options":["A","B","","  "],"correctAnswer":"B"},
		{"text":"Q2","type":"MCQ","options":["X","",null],"correctAnswer":"X"}
	]}`

	questions, _, err := ParseQuestions(raw)
	require.NoError(t, err)
	// Q2 drops to one valid option and is skipped; Q1 survives.
	require.Len(t, questions, 1)
	for _, q := range questions {
		assert.GreaterOrEqual(t, len(q.Options), 2)
		assert.Contains(t, q.Options, q.CorrectAnswer)
	}
}

func TestParseQuestionsWrittenDefaults(t *testing.T) {
	raw := `{"questions":[
		{"text":"Essay one","type":"Written","marks":10,"difficulty":"hard"},
		{"text":"Essay two","type":"Written","marks":10,"difficulty":"hard","wordLimit":200,"timeLimit":45}
	]}`

	questions, _, err := ParseQuestions(raw)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, 50, questions[0].WordLimit)
	assert.Equal(t, 30, questions[0].TimeLimit)
	assert.Equal(t, 200, questions[1].WordLimit)
	assert.Equal(t, 45, questions[1].TimeLimit)
}

func TestParseQuestionsNonMCQDropsOptions(t *testing.T) {
	raw := `{"questions":[{"text":"Q?","type":"Short","options":["A","B"],"correctAnswer":"free text answer"}]}`

	questions, _, err := ParseQuestions(raw)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Empty(t, questions[0].Options)
	assert.Equal(t, "free text answer", questions[0].CorrectAnswer)
}

func TestParseQuestionsEmptyArray(t *testing.T) {
	_, _, err := ParseQuestions(`{"questions":[]}`)
	require.ErrorIs(t, err, ErrNoQuestions)
}
