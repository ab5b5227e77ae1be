package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient returns scripted completions (or errors) in call order and
// records the content it was given.
type fakeClient struct {
	responses []string
	errs      []error
	calls     []Content
}

func (f *fakeClient) ExtractQuestions(ctx context.Context, content Content) (string, error) {
	i := len(f.calls)
	f.calls = append(f.calls, content)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return `{"questions":[]}`, nil
}

func testOptions() Options {
	return Options{MaxFiles: 10, MaxChunkSize: MaxChunkSize, FileDelay: 0, ChunkDelay: 0}
}

func textFile(name, content string) UploadedFile {
	return UploadedFile{Name: name, MIMEType: "text/plain", Size: int64(len(content)), Data: []byte(content)}
}

func singleQuestionJSON(text string) string {
	return fmt.Sprintf(`{"questions":[{"text":"%s","type":"Short","marks":1,"difficulty":"medium"}]}`, text)
}

func TestProcessFilesRejectsOversizedBatch(t *testing.T) {
	client := &fakeClient{}
	svc := NewService(client, testOptions())

	files := make([]UploadedFile, 11)
	for i := range files {
		files[i] = textFile(fmt.Sprintf("f%d.txt", i), "Some questions in here, honestly.")
	}

	result := svc.ProcessFiles(context.Background(), files)
	assert.False(t, result.Success)
	assert.Empty(t, result.Questions)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "too many files")
	assert.Empty(t, client.calls, "no file should be processed when the batch is rejected")
}

func TestProcessFilesAggregatesInFileOrder(t *testing.T) {
	client := &fakeClient{responses: []string{
		singleQuestionJSON("from file one"),
		singleQuestionJSON("from file two"),
		singleQuestionJSON("from file three"),
	}}
	svc := NewService(client, testOptions())

	result := svc.ProcessFiles(context.Background(), []UploadedFile{
		textFile("a.txt", "Text of the first file with a question."),
		textFile("b.txt", "Text of the second file with a question."),
		textFile("c.txt", "Text of the third file with a question."),
	})

	assert.True(t, result.Success)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 3, result.TotalProcessed)
	require.Len(t, result.Questions, 3)
	assert.Equal(t, "from file one", result.Questions[0].Text)
	assert.Equal(t, "from file two", result.Questions[1].Text)
	assert.Equal(t, "from file three", result.Questions[2].Text)
}

func TestProcessFilesContinuesAfterPerFileFailure(t *testing.T) {
	client := &fakeClient{responses: []string{singleQuestionJSON("survivor")}}
	svc := NewService(client, testOptions())

	result := svc.ProcessFiles(context.Background(), []UploadedFile{
		{Name: "bad.zip", MIMEType: "application/zip", Size: 4, Data: []byte("PK..")},
		textFile("good.txt", "A file whose content yields one question."),
	})

	assert.True(t, result.Success, "batch with questions succeeds despite a failed file")
	require.Len(t, result.Errors, 1)
	assert.True(t, strings.HasPrefix(result.Errors[0], "bad.zip:"), "error should be prefixed with the filename: %q", result.Errors[0])
	require.Len(t, result.Questions, 1)
	assert.Equal(t, "survivor", result.Questions[0].Text)
}

func TestProcessFilesClientErrorIsRecorded(t *testing.T) {
	client := &fakeClient{errs: []error{errors.New("AI request quota exceeded")}}
	svc := NewService(client, testOptions())

	result := svc.ProcessFiles(context.Background(), []UploadedFile{
		textFile("only.txt", "Some content that will hit a quota error."),
	})

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "only.txt:")
	assert.Contains(t, result.Errors[0], "quota")
}

func TestProcessFilesNoQuestionsIsEmptySuccess(t *testing.T) {
	// The model returned a question, but it is an MCQ with one option and is
	// dropped during validation: distinguishable from a processing failure.
	client := &fakeClient{responses: []string{
		`{"questions":[{"text":"Q1","type":"MCQ","options":["A"],"correctAnswer":"A","marks":1,"difficulty":"easy"}]}`,
	}}
	svc := NewService(client, testOptions())

	result := svc.ProcessFiles(context.Background(), []UploadedFile{
		textFile("sparse.txt", "Content that produces one invalid question."),
	})

	assert.True(t, result.Success, "no questions found is an empty success, not a failure")
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Questions)
	assert.Equal(t, 0, result.TotalProcessed)
	assert.NotEmpty(t, result.Warnings, "the dropped question should leave a warning")
}

func TestProcessFilesChunksOversizedText(t *testing.T) {
	opts := testOptions()
	opts.MaxChunkSize = 80

	client := &fakeClient{responses: []string{
		singleQuestionJSON("chunk one question"),
		singleQuestionJSON("chunk two question"),
		singleQuestionJSON("chunk three question"),
	}}
	svc := NewService(client, opts)

	content := strings.TrimSpace(strings.Repeat("A sentence that fills space nicely. ", 6))
	require.Greater(t, len(content), opts.MaxChunkSize)

	result := svc.ProcessFiles(context.Background(), []UploadedFile{textFile("long.txt", content)})

	assert.True(t, result.Success)
	assert.Greater(t, len(client.calls), 1, "oversized text should be sent in multiple chunks")
	for _, call := range client.calls {
		assert.LessOrEqual(t, len(call.Data), opts.MaxChunkSize)
		assert.Equal(t, ContentText, call.Kind)
	}
	assert.Equal(t, len(client.calls), len(result.Questions))
}

func TestProcessFilesChunkFailureIsFatalForThatChunkOnly(t *testing.T) {
	opts := testOptions()
	opts.MaxChunkSize = 80

	client := &fakeClient{
		responses: []string{"", singleQuestionJSON("second chunk")},
		errs:      []error{errors.New("transient failure"), nil},
	}
	svc := NewService(client, opts)

	content := strings.TrimSpace(strings.Repeat("A sentence that fills space nicely. ", 6))
	result := svc.ProcessFiles(context.Background(), []UploadedFile{textFile("long.txt", content)})

	assert.True(t, result.Success)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "long.txt:")
	assert.Contains(t, result.Errors[0], "chunk 1/")
	assert.NotEmpty(t, result.Questions)
}

func TestProcessFilesEmptyBatch(t *testing.T) {
	svc := NewService(&fakeClient{}, testOptions())
	result := svc.ProcessFiles(context.Background(), nil)
	assert.True(t, result.Success)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Questions)
}
