package extract

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"quizimport/internal/models"
)

// ExtractionClient sends extracted content to the generative endpoint and
// returns the raw text completion. Implemented by the gemini package;
// tests substitute a fake.
type ExtractionClient interface {
	ExtractQuestions(ctx context.Context, content Content) (string, error)
}

// Options tunes the batch orchestrator. The delays exist to stay under the
// endpoint's undocumented rate limits; tests zero them out.
type Options struct {
	MaxFiles     int
	MaxChunkSize int
	FileDelay    time.Duration
	ChunkDelay   time.Duration
}

// DefaultOptions returns the production settings.
func DefaultOptions() Options {
	return Options{
		MaxFiles:     10,
		MaxChunkSize: MaxChunkSize,
		FileDelay:    2 * time.Second,
		ChunkDelay:   1 * time.Second,
	}
}

// fileResult is the outcome of one file's pipeline run. Questions and
// errors can coexist: a chunked file may fail on some chunks and still
// produce questions from others.
type fileResult struct {
	questions []models.ExtractedQuestion
	warnings  []string
	errors    []string
}

// Service runs the full file-to-question pipeline across a batch of files.
// Stateless between invocations; all durable state lives with the caller.
type Service struct {
	client ExtractionClient
	opts   Options
}

// NewService creates a Service around the given extraction client.
func NewService(client ExtractionClient, opts Options) *Service {
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = 10
	}
	if opts.MaxChunkSize <= 0 {
		opts.MaxChunkSize = MaxChunkSize
	}
	return &Service{client: client, opts: opts}
}

// ProcessFiles processes files strictly sequentially, aggregating questions
// and errors across the batch in file order. Nothing escapes as a panic or
// error: the caller always receives a well-formed ImportResult. Per-file
// failures are recorded with the filename and processing continues; batches
// over the file cap are rejected outright with a single error.
func (s *Service) ProcessFiles(ctx context.Context, files []UploadedFile) models.ImportResult {
	result := models.ImportResult{Questions: []models.ExtractedQuestion{}, Errors: []string{}}

	if len(files) > s.opts.MaxFiles {
		result.Errors = append(result.Errors,
			fmt.Sprintf("too many files: %d provided, maximum is %d per import", len(files), s.opts.MaxFiles))
		return result
	}

	for i, f := range files {
		if i > 0 && s.opts.FileDelay > 0 {
			// Spacing between files avoids tripping endpoint rate limits.
			time.Sleep(s.opts.FileDelay)
		}

		log.Printf("INFO: Processing file %d/%d: %s (%d bytes, %s)", i+1, len(files), f.Name, f.Size, f.MIMEType)

		fr := s.processFileSafe(ctx, f)
		for _, w := range fr.warnings {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %s", f.Name, w))
			log.Printf("WARN: %s: %s", f.Name, w)
		}
		for _, e := range fr.errors {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", f.Name, e))
			log.Printf("ERROR: Failed to process %s: %s", f.Name, e)
		}
		result.Questions = append(result.Questions, fr.questions...)
	}

	result.TotalProcessed = len(result.Questions)
	// A batch that produced questions is a success even with partial
	// failures; an error-free batch that found nothing is an empty success.
	result.Success = len(result.Questions) > 0 || len(result.Errors) == 0

	return result
}

// processFileSafe converts panics from the file pipeline into errors so a
// single bad file can never take down the batch.
func (s *Service) processFileSafe(ctx context.Context, f UploadedFile) (fr fileResult) {
	defer func() {
		if r := recover(); r != nil {
			fr = fileResult{errors: []string{fmt.Sprintf("unexpected processing failure: %v", r)}}
		}
	}()
	return s.processFile(ctx, f)
}

// processFile runs one file through validate -> extract -> (chunk) ->
// extraction client -> parse. A "no questions found" result is a legitimate
// empty success, not an error.
func (s *Service) processFile(ctx context.Context, f UploadedFile) fileResult {
	if err := ValidateFile(f); err != nil {
		return fileResult{errors: []string{err.Error()}}
	}

	content, err := ExtractContent(ctx, f)
	if err != nil {
		return fileResult{errors: []string{err.Error()}}
	}

	if content.Kind == ContentText && len(content.Data) > s.opts.MaxChunkSize {
		return s.processChunkedText(ctx, content)
	}

	completion, err := s.client.ExtractQuestions(ctx, *content)
	if err != nil {
		return fileResult{errors: []string{err.Error()}}
	}

	questions, warnings, err := ParseQuestions(completion)
	if errors.Is(err, ErrNoQuestions) {
		log.Printf("INFO: No questions found in %s", f.Name)
		return fileResult{warnings: warnings}
	}
	if err != nil {
		return fileResult{warnings: warnings, errors: []string{err.Error()}}
	}
	return fileResult{questions: questions, warnings: warnings}
}

// processChunkedText splits oversized text and runs the extraction client
// once per chunk with an inter-chunk delay. A failed chunk is fatal for that
// chunk only; the remaining chunks still run.
func (s *Service) processChunkedText(ctx context.Context, content *Content) fileResult {
	chunks := SplitTextIntoChunks(content.Data, s.opts.MaxChunkSize)
	log.Printf("INFO: Content exceeds %d bytes, split into %d chunks", s.opts.MaxChunkSize, len(chunks))

	var fr fileResult
	for i, chunk := range chunks {
		if i > 0 && s.opts.ChunkDelay > 0 {
			time.Sleep(s.opts.ChunkDelay)
		}

		completion, err := s.client.ExtractQuestions(ctx, Content{Data: chunk, Kind: ContentText, MIMEType: content.MIMEType})
		if err != nil {
			fr.errors = append(fr.errors, fmt.Sprintf("chunk %d/%d: %v", i+1, len(chunks), err))
			continue
		}

		questions, warnings, err := ParseQuestions(completion)
		fr.warnings = append(fr.warnings, warnings...)
		if err != nil {
			if !errors.Is(err, ErrNoQuestions) {
				fr.errors = append(fr.errors, fmt.Sprintf("chunk %d/%d: %v", i+1, len(chunks), err))
			}
			continue
		}
		fr.questions = append(fr.questions, questions...)
	}
	return fr
}
