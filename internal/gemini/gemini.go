package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"quizimport/internal/config"
	"quizimport/internal/extract"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DocumentPrompt is the prompt used for image, PDF and Word document content
// sent as an inline blob.
const DocumentPrompt = `Extract ALL quiz questions from the provided document. Follow these requirements exactly:

1. Identify every question in the document, including multiple-choice, short-answer and written/essay questions.
2. For each question determine:
   - "text": the full question prompt
   - "type": one of "MCQ", "Short" or "Written"
   - "options": for MCQ questions, the list of answer options (at least 2)
   - "correctAnswer": for MCQ questions, the exact text of the correct option; for other types, the expected answer if stated
   - "marks": the marks/points for the question (positive integer, use 1 if not stated)
   - "difficulty": one of "easy", "medium" or "hard" (use "medium" if not stated)
   - "wordLimit" and "timeLimit": for Written questions only, positive integers (omit if not stated)
3. Preserve the order in which questions appear in the document.
4. Do not invent questions that are not in the document.

Respond with ONLY a JSON object in this exact format, no other text:
{
  "questions": [
    {
      "text": "Question text here?",
      "type": "MCQ",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correctAnswer": "Option B",
      "marks": 1,
      "difficulty": "medium"
    }
  ]
}
`

// TextPrompt is the prompt used for plain-text content, which is embedded
// directly below the instructions.
const TextPrompt = DocumentPrompt + `
The document content is the text below:

`

const (
	// MaxInlineSize is the maximum decoded size for inline binary data (20MB)
	MaxInlineSize = 20 * 1024 * 1024
	// MaxContentSize is the hard ceiling on content sent to the endpoint (15MB)
	MaxContentSize = 15 * 1024 * 1024
	// MinContentSize rejects content too short to contain a question
	MinContentSize = 50
	// requestTimeout is the client-side abort timeout for one generation call
	requestTimeout = 60 * time.Second
)

// Client wraps the Gemini client for question extraction. The API key is
// injected via config, never read from a package-level constant.
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewClient creates a new Gemini client from the injected configuration.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("gemini API key is not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.GeminiModel)
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.2)
	model.SetTopK(40)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(8192)

	return &Client{
		client: client,
		model:  model,
	}, nil
}

// Close closes the underlying Gemini client.
func (c *Client) Close() {
	c.client.Close()
}

// ExtractQuestions sends one piece of extracted content to the endpoint and
// returns the raw text completion. Binary content travels as an inline blob
// next to the prompt; text content is embedded in the prompt itself.
func (c *Client) ExtractQuestions(ctx context.Context, content extract.Content) (string, error) {
	if err := checkContentSize(content); err != nil {
		return "", err
	}

	parts, err := buildParts(content)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.model.GenerateContent(ctx, parts...)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("AI request timed out after %s", requestTimeout)
		}
		return "", classifyAPIError(err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return "", fmt.Errorf("content was blocked by the AI safety filters (%s): try a different document", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("the AI endpoint returned an empty response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("the AI endpoint returned no text content")
	}
	return sb.String(), nil
}

// checkContentSize enforces the endpoint's size limits before sending.
func checkContentSize(content extract.Content) error {
	if len(content.Data) > MaxContentSize {
		return fmt.Errorf("content is too large for the AI endpoint (%d bytes, limit %d)", len(content.Data), MaxContentSize)
	}
	if len(content.Data) < MinContentSize {
		return fmt.Errorf("content is too short to contain questions (%d bytes)", len(content.Data))
	}
	if content.Kind == extract.ContentBase64 {
		// Base64 inflates by 4/3; bound the decoded equivalent as well.
		if decoded := len(content.Data) / 4 * 3; decoded > MaxInlineSize {
			return fmt.Errorf("document is too large for inline processing (%d bytes decoded, limit %d)", decoded, MaxInlineSize)
		}
	}
	return nil
}

// buildParts assembles the request parts for the content kind.
func buildParts(content extract.Content) ([]genai.Part, error) {
	switch content.Kind {
	case extract.ContentBase64:
		data, err := base64.StdEncoding.DecodeString(content.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 content: %w", err)
		}
		return []genai.Part{
			genai.Text(DocumentPrompt),
			genai.Blob{MIMEType: content.MIMEType, Data: data},
		}, nil
	case extract.ContentText:
		return []genai.Part{genai.Text(TextPrompt + content.Data)}, nil
	default:
		return nil, fmt.Errorf("unknown content kind %q", content.Kind)
	}
}

// classifyAPIError maps known endpoint error signatures onto user-actionable
// messages; unknown errors pass through wrapped.
func classifyAPIError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "SAFETY"):
		return fmt.Errorf("content was blocked by the AI safety filters: try a different document")
	case strings.Contains(msg, "INVALID_ARGUMENT"):
		return fmt.Errorf("the AI endpoint rejected the request format: the file may be corrupted or unsupported")
	case strings.Contains(msg, "RESOURCE_EXHAUSTED"), strings.Contains(msg, "quota"), strings.Contains(msg, "429"):
		return fmt.Errorf("AI request quota exceeded: wait a moment and try again")
	case strings.Contains(msg, "too large"), strings.Contains(msg, "payload size"):
		return fmt.Errorf("document is too large for the AI endpoint: try a smaller file")
	default:
		return fmt.Errorf("AI request failed: %w", err)
	}
}
