package extract

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// extractTimeout bounds non-PDF content extraction.
const extractTimeout = 30 * time.Second

// letterRun is the heuristic for raw-text coercion: the decoded bytes must
// contain at least one run of 3+ letters to count as text.
var letterRun = regexp.MustCompile(`[A-Za-z]{3,}`)

// pdfStrategy is one tier of the PDF fallback chain. Tiers are tried in
// order until one succeeds; keeping them as an explicit list makes the
// order and conditions independently testable.
type pdfStrategy struct {
	name string
	run  func(f UploadedFile) (*Content, error)
}

var pdfStrategies = []pdfStrategy{
	{name: "text-layer", run: pdfTextLayer},
	{name: "base64", run: pdfBase64},
	{name: "raw-text", run: pdfRawText},
}

// ExtractContent turns a validated file into either decoded text or a base64
// payload, depending on the file kind. PDFs go through the three-tier
// fallback chain; everything else is raced against a 30-second timeout.
func ExtractContent(ctx context.Context, f UploadedFile) (*Content, error) {
	if f.MIMEType == "application/pdf" {
		return extractPDF(f)
	}

	ctx, cancel := context.WithTimeout(ctx, extractTimeout)
	defer cancel()

	type result struct {
		content *Content
		err     error
	}
	done := make(chan result, 1)

	go func() {
		switch {
		case f.MIMEType == "text/plain":
			c, err := decodeText(f)
			done <- result{c, err}
		default:
			// Images and Word documents are sent as opaque binary for the
			// endpoint's native understanding.
			done <- result{encodeBase64(f), nil}
		}
	}()

	select {
	case r := <-done:
		return r.content, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: file %q took longer than %s to read", ErrExtractTimeout, f.Name, extractTimeout)
	}
}

// extractPDF runs the fallback chain. The classified error from the
// text-layer tier is kept so that, if every tier fails, the final message
// names the real cause (password protected, corrupted, image-only).
func extractPDF(f UploadedFile) (*Content, error) {
	var firstErr error

	for _, strat := range pdfStrategies {
		content, err := strat.run(f)
		if err == nil {
			if strat.name != "text-layer" {
				log.Printf("WARN: PDF %q fell back to %s extraction: %v", f.Name, strat.name, firstErr)
			}
			return content, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	return nil, fmt.Errorf("all PDF extraction strategies failed for %q: %w", f.Name, firstErr)
}

// pdfTextLayer is tier 1: parse the text layer with page markers.
func pdfTextLayer(f UploadedFile) (*Content, error) {
	text, err := extractPDFText(f)
	if err != nil {
		return nil, err
	}
	return &Content{Data: text, Kind: ContentText, MIMEType: f.MIMEType}, nil
}

// pdfBase64 is tier 2: treat the whole PDF as an opaque blob.
func pdfBase64(f UploadedFile) (*Content, error) {
	return encodeBase64(f), nil
}

// pdfRawText is tier 3, the last resort: decode the bytes as UTF-8 and keep
// the result only if it heuristically looks like text.
func pdfRawText(f UploadedFile) (*Content, error) {
	if !utf8.Valid(f.Data) {
		return nil, errors.New("raw bytes are not valid UTF-8")
	}
	text := strings.TrimSpace(string(f.Data))
	if !letterRun.MatchString(text) {
		return nil, errors.New("raw bytes contain no recognizable text")
	}
	return &Content{Data: text, Kind: ContentText, MIMEType: "text/plain"}, nil
}

// decodeText decodes a plain text file as UTF-8.
func decodeText(f UploadedFile) (*Content, error) {
	if !utf8.Valid(f.Data) {
		return nil, fmt.Errorf("failed to decode %q: file is not valid UTF-8 text", f.Name)
	}
	text := strings.TrimSpace(string(f.Data))
	if text == "" {
		return nil, fmt.Errorf("failed to decode %q: file is empty", f.Name)
	}
	return &Content{Data: text, Kind: ContentText, MIMEType: f.MIMEType}, nil
}

// encodeBase64 encodes the raw bytes for inline transmission.
func encodeBase64(f UploadedFile) *Content {
	return &Content{
		Data:     base64.StdEncoding.EncodeToString(f.Data),
		Kind:     ContentBase64,
		MIMEType: f.MIMEType,
	}
}
