package extract

import "errors"

// UploadedFile is a file handed to the pipeline: raw bytes plus the declared
// MIME type and filename from the upload form.
type UploadedFile struct {
	Name     string
	MIMEType string
	Size     int64
	Data     []byte
}

// ContentKind describes how extracted content should be sent to the
// generative endpoint.
type ContentKind string

const (
	// ContentText is decoded text embedded directly in the prompt.
	ContentText ContentKind = "text"
	// ContentBase64 is an opaque binary payload sent as an inline blob.
	ContentBase64 ContentKind = "base64"
)

// Content is the output of the content extractor.
type Content struct {
	Data     string
	Kind     ContentKind
	MIMEType string
}

// Sentinel errors for the conditions the orchestrator and callers need to
// tell apart.
var (
	// ErrNoQuestions means the document was processed successfully but no
	// questions survived extraction. Treated as an empty success, not a
	// failure.
	ErrNoQuestions = errors.New("no questions found in document")

	// ErrPasswordProtected means the PDF is encrypted and cannot be read.
	ErrPasswordProtected = errors.New("PDF is password protected")

	// ErrCorruptedPDF means the PDF structure could not be parsed.
	ErrCorruptedPDF = errors.New("PDF file is corrupted or invalid")

	// ErrImageOnlyPDF means the PDF has no usable text layer (e.g. a scan).
	ErrImageOnlyPDF = errors.New("PDF contains no extractable text")

	// ErrExtractTimeout means content extraction exceeded its time budget.
	ErrExtractTimeout = errors.New("content extraction timed out")
)
