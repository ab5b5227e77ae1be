package extract

import (
	"bytes"
	"fmt"
)

const (
	// MaxFileSize is the hard per-file cap (50MB). Bounds both memory use
	// and the downstream request size.
	MaxFileSize = 50 * 1024 * 1024

	// pdfMagicWindow is how far into the file the %PDF- header is searched for.
	pdfMagicWindow = 1024
)

var pdfMagic = []byte("%PDF-")

// allowedMIMETypes is the upload allow-list: common image formats, PDFs,
// plain text, and the usual Word document MIME variants.
var allowedMIMETypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
	"text/plain":      true,

	// Word document variants
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// ValidateFile checks the declared MIME type against the allow-list and
// enforces the size cap. PDFs additionally get a structural check for the
// %PDF- magic header within the first 1KB. Pure validation: rejection is
// reported as an error value so the orchestrator can continue with other
// files.
func ValidateFile(f UploadedFile) error {
	if !allowedMIMETypes[f.MIMEType] {
		return fmt.Errorf("unsupported file type %q: only images, PDFs, text files and Word documents are accepted", f.MIMEType)
	}

	if f.Size > MaxFileSize {
		return fmt.Errorf("file is too large (%d bytes): maximum size is 50MB", f.Size)
	}

	if f.MIMEType == "application/pdf" {
		header := f.Data
		if len(header) > pdfMagicWindow {
			header = header[:pdfMagicWindow]
		}
		if !bytes.Contains(header, pdfMagic) {
			return fmt.Errorf("file %q does not look like a valid PDF (missing %%PDF- header)", f.Name)
		}
	}

	return nil
}
