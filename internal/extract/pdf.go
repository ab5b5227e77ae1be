package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// minPDFTextLength is the minimum combined text-layer length for text
// extraction to count as a success. Shorter output almost always means a
// scanned/image-only PDF whose "text" is just stray artifacts.
const minPDFTextLength = 50

// extractPDFText pulls the text layer out of a PDF, page by page, prefixing
// each page's content with a "Page N:" marker. Returns ErrImageOnlyPDF when
// the combined text is too short to be meaningful, ErrPasswordProtected for
// encrypted files, and ErrCorruptedPDF when the structure cannot be parsed.
func extractPDFText(f UploadedFile) (text string, err error) {
	// The parser panics on some malformed files; surface that as a
	// corrupted-PDF error instead of taking down the batch.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: parser failure: %v", ErrCorruptedPDF, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(f.Data), int64(len(f.Data)))
	if err != nil {
		return "", classifyPDFError(err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page is not fatal; the length check
			// below decides whether the rest was enough.
			continue
		}

		pageText = strings.TrimSpace(pageText)
		if pageText == "" {
			continue
		}
		fmt.Fprintf(&sb, "Page %d: %s\n", i, pageText)
	}

	combined := strings.TrimSpace(sb.String())
	if len(combined) < minPDFTextLength {
		return "", ErrImageOnlyPDF
	}

	return combined, nil
}

// classifyPDFError maps parser errors onto the pipeline's sentinel errors so
// each failure mode gets its own user-facing message.
func classifyPDFError(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "password") || strings.Contains(msg, "encrypt") {
		return fmt.Errorf("%w: %v", ErrPasswordProtected, err)
	}
	return fmt.Errorf("%w: %v", ErrCorruptedPDF, err)
}
