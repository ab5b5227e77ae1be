package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"quizimport/internal/db"
	"quizimport/internal/extract"
	"quizimport/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxMultipartMemory bounds in-memory storage of multipart parts (64 MB);
// larger parts spill to temporary files.
const maxMultipartMemory = 64 << 20

// HandleImportQuestions runs the document-to-question extraction pipeline
// over the uploaded files and appends the surviving questions to the quiz.
// Partial failure is normal: the response always carries the aggregate
// ImportResult with per-file errors alongside whatever was extracted.
func (h *Handler) HandleImportQuestions(c *gin.Context) {
	ctx := c.Request.Context()

	// 1. Resolve the target quiz
	quizID, err := uuid.Parse(c.Param("quizId"))
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid quiz ID", err)
		return
	}
	if _, err := h.DB.Queries.GetQuiz(ctx, quizID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			h.respondError(c, http.StatusNotFound, "Quiz not found", err)
			return
		}
		h.respondError(c, http.StatusInternalServerError, "Failed to load quiz", err)
		return
	}

	// 2. Parse the multipart form
	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
		h.respondError(c, http.StatusBadRequest, "Failed to parse multipart form", err)
		return
	}

	fileHeaders := c.Request.MultipartForm.File["files"]
	if len(fileHeaders) == 0 {
		h.respondError(c, http.StatusBadRequest, "No files provided", errors.New("upload at least one file under the 'files' key"))
		return
	}
	log.Printf("INFO: Received %d files for import into quiz %s", len(fileHeaders), quizID)

	// 3. Read the uploads into pipeline inputs
	var files []extract.UploadedFile
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			h.respondError(c, http.StatusBadRequest, fmt.Sprintf("Failed to open uploaded file %q", fh.Filename), err)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			h.respondError(c, http.StatusBadRequest, fmt.Sprintf("Failed to read uploaded file %q", fh.Filename), err)
			return
		}

		files = append(files, extract.UploadedFile{
			Name:     fh.Filename,
			MIMEType: fh.Header.Get("Content-Type"),
			Size:     fh.Size,
			Data:     data,
		})
	}

	// 4. Run the extraction pipeline
	result := h.Importer.ProcessFiles(ctx, files)

	// 5. Persist surviving questions in extraction order
	var questionIDs []uuid.UUID
	if len(result.Questions) > 0 {
		questionIDs, err = h.DB.Queries.CreateQuestions(ctx, quizID, result.Questions)
		if err != nil {
			h.respondError(c, http.StatusInternalServerError, "Failed to save imported questions", err)
			return
		}
		log.Printf("INFO: Saved %d imported questions to quiz %s", len(questionIDs), quizID)
	}

	// 6. Archive the source documents when R2 is configured; archival
	// failures never fail the import.
	if h.R2 != nil {
		importID := uuid.New()
		for _, f := range files {
			if _, err := h.R2.ArchiveSourceDocument(ctx, quizID, importID, f.Name, f.Data); err != nil {
				log.Printf("WARN: Failed to archive source document %q: %v", f.Name, err)
			}
		}
	}

	// 7. Respond with the aggregate result
	message := fmt.Sprintf("Imported %d questions from %d files", result.TotalProcessed, len(files))
	if !result.Success {
		message = "Import failed: no questions could be extracted"
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, models.ImportResponse{
		QuizID:      quizID,
		Result:      result,
		QuestionIDs: questionIDs,
		Message:     message,
	})
}
