package handlers

import (
	"errors"
	"net/http"

	"quizimport/internal/db"
	"quizimport/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateQuizRequest is the body for creating a quiz shell to import into.
type CreateQuizRequest struct {
	Title string `json:"title" binding:"required"`
}

// HandleCreateQuiz creates an empty quiz that questions can be imported into.
func (h *Handler) HandleCreateQuiz(c *gin.Context) {
	var req CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid create quiz request", err)
		return
	}

	quiz, err := h.DB.Queries.CreateQuiz(c.Request.Context(), req.Title)
	if err != nil {
		h.respondError(c, http.StatusInternalServerError, "Failed to create quiz", err)
		return
	}

	c.JSON(http.StatusCreated, quiz)
}

// HandleGetQuiz returns one quiz with its questions in insertion order.
func (h *Handler) HandleGetQuiz(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("quizId"))
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid quiz ID", err)
		return
	}

	quiz, err := h.DB.Queries.GetQuiz(c.Request.Context(), quizID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			h.respondError(c, http.StatusNotFound, "Quiz not found", err)
			return
		}
		h.respondError(c, http.StatusInternalServerError, "Failed to get quiz", err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// HandleListQuizzes returns all quizzes with their question counts.
func (h *Handler) HandleListQuizzes(c *gin.Context) {
	quizzes, err := h.DB.Queries.ListQuizzes(c.Request.Context())
	if err != nil {
		h.respondError(c, http.StatusInternalServerError, "Failed to list quizzes", err)
		return
	}
	if quizzes == nil {
		quizzes = []models.Quiz{}
	}

	c.JSON(http.StatusOK, models.QuizListResponse{
		Quizzes: quizzes,
		Total:   int64(len(quizzes)),
	})
}

// HandleDeleteQuiz deletes a quiz and its questions.
func (h *Handler) HandleDeleteQuiz(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("quizId"))
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "Invalid quiz ID", err)
		return
	}

	if err := h.DB.Queries.DeleteQuiz(c.Request.Context(), quizID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			h.respondError(c, http.StatusNotFound, "Quiz not found", err)
			return
		}
		h.respondError(c, http.StatusInternalServerError, "Failed to delete quiz", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quiz deleted"})
}
