package handlers

import (
	"log"
	"net/http"

	"quizimport/internal/db"
	"quizimport/internal/extract"
	"quizimport/internal/r2"

	"github.com/gin-gonic/gin"
)

// Handler contains the API handlers dependencies
type Handler struct {
	DB       *db.DB
	Importer *extract.Service
	R2       *r2.Client // nil when archival is not configured
}

// NewHandler creates a new Handler
func NewHandler(database *db.DB, importer *extract.Service, r2Client *r2.Client) *Handler {
	return &Handler{
		DB:       database,
		Importer: importer,
		R2:       r2Client,
	}
}

// respondError logs an error and aborts the request with a JSON error body.
func (h *Handler) respondError(c *gin.Context, statusCode int, errorContext string, err error) {
	log.Printf("ERROR: %s: %v", errorContext, err)
	c.AbortWithStatusJSON(statusCode, gin.H{"error": errorContext + ": " + err.Error()})
}

// HandleHealth reports service liveness.
func (h *Handler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
