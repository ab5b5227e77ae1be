package api

import (
	"quizimport/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up the API routes
func SetupRoutes(router *gin.Engine, handler *handlers.Handler, frontendURL string) {
	router.Use(CORSMiddleware(frontendURL))

	router.GET("/api/health", handler.HandleHealth)

	api := router.Group("/api")
	{
		api.POST("/quizzes", handler.HandleCreateQuiz)
		api.GET("/quizzes", handler.HandleListQuizzes)
		api.GET("/quizzes/:quizId", handler.HandleGetQuiz)
		api.DELETE("/quizzes/:quizId", handler.HandleDeleteQuiz)

		// Document-to-question import pipeline
		api.POST("/quizzes/:quizId/questions/import", handler.HandleImportQuestions)
	}
}
