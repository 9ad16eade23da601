package routes

import (
	"github.com/anjiri1684/tutor_match/handlers"
	"github.com/anjiri1684/tutor_match/middleware"
	"github.com/gofiber/fiber/v2"
)

func MatchingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/lessons/:lessonId/candidates", middleware.Protected(), handlers.GetLessonCandidates)
	api.Get("/matching/requests", middleware.Protected(), middleware.TutorRequired(), handlers.GetOpenRequests)
}
