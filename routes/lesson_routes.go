package routes

import (
	"github.com/anjiri1684/tutor_match/handlers"
	"github.com/anjiri1684/tutor_match/middleware"
	"github.com/gofiber/fiber/v2"
)

func LessonRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	lessons := api.Group("/lessons", middleware.Protected())
	lessons.Post("", handlers.CreateLesson)
	lessons.Get("/me", handlers.GetMyLessons)
	lessons.Get("/:lessonId/actions", handlers.GetLessonActions)
	lessons.Post("/:lessonId/broadcast", handlers.BroadcastLesson)
	lessons.Post("/:lessonId/pick", handlers.PickTutor)
	lessons.Post("/:lessonId/confirm", handlers.ConfirmLesson)
	lessons.Post("/:lessonId/decline", handlers.DeclineLesson)
	lessons.Post("/:lessonId/cancel", handlers.CancelLesson)
	lessons.Post("/:lessonId/rate", handlers.RateLesson)

	tutorLessons := api.Group("/tutor/lessons", middleware.Protected(), middleware.TutorRequired())
	tutorLessons.Post("/propose", handlers.CreateTutorProposal)
	tutorLessons.Get("/me", handlers.GetMyTutorLessons)
	tutorLessons.Post("/:lessonId/offer", handlers.OfferOnLesson)
	tutorLessons.Post("/:lessonId/complete", handlers.CompleteLesson)
}
