package routes

import (
	"github.com/anjiri1684/tutor_match/handlers"
	"github.com/gofiber/fiber/v2"
)

func TutorRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/tutors", handlers.ListTutors)
	api.Get("/tutors/:tutorId", handlers.GetTutorProfile)
}
