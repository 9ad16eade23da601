package routes

import (
	"github.com/anjiri1684/tutor_match/handlers"
	"github.com/anjiri1684/tutor_match/middleware"
	"github.com/gofiber/fiber/v2"
)

func ProfileRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	profile := api.Group("/profile", middleware.Protected())
	profile.Get("/me", handlers.GetProfile)
	profile.Put("/me", handlers.UpdateProfile)
	profile.Put("/location", handlers.UpdateLocation)

	favorites := profile.Group("/favorites")
	favorites.Post("/:tutorId", handlers.AddFavoriteTutor)
	favorites.Delete("/:tutorId", handlers.RemoveFavoriteTutor)

	tutorSettings := profile.Group("/tutor", middleware.TutorRequired())
	tutorSettings.Put("", handlers.UpdateTutorSettings)
	tutorSettings.Put("/schedule", handlers.SetSchedule)
	tutorSettings.Patch("/schedule", handlers.ToggleScheduleCell)
}
