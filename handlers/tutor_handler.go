package handlers

import (
	"errors"
	"strconv"

	"github.com/anjiri1684/tutor_match/models"
	"github.com/anjiri1684/tutor_match/ratings"
	"github.com/anjiri1684/tutor_match/repository"
	"github.com/gofiber/fiber/v2"
)

func ListTutors(c *fiber.Ctx) error {
	profiles, err := repository.Default.GetProfiles(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve tutors"})
	}

	subject := c.Query("subject")
	var tutors []models.Profile
	for _, p := range profiles {
		if !p.IsTutor() {
			continue
		}
		if subject != "" && !p.TeachesSubject(subject) {
			continue
		}
		tutors = append(tutors, p)
	}

	return c.JSON(tutors)
}

// GetTutorProfile serves the public tutor page: the profile plus the rating
// average and the most recent visible reviews.
func GetTutorProfile(c *fiber.Ctx) error {
	tutorID := c.Params("tutorId")

	tutor, err := repository.Default.GetProfileByID(c.Context(), tutorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutor not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	if !tutor.IsTutor() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutor not found"})
	}

	lessons, err := repository.Default.GetLessonsForTutor(c.Context(), tutorID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve lessons"})
	}
	profiles, err := repository.Default.GetProfiles(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve profiles"})
	}

	limit := 10
	if raw := c.Query("reviews"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			limit = n
		}
	}

	response := fiber.Map{
		"profile": tutor,
		"reviews": ratings.RecentReviews(lessons, profiles, limit),
	}
	if avg, ok := ratings.Average(lessons); ok {
		response["average_rating"] = avg
	} else {
		response["average_rating"] = nil
	}

	return c.JSON(response)
}
