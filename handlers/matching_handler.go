package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/anjiri1684/tutor_match/geo"
	"github.com/anjiri1684/tutor_match/matching"
	"github.com/anjiri1684/tutor_match/models"
	"github.com/anjiri1684/tutor_match/repository"
	"github.com/anjiri1684/tutor_match/schedule"
	"github.com/anjiri1684/tutor_match/timeslot"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

func queryOrigin(c *fiber.Ctx) *geo.Point {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		return nil
	}
	return &geo.Point{Lat: lat, Lon: lon}
}

func queryMaxDistance(c *fiber.Ctx) float64 {
	d, err := strconv.ParseFloat(c.Query("max_distance"), 64)
	if err != nil {
		return geo.FilterMax
	}
	return d
}

func matchingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, matching.ErrNoCandidateFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Assigned tutor not found in profile pool"})
	case errors.Is(err, matching.ErrLocationUnavailable):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Instant matching requires a device location"})
	case errors.Is(err, timeslot.ErrInvalidTimeSlot), errors.Is(err, schedule.ErrInvalidSchedule):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Matching failed"})
	}
}

// GetLessonCandidates returns the filtered and ranked tutor pool for one of
// the student's lessons: favorites bucket first, then everyone else.
func GetLessonCandidates(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	studentID := claims["user_id"].(string)

	lesson, err := repository.Default.GetLessonByID(c.Context(), c.Params("lessonId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lesson not found"})
	}
	if lesson.StudentUid != studentID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "This is not your lesson"})
	}

	student, err := repository.Default.GetProfileByID(c.Context(), studentID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
	}
	pool, err := repository.Default.GetProfiles(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve profiles"})
	}

	sortMode := matching.SortDefault
	switch c.Query("sort") {
	case "verified":
		sortMode = matching.SortVerifiedFirst
	case "level":
		sortMode = matching.SortHighestLevel
	}

	matches, err := matching.FindTutors(lesson, matching.TutorQuery{
		Pool:        pool,
		Favorites:   student.FavoriteTutors,
		Sort:        sortMode,
		Origin:      queryOrigin(c),
		MaxDistance: queryMaxDistance(c),
	})
	if err != nil {
		return matchingError(c, err)
	}

	return c.JSON(matches)
}

// GetOpenRequests returns the open lesson broadcasts a tutor can offer on,
// nearest-first for instant requests, soonest-first otherwise.
func GetOpenRequests(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	tutorID := claims["user_id"].(string)

	tutor, err := repository.Default.GetProfileByID(c.Context(), tutorID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
	}
	pool, err := repository.Default.GetAllRequestedLessons(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve lessons"})
	}

	subject := c.Query("subject")
	if subject != "" && !models.ValidSubject(subject) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown subject: " + subject})
	}

	var date *time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("02/01/2006", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date, expected dd/MM/yyyy"})
		}
		date = &parsed
	}

	lessons, err := matching.FindLessons(tutor, matching.LessonQuery{
		Pool:        pool,
		Subject:     subject,
		Date:        date,
		Instant:     c.QueryBool("instant"),
		Origin:      queryOrigin(c),
		MaxDistance: queryMaxDistance(c),
	})
	if err != nil {
		return matchingError(c, err)
	}

	return c.JSON(lessons)
}
