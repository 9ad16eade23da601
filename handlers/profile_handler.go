package handlers

import (
	"errors"

	"github.com/anjiri1684/tutor_match/models"
	"github.com/anjiri1684/tutor_match/repository"
	"github.com/anjiri1684/tutor_match/schedule"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

type UpdateProfileRequest struct {
	DisplayName   *string `json:"display_name"`
	Section       *string `json:"section"`
	AcademicLevel *string `json:"academic_level"`
}

func GetProfile(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	profile, err := repository.Default.GetProfileByID(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
	}

	return c.JSON(profile)
}

func UpdateProfile(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	profile, err := repository.Default.GetProfileByID(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if req.DisplayName != nil {
		profile.DisplayName = *req.DisplayName
	}
	if req.Section != nil {
		profile.Section = *req.Section
	}
	if req.AcademicLevel != nil {
		profile.AcademicLevel = *req.AcademicLevel
	}

	if err := repository.Default.UpdateProfile(c.Context(), &profile); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(profile)
}

type UpdateTutorSettingsRequest struct {
	Subjects    []string `json:"subjects" validate:"omitempty,dive,min=1"`
	Languages   []string `json:"languages"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Description *string  `json:"description"`
}

func UpdateTutorSettings(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	var req UpdateTutorSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	profile, err := repository.Default.GetProfileByID(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
	}

	if req.Subjects != nil {
		for _, s := range req.Subjects {
			if !models.ValidSubject(s) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown subject: " + s})
			}
		}
		profile.Subjects = req.Subjects
	}
	if req.Languages != nil {
		profile.Languages = req.Languages
	}
	if req.Price != nil {
		profile.Price = *req.Price
	}
	if req.Description != nil {
		profile.Description = *req.Description
	}

	if err := repository.Default.UpdateProfile(c.Context(), &profile); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(profile)
}

type SetScheduleRequest struct {
	Schedule [][]int `json:"schedule" validate:"required"`
}

func SetSchedule(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	var req SetScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if len(req.Schedule) != schedule.Days {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Schedule must cover all seven days"})
	}
	for _, row := range req.Schedule {
		if len(row) != schedule.Blocks {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Each day must cover the full hour window"})
		}
		for _, cell := range row {
			if cell != 0 && cell != 1 {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Schedule cells must be 0 or 1"})
			}
		}
	}

	profile, err := repository.Default.GetProfileByID(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
	}

	profile.Schedule = schedule.Grid(req.Schedule)
	if err := repository.Default.UpdateProfile(c.Context(), &profile); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update schedule"})
	}

	return c.JSON(profile.Schedule)
}

type ToggleScheduleRequest struct {
	Day       int  `json:"day" validate:"min=0,max=6"`
	Block     int  `json:"block" validate:"min=0"`
	Available bool `json:"available"`
}

func ToggleScheduleCell(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	var req ToggleScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	profile, err := repository.Default.GetProfileByID(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
	}

	grid := profile.Schedule
	if len(grid) == 0 {
		grid = schedule.NewGrid()
	}
	profile.Schedule = grid.SetAvailable(req.Day, req.Block, req.Available)

	if err := repository.Default.UpdateProfile(c.Context(), &profile); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update schedule"})
	}

	return c.JSON(profile.Schedule)
}

type UpdateLocationRequest struct {
	Latitude  float64 `json:"latitude" validate:"required,latitude"`
	Longitude float64 `json:"longitude" validate:"required,longitude"`
}

func UpdateLocation(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)

	var req UpdateLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	profile, err := repository.Default.GetProfileByID(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
	}

	profile.LastLatitude = req.Latitude
	profile.LastLongitude = req.Longitude
	if err := repository.Default.UpdateProfile(c.Context(), &profile); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update location"})
	}

	return c.JSON(fiber.Map{"message": "Location updated"})
}

func AddFavoriteTutor(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)
	tutorID := c.Params("tutorId")

	tutor, err := repository.Default.GetProfileByID(c.Context(), tutorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutor not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	if !tutor.IsTutor() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Profile is not a tutor"})
	}

	profile, err := repository.Default.GetProfileByID(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
	}

	if !profile.HasFavorite(tutorID) {
		profile.FavoriteTutors = append(profile.FavoriteTutors, tutorID)
		if err := repository.Default.UpdateProfile(c.Context(), &profile); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update favorites"})
		}
	}

	return c.JSON(fiber.Map{"favorite_tutors": profile.FavoriteTutors})
}

func RemoveFavoriteTutor(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID := claims["user_id"].(string)
	tutorID := c.Params("tutorId")

	profile, err := repository.Default.GetProfileByID(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
	}

	remaining := make([]string, 0, len(profile.FavoriteTutors))
	for _, id := range profile.FavoriteTutors {
		if id != tutorID {
			remaining = append(remaining, id)
		}
	}
	profile.FavoriteTutors = remaining

	if err := repository.Default.UpdateProfile(c.Context(), &profile); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update favorites"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
