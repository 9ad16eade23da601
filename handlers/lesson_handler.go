package handlers

import (
	"errors"
	"time"

	"github.com/anjiri1684/tutor_match/lifecycle"
	"github.com/anjiri1684/tutor_match/models"
	"github.com/anjiri1684/tutor_match/repository"
	"github.com/anjiri1684/tutor_match/timeslot"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

type CreateLessonRequest struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description"`
	Subject     string   `json:"subject" validate:"required"`
	Languages   []string `json:"languages"`
	MinPrice    float64  `json:"min_price" validate:"gte=0"`
	MaxPrice    float64  `json:"max_price" validate:"gtefield=MinPrice"`
	TimeSlot    string   `json:"time_slot" validate:"required"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
}

func CreateLesson(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	studentID := claims["user_id"].(string)

	var req CreateLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !models.ValidSubject(req.Subject) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown subject: " + req.Subject})
	}
	if _, err := timeslot.Parse(req.TimeSlot); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid time slot"})
	}

	lesson := models.Lesson{
		ID:          repository.Default.NewUID(),
		Title:       req.Title,
		Description: req.Description,
		Subject:     req.Subject,
		Languages:   req.Languages,
		StudentUid:  studentID,
		MinPrice:    req.MinPrice,
		MaxPrice:    req.MaxPrice,
		TimeSlot:    req.TimeSlot,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Status:      models.StatusMatching,
	}

	if err := repository.Default.AddLesson(c.Context(), &lesson); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create lesson"})
	}

	return c.Status(fiber.StatusCreated).JSON(lesson)
}

type CreateProposalRequest struct {
	StudentUid string  `json:"student_uid" validate:"required,uuid"`
	Title      string  `json:"title" validate:"required,max=255"`
	Subject    string  `json:"subject" validate:"required"`
	Price      float64 `json:"price" validate:"gt=0"`
	TimeSlot   string  `json:"time_slot" validate:"required"`
}

// CreateTutorProposal lets a tutor open a lesson directly towards a student;
// the lesson starts in TUTOR_REQUESTED and waits for the student's answer.
func CreateTutorProposal(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	tutorID := claims["user_id"].(string)

	var req CreateProposalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !models.ValidSubject(req.Subject) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown subject: " + req.Subject})
	}
	if _, err := timeslot.Parse(req.TimeSlot); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid time slot"})
	}
	if _, err := repository.Default.GetProfileByID(c.Context(), req.StudentUid); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
	}

	lesson := models.Lesson{
		ID:         repository.Default.NewUID(),
		Title:      req.Title,
		Subject:    req.Subject,
		StudentUid: req.StudentUid,
		TutorUids:  []string{tutorID},
		Price:      req.Price,
		TimeSlot:   req.TimeSlot,
		Status:     models.StatusTutorRequested,
	}

	if err := repository.Default.AddLesson(c.Context(), &lesson); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create lesson"})
	}

	return c.Status(fiber.StatusCreated).JSON(lesson)
}

func GetMyLessons(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	studentID := claims["user_id"].(string)

	lessons, err := repository.Default.GetLessonsForStudent(c.Context(), studentID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve lessons"})
	}
	return c.JSON(lessons)
}

func GetMyTutorLessons(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	tutorID := claims["user_id"].(string)

	lessons, err := repository.Default.GetLessonsForTutor(c.Context(), tutorID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve lessons"})
	}
	return c.JSON(lessons)
}

// GetLessonActions tells the presentation layer which buttons are legal for
// the acting role, straight from the transition table.
func GetLessonActions(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	role := claims["role"].(string)

	lesson, err := repository.Default.GetLessonByID(c.Context(), c.Params("lessonId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lesson not found"})
	}

	return c.JSON(fiber.Map{
		"status":  lesson.Status,
		"actions": lifecycle.Allowed(lesson, role),
	})
}

// runTransition re-fetches the lesson, applies one lifecycle action and
// persists or deletes the result. Snapshots are optimistic: last write wins.
func runTransition(c *fiber.Ctx, req lifecycle.Request) error {
	lesson, err := repository.Default.GetLessonByID(c.Context(), c.Params("lessonId"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lesson not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	outcome, err := lifecycle.Apply(lesson, req)
	if err != nil {
		var guard *lifecycle.GuardError
		if errors.As(err, &guard) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": guard.Error()})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if outcome.Deleted {
		if err := repository.Default.DeleteLesson(c.Context(), lesson.ID); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete lesson"})
		}
		return c.JSON(fiber.Map{"message": "Lesson cancelled and removed"})
	}

	if err := repository.Default.UpdateLesson(c.Context(), &outcome.Lesson); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update lesson"})
	}
	return c.JSON(outcome.Lesson)
}

func BroadcastLesson(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)

	return runTransition(c, lifecycle.Request{
		Action:    lifecycle.ActionBroadcast,
		ActorRole: claims["role"].(string),
		ActorUID:  claims["user_id"].(string),
	})
}

type PickTutorRequest struct {
	TutorUid string  `json:"tutor_uid" validate:"required,uuid"`
	Price    float64 `json:"price" validate:"gte=0"`
}

func PickTutor(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)

	var req PickTutorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return runTransition(c, lifecycle.Request{
		Action:    lifecycle.ActionPickTutor,
		ActorRole: claims["role"].(string),
		ActorUID:  claims["user_id"].(string),
		TutorUID:  req.TutorUid,
		Price:     req.Price,
	})
}

type OfferRequest struct {
	Price float64 `json:"price" validate:"required,gt=0"`
}

func OfferOnLesson(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)

	var req OfferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return runTransition(c, lifecycle.Request{
		Action:    lifecycle.ActionOffer,
		ActorRole: claims["role"].(string),
		ActorUID:  claims["user_id"].(string),
		Price:     req.Price,
	})
}

type ConfirmRequest struct {
	TutorUid string `json:"tutor_uid,omitempty" validate:"omitempty,uuid"`
}

func ConfirmLesson(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)

	var req ConfirmRequest
	if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return runTransition(c, lifecycle.Request{
		Action:    lifecycle.ActionConfirm,
		ActorRole: claims["role"].(string),
		ActorUID:  claims["user_id"].(string),
		TutorUID:  req.TutorUid,
	})
}

type DeclineRequest struct {
	TutorUid string `json:"tutor_uid,omitempty" validate:"omitempty,uuid"`
}

func DeclineLesson(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)

	var req DeclineRequest
	if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return runTransition(c, lifecycle.Request{
		Action:    lifecycle.ActionDecline,
		ActorRole: claims["role"].(string),
		ActorUID:  claims["user_id"].(string),
		TutorUID:  req.TutorUid,
	})
}

func CancelLesson(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)

	return runTransition(c, lifecycle.Request{
		Action:    lifecycle.ActionCancel,
		ActorRole: claims["role"].(string),
		ActorUID:  claims["user_id"].(string),
		Now:       time.Now(),
	})
}

func CompleteLesson(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)

	return runTransition(c, lifecycle.Request{
		Action:    lifecycle.ActionComplete,
		ActorRole: claims["role"].(string),
		ActorUID:  claims["user_id"].(string),
		Now:       time.Now(),
	})
}

type RateLessonRequest struct {
	Grade   int    `json:"grade" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=500"`
	Visible *bool  `json:"visible"`
}

func RateLesson(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)

	var req RateLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	visible := true
	if req.Visible != nil {
		visible = *req.Visible
	}

	return runTransition(c, lifecycle.Request{
		Action:    lifecycle.ActionRate,
		ActorRole: claims["role"].(string),
		ActorUID:  claims["user_id"].(string),
		Rating: &models.Rating{
			Grade:   req.Grade,
			Comment: req.Comment,
			Date:    time.Now(),
			Visible: visible,
		},
	})
}
