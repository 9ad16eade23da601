package repository

import (
	"context"
	"errors"

	"github.com/anjiri1684/tutor_match/models"
)

// ErrNotFound is returned when a looked-up record does not exist. Callers
// decide how to present it; the repository never invents empty records.
var ErrNotFound = errors.New("repository: record not found")

// Repository is the persistence collaborator consumed by the handlers. The
// engine packages never see it: they work on snapshots the handlers fetch
// here. Every method honors ctx cancellation by abandoning the in-flight
// operation.
type Repository interface {
	GetProfiles(ctx context.Context) ([]models.Profile, error)
	GetProfileByID(ctx context.Context, id string) (models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (models.Profile, error)
	AddProfile(ctx context.Context, profile *models.Profile) error
	UpdateProfile(ctx context.Context, profile *models.Profile) error

	GetLessonByID(ctx context.Context, id string) (models.Lesson, error)
	GetLessonsForStudent(ctx context.Context, studentUID string) ([]models.Lesson, error)
	GetLessonsForTutor(ctx context.Context, tutorUID string) ([]models.Lesson, error)
	GetAllRequestedLessons(ctx context.Context) ([]models.Lesson, error)
	GetLessonsByStatus(ctx context.Context, statuses ...string) ([]models.Lesson, error)
	AddLesson(ctx context.Context, lesson *models.Lesson) error
	UpdateLesson(ctx context.Context, lesson *models.Lesson) error
	DeleteLesson(ctx context.Context, id string) error

	// NewUID generates an identity for a record about to be persisted; id
	// generation is delegated here rather than done by the engine.
	NewUID() string
}

// Default is the repository the handlers and jobs use; main wires it up
// after the database connection is established.
var Default Repository
