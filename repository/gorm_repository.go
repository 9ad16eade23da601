package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anjiri1684/tutor_match/models"
)

// Gorm implements Repository on top of the Postgres connection.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (r *Gorm) GetProfiles(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	if err := r.db.WithContext(ctx).Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *Gorm) GetProfileByID(ctx context.Context, id string) (models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Profile{}, fmt.Errorf("%w: profile %s", ErrNotFound, id)
	}
	return profile, err
}

func (r *Gorm) GetProfileByEmail(ctx context.Context, email string) (models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).First(&profile, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Profile{}, fmt.Errorf("%w: profile for %s", ErrNotFound, email)
	}
	return profile, err
}

func (r *Gorm) AddProfile(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *Gorm) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *Gorm) GetLessonByID(ctx context.Context, id string) (models.Lesson, error) {
	var lesson models.Lesson
	err := r.db.WithContext(ctx).First(&lesson, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Lesson{}, fmt.Errorf("%w: lesson %s", ErrNotFound, id)
	}
	return lesson, err
}

func (r *Gorm) GetLessonsForStudent(ctx context.Context, studentUID string) ([]models.Lesson, error) {
	var lessons []models.Lesson
	err := r.db.WithContext(ctx).
		Where("student_uid = ?", studentUID).
		Order("created_at desc").
		Find(&lessons).Error
	if err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *Gorm) GetLessonsForTutor(ctx context.Context, tutorUID string) ([]models.Lesson, error) {
	var lessons []models.Lesson
	// tutor_uids is a JSON array column; containment does the membership test.
	err := r.db.WithContext(ctx).
		Where("tutor_uids::jsonb @> ?", fmt.Sprintf("[%q]", tutorUID)).
		Order("created_at desc").
		Find(&lessons).Error
	if err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *Gorm) GetAllRequestedLessons(ctx context.Context) ([]models.Lesson, error) {
	var lessons []models.Lesson
	err := r.db.WithContext(ctx).
		Where("status IN ?", []string{models.StatusStudentRequested, models.StatusInstantRequested}).
		Find(&lessons).Error
	if err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *Gorm) GetLessonsByStatus(ctx context.Context, statuses ...string) ([]models.Lesson, error) {
	var lessons []models.Lesson
	err := r.db.WithContext(ctx).
		Where("status IN ?", statuses).
		Find(&lessons).Error
	if err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *Gorm) AddLesson(ctx context.Context, lesson *models.Lesson) error {
	return r.db.WithContext(ctx).Create(lesson).Error
}

func (r *Gorm) UpdateLesson(ctx context.Context, lesson *models.Lesson) error {
	return r.db.WithContext(ctx).Save(lesson).Error
}

func (r *Gorm) DeleteLesson(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Lesson{}, "id = ?", id).Error
}

func (r *Gorm) NewUID() string {
	return uuid.NewString()
}
