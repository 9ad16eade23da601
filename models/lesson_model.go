package models

import (
	"time"
)

// Lesson statuses, persisted as strings.
const (
	StatusMatching            = "MATCHING"
	StatusStudentRequested    = "STUDENT_REQUESTED"
	StatusTutorRequested      = "TUTOR_REQUESTED"
	StatusPendingTutorConfirm = "PENDING_TUTOR_CONFIRMATION"
	StatusConfirmed           = "CONFIRMED"
	StatusInstantRequested    = "INSTANT_REQUESTED"
	StatusInstantConfirmed    = "INSTANT_CONFIRMED"
	StatusCompleted           = "COMPLETED"
	StatusStudentCancelled    = "STUDENT_CANCELLED"
	StatusTutorCancelled      = "TUTOR_CANCELLED"
)

type Lesson struct {
	ID          string   `gorm:"type:uuid;primary_key" json:"id"`
	Title       string   `gorm:"size:255" json:"title"`
	Description string   `gorm:"type:text" json:"description"`
	Subject     string   `gorm:"size:50;not null;default:'NONE'" json:"subject"`
	Languages   []string `gorm:"serializer:json" json:"languages"`

	// TutorUids is empty while the lesson is open to matching. While offers
	// are pending it may hold several candidates; a confirmed lesson holds
	// exactly the assigned tutor.
	TutorUids  []string `gorm:"serializer:json" json:"tutor_uids"`
	StudentUid string   `gorm:"type:uuid;not null" json:"student_uid"`

	MinPrice float64 `gorm:"type:numeric(10,2);not null;default:0" json:"min_price"`
	MaxPrice float64 `gorm:"type:numeric(10,2);not null;default:0" json:"max_price"`
	Price    float64 `gorm:"type:numeric(10,2);not null;default:0" json:"price"`

	// TimeSlot uses the dd/MM/yyyy'T'HH:mm:ss wire format, or the
	// dd/MM/yyyy + "Tinstant" encoding for instant lessons.
	TimeSlot  string  `gorm:"size:30;not null" json:"time_slot"`
	Latitude  float64 `gorm:"default:0" json:"latitude"`
	Longitude float64 `gorm:"default:0" json:"longitude"`

	Status string  `gorm:"size:30;not null;default:'MATCHING'" json:"status"`
	Rating *Rating `gorm:"embedded;embeddedPrefix:rating_" json:"rating,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasTutor reports whether the given tutor id already appears in the
// candidate list.
func (l *Lesson) HasTutor(uid string) bool {
	for _, id := range l.TutorUids {
		if id == uid {
			return true
		}
	}
	return false
}
