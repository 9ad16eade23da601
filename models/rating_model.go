package models

import "time"

// MaxRatingCommentLength caps the free-text review comment.
const MaxRatingCommentLength = 500

// Rating is the review a student leaves on a completed lesson. Re-rating
// overwrites the record; a lesson never holds more than one.
type Rating struct {
	Grade   int       `gorm:"default:0" json:"grade"`
	Comment string    `gorm:"size:500" json:"comment"`
	Date    time.Time `json:"date"`
	Visible bool      `gorm:"default:true" json:"visible"`
}
