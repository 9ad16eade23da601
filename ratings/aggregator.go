package ratings

import (
	"sort"
	"time"

	"github.com/anjiri1684/tutor_match/models"
)

// Review pairs one rating with the reviewing student's display info, ready
// for a profile review feed.
type Review struct {
	Grade       int       `json:"grade"`
	Comment     string    `json:"comment"`
	Date        time.Time `json:"date"`
	StudentUID  string    `json:"student_uid"`
	StudentName string    `json:"student_name"`
}

func rated(l models.Lesson) bool {
	return l.Status == models.StatusCompleted && l.Rating != nil && l.Rating.Grade >= 1
}

// Average computes the arithmetic mean grade over a tutor's completed and
// rated lessons. The second return value is false when no rating exists;
// "no rating" is not the same as zero. Unrated or incomplete lessons never
// contribute.
func Average(lessons []models.Lesson) (float64, bool) {
	var sum, count int
	for _, l := range lessons {
		if !rated(l) {
			continue
		}
		sum += l.Rating.Grade
		count++
	}
	if count == 0 {
		return 0, false
	}
	return float64(sum) / float64(count), true
}

// RecentReviews returns at most n visible ratings, most recent first, each
// joined with the reviewing student's display name from the profile
// snapshot. A reviewer missing from the snapshot keeps an empty name rather
// than dropping the review.
func RecentReviews(lessons []models.Lesson, profiles []models.Profile, n int) []Review {
	names := make(map[string]string, len(profiles))
	for _, p := range profiles {
		names[p.ID] = p.DisplayName
	}

	var out []Review
	for _, l := range lessons {
		if !rated(l) || !l.Rating.Visible {
			continue
		}
		out = append(out, Review{
			Grade:       l.Rating.Grade,
			Comment:     l.Rating.Comment,
			Date:        l.Rating.Date,
			StudentUID:  l.StudentUid,
			StudentName: names[l.StudentUid],
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
