package jobs

import (
	"context"
	"log"
	"time"

	"github.com/anjiri1684/tutor_match/lifecycle"
	"github.com/anjiri1684/tutor_match/models"
	"github.com/anjiri1684/tutor_match/repository"
	"github.com/anjiri1684/tutor_match/timeslot"
)

// instantLifetime bounds how long an instant lesson stays live: a confirmed
// instant session is retired this long after its last update, and an
// unanswered instant broadcast dies after the same interval.
const instantLifetime = time.Hour

// CompleteElapsedLessons is the external trigger that moves confirmed
// lessons whose session time has passed into COMPLETED.
func CompleteElapsedLessons() {
	log.Println("Running job: CompleteElapsedLessons...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	lessons, err := repository.Default.GetLessonsByStatus(ctx, models.StatusConfirmed, models.StatusInstantConfirmed)
	if err != nil {
		log.Printf("Error listing confirmed lessons: %v", err)
		return
	}

	now := time.Now()
	completed := 0
	for _, lesson := range lessons {
		if lesson.Status == models.StatusConfirmed {
			spec, err := timeslot.Parse(lesson.TimeSlot)
			if err != nil {
				log.Printf("Lesson %s has an unreadable time slot: %v", lesson.ID, err)
				continue
			}
			if spec.Time.After(now) {
				continue
			}
		} else if now.Sub(lesson.UpdatedAt) < instantLifetime {
			continue
		}

		outcome, err := lifecycle.Apply(lesson, lifecycle.Request{
			Action:    lifecycle.ActionComplete,
			ActorRole: lifecycle.RoleSystem,
			Now:       now,
		})
		if err != nil {
			log.Printf("Could not complete lesson %s: %v", lesson.ID, err)
			continue
		}
		if err := repository.Default.UpdateLesson(ctx, &outcome.Lesson); err != nil {
			log.Printf("Could not save lesson %s: %v", lesson.ID, err)
			continue
		}
		completed++
	}

	if completed > 0 {
		log.Printf("Marked %d lesson(s) as completed.", completed)
	}
}

// ExpireStaleInstantRequests deletes instant broadcasts that never found a
// tutor; an on-demand request from an hour ago is not worth answering.
func ExpireStaleInstantRequests() {
	log.Println("Running job: ExpireStaleInstantRequests...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	lessons, err := repository.Default.GetAllRequestedLessons(ctx)
	if err != nil {
		log.Printf("Error listing requested lessons: %v", err)
		return
	}

	cutoff := time.Now().Add(-instantLifetime)
	expired := 0
	for _, lesson := range lessons {
		if lesson.Status != models.StatusInstantRequested {
			continue
		}
		if lesson.CreatedAt.After(cutoff) {
			continue
		}
		if err := repository.Default.DeleteLesson(ctx, lesson.ID); err != nil {
			log.Printf("Could not delete stale instant lesson %s: %v", lesson.ID, err)
			continue
		}
		expired++
	}

	if expired > 0 {
		log.Printf("Expired %d stale instant request(s).", expired)
	}
}
