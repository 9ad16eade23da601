package lifecycle

import (
	"fmt"
	"time"

	"github.com/anjiri1684/tutor_match/geo"
	"github.com/anjiri1684/tutor_match/models"
	"github.com/anjiri1684/tutor_match/timeslot"
)

// Action is something an actor asks the state machine to do.
type Action string

const (
	ActionBroadcast Action = "BROADCAST"
	ActionPickTutor Action = "PICK_TUTOR"
	ActionOffer     Action = "OFFER"
	ActionConfirm   Action = "CONFIRM"
	ActionDecline   Action = "DECLINE"
	ActionCancel    Action = "CANCEL"
	ActionComplete  Action = "COMPLETE"
	ActionRate      Action = "RATE"
)

// RoleSystem is the actor behind clock-driven transitions (completion after
// the session time). It is never persisted on a profile.
const RoleSystem = "SYSTEM"

// GuardError reports a transition that is not permitted from the current
// status for the acting role.
type GuardError struct {
	Status string
	Role   string
	Action Action
	Reason string
}

func (e *GuardError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("lifecycle: %s by %s not allowed in %s: %s", e.Action, e.Role, e.Status, e.Reason)
	}
	return fmt.Sprintf("lifecycle: %s by %s not allowed in %s", e.Action, e.Role, e.Status)
}

func guard(l models.Lesson, req Request, reason string) error {
	return &GuardError{Status: l.Status, Role: req.ActorRole, Action: req.Action, Reason: reason}
}

// Request carries one requested transition. ActorUID identifies the acting
// participant; the remaining fields feed individual actions.
type Request struct {
	Action    Action
	ActorRole string
	ActorUID  string

	// TutorUID names the tutor being picked (student PICK_TUTOR), confirmed
	// (student CONFIRM on a multi-offer lesson) or declined (student DECLINE).
	TutorUID string

	// Price is the proposed price for OFFER and PICK_TUTOR.
	Price float64

	// Rating is the review payload for RATE.
	Rating *models.Rating

	// Now is the clock the COMPLETE and CANCEL guards check the scheduled
	// time against. A zero Now skips the elapsed-time guards.
	Now time.Time
}

// Outcome is the result of a successful transition.
type Outcome struct {
	Lesson models.Lesson

	// Deleted reports that the lesson should be removed from the repository
	// rather than kept: cancellation before any tutor committed.
	Deleted bool
}

// transitions is the single source of truth for which roles may attempt
// which action from which status. Finer-grained guards (identity, price
// range, elapsed time) live in the per-action appliers.
var transitions = map[string]map[Action][]string{
	models.StatusMatching: {
		ActionBroadcast: {models.RoleStudent},
		ActionPickTutor: {models.RoleStudent},
		ActionCancel:    {models.RoleStudent},
	},
	models.StatusStudentRequested: {
		ActionOffer:  {models.RoleTutor},
		ActionCancel: {models.RoleStudent},
	},
	models.StatusTutorRequested: {
		ActionConfirm: {models.RoleStudent},
		ActionDecline: {models.RoleStudent},
		ActionCancel:  {models.RoleStudent, models.RoleTutor},
	},
	models.StatusPendingTutorConfirm: {
		ActionConfirm: {models.RoleStudent, models.RoleTutor},
		ActionDecline: {models.RoleStudent, models.RoleTutor},
		ActionCancel:  {models.RoleStudent},
	},
	models.StatusConfirmed: {
		ActionCancel:   {models.RoleStudent, models.RoleTutor},
		ActionComplete: {models.RoleTutor, RoleSystem},
	},
	models.StatusInstantRequested: {
		ActionOffer:  {models.RoleTutor},
		ActionCancel: {models.RoleStudent},
	},
	models.StatusInstantConfirmed: {
		ActionCancel:   {models.RoleStudent, models.RoleTutor},
		ActionComplete: {models.RoleTutor, RoleSystem},
	},
	models.StatusCompleted: {
		ActionRate: {models.RoleStudent},
	},
	// STUDENT_CANCELLED and TUTOR_CANCELLED are terminal.
}

// Allowed returns the actions a role may attempt from the lesson's current
// status. Presentation layers use it to decide which buttons to show instead
// of re-deriving the rules.
func Allowed(lesson models.Lesson, role string) []Action {
	var out []Action
	for action, roles := range transitions[lesson.Status] {
		for _, r := range roles {
			if r == role {
				out = append(out, action)
				break
			}
		}
	}
	return out
}

// Apply runs one transition as a pure function: it never touches the
// repository and never mutates its input. Callers persist (or delete) the
// returned lesson themselves, re-fetching before commit since snapshots may
// be stale.
func Apply(lesson models.Lesson, req Request) (Outcome, error) {
	byAction, ok := transitions[lesson.Status]
	if !ok {
		return Outcome{}, guard(lesson, req, "status is terminal")
	}
	roles, ok := byAction[req.Action]
	if !ok {
		return Outcome{}, guard(lesson, req, "action not defined for status")
	}
	allowed := false
	for _, r := range roles {
		if r == req.ActorRole {
			allowed = true
			break
		}
	}
	if !allowed {
		return Outcome{}, guard(lesson, req, "role may not perform this action")
	}

	// Copy the candidate list so the caller's snapshot stays intact.
	lesson.TutorUids = append([]string(nil), lesson.TutorUids...)
	if lesson.Rating != nil {
		r := *lesson.Rating
		lesson.Rating = &r
	}

	switch req.Action {
	case ActionBroadcast:
		return applyBroadcast(lesson, req)
	case ActionPickTutor:
		return applyPickTutor(lesson, req)
	case ActionOffer:
		return applyOffer(lesson, req)
	case ActionConfirm:
		return applyConfirm(lesson, req)
	case ActionDecline:
		return applyDecline(lesson, req)
	case ActionCancel:
		return applyCancel(lesson, req)
	case ActionComplete:
		return applyComplete(lesson, req)
	case ActionRate:
		return applyRate(lesson, req)
	}
	return Outcome{}, guard(lesson, req, "unknown action")
}

func priceInRange(l models.Lesson, price float64) bool {
	if l.MinPrice == 0 && l.MaxPrice == 0 {
		return true
	}
	return price >= l.MinPrice && price <= l.MaxPrice
}

func applyBroadcast(l models.Lesson, req Request) (Outcome, error) {
	if req.ActorUID != l.StudentUid {
		return Outcome{}, guard(l, req, "only the owning student may broadcast")
	}
	if timeslot.IsInstant(l.TimeSlot) {
		// An instant request without a meeting point would never surface in
		// the nearby-lesson feed; refuse it instead of broadcasting into the
		// void.
		if (geo.Point{Lat: l.Latitude, Lon: l.Longitude}).IsZero() {
			return Outcome{}, guard(l, req, "instant lesson has no meeting point")
		}
		l.Status = models.StatusInstantRequested
	} else {
		l.Status = models.StatusStudentRequested
	}
	return Outcome{Lesson: l}, nil
}

func applyPickTutor(l models.Lesson, req Request) (Outcome, error) {
	if req.ActorUID != l.StudentUid {
		return Outcome{}, guard(l, req, "only the owning student may pick a tutor")
	}
	if req.TutorUID == "" {
		return Outcome{}, guard(l, req, "no tutor selected")
	}
	if req.Price != 0 && !priceInRange(l, req.Price) {
		return Outcome{}, guard(l, req, "price outside the accepted range")
	}
	l.TutorUids = append(l.TutorUids, req.TutorUID)
	l.Price = req.Price
	l.Status = models.StatusPendingTutorConfirm
	return Outcome{Lesson: l}, nil
}

func applyOffer(l models.Lesson, req Request) (Outcome, error) {
	if l.HasTutor(req.ActorUID) {
		return Outcome{}, guard(l, req, "tutor already offered on this lesson")
	}
	if !priceInRange(l, req.Price) {
		return Outcome{}, guard(l, req, "price outside the accepted range")
	}
	l.TutorUids = append(l.TutorUids, req.ActorUID)
	l.Price = req.Price

	// Instant requests have no confirmation round trip: the first accepting
	// tutor locks the lesson in.
	if l.Status == models.StatusInstantRequested {
		l.TutorUids = []string{req.ActorUID}
		l.Status = models.StatusInstantConfirmed
	} else {
		l.Status = models.StatusPendingTutorConfirm
	}
	return Outcome{Lesson: l}, nil
}

func applyConfirm(l models.Lesson, req Request) (Outcome, error) {
	if len(l.TutorUids) == 0 {
		return Outcome{}, guard(l, req, "no tutor to confirm")
	}
	if l.Price != 0 && !priceInRange(l, l.Price) {
		return Outcome{}, guard(l, req, "price outside the accepted range")
	}

	switch req.ActorRole {
	case models.RoleStudent:
		if req.ActorUID != l.StudentUid {
			return Outcome{}, guard(l, req, "only the owning student may confirm")
		}
		chosen := req.TutorUID
		if chosen == "" && len(l.TutorUids) == 1 {
			chosen = l.TutorUids[0]
		}
		if !l.HasTutor(chosen) {
			return Outcome{}, guard(l, req, "chosen tutor has not offered")
		}
		l.TutorUids = []string{chosen}
	case models.RoleTutor:
		if !l.HasTutor(req.ActorUID) {
			return Outcome{}, guard(l, req, "tutor was not asked to confirm")
		}
		l.TutorUids = []string{req.ActorUID}
	}
	l.Status = models.StatusConfirmed
	return Outcome{Lesson: l}, nil
}

func applyDecline(l models.Lesson, req Request) (Outcome, error) {
	if req.ActorRole == models.RoleStudent && req.ActorUID != l.StudentUid {
		return Outcome{}, guard(l, req, "only the owning student may decline")
	}

	declined := req.TutorUID
	if req.ActorRole == models.RoleTutor {
		declined = req.ActorUID
	} else if declined == "" && len(l.TutorUids) == 1 {
		declined = l.TutorUids[0]
	}
	if !l.HasTutor(declined) {
		return Outcome{}, guard(l, req, "tutor is not a candidate on this lesson")
	}

	remaining := make([]string, 0, len(l.TutorUids))
	for _, id := range l.TutorUids {
		if id != declined {
			remaining = append(remaining, id)
		}
	}
	l.TutorUids = remaining
	l.Price = 0
	if len(remaining) == 0 {
		if l.Status == models.StatusTutorRequested {
			l.Status = models.StatusStudentCancelled
			return Outcome{Lesson: l}, nil
		}
		l.Status = models.StatusStudentRequested
	}
	return Outcome{Lesson: l}, nil
}

func applyCancel(l models.Lesson, req Request) (Outcome, error) {
	if req.ActorRole == models.RoleStudent && req.ActorUID != l.StudentUid {
		return Outcome{}, guard(l, req, "only the owning student may cancel")
	}
	if req.ActorRole == models.RoleTutor && !l.HasTutor(req.ActorUID) {
		return Outcome{}, guard(l, req, "tutor is not part of this lesson")
	}

	// A confirmed lesson can only be cancelled up to the session time; once
	// the slot has passed it is the completion path's to settle.
	if l.Status == models.StatusConfirmed && !req.Now.IsZero() {
		spec, err := timeslot.Parse(l.TimeSlot)
		if err != nil {
			return Outcome{}, err
		}
		if spec.Kind == timeslot.KindScheduled && !spec.Time.After(req.Now) {
			return Outcome{}, guard(l, req, "session time has already passed")
		}
	}

	// Before any tutor commits there is nothing worth retaining: the record
	// is deleted rather than kept around as a tombstone.
	deleted := l.Status == models.StatusMatching ||
		l.Status == models.StatusStudentRequested ||
		l.Status == models.StatusInstantRequested

	if req.ActorRole == models.RoleTutor {
		l.Status = models.StatusTutorCancelled
	} else {
		l.Status = models.StatusStudentCancelled
	}
	return Outcome{Lesson: l, Deleted: deleted}, nil
}

func applyComplete(l models.Lesson, req Request) (Outcome, error) {
	if req.ActorRole == models.RoleTutor && !l.HasTutor(req.ActorUID) {
		return Outcome{}, guard(l, req, "tutor is not part of this lesson")
	}
	if !req.Now.IsZero() {
		spec, err := timeslot.Parse(l.TimeSlot)
		if err != nil {
			return Outcome{}, err
		}
		if spec.Kind == timeslot.KindScheduled && spec.Time.After(req.Now) {
			return Outcome{}, guard(l, req, "session has not taken place yet")
		}
	}
	l.Status = models.StatusCompleted
	return Outcome{Lesson: l}, nil
}

func applyRate(l models.Lesson, req Request) (Outcome, error) {
	if req.ActorUID != l.StudentUid {
		return Outcome{}, guard(l, req, "only the student may rate the lesson")
	}
	if req.Rating == nil {
		return Outcome{}, guard(l, req, "no rating supplied")
	}
	if req.Rating.Grade < 1 || req.Rating.Grade > 5 {
		return Outcome{}, guard(l, req, "grade must be between 1 and 5")
	}
	if len(req.Rating.Comment) > models.MaxRatingCommentLength {
		return Outcome{}, guard(l, req, "comment too long")
	}

	// Upsert: a second rating replaces the first, it never appends.
	r := *req.Rating
	l.Rating = &r
	return Outcome{Lesson: l}, nil
}
