package lifecycle

import (
	"testing"
	"time"

	"github.com/anjiri1684/tutor_match/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	studentID = "11111111-1111-1111-1111-111111111111"
	tutorID   = "22222222-2222-2222-2222-222222222222"
	otherID   = "33333333-3333-3333-3333-333333333333"
)

func newLesson() models.Lesson {
	return models.Lesson{
		ID:         "lesson-1",
		Subject:    models.SubjectAlgebra,
		StudentUid: studentID,
		MinPrice:   20,
		MaxPrice:   50,
		TimeSlot:   "19/10/2024T10:00:00",
		Status:     models.StatusMatching,
	}
}

func asStudent(action Action) Request {
	return Request{Action: action, ActorRole: models.RoleStudent, ActorUID: studentID}
}

func asTutor(action Action) Request {
	return Request{Action: action, ActorRole: models.RoleTutor, ActorUID: tutorID}
}

func TestBroadcastMovesToStudentRequested(t *testing.T) {
	out, err := Apply(newLesson(), asStudent(ActionBroadcast))
	require.NoError(t, err)
	assert.Equal(t, models.StatusStudentRequested, out.Lesson.Status)
	assert.False(t, out.Deleted)
}

func TestBroadcastInstantLesson(t *testing.T) {
	lesson := newLesson()
	lesson.TimeSlot = "19/10/2024Tinstant"
	lesson.Latitude = 46.52
	lesson.Longitude = 6.63

	out, err := Apply(lesson, asStudent(ActionBroadcast))
	require.NoError(t, err)
	assert.Equal(t, models.StatusInstantRequested, out.Lesson.Status)
}

func TestBroadcastInstantWithoutMeetingPointIsGuarded(t *testing.T) {
	lesson := newLesson()
	lesson.TimeSlot = "19/10/2024Tinstant"

	_, err := Apply(lesson, asStudent(ActionBroadcast))
	var guard *GuardError
	require.ErrorAs(t, err, &guard)
	assert.Equal(t, models.StatusMatching, guard.Status)
}

func TestBroadcastByWrongStudentIsGuarded(t *testing.T) {
	req := asStudent(ActionBroadcast)
	req.ActorUID = otherID

	_, err := Apply(newLesson(), req)
	var guard *GuardError
	require.ErrorAs(t, err, &guard)
	assert.Equal(t, models.StatusMatching, guard.Status)
}

func TestPickTutorFromMatching(t *testing.T) {
	req := asStudent(ActionPickTutor)
	req.TutorUID = tutorID
	req.Price = 30

	out, err := Apply(newLesson(), req)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingTutorConfirm, out.Lesson.Status)
	assert.Equal(t, []string{tutorID}, out.Lesson.TutorUids)
	assert.Equal(t, 30.0, out.Lesson.Price)
}

func TestOfferOnBroadcastLesson(t *testing.T) {
	lesson := newLesson()
	lesson.Status = models.StatusStudentRequested

	req := asTutor(ActionOffer)
	req.Price = 35

	out, err := Apply(lesson, req)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingTutorConfirm, out.Lesson.Status)
	assert.Equal(t, []string{tutorID}, out.Lesson.TutorUids)
	assert.Equal(t, 35.0, out.Lesson.Price)
}

func TestOfferOutsidePriceRangeIsGuarded(t *testing.T) {
	lesson := newLesson()
	lesson.Status = models.StatusStudentRequested

	req := asTutor(ActionOffer)
	req.Price = 60

	_, err := Apply(lesson, req)
	var guard *GuardError
	assert.ErrorAs(t, err, &guard)
}

func TestDuplicateOfferIsGuarded(t *testing.T) {
	lesson := newLesson()
	lesson.Status = models.StatusStudentRequested
	lesson.TutorUids = []string{tutorID}

	req := asTutor(ActionOffer)
	req.Price = 35

	_, err := Apply(lesson, req)
	var guard *GuardError
	assert.ErrorAs(t, err, &guard)
}

func TestStudentConfirmsOffer(t *testing.T) {
	lesson := newLesson()
	lesson.Status = models.StatusPendingTutorConfirm
	lesson.TutorUids = []string{tutorID, otherID}
	lesson.Price = 35

	req := asStudent(ActionConfirm)
	req.TutorUID = tutorID

	out, err := Apply(lesson, req)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, out.Lesson.Status)
	// Confirmation collapses the candidate list to the chosen tutor.
	assert.Equal(t, []string{tutorID}, out.Lesson.TutorUids)
}

func TestTutorConfirmsStudentPick(t *testing.T) {
	lesson := newLesson()
	lesson.Status = models.StatusPendingTutorConfirm
	lesson.TutorUids = []string{tutorID}
	lesson.Price = 30

	out, err := Apply(lesson, asTutor(ActionConfirm))
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, out.Lesson.Status)
}

func TestTutorDeclineReturnsToBroadcast(t *testing.T) {
	lesson := newLesson()
	lesson.Status = models.StatusPendingTutorConfirm
	lesson.TutorUids = []string{tutorID}
	lesson.Price = 35

	out, err := Apply(lesson, asTutor(ActionDecline))
	require.NoError(t, err)
	assert.Equal(t, models.StatusStudentRequested, out.Lesson.Status)
	assert.Empty(t, out.Lesson.TutorUids)
	assert.Zero(t, out.Lesson.Price)
}

func TestDeclineKeepsRemainingCandidates(t *testing.T) {
	lesson := newLesson()
	lesson.Status = models.StatusPendingTutorConfirm
	lesson.TutorUids = []string{tutorID, otherID}

	out, err := Apply(lesson, asTutor(ActionDecline))
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingTutorConfirm, out.Lesson.Status)
	assert.Equal(t, []string{otherID}, out.Lesson.TutorUids)
}

func TestDeclineByForeignStudentIsGuarded(t *testing.T) {
	pending := newLesson()
	pending.Status = models.StatusPendingTutorConfirm
	pending.TutorUids = []string{tutorID}

	proposal := newLesson()
	proposal.Status = models.StatusTutorRequested
	proposal.TutorUids = []string{tutorID}

	for _, lesson := range []models.Lesson{pending, proposal} {
		req := asStudent(ActionDecline)
		req.ActorUID = otherID
		req.TutorUID = tutorID

		_, err := Apply(lesson, req)
		var guard *GuardError
		require.ErrorAs(t, err, &guard, lesson.Status)
		assert.Equal(t, lesson.Status, guard.Status)
	}
}

func TestCancelBeforeAnyCommitmentDeletes(t *testing.T) {
	for _, status := range []string{
		models.StatusMatching,
		models.StatusStudentRequested,
		models.StatusInstantRequested,
	} {
		lesson := newLesson()
		lesson.Status = status
		if status == models.StatusInstantRequested {
			lesson.TimeSlot = "19/10/2024Tinstant"
		}

		out, err := Apply(lesson, asStudent(ActionCancel))
		require.NoError(t, err, status)
		assert.True(t, out.Deleted, status)
		assert.Equal(t, models.StatusStudentCancelled, out.Lesson.Status, status)
	}
}

func TestCancelConfirmedLessonIsRetained(t *testing.T) {
	lesson := newLesson()
	lesson.Status = models.StatusConfirmed
	lesson.TutorUids = []string{tutorID}

	out, err := Apply(lesson, asStudent(ActionCancel))
	require.NoError(t, err)
	assert.False(t, out.Deleted)
	assert.Equal(t, models.StatusStudentCancelled, out.Lesson.Status)

	out, err = Apply(lesson, asTutor(ActionCancel))
	require.NoError(t, err)
	assert.False(t, out.Deleted)
	assert.Equal(t, models.StatusTutorCancelled, out.Lesson.Status)
}

func TestCancelConfirmedBeforeSessionTime(t *testing.T) {
	lesson := newLesson()
	lesson.Status = models.StatusConfirmed
	lesson.TutorUids = []string{tutorID}

	req := asStudent(ActionCancel)
	req.Now = time.Date(2024, 10, 19, 9, 0, 0, 0, time.UTC)

	out, err := Apply(lesson, req)
	require.NoError(t, err)
	assert.Equal(t, models.StatusStudentCancelled, out.Lesson.Status)
}

func TestCancelConfirmedAfterSessionTimeIsGuarded(t *testing.T) {
	lesson := newLesson()
	lesson.Status = models.StatusConfirmed
	lesson.TutorUids = []string{tutorID}

	for _, req := range []Request{asStudent(ActionCancel), asTutor(ActionCancel)} {
		req.Now = time.Date(2024, 10, 19, 12, 0, 0, 0, time.UTC)
		_, err := Apply(lesson, req)
		var guard *GuardError
		require.ErrorAs(t, err, &guard, req.ActorRole)
	}
}

func TestInstantOfferConfirmsImmediately(t *testing.T) {
	lesson := newLesson()
	lesson.TimeSlot = "19/10/2024Tinstant"
	lesson.Status = models.StatusInstantRequested

	req := asTutor(ActionOffer)
	req.Price = 25

	out, err := Apply(lesson, req)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInstantConfirmed, out.Lesson.Status)
	assert.Equal(t, []string{tutorID}, out.Lesson.TutorUids)
}

func TestCompleteAfterSessionTime(t *testing.T) {
	lesson := newLesson()
	lesson.Status = models.StatusConfirmed
	lesson.TutorUids = []string{tutorID}

	req := Request{Action: ActionComplete, ActorRole: RoleSystem, Now: time.Date(2024, 10, 19, 12, 0, 0, 0, time.UTC)}
	out, err := Apply(lesson, req)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, out.Lesson.Status)
}

func TestCompleteBeforeSessionTimeIsGuarded(t *testing.T) {
	lesson := newLesson()
	lesson.Status = models.StatusConfirmed
	lesson.TutorUids = []string{tutorID}

	req := asTutor(ActionComplete)
	req.Now = time.Date(2024, 10, 19, 9, 0, 0, 0, time.UTC)

	_, err := Apply(lesson, req)
	var guard *GuardError
	assert.ErrorAs(t, err, &guard)
}

func TestTutorProposalConfirmedByStudent(t *testing.T) {
	lesson := newLesson()
	lesson.Status = models.StatusTutorRequested
	lesson.TutorUids = []string{tutorID}
	lesson.Price = 30

	out, err := Apply(lesson, asStudent(ActionConfirm))
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, out.Lesson.Status)
}

func TestTutorProposalDeclinedByStudent(t *testing.T) {
	lesson := newLesson()
	lesson.Status = models.StatusTutorRequested
	lesson.TutorUids = []string{tutorID}

	out, err := Apply(lesson, asStudent(ActionDecline))
	require.NoError(t, err)
	assert.Equal(t, models.StatusStudentCancelled, out.Lesson.Status)
}

func TestRatingUpsertIsIdempotent(t *testing.T) {
	lesson := newLesson()
	lesson.Status = models.StatusCompleted
	lesson.TutorUids = []string{tutorID}

	rating := &models.Rating{Grade: 4, Comment: "solid session", Date: time.Now(), Visible: true}
	req := asStudent(ActionRate)
	req.Rating = rating

	out, err := Apply(lesson, req)
	require.NoError(t, err)
	require.NotNil(t, out.Lesson.Rating)
	assert.Equal(t, 4, out.Lesson.Rating.Grade)

	// Rating again overwrites, it never appends a second record.
	req.Rating = &models.Rating{Grade: 2, Comment: "changed my mind", Date: time.Now(), Visible: true}
	out2, err := Apply(out.Lesson, req)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, out2.Lesson.Status)
	assert.Equal(t, 2, out2.Lesson.Rating.Grade)
}

func TestRateRejectsBadGrade(t *testing.T) {
	lesson := newLesson()
	lesson.Status = models.StatusCompleted

	for _, grade := range []int{0, 6, -1} {
		req := asStudent(ActionRate)
		req.Rating = &models.Rating{Grade: grade}
		_, err := Apply(lesson, req)
		var guard *GuardError
		assert.ErrorAs(t, err, &guard, "grade %d", grade)
	}
}

func TestTerminalStatesHaveNoTransitions(t *testing.T) {
	actions := []Action{
		ActionBroadcast, ActionPickTutor, ActionOffer, ActionConfirm,
		ActionDecline, ActionCancel, ActionComplete, ActionRate,
	}
	roles := []string{models.RoleStudent, models.RoleTutor, RoleSystem}

	for _, status := range []string{models.StatusStudentCancelled, models.StatusTutorCancelled} {
		lesson := newLesson()
		lesson.Status = status
		for _, action := range actions {
			for _, role := range roles {
				_, err := Apply(lesson, Request{Action: action, ActorRole: role, ActorUID: studentID})
				assert.Error(t, err, "%s should allow nothing (%s by %s)", status, action, role)
			}
		}
	}
}

func TestEveryReachableTransitionStaysInEnumeratedStates(t *testing.T) {
	known := map[string]bool{
		models.StatusMatching:            true,
		models.StatusStudentRequested:    true,
		models.StatusTutorRequested:      true,
		models.StatusPendingTutorConfirm: true,
		models.StatusConfirmed:           true,
		models.StatusInstantRequested:    true,
		models.StatusInstantConfirmed:    true,
		models.StatusCompleted:           true,
		models.StatusStudentCancelled:    true,
		models.StatusTutorCancelled:      true,
	}

	for status := range transitions {
		assert.True(t, known[status], "table references unknown status %s", status)
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	lesson := newLesson()
	lesson.Status = models.StatusStudentRequested

	req := asTutor(ActionOffer)
	req.Price = 35

	_, err := Apply(lesson, req)
	require.NoError(t, err)
	assert.Empty(t, lesson.TutorUids)
	assert.Equal(t, models.StatusStudentRequested, lesson.Status)
}

func TestAllowedExposesLegalActions(t *testing.T) {
	lesson := newLesson()
	assert.ElementsMatch(t,
		[]Action{ActionBroadcast, ActionPickTutor, ActionCancel},
		Allowed(lesson, models.RoleStudent))
	assert.Empty(t, Allowed(lesson, models.RoleTutor))

	lesson.Status = models.StatusStudentCancelled
	assert.Empty(t, Allowed(lesson, models.RoleStudent))
}
