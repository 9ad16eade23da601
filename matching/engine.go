package matching

import (
	"errors"
	"sort"
	"time"

	"github.com/anjiri1684/tutor_match/geo"
	"github.com/anjiri1684/tutor_match/models"
	"github.com/anjiri1684/tutor_match/schedule"
	"github.com/anjiri1684/tutor_match/timeslot"
)

var (
	// ErrNoCandidateFound means the lesson's assigned tutor ids are missing
	// from the supplied pool: the caller passed an inconsistent snapshot.
	ErrNoCandidateFound = errors.New("matching: assigned tutor not found in pool")

	// ErrLocationUnavailable means instant matching was requested without a
	// location fix. Instant matching must not be offered in that case.
	ErrLocationUnavailable = errors.New("matching: no location available for instant matching")
)

// SortMode selects the secondary ordering of tutor candidates. Instant
// queries always sort by ascending distance regardless of mode.
type SortMode int

const (
	SortDefault SortMode = iota
	SortVerifiedFirst
	SortHighestLevel
)

// TutorQuery bundles the snapshot and refinements for FindTutors. The engine
// never fetches anything itself; everything it needs arrives here.
type TutorQuery struct {
	Pool      []models.Profile
	Favorites []string
	Sort      SortMode

	// Origin and MaxDistance drive the instant geofilter. Origin is the
	// querying device's live location; nil means no fix.
	Origin      *geo.Point
	MaxDistance float64
}

// TutorMatches separates the student's favorite tutors from the general
// pool; favorites surface ahead of everyone else.
type TutorMatches struct {
	Favorites []models.Profile `json:"favorites"`
	Others    []models.Profile `json:"others"`
}

// FindTutors returns the candidate tutors for a lesson.
//
// For a MATCHING lesson every returned tutor teaches the subject, charges
// within [MinPrice, MaxPrice] and is available at the lesson's time slot (or,
// for instant lessons, within the distance threshold). For any other status
// the lesson already names its tutors and the query returns exactly those
// profiles; an assigned tutor missing from the pool is ErrNoCandidateFound.
func FindTutors(lesson models.Lesson, q TutorQuery) (TutorMatches, error) {
	if lesson.Status != models.StatusMatching {
		return assignedTutors(lesson, q.Pool)
	}

	instant := timeslot.IsInstant(lesson.TimeSlot)
	if instant && q.Origin == nil {
		return TutorMatches{}, ErrLocationUnavailable
	}

	// A malformed lesson slot is the caller's bug; fail before the pool loop
	// so it surfaces even when no tutor matches.
	var slot timeslot.Spec
	if !instant {
		var err error
		slot, err = timeslot.Parse(lesson.TimeSlot)
		if err != nil {
			return TutorMatches{}, err
		}
	}

	var out TutorMatches
	for _, p := range q.Pool {
		if !p.IsTutor() {
			continue
		}
		if !p.TeachesSubject(lesson.Subject) {
			continue
		}
		if p.Price < lesson.MinPrice || p.Price > lesson.MaxPrice {
			continue
		}

		if instant {
			loc := geo.Point{Lat: p.LastLatitude, Lon: p.LastLongitude}
			if loc.IsZero() {
				continue
			}
			if !geo.WithinThreshold(*q.Origin, loc, q.MaxDistance) {
				continue
			}
		} else {
			ok, err := schedule.IsAvailableAt(p.Schedule, slot)
			if err != nil {
				// A tutor who never filled in a grid is simply not available.
				continue
			}
			if !ok {
				continue
			}
		}

		if containsString(q.Favorites, p.ID) {
			out.Favorites = append(out.Favorites, p)
		} else {
			out.Others = append(out.Others, p)
		}
	}

	if instant {
		sortByDistance(out.Favorites, *q.Origin)
		sortByDistance(out.Others, *q.Origin)
	} else {
		sortTutors(out.Favorites, q.Sort)
		sortTutors(out.Others, q.Sort)
	}
	return out, nil
}

func assignedTutors(lesson models.Lesson, pool []models.Profile) (TutorMatches, error) {
	var out TutorMatches
	for _, id := range lesson.TutorUids {
		for _, p := range pool {
			if p.ID == id {
				out.Others = append(out.Others, p)
				break
			}
		}
	}
	if len(lesson.TutorUids) > 0 && len(out.Others) == 0 {
		return TutorMatches{}, ErrNoCandidateFound
	}
	return out, nil
}

// LessonQuery bundles the open-lesson snapshot and the caller's optional
// refinements for FindLessons.
type LessonQuery struct {
	Pool []models.Lesson

	// Subject narrows to one subject when non-empty; Date narrows to one
	// calendar day when non-nil.
	Subject string
	Date    *time.Time

	// Instant switches between the two feeds: instant broadcasts sorted
	// nearest-first, or scheduled broadcasts sorted soonest-first.
	Instant     bool
	Origin      *geo.Point
	MaxDistance float64
}

// FindLessons returns the open requests a tutor can still offer on, oldest
// commitments excluded: lessons the tutor already offered on never reappear.
func FindLessons(tutor models.Profile, q LessonQuery) ([]models.Lesson, error) {
	if q.Instant && q.Origin == nil {
		return nil, ErrLocationUnavailable
	}

	specs := make(map[string]timeslot.Spec)
	var out []models.Lesson
	for _, l := range q.Pool {
		if l.Status != models.StatusStudentRequested && l.Status != models.StatusInstantRequested {
			continue
		}
		if l.HasTutor(tutor.ID) {
			continue
		}
		if q.Subject != "" && l.Subject != q.Subject {
			continue
		}

		spec, err := timeslot.Parse(l.TimeSlot)
		if err != nil {
			return nil, err
		}
		if spec.IsInstant() != q.Instant {
			continue
		}
		if q.Date != nil {
			y1, m1, d1 := spec.Time.Date()
			y2, m2, d2 := q.Date.Date()
			if y1 != y2 || m1 != m2 || d1 != d2 {
				continue
			}
		}

		if q.Instant {
			point := geo.Point{Lat: l.Latitude, Lon: l.Longitude}
			if point.IsZero() {
				continue
			}
			if !geo.WithinThreshold(*q.Origin, point, q.MaxDistance) {
				continue
			}
		}

		specs[l.ID] = spec
		out = append(out, l)
	}

	if q.Instant {
		sort.SliceStable(out, func(i, j int) bool {
			di := geo.Distance(*q.Origin, geo.Point{Lat: out[i].Latitude, Lon: out[i].Longitude})
			dj := geo.Distance(*q.Origin, geo.Point{Lat: out[j].Latitude, Lon: out[j].Longitude})
			return di < dj
		})
	} else {
		sort.SliceStable(out, func(i, j int) bool {
			return specs[out[i].ID].Time.Before(specs[out[j].ID].Time)
		})
	}
	return out, nil
}

func sortTutors(tutors []models.Profile, mode SortMode) {
	switch mode {
	case SortVerifiedFirst:
		sort.SliceStable(tutors, func(i, j int) bool {
			return tutors[i].Verified && !tutors[j].Verified
		})
	case SortHighestLevel:
		sort.SliceStable(tutors, func(i, j int) bool {
			return models.AcademicLevelRank(tutors[i].AcademicLevel) > models.AcademicLevelRank(tutors[j].AcademicLevel)
		})
	}
}

func sortByDistance(tutors []models.Profile, origin geo.Point) {
	sort.SliceStable(tutors, func(i, j int) bool {
		di := geo.Distance(origin, geo.Point{Lat: tutors[i].LastLatitude, Lon: tutors[i].LastLongitude})
		dj := geo.Distance(origin, geo.Point{Lat: tutors[j].LastLatitude, Lon: tutors[j].LastLongitude})
		return di < dj
	})
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
