package timeslot

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	scheduledLayout = "02/01/2006T15:04:05"
	dateLayout      = "02/01/2006"

	// instantSuffix follows the date part of an instant slot. The trailing
	// lowercase 't' is the discriminator: any other final character means
	// the slot is scheduled.
	instantSuffix = "Tinstant"
)

// ErrInvalidTimeSlot is returned for any string that cannot be decoded as a
// scheduled or instant time slot.
var ErrInvalidTimeSlot = errors.New("timeslot: invalid time slot")

type Kind int

const (
	KindScheduled Kind = iota
	KindInstant
)

// Spec is the decoded form of a time-slot string. Scheduled specs carry a
// full date and time, instant specs carry only the request date.
type Spec struct {
	Kind Kind
	Time time.Time
}

func Scheduled(t time.Time) Spec {
	return Spec{Kind: KindScheduled, Time: t}
}

func Instant(date time.Time) Spec {
	return Spec{Kind: KindInstant, Time: date}
}

func (s Spec) IsInstant() bool {
	return s.Kind == KindInstant
}

// String encodes the spec back to its wire form: dd/MM/yyyy'T'HH:mm:ss for
// scheduled slots, dd/MM/yyyy followed by "Tinstant" for instant slots.
func (s Spec) String() string {
	if s.Kind == KindInstant {
		return s.Time.Format(dateLayout) + instantSuffix
	}
	return s.Time.Format(scheduledLayout)
}

// IsInstant reports whether a raw slot string uses the instant encoding
// without fully decoding it.
func IsInstant(raw string) bool {
	return raw != "" && raw[len(raw)-1] == 't'
}

// Parse decodes a raw time-slot string. It fails with ErrInvalidTimeSlot for
// anything that is not a well-formed scheduled or instant slot.
func Parse(raw string) (Spec, error) {
	if IsInstant(raw) {
		datePart := strings.TrimSuffix(raw, instantSuffix)
		if datePart == raw {
			return Spec{}, fmt.Errorf("%w: %q", ErrInvalidTimeSlot, raw)
		}
		date, err := time.Parse(dateLayout, datePart)
		if err != nil {
			return Spec{}, fmt.Errorf("%w: %q", ErrInvalidTimeSlot, raw)
		}
		return Instant(date), nil
	}

	t, err := time.Parse(scheduledLayout, raw)
	if err != nil {
		return Spec{}, fmt.Errorf("%w: %q", ErrInvalidTimeSlot, raw)
	}
	return Scheduled(t), nil
}
