package domain

import (
	"slices"
	"time"
)

// DoctorSlot is the per (doctor, date) availability record.
// BookedSlots is a cache of active appointments; AvailableSlots holds the
// remaining times the doctor offers. The two sets never intersect.
type DoctorSlot struct {
	DoctorID       string
	Date           string
	AvailableSlots []string
	BookedSlots    []string
	IsAvailable    bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewDoctorSlot builds a fresh record seeded from the vocabulary.
// active are the times of active appointments for the doctor and date.
func NewDoctorSlot(doctorID, date string, vocabulary, active []string) *DoctorSlot {
	booked := normalize(active)
	return &DoctorSlot{
		DoctorID:       doctorID,
		Date:           date,
		AvailableSlots: difference(normalize(vocabulary), booked),
		BookedSlots:    booked,
		IsAvailable:    true,
	}
}

// RecomputeFromAppointments reconciles a record with the authoritative set of
// active appointment times. Everything the doctor offered stays offered:
// stale booked times return to available, newly booked times leave it.
func RecomputeFromAppointments(slot DoctorSlot, active []string) DoctorSlot {
	offered := normalize(append(slices.Clone(slot.AvailableSlots), slot.BookedSlots...))
	booked := normalize(active)

	slot.BookedSlots = booked
	slot.AvailableSlots = difference(offered, booked)
	return slot
}

// WithRequested replaces the offered times. Times that are currently booked are
// dropped from the request instead of failing it.
func WithRequested(slot DoctorSlot, requested, active []string) DoctorSlot {
	booked := normalize(active)

	slot.BookedSlots = booked
	slot.AvailableSlots = difference(normalize(requested), booked)
	return slot
}

// CanBook reports whether t may be booked against this record
func (s *DoctorSlot) CanBook(t string) bool {
	return s.CheckBookable(t) == nil
}

// CheckBookable returns a *SlotConflictError naming t if it cannot be booked.
// A nil record means the day was never customised and nothing is restricted.
func (s *DoctorSlot) CheckBookable(t string) error {
	switch {
	case s == nil:
		return nil
	case !s.IsAvailable:
		return NewSlotConflict(t, ConflictDayClosed)
	case s.IsBooked(t):
		return NewSlotConflict(t, ConflictBooked)
	case !s.IsOffered(t):
		return NewSlotConflict(t, ConflictNotOffered)
	}
	return nil
}

// IsOffered reports whether t is in the available set
func (s *DoctorSlot) IsOffered(t string) bool {
	return slices.Contains(s.AvailableSlots, t)
}

// IsBooked reports whether t is in the booked set
func (s *DoctorSlot) IsBooked(t string) bool {
	return slices.Contains(s.BookedSlots, t)
}

// MarkBooked moves t from available to booked. No-op if already booked.
func (s *DoctorSlot) MarkBooked(t string) {
	s.AvailableSlots = slices.DeleteFunc(s.AvailableSlots, func(v string) bool { return v == t })
	if !s.IsBooked(t) {
		s.BookedSlots = append(s.BookedSlots, t)
		slices.Sort(s.BookedSlots)
	}
}

// MarkReleased moves t from booked back to available, keeping available sorted.
// No-op if t is already available.
func (s *DoctorSlot) MarkReleased(t string) {
	s.BookedSlots = slices.DeleteFunc(s.BookedSlots, func(v string) bool { return v == t })
	if !s.IsOffered(t) {
		s.AvailableSlots = append(s.AvailableSlots, t)
	}
	slices.Sort(s.AvailableSlots)
}

// Clone returns a deep copy
func (s *DoctorSlot) Clone() *DoctorSlot {
	c := *s
	c.AvailableSlots = slices.Clone(s.AvailableSlots)
	c.BookedSlots = slices.Clone(s.BookedSlots)
	return &c
}

// normalize returns sorted unique labels; never nil
func normalize(labels []string) []string {
	out := make([]string, 0, len(labels))
	out = append(out, labels...)
	slices.Sort(out)
	return slices.Compact(out)
}

// difference returns a \ b for sorted inputs
func difference(a, b []string) []string {
	out := make([]string, 0, len(a))
	for _, v := range a {
		if _, found := slices.BinarySearch(b, v); !found {
			out = append(out, v)
		}
	}
	return out
}
