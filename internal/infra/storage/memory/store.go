// Package memory хранит записи и расписания в памяти процесса.
// Используется драйвером database.driver = "memory" и в тестах.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-HospitalBookingService/internal/infra/storage/appointment"
	doctorSlotRepo "github.com/m04kA/SMC-HospitalBookingService/internal/infra/storage/doctorslot"
)

// Store общее состояние обоих репозиториев
type Store struct {
	mu           sync.RWMutex
	appointments map[string]domain.Appointment
	slots        map[domain.DoctorDay]domain.DoctorSlot
	now          func() time.Time
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		appointments: make(map[string]domain.Appointment),
		slots:        make(map[domain.DoctorDay]domain.DoctorSlot),
		now:          time.Now,
	}
}

// Appointments репозиторий записей поверх хранилища
func (s *Store) Appointments() *Appointments {
	return &Appointments{store: s}
}

// DoctorSlots репозиторий расписаний поверх хранилища
func (s *Store) DoctorSlots() *DoctorSlots {
	return &DoctorSlots{store: s}
}

// Ping всегда успешен
func (s *Store) Ping(context.Context) error {
	return nil
}

// Appointments in-memory реализация репозитория записей
type Appointments struct {
	store *Store
}

func (r *Appointments) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = domain.StatusConfirmed
	}
	if a.IsActive() && s.activeTakenLocked(a.Cell(), a.ID) {
		return nil, appointmentRepo.ErrActiveSlotTaken
	}

	now := s.now()
	a.CreatedAt = now
	a.UpdatedAt = now
	s.appointments[a.ID] = *a

	return a, nil
}

func (r *Appointments) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.appointments[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return &a, nil
}

func (r *Appointments) Find(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Appointment, 0)
	for _, a := range s.appointments {
		if !matches(a, filter) {
			continue
		}
		a := a
		out = append(out, &a)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		if out[i].Time != out[j].Time {
			return out[i].Time > out[j].Time
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (r *Appointments) FindActiveAt(ctx context.Context, cell domain.SlotCell) (*domain.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.appointments {
		if a.IsActive() && a.Cell() == cell {
			return &a, nil
		}
	}
	return nil, appointmentRepo.ErrAppointmentNotFound
}

func (r *Appointments) ActiveTimes(ctx context.Context, day domain.DoctorDay) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	times := make([]string, 0)
	for _, a := range s.appointments {
		if !a.IsActive() || a.Day() != day {
			continue
		}
		if _, dup := seen[a.Time]; dup {
			continue
		}
		seen[a.Time] = struct{}{}
		times = append(times, a.Time)
	}
	sort.Strings(times)

	return times, nil
}

func (r *Appointments) Update(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.appointments[a.ID]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	if a.IsActive() && s.activeTakenLocked(a.Cell(), a.ID) {
		return nil, appointmentRepo.ErrActiveSlotTaken
	}

	updated := *a
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = s.now()
	s.appointments[a.ID] = updated

	return &updated, nil
}

func (r *Appointments) UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) (domain.AppointmentStatus, *domain.Appointment, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return "", nil, err
	}

	prior := current.Status
	current.Status = status

	updated, err := r.Update(ctx, current)
	if err != nil {
		return "", nil, err
	}
	return prior, updated, nil
}

func (r *Appointments) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.appointments[id]; !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	delete(s.appointments, id)
	return nil
}

// activeTakenLocked есть ли другая активная запись на слот. Вызывать под mu.
func (s *Store) activeTakenLocked(cell domain.SlotCell, exceptID string) bool {
	for id, other := range s.appointments {
		if id != exceptID && other.IsActive() && other.Cell() == cell {
			return true
		}
	}
	return false
}

func matches(a domain.Appointment, f domain.AppointmentFilter) bool {
	if f.PatientEmail != nil && !strings.EqualFold(a.PatientEmail, *f.PatientEmail) {
		return false
	}
	if f.DoctorID != nil && a.DoctorID != *f.DoctorID {
		return false
	}
	if f.Status != nil && a.Status != *f.Status {
		return false
	}
	if f.Date != nil && a.Date != *f.Date {
		return false
	}
	return true
}

// DoctorSlots in-memory реализация репозитория расписаний
type DoctorSlots struct {
	store *Store
}

func (r *DoctorSlots) Get(ctx context.Context, day domain.DoctorDay) (*domain.DoctorSlot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	slot, ok := s.slots[day]
	if !ok {
		return nil, doctorSlotRepo.ErrDoctorSlotNotFound
	}
	return slot.Clone(), nil
}

func (r *DoctorSlots) Upsert(ctx context.Context, slot *domain.DoctorSlot) (*domain.DoctorSlot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := slot.Clone()
	if saved.AvailableSlots == nil {
		saved.AvailableSlots = []string{}
	}
	if saved.BookedSlots == nil {
		saved.BookedSlots = []string{}
	}

	day := domain.DoctorDay{DoctorID: slot.DoctorID, Date: slot.Date}
	now := s.now()
	if existing, ok := s.slots[day]; ok {
		saved.CreatedAt = existing.CreatedAt
	} else {
		saved.CreatedAt = now
	}
	saved.UpdatedAt = now
	s.slots[day] = *saved

	return saved.Clone(), nil
}
