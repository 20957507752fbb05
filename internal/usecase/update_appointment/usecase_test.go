package update_appointment

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
	"github.com/m04kA/SMC-HospitalBookingService/internal/infra/lock"
	"github.com/m04kA/SMC-HospitalBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-HospitalBookingService/internal/service/slots"
	"github.com/m04kA/SMC-HospitalBookingService/pkg/logger"
	"github.com/m04kA/SMC-HospitalBookingService/pkg/ptr"
	"github.com/m04kA/SMC-HospitalBookingService/pkg/txmanager"
)

const (
	doctorID = "D1"
	date     = "2025-06-01"
)

var (
	day   = domain.DoctorDay{DoctorID: doctorID, Date: date}
	admin = domain.Caller{ID: "adm", Role: domain.RoleAdmin}
	ann   = domain.Caller{ID: "p-ann", Email: "ann@example.com", Role: domain.RolePatient}
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (n *recordingNotifier) Dispatch(msg domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
}

type countingMetrics struct {
	failures []string
}

func (m *countingMetrics) IncSlotCacheFailure(operation string) {
	m.failures = append(m.failures, operation)
}

type failingSlots struct{}

func (failingSlots) MarkBooked(context.Context, domain.SlotCell) error {
	return errors.New("slot store is down")
}

func (failingSlots) MarkReleased(context.Context, domain.SlotCell) error {
	return errors.New("slot store is down")
}

type fixture struct {
	store    *memory.Store
	slots    *slots.Service
	notifier *recordingNotifier
	metrics  *countingMetrics
	uc       *UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	locker := lock.NewLocalLocker(0)
	log := logger.NewNop()

	f := &fixture{
		store:    store,
		slots:    slots.NewService(store.DoctorSlots(), store.Appointments(), locker, domain.DefaultSlots, log),
		notifier: &recordingNotifier{},
		metrics:  &countingMetrics{},
	}
	f.uc = NewUseCase(store.Appointments(), store.DoctorSlots(), f.slots, locker,
		txmanager.NewNoop(), f.notifier, f.metrics, "US", log)

	return f
}

// seed создает активную запись и расписание дня, в котором она учтена
func (f *fixture) seed(t *testing.T, d, tm string) *domain.Appointment {
	t.Helper()
	ctx := context.Background()

	a, err := f.store.Appointments().Create(ctx, &domain.Appointment{
		PatientID: ann.ID, PatientName: "Ann", PatientEmail: ann.Email,
		DoctorID: doctorID, DoctorName: "Dr. House", Speciality: "Diagnostics",
		Date: d, Time: tm, Status: domain.StatusConfirmed,
	})
	require.NoError(t, err)

	_, err = f.slots.GetOrInit(ctx, domain.DoctorDay{DoctorID: doctorID, Date: d})
	require.NoError(t, err)
	return a
}

func (f *fixture) slot(t *testing.T, d string) *domain.DoctorSlot {
	t.Helper()
	s, err := f.store.DoctorSlots().Get(context.Background(), domain.DoctorDay{DoctorID: doctorID, Date: d})
	require.NoError(t, err)
	return s
}

func status(s domain.AppointmentStatus) *domain.AppointmentStatus {
	return &s
}

func TestExecute_CancelReleasesSlot(t *testing.T) {
	f := newFixture(t)
	a := f.seed(t, date, "10:00")
	require.Contains(t, f.slot(t, date).BookedSlots, "10:00")

	updated, err := f.uc.Execute(context.Background(), &Request{
		Caller: ann, ID: a.ID, Patch: domain.AppointmentPatch{Status: status(domain.StatusCancelled)},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, updated.Status)

	s := f.slot(t, date)
	assert.Contains(t, s.AvailableSlots, "10:00")
	assert.NotContains(t, s.BookedSlots, "10:00")
	assert.IsIncreasing(t, s.AvailableSlots)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "Appointment Cancelled", f.notifier.sent[0].Title)
	assert.Equal(t, a.ID, f.notifier.sent[0].AppointmentID)
}

func TestExecute_CompleteReleasesWithoutNotification(t *testing.T) {
	f := newFixture(t)
	a := f.seed(t, date, "10:30")

	_, err := f.uc.Execute(context.Background(), &Request{
		Caller: admin, ID: a.ID, Patch: domain.AppointmentPatch{Status: status(domain.StatusCompleted)},
	})
	require.NoError(t, err)

	assert.NotContains(t, f.slot(t, date).BookedSlots, "10:30")
	assert.Empty(t, f.notifier.sent)
}

func TestExecute_MoveAndCancelReleasesPriorCell(t *testing.T) {
	f := newFixture(t)
	a := f.seed(t, date, "10:00")

	_, err := f.uc.Execute(context.Background(), &Request{
		Caller: admin, ID: a.ID, Patch: domain.AppointmentPatch{
			Date:   ptr.Ptr("2025-06-02"),
			Time:   ptr.Ptr("15:00"),
			Status: status(domain.StatusCancelled),
		},
	})
	require.NoError(t, err)

	s := f.slot(t, date)
	assert.Contains(t, s.AvailableSlots, "10:00")
	assert.NotContains(t, s.BookedSlots, "10:00")

	// новый день не занят отменённой записью
	_, err = f.store.DoctorSlots().Get(context.Background(), domain.DoctorDay{DoctorID: doctorID, Date: "2025-06-02"})
	assert.Error(t, err)
}

func TestExecute_RescheduleHoldsNewSlot(t *testing.T) {
	f := newFixture(t)
	a := f.seed(t, date, "10:00")

	updated, err := f.uc.Execute(context.Background(), &Request{
		Caller: ann, ID: a.ID, Patch: domain.AppointmentPatch{Time: ptr.Ptr("11:00")},
	})
	require.NoError(t, err)
	assert.Equal(t, "11:00", updated.Time)
	assert.Equal(t, domain.StatusConfirmed, updated.Status)

	s := f.slot(t, date)
	assert.Equal(t, []string{"11:00"}, s.BookedSlots)
	assert.Contains(t, s.AvailableSlots, "10:00")
	assert.Empty(t, f.notifier.sent)
}

func TestExecute_RescheduleIntoTakenSlot(t *testing.T) {
	f := newFixture(t)
	a := f.seed(t, date, "10:00")
	f.seed(t, date, "11:00")

	_, err := f.uc.Execute(context.Background(), &Request{
		Caller: admin, ID: a.ID, Patch: domain.AppointmentPatch{Time: ptr.Ptr("11:00")},
	})

	var conflict *domain.SlotConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "11:00", conflict.Time)

	unchanged, err := f.store.Appointments().GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "10:00", unchanged.Time)
	assert.Equal(t, []string{"10:00", "11:00"}, f.slot(t, date).BookedSlots)
}

func TestExecute_ReactivateIntoTakenSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.seed(t, date, "10:00")

	_, err := f.uc.Execute(ctx, &Request{
		Caller: admin, ID: a.ID, Patch: domain.AppointmentPatch{Status: status(domain.StatusCancelled)},
	})
	require.NoError(t, err)

	f.seed(t, date, "10:00")

	_, err = f.uc.Execute(ctx, &Request{
		Caller: admin, ID: a.ID, Patch: domain.AppointmentPatch{Status: status(domain.StatusConfirmed)},
	})
	assert.ErrorIs(t, err, domain.ErrSlotConflict)
}

func TestExecute_ReactivateFreeSlotBooksIt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.seed(t, date, "10:00")

	_, err := f.uc.Execute(ctx, &Request{
		Caller: admin, ID: a.ID, Patch: domain.AppointmentPatch{Status: status(domain.StatusCancelled)},
	})
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, &Request{
		Caller: admin, ID: a.ID, Patch: domain.AppointmentPatch{Status: status(domain.StatusPending)},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00"}, f.slot(t, date).BookedSlots)
}

func TestExecute_EditFieldsKeepsSlot(t *testing.T) {
	f := newFixture(t)
	a := f.seed(t, date, "09:00")

	updated, err := f.uc.Execute(context.Background(), &Request{
		Caller: ann, ID: a.ID, Patch: domain.AppointmentPatch{
			Reason:       ptr.Ptr("Follow-up"),
			PatientPhone: ptr.Ptr("650 253 0000"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Follow-up", *updated.Reason)
	assert.Equal(t, "+16502530000", *updated.PatientPhone)
	assert.Equal(t, []string{"09:00"}, f.slot(t, date).BookedSlots)
}

func TestExecute_Access(t *testing.T) {
	f := newFixture(t)
	a := f.seed(t, date, "09:00")

	eve := domain.Caller{ID: "p-eve", Email: "eve@example.com", Role: domain.RolePatient}
	_, err := f.uc.Execute(context.Background(), &Request{
		Caller: eve, ID: a.ID, Patch: domain.AppointmentPatch{Status: status(domain.StatusCancelled)},
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.uc.Execute(context.Background(), &Request{
		Caller: ann, ID: a.ID, Patch: domain.AppointmentPatch{PatientEmail: ptr.Ptr("eve@example.com")},
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	otherDoctor := domain.Caller{ID: "D9", Role: domain.RoleDoctor}
	_, err = f.uc.Execute(context.Background(), &Request{
		Caller: otherDoctor, ID: a.ID, Patch: domain.AppointmentPatch{Notes: ptr.Ptr("x")},
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_NotFoundAndValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &Request{
		Caller: admin, ID: "missing", Patch: domain.AppointmentPatch{Notes: ptr.Ptr("x")},
	})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	tests := []struct {
		name  string
		patch domain.AppointmentPatch
	}{
		{"empty patch", domain.AppointmentPatch{}},
		{"bad date", domain.AppointmentPatch{Date: ptr.Ptr("2025/06/01")}},
		{"bad time", domain.AppointmentPatch{Time: ptr.Ptr("25:00")}},
		{"bad status", domain.AppointmentPatch{Status: status("lost")}},
		{"blank name", domain.AppointmentPatch{PatientName: ptr.Ptr("  ")}},
		{"bad phone", domain.AppointmentPatch{PatientPhone: ptr.Ptr("123")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), &Request{Caller: admin, ID: "any", Patch: tt.patch})
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_SlotStoreFailureKeepsUpdate(t *testing.T) {
	f := newFixture(t)
	a := f.seed(t, date, "10:00")
	f.uc.slots = failingSlots{}

	updated, err := f.uc.Execute(context.Background(), &Request{
		Caller: admin, ID: a.ID, Patch: domain.AppointmentPatch{Status: status(domain.StatusCancelled)},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, updated.Status)
	assert.Equal(t, []string{"mark_released"}, f.metrics.failures)

	// кеш отстал, но восстанавливается при следующем чтении
	assert.Contains(t, f.slot(t, date).BookedSlots, "10:00")
	healed, err := f.slots.GetOrInit(context.Background(), day)
	require.NoError(t, err)
	assert.NotContains(t, healed.BookedSlots, "10:00")
}

func TestTransition(t *testing.T) {
	base := domain.Appointment{ID: "a", DoctorID: doctorID, Date: date, Time: "10:00", Status: domain.StatusConfirmed}
	moved := base
	moved.Time = "11:00"
	cancelled := base
	cancelled.Status = domain.StatusCancelled

	tests := []struct {
		name          string
		t             transition
		hold, release bool
	}{
		{"no change", transition{base, base}, false, false},
		{"move", transition{base, moved}, true, true},
		{"cancel", transition{base, cancelled}, false, true},
		{"reactivate", transition{cancelled, base}, true, false},
		{"closed edit", transition{cancelled, cancelled}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.hold, tt.t.needsHold())
			assert.Equal(t, tt.release, tt.t.releasesPrior())
		})
	}
}

func TestClosesOnly(t *testing.T) {
	assert.True(t, closesOnly(domain.AppointmentPatch{Status: status(domain.StatusCancelled)}))
	assert.True(t, closesOnly(domain.AppointmentPatch{Status: status(domain.StatusCompleted)}))
	assert.False(t, closesOnly(domain.AppointmentPatch{Status: status(domain.StatusConfirmed)}))
	assert.False(t, closesOnly(domain.AppointmentPatch{Status: status(domain.StatusCancelled), Time: ptr.Ptr("11:00")}))
	assert.False(t, closesOnly(domain.AppointmentPatch{Notes: ptr.Ptr("x")}))
}
