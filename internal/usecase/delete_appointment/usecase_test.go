package delete_appointment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
	"github.com/m04kA/SMC-HospitalBookingService/internal/infra/lock"
	"github.com/m04kA/SMC-HospitalBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-HospitalBookingService/internal/service/slots"
	"github.com/m04kA/SMC-HospitalBookingService/pkg/logger"
	"github.com/m04kA/SMC-HospitalBookingService/pkg/txmanager"
)

var (
	day   = domain.DoctorDay{DoctorID: "D1", Date: "2025-06-01"}
	admin = domain.Caller{ID: "adm", Role: domain.RoleAdmin}
)

type countingMetrics struct {
	failures int
}

func (m *countingMetrics) IncSlotCacheFailure(string) {
	m.failures++
}

type failingSlots struct{}

func (failingSlots) MarkReleased(context.Context, domain.SlotCell) error {
	return errors.New("slot store is down")
}

type busyLocker struct{}

func (busyLocker) WithLock(context.Context, string, func(ctx context.Context) error) error {
	return lock.ErrLockNotAcquired
}

func setup(t *testing.T) (*UseCase, *memory.Store, *slots.Service, *countingMetrics) {
	t.Helper()
	store := memory.NewStore()
	locker := lock.NewLocalLocker(0)
	log := logger.NewNop()
	svc := slots.NewService(store.DoctorSlots(), store.Appointments(), locker, domain.DefaultSlots, log)
	m := &countingMetrics{}
	return NewUseCase(store.Appointments(), svc, locker, txmanager.NewNoop(), m, log), store, svc, m
}

func seed(t *testing.T, store *memory.Store, svc *slots.Service, tm string, st domain.AppointmentStatus) *domain.Appointment {
	t.Helper()
	a, err := store.Appointments().Create(context.Background(), &domain.Appointment{
		PatientID: "p-ann", PatientEmail: "ann@example.com", DoctorID: day.DoctorID, Date: day.Date, Time: tm, Status: st,
	})
	require.NoError(t, err)
	_, err = svc.GetOrInit(context.Background(), day)
	require.NoError(t, err)
	return a
}

func TestExecute_DeleteActiveReleasesSlot(t *testing.T) {
	uc, store, svc, _ := setup(t)
	ctx := context.Background()
	a := seed(t, store, svc, "14:00", domain.StatusConfirmed)

	require.NoError(t, uc.Execute(ctx, &Request{Caller: admin, ID: a.ID}))

	_, err := store.Appointments().GetByID(ctx, a.ID)
	assert.Error(t, err)

	slot, err := store.DoctorSlots().Get(ctx, day)
	require.NoError(t, err)
	assert.NotContains(t, slot.BookedSlots, "14:00")
	assert.Contains(t, slot.AvailableSlots, "14:00")
	assert.IsIncreasing(t, slot.AvailableSlots)
}

func TestExecute_DeleteClosedLeavesSlots(t *testing.T) {
	uc, store, svc, _ := setup(t)
	ctx := context.Background()
	seed(t, store, svc, "14:00", domain.StatusConfirmed)
	closed := seed(t, store, svc, "14:00", domain.StatusCancelled)

	before, err := store.DoctorSlots().Get(ctx, day)
	require.NoError(t, err)

	require.NoError(t, uc.Execute(ctx, &Request{Caller: admin, ID: closed.ID}))

	after, err := store.DoctorSlots().Get(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, before.BookedSlots, after.BookedSlots)
	assert.Contains(t, after.BookedSlots, "14:00")
}

func TestExecute_Errors(t *testing.T) {
	uc, store, svc, _ := setup(t)
	ctx := context.Background()
	a := seed(t, store, svc, "09:00", domain.StatusConfirmed)

	assert.ErrorIs(t, uc.Execute(ctx, &Request{Caller: admin, ID: "missing"}), ErrAppointmentNotFound)
	assert.ErrorIs(t, uc.Execute(ctx, &Request{Caller: admin, ID: " "}), ErrInvalidInput)

	eve := domain.Caller{ID: "p-eve", Email: "eve@example.com", Role: domain.RolePatient}
	assert.ErrorIs(t, uc.Execute(ctx, &Request{Caller: eve, ID: a.ID}), ErrAccessDenied)

	uc.locker = busyLocker{}
	assert.ErrorIs(t, uc.Execute(ctx, &Request{Caller: admin, ID: a.ID}), ErrBusy)

	_, err := store.Appointments().GetByID(ctx, a.ID)
	assert.NoError(t, err)
}

func TestExecute_SlotStoreFailureKeepsDelete(t *testing.T) {
	uc, store, svc, m := setup(t)
	ctx := context.Background()
	a := seed(t, store, svc, "09:00", domain.StatusPending)
	uc.slots = failingSlots{}

	require.NoError(t, uc.Execute(ctx, &Request{Caller: admin, ID: a.ID}))
	assert.Equal(t, 1, m.failures)

	healed, err := svc.GetOrInit(ctx, day)
	require.NoError(t, err)
	assert.Empty(t, healed.BookedSlots)
}
