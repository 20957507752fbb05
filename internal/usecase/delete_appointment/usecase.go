package delete_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
	"github.com/m04kA/SMC-HospitalBookingService/internal/infra/lock"
	appointmentRepo "github.com/m04kA/SMC-HospitalBookingService/internal/infra/storage/appointment"
)

// errMoved запись перенесли на другой день между чтением и блокировкой
var errMoved = errors.New("delete_appointment: appointment moved")

// UseCase use case удаления записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	slots           SlotStore
	locker          Locker
	txManager       TransactionManager
	metrics         Metrics
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	slots SlotStore,
	locker Locker,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		slots:           slots,
		locker:          locker,
		txManager:       txManager,
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute удаляет запись. Слот активной записи освобождается под той же блокировкой дня.
func (uc *UseCase) Execute(ctx context.Context, req *Request) error {
	uc.logger.Info("DeleteAppointment: id=%s by user=%s role=%s", req.ID, req.Caller.ID, req.Caller.Role)

	if strings.TrimSpace(req.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	}

	current, err := uc.appointmentRepo.GetByID(ctx, req.ID)
	if err != nil {
		return uc.mapError(req.ID, err)
	}

	if !domain.ScopeFor(req.Caller).Allows(current) {
		uc.logger.Warn("DeleteAppointment: access denied for user=%s to appointment id=%s", req.Caller.ID, req.ID)
		return ErrAccessDenied
	}

	key := current.Day().LockKey()

	var deleted domain.Appointment
	err = uc.locker.WithLock(ctx, key, func(ctx context.Context) error {
		err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
			a, err := uc.appointmentRepo.GetByID(txCtx, req.ID)
			if err != nil {
				return err
			}
			if a.Day().LockKey() != key {
				return errMoved
			}
			if err := uc.appointmentRepo.Delete(txCtx, req.ID); err != nil {
				return err
			}
			deleted = *a
			return nil
		})
		if err != nil {
			return err
		}

		if deleted.IsActive() {
			cell := deleted.Cell()
			if err := uc.slots.MarkReleased(ctx, cell); err != nil {
				uc.logger.Warn("DeleteAppointment: failed to release slot %s %s %s: %v", cell.DoctorID, cell.Date, cell.Time, err)
				uc.metrics.IncSlotCacheFailure("mark_released")
			}
		}
		return nil
	})
	if err != nil {
		return uc.mapError(req.ID, err)
	}

	uc.logger.Info("DeleteAppointment: successfully deleted appointment id=%s (%s %s %s, was %s)",
		req.ID, deleted.DoctorID, deleted.Date, deleted.Time, deleted.Status)
	return nil
}

func (uc *UseCase) mapError(id string, err error) error {
	switch {
	case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
		uc.logger.Warn("DeleteAppointment: appointment id=%s not found", id)
		return ErrAppointmentNotFound
	case errors.Is(err, lock.ErrLockNotAcquired), errors.Is(err, errMoved):
		uc.logger.Warn("DeleteAppointment: appointment id=%s is being changed concurrently: %v", id, err)
		return ErrBusy
	default:
		uc.logger.Error("DeleteAppointment: storage error for appointment id=%s: %v", id, err)
		return fmt.Errorf("%w: DeleteAppointment - %v", ErrStorageUnavailable, err)
	}
}
