package update_appointment

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
	"github.com/m04kA/SMC-HospitalBookingService/internal/infra/lock"
	appointmentRepo "github.com/m04kA/SMC-HospitalBookingService/internal/infra/storage/appointment"
	doctorSlotRepo "github.com/m04kA/SMC-HospitalBookingService/internal/infra/storage/doctorslot"
	"github.com/m04kA/SMC-HospitalBookingService/pkg/txmanager"
)

// UseCase use case изменения записи: правка полей, перенос, смена статуса
type UseCase struct {
	appointmentRepo AppointmentRepository
	slotRepo        DoctorSlotRepository
	slots           SlotStore
	locker          Locker
	txManager       TransactionManager
	notifier        Notifier
	metrics         Metrics
	phoneRegion     string
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	slotRepo DoctorSlotRepository,
	slots SlotStore,
	locker Locker,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	phoneRegion string,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		slotRepo:        slotRepo,
		slots:           slots,
		locker:          locker,
		txManager:       txManager,
		notifier:        notifier,
		metrics:         metrics,
		phoneRegion:     phoneRegion,
		logger:          logger,
	}
}

// Execute применяет изменения к записи.
// Прежние статус, дата и время фиксируются до изменения: освобождается именно прежний слот,
// даже если запрос одновременно переносит запись и закрывает её.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	uc.logger.Info("UpdateAppointment: id=%s by user=%s role=%s", req.ID, req.Caller.ID, req.Caller.Role)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.phoneRegion); err != nil {
		uc.logger.Warn("UpdateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Текущее состояние для проверки доступа и выбора блокировок
	current, err := uc.appointmentRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, uc.mapError(req.ID, "", err)
	}

	scope := domain.ScopeFor(req.Caller)
	if !scope.Allows(current) {
		uc.logger.Warn("UpdateAppointment: access denied for user=%s to appointment id=%s", req.Caller.ID, req.ID)
		return nil, ErrAccessDenied
	}

	target := req.Patch.Apply(*current)
	if !scope.Allows(&target) {
		uc.logger.Warn("UpdateAppointment: user=%s tried to move appointment id=%s out of own scope", req.Caller.ID, req.ID)
		return nil, ErrAccessDenied
	}

	keys := []string{current.Day().LockKey(), target.Day().LockKey()}

	var t transition

	// 3. Изменение под блокировками прежнего и нового дня
	err = lock.WithLocks(ctx, uc.locker, keys, func(ctx context.Context) error {
		err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
			res, err := uc.updateLocked(txCtx, req, keys)
			if err != nil {
				return err
			}
			t = res
			return nil
		})
		if err != nil {
			return err
		}

		// 4. Синхронизация кеша слотов, ошибки не отменяют изменение
		uc.syncSlots(ctx, t)
		return nil
	})
	if err != nil {
		return nil, uc.mapError(req.ID, target.Time, err)
	}

	uc.logger.Info("UpdateAppointment: appointment id=%s %s %s %s -> %s %s %s",
		req.ID, t.prior.Date, t.prior.Time, t.prior.Status, t.next.Date, t.next.Time, t.next.Status)

	// 5. Уведомление об отмене
	if t.cancelled() {
		uc.notifier.Dispatch(domain.AppointmentCancelledNotification(&t.next))
	}

	return &t.next, nil
}

// updateLocked перечитывает запись, проверяет новый слот и сохраняет изменения.
// Вызывается под блокировками keys в транзакции.
func (uc *UseCase) updateLocked(ctx context.Context, req *Request, keys []string) (transition, error) {
	if closesOnly(req.Patch) {
		return uc.closeLocked(ctx, req, keys)
	}

	prior, err := uc.appointmentRepo.GetByID(ctx, req.ID)
	if err != nil {
		return transition{}, err
	}

	t := transition{prior: *prior, next: req.Patch.Apply(*prior)}

	// Запись успели перенести между чтением и блокировкой
	if !slices.Contains(keys, t.prior.Day().LockKey()) || !slices.Contains(keys, t.next.Day().LockKey()) {
		uc.logger.Warn("UpdateAppointment: appointment id=%s moved concurrently", req.ID)
		return transition{}, domain.NewSlotConflict(t.next.Time, domain.ConflictInProgress)
	}

	if t.needsHold() {
		if err := uc.checkTarget(ctx, t.next); err != nil {
			return transition{}, err
		}
	}

	updated, err := uc.appointmentRepo.Update(ctx, &t.next)
	if err != nil {
		return transition{}, err
	}
	t.next = *updated

	return t, nil
}

// closeLocked меняет только статус; прежний статус возвращает хранилище
func (uc *UseCase) closeLocked(ctx context.Context, req *Request, keys []string) (transition, error) {
	priorStatus, updated, err := uc.appointmentRepo.UpdateStatus(ctx, req.ID, *req.Patch.Status)
	if err != nil {
		return transition{}, err
	}

	prior := *updated
	prior.Status = priorStatus
	t := transition{prior: prior, next: *updated}

	if !slices.Contains(keys, t.prior.Day().LockKey()) {
		uc.logger.Warn("UpdateAppointment: appointment id=%s moved concurrently", req.ID)
		return transition{}, domain.NewSlotConflict(t.next.Time, domain.ConflictInProgress)
	}

	return t, nil
}

// checkTarget проверяет, что запись может занять новый слот, по тем же правилам, что и при записи
func (uc *UseCase) checkTarget(ctx context.Context, next domain.Appointment) error {
	cell := next.Cell()

	slot, err := uc.slotRepo.Get(ctx, cell.Day())
	if err != nil {
		if !errors.Is(err, doctorSlotRepo.ErrDoctorSlotNotFound) {
			return err
		}
		slot = nil
	}

	if err := slot.CheckBookable(cell.Time); err != nil {
		uc.logger.Warn("UpdateAppointment: target slot %s %s %s rejected by schedule: %v",
			cell.DoctorID, cell.Date, cell.Time, err)
		return err
	}

	existing, err := uc.appointmentRepo.FindActiveAt(ctx, cell)
	if err != nil && !errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
		return err
	}
	if existing != nil && existing.ID != next.ID {
		uc.logger.Warn("UpdateAppointment: target slot %s %s %s taken by appointment id=%s",
			cell.DoctorID, cell.Date, cell.Time, existing.ID)
		return domain.NewSlotConflict(cell.Time, domain.ConflictBooked)
	}

	return nil
}

// syncSlots переносит изменение в кеш слотов. Освобождается прежний слот, а не новый.
func (uc *UseCase) syncSlots(ctx context.Context, t transition) {
	if t.releasesPrior() {
		cell := t.prior.Cell()
		if err := uc.slots.MarkReleased(ctx, cell); err != nil {
			uc.logger.Warn("UpdateAppointment: failed to release slot %s %s %s: %v", cell.DoctorID, cell.Date, cell.Time, err)
			uc.metrics.IncSlotCacheFailure("mark_released")
		}
	}

	if t.needsHold() {
		cell := t.next.Cell()
		if err := uc.slots.MarkBooked(ctx, cell); err != nil {
			uc.logger.Warn("UpdateAppointment: failed to mark slot %s %s %s booked: %v", cell.DoctorID, cell.Date, cell.Time, err)
			uc.metrics.IncSlotCacheFailure("mark_booked")
		}
	}
}

// mapError переводит ошибки хранилища и блокировки в ошибки usecase; tm - целевое время записи
func (uc *UseCase) mapError(id, tm string, err error) error {
	var conflict *domain.SlotConflictError
	switch {
	case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
		uc.logger.Warn("UpdateAppointment: appointment id=%s not found", id)
		return ErrAppointmentNotFound
	case errors.As(err, &conflict):
		return conflict
	case errors.Is(err, appointmentRepo.ErrActiveSlotTaken):
		uc.logger.Warn("UpdateAppointment: unique index rejected new slot for appointment id=%s", id)
		return domain.NewSlotConflict(tm, domain.ConflictBooked)
	case errors.Is(err, lock.ErrLockNotAcquired), txmanager.IsSerializationFailure(err):
		uc.logger.Warn("UpdateAppointment: appointment id=%s is being changed concurrently: %v", id, err)
		return domain.NewSlotConflict(tm, domain.ConflictInProgress)
	default:
		uc.logger.Error("UpdateAppointment: storage error for appointment id=%s: %v", id, err)
		return fmt.Errorf("%w: UpdateAppointment - %v", ErrStorageUnavailable, err)
	}
}
