package slots

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
	"github.com/m04kA/SMC-HospitalBookingService/internal/infra/lock"
	doctorSlotRepo "github.com/m04kA/SMC-HospitalBookingService/internal/infra/storage/doctorslot"
)

// Service хранилище слотов врача: кеш занятых времён поверх записей
// плюс набор времён, которые врач предлагает на дату.
//
// GetOrInit и SetAvailable сами берут блокировку дня.
// MarkBooked и MarkReleased вызываются под блокировкой, которую держит вызывающий.
type Service struct {
	slotRepo        DoctorSlotRepository
	appointmentRepo AppointmentRepository
	locker          Locker
	vocabulary      []string
	logger          Logger
}

// NewService создает сервис. vocabulary - сетка времён по умолчанию для новых дней.
func NewService(
	slotRepo DoctorSlotRepository,
	appointmentRepo AppointmentRepository,
	locker Locker,
	vocabulary []string,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:        slotRepo,
		appointmentRepo: appointmentRepo,
		locker:          locker,
		vocabulary:      slices.Clone(vocabulary),
		logger:          logger,
	}
}

// Vocabulary сетка времён по умолчанию
func (s *Service) Vocabulary() []string {
	return slices.Clone(s.vocabulary)
}

// GetOrInit возвращает расписание на день, создавая его из сетки по умолчанию.
// Существующая запись сверяется с активными записями на приём и при расхождении перезаписывается.
func (s *Service) GetOrInit(ctx context.Context, day domain.DoctorDay) (*domain.DoctorSlot, error) {
	if err := validateDay(day); err != nil {
		return nil, err
	}

	var result *domain.DoctorSlot
	err := s.locker.WithLock(ctx, day.LockKey(), func(ctx context.Context) error {
		slot, err := s.getOrInitLocked(ctx, day)
		if err != nil {
			return err
		}
		result = slot
		return nil
	})

	if errors.Is(err, lock.ErrLockNotAcquired) {
		// День сейчас меняется: отдаём согласованное представление без записи
		s.logger.Warn("GetOrInit: day %s is locked, serving read-only view", day.LockKey())
		return s.view(ctx, day)
	}
	if err != nil {
		return nil, s.wrap("GetOrInit", err)
	}

	return result, nil
}

// SetAvailable заменяет набор предлагаемых врачом времён.
// Занятые времена молча исключаются из запроса. isAvailable == nil оставляет флаг дня как есть.
func (s *Service) SetAvailable(ctx context.Context, caller domain.Caller, day domain.DoctorDay, requested []string, isAvailable *bool) (*domain.DoctorSlot, error) {
	s.logger.Info("SetAvailable: doctor=%s, date=%s, requested=%v, by user=%s", day.DoctorID, day.Date, requested, caller.ID)

	if !caller.CanManageSlots(day.DoctorID) {
		s.logger.Warn("SetAvailable: access denied for user=%s role=%s to doctor=%s", caller.ID, caller.Role, day.DoctorID)
		return nil, ErrAccessDenied
	}

	if err := validateDay(day); err != nil {
		return nil, err
	}
	if err := domain.ValidateTimeLabels(requested); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var result *domain.DoctorSlot
	err := s.locker.WithLock(ctx, day.LockKey(), func(ctx context.Context) error {
		active, err := s.appointmentRepo.ActiveTimes(ctx, day)
		if err != nil {
			return err
		}

		current, err := s.slotRepo.Get(ctx, day)
		if err != nil {
			if !errors.Is(err, doctorSlotRepo.ErrDoctorSlotNotFound) {
				return err
			}
			current = domain.NewDoctorSlot(day.DoctorID, day.Date, nil, active)
		}

		next := domain.WithRequested(*current, requested, active)
		if isAvailable != nil {
			next.IsAvailable = *isAvailable
		}

		if dropped := droppedCount(next.AvailableSlots, requested); dropped > 0 {
			s.logger.Info("SetAvailable: doctor=%s date=%s dropped %d booked time(s) from request", day.DoctorID, day.Date, dropped)
		}

		saved, err := s.slotRepo.Upsert(ctx, &next)
		if err != nil {
			return err
		}
		result = saved
		return nil
	})
	if err != nil {
		return nil, s.wrap("SetAvailable", err)
	}

	s.logger.Info("SetAvailable: doctor=%s date=%s available=%v booked=%v",
		day.DoctorID, day.Date, result.AvailableSlots, result.BookedSlots)
	return result, nil
}

// MarkBooked переносит время в занятые. Если записи на день нет, она создаётся
// из сетки по умолчанию и текущих активных записей.
func (s *Service) MarkBooked(ctx context.Context, cell domain.SlotCell) error {
	return s.mark(ctx, cell, "MarkBooked", func(slot *domain.DoctorSlot) { slot.MarkBooked(cell.Time) })
}

// MarkReleased возвращает время в доступные. Повторный вызов ничего не меняет.
func (s *Service) MarkReleased(ctx context.Context, cell domain.SlotCell) error {
	return s.mark(ctx, cell, "MarkReleased", func(slot *domain.DoctorSlot) { slot.MarkReleased(cell.Time) })
}

func (s *Service) mark(ctx context.Context, cell domain.SlotCell, op string, apply func(slot *domain.DoctorSlot)) error {
	day := cell.Day()

	slot, err := s.slotRepo.Get(ctx, day)
	if err != nil {
		if !errors.Is(err, doctorSlotRepo.ErrDoctorSlotNotFound) {
			return s.wrap(op, err)
		}
		active, err := s.appointmentRepo.ActiveTimes(ctx, day)
		if err != nil {
			return s.wrap(op, err)
		}
		slot = domain.NewDoctorSlot(day.DoctorID, day.Date, s.vocabulary, active)
	}

	apply(slot)

	if _, err := s.slotRepo.Upsert(ctx, slot); err != nil {
		return s.wrap(op, err)
	}
	return nil
}

// getOrInitLocked вызывается под блокировкой дня
func (s *Service) getOrInitLocked(ctx context.Context, day domain.DoctorDay) (*domain.DoctorSlot, error) {
	active, err := s.appointmentRepo.ActiveTimes(ctx, day)
	if err != nil {
		return nil, err
	}

	current, err := s.slotRepo.Get(ctx, day)
	if err != nil {
		if !errors.Is(err, doctorSlotRepo.ErrDoctorSlotNotFound) {
			return nil, err
		}
		s.logger.Info("GetOrInit: creating slots for doctor=%s date=%s from default vocabulary", day.DoctorID, day.Date)
		return s.slotRepo.Upsert(ctx, domain.NewDoctorSlot(day.DoctorID, day.Date, s.vocabulary, active))
	}

	reconciled := domain.RecomputeFromAppointments(*current, active)
	if slices.Equal(reconciled.AvailableSlots, current.AvailableSlots) &&
		slices.Equal(reconciled.BookedSlots, current.BookedSlots) {
		return current, nil
	}

	s.logger.Warn("GetOrInit: slot cache for doctor=%s date=%s was stale (booked %v, actual %v), repairing",
		day.DoctorID, day.Date, current.BookedSlots, reconciled.BookedSlots)
	return s.slotRepo.Upsert(ctx, &reconciled)
}

// view строит согласованное расписание без сохранения
func (s *Service) view(ctx context.Context, day domain.DoctorDay) (*domain.DoctorSlot, error) {
	active, err := s.appointmentRepo.ActiveTimes(ctx, day)
	if err != nil {
		return nil, s.wrap("view", err)
	}

	current, err := s.slotRepo.Get(ctx, day)
	if err != nil {
		if !errors.Is(err, doctorSlotRepo.ErrDoctorSlotNotFound) {
			return nil, s.wrap("view", err)
		}
		return domain.NewDoctorSlot(day.DoctorID, day.Date, s.vocabulary, active), nil
	}

	reconciled := domain.RecomputeFromAppointments(*current, active)
	return &reconciled, nil
}

func (s *Service) wrap(op string, err error) error {
	switch {
	case errors.Is(err, lock.ErrLockNotAcquired):
		return fmt.Errorf("%w: %s", ErrBusy, op)
	default:
		s.logger.Error("%s: storage error: %v", op, err)
		return fmt.Errorf("%w: %s: %v", ErrStorageUnavailable, op, err)
	}
}

func validateDay(day domain.DoctorDay) error {
	if day.DoctorID == "" {
		return fmt.Errorf("%w: doctorId is required", ErrInvalidInput)
	}
	if err := domain.ValidateDate(day.Date); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// droppedCount сколько уникальных запрошенных времён не попало в доступные
func droppedCount(available, requested []string) int {
	n := 0
	for _, r := range slices.Compact(slices.Sorted(slices.Values(requested))) {
		if !slices.Contains(available, r) {
			n++
		}
	}
	return n
}
