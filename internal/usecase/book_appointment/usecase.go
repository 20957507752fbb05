package book_appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
	"github.com/m04kA/SMC-HospitalBookingService/internal/infra/lock"
	appointmentRepo "github.com/m04kA/SMC-HospitalBookingService/internal/infra/storage/appointment"
	doctorSlotRepo "github.com/m04kA/SMC-HospitalBookingService/internal/infra/storage/doctorslot"
	"github.com/m04kA/SMC-HospitalBookingService/internal/integrations/directory"
	"github.com/m04kA/SMC-HospitalBookingService/pkg/metrics"
	"github.com/m04kA/SMC-HospitalBookingService/pkg/ptr"
	"github.com/m04kA/SMC-HospitalBookingService/pkg/txmanager"
)

// UseCase use case записи к врачу
type UseCase struct {
	appointmentRepo AppointmentRepository
	slotRepo        DoctorSlotRepository
	slots           SlotStore
	directory       DirectoryClient
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
	directory DirectoryClient,
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
		directory:       directory,
		locker:          locker,
		txManager:       txManager,
		notifier:        notifier,
		metrics:         metrics,
		phoneRegion:     phoneRegion,
		logger:          logger,
	}
}

// Execute выполняет запись к врачу.
// Проверка слота и создание записи выполняются под блокировкой дня врача
// в сериализуемой транзакции, уникальный индекс по активным записям страхует от гонки.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	uc.logger.Info("BookAppointment: user=%s, doctor=%s, date=%s, time=%s",
		req.Caller.ID, req.DoctorID, req.Date, req.Time)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookAppointment: validation failed: %v", err)
		uc.metrics.IncBooking(metrics.BookingRejected)
		return nil, err
	}

	phone, err := normalizePhone(req.Phone, uc.phoneRegion)
	if err != nil {
		uc.logger.Warn("BookAppointment: phone validation failed: %v", err)
		uc.metrics.IncBooking(metrics.BookingRejected)
		return nil, err
	}

	// 2. Получаем врача
	doctor, err := uc.directory.GetUser(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, directory.ErrUserNotFound) {
			uc.logger.Warn("BookAppointment: doctor id=%s not found", req.DoctorID)
			uc.metrics.IncBooking(metrics.BookingRejected)
			return nil, ErrDoctorNotFound
		}
		uc.logger.Error("BookAppointment: failed to get doctor id=%s: %v", req.DoctorID, err)
		uc.metrics.IncBooking(metrics.BookingError)
		return nil, fmt.Errorf("%w: failed to get doctor: %v", ErrInternal, err)
	}
	if !doctor.IsDoctor() {
		uc.logger.Warn("BookAppointment: user id=%s has role %q, not a doctor", req.DoctorID, doctor.Role)
		uc.metrics.IncBooking(metrics.BookingRejected)
		return nil, ErrDoctorNotFound
	}

	speciality := doctor.SpecialityOr(ptr.Deref(req.Speciality, ""))
	if speciality == "" {
		uc.metrics.IncBooking(metrics.BookingRejected)
		return nil, fmt.Errorf("%w: speciality is required when the doctor has none", ErrInvalidInput)
	}

	// 3. Определяем пациента
	p := uc.resolvePatient(ctx, req)

	appointment := &domain.Appointment{
		PatientID:    p.ID,
		PatientName:  p.Name,
		PatientEmail: p.Email,
		PatientPhone: phone,
		DoctorID:     doctor.ID,
		DoctorName:   doctor.Name,
		Speciality:   speciality,
		Date:         req.Date,
		Time:         req.Time,
		// Записи подтверждаются сразу
		Status: domain.StatusConfirmed,
		Reason: req.Reason,
		Notes:  req.Notes,
	}
	cell := appointment.Cell()

	var result *domain.Appointment

	// 4. Проверка слота и создание записи под блокировкой дня
	err = uc.locker.WithLock(ctx, cell.Day().LockKey(), func(ctx context.Context) error {
		err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
			created, err := uc.createLocked(txCtx, appointment)
			if err != nil {
				return err
			}
			result = created
			return nil
		})
		if err != nil {
			return err
		}

		// 5. Обновляем кеш слотов. Ошибка не отменяет запись: кеш восстановится при следующем чтении.
		if err := uc.slots.MarkBooked(ctx, cell); err != nil {
			uc.logger.Warn("BookAppointment: failed to mark slot %s %s %s booked: %v",
				cell.DoctorID, cell.Date, cell.Time, err)
			uc.metrics.IncSlotCacheFailure("mark_booked")
		}
		return nil
	})
	if err != nil {
		return nil, uc.mapError(cell, err)
	}

	uc.metrics.IncBooking(metrics.BookingCreated)
	uc.logger.Info("BookAppointment: successfully created appointment id=%s for patient=%s",
		result.ID, result.PatientEmail)

	// 6. Уведомление пациенту (в фоне, ошибки не влияют на результат)
	uc.notifier.Dispatch(domain.BookingConfirmedNotification(result))

	return result, nil
}

// createLocked проверяет слот и создает запись. Вызывается под блокировкой в транзакции.
func (uc *UseCase) createLocked(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	cell := a.Cell()

	slot, err := uc.slotRepo.Get(ctx, cell.Day())
	if err != nil {
		if !errors.Is(err, doctorSlotRepo.ErrDoctorSlotNotFound) {
			return nil, err
		}
		// Расписание не настраивалось: действует сетка по умолчанию
		slot = nil
	}

	if err := slot.CheckBookable(cell.Time); err != nil {
		uc.logger.Warn("BookAppointment: slot %s %s %s rejected by schedule: %v",
			cell.DoctorID, cell.Date, cell.Time, err)
		return nil, err
	}

	// Источник истины - записи, кеш мог отстать
	existing, err := uc.appointmentRepo.FindActiveAt(ctx, cell)
	if err != nil && !errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
		return nil, err
	}
	if existing != nil {
		uc.logger.Warn("BookAppointment: slot %s %s %s already taken by appointment id=%s",
			cell.DoctorID, cell.Date, cell.Time, existing.ID)
		return nil, domain.NewSlotConflict(cell.Time, domain.ConflictBooked)
	}

	return uc.appointmentRepo.Create(ctx, a)
}

// resolvePatient выбирает пациента: явный email из запроса важнее профиля вызывающего.
// Если email принадлежит зарегистрированному пациенту, берутся его id и имя.
func (uc *UseCase) resolvePatient(ctx context.Context, req *Request) patient {
	p := patient{
		ID:    req.Caller.ID,
		Name:  req.Caller.Name,
		Email: req.Caller.Email,
	}

	email := strings.TrimSpace(ptr.Deref(req.Email, ""))
	if email != "" {
		p.Email = email
	}

	if email != "" && !strings.EqualFold(email, req.Caller.Email) {
		found, err := uc.directory.FindPatientByEmail(ctx, email)
		switch {
		case err == nil:
			p.ID = found.ID
			p.Name = found.Name
			uc.logger.Info("BookAppointment: booking on behalf of patient id=%s", found.ID)
		case errors.Is(err, directory.ErrUserNotFound):
			uc.logger.Info("BookAppointment: no patient account for email=%s, using caller identity", email)
		default:
			uc.logger.Warn("BookAppointment: patient lookup for email=%s failed, using caller identity: %v", email, err)
		}
	}

	if name := strings.TrimSpace(ptr.Deref(req.PatientName, "")); name != "" {
		p.Name = name
	}

	return p
}

// mapError переводит ошибки хранилища и блокировки в ошибки usecase
func (uc *UseCase) mapError(cell domain.SlotCell, err error) error {
	var conflict *domain.SlotConflictError
	switch {
	case errors.As(err, &conflict):
		uc.metrics.IncBooking(metrics.BookingConflict)
		return conflict
	case errors.Is(err, appointmentRepo.ErrActiveSlotTaken):
		uc.logger.Warn("BookAppointment: unique index rejected slot %s %s %s", cell.DoctorID, cell.Date, cell.Time)
		uc.metrics.IncBooking(metrics.BookingConflict)
		return domain.NewSlotConflict(cell.Time, domain.ConflictBooked)
	case errors.Is(err, lock.ErrLockNotAcquired), txmanager.IsSerializationFailure(err):
		uc.logger.Warn("BookAppointment: slot %s %s %s is being booked concurrently: %v", cell.DoctorID, cell.Date, cell.Time, err)
		uc.metrics.IncBooking(metrics.BookingConflict)
		return domain.NewSlotConflict(cell.Time, domain.ConflictInProgress)
	default:
		uc.logger.Error("BookAppointment: storage error for slot %s %s %s: %v", cell.DoctorID, cell.Date, cell.Time, err)
		uc.metrics.IncBooking(metrics.BookingError)
		return fmt.Errorf("%w: BookAppointment - %v", ErrStorageUnavailable, err)
	}
}
