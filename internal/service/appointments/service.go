package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-HospitalBookingService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-HospitalBookingService/internal/service/appointments/models"
)

// Service сервис чтения записей на приём
type Service struct {
	appointmentRepo AppointmentRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(appointmentRepo AppointmentRepository, logger Logger) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		logger:          logger,
	}
}

// List возвращает записи, видимые пользователю.
// Пациент видит записи на свой email, врач - записи к себе; параметры запроса только сужают выборку.
func (s *Service) List(ctx context.Context, caller domain.Caller, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("List: user=%s role=%s, email=%v, doctorId=%v, status=%v, date=%v",
		caller.ID, caller.Role, req.Email, req.DoctorID, req.Status, req.Date)

	base, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter for user=%s: %v", caller.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	filter := domain.ScopeFor(caller).Filter(base)

	list, err := s.appointmentRepo.Find(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for user=%s: %v", caller.ID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrStorageUnavailable, err)
	}

	s.logger.Info("List: fetched %d appointments for user=%s", len(list), caller.ID)
	return models.FromDomainAppointmentList(list), nil
}

// GetByID получает запись по ID с проверкой области видимости
func (s *Service) GetByID(ctx context.Context, caller domain.Caller, id string) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%s for user=%s", id, caller.ID)

	a, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%s not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrStorageUnavailable, err)
	}

	if !domain.ScopeFor(caller).Allows(a) {
		s.logger.Warn("GetByID: access denied for user=%s to appointment id=%s", caller.ID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainAppointment(a), nil
}
