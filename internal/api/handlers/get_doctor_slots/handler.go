package get_doctor_slots

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-HospitalBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
	"github.com/m04kA/SMC-HospitalBookingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-HospitalBookingService/internal/service/slots"
)

const msgBusy = "Schedule is being changed right now. Please try again."

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/doctor-slots/{doctorId}/{date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	day := domain.DoctorDay{DoctorID: vars["doctorId"], Date: vars["date"]}

	slot, err := h.service.GetOrInit(r.Context(), day)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("GET /doctor-slots/{doctorId}/{date} - Invalid request: doctor_id=%s, date=%s, error=%v",
				day.DoctorID, day.Date, err)
			handlers.RespondBadRequest(w, handlers.ErrorDetail(err, slots.ErrInvalidInput))

		case errors.Is(err, slots.ErrBusy):
			h.logger.Warn("GET /doctor-slots/{doctorId}/{date} - Schedule busy: doctor_id=%s, date=%s", day.DoctorID, day.Date)
			handlers.RespondError(w, http.StatusConflict, msgBusy)

		default:
			h.logger.Error("GET /doctor-slots/{doctorId}/{date} - Failed to get slots: doctor_id=%s, date=%s, error=%v",
				day.DoctorID, day.Date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /doctor-slots/{doctorId}/{date} - Slots retrieved: doctor_id=%s, date=%s, available=%d, booked=%d",
		day.DoctorID, day.Date, len(slot.AvailableSlots), len(slot.BookedSlots))
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainDoctorSlot(slot))
}
