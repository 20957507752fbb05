package update_doctor_slots

import (
	"encoding/json"
	"errors"
)

var errNotArray = errors.New("availableSlots must be an array")

// UpdateDoctorSlotsRequest тело PUT /api/doctor-slots/{doctorId}/{date}
type UpdateDoctorSlotsRequest struct {
	AvailableSlots json.RawMessage `json:"availableSlots"`
	IsAvailable    *bool           `json:"isAvailable,omitempty"`
}

// Slots разбирает availableSlots. Поле обязано быть массивом строк, null и отсутствие поля не принимаются.
func (r *UpdateDoctorSlotsRequest) Slots() ([]string, error) {
	var slots []string
	if len(r.AvailableSlots) == 0 || r.AvailableSlots[0] != '[' {
		return nil, errNotArray
	}
	if err := json.Unmarshal(r.AvailableSlots, &slots); err != nil {
		return nil, errNotArray
	}
	if slots == nil {
		slots = []string{}
	}
	return slots, nil
}
