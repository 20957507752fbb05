package update_appointment

import "github.com/m04kA/SMC-HospitalBookingService/internal/domain"

// Request модель запроса на изменение записи
type Request struct {
	Caller domain.Caller           // Кто меняет запись
	ID     string                  // ID записи
	Patch  domain.AppointmentPatch // Изменяемые поля, nil - без изменений
}

// transition состояние записи до и после изменения
type transition struct {
	prior domain.Appointment
	next  domain.Appointment
}

// needsHold новое состояние занимает слот, который запись раньше не занимала
func (t transition) needsHold() bool {
	return t.next.IsActive() && (!t.prior.IsActive() || t.prior.Cell() != t.next.Cell())
}

// releasesPrior прежний слот освобождается: запись закрыта или перенесена
func (t transition) releasesPrior() bool {
	if !t.prior.IsActive() {
		return false
	}
	return t.next.Status.IsClosed() || t.prior.Cell() != t.next.Cell()
}

// cancelled запись только что отменена
func (t transition) cancelled() bool {
	return t.prior.Status != domain.StatusCancelled && t.next.Status == domain.StatusCancelled
}

// closesOnly запрос только закрывает запись (отмена или завершение), слот не занимается
func closesOnly(p domain.AppointmentPatch) bool {
	if p.Status == nil || !p.Status.IsClosed() {
		return false
	}
	p.Status = nil
	return p.IsEmpty()
}
