package delete_appointment

import "github.com/m04kA/SMC-HospitalBookingService/internal/domain"

// Request модель запроса на удаление записи
type Request struct {
	Caller domain.Caller // Кто удаляет запись
	ID     string        // ID записи
}
