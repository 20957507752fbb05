package book_appointment

import "github.com/m04kA/SMC-HospitalBookingService/internal/domain"

// Request модель запроса на запись к врачу
type Request struct {
	Caller domain.Caller // Кто записывает (пациент или сотрудник от имени пациента)

	DoctorID string // ID врача
	Date     string // Дата приёма "2025-06-01"
	Time     string // Время приёма "09:30"

	PatientName *string // Имя пациента (по умолчанию - из профиля)
	Email       *string // Email пациента (по умолчанию - email вызывающего)
	Phone       *string // Телефон пациента (опционально)
	Reason      *string // Причина обращения
	Notes       *string // Дополнительные заметки
	Speciality  *string // Специальность, если у врача в профиле она не указана
}

// patient данные пациента, на которого оформляется запись
type patient struct {
	ID    string
	Name  string
	Email string
}
