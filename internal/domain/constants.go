package domain

// Форматы даты и метки времени слота
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// DefaultSlots стандартная сетка приёма: каждые 30 минут с 09:00 до 17:00.
// Используется, пока врач не задал собственное расписание на день.
var DefaultSlots = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"12:00", "12:30", "13:00", "13:30", "14:00", "14:30",
	"15:00", "15:30", "16:00", "16:30", "17:00",
}

// Ограничения на поля записи
const (
	MaxReasonLength      = 500
	MaxNotesLength       = 1000
	MaxPatientNameLength = 200
)

// ActiveStatuses статусы, занимающие слот врача
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}

// ClosedStatuses статусы, освобождающие слот
var ClosedStatuses = []AppointmentStatus{
	StatusCompleted,
	StatusCancelled,
}
