package domain

import "fmt"

// NotificationType категория уведомления во входящих пользователя
type NotificationType string

const (
	NotificationAppointment NotificationType = "appointment"
	NotificationReminder    NotificationType = "reminder"
	NotificationSystem      NotificationType = "system"
)

// Notification сообщение пациенту о событии по записи
type Notification struct {
	UserID        string
	Email         string
	Title         string
	Message       string
	Type          NotificationType
	AppointmentID string
}

// BookingConfirmedNotification уведомление о подтверждённой записи
func BookingConfirmedNotification(a *Appointment) Notification {
	return Notification{
		UserID: a.PatientID,
		Email:  a.PatientEmail,
		Title:  "Appointment Confirmed",
		Message: fmt.Sprintf("Your appointment with %s (%s) on %s at %s has been confirmed.",
			a.DoctorName, a.Speciality, a.Date, a.Time),
		Type:          NotificationAppointment,
		AppointmentID: a.ID,
	}
}

// AppointmentCancelledNotification уведомление об отмене записи
func AppointmentCancelledNotification(a *Appointment) Notification {
	return Notification{
		UserID: a.PatientID,
		Email:  a.PatientEmail,
		Title:  "Appointment Cancelled",
		Message: fmt.Sprintf("Your appointment with %s (%s) on %s at %s has been cancelled.",
			a.DoctorName, a.Speciality, a.Date, a.Time),
		Type:          NotificationAppointment,
		AppointmentID: a.ID,
	}
}
