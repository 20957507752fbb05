package notifier

// CreateNotificationRequest тело запроса на создание уведомления во входящих пользователя
type CreateNotificationRequest struct {
	UserID        string `json:"userId"`
	Title         string `json:"title"`
	Message       string `json:"message"`
	Type          string `json:"type"`
	AppointmentID string `json:"appointmentId,omitempty"`
}
