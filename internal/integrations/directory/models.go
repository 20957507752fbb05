package directory

// User пользователь из сервиса пользователей
type User struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Role       string  `json:"role"` // patient, doctor, admin, technician
	Phone      *string `json:"phone,omitempty"`
	Speciality *string `json:"speciality,omitempty"`
}

// IsDoctor returns true if the user has the doctor role
func (u *User) IsDoctor() bool {
	return u.Role == "doctor"
}

// SpecialityOr возвращает специальность врача или fallback, если она не задана
func (u *User) SpecialityOr(fallback string) string {
	if u.Speciality != nil && *u.Speciality != "" {
		return *u.Speciality
	}
	return fallback
}
