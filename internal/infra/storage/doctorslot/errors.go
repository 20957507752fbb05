package doctorslot

import "errors"

var (
	// ErrDoctorSlotNotFound возвращается, когда расписания врача на дату ещё нет
	ErrDoctorSlotNotFound = errors.New("doctorslot.repository: doctor slot not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("doctorslot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("doctorslot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("doctorslot.repository: failed to scan row")
)
