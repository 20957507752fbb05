package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
	"github.com/m04kA/SMC-HospitalBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-HospitalBookingService/pkg/psqlbuilder"
)

const table = "appointments"

var columns = []string{
	"id",
	"patient_id",
	"patient_name",
	"patient_email",
	"patient_phone",
	"doctor_id",
	"doctor_name",
	"speciality",
	"date",
	"time",
	"status",
	"reason",
	"notes",
	"created_at",
	"updated_at",
}

// Repository репозиторий записей на приём
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую запись.
// Если ID не задан, генерируется UUID; статус по умолчанию - confirmed.
// Вторая активная запись на тот же слот отклоняется уникальным индексом (ErrActiveSlotTaken).
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = domain.StatusConfirmed
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id",
			"patient_id",
			"patient_name",
			"patient_email",
			"patient_phone",
			"doctor_id",
			"doctor_name",
			"speciality",
			"date",
			"time",
			"status",
			"reason",
			"notes",
		).
		Values(
			a.ID,
			a.PatientID,
			a.PatientName,
			a.PatientEmail,
			a.PatientPhone,
			a.DoctorID,
			a.DoctorName,
			a.Speciality,
			a.Date,
			a.Time,
			a.Status,
			a.Reason,
			a.Notes,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isActiveSlotViolation(err) {
			return nil, ErrActiveSlotTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return a, nil
}

// GetByID получает запись по ID.
// Внутри транзакции строка блокируется (FOR UPDATE).
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %w", ErrScanRow, err)
	}

	return a, nil
}

// Find возвращает записи по фильтру, сначала самые поздние (date DESC, time DESC)
func (r *Repository) Find(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildFindQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Find - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Find - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// FindActiveAt возвращает активную запись на слот или ErrAppointmentNotFound
func (r *Repository) FindActiveAt(ctx context.Context, cell domain.SlotCell) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{
			"doctor_id": cell.DoctorID,
			"date":      cell.Date,
			"time":      cell.Time,
			"status":    activeStatusStrings(),
		}).
		Limit(1)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveAt - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveAt - scan appointment: %w", ErrScanRow, err)
	}

	return a, nil
}

// ActiveTimes возвращает отсортированные метки времени активных записей врача на дату
func (r *Repository) ActiveTimes(ctx context.Context, day domain.DoctorDay) ([]string, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("DISTINCT time").
		From(table).
		Where(squirrel.Eq{
			"doctor_id": day.DoctorID,
			"date":      day.Date,
			"status":    activeStatusStrings(),
		}).
		OrderBy("time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ActiveTimes - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ActiveTimes - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	times := make([]string, 0)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("%w: ActiveTimes - scan time: %w", ErrScanRow, err)
		}
		times = append(times, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ActiveTimes - rows error: %w", ErrScanRow, err)
	}

	return times, nil
}

// Update сохраняет изменяемые поля записи и возвращает её новое состояние
func (r *Repository) Update(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("patient_name", a.PatientName).
		Set("patient_email", a.PatientEmail).
		Set("patient_phone", a.PatientPhone).
		Set("date", a.Date).
		Set("time", a.Time).
		Set("status", a.Status).
		Set("reason", a.Reason).
		Set("notes", a.Notes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": a.ID}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	updated, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		if isActiveSlotViolation(err) {
			return nil, ErrActiveSlotTaken
		}
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	return updated, nil
}

// UpdateStatus меняет статус записи и возвращает предыдущий статус вместе с новой записью
func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) (domain.AppointmentStatus, *domain.Appointment, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return "", nil, err
	}

	prior := current.Status
	current.Status = status

	updated, err := r.Update(ctx, current)
	if err != nil {
		return "", nil, err
	}

	return prior, updated, nil
}

// Delete удаляет запись
func (r *Repository) Delete(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// buildFindQuery строит SELECT по фильтру
func buildFindQuery(filter domain.AppointmentFilter) squirrel.SelectBuilder {
	selectBuilder := psqlbuilder.Select(columns...).From(table)

	if filter.PatientEmail != nil {
		selectBuilder = selectBuilder.Where("LOWER(patient_email) = LOWER(?)", *filter.PatientEmail)
	}
	if filter.DoctorID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"doctor_id": *filter.DoctorID})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	}
	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"date": *filter.Date})
	}

	return selectBuilder.OrderBy("date DESC", "time DESC")
}

func activeStatusStrings() []string {
	out := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		out[i] = string(s)
	}
	return out
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		a                    domain.Appointment
		phone, reason, notes sql.NullString
		status               string
	)

	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.PatientName,
		&a.PatientEmail,
		&phone,
		&a.DoctorID,
		&a.DoctorName,
		&a.Speciality,
		&a.Date,
		&a.Time,
		&status,
		&reason,
		&notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Status = domain.AppointmentStatus(status)
	a.PatientPhone = nullStringPtr(phone)
	a.Reason = nullStringPtr(reason)
	a.Notes = nullStringPtr(notes)

	return &a, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %w", ErrScanRow, err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %w", ErrScanRow, err)
	}

	return appointments, nil
}

func nullStringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
