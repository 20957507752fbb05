package doctorslot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
	"github.com/m04kA/SMC-HospitalBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-HospitalBookingService/pkg/psqlbuilder"
)

const table = "doctor_slots"

// Repository репозиторий расписаний врачей по датам
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает расписание врача на дату.
// Внутри транзакции строка блокируется (FOR UPDATE).
func (r *Repository) Get(ctx context.Context, day domain.DoctorDay) (*domain.DoctorSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"doctor_id",
		"date",
		"available_slots",
		"booked_slots",
		"is_available",
		"created_at",
		"updated_at",
	).
		From(table).
		Where(squirrel.Eq{"doctor_id": day.DoctorID, "date": day.Date})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var (
		slot      domain.DoctorSlot
		available pq.StringArray
		booked    pq.StringArray
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&slot.DoctorID,
		&slot.Date,
		&available,
		&booked,
		&slot.IsAvailable,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDoctorSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan doctor slot: %w", ErrScanRow, err)
	}

	slot.AvailableSlots = nonNil(available)
	slot.BookedSlots = nonNil(booked)

	return &slot, nil
}

// Upsert создает или полностью перезаписывает расписание на (doctor_id, date)
func (r *Repository) Upsert(ctx context.Context, slot *domain.DoctorSlot) (*domain.DoctorSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"doctor_id",
			"date",
			"available_slots",
			"booked_slots",
			"is_available",
		).
		Values(
			slot.DoctorID,
			slot.Date,
			pq.Array(nonNil(slot.AvailableSlots)),
			pq.Array(nonNil(slot.BookedSlots)),
			slot.IsAvailable,
		).
		Suffix(`ON CONFLICT (doctor_id, date) DO UPDATE SET
			available_slots = EXCLUDED.available_slots,
			booked_slots = EXCLUDED.booked_slots,
			is_available = EXCLUDED.is_available,
			updated_at = NOW()
		RETURNING created_at, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	saved := slot.Clone()
	err = executor.QueryRowContext(ctx, query, args...).Scan(&saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute upsert: %w", ErrExecQuery, err)
	}

	saved.AvailableSlots = nonNil(saved.AvailableSlots)
	saved.BookedSlots = nonNil(saved.BookedSlots)

	return saved, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
