package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"airpark/infras/otel"
	"airpark/infras/postgres"
	"airpark/internal/domains/booking/model"
	settingModel "airpark/internal/domains/setting/model"
	"airpark/shared/constant"
	gDto "airpark/shared/dto"
	"airpark/shared/logger"
	gRepo "airpark/shared/repository"

	"github.com/jmoiron/sqlx"
)

// admissionLockKey serializes booking admission across every API and worker process.
const admissionLockKey = 7_240_117

const (
	lockQuery = `SELECT pg_advisory_xact_lock($1)`

	candidatesQuery = `SELECT %s FROM bookings
WHERE status IN (?) AND start_date <= ? AND end_date >= ?`

	findByReferenceQuery = `SELECT %s FROM bookings WHERE payment_reference = $1 LIMIT 1`

	lockBookingQuery = `SELECT %s FROM bookings WHERE id = $1 FOR UPDATE`

	expireQuery = `UPDATE bookings
SET status = ?, expired_at = ?, last_updated = ?, modified_at = ?, modified_by = ?
WHERE id IN (?) AND status IN (?)
RETURNING id, license_plate, end_date, end_time`

	incrementCounterQuery = `INSERT INTO reservation_stats (id, active_bookings_count, updated_at)
VALUES ($1, 1, $2)
ON CONFLICT (id) DO UPDATE SET
	active_bookings_count = reservation_stats.active_bookings_count + 1,
	updated_at = EXCLUDED.updated_at`

	decrementCounterQuery = `UPDATE reservation_stats
SET active_bookings_count = GREATEST(active_bookings_count - $1, 0), updated_at = $2
WHERE id = $3`

	countByStatusQuery = `SELECT status, COUNT(id) AS total FROM bookings GROUP BY status`
)

// AdmitFunc inspects the active bookings sharing dates with a new booking and
// returns an error to refuse it.
type AdmitFunc func(candidates []model.Booking) error

// ChangeFunc inspects a locked booking and the other active bookings sharing
// its dates, and returns the columns to write or an error to refuse the change.
type ChangeFunc func(current model.Booking, candidates []model.Booking) (map[string]any, error)

type StatusCount struct {
	Status string `db:"status"`
	Total  int    `db:"total"`
}

type Booking interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	InsertAdmitted(ctx context.Context, booking model.Booking, admit AdmitFunc) (stored model.Booking, created bool, err error)
	UpdateAdmitted(ctx context.Context, id string, at time.Time, change ChangeFunc) (found bool, err error)
	ExpireBatch(ctx context.Context, ids []string, at time.Time) ([]model.Booking, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// InsertAdmitted stores booking only if admit accepts the overlapping candidates
// read under the admission lock. A booking already carrying the same payment
// reference is returned instead of inserting a duplicate.
func (r *repositoryImpl) InsertAdmitted(ctx context.Context, booking model.Booking, admit AdmitFunc) (stored model.Booking, created bool, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.InsertAdmitted")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	err = r.Transaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, lockQuery, admissionLockKey); err != nil {
			return fmt.Errorf("failed to acquire admission lock: %w", err)
		}

		if booking.PaymentReference != constant.Empty {
			existing, found, err := r.findByReference(ctx, tx, booking.PaymentReference)
			if err != nil {
				return err
			}

			if found {
				stored = existing

				return nil
			}
		}

		candidates, err := r.candidates(ctx, tx, booking.StartDate, booking.EndDate)
		if err != nil {
			return err
		}

		if err = admit(candidates); err != nil {
			return err
		}

		if err = r.InsertTx(ctx, tx, booking); err != nil {
			return err
		}

		if booking.IsActive() {
			if _, err = tx.ExecContext(ctx, incrementCounterQuery, settingModel.SingletonID, booking.LastUpdated); err != nil {
				return fmt.Errorf("failed to increment active bookings counter: %w", err)
			}
		}

		stored = booking
		created = true

		return nil
	})
	if err != nil {
		return model.Booking{}, false, err
	}

	return stored, created, nil
}

// UpdateAdmitted applies change to one booking under the admission lock. The
// display counter follows the row when its status enters or leaves the active set.
func (r *repositoryImpl) UpdateAdmitted(ctx context.Context, id string, at time.Time, change ChangeFunc) (found bool, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.UpdateAdmitted")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	err = r.Transaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, lockQuery, admissionLockKey); err != nil {
			return fmt.Errorf("failed to acquire admission lock: %w", err)
		}

		var current model.Booking

		err := tx.GetContext(ctx, &current, fmt.Sprintf(lockBookingQuery, r.SelectColumns()), id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("failed to lock booking: %w", err)
		}

		found = true

		candidates, err := r.candidates(ctx, tx, current.StartDate, current.EndDate)
		if err != nil {
			return err
		}

		candidates = slices.DeleteFunc(candidates, func(b model.Booking) bool { return b.ID == current.ID })

		fields, err := change(current, candidates)
		if err != nil {
			return err
		}

		filter := gDto.And(gDto.Filter{Field: model.FieldID, Table: model.TableName, Operator: gDto.FilterOperatorEq, Value: id})
		if err = r.UpdateTx(ctx, tx, fields, filter); err != nil {
			return err
		}

		next := current.Status
		if status, ok := fields[model.FieldStatus].(string); ok {
			next = status
		}

		switch {
		case !current.IsActive() && model.IsActiveStatus(next):
			if _, err = tx.ExecContext(ctx, incrementCounterQuery, settingModel.SingletonID, at); err != nil {
				return fmt.Errorf("failed to increment active bookings counter: %w", err)
			}
		case current.IsActive() && !model.IsActiveStatus(next):
			if _, err = tx.ExecContext(ctx, decrementCounterQuery, 1, at, settingModel.SingletonID); err != nil {
				return fmt.Errorf("failed to decrement active bookings counter: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return false, err
	}

	return found, nil
}

func (r *repositoryImpl) findByReference(ctx context.Context, tx *sqlx.Tx, reference string) (model.Booking, bool, error) {
	var existing model.Booking

	err := tx.GetContext(ctx, &existing, fmt.Sprintf(findByReferenceQuery, r.SelectColumns()), reference)
	if errors.Is(err, sql.ErrNoRows) {
		return existing, false, nil
	}

	if err != nil {
		return existing, false, fmt.Errorf("failed to find booking by payment reference: %w", err)
	}

	return existing, true, nil
}

func (r *repositoryImpl) candidates(ctx context.Context, tx *sqlx.Tx, startDate, endDate string) ([]model.Booking, error) {
	query, args, err := sqlx.In(fmt.Sprintf(candidatesQuery, r.SelectColumns()), model.ActiveStatuses, endDate, startDate)
	if err != nil {
		return nil, fmt.Errorf("failed to build candidates query: %w", err)
	}

	var candidates []model.Booking
	if err = tx.SelectContext(ctx, &candidates, tx.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to select overlapping bookings: %w", err)
	}

	return candidates, nil
}

// ExpireBatch moves the given bookings to expired and lowers the display
// counter by the number of rows that actually changed, in one transaction.
// Rows no longer carrying an active status are left untouched.
func (r *repositoryImpl) ExpireBatch(ctx context.Context, ids []string, at time.Time) (expired []model.Booking, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ExpireBatch")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if len(ids) == 0 {
		return nil, nil
	}

	scope.SetAttribute("batch.size", len(ids))

	query, args, err := sqlx.In(expireQuery, model.StatusExpired, at, at, at, constant.ContextSystem, ids, model.ActiveStatuses)
	if err != nil {
		return nil, fmt.Errorf("failed to build expire query: %w", err)
	}

	err = r.Transaction(ctx, func(tx *sqlx.Tx) error {
		if err := tx.SelectContext(ctx, &expired, tx.Rebind(query), args...); err != nil {
			return fmt.Errorf("failed to expire bookings: %w", err)
		}

		if len(expired) == 0 {
			return nil
		}

		if _, err := tx.ExecContext(ctx, decrementCounterQuery, len(expired), at, settingModel.SingletonID); err != nil {
			return fmt.Errorf("failed to decrement active bookings counter: %w", err)
		}

		return nil
	})
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, err
	}

	return expired, nil
}

func (r *repositoryImpl) CountByStatus(ctx context.Context) (counts []StatusCount, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.CountByStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.OtelQueryAttributeKey, countByStatusQuery)

	if err = r.db.Read.SelectContext(ctx, &counts, countByStatusQuery); err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to count bookings by status: %w", err)
	}

	return counts, nil
}
