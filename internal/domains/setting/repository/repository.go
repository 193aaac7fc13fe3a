package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"airpark/infras/otel"
	"airpark/infras/postgres"
	"airpark/internal/domains/setting/model"
	"airpark/shared"
	"airpark/shared/constant"
	"airpark/shared/logger"
	gRepo "airpark/shared/repository"
)

const upsertSettingsQuery = `INSERT INTO reservation_settings (id, max_total_reservations, updated_at, updated_by)
VALUES (:id, :max_total_reservations, :updated_at, :updated_by)
ON CONFLICT (id) DO UPDATE SET
	max_total_reservations = EXCLUDED.max_total_reservations,
	updated_at = EXCLUDED.updated_at,
	updated_by = EXCLUDED.updated_by`

type Setting interface {
	GetSettings(ctx context.Context) (model.ReservationSettings, error)
	UpsertSettings(ctx context.Context, settings model.ReservationSettings) error
	GetStats(ctx context.Context) (model.ReservationStats, error)
}

type repositoryImpl struct {
	settings gRepo.Repository[model.ReservationSettings]
	stats    gRepo.Repository[model.ReservationStats]
	db       *postgres.Connection
	otel     otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Setting {
	return &repositoryImpl{
		settings: gRepo.NewRepository[model.ReservationSettings](model.SettingsEntityName, model.SettingsTableName, model.FieldID, db, otel),
		stats:    gRepo.NewRepository[model.ReservationStats](model.StatsEntityName, model.StatsTableName, model.FieldID, db, otel),
		db:       db,
		otel:     otel,
	}
}

// GetSettings returns the zero value when the row has never been written.
func (r *repositoryImpl) GetSettings(ctx context.Context) (model.ReservationSettings, error) {
	return r.settings.Get(ctx, shared.FilterByID(model.SingletonID, model.FieldID, model.SettingsTableName))
}

func (r *repositoryImpl) UpsertSettings(ctx context.Context, settings model.ReservationSettings) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".setting.UpsertSettings")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	settings.ID = model.SingletonID

	scope.SetAttribute(constant.OtelQueryAttributeKey, upsertSettingsQuery)

	if _, err = r.db.Write.NamedExecContext(ctx, upsertSettingsQuery, settings); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to upsert reservation settings: %w", err)
	}

	return nil
}

func (r *repositoryImpl) GetStats(ctx context.Context) (model.ReservationStats, error) {
	return r.stats.Get(ctx, shared.FilterByID(model.SingletonID, model.FieldID, model.StatsTableName))
}
