package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"staybook/infras/otel"
	"staybook/infras/postgres"
	"staybook/internal/domains/booking/model"
	locationModel "staybook/internal/domains/location/model"
	"staybook/shared/constant"
	gDto "staybook/shared/dto"
	"staybook/shared/logger"
	gRepo "staybook/shared/repository"
	"staybook/shared/timezone"
)

var (
	// ErrBookingConflict is returned when a confirmed booking already
	// covers part of the requested interval.
	ErrBookingConflict = errors.New("booking conflicts with a confirmed booking")

	// ErrLocationNotFound is returned when the booked location does not exist.
	ErrLocationNotFound = errors.New("location not found")
)

type Booking interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	CreateChecked(ctx context.Context, booking model.Booking) error
	ExistsConfirmedOverlap(ctx context.Context, locationID string, start, end time.Time) (bool, error)
	OverlappingLocationIDs(ctx context.Context, start, end time.Time) ([]string, error)
	ActiveLocationIDs(ctx context.Context, now time.Time) ([]string, error)
	GetByActivationCode(ctx context.Context, code string) (model.Booking, error)
	Confirm(ctx context.Context, id string) error
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

// overlapQuery matches every confirmed booking whose half-open interval
// overlaps [:start_time, :end_time). Back-to-back bookings do not match.
const overlapQuery = `SELECT EXISTS(
	SELECT 1 FROM bookings
	WHERE location_id = :location_id
	AND confirmed = TRUE
	AND start_time < :end_time
	AND end_time > :start_time
)`

func (repo *repositoryImpl) ExistsConfirmedOverlap(ctx context.Context, locationID string, start, end time.Time) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ExistsConfirmedOverlap")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, overlapQuery)

	args := map[string]any{
		"location_id": locationID,
		"start_time":  start,
		"end_time":    end,
	}

	exists := false

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, overlapQuery)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to check booking overlap: %w", err)
	}
	defer prepare.Close()

	if err := prepare.GetContext(ctx, &exists, args); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to check booking overlap: %w", err)
	}

	return exists, nil
}

// CreateChecked inserts a booking after re-checking availability inside a
// single transaction. The location row is locked first so that two
// concurrent requests for the same location serialize; this closes the
// race between the availability check and the insert.
func (repo *repositoryImpl) CreateChecked(ctx context.Context, booking model.Booking) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.CreateChecked")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin booking transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logger.ErrorWithStack(rbErr)
			}
		}
	}()

	var lockedID string

	lockQuery := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 FOR UPDATE", locationModel.FieldID, locationModel.TableName, locationModel.FieldID)
	scope.SetAttribute(constant.OtelQueryAttributeKey, lockQuery)

	if err = tx.GetContext(ctx, &lockedID, lockQuery, booking.LocationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrLocationNotFound
		}

		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to lock location row: %w", err)
	}

	exists := false

	prepare, err := tx.PrepareNamedContext(ctx, overlapQuery)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to check booking overlap: %w", err)
	}
	defer prepare.Close()

	args := map[string]any{
		"location_id": booking.LocationID,
		"start_time":  booking.StartTime,
		"end_time":    booking.EndTime,
	}

	if err = prepare.GetContext(ctx, &exists, args); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to check booking overlap: %w", err)
	}

	if exists {
		return ErrBookingConflict
	}

	if err = repo.InsertTx(ctx, tx, booking); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit booking transaction: %w", err)
	}

	return nil
}

// OverlappingLocationIDs returns the ids of locations having at least one
// confirmed booking overlapping [start, end).
func (repo *repositoryImpl) OverlappingLocationIDs(ctx context.Context, start, end time.Time) ([]string, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.OverlappingLocationIDs")
	defer scope.End()

	query := `SELECT DISTINCT location_id FROM bookings
	WHERE confirmed = TRUE
	AND start_time < :end_time
	AND end_time > :start_time`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	args := map[string]any{
		"start_time": start,
		"end_time":   end,
	}

	ids := []string{}

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to list overlapping locations: %w", err)
	}
	defer prepare.Close()

	if err := prepare.SelectContext(ctx, &ids, args); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to list overlapping locations: %w", err)
	}

	return ids, nil
}

// ActiveLocationIDs returns the ids of locations with a confirmed booking
// covering the given instant.
func (repo *repositoryImpl) ActiveLocationIDs(ctx context.Context, now time.Time) ([]string, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ActiveLocationIDs")
	defer scope.End()

	query := `SELECT DISTINCT location_id FROM bookings
	WHERE confirmed = TRUE
	AND start_time <= :now
	AND end_time > :now`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	ids := []string{}

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to list active locations: %w", err)
	}
	defer prepare.Close()

	if err := prepare.SelectContext(ctx, &ids, map[string]any{"now": now}); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to list active locations: %w", err)
	}

	return ids, nil
}

func (repo *repositoryImpl) GetByActivationCode(ctx context.Context, code string) (model.Booking, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.GetByActivationCode")
	defer scope.End()

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldActivationCode,
				Value:    code,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}

	return repo.Repository.Get(ctx, filter)
}

// siblingOverlapQuery matches every other confirmed booking overlapping
// the given booking's interval.
const siblingOverlapQuery = `SELECT EXISTS(
	SELECT 1 FROM bookings
	WHERE location_id = :location_id
	AND id <> :id
	AND confirmed = TRUE
	AND start_time < :end_time
	AND end_time > :start_time
)`

// Confirm flips the confirmed flag. Confirming an already-confirmed
// booking is a no-op. Two overlapping pending bookings can both exist,
// so confirmation re-checks for confirmed siblings inside a transaction
// with the location row locked: the first redeemed token wins and the
// second gets ErrBookingConflict.
func (repo *repositoryImpl) Confirm(ctx context.Context, id string) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Confirm")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin confirmation transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logger.ErrorWithStack(rbErr)
			}
		}
	}()

	booking := model.Booking{}

	getQuery := `SELECT id, location_id, start_time, end_time, confirmed FROM bookings WHERE id = $1`

	if err = tx.GetContext(ctx, &booking, getQuery, id); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to get booking for confirmation: %w", err)
	}

	var lockedID string

	lockQuery := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 FOR UPDATE", locationModel.FieldID, locationModel.TableName, locationModel.FieldID)
	scope.SetAttribute(constant.OtelQueryAttributeKey, lockQuery)

	if err = tx.GetContext(ctx, &lockedID, lockQuery, booking.LocationID); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to lock location row: %w", err)
	}

	// Re-read under the lock; a concurrent redemption may have won.
	confirmed := false

	if err = tx.GetContext(ctx, &confirmed, "SELECT confirmed FROM bookings WHERE id = $1", id); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to re-read booking state: %w", err)
	}

	if confirmed {
		if err = tx.Commit(); err != nil {
			logger.ErrorWithStack(err)

			return fmt.Errorf("failed to commit confirmation transaction: %w", err)
		}

		return nil
	}

	exists := false

	prepare, err := tx.PrepareNamedContext(ctx, siblingOverlapQuery)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to check confirmed siblings: %w", err)
	}
	defer prepare.Close()

	args := map[string]any{
		"id":          booking.ID,
		"location_id": booking.LocationID,
		"start_time":  booking.StartTime,
		"end_time":    booking.EndTime,
	}

	if err = prepare.GetContext(ctx, &exists, args); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to check confirmed siblings: %w", err)
	}

	if exists {
		return ErrBookingConflict
	}

	updateQuery := `UPDATE bookings SET confirmed = TRUE, modified_at = :modified_at WHERE id = :id`

	if _, err = tx.NamedExecContext(ctx, updateQuery, map[string]any{"id": id, "modified_at": timezone.Now()}); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to confirm booking: %w", err)
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit confirmation transaction: %w", err)
	}

	return nil
}
