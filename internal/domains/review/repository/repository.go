package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"staybook/infras/otel"
	"staybook/infras/postgres"
	"staybook/internal/domains/review/model"
	"staybook/shared/constant"
	gDto "staybook/shared/dto"
	"staybook/shared/logger"
	gRepo "staybook/shared/repository"
)

// ErrDuplicateReview is returned when the (user, location) pair already
// has a review.
var ErrDuplicateReview = errors.New("review already exists for this user and location")

type Review interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Review, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Review, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	CreateWithRating(ctx context.Context, review model.Review) error
	DeleteWithRating(ctx context.Context, reviewID, locationID string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Review]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Review {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Review](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// recomputeRatingQuery re-reads the full review set; the stored rating is
// always the mean of what currently exists, or 0 with no reviews.
const recomputeRatingQuery = `UPDATE locations SET rating = COALESCE(
	(SELECT AVG(rating) FROM reviews WHERE location_id = $1), 0
) WHERE id = $1`

func (repo *repositoryImpl) recomputeRating(ctx context.Context, tx *sqlx.Tx, locationID string) error {
	if _, err := tx.ExecContext(ctx, recomputeRatingQuery, locationID); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to recompute location rating: %w", err)
	}

	return nil
}

// CreateWithRating inserts the review and recomputes the location's mean
// rating in one transaction. A unique violation on (user_id, location_id)
// surfaces as ErrDuplicateReview and leaves the stored rating untouched.
func (repo *repositoryImpl) CreateWithRating(ctx context.Context, review model.Review) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".review.CreateWithRating")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin review transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logger.ErrorWithStack(rbErr)
			}
		}
	}()

	if err = repo.InsertTx(ctx, tx, review); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation {
			return ErrDuplicateReview
		}

		return err
	}

	if err = repo.recomputeRating(ctx, tx, review.LocationID); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit review transaction: %w", err)
	}

	return nil
}

// DeleteWithRating removes the review and recomputes the location's mean
// rating in one transaction.
func (repo *repositoryImpl) DeleteWithRating(ctx context.Context, reviewID, locationID string) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".review.DeleteWithRating")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin review transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logger.ErrorWithStack(rbErr)
			}
		}
	}()

	deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", model.TableName, model.FieldID)

	if _, err = tx.ExecContext(ctx, deleteQuery, reviewID); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to delete review: %w", err)
	}

	if err = repo.recomputeRating(ctx, tx, locationID); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit review transaction: %w", err)
	}

	return nil
}
