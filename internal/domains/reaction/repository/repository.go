package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"staybook/infras/otel"
	"staybook/infras/postgres"
	"staybook/internal/domains/reaction/model"
	"staybook/shared/constant"
	"staybook/shared/logger"
	gRepo "staybook/shared/repository"
)

// ErrLocationNotFound is returned when the toggled location does not exist.
var ErrLocationNotFound = errors.New("location not found")

// ToggleResult reports the state after a toggle and the location's
// counters as of the same transaction.
type ToggleResult struct {
	Active       bool
	LikeCount    int
	DislikeCount int
}

type Reaction interface {
	Toggle(ctx context.Context, reaction model.Reaction) (ToggleResult, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Reaction]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Reaction {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Reaction](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// counterColumn maps a reaction kind to the locations counter it drives.
// Favourites keep no counter.
func counterColumn(kind string) string {
	switch kind {
	case model.KindLike:
		return "like_count"
	case model.KindDislike:
		return "dislike_count"
	default:
		return constant.Empty
	}
}

func opposite(kind string) string {
	switch kind {
	case model.KindLike:
		return model.KindDislike
	case model.KindDislike:
		return model.KindLike
	default:
		return constant.Empty
	}
}

// Toggle flips the (user, location, kind) reaction inside one transaction.
// The location row lock serializes concurrent toggles on the same
// location, so the existence check and the counter delta cannot drift
// apart. Adding a like removes an existing dislike from the same pair,
// and the mirror for dislikes.
func (repo *repositoryImpl) Toggle(ctx context.Context, reaction model.Reaction) (res ToggleResult, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reaction.Toggle")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to begin reaction transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logger.ErrorWithStack(rbErr)
			}
		}
	}()

	var lockedID string
	err = tx.GetContext(ctx, &lockedID, "SELECT id FROM locations WHERE id = $1 FOR UPDATE", reaction.LocationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return res, ErrLocationNotFound
		}

		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to lock location: %w", err)
	}

	existing, err := repo.existingID(ctx, tx, reaction.UserID, reaction.LocationID, reaction.Kind)
	if err != nil {
		return res, err
	}

	if existing != constant.Empty {
		if err = repo.remove(ctx, tx, existing, reaction.LocationID, reaction.Kind); err != nil {
			return res, err
		}
	} else {
		if err = repo.add(ctx, tx, reaction); err != nil {
			return res, err
		}

		res.Active = true
	}

	counterQuery := "SELECT like_count, dislike_count FROM locations WHERE id = $1"

	var counters struct {
		LikeCount    int `db:"like_count"`
		DislikeCount int `db:"dislike_count"`
	}

	if err = tx.GetContext(ctx, &counters, counterQuery, reaction.LocationID); err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to read reaction counters: %w", err)
	}

	res.LikeCount = counters.LikeCount
	res.DislikeCount = counters.DislikeCount

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return res, fmt.Errorf("failed to commit reaction transaction: %w", err)
	}

	return res, nil
}

func (repo *repositoryImpl) existingID(ctx context.Context, tx *sqlx.Tx, userID, locationID, kind string) (string, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1 AND %s = $2 AND %s = $3",
		model.FieldID, model.TableName, model.FieldUserID, model.FieldLocationID, model.FieldKind,
	)

	var id string
	if err := tx.GetContext(ctx, &id, query, userID, locationID, kind); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return constant.Empty, nil
		}

		logger.ErrorWithStack(err)

		return constant.Empty, fmt.Errorf("failed to look up reaction: %w", err)
	}

	return id, nil
}

func (repo *repositoryImpl) applyCounter(ctx context.Context, tx *sqlx.Tx, locationID, kind string, delta int) error {
	column := counterColumn(kind)
	if column == constant.Empty {
		return nil
	}

	query := fmt.Sprintf("UPDATE locations SET %s = %s + $1 WHERE id = $2", column, column)

	if _, err := tx.ExecContext(ctx, query, delta, locationID); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to update reaction counter: %w", err)
	}

	return nil
}

func (repo *repositoryImpl) add(ctx context.Context, tx *sqlx.Tx, reaction model.Reaction) error {
	// A like displaces an existing dislike and vice versa.
	if opp := opposite(reaction.Kind); opp != constant.Empty {
		oppID, err := repo.existingID(ctx, tx, reaction.UserID, reaction.LocationID, opp)
		if err != nil {
			return err
		}

		if oppID != constant.Empty {
			if err = repo.remove(ctx, tx, oppID, reaction.LocationID, opp); err != nil {
				return err
			}
		}
	}

	if err := repo.InsertTx(ctx, tx, reaction); err != nil {
		return err
	}

	return repo.applyCounter(ctx, tx, reaction.LocationID, reaction.Kind, 1)
}

func (repo *repositoryImpl) remove(ctx context.Context, tx *sqlx.Tx, reactionID, locationID, kind string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", model.TableName, model.FieldID)

	if _, err := tx.ExecContext(ctx, query, reactionID); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to delete reaction: %w", err)
	}

	return repo.applyCounter(ctx, tx, locationID, kind, -1)
}
