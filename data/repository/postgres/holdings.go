package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/KotFed0t/stocks_portfolio_api/data/repository"
	"github.com/KotFed0t/stocks_portfolio_api/internal/model/dbModel"
	"github.com/KotFed0t/stocks_portfolio_api/utils"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

func (r *Postgres) GetHolding(ctx context.Context, userID int64, symbol string) (holding dbModel.Holding, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		SELECT holding_id, user_id, symbol, quantity, average_price, dt_create, dt_update
		FROM holdings
		WHERE user_id = $1
		AND symbol = $2
		`

	slog.Debug("GetHolding start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			slog.Error("GetHolding failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetHolding completed", slog.String("rqID", rqID))
		}
	}()

	err = r.txOrDb(ctx).GetContext(ctx, &holding, query, userID, symbol)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dbModel.Holding{}, repository.ErrNotFound
		}
		return dbModel.Holding{}, err
	}

	return holding, nil
}

func (r *Postgres) GetHoldings(ctx context.Context, userID int64) (holdings []dbModel.Holding, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		SELECT holding_id, user_id, symbol, quantity, average_price, dt_create, dt_update
		FROM holdings
		WHERE user_id = $1
		ORDER BY symbol
		`

	slog.Debug("GetHoldings start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetHoldings failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetHoldings completed", slog.String("rqID", rqID))
		}
	}()

	err = r.txOrDb(ctx).SelectContext(ctx, &holdings, query, userID)
	if err != nil {
		return nil, err
	}

	return holdings, nil
}

func (r *Postgres) InsertHolding(ctx context.Context, userID int64, symbol string, quantity, averagePrice decimal.Decimal) (holding dbModel.Holding, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		INSERT INTO holdings(user_id, symbol, quantity, average_price)
		VALUES($1, $2, $3, $4)
		RETURNING holding_id, user_id, symbol, quantity, average_price, dt_create, dt_update
		`

	slog.Debug("InsertHolding start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("InsertHolding failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("InsertHolding completed", slog.String("rqID", rqID))
		}
	}()

	err = r.txOrDb(ctx).GetContext(ctx, &holding, query, userID, symbol, quantity, averagePrice)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation on (user_id, symbol)
				return dbModel.Holding{}, repository.ErrAlreadyExists
			}
		}
		return dbModel.Holding{}, err
	}

	return holding, nil
}

func (r *Postgres) UpdateHolding(ctx context.Context, userID int64, symbol string, quantity, averagePrice *decimal.Decimal) (holding dbModel.Holding, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		UPDATE holdings
		SET quantity = COALESCE($3, quantity),
			average_price = COALESCE($4, average_price),
			dt_update = now()
		WHERE user_id = $1
		AND symbol = $2
		RETURNING holding_id, user_id, symbol, quantity, average_price, dt_create, dt_update
		`

	slog.Debug("UpdateHolding start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			slog.Error("UpdateHolding failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("UpdateHolding completed", slog.String("rqID", rqID))
		}
	}()

	err = r.txOrDb(ctx).GetContext(ctx, &holding, query, userID, symbol, quantity, averagePrice)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dbModel.Holding{}, repository.ErrNotFound
		}
		return dbModel.Holding{}, err
	}

	return holding, nil
}

func (r *Postgres) DeleteHolding(ctx context.Context, userID int64, symbol string) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		DELETE FROM holdings
		WHERE user_id = $1
		AND symbol = $2
		`

	slog.Debug("DeleteHolding start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			slog.Error("DeleteHolding failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("DeleteHolding completed", slog.String("rqID", rqID))
		}
	}()

	res, err := r.txOrDb(ctx).ExecContext(ctx, query, userID, symbol)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
