package rest

import (
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/KotFed0t/stocks_portfolio_api/internal/converter/restConverter"
	"github.com/KotFed0t/stocks_portfolio_api/internal/model"
	"github.com/KotFed0t/stocks_portfolio_api/internal/model/restModel"
	"github.com/KotFed0t/stocks_portfolio_api/internal/snapshotStore"
	"github.com/KotFed0t/stocks_portfolio_api/utils"
	"github.com/gin-gonic/gin"
)

// snapshotRegistry hands each authenticated user their own snapshot
// store, created on first touch. Stores are session-scoped state, not
// shared between users.
type snapshotRegistry struct {
	mu       sync.Mutex
	stores   map[int64]*snapshotStore.Store
	fetcher  snapshotStore.Fetcher
	pageSize int
}

func newSnapshotRegistry(fetcher snapshotStore.Fetcher, pageSize int) *snapshotRegistry {
	return &snapshotRegistry{
		stores:   make(map[int64]*snapshotStore.Store),
		fetcher:  fetcher,
		pageSize: pageSize,
	}
}

func (r *snapshotRegistry) storeFor(userID int64) *snapshotStore.Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, ok := r.stores[userID]
	if !ok {
		store = snapshotStore.New(r.fetcher, r.pageSize)
		r.stores[userID] = store
	}
	return store
}

func parseSeries(raw string) (model.MoverSeries, error) {
	series := model.MoverSeries(raw)
	if series != model.SeriesGainers && series != model.SeriesLosers {
		return "", snapshotStore.ErrUnknownSeries
	}
	return series, nil
}

func (ctrl *Controller) RefreshSnapshot(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)

	store := ctrl.snapshots.storeFor(userIDFromGinCtx(c))
	if err := store.Refresh(ctx); err != nil {
		ctrl.errorResponse(c, ctx, err)
		return
	}

	c.JSON(http.StatusOK, restModel.MessageResponse{Message: "snapshot refreshed"})
}

func (ctrl *Controller) GetSnapshotPage(c *gin.Context) {
	_ = utils.CreateCtxWithRqID(c)

	series, err := parseSeries(c.Param("series"))
	if err != nil {
		ctrl.badRequest(c, err)
		return
	}

	store := ctrl.snapshots.storeFor(userIDFromGinCtx(c))

	page := 1
	if raw := c.Query("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil {
			ctrl.badRequest(c, errors.New("page must be an integer"))
			return
		}
	}

	entries, err := store.LoadPage(series, page)
	if err != nil {
		ctrl.badRequest(c, err)
		return
	}

	total, _ := store.Total(series)
	c.JSON(http.StatusOK, restConverter.SnapshotPageResponse(series, page, store.PageSize(), total, entries))
}

func (ctrl *Controller) SetSnapshotFilters(c *gin.Context) {
	var req restModel.SetFiltersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.badRequest(c, err)
		return
	}

	var sortBy *model.SortBy
	if req.SortBy != nil {
		s := model.SortBy(*req.SortBy)
		sortBy = &s
	}
	var filterBy *model.FilterBy
	if req.FilterBy != nil {
		f := model.FilterBy(*req.FilterBy)
		filterBy = &f
	}

	store := ctrl.snapshots.storeFor(userIDFromGinCtx(c))
	if err := store.SetFilters(sortBy, filterBy); err != nil {
		ctrl.badRequest(c, err)
		return
	}

	appliedSort, appliedFilter := store.Filters()
	c.JSON(http.StatusOK, gin.H{
		"sortBy":   string(appliedSort),
		"filterBy": string(appliedFilter),
	})
}

func (ctrl *Controller) SearchSnapshot(c *gin.Context) {
	ctx := utils.CreateCtxWithRqID(c)

	store := ctrl.snapshots.storeFor(userIDFromGinCtx(c))
	results, err := store.Search(ctx, c.Query("query"))
	if err != nil {
		ctrl.errorResponse(c, ctx, err)
		return
	}

	c.JSON(http.StatusOK, restConverter.SearchResultsResponse(results))
}
