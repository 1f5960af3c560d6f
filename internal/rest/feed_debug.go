package rest

import (
	"context"
	"net/http"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"myShopFeed/domain"
	"myShopFeed/internal/identity"
)

type (
	// FeedDebugHandler exposes the observability sink and the classifier
	// for inspection. Only mounted in development.
	FeedDebugHandler struct {
		validate  *validator.Validate
		inspector FeedInspector
		resolver  *identity.Resolver
	}

	FeedInspector interface {
		RecentSnapshots(n int) []domain.DebugSnapshot
		ProfileSummary(customerKey string) domain.ProfileSummary
		ClassifyByHandle(ctx context.Context, handle string) (*domain.ProductIntelligence, error)
		ResetState(ctx context.Context, customerKey string) error
	}

	SnapshotsQuery struct {
		N int `query:"n" validate:"gte=0,lte=100"`
	}

	ClassifyQuery struct {
		Handle string `query:"handle" validate:"required"`
	}
)

func NewFeedDebugHandler(inspector FeedInspector, resolver *identity.Resolver) *FeedDebugHandler {
	return &FeedDebugHandler{
		validate:  validator.New(),
		inspector: inspector,
		resolver:  resolver,
	}
}

// GET /api/v1/debug/snapshots?n=10
func (h *FeedDebugHandler) Snapshots(c echo.Context) error {
	var q SnapshotsQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.inspector.RecentSnapshots(q.N)))
}

// GET /api/v1/debug/profile
func (h *FeedDebugHandler) Profile(c echo.Context) error {
	id := h.resolver.Resolve(c.Request().Header.Get("Authorization"))
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.inspector.ProfileSummary(id.Key)))
}

// GET /api/v1/debug/classify?handle=slim-jeans
func (h *FeedDebugHandler) Classify(c echo.Context) error {
	var q ClassifyQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	intel, err := h.inspector.ClassifyByHandle(c.Request().Context(), q.Handle)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(intel))
}

// POST /api/v1/debug/reset
func (h *FeedDebugHandler) Reset(c echo.Context) error {
	id := h.resolver.Resolve(c.Request().Header.Get("Authorization"))

	if err := h.inspector.ResetState(c.Request().Context(), id.Key); err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("state reset"))
}
