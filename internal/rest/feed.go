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
	FeedHandler struct {
		validate *validator.Validate
		sessions FeedSessions
		resolver *identity.Resolver
	}

	// FeedService is the per-customer feed surface the handler drives.
	FeedService interface {
		BuildPage(ctx context.Context, req PageParams) (domain.FeedPage, error)
		RecordView(ctx context.Context, handle string)
		RecordAddToCart(ctx context.Context, handle string)
		ApplyProfileEvent(ctx context.Context, ev domain.ProfileEvent)
		DeclarePreference(ctx context.Context, prefersEco bool)
	}

	// FeedSessions hands out the feed service scoped to one customer key.
	FeedSessions interface {
		ServiceFor(customerKey string) FeedService
	}

	// PageParams mirrors feed.PageRequest without importing the business
	// package into the transport layer.
	PageParams struct {
		SeedHandle   string
		PageDepth    int
		PageSize     int
		Seed         string
		IncludeDebug bool
	}

	PageQuery struct {
		Seed  string `query:"seed" validate:"required"`
		Page  int    `query:"page" validate:"gte=0"`
		Size  int    `query:"size" validate:"gte=0,lte=50"`
		Token string `query:"token"`
		Debug bool   `query:"debug"`
	}

	InteractionRequest struct {
		Handle    string `json:"handle" validate:"required"`
		EventType string `json:"event_type" validate:"required,oneof=view atc"`
	}

	PreferenceRequest struct {
		PrefersEco *bool `json:"prefers_eco" validate:"required"`
	}

	ProfileEventRequest struct {
		Type     string   `json:"type" validate:"required,oneof=product_open product_view collection_open"`
		Handle   string   `json:"handle"`
		Category string   `json:"category"`
		Vendor   string   `json:"vendor"`
		Terms    []string `json:"terms"`
	}
)

func NewFeedHandler(sessions FeedSessions, resolver *identity.Resolver) *FeedHandler {
	return &FeedHandler{
		validate: validator.New(),
		sessions: sessions,
		resolver: resolver,
	}
}

func (h *FeedHandler) service(c echo.Context) FeedService {
	id := h.resolver.Resolve(c.Request().Header.Get("Authorization"))
	return h.sessions.ServiceFor(id.Key)
}

// GET /api/v1/feed?seed=slim-jeans&page=0&size=12&debug=1
func (h *FeedHandler) GetPage(c echo.Context) error {
	var q PageQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	page, err := h.service(c).BuildPage(c.Request().Context(), PageParams{
		SeedHandle:   q.Seed,
		PageDepth:    q.Page,
		PageSize:     q.Size,
		Seed:         q.Token,
		IncludeDebug: q.Debug,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(page))
}

// POST /api/v1/feed/events
func (h *FeedHandler) RecordInteraction(c echo.Context) error {
	var req InteractionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	svc := h.service(c)
	switch req.EventType {
	case domain.InteractionAddToCart:
		svc.RecordAddToCart(c.Request().Context(), req.Handle)
	default:
		svc.RecordView(c.Request().Context(), req.Handle)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated("event recorded"))
}

// POST /api/v1/feed/profile/events
func (h *FeedHandler) ApplyProfileEvent(c echo.Context) error {
	var req ProfileEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	h.service(c).ApplyProfileEvent(c.Request().Context(), domain.ProfileEvent{
		Type:     req.Type,
		Handle:   req.Handle,
		Category: req.Category,
		Vendor:   req.Vendor,
		Terms:    req.Terms,
	})

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated("profile event applied"))
}

// PUT /api/v1/feed/profile/preference
func (h *FeedHandler) DeclarePreference(c echo.Context) error {
	var req PreferenceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	h.service(c).DeclarePreference(c.Request().Context(), *req.PrefersEco)

	return c.JSON(http.StatusOK, fres.Response.StatusOK("preference recorded"))
}
