package resthandler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/tiero/limitd/internal/core/application"
	"github.com/tiero/limitd/internal/core/domain"
)

type PlaceLimitHandler interface {
	Register(e *echo.Echo)
}

type placeLimitHandler struct {
	placeLimitSvc application.PlaceLimitService
}

func NewPlaceLimitHandler(
	placeLimitService application.PlaceLimitService,
) PlaceLimitHandler {
	return &placeLimitHandler{
		placeLimitSvc: placeLimitService,
	}
}

func (h *placeLimitHandler) Register(e *echo.Echo) {
	e.GET("/markets", h.markets)

	e.POST("/sessions", h.openSession)
	e.GET("/sessions/:id", h.getSession)
	e.DELETE("/sessions/:id", h.closeSession)
	e.PUT("/sessions/:id/market", h.setMarket)
	e.PUT("/sessions/:id/:field", h.setField)
	e.POST("/sessions/:id/reset", h.resetPrice)
	e.POST("/sessions/:id/refresh", h.refresh)
	e.POST("/sessions/:id/orders", h.placeOrder)
	e.GET("/sessions/:id/stream", h.stream)
}

func (h *placeLimitHandler) markets(c echo.Context) error {
	mkts, err := h.placeLimitSvc.GetTradableMarkets(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	markets := make([]Market, 0, len(mkts))
	for _, m := range mkts {
		markets = append(markets, newMarket(m))
	}
	return c.JSON(http.StatusOK, MarketsReply{Markets: markets})
}

func (h *placeLimitHandler) openSession(c echo.Context) error {
	req := new(OpenSessionRequest)
	if err := c.Bind(req); err != nil {
		return err
	}
	if err := validateOpenSessionRequest(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	preview, err := h.placeLimitSvc.OpenSession(c.Request().Context(), application.SessionOpts{
		Account:    req.Account,
		BaseDenom:  req.BaseDenom,
		QuoteDenom: req.QuoteDenom,
		Direction:  domain.OrderDirection(req.Direction),
		OrderType:  domain.OrderType(req.Type),
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, newPreview(preview))
}

func (h *placeLimitHandler) getSession(c echo.Context) error {
	preview, err := h.placeLimitSvc.GetPreview(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, newPreview(preview))
}

func (h *placeLimitHandler) closeSession(c echo.Context) error {
	if err := h.placeLimitSvc.CloseSession(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *placeLimitHandler) setMarket(c echo.Context) error {
	req := new(SetMarketRequest)
	if err := c.Bind(req); err != nil {
		return err
	}

	preview, err := h.placeLimitSvc.SetMarket(
		c.Request().Context(), c.Param("id"), req.BaseDenom, req.QuoteDenom,
	)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, newPreview(preview))
}

// setField applies one of the user inputs of the order form. Price, percent
// and amount are free text: what can't be parsed is kept for display and
// ignored by the valuation.
func (h *placeLimitHandler) setField(c echo.Context) error {
	req := new(ValueRequest)
	if err := c.Bind(req); err != nil {
		return err
	}

	var (
		ctx     = c.Request().Context()
		id      = c.Param("id")
		preview *application.OrderPreview
		err     error
	)
	switch c.Param("field") {
	case "direction":
		preview, err = h.placeLimitSvc.SetDirection(ctx, id, domain.OrderDirection(req.Value))
	case "type":
		preview, err = h.placeLimitSvc.SetOrderType(ctx, id, domain.OrderType(req.Value))
	case "price":
		preview, err = h.placeLimitSvc.SetPrice(ctx, id, req.Value)
	case "percent":
		preview, err = h.placeLimitSvc.SetPercent(ctx, id, req.Value)
	case "amount":
		preview, err = h.placeLimitSvc.SetAmount(ctx, id, req.Value)
	default:
		return echo.ErrNotFound
	}
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, newPreview(preview))
}

func (h *placeLimitHandler) resetPrice(c echo.Context) error {
	preview, err := h.placeLimitSvc.ResetPrice(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, newPreview(preview))
}

func (h *placeLimitHandler) refresh(c echo.Context) error {
	preview, err := h.placeLimitSvc.Refresh(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, newPreview(preview))
}

func (h *placeLimitHandler) placeOrder(c echo.Context) error {
	res, err := h.placeLimitSvc.PlaceOrder(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	status := http.StatusCreated
	if res.Outcome == application.OutcomeSkipped {
		status = http.StatusOK
	}
	return c.JSON(status, newOrder(res))
}

func httpError(err error) error {
	switch {
	case errors.Is(err, application.ErrSessionNotFound),
		errors.Is(err, application.ErrMarketNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, application.ErrOrderInFlight):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidDirection),
		errors.Is(err, domain.ErrInvalidOrderType),
		errors.Is(err, application.ErrInvalidAccount),
		errors.Is(err, application.ErrInvalidDenom):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, application.ErrSubmissionFailed):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	log.WithError(err).Debug("trying to serve request")
	return echo.NewHTTPError(http.StatusInternalServerError, "cannot serve request please retry")
}
