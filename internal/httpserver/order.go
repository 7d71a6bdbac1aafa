package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/craftsphere/marketplace/internal/logging"
	"github.com/craftsphere/marketplace/internal/mykafka"
	"github.com/craftsphere/marketplace/internal/service/order"
	"github.com/craftsphere/marketplace/internal/util"
)

type OrderHTTP struct {
	Svc      *order.Service
	Producer *mykafka.Producer
}

func (h *OrderHTTP) CheckoutEstimate(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.estimate")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("estimate_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	estimate, err := h.Svc.CheckoutEstimate(ctx, userID)
	if err != nil {
		if errors.Is(err, order.ErrValidation) {
			l.Warn("estimate_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("estimate_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot build estimate")
	}

	return c.JSON(http.StatusOK, estimate)
}

func (h *OrderHTTP) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.place")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("place_order_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	placed, err := h.Svc.PlaceOrder(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrValidation):
			l.Warn("place_order_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, order.ErrConflict):
			l.Warn("place_order_error", "status", 409, "error", err)
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			l.Error("place_order_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot place order")
		}
	}

	publish(c, h.Producer, mykafka.TopicOrderEvents, userID.String(), map[string]any{
		"type":     "order_placed",
		"order_id": placed.ID.String(),
		"user_id":  userID.String(),
		"total":    placed.Total,
	})

	l.Info("place_order_success", "order_id", placed.ID, "total", placed.Total)
	return c.JSON(http.StatusCreated, placed)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("get_order_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orderID, err := parseParamID(c, "id")
	if err != nil {
		l.Warn("get_order_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	found, err := h.Svc.GetOrder(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			l.Warn("get_order_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		l.Error("get_order_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get order")
	}

	return c.JSON(http.StatusOK, found)
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("list_orders_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	orders, err := h.Svc.ListOrders(ctx, userID, offset, limit)
	if err != nil {
		l.Error("list_orders_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list orders")
	}

	return c.JSON(http.StatusOK, orders)
}
