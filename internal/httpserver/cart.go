package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/craftsphere/marketplace/internal/logging"
	"github.com/craftsphere/marketplace/internal/middleware"
	"github.com/craftsphere/marketplace/internal/mykafka"
	"github.com/craftsphere/marketplace/internal/service/cart"
	"github.com/craftsphere/marketplace/internal/transport"
)

type CartHTTP struct {
	Svc      *cart.Service
	Producer *mykafka.Producer
}

func (h *CartHTTP) userID(c echo.Context) string {
	s, _ := c.Get(middleware.CtxUserID).(string)
	return s
}

// cartError translates the cart service's sentinel errors to HTTP codes.
func cartError(l *slog.Logger, op string, err error) *echo.HTTPError {
	switch {
	case errors.Is(err, cart.ErrMissingArgument), errors.Is(err, cart.ErrInvalidInput):
		l.Warn(op, "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, cart.ErrNotFound):
		l.Warn(op, "status", 404, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		l.Error(op, "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	lines, err := h.Svc.GetCart(ctx, h.userID(c))
	if err != nil {
		return cartError(l, "get_cart_error", err)
	}

	l.Info("get_cart_success", "items", len(lines))
	return c.JSON(http.StatusOK, lines)
}

func (h *CartHTTP) GetProductQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_quantity")

	quantity, err := h.Svc.GetCartProductQuantity(ctx, h.userID(c), c.Param("productID"))
	if err != nil {
		return cartError(l, "get_quantity_error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"product_id": c.Param("productID"),
		"quantity":   quantity,
	})
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	userID := h.userID(c)
	productID := c.Param("productID")

	res, err := h.Svc.AddItem(ctx, userID, productID)
	if err != nil {
		return cartError(l, "add_item_error", err)
	}

	if res.Success {
		publish(c, h.Producer, mykafka.TopicCartEvents, userID, map[string]any{
			"type":       "cart_item_added",
			"user_id":    userID,
			"product_id": productID,
		})
	}

	l.Info("add_item_done", "success", res.Success, "message", res.Message)
	return c.JSON(http.StatusOK, res)
}

func (h *CartHTTP) DeleteItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.delete_item")

	userID := h.userID(c)
	productID := c.Param("productID")

	res, err := h.Svc.DeleteItem(ctx, userID, productID)
	if err != nil {
		return cartError(l, "delete_item_error", err)
	}

	publish(c, h.Producer, mykafka.TopicCartEvents, userID, map[string]any{
		"type":       "cart_item_removed",
		"user_id":    userID,
		"product_id": productID,
	})

	l.Info("delete_item_done", "message", res.Message)
	return c.JSON(http.StatusOK, res)
}

func (h *CartHTTP) ChangeProductAmount(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.change_amount")

	var req transport.ChangeAmountRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("change_amount_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.ChangeProductAmount(ctx, h.userID(c), c.Param("productID"), req.Amount)
	if err != nil {
		return cartError(l, "change_amount_error", err)
	}

	l.Info("change_amount_done", "message", res.Message, "quantity", res.Quantity)
	return c.JSON(http.StatusOK, res)
}

func (h *CartHTTP) RemoveCompleteItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_complete_item")

	res, err := h.Svc.RemoveCompleteItem(ctx, h.userID(c), c.Param("productID"))
	if err != nil {
		return cartError(l, "remove_complete_item_error", err)
	}

	l.Info("remove_complete_item_done", "message", res.Message)
	return c.JSON(http.StatusOK, res)
}

func (h *CartHTTP) RemoveCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_cart")

	userID := h.userID(c)

	res, err := h.Svc.RemoveCart(ctx, userID)
	if err != nil {
		return cartError(l, "remove_cart_error", err)
	}

	publish(c, h.Producer, mykafka.TopicCartEvents, userID, map[string]any{
		"type":    "cart_removed",
		"user_id": userID,
	})

	l.Info("remove_cart_done")
	return c.JSON(http.StatusOK, res)
}

func (h *CartHTTP) RemoveProductFromAllCarts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_product_everywhere")

	productID := c.Param("productID")

	res, err := h.Svc.RemoveProductFromAllCarts(ctx, productID)
	if err != nil {
		return cartError(l, "remove_product_everywhere_error", err)
	}

	publish(c, h.Producer, mykafka.TopicCartEvents, productID, map[string]any{
		"type":       "product_removed_from_all_carts",
		"product_id": productID,
	})

	l.Info("remove_product_everywhere_done")
	return c.JSON(http.StatusOK, res)
}
