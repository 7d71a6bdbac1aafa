package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/craftsphere/marketplace/internal/logging"
	"github.com/craftsphere/marketplace/internal/service/request"
	"github.com/craftsphere/marketplace/internal/transport"
)

type RequestHTTP struct {
	Svc *request.Service
}

func (h *RequestHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "request.add")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("add_request_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.CreateCustomRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_request_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	created, err := h.Svc.Add(ctx, userID, req.Title, req.Type, req.Image, req.Description, req.Budget, req.RequiredBy)
	if err != nil {
		if errors.Is(err, request.ErrValidation) {
			l.Warn("add_request_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("add_request_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create request")
	}

	l.Info("add_request_success", "request_id", created.ID)
	return c.JSON(http.StatusCreated, created)
}

func (h *RequestHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "request.get")

	id, err := parseParamID(c, "id")
	if err != nil {
		l.Warn("get_request_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	found, err := h.Svc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, request.ErrNotFound) {
			l.Warn("get_request_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "request not found")
		}
		l.Error("get_request_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get request")
	}

	return c.JSON(http.StatusOK, found)
}

func (h *RequestHTTP) ListMine(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "request.list_mine")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("list_requests_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	items, err := h.Svc.ListByUser(ctx, userID)
	if err != nil {
		l.Error("list_requests_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list requests")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *RequestHTTP) ListOpen(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "request.list_open")

	items, err := h.Svc.ListOpen(ctx)
	if err != nil {
		l.Error("list_open_requests_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list requests")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *RequestHTTP) Approve(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "request.approve")

	artisanID, err := getUserID(c)
	if err != nil {
		l.Error("approve_request_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	requestID, err := parseParamID(c, "id")
	if err != nil {
		l.Warn("approve_request_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.Svc.Approve(ctx, requestID, artisanID); err != nil {
		switch {
		case errors.Is(err, request.ErrNotFound):
			l.Warn("approve_request_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "request not found")
		case errors.Is(err, request.ErrConflict):
			l.Warn("approve_request_error", "status", 409, "error", err)
			return echo.NewHTTPError(http.StatusConflict, "request already accepted")
		default:
			l.Error("approve_request_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot approve request")
		}
	}

	l.Info("approve_request_success", "request_id", requestID)
	return c.JSON(http.StatusOK, echo.Map{
		"request_id": requestID,
		"accepted":   true,
	})
}

func (h *RequestHTTP) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "request.remove")

	requestID, err := parseParamID(c, "id")
	if err != nil {
		l.Warn("remove_request_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.Svc.Delete(ctx, requestID); err != nil {
		if errors.Is(err, request.ErrNotFound) {
			l.Warn("remove_request_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "request not found")
		}
		l.Error("remove_request_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot remove request")
	}

	l.Info("remove_request_success", "request_id", requestID)
	return c.NoContent(http.StatusNoContent)
}
