package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/craftsphere/marketplace/internal/logging"
	"github.com/craftsphere/marketplace/internal/service/workshop"
	"github.com/craftsphere/marketplace/internal/transport"
)

type WorkshopHTTP struct {
	Svc *workshop.Service
}

func (h *WorkshopHTTP) Book(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "workshop.book")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("book_workshop_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.BookWorkshopRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("book_workshop_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	booked, err := h.Svc.Book(ctx, userID, req.Title, req.Description, req.Date, req.Time)
	if err != nil {
		if errors.Is(err, workshop.ErrValidation) {
			l.Warn("book_workshop_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("book_workshop_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot book workshop")
	}

	l.Info("book_workshop_success", "workshop_id", booked.ID)
	return c.JSON(http.StatusCreated, booked)
}

func (h *WorkshopHTTP) ListMine(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "workshop.list_mine")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("list_workshops_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	items, err := h.Svc.ListByUser(ctx, userID)
	if err != nil {
		l.Error("list_workshops_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list workshops")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *WorkshopHTTP) ListAvailable(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "workshop.list_available")

	items, err := h.Svc.ListAvailable(ctx)
	if err != nil {
		l.Error("list_available_workshops_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list workshops")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *WorkshopHTTP) ListAccepted(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "workshop.list_accepted")

	artisanID, err := getUserID(c)
	if err != nil {
		l.Error("list_accepted_workshops_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	items, err := h.Svc.ListAccepted(ctx, artisanID)
	if err != nil {
		l.Error("list_accepted_workshops_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list workshops")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *WorkshopHTTP) Accept(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "workshop.accept")

	artisanID, err := getUserID(c)
	if err != nil {
		l.Error("accept_workshop_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	workshopID, err := parseParamID(c, "id")
	if err != nil {
		l.Warn("accept_workshop_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	accepted, err := h.Svc.Accept(ctx, workshopID, artisanID)
	if err != nil {
		switch {
		case errors.Is(err, workshop.ErrNotFound):
			l.Warn("accept_workshop_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "workshop not found")
		case errors.Is(err, workshop.ErrConflict):
			l.Warn("accept_workshop_error", "status", 409, "error", err)
			return echo.NewHTTPError(http.StatusConflict, "workshop already accepted")
		default:
			l.Error("accept_workshop_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot accept workshop")
		}
	}

	l.Info("accept_workshop_success", "workshop_id", workshopID)
	return c.JSON(http.StatusOK, accepted)
}

func (h *WorkshopHTTP) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "workshop.remove")

	workshopID, err := parseParamID(c, "id")
	if err != nil {
		l.Warn("remove_workshop_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.Svc.Remove(ctx, workshopID); err != nil {
		if errors.Is(err, workshop.ErrNotFound) {
			l.Warn("remove_workshop_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "workshop not found")
		}
		l.Error("remove_workshop_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot remove workshop")
	}

	l.Info("remove_workshop_success", "workshop_id", workshopID)
	return c.NoContent(http.StatusNoContent)
}
