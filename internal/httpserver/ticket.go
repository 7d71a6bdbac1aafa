package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/craftsphere/marketplace/internal/logging"
	"github.com/craftsphere/marketplace/internal/service/ticket"
	"github.com/craftsphere/marketplace/internal/transport"
)

type TicketHTTP struct {
	Svc *ticket.Service
}

func (h *TicketHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "ticket.add")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("add_ticket_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.CreateTicketRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_ticket_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	created, err := h.Svc.Add(ctx, userID, req.Subject, req.Category, req.Description)
	if err != nil {
		if errors.Is(err, ticket.ErrValidation) {
			l.Warn("add_ticket_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("add_ticket_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create ticket")
	}

	l.Info("add_ticket_success", "ticket_id", created.ID)
	return c.JSON(http.StatusCreated, created)
}

func (h *TicketHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "ticket.list")

	items, err := h.Svc.List(ctx)
	if err != nil {
		l.Error("list_tickets_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list tickets")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *TicketHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "ticket.update_status")

	ticketID, err := parseParamID(c, "id")
	if err != nil {
		l.Warn("update_ticket_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req transport.UpdateTicketStatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_ticket_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.UpdateStatus(ctx, ticketID, req.Status); err != nil {
		switch {
		case errors.Is(err, ticket.ErrValidation):
			l.Warn("update_ticket_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ticket.ErrNotFound):
			l.Warn("update_ticket_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "ticket not found")
		default:
			l.Error("update_ticket_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot update ticket")
		}
	}

	l.Info("update_ticket_success", "ticket_id", ticketID, "new_status", req.Status)
	return c.JSON(http.StatusOK, echo.Map{
		"ticket_id": ticketID,
		"status":    req.Status,
	})
}

func (h *TicketHTTP) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "ticket.remove")

	ticketID, err := parseParamID(c, "id")
	if err != nil {
		l.Warn("remove_ticket_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.Svc.Remove(ctx, ticketID); err != nil {
		if errors.Is(err, ticket.ErrNotFound) {
			l.Warn("remove_ticket_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "ticket not found")
		}
		l.Error("remove_ticket_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot remove ticket")
	}

	l.Info("remove_ticket_success", "ticket_id", ticketID)
	return c.NoContent(http.StatusNoContent)
}
