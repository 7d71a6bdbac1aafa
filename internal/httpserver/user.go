package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/craftsphere/marketplace/internal/logging"
	"github.com/craftsphere/marketplace/internal/middleware"
	"github.com/craftsphere/marketplace/internal/models"
	"github.com/craftsphere/marketplace/internal/mykafka"
	"github.com/craftsphere/marketplace/internal/service/user"
)

type UserHTTP struct {
	Svc      *user.Service
	Producer *mykafka.Producer
}

func (h *UserHTTP) GetMe(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.me")

	userID, err := getUserID(c)
	if err != nil {
		l.Error("get_me_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	found, err := h.Svc.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			l.Warn("get_me_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		l.Error("get_me_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get user")
	}

	return c.JSON(http.StatusOK, found)
}

func (h *UserHTTP) ListByRole(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.list_by_role")

	role := c.QueryParam("role")
	if role == "" {
		l.Warn("list_users_error", "status", 400, "reason", "role required")
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter role required")
	}

	users, err := h.Svc.ListByRole(ctx, role)
	if err != nil {
		l.Error("list_users_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list users")
	}

	return c.JSON(http.StatusOK, users)
}

// Delete removes an account and all dependent records. Customers can
// delete themselves; admins can delete anyone.
func (h *UserHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.delete")

	callerID, err := getUserID(c)
	if err != nil {
		l.Error("delete_user_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	targetID, err := parseParamID(c, "id")
	if err != nil {
		l.Warn("delete_user_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role, _ := c.Get(middleware.CtxRole).(string)
	if targetID != callerID && role != models.RoleAdmin {
		l.Warn("delete_user_error", "status", 403, "caller", callerID, "target", targetID)
		return echo.NewHTTPError(http.StatusForbidden, "cannot delete another user")
	}

	if err := h.Svc.Delete(ctx, targetID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			l.Warn("delete_user_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		l.Error("delete_user_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete user")
	}

	publish(c, h.Producer, mykafka.TopicUserEvents, targetID.String(), map[string]any{
		"type":    "user_deleted",
		"user_id": targetID.String(),
	})

	l.Info("delete_user_success", "user_id", targetID)
	return c.NoContent(http.StatusNoContent)
}
