package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/craftsphere/marketplace/internal/logging"
	"github.com/craftsphere/marketplace/internal/mykafka"
	"github.com/craftsphere/marketplace/internal/service/auth"
	"github.com/craftsphere/marketplace/internal/tokens"
	"github.com/craftsphere/marketplace/internal/transport"
)

type AuthHTTP struct {
	Svc      *auth.Service
	Producer *mykafka.Producer
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, auth.RegisterInput{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		MobileNo: req.MobileNo,
		Address:  req.Address,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		if errors.Is(err, auth.ErrValidation) {
			l.Warn("register_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if errors.Is(err, auth.ErrUserAlreadyExists) {
			l.Warn("register_error", "status", 409, "error", err)
			return echo.NewHTTPError(http.StatusConflict, "user already exists")
		}
		l.Error("register_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "register failed")
	}

	publish(c, h.Producer, mykafka.TopicUserEvents, user.ID.String(), map[string]any{
		"type":    "user_registered",
		"user_id": user.ID.String(),
		"role":    user.Role,
	})

	l.Info("register_successful", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrValidation) || errors.Is(err, auth.ErrInvalidCredentials) {
			l.Warn("login_failed", "status", 401, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
		}
		l.Error("login_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}

	c.SetCookie(tokens.CreateCookie("accessToken", res.AccessToken, "/", res.AccessExp))
	c.SetCookie(tokens.CreateCookie("refreshToken", res.RefreshToken, "/", res.RefreshExp))

	l.Info("login_successful", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"role": res.User.Role,
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	refreshCookie, err := c.Cookie("refreshToken")
	if err != nil || refreshCookie.Value == "" {
		l.Warn("refresh_failed", "status", 401, "reason", "missing refresh token")
		return echo.NewHTTPError(http.StatusUnauthorized, "missing refresh token")
	}

	res, err := h.Svc.Refresh(ctx, refreshCookie.Value)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			l.Warn("refresh_failed", "status", 401, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
		}
		l.Error("refresh_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "refresh failed")
	}

	c.SetCookie(tokens.CreateCookie("accessToken", res.AccessToken, "/", res.AccessExp))
	c.SetCookie(tokens.CreateCookie("refreshToken", res.RefreshToken, "/", res.RefreshExp))

	l.Info("refresh_successful", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"role": res.User.Role,
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	if refreshCookie, err := c.Cookie("refreshToken"); err == nil {
		if err := h.Svc.Logout(ctx, refreshCookie.Value); err != nil {
			c.SetCookie(tokens.DeleteCookie("refreshToken", "/"))
			c.SetCookie(tokens.DeleteCookie("accessToken", "/"))
			l.Error("logout_failed", "status", 500, "reason", "cannot revoke refreshToken", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "logout failed")
		}
	}

	c.SetCookie(tokens.DeleteCookie("refreshToken", "/"))
	c.SetCookie(tokens.DeleteCookie("accessToken", "/"))

	l.Info("successful_logout")
	return c.JSON(http.StatusOK, echo.Map{
		"message": "logged out",
	})
}
