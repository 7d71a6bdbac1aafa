package httpserver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/craftsphere/marketplace/internal/middleware"
	"github.com/craftsphere/marketplace/internal/mykafka"
)

func getUserID(c echo.Context) (uuid.UUID, error) {
	v, ok := c.Get(middleware.CtxUserID).(string)
	if !ok || v == "" {
		return uuid.Nil, errors.New("unauthorized")
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, errors.New("unauthorized")
	}
	return id, nil
}

func publish(c echo.Context, producer *mykafka.Producer, topic, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := producer.PublishEvent(ctx, topic, key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func parseParamID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s is not a uuid", name)
	}
	return id, nil
}
