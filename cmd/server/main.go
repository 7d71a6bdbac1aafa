package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/craftsphere/marketplace/internal/config"
	"github.com/craftsphere/marketplace/internal/es"
	"github.com/craftsphere/marketplace/internal/httpserver"
	"github.com/craftsphere/marketplace/internal/logging"
	"github.com/craftsphere/marketplace/internal/mailer"
	"github.com/craftsphere/marketplace/internal/middleware"
	"github.com/craftsphere/marketplace/internal/mykafka"
	"github.com/craftsphere/marketplace/internal/repo"
	"github.com/craftsphere/marketplace/internal/service/auth"
	"github.com/craftsphere/marketplace/internal/service/cart"
	"github.com/craftsphere/marketplace/internal/service/catalog"
	"github.com/craftsphere/marketplace/internal/service/order"
	"github.com/craftsphere/marketplace/internal/service/request"
	"github.com/craftsphere/marketplace/internal/service/ticket"
	"github.com/craftsphere/marketplace/internal/service/user"
	"github.com/craftsphere/marketplace/internal/service/workshop"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	e := echo.New()
	e.HideBanner = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.RequestLogger(logger))

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = mykafka.NewProducer(cfg.KafkaBrokers)
	} else {
		logger.Warn("kafka disabled, no brokers configured")
	}

	esClient, err := es.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
	if err != nil {
		logger.Warn("elasticsearch unavailable, search disabled", "error", err)
	}

	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)

	gormRepo := &repo.GormRepo{DB: db}

	cartSvc := &cart.Service{Repo: gormRepo}
	catalogSvc := &catalog.Service{Repo: gormRepo, Carts: cartSvc, ES: esClient}
	orderSvc := &order.Service{Repo: gormRepo}
	workshopSvc := &workshop.Service{Repo: gormRepo, Mailer: mail}
	requestSvc := &request.Service{Repo: gormRepo}
	ticketSvc := &ticket.Service{Repo: gormRepo}
	userSvc := &user.Service{Repo: gormRepo}
	authSvc := &auth.Service{
		Repo:          gormRepo,
		JWTSecret:     cfg.JWTSecret,
		RefreshSecret: cfg.RefreshSecret,
	}

	httpserver.Register(e, &httpserver.Deps{
		Auth:      &httpserver.AuthHTTP{Svc: authSvc, Producer: producer},
		Cart:      &httpserver.CartHTTP{Svc: cartSvc, Producer: producer},
		Product:   &httpserver.ProductHTTP{Svc: catalogSvc, ES: esClient, Producer: producer},
		Order:     &httpserver.OrderHTTP{Svc: orderSvc, Producer: producer},
		Workshop:  &httpserver.WorkshopHTTP{Svc: workshopSvc},
		Request:   &httpserver.RequestHTTP{Svc: requestSvc},
		Ticket:    &httpserver.TicketHTTP{Svc: ticketSvc},
		User:      &httpserver.UserHTTP{Svc: userSvc, Producer: producer},
		JWTSecret: cfg.JWTSecret,
	})

	go func() {
		logger.Info("starting server", "port", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo shutdown", "error", err)
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka close", "error", err)
		}
	}

	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.Close()
	}

	logger.Info("server stopped")
}
