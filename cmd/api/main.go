package main

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	httpadp "lendcore/internal/adapter/http"
	"lendcore/internal/adapter/middleware"
	"lendcore/internal/adapter/repository/mysql"
	"lendcore/internal/config"
	"lendcore/internal/domain/loan"
	"lendcore/internal/domain/payment"
	"lendcore/internal/infrastructure/blob"
	"lendcore/internal/infrastructure/cache"
	"lendcore/internal/infrastructure/db"
	"lendcore/internal/infrastructure/notify"
	fundinguc "lendcore/internal/usecase/funding"
	paymentuc "lendcore/internal/usecase/payment"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.WithError(err).Fatal("mysql connect failed")
	}
	if err := gdb.AutoMigrate(&loan.Loan{}, &loan.Participant{}, &payment.Payment{}); err != nil {
		log.WithError(err).Fatal("migrate failed")
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.WithError(err).Fatal("redis connect failed")
	}

	loans := mysql.NewLoanRepository(gdb)
	participants := mysql.NewParticipantRepository(gdb)
	payments := mysql.NewPaymentRepository(gdb)
	tx := mysql.NewGormUoW(gdb)
	blobs := blob.NewSignedURLStore(cfg.BlobBaseURL, cfg.BlobSecret)
	events := notify.NewLogNotifier(log)

	fundingUC := fundinguc.NewUsecase(loans, participants, tx, events, log)
	paymentUC := paymentuc.NewUsecase(loans, participants, payments, tx, blobs, events, log)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger(), echomw.Recover())
	e.Validator = httpadp.NewValidator()

	httpadp.RegisterRoutes(e, httpadp.Handlers{
		Health:  httpadp.NewHandler(),
		Loan:    httpadp.NewLoanHandler(fundingUC),
		Lender:  httpadp.NewLenderHandler(fundingUC),
		Payment: httpadp.NewPaymentHandler(paymentUC),
	},
		middleware.JWTAuth(cfg.JWTSecret),
		middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, log),
		middleware.InternalToken(cfg.InternalToken),
	)

	addr := ":" + cfg.AppPort
	log.WithField("addr", addr).Info("listening")
	if err := e.Start(addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
