// cmd/server/main.go
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/msyu/cambia-arena/internal/auth"
	"github.com/msyu/cambia-arena/internal/codec"
	"github.com/msyu/cambia-arena/internal/config"
	"github.com/msyu/cambia-arena/internal/games/connectfour"
	"github.com/msyu/cambia-arena/internal/games/tictactoe"
	"github.com/msyu/cambia-arena/internal/httpapi"
	"github.com/msyu/cambia-arena/internal/metrics"
	"github.com/msyu/cambia-arena/internal/module"
	"github.com/msyu/cambia-arena/internal/persistence"
	"github.com/msyu/cambia-arena/internal/storage"
	"github.com/msyu/cambia-arena/internal/supervisor"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file overriding environment variables")
	flag.Parse()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.WithError(err).Fatal("failed to load configuration")
	}

	registry := module.NewRegistry()
	tictactoe.Register(registry)
	connectfour.Register(registry)

	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		logger.WithError(err).Fatal("unable to connect to database")
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	defer rdb.Close()

	sc := codec.JSON{}
	pg := storage.NewPostgres(pool, registry, sc, logger)
	repo := storage.NewCached(pg, rdb, registry, sc, logger)

	if err := repo.Init(context.Background()); err != nil {
		logger.WithError(err).Fatal("unable to initialize games table")
	}

	collector := metrics.NewCollector(prometheus.DefaultRegisterer)

	pw := persistence.NewWorker(repo, logger, 4)
	pw.SetMetrics(collector)

	sup := supervisor.New(registry, pw, logger)
	sup.SetMetrics(collector)

	issuer := auth.NewIssuer(cfg.JWT.Secret)

	handler := httpapi.NewHandler(sup, issuer, registry, logger, supervisor.DefaultAskTimeout, collector)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: handler.Router(),
	}

	go func() {
		logger.WithField("addr", cfg.Addr()).Info("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server failed to bind")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
		os.Exit(1)
	}
}
