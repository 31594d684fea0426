package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fundline/internal/alerting/dedup"
	alertinghandler "fundline/internal/alerting/handler"
	alertingmetrics "fundline/internal/alerting/metrics"
	alertingports "fundline/internal/alerting/ports"
	alertingservice "fundline/internal/alerting/service"
	"fundline/internal/alerting/store/alertrule"
	"fundline/internal/alerting/store/portfolio"
	"fundline/internal/alerts"
	alertskafka "fundline/internal/alerts/kafka"
	"fundline/internal/auth"
	ledgerports "fundline/internal/ledger/ports"
	ledgerservice "fundline/internal/ledger/service"
	ledgermemory "fundline/internal/ledger/store/memory"
	ledgerpostgres "fundline/internal/ledger/store/postgres"
	ledgerredis "fundline/internal/ledger/store/redis"
	"fundline/internal/platform/config"
	"fundline/internal/platform/httpserver"
	"fundline/internal/platform/logger"
	platformpostgres "fundline/internal/platform/postgres"
	platformredis "fundline/internal/platform/redis"
	httptransport "fundline/internal/transport/http"
	"fundline/internal/underwriting"
	uwhandler "fundline/internal/underwriting/handler"
	uwmetrics "fundline/internal/underwriting/metrics"
	uwports "fundline/internal/underwriting/ports"
	uwservice "fundline/internal/underwriting/service"
	"fundline/internal/underwriting/store/blacklist"
	"fundline/internal/underwriting/store/lender"
	"fundline/internal/underwriting/store/loanrequest"
	"fundline/internal/underwriting/store/rule"
)

// main wires dependencies by configuration: Postgres-backed stores when a URL
// is set, Redis-backed ledger and dedup when Redis is configured, Kafka alert
// delivery when brokers are configured, and in-memory fallbacks for local
// development. Business logic lives in the internal services.
func main() {
	cfg := config.FromEnv()
	log := logger.New(logger.ParseLevel(cfg.Server.LogLevel))
	slog.SetDefault(log)

	db, err := platformpostgres.Open(cfg.Pg)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Feature stores
	var (
		ruleStore      uwports.RuleStore
		blacklistStore uwports.BlacklistStore
		requestStore   uwports.LoanRequestStore
		lenderStore    uwports.LenderStore
		alertRuleStore alertingports.AlertRuleStore
		portfolioStore alertingports.PortfolioStore
		lendingReader  alertingports.LendingRuleReader
	)
	if db != nil {
		ruleStore = rule.NewPostgres(db)
		blacklistStore = blacklist.NewPostgres(db)
		requestStore = loanrequest.NewPostgres(db)
		lenderStore = lender.NewPostgres(db)
		alertRuleStore = alertrule.NewPostgres(db)
		portfolioStore = portfolio.NewPostgres(db)
		lendingReader = rule.NewPostgres(db)
	} else {
		log.Warn("POSTGRES_URL not set, using in-memory stores")
		memRules := rule.NewMemory()
		ruleStore = memRules
		blacklistStore = blacklist.NewMemory()
		requestStore = loanrequest.NewMemory()
		lenderStore = lender.NewMemory()
		alertRuleStore = alertrule.NewMemory()
		portfolioStore = portfolio.NewMemory()
		lendingReader = memRules
	}

	// Deployment ledger: Redis when configured, then Postgres, then memory.
	var ledgerStore ledgerports.Store
	switch {
	case redisClient != nil:
		ledgerStore = ledgerredis.New(redisClient.Client)
	case db != nil:
		ledgerStore = ledgerpostgres.New(db)
	default:
		ledgerStore = ledgermemory.New()
	}
	ledgerSvc, err := ledgerservice.New(ledgerStore, ledgerservice.WithLogger(log))
	if err != nil {
		log.Error("ledger service init failed", "error", err)
		os.Exit(1)
	}

	// Alert delivery. Broker round trips run on a worker goroutine so the
	// decision path never waits on Kafka.
	var publisher alerts.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err := alertskafka.New(cfg.Kafka.Brokers, cfg.Kafka.AlertTopic)
		if err != nil {
			log.Error("kafka publisher init failed", "error", err)
			os.Exit(1)
		}
		defer kafkaPublisher.Close()

		worker := alerts.NewWorker(kafkaPublisher, 256)
		workerCtx, stopWorker := context.WithCancel(context.Background())
		defer stopWorker()
		go func() {
			if err := worker.Run(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("alert worker stopped", "error", err)
			}
		}()
		publisher = worker
	} else {
		log.Warn("KAFKA_BROKERS not set, alerts stay in-process")
		publisher = alerts.NewMemorySink()
	}

	var dedupStore alertingports.DedupStore
	if redisClient != nil {
		dedupStore = dedup.NewRedis(redisClient.Client)
	} else {
		dedupStore = dedup.NewMemory()
	}

	// Services
	uwSvc, err := uwservice.New(
		ruleStore, blacklistStore, requestStore, lenderStore, ledgerSvc,
		uwservice.WithLogger(log),
		uwservice.WithMetrics(uwmetrics.New()),
		uwservice.WithAlertPublisher(publisher),
		uwservice.WithNoMatchPolicy(underwriting.NoMatchPolicy(cfg.Engine.DefaultNoMatchPolicy)),
	)
	if err != nil {
		log.Error("underwriting service init failed", "error", err)
		os.Exit(1)
	}

	alertingSvc, err := alertingservice.New(
		alertRuleStore, portfolioStore, lendingReader, lenderStore, ledgerSvc, dedupStore, publisher,
		alertingservice.WithLogger(log),
		alertingservice.WithMetrics(alertingmetrics.New()),
		alertingservice.WithDedupTTL(cfg.Engine.AlertDedupTTL),
	)
	if err != nil {
		log.Error("alerting service init failed", "error", err)
		os.Exit(1)
	}

	// HTTP surface
	jwtService := auth.NewJWTService(cfg.Server.JWTSigningKey, "fundline", "lender-portal")
	router := httptransport.NewRouter(log, jwtService,
		uwhandler.New(uwSvc, log),
		alertinghandler.New(alertingSvc, log),
	)

	srv := httpserver.New(cfg.Server.Addr, router)

	go func() {
		log.Info("starting fundline engine", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
