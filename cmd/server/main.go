package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"carelink/internal/attendance"
	attendancehandler "carelink/internal/attendance/handler"
	"carelink/internal/audit"
	"carelink/internal/consent"
	consenthandler "carelink/internal/consent/handler"
	"carelink/internal/guardrail"
	guardrailhandler "carelink/internal/guardrail/handler"
	"carelink/internal/jwttoken"
	"carelink/internal/master"
	planhandler "carelink/internal/plan/handler"
	"carelink/internal/plan/service"
	conferencestore "carelink/internal/plan/store/conference"
	gapstore "carelink/internal/plan/store/gap"
	goalstore "carelink/internal/plan/store/goal"
	planstore "carelink/internal/plan/store/plan"
	"carelink/internal/platform/config"
	"carelink/internal/platform/httpserver"
	"carelink/internal/platform/logger"
	"carelink/internal/platform/metrics"
	"carelink/internal/platform/postgres"
	"carelink/internal/platform/redis"
	"carelink/internal/policy"
	"carelink/internal/supporter"
	httptransport "carelink/internal/transport/http"
	"carelink/internal/user"
	"carelink/pkg/platform/tx"
)

const auditInboxSize = 1024

func main() {
	log := logger.New()
	cfg := config.FromEnv()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(cfg.Database)
	if err != nil {
		log.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer func() { _ = db.Close() }()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.Error("failed to apply schema", "error", err)
			os.Exit(1)
		}
	}

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	// Stores: PostgreSQL when configured, in-memory otherwise.
	var (
		plans        service.PlanStore
		goals        service.GoalStore
		conferences  service.ConferenceStore
		gaps         service.GapStore
		consents     consent.Store
		absences     attendance.Store
		policies     policy.Store
		users        user.Store
		serviceTypes master.Store
		supporters   supporter.Store
		auditStore   audit.Store
		runner       tx.Runner
	)
	if db != nil {
		plans = planstore.NewPostgres(db)
		goals = goalstore.NewPostgres(db)
		conferences = conferencestore.NewPostgres(db)
		gaps = gapstore.NewPostgres(db)
		consents = consent.NewPostgres(db)
		absences = attendance.NewPostgres(db)
		policies = policy.NewPostgres(db)
		users = user.NewPostgres(db)
		serviceTypes = master.NewPostgres(db)
		supporters = supporter.NewPostgres(db)
		auditStore = audit.NewPostgres(db)
		runner = tx.NewSQLRunner(db)
	} else {
		log.Warn("no DATABASE_URL configured; using in-memory stores")
		plans = planstore.NewInMemoryStore()
		goals = goalstore.NewInMemoryStore()
		conferences = conferencestore.NewInMemoryStore()
		gaps = gapstore.NewInMemoryStore()
		consents = consent.NewInMemoryStore()
		absences = attendance.NewInMemoryStore()
		policies = policy.NewInMemoryStore()
		users = user.NewInMemoryStore()
		serviceTypes = master.NewInMemoryStore()
		supporters = supporter.NewInMemoryStore()
		auditStore = audit.NewInMemoryStore()
		runner = tx.NewMemoryRunner()
	}

	auditInbox := make(chan audit.Event, auditInboxSize)
	publisher := audit.NewPublisher(auditInbox, time.Now, m.AuditEventsDropped.Inc)
	worker := audit.NewWorker(auditStore, auditInbox, log)

	consentSvc := consent.NewService(consents, nil)
	attendanceSvc := attendance.NewService(absences, nil)

	planSvc := service.New(service.Deps{
		Plans:        plans,
		Goals:        goals,
		Conferences:  conferences,
		Gaps:         gaps,
		Consents:     consents,
		Absences:     absences,
		Policies:     policies,
		Users:        users,
		ServiceTypes: serviceTypes,
		Tx:           runner,
		Logger:       log,
		Metrics:      m,
		Audit:        publisher,
	})

	cache := guardrail.NewCache(redisClient)
	guardrailSvc := guardrail.New(goals, plans, cache, log, m, publisher)
	if cache != nil {
		planSvc.SetCacheInvalidator(cache)
	}

	jwtSvc := jwttoken.NewService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer)

	router := httptransport.NewRouter(httptransport.Deps{
		Plans:      planhandler.New(planSvc, supporters, log),
		Guardrail:  guardrailhandler.New(guardrailSvc, log),
		Consents:   consenthandler.New(consentSvc, log),
		Attendance: attendancehandler.New(attendanceSvc, log),
		Validator:  jwtSvc,
		Logger:     log,
		Metrics:    m,
		DB:         db,
		Redis:      redisClient,
	})
	server := httpserver.New(cfg.Server.Addr, router)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		log.Info("server listening", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
