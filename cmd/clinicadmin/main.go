package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dentalflow/clinicadmin/internal/adapters/browser"
	"github.com/dentalflow/clinicadmin/internal/adapters/cache"
	"github.com/dentalflow/clinicadmin/internal/adapters/events"
	"github.com/dentalflow/clinicadmin/internal/adapters/navigation"
	"github.com/dentalflow/clinicadmin/internal/adapters/notify"
	"github.com/dentalflow/clinicadmin/internal/adapters/restapi"
	"github.com/dentalflow/clinicadmin/internal/adapters/session"
	"github.com/dentalflow/clinicadmin/internal/application/services"
	"github.com/dentalflow/clinicadmin/internal/cli"
	"github.com/dentalflow/clinicadmin/internal/domain/providers"
	"github.com/dentalflow/clinicadmin/internal/infrastructure/clients/clinicapi"
	"github.com/dentalflow/clinicadmin/internal/infrastructure/clients/redis"
	"github.com/dentalflow/clinicadmin/internal/infrastructure/observability"
	"github.com/dentalflow/clinicadmin/internal/query"
	"github.com/dentalflow/clinicadmin/pkg/config"
	apperrors "github.com/dentalflow/clinicadmin/pkg/errors"
	"github.com/dentalflow/clinicadmin/pkg/secrets"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Hydrate secrets before config so Vault values take part in defaults
	if res, err := secrets.ApplyVaultSecrets(ctx, secrets.LoadVaultConfigFromEnv()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load secrets from Vault: %v\n", err)
		return 1
	} else if res.Enabled {
		log.Debug().Str("path", res.Path).Int("loaded", res.Loaded).Int("skipped", res.Skipped).Msg("Vault secrets applied")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env, cfg.LogLevel)

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize metrics")
	}

	build := func(ctx context.Context, opts cli.Options) (*cli.App, func(), error) {
		return wire(ctx, cfg, metrics, opts)
	}

	err = cli.Execute(ctx, build, os.Stdin, os.Stdout, os.Stderr, os.Args[1:])
	if err == nil {
		return 0
	}
	// Unauthorized errors already told the operator to sign in again
	if !errors.Is(err, services.ErrNotAuthenticated) && !apperrors.IsType(err, apperrors.ErrorTypeUnauthorized) {
		fmt.Fprintln(os.Stderr, "Error:", apperrors.UserMessage(err, err.Error()))
	}
	return 1
}

// wire builds the application for one command invocation
func wire(ctx context.Context, cfg *config.Config, metrics *observability.Metrics, opts cli.Options) (*cli.App, func(), error) {
	logger := log.Logger
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var redisClient *redis.Client
	if cfg.Session.Store == "redis" || cfg.Cache.Backend == "redis" || cfg.Events.Backend == "redis" {
		rc, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, nil, apperrors.NewInternalError("Failed to connect to Redis", err)
		}
		redisClient = rc
		logger.Debug().Str("addr", rc.Addr()).Msg("Redis client initialized")
		closers = append(closers, func() {
			if err := rc.Close(); err != nil {
				logger.Warn().Err(err).Msg("Failed to close Redis client")
			}
		})
	}

	var store providers.CredentialStore
	switch cfg.Session.Store {
	case "redis":
		store = session.NewRedisStore(redisClient, cfg.Session.RedisKey, 0)
	default:
		store = session.NewFileStore(cfg.Session.FilePath)
	}

	var bus providers.EventBus
	switch cfg.Events.Backend {
	case "redis":
		bus = events.NewRedisEventBus(redisClient)
	default:
		bus = events.NewMemoryEventBus()
	}
	closers = append(closers, func() { _ = bus.Close() })

	var cacheProvider providers.CacheProvider
	switch cfg.Cache.Backend {
	case "redis":
		cacheProvider = cache.NewRedisAdapter(redisClient, "clinicadmin:query")
	default:
		cacheProvider = cache.NewMemoryAdapter(cfg.Cache.Size, cfg.Cache.TTL)
	}

	sessionSvc := services.NewSessionService(store, bus, logger)
	api := clinicapi.NewClient(cfg.API, sessionSvc, clinicapi.WithMetrics(metrics), clinicapi.WithLogger(logger))
	sessionSvc.BindAuth(restapi.NewAuthAdapter(api))

	qc := query.NewClient(cacheProvider,
		query.WithTTL(cfg.Cache.TTL),
		query.WithMetrics(metrics),
		query.WithLogger(logger),
	)
	queries := cli.Queries{
		Appointments: query.NewAppointmentQueries(qc, restapi.NewAppointmentAdapter(api)),
		Patients:     query.NewPatientQueries(qc, restapi.NewPatientAdapter(api), restapi.NewMigratedRecordAdapter(api)),
		Doctors:      query.NewDoctorQueries(qc, restapi.NewDoctorAdapter(api)),
		Branches:     query.NewBranchQueries(qc, restapi.NewBranchAdapter(api)),
		Users:        query.NewUserQueries(qc, restapi.NewUserAdapter(api), restapi.NewRoleAdapter(api)),
		AuditLogs:    query.NewAuditLogQueries(qc, restapi.NewAuditLogAdapter(api)),
		TeleSessions: query.NewTeleSessionQueries(qc, restapi.NewTeleSessionAdapter(api)),
		Clinical:     query.NewClinicalQueries(qc, restapi.NewConsultationAdapter(api), restapi.NewPrescriptionAdapter(api)),
	}

	notifier := notify.NewConsoleNotifier(os.Stderr, logger, metrics)
	navigator := navigation.NewCLINavigator(opts.Route, os.Stderr)
	stopNav, err := services.NewNavigationService(bus, navigator, logger).Start(ctx)
	if err != nil {
		cleanup()
		return nil, nil, apperrors.NewInternalError("Failed to subscribe to session events", err)
	}
	closers = append(closers, stopNav)

	var opener providers.WindowOpener = browser.NewSystemOpener(logger)
	if opts.NoBrowser {
		opener = browser.NewPrintOpener(os.Stdout)
	}

	app := &cli.App{
		Config:       cfg,
		API:          api,
		Session:      sessionSvc,
		Guard:        services.NewAccessGuard(sessionSvc),
		Navigator:    navigator,
		Notifier:     notifier,
		Appointments: services.NewAppointmentService(queries.Appointments, sessionSvc, notifier, logger),
		Tele:         services.NewTeleConsultService(queries.TeleSessions, queries.Appointments, sessionSvc, opener, notifier, cfg.Tele, logger),
		Queries:      queries,
		Logger:       logger,
	}

	if cfg.API.BaseURLFallback {
		logger.Warn().Str("base_url", cfg.API.BaseURL).Msg("API_BASE_URL is not set, using the local default")
	}
	return app, cleanup, nil
}
