package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sheetwise/sheetwise/modules/billing"
	"github.com/sheetwise/sheetwise/modules/generation"
	"github.com/sheetwise/sheetwise/modules/profile"
	"github.com/sheetwise/sheetwise/pkg/config"
	"github.com/sheetwise/sheetwise/pkg/httpserver"
	"github.com/sheetwise/sheetwise/pkg/identity"
	"github.com/sheetwise/sheetwise/pkg/logger"
	"github.com/sheetwise/sheetwise/pkg/paystack"
	"github.com/sheetwise/sheetwise/pkg/pg"
	"github.com/sheetwise/sheetwise/pkg/ratelimit"
	"github.com/sheetwise/sheetwise/pkg/redisconn"
)

const serviceName = "sheetwise"

type appConfig struct {
	Logger    logger.Config
	HTTP      httpserver.Config
	DB        pg.Config
	Redis     redisconn.Config
	Identity  identity.Config
	Paystack  paystack.Config
	OpenAI    generation.OpenAIConfig
	Billing   billing.Config
	RateLimit ratelimit.Config
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.NewFromConfig(cfg.Logger, serviceName)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	pool, err := pg.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, cfg.DB, log); err != nil {
		return err
	}

	rdb, err := redisconn.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	verifier, err := identity.NewVerifier(cfg.Identity)
	if err != nil {
		return err
	}

	payments, err := paystack.New(cfg.Paystack, log.With("component", "paystack"))
	if err != nil {
		return err
	}

	gateway, err := generation.NewOpenAIGateway(cfg.OpenAI)
	if err != nil {
		return err
	}

	catalog, err := billing.LoadCatalog(cfg.Billing.PlansPath)
	if err != nil {
		return err
	}

	profiles := profile.NewService(profile.NewPGStore(pool), log.With("module", "profile"))
	generations := generation.NewService(
		generation.NewPGStore(pool), gateway, profiles, log.With("module", "generation"))
	billingSvc := billing.NewService(cfg.Billing, catalog, payments, profiles, log.With("module", "billing"))
	dispatcher := billing.NewDispatcher(
		cfg.Paystack.SecretKey, profiles.Store(), payments, catalog.Default(), log.With("module", "billing"))

	authn := identity.Middleware(verifier)
	limiter := ratelimit.NewFixedWindow(rdb, cfg.RateLimit)
	limitByCaller := ratelimit.Middleware(limiter, callerKey)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", httpserver.HealthCheckHandler(log,
		pg.Healthcheck(pool),
		redisconn.Healthcheck(rdb),
	))

	r.Route("/api", func(api chi.Router) {
		api.With(authn).Mount("/profile", profile.Router(profiles))
		api.Group(func(g chi.Router) {
			g.Use(authn)
			generation.Routes(generations, limitByCaller)(g)
		})
		billing.Routes(billingSvc, dispatcher, authn)(api)
	})

	return httpserver.New(cfg.HTTP, log).Run(ctx, r)
}

// callerKey scopes the generate rate limit to the authenticated user.
func callerKey(r *http.Request) string {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		return ""
	}
	return id.UserID
}
