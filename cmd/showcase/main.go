package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Spok95/showcase-judging/internal/admin"
	"github.com/Spok95/showcase-judging/internal/api"
	"github.com/Spok95/showcase-judging/internal/app"
	"github.com/Spok95/showcase-judging/internal/auth"
	"github.com/Spok95/showcase-judging/internal/cache"
	"github.com/Spok95/showcase-judging/internal/certificate"
	"github.com/Spok95/showcase-judging/internal/config"
	"github.com/Spok95/showcase-judging/internal/db"
	"github.com/Spok95/showcase-judging/internal/export"
	"github.com/Spok95/showcase-judging/internal/jobs"
	"github.com/Spok95/showcase-judging/internal/logging"
	"github.com/Spok95/showcase-judging/internal/notify"
	"github.com/Spok95/showcase-judging/internal/observability"
	"github.com/Spok95/showcase-judging/internal/scoring"
	"github.com/Spok95/showcase-judging/internal/storage"
)

var release = "dev"

func main() {
	// Загрузка переменных окружения
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Closer()

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, release)
	if err != nil {
		lg.Base.Warn("sentry disabled", zap.Error(err))
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Base.Error("fatal", zap.Error(err))
		lg.Closer()
		flush()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, lg *logging.Log) error {
	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.Migrate(ctx, database); err != nil {
		return err
	}
	if err := db.SeedCriteria(ctx, database, lg.Component("seed")); err != nil {
		return err
	}
	store := db.NewStore(database)

	files, err := storage.NewLocal(cfg.StorageDir)
	if err != nil {
		return err
	}
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)

	// Пустой интерфейс, а не typed nil: сервисы проверяют cache != nil.
	var (
		summaryCache scoring.SummaryCache
		invalidator  api.SummaryInvalidator
	)
	if cfg.RedisURL != "" {
		c, err := cache.Connect(ctx, cfg.RedisURL, cfg.SummaryCacheTTL, lg.Component("cache"))
		if err != nil {
			lg.Base.Warn("summary cache disabled", zap.Error(err))
		} else {
			defer func() { _ = c.Close() }()
			summaryCache, invalidator = c, c
		}
	}

	notifier, err := notify.New(cfg.BotToken, cfg.AdminChatIDs, lg.Component("notify"))
	if err != nil {
		lg.Base.Warn("telegram notifications disabled", zap.Error(err))
		notifier = notify.Nop{}
	}

	evaluations := scoring.NewService(store, summaryCache, lg.Component("scoring"))
	exports := export.NewService(store, evaluations, lg.Component("export"))

	httpImages := certificate.NewHTTPFetcher(cfg.ImageFetchTimeout)
	renderer := certificate.NewRenderer(
		certificate.LocalFirstFetcher{Files: files, Next: httpImages},
		certificate.NewQRSource(cfg.QREndpoint, cfg.QRRatePerSec, httpImages),
		lg.Component("certificate"),
	)
	certs := certificate.NewService(store, evaluations, renderer, cfg.VerifyBaseURL, cfg.Location, lg.Component("certificate"))

	adminSvc := admin.NewService(store, files, tokens, lg.Component("admin"))

	runner := jobs.New(ctx, lg.Component("jobs"))
	runner.Every(cfg.CleanupInterval, jobs.CleanupJob, jobs.OrphanReport(adminSvc, notifier, lg.Component("jobs")))

	router := api.NewRouter(api.Deps{
		Store:        store,
		Evaluations:  evaluations,
		Exports:      exports,
		Certificates: certs,
		Admin:        adminSvc,
		Files:        files,
		Tokens:       tokens,
		Cache:        invalidator,
		Notify:       notifier,
		Log:          lg.Component("api"),
		CORSOrigins:  cfg.CORSOrigins,
	})

	ops := app.StartHTTP(ctx, cfg.HTTPAddr, database)
	srv := api.Start(ctx, cfg.APIAddr, router, lg.Base)
	lg.Base.Info("showcase started",
		zap.String("api", cfg.APIAddr),
		zap.String("ops", cfg.HTTPAddr),
		zap.Bool("cache", summaryCache != nil),
		zap.Int("admin_chats", len(cfg.AdminChatIDs)))

	<-ctx.Done()
	lg.Base.Info("shutting down")
	srv.Wait()
	ops.Wait()
	runner.Wait()
	return nil
}
