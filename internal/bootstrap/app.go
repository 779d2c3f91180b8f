package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-scorer/internal/analyses"
	"resume-scorer/internal/dashboard"
	"resume-scorer/internal/events"
	"resume-scorer/internal/extract"
	"resume-scorer/internal/identity"
	"resume-scorer/internal/scoring"
	"resume-scorer/internal/services/health"
	"resume-scorer/internal/session"
	"resume-scorer/internal/shared/auth"
	"resume-scorer/internal/shared/config"
	"resume-scorer/internal/shared/server"
	"resume-scorer/internal/shared/storage/db"
	"resume-scorer/internal/shared/storage/object"
	localstore "resume-scorer/internal/shared/storage/object/local"
	miniostore "resume-scorer/internal/shared/storage/object/minio"
	s3store "resume-scorer/internal/shared/storage/object/s3"
	"resume-scorer/internal/shared/telemetry"
	"resume-scorer/internal/users"
)

// App holds shared dependencies and the configured router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.Store
	Events events.Publisher

	Sessions         *session.Manager
	AnalysesService  *analyses.Service
	DashboardService *dashboard.Service
	UsersService     *users.Service
	IdentityService  *identity.Service

	closers []io.Closer
}

// Build prepares every dependency and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	app := &App{Config: cfg}
	fail := func(err error) (*App, error) {
		if cerr := app.Close(); cerr != nil {
			telemetry.Warn("bootstrap.cleanup_failed", map[string]any{"error": cerr})
		}
		return nil, err
	}

	sqlDB, err := connectDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.DB = sqlDB
	if sqlDB != nil {
		app.closers = append(app.closers, sqlDB)
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	app.Store = store

	publisher, closer, err := buildEvents(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	app.Events = publisher
	if closer != nil {
		app.closers = append(app.closers, closer)
	}

	signer, err := auth.NewSigner(cfg.JWTSecret, config.IsDevLike(cfg.Env))
	if err != nil {
		return fail(err)
	}

	deps := buildServices(app, signer)
	app.Router = server.NewRouter(deps)
	return app, nil
}

// Close releases connections opened by Build, newest first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// connectDB is swapped in tests.
var connectDB = buildDB

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if config.IsDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, db.ErrNoDatabaseURL
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultLambdaOptions()))
	} else {
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	}
	if err != nil {
		if config.IsDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, errors.New("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID, cfg.DownloadURLTTL)
	case "minio":
		return miniostore.New(ctx, miniostore.Options{
			Endpoint:  cfg.MinioEndpoint,
			Region:    cfg.AWSRegion,
			Bucket:    cfg.MinioBucket,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			UseSSL:    cfg.MinioUseSSL,
			URLTTL:    cfg.DownloadURLTTL,
		})
	default:
		return localstore.New(cfg.LocalStoreDir, cfg.PublicBaseURL), nil
	}
}

func buildEvents(ctx context.Context, cfg config.Config) (events.Publisher, io.Closer, error) {
	switch cfg.EventsBackend {
	case "sqs":
		p, err := events.NewSQSPublisher(ctx, cfg.AWSRegion, cfg.EventsSQSQueueURL)
		return p, nil, err
	case "amqp":
		p, err := events.NewAMQPPublisher(cfg.EventsAMQPURL, cfg.EventsAMQPExchange)
		if err != nil {
			return nil, nil, err
		}
		return p, p, nil
	default:
		return events.Nop{}, nil, nil
	}
}

// BuildScorer returns the scoring engine selected by cfg.
func BuildScorer(cfg config.Config) *scoring.Engine {
	var content scoring.ContentScorer
	if cfg.ScoringContent == "fixed" {
		content = scoring.FixedContent(cfg.ScoringContentFixed)
	} else {
		content = scoring.NewRandomContent(cfg.ScoringSeed)
	}
	return scoring.New(content, scoring.FeedbackMode(cfg.ScoringFeedback))
}

func buildServices(app *App, signer *auth.Signer) server.RouterDeps {
	cfg := app.Config

	var (
		analysisRepo analyses.Repo
		userRepo     users.Repo
		sessionStore session.Store
		identityRepo identity.Store
	)
	if app.DB != nil {
		analysisRepo = &analyses.PGRepo{DB: app.DB}
		userRepo = &users.PGRepo{DB: app.DB}
		sessionStore = &session.PGStore{DB: app.DB}
		identityRepo = &identity.PGStore{DB: app.DB}
	} else {
		profiles := users.NewMemoryRepo()
		analysisRepo = analyses.NewMemoryRepo()
		userRepo = profiles
		sessionStore = session.NewMemoryStore()
		identityRepo = identity.NewMemoryStore(profiles)
	}

	broker := session.NewBroker()
	app.Sessions = session.NewManager(signer, sessionStore, broker, cfg.SessionTTL)

	app.AnalysesService = &analyses.Service{
		Repo:      analysisRepo,
		Store:     app.Store,
		Extractor: extract.New(cfg.Extractor),
		Scorer:    BuildScorer(cfg),
		Events:    app.Events,
	}
	app.DashboardService = dashboard.NewService(analysisRepo)
	app.UsersService = users.NewService(userRepo, app.Store)
	app.IdentityService = identity.NewService(identityRepo, app.Sessions)

	google := identity.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, cfg.UIRedirectURL)

	deps := server.RouterDeps{
		Config:           cfg,
		Sessions:         app.Sessions,
		Health:           health.NewService(app.DB),
		IdentityHandler:  identity.NewHandler(app.IdentityService, google),
		AnalysisHandler:  analyses.NewHandler(app.AnalysesService),
		DashboardHandler: dashboard.NewHandler(app.DashboardService),
		UsersHandler:     users.NewHandler(app.UsersService),
		SessionHandler:   session.NewHandler(broker),
	}
	if cfg.ObjectStoreType == "local" {
		deps.Files = app.Store
	}
	return deps
}
