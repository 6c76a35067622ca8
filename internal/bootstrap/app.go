package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"lifemate-backend/internal/applications"
	googleauth "lifemate-backend/internal/auth"
	"lifemate-backend/internal/email"
	"lifemate-backend/internal/employers"
	"lifemate-backend/internal/jobs"
	"lifemate-backend/internal/notifications"
	"lifemate-backend/internal/queue"
	"lifemate-backend/internal/savedjobs"
	"lifemate-backend/internal/seekers"
	"lifemate-backend/internal/shared/config"
	"lifemate-backend/internal/shared/server"
	"lifemate-backend/internal/shared/storage/db"
	"lifemate-backend/internal/shared/storage/object"
	localstore "lifemate-backend/internal/shared/storage/object/local"
	s3store "lifemate-backend/internal/shared/storage/object/s3"
	"lifemate-backend/internal/uploads"
	"lifemate-backend/internal/users"
)

// App holds the wired dependencies for the API process.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Queue  queue.Client
	Mailer email.Mailer

	UsersRepo         users.Repo
	SeekersRepo       seekers.Repo
	EmployersRepo     employers.Repo
	JobsRepo          jobs.Repo
	ApplicationsRepo  applications.Repo
	NotificationsRepo notifications.Repo
	SavedJobsRepo     savedjobs.Repo

	StatAggregator      *employers.StatAggregator
	Emitter             *notifications.Emitter
	EmailDispatcher     *email.Dispatcher
	ApplicationsService *applications.Service
}

// Build prepares shared dependencies and the router. With no DATABASE_URL in
// a dev-like environment it falls back to in-memory repositories.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	mailer, err := buildMailer(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
		Mailer: mailer,
	}
	buildServices(app)

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.EmailQueueURL) == "" {
		return nil, nil
	}
	client, err := queue.NewSQSClient(ctx)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func buildMailer(ctx context.Context, cfg config.Config) (email.Mailer, error) {
	if cfg.EmailProvider == "ses" {
		mailer, err := email.NewSESMailer(ctx, cfg.AWSRegion, cfg.EmailFromAddress)
		if err != nil {
			return nil, err
		}
		return mailer, nil
	}
	return email.LogMailer{}, nil
}

func buildServices(app *App) {
	if app.DB != nil {
		app.UsersRepo = &users.PGRepo{DB: app.DB}
		app.SeekersRepo = &seekers.PGRepo{DB: app.DB}
		app.EmployersRepo = &employers.PGRepo{DB: app.DB}
		app.JobsRepo = &jobs.PGRepo{DB: app.DB}
		app.ApplicationsRepo = &applications.PGRepo{DB: app.DB}
		app.NotificationsRepo = &notifications.PGRepo{DB: app.DB}
		app.SavedJobsRepo = &savedjobs.PGRepo{DB: app.DB}
	} else {
		app.UsersRepo = users.NewMemoryRepo()
		app.SeekersRepo = seekers.NewMemoryRepo()
		app.EmployersRepo = employers.NewMemoryRepo()
		app.JobsRepo = jobs.NewMemoryRepo()
		app.ApplicationsRepo = applications.NewMemoryRepo()
		app.NotificationsRepo = notifications.NewMemoryRepo()
		app.SavedJobsRepo = savedjobs.NewMemoryRepo()
	}

	app.StatAggregator = &employers.StatAggregator{
		Repo:         app.EmployersRepo,
		Jobs:         app.JobsRepo,
		Applications: app.ApplicationsRepo,
	}
	app.Emitter = notifications.NewEmitter(app.NotificationsRepo)
	app.EmailDispatcher = &email.Dispatcher{Queue: app.Queue, Mailer: app.Mailer}

	userSvc := users.NewService(app.UsersRepo)
	seekerSvc := seekers.NewService(app.SeekersRepo)
	employerSvc := employers.NewService(app.EmployersRepo, app.StatAggregator)
	jobSvc := jobs.NewService(app.JobsRepo, app.EmployersRepo, app.StatAggregator)

	app.ApplicationsService = &applications.Service{
		Repo:      app.ApplicationsRepo,
		Jobs:      app.JobsRepo,
		Seekers:   app.SeekersRepo,
		Employers: app.EmployersRepo,
		Users:     app.UsersRepo,
		Stats:     app.StatAggregator,
		Notify:    app.Emitter,
		Email:     app.EmailDispatcher,
	}

	googleAuthSvc := googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		userSvc,
	)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:               app.Config,
		GoogleAuth:           googleAuthSvc,
		UsersHandler:         users.NewHandler(userSvc),
		SeekersHandler:       seekers.NewHandler(seekerSvc),
		EmployersHandler:     employers.NewHandler(employerSvc),
		JobsHandler:          jobs.NewHandler(jobSvc),
		ApplicationsHandler:  applications.NewHandler(app.ApplicationsService),
		NotificationsHandler: notifications.NewHandler(app.NotificationsRepo),
		SavedJobsHandler:     savedjobs.NewHandler(app.SavedJobsRepo, app.SeekersRepo, app.JobsRepo),
		UploadsHandler:       uploads.NewHandler(app.Store, seekerSvc),
	})
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
