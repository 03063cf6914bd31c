// Package bootstrap wires configuration, storage, services and handlers
// into a runnable application.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"billaudit-backend/internal/admin"
	"billaudit-backend/internal/analysis"
	"billaudit-backend/internal/auth"
	"billaudit-backend/internal/llm"
	"billaudit-backend/internal/llm/openai"
	"billaudit-backend/internal/mail"
	"billaudit-backend/internal/otp"
	"billaudit-backend/internal/reports"
	"billaudit-backend/internal/shared/config"
	"billaudit-backend/internal/shared/server"
	"billaudit-backend/internal/shared/server/middleware"
	"billaudit-backend/internal/shared/storage/db"
	"billaudit-backend/internal/shared/storage/object"
	localstore "billaudit-backend/internal/shared/storage/object/local"
	"billaudit-backend/internal/shared/telemetry"
	"billaudit-backend/internal/users"
)

// App holds the wired application.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB

	Store       object.UploadStore
	UsersRepo   users.Repo
	ReportsRepo reports.Repo
	OTPRepo     otp.Repo

	UsersService    *users.Service
	OTPService      *otp.Service
	AnalysisService *analysis.Service
	LLM             llm.Client
	Mailer          mail.Mailer
}

// Build prepares dependencies and the router. Without a database in dev the
// app falls back to in-memory repositories; in production a database is
// required.
func Build(cfg config.Config) (*App, error) {
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  localstore.New(cfg.UploadDir),
	}

	if sqlDB != nil {
		app.UsersRepo = &users.PGRepo{DB: sqlDB}
		app.ReportsRepo = &reports.PGRepo{DB: sqlDB}
		app.OTPRepo = otp.NewPGRepo(sqlDB)
	} else {
		app.UsersRepo = users.NewMemoryRepo()
		app.ReportsRepo = reports.NewMemoryRepo()
		app.OTPRepo = otp.NewMemoryRepo()
	}

	app.UsersService = users.NewService(app.UsersRepo)
	app.OTPService = otp.NewService(app.OTPRepo)
	app.Mailer = buildMailer(cfg)

	app.LLM = llm.PlaceholderClient{}
	if cfg.OpenAIAPIKey != "" {
		client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAITimeout)
		if err != nil {
			return nil, err
		}
		app.LLM = client
	} else {
		telemetry.Warn("bootstrap.llm_unconfigured", map[string]any{"hint": "set OPENAI_API_KEY"})
	}

	app.AnalysisService = &analysis.Service{
		Store:   app.Store,
		LLM:     app.LLM,
		Reports: app.ReportsRepo,
		Usage:   app.UsersRepo,
	}

	authHandler := auth.NewHandler(
		auth.NewGoogleVerifier(cfg.GoogleClientID),
		app.UsersService,
		app.OTPService,
		app.Mailer,
	)
	googleFlow := auth.NewGoogleFlow(
		cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, cfg.UIRedirectURL,
		app.UsersService,
	)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		Resolver:        identityResolver{users: app.UsersService},
		AuthHandler:     authHandler,
		GoogleFlow:      googleFlow,
		AnalysisHandler: analysis.NewHandler(app.AnalysisService, app.Store),
		ReportsHandler:  reports.NewHandler(app.ReportsRepo),
		AdminHandler:    admin.NewHandler(app.UsersRepo, app.ReportsRepo),
		DBConnected:     sqlDB != nil,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": err.Error()})
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return sqlDB, nil
}

func buildMailer(cfg config.Config) mail.Mailer {
	if cfg.SMTPHost == "" || cfg.SMTPUser == "" {
		telemetry.Warn("bootstrap.mail_unconfigured", map[string]any{"hint": "set SMTP_HOST and SMTP_USER"})
		return mail.LogMailer{}
	}
	from := cfg.MailFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, from)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

// identityResolver adapts the users service to the auth middleware.
type identityResolver struct {
	users *users.Service
}

func (r identityResolver) Resolve(ctx context.Context, userID string) (middleware.Identity, error) {
	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return middleware.Identity{}, err
	}
	return middleware.Identity{
		ID:     user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
		Status: user.Status,
	}, nil
}
