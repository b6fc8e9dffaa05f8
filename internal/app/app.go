package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "crmdash/docs"
	"crmdash/internal/config"
	"crmdash/internal/handlers"
	"crmdash/internal/middleware"
	"crmdash/internal/pdf"
	"crmdash/internal/realtime"
	"crmdash/internal/recordstore"
	"crmdash/internal/repositories"
	"crmdash/internal/routes"
	"crmdash/internal/seed"
	"crmdash/internal/services"
	"crmdash/internal/utils"
)

// App holds the wired dependency graph.
type App struct {
	Config *config.Config
	Log    *zap.Logger
	Store  recordstore.Client
	Hub    *realtime.Hub

	Contacts   *services.ContactService
	Deals      *services.DealService
	Pipeline   *services.PipelineService
	Activities *services.ActivityService
	Dashboard  *services.DashboardService
	Auth       *services.AuthService
	Reports    *services.ReportService

	contactRepo  *repositories.ContactRepository
	dealRepo     *repositories.DealRepository
	activityRepo *repositories.ActivityRepository
	jwt          *middleware.JWT
}

// New opens the record store and builds services. The caller owns Close.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	store, err := recordstore.Open(ctx, recordstore.Options{
		Driver: cfg.Store.Driver,
		DSN:    cfg.Store.DSN,
		Remote: recordstore.RemoteConfig{
			BaseURL:   cfg.Store.BaseURL,
			ProjectID: cfg.Store.ProjectID,
			PublicKey: cfg.Store.PublicKey,
			Timeout:   cfg.Store.Timeout,
		},
		Tables: repositories.Tables,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("open record store: %w", err)
	}
	return NewWithStore(cfg, store, log), nil
}

// NewWithStore wires everything on top of an already opened store.
func NewWithStore(cfg *config.Config, store recordstore.Client, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		// без секрета: случайный на процесс, токены не переживают рестарт
		var err error
		if secret, err = utils.RandomToken(32); err != nil {
			panic(fmt.Sprintf("generate jwt secret: %v", err))
		}
		log.Warn("[app][auth] jwt_secret is empty, using a random per-process secret; set CRM_JWT_SECRET")
	}
	a := &App{
		Config:       cfg,
		Log:          log,
		Store:        store,
		Hub:          realtime.NewHub(log),
		contactRepo:  repositories.NewContactRepository(store, log),
		dealRepo:     repositories.NewDealRepository(store, log),
		activityRepo: repositories.NewActivityRepository(store, log),
		jwt:          middleware.NewJWT(secret, cfg.Auth.AccessTTL),
	}
	userRepo := repositories.NewUserRepository(store, log)

	// nil *EmailService нельзя класть в интерфейс
	var mailer services.Mailer
	if es := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	); es != nil {
		mailer = es
	}

	notifier, err := services.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.ChatID, log)
	if err != nil {
		log.Warn("[app][telegram] disabled", zap.Error(err))
		notifier = services.NopNotifier{}
	}

	a.Contacts = services.NewContactService(a.contactRepo, log)
	a.Deals = services.NewDealService(a.dealRepo, a.Hub, notifier, log)
	a.Pipeline = services.NewPipelineService(a.dealRepo, a.Hub, notifier, log)
	a.Activities = services.NewActivityService(a.activityRepo, a.contactRepo, mailer, log)
	a.Dashboard = services.NewDashboardService(a.contactRepo, a.dealRepo, a.activityRepo, log)
	a.Auth = services.NewAuthService(userRepo, a.jwt, log)
	a.Reports = services.NewReportService(a.dealRepo, pdf.NewDocumentGenerator(cfg.Files.RootDir, cfg.Files.FontPath))
	return a
}

// Bootstrap creates the admin user and, when enabled, loads the demo data.
func (a *App) Bootstrap(ctx context.Context) error {
	if _, err := a.Auth.EnsureAdmin(ctx, a.Config.Auth.AdminEmail, a.Config.Auth.AdminPassword); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	if a.Config.Store.Seed {
		if _, err := a.Seed(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) Seed(ctx context.Context) (seed.Result, error) {
	res, err := seed.Load(ctx, a.contactRepo, a.dealRepo, a.activityRepo, a.Log)
	if err != nil {
		return res, fmt.Errorf("seed: %w", err)
	}
	return res, nil
}

// Router builds the gin engine with every route mounted.
func (a *App) Router() *gin.Engine {
	gin.SetMode(a.Config.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(a.Log))
	router.Use(middleware.Metrics())
	router.Use(corsMiddleware())

	// Роуты (JWT/RBAC внутри SetupRoutes)
	return routes.SetupRoutes(router, a.jwt,
		routes.RecordKeys{ProjectID: a.Config.Server.APIProjectID, PublicKey: a.Config.Server.APIPublicKey},
		routes.Handlers{
			Auth:       handlers.NewAuthHandler(a.Auth),
			Contacts:   handlers.NewContactHandler(a.Contacts),
			Deals:      handlers.NewDealHandler(a.Deals, a.Pipeline),
			Pipeline:   handlers.NewPipelineHandler(a.Pipeline),
			Activities: handlers.NewActivityHandler(a.Activities),
			Dashboard:  handlers.NewDashboardHandler(a.Dashboard),
			Reports:    handlers.NewReportHandler(a.Reports),
			Records:    handlers.NewRecordHandler(a.Store),
			BoardFeed:  handlers.NewBoardFeedHandler(a.Hub),
		})
}

// Serve listens until ctx is cancelled, then shuts down gracefully.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("[app][serve] listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Log.Info("[app][serve] shutting down")
	a.Hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func (a *App) Close() error {
	a.Hub.Close()
	return a.Store.Close()
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Total-Count, X-Request-ID")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
