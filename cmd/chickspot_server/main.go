package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chickspot/chickspot/internal/auth"
	"github.com/chickspot/chickspot/internal/callbacks"
	"github.com/chickspot/chickspot/internal/config"
	"github.com/chickspot/chickspot/internal/database"
	"github.com/chickspot/chickspot/internal/invite"
	"github.com/chickspot/chickspot/internal/model"
	"github.com/chickspot/chickspot/internal/repository"
	"github.com/chickspot/chickspot/internal/signup"
)

var gitRevision = "unknown"

type App struct {
	logger *slog.Logger
	config *config.AppConfig

	dbm      *database.DatabaseManager
	stores   *repository.StoreFileRepository
	signup   *signup.Manager
	google   *auth.GoogleAuth
	sessions *auth.SessionManager
	carrier  *invite.Carrier

	sightingCb *callbacks.Callback[*model.Sighting]
}

func NewApp(cfg *config.AppConfig) *App {
	db, err := database.GetDatabase(cfg.DB(), cfg.Debug())
	if err != nil {
		panic(err)
	}

	dbm := database.New(db)

	if err := dbm.Migrate(); err != nil {
		panic(err)
	}

	app := &App{
		logger: slog.Default(),
		config: cfg,
		dbm:    dbm,
		stores: repository.NewStoreFileRepo(cfg.StoresFile()),
		signup: signup.New(dbm),
		google: auth.NewGoogleAuth(&auth.GoogleConfig{
			ClientID:     cfg.OauthClientID(),
			ClientSecret: cfg.OauthClientSecret(),
			RedirectURL:  cfg.BaseURL() + "/auth/google/callback",
			StateSecret:  cfg.OauthStateSecret(),
		}),
		sessions:   auth.NewSessionManager(dbm, cfg.TokenSecret(), cfg.TokenMaxAge()),
		carrier:    invite.NewCarrier(signupPath, cfg.InviteCookieMaxAge()),
		sightingCb: callbacks.New[*model.Sighting](),
	}

	return app
}

func (app *App) Run() {
	app.stores.ReloadCallback().AddCallback("db_sync", app.syncStores)

	if err := app.stores.Start(); err != nil {
		app.logger.Error("stores watcher error", slog.Any("error", err))
	}

	api := NewPublicAPI(app, app.config.ApiAddr())

	go func() {
		if err := api.Listen(); err != nil {
			panic(err)
		}
	}()

	admin := NewAdminAPI(app, app.config.AdminAddr())

	go func() {
		if err := admin.Listen(); err != nil {
			panic(err)
		}
	}()

	go app.cleaner()

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	<-c

	app.logger.Info("exiting...")
	app.stores.Stop()
}

func (app *App) syncStores(stores []*model.Store) bool {
	for _, s := range stores {
		if err := app.dbm.UpsertStore(s); err != nil {
			app.logger.Error("store sync error", slog.Any("error", err))
		}
	}

	return true
}

func (app *App) cleaner() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		app.dbm.DeleteExpiredSessions(time.Now())
	}
}

func main() {
	configName := flag.String("config", "chickspot.yml", "name of config file")
	debug := flag.Bool("debug", false, "debug logging")
	flag.Parse()

	cfg := config.NewAppConfig()
	cfg.Load(*configName)

	if err := cfg.LoadEnv("CHICKSPOT_"); err != nil {
		slog.Error("env config error", slog.Any("error", err))
	}

	if *debug {
		_ = cfg.Set("debug", true)
	}

	level := slog.LevelInfo
	if cfg.Debug() {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	slog.Info("starting server", slog.String("version", gitRevision))

	NewApp(cfg).Run()
}
