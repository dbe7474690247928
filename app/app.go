package gatedchat

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/putto11262002/gatedchat/core"
	"github.com/putto11262002/gatedchat/pkg/router"
)

type App struct {
	config  *Config
	context context.Context
	server  *http.Server
	logger  *slog.Logger
	router  *router.Router

	exit chan int

	chatStore    core.ChatStore
	themeStore   core.ThemeStore
	profileStore core.ProfileStore

	chatHandler    *ChatHandler
	themeHandler   *ThemeHandler
	profileHandler *ProfileHandler
	authHandler    *AuthHandler

	cleanupFuncs []func(context.Context)
}

type Option func(*App)

// WithLogger replaces the logger built from the config.
func WithLogger(logger *slog.Logger) Option {
	return func(app *App) {
		app.logger = logger
	}
}

// WithChatStore replaces the in-memory chat store built from the config.
func WithChatStore(store core.ChatStore) Option {
	return func(app *App) {
		app.chatStore = store
	}
}

// New validates the config and wires the stores, handlers and routes.
// If ctx is nil, the app stops on SIGINT, SIGTERM, SIGQUIT and SIGHUP.
func New(ctx context.Context, config *Config, opts ...Option) (*App, error) {
	app := &App{
		exit: make(chan int),
	}
	if ctx == nil {
		ctx, _ = signal.NotifyContext(
			context.Background(),
			syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)
	}
	app.context = ctx

	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := config.Validate(); err != nil {
		if msg := FormatValidationErrors(err); msg != "" {
			return nil, fmt.Errorf("invalid config:\n%s", msg)
		}
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	app.config = config

	for _, opt := range opts {
		opt(app)
	}

	if app.logger == nil {
		app.logger = NewLogger(os.Stdout, app.config.Log.Level)
	}

	if app.chatStore == nil {
		chatStore, err := core.NewMemoryChatStore(app.config.Rooms, core.WithLogger(app.logger))
		if err != nil {
			return nil, fmt.Errorf("create chat store: %w", err)
		}
		app.chatStore = chatStore
	}
	app.themeStore = core.NewMemoryThemeStore(app.config.Theme)
	app.profileStore = core.NewMemoryProfileStore()

	app.chatHandler = NewChatHandler(app.chatStore)
	app.themeHandler = NewThemeHandler(app.themeStore)
	app.profileHandler = NewProfileHandler(app.profileStore)
	app.authHandler = NewAuthHandler(app.config.Auth.TokenSecret, app.config.Auth.TokenTTL)

	app.router = router.New(router.WithLogger(app.logger))

	app.router.Router.Use(middleware.RequestID)
	app.router.Router.Use(middleware.Recoverer)
	app.router.Router.Use(corsMiddleware(app.config.AllowedOrigins))
	app.router.Router.Use(middleware.RequestSize(app.config.Limits.MaxBodyBytes))

	api := router.New(router.WithLogger(app.logger))
	registerErrorMappers(api)
	api.Use(AppKeyMiddleware(app.config.Auth.AppKey, app.config.Auth.TokenSecret))

	api.Get("/health", app.profileHandler.HealthHandler)
	api.Get("/me", app.profileHandler.MeHandler)
	api.Post("/verify18/mock-complete", app.profileHandler.MockVerifyHandler)
	api.Post("/session", app.authHandler.SessionHandler)

	api.Get("/theme", app.themeHandler.GetThemeHandler)
	api.Post("/theme", app.themeHandler.SaveThemeHandler)

	api.Route("/rooms", func(r *router.Router) {
		r.Get("/", app.chatHandler.ListRoomsHandler)
		r.Get("/{roomID}/messages", app.chatHandler.GetRoomMessagesHandler)
		r.Post("/{roomID}/messages", app.chatHandler.SendRoomMessageHandler)
	})

	api.Route("/dms/threads", func(r *router.Router) {
		r.Get("/", app.chatHandler.ListDmThreadsHandler)
		r.Post("/open", app.chatHandler.OpenDmThreadHandler)
		r.Get("/{threadID}/messages", app.chatHandler.GetDmMessagesHandler)
		r.Post("/{threadID}/messages", app.chatHandler.SendDmMessageHandler)
	})

	app.router.Mount("/v1", api)

	app.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", app.config.Hostname, app.config.Port),
		Handler:           app.router.Router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(listener net.Listener) context.Context {
			return app.context
		},
	}
	if app.config.Mode == ProdMode {
		app.server.TLSConfig = prodTLSConfig.Clone()
	}

	return app, nil
}

// Handler returns the root HTTP handler of the app.
func (app *App) Handler() http.Handler {
	return app.router.Router
}

func (app *App) Start() {
	// listen for shutdown signal
	go func() {
		<-app.context.Done()
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer closeCancel()
		var wg sync.WaitGroup

		for _, f := range app.cleanupFuncs {
			wg.Add(1)
			go func() {
				defer wg.Done()
				f(closeCtx)
			}()
		}

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			app.logger.Info("app shutdown gracefully")
			app.exit <- 0
		case <-closeCtx.Done():
			app.logger.Info("app shutdown timed out")
			app.exit <- 1
		}
	}()

	app.AddCleanupFunc(func(ctx context.Context) {
		if err := app.server.Shutdown(ctx); err != nil {
			app.logger.Error("server shutdown", slog.String("error", err.Error()))
		}
	})
	app.logger.Info(fmt.Sprintf("app running in %s mode on: %s:%d",
		app.config.Mode, app.config.Hostname, app.config.Port),
		slog.Int("rooms", len(app.config.Rooms)))

	var err error
	if app.config.TLS.Key != "" && app.config.TLS.Crt != "" {
		err = app.server.ListenAndServeTLS(app.config.TLS.Crt, app.config.TLS.Key)
	} else {
		err = app.server.ListenAndServe()
	}
	if err != nil && err != http.ErrServerClosed {
		failed(1, "server error: %v\n", err)
	}

	code := <-app.exit
	if code != 0 {
		failed(code, "app exit with code: %d\n", code)
	}
	os.Exit(code)
}

func (app *App) AddCleanupFunc(f func(context.Context)) {
	app.cleanupFuncs = append(app.cleanupFuncs, f)
}

func failed(code int, s string, args ...interface{}) {
	fmt.Printf(s, args...)
	os.Exit(code)
}
