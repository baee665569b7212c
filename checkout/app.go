package checkout

import (
    "context"
    "fmt"
    "log/slog"
    "net"
    "net/http"
    "sync"

    "github.com/MahmoudElhosary/MastercardHostedCheckout/internal/middleware"
    "github.com/MahmoudElhosary/MastercardHostedCheckout/internal/mpgs"
    "github.com/go-chi/chi/v5"
)

// App is the main application, it contains all the components of the
// checkout service and is responsible for starting and stopping them.
type App struct {
    srv    *http.Server
    wg     *sync.WaitGroup
    Addr   string
    logger *slog.Logger
    config *Config
}

func NewApp(logger *slog.Logger, config *Config) *App {
    logger = logger.With(slog.String("app", "checkout"))

    if config == nil {
        config = DefaultConfig()
    }

    return &App{
        wg:     &sync.WaitGroup{},
        logger: logger,
        config: config,
    }
}

func (a *App) Start() error {
    a.logger.Info("starting app...")

    if a.config.GatewayBaseURL == "" {
        return fmt.Errorf("gateway base URL is required")
    }
    if a.config.MerchantID == "" {
        return fmt.Errorf("default merchant id is required")
    }

    router := chi.NewRouter()
    router.Use(middleware.NewStructuredLogger(a.logger))

    gateway := mpgs.NewClient(a.logger, a.config.GatewayBaseURL, a.config.APIVersion,
        a.config.APIUsername, a.config.APIPassword, nil)
    repository := NewRepository()
    service := NewService(a.logger, repository, gateway, a.config)

    api := NewAPI(service)
    api.AppendRoutes(router)

    router.Get("/-/live", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

    l, err := net.Listen("tcp", a.config.HTTPAddr)
    if err != nil {
        return fmt.Errorf("listening tcp port: %w", err)
    }

    a.Addr = l.Addr().String()

    a.srv = &http.Server{
        Handler: router,
    }

    a.wg.Add(1)
    go func() {
        a.logger.Info("http server started", slog.String("addr", a.Addr))

        if err := a.srv.Serve(l); err != nil {
            if err != http.ErrServerClosed {
                a.logger.Error("starting http server", "err", err)
            }

            a.logger.Info("http server stopped")
        }

        a.wg.Done()
    }()

    return nil
}

func (a *App) Shutdown() {
    a.logger.Info("shutting down app...")

    a.srv.Shutdown(context.Background())

    a.wg.Wait()

    a.logger.Info("app stopped")
}
