// Package app собирает зависимости клиента маркетплейса.
// Каждый App изолирован: свое хранилище, свой store, своя цепочка middleware.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/iudanet/digimarket/internal/client/admin"
	"github.com/iudanet/digimarket/internal/client/api"
	"github.com/iudanet/digimarket/internal/client/auth"
	"github.com/iudanet/digimarket/internal/client/config"
	"github.com/iudanet/digimarket/internal/client/dashboard"
	"github.com/iudanet/digimarket/internal/client/orders"
	"github.com/iudanet/digimarket/internal/client/products"
	"github.com/iudanet/digimarket/internal/client/sellers"
	"github.com/iudanet/digimarket/internal/client/storage/boltdb"
	"github.com/iudanet/digimarket/internal/client/storage/sqlite"
)

// SessionExpiredFunc вызывается, когда сервер отклонил сохраненный токен
// и сессия сброшена
type SessionExpiredFunc func(ctx context.Context)

// App содержит все сервисы клиента
type App struct {
	Logger    *slog.Logger
	Bolt      *boltdb.Storage
	Cache     *sqlite.Storage
	Client    *api.Client
	Auth      *auth.Service
	Store     *auth.Store
	Products  *products.Service
	Sellers   *sellers.Service
	Admin     *admin.Service
	Orders    *orders.Service
	Dashboard *dashboard.Dashboard

	onExpired SessionExpiredFunc
}

// Option настраивает App
type Option func(*options)

type options struct {
	transport http.RoundTripper
	onExpired SessionExpiredFunc
}

// WithTransport подменяет базовый HTTP транспорт
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) {
		o.transport = rt
	}
}

// OnSessionExpired задает реакцию на истекшую сессию (аналог перехода на логин)
func OnSessionExpired(fn SessionExpiredFunc) Option {
	return func(o *options) {
		o.onExpired = fn
	}
}

// New открывает хранилища и создает сервисы.
// Обращений к серверу при создании нет.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{
		Logger:    logger,
		onExpired: o.onExpired,
	}

	bolt, err := boltdb.New(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}
	a.Bolt = bolt

	cachePath := cfg.CachePath
	if cachePath == "" {
		cachePath = ":memory:"
	}
	cache, err := sqlite.New(ctx, cachePath)
	if err != nil {
		_ = bolt.Close()
		return nil, fmt.Errorf("failed to open product cache: %w", err)
	}
	a.Cache = cache

	middleware := api.WithMiddleware(
		api.RequestID(),
		api.Logging(logger),
		api.BearerAuth(bolt),
		api.Unauthorized(bolt, a.sessionExpired),
	)

	clientOpts := []api.Option{middleware, api.WithLogger(logger), api.WithTimeout(cfg.Timeout)}
	// Загрузки ограничены только контекстом
	uploadOpts := []api.Option{middleware, api.WithLogger(logger), api.WithTimeout(0)}
	if o.transport != nil {
		clientOpts = append(clientOpts, api.WithTransport(o.transport))
		uploadOpts = append(uploadOpts, api.WithTransport(o.transport))
	}

	a.Client = api.NewClient(cfg.APIURL, clientOpts...)
	uploads := api.NewClient(cfg.APIURL, uploadOpts...)

	a.Auth = auth.NewService(a.Client, bolt)
	a.Products = products.NewService(uploads)
	a.Sellers = sellers.NewService(a.Client)
	a.Admin = admin.NewService(a.Client)
	a.Orders = orders.NewService(a.Client)
	a.Dashboard = dashboard.New(a.Products, cache, logger)

	store, err := auth.NewStore(ctx, a.Auth, bolt, logger)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	a.Store = store

	return a, nil
}

// sessionExpired вызывается middleware на 401, когда токена в хранилище уже нет.
// Реакция срабатывает только если store еще считал сессию живой: неверный
// пароль на чистом клиенте не считается истекшей сессией.
func (a *App) sessionExpired(ctx context.Context) {
	if a.Store == nil || !a.Store.Expire(ctx) {
		return
	}
	a.Logger.InfoContext(ctx, "session expired")
	if a.onExpired != nil {
		a.onExpired(ctx)
	}
}

// Close закрывает хранилища
func (a *App) Close() error {
	var errs []error
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close product cache: %w", err))
		}
	}
	if a.Bolt != nil {
		if err := a.Bolt.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close session database: %w", err))
		}
	}
	return errors.Join(errs...)
}
