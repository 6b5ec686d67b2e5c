package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"goblog/config"
	"goblog/internal/adapter/in/web"
	memstore "goblog/internal/adapter/out/storage/inmemory"
	pgstore "goblog/internal/adapter/out/storage/postgres"
	"goblog/internal/service"
	"goblog/pkg/logger"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	cfg      config.Config
	srv      *http.Server
	pool     *pgxpool.Pool
	sessions *service.SessionService
}

func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	log := logger.FromContext(ctx)

	var (
		postStorage    service.PostStorage
		commentStorage service.CommentStorage
		userStorage    service.UserStorage
		sessionStorage service.SessionStorage
		trManager      service.TxManager
		pool           *pgxpool.Pool
	)

	switch cfg.StorageType {
	case "postgres":
		if err := pgstore.MigrationsUp(cfg.Postgres.GetDSN(), cfg.Postgres.MigrationsDir); err != nil {
			return nil, err
		}

		var err error
		pool, err = pgxpool.New(ctx, cfg.Postgres.GetDSN())
		if err != nil {
			return nil, fmt.Errorf("pgxpool: %w", err)
		}
		postStorage = pgstore.NewPostStorage(pool, trmpgx.DefaultCtxGetter)
		commentStorage = pgstore.NewCommentStorage(pool, trmpgx.DefaultCtxGetter)
		userStorage = pgstore.NewUserStorage(pool, trmpgx.DefaultCtxGetter)
		sessionStorage = pgstore.NewSessionStorage(pool, trmpgx.DefaultCtxGetter)
		trManager = manager.Must(trmpgx.NewDefaultFactory(pool))

	default:
		users := memstore.NewUserStorage()
		postStorage = memstore.NewPostStorage(users)
		commentStorage = memstore.NewCommentStorage(users)
		userStorage = users
		sessionStorage = memstore.NewSessionStorage()
		trManager = memstore.NewTxManager()
	}

	postSvc := service.NewPostService(postStorage, commentStorage, trManager)
	commentSvc := service.NewCommentService(commentStorage, postStorage)
	userSvc := service.NewUserService(userStorage)
	sessionSvc := service.NewSessionService(sessionStorage, userStorage)

	if removed, err := sessionSvc.CleanupExpired(ctx); err != nil {
		log.Warn("cleaning up expired sessions", "error", err)
	} else if removed > 0 {
		log.Info("removed expired sessions", "count", removed)
	}

	handler, err := web.NewHandler(postSvc, commentSvc, userSvc, sessionSvc, log)
	if err != nil {
		return nil, err
	}

	addr := ":" + cfg.HTTP.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info("app initialized", "addr", addr, "storage", cfg.StorageType)
	return &App{cfg: cfg, srv: srv, pool: pool, sessions: sessionSvc}, nil
}

func (a *App) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", a.srv.Addr)
		errCh <- a.srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = a.srv.Shutdown(shCtx)
		if a.pool != nil {
			a.pool.Close()
		}
		return nil

	case err := <-errCh:
		if a.pool != nil {
			a.pool.Close()
		}
		return err
	}
}
