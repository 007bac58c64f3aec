package main

import (
	"context"
	"fmt"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/neighborly/api/handler"
	"github.com/fastygo/neighborly/domain"
	"github.com/fastygo/neighborly/internal/config"
	"github.com/fastygo/neighborly/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/neighborly/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/neighborly/internal/infrastructure/redis"
	"github.com/fastygo/neighborly/internal/middleware"
	"github.com/fastygo/neighborly/internal/router"
	"github.com/fastygo/neighborly/internal/services/lifecycle"
	"github.com/fastygo/neighborly/pkg/httpcontext"
	"github.com/fastygo/neighborly/pkg/token"
	"github.com/fastygo/neighborly/repository"
	"github.com/fastygo/neighborly/repository/bolt"
	"github.com/fastygo/neighborly/repository/postgres"
	redisRepo "github.com/fastygo/neighborly/repository/redis"
	authUC "github.com/fastygo/neighborly/usecase/auth"
	messageUC "github.com/fastygo/neighborly/usecase/message"
	profileUC "github.com/fastygo/neighborly/usecase/profile"
	reputationUC "github.com/fastygo/neighborly/usecase/reputation"
	taskUC "github.com/fastygo/neighborly/usecase/task"
)

func serve(parent context.Context, cfg *config.Config, log *zap.Logger) error {
	if parent == nil {
		parent = context.Background()
	}
	manager := lifecycle.New(cfg.Context.ShutdownTimeout, log)
	appCtx, cancel := manager.Listen(parent)
	defer cancel()

	store, err := openStore(appCtx, cfg, log)
	if err != nil {
		return err
	}
	manager.Register("store", func(ctx context.Context) error {
		return store.Close()
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis, log)
	if err != nil {
		_ = manager.Shutdown(context.Background())
		return fmt.Errorf("redis connection failed: %w", err)
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	mon := monitor.New(cfg.Monitor.Interval, log,
		monitor.Check{Name: cfg.Store.Driver, Ping: store.Ping},
		monitor.Check{Name: "redis", Ping: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}},
	)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	signer, err := token.NewSigner(cfg.JWT.Secret, cfg.JWT.Issuer)
	if err != nil {
		_ = manager.Shutdown(context.Background())
		return err
	}

	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.JWT.SessionTTL)

	authUseCase := authUC.New(store, sessionRepo, cfg.JWT.SessionTTL, log)
	taskUseCase := taskUC.New(store, taskUC.Options{
		RewardPolicy:    domain.RewardPolicy{Min: cfg.Tasks.RewardMin, Max: cfg.Tasks.RewardMax},
		DefaultRadiusKm: cfg.Tasks.DefaultRadiusKm,
	}, log)
	profileUseCase := profileUC.New(store, cfg.Tasks.DefaultRadiusKm, log)
	messageUseCase := messageUC.New(store, log)
	reputationUseCase := reputationUC.New(store, log)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:    apiHandler.NewAuthHandler(authUseCase, signer, ctxAdapter, log),
		Profile: apiHandler.NewProfileHandler(profileUseCase, ctxAdapter, log),
		Task:    apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, log),
		Message: apiHandler.NewMessageHandler(messageUseCase, ctxAdapter, log),
		Review:  apiHandler.NewReviewHandler(reputationUseCase, ctxAdapter, log),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, log),
	}

	guard := middleware.NewAuth(signer, authUseCase, ctxAdapter, log)
	r := router.New(handlers, guard, log)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server started", zap.String("address", cfg.Address()), zap.String("store", cfg.Store.Driver))
		serverErr <- server.ListenAndServe(cfg.Address())
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	var runErr error
	select {
	case <-appCtx.Done():
	case err := <-serverErr:
		if err != nil {
			runErr = fmt.Errorf("server crashed: %w", err)
		}
	}

	if err := manager.Shutdown(context.Background()); err != nil {
		log.Error("graceful shutdown error", zap.Error(err))
	}
	return runErr
}

// openStore connects the configured document store, migrating Postgres first when enabled.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverBolt:
		store, err := bolt.Open(cfg.Store.BoltPath)
		if err != nil {
			return nil, fmt.Errorf("open bolt store: %w", err)
		}
		log.Info("bolt store opened", zap.String("path", cfg.Store.BoltPath))
		return store, nil
	default:
		if err := pgInfra.RunMigrations(cfg, log); err != nil {
			return nil, fmt.Errorf("migrations failed: %w", err)
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("postgres connection failed: %w", err)
		}
		return postgres.NewStore(pool), nil
	}
}
