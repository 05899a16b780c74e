package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"taskflow/internal/auth"
	"taskflow/internal/cache"
	"taskflow/internal/config"
	"taskflow/internal/jobs"
	"taskflow/internal/remote"
	"taskflow/internal/repo"
	"taskflow/internal/service"
	"taskflow/internal/store"
	"taskflow/internal/workspace"
	"taskflow/migrations"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
)

type App struct {
	cfg      config.Config
	log      *slog.Logger
	db       *pgxpool.Pool
	redis    *redis.Client
	services Services
	router   *gin.Engine
	stop     context.CancelFunc
}

func New(cfg config.Config, log *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	var (
		records  remote.Database
		accounts repo.AccountRepo
	)
	switch cfg.App.Storage {
	case config.StorageMemory:
		log.Warn("using in-memory storage; data is lost on restart")
		records = remote.NewMemory(store.Schema())
		accounts = repo.NewMemoryAccountRepo()
	default:
		db, err := newPostgres(cfg.PG.DSN)
		if err != nil {
			return nil, err
		}
		a.db = db
		if err := runMigrations(cfg.PG.DSN); err != nil {
			db.Close()
			return nil, err
		}
		records = remote.NewPostgres(db, store.Schema())
		accounts = repo.NewPGAccountRepo(db)
	}

	rdb, err := newRedis(cfg.Redis)
	if err != nil {
		if a.db != nil {
			a.db.Close()
		}
		return nil, err
	}
	a.redis = rdb

	providers, err := cfg.Auth.Providers()
	if err != nil {
		a.closeClients()
		return nil, err
	}
	a.services = NewServices(ServiceDeps{
		Records:   records,
		Accounts:  service.NewAccountService(accounts, 0),
		Redis:     rdb,
		JobStore:  cache.NewJobCache(rdb),
		Providers: providers,
		Log:       log,
	}, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	a.stop = cancel
	go a.services.Registry.Run(ctx)

	a.router = newRouter(cfg, a.services)
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Close(ctx context.Context) error {
	_ = ctx
	if a.stop != nil {
		a.stop()
	}
	a.services.Close()
	a.closeClients()
	return nil
}

func (a *App) closeClients() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

// ServiceDeps are the external clients the services are built on.
type ServiceDeps struct {
	Records   remote.Database
	Accounts  *service.AccountService
	Redis     *redis.Client
	JobStore  jobs.Store
	Providers map[string]string
	Log       *slog.Logger
}

// Services are the long-lived components behind the routes.
type Services struct {
	Registry *workspace.Registry
	Tokens   *auth.Tokens
	Runner   *jobs.Runner
}

func NewServices(d ServiceDeps, cfg config.Config) Services {
	ttl := cfg.Auth.SessionTTL.Duration()
	tokens := auth.NewTokens(cfg.Auth.JWTSecret, ttl)
	identities := auth.Provider{
		Sessions: auth.NewStore(d.Redis, ttl),
		Accounts: d.Accounts,
		OAuth:    auth.NewOAuth(d.Providers, cfg.Auth.OAuthClientID, tokens),
	}
	registry := workspace.NewRegistry(workspace.Deps{
		Tasks:    store.NewTaskStore(d.Records, nil),
		Articles: store.NewArticleStore(d.Records, nil),
		Identity: func(sid string) workspace.Identity { return identities.Client(sid) },
		Log:      d.Log,
	}, workspace.Options{
		IdleTimeout:   cfg.Workspace.IdleTimeout.Duration(),
		SweepInterval: cfg.Workspace.SweepInterval.Duration(),
	})
	runner := jobs.NewRunner(d.JobStore, jobs.Options{
		Tick:      cfg.Jobs.Tick.Duration(),
		Retention: cfg.Jobs.Retention.Duration(),
	}, d.Log)
	return Services{Registry: registry, Tokens: tokens, Runner: runner}
}

func (s Services) Close() {
	if s.Runner != nil {
		s.Runner.Close()
	}
	if s.Registry != nil {
		s.Registry.Close()
	}
}

func newPostgres(dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}

	return pool, nil
}

func newRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

func runMigrations(dsn string) error {
	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("goose open db: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func newRouter(cfg config.Config, s Services) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(origin string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Cookie"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	Setup(r, cfg, s)
	return r
}
