// Package app wires the service together with fx.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/erazemk/shramba/internal/api"
	"github.com/erazemk/shramba/internal/blob"
	"github.com/erazemk/shramba/internal/config"
	"github.com/erazemk/shramba/internal/db"
	"github.com/erazemk/shramba/internal/inventory"
	"github.com/erazemk/shramba/internal/logging"
	"github.com/erazemk/shramba/internal/store"
	"github.com/erazemk/shramba/internal/tracing"
)

// ServiceName identifies the service in logs and traces.
const ServiceName = "shramba"

// JWTSecret is the key session and file tokens are signed with.
type JWTSecret string

// Version is the build version reported in traces.
type Version string

// Module provides every component of the service and starts the HTTP server.
var Module = fx.Options(
	fx.Provide(
		provideLogger,
		provideTracing,
		provideDB,
		provideStore,
		provideJWTSecret,
		provideBucket,
		provideInventory,
		provideRouter,
		provideServer,
	),
	fx.Invoke(startServer),
)

// New builds the application for cfg.
func New(cfg *config.Config, version string, opts ...fx.Option) *fx.App {
	return fx.New(
		fx.Supply(cfg, Version(version)),
		fx.WithLogger(func(log *zap.SugaredLogger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Desugar()}
		}),
		Module,
		fx.Options(opts...),
	)
}

func provideLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.SugaredLogger, error) {
	log, cleanup, err := logging.New(cfg.Log.Level, cfg.Log.Path)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(cleanup))
	return log, nil
}

func provideTracing(lc fx.Lifecycle, cfg *config.Config, version Version, log *zap.SugaredLogger) (trace.TracerProvider, error) {
	p, err := tracing.New(context.Background(), cfg.Tracing, ServiceName, string(version), log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(p.Shutdown))
	return p.TracerProvider, nil
}

func provideDB(lc fx.Lifecycle, cfg *config.Config, log *zap.SugaredLogger) (*sqlx.DB, error) {
	database, err := OpenDatabase(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	log.Infow("database ready", "driver", cfg.Database.Driver)
	lc.Append(fx.StopHook(database.Close))
	return database, nil
}

// OpenDatabase opens the configured database and ensures its schema exists.
func OpenDatabase(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	database, err := db.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx, database); err != nil {
		database.Close()
		return nil, fmt.Errorf("ensuring database schema: %w", err)
	}
	return database, nil
}

func provideStore(database *sqlx.DB) *store.Store {
	return store.New(database)
}

func provideJWTSecret(s *store.Store) (JWTSecret, error) {
	secret, err := s.GetJWTSecret(context.Background())
	if err != nil {
		return "", fmt.Errorf("getting JWT secret: %w", err)
	}
	return JWTSecret(secret), nil
}

type buckets struct {
	fx.Out

	Bucket blob.Bucket
	Files  *blob.Local
}

func provideBucket(lc fx.Lifecycle, cfg *config.Config, secret JWTSecret) (buckets, error) {
	switch cfg.Storage.Mode {
	case config.StorageGCS:
		var opts []option.ClientOption
		if cfg.Storage.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.Storage.CredentialsFile))
		}
		gcs, err := blob.NewGCS(context.Background(), cfg.Storage.Bucket, cfg.Storage.URLTTL, opts)
		if err != nil {
			return buckets{}, err
		}
		lc.Append(fx.StopHook(gcs.Close))
		return buckets{Bucket: gcs}, nil
	default:
		local, err := blob.NewLocal(cfg.Storage.Dir, cfg.Storage.PublicBaseURL, string(secret), cfg.Storage.URLTTL)
		if err != nil {
			return buckets{}, err
		}
		return buckets{Bucket: local, Files: local}, nil
	}
}

type components struct {
	fx.Out

	Categories *inventory.CategoryAggregator
	Writer     *inventory.CategoryWriter
	Dashboard  *inventory.DashboardAggregator
}

func provideInventory(cfg *config.Config, s *store.Store, bucket blob.Bucket, tp trace.TracerProvider, log *zap.SugaredLogger) components {
	opts := []inventory.Option{
		inventory.WithTimeout(cfg.StoreTimeout),
		inventory.WithLogger(log),
		inventory.WithTracerProvider(tp),
	}
	return components{
		Categories: inventory.NewCategoryAggregator(s, opts...),
		Writer:     inventory.NewCategoryWriter(s, opts...),
		Dashboard:  inventory.NewDashboardAggregator(s, bucket, opts...),
	}
}

type routerParams struct {
	fx.In

	Config     *config.Config
	Store      *store.Store
	Categories *inventory.CategoryAggregator
	Writer     *inventory.CategoryWriter
	Dashboard  *inventory.DashboardAggregator
	Bucket     blob.Bucket
	Files      *blob.Local
	Secret     JWTSecret
	Tracer     trace.TracerProvider
	Log        *zap.SugaredLogger
}

func provideRouter(p routerParams) *gin.Engine {
	if p.Config.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	return api.NewRouter(api.RouterConfig{
		Store:          p.Store,
		Categories:     p.Categories,
		Writer:         p.Writer,
		Dashboard:      p.Dashboard,
		Bucket:         p.Bucket,
		Files:          p.Files,
		JWTSecret:      string(p.Secret),
		Log:            p.Log,
		AllowOrigins:   p.Config.CORS.AllowOrigins,
		TracerProvider: p.Tracer,
		ServiceName:    ServiceName,
	})
}

func provideServer(cfg *config.Config, engine *gin.Engine) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

func startServer(lc fx.Lifecycle, shutdowner fx.Shutdowner, server *http.Server, log *zap.SugaredLogger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", server.Addr)
			if err != nil {
				return fmt.Errorf("listening on %s: %w", server.Addr, err)
			}
			log.Infow("server started", "addr", ln.Addr().String())
			go func() {
				if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Errorw("server error", "error", err)
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("shutting down server")
			if err := server.Shutdown(ctx); err != nil {
				log.Errorw("server forced to shutdown", "error", err)
				return err
			}
			log.Infow("server stopped, closing database")
			return nil
		},
	})
}
