package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"searchreview/internal/bootstrap/config"
	"searchreview/internal/bootstrap/database"
	"searchreview/internal/bootstrap/logging"
	"searchreview/internal/errs"
	authinfra "searchreview/internal/infrastructure/auth"
	cacheinfra "searchreview/internal/infrastructure/cache"
	sqliterepo "searchreview/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "searchreview/internal/infrastructure/persistence/sqlite/uow"
	"searchreview/internal/infrastructure/signing"
	"searchreview/internal/ports"
	"searchreview/internal/usecase/review"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewReviewRepository,
			fx.As(new(ports.ReviewRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliteuow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(
		fx.Annotate(
			cacheinfra.NewSQLiteCache,
			fx.As(new(ports.Cache)),
		),
	),
	fx.Provide(
		fx.Annotate(
			authinfra.NewStoreAuthenticator,
			fx.As(new(ports.Authenticator)),
		),
	),
	fx.Provide(provideSigner),
	fx.Provide(provideSettings),
	fx.Provide(review.NewService),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}

func provideSigner(cfg config.Config) (ports.ObjectSigner, error) {
	signer, err := signing.NewHMACSigner(
		cfg.Storage.Endpoint,
		cfg.Storage.Bucket,
		cfg.Storage.AccessKey,
		cfg.Storage.Secret,
		cfg.Storage.URLExpiry,
	)
	if err != nil {
		return nil, errs.Wrap(err, "build object signer")
	}
	return signer, nil
}

func provideSettings(cfg config.Config) (review.Settings, error) {
	location, err := time.LoadLocation(cfg.Review.Timezone)
	if err != nil {
		return review.Settings{}, errs.Wrapf(err, "load review timezone %q", cfg.Review.Timezone)
	}

	return review.Settings{
		Location:    location,
		BatchLimit:  cfg.Review.BatchLimit,
		HistoryDays: cfg.Review.HistoryDays,
	}, nil
}
