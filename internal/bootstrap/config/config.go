package config

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"searchreview/internal/bootstrap/logging"
	"searchreview/internal/errs"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Review   ReviewConfig   `mapstructure:"review"`
	Storage  StorageConfig  `mapstructure:"storage"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type ReviewConfig struct {
	// Timezone names the fixed zone used to bucket records into calendar
	// days. Changing it moves existing records across day boundaries.
	Timezone    string `mapstructure:"timezone"`
	BatchLimit  int    `mapstructure:"batch_limit"`
	HistoryDays int    `mapstructure:"history_days"`
}

type StorageConfig struct {
	Endpoint  string        `mapstructure:"endpoint"`
	Bucket    string        `mapstructure:"bucket"`
	AccessKey string        `mapstructure:"access_key"`
	Secret    string        `mapstructure:"secret"`
	URLExpiry time.Duration `mapstructure:"url_expiry"`
}

func Load(ctx context.Context, configFile string) (Config, error) {
	if ctx == nil {
		return Config{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Config{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.config"))

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			// Defaults plus env still form a runnable config.
			logging.Warn(logCtx, "config file not found, fallback to defaults and env")
		} else {
			return Config{}, errs.Wrap(err, "read config")
		}
	} else {
		logging.Info(logCtx, "using config file", slog.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.Wrap(err, "unmarshal config")
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}

	logging.Info(
		logCtx,
		"config loaded",
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
		slog.String("database_driver", cfg.Database.Driver),
		slog.String("review_timezone", cfg.Review.Timezone),
	)

	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}
	if cfg.Review.BatchLimit <= 0 {
		return errors.New("review.batch_limit must be positive")
	}
	if cfg.Review.HistoryDays <= 0 {
		return errors.New("review.history_days must be positive")
	}
	if _, err := time.LoadLocation(cfg.Review.Timezone); err != nil {
		return errs.Wrapf(err, "load review timezone %q", cfg.Review.Timezone)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "searchreview")
	v.SetDefault("app.env", "local")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data/review.sqlite")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", "10s")
	v.SetDefault("http.write_timeout", "15s")
	v.SetDefault("http.shutdown_timeout", "10s")

	v.SetDefault("review.timezone", "Asia/Kolkata")
	v.SetDefault("review.batch_limit", 300)
	v.SetDefault("review.history_days", 10)

	v.SetDefault("storage.endpoint", "https://storage.googleapis.com")
	v.SetDefault("storage.bucket", "search-review-images")
	v.SetDefault("storage.access_key", "local-dev")
	v.SetDefault("storage.secret", "local-dev-secret")
	v.SetDefault("storage.url_expiry", "24h")
}
