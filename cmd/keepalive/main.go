package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	keepalive "github.com/hyp3rd/go-keepalive"
	"github.com/hyp3rd/go-keepalive/pkg/config"
	"github.com/hyp3rd/go-keepalive/pkg/executor"
	"github.com/hyp3rd/go-keepalive/pkg/logger"
	"github.com/hyp3rd/go-keepalive/pkg/scheduler"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(config.WithConfigFile(os.Getenv(config.EnvConfigFile)))
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))

		return 1
	}

	log, closer, err := logger.New(logger.Options{
		Level:       cfg.Logging.Level,
		Environment: cfg.Logging.Environment,
		FilePath:    cfg.Logging.File,
		EnableFile:  cfg.Logging.EnableFile,
	})
	if err != nil {
		slog.Error("failed to create logger", slog.Any("err", err))

		return 1
	}

	defer func() {
		closeErr := closer.Close()
		if closeErr != nil {
			slog.Error("failed to close log file", slog.Any("err", closeErr))
		}
	}()

	if cfg.Source != "" {
		log.Info("loaded config file", slog.String("file", cfg.Source))
	} else {
		log.Info("config file not found, using defaults and environment variables")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app, err := build(cfg, log)
	if err != nil {
		log.Error("failed to initialize", slog.Any("err", err))

		return 1
	}

	err = app.scheduler.Run(ctx)
	if err != nil {
		log.Error("scheduler stopped with error", slog.Any("err", err))

		return 1
	}

	return 0
}

// components is the wired retrier, executor and scheduler for one config.
type components struct {
	retrier   *keepalive.Retrier
	executor  *executor.Executor
	scheduler *scheduler.Scheduler
}

func build(cfg *config.Config, log *slog.Logger, opts ...executor.Option) (*components, error) {
	retrier, err := keepalive.NewRetrier(
		keepalive.WithMaxAttempts(cfg.Retry.MaxAttempts),
		keepalive.WithBackoffFactor(cfg.Retry.BackoffFactor),
		keepalive.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}

	body, err := executor.EncodeBody(cfg.Target.Body)
	if err != nil {
		return nil, err
	}

	exec, err := executor.New(executor.Request{
		Method:  cfg.Target.Method,
		URL:     cfg.Target.URL,
		Headers: cfg.Target.Headers,
		Body:    body,
		Timeout: cfg.Timeout(),
	}, retrier, append([]executor.Option{executor.WithLogger(log)}, opts...)...)
	if err != nil {
		return nil, err
	}

	sched, err := scheduler.New(exec, cfg.Interval(),
		scheduler.WithLogger(log),
		scheduler.WithMaxCycles(cfg.Schedule.MaxCycles),
	)
	if err != nil {
		return nil, err
	}

	return &components{
		retrier:   retrier,
		executor:  exec,
		scheduler: sched,
	}, nil
}
