// Package app wires configuration, logging, backends, and the pipeline into
// the interpd process.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/ericce/interp/internal/asr"
	"github.com/ericce/interp/internal/cli"
	"github.com/ericce/interp/internal/commit"
	"github.com/ericce/interp/internal/config"
	"github.com/ericce/interp/internal/doctor"
	"github.com/ericce/interp/internal/logging"
	"github.com/ericce/interp/internal/meter"
	"github.com/ericce/interp/internal/metrics"
	"github.com/ericce/interp/internal/mt"
	"github.com/ericce/interp/internal/netio"
	"github.com/ericce/interp/internal/pipeline"
	"github.com/ericce/interp/internal/version"
	"github.com/ericce/interp/internal/wire"
)

// Execute is the process entrypoint used by cmd/interpd/main.go. It returns
// the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	parsed, err := cli.Parse("interpd", args, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
	if parsed.ShowHelp {
		parsed.Usage(stdout)
		return 0
	}
	if parsed.ShowVersion {
		fmt.Fprintln(stdout, version.String())
		return 0
	}

	cfg, err := config.Load(parsed.ConfigPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	parsed.Apply(&cfg)

	warnings, err := config.Validate(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "error: invalid configuration: %v\n", err)
		return 1
	}

	logger := logging.New(stderr, cfg.LogLevel)
	for _, w := range warnings {
		logger.Warn("config warning", "message", w)
	}

	if err := run(ctx, cfg, logger, stderr); err != nil {
		logger.Error("fatal", "error", err)
		return 1
	}
	logger.Info("clean shutdown")
	return 0
}

// run builds the pipeline and serves until ctx is cancelled or a component
// fails fatally.
func run(ctx context.Context, cfg config.Config, logger *slog.Logger, meterOut io.Writer) error {
	logger.Info("starting interpd",
		"host", cfg.Host, "port", cfg.Port,
		"sample_rate", cfg.Audio.SampleRate, "channels", cfg.Audio.Channels,
		"window_seconds", cfg.Window.Seconds, "step_hz", cfg.Window.StepHz,
		"lang1", cfg.Langs.Lang1, "lang2", cfg.Langs.Lang2,
	)

	if cfg.CheckBackends {
		report := doctor.Run(ctx, cfg)
		for _, check := range report.Checks {
			if check.Pass {
				logger.Info("backend check", "name", check.Name, "detail", check.Message)
			} else {
				logger.Warn("backend check failed", "name", check.Name, "detail", check.Message)
			}
		}
	}

	engine, err := asr.NewClient(asr.ClientConfig{
		BaseURL:        cfg.ASR.URL,
		Model:          cfg.ASR.Model,
		SampleRate:     cfg.Audio.SampleRate,
		RequestTimeout: time.Duration(cfg.ASR.TimeoutSeconds * float64(time.Second)),
	})
	if err != nil {
		return err
	}

	translator, err := buildTranslator(cfg, logger)
	if err != nil {
		return err
	}

	server, err := netio.Listen(cfg.Host, cfg.Port, logger)
	if err != nil {
		return err
	}
	defer server.Close()

	if server.BoundHost() != cfg.Host {
		logger.Info("listening", "addr", server.Addr(), "requested_host", cfg.Host)
	} else {
		logger.Info("listening", "addr", server.Addr())
	}

	var met *metrics.Metrics
	var registry *prometheus.Registry
	if cfg.MetricsAddr != "" {
		registry = prometheus.NewRegistry()
		met = metrics.New(registry)
	} else {
		met = metrics.NewNop()
	}

	coord, worker := pipeline.New(pipeline.Config{
		SampleRate:       cfg.Audio.SampleRate,
		Channels:         cfg.Audio.Channels,
		MaxPayload:       wire.MaxPayload,
		TextMaxPayload:   cfg.Text.MaxPayload,
		WindowSeconds:    cfg.Window.Seconds,
		StepHz:           cfg.Window.StepHz,
		MinWindowSeconds: cfg.Window.MinSeconds,
		MaxBufferSeconds: cfg.Window.MaxBufferSeconds,
		Lang1Label:       cfg.Langs.Lang1,
		Lang2Label:       cfg.Langs.Lang2,
		Commit:           commitConfig(cfg),
	}, logger, server, engine, translator, met)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	group, groupCtx := errgroup.WithContext(runCtx)
	group.Go(func() error { return worker.Run(groupCtx) })
	group.Go(func() error { return coord.Run(groupCtx) })
	if cfg.MetricsAddr != "" {
		group.Go(func() error { return metrics.Serve(groupCtx, cfg.MetricsAddr, registry, logger) })
	}
	if cfg.Plot.Enable {
		m := meter.New(meterOut, cfg.Audio.SampleRate, cfg.Plot.WindowSeconds, cfg.Plot.Hz)
		coord.OnSamples = m.Observe
		group.Go(func() error { return m.Run(groupCtx) })
	}

	return group.Wait()
}

func buildTranslator(cfg config.Config, logger *slog.Logger) (mt.Translator, error) {
	timeout := time.Duration(cfg.MT.TimeoutSeconds * float64(time.Second))
	forward, err := mt.NewClient(mt.ClientConfig{
		BaseURL:        cfg.MT.URL,
		Source:         cfg.Langs.Lang1,
		Target:         cfg.Langs.Lang2,
		RequestTimeout: timeout,
	})
	if err != nil {
		return nil, err
	}
	backward, err := mt.NewClient(mt.ClientConfig{
		BaseURL:        cfg.MT.URL,
		Source:         cfg.Langs.Lang2,
		Target:         cfg.Langs.Lang1,
		RequestTimeout: timeout,
	})
	if err != nil {
		return nil, err
	}
	return mt.NewDirections(logger,
		mt.Direction{SrcLang: cfg.Langs.Lang1, Engine: forward},
		mt.Direction{SrcLang: cfg.Langs.Lang2, Engine: backward},
	)
}

func commitConfig(cfg config.Config) commit.Config {
	return commit.Config{
		HistoryLen:      cfg.Commit.HistoryLen,
		MinCommitChars:  cfg.Commit.MinCommitChars,
		MinOverlapChars: cfg.Commit.MinOverlapChars,
	}
}
