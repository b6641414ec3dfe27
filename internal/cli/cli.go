// Package cli defines the daemon flag surface and applies it over the
// file-based configuration.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/ericce/interp/internal/config"
)

// Parsed holds the flag set after parsing plus the values that steer startup
// before a config exists.
type Parsed struct {
	ConfigPath  string
	ShowVersion bool
	ShowHelp    bool

	fs *pflag.FlagSet

	host             string
	port             int
	sampleRate       int
	channels         int
	windowSeconds    float64
	stepHz           float64
	minWindowSeconds float64
	maxBufferSeconds float64
	textMaxPayload   int
	lang1Label       string
	lang2Label       string
	commitHistory    int
	commitMinChars   int
	logLevel         string
	asrURL           string
	asrModel         string
	mtURL            string
	metricsAddr      string
	checkBackends    bool
	plotAudio        bool
	plotWindow       float64
	plotHz           float64
}

// Parse reads the daemon command line. Defaults shown in help mirror
// config.Default; only flags the user actually set override the file.
func Parse(name string, args []string, errOut io.Writer) (*Parsed, error) {
	def := config.Default()
	p := &Parsed{}

	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.SortFlags = false

	fs.StringVar(&p.ConfigPath, "config", "", "YAML config file path")
	fs.StringVar(&p.host, "host", def.Host, "listen host")
	fs.IntVar(&p.port, "port", def.Port, "listen port")
	fs.IntVar(&p.sampleRate, "sample-rate", def.Audio.SampleRate, "expected sample rate")
	fs.IntVar(&p.channels, "channels", def.Audio.Channels, "interleaved input channels")
	fs.Float64Var(&p.windowSeconds, "window-seconds", def.Window.Seconds, "trailing window handed to ASR")
	fs.Float64Var(&p.stepHz, "step-hz", def.Window.StepHz, "maximum ASR rate")
	fs.Float64Var(&p.minWindowSeconds, "min-window-seconds", def.Window.MinSeconds, "smallest window before first ASR; also the idle-flush timeout")
	fs.Float64Var(&p.maxBufferSeconds, "max-buffer-seconds", def.Window.MaxBufferSeconds, "audio ring capacity in seconds")
	fs.IntVar(&p.textMaxPayload, "text-max-payload", def.Text.MaxPayload, "TX chunk size in bytes")
	fs.StringVar(&p.lang1Label, "lang1-label", def.Langs.Lang1, "first language label")
	fs.StringVar(&p.lang2Label, "lang2-label", def.Langs.Lang2, "second language label")
	fs.IntVar(&p.commitHistory, "commit-history", def.Commit.HistoryLen, "hypotheses that must agree before committing")
	fs.IntVar(&p.commitMinChars, "commit-min-chars", def.Commit.MinCommitChars, "smallest delta worth committing")
	fs.StringVar(&p.logLevel, "log-level", def.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&p.asrURL, "asr-url", def.ASR.URL, "transcription endpoint URL")
	fs.StringVar(&p.asrModel, "asr-model", def.ASR.Model, "transcription model name")
	fs.StringVar(&p.mtURL, "mt-url", def.MT.URL, "translation endpoint URL")
	fs.StringVar(&p.metricsAddr, "metrics-addr", def.MetricsAddr, "Prometheus listen address (empty disables)")
	fs.BoolVar(&p.checkBackends, "check-backends", def.CheckBackends, "probe ASR/MT endpoints before serving")
	fs.BoolVar(&p.plotAudio, "plot-audio", def.Plot.Enable, "render a terminal audio level meter")
	fs.Float64Var(&p.plotWindow, "plot-window-seconds", def.Plot.WindowSeconds, "meter window in seconds")
	fs.Float64Var(&p.plotHz, "plot-hz", def.Plot.Hz, "meter redraw rate")
	fs.BoolVar(&p.ShowVersion, "version", false, "print version and exit")
	fs.BoolVarP(&p.ShowHelp, "help", "h", false, "show help")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if len(fs.Args()) > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	p.fs = fs
	return p, nil
}

// Usage prints the flag help.
func (p *Parsed) Usage(out io.Writer) {
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintf(out, "  %s [flags]\n\nFlags:\n", p.fs.Name())
	fmt.Fprint(out, p.fs.FlagUsages())
}

// Apply overlays every flag the user explicitly set onto cfg.
func (p *Parsed) Apply(cfg *config.Config) {
	p.fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "host":
			cfg.Host = p.host
		case "port":
			cfg.Port = p.port
		case "sample-rate":
			cfg.Audio.SampleRate = p.sampleRate
		case "channels":
			cfg.Audio.Channels = p.channels
		case "window-seconds":
			cfg.Window.Seconds = p.windowSeconds
		case "step-hz":
			cfg.Window.StepHz = p.stepHz
		case "min-window-seconds":
			cfg.Window.MinSeconds = p.minWindowSeconds
		case "max-buffer-seconds":
			cfg.Window.MaxBufferSeconds = p.maxBufferSeconds
		case "text-max-payload":
			cfg.Text.MaxPayload = p.textMaxPayload
		case "lang1-label":
			cfg.Langs.Lang1 = p.lang1Label
		case "lang2-label":
			cfg.Langs.Lang2 = p.lang2Label
		case "commit-history":
			cfg.Commit.HistoryLen = p.commitHistory
		case "commit-min-chars":
			cfg.Commit.MinCommitChars = p.commitMinChars
		case "log-level":
			cfg.LogLevel = p.logLevel
		case "asr-url":
			cfg.ASR.URL = p.asrURL
		case "asr-model":
			cfg.ASR.Model = p.asrModel
		case "mt-url":
			cfg.MT.URL = p.mtURL
		case "metrics-addr":
			cfg.MetricsAddr = p.metricsAddr
		case "check-backends":
			cfg.CheckBackends = p.checkBackends
		case "plot-audio":
			cfg.Plot.Enable = p.plotAudio
		case "plot-window-seconds":
			cfg.Plot.WindowSeconds = p.plotWindow
		case "plot-hz":
			cfg.Plot.Hz = p.plotHz
		}
	})
}
