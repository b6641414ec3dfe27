// Package config resolves, parses, validates, and defaults the daemon
// configuration from its YAML file and command line.
package config

// Config is the fully materialized runtime configuration.
type Config struct {
	// Host and Port form the listen endpoint for the capture device.
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	Audio  AudioConfig  `yaml:"audio"`
	Window WindowConfig `yaml:"window"`
	Text   TextConfig   `yaml:"text"`
	Langs  LangConfig   `yaml:"languages"`
	Commit CommitConfig `yaml:"commit"`
	ASR    ASRConfig    `yaml:"asr"`
	MT     MTConfig     `yaml:"mt"`
	Plot   PlotConfig   `yaml:"plot"`

	LogLevel      string `yaml:"log_level"`
	MetricsAddr   string `yaml:"metrics_addr"`
	CheckBackends bool   `yaml:"check_backends"`
}

// AudioConfig describes the inbound PCM stream.
type AudioConfig struct {
	SampleRate int `yaml:"sample_rate"`
	Channels   int `yaml:"channels"`
}

// WindowConfig controls transcription scheduling.
type WindowConfig struct {
	// Seconds is the trailing window handed to ASR.
	Seconds float64 `yaml:"seconds"`
	// StepHz caps how often ASR runs.
	StepHz float64 `yaml:"step_hz"`
	// MinSeconds gates the first ASR call and doubles as the idle-flush timeout.
	MinSeconds float64 `yaml:"min_seconds"`
	// MaxBufferSeconds sizes the audio ring.
	MaxBufferSeconds float64 `yaml:"max_buffer_seconds"`
}

// TextConfig controls outbound text framing.
type TextConfig struct {
	// MaxPayload is the TX chunk budget in bytes.
	MaxPayload int `yaml:"max_payload"`
}

// LangConfig names the two configured languages. Labels double as the
// language codes sent to the ASR and MT backends.
type LangConfig struct {
	Lang1 string `yaml:"lang1"`
	Lang2 string `yaml:"lang2"`
}

// CommitConfig tunes the commit engine.
type CommitConfig struct {
	HistoryLen      int `yaml:"history"`
	MinCommitChars  int `yaml:"min_chars"`
	MinOverlapChars int `yaml:"min_overlap_chars"`
}

// ASRConfig points at the transcription backend.
type ASRConfig struct {
	URL            string  `yaml:"url"`
	Model          string  `yaml:"model"`
	TimeoutSeconds float64 `yaml:"timeout_seconds"`
}

// MTConfig points at the translation backend serving both directions.
type MTConfig struct {
	URL            string  `yaml:"url"`
	TimeoutSeconds float64 `yaml:"timeout_seconds"`
}

// PlotConfig controls the optional terminal audio meter.
type PlotConfig struct {
	Enable        bool    `yaml:"enable"`
	WindowSeconds float64 `yaml:"window_seconds"`
	Hz            float64 `yaml:"hz"`
}
