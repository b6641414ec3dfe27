package config

import (
	"fmt"
	"strings"
)

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]string, error) {
	var warnings []string

	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port must be in 0..65535, got %d", cfg.Port)
	}
	if cfg.Audio.SampleRate <= 0 {
		return nil, fmt.Errorf("audio.sample_rate must be > 0")
	}
	if cfg.Audio.Channels != 1 && cfg.Audio.Channels != 2 {
		return nil, fmt.Errorf("audio.channels must be 1 or 2, got %d", cfg.Audio.Channels)
	}
	if cfg.Window.Seconds <= 0 || cfg.Window.MinSeconds <= 0 {
		return nil, fmt.Errorf("window.seconds and window.min_seconds must be > 0")
	}
	if cfg.Window.MinSeconds > cfg.Window.Seconds {
		warnings = append(warnings,
			fmt.Sprintf("window.min_seconds (%.2f) exceeds window.seconds (%.2f); first transcription will wait for the larger", cfg.Window.MinSeconds, cfg.Window.Seconds))
	}
	if cfg.Window.StepHz <= 0 {
		return nil, fmt.Errorf("window.step_hz must be > 0")
	}
	if cfg.Window.MaxBufferSeconds < cfg.Window.Seconds {
		return nil, fmt.Errorf("window.max_buffer_seconds must hold at least one window")
	}
	if cfg.Text.MaxPayload <= 0 {
		return nil, fmt.Errorf("text.max_payload must be > 0")
	}
	if cfg.Text.MaxPayload < 4 {
		warnings = append(warnings, "text.max_payload below 4 bytes cannot hold every UTF-8 codepoint")
	}

	lang1 := strings.TrimSpace(cfg.Langs.Lang1)
	lang2 := strings.TrimSpace(cfg.Langs.Lang2)
	if lang1 == "" || lang2 == "" {
		return nil, fmt.Errorf("languages.lang1 and languages.lang2 must not be empty")
	}
	if lang1 == lang2 {
		return nil, fmt.Errorf("languages.lang1 and languages.lang2 must differ")
	}

	if cfg.Commit.HistoryLen <= 0 {
		return nil, fmt.Errorf("commit.history must be > 0")
	}
	if cfg.Commit.MinCommitChars <= 0 {
		return nil, fmt.Errorf("commit.min_chars must be > 0")
	}

	if strings.TrimSpace(cfg.ASR.URL) == "" {
		return nil, fmt.Errorf("asr.url must not be empty")
	}
	if strings.TrimSpace(cfg.MT.URL) == "" {
		return nil, fmt.Errorf("mt.url must not be empty")
	}

	if cfg.Plot.Enable {
		if cfg.Plot.WindowSeconds <= 0 || cfg.Plot.Hz <= 0 {
			return nil, fmt.Errorf("plot.window_seconds and plot.hz must be > 0")
		}
	}

	return warnings, nil
}
