package config

// Default returns the canonical runtime configuration used when no file or
// flag overrides a value. The listen endpoint matches the address the capture
// device historically ships with.
func Default() Config {
	return Config{
		Host: "192.168.0.165",
		Port: 3333,
		Audio: AudioConfig{
			SampleRate: 16000,
			Channels:   2,
		},
		Window: WindowConfig{
			Seconds:          4.0,
			StepHz:           1.0,
			MinSeconds:       1.0,
			MaxBufferSeconds: 30.0,
		},
		Text: TextConfig{
			MaxPayload: 128,
		},
		Langs: LangConfig{
			Lang1: "en",
			Lang2: "fr",
		},
		Commit: CommitConfig{
			HistoryLen:      3,
			MinCommitChars:  1,
			MinOverlapChars: 4,
		},
		ASR: ASRConfig{
			URL:            "http://127.0.0.1:9000",
			TimeoutSeconds: 30,
		},
		MT: MTConfig{
			URL:            "http://127.0.0.1:5000",
			TimeoutSeconds: 15,
		},
		Plot: PlotConfig{
			WindowSeconds: 10.0,
			Hz:            20.0,
		},
		LogLevel: "info",
	}
}
