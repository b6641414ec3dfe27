// Package asr adapts a remote speech recognition backend behind a single
// transcribe capability.
package asr

import (
	"context"
	"errors"
)

// ErrNoLanguage is returned when a transcription is requested without a
// declared language. Language auto-detection is refused by design: the
// upstream declares the input language in the packet flags.
var ErrNoLanguage = errors.New("asr: transcription language must be declared")

// Engine is the transcription capability used by the pipeline worker.
type Engine interface {
	// Transcribe maps one audio window to text in the declared language.
	// Empty input yields an empty string. The result is trimmed of
	// surrounding whitespace.
	Transcribe(ctx context.Context, samples []float32, language string) (string, error)
}

// Func adapts a function to the Engine interface.
type Func func(ctx context.Context, samples []float32, language string) (string, error)

func (f Func) Transcribe(ctx context.Context, samples []float32, language string) (string, error) {
	return f(ctx, samples, language)
}
