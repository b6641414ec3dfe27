package pipeline

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/ericce/interp/internal/asr"
	"github.com/ericce/interp/internal/audio"
	"github.com/ericce/interp/internal/commit"
	"github.com/ericce/interp/internal/metrics"
	"github.com/ericce/interp/internal/mt"
	"github.com/ericce/interp/internal/rate"
)

const defaultDequeueTimeout = 100 * time.Millisecond

// Worker owns the ring buffer and commit engine. It drains the inbound audio
// queue, paces transcription over the trailing window, commits stable text,
// and pushes translated deltas onto the outbound queue.
type Worker struct {
	cfg    Config
	logger *slog.Logger

	engine     asr.Engine
	translator mt.Translator
	committer  *commit.Committer
	ring       *audio.Ring
	limiter    *rate.Limiter
	met        *metrics.Metrics

	in <-chan Chunk
	tx *txQueue

	currentLang string
	lastAudio   time.Time

	// Test seams.
	now            func() time.Time
	dequeueTimeout time.Duration
}

func newWorker(
	cfg Config,
	logger *slog.Logger,
	engine asr.Engine,
	translator mt.Translator,
	in <-chan Chunk,
	tx *txQueue,
	met *metrics.Metrics,
) *Worker {
	return &Worker{
		cfg:            cfg,
		logger:         logger,
		engine:         engine,
		translator:     translator,
		committer:      commit.NewCommitter(cfg.Commit),
		ring:           audio.NewRing(int(cfg.MaxBufferSeconds * float64(cfg.SampleRate))),
		limiter:        rate.NewLimiter(cfg.StepHz),
		met:            met,
		in:             in,
		tx:             tx,
		currentLang:    cfg.Lang1Label,
		now:            time.Now,
		dequeueTimeout: defaultDequeueTimeout,
	}
}

// Run processes chunks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("pipeline worker started")
	w.lastAudio = w.now()

	timer := time.NewTimer(w.dequeueTimeout)
	defer timer.Stop()

	for {
		timer.Reset(w.dequeueTimeout)
		select {
		case <-ctx.Done():
			return nil
		case chunk := <-w.in:
			w.onChunk(ctx, chunk)
		case <-timer.C:
			w.onIdle(ctx)
		}
	}
}

// onIdle flushes buffered audio once the idle timeout elapses with no input.
func (w *Worker) onIdle(ctx context.Context) {
	if w.ring.Size() == 0 {
		return
	}
	idle := w.now().Sub(w.lastAudio)
	if idle.Seconds() < w.cfg.MinWindowSeconds {
		return
	}
	w.logger.Debug("idle flush", "idle", idle)
	w.flush(ctx)
}

func (w *Worker) onChunk(ctx context.Context, chunk Chunk) {
	w.lastAudio = w.now()

	if chunk.Lang != w.currentLang {
		w.logger.Info("language switch", "from", w.currentLang, "to", chunk.Lang)
		w.flush(ctx)
		w.currentLang = chunk.Lang
	}

	w.ring.Append(chunk.Samples)
	w.met.RingSamples.Set(float64(w.ring.Size()))

	enough := w.ring.Size() >= int(w.cfg.MinWindowSeconds*float64(w.cfg.SampleRate))
	if !enough || !w.limiter.Allow() {
		return
	}

	text, ok := w.transcribeWindow(ctx)
	if ok && text != "" {
		w.processText(ctx, text, w.currentLang, false)
	}
}

// flush finalizes whatever is buffered, then resets ring and commit state so
// the next window starts clean. Called on idle timeout and language switches.
func (w *Worker) flush(ctx context.Context) {
	if w.ring.Size() == 0 {
		return
	}
	text, ok := w.transcribeWindow(ctx)
	if ok && text != "" {
		w.processText(ctx, text, w.currentLang, true)
	}
	w.ring.Clear()
	w.met.RingSamples.Set(0)
	w.committer.Reset()
}

// transcribeWindow runs ASR over the trailing window. Failures are logged and
// reported as a skipped window; no commit-engine feed happens for them.
func (w *Worker) transcribeWindow(ctx context.Context) (string, bool) {
	samples := w.ring.GetLast(int(w.cfg.WindowSeconds * float64(w.cfg.SampleRate)))
	text, err := w.engine.Transcribe(ctx, samples, w.currentLang)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Error("transcription failed; window skipped", "lang", w.currentLang, "error", err)
		}
		w.met.ASRCalls.WithLabelValues("error").Inc()
		return "", false
	}
	w.met.ASRCalls.WithLabelValues("ok").Inc()
	return text, true
}

// processText feeds one hypothesis to the commit engine and ships any delta.
func (w *Worker) processText(ctx context.Context, text, srcLang string, final bool) {
	w.logger.Debug("transcript", "lang", srcLang, "final", final, "text", text)

	delta := w.committer.Feed(text)
	if final {
		delta += w.committer.Finalize(text)
	}
	if delta == "" {
		return
	}
	w.met.CommitChars.Add(float64(utf8.RuneCountInString(delta)))
	w.logger.Debug("commit delta", "lang", srcLang, "text", delta)

	translated, err := w.translator.Translate(ctx, delta, srcLang)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Error("translation failed; delta dropped", "lang", srcLang, "error", err)
		}
		return
	}
	if translated == "" {
		return
	}
	w.logger.Debug("translated", "lang", srcLang, "text", translated)
	w.tx.push(txItem{text: translated, srcLang: srcLang})
}
