// Package pipeline wires the network-facing coordinator to the transcription
// worker: framed audio in, committed translation deltas back out.
package pipeline

import (
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/ericce/interp/internal/asr"
	"github.com/ericce/interp/internal/audio"
	"github.com/ericce/interp/internal/commit"
	"github.com/ericce/interp/internal/metrics"
	"github.com/ericce/interp/internal/mt"
	"github.com/ericce/interp/internal/netio"
	"github.com/ericce/interp/internal/wire"
)

// inboundCap bounds the decoded-audio queue: enough for a few seconds of
// device chunks, small enough that stale audio is dropped rather than queued
// behind a slow ASR call.
const inboundCap = 200

// Config carries the runtime parameters shared by coordinator and worker.
type Config struct {
	SampleRate       int
	Channels         int
	MaxPayload       int
	TextMaxPayload   int
	WindowSeconds    float64
	StepHz           float64
	MinWindowSeconds float64
	MaxBufferSeconds float64
	Lang1Label       string
	Lang2Label       string
	Commit           commit.Config
}

// Chunk is one decoded audio fragment tagged with its declared language.
type Chunk struct {
	Samples []float32
	Lang    string
}

// txItem is one translated fragment awaiting transmission.
type txItem struct {
	text    string
	srcLang string
}

// txQueue is the unbounded worker→coordinator queue. The producer is paced
// by the ASR rate limiter, so growth is bounded by send speed in practice.
type txQueue struct {
	mu    sync.Mutex
	items []txItem
}

func (q *txQueue) push(it txItem) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, it)
}

func (q *txQueue) pop() (txItem, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return txItem{}, false
	}
	it := q.items[0]
	q.items = q.items[1:]
	return it, true
}

// New builds a connected coordinator and worker sharing the inbound and
// outbound queues. Run both; they stop when their contexts are cancelled.
func New(
	cfg Config,
	logger *slog.Logger,
	server *netio.Server,
	engine asr.Engine,
	translator mt.Translator,
	met *metrics.Metrics,
) (*Coordinator, *Worker) {
	if logger == nil {
		logger = slog.Default()
	}
	if met == nil {
		met = metrics.NewNop()
	}

	in := make(chan Chunk, inboundCap)
	tx := &txQueue{}

	worker := newWorker(cfg, logger, engine, translator, in, tx, met)
	coord := newCoordinator(cfg, logger, server, in, tx, met)
	return coord, worker
}

// langFromFlags applies the input-language bits, retaining current when
// neither is set. Bit 0x01 wins when both are present.
func langFromFlags(flags uint8, current, lang1, lang2 string) string {
	switch {
	case flags&wire.FlagLang1In != 0:
		return lang1
	case flags&wire.FlagLang2In != 0:
		return lang2
	default:
		return current
	}
}

// channelForLang maps the declared language onto the capture channel carrying it.
func channelForLang(lang, lang1, lang2 string) audio.Channel {
	switch lang {
	case lang2:
		return audio.ChannelRight
	default:
		return audio.ChannelLeft
	}
}

// outputFlag routes translated text to the screen showing the other language.
func outputFlag(outLang, lang1 string) uint8 {
	if outLang == lang1 {
		return wire.FlagLang1Out
	}
	return wire.FlagLang2Out
}

// splitTextPayload cuts text into wire chunks of at most max bytes, always on
// a UTF-8 codepoint boundary so no chunk carries a bisected character. A
// single rune wider than max falls back to a raw byte split to keep progress.
func splitTextPayload(text string, max int) []string {
	if max <= 0 || len(text) <= max {
		return []string{text}
	}
	var out []string
	for len(text) > max {
		cut := max
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if cut == 0 {
			cut = max
		}
		out = append(out, text[:cut])
		text = text[cut:]
	}
	if len(text) > 0 {
		out = append(out, text)
	}
	return out
}
