package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/ericce/interp/internal/audio"
	"github.com/ericce/interp/internal/metrics"
	"github.com/ericce/interp/internal/netio"
	"github.com/ericce/interp/internal/wire"
)

const pollTimeout = 10 * time.Millisecond

// Coordinator owns the network side: it polls the endpoint, parses frames,
// decodes audio into the worker's queue, and drains translated text back to
// the wire. Single goroutine; only the coordinator touches the connection.
type Coordinator struct {
	cfg    Config
	logger *slog.Logger
	server *netio.Server
	parser *wire.Parser
	met    *metrics.Metrics

	in chan<- Chunk
	tx *txQueue

	currentLang string
	carry       []byte

	seenResyncs   int
	seenOversized int

	// OnSamples, when set, observes every decoded chunk (audio level meter).
	OnSamples func([]float32)
}

func newCoordinator(
	cfg Config,
	logger *slog.Logger,
	server *netio.Server,
	in chan<- Chunk,
	tx *txQueue,
	met *metrics.Metrics,
) *Coordinator {
	return &Coordinator{
		cfg:         cfg,
		logger:      logger,
		server:      server,
		parser:      wire.NewParser(cfg.MaxPayload),
		met:         met,
		in:          in,
		tx:          tx,
		currentLang: cfg.Lang1Label,
	}
}

// Run services the wire until ctx is cancelled, then returns nil. The loop
// has no error exit of its own.
func (c *Coordinator) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		c.pollNetwork()
		c.drainTX()
	}
}

// pollNetwork performs one bounded readiness wait and routes every decoded
// audio packet into the inbound queue.
func (c *Coordinator) pollNetwork() {
	data := c.server.Poll(pollTimeout)
	if len(data) == 0 {
		return
	}

	packets := c.parser.Feed(data)
	c.noteParserEvents()

	for _, pkt := range packets {
		if pkt.MsgType != wire.MsgTypeAudio {
			continue
		}
		c.met.RxPackets.Inc()
		c.met.RxBytes.Add(float64(len(pkt.Payload)))

		c.currentLang = langFromFlags(pkt.Flags, c.currentLang, c.cfg.Lang1Label, c.cfg.Lang2Label)

		// Re-align on frame boundaries across packet splits: prepend the
		// carried remainder, trim to whole frames, carry the new tail.
		frameBytes := 3 * c.cfg.Channels
		buf := make([]byte, 0, len(c.carry)+len(pkt.Payload))
		buf = append(buf, c.carry...)
		buf = append(buf, pkt.Payload...)
		trim := len(buf) - len(buf)%frameBytes
		c.carry = append(c.carry[:0], buf[trim:]...)
		if trim == 0 {
			continue
		}

		sel := channelForLang(c.currentLang, c.cfg.Lang1Label, c.cfg.Lang2Label)
		samples := audio.DecodePacked24(buf[:trim], c.cfg.Channels, sel)
		if len(samples) == 0 {
			continue
		}
		if c.OnSamples != nil {
			c.OnSamples(samples)
		}

		select {
		case c.in <- Chunk{Samples: samples, Lang: c.currentLang}:
		default:
			c.logger.Warn("inbound queue full; dropping audio chunk")
			c.met.ChunksDropped.Inc()
		}
	}
}

// noteParserEvents logs once per resync or oversized-frame event.
func (c *Coordinator) noteParserEvents() {
	if n := c.parser.Resyncs(); n > c.seenResyncs {
		c.logger.Warn("corrupt frame header; stream buffer cleared")
		c.met.RxResyncs.Add(float64(n - c.seenResyncs))
		c.seenResyncs = n
	}
	if n := c.parser.Oversized(); n > c.seenOversized {
		c.logger.Warn("oversized frame discarded", "max_payload", c.cfg.MaxPayload)
		c.met.RxOversized.Add(float64(n - c.seenOversized))
		c.seenOversized = n
	}
}

// drainTX serializes every queued translation onto the wire, fragmenting to
// the text payload budget on codepoint boundaries.
func (c *Coordinator) drainTX() {
	for {
		item, ok := c.tx.pop()
		if !ok {
			return
		}

		outLang := c.cfg.Lang1Label
		if item.srcLang == c.cfg.Lang1Label {
			outLang = c.cfg.Lang2Label
		}
		flags := outputFlag(outLang, c.cfg.Lang1Label)

		for _, part := range splitTextPayload(item.text, c.cfg.TextMaxPayload) {
			pkt, err := wire.BuildPacket(wire.MsgTypeText, flags, []byte(part))
			if err != nil {
				c.logger.Error("unsendable text fragment", "error", err)
				continue
			}
			c.logger.Debug("tx packet",
				"flags", flags, "payload_len", len(part), "out_lang", outLang)
			if !c.server.Send(pkt) {
				c.logger.Warn("no active connection; dropping text")
				return
			}
			c.met.TxPackets.Inc()
		}
	}
}
