// Package capture streams microphone PCM from PulseAudio for the test sender.
package capture

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/jfreymuth/pulse"
	pulseproto "github.com/jfreymuth/pulse/proto"
)

// Capture streams fixed-size s16le mono chunks from the default Pulse source.
type Capture struct {
	client *pulse.Client
	stream *pulse.RecordStream

	chunks chan []byte
	stopCh chan struct{}

	mu      sync.Mutex
	pending []byte
	stopped bool

	chunkBytes int
}

// Start opens the default source at the given rate and chunk size.
func Start(ctx context.Context, sampleRate int, chunkBytes int) (*Capture, error) {
	client, err := pulse.NewClient(
		pulse.ClientApplicationName("interpsend"),
		pulse.ClientApplicationIconName("audio-input-microphone"),
	)
	if err != nil {
		return nil, fmt.Errorf("connect pulse server: %w", err)
	}

	c := &Capture{
		client:     client,
		chunks:     make(chan []byte, 128),
		stopCh:     make(chan struct{}),
		chunkBytes: chunkBytes,
	}

	writer := pulse.NewWriter(writerFunc(c.onPCM), pulseproto.FormatInt16LE)
	stream, err := client.NewRecord(
		writer,
		pulse.RecordMono,
		pulse.RecordSampleRate(sampleRate),
		pulse.RecordBufferFragmentSize(uint32(chunkBytes)),
		pulse.RecordMediaName("interpsend uplink"),
	)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("create pulse record stream: %w", err)
	}

	c.stream = stream
	stream.Start()

	go func() {
		<-ctx.Done()
		_ = c.Stop()
	}()

	return c, nil
}

// Chunks returns the PCM stream as fixed-size byte slices; the last slice,
// sent by Stop, may be shorter.
func (c *Capture) Chunks() <-chan []byte {
	return c.chunks
}

// Stop halts the stream, sends residual PCM if Chunks has room (otherwise it
// is dropped), and closes Chunks exactly once.
func (c *Capture) Stop() error {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return nil
	}
	c.stopped = true
	close(c.stopCh)
	pending := append([]byte(nil), c.pending...)
	c.pending = nil
	c.mu.Unlock()

	if c.stream != nil {
		c.stream.Stop()
		c.stream.Close()
	}
	if c.client != nil {
		c.client.Close()
	}

	if len(pending) > 0 {
		select {
		case c.chunks <- pending:
		default:
		}
	}

	close(c.chunks)
	return nil
}

// onPCM receives raw Pulse frames and emits chunkBytes slices to c.chunks.
func (c *Capture) onPCM(buffer []byte) (int, error) {
	if len(buffer) == 0 {
		return 0, nil
	}

	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return 0, io.EOF
	}
	c.pending = append(c.pending, buffer...)
	chunks := make([][]byte, 0, len(c.pending)/c.chunkBytes)
	for len(c.pending) >= c.chunkBytes {
		chunk := make([]byte, c.chunkBytes)
		copy(chunk, c.pending[:c.chunkBytes])
		c.pending = c.pending[c.chunkBytes:]
		chunks = append(chunks, chunk)
	}
	c.mu.Unlock()

	for _, chunk := range chunks {
		select {
		case <-c.stopCh:
			return 0, io.EOF
		case c.chunks <- chunk:
		}
	}

	return len(buffer), nil
}

// writerFunc adapts a function to io.Writer for pulse.NewWriter.
type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(b []byte) (int, error) {
	return f(b)
}
