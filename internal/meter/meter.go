// Package meter renders a terminal intensity bar for the incoming audio, the
// headless stand-in for the original's waveform window.
package meter

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/ericce/interp/internal/audio"
)

const barWidth = 40

// Meter accumulates decoded samples and periodically redraws an RMS bar.
type Meter struct {
	ring       *audio.Ring
	sampleRate int
	period     time.Duration
	out        io.Writer
}

// New returns a meter over a windowSeconds ring redrawn at hz.
func New(out io.Writer, sampleRate int, windowSeconds float64, hz float64) *Meter {
	if hz <= 0 {
		hz = 20
	}
	return &Meter{
		ring:       audio.NewRing(int(windowSeconds * float64(sampleRate))),
		sampleRate: sampleRate,
		period:     time.Duration(float64(time.Second) / hz),
		out:        out,
	}
}

// Observe adds decoded samples. Safe to call from the coordinator goroutine
// while Run draws from its own.
func (m *Meter) Observe(samples []float32) {
	m.ring.Append(samples)
}

// Run redraws the bar until ctx is done.
func (m *Meter) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(m.out)
			return nil
		case <-ticker.C:
			m.draw()
		}
	}
}

func (m *Meter) draw() {
	// One redraw period worth of the freshest samples.
	n := int(float64(m.sampleRate) * m.period.Seconds())
	if n < 1 {
		n = 1
	}
	level := rms(m.ring.GetLast(n))

	filled := int(level * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	bar := make([]byte, barWidth)
	for i := range bar {
		if i < filled {
			bar[i] = '#'
		} else {
			bar[i] = '-'
		}
	}
	fmt.Fprintf(m.out, "\r[%s] %5.3f", bar, level)
}

func rms(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}
