// Package metrics exposes pipeline counters over an optional Prometheus endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles every instrument the pipeline records.
type Metrics struct {
	RxPackets     prometheus.Counter
	RxBytes       prometheus.Counter
	RxResyncs     prometheus.Counter
	RxOversized   prometheus.Counter
	ChunksDropped prometheus.Counter
	ASRCalls      *prometheus.CounterVec
	CommitChars   prometheus.Counter
	TxPackets     prometheus.Counter
	RingSamples   prometheus.Gauge
}

// New registers all pipeline instruments on a fresh registry.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RxPackets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "interp_rx_packets_total",
			Help: "Audio packets received from the capture device",
		}),
		RxBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "interp_rx_bytes_total",
			Help: "Payload bytes received from the capture device",
		}),
		RxResyncs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "interp_rx_resyncs_total",
			Help: "Stream parser resyncs on corrupt headers",
		}),
		RxOversized: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "interp_rx_oversized_total",
			Help: "Oversized frames discarded whole",
		}),
		ChunksDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "interp_chunks_dropped_total",
			Help: "Decoded audio chunks dropped on a full inbound queue",
		}),
		ASRCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "interp_asr_calls_total",
			Help: "Transcription calls by outcome",
		}, []string{"status"}),
		CommitChars: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "interp_commit_chars_total",
			Help: "Characters committed by the commit engine",
		}),
		TxPackets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "interp_tx_packets_total",
			Help: "Text packets sent back to the capture device",
		}),
		RingSamples: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "interp_ring_samples",
			Help: "Samples currently buffered in the audio ring",
		}),
	}
	reg.MustRegister(
		m.RxPackets, m.RxBytes, m.RxResyncs, m.RxOversized,
		m.ChunksDropped, m.ASRCalls, m.CommitChars, m.TxPackets, m.RingSamples,
	)
	return m
}

// NewNop returns instruments registered nowhere, for when the endpoint is off.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
