// ABOUTME: Prometheus metrics for the voicecart client
// ABOUTME: Session, capture, playback and dispatch counters with a /metrics handler
package metrics

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/harperreed/voicecart/pkg/protocol"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "voicecart"

// Sources supplies the live counters kept by the session, capture and
// playback components
type Sources struct {
	Session  func() SessionStats
	Pipeline func() CaptureStats
	Vision   func() VisionStats
	Playback func() PlaybackStats
}

// SessionStats mirrors the session traffic counters
type SessionStats struct {
	State         int
	AudioSent     int64
	AudioDropped  int64
	ImagesSent    int64
	ImagesDropped int64
	Inbound       int64
	Malformed     int64
}

// CaptureStats mirrors the microphone pipeline counters
type CaptureStats struct {
	Captured int64
	Dropped  int64
}

// VisionStats mirrors the camera loop counters
type VisionStats struct {
	Sent   int64
	Failed int64
}

// PlaybackStats mirrors the scheduler counters
type PlaybackStats struct {
	Received int64
	Played   int64
	Dropped  int64
	Queued   int
}

// Metrics contains all Prometheus metrics for the client
type Metrics struct {
	Registry *prometheus.Registry

	// Tool call metrics
	ToolCalls      *prometheus.CounterVec
	UnknownActions prometheus.Counter
	Unresolved     prometheus.Counter

	// Audio fragment metrics
	FragmentsDecoded   prometheus.Counter
	FragmentsMalformed prometheus.Counter
	FragmentSeconds    prometheus.Histogram

	// Connection metrics
	Connects       prometheus.Counter
	ConnectErrors  prometheus.Counter
	TransportError prometheus.Counter
}

// New creates the metrics on a private registry. Component counters are
// read from sources at scrape time.
func New(sources Sources) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	factory := promauto.With(reg)

	m := &Metrics{
		Registry: reg,

		ToolCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Total number of update_ui calls by action and result",
		}, []string{"action", "result"}),
		UnknownActions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unknown_actions_total",
			Help:      "Total number of tool calls with an unknown action",
		}),
		Unresolved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unresolved_products_total",
			Help:      "Total number of add-to-cart calls naming no product",
		}),

		FragmentsDecoded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_fragments_decoded_total",
			Help:      "Total number of inbound audio fragments decoded",
		}),
		FragmentsMalformed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_fragments_malformed_total",
			Help:      "Total number of inbound audio fragments that failed to decode",
		}),
		FragmentSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "audio_fragment_seconds",
			Help:      "Duration of decoded speech fragments",
			Buckets:   []float64{0.02, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}),

		Connects: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_connects_total",
			Help:      "Total number of successful channel connections",
		}),
		ConnectErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_connect_errors_total",
			Help:      "Total number of failed connection attempts",
		}),
		TransportError: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_transport_errors_total",
			Help:      "Total number of read or write failures on the channel",
		}),
	}

	m.registerSources(factory, sources)
	return m
}

func (m *Metrics) registerSources(factory promauto.Factory, s Sources) {
	if s.Session != nil {
		factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "session_state",
			Help:      "Channel state (0 disconnected, 1 connecting, 2 connected, 3 closing)",
		}, func() float64 { return float64(s.Session().State) })
		counterFunc(factory, "audio_chunks_sent_total", "Microphone chunks written to the channel",
			func() int64 { return s.Session().AudioSent })
		counterFunc(factory, "audio_chunks_dropped_total", "Microphone chunks dropped while disconnected",
			func() int64 { return s.Session().AudioDropped })
		counterFunc(factory, "images_sent_total", "Camera frames written to the channel",
			func() int64 { return s.Session().ImagesSent })
		counterFunc(factory, "images_dropped_total", "Camera frames dropped while disconnected",
			func() int64 { return s.Session().ImagesDropped })
		counterFunc(factory, "inbound_messages_total", "Inbound text messages",
			func() int64 { return s.Session().Inbound })
		counterFunc(factory, "malformed_messages_total", "Inbound messages that failed to parse",
			func() int64 { return s.Session().Malformed })
	}

	if s.Pipeline != nil {
		counterFunc(factory, "capture_frames_total", "Microphone frames captured while streaming",
			func() int64 { return s.Pipeline().Captured })
		counterFunc(factory, "capture_frames_dropped_total", "Microphone frames dropped at the hand-off queue",
			func() int64 { return s.Pipeline().Dropped })
	}

	if s.Vision != nil {
		counterFunc(factory, "vision_frames_sent_total", "Camera frames handed to the session",
			func() int64 { return s.Vision().Sent })
		counterFunc(factory, "vision_frames_failed_total", "Camera frames the session refused",
			func() int64 { return s.Vision().Failed })
	}

	if s.Playback != nil {
		counterFunc(factory, "segments_enqueued_total", "Speech segments received by the scheduler",
			func() int64 { return s.Playback().Received })
		counterFunc(factory, "segments_played_total", "Speech segments played to completion",
			func() int64 { return s.Playback().Played })
		counterFunc(factory, "segments_discarded_total", "Speech segments discarded",
			func() int64 { return s.Playback().Dropped })
		factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "playback_queue_depth",
			Help:      "Segments waiting behind the active one",
		}, func() float64 { return float64(s.Playback().Queued) })
	}
}

func counterFunc(factory promauto.Factory, name, help string, fn func() int64) {
	factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, func() float64 { return float64(fn()) })
}

// unknownAction labels tool calls outside the known action set so a peer
// cannot grow the label space
const unknownAction = "unknown"

var knownActions = map[string]bool{
	protocol.ActionFilter:    true,
	protocol.ActionHighlight: true,
	protocol.ActionAddToCart: true,
	protocol.ActionNavigate:  true,
}

// RecordToolCall counts one dispatched tool call
func (m *Metrics) RecordToolCall(action string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	if !knownActions[action] {
		action = unknownAction
	}
	m.ToolCalls.WithLabelValues(action, result).Inc()
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx ends
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("Metrics listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
